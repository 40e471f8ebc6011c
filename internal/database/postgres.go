// internal/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresDB represents a PostgreSQL database connection
type PostgresDB struct {
	DB *sqlx.DB
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sqlx.Connect("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %v", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %v", err)
	}

	log.Println("Successfully connected to PostgreSQL!")

	return &PostgresDB{DB: db}, nil
}

// Close closes the database connection
func (p *PostgresDB) Close(ctx context.Context) error {
	log.Println("Closing PostgreSQL connection...")
	return p.DB.Close()
}

// isUniqueViolation reports whether err is a Postgres unique-constraint error.
func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code.Name() == "unique_violation"
}

// InitializeTables creates all necessary tables if they don't exist
func (p *PostgresDB) InitializeTables(ctx context.Context) error {
	statements := []struct {
		name  string
		query string
	}{
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				id UUID PRIMARY KEY,
				username VARCHAR(50) UNIQUE NOT NULL,
				email VARCHAR(100) UNIQUE NOT NULL,
				password_hash VARCHAR(100) NOT NULL,
				is_citizen BOOLEAN DEFAULT TRUE NOT NULL,
				is_government_admin BOOLEAN DEFAULT FALSE NOT NULL,
				engagement_score INTEGER DEFAULT 0,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			)`},
		{"profiles", `
			CREATE TABLE IF NOT EXISTS profiles (
				id UUID PRIMARY KEY,
				user_id UUID UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				bio TEXT DEFAULT '' NOT NULL,
				avatar_url VARCHAR(255)
			)`},
		{"follows", `
			CREATE TABLE IF NOT EXISTS follows (
				follower_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
				followed_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				PRIMARY KEY (follower_id, followed_id),
				CHECK (follower_id <> followed_id)
			)`},
		{"posts", `
			CREATE TABLE IF NOT EXISTS posts (
				id UUID PRIMARY KEY,
				title VARCHAR(255) NOT NULL,
				content TEXT NOT NULL,
				media_url VARCHAR(255),
				author_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				upvotes INTEGER DEFAULT 0,
				downvotes INTEGER DEFAULT 0,
				share_count INTEGER DEFAULT 0,
				comment_count INTEGER DEFAULT 0
			)`},
		{"comments", `
			CREATE TABLE IF NOT EXISTS comments (
				id UUID PRIMARY KEY,
				content TEXT NOT NULL,
				media_url VARCHAR(255),
				author_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
				parent_id UUID REFERENCES comments(id) ON DELETE CASCADE,
				depth INTEGER DEFAULT 0 NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				upvotes INTEGER DEFAULT 0,
				downvotes INTEGER DEFAULT 0
			)`},
		{"votes", `
			CREATE TABLE IF NOT EXISTS votes (
				id UUID PRIMARY KEY,
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				content_id UUID NOT NULL,
				content_type VARCHAR(20) NOT NULL,
				vote_type VARCHAR(10) NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				UNIQUE(user_id, content_id, content_type)
			)`},
		{"shares", `
			CREATE TABLE IF NOT EXISTS shares (
				post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				PRIMARY KEY (post_id, user_id)
			)`},
		{"notifications", `
			CREATE TABLE IF NOT EXISTS notifications (
				id UUID PRIMARY KEY,
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				actor_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				message TEXT NOT NULL,
				is_read BOOLEAN DEFAULT FALSE NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			)`},
		{"conversations", `
			CREATE TABLE IF NOT EXISTS conversations (
				id UUID PRIMARY KEY,
				last_updated TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			)`},
		{"conversation_participants", `
			CREATE TABLE IF NOT EXISTS conversation_participants (
				conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				PRIMARY KEY (conversation_id, user_id)
			)`},
		{"messages", `
			CREATE TABLE IF NOT EXISTS messages (
				id UUID PRIMARY KEY,
				conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
				sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				content TEXT NOT NULL,
				media_url VARCHAR(255),
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			)`},
		{"departments", `
			CREATE TABLE IF NOT EXISTS departments (
				id UUID PRIMARY KEY,
				user_id UUID UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				name VARCHAR(255) NOT NULL,
				is_active BOOLEAN DEFAULT TRUE NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			)`},
		{"reports", `
			CREATE TABLE IF NOT EXISTS reports (
				id UUID PRIMARY KEY,
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				title VARCHAR(200) NOT NULL,
				description TEXT NOT NULL,
				status VARCHAR(20) DEFAULT 'pending' NOT NULL,
				priority VARCHAR(10) DEFAULT 'medium' NOT NULL,
				category VARCHAR(50) NOT NULL,
				assigned_department_id UUID REFERENCES departments(id) ON DELETE SET NULL,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			)`},
		{"anonymous_reports", `
			CREATE TABLE IF NOT EXISTS anonymous_reports (
				id UUID PRIMARY KEY,
				category VARCHAR(50) NOT NULL,
				description TEXT NOT NULL,
				submitted_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			)`},
		{"project_updates", `
			CREATE TABLE IF NOT EXISTS project_updates (
				id UUID PRIMARY KEY,
				title VARCHAR(255) NOT NULL,
				description TEXT NOT NULL,
				author_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				department_id UUID NOT NULL REFERENCES departments(id) ON DELETE CASCADE,
				milestone VARCHAR(255),
				status VARCHAR(20) DEFAULT 'pending' NOT NULL,
				media_url VARCHAR(255),
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			)`},
		{"polls", `
			CREATE TABLE IF NOT EXISTS polls (
				id UUID PRIMARY KEY,
				title VARCHAR(255) NOT NULL,
				question TEXT NOT NULL,
				created_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				department_id UUID NOT NULL REFERENCES departments(id) ON DELETE CASCADE,
				media_url VARCHAR(255),
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			)`},
		{"poll_options", `
			CREATE TABLE IF NOT EXISTS poll_options (
				id UUID PRIMARY KEY,
				poll_id UUID NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
				option_text VARCHAR(255) NOT NULL,
				votes INTEGER DEFAULT 0
			)`},
		{"poll_votes", `
			CREATE TABLE IF NOT EXISTS poll_votes (
				poll_id UUID NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				option_id UUID NOT NULL REFERENCES poll_options(id) ON DELETE CASCADE,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				PRIMARY KEY (poll_id, user_id)
			)`},
		{"government_notifications", `
			CREATE TABLE IF NOT EXISTS government_notifications (
				id UUID PRIMARY KEY,
				department_id UUID NOT NULL REFERENCES departments(id) ON DELETE CASCADE,
				target_audience TEXT,
				message TEXT NOT NULL,
				is_broadcast BOOLEAN DEFAULT TRUE NOT NULL,
				media_url VARCHAR(255),
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			)`},
		{"department_posts", `
			CREATE TABLE IF NOT EXISTS department_posts (
				id UUID PRIMARY KEY,
				title VARCHAR(255) NOT NULL,
				content TEXT NOT NULL,
				author_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				department_id UUID NOT NULL REFERENCES departments(id) ON DELETE CASCADE,
				category VARCHAR(50) DEFAULT 'general' NOT NULL,
				media_url VARCHAR(255),
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			)`},
		{"feedback", `
			CREATE TABLE IF NOT EXISTS feedback (
				id UUID PRIMARY KEY,
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				department_id UUID NOT NULL REFERENCES departments(id) ON DELETE CASCADE,
				project_update_id UUID REFERENCES project_updates(id) ON DELETE CASCADE,
				content TEXT NOT NULL,
				media_url VARCHAR(255),
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			)`},
	}

	for _, stmt := range statements {
		if _, err := p.DB.ExecContext(ctx, stmt.query); err != nil {
			return fmt.Errorf("failed to create %s table: %v", stmt.name, err)
		}
	}
	return nil
}

// --- User Methods ---

const userColumns = `id, username, email, password_hash, is_citizen, is_government_admin, engagement_score, created_at, updated_at`

// SaveUser inserts a new user into the database.
func (p *PostgresDB) SaveUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.UpdatedAt = now
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}

	query := `
		INSERT INTO users (id, username, email, password_hash, is_citizen, is_government_admin, engagement_score, created_at, updated_at)
		VALUES (:id, :username, :email, :password_hash, :is_citizen, :is_government_admin, :engagement_score, :created_at, :updated_at)
	`
	_, err := p.DB.NamedExecContext(ctx, query, user)
	if err != nil {
		if isUniqueViolation(err) {
			return utils.NewAppError(utils.ErrDuplicate, "user already exists", err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to save user", err)
	}

	// Every user gets an empty profile alongside the account.
	profileQuery := `INSERT INTO profiles (id, user_id) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`
	if _, err := p.DB.ExecContext(ctx, profileQuery, uuid.New(), user.ID); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to create user profile", err)
	}
	return nil
}

// GetUser fetches a user by their ID.
func (p *PostgresDB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var user models.User
	err := p.DB.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrUserNotFound, "user not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query user by id", err)
	}
	return &user, nil
}

// GetUserByEmail fetches a user by their email address.
func (p *PostgresDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	var user models.User
	err := p.DB.GetContext(ctx, &user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrUserNotFound, "user not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query user by email", err)
	}
	return &user, nil
}

// GetAllUsers fetches all users from the database.
func (p *PostgresDB) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	users := []*models.User{}
	err := p.DB.SelectContext(ctx, &users, query)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query all users", err)
	}
	return users, nil
}

// GetSuggestedUsers returns users the given user does not follow yet,
// excluding the user themselves, oldest accounts first.
func (p *PostgresDB) GetSuggestedUsers(ctx context.Context, forUserID uuid.UUID, limit int) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + ` FROM users u
		WHERE u.id <> $1
		AND u.id NOT IN (
			SELECT followed.user_id
			FROM follows f
			JOIN profiles follower ON follower.id = f.follower_id
			JOIN profiles followed ON followed.id = f.followed_id
			WHERE follower.user_id = $1
		)
		ORDER BY u.created_at ASC
		LIMIT $2
	`
	users := []*models.User{}
	err := p.DB.SelectContext(ctx, &users, query, forUserID, limit)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query suggested users", err)
	}
	return users, nil
}

// CountUsers returns the total number of registered users.
func (p *PostgresDB) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := p.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`)
	if err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to count users", err)
	}
	return count, nil
}

// --- Profile and Follow Methods ---

const profileColumns = `
	p.id, p.user_id, u.username, p.bio, p.avatar_url,
	(SELECT COUNT(*) FROM follows WHERE followed_id = p.id) AS followers,
	(SELECT COUNT(*) FROM follows WHERE follower_id = p.id) AS following
`

// GetProfileByUserID fetches the profile belonging to a user.
func (p *PostgresDB) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles p JOIN users u ON u.id = p.user_id WHERE p.user_id = $1`
	var profile models.Profile
	err := p.DB.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "profile not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query profile by user id", err)
	}
	return &profile, nil
}

// UpdateProfile updates the bio and avatar of a user's profile.
func (p *PostgresDB) UpdateProfile(ctx context.Context, userID uuid.UUID, bio string, avatarURL *string) error {
	query := `UPDATE profiles SET bio = $1, avatar_url = COALESCE($2, avatar_url) WHERE user_id = $3`
	result, err := p.DB.ExecContext(ctx, query, bio, avatarURL, userID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update profile", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "profile not found for update", nil)
	}
	return nil
}

// CreateFollow inserts a directed follow edge between two profiles. The
// primary key on (follower_id, followed_id) makes the second writer of the
// same edge fail with DUPLICATE rather than silently succeeding.
func (p *PostgresDB) CreateFollow(ctx context.Context, followerID, followedID uuid.UUID) error {
	query := `INSERT INTO follows (follower_id, followed_id, created_at) VALUES ($1, $2, NOW())`
	_, err := p.DB.ExecContext(ctx, query, followerID, followedID)
	if err != nil {
		if isUniqueViolation(err) {
			return utils.NewAppError(utils.ErrDuplicate, "follow edge already exists", err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to create follow edge", err)
	}
	return nil
}

// DeleteFollow removes a follow edge.
func (p *PostgresDB) DeleteFollow(ctx context.Context, followerID, followedID uuid.UUID) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2`
	result, err := p.DB.ExecContext(ctx, query, followerID, followedID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete follow edge", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "follow edge not found", nil)
	}
	return nil
}

// IsFollowing reports whether the follower profile follows the followed one.
func (p *PostgresDB) IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followed_id = $2)`
	err := p.DB.GetContext(ctx, &exists, query, followerID, followedID)
	if err != nil {
		return false, utils.NewAppError(utils.ErrDatabase, "failed to query follow edge", err)
	}
	return exists, nil
}

// GetFollowing returns the profiles the given profile follows.
func (p *PostgresDB) GetFollowing(ctx context.Context, profileID uuid.UUID) ([]*models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM follows f
		JOIN profiles p ON p.id = f.followed_id
		JOIN users u ON u.id = p.user_id
		WHERE f.follower_id = $1
	`
	profiles := []*models.Profile{}
	err := p.DB.SelectContext(ctx, &profiles, query, profileID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query following set", err)
	}
	return profiles, nil
}

// GetFollowers returns the profiles following the given profile.
func (p *PostgresDB) GetFollowers(ctx context.Context, profileID uuid.UUID) ([]*models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM follows f
		JOIN profiles p ON p.id = f.follower_id
		JOIN users u ON u.id = p.user_id
		WHERE f.followed_id = $1
	`
	profiles := []*models.Profile{}
	err := p.DB.SelectContext(ctx, &profiles, query, profileID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query follower set", err)
	}
	return profiles, nil
}
