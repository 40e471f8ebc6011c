// internal/database/postgres_social.go
//
// Notification and direct-messaging persistence.
package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// --- Notification Methods ---

// SaveNotification inserts a new notification row.
func (p *PostgresDB) SaveNotification(ctx context.Context, n *models.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO notifications (id, user_id, actor_id, message, is_read, created_at)
		VALUES (:id, :user_id, :actor_id, :message, :is_read, :created_at)
	`
	_, err := p.DB.NamedExecContext(ctx, query, n)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save notification", err)
	}
	return nil
}

// GetNotification fetches a single notification by ID.
func (p *PostgresDB) GetNotification(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	err := p.DB.GetContext(ctx, &n,
		`SELECT id, user_id, actor_id, message, is_read, created_at FROM notifications WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "notification not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query notification", err)
	}
	return &n, nil
}

// GetUnreadNotifications returns a user's unread notifications, newest first.
func (p *PostgresDB) GetUnreadNotifications(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	notifications := []*models.Notification{}
	err := p.DB.SelectContext(ctx, &notifications, `
		SELECT id, user_id, actor_id, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1 AND is_read = FALSE
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query unread notifications", err)
	}
	return notifications, nil
}

// MarkNotificationRead flips a notification's read flag. The caller is
// responsible for verifying the requester owns the notification.
func (p *PostgresDB) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	result, err := p.DB.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to mark notification read", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "notification not found", nil)
	}
	return nil
}

// CountUnreadNotifications returns the number of unread notifications for a user.
func (p *PostgresDB) CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := p.DB.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to count unread notifications", err)
	}
	return count, nil
}

// --- Conversation Methods ---

// GetConversationByParticipants looks up the conversation between exactly the
// two given users. Participant order does not matter. Returns NOT_FOUND when
// no conversation exists yet.
func (p *PostgresDB) GetConversationByParticipants(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error) {
	// A user has no conversation with themselves; without this guard the two
	// participant joins below would match the same row.
	if userA == userB {
		return nil, utils.NewAppError(utils.ErrNotFound, "conversation not found", nil)
	}

	var conv struct {
		ID          uuid.UUID `db:"id"`
		LastUpdated time.Time `db:"last_updated"`
	}
	err := p.DB.GetContext(ctx, &conv, `
		SELECT c.id, c.last_updated
		FROM conversations c
		JOIN conversation_participants pa ON pa.conversation_id = c.id AND pa.user_id = $1
		JOIN conversation_participants pb ON pb.conversation_id = c.id AND pb.user_id = $2
		WHERE (SELECT COUNT(*) FROM conversation_participants cp WHERE cp.conversation_id = c.id) = 2
	`, userA, userB)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "conversation not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query conversation by participants", err)
	}
	return &models.Conversation{
		ID:           conv.ID,
		Participants: []uuid.UUID{userA, userB},
		LastUpdated:  conv.LastUpdated,
	}, nil
}

// CreateConversation creates a conversation between two users along with its
// participant rows.
func (p *PostgresDB) CreateConversation(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error) {
	tx, err := p.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to begin conversation transaction", err)
	}
	defer tx.Rollback()

	conv := &models.Conversation{
		ID:           uuid.New(),
		Participants: []uuid.UUID{userA, userB},
		LastUpdated:  time.Now(),
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO conversations (id, last_updated) VALUES ($1, $2)`,
		conv.ID, conv.LastUpdated); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to insert conversation", err)
	}

	for _, participant := range conv.Participants {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO conversation_participants (conversation_id, user_id) VALUES ($1, $2)`,
			conv.ID, participant); err != nil {
			if isUniqueViolation(err) {
				return nil, utils.NewAppError(utils.ErrDuplicate, "duplicate conversation participant", err)
			}
			return nil, utils.NewAppError(utils.ErrDatabase, "failed to insert conversation participant", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to commit conversation transaction", err)
	}
	return conv, nil
}

// SaveMessage appends a message to a conversation and bumps the conversation's
// last_updated in the same transaction so inbox ordering stays consistent.
func (p *PostgresDB) SaveMessage(ctx context.Context, msg *models.Message) error {
	tx, err := p.DB.BeginTxx(ctx, nil)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to begin message transaction", err)
	}
	defer tx.Rollback()

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	if _, err = tx.NamedExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, content, media_url, created_at)
		VALUES (:id, :conversation_id, :sender_id, :content, :media_url, :created_at)
	`, msg); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save message", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE conversations SET last_updated = $1 WHERE id = $2`, msg.CreatedAt, msg.ConversationID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to bump conversation last_updated", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "conversation not found for message", nil)
	}

	if err = tx.Commit(); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to commit message transaction", err)
	}
	return nil
}

// GetConversationMessages returns every message in a conversation, oldest first.
func (p *PostgresDB) GetConversationMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error) {
	messages := []*models.Message{}
	err := p.DB.SelectContext(ctx, &messages, `
		SELECT m.id, m.conversation_id, m.sender_id, u.username AS sender_username,
		       m.content, m.media_url, m.created_at
		FROM messages m
		JOIN users u ON m.sender_id = u.id
		WHERE m.conversation_id = $1
		ORDER BY m.created_at ASC
	`, conversationID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query conversation messages", err)
	}
	return messages, nil
}

// GetUserConversations returns all conversations a user is part of, most
// recently active first, with the participant list populated.
func (p *PostgresDB) GetUserConversations(ctx context.Context, userID uuid.UUID) ([]*models.Conversation, error) {
	rows := []struct {
		ID           uuid.UUID      `db:"id"`
		LastUpdated  time.Time      `db:"last_updated"`
		Participants pq.StringArray `db:"participants"`
	}{}
	err := p.DB.SelectContext(ctx, &rows, `
		SELECT c.id, c.last_updated,
		       ARRAY(SELECT cp.user_id::text FROM conversation_participants cp
		             WHERE cp.conversation_id = c.id) AS participants
		FROM conversations c
		JOIN conversation_participants mine ON mine.conversation_id = c.id
		WHERE mine.user_id = $1
		ORDER BY c.last_updated DESC
	`, userID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query user conversations", err)
	}

	conversations := make([]*models.Conversation, 0, len(rows))
	for _, row := range rows {
		conv := &models.Conversation{
			ID:          row.ID,
			LastUpdated: row.LastUpdated,
		}
		for _, idStr := range row.Participants {
			id, err := uuid.Parse(idStr)
			if err != nil {
				return nil, utils.NewAppError(utils.ErrDatabase, "invalid participant id in conversation", err)
			}
			conv.Participants = append(conv.Participants, id)
		}
		conversations = append(conversations, conv)
	}
	return conversations, nil
}
