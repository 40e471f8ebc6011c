// internal/database/postgres_forum.go
//
// Post, comment, vote and share persistence for the forum.
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
)

// --- Post Methods ---

// SavePost inserts a new post or updates an existing one based on the ID.
func (p *PostgresDB) SavePost(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = post.UpdatedAt
	}

	query := `
		INSERT INTO posts (id, title, content, media_url, author_id, created_at, updated_at)
		VALUES (:id, :title, :content, :media_url, :author_id, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			media_url = EXCLUDED.media_url,
			updated_at = EXCLUDED.updated_at
	`
	// Note: author_id and counters are never changed on conflict

	_, err := p.DB.NamedExecContext(ctx, query, post)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save post", err)
	}
	return nil
}

const postSelect = `
	SELECT
		p.id, p.title, p.content, p.media_url, p.author_id,
		u.username AS author_username,
		p.created_at, p.updated_at, p.upvotes, p.downvotes,
		p.share_count, p.comment_count,
		v.vote_type AS current_user_vote
	FROM posts p
	JOIN users u ON p.author_id = u.id
	LEFT JOIN votes v ON v.content_id = p.id AND v.content_type = 'post' AND v.user_id = `

// GetPost fetches a post by its ID and includes the requesting user's vote status.
func (p *PostgresDB) GetPost(ctx context.Context, postID uuid.UUID, requestingUserID uuid.UUID) (*models.Post, error) {
	query := postSelect + `$2 WHERE p.id = $1`
	var post models.Post
	err := p.DB.GetContext(ctx, &post, query, postID, requestingUserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "post not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query post by id", err)
	}
	return &post, nil
}

// DeletePost removes a post. Comments, votes and shares cascade.
func (p *PostgresDB) DeletePost(ctx context.Context, postID uuid.UUID) error {
	result, err := p.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete post", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "post not found for deletion", nil)
	}
	return nil
}

// GetPostsByAuthor returns the posts of a single author, newest first.
func (p *PostgresDB) GetPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.Post, error) {
	query := postSelect + `$2 WHERE p.author_id = $1 ORDER BY p.created_at DESC`
	posts := []*models.Post{}
	err := p.DB.SelectContext(ctx, &posts, query, authorID, uuid.Nil)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query posts by author", err)
	}
	return posts, nil
}

// GetPostsByAuthors returns all posts by the given authors, newest first,
// unbounded. Used by the feed composer for users with a non-empty follow set.
func (p *PostgresDB) GetPostsByAuthors(ctx context.Context, authorIDs []uuid.UUID, requestingUserID uuid.UUID) ([]*models.Post, error) {
	if len(authorIDs) == 0 {
		return []*models.Post{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT
			p.id, p.title, p.content, p.media_url, p.author_id,
			u.username AS author_username,
			p.created_at, p.updated_at, p.upvotes, p.downvotes,
			p.share_count, p.comment_count,
			v.vote_type AS current_user_vote
		FROM posts p
		JOIN users u ON p.author_id = u.id
		LEFT JOIN votes v ON v.content_id = p.id AND v.content_type = 'post' AND v.user_id = ?
		WHERE p.author_id IN (?)
		ORDER BY p.created_at DESC
	`, requestingUserID, authorIDs)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to build feed query", err)
	}

	query = p.DB.Rebind(query)

	posts := []*models.Post{}
	err = p.DB.SelectContext(ctx, &posts, query, args...)
	if err != nil {
		log.Printf("Error querying feed posts: %v", err)
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query feed posts", err)
	}
	return posts, nil
}

// GetRecentPosts retrieves the most recent posts system-wide. Used as the
// cold-start feed fallback and for discovery views.
func (p *PostgresDB) GetRecentPosts(ctx context.Context, limit int, requestingUserID uuid.UUID) ([]*models.Post, error) {
	query := postSelect + `$2 ORDER BY p.created_at DESC LIMIT $1`
	posts := []*models.Post{}
	err := p.DB.SelectContext(ctx, &posts, query, limit, requestingUserID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query recent posts", err)
	}
	return posts, nil
}

// GetAllPosts retrieves all posts, ordered by creation date. Admin projection.
func (p *PostgresDB) GetAllPosts(ctx context.Context) ([]*models.Post, error) {
	query := postSelect + `$1 ORDER BY p.created_at DESC`
	posts := []*models.Post{}
	err := p.DB.SelectContext(ctx, &posts, query, uuid.Nil)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query all posts", err)
	}
	if posts == nil {
		posts = make([]*models.Post, 0)
	}
	return posts, nil
}

// RecordShare marks a post as shared by a user. Sharing twice is a no-op.
func (p *PostgresDB) RecordShare(ctx context.Context, postID, userID uuid.UUID) error {
	tx, err := p.DB.BeginTxx(ctx, nil)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to begin share transaction", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO shares (post_id, user_id, created_at) VALUES ($1, $2, NOW()) ON CONFLICT (post_id, user_id) DO NOTHING`,
		postID, userID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to record share", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE posts SET share_count = share_count + 1, updated_at = NOW() WHERE id = $1`, postID); err != nil {
			return utils.NewAppError(utils.ErrDatabase, "failed to update share count", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to commit share transaction", err)
	}
	return nil
}

// RecordVote handles inserting, updating, or deleting a vote record and
// updating the tallies on the content and its author's engagement score, all
// in one transaction. A user is never in both voter sets: switching direction
// swaps membership, re-voting the same direction changes nothing.
func (p *PostgresDB) RecordVote(ctx context.Context, userID, contentID uuid.UUID, contentType models.VoteContentType, direction models.VoteDirection) error {
	tx, err := p.DB.BeginTxx(ctx, nil)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to begin transaction", err)
	}
	defer tx.Rollback() // Rollback is ignored if tx is committed.

	var previousVoteType models.VoteDirection
	var existingVoteID uuid.UUID
	var authorID uuid.UUID

	// 1. Determine previous vote and content author
	getVoteQuery := `SELECT id, vote_type FROM votes WHERE user_id = $1 AND content_id = $2 AND content_type = $3`
	err = tx.QueryRowxContext(ctx, getVoteQuery, userID, contentID, contentType).Scan(&existingVoteID, &previousVoteType)
	if err != nil && err != sql.ErrNoRows {
		return utils.NewAppError(utils.ErrDatabase, "failed to check existing vote", err)
	}

	var getAuthorQuery string
	switch contentType {
	case models.PostVote:
		getAuthorQuery = `SELECT author_id FROM posts WHERE id = $1`
	case models.CommentVote:
		getAuthorQuery = `SELECT author_id FROM comments WHERE id = $1`
	default:
		return utils.NewAppError(utils.ErrInvalidInput, "invalid content type for voting", nil)
	}

	err = tx.QueryRowxContext(ctx, getAuthorQuery, contentID).Scan(&authorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return utils.NewAppError(utils.ErrNotFound, fmt.Sprintf("%s not found for voting", contentType), err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to get content author", err)
	}

	// 2. Calculate tally deltas
	if direction != models.VoteUp && direction != models.VoteDown && direction != models.VoteNone {
		return utils.NewAppError(utils.ErrInvalidInput, "invalid vote direction", nil)
	}
	scoreDelta, upvoteDelta, downvoteDelta := voteDeltas(previousVoteType, direction)

	// 3. Update content tallies and author engagement if anything changed
	if upvoteDelta != 0 || downvoteDelta != 0 {
		var updateContentQuery string
		if contentType == models.PostVote {
			updateContentQuery = `UPDATE posts SET upvotes = upvotes + $1, downvotes = downvotes + $2, updated_at = NOW() WHERE id = $3`
		} else {
			updateContentQuery = `UPDATE comments SET upvotes = upvotes + $1, downvotes = downvotes + $2, updated_at = NOW() WHERE id = $3`
		}
		if _, err = tx.ExecContext(ctx, updateContentQuery, upvoteDelta, downvoteDelta, contentID); err != nil {
			return utils.NewAppError(utils.ErrDatabase, "failed to update content vote tallies", err)
		}

		if scoreDelta != 0 {
			updateScoreQuery := `UPDATE users SET engagement_score = engagement_score + $1, updated_at = NOW() WHERE id = $2`
			if _, err = tx.ExecContext(ctx, updateScoreQuery, scoreDelta, authorID); err != nil {
				log.Printf("Warning: Failed to update author (%s) engagement score during vote: %v", authorID, err)
			}
		}
	}

	// 4. Update or delete the vote record
	if direction == models.VoteNone {
		if previousVoteType != "" {
			if _, err = tx.ExecContext(ctx, `DELETE FROM votes WHERE id = $1`, existingVoteID); err != nil {
				return utils.NewAppError(utils.ErrDatabase, "failed to delete vote record", err)
			}
		}
	} else {
		upsertQuery := `
			INSERT INTO votes (id, user_id, content_id, content_type, vote_type, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (user_id, content_id, content_type) DO UPDATE SET
				vote_type = EXCLUDED.vote_type,
				created_at = NOW()
		`
		voteID := existingVoteID
		if voteID == uuid.Nil {
			voteID = uuid.New()
		}
		if _, err = tx.ExecContext(ctx, upsertQuery, voteID, userID, contentID, contentType, direction); err != nil {
			return utils.NewAppError(utils.ErrDatabase, "failed to upsert vote record", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to commit vote transaction", err)
	}
	return nil
}

// CountPostsByAuthor returns how many posts a user has authored.
func (p *PostgresDB) CountPostsByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	var count int
	err := p.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID)
	if err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to count posts by author", err)
	}
	return count, nil
}

// --- Comment Methods ---

// SaveComment inserts a new comment or updates an existing one. New comments
// increment the comment_count on the associated post in the same transaction.
func (p *PostgresDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	tx, err := p.DB.BeginTxx(ctx, nil)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to begin transaction for save comment", err)
	}
	defer tx.Rollback()

	comment.UpdatedAt = time.Now()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = comment.UpdatedAt
	}

	var exists bool
	err = tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM comments WHERE id = $1)`, comment.ID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to check for existing comment", err)
	}

	commentQuery := `
		INSERT INTO comments (id, content, media_url, author_id, post_id, parent_id, depth, created_at, updated_at)
		VALUES (:id, :content, :media_url, :author_id, :post_id, :parent_id, :depth, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			media_url = EXCLUDED.media_url,
			updated_at = EXCLUDED.updated_at
	`
	// Note: author_id, post_id, parent_id and depth are immutable on conflict

	if _, err = tx.NamedExecContext(ctx, commentQuery, comment); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save comment", err)
	}

	if !exists {
		updatePostCountQuery := `UPDATE posts SET comment_count = comment_count + 1, updated_at = NOW() WHERE id = $1`
		countResult, err := tx.ExecContext(ctx, updatePostCountQuery, comment.PostID)
		if err != nil {
			return utils.NewAppError(utils.ErrDatabase, "failed to update post comment_count", err)
		}
		rowsAffected, _ := countResult.RowsAffected()
		if rowsAffected == 0 {
			return utils.NewAppError(utils.ErrNotFound, fmt.Sprintf("post %s not found to update comment count", comment.PostID), nil)
		}
	}

	return tx.Commit()
}

const commentSelect = `
	SELECT
		c.id, c.content, c.media_url, c.author_id, u.username AS author_username,
		c.post_id, c.parent_id, c.depth, c.created_at, c.updated_at,
		c.upvotes, c.downvotes,
		v.vote_type AS current_user_vote
	FROM comments c
	JOIN users u ON c.author_id = u.id
	LEFT JOIN votes v ON v.content_id = c.id AND v.content_type = 'comment' AND v.user_id = `

// GetComment fetches a single comment by its ID.
func (p *PostgresDB) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	query := commentSelect + `$2 WHERE c.id = $1`
	var comment models.Comment
	err := p.DB.GetContext(ctx, &comment, query, id, uuid.Nil)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "comment not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query comment by id", err)
	}
	return &comment, nil
}

// GetTopLevelComments fetches the comments with no parent under a post,
// newest first.
func (p *PostgresDB) GetTopLevelComments(ctx context.Context, postID uuid.UUID, requestingUserID uuid.UUID) ([]*models.Comment, error) {
	query := commentSelect + `$2 WHERE c.post_id = $1 AND c.parent_id IS NULL ORDER BY c.created_at DESC`
	comments := []*models.Comment{}
	err := p.DB.SelectContext(ctx, &comments, query, postID, requestingUserID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query top-level comments", err)
	}
	return comments, nil
}

// GetReplies fetches the direct children of a comment, oldest first. Callers
// recurse for deeper levels.
func (p *PostgresDB) GetReplies(ctx context.Context, commentID uuid.UUID, requestingUserID uuid.UUID) ([]*models.Comment, error) {
	query := commentSelect + `$2 WHERE c.parent_id = $1 ORDER BY c.created_at ASC`
	comments := []*models.Comment{}
	err := p.DB.SelectContext(ctx, &comments, query, commentID, requestingUserID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query replies", err)
	}
	return comments, nil
}

// DeleteCommentAndDecrementCount performs a hard delete of a comment and
// decrements the comment_count on the post. Child comments cascade at the
// storage layer.
func (p *PostgresDB) DeleteCommentAndDecrementCount(ctx context.Context, commentID uuid.UUID) error {
	tx, err := p.DB.BeginTxx(ctx, nil)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to begin transaction for delete comment", err)
	}
	defer tx.Rollback()

	var postID uuid.UUID
	err = tx.GetContext(ctx, &postID, `SELECT post_id FROM comments WHERE id = $1`, commentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return utils.NewAppError(utils.ErrNotFound, fmt.Sprintf("comment %s not found for deletion", commentID), err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to get post_id from comment for deletion", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentID); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete comment", err)
	}

	updatePostCountQuery := `UPDATE posts SET comment_count = GREATEST(0, comment_count - 1), updated_at = NOW() WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updatePostCountQuery, postID); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update post comment_count after deleting comment", err)
	}

	return tx.Commit()
}

// CountCommentsByAuthor returns how many comments a user has authored.
func (p *PostgresDB) CountCommentsByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	var count int
	err := p.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM comments WHERE author_id = $1`, authorID)
	if err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to count comments by author", err)
	}
	return count, nil
}
