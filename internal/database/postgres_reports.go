// internal/database/postgres_reports.go
//
// Report lifecycle, department, and published-content persistence, plus the
// analytics projections the admin dashboard reads.
package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"

	"github.com/google/uuid"
)

// --- Report Methods ---

const reportColumns = `id, user_id, title, description, status, priority, category, assigned_department_id, created_at, updated_at`

// SaveReport inserts a new citizen report.
func (p *PostgresDB) SaveReport(ctx context.Context, report *models.Report) error {
	report.UpdatedAt = time.Now()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = report.UpdatedAt
	}
	query := `
		INSERT INTO reports (` + reportColumns + `)
		VALUES (:id, :user_id, :title, :description, :status, :priority, :category, :assigned_department_id, :created_at, :updated_at)
	`
	_, err := p.DB.NamedExecContext(ctx, query, report)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save report", err)
	}
	return nil
}

// GetReport fetches a report by ID.
func (p *PostgresDB) GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := p.DB.GetContext(ctx, &report, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "report not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query report", err)
	}
	return &report, nil
}

// GetReportsByUser returns the reports a citizen has filed, newest first.
func (p *PostgresDB) GetReportsByUser(ctx context.Context, userID uuid.UUID) ([]*models.Report, error) {
	reports := []*models.Report{}
	err := p.DB.SelectContext(ctx, &reports,
		`SELECT `+reportColumns+` FROM reports WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query reports by user", err)
	}
	return reports, nil
}

// GetAllReports returns every report in the system, newest first.
func (p *PostgresDB) GetAllReports(ctx context.Context) ([]*models.Report, error) {
	reports := []*models.Report{}
	err := p.DB.SelectContext(ctx, &reports,
		`SELECT `+reportColumns+` FROM reports ORDER BY created_at DESC`)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query all reports", err)
	}
	return reports, nil
}

// AssignReport routes a report to a department and forces its status to
// under_review, regardless of the status it was in before.
func (p *PostgresDB) AssignReport(ctx context.Context, reportID, departmentID uuid.UUID) error {
	result, err := p.DB.ExecContext(ctx, `
		UPDATE reports
		SET assigned_department_id = $1, status = $2, updated_at = NOW()
		WHERE id = $3
	`, departmentID, models.ReportUnderReview, reportID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to assign report", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "report not found for assignment", nil)
	}
	return nil
}

// UpdateReportStatus sets a report's status. Transition legality is enforced
// by the caller; this is a plain write.
func (p *PostgresDB) UpdateReportStatus(ctx context.Context, reportID uuid.UUID, status models.ReportStatus) error {
	result, err := p.DB.ExecContext(ctx,
		`UPDATE reports SET status = $1, updated_at = NOW() WHERE id = $2`, status, reportID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update report status", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "report not found for status update", nil)
	}
	return nil
}

// SaveAnonymousReport inserts an anonymous report. No user link is stored.
func (p *PostgresDB) SaveAnonymousReport(ctx context.Context, report *models.AnonymousReport) error {
	if report.SubmittedAt.IsZero() {
		report.SubmittedAt = time.Now()
	}
	_, err := p.DB.NamedExecContext(ctx, `
		INSERT INTO anonymous_reports (id, category, description, submitted_at)
		VALUES (:id, :category, :description, :submitted_at)
	`, report)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save anonymous report", err)
	}
	return nil
}

// GetAllAnonymousReports returns all anonymous reports, newest first. Admin only.
func (p *PostgresDB) GetAllAnonymousReports(ctx context.Context) ([]*models.AnonymousReport, error) {
	reports := []*models.AnonymousReport{}
	err := p.DB.SelectContext(ctx, &reports,
		`SELECT id, category, description, submitted_at FROM anonymous_reports ORDER BY submitted_at DESC`)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query anonymous reports", err)
	}
	return reports, nil
}

// CountReportsByStatus returns report counts grouped by lifecycle status.
func (p *PostgresDB) CountReportsByStatus(ctx context.Context) ([]*models.ReportStatusCount, error) {
	counts := []*models.ReportStatusCount{}
	err := p.DB.SelectContext(ctx, &counts,
		`SELECT status, COUNT(*) AS count FROM reports GROUP BY status ORDER BY count DESC`)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to count reports by status", err)
	}
	return counts, nil
}

// --- Department Methods ---

// SaveDepartment inserts a department. A user may back at most one
// department; a second insert for the same user is a DUPLICATE.
func (p *PostgresDB) SaveDepartment(ctx context.Context, dept *models.Department) error {
	if dept.CreatedAt.IsZero() {
		dept.CreatedAt = time.Now()
	}
	_, err := p.DB.NamedExecContext(ctx, `
		INSERT INTO departments (id, user_id, name, is_active, created_at)
		VALUES (:id, :user_id, :name, :is_active, :created_at)
	`, dept)
	if err != nil {
		if isUniqueViolation(err) {
			return utils.NewAppError(utils.ErrDuplicate, "department already exists for this user", err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to save department", err)
	}
	return nil
}

// GetDepartment fetches a department by ID.
func (p *PostgresDB) GetDepartment(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	var dept models.Department
	err := p.DB.GetContext(ctx, &dept,
		`SELECT id, user_id, name, is_active, created_at FROM departments WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrDepartmentNotFound, "department not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query department", err)
	}
	return &dept, nil
}

// GetAllDepartments returns every department, alphabetically.
func (p *PostgresDB) GetAllDepartments(ctx context.Context) ([]*models.Department, error) {
	departments := []*models.Department{}
	err := p.DB.SelectContext(ctx, &departments,
		`SELECT id, user_id, name, is_active, created_at FROM departments ORDER BY name ASC`)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query departments", err)
	}
	return departments, nil
}

// SetDepartmentActive toggles a department's active flag.
func (p *PostgresDB) SetDepartmentActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := p.DB.ExecContext(ctx,
		`UPDATE departments SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update department active flag", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrDepartmentNotFound, "department not found", nil)
	}
	return nil
}

// GetDepartmentActivity returns per-department assigned report counts, most
// loaded departments first.
func (p *PostgresDB) GetDepartmentActivity(ctx context.Context) ([]*models.DepartmentActivity, error) {
	activity := []*models.DepartmentActivity{}
	err := p.DB.SelectContext(ctx, &activity, `
		SELECT d.id AS department_id, d.name,
		       COUNT(r.id) AS report_count
		FROM departments d
		LEFT JOIN reports r ON r.assigned_department_id = d.id
		GROUP BY d.id, d.name
		ORDER BY report_count DESC, d.name ASC
	`)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query department activity", err)
	}
	return activity, nil
}

// CountActiveDepartments returns how many departments are currently active.
func (p *PostgresDB) CountActiveDepartments(ctx context.Context) (int, error) {
	var count int
	err := p.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM departments WHERE is_active = TRUE`)
	if err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to count active departments", err)
	}
	return count, nil
}

// --- Published Content Methods ---

// SaveProjectUpdate inserts or updates a project update.
func (p *PostgresDB) SaveProjectUpdate(ctx context.Context, update *models.ProjectUpdate) error {
	update.UpdatedAt = time.Now()
	if update.CreatedAt.IsZero() {
		update.CreatedAt = update.UpdatedAt
	}
	_, err := p.DB.NamedExecContext(ctx, `
		INSERT INTO project_updates (id, title, description, author_id, department_id, milestone, status, media_url, created_at, updated_at)
		VALUES (:id, :title, :description, :author_id, :department_id, :milestone, :status, :media_url, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			milestone = EXCLUDED.milestone,
			status = EXCLUDED.status,
			media_url = EXCLUDED.media_url,
			updated_at = EXCLUDED.updated_at
	`, update)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save project update", err)
	}
	return nil
}

// GetProjectUpdates returns a department's project updates, newest first.
func (p *PostgresDB) GetProjectUpdates(ctx context.Context, departmentID uuid.UUID) ([]*models.ProjectUpdate, error) {
	updates := []*models.ProjectUpdate{}
	err := p.DB.SelectContext(ctx, &updates, `
		SELECT id, title, description, author_id, department_id, milestone, status, media_url, created_at, updated_at
		FROM project_updates WHERE department_id = $1 ORDER BY created_at DESC
	`, departmentID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query project updates", err)
	}
	return updates, nil
}

// SavePoll inserts a poll with its options in one transaction.
func (p *PostgresDB) SavePoll(ctx context.Context, poll *models.Poll) error {
	tx, err := p.DB.BeginTxx(ctx, nil)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to begin poll transaction", err)
	}
	defer tx.Rollback()

	if poll.CreatedAt.IsZero() {
		poll.CreatedAt = time.Now()
	}

	if _, err = tx.NamedExecContext(ctx, `
		INSERT INTO polls (id, title, question, created_by, department_id, media_url, created_at)
		VALUES (:id, :title, :question, :created_by, :department_id, :media_url, :created_at)
	`, poll); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save poll", err)
	}

	for i := range poll.Options {
		opt := &poll.Options[i]
		if opt.ID == uuid.Nil {
			opt.ID = uuid.New()
		}
		opt.PollID = poll.ID
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO poll_options (id, poll_id, option_text, votes) VALUES ($1, $2, $3, $4)`,
			opt.ID, opt.PollID, opt.Text, opt.Votes); err != nil {
			return utils.NewAppError(utils.ErrDatabase, "failed to save poll option", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to commit poll transaction", err)
	}
	return nil
}

// GetPoll fetches a poll and its options.
func (p *PostgresDB) GetPoll(ctx context.Context, id uuid.UUID) (*models.Poll, error) {
	var poll models.Poll
	err := p.DB.GetContext(ctx, &poll, `
		SELECT id, title, question, created_by, department_id, media_url, created_at
		FROM polls WHERE id = $1
	`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "poll not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query poll", err)
	}

	if err := p.DB.SelectContext(ctx, &poll.Options,
		`SELECT id, poll_id, option_text, votes FROM poll_options WHERE poll_id = $1 ORDER BY id`, id); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query poll options", err)
	}
	return &poll, nil
}

// GetAllPolls returns every poll with options populated, newest first.
func (p *PostgresDB) GetAllPolls(ctx context.Context) ([]*models.Poll, error) {
	polls := []*models.Poll{}
	err := p.DB.SelectContext(ctx, &polls, `
		SELECT id, title, question, created_by, department_id, media_url, created_at
		FROM polls ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query polls", err)
	}

	for _, poll := range polls {
		if err := p.DB.SelectContext(ctx, &poll.Options,
			`SELECT id, poll_id, option_text, votes FROM poll_options WHERE poll_id = $1 ORDER BY id`, poll.ID); err != nil {
			return nil, utils.NewAppError(utils.ErrDatabase, "failed to query poll options", err)
		}
	}
	return polls, nil
}

// VotePollOption records one user's vote on a poll option. One vote per user
// per poll; a second vote is a DUPLICATE.
func (p *PostgresDB) VotePollOption(ctx context.Context, userID, optionID uuid.UUID) error {
	tx, err := p.DB.BeginTxx(ctx, nil)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to begin poll vote transaction", err)
	}
	defer tx.Rollback()

	var pollID uuid.UUID
	err = tx.GetContext(ctx, &pollID, `SELECT poll_id FROM poll_options WHERE id = $1`, optionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return utils.NewAppError(utils.ErrNotFound, "poll option not found", err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to resolve poll option", err)
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO poll_votes (poll_id, user_id, option_id, created_at) VALUES ($1, $2, $3, NOW())`,
		pollID, userID, optionID); err != nil {
		if isUniqueViolation(err) {
			return utils.NewAppError(utils.ErrDuplicate, "user has already voted on this poll", err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to record poll vote", err)
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE poll_options SET votes = votes + 1 WHERE id = $1`, optionID); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to increment poll option votes", err)
	}

	if err = tx.Commit(); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to commit poll vote transaction", err)
	}
	return nil
}

// SaveGovernmentNotification inserts a department broadcast.
func (p *PostgresDB) SaveGovernmentNotification(ctx context.Context, n *models.GovernmentNotification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	_, err := p.DB.NamedExecContext(ctx, `
		INSERT INTO government_notifications (id, department_id, target_audience, message, is_broadcast, media_url, created_at)
		VALUES (:id, :department_id, :target_audience, :message, :is_broadcast, :media_url, :created_at)
	`, n)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save government notification", err)
	}
	return nil
}

// GetGovernmentNotifications returns all department broadcasts, newest first.
func (p *PostgresDB) GetGovernmentNotifications(ctx context.Context) ([]*models.GovernmentNotification, error) {
	notifications := []*models.GovernmentNotification{}
	err := p.DB.SelectContext(ctx, &notifications, `
		SELECT id, department_id, target_audience, message, is_broadcast, media_url, created_at
		FROM government_notifications ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query government notifications", err)
	}
	return notifications, nil
}

// SaveDepartmentPost inserts a department announcement post.
func (p *PostgresDB) SaveDepartmentPost(ctx context.Context, post *models.DepartmentPost) error {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	_, err := p.DB.NamedExecContext(ctx, `
		INSERT INTO department_posts (id, title, content, author_id, department_id, category, media_url, created_at)
		VALUES (:id, :title, :content, :author_id, :department_id, :category, :media_url, :created_at)
	`, post)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save department post", err)
	}
	return nil
}

// GetDepartmentPosts returns a department's announcement posts, newest first.
func (p *PostgresDB) GetDepartmentPosts(ctx context.Context, departmentID uuid.UUID) ([]*models.DepartmentPost, error) {
	posts := []*models.DepartmentPost{}
	err := p.DB.SelectContext(ctx, &posts, `
		SELECT id, title, content, author_id, department_id, category, media_url, created_at
		FROM department_posts WHERE department_id = $1 ORDER BY created_at DESC
	`, departmentID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query department posts", err)
	}
	return posts, nil
}

// SaveFeedback inserts citizen feedback directed at a department.
func (p *PostgresDB) SaveFeedback(ctx context.Context, fb *models.Feedback) error {
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now()
	}
	_, err := p.DB.NamedExecContext(ctx, `
		INSERT INTO feedback (id, user_id, department_id, project_update_id, content, media_url, created_at)
		VALUES (:id, :user_id, :department_id, :project_update_id, :content, :media_url, :created_at)
	`, fb)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save feedback", err)
	}
	return nil
}

// GetFeedbackForDepartment returns the feedback a department has received,
// newest first.
func (p *PostgresDB) GetFeedbackForDepartment(ctx context.Context, departmentID uuid.UUID) ([]*models.Feedback, error) {
	feedback := []*models.Feedback{}
	err := p.DB.SelectContext(ctx, &feedback, `
		SELECT id, user_id, department_id, project_update_id, content, media_url, created_at
		FROM feedback WHERE department_id = $1 ORDER BY created_at DESC
	`, departmentID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query feedback", err)
	}
	return feedback, nil
}
