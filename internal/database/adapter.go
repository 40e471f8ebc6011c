package database

import (
	"context"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"

	"github.com/google/uuid"
)

// DBAdapter defines the common interface for database operations. PostgresDB
// is the production backend; MemoryDB backs tests and local development.
type DBAdapter interface {
	// Connection
	Close(ctx context.Context) error

	// User methods
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	GetSuggestedUsers(ctx context.Context, forUserID uuid.UUID, limit int) ([]*models.User, error)
	CountUsers(ctx context.Context) (int, error)

	// Profile and follow graph methods
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, bio string, avatarURL *string) error
	CreateFollow(ctx context.Context, followerID, followedID uuid.UUID) error
	DeleteFollow(ctx context.Context, followerID, followedID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)
	GetFollowing(ctx context.Context, profileID uuid.UUID) ([]*models.Profile, error)
	GetFollowers(ctx context.Context, profileID uuid.UUID) ([]*models.Profile, error)

	// Post methods
	SavePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, postID uuid.UUID, requestingUserID uuid.UUID) (*models.Post, error)
	DeletePost(ctx context.Context, postID uuid.UUID) error
	GetPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.Post, error)
	GetPostsByAuthors(ctx context.Context, authorIDs []uuid.UUID, requestingUserID uuid.UUID) ([]*models.Post, error)
	GetRecentPosts(ctx context.Context, limit int, requestingUserID uuid.UUID) ([]*models.Post, error)
	GetAllPosts(ctx context.Context) ([]*models.Post, error)
	RecordShare(ctx context.Context, postID, userID uuid.UUID) error
	RecordVote(ctx context.Context, userID, contentID uuid.UUID, contentType models.VoteContentType, direction models.VoteDirection) error
	CountPostsByAuthor(ctx context.Context, authorID uuid.UUID) (int, error)

	// Comment methods
	SaveComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	GetTopLevelComments(ctx context.Context, postID uuid.UUID, requestingUserID uuid.UUID) ([]*models.Comment, error)
	GetReplies(ctx context.Context, commentID uuid.UUID, requestingUserID uuid.UUID) ([]*models.Comment, error)
	DeleteCommentAndDecrementCount(ctx context.Context, commentID uuid.UUID) error
	CountCommentsByAuthor(ctx context.Context, authorID uuid.UUID) (int, error)

	// Notification methods
	SaveNotification(ctx context.Context, n *models.Notification) error
	GetNotification(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	GetUnreadNotifications(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID) error
	CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int, error)

	// Conversation and message methods
	GetConversationByParticipants(ctx context.Context, a, b uuid.UUID) (*models.Conversation, error)
	CreateConversation(ctx context.Context, a, b uuid.UUID) (*models.Conversation, error)
	SaveMessage(ctx context.Context, msg *models.Message) error
	GetConversationMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error)
	GetUserConversations(ctx context.Context, userID uuid.UUID) ([]*models.Conversation, error)

	// Report methods
	SaveReport(ctx context.Context, report *models.Report) error
	GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error)
	GetReportsByUser(ctx context.Context, userID uuid.UUID) ([]*models.Report, error)
	GetAllReports(ctx context.Context) ([]*models.Report, error)
	AssignReport(ctx context.Context, reportID, departmentID uuid.UUID) error
	UpdateReportStatus(ctx context.Context, reportID uuid.UUID, status models.ReportStatus) error
	SaveAnonymousReport(ctx context.Context, report *models.AnonymousReport) error
	GetAllAnonymousReports(ctx context.Context) ([]*models.AnonymousReport, error)
	CountReportsByStatus(ctx context.Context) ([]*models.ReportStatusCount, error)

	// Department methods
	SaveDepartment(ctx context.Context, d *models.Department) error
	GetDepartment(ctx context.Context, id uuid.UUID) (*models.Department, error)
	GetAllDepartments(ctx context.Context) ([]*models.Department, error)
	SetDepartmentActive(ctx context.Context, id uuid.UUID, active bool) error
	GetDepartmentActivity(ctx context.Context) ([]*models.DepartmentActivity, error)
	CountActiveDepartments(ctx context.Context) (int, error)

	// Department-published content
	SaveProjectUpdate(ctx context.Context, u *models.ProjectUpdate) error
	GetProjectUpdates(ctx context.Context, departmentID uuid.UUID) ([]*models.ProjectUpdate, error)
	SavePoll(ctx context.Context, p *models.Poll) error
	GetPoll(ctx context.Context, id uuid.UUID) (*models.Poll, error)
	GetAllPolls(ctx context.Context) ([]*models.Poll, error)
	VotePollOption(ctx context.Context, userID, optionID uuid.UUID) error
	SaveGovernmentNotification(ctx context.Context, n *models.GovernmentNotification) error
	GetGovernmentNotifications(ctx context.Context) ([]*models.GovernmentNotification, error)
	SaveDepartmentPost(ctx context.Context, p *models.DepartmentPost) error
	GetDepartmentPosts(ctx context.Context, departmentID uuid.UUID) ([]*models.DepartmentPost, error)
	SaveFeedback(ctx context.Context, f *models.Feedback) error
	GetFeedbackForDepartment(ctx context.Context, departmentID uuid.UUID) ([]*models.Feedback, error)
}
