// internal/database/memory.go
//
// MemoryDB is an in-memory DBAdapter used for local development (DB_TYPE=memory)
// and for tests. It mirrors the PostgreSQL adapter's semantics: same error
// codes, same ordering guarantees, same tally bookkeeping.
package database

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"

	"github.com/google/uuid"
)

type voteKey struct {
	UserID      uuid.UUID
	ContentID   uuid.UUID
	ContentType models.VoteContentType
}

type shareKey struct {
	PostID uuid.UUID
	UserID uuid.UUID
}

type followKey struct {
	FollowerID uuid.UUID
	FollowedID uuid.UUID
}

type pollVoteKey struct {
	PollID uuid.UUID
	UserID uuid.UUID
}

// MemoryDB implements DBAdapter entirely in process memory.
type MemoryDB struct {
	mu sync.RWMutex

	users           map[uuid.UUID]*models.User
	usersByEmail    map[string]uuid.UUID
	usersByUsername map[string]uuid.UUID
	profiles        map[uuid.UUID]*models.Profile // keyed by profile ID
	profileByUser   map[uuid.UUID]uuid.UUID       // user ID -> profile ID
	follows         map[followKey]time.Time       // keyed by profile IDs

	posts    map[uuid.UUID]*models.Post
	comments map[uuid.UUID]*models.Comment
	votes    map[voteKey]models.VoteDirection
	shares   map[shareKey]bool

	notifications map[uuid.UUID]*models.Notification

	conversations map[uuid.UUID]*models.Conversation
	messages      map[uuid.UUID][]*models.Message // keyed by conversation ID

	reports          map[uuid.UUID]*models.Report
	anonymousReports map[uuid.UUID]*models.AnonymousReport

	departments     map[uuid.UUID]*models.Department
	projectUpdates  map[uuid.UUID]*models.ProjectUpdate
	polls           map[uuid.UUID]*models.Poll
	pollVotes       map[pollVoteKey]bool
	govNotification []*models.GovernmentNotification
	departmentPosts map[uuid.UUID]*models.DepartmentPost
	feedback        []*models.Feedback
}

// NewMemoryDB constructs an empty in-memory store.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		users:            make(map[uuid.UUID]*models.User),
		usersByEmail:     make(map[string]uuid.UUID),
		usersByUsername:  make(map[string]uuid.UUID),
		profiles:         make(map[uuid.UUID]*models.Profile),
		profileByUser:    make(map[uuid.UUID]uuid.UUID),
		follows:          make(map[followKey]time.Time),
		posts:            make(map[uuid.UUID]*models.Post),
		comments:         make(map[uuid.UUID]*models.Comment),
		votes:            make(map[voteKey]models.VoteDirection),
		shares:           make(map[shareKey]bool),
		notifications:    make(map[uuid.UUID]*models.Notification),
		conversations:    make(map[uuid.UUID]*models.Conversation),
		messages:         make(map[uuid.UUID][]*models.Message),
		reports:          make(map[uuid.UUID]*models.Report),
		anonymousReports: make(map[uuid.UUID]*models.AnonymousReport),
		departments:      make(map[uuid.UUID]*models.Department),
		projectUpdates:   make(map[uuid.UUID]*models.ProjectUpdate),
		polls:            make(map[uuid.UUID]*models.Poll),
		pollVotes:        make(map[pollVoteKey]bool),
		departmentPosts:  make(map[uuid.UUID]*models.DepartmentPost),
	}
}

// Close is a no-op for the in-memory store.
func (m *MemoryDB) Close(ctx context.Context) error { return nil }

// --- User Methods ---

func (m *MemoryDB) SaveUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(user.Email)
	if existingID, ok := m.usersByEmail[email]; ok && existingID != user.ID {
		return utils.NewAppError(utils.ErrDuplicate, "email already registered", nil)
	}
	if existingID, ok := m.usersByUsername[user.Username]; ok && existingID != user.ID {
		return utils.NewAppError(utils.ErrDuplicate, "username already taken", nil)
	}

	user.UpdatedAt = time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = user.UpdatedAt
	}

	stored := *user
	m.users[user.ID] = &stored
	m.usersByEmail[email] = user.ID
	m.usersByUsername[user.Username] = user.ID

	if _, ok := m.profileByUser[user.ID]; !ok {
		profileID := uuid.New()
		m.profiles[profileID] = &models.Profile{
			ID:       profileID,
			UserID:   user.ID,
			Username: user.Username,
		}
		m.profileByUser[user.ID] = profileID
	}
	return nil
}

func (m *MemoryDB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, utils.NewUserNotFoundError(id.String())
	}
	copied := *user
	return &copied, nil
}

func (m *MemoryDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.usersByEmail[strings.ToLower(email)]
	if !ok {
		return nil, utils.NewUserNotFoundError(email)
	}
	copied := *m.users[id]
	return &copied, nil
}

func (m *MemoryDB) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		copied := *u
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (m *MemoryDB) GetSuggestedUsers(ctx context.Context, forUserID uuid.UUID, limit int) ([]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	myProfileID := m.profileByUser[forUserID]

	candidates := make([]*models.User, 0)
	for _, u := range m.users {
		if u.ID == forUserID {
			continue
		}
		theirProfileID := m.profileByUser[u.ID]
		if _, followed := m.follows[followKey{FollowerID: myProfileID, FollowedID: theirProfileID}]; followed {
			continue
		}
		copied := *u
		candidates = append(candidates, &copied)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].CreatedAt.Before(candidates[j].CreatedAt) })
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func (m *MemoryDB) CountUsers(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

// --- Profile and Follow Methods ---

func (m *MemoryDB) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profileID, ok := m.profileByUser[userID]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "profile not found", nil)
	}
	return m.profileSnapshot(profileID), nil
}

// profileSnapshot copies a profile and fills in its live follower/following
// counts. Caller must hold at least a read lock.
func (m *MemoryDB) profileSnapshot(profileID uuid.UUID) *models.Profile {
	copied := *m.profiles[profileID]
	for key := range m.follows {
		if key.FollowedID == profileID {
			copied.Followers++
		}
		if key.FollowerID == profileID {
			copied.Following++
		}
	}
	return &copied
}

func (m *MemoryDB) UpdateProfile(ctx context.Context, userID uuid.UUID, bio string, avatarURL *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	profileID, ok := m.profileByUser[userID]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "profile not found", nil)
	}
	profile := m.profiles[profileID]
	profile.Bio = bio
	if avatarURL != nil {
		profile.AvatarURL = avatarURL
	}
	return nil
}

func (m *MemoryDB) CreateFollow(ctx context.Context, followerID, followedID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[followerID]; !ok {
		return utils.NewAppError(utils.ErrNotFound, "follower profile not found", nil)
	}
	if _, ok := m.profiles[followedID]; !ok {
		return utils.NewAppError(utils.ErrNotFound, "followed profile not found", nil)
	}

	key := followKey{FollowerID: followerID, FollowedID: followedID}
	if _, exists := m.follows[key]; exists {
		return utils.NewAppError(utils.ErrDuplicate, "already following this profile", nil)
	}
	m.follows[key] = time.Now()
	return nil
}

func (m *MemoryDB) DeleteFollow(ctx context.Context, followerID, followedID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := followKey{FollowerID: followerID, FollowedID: followedID}
	if _, exists := m.follows[key]; !exists {
		return utils.NewAppError(utils.ErrNotFound, "follow relationship not found", nil)
	}
	delete(m.follows, key)
	return nil
}

func (m *MemoryDB) IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.follows[followKey{FollowerID: followerID, FollowedID: followedID}]
	return exists, nil
}

func (m *MemoryDB) GetFollowing(ctx context.Context, profileID uuid.UUID) ([]*models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profiles := []*models.Profile{}
	for key := range m.follows {
		if key.FollowerID == profileID {
			profiles = append(profiles, m.profileSnapshot(key.FollowedID))
		}
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Username < profiles[j].Username })
	return profiles, nil
}

func (m *MemoryDB) GetFollowers(ctx context.Context, profileID uuid.UUID) ([]*models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profiles := []*models.Profile{}
	for key := range m.follows {
		if key.FollowedID == profileID {
			profiles = append(profiles, m.profileSnapshot(key.FollowerID))
		}
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Username < profiles[j].Username })
	return profiles, nil
}

// --- Post Methods ---

func (m *MemoryDB) SavePost(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	post.UpdatedAt = time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = post.UpdatedAt
	}
	if existing, ok := m.posts[post.ID]; ok {
		existing.Title = post.Title
		existing.Content = post.Content
		existing.MediaURL = post.MediaURL
		existing.UpdatedAt = post.UpdatedAt
		return nil
	}
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

// postSnapshot copies a post with the author's username and the requesting
// user's vote direction resolved. Caller must hold at least a read lock.
func (m *MemoryDB) postSnapshot(post *models.Post, requestingUserID uuid.UUID) *models.Post {
	copied := *post
	if author, ok := m.users[post.AuthorID]; ok {
		copied.AuthorUsername = author.Username
	}
	if requestingUserID != uuid.Nil {
		if dir, ok := m.votes[voteKey{UserID: requestingUserID, ContentID: post.ID, ContentType: models.PostVote}]; ok {
			s := string(dir)
			copied.CurrentUserVote = &s
		}
	}
	return &copied
}

func (m *MemoryDB) GetPost(ctx context.Context, postID uuid.UUID, requestingUserID uuid.UUID) (*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	post, ok := m.posts[postID]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "post not found", nil)
	}
	return m.postSnapshot(post, requestingUserID), nil
}

func (m *MemoryDB) DeletePost(ctx context.Context, postID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[postID]; !ok {
		return utils.NewAppError(utils.ErrNotFound, "post not found for deletion", nil)
	}
	delete(m.posts, postID)
	for id, c := range m.comments {
		if c.PostID == postID {
			delete(m.comments, id)
		}
	}
	for key := range m.votes {
		if key.ContentID == postID && key.ContentType == models.PostVote {
			delete(m.votes, key)
		}
	}
	for key := range m.shares {
		if key.PostID == postID {
			delete(m.shares, key)
		}
	}
	return nil
}

func sortPostsNewestFirst(posts []*models.Post) {
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
}

func (m *MemoryDB) GetPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posts := []*models.Post{}
	for _, p := range m.posts {
		if p.AuthorID == authorID {
			posts = append(posts, m.postSnapshot(p, uuid.Nil))
		}
	}
	sortPostsNewestFirst(posts)
	return posts, nil
}

func (m *MemoryDB) GetPostsByAuthors(ctx context.Context, authorIDs []uuid.UUID, requestingUserID uuid.UUID) ([]*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[uuid.UUID]bool, len(authorIDs))
	for _, id := range authorIDs {
		wanted[id] = true
	}

	posts := []*models.Post{}
	for _, p := range m.posts {
		if wanted[p.AuthorID] {
			posts = append(posts, m.postSnapshot(p, requestingUserID))
		}
	}
	sortPostsNewestFirst(posts)
	return posts, nil
}

func (m *MemoryDB) GetRecentPosts(ctx context.Context, limit int, requestingUserID uuid.UUID) ([]*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posts := []*models.Post{}
	for _, p := range m.posts {
		posts = append(posts, m.postSnapshot(p, requestingUserID))
	}
	sortPostsNewestFirst(posts)
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (m *MemoryDB) GetAllPosts(ctx context.Context) ([]*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posts := []*models.Post{}
	for _, p := range m.posts {
		posts = append(posts, m.postSnapshot(p, uuid.Nil))
	}
	sortPostsNewestFirst(posts)
	return posts, nil
}

func (m *MemoryDB) RecordShare(ctx context.Context, postID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[postID]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "post not found", nil)
	}
	key := shareKey{PostID: postID, UserID: userID}
	if m.shares[key] {
		return nil
	}
	m.shares[key] = true
	post.ShareCount++
	return nil
}

func (m *MemoryDB) RecordVote(ctx context.Context, userID, contentID uuid.UUID, contentType models.VoteContentType, direction models.VoteDirection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if direction != models.VoteUp && direction != models.VoteDown && direction != models.VoteNone {
		return utils.NewAppError(utils.ErrInvalidInput, "invalid vote direction", nil)
	}

	var authorID uuid.UUID
	var upvotes, downvotes *int
	switch contentType {
	case models.PostVote:
		post, ok := m.posts[contentID]
		if !ok {
			return utils.NewAppError(utils.ErrNotFound, "post not found for voting", nil)
		}
		authorID = post.AuthorID
		upvotes, downvotes = &post.Upvotes, &post.Downvotes
	case models.CommentVote:
		comment, ok := m.comments[contentID]
		if !ok {
			return utils.NewAppError(utils.ErrNotFound, "comment not found for voting", nil)
		}
		authorID = comment.AuthorID
		upvotes, downvotes = &comment.Upvotes, &comment.Downvotes
	default:
		return utils.NewAppError(utils.ErrInvalidInput, "invalid content type for voting", nil)
	}

	key := voteKey{UserID: userID, ContentID: contentID, ContentType: contentType}
	previous := m.votes[key]

	scoreDelta, upvoteDelta, downvoteDelta := voteDeltas(previous, direction)
	*upvotes += upvoteDelta
	*downvotes += downvoteDelta
	if author, ok := m.users[authorID]; ok {
		author.EngagementScore += scoreDelta
	}

	if direction == models.VoteNone {
		delete(m.votes, key)
	} else {
		m.votes[key] = direction
	}
	return nil
}

func (m *MemoryDB) CountPostsByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, p := range m.posts {
		if p.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

// --- Comment Methods ---

func (m *MemoryDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	comment.UpdatedAt = time.Now()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = comment.UpdatedAt
	}

	if existing, ok := m.comments[comment.ID]; ok {
		existing.Content = comment.Content
		existing.MediaURL = comment.MediaURL
		existing.UpdatedAt = comment.UpdatedAt
		return nil
	}

	post, ok := m.posts[comment.PostID]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "post not found for comment", nil)
	}

	stored := *comment
	m.comments[comment.ID] = &stored
	post.CommentCount++
	return nil
}

func (m *MemoryDB) commentSnapshot(comment *models.Comment, requestingUserID uuid.UUID) *models.Comment {
	copied := *comment
	if author, ok := m.users[comment.AuthorID]; ok {
		copied.AuthorUsername = author.Username
	}
	if requestingUserID != uuid.Nil {
		if dir, ok := m.votes[voteKey{UserID: requestingUserID, ContentID: comment.ID, ContentType: models.CommentVote}]; ok {
			s := string(dir)
			copied.CurrentUserVote = &s
		}
	}
	return &copied
}

func (m *MemoryDB) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	comment, ok := m.comments[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "comment not found", nil)
	}
	return m.commentSnapshot(comment, uuid.Nil), nil
}

func (m *MemoryDB) GetTopLevelComments(ctx context.Context, postID uuid.UUID, requestingUserID uuid.UUID) ([]*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	comments := []*models.Comment{}
	for _, c := range m.comments {
		if c.PostID == postID && c.ParentID == nil {
			comments = append(comments, m.commentSnapshot(c, requestingUserID))
		}
	}
	// Top-level comments are newest first
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.After(comments[j].CreatedAt) })
	return comments, nil
}

func (m *MemoryDB) GetReplies(ctx context.Context, commentID uuid.UUID, requestingUserID uuid.UUID) ([]*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	comments := []*models.Comment{}
	for _, c := range m.comments {
		if c.ParentID != nil && *c.ParentID == commentID {
			comments = append(comments, m.commentSnapshot(c, requestingUserID))
		}
	}
	// Replies read top to bottom, oldest first
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })
	return comments, nil
}

func (m *MemoryDB) DeleteCommentAndDecrementCount(ctx context.Context, commentID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	comment, ok := m.comments[commentID]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "comment not found for deletion", nil)
	}

	// Collect the whole subtree the way the relational cascade would.
	toDelete := []uuid.UUID{commentID}
	for i := 0; i < len(toDelete); i++ {
		for id, c := range m.comments {
			if c.ParentID != nil && *c.ParentID == toDelete[i] {
				toDelete = append(toDelete, id)
			}
		}
	}
	for _, id := range toDelete {
		delete(m.comments, id)
		for key := range m.votes {
			if key.ContentID == id && key.ContentType == models.CommentVote {
				delete(m.votes, key)
			}
		}
	}

	if post, ok := m.posts[comment.PostID]; ok && post.CommentCount > 0 {
		post.CommentCount--
	}
	return nil
}

func (m *MemoryDB) CountCommentsByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, c := range m.comments {
		if c.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

// --- Notification Methods ---

func (m *MemoryDB) SaveNotification(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	stored := *n
	m.notifications[n.ID] = &stored
	return nil
}

func (m *MemoryDB) GetNotification(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.notifications[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "notification not found", nil)
	}
	copied := *n
	return &copied, nil
}

func (m *MemoryDB) GetUnreadNotifications(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	notifications := []*models.Notification{}
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			copied := *n
			notifications = append(notifications, &copied)
		}
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (m *MemoryDB) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notifications[id]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "notification not found", nil)
	}
	n.IsRead = true
	return nil
}

func (m *MemoryDB) CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// --- Conversation Methods ---

func (m *MemoryDB) GetConversationByParticipants(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, conv := range m.conversations {
		if len(conv.Participants) != 2 {
			continue
		}
		a, b := conv.Participants[0], conv.Participants[1]
		if (a == userA && b == userB) || (a == userB && b == userA) {
			copied := *conv
			copied.Participants = append([]uuid.UUID(nil), conv.Participants...)
			return &copied, nil
		}
	}
	return nil, utils.NewAppError(utils.ErrNotFound, "conversation not found", nil)
}

func (m *MemoryDB) CreateConversation(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv := &models.Conversation{
		ID:           uuid.New(),
		Participants: []uuid.UUID{userA, userB},
		LastUpdated:  time.Now(),
	}
	m.conversations[conv.ID] = conv

	copied := *conv
	copied.Participants = append([]uuid.UUID(nil), conv.Participants...)
	return &copied, nil
}

func (m *MemoryDB) SaveMessage(ctx context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv, ok := m.conversations[msg.ConversationID]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "conversation not found for message", nil)
	}

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	if sender, ok := m.users[msg.SenderID]; ok {
		msg.SenderUsername = sender.Username
	}

	stored := *msg
	m.messages[msg.ConversationID] = append(m.messages[msg.ConversationID], &stored)
	conv.LastUpdated = msg.CreatedAt
	return nil
}

func (m *MemoryDB) GetConversationMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.messages[conversationID]
	messages := make([]*models.Message, 0, len(stored))
	for _, msg := range stored {
		copied := *msg
		messages = append(messages, &copied)
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].CreatedAt.Before(messages[j].CreatedAt) })
	return messages, nil
}

func (m *MemoryDB) GetUserConversations(ctx context.Context, userID uuid.UUID) ([]*models.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conversations := []*models.Conversation{}
	for _, conv := range m.conversations {
		for _, p := range conv.Participants {
			if p == userID {
				copied := *conv
				copied.Participants = append([]uuid.UUID(nil), conv.Participants...)
				conversations = append(conversations, &copied)
				break
			}
		}
	}
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastUpdated.After(conversations[j].LastUpdated)
	})
	return conversations, nil
}

// --- Report Methods ---

func (m *MemoryDB) SaveReport(ctx context.Context, report *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	report.UpdatedAt = time.Now()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = report.UpdatedAt
	}
	stored := *report
	m.reports[report.ID] = &stored
	return nil
}

func (m *MemoryDB) GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	report, ok := m.reports[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "report not found", nil)
	}
	copied := *report
	return &copied, nil
}

func (m *MemoryDB) GetReportsByUser(ctx context.Context, userID uuid.UUID) ([]*models.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reports := []*models.Report{}
	for _, r := range m.reports {
		if r.UserID == userID {
			copied := *r
			reports = append(reports, &copied)
		}
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].CreatedAt.After(reports[j].CreatedAt) })
	return reports, nil
}

func (m *MemoryDB) GetAllReports(ctx context.Context) ([]*models.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reports := []*models.Report{}
	for _, r := range m.reports {
		copied := *r
		reports = append(reports, &copied)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].CreatedAt.After(reports[j].CreatedAt) })
	return reports, nil
}

func (m *MemoryDB) AssignReport(ctx context.Context, reportID, departmentID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	report, ok := m.reports[reportID]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "report not found for assignment", nil)
	}
	deptID := departmentID
	report.AssignedDepartmentID = &deptID
	report.Status = models.ReportUnderReview
	report.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryDB) UpdateReportStatus(ctx context.Context, reportID uuid.UUID, status models.ReportStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	report, ok := m.reports[reportID]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "report not found for status update", nil)
	}
	report.Status = status
	report.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryDB) SaveAnonymousReport(ctx context.Context, report *models.AnonymousReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if report.SubmittedAt.IsZero() {
		report.SubmittedAt = time.Now()
	}
	stored := *report
	m.anonymousReports[report.ID] = &stored
	return nil
}

func (m *MemoryDB) GetAllAnonymousReports(ctx context.Context) ([]*models.AnonymousReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reports := []*models.AnonymousReport{}
	for _, r := range m.anonymousReports {
		copied := *r
		reports = append(reports, &copied)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].SubmittedAt.After(reports[j].SubmittedAt) })
	return reports, nil
}

func (m *MemoryDB) CountReportsByStatus(ctx context.Context) ([]*models.ReportStatusCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byStatus := map[models.ReportStatus]int{}
	for _, r := range m.reports {
		byStatus[r.Status]++
	}
	counts := make([]*models.ReportStatusCount, 0, len(byStatus))
	for status, count := range byStatus {
		counts = append(counts, &models.ReportStatusCount{Status: status, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Status < counts[j].Status
	})
	return counts, nil
}

// --- Department Methods ---

func (m *MemoryDB) SaveDepartment(ctx context.Context, dept *models.Department) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range m.departments {
		if d.Name == dept.Name && d.ID != dept.ID {
			return utils.NewAppError(utils.ErrDuplicate, "department name already taken", nil)
		}
	}
	if dept.CreatedAt.IsZero() {
		dept.CreatedAt = time.Now()
	}
	stored := *dept
	m.departments[dept.ID] = &stored
	return nil
}

func (m *MemoryDB) GetDepartment(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dept, ok := m.departments[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrDepartmentNotFound, "department not found", nil)
	}
	copied := *dept
	return &copied, nil
}

func (m *MemoryDB) GetAllDepartments(ctx context.Context) ([]*models.Department, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	departments := []*models.Department{}
	for _, d := range m.departments {
		copied := *d
		departments = append(departments, &copied)
	}
	sort.Slice(departments, func(i, j int) bool { return departments[i].Name < departments[j].Name })
	return departments, nil
}

func (m *MemoryDB) SetDepartmentActive(ctx context.Context, id uuid.UUID, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dept, ok := m.departments[id]
	if !ok {
		return utils.NewAppError(utils.ErrDepartmentNotFound, "department not found", nil)
	}
	dept.IsActive = active
	return nil
}

func (m *MemoryDB) GetDepartmentActivity(ctx context.Context) ([]*models.DepartmentActivity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	activity := []*models.DepartmentActivity{}
	for _, d := range m.departments {
		row := &models.DepartmentActivity{DepartmentID: d.ID, Name: d.Name}
		for _, r := range m.reports {
			if r.AssignedDepartmentID != nil && *r.AssignedDepartmentID == d.ID {
				row.ReportCount++
			}
		}
		activity = append(activity, row)
	}
	sort.Slice(activity, func(i, j int) bool {
		if activity[i].ReportCount != activity[j].ReportCount {
			return activity[i].ReportCount > activity[j].ReportCount
		}
		return activity[i].Name < activity[j].Name
	})
	return activity, nil
}

func (m *MemoryDB) CountActiveDepartments(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, d := range m.departments {
		if d.IsActive {
			count++
		}
	}
	return count, nil
}

// --- Published Content Methods ---

func (m *MemoryDB) SaveProjectUpdate(ctx context.Context, update *models.ProjectUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	update.UpdatedAt = time.Now()
	if update.CreatedAt.IsZero() {
		update.CreatedAt = update.UpdatedAt
	}
	stored := *update
	m.projectUpdates[update.ID] = &stored
	return nil
}

func (m *MemoryDB) GetProjectUpdates(ctx context.Context, departmentID uuid.UUID) ([]*models.ProjectUpdate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	updates := []*models.ProjectUpdate{}
	for _, u := range m.projectUpdates {
		if u.DepartmentID == departmentID {
			copied := *u
			updates = append(updates, &copied)
		}
	}
	sort.Slice(updates, func(i, j int) bool { return updates[i].CreatedAt.After(updates[j].CreatedAt) })
	return updates, nil
}

func (m *MemoryDB) SavePoll(ctx context.Context, poll *models.Poll) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if poll.CreatedAt.IsZero() {
		poll.CreatedAt = time.Now()
	}
	for i := range poll.Options {
		if poll.Options[i].ID == uuid.Nil {
			poll.Options[i].ID = uuid.New()
		}
		poll.Options[i].PollID = poll.ID
	}

	stored := *poll
	stored.Options = append([]models.PollOption(nil), poll.Options...)
	m.polls[poll.ID] = &stored
	return nil
}

func (m *MemoryDB) GetPoll(ctx context.Context, id uuid.UUID) (*models.Poll, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	poll, ok := m.polls[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "poll not found", nil)
	}
	copied := *poll
	copied.Options = append([]models.PollOption(nil), poll.Options...)
	return &copied, nil
}

func (m *MemoryDB) GetAllPolls(ctx context.Context) ([]*models.Poll, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	polls := []*models.Poll{}
	for _, p := range m.polls {
		copied := *p
		copied.Options = append([]models.PollOption(nil), p.Options...)
		polls = append(polls, &copied)
	}
	sort.Slice(polls, func(i, j int) bool { return polls[i].CreatedAt.After(polls[j].CreatedAt) })
	return polls, nil
}

func (m *MemoryDB) VotePollOption(ctx context.Context, userID, optionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, poll := range m.polls {
		for i := range poll.Options {
			if poll.Options[i].ID != optionID {
				continue
			}
			key := pollVoteKey{PollID: poll.ID, UserID: userID}
			if m.pollVotes[key] {
				return utils.NewAppError(utils.ErrDuplicate, "user has already voted on this poll", nil)
			}
			m.pollVotes[key] = true
			poll.Options[i].Votes++
			return nil
		}
	}
	return utils.NewAppError(utils.ErrNotFound, "poll option not found", nil)
}

func (m *MemoryDB) SaveGovernmentNotification(ctx context.Context, n *models.GovernmentNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	stored := *n
	m.govNotification = append(m.govNotification, &stored)
	return nil
}

func (m *MemoryDB) GetGovernmentNotifications(ctx context.Context) ([]*models.GovernmentNotification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	notifications := make([]*models.GovernmentNotification, 0, len(m.govNotification))
	for _, n := range m.govNotification {
		copied := *n
		notifications = append(notifications, &copied)
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (m *MemoryDB) SaveDepartmentPost(ctx context.Context, post *models.DepartmentPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	stored := *post
	m.departmentPosts[post.ID] = &stored
	return nil
}

func (m *MemoryDB) GetDepartmentPosts(ctx context.Context, departmentID uuid.UUID) ([]*models.DepartmentPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posts := []*models.DepartmentPost{}
	for _, p := range m.departmentPosts {
		if p.DepartmentID == departmentID {
			copied := *p
			posts = append(posts, &copied)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

func (m *MemoryDB) SaveFeedback(ctx context.Context, fb *models.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now()
	}
	stored := *fb
	m.feedback = append(m.feedback, &stored)
	return nil
}

func (m *MemoryDB) GetFeedbackForDepartment(ctx context.Context, departmentID uuid.UUID) ([]*models.Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	feedback := []*models.Feedback{}
	for _, f := range m.feedback {
		if f.DepartmentID == departmentID {
			copied := *f
			feedback = append(feedback, &copied)
		}
	}
	sort.Slice(feedback, func(i, j int) bool { return feedback[i].CreatedAt.After(feedback[j].CreatedAt) })
	return feedback, nil
}
