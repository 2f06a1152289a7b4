package server

import (
	"context"
	"testing"

	"studygram/internal/config"
	"studygram/internal/models"
	"studygram/internal/service"
	"studygram/internal/storage"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.User), args.Error(1)
}

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, moduleID uint, search string, limit, offset int) ([]models.Post, error) {
	args := m.Called(ctx, moduleID, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) CountLikesByPosts(ctx context.Context, postIDs []uint) (map[uint]int, error) {
	args := m.Called(ctx, postIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]int), args.Error(1)
}

func (m *MockPostRepository) CountCommentsByPosts(ctx context.Context, postIDs []uint) (map[uint]int, error) {
	args := m.Called(ctx, postIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]int), args.Error(1)
}

func (m *MockPostRepository) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	args := m.Called(ctx, userID, postIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]bool), args.Error(1)
}

func (m *MockPostRepository) CountLikes(ctx context.Context, postID uint) (int, error) {
	args := m.Called(ctx, postID)
	return args.Int(0), args.Error(1)
}

func (m *MockPostRepository) Like(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) Unlike(ctx context.Context, userID, postID uint) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

// MockFileRepository is a mock of the FileRepository interface
type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) CreateBatch(ctx context.Context, files []models.File) error {
	args := m.Called(ctx, files)
	return args.Error(0)
}

func (m *MockFileRepository) ListByPost(ctx context.Context, postID uint) ([]models.File, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.File), args.Error(1)
}

func (m *MockFileRepository) ListByPosts(ctx context.Context, postIDs []uint) (map[uint][]models.File, error) {
	args := m.Called(ctx, postIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint][]models.File), args.Error(1)
}

func (m *MockFileRepository) Delete(ctx context.Context, ids []uint) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// MockModuleRepository is a mock of the ModuleRepository interface
type MockModuleRepository struct {
	mock.Mock
}

func (m *MockModuleRepository) GetByID(ctx context.Context, id uint) (*models.Module, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Module), args.Error(1)
}

func (m *MockModuleRepository) List(ctx context.Context) ([]models.Module, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Module), args.Error(1)
}

func (m *MockModuleRepository) Create(ctx context.Context, module *models.Module) error {
	args := m.Called(ctx, module)
	return args.Error(0)
}

func (m *MockModuleRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockCommentRepository is a mock of the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

// serverMocks bundles every repository mock behind a test server.
type serverMocks struct {
	users    *MockUserRepository
	posts    *MockPostRepository
	files    *MockFileRepository
	modules  *MockModuleRepository
	comments *MockCommentRepository
}

// newTestServer builds a Server with mock repositories, real services and a
// disk store rooted in a temp dir. Redis is left nil so cache and events are no-ops.
func newTestServer(t *testing.T) (*Server, *serverMocks) {
	t.Helper()

	m := &serverMocks{
		users:    new(MockUserRepository),
		posts:    new(MockPostRepository),
		files:    new(MockFileRepository),
		modules:  new(MockModuleRepository),
		comments: new(MockCommentRepository),
	}

	store, err := storage.NewDiskStore(t.TempDir(), "/media")
	require.NoError(t, err)

	s := &Server{
		config:      &config.Config{JWTSecret: "test-secret-key-12345678901234567890123456789012"},
		userRepo:    m.users,
		postRepo:    m.posts,
		fileRepo:    m.files,
		moduleRepo:  m.modules,
		commentRepo: m.comments,
		store:       store,
	}
	s.feedService = service.NewFeedService(m.posts, m.files, m.users, m.modules, store, service.FeedServiceConfig{})
	s.commentService = service.NewCommentService(m.comments, m.posts)
	s.userService = service.NewUserService(m.users)
	s.moduleService = service.NewModuleService(m.modules)

	return s, m
}
