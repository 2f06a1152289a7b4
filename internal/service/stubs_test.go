package service

import (
	"context"
	"errors"
	"testing"

	"studygram/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn               func(context.Context, *models.Post) error
	getByIDFn              func(context.Context, uint) (*models.Post, error)
	listFn                 func(context.Context, uint, string, int, int) ([]models.Post, error)
	listByUserFn           func(context.Context, uint, int, int) ([]models.Post, error)
	updateFn               func(context.Context, *models.Post) error
	deleteFn               func(context.Context, uint) error
	countLikesByPostsFn    func(context.Context, []uint) (map[uint]int, error)
	countCommentsByPostsFn func(context.Context, []uint) (map[uint]int, error)
	likedPostIDsFn         func(context.Context, uint, []uint) (map[uint]bool, error)
	countLikesFn           func(context.Context, uint) (int, error)
	likeFn                 func(context.Context, uint, uint) (bool, error)
	unlikeFn               func(context.Context, uint, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, moduleID uint, search string, limit, offset int) ([]models.Post, error) {
	return s.listFn(ctx, moduleID, search, limit, offset)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) CountLikesByPosts(ctx context.Context, postIDs []uint) (map[uint]int, error) {
	return s.countLikesByPostsFn(ctx, postIDs)
}
func (s *postRepoStub) CountCommentsByPosts(ctx context.Context, postIDs []uint) (map[uint]int, error) {
	return s.countCommentsByPostsFn(ctx, postIDs)
}
func (s *postRepoStub) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	return s.likedPostIDsFn(ctx, userID, postIDs)
}
func (s *postRepoStub) CountLikes(ctx context.Context, postID uint) (int, error) {
	return s.countLikesFn(ctx, postID)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) (bool, error) {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) error {
	return s.unlikeFn(ctx, userID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		listFn: func(_ context.Context, _ uint, _ string, _, _ int) ([]models.Post, error) {
			return nil, nil
		},
		listByUserFn: func(_ context.Context, _ uint, _, _ int) ([]models.Post, error) {
			return nil, nil
		},
		updateFn: func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		countLikesByPostsFn: func(_ context.Context, _ []uint) (map[uint]int, error) {
			return map[uint]int{}, nil
		},
		countCommentsByPostsFn: func(_ context.Context, _ []uint) (map[uint]int, error) {
			return map[uint]int{}, nil
		},
		likedPostIDsFn: func(_ context.Context, _ uint, _ []uint) (map[uint]bool, error) {
			return map[uint]bool{}, nil
		},
		countLikesFn: func(_ context.Context, _ uint) (int, error) { return 0, nil },
		likeFn:       func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		unlikeFn:     func(_ context.Context, _, _ uint) error { return nil },
	}
}

// fileRepoStub is a stub for repository.FileRepository.
type fileRepoStub struct {
	createBatchFn func(context.Context, []models.File) error
	listByPostFn  func(context.Context, uint) ([]models.File, error)
	listByPostsFn func(context.Context, []uint) (map[uint][]models.File, error)
	deleteFn      func(context.Context, []uint) error
}

func (s *fileRepoStub) CreateBatch(ctx context.Context, files []models.File) error {
	return s.createBatchFn(ctx, files)
}
func (s *fileRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.File, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *fileRepoStub) ListByPosts(ctx context.Context, postIDs []uint) (map[uint][]models.File, error) {
	return s.listByPostsFn(ctx, postIDs)
}
func (s *fileRepoStub) Delete(ctx context.Context, ids []uint) error {
	return s.deleteFn(ctx, ids)
}

func noopFileRepo() *fileRepoStub {
	return &fileRepoStub{
		createBatchFn: func(_ context.Context, _ []models.File) error { return nil },
		listByPostFn:  func(_ context.Context, _ uint) ([]models.File, error) { return nil, nil },
		listByPostsFn: func(_ context.Context, _ []uint) (map[uint][]models.File, error) {
			return map[uint][]models.File{}, nil
		},
		deleteFn: func(_ context.Context, _ []uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
	updateFn     func(context.Context, *models.User) error
	listFn       func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Email: "student@university.edu"}, nil
		},
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:     func(_ context.Context, _ *models.User) error { return nil },
		updateFn:     func(_ context.Context, _ *models.User) error { return nil },
		listFn:       func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

// moduleRepoStub is a stub for repository.ModuleRepository.
type moduleRepoStub struct {
	getByIDFn func(context.Context, uint) (*models.Module, error)
	listFn    func(context.Context) ([]models.Module, error)
	createFn  func(context.Context, *models.Module) error
	countFn   func(context.Context) (int64, error)
}

func (s *moduleRepoStub) GetByID(ctx context.Context, id uint) (*models.Module, error) {
	return s.getByIDFn(ctx, id)
}
func (s *moduleRepoStub) List(ctx context.Context) ([]models.Module, error) {
	return s.listFn(ctx)
}
func (s *moduleRepoStub) Create(ctx context.Context, module *models.Module) error {
	return s.createFn(ctx, module)
}
func (s *moduleRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func noopModuleRepo() *moduleRepoStub {
	return &moduleRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Module, error) {
			return &models.Module{ID: id, Name: "Algorithms", Code: "CS201", Type: "core"}, nil
		},
		listFn:   func(_ context.Context) ([]models.Module, error) { return nil, nil },
		createFn: func(_ context.Context, _ *models.Module) error { return nil },
		countFn:  func(_ context.Context) (int64, error) { return 0, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
	}
}

// storeStub is a stub for storage.ObjectStore.
type storeStub struct {
	uploadFn func(context.Context, string, []byte, string) (string, error)
	removeFn func(context.Context, []string) error
	removed  [][]string
	uploads  []string
}

func (s *storeStub) Upload(ctx context.Context, path string, content []byte, contentType string) (string, error) {
	if s.uploadFn != nil {
		return s.uploadFn(ctx, path, content, contentType)
	}
	s.uploads = append(s.uploads, path)
	return path, nil
}

func (s *storeStub) PublicURL(path string) string {
	return "/media/" + path
}

func (s *storeStub) Remove(ctx context.Context, paths []string) error {
	s.removed = append(s.removed, paths)
	if s.removeFn != nil {
		return s.removeFn(ctx, paths)
	}
	return nil
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

// assertNotFoundError asserts that err is an AppError with code NOT_FOUND.
func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
