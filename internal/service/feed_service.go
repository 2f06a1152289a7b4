package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"studygram/internal/middleware"
	"studygram/internal/models"
	"studygram/internal/repository"
	"studygram/internal/storage"
)

// Sort orders accepted by ListFeed.
const (
	SortRecent   = "recent"
	SortPopular  = "popular"
	SortComments = "comments"
)

// TempFileIDPrefix marks attachment inputs that carry new content to upload,
// as opposed to numeric IDs of files already stored.
const TempFileIDPrefix = "temp-"

// FeedService implements the study feed: browsing, post CRUD and likes.
type FeedService struct {
	postRepo     repository.PostRepository
	fileRepo     repository.FileRepository
	userRepo     repository.UserRepository
	moduleRepo   repository.ModuleRepository
	store        storage.ObjectStore
	storeTimeout time.Duration
	maxFileSize  int64
	maxFiles     int
}

// FeedServiceConfig carries the upload limits and storage timeout.
type FeedServiceConfig struct {
	StoreTimeout time.Duration
	MaxFileSize  int64
	MaxFiles     int
}

type ListFeedInput struct {
	ModuleID      uint
	Search        string
	SortBy        string
	CurrentUserID uint
	Limit         int
	Offset        int
}

// PostFileInput describes one attachment in a create or update request.
// ID is either a numeric file ID (kept as-is) or carries TempFileIDPrefix
// with Content set.
type PostFileInput struct {
	ID          string
	Name        string
	ContentType string
	Size        int64
	Content     []byte
}

type CreatePostInput struct {
	UserID   uint
	Title    string
	ModuleID uint
	Files    []PostFileInput
}

type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Title    string
	ModuleID uint
	Files    []PostFileInput
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewFeedService(
	postRepo repository.PostRepository,
	fileRepo repository.FileRepository,
	userRepo repository.UserRepository,
	moduleRepo repository.ModuleRepository,
	store storage.ObjectStore,
	cfg FeedServiceConfig,
) *FeedService {
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 10 * time.Second
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = 10
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 20 << 20
	}
	return &FeedService{
		postRepo:     postRepo,
		fileRepo:     fileRepo,
		userRepo:     userRepo,
		moduleRepo:   moduleRepo,
		store:        store,
		storeTimeout: cfg.StoreTimeout,
		maxFileSize:  cfg.MaxFileSize,
		maxFiles:     cfg.MaxFiles,
	}
}

// ListFeed returns decorated posts filtered by module and search term. The
// default order is newest first; popular and comments sorts are stable over
// that order so ties keep their recency ranking.
func (s *FeedService) ListFeed(ctx context.Context, in ListFeedInput) ([]models.Post, error) {
	sortBy := in.SortBy
	if sortBy == "" {
		sortBy = SortRecent
	}
	switch sortBy {
	case SortRecent, SortPopular, SortComments:
	default:
		return nil, models.NewValidationError("sort must be one of recent, popular, comments")
	}

	// The recent sort pages in SQL. The count sorts rank the whole candidate
	// set first; paging before ranking would hide a heavily liked post that
	// falls outside the newest-first page window.
	fetchLimit, fetchOffset := in.Limit, in.Offset
	if sortBy != SortRecent {
		fetchLimit, fetchOffset = 0, 0
	}

	posts, err := s.postRepo.List(ctx, in.ModuleID, strings.TrimSpace(in.Search), fetchLimit, fetchOffset)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return []models.Post{}, nil
	}

	if err := s.decoratePosts(ctx, posts, in.CurrentUserID); err != nil {
		return nil, err
	}

	switch sortBy {
	case SortPopular:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].LikesCount > posts[j].LikesCount
		})
	case SortComments:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].CommentsCount > posts[j].CommentsCount
		})
	}

	if sortBy != SortRecent {
		posts = pagePosts(posts, in.Limit, in.Offset)
	}

	return posts, nil
}

// pagePosts cuts one page out of an already ranked candidate set.
func pagePosts(posts []models.Post, limit, offset int) []models.Post {
	if offset > 0 {
		if offset >= len(posts) {
			return []models.Post{}
		}
		posts = posts[offset:]
	}
	if limit > 0 && limit < len(posts) {
		posts = posts[:limit]
	}
	return posts
}

// ListUserPosts returns one author's posts, newest first, with the same
// count and liked decoration as the feed.
func (s *FeedService) ListUserPosts(ctx context.Context, userID, currentUserID uint, limit, offset int) ([]models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return []models.Post{}, nil
	}

	if err := s.decoratePosts(ctx, posts, currentUserID); err != nil {
		return nil, err
	}
	return posts, nil
}

// decoratePosts attaches like/comment counts, viewer liked flags and file
// lists using one batched lookup per concern. A failing lookup fails the
// whole read; counts are never guessed.
func (s *FeedService) decoratePosts(ctx context.Context, posts []models.Post, currentUserID uint) error {
	postIDs := make([]uint, len(posts))
	for i := range posts {
		postIDs[i] = posts[i].ID
	}

	likeCounts, err := s.postRepo.CountLikesByPosts(ctx, postIDs)
	if err != nil {
		return err
	}
	commentCounts, err := s.postRepo.CountCommentsByPosts(ctx, postIDs)
	if err != nil {
		return err
	}

	var liked map[uint]bool
	if currentUserID != 0 {
		liked, err = s.postRepo.LikedPostIDs(ctx, currentUserID, postIDs)
		if err != nil {
			return err
		}
	}

	filesByPost, err := s.fileRepo.ListByPosts(ctx, postIDs)
	if err != nil {
		return err
	}

	for i := range posts {
		p := &posts[i]
		p.LikesCount = likeCounts[p.ID]
		p.CommentsCount = commentCounts[p.ID]
		p.Liked = liked[p.ID]
		p.Files = filesByPost[p.ID]
		decoratePost(p)
	}
	return nil
}

// GetPost returns one decorated post. The author and module are loaded
// independently; if either row is gone the post is treated as not found.
func (s *FeedService) GetPost(ctx context.Context, postID, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, post.UserID)
	if err != nil {
		return nil, dangledToNotFound(err, postID)
	}
	module, err := s.moduleRepo.GetByID(ctx, post.ModuleID)
	if err != nil {
		return nil, dangledToNotFound(err, postID)
	}
	post.User = *author
	post.Module = *module

	post.LikesCount, err = s.postRepo.CountLikes(ctx, postID)
	if err != nil {
		return nil, err
	}
	commentCounts, err := s.postRepo.CountCommentsByPosts(ctx, []uint{postID})
	if err != nil {
		return nil, err
	}
	post.CommentsCount = commentCounts[postID]

	if currentUserID != 0 {
		liked, err := s.postRepo.LikedPostIDs(ctx, currentUserID, []uint{postID})
		if err != nil {
			return nil, err
		}
		post.Liked = liked[postID]
	}

	post.Files, err = s.fileRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	decoratePost(post)
	return post, nil
}

// dangledToNotFound maps a missing author or module row to a missing post,
// so feed clients never see half a post.
func dangledToNotFound(err error, postID uint) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
		return models.NewNotFoundError("Post", postID)
	}
	return err
}

// ToggleLike likes the post if the user has not liked it, otherwise removes
// the like. The insert is guarded by a unique index so concurrent toggles
// cannot create duplicate likes.
func (s *FeedService) ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	inserted, err := s.postRepo.Like(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if !inserted {
		if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
			return nil, err
		}
	}

	return s.GetPost(ctx, postID, userID)
}

func (s *FeedService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > 255 {
		return nil, models.NewValidationError("Title too long (max 255 characters)")
	}
	if in.ModuleID == 0 {
		return nil, models.NewValidationError("module_id is required")
	}
	if err := s.validateNewFiles(in.Files); err != nil {
		return nil, err
	}

	if _, err := s.moduleRepo.GetByID(ctx, in.ModuleID); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			return nil, models.NewValidationError("Unknown module")
		}
		return nil, err
	}

	// Upload blobs before touching the database so a storage failure leaves
	// no post behind.
	uploaded, fileRows, err := s.uploadFiles(ctx, in.UserID, in.Files, nil)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:    title,
		UserID:   in.UserID,
		ModuleID: in.ModuleID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		s.removeBlobs(ctx, uploaded)
		return nil, err
	}

	for i := range fileRows {
		fileRows[i].PostID = post.ID
	}
	if err := s.fileRepo.CreateBatch(ctx, fileRows); err != nil {
		s.removeBlobs(ctx, uploaded)
		return nil, err
	}

	return s.GetPost(ctx, post.ID, in.UserID)
}

func (s *FeedService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		if len(title) > 255 {
			return nil, models.NewValidationError("Title too long (max 255 characters)")
		}
		post.Title = title
	}
	if in.ModuleID != 0 && in.ModuleID != post.ModuleID {
		if _, err := s.moduleRepo.GetByID(ctx, in.ModuleID); err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
				return nil, models.NewValidationError("Unknown module")
			}
			return nil, err
		}
		post.ModuleID = in.ModuleID
	}

	existing, err := s.fileRepo.ListByPost(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	// Split inputs into kept file IDs and fresh uploads.
	keep := make(map[uint]bool)
	var newFiles []PostFileInput
	for _, f := range in.Files {
		if strings.HasPrefix(f.ID, TempFileIDPrefix) {
			newFiles = append(newFiles, f)
			continue
		}
		id, err := strconv.ParseUint(f.ID, 10, 32)
		if err != nil {
			return nil, models.NewValidationError(fmt.Sprintf("Invalid file id %q", f.ID))
		}
		keep[uint(id)] = true
	}
	if err := s.validateNewFiles(newFiles); err != nil {
		return nil, err
	}

	var removedRows []models.File
	for _, f := range existing {
		if !keep[f.ID] {
			removedRows = append(removedRows, f)
		} else {
			delete(keep, f.ID)
		}
	}
	if len(keep) != 0 {
		return nil, models.NewValidationError("File does not belong to this post")
	}

	uploaded, fileRows, err := s.uploadFiles(ctx, post.UserID, newFiles, removedRows)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		s.removeBlobs(ctx, uploaded)
		return nil, err
	}
	for i := range fileRows {
		fileRows[i].PostID = post.ID
	}
	if err := s.fileRepo.CreateBatch(ctx, fileRows); err != nil {
		s.removeBlobs(ctx, uploaded)
		return nil, err
	}

	if len(removedRows) > 0 {
		removedIDs := make([]uint, len(removedRows))
		removedPaths := make([]string, len(removedRows))
		for i, f := range removedRows {
			removedIDs[i] = f.ID
			removedPaths[i] = f.StoragePath
		}
		if err := s.fileRepo.Delete(ctx, removedIDs); err != nil {
			return nil, err
		}
		s.removeBlobs(ctx, removedPaths)
	}

	return s.GetPost(ctx, in.PostID, in.UserID)
}

// DeletePost removes the post and its dependents, then deletes blobs
// best-effort; a storage failure after commit is logged, not surfaced.
func (s *FeedService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if post.UserID != in.UserID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}

	files, err := s.fileRepo.ListByPost(ctx, in.PostID)
	if err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		return err
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.StoragePath
	}
	s.removeBlobs(ctx, paths)
	return nil
}

func (s *FeedService) validateNewFiles(files []PostFileInput) error {
	if len(files) > s.maxFiles {
		return models.NewValidationError(fmt.Sprintf("At most %d files per post", s.maxFiles))
	}
	for _, f := range files {
		if strings.TrimSpace(f.Name) == "" {
			return models.NewValidationError("File name is required")
		}
		if int64(len(f.Content)) > s.maxFileSize {
			return models.NewValidationError(fmt.Sprintf("File %s exceeds the size limit", f.Name))
		}
	}
	return nil
}

// uploadFiles writes new attachment content to the object store and returns
// the stored paths together with the file rows to insert. A file replacing a
// removed one with the same name continues its version sequence.
func (s *FeedService) uploadFiles(ctx context.Context, userID uint, files []PostFileInput, replaced []models.File) ([]string, []models.File, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}

	replacedVersions := make(map[string]int, len(replaced))
	for _, f := range replaced {
		if f.Version > replacedVersions[f.FileName] {
			replacedVersions[f.FileName] = f.Version
		}
	}

	var uploaded []string
	var rows []models.File
	for _, f := range files {
		name := sanitizeFileName(f.Name)
		path := fmt.Sprintf("uploads/%d/%d_%s", userID, time.Now().UnixNano(), name)

		storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		storedPath, err := s.store.Upload(storeCtx, path, f.Content, f.ContentType)
		cancel()
		if err != nil {
			s.removeBlobs(ctx, uploaded)
			return nil, nil, models.NewUpstreamError("storage", err)
		}
		uploaded = append(uploaded, storedPath)

		version := 1
		if prev, ok := replacedVersions[f.Name]; ok {
			version = prev + 1
		}
		rows = append(rows, models.File{
			FileName:    f.Name,
			FileURL:     s.store.PublicURL(storedPath),
			FileType:    f.ContentType,
			FileSize:    f.Size,
			Version:     version,
			StoragePath: storedPath,
		})
	}
	return uploaded, rows, nil
}

// removeBlobs deletes stored objects best-effort.
func (s *FeedService) removeBlobs(ctx context.Context, paths []string) {
	if len(paths) == 0 {
		return
	}
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.storeTimeout)
	defer cancel()
	if err := s.store.Remove(storeCtx, paths); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to remove stored files",
			slog.Int("count", len(paths)),
			slog.String("error", err.Error()),
		)
	}
}

func sanitizeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		base = "file"
	}
	return base
}

func decoratePost(p *models.Post) {
	p.User.Username = p.User.Handle()
	p.TimeLabel = FormatTimeAgo(p.CreatedAt)
}
