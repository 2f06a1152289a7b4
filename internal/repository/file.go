package repository

import (
	"context"

	"studygram/internal/models"

	"gorm.io/gorm"
)

// FileRepository defines persistence operations for post attachments.
type FileRepository interface {
	CreateBatch(ctx context.Context, files []models.File) error
	ListByPost(ctx context.Context, postID uint) ([]models.File, error)
	ListByPosts(ctx context.Context, postIDs []uint) (map[uint][]models.File, error)
	Delete(ctx context.Context, ids []uint) error
}

type fileRepository struct {
	db *gorm.DB
}

// NewFileRepository returns a new FileRepository implementation.
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) CreateBatch(ctx context.Context, files []models.File) error {
	if len(files) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&files).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *fileRepository) ListByPost(ctx context.Context, postID uint) ([]models.File, error) {
	var files []models.File
	if err := readDB(r.db).WithContext(ctx).Where("post_id = ?", postID).Order("id ASC").Find(&files).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return files, nil
}

func (r *fileRepository) ListByPosts(ctx context.Context, postIDs []uint) (map[uint][]models.File, error) {
	result := make(map[uint][]models.File, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var files []models.File
	if err := readDB(r.db).WithContext(ctx).Where("post_id IN ?", postIDs).Order("id ASC").Find(&files).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, f := range files {
		result[f.PostID] = append(result[f.PostID], f)
	}
	return result, nil
}

func (r *fileRepository) Delete(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Delete(&models.File{}, ids).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
