package repository

import (
	"context"
	"errors"

	"studygram/internal/models"

	"gorm.io/gorm"
)

// ModuleRepository defines persistence operations for the module catalogue.
type ModuleRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Module, error)
	List(ctx context.Context) ([]models.Module, error)
	Create(ctx context.Context, module *models.Module) error
	Count(ctx context.Context) (int64, error)
}

type moduleRepository struct {
	db *gorm.DB
}

// NewModuleRepository returns a new ModuleRepository implementation.
func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) GetByID(ctx context.Context, id uint) (*models.Module, error) {
	var module models.Module
	if err := readDB(r.db).WithContext(ctx).First(&module, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Module", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &module, nil
}

func (r *moduleRepository) List(ctx context.Context) ([]models.Module, error) {
	var modules []models.Module
	if err := readDB(r.db).WithContext(ctx).Order("type ASC, semester ASC, name ASC").Find(&modules).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return modules, nil
}

func (r *moduleRepository) Create(ctx context.Context, module *models.Module) error {
	if err := r.db.WithContext(ctx).Create(module).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Module already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *moduleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.Module{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
