package service

import (
	"context"
	"errors"
	"testing"

	"studygram/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleService_ListGrouped(t *testing.T) {
	t.Parallel()

	moduleRepo := noopModuleRepo()
	moduleRepo.listFn = func(_ context.Context) ([]models.Module, error) {
		return []models.Module{
			{ID: 1, Name: "Algorithms", Code: "CS201", Type: "core", Semester: 3},
			{ID: 2, Name: "Databases", Code: "CS202", Type: "core", Semester: 3},
			{ID: 3, Name: "Game Design", Code: "CS301", Type: "elective", Semester: 5},
		}, nil
	}
	svc := NewModuleService(moduleRepo)

	groups, err := svc.ListGrouped(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "core", groups[0].Type)
	assert.Len(t, groups[0].Modules, 2)
	assert.Equal(t, "elective", groups[1].Type)
	assert.Equal(t, "Game Design", groups[1].Modules[0].Name)
}

func TestModuleService_ListGrouped_RepoError(t *testing.T) {
	t.Parallel()

	moduleRepo := noopModuleRepo()
	moduleRepo.listFn = func(_ context.Context) ([]models.Module, error) {
		return nil, models.NewInternalError(errors.New("connection reset"))
	}
	svc := NewModuleService(moduleRepo)

	_, err := svc.ListGrouped(context.Background())
	assert.Error(t, err)
}
