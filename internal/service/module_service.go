package service

import (
	"context"

	"studygram/internal/cache"
	"studygram/internal/models"
	"studygram/internal/repository"
)

type ModuleService struct {
	moduleRepo repository.ModuleRepository
}

// ModuleGroup is one section of the catalogue, keyed by module type.
type ModuleGroup struct {
	Type    string          `json:"type"`
	Modules []models.Module `json:"modules"`
}

func NewModuleService(moduleRepo repository.ModuleRepository) *ModuleService {
	return &ModuleService{moduleRepo: moduleRepo}
}

// ListGrouped returns the catalogue grouped by module type, preserving the
// repository's type/semester/name ordering. The result is cached; the
// catalogue only changes on reseeding.
func (s *ModuleService) ListGrouped(ctx context.Context) ([]ModuleGroup, error) {
	var groups []ModuleGroup
	err := cache.Aside(ctx, cache.ModuleListKey(), &groups, cache.ModuleListTTL, func() error {
		modules, err := s.moduleRepo.List(ctx)
		if err != nil {
			return err
		}
		groups = groupModules(modules)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func groupModules(modules []models.Module) []ModuleGroup {
	var groups []ModuleGroup
	index := make(map[string]int)
	for _, m := range modules {
		i, ok := index[m.Type]
		if !ok {
			i = len(groups)
			index[m.Type] = i
			groups = append(groups, ModuleGroup{Type: m.Type})
		}
		groups[i].Modules = append(groups[i].Modules, m)
	}
	return groups
}
