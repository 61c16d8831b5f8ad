package services

import (
	"context"

	"go.uber.org/zap"

	"tarsier/internal/authz"
	"tarsier/internal/dto"
	"tarsier/internal/entities"
	"tarsier/internal/repositories"
	"tarsier/pkg/types"
)

type CatalogServiceInterface interface {
	GetItems(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[entities.CatalogItem], error)
	GetActiveItems(ctx context.Context) ([]entities.CatalogItem, error)
	FindItem(ctx context.Context, id uint64) (*entities.CatalogItem, error)
	CreateItem(ctx context.Context, payload dto.CreateCatalogItemDTO) (*entities.CatalogItem, error)
	UpdateItem(ctx context.Context, id uint64, payload dto.UpdateCatalogItemDTO) (*entities.CatalogItem, error)
	DeleteItem(ctx context.Context, id uint64) error
}

// CatalogService обслуживает простые справочники: типы оборудования и типы миссий.
type CatalogService struct {
	name   string
	repo   repositories.CatalogRepositoryInterface
	users  ActorFinder
	logger *zap.Logger
}

func NewCatalogService(name string, repo repositories.CatalogRepositoryInterface, users ActorFinder, logger *zap.Logger) *CatalogService {
	return &CatalogService{name: name, repo: repo, users: users, logger: logger.With(zap.String("catalog", name))}
}

func (s *CatalogService) GetItems(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[entities.CatalogItem], error) {
	if _, err := authorize(ctx, s.users, authz.CatalogsView, nil); err != nil {
		return nil, err
	}
	items, total, err := s.repo.GetItems(ctx, filter)
	if err != nil {
		return nil, storageError("list "+s.name, err)
	}
	return &dto.PaginatedResponse[entities.CatalogItem]{List: items, Pagination: types.NewPagination(total, filter)}, nil
}

func (s *CatalogService) GetActiveItems(ctx context.Context) ([]entities.CatalogItem, error) {
	if _, err := authorize(ctx, s.users, authz.CatalogsView, nil); err != nil {
		return nil, err
	}
	items, err := s.repo.GetActiveItems(ctx)
	return items, storageError("list active "+s.name, err)
}

func (s *CatalogService) FindItem(ctx context.Context, id uint64) (*entities.CatalogItem, error) {
	if _, err := authorize(ctx, s.users, authz.CatalogsView, nil); err != nil {
		return nil, err
	}
	item, err := s.repo.FindItem(ctx, id)
	return item, storageError("find "+s.name, err)
}

func (s *CatalogService) CreateItem(ctx context.Context, payload dto.CreateCatalogItemDTO) (*entities.CatalogItem, error) {
	actor, err := authorize(ctx, s.users, authz.CatalogsManage, nil)
	if err != nil {
		return nil, err
	}

	item := entities.CatalogItem{
		Name:        payload.Name,
		Description: payload.Description,
		Active:      payload.Active == nil || *payload.Active,
		CreatedBy:   &actor.ID,
	}
	id, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return nil, storageError("create "+s.name, err)
	}
	s.logger.Info("Элемент справочника создан", zap.Uint64("id", id))
	return s.FindItem(ctx, id)
}

func (s *CatalogService) UpdateItem(ctx context.Context, id uint64, payload dto.UpdateCatalogItemDTO) (*entities.CatalogItem, error) {
	if _, err := authorize(ctx, s.users, authz.CatalogsManage, nil); err != nil {
		return nil, err
	}
	item, err := s.repo.FindItem(ctx, id)
	if err != nil {
		return nil, storageError("find "+s.name, err)
	}

	if payload.Name != nil {
		item.Name = *payload.Name
	}
	if payload.Description != nil {
		item.Description = *payload.Description
	}
	if payload.Active != nil {
		item.Active = *payload.Active
	}

	if err := s.repo.UpdateItem(ctx, *item); err != nil {
		return nil, storageError("update "+s.name, err)
	}
	return s.FindItem(ctx, id)
}

func (s *CatalogService) DeleteItem(ctx context.Context, id uint64) error {
	if _, err := authorize(ctx, s.users, authz.CatalogsManage, nil); err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return storageError("delete "+s.name, err)
	}
	s.logger.Info("Элемент справочника удалён", zap.Uint64("id", id))
	return nil
}
