package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tarsier/internal/dto"
	"tarsier/internal/entities"
	apperrors "tarsier/pkg/errors"
	"tarsier/pkg/types"
)

type fakeCatalogRepo struct {
	mu     sync.Mutex
	items  map[uint64]entities.CatalogItem
	nextID uint64
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{items: make(map[uint64]entities.CatalogItem)}
}

func (r *fakeCatalogRepo) GetItems(ctx context.Context, filter types.Filter) ([]entities.CatalogItem, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.CatalogItem, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeCatalogRepo) GetActiveItems(ctx context.Context) ([]entities.CatalogItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.CatalogItem
	for _, item := range r.items {
		if item.Active {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeCatalogRepo) FindItem(ctx context.Context, id uint64) (*entities.CatalogItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &item, nil
}

func (r *fakeCatalogRepo) FindByName(ctx context.Context, name string) (*entities.CatalogItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.Name == name {
			cp := item
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeCatalogRepo) CreateItem(ctx context.Context, item entities.CatalogItem) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	item.ID = r.nextID
	r.items[item.ID] = item
	return item.ID, nil
}

func (r *fakeCatalogRepo) UpdateItem(ctx context.Context, item entities.CatalogItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.items[item.ID] = item
	return nil
}

func (r *fakeCatalogRepo) DeleteItem(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func TestCatalogService_ActiveByDefault(t *testing.T) {
	svc := NewCatalogService("mission types", newFakeCatalogRepo(), newFakeUserRepo(adminUser, regularUser), zap.NewNop())
	ctx := ctxWithUser(adminUser.ID)

	item, err := svc.CreateItem(ctx, dto.CreateCatalogItemDTO{Name: "Formation"})
	require.NoError(t, err)
	assert.True(t, item.Active)
	require.NotNil(t, item.CreatedBy)
	assert.Equal(t, adminUser.ID, *item.CreatedBy)

	_, err = svc.UpdateItem(ctx, item.ID, dto.UpdateCatalogItemDTO{Active: boolPtr(false)})
	require.NoError(t, err)

	active, err := svc.GetActiveItems(ctxWithUser(regularUser.ID))
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestCatalogService_Permissions(t *testing.T) {
	svc := NewCatalogService("equipment types", newFakeCatalogRepo(), newFakeUserRepo(adminUser, regularUser), zap.NewNop())

	_, err := svc.CreateItem(ctxWithUser(regularUser.ID), dto.CreateCatalogItemDTO{Name: "Caméra"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.GetActiveItems(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	err = svc.DeleteItem(ctxWithUser(adminUser.ID), 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
