package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"tarsier/internal/authz"
	"tarsier/internal/dto"
	"tarsier/internal/entities"
	"tarsier/internal/repositories"
	"tarsier/pkg/clock"
	apperrors "tarsier/pkg/errors"
	"tarsier/pkg/types"
)

type PerimeterServiceInterface interface {
	GetPerimeters(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[entities.Perimeter], error)
	GetActivePerimeters(ctx context.Context) ([]entities.Perimeter, error)
	FindPerimeter(ctx context.Context, id uint64) (*entities.Perimeter, error)
	CreatePerimeter(ctx context.Context, payload dto.CreatePerimeterDTO) (*entities.Perimeter, error)
	UpdatePerimeter(ctx context.Context, id uint64, payload dto.UpdatePerimeterDTO) (*entities.Perimeter, error)
	DeletePerimeter(ctx context.Context, id uint64) error
	PlanHistory(ctx context.Context, id uint64) ([]entities.PerimeterPlanChange, error)
}

type PerimeterService struct {
	txManager repositories.TxManagerInterface
	repo      repositories.PerimeterRepositoryInterface
	users     ActorFinder
	clock     clock.Clock
	logger    *zap.Logger
}

func NewPerimeterService(
	txManager repositories.TxManagerInterface,
	repo repositories.PerimeterRepositoryInterface,
	users ActorFinder,
	clk clock.Clock,
	logger *zap.Logger,
) *PerimeterService {
	return &PerimeterService{txManager: txManager, repo: repo, users: users, clock: clk, logger: logger}
}

func (s *PerimeterService) GetPerimeters(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[entities.Perimeter], error) {
	if _, err := authorize(ctx, s.users, authz.PerimetersManage, nil); err != nil {
		return nil, err
	}
	items, total, err := s.repo.GetPerimeters(ctx, filter)
	if err != nil {
		return nil, storageError("list perimeters", err)
	}
	return &dto.PaginatedResponse[entities.Perimeter]{List: items, Pagination: types.NewPagination(total, filter)}, nil
}

func (s *PerimeterService) GetActivePerimeters(ctx context.Context) ([]entities.Perimeter, error) {
	if _, err := authorize(ctx, s.users, authz.PerimetersView, nil); err != nil {
		return nil, err
	}
	items, err := s.repo.GetActivePerimeters(ctx)
	return items, storageError("list active perimeters", err)
}

func (s *PerimeterService) FindPerimeter(ctx context.Context, id uint64) (*entities.Perimeter, error) {
	if _, err := authorize(ctx, s.users, authz.PerimetersView, nil); err != nil {
		return nil, err
	}
	p, err := s.repo.FindPerimeter(ctx, id)
	return p, storageError("find perimeter", err)
}

func (s *PerimeterService) ensureCodeFree(ctx context.Context, code string, selfID uint64) error {
	existing, err := s.repo.FindByCode(ctx, code)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return storageError("find perimeter by code", err)
	}
	if existing.ID != selfID {
		return apperrors.ErrPerimeterCodeExists
	}
	return nil
}

func (s *PerimeterService) CreatePerimeter(ctx context.Context, payload dto.CreatePerimeterDTO) (*entities.Perimeter, error) {
	actor, err := authorize(ctx, s.users, authz.PerimetersManage, nil)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, payload.Code, 0); err != nil {
		return nil, err
	}

	perimeter := entities.Perimeter{
		Code:        payload.Code,
		Description: payload.Description,
		Active:      payload.Active != nil && *payload.Active,
		PhotoURL:    payload.PhotoURL,
		ThumbURL:    payload.ThumbURL,
		CreatedBy:   actor.ID,
	}

	var id uint64
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		if id, err = s.repo.CreatePerimeter(ctx, tx, perimeter); err != nil {
			return err
		}
		return s.repo.AddPlanChange(ctx, tx, entities.PerimeterPlanChange{
			PerimeterID: id,
			PhotoURL:    perimeter.PhotoURL,
			ThumbURL:    perimeter.ThumbURL,
			ChangeDate:  s.clock.Now(),
		})
	})
	if err != nil {
		return nil, storageError("create perimeter", err)
	}

	s.logger.Info("Периметр создан", zap.Uint64("perimeterID", id), zap.String("code", perimeter.Code))
	return s.FindPerimeter(ctx, id)
}

// UpdatePerimeter дописывает историю планов, только если сменился план.
func (s *PerimeterService) UpdatePerimeter(ctx context.Context, id uint64, payload dto.UpdatePerimeterDTO) (*entities.Perimeter, error) {
	if _, err := authorize(ctx, s.users, authz.PerimetersManage, nil); err != nil {
		return nil, err
	}
	if payload.Code != nil {
		if err := s.ensureCodeFree(ctx, *payload.Code, id); err != nil {
			return nil, err
		}
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		next := *current
		if payload.Code != nil {
			next.Code = *payload.Code
		}
		if payload.Description != nil {
			next.Description = *payload.Description
		}
		if payload.Active != nil {
			next.Active = *payload.Active
		}
		if payload.PhotoURL != nil {
			next.PhotoURL = *payload.PhotoURL
		}
		if payload.ThumbURL != nil {
			next.ThumbURL = *payload.ThumbURL
		}

		if err := s.repo.UpdatePerimeter(ctx, tx, next); err != nil {
			return err
		}
		if next.PhotoURL == current.PhotoURL && next.ThumbURL == current.ThumbURL {
			return nil
		}
		return s.repo.AddPlanChange(ctx, tx, entities.PerimeterPlanChange{
			PerimeterID: id,
			PhotoURL:    next.PhotoURL,
			ThumbURL:    next.ThumbURL,
			ChangeDate:  s.clock.Now(),
		})
	})
	if err != nil {
		return nil, storageError("update perimeter", err)
	}
	return s.FindPerimeter(ctx, id)
}

func (s *PerimeterService) DeletePerimeter(ctx context.Context, id uint64) error {
	if _, err := authorize(ctx, s.users, authz.PerimetersManage, nil); err != nil {
		return err
	}
	if err := s.repo.DeletePerimeter(ctx, id); err != nil {
		return storageError("delete perimeter", err)
	}
	s.logger.Info("Периметр удалён", zap.Uint64("perimeterID", id))
	return nil
}

func (s *PerimeterService) PlanHistory(ctx context.Context, id uint64) ([]entities.PerimeterPlanChange, error) {
	if _, err := authorize(ctx, s.users, authz.PerimetersView, nil); err != nil {
		return nil, err
	}
	items, err := s.repo.ListPlanChanges(ctx, id)
	return items, storageError("list perimeter plans", err)
}
