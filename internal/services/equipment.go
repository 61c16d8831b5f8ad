package services

import (
	"context"
	"errors"
	"time"

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

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[entities.Equipment], error)
	GetActiveEquipments(ctx context.Context) ([]entities.Equipment, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error)
	UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error)
	DeleteEquipment(ctx context.Context, id uint64) error
	FactorAsOf(ctx context.Context, id uint64, asOf time.Time) (float64, error)
	FactorHistory(ctx context.Context, id uint64) ([]entities.EquipmentFactorChange, error)
}

// EquipmentService ведёт журнал коэффициентов в той же транзакции, что и изменение оборудования.
type EquipmentService struct {
	txManager     repositories.TxManagerInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	factors       FactorResolverInterface
	users         ActorFinder
	clock         clock.Clock
	logger        *zap.Logger
}

func NewEquipmentService(
	txManager repositories.TxManagerInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	factors FactorResolverInterface,
	users ActorFinder,
	clk clock.Clock,
	logger *zap.Logger,
) *EquipmentService {
	return &EquipmentService{
		txManager:     txManager,
		equipmentRepo: equipmentRepo,
		factors:       factors,
		users:         users,
		clock:         clk,
		logger:        logger,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[entities.Equipment], error) {
	if _, err := authorize(ctx, s.users, authz.EquipmentsManage, nil); err != nil {
		return nil, err
	}
	items, total, err := s.equipmentRepo.GetEquipments(ctx, filter)
	if err != nil {
		return nil, storageError("list equipments", err)
	}
	return &dto.PaginatedResponse[entities.Equipment]{List: items, Pagination: types.NewPagination(total, filter)}, nil
}

func (s *EquipmentService) GetActiveEquipments(ctx context.Context) ([]entities.Equipment, error) {
	if _, err := authorize(ctx, s.users, authz.EquipmentsView, nil); err != nil {
		return nil, err
	}
	items, err := s.equipmentRepo.GetActiveEquipments(ctx)
	return items, storageError("list active equipments", err)
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	if _, err := authorize(ctx, s.users, authz.EquipmentsView, nil); err != nil {
		return nil, err
	}
	e, err := s.equipmentRepo.FindEquipment(ctx, id)
	return e, storageError("find equipment", err)
}

func (s *EquipmentService) ensureCodeFree(ctx context.Context, code string, selfID uint64) error {
	existing, err := s.equipmentRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return storageError("find equipment by code", err)
	}
	if existing.ID != selfID {
		return apperrors.ErrEquipmentCodeExists
	}
	return nil
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	actor, err := authorize(ctx, s.users, authz.EquipmentsManage, nil)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, payload.Code, 0); err != nil {
		return nil, err
	}

	equipment := entities.Equipment{
		Code:            payload.Code,
		Description:     payload.Description,
		EquipmentTypeID: payload.EquipmentTypeID,
		Active:          payload.Active != nil && *payload.Active,
		PhotoURL:        payload.PhotoURL,
		Factor:          payload.Factor,
		CreatedBy:       actor.ID,
	}

	var id uint64
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		id, err = s.equipmentRepo.CreateEquipment(ctx, tx, equipment)
		if err != nil {
			return err
		}
		return s.factors.RecordFactorChange(ctx, tx, id, equipment.Factor, s.clock.Now())
	})
	if err != nil {
		return nil, storageError("create equipment", err)
	}
	s.factors.Forget(ctx, id)

	s.logger.Info("Оборудование создано", zap.Uint64("equipmentID", id), zap.String("code", equipment.Code))
	return s.FindEquipment(ctx, id)
}

// applyEquipmentPatch возвращает обновлённую копию и признак изменений.
func applyEquipmentPatch(current entities.Equipment, p dto.UpdateEquipmentDTO) (entities.Equipment, bool) {
	next := current
	if p.Code != nil {
		next.Code = *p.Code
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.EquipmentTypeID != nil {
		next.EquipmentTypeID = *p.EquipmentTypeID
	}
	if p.Active != nil {
		next.Active = *p.Active
	}
	if p.PhotoURL != nil {
		next.PhotoURL = *p.PhotoURL
	}
	if p.Factor != nil {
		next.Factor = *p.Factor
	}

	changed := next.Code != current.Code ||
		next.Description != current.Description ||
		next.EquipmentTypeID != current.EquipmentTypeID ||
		next.Active != current.Active ||
		next.PhotoURL != current.PhotoURL ||
		next.Factor != current.Factor
	return next, changed
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	if _, err := authorize(ctx, s.users, authz.EquipmentsManage, nil); err != nil {
		return nil, err
	}
	if payload.Code != nil {
		if err := s.ensureCodeFree(ctx, *payload.Code, id); err != nil {
			return nil, err
		}
	}

	factorChanged := false
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.equipmentRepo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		next, changed := applyEquipmentPatch(*current, payload)
		if !changed {
			return nil
		}
		if err := s.equipmentRepo.UpdateEquipment(ctx, tx, next); err != nil {
			return err
		}

		if next.Factor != current.Factor {
			factorChanged = true
			return s.factors.RecordFactorChange(ctx, tx, id, next.Factor, s.clock.Now())
		}
		return nil
	})
	if err != nil {
		return nil, storageError("update equipment", err)
	}
	if factorChanged {
		s.factors.Forget(ctx, id)
		s.logger.Info("Коэффициент оборудования изменён", zap.Uint64("equipmentID", id))
	}

	return s.FindEquipment(ctx, id)
}

// DeleteEquipment удаляет оборудование и фиксирует его последний коэффициент,
// чтобы старые бронирования продолжали его получать.
func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uint64) error {
	if _, err := authorize(ctx, s.users, authz.EquipmentsManage, nil); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		deleted, err := s.equipmentRepo.DeleteEquipment(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.factors.RecordFactorChange(ctx, tx, id, deleted.Factor, s.clock.Now())
	})
	if err != nil {
		return storageError("delete equipment", err)
	}
	s.factors.Forget(ctx, id)

	s.logger.Info("Оборудование удалено", zap.Uint64("equipmentID", id))
	return nil
}

func (s *EquipmentService) FactorAsOf(ctx context.Context, id uint64, asOf time.Time) (float64, error) {
	if _, err := authorize(ctx, s.users, authz.EquipmentsView, nil); err != nil {
		return 0, err
	}
	return s.factors.FactorAsOf(ctx, id, asOf)
}

func (s *EquipmentService) FactorHistory(ctx context.Context, id uint64) ([]entities.EquipmentFactorChange, error) {
	if _, err := authorize(ctx, s.users, authz.EquipmentsView, nil); err != nil {
		return nil, err
	}
	return s.factors.History(ctx, id)
}
