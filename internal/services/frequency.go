package services

import (
	"context"

	"go.uber.org/zap"

	"tarsier/internal/authz"
	"tarsier/internal/dto"
	"tarsier/internal/entities"
	"tarsier/internal/repositories"
)

type FrequencyServiceInterface interface {
	GetFrequency(ctx context.Context) (*entities.ControlFrequency, error)
	UpdateFrequency(ctx context.Context, payload dto.UpdateFrequencyDTO) (*entities.ControlFrequency, error)
}

type FrequencyService struct {
	repo   repositories.FrequencyRepositoryInterface
	users  ActorFinder
	logger *zap.Logger
}

func NewFrequencyService(repo repositories.FrequencyRepositoryInterface, users ActorFinder, logger *zap.Logger) *FrequencyService {
	return &FrequencyService{repo: repo, users: users, logger: logger}
}

func (s *FrequencyService) GetFrequency(ctx context.Context) (*entities.ControlFrequency, error) {
	if _, err := authorize(ctx, s.users, authz.FrequencyView, nil); err != nil {
		return nil, err
	}
	f, err := s.repo.GetFrequency(ctx)
	return f, storageError("get frequency", err)
}

func (s *FrequencyService) UpdateFrequency(ctx context.Context, payload dto.UpdateFrequencyDTO) (*entities.ControlFrequency, error) {
	if _, err := authorize(ctx, s.users, authz.FrequencyManage, nil); err != nil {
		return nil, err
	}
	current, err := s.repo.GetFrequency(ctx)
	if err != nil {
		return nil, storageError("get frequency", err)
	}

	next := entities.ControlFrequency{
		ID:            current.ID,
		Band0To100:    payload.Band0To100,
		Band100To500:  payload.Band100To500,
		Band500To1500: payload.Band500To1500,
		Band1500Plus:  payload.Band1500Plus,
		Horizon:       payload.Horizon,
	}
	if next == *current {
		return current, nil
	}

	if err := s.repo.SaveFrequency(ctx, next); err != nil {
		return nil, storageError("save frequency", err)
	}
	s.logger.Info("Периодичность контроля обновлена", zap.Int("horizon", next.Horizon))
	return &next, nil
}
