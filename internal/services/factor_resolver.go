package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"tarsier/internal/entities"
	"tarsier/internal/repositories"
	apperrors "tarsier/pkg/errors"
	"tarsier/pkg/metrics"
)

type FactorResolverInterface interface {
	FactorAsOf(ctx context.Context, equipmentID uint64, asOf time.Time) (float64, error)
	History(ctx context.Context, equipmentID uint64) ([]entities.EquipmentFactorChange, error)
	RecordFactorChange(ctx context.Context, tx pgx.Tx, equipmentID uint64, factor float64, at time.Time) error
	Forget(ctx context.Context, equipmentID uint64)
}

// FactorResolver отвечает, какой коэффициент действовал у оборудования на дату.
// Журнал целиком кешируется в Redis; выбор записи делается в памяти.
type FactorResolver struct {
	changeRepo    repositories.EquipmentChangeRepositoryInterface
	equipmentRepo repositories.EquipmentFinder
	cache         repositories.CacheRepositoryInterface
	cacheTTL      time.Duration
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

func NewFactorResolver(
	changeRepo repositories.EquipmentChangeRepositoryInterface,
	equipmentRepo repositories.EquipmentFinder,
	cache repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *FactorResolver {
	return &FactorResolver{
		changeRepo:    changeRepo,
		equipmentRepo: equipmentRepo,
		cache:         cache,
		cacheTTL:      cacheTTL,
		metrics:       m,
		logger:        logger,
	}
}

func factorLogKey(equipmentID uint64) string {
	return fmt.Sprintf("equipment:%d:factor-log", equipmentID)
}

// factorGenKey - счётчик инвалидаций журнала, растёт при каждом Forget.
func factorGenKey(equipmentID uint64) string {
	return fmt.Sprintf("equipment:%d:factor-gen", equipmentID)
}

// FactorAsOf: последняя запись журнала с датой <= asOf, иначе текущий
// коэффициент оборудования, иначе ErrNotFound.
func (r *FactorResolver) FactorAsOf(ctx context.Context, equipmentID uint64, asOf time.Time) (float64, error) {
	changes, err := r.History(ctx, equipmentID)
	if err != nil {
		return 0, err
	}
	if change, ok := entities.LatestFactorChangeAsOf(changes, asOf); ok {
		return change.Factor, nil
	}

	equipment, err := r.equipmentRepo.FindEquipment(ctx, equipmentID)
	if err != nil {
		return 0, storageError("find equipment", err)
	}
	return equipment.Factor, nil
}

// History - журнал оборудования, новые записи первыми.
func (r *FactorResolver) History(ctx context.Context, equipmentID uint64) ([]entities.EquipmentFactorChange, error) {
	if changes, ok := r.cachedHistory(ctx, equipmentID); ok {
		return changes, nil
	}

	// поколение читается до запроса к БД: Forget, прошедший во время чтения,
	// сдвинет его, и устаревший снимок в кеш не попадёт
	generation, genOK := r.generation(ctx, equipmentID)

	changes, err := r.changeRepo.ListByEquipment(ctx, equipmentID)
	if err != nil {
		return nil, apperrors.NewStorageError("list factor changes", err)
	}

	if genOK {
		r.storeHistory(ctx, equipmentID, generation, changes)
	}
	return changes, nil
}

func (r *FactorResolver) cachedHistory(ctx context.Context, equipmentID uint64) ([]entities.EquipmentFactorChange, bool) {
	if r.cache == nil {
		return nil, false
	}
	raw, err := r.cache.Get(ctx, factorLogKey(equipmentID))
	if err != nil {
		if !errors.Is(err, repositories.ErrCacheMiss) {
			r.logger.Warn("Кеш журнала коэффициентов недоступен", zap.Uint64("equipmentID", equipmentID), zap.Error(err))
		}
		r.metrics.ObserveFactorCache(false)
		return nil, false
	}

	var changes []entities.EquipmentFactorChange
	if err := json.Unmarshal([]byte(raw), &changes); err != nil {
		r.logger.Warn("Повреждённая запись кеша журнала коэффициентов", zap.Uint64("equipmentID", equipmentID), zap.Error(err))
		r.metrics.ObserveFactorCache(false)
		return nil, false
	}
	r.metrics.ObserveFactorCache(true)
	return changes, true
}

func (r *FactorResolver) generation(ctx context.Context, equipmentID uint64) (int64, bool) {
	if r.cache == nil {
		return 0, false
	}
	gen, err := r.cache.Generation(ctx, factorGenKey(equipmentID))
	if err != nil {
		r.logger.Warn("Не удалось прочитать поколение кеша журнала коэффициентов", zap.Uint64("equipmentID", equipmentID), zap.Error(err))
		return 0, false
	}
	return gen, true
}

func (r *FactorResolver) storeHistory(ctx context.Context, equipmentID uint64, generation int64, changes []entities.EquipmentFactorChange) {
	payload, err := json.Marshal(changes)
	if err != nil {
		return
	}
	stored, err := r.cache.SetIfGeneration(ctx, factorGenKey(equipmentID), generation, factorLogKey(equipmentID), payload, r.cacheTTL)
	if err != nil {
		r.logger.Warn("Не удалось записать журнал коэффициентов в кеш", zap.Uint64("equipmentID", equipmentID), zap.Error(err))
		return
	}
	if !stored {
		r.logger.Debug("Журнал изменился во время чтения, кеш не заполнен", zap.Uint64("equipmentID", equipmentID))
	}
}

// RecordFactorChange добавляет запись в журнал в транзакции вызывающего.
// После коммита вызывающий должен сделать Forget.
func (r *FactorResolver) RecordFactorChange(ctx context.Context, tx pgx.Tx, equipmentID uint64, factor float64, at time.Time) error {
	if factor < 0 {
		return apperrors.NewValidationError("facteur", "%q must be greater than or equal to 0", "facteur")
	}
	if err := r.changeRepo.CreateInTx(ctx, tx, equipmentID, factor, at); err != nil {
		return apperrors.NewStorageError("append factor change", err)
	}
	return nil
}

// Forget сбрасывает кешированный журнал оборудования. Сначала сдвигается
// поколение, чтобы параллельное чтение не вернуло старый снимок в кеш.
func (r *FactorResolver) Forget(ctx context.Context, equipmentID uint64) {
	if r.cache == nil {
		return
	}
	if err := r.cache.BumpGeneration(ctx, factorGenKey(equipmentID)); err != nil {
		r.logger.Warn("Не удалось сдвинуть поколение кеша журнала коэффициентов", zap.Uint64("equipmentID", equipmentID), zap.Error(err))
	}
	if err := r.cache.Del(ctx, factorLogKey(equipmentID)); err != nil {
		r.logger.Warn("Не удалось сбросить кеш журнала коэффициентов", zap.Uint64("equipmentID", equipmentID), zap.Error(err))
	}
}
