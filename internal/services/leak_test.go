package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tarsier/internal/dto"
	"tarsier/internal/entities"
	apperrors "tarsier/pkg/errors"
)

type fakeLeakRepo struct {
	leaks            map[uint64]entities.Leak
	report           []entities.LeakReportItem
	nextID           uint64
	gainFrom, gainTo time.Time
}

func newFakeLeakRepo() *fakeLeakRepo {
	return &fakeLeakRepo{leaks: make(map[uint64]entities.Leak)}
}

func (r *fakeLeakRepo) GetLeaks(ctx context.Context, f dto.LeakFilterDTO) ([]entities.LeakReportItem, uint64, error) {
	out := append([]entities.LeakReportItem(nil), r.report...)
	return out, uint64(len(out)), nil
}

func (r *fakeLeakRepo) GetLeaksByBooking(ctx context.Context, bookingID uint64) ([]entities.Leak, error) {
	var out []entities.Leak
	for _, l := range r.leaks {
		if l.BookingID == bookingID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLeakRepo) FindLeak(ctx context.Context, id uint64) (*entities.Leak, error) {
	l, ok := r.leaks[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &l, nil
}

func (r *fakeLeakRepo) CreateLeak(ctx context.Context, l entities.Leak) (uint64, error) {
	r.nextID++
	l.ID = r.nextID
	r.leaks[l.ID] = l
	return l.ID, nil
}

func (r *fakeLeakRepo) UpdateLeak(ctx context.Context, l entities.Leak) error {
	if _, ok := r.leaks[l.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.leaks[l.ID] = l
	return nil
}

func (r *fakeLeakRepo) DeleteLeak(ctx context.Context, id uint64) error {
	if _, ok := r.leaks[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.leaks, id)
	return nil
}

func (r *fakeLeakRepo) GainByPerimeter(ctx context.Context, from, to time.Time) ([]entities.GainBucket, error) {
	r.gainFrom, r.gainTo = from, to
	return nil, nil
}

type leakFixture struct {
	svc      *LeakService
	repo     *fakeLeakRepo
	bookings *fakeBookingRepo
	changes  *fakeChangeRepo
	resolver *FactorResolver
}

func newLeakFixture(t *testing.T) *leakFixture {
	t.Helper()
	f := &leakFixture{
		repo:     newFakeLeakRepo(),
		bookings: newFakeBookingRepo(),
		changes:  &fakeChangeRepo{},
	}
	equipment := newFakeEquipmentRepo(entities.Equipment{ID: 1, Code: "EQ-1", Factor: 9})
	f.resolver = NewFactorResolver(f.changes, equipment, newFakeCache(), time.Minute, nil, zap.NewNop())
	users := newFakeUserRepo(adminUser, regularUser, &entities.User{ID: 3})
	f.svc = NewLeakService(f.repo, f.bookings, f.resolver, users, zap.NewNop())

	_, err := f.bookings.CreateInTx(context.Background(), nil, entities.Booking{
		UserID: regularUser.ID, EquipmentID: 1, Start: date(2024, 3, 1), End: date(2024, 3, 2),
	})
	require.NoError(t, err)
	return f
}

func TestLeakService_CreateAppliesDefaults(t *testing.T) {
	f := newLeakFixture(t)

	leak, err := f.svc.CreateLeak(ctxWithUser(regularUser.ID), dto.CreateLeakDTO{Name: "Fuite A", BookingID: 1})
	require.NoError(t, err)
	assert.Equal(t, entities.ActionStatusInProgress, leak.ActionStatus)
	assert.Equal(t, entities.ActionTypeRepair, leak.ActionType)
	assert.Equal(t, regularUser.ID, leak.CreatedBy)

	_, err = f.svc.CreateLeak(ctxWithUser(regularUser.ID), dto.CreateLeakDTO{Name: "Fuite B", BookingID: 42})
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestLeakService_ReportUsesFactorAtBookingStart(t *testing.T) {
	f := newLeakFixture(t)
	ctx := context.Background()
	require.NoError(t, f.resolver.RecordFactorChange(ctx, nil, 1, 5, date(2024, 1, 1)))
	require.NoError(t, f.resolver.RecordFactorChange(ctx, nil, 1, 7, date(2024, 6, 1)))

	cost, actionCost := 1000.0, 200.0
	closed := entities.Leak{ID: 1, Cost: &cost, ActionCost: &actionCost, ActionStatus: entities.ActionStatusClosed}
	open := entities.Leak{ID: 2, Cost: &cost, ActionCost: &actionCost, ActionStatus: entities.ActionStatusInProgress}
	f.repo.report = []entities.LeakReportItem{
		{Leak: closed, EquipmentID: 1, BookingStart: date(2024, 3, 1)},
		{Leak: open, EquipmentID: 1, BookingStart: date(2024, 3, 1)},
		{Leak: open, EquipmentID: 1, BookingStart: date(2024, 7, 1)},
		{Leak: open, EquipmentID: 99, BookingStart: date(2024, 7, 1)},
	}

	page, err := f.svc.GetLeaks(ctxWithUser(regularUser.ID), dto.LeakFilterDTO{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.List, 4)

	require.NotNil(t, page.List[0].Factor)
	assert.Equal(t, 5.0, *page.List[0].Factor)
	assert.Equal(t, 800.0, page.List[0].FinalGainValue)
	assert.InDelta(t, 1000*12.8205*0.4281/1000, page.List[0].CO2Value, 1e-9)

	assert.Equal(t, 0.0, page.List[1].FinalGainValue)
	require.NotNil(t, page.List[2].Factor)
	assert.Equal(t, 7.0, *page.List[2].Factor)
	assert.Nil(t, page.List[3].Factor)

	// Журнал читается один раз на оборудование.
	assert.Equal(t, 2, f.changes.listCalls)
}

func TestLeakService_UpdateAndDeleteRequireCreator(t *testing.T) {
	f := newLeakFixture(t)

	leak, err := f.svc.CreateLeak(ctxWithUser(regularUser.ID), dto.CreateLeakDTO{Name: "Fuite A", BookingID: 1})
	require.NoError(t, err)

	_, err = f.svc.UpdateLeak(ctxWithUser(3), leak.ID, dto.UpdateLeakDTO{Name: null.StringFrom("X")})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := f.svc.UpdateLeak(ctxWithUser(regularUser.ID), leak.ID, dto.UpdateLeakDTO{
		Name:         null.StringFrom("Fuite A2"),
		ActionStatus: null.StringFrom(entities.ActionStatusClosed),
	})
	require.NoError(t, err)
	assert.Equal(t, "Fuite A2", updated.Name)
	assert.Equal(t, entities.ActionStatusClosed, updated.ActionStatus)
	assert.Equal(t, entities.ActionTypeRepair, updated.ActionType)

	assert.ErrorIs(t, f.svc.DeleteLeak(ctxWithUser(3), leak.ID), apperrors.ErrForbidden)
	require.NoError(t, f.svc.DeleteLeak(ctxWithUser(adminUser.ID), leak.ID))
}

func TestLeakService_GainDefaultBounds(t *testing.T) {
	f := newLeakFixture(t)

	_, err := f.svc.Gain(ctxWithUser(regularUser.ID), nil, nil)
	require.NoError(t, err)
	assert.True(t, f.repo.gainFrom.Equal(time.Unix(0, 0)))
	assert.Equal(t, 2085, f.repo.gainTo.Year())

	from := date(2024, 1, 1)
	_, err = f.svc.Gain(ctxWithUser(regularUser.ID), &from, nil)
	require.NoError(t, err)
	assert.True(t, f.repo.gainFrom.Equal(from))
}
