package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tarsier/internal/dto"
	"tarsier/internal/entities"
	"tarsier/pkg/types"
	"tarsier/pkg/utils"
)

type mockEquipmentService struct {
	mock.Mock
}

func (m *mockEquipmentService) GetEquipments(ctx context.Context, filter types.Filter) (*dto.PaginatedResponse[entities.Equipment], error) {
	args := m.Called(ctx, filter)
	v, _ := args.Get(0).(*dto.PaginatedResponse[entities.Equipment])
	return v, args.Error(1)
}

func (m *mockEquipmentService) GetActiveEquipments(ctx context.Context) ([]entities.Equipment, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]entities.Equipment)
	return v, args.Error(1)
}

func (m *mockEquipmentService) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*entities.Equipment)
	return v, args.Error(1)
}

func (m *mockEquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	args := m.Called(ctx, payload)
	v, _ := args.Get(0).(*entities.Equipment)
	return v, args.Error(1)
}

func (m *mockEquipmentService) UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	args := m.Called(ctx, id, payload)
	v, _ := args.Get(0).(*entities.Equipment)
	return v, args.Error(1)
}

func (m *mockEquipmentService) DeleteEquipment(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockEquipmentService) FactorAsOf(ctx context.Context, id uint64, asOf time.Time) (float64, error) {
	args := m.Called(ctx, id, asOf)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockEquipmentService) FactorHistory(ctx context.Context, id uint64) ([]entities.EquipmentFactorChange, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).([]entities.EquipmentFactorChange)
	return v, args.Error(1)
}

func getFactor(t *testing.T, svc *mockEquipmentService, query string) (*httptest.ResponseRecorder, utils.HttpResponse) {
	t.Helper()
	e := newTestEcho(t)
	req := httptest.NewRequest(http.MethodGet, "/api/equipments/factor"+query, nil)
	rec := httptest.NewRecorder()

	ctrl := NewEquipmentController(svc, zap.NewNop())
	require.NoError(t, ctrl.GetFactor(e.NewContext(req, rec)))

	var resp utils.HttpResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestGetFactor_ReturnsFactorForDate(t *testing.T) {
	svc := new(mockEquipmentService)
	asOf := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.On("FactorAsOf", mock.Anything, uint64(1), asOf).Return(11.0, nil)

	rec, resp := getFactor(t, svc, "?equipId=1&date=2025-01-01")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Status)

	body, ok := resp.Body.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 11.0, body["facteur"])
	assert.Equal(t, "2025-01-01T00:00:00Z", body["date"])
	svc.AssertExpectations(t)
}

func TestGetFactor_RequiresDateAndEquipment(t *testing.T) {
	for _, query := range []string{"?equipId=1", "?date=2025-01-01", ""} {
		t.Run(query, func(t *testing.T) {
			svc := new(mockEquipmentService)

			rec, resp := getFactor(t, svc, query)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, resp.Status)
			assert.Equal(t, `"date" and "equipId" are required`, resp.Message)
			svc.AssertNotCalled(t, "FactorAsOf", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestGetFactor_RejectsMalformedDate(t *testing.T) {
	svc := new(mockEquipmentService)

	rec, _ := getFactor(t, svc, "?equipId=1&date=yesterday")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "FactorAsOf", mock.Anything, mock.Anything, mock.Anything)
}
