package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestLeak_CO2(t *testing.T) {
	l := Leak{Cost: ptr(1000)}
	assert.InDelta(t, 5.48845605, l.CO2(), 1e-6)

	assert.Zero(t, (&Leak{}).CO2())
}

func TestLeak_FinalGain(t *testing.T) {
	l := Leak{Cost: ptr(1500), ActionCost: ptr(200), ActionStatus: ActionStatusInProgress}
	assert.Zero(t, l.FinalGain())

	l.ActionStatus = ActionStatusClosed
	assert.Equal(t, 1300.0, l.FinalGain())

	l.ActionCost = nil
	assert.Equal(t, 1500.0, l.FinalGain())
}

func TestControlFrequency_IntervalForCost(t *testing.T) {
	f := ControlFrequency{Band0To100: 12, Band100To500: 6, Band500To1500: 3, Band1500Plus: 1, Horizon: 12}
	assert.Equal(t, 12, f.IntervalForCost(50))
	assert.Equal(t, 6, f.IntervalForCost(100))
	assert.Equal(t, 3, f.IntervalForCost(1499.99))
	assert.Equal(t, 1, f.IntervalForCost(1500))
}
