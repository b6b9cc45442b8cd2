package engine

import (
	"testing"

	"github.com/Veraticus/orderflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRules_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Rules)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Rules) {}},
		{
			name:    "empty zone table",
			mutate:  func(r *Rules) { r.ZoneTargets = map[string]int{} },
			wantErr: true,
		},
		{
			name:    "negative target",
			mutate:  func(r *Rules) { r.ZoneTargets["a"] = -1 },
			wantErr: true,
		},
		{
			name:    "negative dispatch threshold",
			mutate:  func(r *Rules) { r.DispatchThresholdDays = -1 },
			wantErr: true,
		},
		{
			name:    "blank delivered status",
			mutate:  func(r *Rules) { r.DeliveredStatuses = []string{"delivered", ""} },
			wantErr: true,
		},
		{
			name: "zones differing only by case collide",
			mutate: func(r *Rules) {
				r.ZoneTargets = map[string]int{"a": 2, "A ": 4}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := DefaultRules()
			tt.mutate(&rules)
			err := rules.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidRules)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRules_ValidateNormalizes(t *testing.T) {
	rules := DefaultRules()
	rules.ZoneTargets = map[string]int{" X ": 4}
	rules.DeliveredStatuses = []string{"  DELIVERED "}
	rules.DarkStoreFacilities = []string{"Dark   Store"}
	rules.TransitPrefix = " In-Transit "
	require.NoError(t, rules.Validate())

	assert.Equal(t, map[string]int{"x": 4}, rules.ZoneTargets)
	assert.Equal(t, model.StatusDelivered, rules.ClassifyStatus("delivered"))
	assert.Equal(t, model.FacilityDarkStore, rules.FacilityKind("dark store"))
	assert.Equal(t, model.StatusTransit, rules.ClassifyStatus("IN-TRANSIT, stuck"))
}

func TestRules_ClassifyStatus(t *testing.T) {
	rules := DefaultRules()
	require.NoError(t, rules.Validate())

	for status, want := range map[string]model.StatusClass{
		"Delivered":                model.StatusDelivered,
		"DELIVERED":                model.StatusDelivered,
		"RTO":                      model.StatusRTO,
		"In-Transit":               model.StatusTransit,
		"In-Transit, Delayed":      model.StatusTransit,
		"IN-TRANSIT, DAMAGED/LOST": model.StatusTransit,
		"OutForPickup":             model.StatusTransit,
		"Delivered to neighbour":   model.StatusOther,
		"Lost":                     model.StatusOther,
		"":                         model.StatusOther,
	} {
		assert.Equal(t, want, rules.ClassifyStatus(status), "status %q", status)
	}
}

func TestRules_FacilityKind(t *testing.T) {
	rules := DefaultRules()
	require.NoError(t, rules.Validate())

	assert.Equal(t, model.FacilityWarehouse, rules.FacilityKind(" WAREHOUSE\n"))
	assert.Equal(t, model.FacilityDarkStore, rules.FacilityKind("Dark\r\n Store"))
	assert.Equal(t, model.FacilityOther, rules.FacilityKind("Warehouse 2"))
	assert.Equal(t, model.FacilityOther, rules.FacilityKind(""))
}

func TestRules_IsReshipped(t *testing.T) {
	rules := DefaultRules()
	require.NoError(t, rules.Validate())

	for _, v := range []string{"yes", "Y", " true ", "1", "RESHIPPED"} {
		assert.True(t, rules.IsReshipped(v), v)
	}
	for _, v := range []string{"", "no", "0", "false", "n"} {
		assert.False(t, rules.IsReshipped(v), v)
	}
}
