package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/orderflow/internal/model"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidRules is returned when a rule set fails validation.
var ErrInvalidRules = errors.New("invalid rules")

// Rules holds every tunable constant of the derivation. Zone and status keys
// are compared after lowercasing and trimming.
type Rules struct {
	// ZoneTargets maps a zone code to its Calculated Ideal Delivery TAT in days.
	ZoneTargets map[string]int `mapstructure:"zone_targets" validate:"required,min=1,dive,keys,required,endkeys,gte=0"`

	// NoPlacementBufferZones skip the +1 day placement-to-dispatch buffer.
	NoPlacementBufferZones []string `mapstructure:"no_placement_buffer_zones"`

	// ConsumerGraceZones get one more day on the consumer-facing promise.
	ConsumerGraceZones []string `mapstructure:"consumer_grace_zones"`

	// DispatchThresholdDays is the Dispatch TAT limit. It does not depend on
	// the zone table.
	DispatchThresholdDays int `mapstructure:"dispatch_threshold_days" validate:"gte=0"`

	ReshippedValues   []string `mapstructure:"reshipped_values" validate:"required,dive,required"`
	DeliveredStatuses []string `mapstructure:"delivered_statuses" validate:"required,dive,required"`
	TransitStatuses   []string `mapstructure:"transit_statuses" validate:"dive,required"`
	TransitPrefix     string   `mapstructure:"transit_prefix"`
	RTOStatuses       []string `mapstructure:"rto_statuses" validate:"dive,required"`

	WarehouseFacilities []string `mapstructure:"warehouse_facilities" validate:"dive,required"`
	DarkStoreFacilities []string `mapstructure:"dark_store_facilities" validate:"dive,required"`
}

// DefaultRules returns the production rule set.
func DefaultRules() Rules {
	return Rules{
		ZoneTargets: map[string]int{
			"a":   2,
			"b":   3,
			"c":   3,
			"d":   5,
			"e":   7,
			"sdd": 0,
			"ndd": 1,
		},
		NoPlacementBufferZones: []string{"sdd"},
		ConsumerGraceZones:     []string{"sdd", "ndd"},
		DispatchThresholdDays:  1,
		ReshippedValues:        []string{"yes", "y", "true", "1", "reshipped"},
		DeliveredStatuses:      []string{"delivered"},
		TransitStatuses: []string{
			"in-transit",
			"in-transit, damaged/lost",
			"in-transit, delayed",
			"outforpickup",
		},
		TransitPrefix:       "in-transit",
		RTOStatuses:         []string{"rto"},
		WarehouseFacilities: []string{"warehouse"},
		DarkStoreFacilities: []string{"dark store"},
	}
}

var validate = validator.New()

// Validate checks the rule set and normalises every key and list entry so
// lookups can compare against lowercased, trimmed input.
func (r *Rules) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}

	targets := make(map[string]int, len(r.ZoneTargets))
	for zone, days := range r.ZoneTargets {
		key := model.NormalizeText(zone)
		if _, dup := targets[key]; dup {
			return fmt.Errorf("%w: zone %q listed twice", ErrInvalidRules, key)
		}
		targets[key] = days
	}
	r.ZoneTargets = targets

	for _, list := range []*[]string{
		&r.NoPlacementBufferZones,
		&r.ConsumerGraceZones,
		&r.ReshippedValues,
		&r.DeliveredStatuses,
		&r.TransitStatuses,
		&r.RTOStatuses,
		&r.WarehouseFacilities,
		&r.DarkStoreFacilities,
	} {
		*list = normalizeAll(*list)
	}
	r.TransitPrefix = strings.ToLower(strings.TrimSpace(r.TransitPrefix))

	return nil
}

// ClassifyStatus buckets a final status. Exact matches are checked before
// the transit prefix so "rto" style codes never fall into Transit.
func (r *Rules) ClassifyStatus(status string) model.StatusClass {
	s := model.NormalizeText(status)
	switch {
	case s == "":
		return model.StatusOther
	case slices.Contains(r.DeliveredStatuses, s):
		return model.StatusDelivered
	case slices.Contains(r.RTOStatuses, s):
		return model.StatusRTO
	case slices.Contains(r.TransitStatuses, s):
		return model.StatusTransit
	case r.TransitPrefix != "" && strings.HasPrefix(s, r.TransitPrefix):
		return model.StatusTransit
	default:
		return model.StatusOther
	}
}

// FacilityKind normalises a facility name and classifies it.
func (r *Rules) FacilityKind(facility string) model.FacilityKind {
	name := model.NormalizeText(facility)
	switch {
	case name == "":
		return model.FacilityOther
	case slices.Contains(r.WarehouseFacilities, name):
		return model.FacilityWarehouse
	case slices.Contains(r.DarkStoreFacilities, name):
		return model.FacilityDarkStore
	default:
		return model.FacilityOther
	}
}

// IsReshipped reports whether the raw Reshipped cell marks a reshipment.
func (r *Rules) IsReshipped(value string) bool {
	v := model.NormalizeText(value)
	return v != "" && slices.Contains(r.ReshippedValues, v)
}

func normalizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, model.NormalizeText(v))
	}
	return out
}
