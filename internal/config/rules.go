package config

import (
	"fmt"
	"strings"

	"github.com/Veraticus/orderflow/internal/engine"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyInputSheet    = "input.sheet"
	KeyDeriveWorkers = "derive.workers"
	KeyLogLevel      = "logging.level"
	KeyLogFormat     = "logging.format"
)

// Configure binds ORDERFLOW_* environment variables and registers defaults.
func Configure(v *viper.Viper) {
	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
}

// SetDefaults registers the built-in rule tables and settings on v so that
// env vars and config files override individual keys. Zones from a config
// file extend the built-in zone table.
func SetDefaults(v *viper.Viper) {
	d := engine.DefaultRules()
	zones := make(map[string]any, len(d.ZoneTargets))
	for zone, days := range d.ZoneTargets {
		zones[zone] = days
	}
	v.SetDefault("rules.zone_targets", zones)
	v.SetDefault("rules.no_placement_buffer_zones", d.NoPlacementBufferZones)
	v.SetDefault("rules.consumer_grace_zones", d.ConsumerGraceZones)
	v.SetDefault("rules.dispatch_threshold_days", d.DispatchThresholdDays)
	v.SetDefault("rules.reshipped_values", d.ReshippedValues)
	v.SetDefault("rules.delivered_statuses", d.DeliveredStatuses)
	v.SetDefault("rules.transit_statuses", d.TransitStatuses)
	v.SetDefault("rules.transit_prefix", d.TransitPrefix)
	v.SetDefault("rules.rto_statuses", d.RTOStatuses)
	v.SetDefault("rules.warehouse_facilities", d.WarehouseFacilities)
	v.SetDefault("rules.dark_store_facilities", d.DarkStoreFacilities)

	v.SetDefault(KeyInputSheet, "")
	v.SetDefault(KeyDeriveWorkers, 1)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// LoadRules decodes and validates the rule tables held by v. Decoding goes
// through the merged settings so a partial rules section keeps the defaults
// of the keys it omits.
func LoadRules(v *viper.Viper) (engine.Rules, error) {
	var settings struct {
		Rules engine.Rules `mapstructure:"rules"`
	}
	if err := v.Unmarshal(&settings); err != nil {
		return engine.Rules{}, fmt.Errorf("failed to decode rules: %w", err)
	}
	if err := settings.Rules.Validate(); err != nil {
		return engine.Rules{}, err
	}
	return settings.Rules, nil
}
