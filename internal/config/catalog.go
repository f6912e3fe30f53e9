package config

import (
	"fmt"
	"os"

	"github.com/ukydev/vessel-ops/internal/maintenance"
	"gopkg.in/yaml.v3"
)

// Catalog holds the display names of vessel systems and the thresholds of
// sensor-triggered parts.
type Catalog struct {
	Systems map[string]string `yaml:"systems"`
	Sensors []SensorConfig    `yaml:"sensors"`
}

// SensorConfig binds a part name to a threshold on one sensor field.
type SensorConfig struct {
	Part     string  `yaml:"part"`
	Field    string  `yaml:"field"`
	Warning  float64 `yaml:"warning"`
	Critical float64 `yaml:"critical"`
	Below    bool    `yaml:"below"`
	Unit     string  `yaml:"unit"`
}

// DefaultCatalog is used when no catalog file is configured.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Systems: map[string]string{
			"engine":      "Main Engine",
			"nets":        "Nets & Gear",
			"safety":      "Safety Equipment",
			"electronics": "Electronics",
			"hydraulics":  "Hydraulic Systems",
			"cooling":     "Cooling System",
			"fuel":        "Fuel System",
		},
		Sensors: []SensorConfig{
			{Part: "Coolant temperature", Field: "coolant_temp_c", Warning: 85, Critical: 95, Unit: "C"},
			{Part: "Oil pressure", Field: "oil_pressure_bar", Warning: 2, Critical: 1, Below: true, Unit: "bar"},
			{Part: "Battery voltage", Field: "battery_v", Warning: 12.2, Critical: 11.8, Below: true, Unit: "V"},
			{Part: "Bilge level", Field: "bilge_level_cm", Warning: 10, Critical: 25, Unit: "cm"},
		},
	}
}

// LoadCatalog reads a catalog file. An empty path yields the default catalog.
// Systems missing from the file keep their default names.
func LoadCatalog(path string) (*Catalog, error) {
	catalog := DefaultCatalog()
	if path == "" {
		return catalog, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var fromFile Catalog
	if err := yaml.NewDecoder(f).Decode(&fromFile); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	for id, name := range fromFile.Systems {
		catalog.Systems[id] = name
	}
	if fromFile.Sensors != nil {
		catalog.Sensors = fromFile.Sensors
	}
	for i, s := range catalog.Sensors {
		if s.Part == "" || s.Field == "" {
			return nil, fmt.Errorf("catalog %s: sensor %d needs part and field", path, i)
		}
	}
	return catalog, nil
}

// SensorRegistry builds the evaluators for the configured sensor parts.
func (c *Catalog) SensorRegistry() *maintenance.SensorRegistry {
	registry := maintenance.NewSensorRegistry()
	for _, s := range c.Sensors {
		registry.Register(s.Part, maintenance.Threshold{
			Field:    s.Field,
			Warning:  s.Warning,
			Critical: s.Critical,
			Below:    s.Below,
			Unit:     s.Unit,
		}.Evaluator())
	}
	return registry
}
