package fuel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/vessel-ops/internal/models"
)

const specsKey = "specs"

var specColumns = []string{"vessel_id", "fuel_consumption", "fuel_cost_usd_per_day", "hp", "vessel_type", "engine_type"}

// Table serves the fuel spec table from a CSV file. The parsed rows are
// cached and the file is read again once the cache entry expires, so edits
// to the file are picked up without a restart.
type Table struct {
	path  string
	ttl   time.Duration
	cache *cache.Cache
}

// NewTable creates a table backed by the CSV file at path.
func NewTable(path string, ttl time.Duration) *Table {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Table{
		path:  path,
		ttl:   ttl,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Specs returns every row of the table in file order.
func (t *Table) Specs() ([]models.VesselSpec, error) {
	if cached, ok := t.cache.Get(specsKey); ok {
		return cached.([]models.VesselSpec), nil
	}

	f, err := os.Open(t.path)
	if err != nil {
		return nil, fmt.Errorf("open fuel spec table: %w", err)
	}
	defer f.Close()

	specs, err := ReadSpecs(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.path, err)
	}
	t.cache.Set(specsKey, specs, t.ttl)
	log.WithFields(log.Fields{"path": t.path, "rows": len(specs)}).Debug("Loaded fuel spec table")
	return specs, nil
}

// Invalidate drops the cached rows.
func (t *Table) Invalidate() {
	t.cache.Delete(specsKey)
}

// ReadSpecs parses a fuel spec CSV with a header row. Columns may appear in
// any order; extra columns are ignored.
func ReadSpecs(r io.Reader) ([]models.VesselSpec, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range specColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var specs []models.VesselSpec
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		field := func(col string) string { return strings.TrimSpace(record[index[col]]) }

		spec := models.VesselSpec{
			VesselID:   field("vessel_id"),
			VesselType: field("vessel_type"),
			EngineType: field("engine_type"),
		}
		numbers := []struct {
			col string
			dst *float64
		}{
			{"fuel_consumption", &spec.FuelConsumptionPerDay},
			{"fuel_cost_usd_per_day", &spec.FuelCostUSDPerDay},
			{"hp", &spec.HP},
		}
		for _, n := range numbers {
			v, err := strconv.ParseFloat(field(n.col), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, n.col, err)
			}
			*n.dst = v
		}
		if spec.VesselID == "" {
			return nil, fmt.Errorf("line %d: empty vessel_id", line)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
