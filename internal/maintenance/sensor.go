package maintenance

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/ukydev/vessel-ops/internal/models"
)

// SensorResult is the outcome of evaluating a sensor rule.
type SensorResult struct {
	Status  models.Status
	Value   *float64
	Limit   *float64
	Message string
}

// SensorEvaluator turns the latest sensor readings into a status for a part.
type SensorEvaluator func(part string, data map[string]any) SensorResult

// SensorRegistry maps part names to sensor evaluators.
type SensorRegistry struct {
	mu         sync.RWMutex
	evaluators map[string]SensorEvaluator
}

// NewSensorRegistry creates an empty registry.
func NewSensorRegistry() *SensorRegistry {
	return &SensorRegistry{evaluators: make(map[string]SensorEvaluator)}
}

// Register installs the evaluator for a part, replacing any previous one.
func (r *SensorRegistry) Register(part string, fn SensorEvaluator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evaluators[part] = fn
}

// Evaluate runs the evaluator registered for part. Parts without an evaluator
// report ok.
func (r *SensorRegistry) Evaluate(part string, data map[string]any) SensorResult {
	var fn SensorEvaluator
	if r != nil {
		r.mu.RLock()
		fn = r.evaluators[part]
		r.mu.RUnlock()
	}
	if fn == nil {
		return SensorResult{
			Status:  models.StatusOK,
			Message: fmt.Sprintf("%s: no sensor threshold configured", part),
		}
	}
	return fn(part, data)
}

// Threshold describes a numeric limit on one sensor field. With Below set the
// reading is bad when it drops under the limits instead of rising above them.
// A zero Warning disables the due-soon band.
type Threshold struct {
	Field    string
	Warning  float64
	Critical float64
	Below    bool
	Unit     string
}

// Evaluator returns a SensorEvaluator enforcing the threshold. A missing or
// non-numeric field reports ok.
func (t Threshold) Evaluator() SensorEvaluator {
	return func(part string, data map[string]any) SensorResult {
		value, ok := numeric(data[t.Field])
		if !ok {
			return SensorResult{
				Status:  models.StatusOK,
				Message: fmt.Sprintf("%s: no %s reading", part, t.Field),
			}
		}
		limit := t.Critical
		res := SensorResult{Status: models.StatusOK, Value: &value, Limit: &limit}
		reading := fmt.Sprintf("%s %s%s", t.Field, formatValue(value), t.Unit)

		switch {
		case t.beyond(value, t.Critical):
			res.Status = models.StatusCritical
			res.Message = fmt.Sprintf("%s critical: %s (limit %s%s)", part, reading, formatValue(t.Critical), t.Unit)
		case t.Warning != 0 && t.beyond(value, t.Warning):
			res.Status = models.StatusDueSoon
			res.Message = fmt.Sprintf("%s needs attention: %s", part, reading)
		default:
			res.Message = fmt.Sprintf("%s normal: %s", part, reading)
		}
		return res
	}
}

func (t Threshold) beyond(value, limit float64) bool {
	if t.Below {
		return value < limit
	}
	return value > limit
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
