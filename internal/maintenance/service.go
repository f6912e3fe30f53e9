package maintenance

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/vessel-ops/internal/db"
	"github.com/ukydev/vessel-ops/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultLogLimit = 100
	maxLogLimit     = 1000
	maxSwapAttempts = 3
	publishTimeout  = 5 * time.Second
)

var systemIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// Notifier is told about every computed summary.
type Notifier interface {
	PublishSummary(ctx context.Context, summary *models.VesselMaintenanceSummary) error
}

// Recorder receives domain events for metrics.
type Recorder interface {
	SummaryComputed(status models.Status)
	TripCompleted()
	ServiceLogged(systemID string)
}

// Service ties the stores to the calculator.
type Service struct {
	vessels  db.VesselCollection
	states   db.StateCollection
	rules    db.RuleCollection
	logs     db.LogCollection
	calc     *Calculator
	notifier Notifier
	recorder Recorder
	now      func() time.Time
	pending  sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier publishes every computed summary.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithRecorder reports domain events.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a maintenance service.
func NewService(vessels db.VesselCollection, states db.StateCollection, rules db.RuleCollection, logs db.LogCollection, calc *Calculator, opts ...Option) *Service {
	s := &Service{
		vessels: vessels,
		states:  states,
		rules:   rules,
		logs:    logs,
		calc:    calc,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// ---- vessels ----

// CreateVessel registers a vessel and seeds zeroed counters for it.
func (s *Service) CreateVessel(ctx context.Context, owner string, req models.CreateVesselRequest) (*models.Vessel, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	now := s.clock()
	vessel := models.Vessel{
		ID:         primitive.NewObjectID(),
		Owner:      owner,
		Name:       strings.TrimSpace(req.Name),
		Type:       req.Type,
		FuelSpecID: req.FuelSpecID,
		CreatedAt:  now,
	}
	if err := s.vessels.InsertVessel(ctx, vessel); err != nil {
		return nil, fmt.Errorf("insert vessel: %w", err)
	}
	if _, err := s.states.EnsureState(ctx, models.NewVesselState(owner, vessel.ID.Hex(), now)); err != nil {
		return nil, fmt.Errorf("seed vessel state: %w", err)
	}
	log.WithFields(log.Fields{"vessel_id": vessel.ID.Hex(), "owner": owner}).Info("Created vessel")
	return &vessel, nil
}

// ListVessels returns the owner's vessels.
func (s *Service) ListVessels(ctx context.Context, owner string) ([]models.Vessel, error) {
	return s.vessels.FindVessels(ctx, owner)
}

// GetVessel returns one of the owner's vessels.
func (s *Service) GetVessel(ctx context.Context, owner, vesselID string) (*models.Vessel, error) {
	vessel, err := s.vessels.FindVesselByID(ctx, owner, vesselID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrVesselNotFound
		}
		return nil, err
	}
	return vessel, nil
}

// UpdateVessel replaces the name, type and fuel spec of a vessel.
func (s *Service) UpdateVessel(ctx context.Context, owner, vesselID string, req models.CreateVesselRequest) (*models.Vessel, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	vessel, err := s.vessels.UpdateVessel(ctx, owner, vesselID, req)
	if err != nil {
		return nil, vesselErr(err)
	}
	log.WithFields(log.Fields{"vessel_id": vesselID, "owner": owner}).Info("Updated vessel")
	return vessel, nil
}

// DeleteVessel removes a vessel and its counters. Logs are kept.
func (s *Service) DeleteVessel(ctx context.Context, owner, vesselID string) error {
	if err := s.vessels.DeleteVessel(ctx, owner, vesselID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrVesselNotFound
		}
		return err
	}
	return s.states.DeleteState(ctx, owner, vesselID)
}

func vesselErr(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return ErrVesselNotFound
	}
	return err
}

// ---- systems ----

func validSystemID(systemID string) error {
	if !systemIDPattern.MatchString(systemID) {
		return fmt.Errorf("%w: invalid system id %q", ErrInvalidInput, systemID)
	}
	return nil
}

// ReportSystemStatus stores the status the crew reports for a system.
func (s *Service) ReportSystemStatus(ctx context.Context, owner, vesselID, systemID string, status models.Status) (*models.SystemRecord, error) {
	if err := validSystemID(systemID); err != nil {
		return nil, err
	}
	if !models.IsReportableStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	vessel, err := s.vessels.SetSystemStatus(ctx, owner, vesselID, systemID, status)
	if err != nil {
		return nil, vesselErr(err)
	}
	record := vessel.Systems[systemID]
	return &record, nil
}

// AddTask creates an open task on a system. Priority defaults to medium.
func (s *Service) AddTask(ctx context.Context, owner, vesselID, systemID string, req models.CreateTaskRequest) (*models.Task, error) {
	if err := validSystemID(systemID); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(req.Task)
	if text == "" {
		return nil, fmt.Errorf("%w: task is required", ErrInvalidInput)
	}
	due, err := models.ParseDate(req.Due)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.IsValidPriority(priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, priority)
	}

	task := models.Task{
		ID:        primitive.NewObjectID().Hex(),
		Task:      text,
		Due:       models.FormatDate(due),
		Priority:  priority,
		CreatedAt: s.clock(),
	}
	if _, err := s.vessels.AddTask(ctx, owner, vesselID, systemID, task); err != nil {
		return nil, vesselErr(err)
	}
	return &task, nil
}

// UpdateTask changes the provided fields of a task.
func (s *Service) UpdateTask(ctx context.Context, owner, vesselID, systemID, taskID string, req models.UpdateTaskRequest) (*models.Task, error) {
	if err := validSystemID(systemID); err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if req.Task != nil {
		text := strings.TrimSpace(*req.Task)
		if text == "" {
			return nil, fmt.Errorf("%w: task cannot be empty", ErrInvalidInput)
		}
		req.Task = &text
	}
	if req.Due != nil {
		due, err := models.ParseDate(*req.Due)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}
		formatted := models.FormatDate(due)
		req.Due = &formatted
	}
	if req.Priority != nil && !models.IsValidPriority(*req.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *req.Priority)
	}

	if _, err := s.GetVessel(ctx, owner, vesselID); err != nil {
		return nil, err
	}
	vessel, err := s.vessels.UpdateTask(ctx, owner, vesselID, systemID, taskID, req)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	for _, task := range vessel.Systems[systemID].Tasks {
		if task.ID == taskID {
			return &task, nil
		}
	}
	return nil, ErrTaskNotFound
}

// DeleteTask removes a task from a system.
func (s *Service) DeleteTask(ctx context.Context, owner, vesselID, systemID, taskID string) error {
	if err := validSystemID(systemID); err != nil {
		return err
	}
	if _, err := s.GetVessel(ctx, owner, vesselID); err != nil {
		return err
	}
	err := s.vessels.DeleteTask(ctx, owner, vesselID, systemID, taskID)
	if errors.Is(err, db.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}

// ---- state ----

// State returns the vessel counters, creating zeroed ones on first access.
func (s *Service) State(ctx context.Context, owner, vesselID string) (*models.VesselState, error) {
	if _, err := s.GetVessel(ctx, owner, vesselID); err != nil {
		return nil, err
	}
	return s.states.EnsureState(ctx, models.NewVesselState(owner, vesselID, s.clock()))
}

// CompleteTrip adds a finished trip to the vessel counters.
func (s *Service) CompleteTrip(ctx context.Context, owner, vesselID string, req models.CompleteTripRequest) (*models.VesselState, error) {
	state, err := s.mutateState(ctx, owner, vesselID, func(cur models.VesselState, now time.Time) (models.VesselState, error) {
		return CompleteTrip(cur, req.TripDurationHours, req.TripDate, now)
	})
	if err != nil {
		return nil, err
	}
	if s.recorder != nil {
		s.recorder.TripCompleted()
	}
	log.WithFields(log.Fields{
		"vessel_id":    vesselID,
		"engine_hours": state.EngineHours,
		"total_trips":  state.TotalTrips,
	}).Info("Trip completed")
	return state, nil
}

// PatchState overwrites the given counters.
func (s *Service) PatchState(ctx context.Context, owner, vesselID string, patch models.StatePatch) (*models.VesselState, error) {
	return s.mutateState(ctx, owner, vesselID, func(cur models.VesselState, now time.Time) (models.VesselState, error) {
		return ApplyPatch(cur, patch, now)
	})
}

// mutateState runs a read, apply, compare-and-swap cycle so concurrent writers
// to the same vessel never lose an update.
func (s *Service) mutateState(ctx context.Context, owner, vesselID string, apply func(models.VesselState, time.Time) (models.VesselState, error)) (*models.VesselState, error) {
	if _, err := s.GetVessel(ctx, owner, vesselID); err != nil {
		return nil, err
	}
	for attempt := 0; attempt < maxSwapAttempts; attempt++ {
		now := s.clock()
		cur, err := s.states.EnsureState(ctx, models.NewVesselState(owner, vesselID, now))
		if err != nil {
			return nil, fmt.Errorf("load vessel state: %w", err)
		}
		next, err := apply(*cur, now)
		if err != nil {
			return nil, err
		}
		next.Revision = cur.Revision
		saved, err := s.states.SwapState(ctx, next)
		if errors.Is(err, db.ErrRevisionConflict) {
			log.WithFields(log.Fields{"vessel_id": vesselID, "attempt": attempt + 1}).Debug("Vessel state changed underneath, retrying")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("save vessel state: %w", err)
		}
		return saved, nil
	}
	return nil, ErrConcurrentUpdate
}

// ---- logs ----

// RecordLog appends a completed service. The counters stored with it are the
// vessel's counters right now, even when done_at lies in the past.
func (s *Service) RecordLog(ctx context.Context, owner, vesselID string, req models.LogMaintenanceRequest) (*models.MaintenanceLog, error) {
	if strings.TrimSpace(req.SystemID) == "" || strings.TrimSpace(req.PartName) == "" {
		return nil, fmt.Errorf("%w: system_id and part_name are required", ErrInvalidInput)
	}
	doneAt, err := models.ParseDate(req.DoneAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if req.Cost != nil && *req.Cost < 0 {
		return nil, fmt.Errorf("%w: cost cannot be negative", ErrInvalidInput)
	}

	state, err := s.State(ctx, owner, vesselID)
	if err != nil {
		return nil, err
	}

	entry := models.MaintenanceLog{
		ID:                   primitive.NewObjectID(),
		Owner:                owner,
		VesselID:             vesselID,
		SystemID:             req.SystemID,
		PartName:             req.PartName,
		DoneAt:               models.FormatDate(doneAt),
		Technician:           req.Technician,
		Notes:                req.Notes,
		Cost:                 req.Cost,
		EngineHoursAtService: state.EngineHours,
		TripsAtService:       state.TotalTrips,
		CreatedAt:            s.clock(),
	}
	if err := s.logs.InsertLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("insert maintenance log: %w", err)
	}
	if s.recorder != nil {
		s.recorder.ServiceLogged(entry.SystemID)
	}
	return &entry, nil
}

// ListLogs returns a vessel's logs, most recent first.
func (s *Service) ListLogs(ctx context.Context, owner, vesselID string, filter models.LogFilter) ([]models.MaintenanceLog, error) {
	if _, err := s.GetVessel(ctx, owner, vesselID); err != nil {
		return nil, err
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultLogLimit
	case filter.Limit > maxLogLimit:
		filter.Limit = maxLogLimit
	}
	return s.logs.FindLogs(ctx, owner, vesselID, filter)
}

// ---- rules ----

// ListRules returns the owner's rules, optionally for one system.
func (s *Service) ListRules(ctx context.Context, owner, systemID string) ([]models.MaintenanceRule, error) {
	return s.rules.FindRules(ctx, owner, systemID)
}

// CreateRule validates and stores a rule.
func (s *Service) CreateRule(ctx context.Context, owner string, req models.CreateRuleRequest) (*models.MaintenanceRule, error) {
	if err := ValidateRule(req); err != nil {
		return nil, err
	}
	rule := s.newRule(owner, req, s.clock())
	if err := s.rules.InsertRules(ctx, rule); err != nil {
		return nil, fmt.Errorf("insert rule: %w", err)
	}
	return &rule, nil
}

func (s *Service) newRule(owner string, req models.CreateRuleRequest, now time.Time) models.MaintenanceRule {
	return models.MaintenanceRule{
		ID:            primitive.NewObjectID(),
		Owner:         owner,
		SystemID:      strings.TrimSpace(req.SystemID),
		PartName:      strings.TrimSpace(req.PartName),
		TriggerType:   req.TriggerType,
		IntervalValue: req.IntervalValue,
		WarningBefore: req.WarningBefore,
		Description:   req.Description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// UpdateRule changes interval, warning window or description of a rule.
func (s *Service) UpdateRule(ctx context.Context, owner, ruleID string, req models.UpdateRuleRequest) (*models.MaintenanceRule, error) {
	if err := ValidateRuleUpdate(req); err != nil {
		return nil, err
	}
	rule, err := s.rules.UpdateRule(ctx, owner, ruleID, req)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrRuleNotFound
	}
	return rule, err
}

// DeleteRule removes a rule.
func (s *Service) DeleteRule(ctx context.Context, owner, ruleID string) error {
	err := s.rules.DeleteRule(ctx, owner, ruleID)
	if errors.Is(err, db.ErrNotFound) {
		return ErrRuleNotFound
	}
	return err
}

// SeedDefaultRules gives a user the starter rule book. Users who already have
// rules are left alone; seeded reports whether anything was inserted.
func (s *Service) SeedDefaultRules(ctx context.Context, owner string) (rules []models.MaintenanceRule, seeded bool, err error) {
	count, err := s.rules.CountRules(ctx, owner)
	if err != nil {
		return nil, false, fmt.Errorf("count rules: %w", err)
	}
	if count > 0 {
		rules, err = s.rules.FindRules(ctx, owner, "")
		return rules, false, err
	}

	now := s.clock()
	rules = make([]models.MaintenanceRule, 0, len(DefaultRules))
	for i, req := range DefaultRules {
		// distinct timestamps keep the seeded order stable when sorting
		rules = append(rules, s.newRule(owner, req, now.Add(time.Duration(i)*time.Millisecond)))
	}
	if err := s.rules.InsertRules(ctx, rules...); err != nil {
		return nil, false, fmt.Errorf("insert default rules: %w", err)
	}
	return rules, true, nil
}

// ---- summary ----

// Summary computes the maintenance summary of a vessel. It reads the stored
// counters and one latest log per distinct (system, part) and writes nothing
// back; a vessel without stored counters is evaluated against zeroed ones.
func (s *Service) Summary(ctx context.Context, owner, vesselID string) (*models.VesselMaintenanceSummary, error) {
	vessel, err := s.GetVessel(ctx, owner, vesselID)
	if err != nil {
		return nil, err
	}
	state, err := s.states.FindState(ctx, owner, vesselID)
	if errors.Is(err, db.ErrNotFound) {
		zero := models.NewVesselState(owner, vesselID, s.clock())
		state, err = &zero, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load vessel state: %w", err)
	}
	rules, err := s.rules.FindRules(ctx, owner, "")
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	latest := make(map[[2]string]*models.MaintenanceLog, len(rules))
	for _, rule := range rules {
		key := [2]string{rule.SystemID, rule.PartName}
		if _, done := latest[key]; done {
			continue
		}
		entry, err := s.logs.FindLatestLog(ctx, owner, vesselID, rule.SystemID, rule.PartName)
		if err != nil {
			return nil, fmt.Errorf("load latest log for %s/%s: %w", rule.SystemID, rule.PartName, err)
		}
		latest[key] = entry
	}

	summary, err := s.calc.Summarize(vesselID, vessel.Name, rules, state, func(systemID, partName string) *models.MaintenanceLog {
		return latest[[2]string{systemID, partName}]
	})
	if err != nil {
		return nil, err
	}
	annotate(summary, vessel.Systems)

	if s.recorder != nil {
		s.recorder.SummaryComputed(summary.OverallStatus)
	}
	s.publish(ctx, summary)
	return summary, nil
}

// annotate copies crew-reported status and open tasks onto the computed systems.
func annotate(summary *models.VesselMaintenanceSummary, records map[string]models.SystemRecord) {
	for i := range summary.Systems {
		record, ok := records[summary.Systems[i].SystemID]
		if !ok {
			continue
		}
		summary.Systems[i].ReportedStatus = record.Status
		for _, task := range record.Tasks {
			if !task.Completed {
				summary.Systems[i].OpenTasks = append(summary.Systems[i].OpenTasks, task)
			}
		}
	}
}

// publish hands the summary to the notifier without holding up the request.
// The publish outlives the request context but is bounded by publishTimeout.
func (s *Service) publish(ctx context.Context, summary *models.VesselMaintenanceSummary) {
	if s.notifier == nil {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := s.notifier.PublishSummary(ctx, summary); err != nil {
			log.WithError(err).WithField("vessel_id", summary.VesselID).Warn("Failed to publish maintenance summary")
		}
	}()
}

// Wait blocks until in-flight summary publishes have finished.
func (s *Service) Wait() {
	s.pending.Wait()
}
