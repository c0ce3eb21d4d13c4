package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/flowplan/internal/calendar"
	"github.com/alexanderramin/flowplan/internal/contract"
	"github.com/alexanderramin/flowplan/internal/domain"
	"github.com/alexanderramin/flowplan/internal/merge"
	"github.com/alexanderramin/flowplan/internal/repository"
	"github.com/alexanderramin/flowplan/internal/rollback"
	"github.com/alexanderramin/flowplan/internal/scheduler"
	"github.com/alexanderramin/flowplan/internal/tabular"
	"github.com/alexanderramin/flowplan/internal/verify"
)

// ScheduleService is spec.md §2's single inbound operation plus the
// optional save_schedule collaborator (spec.md §6).
type ScheduleService interface {
	// ParseAndSchedule runs parse -> verify -> rollback -> merge ->
	// decorate over req.Payload, anchored at today. The returned
	// errors are, in order, parse errors, verification errors, or a
	// structural rollback failure — any non-empty return means no
	// response was produced.
	ParseAndSchedule(ctx context.Context, req contract.ScheduleRequest, today time.Time) (*contract.ScheduleResponse, []error)

	// SaveSchedule persists a previously produced response under
	// projectName. Returns an error if no ScheduleRepo was wired.
	SaveSchedule(ctx context.Context, projectName string, resp *contract.ScheduleResponse) (string, error)
}

type scheduleService struct {
	repo         repository.ScheduleRepo // nil disables SaveSchedule
	solverBudget time.Duration
	rollback     rollback.Config
	observer     UseCaseObserver
	cache        ScheduleCache
}

// NewScheduleService wires the full pipeline. repo may be nil when
// persistence is not configured; SaveSchedule then returns an error
// instead of silently doing nothing, since a caller that reaches for
// it without a repository wired has a configuration bug, not a
// recoverable runtime condition. cache may be nil, defaulting to
// NoopScheduleCache.
func NewScheduleService(repo repository.ScheduleRepo, schedulerCfg scheduler.Config, rollbackCfg rollback.Config, cache ScheduleCache, observers ...UseCaseObserver) ScheduleService {
	return &scheduleService{
		repo:         repo,
		solverBudget: schedulerCfg.SolverBudget,
		rollback:     rollbackCfg,
		observer:     useCaseObserverOrNoop(observers),
		cache:        scheduleCacheOrNoop([]ScheduleCache{cache}),
	}
}

func (s *scheduleService) ParseAndSchedule(ctx context.Context, req contract.ScheduleRequest, today time.Time) (*contract.ScheduleResponse, []error) {
	key := calendar.FormatDate(today) + "\x00" + req.Payload
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	started := time.Now()
	resp, errs := s.parseAndSchedule(ctx, req, today)
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "ParseAndSchedule",
		Duration:  time.Since(started),
		Success:   len(errs) == 0,
		Err:       firstErr(errs),
		StartedAt: started,
	})
	if len(errs) == 0 {
		s.cache.Set(key, resp)
	}
	return resp, errs
}

func (s *scheduleService) parseAndSchedule(ctx context.Context, req contract.ScheduleRequest, today time.Time) (*contract.ScheduleResponse, []error) {
	meta, tasks, parseNotes, errs := tabular.ParsePayload(req.Payload)
	if len(errs) > 0 {
		return nil, errs
	}

	if errs := verify.Input(tasks, meta); len(errs) > 0 {
		return nil, errs
	}

	outcome, errs := rollback.Run(ctx, tasks, meta, today, s.solverBudget, s.rollback)
	if len(errs) > 0 {
		return nil, errs
	}

	if outcome.Result == nil {
		// Rollback exhausted its bound without a feasible schedule;
		// outcome.Notifications already carries the ERROR severity
		// explanation.
		return &contract.ScheduleResponse{
			Notifications: append(parseNotes, outcome.Notifications...),
		}, nil
	}

	anchor := calendar.AddBusinessDays(today, -outcome.Offset)
	merge.Merge(outcome.Upper, outcome.Result, outcome.SpecificMap, outcome.ParallelMap, anchor)
	decoration := merge.Decorate(outcome.Upper, today)

	notifications := make([]domain.Notification, 0, len(parseNotes)+len(outcome.Notifications)+len(decoration.Notifications))
	notifications = append(notifications, parseNotes...)
	notifications = append(notifications, outcome.Notifications...)
	notifications = append(notifications, decoration.Notifications...)

	resp := &contract.ScheduleResponse{
		Notifications: notifications,
		Makespan:      decoration.Makespan,
		CriticalPath:  decoration.CriticalPath,
		Utilization:   make([]contract.PersonUtilization, len(decoration.Utilization)),
	}
	for i, u := range decoration.Utilization {
		resp.Utilization[i] = contract.PersonUtilization{
			Person:        u.Person,
			DaysAllocated: u.DaysAllocated,
			Percentage:    u.Percentage,
		}
	}
	for _, t := range outcome.Upper.Tasks {
		tr := contract.TaskResult{Task: t.Name, Assignees: t.Assignees, Status: t.Status}
		if t.StartDate != nil {
			tr.StartDate = *t.StartDate
		}
		if t.EndDate != nil {
			tr.EndDate = *t.EndDate
		}
		resp.Tasks = append(resp.Tasks, tr)
	}
	return resp, nil
}

func (s *scheduleService) SaveSchedule(ctx context.Context, projectName string, resp *contract.ScheduleResponse) (string, error) {
	started := time.Now()
	id, err := s.saveSchedule(ctx, projectName, resp)
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "SaveSchedule",
		Duration:  time.Since(started),
		Success:   err == nil,
		Err:       err,
		StartedAt: started,
		Fields:    map[string]any{"project": projectName},
	})
	return id, err
}

func (s *scheduleService) saveSchedule(ctx context.Context, projectName string, resp *contract.ScheduleResponse) (string, error) {
	if s.repo == nil {
		return "", fmt.Errorf("SaveSchedule: no repository.ScheduleRepo configured")
	}
	return s.repo.SaveSchedule(ctx, projectName, buildCalendar(resp.Tasks))
}

// buildCalendar flattens solved tasks into spec.md §6's
// date -> person -> [task] shape, one entry per business day the
// task spans, per assignee. EndDate is exclusive (the business day
// after the task's last working day), matching internal/merge's
// and internal/scheduler's offset convention.
func buildCalendar(tasks []contract.TaskResult) repository.Calendar {
	cal := make(repository.Calendar)
	for _, t := range tasks {
		if t.StartDate.IsZero() || t.EndDate.IsZero() {
			continue
		}
		for d := t.StartDate; d.Before(t.EndDate); d = calendar.AddBusinessDays(d, 1) {
			for _, person := range t.Assignees {
				if cal[d] == nil {
					cal[d] = make(map[string][]repository.TaskAssignment)
				}
				cal[d][person] = append(cal[d][person], repository.TaskAssignment{Task: t.Task, Status: t.Status})
			}
		}
	}
	return cal
}

func firstErr(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}
