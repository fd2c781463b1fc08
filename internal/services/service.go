/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "context"
    "strings"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/rs/zerolog"

    "github.com/Ebrudra/studio-sub000/internal/agg"
    "github.com/Ebrudra/studio-sub000/internal/config"
    "github.com/Ebrudra/studio-sub000/internal/domain"
    "github.com/Ebrudra/studio-sub000/internal/engine"
    "github.com/Ebrudra/studio-sub000/internal/repo"
)

// Store is the persistence collaborator. The service never reaches storage
// any other way; it reads a sprint, transforms it, and hands the result back
// to be persisted. A failed write means the mutation did not happen.
type Store interface {
    GetSprints(ctx context.Context) ([]domain.Sprint, error)
    GetSprint(ctx context.Context, id string) (*domain.Sprint, error)
    AddSprint(ctx context.Context, sp domain.Sprint) (*domain.Sprint, error)
    UpdateSprint(ctx context.Context, sp domain.Sprint) (*domain.Sprint, error)
    DeleteSprint(ctx context.Context, id string) error
    SaveReport(ctx context.Context, sprintID, text string) (*domain.Sprint, string, error)
    ListReports(ctx context.Context, sprintID string) ([]repo.Report, error)
    LockSprint(ctx context.Context, id string) error
    UnlockSprint(ctx context.Context, id string) error
}

// LLM is the report-generation collaborator.
type LLM interface {
    SummarizeSprint(ctx context.Context, payload map[string]any) (string, error)
}

type Service struct {
    cfg   config.Config
    log   zerolog.Logger
    store Store
    llm   LLM

    // undo holds one pre-operation ticket snapshot per sprint, written by
    // every bulk operation and overwritten by the next. Not a stack.
    undoMu sync.Mutex
    undo   map[string][]domain.Ticket
}

func New(cfg config.Config, log zerolog.Logger, store Store, llm LLM) *Service {
    return &Service{cfg: cfg, log: log, store: store, llm: llm, undo: map[string][]domain.Ticket{}}
}

func today() string { return time.Now().Format(domain.DateLayout) }

// mutate runs fn against the current sprint under the per-sprint write lock
// and persists the result, so concurrent writers queue instead of dropping
// each other's changes.
func (s *Service) mutate(ctx context.Context, id string, fn func(sp *domain.Sprint) error) (*domain.Sprint, error) {
    if err := s.store.LockSprint(ctx, id); err != nil { return nil, err }
    defer func() { _ = s.store.UnlockSprint(context.Background(), id) }()
    sp, err := s.store.GetSprint(ctx, id)
    if err != nil { return nil, err }
    if err := fn(sp); err != nil { return nil, err }
    return s.store.UpdateSprint(ctx, *sp)
}

// ---- Sprint CRUD ----

// SprintDraft is the create/edit input: dates plus per-team person-days,
// from which the sprint calendar and capacities are derived.
type SprintDraft struct {
    Name       string             `json:"name"`
    StartDate  string             `json:"startDate"`
    EndDate    string             `json:"endDate"`
    PersonDays map[string]float64 `json:"personDays"`
}

func (s *Service) ListSprints(ctx context.Context) ([]domain.Sprint, error) {
    return s.store.GetSprints(ctx)
}

func (s *Service) GetSprint(ctx context.Context, id string) (*domain.Sprint, error) {
    return s.store.GetSprint(ctx, id)
}

func (s *Service) CreateSprint(ctx context.Context, draft SprintDraft) (*domain.Sprint, error) {
    sp, err := sprintFromDraft(draft)
    if err != nil { return nil, err }
    sp.ID = uuid.NewString()
    sp.Status = domain.SprintScoping
    out, err := s.store.AddSprint(ctx, *sp)
    if err != nil { return nil, err }
    s.log.Info().Str("sprint_id", out.ID).Str("name", out.Name).Msg("sprint created")
    return out, nil
}

func (s *Service) EditSprint(ctx context.Context, id string, draft SprintDraft) (*domain.Sprint, error) {
    return s.mutate(ctx, id, func(sp *domain.Sprint) error {
        if sp.Status == domain.SprintCompleted {
            return domain.Invalidf("sprint", "sprint %s is completed and read-only", id)
        }
        next, err := sprintFromDraft(draft)
        if err != nil { return err }
        sp.Name = next.Name
        sp.StartDate = next.StartDate
        sp.EndDate = next.EndDate
        sp.SprintDays = next.SprintDays
        sp.TeamCapacity = next.TeamCapacity
        sp.TotalCapacity = next.TotalCapacity
        sp.BuildCapacity = next.BuildCapacity
        sp.RunCapacity = next.RunCapacity
        return nil
    })
}

func (s *Service) DeleteSprint(ctx context.Context, id string) error {
    return s.store.DeleteSprint(ctx, id)
}

// sprintFromDraft derives the calendar and the capacity commit. Capacity
// validation is all-or-nothing: one bad team rejects the whole draft.
func sprintFromDraft(draft SprintDraft) (*domain.Sprint, error) {
    if strings.TrimSpace(draft.Name) == "" { return nil, domain.Invalidf("name", "required") }
    start, err := time.Parse(domain.DateLayout, draft.StartDate)
    if err != nil { return nil, domain.Invalidf("startDate", "bad date %q", draft.StartDate) }
    end, err := time.Parse(domain.DateLayout, draft.EndDate)
    if err != nil { return nil, domain.Invalidf("endDate", "bad date %q", draft.EndDate) }
    if end.Before(start) { return nil, domain.Invalidf("endDate", "ends before it starts") }

    capacity, err := agg.ComputeCapacity(draft.PersonDays)
    if err != nil { return nil, err }
    total, build, run := agg.CapacityTotals(capacity)
    return &domain.Sprint{
        Name:          strings.TrimSpace(draft.Name),
        StartDate:     draft.StartDate,
        EndDate:       draft.EndDate,
        SprintDays:    domain.GenerateSprintDays(start, end),
        TeamCapacity:  capacity,
        TotalCapacity: total,
        BuildCapacity: build,
        RunCapacity:   run,
    }, nil
}

// ---- Ticket mutations ----

func (s *Service) AddTicket(ctx context.Context, sprintID string, draft domain.Ticket) (*domain.Sprint, error) {
    return s.mutate(ctx, sprintID, func(sp *domain.Sprint) error {
        tickets, err := engine.AddTicket(*sp, draft, today())
        if err != nil { return err }
        sp.Tickets = tickets
        return nil
    })
}

func (s *Service) UpdateTicket(ctx context.Context, sprintID string, t domain.Ticket) (*domain.Sprint, error) {
    return s.mutate(ctx, sprintID, func(sp *domain.Sprint) error {
        tickets, err := engine.UpdateTicket(*sp, t, today())
        if err != nil { return err }
        sp.Tickets = tickets
        return nil
    })
}

func (s *Service) DeleteTicket(ctx context.Context, sprintID, ticketID string) (*domain.Sprint, error) {
    return s.mutate(ctx, sprintID, func(sp *domain.Sprint) error {
        tickets, err := engine.DeleteTicket(*sp, ticketID)
        if err != nil { return err }
        sp.Tickets = tickets
        return nil
    })
}

func (s *Service) LogProgress(ctx context.Context, sprintID string, entry engine.LogEntry) (*domain.Sprint, error) {
    return s.mutate(ctx, sprintID, func(sp *domain.Sprint) error {
        tickets, err := engine.LogProgress(*sp, entry)
        if err != nil { return err }
        sp.Tickets = tickets
        return nil
    })
}

func (s *Service) BulkUploadTickets(ctx context.Context, sprintID string, rows []engine.UploadRow) (*engine.BulkResult, error) {
    var res engine.BulkResult
    var prior []domain.Ticket
    _, err := s.mutate(ctx, sprintID, func(sp *domain.Sprint) error {
        out, err := engine.BulkUploadTickets(*sp, rows, today(), s.cfg.DefaultTeam)
        if err != nil { return err }
        prior = append([]domain.Ticket{}, sp.Tickets...)
        sp.Tickets = out.Tickets
        res = out
        return nil
    })
    if err != nil { return nil, err }
    // Snapshot only once the write landed; a failed persist must not leave
    // an undo slot for a mutation that never happened.
    s.snapshot(sprintID, prior)
    if res.Skipped.Total() > 0 {
        s.log.Info().Str("sprint_id", sprintID).Int("added", res.Added).
            Int("skipped", res.Skipped.Total()).Msg("bulk upload skipped rows")
    }
    return &res, nil
}

func (s *Service) BulkLogProgress(ctx context.Context, sprintID string, rows []engine.LogRow) (*engine.BulkResult, error) {
    var res engine.BulkResult
    var prior []domain.Ticket
    _, err := s.mutate(ctx, sprintID, func(sp *domain.Sprint) error {
        out, err := engine.BulkLogProgress(*sp, rows)
        if err != nil { return err }
        prior = append([]domain.Ticket{}, sp.Tickets...)
        sp.Tickets = out.Tickets
        res = out
        return nil
    })
    if err != nil { return nil, err }
    s.snapshot(sprintID, prior)
    if res.Skipped.Total() > 0 {
        s.log.Info().Str("sprint_id", sprintID).Int("added", res.Added).Int("updated", res.Updated).
            Int("skipped", res.Skipped.Total()).Msg("bulk log skipped rows")
    }
    return &res, nil
}

func (s *Service) snapshot(sprintID string, tickets []domain.Ticket) {
    s.undoMu.Lock()
    defer s.undoMu.Unlock()
    s.undo[sprintID] = append([]domain.Ticket{}, tickets...)
}

// Undo restores the single pre-bulk snapshot for the sprint, then clears it.
func (s *Service) Undo(ctx context.Context, sprintID string) (*domain.Sprint, error) {
    s.undoMu.Lock()
    snap, ok := s.undo[sprintID]
    s.undoMu.Unlock()
    if !ok { return nil, domain.Invalidf("undo", "nothing to undo for sprint %s", sprintID) }
    sp, err := s.mutate(ctx, sprintID, func(sp *domain.Sprint) error {
        sp.Tickets = append([]domain.Ticket{}, snap...)
        return nil
    })
    if err != nil { return nil, err }
    s.undoMu.Lock()
    delete(s.undo, sprintID)
    s.undoMu.Unlock()
    return sp, nil
}

// ---- Lifecycle ----

func (s *Service) FinalizeScope(ctx context.Context, sprintID string) (*domain.Sprint, error) {
    return s.mutate(ctx, sprintID, func(sp *domain.Sprint) error {
        next, err := engine.FinalizeScope(*sp)
        if err != nil { return err }
        *sp = next
        return nil
    })
}

func (s *Service) ReopenScope(ctx context.Context, sprintID string) (*domain.Sprint, error) {
    return s.mutate(ctx, sprintID, func(sp *domain.Sprint) error {
        next, err := engine.ReopenScope(*sp)
        if err != nil { return err }
        *sp = next
        return nil
    })
}

func (s *Service) CompleteSprint(ctx context.Context, sprintID string) (*domain.Sprint, error) {
    return s.mutate(ctx, sprintID, func(sp *domain.Sprint) error {
        next, err := engine.CompleteSprint(*sp)
        if err != nil { return err }
        *sp = next
        return nil
    })
}

// ---- Aggregated reads ----

func (s *Service) Burndown(ctx context.Context, sprintID string, opt agg.BurndownOptions) ([]agg.BurndownPoint, error) {
    sp, err := s.store.GetSprint(ctx, sprintID)
    if err != nil { return nil, err }
    return agg.Burndown(*sp, opt), nil
}

func (s *Service) TeamPerformance(ctx context.Context, sprintID string) ([]agg.TeamPerformance, error) {
    sp, err := s.store.GetSprint(ctx, sprintID)
    if err != nil { return nil, err }
    return agg.TeamPerformanceRows(*sp), nil
}

func (s *Service) VelocityTrend(ctx context.Context, sprintID string) ([]agg.VelocityPoint, error) {
    sp, err := s.store.GetSprint(ctx, sprintID)
    if err != nil { return nil, err }
    all, err := s.store.GetSprints(ctx)
    if err != nil { return nil, err }
    return agg.VelocityTrend(all, *sp, s.cfg.TrendSprints), nil
}

type Distributions struct {
    Scope     []agg.DistributionSlice `json:"scope"`
    Work      []agg.DistributionSlice `json:"work"`
    ByDayTeam []agg.TeamDaySlice      `json:"byDayTeam"`
}

func (s *Service) Distribution(ctx context.Context, sprintID string) (*Distributions, error) {
    sp, err := s.store.GetSprint(ctx, sprintID)
    if err != nil { return nil, err }
    return &Distributions{
        Scope:     agg.ScopeDistribution(*sp),
        Work:      agg.WorkDistribution(*sp),
        ByDayTeam: agg.DayTeamDistribution(*sp),
    }, nil
}

// ---- Reports ----

// GenerateReport aggregates the sprint into one payload, asks the LLM for a
// Markdown narrative, and stores it.
func (s *Service) GenerateReport(ctx context.Context, sprintID string) (string, error) {
    sp, err := s.store.GetSprint(ctx, sprintID)
    if err != nil { return "", err }
    all, err := s.store.GetSprints(ctx)
    if err != nil { return "", err }
    payload := map[string]any{
        "sprint": map[string]any{
            "name":      sp.Name,
            "status":    sp.Status,
            "startDate": sp.StartDate,
            "endDate":   sp.EndDate,
            "capacity":  map[string]float64{"total": sp.TotalCapacity, "build": sp.BuildCapacity, "run": sp.RunCapacity},
        },
        "burndown":            agg.Burndown(*sp, agg.BurndownOptions{Today: today()}),
        "teams":               agg.TeamPerformanceRows(*sp),
        "scopeDistribution":   agg.ScopeDistribution(*sp),
        "workDistribution":    agg.WorkDistribution(*sp),
        "dayTeamDistribution": agg.DayTeamDistribution(*sp),
        "velocityTrend":       agg.VelocityTrend(all, *sp, s.cfg.TrendSprints),
    }
    text, err := s.llm.SummarizeSprint(ctx, payload)
    if err != nil { return "", err }
    if _, _, err := s.store.SaveReport(ctx, sprintID, text); err != nil { return "", err }
    s.log.Info().Str("sprint_id", sprintID).Int("chars", len(text)).Msg("report generated")
    return text, nil
}

func (s *Service) ListReports(ctx context.Context, sprintID string) ([]repo.Report, error) {
    return s.store.ListReports(ctx, sprintID)
}

// RunScheduledReports generates a narrative for every Active sprint. Used by
// the cron; failures are logged per sprint and do not stop the sweep.
func (s *Service) RunScheduledReports(ctx context.Context) error {
    sprints, err := s.store.GetSprints(ctx)
    if err != nil { return err }
    for _, sp := range sprints {
        if sp.Status != domain.SprintActive { continue }
        if _, err := s.GenerateReport(ctx, sp.ID); err != nil {
            s.log.Error().Err(err).Str("sprint_id", sp.ID).Msg("scheduled report failed")
        }
    }
    return nil
}
