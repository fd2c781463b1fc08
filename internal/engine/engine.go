/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package engine is the only writer of ticket state. Every operation is a
// pure function of (current sprint, input) → new ticket list; the caller
// persists the result and must treat a persistence failure as "the mutation
// did not happen".
package engine

import (
    "strconv"
    "strings"

    "github.com/google/uuid"

    "github.com/Ebrudra/studio-sub000/internal/domain"
)

// NewTicketID is the sentinel a log row uses to ask for a synthesized ticket.
const NewTicketID = "new-ticket"

// normalize re-derives every coupled field on a ticket: typeScope from type,
// timeLogged from the dated log entries, and estimation==timeLogged for the
// reactive types (Bug, Buffer) whose estimate tracks actual spend.
func normalize(t domain.Ticket) domain.Ticket {
    t.TypeScope = domain.ScopeFor(t.Type)
    t.TimeLogged = domain.SumLogs(t.DailyLogs)
    if t.Type == domain.TypeBug || t.Type == domain.TypeBuffer {
        t.Estimation = t.TimeLogged
    }
    return t
}

func guardWritable(s domain.Sprint) error {
    if s.Status == domain.SprintCompleted {
        return domain.Invalidf("sprint", "sprint %s is completed and read-only", s.ID)
    }
    return nil
}

// AddTicket appends a new ticket. Build work added while the sprint is
// Active is flagged out-of-scope; it will show up as scope creep on the
// burndown rather than in the baseline.
func AddTicket(s domain.Sprint, draft domain.Ticket, today string) ([]domain.Ticket, error) {
    if err := guardWritable(s); err != nil { return nil, err }
    if strings.TrimSpace(draft.ID) == "" { draft.ID = uuid.NewString() }
    if _, ok := s.FindTicket(draft.ID); ok {
        return nil, domain.Invalidf("id", "ticket %s already exists", draft.ID)
    }
    if strings.TrimSpace(draft.Title) == "" { draft.Title = draft.ID }
    draft.TimeLogged = 0
    draft.DailyLogs = nil
    draft.CreationDate = today
    draft.CompletionDate = ""
    draft = normalize(draft)
    draft.IsOutOfScope = s.Status == domain.SprintActive && draft.TypeScope == domain.ScopeBuild
    out := append(append([]domain.Ticket{}, s.Tickets...), draft)
    return out, nil
}

// UpdateTicket replaces a ticket wholesale, re-deriving coupled fields. A
// user-submitted estimation on a Bug or Buffer is overridden by the logged
// total. Status moving into or out of Done stamps or clears completionDate.
func UpdateTicket(s domain.Sprint, t domain.Ticket, today string) ([]domain.Ticket, error) {
    if err := guardWritable(s); err != nil { return nil, err }
    idx, ok := s.FindTicket(t.ID)
    if !ok { return nil, domain.ErrNotFound }
    prev := s.Tickets[idx]
    if strings.TrimSpace(t.Title) == "" { t.Title = t.ID }
    t = normalize(t)
    t.CreationDate = prev.CreationDate
    t.IsInitialScope = prev.IsInitialScope
    t.IsOutOfScope = prev.IsOutOfScope
    switch {
    case t.Status == domain.StatusDone && prev.Status != domain.StatusDone:
        t.CompletionDate = today
    case t.Status != domain.StatusDone:
        t.CompletionDate = ""
    default:
        t.CompletionDate = prev.CompletionDate
    }
    out := append([]domain.Ticket{}, s.Tickets...)
    out[idx] = t
    return out, nil
}

// DeleteTicket removes a ticket. There is no soft delete.
func DeleteTicket(s domain.Sprint, id string) ([]domain.Ticket, error) {
    if err := guardWritable(s); err != nil { return nil, err }
    idx, ok := s.FindTicket(id)
    if !ok { return nil, domain.ErrNotFound }
    out := append([]domain.Ticket{}, s.Tickets[:idx]...)
    out = append(out, s.Tickets[idx+1:]...)
    return out, nil
}

// LogEntry is one progress report: hours spent on a ticket on a sprint day,
// with the ticket's status after the work. Day is a "D<n>" token resolved
// against the sprint calendar. TicketID may be NewTicketID, in which case
// Type/Platform/Estimation/Title describe the ticket to synthesize.
type LogEntry struct {
    Team       string
    TicketID   string
    Day        string
    Hours      float64
    Status     domain.TicketStatus
    Title      string
    Type       domain.TicketType
    Platform   string
    Estimation float64
}

// ParseDayToken parses "D<n>" into its 1-based day number.
func ParseDayToken(tok string) (int, bool) {
    tok = strings.TrimSpace(tok)
    if len(tok) < 2 || (tok[0] != 'D' && tok[0] != 'd') { return 0, false }
    n, err := strconv.Atoi(tok[1:])
    if err != nil || n < 1 { return 0, false }
    return n, true
}

// LogProgress applies a single progress report. Hours for an already-logged
// date accumulate rather than replace. A status transition into Done stamps
// completionDate with the log's date; leaving Done clears it. An unmapped
// day token fails the whole operation with no mutation.
func LogProgress(s domain.Sprint, in LogEntry) ([]domain.Ticket, error) {
    if err := guardWritable(s); err != nil { return nil, err }
    n, ok := ParseDayToken(in.Day)
    if !ok { return nil, domain.Invalidf("day", "bad day token %q", in.Day) }
    date, ok := s.DateOfDay(n)
    if !ok { return nil, domain.Invalidf("day", "day %s is outside the sprint", in.Day) }

    out := append([]domain.Ticket{}, s.Tickets...)
    var idx int
    if in.TicketID == NewTicketID {
        platform := in.Platform
        if platform == "" { platform = in.Team }
        t := domain.Ticket{
            ID:           uuid.NewString(),
            Title:        in.Title,
            Platform:     platform,
            Type:         in.Type,
            Estimation:   in.Estimation,
            Status:       domain.StatusToDo,
            CreationDate: date,
        }
        if strings.TrimSpace(t.Title) == "" { t.Title = t.ID }
        t = normalize(t)
        t.IsOutOfScope = s.Status == domain.SprintActive && t.TypeScope == domain.ScopeBuild
        out = append(out, t)
        idx = len(out) - 1
    } else {
        i, ok := s.FindTicket(in.TicketID)
        if !ok { return nil, domain.ErrNotFound }
        idx = i
    }

    t := out[idx]
    t.DailyLogs = addHours(t.DailyLogs, date, in.Hours)
    if in.Status != "" {
        switch {
        case in.Status == domain.StatusDone && t.Status != domain.StatusDone:
            t.CompletionDate = date
        case in.Status != domain.StatusDone:
            t.CompletionDate = ""
        }
        t.Status = in.Status
    }
    out[idx] = normalize(t)
    return out, nil
}

// addHours accumulates hours into the entry for date, keeping entries
// ordered by date.
func addHours(logs []domain.DailyLog, date string, hours float64) []domain.DailyLog {
    for i, l := range logs {
        if l.Date == date {
            out := append([]domain.DailyLog{}, logs...)
            out[i].LoggedHours += hours
            return out
        }
    }
    out := append(append([]domain.DailyLog{}, logs...), domain.DailyLog{Date: date, LoggedHours: hours})
    for i := len(out) - 1; i > 0 && out[i].Date < out[i-1].Date; i-- {
        out[i], out[i-1] = out[i-1], out[i]
    }
    return out
}

// FinalizeScope freezes the baseline: every current ticket is stamped as
// initial scope and the sprint goes Active. The stamp is never removed, not
// even by ReopenScope.
func FinalizeScope(s domain.Sprint) (domain.Sprint, error) {
    if s.Status != domain.SprintScoping {
        return s, domain.Invalidf("status", "finalize requires a Scoping sprint, got %s", s.Status)
    }
    tickets := append([]domain.Ticket{}, s.Tickets...)
    for i := range tickets { tickets[i].IsInitialScope = true }
    s.Tickets = tickets
    s.Status = domain.SprintActive
    return s, nil
}

// ReopenScope reverts an Active sprint to Scoping for re-editing. Existing
// isInitialScope stamps are kept: the baseline records what was committed at
// finalize time, and re-finalizing stamps anything added meanwhile.
func ReopenScope(s domain.Sprint) (domain.Sprint, error) {
    if s.Status != domain.SprintActive {
        return s, domain.Invalidf("status", "reopen requires an Active sprint, got %s", s.Status)
    }
    s.Status = domain.SprintScoping
    return s, nil
}

// CompleteSprint flips an Active sprint to Completed. From then on every
// mutation is rejected.
func CompleteSprint(s domain.Sprint) (domain.Sprint, error) {
    if s.Status != domain.SprintActive {
        return s, domain.Invalidf("status", "complete requires an Active sprint, got %s", s.Status)
    }
    s.Status = domain.SprintCompleted
    return s, nil
}
