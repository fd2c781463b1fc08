/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package engine

import (
    "sort"
    "strings"

    "github.com/Ebrudra/studio-sub000/internal/domain"
)

// SkipCounts tallies rows dropped from a bulk batch, per reason. Skipping is
// by design, not an error: the rest of the batch proceeds, and callers
// surface the counts.
type SkipCounts struct {
    DuplicateID   int `json:"duplicateId"`
    MissingFields int `json:"missingFields"`
    UnknownDay    int `json:"unknownDay"`
}

func (c SkipCounts) Total() int { return c.DuplicateID + c.MissingFields + c.UnknownDay }

type BulkResult struct {
    Tickets []domain.Ticket `json:"tickets"`
    Added   int             `json:"added"`
    Updated int             `json:"updated"`
    Skipped SkipCounts      `json:"skipped"`
}

// UploadRow is one line of a bulk ticket upload.
type UploadRow struct {
    ID         string            `json:"id"`
    Title      string            `json:"title"`
    Platform   string            `json:"platform"`
    Type       domain.TicketType `json:"type"`
    Estimation float64           `json:"estimation"`
}

// BulkUploadTickets turns upload rows into new tickets. Rows whose id
// collides with an existing ticket are skipped and the existing ticket is
// left untouched. Platform names are matched case-insensitively against the
// sprint's known teams, falling back to defaultTeam.
func BulkUploadTickets(s domain.Sprint, rows []UploadRow, today, defaultTeam string) (BulkResult, error) {
    if err := guardWritable(s); err != nil { return BulkResult{}, err }
    res := BulkResult{Tickets: append([]domain.Ticket{}, s.Tickets...)}
    seen := map[string]struct{}{}
    for _, t := range s.Tickets { seen[t.ID] = struct{}{} }
    teams := map[string]string{}
    for name := range s.TeamCapacity { teams[strings.ToLower(name)] = name }

    for _, row := range rows {
        id := strings.TrimSpace(row.ID)
        if id == "" || row.Type == "" {
            res.Skipped.MissingFields++
            continue
        }
        if _, dup := seen[id]; dup {
            res.Skipped.DuplicateID++
            continue
        }
        platform := defaultTeam
        if name, ok := teams[strings.ToLower(strings.TrimSpace(row.Platform))]; ok { platform = name }
        t := domain.Ticket{
            ID:           id,
            Title:        row.Title,
            Platform:     platform,
            Type:         row.Type,
            Estimation:   row.Estimation,
            Status:       domain.StatusToDo,
            CreationDate: today,
        }
        if strings.TrimSpace(t.Title) == "" { t.Title = t.ID }
        t = normalize(t)
        t.IsOutOfScope = s.Status == domain.SprintActive && t.TypeScope == domain.ScopeBuild
        res.Tickets = append(res.Tickets, t)
        seen[id] = struct{}{}
        res.Added++
    }
    return res, nil
}

// LogRow is one line of a bulk progress upload. Platform/Type/Estimation are
// only consulted when the ticket id is unseen and must be auto-created.
type LogRow struct {
    TicketID   string              `json:"ticketId"`
    Title      string              `json:"title"`
    Day        string              `json:"day"`
    Hours      float64             `json:"loggedHours"`
    Status     domain.TicketStatus `json:"status"`
    Platform   string              `json:"platform"`
    Type       domain.TicketType   `json:"type"`
    Estimation float64             `json:"estimation"`
}

// BulkLogProgress applies log rows in ascending day order so repeated logs
// against the same auto-created ticket accumulate deterministically. Rows
// missing ticketId, day, hours, or status are skipped; an unseen ticket id
// is auto-created when the row carries platform and type, otherwise skipped.
// A final pass re-derives timeLogged and Bug/Buffer estimation for every
// touched ticket.
func BulkLogProgress(s domain.Sprint, rows []LogRow) (BulkResult, error) {
    if err := guardWritable(s); err != nil { return BulkResult{}, err }

    type parsed struct {
        row LogRow
        day int
    }
    var batch []parsed
    res := BulkResult{}
    for _, row := range rows {
        if strings.TrimSpace(row.TicketID) == "" || row.Hours <= 0 || row.Status == "" {
            res.Skipped.MissingFields++
            continue
        }
        n, ok := ParseDayToken(row.Day)
        if !ok {
            res.Skipped.UnknownDay++
            continue
        }
        batch = append(batch, parsed{row: row, day: n})
    }
    sort.SliceStable(batch, func(i, j int) bool { return batch[i].day < batch[j].day })

    tickets := append([]domain.Ticket{}, s.Tickets...)
    index := map[string]int{}
    for i, t := range tickets { index[t.ID] = i }
    touched := map[string]struct{}{}

    for _, p := range batch {
        date, ok := s.DateOfDay(p.day)
        if !ok {
            res.Skipped.UnknownDay++
            continue
        }
        i, ok := index[p.row.TicketID]
        if !ok {
            if p.row.Platform == "" || p.row.Type == "" {
                res.Skipped.MissingFields++
                continue
            }
            t := domain.Ticket{
                ID:           p.row.TicketID,
                Title:        p.row.Title,
                Platform:     p.row.Platform,
                Type:         p.row.Type,
                Estimation:   p.row.Estimation,
                Status:       domain.StatusToDo,
                CreationDate: date,
            }
            if strings.TrimSpace(t.Title) == "" { t.Title = t.ID }
            t.TypeScope = domain.ScopeFor(t.Type)
            t.IsOutOfScope = s.Status == domain.SprintActive && t.TypeScope == domain.ScopeBuild
            tickets = append(tickets, t)
            i = len(tickets) - 1
            index[t.ID] = i
            res.Added++
        }
        t := tickets[i]
        t.DailyLogs = addHours(t.DailyLogs, date, p.row.Hours)
        switch {
        case p.row.Status == domain.StatusDone && t.Status != domain.StatusDone:
            t.CompletionDate = date
        case p.row.Status != domain.StatusDone:
            t.CompletionDate = ""
        }
        t.Status = p.row.Status
        tickets[i] = t
        if _, seen := touched[t.ID]; !seen && i < len(s.Tickets) { res.Updated++ }
        touched[t.ID] = struct{}{}
    }

    for id := range touched {
        i := index[id]
        tickets[i] = normalize(tickets[i])
    }
    res.Tickets = tickets
    return res, nil
}
