package domain

import (
    "sort"
    "time"
)

type TicketType string

const (
    TypeUserStory TicketType = "User story"
    TypeBug       TicketType = "Bug"
    TypeTask      TicketType = "Task"
    TypeBuffer    TicketType = "Buffer"
)

type TypeScope string

const (
    ScopeBuild  TypeScope = "Build"
    ScopeRun    TypeScope = "Run"
    ScopeSprint TypeScope = "Sprint"
)

// ScopeFor is the single source of truth for the type→typeScope rule.
// Every mutation path derives typeScope through it.
func ScopeFor(t TicketType) TypeScope {
    switch t {
    case TypeBug:
        return ScopeRun
    case TypeBuffer:
        return ScopeSprint
    default:
        return ScopeBuild
    }
}

type TicketStatus string

const (
    StatusToDo    TicketStatus = "To Do"
    StatusDoing   TicketStatus = "Doing"
    StatusDone    TicketStatus = "Done"
    StatusBlocked TicketStatus = "Blocked"
)

type SprintStatus string

const (
    SprintScoping   SprintStatus = "Scoping"
    SprintActive    SprintStatus = "Active"
    SprintCompleted SprintStatus = "Completed"
)

// DailyLog dates are calendar dates in "2006-01-02" form, matching SprintDay.Date.
type DailyLog struct {
    Date        string  `json:"date"`
    LoggedHours float64 `json:"loggedHours"`
}

type Ticket struct {
    ID             string       `json:"id"`
    Title          string       `json:"title"`
    Platform       string       `json:"platform"`
    Type           TicketType   `json:"type"`
    TypeScope      TypeScope    `json:"typeScope"`
    Estimation     float64      `json:"estimation"`
    TimeLogged     float64      `json:"timeLogged"`
    Status         TicketStatus `json:"status"`
    DailyLogs      []DailyLog   `json:"dailyLogs"`
    CreationDate   string       `json:"creationDate"`
    CompletionDate string       `json:"completionDate,omitempty"`
    IsInitialScope bool         `json:"isInitialScope"`
    IsOutOfScope   bool         `json:"isOutOfScope"`
}

// LoggedOn returns the hours logged for a single date.
func (t Ticket) LoggedOn(date string) float64 {
    for _, l := range t.DailyLogs {
        if l.Date == date { return l.LoggedHours }
    }
    return 0
}

// SumLogs recomputes total logged hours from the dated entries.
func SumLogs(logs []DailyLog) float64 {
    total := 0.0
    for _, l := range logs { total += l.LoggedHours }
    return total
}

// SprintDay numbering is contiguous starting at 1; weekends are never present.
type SprintDay struct {
    Day  int    `json:"day"`
    Date string `json:"date"`
}

type TeamCapacity struct {
    PlannedBuild float64 `json:"plannedBuild"`
    PlannedRun   float64 `json:"plannedRun"`
}

type Sprint struct {
    ID              string                  `json:"id"`
    Name            string                  `json:"name"`
    StartDate       string                  `json:"startDate"`
    EndDate         string                  `json:"endDate"`
    Status          SprintStatus            `json:"status"`
    SprintDays      []SprintDay             `json:"sprintDays"`
    TeamCapacity    map[string]TeamCapacity `json:"teamCapacity"`
    TotalCapacity   float64                 `json:"totalCapacity"`
    BuildCapacity   float64                 `json:"buildCapacity"`
    RunCapacity     float64                 `json:"runCapacity"`
    Tickets         []Ticket                `json:"tickets"`
    ReportFilePaths []string                `json:"reportFilePaths"`
    LastUpdatedAt   time.Time               `json:"lastUpdatedAt"`
    IsSynced        bool                    `json:"isSyncedToFirebase"`
}

// DurationDays is the number of working days in the sprint.
func (s Sprint) DurationDays() int { return len(s.SprintDays) }

// DateOfDay resolves a 1-based day number to its calendar date.
func (s Sprint) DateOfDay(n int) (string, bool) {
    for _, d := range s.SprintDays {
        if d.Day == n { return d.Date, true }
    }
    return "", false
}

// Teams returns the team names known to the sprint (capacity map keys), sorted.
func (s Sprint) Teams() []string {
    out := make([]string, 0, len(s.TeamCapacity))
    for name := range s.TeamCapacity { out = append(out, name) }
    sort.Strings(out)
    return out
}

func (s Sprint) FindTicket(id string) (int, bool) {
    for i, t := range s.Tickets {
        if t.ID == id { return i, true }
    }
    return -1, false
}

const DateLayout = "2006-01-02"

// GenerateSprintDays enumerates every weekday between start and end inclusive,
// numbered contiguously from 1. Saturdays and Sundays are excluded.
func GenerateSprintDays(start, end time.Time) []SprintDay {
    var out []SprintDay
    n := 1
    for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
        if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday { continue }
        out = append(out, SprintDay{Day: n, Date: d.Format(DateLayout)})
        n++
    }
    return out
}
