package agg

import (
    "sort"

    "github.com/Ebrudra/studio-sub000/internal/domain"
)

type DistributionSlice struct {
    Scope   domain.TypeScope `json:"scope"`
    Value   float64          `json:"value"`
    Percent float64          `json:"percent"`
}

// ScopeDistribution groups ticket estimation by typeScope.
func ScopeDistribution(s domain.Sprint) []DistributionSlice {
    return distribute(s.Tickets, func(t domain.Ticket) float64 { return t.Estimation })
}

// WorkDistribution groups logged hours by typeScope.
func WorkDistribution(s domain.Sprint) []DistributionSlice {
    return distribute(s.Tickets, func(t domain.Ticket) float64 { return t.TimeLogged })
}

// TeamDaySlice is one cell of the day/team work grid: the hours a team
// logged on one sprint day, as a share of everything logged in the sprint.
type TeamDaySlice struct {
    Team    string  `json:"team"`
    Day     int     `json:"day"`
    Date    string  `json:"date"`
    Hours   float64 `json:"hours"`
    Percent float64 `json:"percent"`
}

// DayTeamDistribution breaks logged hours down by sprint day and team.
// Teams that logged nothing are omitted; teams that logged anything get a
// cell for every sprint day so the grid stays rectangular. Returns nil when
// nothing has been logged.
func DayTeamDistribution(s domain.Sprint) []TeamDaySlice {
    logged := map[string]float64{}
    for _, t := range s.Tickets {
        if t.Platform != "" { logged[t.Platform] += t.TimeLogged }
    }
    var teams []string
    total := 0.0
    for name, hours := range logged {
        if hours == 0 { continue }
        teams = append(teams, name)
        total += hours
    }
    if total == 0 { return nil }
    sort.Strings(teams)

    out := make([]TeamDaySlice, 0, len(teams)*len(s.SprintDays))
    for _, d := range s.SprintDays {
        for _, name := range teams {
            hours := 0.0
            for _, t := range s.Tickets {
                if t.Platform == name { hours += t.LoggedOn(d.Date) }
            }
            out = append(out, TeamDaySlice{
                Team: name, Day: d.Day, Date: d.Date,
                Hours: hours, Percent: hours / total * 100,
            })
        }
    }
    return out
}

var scopeOrder = []domain.TypeScope{domain.ScopeBuild, domain.ScopeRun, domain.ScopeSprint}

// distribute returns nil when the total is zero so callers render a
// "no data" state instead of dividing by zero.
func distribute(tickets []domain.Ticket, value func(domain.Ticket) float64) []DistributionSlice {
    sums := map[domain.TypeScope]float64{}
    total := 0.0
    for _, t := range tickets {
        v := value(t)
        sums[t.TypeScope] += v
        total += v
    }
    if total == 0 { return nil }
    out := make([]DistributionSlice, 0, len(scopeOrder))
    for _, sc := range scopeOrder {
        out = append(out, DistributionSlice{Scope: sc, Value: sums[sc], Percent: sums[sc] / total * 100})
    }
    return out
}
