/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package agg

import (
    "sort"

    "github.com/Ebrudra/studio-sub000/internal/domain"
)

type TeamPerformance struct {
    Team           string  `json:"team"`
    PlannedBuild   float64 `json:"plannedBuild"`
    PlannedRun     float64 `json:"plannedRun"`
    DeliveredBuild float64 `json:"deliveredBuild"`
    DeliveredRun   float64 `json:"deliveredRun"`
    TotalPlanned   float64 `json:"totalPlanned"`
    TotalDelivered float64 `json:"totalDelivered"`
    Efficiency     float64 `json:"efficiency"`
    Velocity       float64 `json:"velocity"`
    Status         string  `json:"status"`
}

// TeamPerformanceRows compares planned vs delivered hours per team. Build
// work counts by estimation once Done (the estimate is the final cost);
// Run work counts by time logged regardless of status (reactive work is
// measured by time spent). Teams with neither planned nor delivered hours
// are omitted.
func TeamPerformanceRows(s domain.Sprint) []TeamPerformance {
    teams := map[string]struct{}{}
    for name := range s.TeamCapacity { teams[name] = struct{}{} }
    for _, t := range s.Tickets {
        if t.Platform != "" { teams[t.Platform] = struct{}{} }
    }

    duration := float64(s.DurationDays())
    var rows []TeamPerformance
    for name := range teams {
        tc := s.TeamCapacity[name]
        row := TeamPerformance{Team: name, PlannedBuild: tc.PlannedBuild, PlannedRun: tc.PlannedRun}
        for _, t := range s.Tickets {
            if t.Platform != name { continue }
            switch t.TypeScope {
            case domain.ScopeBuild:
                if t.Status == domain.StatusDone { row.DeliveredBuild += t.Estimation }
            case domain.ScopeRun:
                row.DeliveredRun += t.TimeLogged
            }
        }
        row.TotalPlanned = row.PlannedBuild + row.PlannedRun
        row.TotalDelivered = row.DeliveredBuild + row.DeliveredRun
        if row.TotalPlanned == 0 && row.TotalDelivered == 0 { continue }
        if row.TotalPlanned > 0 {
            row.Efficiency = row.TotalDelivered / row.TotalPlanned * 100
        }
        if duration > 0 { row.Velocity = row.TotalDelivered / duration }
        row.Status = performanceBand(row.TotalPlanned, row.TotalDelivered, row.Efficiency)
        rows = append(rows, row)
    }
    sort.Slice(rows, func(i, j int) bool { return rows[i].Team < rows[j].Team })
    return rows
}

func performanceBand(planned, delivered, efficiency float64) string {
    switch {
    case planned == 0 && delivered == 0:
        return "Inactive"
    case planned == 0:
        return "Bonus"
    case efficiency >= 95:
        return "Excellent"
    case efficiency >= 80:
        return "Good"
    case efficiency >= 60:
        return "Behind"
    default:
        return "Critical"
    }
}

type VelocityPoint struct {
    Sprint    string  `json:"sprint"`
    StartDate string  `json:"startDate"`
    Planned   float64 `json:"planned"`
    Completed float64 `json:"completed"`
    Velocity  float64 `json:"velocity"`
}

// VelocityTrend maps the last `window` Completed sprints plus the current one
// to planned Build capacity vs completed Build estimation, ordered by start
// date ascending.
func VelocityTrend(history []domain.Sprint, current domain.Sprint, window int) []VelocityPoint {
    if window <= 0 { window = 5 }
    var completed []domain.Sprint
    for _, sp := range history {
        if sp.Status == domain.SprintCompleted && sp.ID != current.ID {
            completed = append(completed, sp)
        }
    }
    sort.Slice(completed, func(i, j int) bool { return completed[i].StartDate < completed[j].StartDate })
    if len(completed) > window { completed = completed[len(completed)-window:] }
    // The current sprint usually starts last, but re-sort so a backdated one
    // still lands in start-date order.
    completed = append(completed, current)
    sort.Slice(completed, func(i, j int) bool { return completed[i].StartDate < completed[j].StartDate })

    points := make([]VelocityPoint, 0, len(completed))
    for _, sp := range completed {
        done := 0.0
        for _, t := range sp.Tickets {
            if t.TypeScope == domain.ScopeBuild && t.Status == domain.StatusDone { done += t.Estimation }
        }
        duration := sp.DurationDays()
        if duration < 1 { duration = 1 }
        points = append(points, VelocityPoint{
            Sprint:    sp.Name,
            StartDate: sp.StartDate,
            Planned:   sp.BuildCapacity,
            Completed: done,
            Velocity:  done / float64(duration),
        })
    }
    return points
}
