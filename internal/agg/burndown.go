/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package agg

import (
    "fmt"

    "github.com/Ebrudra/studio-sub000/internal/domain"
)

type BurndownPoint struct {
    Day    string  `json:"day"`
    Date   string  `json:"date"`
    Ideal  float64 `json:"ideal"`
    Actual float64 `json:"actual"`
}

// BurndownOptions narrows the ticket set and the day range. The zero value
// means: all teams, Build+Run scope, every sprint day.
type BurndownOptions struct {
    // Team filters by ticket platform when non-empty.
    Team string
    // Scope filters to Build or Run only; empty means both. Buffer (Sprint
    // scope) work never enters burn accounting.
    Scope domain.TypeScope
    // Today, when set, drops points dated after it so a chart does not show
    // a flat line through days that have not happened yet.
    Today string
}

// Burndown computes the remaining-scope series: one point per sprint day,
// day 0 being the baseline at full initial scope. Remaining scope is
// initial + scope added so far − hours logged so far, clamped at zero.
func Burndown(s domain.Sprint, opt BurndownOptions) []BurndownPoint {
    days := s.SprintDays
    if len(days) == 0 { return nil }
    day0 := days[0].Date

    var tickets []domain.Ticket
    for _, t := range s.Tickets {
        if t.TypeScope == domain.ScopeSprint { continue }
        if opt.Scope != "" && t.TypeScope != opt.Scope { continue }
        if opt.Team != "" && t.Platform != opt.Team { continue }
        tickets = append(tickets, t)
    }

    initial := 0.0
    for _, t := range tickets {
        if isInitial(t, day0) { initial += t.Estimation }
    }

    // Straight line from full scope to zero across the sprint; a single-day
    // sprint keeps the divisor at 1 so there is no slope to draw.
    denom := len(days) - 1
    if denom < 1 { denom = 1 }
    idealPerDay := initial / float64(denom)

    points := make([]BurndownPoint, 0, len(days))
    cumLogged := 0.0
    cumAdded := 0.0
    prevDate := day0
    for i, d := range days {
        if opt.Today != "" && d.Date > opt.Today { break }
        for _, t := range tickets {
            cumLogged += t.LoggedOn(d.Date)
            if isInitial(t, day0) { continue }
            // Scope creep lands on the first sprint day at or after its
            // creation date, so additions over a weekend are not lost.
            if t.CreationDate > prevDate && t.CreationDate <= d.Date {
                cumAdded += t.Estimation
            }
        }
        actual := initial + cumAdded - cumLogged
        if actual < 0 { actual = 0 }
        ideal := initial - float64(i)*idealPerDay
        if ideal < 0 { ideal = 0 }
        points = append(points, BurndownPoint{
            Day:    fmt.Sprintf("Day %d", i),
            Date:   d.Date,
            Ideal:  ideal,
            Actual: actual,
        })
        prevDate = d.Date
    }
    return points
}

func isInitial(t domain.Ticket, day0 string) bool {
    return t.IsInitialScope || (t.CreationDate != "" && t.CreationDate <= day0)
}
