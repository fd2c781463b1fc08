/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package agg

import (
    "github.com/Ebrudra/studio-sub000/internal/domain"
)

// Capacity rule: a person-day yields 6 plannable Build hours and 2 Run hours,
// with a fixed 8-hour overhead deducted from the team's Run budget.
const (
    BuildHoursPerPersonDay = 6.0
    RunHoursPerPersonDay   = 2.0
    RunOverheadHours       = 8.0
)

// ComputeCapacity derives per-team Build/Run hour capacity from person-days.
// If any team's Run capacity would go negative the whole commit fails with a
// validation error naming that team; nothing is returned partially.
func ComputeCapacity(personDays map[string]float64) (map[string]domain.TeamCapacity, error) {
    out := make(map[string]domain.TeamCapacity, len(personDays))
    for team, pd := range personDays {
        if pd < 0 { return nil, domain.Invalidf(team, "person-days must be non-negative, got %g", pd) }
        run := pd*RunHoursPerPersonDay - RunOverheadHours
        if run < 0 {
            return nil, domain.Invalidf(team, "run capacity would be negative (%g person-days gives %g run hours)", pd, run)
        }
        out[team] = domain.TeamCapacity{
            PlannedBuild: pd * BuildHoursPerPersonDay,
            PlannedRun:   run,
        }
    }
    return out, nil
}

// CapacityTotals sums the per-team capacities. totalCapacity is always
// buildCapacity + runCapacity.
func CapacityTotals(tc map[string]domain.TeamCapacity) (total, build, run float64) {
    for _, c := range tc {
        build += c.PlannedBuild
        run += c.PlannedRun
    }
    return build + run, build, run
}
