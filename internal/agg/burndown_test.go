package agg

import (
    "testing"

    "github.com/stretchr/testify/require"

    "github.com/Ebrudra/studio-sub000/internal/domain"
)

func twoDaySprint(tickets ...domain.Ticket) domain.Sprint {
    return domain.Sprint{
        ID:        "s1",
        StartDate: "2025-06-02",
        EndDate:   "2025-06-03",
        Status:    domain.SprintActive,
        SprintDays: []domain.SprintDay{
            {Day: 1, Date: "2025-06-02"},
            {Day: 2, Date: "2025-06-03"},
        },
        Tickets: tickets,
    }
}

func fiveDaySprint(tickets ...domain.Ticket) domain.Sprint {
    return domain.Sprint{
        ID:        "s2",
        StartDate: "2025-06-02",
        EndDate:   "2025-06-06",
        Status:    domain.SprintActive,
        SprintDays: []domain.SprintDay{
            {Day: 1, Date: "2025-06-02"},
            {Day: 2, Date: "2025-06-03"},
            {Day: 3, Date: "2025-06-04"},
            {Day: 4, Date: "2025-06-05"},
            {Day: 5, Date: "2025-06-06"},
        },
        Tickets: tickets,
    }
}

func TestBurndown_TwoDayIdealLine(t *testing.T) {
    s := twoDaySprint(domain.Ticket{
        ID: "T-1", Type: domain.TypeTask, TypeScope: domain.ScopeBuild,
        Estimation: 10, CreationDate: "2025-06-02", IsInitialScope: true,
    })
    points := Burndown(s, BurndownOptions{})
    require.Len(t, points, 2)
    require.Equal(t, "Day 0", points[0].Day)
    require.Equal(t, 10.0, points[0].Ideal)
    require.Equal(t, 10.0, points[0].Actual)
    require.Equal(t, "Day 1", points[1].Day)
    require.Equal(t, 0.0, points[1].Ideal)
    require.Equal(t, 10.0, points[1].Actual)
}

func TestBurndown_EmptySprintYieldsNothing(t *testing.T) {
    require.Nil(t, Burndown(domain.Sprint{}, BurndownOptions{}))
}

func TestBurndown_ActualFollowsLoggedHours(t *testing.T) {
    s := fiveDaySprint(domain.Ticket{
        ID: "T-1", Type: domain.TypeUserStory, TypeScope: domain.ScopeBuild,
        Estimation: 20, CreationDate: "2025-06-02", IsInitialScope: true,
        DailyLogs: []domain.DailyLog{
            {Date: "2025-06-03", LoggedHours: 5},
            {Date: "2025-06-04", LoggedHours: 7},
        },
    })
    points := Burndown(s, BurndownOptions{})
    require.Len(t, points, 5)
    require.Equal(t, 20.0, points[0].Actual)
    require.Equal(t, 15.0, points[1].Actual)
    require.Equal(t, 8.0, points[2].Actual)
    require.Equal(t, 8.0, points[3].Actual)
    // Ideal: 20 / (5-1) = 5 per day.
    require.Equal(t, []float64{20, 15, 10, 5, 0},
        []float64{points[0].Ideal, points[1].Ideal, points[2].Ideal, points[3].Ideal, points[4].Ideal})
}

func TestBurndown_RemainingNeverNegative(t *testing.T) {
    s := twoDaySprint(domain.Ticket{
        ID: "T-1", Type: domain.TypeTask, TypeScope: domain.ScopeBuild,
        Estimation: 4, CreationDate: "2025-06-02", IsInitialScope: true,
        DailyLogs: []domain.DailyLog{{Date: "2025-06-03", LoggedHours: 9}},
    })
    points := Burndown(s, BurndownOptions{})
    require.Equal(t, 0.0, points[1].Actual)
}

func TestBurndown_MonotonicWithoutScopeCreep(t *testing.T) {
    s := fiveDaySprint(
        domain.Ticket{
            ID: "T-1", Type: domain.TypeTask, TypeScope: domain.ScopeBuild,
            Estimation: 16, CreationDate: "2025-06-02", IsInitialScope: true,
            DailyLogs: []domain.DailyLog{
                {Date: "2025-06-02", LoggedHours: 1},
                {Date: "2025-06-04", LoggedHours: 3},
                {Date: "2025-06-06", LoggedHours: 2},
            },
        },
    )
    points := Burndown(s, BurndownOptions{})
    for i := 1; i < len(points); i++ {
        require.LessOrEqual(t, points[i].Actual, points[i-1].Actual)
    }
}

func TestBurndown_ScopeCreepRaisesRemaining(t *testing.T) {
    s := fiveDaySprint(
        domain.Ticket{
            ID: "T-1", Type: domain.TypeTask, TypeScope: domain.ScopeBuild,
            Estimation: 10, CreationDate: "2025-06-02", IsInitialScope: true,
        },
        domain.Ticket{
            ID: "T-2", Type: domain.TypeUserStory, TypeScope: domain.ScopeBuild,
            Estimation: 6, CreationDate: "2025-06-04", IsOutOfScope: true,
        },
    )
    points := Burndown(s, BurndownOptions{})
    require.Equal(t, 10.0, points[0].Actual)
    require.Equal(t, 10.0, points[1].Actual)
    require.Equal(t, 16.0, points[2].Actual) // T-2 lands on its creation day
    // Ideal slope is built from the initial 10 only.
    require.Equal(t, 10.0, points[0].Ideal)
    require.Equal(t, 7.5, points[1].Ideal)
}

func TestBurndown_BufferWorkExcluded(t *testing.T) {
    s := twoDaySprint(
        domain.Ticket{
            ID: "T-1", Type: domain.TypeTask, TypeScope: domain.ScopeBuild,
            Estimation: 10, CreationDate: "2025-06-02", IsInitialScope: true,
        },
        domain.Ticket{
            ID: "B-1", Type: domain.TypeBuffer, TypeScope: domain.ScopeSprint,
            Estimation: 8, CreationDate: "2025-06-02", IsInitialScope: true,
            DailyLogs: []domain.DailyLog{{Date: "2025-06-02", LoggedHours: 8}},
        },
    )
    points := Burndown(s, BurndownOptions{})
    require.Equal(t, 10.0, points[0].Actual) // buffer neither adds scope nor burns it
}

func TestBurndown_TeamAndScopeFilters(t *testing.T) {
    s := twoDaySprint(
        domain.Ticket{
            ID: "T-1", Platform: "Web", Type: domain.TypeTask, TypeScope: domain.ScopeBuild,
            Estimation: 10, CreationDate: "2025-06-02", IsInitialScope: true,
        },
        domain.Ticket{
            ID: "G-1", Platform: "iOS", Type: domain.TypeBug, TypeScope: domain.ScopeRun,
            Estimation: 3, CreationDate: "2025-06-02", IsInitialScope: true,
        },
    )
    require.Equal(t, 13.0, Burndown(s, BurndownOptions{})[0].Actual)
    require.Equal(t, 10.0, Burndown(s, BurndownOptions{Team: "Web"})[0].Actual)
    require.Equal(t, 3.0, Burndown(s, BurndownOptions{Scope: domain.ScopeRun})[0].Actual)
    require.Equal(t, 10.0, Burndown(s, BurndownOptions{Scope: domain.ScopeBuild})[0].Actual)
}

func TestBurndown_TodayCutsFutureDays(t *testing.T) {
    s := fiveDaySprint(domain.Ticket{
        ID: "T-1", Type: domain.TypeTask, TypeScope: domain.ScopeBuild,
        Estimation: 10, CreationDate: "2025-06-02", IsInitialScope: true,
    })
    points := Burndown(s, BurndownOptions{Today: "2025-06-04"})
    require.Len(t, points, 3)
    require.Equal(t, "2025-06-04", points[2].Date)
}

func TestBurndown_Idempotent(t *testing.T) {
    s := fiveDaySprint(
        domain.Ticket{
            ID: "T-1", Type: domain.TypeTask, TypeScope: domain.ScopeBuild,
            Estimation: 12, CreationDate: "2025-06-02", IsInitialScope: true,
            DailyLogs: []domain.DailyLog{{Date: "2025-06-03", LoggedHours: 4}},
        },
        domain.Ticket{
            ID: "T-2", Type: domain.TypeBug, TypeScope: domain.ScopeRun,
            Estimation: 2, CreationDate: "2025-06-04",
            DailyLogs: []domain.DailyLog{{Date: "2025-06-04", LoggedHours: 2}},
        },
    )
    first := Burndown(s, BurndownOptions{})
    second := Burndown(s, BurndownOptions{})
    require.Equal(t, first, second)
}
