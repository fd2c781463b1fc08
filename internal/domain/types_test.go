package domain

import (
    "testing"
    "time"
)

func TestScopeFor_MapsEveryType(t *testing.T) {
    cases := map[TicketType]TypeScope{
        TypeUserStory: ScopeBuild,
        TypeTask:      ScopeBuild,
        TypeBug:       ScopeRun,
        TypeBuffer:    ScopeSprint,
    }
    for typ, want := range cases {
        if got := ScopeFor(typ); got != want {
            t.Fatalf("ScopeFor(%s) = %s, want %s", typ, got, want)
        }
    }
}

func TestGenerateSprintDays_SkipsWeekendsAndNumbersContiguously(t *testing.T) {
    // Mon 2025-06-02 through Mon 2025-06-09: 6 weekdays, no gaps in numbering.
    start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
    end := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
    days := GenerateSprintDays(start, end)
    if len(days) != 6 {
        t.Fatalf("expected 6 working days, got %d: %#v", len(days), days)
    }
    for i, d := range days {
        if d.Day != i+1 {
            t.Fatalf("day numbering not contiguous: %#v", days)
        }
        dt, err := time.Parse(DateLayout, d.Date)
        if err != nil { t.Fatalf("bad date %q: %v", d.Date, err) }
        if wd := dt.Weekday(); wd == time.Saturday || wd == time.Sunday {
            t.Fatalf("weekend date %s in sprint days", d.Date)
        }
    }
    if days[3].Date != "2025-06-05" || days[4].Date != "2025-06-06" || days[5].Date != "2025-06-09" {
        t.Fatalf("expected Fri→Mon jump over the weekend, got %#v", days)
    }
}

func TestGenerateSprintDays_EmptyForWeekendOnlyRange(t *testing.T) {
    start := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC) // Sat
    end := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)   // Sun
    if days := GenerateSprintDays(start, end); len(days) != 0 {
        t.Fatalf("expected no days, got %#v", days)
    }
}

func TestSumLogsAndLoggedOn(t *testing.T) {
    tk := Ticket{DailyLogs: []DailyLog{
        {Date: "2025-06-02", LoggedHours: 2},
        {Date: "2025-06-03", LoggedHours: 3.5},
    }}
    if got := SumLogs(tk.DailyLogs); got != 5.5 {
        t.Fatalf("SumLogs = %g, want 5.5", got)
    }
    if got := tk.LoggedOn("2025-06-03"); got != 3.5 {
        t.Fatalf("LoggedOn = %g, want 3.5", got)
    }
    if got := tk.LoggedOn("2025-06-04"); got != 0 {
        t.Fatalf("LoggedOn for unlogged date = %g, want 0", got)
    }
}
