package engine

import (
    "testing"

    "github.com/stretchr/testify/require"

    "github.com/Ebrudra/studio-sub000/internal/domain"
)

func TestBulkUploadTickets_SkipsDuplicatesSilently(t *testing.T) {
    s := sprint(domain.SprintScoping, domain.Ticket{ID: "T-1", Type: domain.TypeTask, Title: "keep me"})
    rows := []UploadRow{
        {ID: "T-1", Title: "clobber attempt", Type: domain.TypeTask, Estimation: 99},
        {ID: "T-2", Title: "new work", Type: domain.TypeUserStory, Estimation: 8},
        {ID: "T-3", Type: domain.TypeBug},
    }
    res, err := BulkUploadTickets(s, rows, "2025-06-02", "Web")
    require.NoError(t, err)
    require.Equal(t, 2, res.Added)
    require.Equal(t, 1, res.Skipped.DuplicateID)
    require.Len(t, res.Tickets, 3) // 1 existing + 2 added
    require.Equal(t, "keep me", res.Tickets[0].Title)
}

func TestBulkUploadTickets_DuplicateWithinBatch(t *testing.T) {
    s := sprint(domain.SprintScoping)
    rows := []UploadRow{
        {ID: "T-1", Type: domain.TypeTask},
        {ID: "T-1", Type: domain.TypeTask},
    }
    res, err := BulkUploadTickets(s, rows, "2025-06-02", "Web")
    require.NoError(t, err)
    require.Equal(t, 1, res.Added)
    require.Equal(t, 1, res.Skipped.DuplicateID)
}

func TestBulkUploadTickets_PlatformMatchedCaseInsensitively(t *testing.T) {
    s := sprint(domain.SprintScoping)
    rows := []UploadRow{
        {ID: "T-1", Platform: "web", Type: domain.TypeTask},
        {ID: "T-2", Platform: "Backend", Type: domain.TypeTask}, // unknown team
        {ID: "T-3", Type: domain.TypeTask},                      // no platform at all
    }
    res, err := BulkUploadTickets(s, rows, "2025-06-02", "Web")
    require.NoError(t, err)
    require.Equal(t, "Web", res.Tickets[0].Platform)
    require.Equal(t, "Web", res.Tickets[1].Platform)
    require.Equal(t, "Web", res.Tickets[2].Platform)
}

func TestBulkUploadTickets_MissingFieldsCounted(t *testing.T) {
    s := sprint(domain.SprintScoping)
    rows := []UploadRow{
        {ID: "", Type: domain.TypeTask},
        {ID: "T-1", Type: ""},
        {ID: "T-2", Type: domain.TypeTask},
    }
    res, err := BulkUploadTickets(s, rows, "2025-06-02", "Web")
    require.NoError(t, err)
    require.Equal(t, 1, res.Added)
    require.Equal(t, 2, res.Skipped.MissingFields)
    require.Equal(t, 2, res.Skipped.Total())
}

func TestBulkLogProgress_RowsAppliedInDayOrder(t *testing.T) {
    s := sprint(domain.SprintActive)
    rows := []LogRow{
        // Deliberately out of order: the D1 row both creates the ticket and
        // must be applied before the D3 row.
        {TicketID: "B-1", Day: "D3", Hours: 2, Status: domain.StatusDone, Platform: "Web", Type: domain.TypeBug},
        {TicketID: "B-1", Day: "D1", Hours: 3, Status: domain.StatusDoing, Platform: "Web", Type: domain.TypeBug},
    }
    res, err := BulkLogProgress(s, rows)
    require.NoError(t, err)
    require.Equal(t, 1, res.Added)
    require.Equal(t, 0, res.Updated)
    require.Len(t, res.Tickets, 1)

    tk := res.Tickets[0]
    require.Equal(t, "2025-06-02", tk.CreationDate) // created on its earliest day
    require.Equal(t, 5.0, tk.TimeLogged)
    require.Equal(t, 5.0, tk.Estimation) // bug estimation re-derived in the final pass
    require.Equal(t, domain.StatusDone, tk.Status)
    require.Equal(t, "2025-06-04", tk.CompletionDate)
    require.Equal(t, []domain.DailyLog{
        {Date: "2025-06-02", LoggedHours: 3},
        {Date: "2025-06-04", LoggedHours: 2},
    }, tk.DailyLogs)
}

func TestBulkLogProgress_UpdatesExistingTicket(t *testing.T) {
    s := sprint(domain.SprintActive, domain.Ticket{
        ID: "T-1", Type: domain.TypeTask, Estimation: 10, Status: domain.StatusToDo, CreationDate: "2025-06-02",
    })
    rows := []LogRow{
        {TicketID: "T-1", Day: "D2", Hours: 4, Status: domain.StatusDoing},
        {TicketID: "T-1", Day: "D2", Hours: 2, Status: domain.StatusDoing},
    }
    res, err := BulkLogProgress(s, rows)
    require.NoError(t, err)
    require.Equal(t, 0, res.Added)
    require.Equal(t, 1, res.Updated)
    tk := res.Tickets[0]
    require.Equal(t, 6.0, tk.TimeLogged)
    require.Equal(t, 10.0, tk.Estimation) // Build estimation untouched by logging
    require.Len(t, tk.DailyLogs, 1)
}

func TestBulkLogProgress_SkipRules(t *testing.T) {
    s := sprint(domain.SprintActive, domain.Ticket{
        ID: "T-1", Type: domain.TypeTask, Status: domain.StatusToDo,
    })
    rows := []LogRow{
        {TicketID: "", Day: "D1", Hours: 2, Status: domain.StatusDoing},
        {TicketID: "T-1", Day: "D1", Hours: 0, Status: domain.StatusDoing},
        {TicketID: "T-1", Day: "D1", Hours: 2, Status: ""},
        {TicketID: "T-1", Day: "nope", Hours: 2, Status: domain.StatusDoing},
        {TicketID: "T-1", Day: "D42", Hours: 2, Status: domain.StatusDoing},
        // Unseen id without platform/type cannot be auto-created.
        {TicketID: "ghost", Day: "D1", Hours: 2, Status: domain.StatusDoing},
        {TicketID: "T-1", Day: "D1", Hours: 1, Status: domain.StatusDoing},
    }
    res, err := BulkLogProgress(s, rows)
    require.NoError(t, err)
    require.Equal(t, 0, res.Added)
    require.Equal(t, 1, res.Updated)
    require.Equal(t, SkipCounts{DuplicateID: 0, MissingFields: 4, UnknownDay: 2}, res.Skipped)
    require.Equal(t, 1.0, res.Tickets[0].TimeLogged)
}
