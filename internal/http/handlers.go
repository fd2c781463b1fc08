/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "context"
    "errors"
    "net/http"

    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"

    "github.com/Ebrudra/studio-sub000/internal/agg"
    "github.com/Ebrudra/studio-sub000/internal/config"
    "github.com/Ebrudra/studio-sub000/internal/domain"
    "github.com/Ebrudra/studio-sub000/internal/engine"
    "github.com/Ebrudra/studio-sub000/internal/repo"
    "github.com/Ebrudra/studio-sub000/internal/services"
)

type service interface {
    ListSprints(ctx context.Context) ([]domain.Sprint, error)
    GetSprint(ctx context.Context, id string) (*domain.Sprint, error)
    CreateSprint(ctx context.Context, draft services.SprintDraft) (*domain.Sprint, error)
    EditSprint(ctx context.Context, id string, draft services.SprintDraft) (*domain.Sprint, error)
    DeleteSprint(ctx context.Context, id string) error

    AddTicket(ctx context.Context, sprintID string, draft domain.Ticket) (*domain.Sprint, error)
    UpdateTicket(ctx context.Context, sprintID string, t domain.Ticket) (*domain.Sprint, error)
    DeleteTicket(ctx context.Context, sprintID, ticketID string) (*domain.Sprint, error)
    LogProgress(ctx context.Context, sprintID string, entry engine.LogEntry) (*domain.Sprint, error)
    BulkUploadTickets(ctx context.Context, sprintID string, rows []engine.UploadRow) (*engine.BulkResult, error)
    BulkLogProgress(ctx context.Context, sprintID string, rows []engine.LogRow) (*engine.BulkResult, error)
    Undo(ctx context.Context, sprintID string) (*domain.Sprint, error)

    FinalizeScope(ctx context.Context, sprintID string) (*domain.Sprint, error)
    ReopenScope(ctx context.Context, sprintID string) (*domain.Sprint, error)
    CompleteSprint(ctx context.Context, sprintID string) (*domain.Sprint, error)

    Burndown(ctx context.Context, sprintID string, opt agg.BurndownOptions) ([]agg.BurndownPoint, error)
    TeamPerformance(ctx context.Context, sprintID string) ([]agg.TeamPerformance, error)
    VelocityTrend(ctx context.Context, sprintID string) ([]agg.VelocityPoint, error)
    Distribution(ctx context.Context, sprintID string) (*services.Distributions, error)

    GenerateReport(ctx context.Context, sprintID string) (string, error)
    ListReports(ctx context.Context, sprintID string) ([]repo.Report, error)
}

type Handlers struct {
    cfg config.Config
    log zerolog.Logger
    svc service
}

func NewHandlers(cfg config.Config, log zerolog.Logger, svc any) *Handlers {
    return &Handlers{cfg: cfg, log: log, svc: svc.(service)}
}

// respondErr maps core error kinds to HTTP statuses: validation → 400,
// unknown ids → 404, anything else → 500.
func respondErr(c *gin.Context, err error) {
    switch {
    case domain.IsValidation(err):
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    case errors.Is(err, domain.ErrNotFound):
        c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
    default:
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    }
}

func (h *Handlers) Healthz(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ---- Sprints ----

func (h *Handlers) ListSprints(c *gin.Context) {
    out, err := h.svc.ListSprints(c.Request.Context())
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, out)
}

func (h *Handlers) GetSprint(c *gin.Context) {
    sp, err := h.svc.GetSprint(c.Request.Context(), c.Param("id"))
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, sp)
}

func (h *Handlers) CreateSprint(c *gin.Context) {
    var draft services.SprintDraft
    if err := c.ShouldBindJSON(&draft); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    sp, err := h.svc.CreateSprint(c.Request.Context(), draft)
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusCreated, sp)
}

func (h *Handlers) EditSprint(c *gin.Context) {
    var draft services.SprintDraft
    if err := c.ShouldBindJSON(&draft); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    sp, err := h.svc.EditSprint(c.Request.Context(), c.Param("id"), draft)
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, sp)
}

func (h *Handlers) DeleteSprint(c *gin.Context) {
    if err := h.svc.DeleteSprint(c.Request.Context(), c.Param("id")); err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ---- Lifecycle ----

func (h *Handlers) FinalizeScope(c *gin.Context) {
    sp, err := h.svc.FinalizeScope(c.Request.Context(), c.Param("id"))
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, sp)
}

func (h *Handlers) ReopenScope(c *gin.Context) {
    sp, err := h.svc.ReopenScope(c.Request.Context(), c.Param("id"))
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, sp)
}

func (h *Handlers) CompleteSprint(c *gin.Context) {
    sp, err := h.svc.CompleteSprint(c.Request.Context(), c.Param("id"))
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, sp)
}

// ---- Tickets ----

func (h *Handlers) AddTicket(c *gin.Context) {
    var draft domain.Ticket
    if err := c.ShouldBindJSON(&draft); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    sp, err := h.svc.AddTicket(c.Request.Context(), c.Param("id"), draft)
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusCreated, sp)
}

func (h *Handlers) UpdateTicket(c *gin.Context) {
    var t domain.Ticket
    if err := c.ShouldBindJSON(&t); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    t.ID = c.Param("ticketId")
    sp, err := h.svc.UpdateTicket(c.Request.Context(), c.Param("id"), t)
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, sp)
}

func (h *Handlers) DeleteTicket(c *gin.Context) {
    sp, err := h.svc.DeleteTicket(c.Request.Context(), c.Param("id"), c.Param("ticketId"))
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, sp)
}

func (h *Handlers) LogProgress(c *gin.Context) {
    var entry struct {
        Team       string              `json:"team"`
        TicketID   string              `json:"ticketId"`
        Day        string              `json:"day"`
        Hours      float64             `json:"loggedHours"`
        Status     domain.TicketStatus `json:"status"`
        Title      string              `json:"title"`
        Type       domain.TicketType   `json:"type"`
        Platform   string              `json:"platform"`
        Estimation float64             `json:"estimation"`
    }
    if err := c.ShouldBindJSON(&entry); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    sp, err := h.svc.LogProgress(c.Request.Context(), c.Param("id"), engine.LogEntry{
        Team: entry.Team, TicketID: entry.TicketID, Day: entry.Day, Hours: entry.Hours,
        Status: entry.Status, Title: entry.Title, Type: entry.Type, Platform: entry.Platform,
        Estimation: entry.Estimation,
    })
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, sp)
}

func (h *Handlers) BulkUploadTickets(c *gin.Context) {
    var rows []engine.UploadRow
    if err := c.ShouldBindJSON(&rows); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    res, err := h.svc.BulkUploadTickets(c.Request.Context(), c.Param("id"), rows)
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, res)
}

func (h *Handlers) BulkLogProgress(c *gin.Context) {
    var rows []engine.LogRow
    if err := c.ShouldBindJSON(&rows); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    res, err := h.svc.BulkLogProgress(c.Request.Context(), c.Param("id"), rows)
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, res)
}

func (h *Handlers) Undo(c *gin.Context) {
    sp, err := h.svc.Undo(c.Request.Context(), c.Param("id"))
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, sp)
}

// ---- Chart series ----

func (h *Handlers) Burndown(c *gin.Context) {
    opt := agg.BurndownOptions{
        Team:  c.Query("team"),
        Today: c.Query("today"),
    }
    switch c.Query("scope") {
    case "Build":
        opt.Scope = domain.ScopeBuild
    case "Run":
        opt.Scope = domain.ScopeRun
    }
    points, err := h.svc.Burndown(c.Request.Context(), c.Param("id"), opt)
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, points)
}

func (h *Handlers) TeamPerformance(c *gin.Context) {
    rows, err := h.svc.TeamPerformance(c.Request.Context(), c.Param("id"))
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, rows)
}

func (h *Handlers) VelocityTrend(c *gin.Context) {
    points, err := h.svc.VelocityTrend(c.Request.Context(), c.Param("id"))
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, points)
}

func (h *Handlers) Distribution(c *gin.Context) {
    dist, err := h.svc.Distribution(c.Request.Context(), c.Param("id"))
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, dist)
}

// ---- Reports ----

func (h *Handlers) GenerateReport(c *gin.Context) {
    text, err := h.svc.GenerateReport(c.Request.Context(), c.Param("id"))
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, gin.H{"report": text})
}

func (h *Handlers) ListReports(c *gin.Context) {
    reports, err := h.svc.ListReports(c.Request.Context(), c.Param("id"))
    if err != nil { respondErr(c, err); return }
    c.JSON(http.StatusOK, reports)
}
