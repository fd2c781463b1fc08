/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"

    "github.com/Ebrudra/studio-sub000/internal/config"
)

func NewRouter(cfg config.Config, log zerolog.Logger, svc any) *gin.Engine {
    if cfg.AppEnv != "dev" { gin.SetMode(gin.ReleaseMode) }
    r := gin.New()
    r.Use(gin.Recovery())
    r.Use(func(c *gin.Context) {
        c.Next()
        log.Info().Str("m", c.Request.Method).Str("p", c.FullPath()).Int("s", c.Writer.Status()).Msg("http")
    })

    h := NewHandlers(cfg, log, svc)

    r.GET("/healthz", h.Healthz)

    api := r.Group("/api")
    api.GET("/sprints", h.ListSprints)
    api.POST("/sprints", h.CreateSprint)
    api.GET("/sprints/:id", h.GetSprint)
    api.PUT("/sprints/:id", h.EditSprint)
    api.DELETE("/sprints/:id", h.DeleteSprint)

    api.POST("/sprints/:id/finalize", h.FinalizeScope)
    api.POST("/sprints/:id/reopen", h.ReopenScope)
    api.POST("/sprints/:id/complete", h.CompleteSprint)

    api.POST("/sprints/:id/tickets", h.AddTicket)
    api.PUT("/sprints/:id/tickets/:ticketId", h.UpdateTicket)
    api.DELETE("/sprints/:id/tickets/:ticketId", h.DeleteTicket)
    api.POST("/sprints/:id/log", h.LogProgress)
    api.POST("/sprints/:id/bulk/tickets", h.BulkUploadTickets)
    api.POST("/sprints/:id/bulk/logs", h.BulkLogProgress)
    api.POST("/sprints/:id/undo", h.Undo)

    api.GET("/sprints/:id/burndown", h.Burndown)
    api.GET("/sprints/:id/performance", h.TeamPerformance)
    api.GET("/sprints/:id/velocity", h.VelocityTrend)
    api.GET("/sprints/:id/distribution", h.Distribution)

    api.POST("/sprints/:id/report", h.GenerateReport)
    api.GET("/sprints/:id/reports", h.ListReports)

    return r
}
