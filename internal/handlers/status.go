package handlers

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/filevault/internal/repository"
	"github.com/dmitrymomot/filevault/internal/web"
	"github.com/dmitrymomot/filevault/pkg/health"
)

// StatsReader reports the user and file totals.
type StatsReader interface {
	Stats(ctx context.Context) (repository.Stats, error)
}

// Status serves GET /status and GET /stats.
type Status struct {
	checks health.Checks
	stats  StatsReader
}

// NewStatus reports each of checks as a boolean under its name.
func NewStatus(checks health.Checks, stats StatsReader) *Status {
	return &Status{checks: checks, stats: stats}
}

func (h *Status) Routes(r web.Router) {
	r.GET("/status", h.status)
	r.GET("/stats", h.totals)
}

// status always answers 200; a failing dependency shows up as false.
func (h *Status) status(c web.Context) error {
	res := health.Run(c, h.checks, health.WithLogger(c.Logger()))
	return c.JSON(http.StatusOK, res.Alive())
}

func (h *Status) totals(c web.Context) error {
	st, err := h.stats.Stats(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}
