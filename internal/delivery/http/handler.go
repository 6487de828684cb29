package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stocksync/backend/internal/domain"
)

// RunStatus is the read side of a running reconciliation
type RunStatus interface {
	Summary() domain.Summary
	Outcomes(statuses ...domain.OutcomeStatus) []domain.OutcomeRecord
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	status  RunStatus
	version string
}

// NewHandler creates a new HTTP handler
func NewHandler(status RunStatus, version string) *Handler {
	return &Handler{status: status, version: version}
}

// HealthCheck returns the health status of the service
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "stocksync",
		"version": h.version,
	})
}

// GetSummary returns the counts by outcome status so far
func (h *Handler) GetSummary(c *gin.Context) {
	summary := h.status.Summary()
	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"running": summary.FinishedAt.IsZero(),
	})
}

// ListOutcomes returns recorded outcomes, filtered by ?status=a,b when given
func (h *Handler) ListOutcomes(c *gin.Context) {
	statuses, err := parseStatuses(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcomes := h.status.Outcomes(statuses...)
	if outcomes == nil {
		outcomes = []domain.OutcomeRecord{}
	}
	c.JSON(http.StatusOK, gin.H{
		"outcomes": outcomes,
		"count":    len(outcomes),
	})
}

func parseStatuses(raw string) ([]domain.OutcomeStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	known := make(map[domain.OutcomeStatus]bool, len(domain.OutcomeStatuses))
	for _, s := range domain.OutcomeStatuses {
		known[s] = true
	}

	var statuses []domain.OutcomeStatus
	for _, part := range strings.Split(raw, ",") {
		s := domain.OutcomeStatus(strings.TrimSpace(part))
		if !known[s] {
			return nil, domain.NewValidationError("status", "unknown outcome status "+string(s))
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}
