package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/pocketledger/internal/adapter/http/dto"
	"github.com/iho/pocketledger/internal/domain"
)

// ReportService is the read side of a user's ledger.
type ReportService interface {
	Balance(ctx context.Context, userID string) (domain.Summary, error)
	Report(ctx context.Context, userID string) (domain.Summary, error)
	Analysis(ctx context.Context, userID string) (*domain.Analysis, error)
}

// ReportHandler exposes balances, reports and analyses per user.
type ReportHandler struct {
	reports ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Balance handles GET /users/{id}/balance.
func (h *ReportHandler) Balance(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.Balance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromDomain(summary))
}

// Report handles GET /users/{id}/report.
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.Report(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromDomain(summary))
}

// Analysis handles GET /users/{id}/analysis.
func (h *ReportHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.reports.Analysis(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get analysis", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AnalysisFromDomain(analysis))
}
