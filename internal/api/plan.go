package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/claimplan/claimplan/internal/domain"
	"github.com/claimplan/claimplan/internal/engine"
	"github.com/claimplan/claimplan/internal/infra/observability"
	"github.com/claimplan/claimplan/internal/infra/store"
)

// ─── Plan API ───────────────────────────────────────────────────────────────
//
// GET /api/plan?claim=ID&tier=N[&batch=N]    — full requirement plan
// GET /api/plan/export?claim=ID&tier=N&format=text|csv
// GET /api/history?claim=ID                  — recent plan summaries
// GET /api/proxy/{path}                      — whitelisted upstream pass-through

// Planner runs requirement calculations. *engine.Calculator satisfies it.
type Planner interface {
	CalculateRequirements(ctx context.Context, claimID string, targetTier int, opts engine.Options) (*domain.Plan, error)
}

// Fetcher retrieves raw whitelisted upstream documents for the proxy.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// handlePlan computes and returns a full plan.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.computePlan(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// handlePlanExport returns the plan's gathering list as text or CSV.
func (s *Server) handlePlanExport(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.computePlan(w, r)
	if !ok {
		return
	}

	switch r.URL.Query().Get("format") {
	case "csv":
		out, err := engine.ExportCSV(plan.Report)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="claimplan.csv"`)
		w.Write([]byte(out))
	case "", "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(engine.ExportText(plan.Report)))
	default:
		writeError(w, http.StatusBadRequest, "format must be text or csv")
	}
}

// computePlan parses the shared query parameters, runs the calculation and
// records it. Writes the error response itself on failure.
func (s *Server) computePlan(w http.ResponseWriter, r *http.Request) (*domain.Plan, bool) {
	q := r.URL.Query()

	claimID := q.Get("claim")
	if claimID == "" {
		writeError(w, http.StatusBadRequest, "claim parameter is required")
		return nil, false
	}
	tier, err := strconv.Atoi(q.Get("tier"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "tier parameter must be an integer")
		return nil, false
	}

	var opts engine.Options
	if batch := q.Get("batch"); batch != "" {
		n, err := strconv.Atoi(batch)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "batch parameter must be a positive integer")
			return nil, false
		}
		opts.BatchCount = n
	}

	start := time.Now()
	plan, err := s.planner.CalculateRequirements(r.Context(), claimID, tier, opts)
	observability.ObservePlan(time.Since(start).Seconds(), err)
	if err != nil {
		writeError(w, planStatus(err), err.Error())
		return nil, false
	}

	if s.history != nil {
		if err := s.history.RecordPlan(store.PlanRecord{
			ID:         plan.ID,
			ClaimID:    plan.ClaimID,
			TargetTier: plan.TargetTier,
			BatchCount: plan.BatchCount,
			Percent:    plan.Report.Percent,
		}); err != nil {
			// History is best-effort; the plan itself is fine.
			log.Printf("record plan %s in history: %v", plan.ID, err)
			observability.HistoryErrors.Inc()
		}
	}
	return plan, true
}

// planStatus maps calculation errors onto HTTP statuses.
func planStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownTier), errors.Is(err, domain.ErrBadBatch):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrClaimNotFound), errors.Is(err, domain.ErrCodexNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// handleHistory lists recent plan summaries for a claim.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "history not enabled")
		return
	}
	claimID := r.URL.Query().Get("claim")
	if claimID == "" {
		writeError(w, http.StatusBadRequest, "claim parameter is required")
		return
	}

	recs, err := s.history.PlanHistory(claimID, s.historyLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"claim_id": claimID,
		"plans":    recs,
	})
}

// handleProxy forwards a whitelisted path to the game-data API.
func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")

	body, err := s.fetcher.Fetch(r.Context(), path)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamDenied) {
			writeError(w, http.StatusForbidden, err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
