package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/survivaldisc/internal/service"
)

// AdminHandler serves the role-gated dashboard endpoints. The admin check
// itself happens in middleware; by the time these run, the caller's JWT
// carries the admin role.
type AdminHandler struct {
	accounts *service.AccountService
	stats    *service.StatsService
	logger   *slog.Logger
}

func NewAdminHandler(accounts *service.AccountService, stats *service.StatsService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		accounts: accounts,
		stats:    stats,
		logger:   logger,
	}
}

// HandleListUsers returns every registered profile in insertion order.
//
// HTTP: GET /api/admin/users
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.accounts.ListAccounts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

// HandleStats returns the dashboard totals.
//
// HTTP: GET /api/admin/stats
func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Global(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
