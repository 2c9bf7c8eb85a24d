package handlers

import (
	"net/http"

	"crimedesk/core/scope"
	"crimedesk/core/stats"
	"crimedesk/core/store"
	"crimedesk/core/utils"
)

type DashboardHandler struct {
	stats    *stats.Service
	users    store.UsersStore
	resolver *scope.Resolver
	logger   *utils.Logger
}

func NewDashboardHandler(statsSvc *stats.Service, users store.UsersStore, resolver *scope.Resolver, logger *utils.Logger) *DashboardHandler {
	return &DashboardHandler{stats: statsSvc, users: users, resolver: resolver, logger: logger}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r)
	if !ok {
		http.Error(w, "userId and role are required", http.StatusBadRequest)
		return
	}
	sc, err := h.resolver.Resolve(r.Context(), id)
	if err != nil {
		h.logger.Errorf("dashboard stats: resolve scope: %v", err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	// assignedCases only makes sense for officers who carry a caseload.
	assigneeID := int64(0)
	if scope.StationBound(id.Role) {
		assigneeID = id.UserID
	}
	payload, err := h.stats.DashboardStats(r.Context(), sc, assigneeID)
	if err != nil {
		h.logger.Errorf("dashboard stats: %v", err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

type acpOverview struct {
	ACPID   int64  `json:"acp_id"`
	ACPName string `json:"acp_name"`
	*stats.ACPPerformance
}

func (h *DashboardHandler) ACPPerformance(w http.ResponseWriter, r *http.Request) {
	acpID, set, err := queryInt64(r, "acpId")
	if err != nil {
		http.Error(w, "invalid acpId", http.StatusBadRequest)
		return
	}
	if set {
		perf, err := h.stats.ACPPerformance(r.Context(), acpID)
		if err != nil {
			h.logger.Errorf("acp performance %d: %v", acpID, err)
			http.Error(w, errServerError, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, perf)
		return
	}
	acps, err := h.users.ListUsersByRole(r.Context(), scope.RoleACP)
	if err != nil {
		h.logger.Errorf("acp performance: list acps: %v", err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	out := make([]acpOverview, 0, len(acps))
	for _, acp := range acps {
		perf, err := h.stats.ACPPerformance(r.Context(), acp.ID)
		if err != nil {
			h.logger.Errorf("acp performance %d: %v", acp.ID, err)
			http.Error(w, errServerError, http.StatusInternalServerError)
			return
		}
		out = append(out, acpOverview{ACPID: acp.ID, ACPName: acp.Name, ACPPerformance: perf})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "ACP performance fetched successfully",
		"acps":    out,
	})
}
