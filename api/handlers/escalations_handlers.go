package handlers

import (
	"net/http"
	"strings"

	"crimedesk/core/scope"
	"crimedesk/core/store"
	"crimedesk/core/utils"
)

type EscalationsHandler struct {
	escalations store.EscalationsStore
	crimes      store.CrimesStore
	stations    store.StationsStore
	resolver    *scope.Resolver
	logger      *utils.Logger
}

func NewEscalationsHandler(escalations store.EscalationsStore, crimes store.CrimesStore,
	stations store.StationsStore, resolver *scope.Resolver, logger *utils.Logger) *EscalationsHandler {
	return &EscalationsHandler{escalations: escalations, crimes: crimes, stations: stations, resolver: resolver, logger: logger}
}

func (h *EscalationsHandler) List(w http.ResponseWriter, r *http.Request) {
	p, clientErr, err := parseListParams(r, h.resolver, h.stations)
	if clientErr != "" {
		http.Error(w, clientErr, http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Errorf("list escalations: %v", err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	escalations, err := h.escalations.ListEscalations(r.Context(), store.EscalationFilter{
		Scope:         p.scope,
		StationID:     p.stationID,
		ACPStationIDs: p.acpStationIDs,
		Status:        p.status,
		MonthStart:    p.monthStart,
		MonthEnd:      p.monthEnd,
	})
	if err != nil {
		h.logger.Errorf("list escalations: %v", err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	if escalations == nil {
		escalations = []store.Escalation{}
	}
	for i := range escalations {
		if escalations[i].StationName == "" {
			escalations[i].StationName = fallbackStationName
		}
		if escalations[i].AssignedToName == "" {
			escalations[i].AssignedToName = fallbackAssigneeName
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Escalations fetched successfully",
		"escalations": escalations,
	})
}

type createEscalationRequest struct {
	CrimeID    int64  `json:"crime_id"`
	RaisedByID int64  `json:"raised_by_id"`
	RaisedToID int64  `json:"raised_to_id"`
	Reason     string `json:"reason"`
	Status     string `json:"status"`
}

func (h *EscalationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEscalationRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, errBadRequest, http.StatusBadRequest)
		return
	}
	if req.CrimeID <= 0 || req.RaisedByID <= 0 || req.RaisedToID <= 0 {
		http.Error(w, "crime_id, raised_by_id and raised_to_id are required", http.StatusBadRequest)
		return
	}
	crime, err := h.crimes.GetCrime(r.Context(), req.CrimeID)
	if err != nil {
		h.logger.Errorf("create escalation: crime %d: %v", req.CrimeID, err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	if crime == nil {
		http.Error(w, "case not found", http.StatusNotFound)
		return
	}
	esc := &store.Escalation{
		CrimeID:    req.CrimeID,
		RaisedByID: req.RaisedByID,
		RaisedToID: req.RaisedToID,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     strings.TrimSpace(req.Status),
	}
	if _, err := h.escalations.CreateEscalation(r.Context(), esc); err != nil {
		h.logger.Errorf("create escalation: %v", err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":    "Escalation raised successfully",
		"escalation": esc,
	})
}
