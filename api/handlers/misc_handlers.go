package handlers

import (
	"net/http"

	"crimedesk/core/scope"
	"crimedesk/core/store"
	"crimedesk/core/utils"
)

// MiscHandler serves health and the shared filters endpoints.
type MiscHandler struct {
	stations store.StationsStore
	users    store.UsersStore
	logger   *utils.Logger
}

func NewMiscHandler(stations store.StationsStore, users store.UsersStore, logger *utils.Logger) *MiscHandler {
	return &MiscHandler{stations: stations, users: users, logger: logger}
}

func (h *MiscHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type filterOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Filters returns the station and ACP choices visible to the caller.
// DCP gets everything, an ACP gets their stations, station-bound roles
// get their own station; the acps list is populated for DCP only.
func (h *MiscHandler) Filters(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r)
	if !ok {
		http.Error(w, "userId and role are required", http.StatusBadRequest)
		return
	}
	stationOpts := []filterOption{}
	acpOpts := []filterOption{}

	switch {
	case id.Role == scope.RoleDCP:
		stations, err := h.stations.ListStations(r.Context())
		if err != nil {
			h.logger.Errorf("filters: stations: %v", err)
			http.Error(w, errServerError, http.StatusInternalServerError)
			return
		}
		for _, st := range stations {
			stationOpts = append(stationOpts, filterOption{ID: st.ID, Name: st.Name})
		}
		acps, err := h.users.ListUsersByRole(r.Context(), scope.RoleACP)
		if err != nil {
			h.logger.Errorf("filters: acps: %v", err)
			http.Error(w, errServerError, http.StatusInternalServerError)
			return
		}
		for _, acp := range acps {
			acpOpts = append(acpOpts, filterOption{ID: acp.ID, Name: acp.Name})
		}
	case id.Role == scope.RoleACP:
		stations, err := h.stations.ListStationsByACP(r.Context(), id.UserID)
		if err != nil {
			h.logger.Errorf("filters: acp stations: %v", err)
			http.Error(w, errServerError, http.StatusInternalServerError)
			return
		}
		for _, st := range stations {
			stationOpts = append(stationOpts, filterOption{ID: st.ID, Name: st.Name})
		}
	case scope.StationBound(id.Role):
		user, err := h.users.GetUser(r.Context(), id.UserID)
		if err != nil {
			h.logger.Errorf("filters: user %d: %v", id.UserID, err)
			http.Error(w, errServerError, http.StatusInternalServerError)
			return
		}
		if user != nil && user.StationID != nil {
			station, err := h.stations.GetStation(r.Context(), *user.StationID)
			if err != nil {
				h.logger.Errorf("filters: station %d: %v", *user.StationID, err)
				http.Error(w, errServerError, http.StatusInternalServerError)
				return
			}
			if station != nil {
				stationOpts = append(stationOpts, filterOption{ID: station.ID, Name: station.Name})
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stations": stationOpts,
		"acps":     acpOpts,
	})
}
