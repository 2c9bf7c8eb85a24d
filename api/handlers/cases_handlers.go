package handlers

import (
	"net/http"
	"strings"
	"time"

	"crimedesk/core/notify"
	"crimedesk/core/scope"
	"crimedesk/core/store"
	"crimedesk/core/utils"
)

type CasesHandler struct {
	crimes   store.CrimesStore
	users    store.UsersStore
	stations store.StationsStore
	resolver *scope.Resolver
	mailer   notify.Mailer
	logger   *utils.Logger
}

func NewCasesHandler(crimes store.CrimesStore, users store.UsersStore, stations store.StationsStore,
	resolver *scope.Resolver, mailer notify.Mailer, logger *utils.Logger) *CasesHandler {
	return &CasesHandler{crimes: crimes, users: users, stations: stations, resolver: resolver, mailer: mailer, logger: logger}
}

func (h *CasesHandler) List(w http.ResponseWriter, r *http.Request) {
	p, clientErr, err := parseListParams(r, h.resolver, h.stations)
	if clientErr != "" {
		http.Error(w, clientErr, http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Errorf("list cases: %v", err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	crimes, err := h.crimes.ListCrimes(r.Context(), store.CrimeFilter{
		Scope:         p.scope,
		StationID:     p.stationID,
		ACPStationIDs: p.acpStationIDs,
		Status:        p.status,
		Category:      p.category,
		MonthStart:    p.monthStart,
		MonthEnd:      p.monthEnd,
	})
	if err != nil {
		h.logger.Errorf("list cases: %v", err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	if crimes == nil {
		crimes = []store.Crime{}
	}
	for i := range crimes {
		applyCrimeFallbacks(&crimes[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Cases fetched successfully",
		"cases":   crimes,
	})
}

func (h *CasesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil || id <= 0 {
		http.Error(w, errBadRequest, http.StatusBadRequest)
		return
	}
	crime, err := h.crimes.GetCrime(r.Context(), id)
	if err != nil {
		h.logger.Errorf("get case %d: %v", id, err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	if crime == nil {
		http.Error(w, errNotFound, http.StatusNotFound)
		return
	}
	applyCrimeFallbacks(crime)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Case fetched successfully",
		"case":    crime,
	})
}

type createCaseRequest struct {
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Category           string  `json:"category"`
	CaseStatus         string  `json:"case_status"`
	StationID          int64   `json:"station_id"`
	PIID               int64   `json:"pi_id"`
	CrimeTypeIDs       []int64 `json:"crime_type_ids"`
	ComplainantName    string  `json:"complainant_name"`
	ComplainantPhone   string  `json:"complainant_phone"`
	ComplainantAddress string  `json:"complainant_address"`
	IncidentDate       string  `json:"incident_date"`
	IncidentLocation   string  `json:"incident_location"`
	EvidenceDetails    string  `json:"evidence_details"`
	WitnessDetails     string  `json:"witness_details"`
	SuspectDetails     string  `json:"suspect_details"`
	CasePriority       string  `json:"case_priority"`
	ResolutionDays     int     `json:"resolution_days"`
}

func (h *CasesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCaseRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, errBadRequest, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" || req.StationID <= 0 || req.PIID <= 0 {
		http.Error(w, "title, station_id and pi_id are required", http.StatusBadRequest)
		return
	}
	station, err := h.stations.GetStation(r.Context(), req.StationID)
	if err != nil {
		h.logger.Errorf("create case: station %d: %v", req.StationID, err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	if station == nil {
		http.Error(w, "station not found", http.StatusNotFound)
		return
	}
	officer, err := h.users.GetUser(r.Context(), req.PIID)
	if err != nil {
		h.logger.Errorf("create case: officer %d: %v", req.PIID, err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	if officer == nil {
		http.Error(w, "assigned officer not found", http.StatusNotFound)
		return
	}

	crime := &store.Crime{
		Title:              strings.TrimSpace(req.Title),
		Description:        req.Description,
		Category:           req.Category,
		Status:             strings.TrimSpace(req.CaseStatus),
		StationID:          req.StationID,
		AssignedToID:       req.PIID,
		CrimeTypeIDs:       req.CrimeTypeIDs,
		ComplainantName:    req.ComplainantName,
		ComplainantPhone:   req.ComplainantPhone,
		ComplainantAddress: req.ComplainantAddress,
		IncidentLocation:   req.IncidentLocation,
		EvidenceDetails:    req.EvidenceDetails,
		WitnessDetails:     req.WitnessDetails,
		SuspectDetails:     req.SuspectDetails,
		CasePriority:       strings.TrimSpace(req.CasePriority),
		ResolutionDays:     req.ResolutionDays,
	}
	if raw := strings.TrimSpace(req.IncidentDate); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			t, err = time.Parse("2006-01-02", raw)
		}
		if err != nil {
			http.Error(w, "invalid incident_date", http.StatusBadRequest)
			return
		}
		crime.IncidentDate = &t
	}
	if _, err := h.crimes.CreateCrime(r.Context(), crime); err != nil {
		h.logger.Errorf("create case: %v", err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}

	resp := map[string]any{
		"message": "Case registered successfully",
		"case":    crime,
	}
	// Assignment mail is best effort; delivery problems never undo the
	// registration.
	if warn := h.sendAssignmentMail(r, crime, station.Name, officer); warn != "" {
		resp["warning"] = warn
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *CasesHandler) sendAssignmentMail(r *http.Request, crime *store.Crime, stationName string, officer *store.User) string {
	if officer.Email == "" {
		return "assignment email skipped: officer has no email"
	}
	msg, err := notify.RenderCaseAssignment(notify.CaseAssignment{
		OfficerName: officer.Name,
		CaseTitle:   crime.Title,
		CaseID:      crime.ID,
		Category:    crime.Category,
		Priority:    crime.CasePriority,
		StationName: stationName,
		CreatedAt:   crime.CreatedAt,
	})
	if err != nil {
		h.logger.Errorf("create case %d: render mail: %v", crime.ID, err)
		return "assignment email failed"
	}
	msg.To = officer.Email
	if err := h.mailer.Send(r.Context(), msg); err != nil {
		h.logger.Errorf("create case %d: send mail: %v", crime.ID, err)
		return "assignment email failed"
	}
	return ""
}

func applyCrimeFallbacks(c *store.Crime) {
	if c.StationName == "" {
		c.StationName = fallbackStationName
	}
	if c.AssignedToName == "" {
		c.AssignedToName = fallbackAssigneeName
	}
}
