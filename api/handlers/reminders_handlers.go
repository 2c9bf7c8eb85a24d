package handlers

import (
	"net/http"
	"strings"

	"crimedesk/core/remind"
	"crimedesk/core/scope"
	"crimedesk/core/store"
	"crimedesk/core/utils"
)

type RemindersHandler struct {
	reminders store.RemindersStore
	crimes    store.CrimesStore
	stations  store.StationsStore
	resolver  *scope.Resolver
	checker   *remind.Checker
	logger    *utils.Logger
}

func NewRemindersHandler(reminders store.RemindersStore, crimes store.CrimesStore, stations store.StationsStore,
	resolver *scope.Resolver, checker *remind.Checker, logger *utils.Logger) *RemindersHandler {
	return &RemindersHandler{reminders: reminders, crimes: crimes, stations: stations, resolver: resolver, checker: checker, logger: logger}
}

func (h *RemindersHandler) List(w http.ResponseWriter, r *http.Request) {
	p, clientErr, err := parseListParams(r, h.resolver, h.stations)
	if clientErr != "" {
		http.Error(w, clientErr, http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Errorf("list reminders: %v", err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	reminders, err := h.reminders.ListReminders(r.Context(), store.ReminderFilter{
		Scope:         p.scope,
		StationID:     p.stationID,
		ACPStationIDs: p.acpStationIDs,
		ReminderType:  p.reminderType,
		MonthStart:    p.monthStart,
		MonthEnd:      p.monthEnd,
	})
	if err != nil {
		h.logger.Errorf("list reminders: %v", err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	if reminders == nil {
		reminders = []store.Reminder{}
	}
	for i := range reminders {
		if reminders[i].StationName == "" {
			reminders[i].StationName = fallbackStationName
		}
		if reminders[i].AssignedToName == "" {
			reminders[i].AssignedToName = fallbackAssigneeName
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Reminders fetched successfully",
		"reminders": reminders,
	})
}

type createReminderRequest struct {
	CrimeID      int64  `json:"crime_id"`
	ReminderType string `json:"reminder_type"`
}

func (h *RemindersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReminderRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, errBadRequest, http.StatusBadRequest)
		return
	}
	if req.CrimeID <= 0 || strings.TrimSpace(req.ReminderType) == "" {
		http.Error(w, "crime_id and reminder_type are required", http.StatusBadRequest)
		return
	}
	crime, err := h.crimes.GetCrime(r.Context(), req.CrimeID)
	if err != nil {
		h.logger.Errorf("create reminder: crime %d: %v", req.CrimeID, err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	if crime == nil {
		http.Error(w, "case not found", http.StatusNotFound)
		return
	}
	rem := &store.Reminder{
		CrimeID:      req.CrimeID,
		ReminderType: strings.TrimSpace(req.ReminderType),
	}
	if _, err := h.reminders.CreateReminder(r.Context(), rem); err != nil {
		h.logger.Errorf("create reminder: %v", err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Reminder logged successfully",
		"reminder": rem,
	})
}

// Check triggers one reminder run on demand.
func (h *RemindersHandler) Check(w http.ResponseWriter, r *http.Request) {
	summary, err := h.checker.CheckDue(r.Context(), utils.NowUTC())
	if err != nil {
		h.logger.Errorf("reminder check: %v", err)
		http.Error(w, errServerError, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Reminder check completed",
		"summary": summary,
	})
}
