package api

import (
	"fmt"
	"net/http"
	"testing"

	"crimedesk/core/store"
)

func TestCreateEscalationDefaults(t *testing.T) {
	e := newTestEnv(t)
	acp := e.user(t, "ACP", "acp@example.com", "ACP", nil)
	st := e.station(t, "S", &acp.ID)
	pi := e.user(t, "PI", "pi@example.com", "PI", &st.ID)
	crime := e.crime(t, &store.Crime{Title: "x", StationID: st.ID, AssignedToID: pi.ID})

	rec := e.do(t, http.MethodPost, "/api/escalations", map[string]any{
		"crime_id":     crime.ID,
		"raised_by_id": pi.ID,
		"raised_to_id": acp.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	esc := body["escalation"].(map[string]any)
	if esc["status"] != store.StatusPending {
		t.Fatalf("status = %v", esc["status"])
	}
	if esc["reason"] != "Auto-generated escalation" {
		t.Fatalf("reason = %v", esc["reason"])
	}
}

func TestCreateEscalationValidation(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, "/api/escalations", map[string]any{"crime_id": 1})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing ids: status = %d", rec.Code)
	}
	rec = e.do(t, http.MethodPost, "/api/escalations", map[string]any{
		"crime_id": 999, "raised_by_id": 1, "raised_to_id": 2,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown case: status = %d", rec.Code)
	}
}

func TestListEscalationsScoped(t *testing.T) {
	e := newTestEnv(t)
	acp := e.user(t, "ACP", "acp@example.com", "ACP", nil)
	mine := e.station(t, "Mine", &acp.ID)
	other := e.station(t, "Other", nil)
	pi := e.user(t, "PI", "pi@example.com", "PI", &mine.ID)

	c1 := e.crime(t, &store.Crime{Title: "visible", StationID: mine.ID, AssignedToID: pi.ID})
	c2 := e.crime(t, &store.Crime{Title: "hidden", StationID: other.ID, AssignedToID: pi.ID})
	for _, c := range []*store.Crime{c1, c2} {
		rec := e.do(t, http.MethodPost, "/api/escalations", map[string]any{
			"crime_id": c.ID, "raised_by_id": pi.ID, "raised_to_id": acp.ID,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create escalation: status = %d", rec.Code)
		}
	}

	rec := e.do(t, http.MethodGet, fmt.Sprintf("/api/escalations?userId=%d&role=ACP", acp.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	escs := body["escalations"].([]any)
	if len(escs) != 1 {
		t.Fatalf("acp sees %d escalations, want 1", len(escs))
	}
	if escs[0].(map[string]any)["crime_title"] != "visible" {
		t.Fatalf("escalation = %v", escs[0])
	}
}
