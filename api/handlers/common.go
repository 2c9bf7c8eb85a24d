package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"crimedesk/core/scope"
	"crimedesk/core/store"
)

const (
	errBadRequest  = "bad request"
	errNotFound    = "not found"
	errServerError = "internal server error"
)

const (
	fallbackStationName  = "Unknown Station"
	fallbackAssigneeName = "Unassigned"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(v)
}

func identityFrom(r *http.Request) (scope.Identity, bool) {
	v := r.Context().Value(scope.IdentityContextKey)
	if v == nil {
		return scope.Identity{}, false
	}
	id, ok := v.(scope.Identity)
	return id, ok
}

// queryInt64 parses an optional positive integer query parameter.
func queryInt64(r *http.Request, key string) (int64, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, false, strconv.ErrSyntax
	}
	return n, true, nil
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		// Fallback for direct handler tests without chi route context.
		segments := strings.Split(strings.Trim(strings.TrimSpace(r.URL.Path), "/"), "/")
		if len(segments) > 0 {
			raw = segments[len(segments)-1]
		}
	}
	return strconv.ParseInt(raw, 10, 64)
}

// listParams holds the parsed shared list filters. The explicit
// stationId is intersected with the resolved scope by the store layer;
// the acpId expansion is honored for DCP callers only.
type listParams struct {
	scope         store.StationScope
	stationID     int64
	acpStationIDs []int64
	monthStart    time.Time
	monthEnd      time.Time
	status        string
	category      string
	reminderType  string
}

// parseListParams resolves the caller's scope and reads the optional
// query filters common to the list endpoints. A non-nil second return
// is the client error message for a 400.
func parseListParams(r *http.Request, resolver *scope.Resolver, stations store.StationsStore) (*listParams, string, error) {
	id, ok := identityFrom(r)
	if !ok {
		return nil, "userId and role are required", nil
	}
	sc, err := resolver.Resolve(r.Context(), id)
	if err != nil {
		return nil, "", err
	}
	p := &listParams{scope: sc}

	if stationID, set, err := queryInt64(r, "stationId"); err != nil {
		return nil, "invalid stationId", nil
	} else if set {
		p.stationID = stationID
	}

	if acpID, set, err := queryInt64(r, "acpId"); err != nil {
		return nil, "invalid acpId", nil
	} else if set && id.Role == scope.RoleDCP {
		ids, err := stations.ListStationIDsByACP(r.Context(), acpID)
		if err != nil {
			return nil, "", err
		}
		if ids == nil {
			ids = []int64{}
		}
		p.acpStationIDs = ids
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("month")); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			return nil, "invalid month", nil
		}
		p.monthStart, p.monthEnd = store.MonthWindow(m, time.Now())
	}

	p.status = strings.TrimSpace(r.URL.Query().Get("status"))
	p.category = strings.TrimSpace(r.URL.Query().Get("category"))
	p.reminderType = strings.TrimSpace(r.URL.Query().Get("type"))
	return p, "", nil
}
