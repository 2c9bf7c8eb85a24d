package stats

import (
	"context"
	"database/sql"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"crimedesk/config"
	"crimedesk/core/store"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.AppConfig{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := store.NewDB(cfg, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.ApplyMigrations(context.Background(), db, nil); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return db
}

func newTestService(db *sql.DB) *Service {
	return NewService(
		store.NewDashboardStore(db),
		store.NewCrimesStore(db),
		store.NewEscalationsStore(db),
		store.NewStationsStore(db),
		store.NewCrimeTypesStore(db),
		nil,
	)
}

type fixture struct {
	stations store.StationsStore
	users    store.UsersStore
	crimes   store.CrimesStore
	types    store.CrimeTypesStore
}

func newFixture(db *sql.DB) *fixture {
	return &fixture{
		stations: store.NewStationsStore(db),
		users:    store.NewUsersStore(db),
		crimes:   store.NewCrimesStore(db),
		types:    store.NewCrimeTypesStore(db),
	}
}

func (f *fixture) station(t *testing.T, name string, acpID *int64) *store.Station {
	t.Helper()
	st := &store.Station{Name: name, ACPID: acpID}
	if _, err := f.stations.CreateStation(context.Background(), st); err != nil {
		t.Fatalf("create station: %v", err)
	}
	return st
}

func (f *fixture) user(t *testing.T, name, email, role string, stationID *int64) *store.User {
	t.Helper()
	u := &store.User{Name: name, Email: email, PasswordHash: "x", Role: role, StationID: stationID}
	if _, err := f.users.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) crime(t *testing.T, c *store.Crime) *store.Crime {
	t.Helper()
	if _, err := f.crimes.CreateCrime(context.Background(), c); err != nil {
		t.Fatalf("create crime: %v", err)
	}
	return c
}

func TestParseCrimeTypeIDs(t *testing.T) {
	cases := []struct {
		raw  string
		want []int64
	}{
		{`[1,2]`, []int64{1, 2}},
		{`[]`, []int64{}},
		{``, []int64{}},
		{`7`, []int64{7}},
		{`1,2,3`, []int64{1, 2, 3}},
		{` 4 , 5 `, []int64{4, 5}},
		{`abc`, nil},
		{`[1,"x"]`, nil},
	}
	for _, tc := range cases {
		got := parseCrimeTypeIDs(tc.raw)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("parseCrimeTypeIDs(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestDashboardStatsEmptyDatabase(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)

	got, err := svc.DashboardStats(context.Background(), store.ScopeAll(), 0)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if got.TotalCases != 0 {
		t.Fatalf("totalCases = %d", got.TotalCases)
	}
	if got.ResolutionRate != 0 {
		t.Fatalf("empty set resolution rate = %d, want 0", got.ResolutionRate)
	}
	if got.CaseStatusData == nil || got.MonthlyTrendData == nil {
		t.Fatal("chart slices must be non-nil for JSON encoding")
	}
	if len(got.MonthlyTrendData) != 6 {
		t.Fatalf("trend months = %d, want 6", len(got.MonthlyTrendData))
	}
}

func TestDashboardStatsStatusCountsAndRate(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)
	f := newFixture(db)

	st := f.station(t, "S", nil)
	pi := f.user(t, "PI", "pi@example.com", "PI", &st.ID)

	for i := 0; i < 3; i++ {
		f.crime(t, &store.Crime{Title: "p", StationID: st.ID, AssignedToID: pi.ID, Status: store.StatusPending})
	}
	f.crime(t, &store.Crime{Title: "r", StationID: st.ID, AssignedToID: pi.ID, Status: store.StatusResolved})

	got, err := svc.DashboardStats(context.Background(), store.ScopeAll(), pi.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if got.TotalCases != 4 {
		t.Fatalf("totalCases = %d", got.TotalCases)
	}
	var sum int64
	for _, slice := range got.CaseStatusData {
		sum += slice.Value
		switch slice.Name {
		case store.StatusPending:
			if slice.Color != "#f59e0b" {
				t.Errorf("pending color = %s", slice.Color)
			}
		case store.StatusResolved:
			if slice.Color != "#10b981" {
				t.Errorf("resolved color = %s", slice.Color)
			}
		}
	}
	if sum != got.TotalCases {
		t.Fatalf("status slices sum to %d, total is %d", sum, got.TotalCases)
	}
	// 1 of 4 resolved rounds to 25.
	if got.ResolutionRate != 25 {
		t.Fatalf("resolution rate = %d, want 25", got.ResolutionRate)
	}
	if got.AssignedCases != 4 {
		t.Fatalf("assignedCases = %d", got.AssignedCases)
	}
}

func TestDashboardStatsScopedToStations(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)
	f := newFixture(db)

	visible := f.station(t, "Visible", nil)
	hidden := f.station(t, "Hidden", nil)
	pi := f.user(t, "PI", "pi@example.com", "PI", &visible.ID)

	f.crime(t, &store.Crime{Title: "mine", StationID: visible.ID, AssignedToID: pi.ID})
	f.crime(t, &store.Crime{Title: "not mine", StationID: hidden.ID, AssignedToID: pi.ID})

	got, err := svc.DashboardStats(context.Background(), store.ScopeStations(visible.ID), 0)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if got.TotalCases != 1 {
		t.Fatalf("scoped totalCases = %d, want 1", got.TotalCases)
	}
	if len(got.StationPerformanceData) != 1 || got.StationPerformanceData[0].Station != "Visible" {
		t.Fatalf("station performance = %+v", got.StationPerformanceData)
	}
}

func TestStationPerformanceResolutionRate(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)
	f := newFixture(db)

	st := f.station(t, "S", nil)
	other := f.station(t, "Idle", nil)
	pi := f.user(t, "PI", "pi@example.com", "PI", &st.ID)

	f.crime(t, &store.Crime{Title: "r", StationID: st.ID, AssignedToID: pi.ID, Status: store.StatusResolved})
	f.crime(t, &store.Crime{Title: "p", StationID: st.ID, AssignedToID: pi.ID, Status: store.StatusPending})
	f.crime(t, &store.Crime{Title: "p2", StationID: other.ID, AssignedToID: pi.ID, Status: store.StatusPending})

	got, err := svc.DashboardStats(context.Background(), store.ScopeAll(), 0)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	rates := map[string]int{}
	for _, sp := range got.StationPerformanceData {
		rates[sp.Station] = sp.ResolutionRate
	}
	if rates["S"] != 50 {
		t.Fatalf("resolution rate for S = %d, want 50", rates["S"])
	}
	if rates["Idle"] != 0 {
		t.Fatalf("resolution rate for Idle = %d, want 0", rates["Idle"])
	}
}

func TestCrimeTypeAttribution(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)
	f := newFixture(db)

	theft := &store.CrimeType{Heading: "Property", Type: "Theft"}
	assault := &store.CrimeType{Heading: "Violent", Type: "Assault"}
	ctx := context.Background()
	if _, err := f.types.CreateCrimeType(ctx, theft); err != nil {
		t.Fatalf("create type: %v", err)
	}
	if _, err := f.types.CreateCrimeType(ctx, assault); err != nil {
		t.Fatalf("create type: %v", err)
	}

	st := f.station(t, "S", nil)
	pi := f.user(t, "PI", "pi@example.com", "PI", &st.ID)

	// One case tagged with both types, one legacy unparseable row.
	f.crime(t, &store.Crime{Title: "both", StationID: st.ID, AssignedToID: pi.ID, CrimeTypeIDs: []int64{theft.ID, assault.ID}})
	if _, err := db.ExecContext(ctx, `
		INSERT INTO crimes(title, description, category, status, station_id, assigned_to_id, crime_type_ids,
			complainant_name, complainant_phone, complainant_address, incident_location, evidence_details,
			witness_details, suspect_details, case_priority, resolution_days, created_at)
		VALUES('legacy', '', '', 'Pending', ?, ?, 'abc', '', '', '', '', '', '', '', 'Medium', 1, ?)`,
		st.ID, pi.ID, time.Now().UTC()); err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}

	got, err := svc.DashboardStats(ctx, store.ScopeAll(), 0)
	if err != nil {
		t.Fatalf("unparseable crime_type_ids must not fail stats: %v", err)
	}
	counts := map[string]int64{}
	for _, slice := range got.CrimeTypeData {
		counts[slice.Name] = slice.Value
	}
	if counts["Theft"] != 1 || counts["Assault"] != 1 {
		t.Fatalf("type counts = %v", counts)
	}
	if counts[UnknownTypeBucket] != 1 {
		t.Fatalf("unknown bucket = %d, want 1", counts[UnknownTypeBucket])
	}
}

func TestACPPerformanceFiftyPercent(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)
	f := newFixture(db)
	ctx := context.Background()

	acp := f.user(t, "ACP", "acp@example.com", "ACP", nil)
	st1 := f.station(t, "One", &acp.ID)
	st2 := f.station(t, "Two", &acp.ID)
	pi1 := f.user(t, "PI1", "pi1@example.com", "PI", &st1.ID)
	pi2 := f.user(t, "PI2", "pi2@example.com", "PI", &st2.ID)

	f.crime(t, &store.Crime{Title: "resolved", StationID: st1.ID, AssignedToID: pi1.ID, Status: store.StatusResolved})
	f.crime(t, &store.Crime{Title: "pending", StationID: st2.ID, AssignedToID: pi2.ID, Status: store.StatusPending})

	got, err := svc.ACPPerformance(ctx, acp.ID)
	if err != nil {
		t.Fatalf("acp performance: %v", err)
	}
	if got.TotalCases != 2 || got.ResolvedCases != 1 || got.PendingCases != 1 {
		t.Fatalf("totals = %+v", got)
	}
	if got.ResolutionRate != 50 {
		t.Fatalf("resolution rate = %v, want 50", got.ResolutionRate)
	}
	if len(got.Stations) != 2 {
		t.Fatalf("stations = %d", len(got.Stations))
	}
	if len(got.MonthlyData) != 6 {
		t.Fatalf("monthly buckets = %d, want 6", len(got.MonthlyData))
	}
}

func TestACPPerformanceNoStations(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)

	got, err := svc.ACPPerformance(context.Background(), 999)
	if err != nil {
		t.Fatalf("acp performance: %v", err)
	}
	if got.TotalCases != 0 || got.ResolutionRate != 0 {
		t.Fatalf("empty acp = %+v", got)
	}
	if got.Stations == nil {
		t.Fatal("stations slice must be non-nil")
	}
}

func TestTrailingMonthsLabels(t *testing.T) {
	now := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	start, labels := trailingMonths(now, 6)
	if !start.Equal(time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("window start = %v", start)
	}
	want := []string{"Oct", "Nov", "Dec", "Jan", "Feb", "Mar"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("labels = %v, want %v", labels, want)
	}
}
