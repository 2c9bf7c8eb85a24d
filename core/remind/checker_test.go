package remind

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"crimedesk/config"
	"crimedesk/core/notify"
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

type recordingMailer struct {
	sent    []notify.Message
	failAll bool
}

func (m *recordingMailer) Send(ctx context.Context, msg notify.Message) error {
	if m.failAll {
		return errors.New("relay down")
	}
	m.sent = append(m.sent, msg)
	return nil
}

type checkerFixture struct {
	db        *sql.DB
	crimes    store.CrimesStore
	reminders store.RemindersStore
	mailer    *recordingMailer
	checker   *Checker
	stationID int64
	officerID int64
}

func newCheckerFixture(t *testing.T) *checkerFixture {
	t.Helper()
	db := newTestDB(t)
	ctx := context.Background()

	stations := store.NewStationsStore(db)
	users := store.NewUsersStore(db)
	st := &store.Station{Name: "S"}
	if _, err := stations.CreateStation(ctx, st); err != nil {
		t.Fatalf("create station: %v", err)
	}
	pi := &store.User{Name: "PI", Email: "pi@example.com", PasswordHash: "x", Role: "PI", StationID: &st.ID}
	if _, err := users.CreateUser(ctx, pi); err != nil {
		t.Fatalf("create officer: %v", err)
	}

	f := &checkerFixture{
		db:        db,
		crimes:    store.NewCrimesStore(db),
		reminders: store.NewRemindersStore(db),
		mailer:    &recordingMailer{},
		stationID: st.ID,
		officerID: pi.ID,
	}
	f.checker = NewChecker(f.crimes, f.reminders, f.mailer, nil)
	return f
}

func (f *checkerFixture) crime(t *testing.T, title, status string, resolutionDays int, createdAt time.Time) *store.Crime {
	t.Helper()
	c := &store.Crime{
		Title:          title,
		Status:         status,
		StationID:      f.stationID,
		AssignedToID:   f.officerID,
		ResolutionDays: resolutionDays,
		CreatedAt:      createdAt,
	}
	if _, err := f.crimes.CreateCrime(context.Background(), c); err != nil {
		t.Fatalf("create crime: %v", err)
	}
	return c
}

func TestDaysLeft(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		created time.Time
		resDays int
		want    int
	}{
		{now, 1, 1},
		{now.Add(-30 * time.Hour), 1, 0},
		{now.AddDate(0, 0, -3), 7, 4},
		{now.AddDate(0, 0, -10), 7, -3},
	}
	for _, tc := range cases {
		c := store.Crime{CreatedAt: tc.created, ResolutionDays: tc.resDays}
		if got := daysLeft(c, now); got != tc.want {
			t.Errorf("daysLeft(created=%v, res=%d) = %d, want %d", tc.created, tc.resDays, got, tc.want)
		}
	}
}

func TestCheckDueSendsAndLogs(t *testing.T) {
	f := newCheckerFixture(t)
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)

	due := f.crime(t, "due", store.StatusPending, 1, now.Add(-2*time.Hour))
	f.crime(t, "not yet", store.StatusPending, 7, now.Add(-2*time.Hour))
	f.crime(t, "past due", store.StatusPending, 1, now.AddDate(0, 0, -5))
	f.crime(t, "resolved", store.StatusResolved, 1, now.Add(-2*time.Hour))

	summary, err := f.checker.CheckDue(context.Background(), now)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if summary.RunID == "" {
		t.Fatal("missing run id")
	}
	if summary.TotalCases != 3 {
		t.Fatalf("totalCases = %d, want 3 open", summary.TotalCases)
	}
	if summary.TotalProcessed != 1 || summary.EmailsSent != 1 || summary.EmailsFailed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(f.mailer.sent) != 1 || f.mailer.sent[0].To != "pi@example.com" {
		t.Fatalf("mailer sent = %+v", f.mailer.sent)
	}
	if len(summary.Results) != 1 || summary.Results[0].Status != ResultSent || summary.Results[0].CrimeID != due.ID {
		t.Fatalf("results = %+v", summary.Results)
	}

	has, err := f.reminders.HasReminderOn(context.Background(), due.ID, store.ReminderFirst, now)
	if err != nil || !has {
		t.Fatalf("reminder row missing: has=%v err=%v", has, err)
	}
}

func TestCheckDueSecondRunSameDayIsAlreadySent(t *testing.T) {
	f := newCheckerFixture(t)
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	f.crime(t, "due", store.StatusPending, 1, now.Add(-2*time.Hour))

	if _, err := f.checker.CheckDue(context.Background(), now); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := f.checker.CheckDue(context.Background(), now.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.EmailsSent != 0 {
		t.Fatalf("second run sent %d emails", second.EmailsSent)
	}
	if len(second.Results) != 1 || second.Results[0].Status != ResultAlreadySent {
		t.Fatalf("second run results = %+v", second.Results)
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("total emails = %d, want 1", len(f.mailer.sent))
	}
}

func TestCheckDueFailedSendStillLogsReminder(t *testing.T) {
	f := newCheckerFixture(t)
	f.mailer.failAll = true
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	due := f.crime(t, "due", store.StatusPending, 1, now.Add(-2*time.Hour))

	summary, err := f.checker.CheckDue(context.Background(), now)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if summary.EmailsFailed != 1 || summary.EmailsSent != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(summary.Results) != 1 || summary.Results[0].Status != ResultFailed {
		t.Fatalf("results = %+v", summary.Results)
	}

	// The reminder row exists, so the next run does not retry the send.
	has, err := f.reminders.HasReminderOn(context.Background(), due.ID, store.ReminderFirst, now)
	if err != nil || !has {
		t.Fatalf("reminder row missing after failed send: has=%v err=%v", has, err)
	}
	second, err := f.checker.CheckDue(context.Background(), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(second.Results) != 1 || second.Results[0].Status != ResultAlreadySent {
		t.Fatalf("second run results = %+v", second.Results)
	}
}
