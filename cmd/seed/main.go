package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"crimedesk/config"
	"crimedesk/core/store"
	"crimedesk/core/utils"
)

// Seeds a deterministic data set: stations under two ACPs, one officer
// per station, crime-type reference rows, and a spread of cases across
// the trailing months so the trend charts have data.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to the config file")
	password := flag.String("password", "changeme123", "password for all seeded users")
	flag.Parse()

	logger := utils.NewLogger()
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Errorf("load config: %v", err)
		os.Exit(1)
	}
	db, err := store.NewDB(cfg, logger)
	if err != nil {
		logger.Errorf("open database: %v", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	if err := store.ApplyMigrations(ctx, db, logger); err != nil {
		logger.Errorf("apply migrations: %v", err)
		os.Exit(1)
	}
	if err := seed(ctx, db, *password, logger); err != nil {
		logger.Errorf("seed: %v", err)
		os.Exit(1)
	}
	logger.Printf("seed complete")
}

func seed(ctx context.Context, db *sql.DB, password string, logger *utils.Logger) error {
	users := store.NewUsersStore(db)
	stations := store.NewStationsStore(db)
	crimes := store.NewCrimesStore(db)
	escalations := store.NewEscalationsStore(db)
	reminders := store.NewRemindersStore(db)
	crimeTypes := store.NewCrimeTypesStore(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	dcp := &store.User{Name: "Commissioner Rao", Email: "dcp@crimedesk.local", PasswordHash: string(hash), Role: "DCP"}
	if _, err := users.CreateUser(ctx, dcp); err != nil {
		return fmt.Errorf("seed dcp: %w", err)
	}

	acpNames := []struct{ name, email string }{
		{"ACP North Division", "acp.north@crimedesk.local"},
		{"ACP South Division", "acp.south@crimedesk.local"},
	}
	var acps []*store.User
	for _, a := range acpNames {
		u := &store.User{Name: a.name, Email: a.email, PasswordHash: string(hash), Role: "ACP"}
		if _, err := users.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("seed acp %s: %w", a.name, err)
		}
		acps = append(acps, u)
	}

	stationNames := [][]string{
		{"Shivajinagar Station", "Kothrud Station", "Aundh Station"},
		{"Hadapsar Station", "Kondhwa Station"},
	}
	var allStations []*store.Station
	var officers []*store.User
	for i, group := range stationNames {
		for _, name := range group {
			st := &store.Station{Name: name}
			if _, err := stations.CreateStation(ctx, st); err != nil {
				return fmt.Errorf("seed station %s: %w", name, err)
			}
			if err := stations.AssignACP(ctx, st.ID, acps[i].ID); err != nil {
				return fmt.Errorf("assign acp for %s: %w", name, err)
			}
			st.ACPID = &acps[i].ID
			allStations = append(allStations, st)

			pi := &store.User{
				Name:         "PI " + name,
				Email:        fmt.Sprintf("pi.%d@crimedesk.local", st.ID),
				PasswordHash: string(hash),
				Role:         "PI",
				StationID:    &st.ID,
			}
			if _, err := users.CreateUser(ctx, pi); err != nil {
				return fmt.Errorf("seed officer for %s: %w", name, err)
			}
			officers = append(officers, pi)
		}
	}

	typeRows := []store.CrimeType{
		{Heading: "Property", Type: "Theft"},
		{Heading: "Property", Type: "Burglary"},
		{Heading: "Violent", Type: "Assault"},
		{Heading: "Violent", Type: "Robbery"},
		{Heading: "Cyber", Type: "Online Fraud"},
		{Heading: "Public Order", Type: "Rioting"},
	}
	for i := range typeRows {
		if _, err := crimeTypes.CreateCrimeType(ctx, &typeRows[i]); err != nil {
			return fmt.Errorf("seed crime type %s: %w", typeRows[i].Type, err)
		}
	}

	categories := []string{store.CategoryMinor, store.CategoryMajor, store.CategoryMinorMajor}
	statuses := []string{store.StatusPending, store.StatusResolved, store.StatusOverdue}
	now := utils.NowUTC()

	// Backdate cases across the trailing six months so every trend
	// bucket is populated.
	caseNo := 0
	for monthsBack := 5; monthsBack >= 0; monthsBack-- {
		monthStart := utils.StartOfMonth(now).AddDate(0, -monthsBack, 0)
		for i, st := range allStations {
			for j := 0; j < 2; j++ {
				caseNo++
				officer := officers[i]
				created := monthStart.AddDate(0, 0, 3+j*7)
				if created.After(now) {
					created = now.AddDate(0, 0, -1)
				}
				crime := &store.Crime{
					Title:          fmt.Sprintf("Case %03d - %s", caseNo, typeRows[(caseNo)%len(typeRows)].Type),
					Description:    "Seeded case",
					Category:       categories[caseNo%len(categories)],
					Status:         statuses[caseNo%len(statuses)],
					StationID:      st.ID,
					AssignedToID:   officer.ID,
					CrimeTypeIDs:   []int64{typeRows[caseNo%len(typeRows)].ID},
					CasePriority:   "Medium",
					ResolutionDays: 7,
					CreatedAt:      created,
				}
				if _, err := crimes.CreateCrime(ctx, crime); err != nil {
					return fmt.Errorf("seed case %d: %w", caseNo, err)
				}

				if crime.Status == store.StatusOverdue {
					esc := &store.Escalation{
						CrimeID:    crime.ID,
						RaisedByID: officer.ID,
						RaisedToID: derefID(st.ACPID),
						RaisedAt:   created.AddDate(0, 0, 8),
					}
					if _, err := escalations.CreateEscalation(ctx, esc); err != nil {
						return fmt.Errorf("seed escalation for case %d: %w", crime.ID, err)
					}
				}
				if crime.Status == store.StatusPending && caseNo%3 == 0 {
					rem := &store.Reminder{
						CrimeID:      crime.ID,
						ReminderType: store.ReminderFirst,
						ReminderDate: created.AddDate(0, 0, 6),
					}
					if _, err := reminders.CreateReminder(ctx, rem); err != nil {
						return fmt.Errorf("seed reminder for case %d: %w", crime.ID, err)
					}
				}
			}
		}
	}
	logger.Printf("seeded %d stations, %d users, %d cases",
		len(allStations), 1+len(acps)+len(officers), caseNo)
	return nil
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
