package remind

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"crimedesk/core/notify"
	"crimedesk/core/store"
	"crimedesk/core/utils"
)

const (
	ResultSent        = "sent"
	ResultFailed      = "failed"
	ResultAlreadySent = "already_sent"
	ResultError       = "error"
)

// CaseResult is the outcome for one case examined by a run.
type CaseResult struct {
	CrimeID    int64  `json:"crime_id"`
	CrimeTitle string `json:"crime_title"`
	DaysLeft   int    `json:"days_left"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

// RunSummary totals one reminder run.
type RunSummary struct {
	RunID          string       `json:"run_id"`
	TotalCases     int          `json:"totalCases"`
	EmailsSent     int          `json:"emailsSent"`
	EmailsFailed   int          `json:"emailsFailed"`
	TotalProcessed int          `json:"totalProcessed"`
	Results        []CaseResult `json:"results"`
}

// Checker scans unresolved cases for approaching resolution deadlines
// and sends first reminders to the assigned officers.
type Checker struct {
	crimes    store.CrimesStore
	reminders store.RemindersStore
	mailer    notify.Mailer
	logger    *utils.Logger
}

func NewChecker(crimes store.CrimesStore, reminders store.RemindersStore, mailer notify.Mailer, logger *utils.Logger) *Checker {
	return &Checker{crimes: crimes, reminders: reminders, mailer: mailer, logger: logger}
}

// daysLeft is resolution_days minus whole days elapsed since creation.
func daysLeft(crime store.Crime, now time.Time) int {
	elapsed := int(now.UTC().Sub(crime.CreatedAt.UTC()).Hours() / 24)
	return crime.ResolutionDays - elapsed
}

// CheckDue runs one reminder pass at the given instant. A case gets a
// first reminder when its deadline is within one day but not already
// past, and no first reminder was logged for it today. The reminder row
// is written even when the email fails, so a broken relay does not
// cause a resend storm on the next run.
func (c *Checker) CheckDue(ctx context.Context, now time.Time) (*RunSummary, error) {
	runID := uuid.Must(uuid.NewV4()).String()
	summary := &RunSummary{RunID: runID, Results: []CaseResult{}}

	crimes, err := c.crimes.ListCrimes(ctx, store.CrimeFilter{
		Scope:         store.ScopeAll(),
		ExcludeStatus: store.StatusResolved,
	})
	if err != nil {
		return nil, fmt.Errorf("list open cases: %w", err)
	}
	summary.TotalCases = len(crimes)
	c.logger.Printf("reminder run %s: %d open cases", runID, len(crimes))

	for _, crime := range crimes {
		left := daysLeft(crime, now)
		if left <= 0 || left > 1 {
			continue
		}
		summary.TotalProcessed++
		result := CaseResult{CrimeID: crime.ID, CrimeTitle: crime.Title, DaysLeft: left}

		already, err := c.reminders.HasReminderOn(ctx, crime.ID, store.ReminderFirst, now)
		if err != nil {
			result.Status = ResultError
			result.Error = err.Error()
			summary.Results = append(summary.Results, result)
			c.logger.Errorf("reminder run %s: case %d: %v", runID, crime.ID, err)
			continue
		}
		if already {
			result.Status = ResultAlreadySent
			summary.Results = append(summary.Results, result)
			continue
		}

		sendErr := c.sendReminder(ctx, crime, left, now)
		if sendErr != nil {
			result.Status = ResultFailed
			result.Error = sendErr.Error()
			summary.EmailsFailed++
			c.logger.Errorf("reminder run %s: case %d mail: %v", runID, crime.ID, sendErr)
		} else {
			result.Status = ResultSent
			summary.EmailsSent++
		}

		// Log the reminder regardless of delivery.
		if _, err := c.reminders.CreateReminder(ctx, &store.Reminder{
			CrimeID:      crime.ID,
			ReminderType: store.ReminderFirst,
			ReminderDate: now.UTC(),
		}); err != nil {
			result.Status = ResultError
			result.Error = err.Error()
			c.logger.Errorf("reminder run %s: case %d log: %v", runID, crime.ID, err)
		}
		summary.Results = append(summary.Results, result)
	}
	c.logger.Printf("reminder run %s: processed=%d sent=%d failed=%d",
		runID, summary.TotalProcessed, summary.EmailsSent, summary.EmailsFailed)
	return summary, nil
}

func (c *Checker) sendReminder(ctx context.Context, crime store.Crime, left int, now time.Time) error {
	if crime.AssignedToEmail == "" {
		return fmt.Errorf("case %d has no assignee email", crime.ID)
	}
	officer := crime.AssignedToName
	if officer == "" {
		officer = "Officer"
	}
	station := crime.StationName
	if station == "" {
		station = "Unknown Station"
	}
	msg, err := notify.RenderUrgentReminder(notify.UrgentReminder{
		OfficerName: officer,
		CaseTitle:   crime.Title,
		CaseID:      crime.ID,
		StationName: station,
		DaysLeft:    left,
		Deadline:    crime.CreatedAt.UTC().AddDate(0, 0, crime.ResolutionDays),
	})
	if err != nil {
		return err
	}
	msg.To = crime.AssignedToEmail
	return c.mailer.Send(ctx, msg)
}
