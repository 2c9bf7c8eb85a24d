package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// CaseAssignment carries the fields rendered into the assignment email.
type CaseAssignment struct {
	OfficerName string
	CaseTitle   string
	CaseID      int64
	Category    string
	Priority    string
	StationName string
	CreatedAt   time.Time
}

// UrgentReminder carries the fields rendered into the deadline email.
type UrgentReminder struct {
	OfficerName string
	CaseTitle   string
	CaseID      int64
	StationName string
	DaysLeft    int
	Deadline    time.Time
}

var caseAssignmentTmpl = template.Must(template.New("case_assignment").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #1e3a8a;">New Case Assigned</h2>
  <p>Dear {{.OfficerName}},</p>
  <p>A new case has been assigned to you:</p>
  <table style="border-collapse: collapse; width: 100%;">
    <tr><td style="padding: 6px; font-weight: bold;">Case ID</td><td style="padding: 6px;">#{{.CaseID}}</td></tr>
    <tr><td style="padding: 6px; font-weight: bold;">Title</td><td style="padding: 6px;">{{.CaseTitle}}</td></tr>
    <tr><td style="padding: 6px; font-weight: bold;">Category</td><td style="padding: 6px;">{{.Category}}</td></tr>
    <tr><td style="padding: 6px; font-weight: bold;">Priority</td><td style="padding: 6px;">{{.Priority}}</td></tr>
    <tr><td style="padding: 6px; font-weight: bold;">Station</td><td style="padding: 6px;">{{.StationName}}</td></tr>
    <tr><td style="padding: 6px; font-weight: bold;">Registered</td><td style="padding: 6px;">{{.CreatedAt.Format "02 Jan 2006 15:04"}}</td></tr>
  </table>
  <p>Please review the case details and begin the investigation.</p>
</div>`))

var urgentReminderTmpl = template.Must(template.New("urgent_reminder").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #dc2626;">Urgent: Case Deadline Approaching</h2>
  <p>Dear {{.OfficerName}},</p>
  <p>The resolution deadline for one of your cases is almost due:</p>
  <table style="border-collapse: collapse; width: 100%;">
    <tr><td style="padding: 6px; font-weight: bold;">Case ID</td><td style="padding: 6px;">#{{.CaseID}}</td></tr>
    <tr><td style="padding: 6px; font-weight: bold;">Title</td><td style="padding: 6px;">{{.CaseTitle}}</td></tr>
    <tr><td style="padding: 6px; font-weight: bold;">Station</td><td style="padding: 6px;">{{.StationName}}</td></tr>
    <tr><td style="padding: 6px; font-weight: bold;">Days Left</td><td style="padding: 6px;">{{.DaysLeft}}</td></tr>
    <tr><td style="padding: 6px; font-weight: bold;">Deadline</td><td style="padding: 6px;">{{.Deadline.Format "02 Jan 2006"}}</td></tr>
  </table>
  <p>Resolve or escalate the case before the deadline passes.</p>
</div>`))

func RenderCaseAssignment(data CaseAssignment) (Message, error) {
	var buf bytes.Buffer
	if err := caseAssignmentTmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render assignment mail: %w", err)
	}
	return Message{
		Subject: fmt.Sprintf("New Case Assigned: %s", data.CaseTitle),
		HTML:    buf.String(),
	}, nil
}

func RenderUrgentReminder(data UrgentReminder) (Message, error) {
	var buf bytes.Buffer
	if err := urgentReminderTmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render reminder mail: %w", err)
	}
	return Message{
		Subject: fmt.Sprintf("Urgent: Case #%d deadline approaching", data.CaseID),
		HTML:    buf.String(),
	}, nil
}
