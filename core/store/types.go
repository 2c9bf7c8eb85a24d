package store

// Case status values carried over from the dashboard the schema serves.
const (
	StatusPending  = "Pending"
	StatusResolved = "Resolved"
	StatusOverdue  = "Overdue"
)

const (
	CategoryMinor      = "MINOR"
	CategoryMajor      = "MAJOR"
	CategoryMinorMajor = "MINOR_MAJOR"
)

const (
	ReminderFirst  = "First"
	ReminderSecond = "Second"
	ReminderFinal  = "Final"
)

const (
	DefaultCasePriority   = "Medium"
	DefaultResolutionDays = 1
)
