package stats

// Chart colors match the dashboard frontend palette.
const (
	colorPending  = "#f59e0b"
	colorResolved = "#10b981"
	colorOverdue  = "#ef4444"
	colorType     = "#3b82f6"
	colorReminder = "#3B82F6"
)

type StatusSlice struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
	Color string `json:"color"`
}

type MonthlyTrendPoint struct {
	Month    string `json:"month"`
	Pending  int64  `json:"pending"`
	Resolved int64  `json:"resolved"`
	Overdue  int64  `json:"overdue"`
}

type CrimeTypeSlice struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
	Color string `json:"color"`
}

type StationPerformance struct {
	Station        string `json:"station"`
	Pending        int64  `json:"pending"`
	Resolved       int64  `json:"resolved"`
	Overdue        int64  `json:"overdue"`
	Total          int64  `json:"total"`
	ResolutionRate int    `json:"resolutionRate"`
}

type EscalationTrendPoint struct {
	Month    string `json:"month"`
	Pending  int64  `json:"pending"`
	Resolved int64  `json:"resolved"`
}

type ReminderSlice struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
	Color string `json:"color"`
}

type CategoryTrendPoint struct {
	Month      string `json:"month"`
	Minor      int64  `json:"minor"`
	Major      int64  `json:"major"`
	MinorMajor int64  `json:"minorMajor"`
}

// DashboardStats is the full dashboard payload.
type DashboardStats struct {
	CaseStatusData         []StatusSlice          `json:"caseStatusData"`
	MonthlyTrendData       []MonthlyTrendPoint    `json:"monthlyTrendData"`
	CrimeTypeData          []CrimeTypeSlice       `json:"crimeTypeData"`
	StationPerformanceData []StationPerformance   `json:"stationPerformanceData"`
	EscalationTrendData    []EscalationTrendPoint `json:"escalationTrendData"`
	ReminderStatusData     []ReminderSlice        `json:"reminderStatusData"`
	CategoryTrendData      []CategoryTrendPoint   `json:"categoryTrendData"`
	TotalCases             int64                  `json:"totalCases"`
	PendingEscalations     int64                  `json:"pendingEscalations"`
	ResolvedThisMonth      int64                  `json:"resolvedThisMonth"`
	ResolutionRate         int                    `json:"resolutionRate"`
	AssignedCases          int64                  `json:"assignedCases"`
}

type ACPStationRow struct {
	StationID      int64   `json:"station_id"`
	StationName    string  `json:"station_name"`
	TotalCases     int64   `json:"totalCases"`
	PendingCases   int64   `json:"pendingCases"`
	ResolvedCases  int64   `json:"resolvedCases"`
	OverdueCases   int64   `json:"overdueCases"`
	ResolutionRate float64 `json:"resolutionRate"`
}

type ACPMonthlyPoint struct {
	Month    string `json:"month"`
	Total    int64  `json:"total"`
	Resolved int64  `json:"resolved"`
}

// ACPPerformance is the per-ACP rollup served to the DCP view.
type ACPPerformance struct {
	Stations           []ACPStationRow   `json:"stations"`
	TotalCases         int64             `json:"totalCases"`
	PendingCases       int64             `json:"pendingCases"`
	ResolvedCases      int64             `json:"resolvedCases"`
	OverdueCases       int64             `json:"overdueCases"`
	PendingEscalations int64             `json:"pendingEscalations"`
	ResolutionRate     float64           `json:"resolutionRate"`
	MonthlyData        []ACPMonthlyPoint `json:"monthlyData"`
}

func statusColor(status string) string {
	switch status {
	case "Pending":
		return colorPending
	case "Resolved":
		return colorResolved
	default:
		return colorOverdue
	}
}
