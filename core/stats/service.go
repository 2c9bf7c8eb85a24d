package stats

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"crimedesk/core/store"
	"crimedesk/core/utils"
)

// Service composes the grouped store queries into the dashboard and
// performance payloads.
type Service struct {
	dashboard   store.DashboardStore
	crimes      store.CrimesStore
	escalations store.EscalationsStore
	stations    store.StationsStore
	crimeTypes  store.CrimeTypesStore
	logger      *utils.Logger
}

func NewService(
	dashboard store.DashboardStore,
	crimes store.CrimesStore,
	escalations store.EscalationsStore,
	stations store.StationsStore,
	crimeTypes store.CrimeTypesStore,
	logger *utils.Logger,
) *Service {
	return &Service{
		dashboard:   dashboard,
		crimes:      crimes,
		escalations: escalations,
		stations:    stations,
		crimeTypes:  crimeTypes,
		logger:      logger,
	}
}

// trailingMonths returns the start of the window and the ordered short
// labels for the last n calendar months including the current one.
func trailingMonths(now time.Time, n int) (time.Time, []string) {
	current := utils.StartOfMonth(now)
	start := current.AddDate(0, -(n - 1), 0)
	labels := make([]string, 0, n)
	for i := 0; i < n; i++ {
		labels = append(labels, start.AddDate(0, i, 0).Month().String()[:3])
	}
	return start, labels
}

func monthLabel(t time.Time) string {
	return t.UTC().Month().String()[:3]
}

// DashboardStats builds the full dashboard payload for the given scope.
// The scope is already resolved from the caller identity, so every
// aggregate here is bounded by it.
func (s *Service) DashboardStats(ctx context.Context, scope store.StationScope, userID int64) (*DashboardStats, error) {
	now := utils.NowUTC()
	out := &DashboardStats{
		CaseStatusData:         []StatusSlice{},
		MonthlyTrendData:       []MonthlyTrendPoint{},
		CrimeTypeData:          []CrimeTypeSlice{},
		StationPerformanceData: []StationPerformance{},
		EscalationTrendData:    []EscalationTrendPoint{},
		ReminderStatusData:     []ReminderSlice{},
		CategoryTrendData:      []CategoryTrendPoint{},
	}

	statusCounts, err := s.dashboard.StatusCounts(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	var total int64
	for _, n := range statusCounts {
		total += n
	}
	out.TotalCases = total
	for _, status := range []string{store.StatusPending, store.StatusResolved, store.StatusOverdue} {
		if n, ok := statusCounts[status]; ok {
			out.CaseStatusData = append(out.CaseStatusData, StatusSlice{Name: status, Value: n, Color: statusColor(status)})
		}
	}
	for status, n := range statusCounts {
		switch status {
		case store.StatusPending, store.StatusResolved, store.StatusOverdue:
		default:
			out.CaseStatusData = append(out.CaseStatusData, StatusSlice{Name: status, Value: n, Color: statusColor(status)})
		}
	}
	if resolved := statusCounts[store.StatusResolved]; total > 0 {
		out.ResolutionRate = int(math.Round(float64(resolved) / float64(total) * 100))
	}

	if err := s.fillTrends(ctx, scope, now, out); err != nil {
		return nil, err
	}
	if err := s.fillCrimeTypes(ctx, scope, out); err != nil {
		return nil, err
	}
	if err := s.fillStationPerformance(ctx, scope, out); err != nil {
		return nil, err
	}

	reminderCounts, err := s.dashboard.ReminderTypeCounts(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("reminder counts: %w", err)
	}
	for _, typ := range []string{store.ReminderFirst, store.ReminderSecond, store.ReminderFinal} {
		if n, ok := reminderCounts[typ]; ok {
			out.ReminderStatusData = append(out.ReminderStatusData, ReminderSlice{Name: typ, Value: n, Color: colorReminder})
		}
	}

	pendingEsc, err := s.escalations.CountEscalations(ctx, store.EscalationFilter{Scope: scope, Status: store.StatusPending})
	if err != nil {
		return nil, fmt.Errorf("pending escalations: %w", err)
	}
	out.PendingEscalations = pendingEsc

	monthStart := utils.StartOfMonth(now)
	resolvedThisMonth, err := s.crimes.CountCrimes(ctx, store.CrimeFilter{
		Scope:      scope,
		Status:     store.StatusResolved,
		MonthStart: monthStart,
		MonthEnd:   monthStart.AddDate(0, 1, 0),
	})
	if err != nil {
		return nil, fmt.Errorf("resolved this month: %w", err)
	}
	out.ResolvedThisMonth = resolvedThisMonth

	if userID > 0 {
		assigned, err := s.crimes.CountCrimes(ctx, store.CrimeFilter{Scope: scope, AssignedToID: userID})
		if err != nil {
			return nil, fmt.Errorf("assigned cases: %w", err)
		}
		out.AssignedCases = assigned
	}
	return out, nil
}

func (s *Service) fillTrends(ctx context.Context, scope store.StationScope, now time.Time, out *DashboardStats) error {
	windowStart, labels := trailingMonths(now, 6)

	crimeRows, err := s.dashboard.CrimeStatusSince(ctx, scope, windowStart)
	if err != nil {
		return fmt.Errorf("crime trend: %w", err)
	}
	monthly := map[string]*MonthlyTrendPoint{}
	for _, label := range labels {
		monthly[label] = &MonthlyTrendPoint{Month: label}
	}
	for _, row := range crimeRows {
		p, ok := monthly[monthLabel(row.At)]
		if !ok {
			continue
		}
		switch row.Bucket {
		case store.StatusPending:
			p.Pending++
		case store.StatusResolved:
			p.Resolved++
		case store.StatusOverdue:
			p.Overdue++
		}
	}
	for _, label := range labels {
		out.MonthlyTrendData = append(out.MonthlyTrendData, *monthly[label])
	}

	escRows, err := s.dashboard.EscalationStatusSince(ctx, scope, windowStart)
	if err != nil {
		return fmt.Errorf("escalation trend: %w", err)
	}
	escalation := map[string]*EscalationTrendPoint{}
	for _, label := range labels {
		escalation[label] = &EscalationTrendPoint{Month: label}
	}
	for _, row := range escRows {
		p, ok := escalation[monthLabel(row.At)]
		if !ok {
			continue
		}
		switch row.Bucket {
		case store.StatusPending:
			p.Pending++
		case store.StatusResolved:
			p.Resolved++
		}
	}
	for _, label := range labels {
		out.EscalationTrendData = append(out.EscalationTrendData, *escalation[label])
	}

	catRows, err := s.dashboard.CrimeCategorySince(ctx, scope, windowStart)
	if err != nil {
		return fmt.Errorf("category trend: %w", err)
	}
	category := map[string]*CategoryTrendPoint{}
	for _, label := range labels {
		category[label] = &CategoryTrendPoint{Month: label}
	}
	for _, row := range catRows {
		p, ok := category[monthLabel(row.At)]
		if !ok {
			continue
		}
		switch row.Bucket {
		case store.CategoryMinor:
			p.Minor++
		case store.CategoryMajor:
			p.Major++
		case store.CategoryMinorMajor:
			p.MinorMajor++
		}
	}
	for _, label := range labels {
		out.CategoryTrendData = append(out.CategoryTrendData, *category[label])
	}
	return nil
}

func (s *Service) fillCrimeTypes(ctx context.Context, scope store.StationScope, out *DashboardStats) error {
	types, err := s.crimeTypes.ListCrimeTypes(ctx)
	if err != nil {
		return fmt.Errorf("crime types: %w", err)
	}
	names := make(map[int64]string, len(types))
	for _, ct := range types {
		names[ct.ID] = ct.Type
	}

	rawCounts, err := s.dashboard.CrimeTypeRawCounts(ctx, scope)
	if err != nil {
		return fmt.Errorf("crime type counts: %w", err)
	}
	counts := map[string]int64{}
	for _, rc := range rawCounts {
		ids := parseCrimeTypeIDs(rc.Raw)
		if ids == nil {
			counts[UnknownTypeBucket] += rc.Count
			continue
		}
		for _, id := range ids {
			name, ok := names[id]
			if !ok {
				name = UnknownTypeBucket
			}
			counts[name] += rc.Count
		}
	}
	keys := make([]string, 0, len(counts))
	for name := range counts {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	for _, name := range keys {
		out.CrimeTypeData = append(out.CrimeTypeData, CrimeTypeSlice{Name: name, Value: counts[name], Color: colorType})
	}
	return nil
}

func (s *Service) fillStationPerformance(ctx context.Context, scope store.StationScope, out *DashboardStats) error {
	stations, err := s.stations.ListStations(ctx)
	if err != nil {
		return fmt.Errorf("stations: %w", err)
	}
	names := make(map[int64]string, len(stations))
	for _, st := range stations {
		names[st.ID] = st.Name
	}

	rows, err := s.dashboard.StationStatusCounts(ctx, scope)
	if err != nil {
		return fmt.Errorf("station counts: %w", err)
	}
	perf := map[int64]*StationPerformance{}
	var order []int64
	for _, row := range rows {
		p, ok := perf[row.StationID]
		if !ok {
			name, known := names[row.StationID]
			if !known {
				name = "Unknown Station"
			}
			p = &StationPerformance{Station: name}
			perf[row.StationID] = p
			order = append(order, row.StationID)
		}
		switch row.Status {
		case store.StatusPending:
			p.Pending += row.Count
		case store.StatusResolved:
			p.Resolved += row.Count
		case store.StatusOverdue:
			p.Overdue += row.Count
		}
		p.Total += row.Count
	}
	for _, id := range order {
		p := perf[id]
		if p.Total > 0 {
			p.ResolutionRate = int(math.Round(float64(p.Resolved) / float64(p.Total) * 100))
		}
		out.StationPerformanceData = append(out.StationPerformanceData, *p)
	}
	return nil
}

// ACPPerformance rolls up the stations assigned to one ACP. Rates are
// percentages; a station with no cases reports a zero rate rather than
// dividing by zero.
func (s *Service) ACPPerformance(ctx context.Context, acpID int64) (*ACPPerformance, error) {
	now := utils.NowUTC()
	stations, err := s.stations.ListStationsByACP(ctx, acpID)
	if err != nil {
		return nil, fmt.Errorf("stations by acp: %w", err)
	}
	out := &ACPPerformance{
		Stations:    []ACPStationRow{},
		MonthlyData: []ACPMonthlyPoint{},
	}
	ids := make([]int64, 0, len(stations))
	for _, st := range stations {
		ids = append(ids, st.ID)
	}
	scope := store.ScopeStations(ids...)

	rows, err := s.dashboard.StationStatusCounts(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("station counts: %w", err)
	}
	byStation := map[int64]*ACPStationRow{}
	for _, st := range stations {
		byStation[st.ID] = &ACPStationRow{StationID: st.ID, StationName: st.Name}
	}
	for _, row := range rows {
		sr, ok := byStation[row.StationID]
		if !ok {
			continue
		}
		sr.TotalCases += row.Count
		switch row.Status {
		case store.StatusPending:
			sr.PendingCases += row.Count
		case store.StatusResolved:
			sr.ResolvedCases += row.Count
		case store.StatusOverdue:
			sr.OverdueCases += row.Count
		}
	}
	for _, st := range stations {
		sr := byStation[st.ID]
		if sr.TotalCases > 0 {
			sr.ResolutionRate = math.Round(float64(sr.ResolvedCases)/float64(sr.TotalCases)*10000) / 100
		}
		out.Stations = append(out.Stations, *sr)
		out.TotalCases += sr.TotalCases
		out.PendingCases += sr.PendingCases
		out.ResolvedCases += sr.ResolvedCases
		out.OverdueCases += sr.OverdueCases
	}
	if out.TotalCases > 0 {
		out.ResolutionRate = math.Round(float64(out.ResolvedCases)/float64(out.TotalCases)*10000) / 100
	}

	pendingEsc, err := s.escalations.CountEscalations(ctx, store.EscalationFilter{Scope: scope, Status: store.StatusPending})
	if err != nil {
		return nil, fmt.Errorf("pending escalations: %w", err)
	}
	out.PendingEscalations = pendingEsc

	windowStart, labels := trailingMonths(now, 6)
	trendRows, err := s.dashboard.CrimeStatusSince(ctx, scope, windowStart)
	if err != nil {
		return nil, fmt.Errorf("monthly data: %w", err)
	}
	monthly := map[string]*ACPMonthlyPoint{}
	for _, label := range labels {
		monthly[label] = &ACPMonthlyPoint{Month: label}
	}
	for _, row := range trendRows {
		p, ok := monthly[monthLabel(row.At)]
		if !ok {
			continue
		}
		p.Total++
		if row.Bucket == store.StatusResolved {
			p.Resolved++
		}
	}
	for _, label := range labels {
		out.MonthlyData = append(out.MonthlyData, *monthly[label])
	}
	return out, nil
}
