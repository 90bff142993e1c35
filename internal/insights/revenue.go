package insights

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/Veraticus/pulse/internal/model"
	"github.com/shopspring/decimal"
)

// MinForecastDays is the number of distinct logging dates needed before a forecast is attempted.
const MinForecastDays = 3

// DefaultHorizon is how many calendar days a forecast covers.
const DefaultHorizon = 7

// Axis selects the x values a forecast is fitted on.
type Axis string

const (
	// AxisCalendar uses days elapsed since the first logged date, so days
	// without entries still take up room on the time axis.
	AxisCalendar Axis = "calendar"
	// AxisSequence numbers observed dates 0, 1, 2, ... and ignores gaps.
	AxisSequence Axis = "sequence"
)

// ParseAxis validates a configured axis name.
func ParseAxis(s string) (Axis, error) {
	switch Axis(s) {
	case AxisCalendar, "":
		return AxisCalendar, nil
	case AxisSequence:
		return AxisSequence, nil
	default:
		return "", fmt.Errorf("unknown forecast axis %q (want calendar or sequence)", s)
	}
}

// DailyTotal is the revenue logged on one calendar date.
type DailyTotal struct {
	Date       time.Time
	Revenue    decimal.Decimal
	Cumulative decimal.Decimal
	Entries    int
}

// ClientTotal is the revenue logged for one client.
type ClientTotal struct {
	Client  string
	Revenue decimal.Decimal
	Entries int
}

// ForecastPoint is a predicted daily revenue.
type ForecastPoint struct {
	Date    time.Time
	Revenue float64
}

// Forecast is the outcome of ForecastRevenue. Insufficient forecasts carry a
// message for the user instead of points.
type Forecast struct {
	Points       []ForecastPoint
	Message      string
	Axis         Axis
	Line         Line
	Insufficient bool
}

// RevenueSummary holds everything the revenue dashboard shows.
type RevenueSummary struct {
	Total         decimal.Decimal
	AveragePerDay decimal.Decimal
	Daily         []DailyTotal
	ByClient      []ClientTotal
	Recent        []model.RevenueEntry
	Forecast      Forecast
	Entries       int
	Clients       int
}

// DailyTotals groups entries by calendar date in loc, sums revenue per date
// and carries a running total across dates in ascending order. Entries with a
// zero timestamp are skipped.
func DailyTotals(entries []model.RevenueEntry, loc *time.Location) []DailyTotal {
	byDate := make(map[time.Time]*DailyTotal)
	for _, e := range entries {
		if e.Timestamp.IsZero() {
			continue
		}
		day := truncateDay(e.Timestamp, loc)
		dt, ok := byDate[day]
		if !ok {
			dt = &DailyTotal{Date: day, Revenue: decimal.Zero}
			byDate[day] = dt
		}
		dt.Revenue = dt.Revenue.Add(e.Revenue)
		dt.Entries++
	}

	out := make([]DailyTotal, 0, len(byDate))
	for _, dt := range byDate {
		out = append(out, *dt)
	}
	slices.SortFunc(out, func(a, b DailyTotal) int { return a.Date.Compare(b.Date) })

	running := decimal.Zero
	for i := range out {
		running = running.Add(out[i].Revenue)
		out[i].Cumulative = running
	}
	return out
}

// ByClient sums revenue per client, largest first.
func ByClient(entries []model.RevenueEntry) []ClientTotal {
	totals := make(map[string]*ClientTotal)
	for _, e := range entries {
		ct, ok := totals[e.Client]
		if !ok {
			ct = &ClientTotal{Client: e.Client, Revenue: decimal.Zero}
			totals[e.Client] = ct
		}
		ct.Revenue = ct.Revenue.Add(e.Revenue)
		ct.Entries++
	}

	out := make([]ClientTotal, 0, len(totals))
	for _, ct := range totals {
		out = append(out, *ct)
	}
	slices.SortFunc(out, func(a, b ClientTotal) int {
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}
		return cmp.Compare(a.Client, b.Client)
	})
	return out
}

// ForecastRevenue fits a least-squares line to the daily sums and predicts
// the next horizon calendar days after the last logged date. Predictions
// below zero are clamped to zero.
func ForecastRevenue(daily []DailyTotal, horizon int, axis Axis) Forecast {
	if axis == "" {
		axis = AxisCalendar
	}
	if horizon <= 0 {
		horizon = DefaultHorizon
	}

	if len(daily) < MinForecastDays {
		return Forecast{
			Axis:         axis,
			Insufficient: true,
			Message: fmt.Sprintf("Log revenue on at least %d different days to see a forecast (%d so far).",
				MinForecastDays, len(daily)),
		}
	}

	first := daily[0].Date
	xs := make([]float64, len(daily))
	ys := make([]float64, len(daily))
	for i, d := range daily {
		xs[i] = dayIndex(axis, i, first, d.Date)
		ys[i] = d.Revenue.InexactFloat64()
	}

	line, ok := FitLine(xs, ys)
	if !ok {
		return Forecast{Axis: axis, Insufficient: true, Message: "Not enough spread in the data to fit a trend."}
	}

	last := daily[len(daily)-1].Date
	lastX := xs[len(xs)-1]
	points := make([]ForecastPoint, 0, horizon)
	for step := 1; step <= horizon; step++ {
		predicted := line.At(lastX + float64(step))
		points = append(points, ForecastPoint{
			Date:    last.AddDate(0, 0, step),
			Revenue: round2(math.Max(predicted, 0)),
		})
	}

	return Forecast{Points: points, Line: line, Axis: axis}
}

// SummarizeRevenue builds the revenue dashboard from every entry.
func SummarizeRevenue(entries []model.RevenueEntry, loc *time.Location, horizon int, axis Axis) RevenueSummary {
	daily := DailyTotals(entries, loc)
	clients := ByClient(entries)

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Revenue)
	}

	avg := decimal.Zero
	if len(daily) > 0 {
		avg = total.Div(decimal.NewFromInt(int64(len(daily)))).Round(2)
	}

	return RevenueSummary{
		Total:         total,
		AveragePerDay: avg,
		Daily:         daily,
		ByClient:      clients,
		Recent:        recentRevenue(entries, 10),
		Forecast:      ForecastRevenue(daily, horizon, axis),
		Entries:       len(entries),
		Clients:       len(clients),
	}
}

func recentRevenue(entries []model.RevenueEntry, n int) []model.RevenueEntry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b model.RevenueEntry) int { return b.Timestamp.Compare(a.Timestamp) })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func dayIndex(axis Axis, i int, first, date time.Time) float64 {
	if axis == AxisSequence {
		return float64(i)
	}
	return float64(daysBetween(first, date))
}

// daysBetween counts calendar days from a to b, both already truncated to midnight.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func truncateDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
