package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/pulse/internal/insights"
	"github.com/Veraticus/pulse/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const barWidth = 30

// RenderMoodSummary draws today's mood dashboard.
func RenderMoodSummary(s insights.MoodSummary, encouragement string) string {
	sections := []string{
		FormatTitle("Mood Tracker"),
		SubtleStyle.Render(encouragement),
	}

	if !s.HasToday {
		if s.HasData {
			sections = append(sections, FormatInfo(s.Message))
		} else {
			sections = append(sections, FormatWarning(s.Message))
		}
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	metric := fmt.Sprintf("Average Mood Score (-3 to +3)\n%s", MetricValueStyle.Render(fmt.Sprintf("%.2f", s.AverageScore)))
	sections = append(sections, BoxStyle.Render(metric))

	labels := make([]string, len(s.Counts))
	values := make([]float64, len(s.Counts))
	for i, c := range s.Counts {
		labels[i] = c.Mood.Display()
		values[i] = float64(c.Count)
	}
	sections = append(sections,
		RenderBox(ChartIcon+" Today's Mood Breakdown", barChart(labels, values, BarStyle, func(v float64) string {
			return fmt.Sprintf("%.0f", v)
		})),
	)

	rows := make([][]string, 0, len(s.Today))
	for _, e := range s.Today {
		rows = append(rows, []string{e.Timestamp.Format(model.TimestampLayout), e.Mood.Display(), e.Note})
	}
	sections = append(sections, renderTable([]string{"timestamp", "mood", "note"}, rows))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RenderRevenueSummary draws the revenue dashboard.
func RenderRevenueSummary(s insights.RevenueSummary) string {
	sections := []string{FormatTitle("Revenue Tracker")}

	if s.Entries == 0 {
		sections = append(sections, FormatWarning(insights.NoRevenueMessage))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	metrics := lipgloss.JoinHorizontal(lipgloss.Top,
		metricBox("Total revenue", "$"+s.Total.StringFixed(2)),
		metricBox("Entries", fmt.Sprintf("%d", s.Entries)),
		metricBox("Clients", fmt.Sprintf("%d", s.Clients)),
		metricBox("Avg / day", "$"+s.AveragePerDay.StringFixed(2)),
	)
	sections = append(sections, metrics)

	money := func(v float64) string { return fmt.Sprintf("$%.2f", v) }

	dayLabels := make([]string, len(s.Daily))
	dayValues := make([]float64, len(s.Daily))
	cumulative := make([]string, len(s.Daily))
	for i, d := range s.Daily {
		dayLabels[i] = d.Date.Format("2006-01-02")
		dayValues[i] = d.Revenue.InexactFloat64()
		cumulative[i] = "$" + d.Cumulative.StringFixed(2)
	}
	sections = append(sections, RenderBox(ChartIcon+" Daily Revenue", barChart(dayLabels, dayValues, BarStyle, money)))

	cumRows := make([][]string, len(s.Daily))
	for i := range s.Daily {
		cumRows[i] = []string{dayLabels[i], cumulative[i]}
	}
	sections = append(sections, renderTable([]string{"date", "cumulative"}, cumRows))

	clientLabels := make([]string, len(s.ByClient))
	clientValues := make([]float64, len(s.ByClient))
	for i, c := range s.ByClient {
		clientLabels[i] = c.Client
		clientValues[i] = c.Revenue.InexactFloat64()
	}
	sections = append(sections, RenderBox(ChartIcon+" Revenue by Client", barChart(clientLabels, clientValues, BarStyle, money)))

	if s.Forecast.Insufficient {
		sections = append(sections, FormatInfo(s.Forecast.Message))
	} else {
		fcLabels := make([]string, len(s.Forecast.Points))
		fcValues := make([]float64, len(s.Forecast.Points))
		for i, p := range s.Forecast.Points {
			fcLabels[i] = p.Date.Format("2006-01-02")
			fcValues[i] = p.Revenue
		}
		title := fmt.Sprintf("%s %d-Day Forecast (slope %+.2f/day)", TrendIcon, len(s.Forecast.Points), s.Forecast.Line.Slope)
		sections = append(sections, RenderBox(title, barChart(fcLabels, fcValues, ForecastBarStyle, money)))
	}

	recent := make([][]string, 0, len(s.Recent))
	for _, e := range s.Recent {
		recent = append(recent, []string{
			e.Timestamp.Format(model.TimestampLayout),
			e.Client,
			"$" + e.Revenue.StringFixed(2),
			e.Note,
		})
	}
	sections = append(sections, SubtitleStyle.Render("Recent entries"), renderTable(model.RevenueHeader, recent))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func metricBox(label, value string) string {
	return BoxStyle.Render(label + "\n" + MetricValueStyle.Render(value))
}

// barChart draws one horizontal bar per label, scaled to the largest value.
func barChart(labels []string, values []float64, style lipgloss.Style, format func(float64) string) string {
	if len(values) == 0 {
		return SubtleStyle.Render("(no data)")
	}

	maxVal := 0.0
	labelWidth := 0
	for i, v := range values {
		maxVal = math.Max(maxVal, v)
		labelWidth = max(labelWidth, lipgloss.Width(labels[i]))
	}

	lines := make([]string, len(values))
	for i, v := range values {
		n := 0
		if maxVal > 0 {
			n = int(math.Round(v / maxVal * barWidth))
		}
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(labels[i]))
		lines[i] = fmt.Sprintf("%s%s %s %s", labels[i], pad, style.Render(strings.Repeat("█", n)), format(v))
	}
	return strings.Join(lines, "\n")
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtleStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		}).
		String()
}
