// Package report writes logged entries and their aggregates to an Excel workbook.
package report

import (
	"fmt"
	"time"

	"github.com/Veraticus/pulse/internal/insights"
	"github.com/Veraticus/pulse/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names, in workbook order.
const (
	SheetMood     = "Mood"
	SheetRevenue  = "Revenue"
	SheetDaily    = "Daily"
	SheetForecast = "Forecast"
)

// Sheets lists every sheet BuildWorkbook writes.
var Sheets = []string{SheetMood, SheetRevenue, SheetDaily, SheetForecast}

const moneyFormat = "#,##0.00"

// Input is everything a workbook is built from.
type Input struct {
	Moods   []model.MoodEntry
	Revenue []model.RevenueEntry
	Summary insights.RevenueSummary
}

// BuildWorkbook writes one sheet per entry kind plus the daily totals and the
// forecast. onSheet, if set, is called after each sheet is written.
func BuildWorkbook(in Input, onSheet func(name string)) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetMood); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rename default sheet: %w", err)
	}
	for _, name := range Sheets[1:] {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	w, err := newWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	steps := []struct {
		write func() error
		name  string
	}{
		{name: SheetMood, write: func() error { return w.moods(in.Moods) }},
		{name: SheetRevenue, write: func() error { return w.revenue(in.Revenue) }},
		{name: SheetDaily, write: func() error { return w.daily(in.Summary.Daily) }},
		{name: SheetForecast, write: func() error { return w.forecast(in.Summary.Forecast) }},
	}
	for _, step := range steps {
		if err := step.write(); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write %s sheet: %w", step.name, err)
		}
		if onSheet != nil {
			onSheet(step.name)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

type writer struct {
	f      *excelize.File
	header int
	money  int
}

func newWriter(f *excelize.File) (*writer, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	format := moneyFormat
	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return nil, fmt.Errorf("failed to create money style: %w", err)
	}

	return &writer{f: f, header: header, money: money}, nil
}

// table writes headers in row 1 and rows below it.
func (w *writer) table(sheet string, headers []string, rows [][]any) error {
	headerRow := make([]any, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := w.f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return err
	}
	if err := w.f.SetRowStyle(sheet, 1, 1, w.header); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := w.f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// moneyColumn applies the currency format to col for every data row.
func (w *writer) moneyColumn(sheet, col string, rows int) error {
	if rows == 0 {
		return nil
	}
	return w.f.SetCellStyle(sheet, fmt.Sprintf("%s2", col), fmt.Sprintf("%s%d", col, rows+1), w.money)
}

func (w *writer) moods(entries []model.MoodEntry) error {
	rows := make([][]any, len(entries))
	for i, e := range entries {
		rows[i] = []any{timestamp(e.Timestamp), string(e.Mood), e.Note, e.Mood.Score()}
	}
	if err := w.table(SheetMood, append(append([]string{}, model.MoodHeader...), "score"), rows); err != nil {
		return err
	}
	if err := w.f.SetColWidth(SheetMood, "A", "A", 20); err != nil {
		return err
	}
	if err := w.f.SetColWidth(SheetMood, "B", "B", 14); err != nil {
		return err
	}
	return w.f.SetColWidth(SheetMood, "C", "C", 40)
}

func (w *writer) revenue(entries []model.RevenueEntry) error {
	rows := make([][]any, len(entries))
	for i, e := range entries {
		rows[i] = []any{timestamp(e.Timestamp), e.Client, e.Revenue.InexactFloat64(), e.Note}
	}
	if err := w.table(SheetRevenue, model.RevenueHeader, rows); err != nil {
		return err
	}
	if err := w.moneyColumn(SheetRevenue, "C", len(rows)); err != nil {
		return err
	}
	if err := w.f.SetColWidth(SheetRevenue, "A", "A", 20); err != nil {
		return err
	}
	if err := w.f.SetColWidth(SheetRevenue, "B", "C", 18); err != nil {
		return err
	}
	return w.f.SetColWidth(SheetRevenue, "D", "D", 40)
}

func (w *writer) daily(totals []insights.DailyTotal) error {
	rows := make([][]any, len(totals))
	for i, d := range totals {
		rows[i] = []any{d.Date.Format("2006-01-02"), d.Revenue.InexactFloat64(), d.Cumulative.InexactFloat64(), d.Entries}
	}
	if err := w.table(SheetDaily, []string{"date", "revenue", "cumulative", "entries"}, rows); err != nil {
		return err
	}
	for _, col := range []string{"B", "C"} {
		if err := w.moneyColumn(SheetDaily, col, len(rows)); err != nil {
			return err
		}
	}
	return w.f.SetColWidth(SheetDaily, "A", "D", 15)
}

func (w *writer) forecast(fc insights.Forecast) error {
	if fc.Insufficient {
		if err := w.table(SheetForecast, []string{"message"}, [][]any{{fc.Message}}); err != nil {
			return err
		}
		return w.f.SetColWidth(SheetForecast, "A", "A", 70)
	}

	rows := make([][]any, len(fc.Points))
	for i, p := range fc.Points {
		rows[i] = []any{p.Date.Format("2006-01-02"), p.Revenue}
	}
	if err := w.table(SheetForecast, []string{"date", "predicted_revenue"}, rows); err != nil {
		return err
	}
	if err := w.moneyColumn(SheetForecast, "B", len(rows)); err != nil {
		return err
	}

	// fitted line beside the predictions
	meta := [][]any{
		{"axis", string(fc.Axis)},
		{"slope", fc.Line.Slope},
		{"intercept", fc.Line.Intercept},
	}
	for i, row := range meta {
		cell, err := excelize.CoordinatesToCellName(4, i+1)
		if err != nil {
			return err
		}
		if err := w.f.SetSheetRow(SheetForecast, cell, &row); err != nil {
			return err
		}
	}
	return w.f.SetColWidth(SheetForecast, "A", "E", 18)
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.TimestampLayout)
}
