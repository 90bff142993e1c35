package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/pulse/internal/common"
	"google.golang.org/api/sheets/v4"
)

// Worksheet is one tab of a spreadsheet. It implements service.Worksheet.
type Worksheet struct {
	client        *Client
	spreadsheetID string
	title         string
	sheetID       int64
}

// Title returns the tab title.
func (w *Worksheet) Title() string {
	return w.title
}

// SpreadsheetID returns the id of the containing spreadsheet.
func (w *Worksheet) SpreadsheetID() string {
	return w.spreadsheetID
}

// Row returns the values in row index (1-based).
func (w *Worksheet) Row(ctx context.Context, index int) ([]string, error) {
	if index < 1 {
		return nil, fmt.Errorf("row index %d out of range", index)
	}

	rows, err := w.read(ctx, w.a1(fmt.Sprintf("%d:%d", index, index)))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []string{}, nil
	}
	return rows[0], nil
}

// Rows returns every row of the tab.
func (w *Worksheet) Rows(ctx context.Context) ([][]string, error) {
	return w.read(ctx, quoteTitle(w.title))
}

// InsertRow inserts a new grid row at index and fills it with values in a
// single batch update.
func (w *Worksheet) InsertRow(ctx context.Context, index int, values []string) error {
	if index < 1 {
		return fmt.Errorf("row index %d out of range", index)
	}

	cells := make([]*sheets.CellData, 0, len(values))
	for _, v := range values {
		cells = append(cells, &sheets.CellData{
			UserEnteredValue: &sheets.ExtendedValue{StringValue: &v},
		})
	}

	requests := []*sheets.Request{
		{
			InsertDimension: &sheets.InsertDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    w.sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(index - 1),
					EndIndex:   int64(index),
				},
				InheritFromBefore: index > 1,
			},
		},
		{
			UpdateCells: &sheets.UpdateCellsRequest{
				Start: &sheets.GridCoordinate{
					SheetId:     w.sheetID,
					RowIndex:    int64(index - 1),
					ColumnIndex: 0,
				},
				Rows:   []*sheets.RowData{{Values: cells}},
				Fields: "userEnteredValue",
			},
		},
	}

	_, err := w.client.sheets.Spreadsheets.BatchUpdate(w.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to insert row %d into %s: %w", index, w.title, classify(err))
	}

	w.client.logger.Debug("inserted row", "worksheet", w.title, "row", index, "columns", len(values))
	return nil
}

// AppendRow writes values after the last row of the table. Values are stored
// as entered (RAW) so that they read back byte for byte.
func (w *Worksheet) AppendRow(ctx context.Context, values []string) error {
	valueRange := &sheets.ValueRange{
		Values: [][]any{toAny(values)},
	}

	resp, err := w.client.sheets.Spreadsheets.Values.Append(w.spreadsheetID, w.a1("A1"), valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append row to %s: %w", w.title, classify(err))
	}

	if resp.Updates != nil {
		w.client.logger.Debug("appended row", "worksheet", w.title, "range", resp.Updates.UpdatedRange)
	}
	return nil
}

// read fetches a range with retries; reads are idempotent.
func (w *Worksheet) read(ctx context.Context, rng string) ([][]string, error) {
	var rows [][]string
	err := common.WithRetry(ctx, func() error {
		resp, err := w.client.sheets.Spreadsheets.Values.Get(w.spreadsheetID, rng).
			ValueRenderOption("FORMATTED_VALUE").
			Context(ctx).
			Do()
		if err != nil {
			return classify(err)
		}
		rows = toStrings(resp.Values)
		return nil
	}, w.client.retryOptions("read "+rng))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rng, err)
	}
	return rows, nil
}

func (w *Worksheet) a1(rng string) string {
	return quoteTitle(w.title) + "!" + rng
}

func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func toStrings(values [][]any) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v == nil {
				continue
			}
			cells[j] = fmt.Sprint(v)
		}
		rows[i] = cells
	}
	return rows
}
