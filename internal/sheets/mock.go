package sheets

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MemoryWorksheet is an in-memory worksheet for tests and dry runs.
type MemoryWorksheet struct {
	RowFunc    func(ctx context.Context, index int) error
	InsertFunc func(ctx context.Context, index int, values []string) error
	AppendFunc func(ctx context.Context, values []string) error
	RowsFunc   func(ctx context.Context) error
	rows       [][]string
	Calls      []WorksheetCall
	mu         sync.Mutex
}

// WorksheetCall records a single mutating call.
type WorksheetCall struct {
	Error  error
	Op     string
	Values []string
	Index  int
}

// NewMemoryWorksheet creates a worksheet pre-filled with rows.
func NewMemoryWorksheet(rows ...[]string) *MemoryWorksheet {
	m := &MemoryWorksheet{}
	for _, r := range rows {
		m.rows = append(m.rows, slices.Clone(r))
	}
	return m
}

// Row implements service.Worksheet.
func (m *MemoryWorksheet) Row(ctx context.Context, index int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RowFunc != nil {
		if err := m.RowFunc(ctx, index); err != nil {
			return nil, err
		}
	}
	if index < 1 {
		return nil, fmt.Errorf("row index %d out of range", index)
	}
	if index > len(m.rows) {
		return []string{}, nil
	}
	return slices.Clone(m.rows[index-1]), nil
}

// InsertRow implements service.Worksheet.
func (m *MemoryWorksheet) InsertRow(ctx context.Context, index int, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.InsertFunc != nil {
		err = m.InsertFunc(ctx, index, values)
	}
	if err == nil && index < 1 {
		err = fmt.Errorf("row index %d out of range", index)
	}
	m.Calls = append(m.Calls, WorksheetCall{Op: "insert", Index: index, Values: slices.Clone(values), Error: err})
	if err != nil {
		return err
	}

	for len(m.rows) < index-1 {
		m.rows = append(m.rows, []string{})
	}
	m.rows = slices.Insert(m.rows, index-1, slices.Clone(values))
	return nil
}

// AppendRow implements service.Worksheet.
func (m *MemoryWorksheet) AppendRow(ctx context.Context, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.AppendFunc != nil {
		err = m.AppendFunc(ctx, values)
	}
	m.Calls = append(m.Calls, WorksheetCall{Op: "append", Index: len(m.rows) + 1, Values: slices.Clone(values), Error: err})
	if err != nil {
		return err
	}

	m.rows = append(m.rows, slices.Clone(values))
	return nil
}

// Rows implements service.Worksheet.
func (m *MemoryWorksheet) Rows(ctx context.Context) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RowsFunc != nil {
		if err := m.RowsFunc(ctx); err != nil {
			return nil, err
		}
	}

	out := make([][]string, len(m.rows))
	for i, r := range m.rows {
		out[i] = slices.Clone(r)
	}
	return out, nil
}

// Appends returns the number of successful AppendRow calls.
func (m *MemoryWorksheet) Appends() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.Calls {
		if c.Op == "append" && c.Error == nil {
			n++
		}
	}
	return n
}

// Reset clears rows and recorded calls.
func (m *MemoryWorksheet) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows = nil
	m.Calls = nil
}
