package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/pulse/internal/common"
	"github.com/Veraticus/pulse/internal/model"
	"github.com/Veraticus/pulse/internal/service"
	"github.com/shopspring/decimal"
)

// RevenueInput is a submitted revenue form. Revenue stays a string so that
// unparseable amounts surface as validation errors rather than bind failures.
type RevenueInput struct {
	Client  string `json:"client" form:"client"`
	Revenue string `json:"revenue" form:"revenue"`
	Note    string `json:"note" form:"note"`
}

// UnmarshalJSON accepts revenue as a JSON number or a string.
func (in *RevenueInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		Client  string          `json:"client"`
		Revenue json.RawMessage `json:"revenue"`
		Note    string          `json:"note"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	in.Client, in.Note, in.Revenue = raw.Client, raw.Note, ""
	revenue := bytes.TrimSpace(raw.Revenue)
	switch {
	case len(revenue) == 0 || bytes.Equal(revenue, []byte("null")):
	case revenue[0] == '"':
		if err := json.Unmarshal(revenue, &in.Revenue); err != nil {
			return err
		}
	default:
		var n json.Number
		if err := json.Unmarshal(revenue, &n); err != nil {
			return errors.New("revenue must be a number or a string")
		}
		in.Revenue = n.String()
	}
	return nil
}

// RevenueTracker appends revenue entries and reads them back.
type RevenueTracker struct {
	ws   service.Worksheet
	opts Options
}

// NewRevenueTracker reconciles the header of ws and returns a tracker over it.
func NewRevenueTracker(ctx context.Context, ws service.Worksheet, opts Options) (*RevenueTracker, error) {
	opts = opts.withDefaults()

	inserted, err := ReconcileHeader(ctx, ws, model.RevenueHeader)
	if err != nil {
		return nil, err
	}
	if inserted {
		opts.Logger.Info("inserted revenue header row", "header", model.RevenueHeader)
	}

	return &RevenueTracker{ws: ws, opts: opts}, nil
}

// Location returns the time zone entries are stamped in.
func (t *RevenueTracker) Location() *time.Location {
	return t.opts.Location
}

// Now returns the tracker clock's current time.
func (t *RevenueTracker) Now() time.Time {
	return t.opts.now()
}

// Validate checks a submission without writing anything.
func (in RevenueInput) Validate() (client string, amount decimal.Decimal, err error) {
	client = strings.TrimSpace(in.Client)
	if client == "" {
		return "", decimal.Zero, common.NewValidationError("client", "Please enter a client name.")
	}

	raw, ok := normalizeAmount(in.Revenue)
	if !ok || raw == "" {
		return "", decimal.Zero, common.NewValidationError("revenue", "Revenue must be a number.")
	}
	amount, parseErr := decimal.NewFromString(raw)
	if parseErr != nil {
		return "", decimal.Zero, common.NewValidationError("revenue", "Revenue must be a number.")
	}
	// The stored cell has two decimals, so anything finer would not read back as submitted.
	if !amount.Equal(amount.Round(2)) {
		return "", decimal.Zero, common.NewValidationError("revenue", "Revenue can have at most two decimal places.")
	}
	if !amount.IsPositive() {
		return "", decimal.Zero, common.NewValidationError("revenue", "Revenue must be greater than zero.")
	}

	return client, amount, nil
}

// Log validates in and appends exactly one row. Invalid input appends nothing.
func (t *RevenueTracker) Log(ctx context.Context, in RevenueInput) (model.RevenueEntry, error) {
	client, amount, err := in.Validate()
	if err != nil {
		return model.RevenueEntry{}, err
	}

	entry := model.RevenueEntry{
		Timestamp: t.opts.now(),
		Client:    client,
		Revenue:   amount,
		Note:      strings.TrimSpace(in.Note),
	}

	if err := t.ws.AppendRow(ctx, entry.Row()); err != nil {
		return model.RevenueEntry{}, fmt.Errorf("failed to log revenue: %w", err)
	}

	t.opts.Logger.Info("logged revenue",
		"client", entry.Client,
		"revenue", entry.Revenue.StringFixed(2),
		"timestamp", entry.Timestamp.Format(model.TimestampLayout))
	return entry, nil
}

// Entries reads every revenue entry from the worksheet. A revenue cell that is
// not a number fails the whole read.
func (t *RevenueTracker) Entries(ctx context.Context) ([]model.RevenueEntry, error) {
	rows, err := t.ws.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read revenue entries: %w", err)
	}

	_, recs := records(rows)
	entries := make([]model.RevenueEntry, 0, len(recs))
	for i, rec := range recs {
		amount, err := parseAmount(rec["revenue"])
		if err != nil {
			return nil, fmt.Errorf("%w: data row %d: revenue %q", common.ErrMalformedRow, i+1, rec["revenue"])
		}
		entries = append(entries, model.RevenueEntry{
			Timestamp: parseTimestamp(rec["timestamp"], t.opts.Location),
			Client:    rec["client"],
			Revenue:   amount,
			Note:      rec["note"],
		})
	}

	t.opts.Logger.Debug("read revenue entries", "count", len(entries))
	return entries, nil
}

// thousandsAmount matches numbers whose commas group thousands, e.g. "1,250.50".
var thousandsAmount = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

// normalizeAmount strips a currency sign and thousands separators. A comma
// anywhere else ("1,5") is ambiguous and reported as not ok.
func normalizeAmount(s string) (string, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if !strings.Contains(s, ",") {
		return s, true
	}
	if !thousandsAmount.MatchString(s) {
		return "", false
	}
	return strings.ReplaceAll(s, ",", ""), true
}

// parseAmount accepts plain and currency-formatted numbers ("1,250.00", "$30").
func parseAmount(s string) (decimal.Decimal, error) {
	s, ok := normalizeAmount(s)
	if !ok {
		return decimal.Zero, errors.New("ambiguous separators in amount")
	}
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
