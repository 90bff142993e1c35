package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RevenueHeader is the exact header row of the revenue worksheet.
var RevenueHeader = []string{"timestamp", "client", "revenue", "note"}

// RevenueEntry is a single logged payment from a client.
type RevenueEntry struct {
	Timestamp time.Time
	Revenue   decimal.Decimal
	Client    string
	Note      string
}

// Row renders the entry in header column order.
func (e RevenueEntry) Row() []string {
	return []string{
		e.Timestamp.Format(TimestampLayout),
		e.Client,
		e.Revenue.StringFixed(2),
		e.Note,
	}
}
