// Package model holds the entry types stored as worksheet rows.
package model
