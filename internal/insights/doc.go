// Package insights computes the dashboard aggregates: today's mood breakdown,
// daily revenue totals and a least-squares revenue forecast.
package insights
