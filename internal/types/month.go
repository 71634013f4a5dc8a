// Package types implements calendar types shared by the sync and detection code.
package types

import (
	"fmt"
	"time"
)

// Month is a month in a specific year.
type Month time.Time

// NewMonth returns a new Month.
func NewMonth(year int, month time.Month) Month {
	return Month(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// MonthOf returns the Month in which a time occurs in that time's location.
func MonthOf(t time.Time) Month {
	year, month, _ := t.Date()
	return NewMonth(year, month)
}

// String returns the time formatted as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", time.Time(m).Year(), time.Time(m).Month())
}

// Year returns the year of the month.
func (m Month) Year() int {
	return time.Time(m).Year()
}

// Month returns the calendar month.
func (m Month) Month() time.Month {
	return time.Time(m).Month()
}

// AddDate adds a specified amount of years and months.
func (m Month) AddDate(years, months int) Month {
	return Month(time.Time(m).AddDate(years, months, 0))
}

// After reports whether the month instant m is after n.
func (m Month) After(n Month) bool {
	return time.Time(m).After(time.Time(n))
}

// MonthsBetween returns every month from the month of start through the month
// of end, both inclusive. It returns nil when start is after end.
func MonthsBetween(start, end time.Time) []Month {
	first := MonthOf(start)
	last := MonthOf(end)

	var months []Month
	for m := first; !m.After(last); m = m.AddDate(0, 1) {
		months = append(months, m)
	}

	return months
}
