package utils

import "time"

// BusinessDateCutoffHour is the local hour before which the operational
// day still belongs to yesterday. Audits run overnight and must close the
// day that is ending, not the calendar day already begun.
const BusinessDateCutoffHour = 6

// BusinessDateFor returns the business date (midnight-truncated, local
// zone of now) for the given wall-clock time.
func BusinessDateFor(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if now.Hour() < BusinessDateCutoffHour {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

// SameBusinessDay reports whether two timestamps truncate to the same date.
func SameBusinessDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
