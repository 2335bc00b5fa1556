package service

import (
	"fmt"
	"time"
)

// Spanish month names. Go's time package has no locale support, and the
// frontend expects the es-ES rendering the previous backend produced.
var (
	shortMonths = [12]string{
		"ene", "feb", "mar", "abr", "may", "jun",
		"jul", "ago", "sep", "oct", "nov", "dic",
	}
	longMonths = [12]string{
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
	}
)

// formatDateShort renders "5 mar 2026", the style of dashboard movements.
func formatDateShort(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), shortMonths[t.Month()-1], t.Year())
}

// formatDateLong renders "5 marzo 2026", the style of the fines listing.
func formatDateLong(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), longMonths[t.Month()-1], t.Year())
}
