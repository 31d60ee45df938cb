package api

import (
	"strconv"
	"strings"
	"time"
)

// Month identifiers as used by the roster spreadsheets: Spanish names,
// matched case-insensitively. Numeric 1-12 is accepted too.
var monthNames = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

func monthName(m time.Month) string {
	return monthNames[int(m)-1]
}

func parseMonth(raw string) (time.Month, bool) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		if n >= 1 && n <= 12 {
			return time.Month(n), true
		}
		return 0, false
	}
	for i, name := range monthNames {
		if strings.EqualFold(raw, name) {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}
