package extract

import (
	"strconv"
	"strings"
	"time"
)

// row is one parsed CSV record, keyed by canonical header name. Missing and
// present-but-empty cells read the same.
type row map[string]string

// timeLayouts are tried in order when parsing date cells. Source files mix
// ISO timestamps, bare dates, and the occasional day/month/year.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

func (r row) str(name string) string {
	return strings.TrimSpace(r[name])
}

// opt returns nil for missing or blank cells.
func (r row) opt(name string) *string {
	s := r.str(name)
	if s == "" {
		return nil
	}
	return &s
}

// strDefault substitutes def for missing or blank cells.
func (r row) strDefault(name, def string) string {
	if s := r.str(name); s != "" {
		return s
	}
	return def
}

// intVal parses an int cell; unparsable cells read as 0.
func (r row) intVal(name string) int {
	n, err := strconv.Atoi(r.str(name))
	if err != nil {
		return 0
	}
	return n
}

// intOpt parses an optional int cell; blank or unparsable reads as nil.
func (r row) intOpt(name string) *int {
	n, err := strconv.Atoi(r.str(name))
	if err != nil {
		return nil
	}
	return &n
}

// floatOpt parses an optional decimal cell, accepting a comma decimal
// separator.
func (r row) floatOpt(name string) *float64 {
	s := strings.ReplaceAll(r.str(name), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// boolVal parses a bool cell, tolerating the Spanish spellings; def covers
// missing and unparsable cells.
func (r row) boolVal(name string, def bool) bool {
	switch strings.ToLower(r.str(name)) {
	case "true", "1", "si", "sí", "yes", "activa", "activo":
		return true
	case "false", "0", "no", "inactiva", "inactivo":
		return false
	default:
		return def
	}
}

// timeVal parses a date cell, falling back to def when blank or unparsable.
func (r row) timeVal(name string, def time.Time) time.Time {
	s := r.str(name)
	if s == "" {
		return def
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return def
}

// timeOpt parses an optional date cell; blank or unparsable reads as nil.
func (r row) timeOpt(name string) *time.Time {
	s := r.str(name)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
