package utils

import (
	"fmt"
	"strings"
	"time"
)

// Locale holds the labels used when bucketing summaries.
type Locale struct {
	Weekdays [7]string `yaml:"weekdays"` // indexed by time.Weekday, Sunday first
	Week     string    `yaml:"week"`
}

var locales = map[string]Locale{
	"en": {
		Weekdays: [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"},
		Week:     "week",
	},
	"id": {
		Weekdays: [7]string{"min", "sen", "sel", "rab", "kam", "jum", "sab"},
		Week:     "minggu",
	},
}

// RegisterLocale adds or replaces a locale, e.g. from the YAML config.
func RegisterLocale(name string, l Locale) {
	locales[strings.ToLower(name)] = l
}

// LookupLocale falls back to English for unknown names.
func LookupLocale(name string) Locale {
	if l, ok := locales[strings.ToLower(name)]; ok {
		return l
	}
	return locales["en"]
}

// DayLabel renders "<weekday> <dd>", e.g. "fri 03".
func (l Locale) DayLabel(t time.Time) string {
	return fmt.Sprintf("%s %02d", l.Weekdays[t.Weekday()], t.Day())
}

func (l Locale) WeekLabel(n int) string {
	return fmt.Sprintf("%s %d", l.Week, n)
}
