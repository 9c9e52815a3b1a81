// Package uiutil formats values the way the dashboard shows them (pt-BR).
package uiutil

import (
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout     = "02/01/2006"
	DateTimeLayout = "02/01/2006 15:04"
	TimeLayout     = "15:04"
)

var (
	weekdays = [...]string{"Domingo", "Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado"}
	months   = [...]string{
		"janeiro", "fevereiro", "março", "abril", "maio", "junho",
		"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
	}
)

// FormatDate renders t as dd/mm/yyyy in loc. Zero times render empty.
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return in(t, loc).Format(DateLayout)
}

// FormatDateTime renders t as dd/mm/yyyy hh:mm in loc.
func FormatDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return in(t, loc).Format(DateTimeLayout)
}

// FormatTime renders the wall clock time of t in loc.
func FormatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return in(t, loc).Format(TimeLayout)
}

// Weekday returns the Portuguese weekday name.
func Weekday(t time.Time) string { return weekdays[t.Weekday()] }

// LongDate renders "15 de abril de 2026".
func LongDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	t = in(t, loc)
	return strconv.Itoa(t.Day()) + " de " + months[t.Month()-1] + " de " + strconv.Itoa(t.Year())
}

// FriendlyRelativeTime describes how long ago t occurred relative to now.
// Times in the future read as "agora".
func FriendlyRelativeTime(t, now time.Time, loc *time.Location) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "agora"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minuto", "minutos")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hora", "horas")
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "dia", "dias")
	default:
		return FormatDate(t, loc)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "há 1 " + one
	}
	return "há " + strconv.Itoa(n) + " " + many
}

// TruncateWithEllipsis shortens text to the provided rune limit and appends an ellipsis when truncated.
func TruncateWithEllipsis(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}

// Initials returns up to two uppercase initials of name, used for avatars.
func Initials(name string) string {
	var out []rune
	for _, part := range strings.Fields(name) {
		r := []rune(part)
		out = append(out, []rune(strings.ToUpper(string(r[0])))...)
		if len(out) >= 2 {
			break
		}
	}
	return string(out)
}

func in(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}
