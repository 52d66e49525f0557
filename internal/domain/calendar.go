package domain

import (
	"math"
	"time"
)

// ISODayOfWeek renvoie le jour ISO-8601 : 1 = lundi … 7 = dimanche.
func ISODayOfWeek(t time.Time) int {
	d := int(t.Weekday())
	if d == 0 {
		return 7
	}
	return d
}

// ISOWeekNumber renvoie le numéro de semaine ISO-8601 (1..53) de la date calendaire de t.
//
// Seule la date (année/mois/jour) de t compte : elle est ramenée à minuit UTC avant le calcul,
// l'offset de la location de t n'intervient donc pas. La semaine est celle qui contient le jeudi
// de la même semaine ISO.
func ISOWeekNumber(t time.Time) int {
	date := CalendarDate(t)
	thursday := date.AddDate(0, 0, 4-ISODayOfWeek(date))
	yearStart := time.Date(thursday.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	days := thursday.Sub(yearStart).Hours() / 24
	return int(math.Ceil((days + 1) / 7))
}

// CalendarDate renvoie la date calendaire de t à minuit UTC.
func CalendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SlotAt calcule le slot (semaine ISO, année calendaire, jour ISO) de t.
// L'année est l'année calendaire et non l'année ISO de la semaine : fin décembre et début
// janvier peuvent donc donner une semaine qui n'appartient pas à Year. Les données existantes
// sont indexées ainsi.
func SlotAt(t time.Time) ContentSlot {
	return ContentSlot{
		WeekNumber: ISOWeekNumber(t),
		Year:       t.Year(),
		DayOfWeek:  ISODayOfWeek(t),
	}
}
