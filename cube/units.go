/*
Copyright © 2024 the cube-helper authors.
This file is part of cube-helper.

cube-helper is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

cube-helper is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with cube-helper.  If not, see <http://www.gnu.org/licenses/>.
*/

package cube

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Recognized CF calendar names, after normalization by ParseUnit.
const (
	CalendarStandard           = "standard"
	CalendarProlepticGregorian = "proleptic_gregorian"
	CalendarJulian             = "julian"
	CalendarNoLeap             = "noleap"
	CalendarAllLeap            = "all_leap"
	Calendar360Day             = "360_day"
)

// Unit is a parsed units attribute. Time-reference units follow the CF
// convention "<interval> since <epoch>", e.g.
// "hours since 1970-01-01 00:00:00"; any other units string parses to a
// Unit that is not a time reference.
type Unit struct {
	// Origin is the units string exactly as it appeared in the file.
	Origin string

	// Calendar is the normalized calendar name. It is CalendarStandard
	// when the file supplies none.
	Calendar string

	isTime bool
	step   time.Duration
	epoch  Date
}

// Date is a calendar-aware point in time. Unlike time.Time it can
// represent dates in model calendars (360_day, noleap, all_leap) that
// have no real-world equivalent.
type Date struct {
	Year, Month, Day                  int
	Hour, Minute, Second, Microsecond int

	// Calendar is the calendar the date belongs to.
	Calendar string
}

// Time converts d to a time.Time in UTC. The second return value is
// false when d's calendar is not convertible to a real datetime
// (julian, 360_day, noleap, all_leap); callers needing an ordering key
// for such dates should fall back to the year/month/day fields alone.
func (d Date) Time() (time.Time, bool) {
	if !calendarIsReal(d.Calendar) {
		return time.Time{}, false
	}
	return time.Date(d.Year, time.Month(d.Month), d.Day,
		d.Hour, d.Minute, d.Second, d.Microsecond*1000, time.UTC), true
}

// calendarIsReal reports whether time.Time arithmetic is valid for the
// calendar. The julian calendar is excluded: its dates drift from the
// proleptic Gregorian dates time.Time computes, by 13 days in the
// twentieth century.
func calendarIsReal(calendar string) bool {
	switch calendar {
	case CalendarStandard, CalendarProlepticGregorian, "":
		return true
	}
	return false
}

// normalizeCalendar maps the CF calendar aliases onto one name each.
func normalizeCalendar(calendar string) string {
	switch strings.ToLower(strings.TrimSpace(calendar)) {
	case "", "standard", "gregorian":
		return CalendarStandard
	case "proleptic_gregorian":
		return CalendarProlepticGregorian
	case "julian":
		return CalendarJulian
	case "noleap", "365_day":
		return CalendarNoLeap
	case "all_leap", "366_day":
		return CalendarAllLeap
	case "360_day":
		return Calendar360Day
	default:
		return CalendarStandard
	}
}

// ParseUnit parses a units attribute together with its calendar
// attribute. It never fails: a string that is not a valid time
// reference yields a Unit with IsTimeReference() == false.
func ParseUnit(units, calendar string) *Unit {
	u := &Unit{Origin: units, Calendar: normalizeCalendar(calendar)}
	i := strings.Index(units, " since ")
	if i < 0 {
		return u
	}
	step, ok := parseInterval(strings.TrimSpace(units[:i]))
	if !ok {
		return u
	}
	epoch, ok := parseEpoch(strings.TrimSpace(units[i+len(" since "):]))
	if !ok {
		return u
	}
	epoch.Calendar = u.Calendar
	u.isTime = true
	u.step = step
	u.epoch = epoch
	return u
}

// IsTimeReference reports whether the unit encodes a time axis.
func (u *Unit) IsTimeReference() bool { return u.isTime }

// Epoch returns the zero point of a time-reference unit, equivalent to
// Num2Date(0).
func (u *Unit) Epoch() Date { return u.epoch }

// Num2Date converts a numeric time-axis value into a date in the
// unit's calendar. It panics if the unit is not a time reference.
func (u *Unit) Num2Date(v float64) Date {
	if !u.isTime {
		panic("cube: Num2Date called on a non-time unit " + strconv.Quote(u.Origin))
	}
	if calendarIsReal(u.Calendar) {
		// Whole days advance through AddDate so that offsets far
		// from the epoch do not overflow time.Duration, which caps
		// out near 292 years.
		secs := v * u.step.Seconds()
		days := math.Floor(secs / 86400)
		rem := secs - days*86400
		t, _ := u.epoch.Time()
		t = t.AddDate(0, 0, int(days)).Add(time.Duration(rem * float64(time.Second)))
		return Date{
			Year: t.Year(), Month: int(t.Month()), Day: t.Day(),
			Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(),
			Microsecond: t.Nanosecond() / 1000,
			Calendar:    u.Calendar,
		}
	}
	return u.epoch.addMicroseconds(int64(math.Round(v * float64(u.step) / float64(time.Microsecond))))
}

func parseInterval(s string) (time.Duration, bool) {
	switch strings.ToLower(s) {
	case "seconds", "second", "secs", "sec", "s":
		return time.Second, true
	case "minutes", "minute", "mins", "min":
		return time.Minute, true
	case "hours", "hour", "hrs", "hr", "h":
		return time.Hour, true
	case "days", "day", "d":
		return 24 * time.Hour, true
	}
	return 0, false
}

// parseEpoch parses the date portion of a time-reference units string,
// e.g. "1970-01-01", "1850-1-1 0:0:0" or "2000-01-01T12:00:00.5".
// A trailing "Z" or " UTC" is accepted and ignored; other time zone
// designations are not supported.
func parseEpoch(s string) (Date, bool) {
	s = strings.TrimSuffix(strings.TrimSuffix(s, " UTC"), "Z")
	var datePart, clockPart string
	if i := strings.IndexAny(s, " T"); i >= 0 {
		datePart, clockPart = s[:i], s[i+1:]
	} else {
		datePart = s
	}

	var d Date
	ymd := strings.Split(datePart, "-")
	if len(ymd) != 3 {
		return Date{}, false
	}
	var err error
	if d.Year, err = strconv.Atoi(ymd[0]); err != nil {
		return Date{}, false
	}
	if d.Month, err = strconv.Atoi(ymd[1]); err != nil || d.Month < 1 || d.Month > 12 {
		return Date{}, false
	}
	if d.Day, err = strconv.Atoi(ymd[2]); err != nil || d.Day < 1 || d.Day > 31 {
		return Date{}, false
	}

	if clockPart == "" {
		return d, true
	}
	hms := strings.Split(clockPart, ":")
	if len(hms) > 3 {
		return Date{}, false
	}
	if d.Hour, err = strconv.Atoi(hms[0]); err != nil {
		return Date{}, false
	}
	if len(hms) > 1 {
		if d.Minute, err = strconv.Atoi(hms[1]); err != nil {
			return Date{}, false
		}
	}
	if len(hms) > 2 {
		sec, err := strconv.ParseFloat(hms[2], 64)
		if err != nil {
			return Date{}, false
		}
		d.Second = int(sec)
		d.Microsecond = int(math.Round((sec - float64(d.Second)) * 1e6))
	}
	return d, true
}

// calendarMonths returns the month lengths of year in a calendar
// without a real-datetime equivalent. The year matters only for
// julian, where every fourth year has a leap day.
func calendarMonths(calendar string, year int) [12]int {
	switch calendar {
	case Calendar360Day:
		return [12]int{30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30}
	case CalendarAllLeap:
		return [12]int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	case CalendarJulian:
		if year%4 == 0 {
			return [12]int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
		}
		return [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	default: // noleap
		return [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	}
}

func calendarYearDays(calendar string, year int) int64 {
	switch calendar {
	case Calendar360Day:
		return 360
	case CalendarAllLeap:
		return 366
	case CalendarJulian:
		if year%4 == 0 {
			return 366
		}
		return 365
	default: // noleap
		return 365
	}
}

// addMicroseconds advances a date in a non-real calendar by the given
// number of microseconds, which may be negative.
func (d Date) addMicroseconds(us int64) Date {
	const dayUS = 24 * 60 * 60 * 1e6
	tod := int64(d.Hour)*3600e6 + int64(d.Minute)*60e6 +
		int64(d.Second)*1e6 + int64(d.Microsecond) + us
	days := tod / dayUS
	tod %= dayUS
	if tod < 0 {
		tod += dayUS
		days--
	}

	// Day of year, zero-based.
	year := d.Year
	months := calendarMonths(d.Calendar, year)
	doy := int64(d.Day - 1)
	for m := 0; m < d.Month-1; m++ {
		doy += int64(months[m])
	}
	doy += days
	for doy >= calendarYearDays(d.Calendar, year) {
		doy -= calendarYearDays(d.Calendar, year)
		year++
	}
	for doy < 0 {
		year--
		doy += calendarYearDays(d.Calendar, year)
	}

	months = calendarMonths(d.Calendar, year)
	month := 0
	for doy >= int64(months[month]) {
		doy -= int64(months[month])
		month++
	}

	out := Date{
		Year:     year,
		Month:    month + 1,
		Day:      int(doy) + 1,
		Calendar: d.Calendar,
	}
	out.Hour = int(tod / 3600e6)
	tod %= 3600e6
	out.Minute = int(tod / 60e6)
	tod %= 60e6
	out.Second = int(tod / 1e6)
	out.Microsecond = int(tod % 1e6)
	return out
}
