package reconcile

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	// Years above this are Buddhist Era.
	buddhistEraThreshold = 2500
	buddhistEraOffset    = 543

	// Two-digit years at or above this pivot are read as Buddhist Era (25yy),
	// below it as Gregorian (20yy). 2543 BE is 2000 CE.
	shortYearPivot = 43

	// Largest Excel serial that still maps to a date (9999-12-31).
	maxExcelSerial = 2958465
)

var (
	isoDatePattern   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})(?:[ T].*)?$`)
	dmyDatePattern   = regexp.MustCompile(`^(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{4})(?:\s.*)?$`)
	dmyShortPattern  = regexp.MustCompile(`^(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{2})(?:\s.*)?$`)
	serialPattern    = regexp.MustCompile(`^\d{5}(?:\.\d+)?$`)
	clockPattern     = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})(?::(\d{2}))?(?:\.\d+)?$`)
	embeddedClock    = regexp.MustCompile(`[ T](\d{1,2}):(\d{2})(?::(\d{2}))?`)
	dayFractionRegex = regexp.MustCompile(`^0?\.\d+$|^0$`)

	foldCase = cases.Fold()
)

// NormalizeDate converts a date-like cell value into a calendar date at
// 00:00 UTC. Buddhist Era years are shifted to Gregorian. The boolean is false
// for empty or unparseable input.
func NormalizeDate(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return dateFromTime(v)
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return dateFromTime(*v)
	case float64:
		return dateFromSerial(v)
	case int:
		return dateFromSerial(float64(v))
	case int64:
		return dateFromSerial(float64(v))
	case string:
		return dateFromString(v)
	case *string:
		if v == nil {
			return time.Time{}, false
		}
		return dateFromString(*v)
	default:
		return time.Time{}, false
	}
}

func dateFromTime(t time.Time) (time.Time, bool) {
	if t.IsZero() {
		return time.Time{}, false
	}
	year := t.Year()
	if year > buddhistEraThreshold {
		year -= buddhistEraOffset
	}
	return civilDate(year, int(t.Month()), t.Day())
}

func dateFromSerial(f float64) (time.Time, bool) {
	if math.IsNaN(f) || f < 1 || f > maxExcelSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, false
	}
	return dateFromTime(t)
}

func dateFromString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return time.Time{}, false
	}

	if m := isoDatePattern.FindStringSubmatch(s); m != nil {
		return civilFromParts(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := dmyDatePattern.FindStringSubmatch(s); m != nil {
		return civilFromParts(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}
	if m := dmyShortPattern.FindStringSubmatch(s); m != nil {
		yy := atoi(m[3])
		year := 2000 + yy
		if yy >= shortYearPivot {
			year = 2500 + yy
		}
		return civilFromParts(year, atoi(m[2]), atoi(m[1]))
	}
	if serialPattern.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, false
		}
		return dateFromSerial(f)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return dateFromTime(t)
	}
	return time.Time{}, false
}

// civilFromParts applies the era correction before validating the day, so a
// BE leap day such as 2567-02-29 is accepted.
func civilFromParts(year, month, day int) (time.Time, bool) {
	if year > buddhistEraThreshold {
		year -= buddhistEraOffset
	}
	return civilDate(year, month, day)
}

func civilDate(year, month, day int) (time.Time, bool) {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// NormalizeName returns the comparison key for a person name. The display
// form is kept by the caller.
func NormalizeName(raw string) string {
	s := norm.NFC.String(raw)
	s = strings.Join(strings.Fields(s), " ")
	return foldCase.String(s)
}

// NormalizeTime extracts a time-of-day from a clock cell. The result carries
// only hour, minute and second on 0000-01-01 UTC; nil means no usable time.
func NormalizeTime(raw any) *time.Time {
	switch v := raw.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return clockOf(v.Hour(), v.Minute(), v.Second())
	case *time.Time:
		if v == nil || v.IsZero() {
			return nil
		}
		return clockOf(v.Hour(), v.Minute(), v.Second())
	case float64:
		return clockFromFloat(v)
	case time.Duration:
		if v < 0 || v >= 24*time.Hour {
			return nil
		}
		secs := int(v / time.Second)
		return clockOf(secs/3600, secs%3600/60, secs%60)
	case string:
		return clockFromString(v)
	case *string:
		if v == nil {
			return nil
		}
		return clockFromString(*v)
	default:
		return nil
	}
}

func clockFromFloat(f float64) *time.Time {
	if math.IsNaN(f) || f < 0 || f > maxExcelSerial {
		return nil
	}
	_, frac := math.Modf(f)
	secs := int(math.Round(frac * 86400))
	if secs >= 86400 {
		secs = 86399
	}
	return clockOf(secs/3600, secs%3600/60, secs%60)
}

func clockFromString(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}
	// Raw Excel time cells are day fractions such as "0.45"; they must not
	// be read as H.MM.
	if dayFractionRegex.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return clockFromFloat(f)
		}
	}
	if m := clockPattern.FindStringSubmatch(s); m != nil {
		if c := clockOf(atoi(m[1]), atoi(m[2]), atoi(m[3])); c != nil {
			return c
		}
	}
	if m := embeddedClock.FindStringSubmatch(s); m != nil {
		return clockOf(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if serialPattern.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return clockFromFloat(f)
		}
	}
	return nil
}

func clockOf(h, m, s int) *time.Time {
	if h < 0 || h > 23 || m < 0 || m > 59 || s < 0 || s > 59 {
		return nil
	}
	t := time.Date(0, 1, 1, h, m, s, 0, time.UTC)
	return &t
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

// FormatClock renders a clock value for display, "-" when missing.
func FormatClock(t *time.Time) string {
	if t == nil {
		return "-"
	}
	if t.Second() != 0 {
		return t.Format("15:04:05")
	}
	return t.Format("15:04")
}
