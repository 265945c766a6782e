package validator

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// Prefixed returns a copy with every field name nested under prefix,
// e.g. "leaves[2]" + "start_date" -> "leaves[2].start_date".
func (v ValidationErrors) Prefixed(prefix string) ValidationErrors {
	out := make(ValidationErrors, len(v))
	for i, err := range v {
		out[i] = ValidationError{Field: prefix + "." + err.Field, Message: err.Message}
	}
	return out
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Any RFC 4122 UUID, lowercase or uppercase hex.
var uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[1-8][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func IsValidUUID(uuid string) bool {
	return uuidRegex.MatchString(strings.ToLower(uuid))
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Date validation. Buddhist Era years (> 2500) are accepted and returned
// shifted to Gregorian, so 2567-02-29 is valid and 2568-02-29 is not.
func IsValidDate(dateStr string) (time.Time, bool) {
	if len(dateStr) == 10 {
		if year, err := strconv.Atoi(dateStr[:4]); err == nil && year > 2500 {
			dateStr = strconv.Itoa(year-543) + dateStr[4:]
		}
	}
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

var clockRegex = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

// IsValidClock accepts HH:MM or HH:MM:SS.
func IsValidClock(s string) bool {
	return clockRegex.MatchString(s)
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// HasExtension reports whether filename ends with one of exts (".pdf", ...),
// case-insensitively.
func HasExtension(filename string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext != "" && IsInSlice(ext, exts)
}

// Itoa converts an integer to a string.
func Itoa(i int) string {
	return strconv.Itoa(i)
}

// IsValidDateTime checks if a string is a valid ISO8601 timestamp.
// Accepts formats like: "2024-01-15T10:30:00Z" or "2024-01-15T10:30:00+07:00"
func IsValidDateTime(dateTimeStr string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, dateTimeStr)
	if err == nil {
		return t, true
	}

	t, err = time.Parse(time.RFC3339Nano, dateTimeStr)
	if err == nil {
		return t, true
	}

	return time.Time{}, false
}
