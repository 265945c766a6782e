package workbook

import (
	"strings"
	"time"

	"github.com/odpc9/attendance-backend-go/internal/service/reconcile"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

func dateCell(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func timestampCell(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timestampLayout)
}

func clockCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04:05")
}

func stringCell(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// readDate leaves the zero time for cells the normalizer rejects so the
// reconciler can report them.
func readDate(r sheetRow, key string) time.Time {
	d, _ := reconcile.NormalizeDate(r.get(key))
	return d
}

func readTimestamp(r sheetRow, key string) time.Time {
	s := r.get(key)
	if t, err := time.ParseInLocation(timestampLayout, s, time.Local); err == nil {
		return t
	}
	d, _ := reconcile.NormalizeDate(s)
	return d
}

// filterDate parses an optional YYYY-MM-DD filter bound.
func filterDate(s *string) (time.Time, bool) {
	if s == nil || *s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, *s)
	return t, err == nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(reconcile.NormalizeName(s), reconcile.NormalizeName(substr))
}

// intersects reports whether [start, end] touches [from, to]. Records with a
// missing bound always match so range readers can flag them.
func intersects(start, end, from, to time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return true
	}
	return !start.After(to) && !end.Before(from)
}
