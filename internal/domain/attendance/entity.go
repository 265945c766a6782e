package attendance

import (
	"time"
)

// ScanRecord is one person's tabulated fingerprint scan for one day. Clock
// values carry only a time of day; nil means the scanner recorded nothing.
type ScanRecord struct {
	ID         string
	PersonName string
	Date       time.Time
	ClockIn    *time.Time
	ClockOut   *time.Time
	Note       string
	CreatedAt  time.Time
}

// RowIssue describes a workbook row that could not be imported.
type RowIssue struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}
