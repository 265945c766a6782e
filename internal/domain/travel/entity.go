package travel

import (
	"strings"
	"time"
)

// TravelRecord is one traveler's row of an official trip. A group trip is
// stored as one row per traveler sharing GroupID.
type TravelRecord struct {
	ID            string
	GroupID       string
	PersonName    string
	WorkGroup     string
	Activity      string
	Location      string
	StartDate     time.Time
	EndDate       time.Time
	TotalDays     int
	Companions    string // other travelers, comma-joined
	AttachmentURL *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CompanionNames splits Companions into trimmed, non-empty names.
func (r TravelRecord) CompanionNames() []string {
	return SplitNames(r.Companions)
}

// SplitNames splits a comma-joined list of names.
func SplitNames(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// JoinNames is the inverse of SplitNames.
func JoinNames(names []string) string {
	return strings.Join(names, ", ")
}
