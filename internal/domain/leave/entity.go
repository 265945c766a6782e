package leave

import (
	"strings"
	"time"
)

// Category is the kind of leave taken.
type Category string

const (
	CategorySick             Category = "sick"
	CategoryPersonal         Category = "personal"
	CategoryVacation         Category = "vacation"
	CategoryMaternity        Category = "maternity"
	CategoryOrdination       Category = "ordination"
	CategorySpousalMaternity Category = "spousal-maternity"
	CategoryOther            Category = "other"
)

// Categories in display order.
var Categories = []Category{
	CategorySick,
	CategoryPersonal,
	CategoryVacation,
	CategoryMaternity,
	CategoryOrdination,
	CategorySpousalMaternity,
	CategoryOther,
}

var thaiLabels = map[Category]string{
	CategorySick:             "ลาป่วย",
	CategoryPersonal:         "ลากิจ",
	CategoryVacation:         "ลาพักผ่อน",
	CategoryMaternity:        "ลาคลอดบุตร",
	CategoryOrdination:       "ลาอุปสมบท",
	CategorySpousalMaternity: "ลาไปช่วยเหลือภริยาที่คลอดบุตร",
	CategoryOther:            "อื่นๆ",
}

// ThaiLabel is the label used on the submission form and in workbook cells.
func (c Category) ThaiLabel() string {
	if l, ok := thaiLabels[c]; ok {
		return l
	}
	return thaiLabels[CategoryOther]
}

func (c Category) Valid() bool {
	_, ok := thaiLabels[c]
	return ok
}

// LookupCategory resolves an English code or a Thai label.
func LookupCategory(raw string) (Category, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}
	if c := Category(s); c.Valid() {
		return c, true
	}
	for c, label := range thaiLabels {
		if s == label {
			return c, true
		}
	}
	switch s {
	case "ลากิจส่วนตัว":
		return CategoryPersonal, true
	case "ลาคลอด":
		return CategoryMaternity, true
	case "ลาบวช":
		return CategoryOrdination, true
	case "spousal_maternity", "paternity":
		return CategorySpousalMaternity, true
	}
	return "", false
}

// ParseCategory is LookupCategory falling back to CategoryOther.
func ParseCategory(raw string) Category {
	if c, ok := LookupCategory(raw); ok {
		return c
	}
	return CategoryOther
}

// LeaveRecord is one approved leave interval. Dates are inclusive.
type LeaveRecord struct {
	ID            string
	PersonName    string
	WorkGroup     string
	Category      Category
	StartDate     time.Time
	EndDate       time.Time
	TotalDays     int
	Reason        string
	AttachmentURL *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
