package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" สมชาย ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"123E4567-E89B-42D3-A456-426614174000",
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"row-12",
		"",
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2025-05-10", "2568-05-10", "2567-02-29"}
	invalid := []string{"10/05/2025", "2025-13-01", "2025-02-30", "2568-02-29", ""}
	for _, d := range valid {
		if _, ok := IsValidDate(d); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestIsValidClock(t *testing.T) {
	valid := []string{"08:30", "8:30", "16:30:15", "23:59"}
	invalid := []string{"24:00", "08:60", "0830", "", "8.30"}
	for _, c := range valid {
		if !IsValidClock(c) {
			t.Errorf("IsValidClock(%q) = false, want true", c)
		}
	}
	for _, c := range invalid {
		if IsValidClock(c) {
			t.Errorf("IsValidClock(%q) = true, want false", c)
		}
	}
}

func TestHasExtension(t *testing.T) {
	exts := []string{".pdf", ".jpg"}
	if !HasExtension("ใบรับรองแพทย์.PDF", exts) {
		t.Error("HasExtension should match case-insensitively")
	}
	if HasExtension("scan.xlsx", exts) {
		t.Error("HasExtension matched an extension outside the list")
	}
	if HasExtension("noext", exts) {
		t.Error("HasExtension matched a file without extension")
	}
}

func TestValidationErrorsPrefixed(t *testing.T) {
	errs := ValidationErrors{{Field: "start_date", Message: "start_date is required"}}
	got := errs.Prefixed("leaves[1]").ToMap()
	if got["leaves[1].start_date"] != "start_date is required" {
		t.Errorf("Prefixed() = %v", got)
	}
	if errs[0].Field != "start_date" {
		t.Error("Prefixed mutated the receiver")
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	if !IsInSlice("a", slice) {
		t.Errorf("IsInSlice(\"a\") = false, want true")
	}
	if IsInSlice("d", slice) {
		t.Errorf("IsInSlice(\"d\") = true, want false")
	}
}

func TestIsValidDate_BuddhistEra(t *testing.T) {
	be, _ := IsValidDate("2568-05-10")
	if got := be.Format("2006-01-02"); got != "2025-05-10" {
		t.Errorf("IsValidDate(2568-05-10) = %s, want 2025-05-10", got)
	}
	ce, _ := IsValidDate("2025-05-10")
	if !be.Equal(ce) {
		t.Error("Buddhist Era and Gregorian spellings differ")
	}
}
