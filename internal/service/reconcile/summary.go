package reconcile

import (
	"github.com/odpc9/attendance-backend-go/internal/domain/report"
)

// Summarize counts each person's days per status. Every category of
// report.Categories(collapseLeave) is present in every row, zero or not, and
// the counts of a row always add up to its Total.
func Summarize(people []report.PersonDays, collapseLeave bool) report.Summary {
	categories := report.Categories(collapseLeave)
	summary := report.Summary{Categories: categories, Rows: make([]report.SummaryRow, 0, len(people))}

	for _, p := range people {
		row := report.SummaryRow{
			PersonKey:  p.PersonKey,
			PersonName: p.PersonName,
			Counts:     make(map[report.Status]int, len(categories)),
		}
		for _, c := range categories {
			row.Counts[c] = 0
		}
		for _, d := range p.Days {
			row.Counts[bucket(d.Status, collapseLeave)]++
			row.Total++
		}
		summary.Rows = append(summary.Rows, row)
	}
	return summary
}

func bucket(s report.Status, collapseLeave bool) report.Status {
	if collapseLeave && s.IsLeave() {
		return report.StatusLeave
	}
	return s
}
