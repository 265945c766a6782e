package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/odpc9/attendance-backend-go/internal/domain/report"
	"github.com/odpc9/attendance-backend-go/internal/domain/travel"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	dailySheet   = "Daily"
	issuesSheet  = "Issues"
)

// Fill colors of the status cells.
var statusColors = map[report.Status]string{
	report.StatusNormal:        "#C6EFCE",
	report.StatusLate:          "#FFEB9C",
	report.StatusLeftEarly:     "#FFEB9C",
	report.StatusLateLeftEarly: "#F8CBAD",
	report.StatusAbsent:        "#FFC7CE",
	report.StatusOvertime:      "#BDD7EE",
	report.StatusTravel:        "#D9E1F2",
	report.StatusDayOff:        "#EDEDED",
	report.StatusLeave:         "#E2EFDA",
}

// ExportMonthlyAttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) ExportMonthlyAttendanceReport(ctx context.Context, req report.MonthlyAttendanceReportRequest) (*bytes.Buffer, string, error) {
	res, summary, collapse, err := s.reconcileMonth(ctx, &req)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newExportStyles(f)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	// Summary: one row per person, one column per category.
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, "", fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	header := []interface{}{"ชื่อ-สกุล"}
	for _, c := range summary.Categories {
		header = append(header, string(c))
	}
	header = append(header, "Total")
	f.SetSheetRow(summarySheet, "A1", &header)
	f.SetCellStyle(summarySheet, "A1", cell(colName(len(header)-1), 1), styles.header)
	for i, row := range summary.Rows {
		values := []interface{}{row.PersonName}
		for _, c := range summary.Categories {
			values = append(values, row.Counts[c])
		}
		values = append(values, row.Total)
		f.SetSheetRow(summarySheet, cell("A", i+2), &values)
	}
	f.SetColWidth(summarySheet, "A", "A", 28)
	f.SetColWidth(summarySheet, "B", colName(len(header)-1), 14)

	// Daily: one row per person per day, status cells colored.
	f.NewSheet(dailySheet)
	dailyHeader := []interface{}{"ชื่อ-สกุล", "วันที่", "วัน", "เวลาเข้า", "เวลาออก", "สถานะ", "หมายเหตุ", "ผู้ร่วมเดินทาง"}
	f.SetSheetRow(dailySheet, "A1", &dailyHeader)
	f.SetCellStyle(dailySheet, "A1", "H1", styles.header)
	line := 2
	for _, p := range res.People {
		for _, d := range p.Days {
			entry := dailyLog(d, collapse)
			values := []interface{}{
				p.PersonName, entry.Date, entry.DayOfWeek, entry.ClockIn, entry.ClockOut, entry.Status,
				dash(entry.Note), dash(travel.JoinNames(entry.Companions)),
			}
			f.SetSheetRow(dailySheet, cell("A", line), &values)
			if style, ok := styles.status[statusKey(d.Status)]; ok {
				f.SetCellStyle(dailySheet, cell("F", line), cell("F", line), style)
			}
			line++
		}
	}
	f.SetColWidth(dailySheet, "A", "A", 28)
	f.SetColWidth(dailySheet, "B", "E", 12)
	f.SetColWidth(dailySheet, "F", "F", 22)
	f.SetColWidth(dailySheet, "G", "H", 36)

	if len(res.Issues) > 0 {
		f.NewSheet(issuesSheet)
		issueHeader := []interface{}{"kind", "table", "record_id", "ชื่อ-สกุล", "วันที่", "message"}
		f.SetSheetRow(issuesSheet, "A1", &issueHeader)
		f.SetCellStyle(issuesSheet, "A1", "F1", styles.header)
		for i, is := range res.Issues {
			values := []interface{}{string(is.Kind), is.Table, dash(is.RecordID), dash(is.PersonName), dash(is.Date), is.Message}
			f.SetSheetRow(issuesSheet, cell("A", i+2), &values)
		}
		f.SetColWidth(issuesSheet, "A", "E", 18)
		f.SetColWidth(issuesSheet, "F", "F", 60)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		slog.Error("Failed to write attendance workbook", "error", err)
		return nil, "", report.ErrReportGenerationFailed
	}

	filename := fmt.Sprintf("attendance_%04d-%02d.xlsx", req.Year, req.Month)
	return buf, filename, nil
}

type exportStyles struct {
	header int
	status map[report.Status]int
}

func newExportStyles(f *excelize.File) (exportStyles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return exportStyles{}, err
	}

	styles := exportStyles{header: header, status: make(map[report.Status]int, len(statusColors))}
	for status, color := range statusColors {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return exportStyles{}, err
		}
		styles.status[status] = id
	}
	return styles, nil
}

// statusKey maps every leave label onto the shared leave color.
func statusKey(s report.Status) report.Status {
	if s.IsLeave() {
		return report.StatusLeave
	}
	return s
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
