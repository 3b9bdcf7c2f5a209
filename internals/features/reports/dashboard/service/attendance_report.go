package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"churchku_backend/internals/helpers/dbtime"
)

// MonthlyAttendance is one weekly report per reporting week of the month.
type MonthlyAttendance struct {
	Year  int            `json:"year"`
	Month time.Month     `json:"month"`
	Weeks []WeeklyReport `json:"weeks"`
}

func (s *DashboardService) MonthlyAttendance(ctx context.Context, churchID uuid.UUID, year int, month time.Month) (*MonthlyAttendance, error) {
	out := &MonthlyAttendance{Year: year, Month: month}
	for w := 1; w <= dbtime.WeeksInMonth(year, month); w++ {
		r, ok := dbtime.WeekRange(year, month, w)
		rep, err := s.Weekly(ctx, churchID, r, ok)
		if err != nil {
			return nil, err
		}
		out.Weeks = append(out.Weeks, *rep)
	}
	return out, nil
}

// FileName is the download name of the rendered workbook.
func (m *MonthlyAttendance) FileName() string {
	return fmt.Sprintf("attendance-%04d-%02d.xlsx", m.Year, int(m.Month))
}

func cellText(s Summary) string {
	if !s.HasGathering {
		return "-"
	}
	return s.CountDisplay() + " (" + s.RateDisplay() + ")"
}

type reportLine struct {
	name, kind, leaders string
	weeks               map[int][2]Summary
	worship, attendance Summary
}

// RenderAttendanceXLSX writes the month as one sheet: a row per group, worship and
// gathering columns per week, then the month total. The last row sums every group.
func RenderAttendanceXLSX(m *MonthlyAttendance) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("%d-%02d 출석", m.Year, int(m.Month))
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	headers := []string{"소그룹", "유형", "리더"}
	for i, w := range m.Weeks {
		label := fmt.Sprintf("%d주", i+1)
		if w.WeekExists {
			label += fmt.Sprintf(" (%s~%s)", w.Window.Start.Format("01/02"), w.Window.End.Format("01/02"))
		}
		headers = append(headers, label+" 예배", label+" 모임")
	}
	headers = append(headers, "월 합계 예배", "월 합계 모임")

	// groups in order of first appearance across the weeks
	var order []uuid.UUID
	lines := map[uuid.UUID]*reportLine{}
	for wi, w := range m.Weeks {
		for _, g := range w.Groups {
			ln, ok := lines[g.GroupID]
			if !ok {
				leaders := ""
				if g.LeaderNames != nil {
					leaders = *g.LeaderNames
				}
				ln = &reportLine{name: g.GroupName, kind: string(g.GroupType), leaders: leaders, weeks: map[int][2]Summary{}}
				lines[g.GroupID] = ln
				order = append(order, g.GroupID)
			}
			ln.weeks[wi] = [2]Summary{g.WorshipSummary, g.AttendanceSummary}
			ln.worship = ln.worship.Add(g.WorshipSummary)
			ln.attendance = ln.attendance.Add(g.AttendanceSummary)
		}
	}

	rows := make([][]any, 0, len(order)+2)
	rows = append(rows, toAny(headers))
	weekTotals := make([][2]Summary, len(m.Weeks))
	var monthWorship, monthAttendance Summary
	for _, id := range order {
		ln := lines[id]
		row := []any{ln.name, ln.kind, ln.leaders}
		for wi := range m.Weeks {
			s := ln.weeks[wi]
			row = append(row, cellText(s[0]), cellText(s[1]))
			weekTotals[wi][0] = weekTotals[wi][0].Add(s[0])
			weekTotals[wi][1] = weekTotals[wi][1].Add(s[1])
		}
		row = append(row, cellText(ln.worship), cellText(ln.attendance))
		monthWorship, monthAttendance = monthWorship.Add(ln.worship), monthAttendance.Add(ln.attendance)
		rows = append(rows, row)
	}
	total := []any{"합계", "", ""}
	for _, t := range weekTotals {
		total = append(total, cellText(t[0]), cellText(t[1]))
	}
	total = append(total, cellText(monthWorship), cellText(monthAttendance))
	rows = append(rows, total)

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r+1, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "A", "C", 16); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "D", lastCol, 18); err != nil {
		return nil, err
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return nil, fmt.Errorf("freeze panes: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
