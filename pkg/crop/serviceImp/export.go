package serviceImp

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"greenhouse/pkg/care"
)

const calendarSheet = "Care calendar"

var calendarHeader = []any{"Crop", "Variety", "Stage", "Growth %", "Activity", "Schedule", "Last done", "Next due"}

func fmtDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(care.DateLayout)
}

// ExportCalendar writes one row per crop and activity.
func (s *cropSvc) ExportCalendar(ctx context.Context, uid string, w io.Writer) error {
	crops, err := s.r.ListByUser(ctx, uid)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), calendarSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(calendarSheet, "A1", &calendarHeader); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(calendarSheet, 1, 1, bold); err != nil {
		return err
	}

	row := 2
	for i := range crops {
		c := &crops[i]
		for _, a := range care.Activities() {
			e := c.Entry(a)
			cells := []any{c.Name, c.Variety, c.GrowthStage, c.GrowthPercentage, string(a), e.Schedule, fmtDate(e.Last), fmtDate(e.Next)}
			if err := f.SetSheetRow(calendarSheet, fmt.Sprintf("A%d", row), &cells); err != nil {
				return err
			}
			row++
		}
	}
	_ = f.SetColWidth(calendarSheet, "A", "B", 18)
	_ = f.SetColWidth(calendarSheet, "F", "H", 14)
	_, err = f.WriteTo(w)
	return err
}
