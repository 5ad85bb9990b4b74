package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/thywilljoshua/slide2script/internal/script"
)

// SheetName is the worksheet WriteXLSX fills.
const SheetName = "Scripts"

var header = []string{"Index", "Title", "Script", "Seconds", "Generated", "Original"}

// WriteXLSX writes one row per record under a header row, followed by a
// total-duration row.
func WriteXLSX(path string, records []script.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for col, name := range header {
		if err := setCell(f, col+1, 1, name); err != nil {
			return err
		}
	}
	for i, r := range records {
		row := i + 2
		values := []any{r.Index, r.Title, r.Script, r.EstimatedSeconds, yesNo(r.GenerationSucceeded), r.OriginalBody}
		for col, v := range values {
			if err := setCell(f, col+1, row, v); err != nil {
				return err
			}
		}
	}
	totalRow := len(records) + 2
	if err := setCell(f, 2, totalRow, "Total"); err != nil {
		return err
	}
	if err := setCell(f, 4, totalRow, script.TotalSeconds(records)); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "C", "C", 80); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, cell, value); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
