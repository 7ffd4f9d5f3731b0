package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	reportsSheet   = "Reports"
	aggregateSheet = "Aggregate"
)

func writeXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), reportsSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	for i, h := range csvHeader {
		if err := setCell(f, reportsSheet, i+1, 1, h); err != nil {
			return err
		}
	}
	for r, row := range doc.Periods {
		for c, v := range row.fields() {
			if err := setCell(f, reportsSheet, c+1, r+2, v); err != nil {
				return err
			}
		}
	}

	if _, err := f.NewSheet(aggregateSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	if err := setCell(f, aggregateSheet, 1, 1, "Date"); err != nil {
		return err
	}
	if err := setCell(f, aggregateSheet, 2, 1, doc.Date); err != nil {
		return err
	}
	if doc.Aggregate != nil {
		for i, kv := range summaryFields(*doc.Aggregate) {
			if err := setCell(f, aggregateSheet, 1, i+2, kv[0]); err != nil {
				return err
			}
			if err := setCell(f, aggregateSheet, 2, i+2, kv[1]); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
	}
	return nil
}
