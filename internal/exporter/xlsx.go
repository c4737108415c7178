package exporter

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/google/renameio/v2"
	"github.com/xuri/excelize/v2"
)

const sheetName = "indices"

// WriteXLSX writes the table to a spreadsheet with the same columns as the JSON export.
func WriteXLSX(path string, t Table) error {
	pf, err := stageXLSX(path, t)
	if err != nil {
		return err
	}
	defer pf.Cleanup()
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// stageXLSX renders the workbook into a pending file next to path. The caller
// publishes it with CloseAtomicallyReplace or drops it with Cleanup.
func stageXLSX(path string, t Table) (*renameio.PendingFile, error) {
	f, err := buildWorkbook(t)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := mkdirFor(path); err != nil {
		return nil, err
	}
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644), renameio.WithTempDir(filepath.Dir(path)))
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", path, err)
	}
	if err := f.Write(pf); err != nil {
		pf.Cleanup()
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return pf, nil
}

func buildWorkbook(t Table) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("xlsx header: %w", err)
	}

	for i, r := range t.Rows {
		cells := make([]interface{}, len(t.Columns))
		for j, c := range t.Columns {
			switch c {
			case ColYear:
				cells[j] = r.Month.Year
			case ColMonth:
				cells[j] = int(r.Month.Month)
			case ColLabel:
				cells[j] = r.Month.Label()
			default:
				cells[j] = r.Values[c]
			}
		}
		if err := f.SetSheetRow(sheetName, "A"+strconv.Itoa(i+2), &cells); err != nil {
			f.Close()
			return nil, fmt.Errorf("xlsx row %d: %w", i+2, err)
		}
	}
	return f, nil
}
