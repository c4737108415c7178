package exporter

import (
	"fmt"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// Export writes the JSON file and, when xlsxPath is set, the spreadsheet. Both
// files are fully staged before either replaces its target: if any of them cannot
// be written, nothing is published. Only a failed rename of the spreadsheet, after
// the JSON rename succeeded, can leave the two out of step. It returns the size of
// the JSON file.
func Export(t Table, jsonPath, xlsxPath string) (int, error) {
	data, err := EncodeJSON(t)
	if err != nil {
		return 0, fmt.Errorf("encode json: %w", err)
	}

	if err := mkdirFor(jsonPath); err != nil {
		return 0, err
	}
	jf, err := renameio.NewPendingFile(jsonPath, renameio.WithPermissions(0o644), renameio.WithTempDir(filepath.Dir(jsonPath)))
	if err != nil {
		return 0, fmt.Errorf("stage %s: %w", jsonPath, err)
	}
	defer jf.Cleanup()
	if _, err := jf.Write(data); err != nil {
		return 0, fmt.Errorf("write %s: %w", jsonPath, err)
	}

	var xf *renameio.PendingFile
	if xlsxPath != "" {
		if xf, err = stageXLSX(xlsxPath, t); err != nil {
			return 0, err
		}
		defer xf.Cleanup()
	}

	if err := jf.CloseAtomicallyReplace(); err != nil {
		return 0, fmt.Errorf("replace %s: %w", jsonPath, err)
	}
	if xf != nil {
		if err := xf.CloseAtomicallyReplace(); err != nil {
			return 0, fmt.Errorf("replace %s: %w", xlsxPath, err)
		}
	}
	return len(data), nil
}
