package exporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/renameio/v2"
)

// MarshalJSON writes the row as an object whose keys follow the table column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')

		switch col {
		case ColYear:
			b.WriteString(strconv.Itoa(r.Month.Year))
		case ColMonth:
			b.WriteString(strconv.Itoa(int(r.Month.Month)))
		case ColLabel:
			label, err := json.Marshal(r.Month.Label())
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col, err)
			}
			b.Write(label)
		default:
			v := r.Values[col]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			b.Write(appendFloat(nil, v))
		}
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// EncodeJSON renders the table as an indented JSON array of row objects.
func EncodeJSON(t Table) ([]byte, error) {
	rows := t.Rows
	if rows == nil {
		rows = []Row{}
	}
	return json.MarshalIndent(rows, "", "    ")
}

// WriteJSON writes the table to path, creating missing directories. The file is
// staged next to path, synced and renamed, so a failed export never leaves a
// partial file behind. It returns the number of bytes written.
func WriteJSON(path string, t Table) (int, error) {
	data, err := EncodeJSON(t)
	if err != nil {
		return 0, fmt.Errorf("encode json: %w", err)
	}
	if err := mkdirFor(path); err != nil {
		return 0, err
	}
	if err := renameio.WriteFile(path, data, 0o644, renameio.WithTempDir(filepath.Dir(path))); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return len(data), nil
}

// appendFloat writes v as a JSON number that always reads back as a float:
// integral values keep a ".0" fraction.
func appendFloat(b []byte, v float64) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, v, 'f', -1, 64)
	if !bytes.ContainsAny(b[start:], ".e") {
		b = append(b, '.', '0')
	}
	return b
}

func mkdirFor(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return nil
}
