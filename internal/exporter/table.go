package exporter

import (
	"math"
	"strconv"

	"IndexTracker/internal/model"

	"github.com/shopspring/decimal"
)

// Derived columns computed from each row's month.
const (
	ColYear  = "Ano"
	ColMonth = "Mes"
	ColLabel = "Referencia"
)

// Priority is the export column order. Columns without data are left out.
var Priority = []string{ColYear, ColMonth, ColLabel, "SELIC", "TR", "INPC", "IPCA", "IPCAE", "IGPM", "Poupanca", "IPC_FIPE"}

// Decimals is the number of decimal places kept in every numeric cell.
const Decimals = 4

// Row is one calendar month of the result table.
type Row struct {
	Month   model.Month
	Values  map[string]float64
	columns []string
}

// Table is the merged result: one row per calendar month, one column per indicator.
type Table struct {
	Columns []string
	Rows    []Row
}

// BuildTable merges accumulated series onto the calendar. Cells are rounded to
// Decimals places; infinities and NaN become 0.
func BuildTable(cal model.Calendar, series ...model.AccumulatedSeries) Table {
	present := map[string]model.AccumulatedSeries{}
	for _, s := range series {
		present[s.Indicator] = s
	}

	var columns []string
	for _, col := range Priority {
		switch col {
		case ColYear, ColMonth, ColLabel:
			columns = append(columns, col)
		default:
			if _, ok := present[col]; ok {
				columns = append(columns, col)
			}
		}
	}

	rows := make([]Row, cal.Len())
	for i := 0; i < cal.Len(); i++ {
		m := cal.At(i)
		values := make(map[string]float64, len(present))
		for _, col := range columns {
			s, ok := present[col]
			if !ok {
				continue
			}
			v, _ := s.Get(m)
			values[col] = Round(v)
		}
		rows[i] = Row{Month: m, Values: values, columns: columns}
	}
	return Table{Columns: columns, Rows: rows}
}

// Indicators returns the indicator columns, without the derived ones.
func (t Table) Indicators() []string {
	var out []string
	for _, c := range t.Columns {
		if c != ColYear && c != ColMonth && c != ColLabel {
			out = append(out, c)
		}
	}
	return out
}

// Head returns up to n first rows.
func (t Table) Head(n int) []Row {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

// Tail returns up to n last rows.
func (t Table) Tail(n int) []Row {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[len(t.Rows)-n:]
}

// Cell formats the value of a column for display.
func (r Row) Cell(col string) string {
	switch col {
	case ColYear:
		return strconv.Itoa(r.Month.Year)
	case ColMonth:
		return strconv.Itoa(int(r.Month.Month))
	case ColLabel:
		return r.Month.Label()
	default:
		return strconv.FormatFloat(r.Values[col], 'f', Decimals, 64)
	}
}

// Round replaces non-finite values with 0 and rounds half away from zero to Decimals places.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(Decimals).InexactFloat64()
}
