package model

import "fmt"

// SeriesKind tells how raw values of an indicator must be read.
type SeriesKind int

const (
	// LevelIndex values are index numbers, meaningful only as a ratio between two months.
	LevelIndex SeriesKind = iota + 1
	// MonthlyRate values are percentages earned during the month.
	MonthlyRate
)

func (k SeriesKind) String() string {
	switch k {
	case LevelIndex:
		return "level_index"
	case MonthlyRate:
		return "monthly_rate"
	default:
		return fmt.Sprintf("SeriesKind(%d)", int(k))
	}
}

// RateMethod selects how monthly rates accumulate. Only MonthlyRate indicators carry one.
type RateMethod int

const (
	NoRateMethod RateMethod = iota
	// ForwardSumRemainder sums every rate strictly after the month (SELIC).
	ForwardSumRemainder
	// ReverseCompounding compounds every rate from the month to the series end (TR, savings, IGP-M).
	ReverseCompounding
)

func (m RateMethod) String() string {
	switch m {
	case NoRateMethod:
		return "none"
	case ForwardSumRemainder:
		return "forward_sum"
	case ReverseCompounding:
		return "reverse_compounding"
	default:
		return fmt.Sprintf("RateMethod(%d)", int(m))
	}
}

// Source names the external provider of an indicator.
type Source string

const (
	SourceIPEA Source = "ipea"
	SourceIBGE Source = "ibge"
	SourceFIPE Source = "fipe"
)

// Indicator is the fixed description of one exported column.
type Indicator struct {
	Name   string // column name in the export
	Kind   SeriesKind
	Method RateMethod
	Source Source

	Code     string // IPEA series code
	Table    int    // IBGE SIDRA aggregate
	Variable int    // IBGE SIDRA variable
}

func (i Indicator) String() string { return i.Name }

// Indicators is the fixed indicator set, in fetch order.
var Indicators = []Indicator{
	{Name: "SELIC", Kind: MonthlyRate, Method: ForwardSumRemainder, Source: SourceIPEA, Code: "BM12_TJOVER12"},
	{Name: "TR", Kind: MonthlyRate, Method: ReverseCompounding, Source: SourceIPEA, Code: "BM12_TJTR12"},
	{Name: "Poupanca", Kind: MonthlyRate, Method: ReverseCompounding, Source: SourceIPEA, Code: "BM12_RNDPO12"},
	{Name: "IGPM", Kind: MonthlyRate, Method: ReverseCompounding, Source: SourceIPEA, Code: "IGP12_IGPMG12"},
	{Name: "IPCA", Kind: LevelIndex, Source: SourceIBGE, Table: 1737, Variable: 2266},
	{Name: "INPC", Kind: LevelIndex, Source: SourceIBGE, Table: 1736, Variable: 2289},
	{Name: "IPCAE", Kind: LevelIndex, Source: SourceIBGE, Table: 3065, Variable: 1117},
	{Name: "IPC_FIPE", Kind: LevelIndex, Source: SourceFIPE},
}

// LookupIndicator finds an indicator of the fixed set by name.
func LookupIndicator(name string) (Indicator, bool) {
	for _, ind := range Indicators {
		if ind.Name == name {
			return ind, true
		}
	}
	return Indicator{}, false
}
