// Package stats computes client-side glucose summaries over readings the
// backend already filtered. Pure functions, no I/O.
package stats

import (
	"math"
	"sort"

	"github.com/daniilabradorr/diaflow/internal/domain"
)

// Range is the clinical target band in mg/dL, bounds inclusive.
type Range struct {
	Min int
	Max int
}

// DefaultRange is the usual 70-180 mg/dL target.
var DefaultRange = Range{Min: 70, Max: 180}

// DayAverage is the rounded mean of one calendar day, keyed dd/mm.
type DayAverage struct {
	Fecha string
	Valor int
}

// Summary aggregates a set of readings. Scalar fields are pointers so an
// empty input is distinguishable from a legitimate zero.
type Summary struct {
	Last           *domain.Glucemia
	Mean           *float64
	Min            *int
	Max            *int
	PercentInRange *int
	PerDay         []DayAverage
	LastN          []domain.Glucemia
}

// lastN is how many recent readings a summary carries.
const lastN = 5

// Summarize sorts readings ascending by measurement time and derives
// mean, min, max, time-in-range and per-day averages. No outlier
// rejection. Empty input yields a Summary of absent values, never zeros.
func Summarize(readings []domain.Glucemia, target Range) Summary {
	if len(readings) == 0 {
		return Summary{}
	}

	sorted := make([]domain.Glucemia, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MedidoEn.Before(sorted[j].MedidoEn)
	})

	sum := 0
	minVal := sorted[0].ValorMgDl
	maxVal := sorted[0].ValorMgDl
	inRange := 0
	for _, g := range sorted {
		sum += g.ValorMgDl
		if g.ValorMgDl < minVal {
			minVal = g.ValorMgDl
		}
		if g.ValorMgDl > maxVal {
			maxVal = g.ValorMgDl
		}
		if g.ValorMgDl >= target.Min && g.ValorMgDl <= target.Max {
			inRange++
		}
	}

	mean := float64(sum) / float64(len(sorted))
	tir := int(math.Round(100 * float64(inRange) / float64(len(sorted))))

	last := sorted[len(sorted)-1]

	tail := len(sorted) - lastN
	if tail < 0 {
		tail = 0
	}
	recent := make([]domain.Glucemia, 0, lastN)
	for i := len(sorted) - 1; i >= tail; i-- {
		recent = append(recent, sorted[i])
	}

	return Summary{
		Last:           &last,
		Mean:           &mean,
		Min:            &minVal,
		Max:            &maxVal,
		PercentInRange: &tir,
		PerDay:         perDayAverages(sorted),
		LastN:          recent,
	}
}

// perDayAverages groups readings by calendar day, keeping first-seen
// order, which is chronological because the input is pre-sorted.
func perDayAverages(sorted []domain.Glucemia) []DayAverage {
	type bucket struct {
		sum   int
		count int
	}
	order := make([]string, 0)
	buckets := make(map[string]*bucket)

	for _, g := range sorted {
		key := g.MedidoEn.Format("02/01")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
			order = append(order, key)
		}
		b.sum += g.ValorMgDl
		b.count++
	}

	out := make([]DayAverage, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		out = append(out, DayAverage{
			Fecha: key,
			Valor: int(math.Round(float64(b.sum) / float64(b.count))),
		})
	}
	return out
}

// CriticalSupplies returns the supplies whose current stock is below the
// minimum. Supplies missing either stock field are never flagged.
func CriticalSupplies(insumos []domain.Insumo) []domain.Insumo {
	var critical []domain.Insumo
	for _, i := range insumos {
		if i.Critico() {
			critical = append(critical, i)
		}
	}
	return critical
}
