package stats

import (
	"testing"
	"time"

	"github.com/daniilabradorr/diaflow/internal/domain"
)

func reading(value int, at time.Time) domain.Glucemia {
	return domain.Glucemia{ValorMgDl: value, MedidoEn: at}
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	s := Summarize(nil, DefaultRange)
	if s.Last != nil || s.Mean != nil || s.Min != nil || s.Max != nil || s.PercentInRange != nil {
		t.Fatalf("empty input must yield absent values, got %+v", s)
	}
	if len(s.PerDay) != 0 || len(s.LastN) != 0 {
		t.Fatalf("empty input must yield no per-day or recent lists")
	}
}

func TestSummarize_Bounds(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)
	readings := []domain.Glucemia{
		reading(110, base),
		reading(95, base.Add(2*time.Hour)),
		reading(240, base.Add(4*time.Hour)),
		reading(60, base.Add(6*time.Hour)),
	}

	s := Summarize(readings, DefaultRange)

	if *s.Min != 60 || *s.Max != 240 {
		t.Fatalf("min/max: got %d/%d, want 60/240", *s.Min, *s.Max)
	}
	if *s.Mean < float64(*s.Min) || *s.Mean > float64(*s.Max) {
		t.Fatalf("mean %v outside [min, max]", *s.Mean)
	}
	if *s.PercentInRange < 0 || *s.PercentInRange > 100 {
		t.Fatalf("time in range %d%% out of bounds", *s.PercentInRange)
	}
	// 110 and 95 are inside 70-180, 240 and 60 are not.
	if *s.PercentInRange != 50 {
		t.Fatalf("time in range: got %d%%, want 50%%", *s.PercentInRange)
	}
	if s.Last.ValorMgDl != 60 {
		t.Fatalf("last reading: got %d, want the newest (60)", s.Last.ValorMgDl)
	}
}

func TestSummarize_RangeBoundsInclusive(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)
	readings := []domain.Glucemia{
		reading(70, base),
		reading(180, base.Add(time.Hour)),
	}

	s := Summarize(readings, DefaultRange)
	if *s.PercentInRange != 100 {
		t.Fatalf("boundary values must count as in range, got %d%%", *s.PercentInRange)
	}
}

func TestSummarize_UnsortedInput(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)
	readings := []domain.Glucemia{
		reading(150, base.Add(3*time.Hour)),
		reading(100, base),
		reading(120, base.Add(time.Hour)),
	}

	s := Summarize(readings, DefaultRange)
	if s.Last.ValorMgDl != 150 {
		t.Fatalf("last must be the newest by timestamp, got %d", s.Last.ValorMgDl)
	}
	if len(s.LastN) != 3 || s.LastN[0].ValorMgDl != 150 || s.LastN[2].ValorMgDl != 100 {
		t.Fatalf("recent readings must be newest first: %+v", s.LastN)
	}
}

func TestSummarize_LastNCapped(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	var readings []domain.Glucemia
	for i := 0; i < 9; i++ {
		readings = append(readings, reading(100+i, base.Add(time.Duration(i)*time.Hour)))
	}

	s := Summarize(readings, DefaultRange)
	if len(s.LastN) != lastN {
		t.Fatalf("recent list: got %d entries, want %d", len(s.LastN), lastN)
	}
	if s.LastN[0].ValorMgDl != 108 {
		t.Fatalf("recent list must start with the newest reading, got %d", s.LastN[0].ValorMgDl)
	}
}

func TestSummarize_PerDayChronological(t *testing.T) {
	t.Parallel()

	day1 := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC)
	readings := []domain.Glucemia{
		reading(200, day2),
		reading(100, day1),
		reading(120, day1.Add(time.Hour)),
	}

	s := Summarize(readings, DefaultRange)
	if len(s.PerDay) != 2 {
		t.Fatalf("want 2 day buckets, got %d", len(s.PerDay))
	}
	if s.PerDay[0].Fecha != "20/08" || s.PerDay[0].Valor != 110 {
		t.Fatalf("first bucket: got %+v, want 20/08 avg 110", s.PerDay[0])
	}
	if s.PerDay[1].Fecha != "21/08" || s.PerDay[1].Valor != 200 {
		t.Fatalf("second bucket: got %+v, want 21/08 avg 200", s.PerDay[1])
	}
}

func TestSummarize_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)
	readings := []domain.Glucemia{
		reading(150, base.Add(time.Hour)),
		reading(100, base),
	}

	Summarize(readings, DefaultRange)
	if readings[0].ValorMgDl != 150 {
		t.Fatalf("input slice was reordered")
	}
}

func TestCriticalSupplies(t *testing.T) {
	t.Parallel()

	stock := func(v int) *int { return &v }
	insumos := []domain.Insumo{
		{Nombre: "Tiras", StockActual: stock(2), StockMinimo: stock(10)},
		{Nombre: "Agujas", StockActual: stock(50), StockMinimo: stock(10)},
		{Nombre: "Sensor", StockActual: nil, StockMinimo: stock(1)},
		{Nombre: "Lancetas", StockActual: stock(10), StockMinimo: stock(10)},
	}

	critical := CriticalSupplies(insumos)
	if len(critical) != 1 || critical[0].Nombre != "Tiras" {
		t.Fatalf("want only Tiras flagged, got %+v", critical)
	}
}
