package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestUnits_UnmarshalNumberAndString(t *testing.T) {
	t.Parallel()

	var d Dosis
	if err := json.Unmarshal([]byte(`{"id":1,"tipo":"bolo","unidades":4.5}`), &d); err != nil {
		t.Fatalf("number: %v", err)
	}
	if d.Unidades != 4.5 {
		t.Fatalf("number: got %v", d.Unidades)
	}

	// DRF serializes DecimalField as a quoted string.
	if err := json.Unmarshal([]byte(`{"id":2,"tipo":"basal","unidades":"12.00"}`), &d); err != nil {
		t.Fatalf("string: %v", err)
	}
	if d.Unidades != 12 {
		t.Fatalf("string: got %v", d.Unidades)
	}

	if err := json.Unmarshal([]byte(`{"id":3,"tipo":"corr","unidades":null}`), &d); err != nil {
		t.Fatalf("null: %v", err)
	}
	if d.Unidades != 0 {
		t.Fatalf("null: got %v", d.Unidades)
	}

	if err := json.Unmarshal([]byte(`{"unidades":"mucho"}`), &d); err == nil {
		t.Fatalf("garbage must not decode")
	}
}

func TestUnits_MarshalAsNumber(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(Units(6.5))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "6.5" {
		t.Fatalf("got %s", out)
	}
}

func TestDateOnly_Roundtrip(t *testing.T) {
	t.Parallel()

	var d DateOnly
	if err := json.Unmarshal([]byte(`"2026-09-15"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Year() != 2026 || int(d.Month()) != 9 || d.Day() != 15 {
		t.Fatalf("got %v", d.Time)
	}

	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2026-09-15"` {
		t.Fatalf("got %s", out)
	}

	var zero DateOnly
	out, _ = json.Marshal(zero)
	if string(out) != "null" {
		t.Fatalf("zero date must serialize as null, got %s", out)
	}
}

func TestVerificacionKit_FaltantesField(t *testing.T) {
	t.Parallel()

	raw := `{"id":4,"resultado_ok":false,"faltantes_json":{"Glucagón":1,"Tiras":2}}`
	var v VerificacionKit
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.ResultadoOK {
		t.Fatalf("resultado_ok mismatch")
	}
	if v.Faltantes["Glucagón"] != 1 || v.Faltantes["Tiras"] != 2 {
		t.Fatalf("faltantes: got %v", v.Faltantes)
	}
}

func TestRangoDia(t *testing.T) {
	t.Parallel()

	r := RangoDia(mustDate(t, "2026-08-30"))
	if r.Desde == nil || r.Hasta == nil {
		t.Fatalf("both bounds must be set")
	}
	if r.Desde.Hour() != 0 || r.Desde.Minute() != 0 {
		t.Fatalf("desde must be start of day, got %v", r.Desde)
	}
	if r.Hasta.Hour() != 23 || r.Hasta.Minute() != 59 || r.Hasta.Second() != 59 {
		t.Fatalf("hasta must be end of day, got %v", r.Hasta)
	}
	if r.Desde.Day() != r.Hasta.Day() {
		t.Fatalf("bounds must stay on the same day")
	}
}
