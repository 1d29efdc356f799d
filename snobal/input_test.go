package snobal

import (
	"errors"
	"testing"
)

func mustInput(t *testing.T, netSolar, incomingThermal, airTemp, vaporPressure, windSpeed, soilTemp,
	precipMass, percentSnow, snowDensity, precipTemp float64) *InputRecord {
	t.Helper()
	r, err := NewInputRecord(netSolar, incomingThermal, airTemp, vaporPressure, windSpeed, soilTemp,
		precipMass, percentSnow, snowDensity, precipTemp)
	if err != nil {
		t.Fatalf("NewInputRecord: unexpected error: %v", err)
	}
	return r
}

func TestInputRecordNoPrecip(t *testing.T) {
	r := mustInput(t, 0, 220, 263.16, 400, 1.0, 270, 0, 0, 0, 0)
	if r.PrecipNow {
		t.Error("PrecipNow: want false for zero precip_mass")
	}
	if r.MSnow != 0 || r.MRain != 0 {
		t.Errorf("MSnow=%v MRain=%v, want both 0", r.MSnow, r.MRain)
	}
}

func TestInputRecordMixedPrecip(t *testing.T) {
	r := mustInput(t, 0, 220, 270, 400, 1.0, 270, 1.0, 0.5, 150, 274)
	if !r.PrecipNow {
		t.Fatal("PrecipNow: want true")
	}
	if different(r.MSnow, 0.5, E) || different(r.MRain, 0.5, E) {
		t.Errorf("MSnow=%v MRain=%v, want 0.5/0.5", r.MSnow, r.MRain)
	}
	if different(r.TSnow, FREEZE, E) {
		t.Errorf("mixed: TSnow = %v, want FREEZE", r.TSnow)
	}
	if different(r.H2oSatSnow, 1, E) {
		t.Errorf("mixed: H2oSatSnow = %v, want 1", r.H2oSatSnow)
	}
	if different(r.TRain, 274, E) {
		t.Errorf("mixed: TRain = %v, want 274", r.TRain)
	}
}

func TestInputRecordSnowOnlyCold(t *testing.T) {
	r := mustInput(t, 0, 220, 263, 400, 1.0, 270, 1.0, 1.0, 100, 260)
	if different(r.TSnow, 260, E) {
		t.Errorf("snow-only-cold: TSnow = %v, want 260", r.TSnow)
	}
	if different(r.H2oSatSnow, 0, E) {
		t.Errorf("snow-only-cold: H2oSatSnow = %v, want 0", r.H2oSatSnow)
	}
}

func TestInputRecordSnowOnlyWarm(t *testing.T) {
	r := mustInput(t, 0, 220, 275, 600, 1.0, 270, 1.0, 1.0, 100, 274)
	if different(r.TSnow, FREEZE, E) {
		t.Errorf("snow-only-warm: TSnow = %v, want FREEZE", r.TSnow)
	}
	if different(r.H2oSatSnow, 1, E) {
		t.Errorf("snow-only-warm: H2oSatSnow = %v, want 1", r.H2oSatSnow)
	}
}

func TestInputRecordRainOnlyClampsColdTemp(t *testing.T) {
	r := mustInput(t, 0, 280, 276, 700, 1.0, 270, 1.0, 0, 0, 270.0)
	if r.MSnow != 0 {
		t.Errorf("rain-only: MSnow = %v, want 0", r.MSnow)
	}
	if different(r.TRain, FREEZE, E) {
		t.Errorf("rain-only cold: TRain = %v, want clamped to FREEZE", r.TRain)
	}
	if different(r.PrecipTemp, FREEZE, E) {
		t.Errorf("rain-only cold: PrecipTemp = %v, want clamped to FREEZE", r.PrecipTemp)
	}
}

func TestInputRecordSnowRequiresDensity(t *testing.T) {
	_, err := NewInputRecord(0, 220, 263, 400, 1.0, 270, 1.0, 0.5, 0, 260)
	if err == nil {
		t.Fatal("want InvalidPrecip error when snow_density is 0 with percent_snow > 0")
	}
	var serr *Error
	if !errors.As(err, &serr) || serr.Kind != InvalidPrecip {
		t.Errorf("got %v, want InvalidPrecip", err)
	}
}

func TestInputRecordZSnowFromDensity(t *testing.T) {
	r := mustInput(t, 0, 220, 263, 400, 1.0, 270, 2.0, 1.0, 200, 260)
	want := 2.0 / 200
	if different(r.ZSnow, want, E) {
		t.Errorf("ZSnow = %v, want %v", r.ZSnow, want)
	}
}

func TestInputRecordCachesSatVP(t *testing.T) {
	r := mustInput(t, 0, 220, 263.16, 400, 1.0, 270, 0, 0, 0, 0)
	wantAir, err := sati(263.16)
	if err != nil {
		t.Fatal(err)
	}
	if different(r.SatVPAir(), wantAir, E) {
		t.Errorf("SatVPAir() = %v, want %v", r.SatVPAir(), wantAir)
	}
}

func TestInputRecordDomainErrorFromBadTemp(t *testing.T) {
	_, err := NewInputRecord(0, 220, -1, 400, 1.0, 270, 0, 0, 0, 0)
	if err == nil {
		t.Fatal("want DomainError for negative air_temp")
	}
	var serr *Error
	if !errors.As(err, &serr) || serr.Kind != DomainError {
		t.Errorf("got %v, want DomainError", err)
	}
}
