package snobal

import "testing"

func testParams() Params {
	return Params{
		DataTstepSeconds: 3600,
		MaxH2OVol:        0.01,
		MaxZS0:           0.25,
	}
}

func TestNewSnowcoverStateNoSnow(t *testing.T) {
	s, err := NewSnowcoverState(InitialState{Mask: true}, MeasurementHeights{}, testParams())
	if err != nil {
		t.Fatalf("NewSnowcoverState: unexpected error: %v", err)
	}
	if s.LayerCount != 0 {
		t.Errorf("LayerCount = %v, want 0", s.LayerCount)
	}
	if err := s.Validate(0, 0); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestNewSnowcoverStateShallowIsOneLayer(t *testing.T) {
	s, err := NewSnowcoverState(InitialState{
		ZS: 0.1, Rho: 300, TS0: 273.16, TS: 273.16, Mask: true,
	}, MeasurementHeights{}, testParams())
	if err != nil {
		t.Fatalf("NewSnowcoverState: unexpected error: %v", err)
	}
	if s.LayerCount != 1 {
		t.Errorf("LayerCount = %v, want 1", s.LayerCount)
	}
	if err := s.Validate(0, 0); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestNewSnowcoverStateDeepIsTwoLayers(t *testing.T) {
	s, err := NewSnowcoverState(InitialState{
		ZS: 1.0, Rho: 300, TS0: 270, TS: 270, Mask: true,
	}, MeasurementHeights{}, testParams())
	if err != nil {
		t.Fatalf("NewSnowcoverState: unexpected error: %v", err)
	}
	if s.LayerCount != 2 {
		t.Errorf("LayerCount = %v, want 2", s.LayerCount)
	}
	if different(s.ZS0, testParams().MaxZS0, E) {
		t.Errorf("ZS0 = %v, want %v", s.ZS0, testParams().MaxZS0)
	}
	if err := s.Validate(0, 0); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestNewSnowcoverStateTempsInC(t *testing.T) {
	s, err := NewSnowcoverState(InitialState{
		ZS: 0.1, Rho: 300, TS0: 0, TS: 0, Mask: true,
	}, MeasurementHeights{}, Params{MaxH2OVol: 0.01, MaxZS0: 0.25, TempsInC: true})
	if err != nil {
		t.Fatalf("NewSnowcoverState: unexpected error: %v", err)
	}
	if different(s.TS0, FREEZE, E) {
		t.Errorf("TS0 = %v, want FREEZE after temps_in_C conversion", s.TS0)
	}
}

func TestSnapshotRestoreRoundtrips(t *testing.T) {
	s, err := NewSnowcoverState(InitialState{
		ZS: 0.1, Rho: 300, TS0: 270, TS: 270, Mask: true,
	}, MeasurementHeights{}, testParams())
	if err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	s.MS = 999
	s.LayerCount = 0
	s.Restore(snap)
	if different(s.MS, snap.MS, E) {
		t.Errorf("Restore did not reset MS: got %v, want %v", s.MS, snap.MS)
	}
	if s.LayerCount != snap.LayerCount {
		t.Errorf("Restore did not reset LayerCount: got %v, want %v", s.LayerCount, snap.LayerCount)
	}
}
