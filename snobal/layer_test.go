package snobal

import "testing"

func TestAdjustLayersDropsToZeroBelowMinMass(t *testing.T) {
	s := &SnowcoverState{MS: 0.0001, H2O: 0.5}
	if err := adjustLayers(s, testParams()); err != nil {
		t.Fatal(err)
	}
	if s.LayerCount != 0 {
		t.Errorf("LayerCount = %v, want 0", s.LayerCount)
	}
	if different(s.RoPredSum, 0.5, E) {
		t.Errorf("RoPredSum = %v, want dumped h2o 0.5", s.RoPredSum)
	}
}

func TestAdjustLayersTransitionAtMaxZS0(t *testing.T) {
	params := testParams()
	// z_s = max_z_s_0 exactly at this mass given effectiveDensity(h2o_sat=0) = rhoIce.
	s := &SnowcoverState{MS: params.MaxZS0 * rhoIce, CCS: 0}
	if err := adjustLayers(s, params); err != nil {
		t.Fatal(err)
	}
	if s.LayerCount != 1 {
		t.Errorf("LayerCount at z_s == max_z_s_0 = %v, want 1", s.LayerCount)
	}

	s2 := &SnowcoverState{MS: params.MaxZS0*rhoIce + 1, CCS: 0}
	if err := adjustLayers(s2, params); err != nil {
		t.Fatal(err)
	}
	if s2.LayerCount != 2 {
		t.Errorf("LayerCount just above max_z_s_0 = %v, want 2", s2.LayerCount)
	}
}

func TestAdjustLayersRedistributesColdContentByThickness(t *testing.T) {
	params := testParams()
	s := &SnowcoverState{MS: 400, CCS: -1000}
	if err := adjustLayers(s, params); err != nil {
		t.Fatal(err)
	}
	if s.LayerCount != 2 {
		t.Fatalf("LayerCount = %v, want 2", s.LayerCount)
	}
	if different(s.CCS, s.CCS0+s.CCSL, E) {
		t.Errorf("CCS0+CCSL = %v, want CCS = %v", s.CCS0+s.CCSL, s.CCS)
	}
	fracSurface := s.ZS0 / s.ZS
	want := s.CCS * fracSurface
	if different(s.CCS0, want, E) {
		t.Errorf("CCS0 = %v, want %v (proportional to thickness)", s.CCS0, want)
	}
}

func TestAdjustLayersCapsTemperatureAtFreeze(t *testing.T) {
	s := &SnowcoverState{MS: 10, CCS: 1000} // positive cc should never happen, but guard anyway
	if err := adjustLayers(s, testParams()); err != nil {
		t.Fatal(err)
	}
	if s.TS0 > FREEZE {
		t.Errorf("TS0 = %v, want capped at FREEZE", s.TS0)
	}
}

func TestEffectiveDensityBlendsByH2OSat(t *testing.T) {
	s := &SnowcoverState{H2OSat: 0}
	if different(effectiveDensity(s), rhoIce, E) {
		t.Errorf("effectiveDensity(h2o_sat=0) = %v, want rhoIce", effectiveDensity(s))
	}
	s.H2OSat = 1
	if different(effectiveDensity(s), rhoWater, E) {
		t.Errorf("effectiveDensity(h2o_sat=1) = %v, want rhoWater", effectiveDensity(s))
	}
}
