package snobal

import "testing"

func oneLayerState() *SnowcoverState {
	s, _ := NewSnowcoverState(InitialState{
		ZS: 0.1, Rho: 300, TS0: 270, TS: 270, Mask: true,
	}, MeasurementHeights{ZU: 2, ZT: 2, ZG: 0.5}, testParams())
	return s
}

func TestComputeEnergyBalanceZeroWhenNoSnow(t *testing.T) {
	s, _ := NewSnowcoverState(InitialState{Mask: true}, MeasurementHeights{}, testParams())
	in := mustInput(t, 100, 220, 263, 400, 2, 270, 0, 0, 0, 0)
	eb, err := computeEnergyBalance(s, in, 0, 0, 0, 0, 3600)
	if err != nil {
		t.Fatal(err)
	}
	if eb.RN != 0 || eb.H != 0 || eb.DeltaQ != 0 {
		t.Errorf("expected all-zero energy balance with layer_count=0, got %+v", eb)
	}
}

func TestComputeEnergyBalanceOneLayerGEqualsG0(t *testing.T) {
	s := oneLayerState()
	in := mustInput(t, 100, 220, 263, 400, 2, 280, 0, 0, 0, 0)
	eb, err := computeEnergyBalance(s, in, 0, 0, 0, 0, 3600)
	if err != nil {
		t.Fatal(err)
	}
	if different(eb.G, eb.G0, E) {
		t.Errorf("layer_count=1: G=%v G0=%v, want equal", eb.G, eb.G0)
	}
}

func TestComputeEnergyBalanceWarmerSoilWarmsSnow(t *testing.T) {
	s := oneLayerState()
	in := mustInput(t, 0, 0, 263, 400, 2, 320, 0, 0, 0, 0)
	eb, err := computeEnergyBalance(s, in, 0, 0, 0, 0, 3600)
	if err != nil {
		t.Fatal(err)
	}
	if eb.G <= 0 {
		t.Errorf("G = %v, want > 0 when soil much warmer than snow", eb.G)
	}
}

func TestComputeEnergyBalancePrecipHeatSignMatchesWarmerRain(t *testing.T) {
	s := oneLayerState()
	in := mustInput(t, 0, 220, 270, 400, 1, 270, 2.0, 0, 0, 280)
	eb, err := computeEnergyBalance(s, in, 0, in.MRain, 0, in.TRain, 3600)
	if err != nil {
		t.Fatal(err)
	}
	if eb.M <= 0 {
		t.Errorf("M = %v, want > 0 for rain warmer than surface", eb.M)
	}
}

func TestComputeEnergyBalanceTwoLayerGMayDiffer(t *testing.T) {
	s, err := NewSnowcoverState(InitialState{
		ZS: 1.0, Rho: 300, TS0: 260, TS: 270, Mask: true,
	}, MeasurementHeights{ZU: 2, ZT: 2, ZG: 0.5}, testParams())
	if err != nil {
		t.Fatal(err)
	}
	in := mustInput(t, 0, 220, 263, 400, 2, 275, 0, 0, 0, 0)
	eb, err := computeEnergyBalance(s, in, 0, 0, 0, 0, 3600)
	if err != nil {
		t.Fatal(err)
	}
	_ = eb // G and G0 are independent conductive paths at layer_count=2
}
