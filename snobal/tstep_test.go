package snobal

import "testing"

func TestBuildTimestepTableHourly(t *testing.T) {
	table, err := BuildTimestepTable(3600)
	if err != nil {
		t.Fatalf("BuildTimestepTable: unexpected error: %v", err)
	}
	if table[LevelNormal].Intervals != 1 {
		t.Errorf("normal.Intervals = %v, want 1", table[LevelNormal].Intervals)
	}
	if different(table[LevelNormal].TimeStepSeconds, 3600, E) {
		t.Errorf("normal.TimeStepSeconds = %v, want 3600", table[LevelNormal].TimeStepSeconds)
	}
	if different(table[LevelMedium].TimeStepSeconds, 900, E) {
		t.Errorf("medium.TimeStepSeconds = %v, want 900", table[LevelMedium].TimeStepSeconds)
	}
	if different(table[LevelSmall].TimeStepSeconds, 60, E) {
		t.Errorf("small.TimeStepSeconds = %v, want 60", table[LevelSmall].TimeStepSeconds)
	}
	if table[LevelMedium].Intervals != 4 {
		t.Errorf("medium.Intervals = %v, want 4", table[LevelMedium].Intervals)
	}
	if table[LevelSmall].Intervals != 15 {
		t.Errorf("small.Intervals = %v, want 15", table[LevelSmall].Intervals)
	}
}

func TestBuildTimestepTableMultiHour(t *testing.T) {
	table, err := BuildTimestepTable(3 * 3600)
	if err != nil {
		t.Fatalf("BuildTimestepTable: unexpected error: %v", err)
	}
	if table[LevelNormal].Intervals != 3 {
		t.Errorf("normal.Intervals = %v, want 3", table[LevelNormal].Intervals)
	}
}

func TestBuildTimestepTableRejectsNonHourMultiple(t *testing.T) {
	if _, err := BuildTimestepTable(1800); err == nil {
		t.Error("want error for non-hour-multiple data tstep")
	}
}

func TestTimestepThresholdsDescend(t *testing.T) {
	table, err := BuildTimestepTable(3600)
	if err != nil {
		t.Fatal(err)
	}
	if !(table[LevelNormal].ThresholdKgm2 > table[LevelMedium].ThresholdKgm2 &&
		table[LevelMedium].ThresholdKgm2 > table[LevelSmall].ThresholdKgm2 &&
		table[LevelSmall].ThresholdKgm2 > 0) {
		t.Error("want threshold[normal] > threshold[medium] > threshold[small] > 0")
	}
}
