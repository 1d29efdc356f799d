package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spatialmodel/snobal/snobal"
)

func TestPointCSVSinkWritesHeaderAndRows(t *testing.T) {
	dir := t.TempDir()
	ebPath := filepath.Join(dir, "eb.csv")
	scPath := filepath.Join(dir, "snow.csv")

	sink, err := NewPointCSVSink(ebPath, scPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := sink.WriteEnergyBalance(snobal.EnergyBalanceRecord{TimeHrs: 1, NetRad: 12.5}); err != nil {
		t.Fatal(err)
	}
	if err := sink.WriteSnowcover(snobal.SnowcoverRecord{TimeHrs: 1, Thickness: 0.3}); err != nil {
		t.Fatal(err)
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	ebContents, err := os.ReadFile(ebPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(ebContents), "time_hrs,net_rad") {
		t.Errorf("energy balance file missing expected header: %q", ebContents)
	}
	if !strings.Contains(string(ebContents), "12.5") {
		t.Errorf("energy balance file missing written value: %q", ebContents)
	}

	scContents, err := os.ReadFile(scPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(scContents), "time_hrs,thickness") {
		t.Errorf("snowcover file missing expected header: %q", scContents)
	}
}
