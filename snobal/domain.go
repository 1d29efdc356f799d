/*
Copyright © 2020 the Snobal authors.
This file is part of Snobal.

Snobal is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Snobal is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Snobal.  If not, see <http://www.gnu.org/licenses/>.
*/

package snobal

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// EnergyBalanceRecord is one emitted sample of the energy-balance
// output schema (spec §6).
type EnergyBalanceRecord struct {
	Cell           int
	TimeHrs        float64
	NetRad         float64
	SensibleHeat   float64
	LatentHeat     float64
	SnowSoil       float64
	PrecipAdvected float64
	SumEB          float64
	Evaporation    float64
	Snowmelt       float64
	SWI            float64
	ColdContent    float64
}

// SnowcoverRecord is one emitted sample of the snowcover output
// schema (spec §6).
type SnowcoverRecord struct {
	Cell                   int
	TimeHrs                float64
	Thickness              float64
	SnowDensity            float64
	SpecificMass           float64
	LiquidWater            float64
	TempSurf               float64
	TempLower              float64
	TempSnowcover          float64
	ThicknessLower         float64
	WaterSaturationPercent float64
}

// Sink receives the two output record schemas as the engine emits
// them. Implementations own their own concurrency discipline (spec
// §5); the core never calls a Sink from more than one goroutine for
// the same cell concurrently.
type Sink interface {
	WriteEnergyBalance(EnergyBalanceRecord) error
	WriteSnowcover(SnowcoverRecord) error
}

// Domain owns the per-cell snowcover state for an entire grid (or a
// single cell, in point mode) and drives it through data intervals.
type Domain struct {
	Cells  []*SnowcoverState
	Params Params
	Table  [4]TimestepLevel
	Sink   Sink
	Log    *logrus.Logger

	cancel int32 // set via Cancel; read only by cancelled
}

// NewDomain builds a Domain from already-constructed cells.
func NewDomain(cells []*SnowcoverState, params Params, table [4]TimestepLevel, sink Sink) *Domain {
	return &Domain{
		Cells:  cells,
		Params: params,
		Table:  table,
		Sink:   sink,
		Log:    logrus.StandardLogger(),
	}
}

// Cancel sets the domain's cancellation flag. Neither StepInterval
// nor the cmd/snobal driver loop checks the flag, so setting it does
// not stop a run; a cancellation mid-interval is not supported.
func (d *Domain) Cancel() { atomic.StoreInt32(&d.cancel, 1) }

func (d *Domain) cancelled() bool { return atomic.LoadInt32(&d.cancel) != 0 }

// StepInterval advances every masked cell from input1 to input2 over
// one data interval, fanning the per-cell work out across
// GOMAXPROCS(0) goroutines, matching the teacher's fixed-worker-pool
// dispatch pattern: cells never read each other's state so no locking
// is required (spec §5).
func (d *Domain) StepInterval(inputs1, inputs2 []*InputRecord, firstStep bool) error {
	nprocs := runtime.GOMAXPROCS(0)
	if nprocs > len(d.Cells) {
		nprocs = len(d.Cells)
	}
	if nprocs < 1 {
		return nil
	}

	var wg sync.WaitGroup
	errs := make([]error, len(d.Cells))

	for p := 0; p < nprocs; p++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for i := start; i < len(d.Cells); i += nprocs {
				cell := d.Cells[i]
				if !cell.Mask {
					continue
				}
				deltas := NewInputDeltas(inputs1[i], inputs2[i], d.Table)
				if err := d.advanceCell(cell, inputs1[i], deltas, i, firstStep); err != nil {
					errs[i] = err
				}
			}
		}(p)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			d.Log.WithField("cell", i).WithError(err).Warn("cell advance failed")
			return err
		}
	}
	return nil
}

// stepFrame is one entry of the adaptive engine's explicit stack
// (spec §9: "an explicit loop with a 3-entry stack is preferable to
// real recursion"). remaining counts substeps not yet started at this
// level; when it reaches 0, the level is finished and its WHOLE
// output (if requested) fires.
type stepFrame struct {
	level     Level
	remaining int
}

// forcingCursor is the instantaneous continuous forcing value as the
// substep loop walks it linearly from input1 toward input2. It is
// snapshotted and restored alongside SnowcoverState whenever a
// substep is rejected and subdivided, so a retried finer substep
// resumes interpolation from the same point in time.
type forcingCursor struct {
	NetSolar        float64
	IncomingThermal float64
	AirTemp         float64
	VaporPressure   float64
	WindSpeed       float64
	SoilTemp        float64
}

func (c *forcingCursor) add(ld LevelDeltas) {
	c.NetSolar += ld.NetSolar
	c.IncomingThermal += ld.IncomingThermal
	c.AirTemp += ld.AirTemp
	c.VaporPressure += ld.VaporPressure
	c.WindSpeed += ld.WindSpeed
	c.SoilTemp += ld.SoilTemp
}

func (c forcingCursor) asInput(precipNow bool) *InputRecord {
	return &InputRecord{
		NetSolar:        c.NetSolar,
		IncomingThermal: c.IncomingThermal,
		AirTemp:         c.AirTemp,
		VaporPressure:   c.VaporPressure,
		WindSpeed:       c.WindSpeed,
		SoilTemp:        c.SoilTemp,
		PrecipNow:       precipNow,
	}
}

// advanceCell runs the adaptive timestep engine (spec §4.7) for one
// cell over a full data interval, starting at LevelNormal.
func (d *Domain) advanceCell(s *SnowcoverState, input1 *InputRecord, deltas *InputDeltas, cellIndex int, firstStep bool) error {
	var stack [3]stepFrame
	sp := 1
	stack[0] = stepFrame{level: LevelNormal, remaining: d.Table[LevelNormal].Intervals}

	cursor := forcingCursor{
		NetSolar:        input1.NetSolar,
		IncomingThermal: input1.IncomingThermal,
		AirTemp:         input1.AirTemp,
		VaporPressure:   input1.VaporPressure,
		WindSpeed:       input1.WindSpeed,
		SoilTemp:        input1.SoilTemp,
	}

	primeOnly := firstStep

	for sp > 0 {
		top := &stack[sp-1]

		if top.remaining == 0 {
			if d.Table[top.level].OutputFlags&OutputWhole != 0 {
				if err := d.emit(s, cellIndex); err != nil {
					return err
				}
			}
			sp--
			continue
		}
		top.remaining--
		level := top.level

		save := s.Snapshot()
		savedCursor := cursor
		massBefore := s.MS0

		ld := deltas.Levels[level]
		cursor.add(ld)

		mSnow, mRain, tSnow, tRain := ld.MSnow, ld.MRain, deltas.TSnow, deltas.TRain
		precipNow := deltas.PrecipNow
		if primeOnly {
			// The synthetic first step bypasses precipitation for one
			// frame so the accumulators start from a clean baseline
			// (spec §4.7, §9); it never recurs beyond this substep.
			precipNow, mSnow, mRain = false, 0, 0
			primeOnly = false
		}

		in := cursor.asInput(precipNow)
		dt := d.Table[level].TimeStepSeconds

		eb, err := computeEnergyBalance(s, in, mSnow, mRain, tSnow, tRain, dt)
		if err != nil {
			if retryErr := d.retryNonConvergence(err, cellIndex); retryErr != nil {
				return retryErr
			}
			eb = EnergyBalance{}
		}

		applyMassBalance(s, eb, in, mSnow, mRain, dt, d.Params)

		if err := adjustLayers(s, d.Params); err != nil {
			return err
		}
		if err := s.Validate(cellIndex, s.CurrentTime); err != nil {
			return err
		}

		massChange := math.Abs(s.MS0 - massBefore)
		if massChange > d.Table[level].ThresholdKgm2 && level < LevelSmall {
			s.Restore(save)
			cursor = savedCursor
			sp++
			next := level + 1
			stack[sp-1] = stepFrame{level: next, remaining: d.Table[next].Intervals}
			continue
		}

		if d.Table[level].OutputFlags&OutputDivided != 0 {
			if err := d.emit(s, cellIndex); err != nil {
				return err
			}
		}
	}

	return nil
}

// retryNonConvergence implements the one-retry failure semantics of
// spec §4.8: hle1 already retries internally with relaxed stability
// bounds, so a NoConvergence reaching here has already exhausted that
// budget and the cell is aborted for this substep.
func (d *Domain) retryNonConvergence(err error, cellIndex int) error {
	if serr, ok := err.(*Error); ok && serr.Kind == NoConvergence {
		d.Log.WithField("cell", cellIndex).Warn("hle1 did not converge; freezing cell state for this substep")
		return nil
	}
	return err
}

// emit builds and writes both output records for s at its current
// accumulator state, then resets the time-weighted accumulators
// (spec §3: "reset on each output").
func (d *Domain) emit(s *SnowcoverState, cellIndex int) error {
	if d.Sink == nil || s.TimeSinceOut <= 0 {
		return nil
	}

	timeHrs := s.CurrentTime / 3600

	n := s.TimeSinceOut
	rnBar, hBar, lveBar := s.RNBar/n, s.HBar/n, s.LvEBar/n
	gBar, mBar := s.GBar/n, s.MBar/n
	deltaQBar := s.DeltaQBar / n

	ebRec := EnergyBalanceRecord{
		Cell:           cellIndex,
		TimeHrs:        timeHrs,
		NetRad:         rnBar,
		SensibleHeat:   hBar,
		LatentHeat:     lveBar,
		SnowSoil:       gBar,
		PrecipAdvected: mBar,
		SumEB:          deltaQBar,
		Evaporation:    s.EsSum,
		Snowmelt:       s.MeltSum,
		SWI:            s.RoPredSum,
		ColdContent:    s.CCS,
	}
	if err := d.Sink.WriteEnergyBalance(ebRec); err != nil {
		return newError(IoError, cellIndex, s.CurrentTime, "write energy balance record", err)
	}

	// Output records always report Celsius, regardless of temps_in_C;
	// internal state is always Kelvin. Neither this function nor the
	// sinks in package output consult temps_in_C.
	tempSurf := s.TS0 - FREEZE
	tempLower := s.TSL - FREEZE
	tempBulk := s.TS - FREEZE

	waterSatPct := 0.0
	if s.H2OMax > 0 {
		waterSatPct = 100 * s.H2O / s.H2OMax
	}

	scRec := SnowcoverRecord{
		Cell:                   cellIndex,
		TimeHrs:                timeHrs,
		Thickness:              s.ZS,
		SnowDensity:            s.Rho,
		SpecificMass:           s.MS,
		LiquidWater:            s.H2O,
		TempSurf:               tempSurf,
		TempLower:              tempLower,
		TempSnowcover:          tempBulk,
		ThicknessLower:         s.ZSL,
		WaterSaturationPercent: waterSatPct,
	}
	if err := d.Sink.WriteSnowcover(scRec); err != nil {
		return newError(IoError, cellIndex, s.CurrentTime, "write snowcover record", err)
	}

	s.RNBar, s.HBar, s.LvEBar = 0, 0, 0
	s.GBar, s.G0Bar, s.MBar = 0, 0, 0
	s.DeltaQBar, s.DeltaQ0Bar = 0, 0
	s.TimeSinceOut = 0

	return nil
}
