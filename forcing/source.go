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

// Package forcing reads time-varying atmospheric and precipitation
// forcing and turns it into snobal.InputRecord values, one per cell,
// for each data interval. It is one of the external collaborators the
// core spec deliberately leaves out (spec §1): the core only ever
// sees already-materialized records.
package forcing

import (
	"time"

	"github.com/spatialmodel/snobal/snobal"
)

// Source produces one instant of forcing for every cell in grid
// order (a single-element slice in point mode) on each call to Next,
// until the underlying data is exhausted.
type Source interface {
	// Next returns the forcing for the next data timestamp, that
	// timestamp, whether a record was available, and any read error.
	// ok is false with a nil error at normal end of input.
	Next() (records []*snobal.InputRecord, t time.Time, ok bool, err error)

	// Close releases any underlying file or connection.
	Close() error
}
