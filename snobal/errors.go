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

import "fmt"

// ErrorKind classifies the failure modes the core can surface. See
// spec §7 for the propagation rules for each kind.
type ErrorKind int

const (
	// DomainError indicates a numerical input outside its physical
	// range, e.g. a non-positive absolute temperature passed to sati.
	DomainError ErrorKind = iota
	// InvalidPrecip indicates percent_snow > 0 with snow_density <= 0.
	InvalidPrecip
	// NoConvergence indicates a stability iteration exceeded its
	// retry budget.
	NoConvergence
	// Invariant indicates mass or energy bookkeeping is inconsistent;
	// this is a programming bug and is never recovered.
	Invariant
	// IoError indicates an opaque failure from an output sink.
	IoError
)

func (k ErrorKind) String() string {
	switch k {
	case DomainError:
		return "DomainError"
	case InvalidPrecip:
		return "InvalidPrecip"
	case NoConvergence:
		return "NoConvergence"
	case Invariant:
		return "Invariant"
	case IoError:
		return "IoError"
	default:
		return "UnknownError"
	}
}

// Error is the error type returned by the core. It carries enough
// context for a driver to print "the failing cell coordinates, the
// current simulated time, and the error kind" as required by spec §7.
type Error struct {
	Kind    ErrorKind
	Cell    int     // index of the cell the error occurred in, or -1
	Time    float64 // simulated time in seconds since run start
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("snobal: %s at cell %d, t=%.1fs: %s: %v",
			e.Kind, e.Cell, e.Time, e.Message, e.Cause)
	}
	return fmt.Sprintf("snobal: %s at cell %d, t=%.1fs: %s",
		e.Kind, e.Cell, e.Time, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Kind, so that
// callers can write errors.Is(err, &snobal.Error{Kind: snobal.Invariant}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind ErrorKind, cell int, t float64, message string, cause error) *Error {
	return &Error{Kind: kind, Cell: cell, Time: t, Message: message, Cause: cause}
}
