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

// Command snobal runs the two-layer snowcover energy- and
// mass-balance model.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spatialmodel/snobal/snobal"
)

func main() {
	if err := Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a returned error to the exit status spec §6 defines:
// 0 success, 1 invariant failure, 2 non-convergence, 3 invalid input.
func exitCode(err error) int {
	var serr *snobal.Error
	if errors.As(err, &serr) {
		switch serr.Kind {
		case snobal.Invariant:
			return 1
		case snobal.NoConvergence:
			return 2
		case snobal.InvalidPrecip, snobal.DomainError:
			return 3
		}
	}
	return 1
}
