// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-unitydelta.
//
// go-unitydelta is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-unitydelta is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-unitydelta.  If not, see <https://www.gnu.org/licenses/>.

package unitydelta

import (
	"fmt"
	"os"
	"time"
)

// logStepStart prints a one-line progress marker to stderr and returns the
// start time for a matching logStepDone call, the style the reference CLI
// uses for decompress/extract/patch/recompress phases.
func logStepStart(label string) time.Time {
	fmt.Fprintf(os.Stderr, "%s...\n", label)
	return time.Now()
}

func logStepDone(label string, start time.Time) {
	fmt.Fprintf(os.Stderr, "%s done in %.1fs\n", label, time.Since(start).Seconds())
}

func logWarn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}
