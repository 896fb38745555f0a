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

// Package unitydelta drives the patch orchestrator: it resolves an input
// bundle (possibly archive-embedded), selects the target entry, invokes the
// external delta engine, and writes the patched bundle back out, choosing
// between entry-mode and whole-bundle-mode strategies.
package unitydelta

import (
	"errors"
	"fmt"
)

// ErrNoEntries indicates the bundle has no directory entries to select from.
var ErrNoEntries = errors.New("bundle contains no entries")

// EntryNotFoundError indicates the selector matched no entry, by either
// exact path or suffix.
type EntryNotFoundError struct {
	Selector string
}

func (e EntryNotFoundError) Error() string {
	return fmt.Sprintf("no entry matches %q", e.Selector)
}

// AmbiguousEntryError indicates the selector matched more than one entry,
// or, with an empty selector, that the bundle has more than one entry.
type AmbiguousEntryError struct {
	Selector string
	Matches  []string
}

func (e AmbiguousEntryError) Error() string {
	preview := e.Matches
	if len(preview) > 5 {
		preview = preview[:5]
	}
	if e.Selector == "" {
		return fmt.Sprintf("bundle has multiple entries (%d): %v; use -entry to disambiguate", len(e.Matches), preview)
	}
	return fmt.Sprintf("entry %q matches multiple files (%d matches): %v; use -list-entries", e.Selector, len(e.Matches), preview)
}
