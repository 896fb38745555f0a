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
	"runtime"
	"strings"

	"github.com/ZaparooProject/go-unitydelta/bundle"
)

// NormalizeEntryPath converts backslashes to forward slashes and, on
// Windows, lowercases the result, matching the
// normalization entry selection and auto-detection both key on.
func NormalizeEntryPath(path string) string {
	normalized := strings.ReplaceAll(path, "\\", "/")
	if runtime.GOOS == "windows" {
		normalized = strings.ToLower(normalized)
	}
	return normalized
}

// SelectEntry picks the entry matching selector: first by exact
// (normalized) path equality, then by (normalized) path-suffix equality.
// An empty selector with exactly one entry selects it trivially; an empty
// selector with more than one entry is the caller's cue to auto-detect
// instead of calling SelectEntry.
func SelectEntry(entries []bundle.DirectoryEntry, selector string) (int, error) {
	if len(entries) == 0 {
		return 0, ErrNoEntries
	}
	if selector == "" {
		if len(entries) == 1 {
			return 0, nil
		}
		return 0, AmbiguousEntryError{Matches: entryPaths(entries)}
	}

	target := NormalizeEntryPath(selector)

	var exact []int
	for i, e := range entries {
		if NormalizeEntryPath(e.Path) == target {
			exact = append(exact, i)
		}
	}
	switch len(exact) {
	case 1:
		return exact[0], nil
	case 0:
		// fall through to suffix matching
	default:
		return 0, AmbiguousEntryError{Selector: selector, Matches: pathsAt(entries, exact)}
	}

	var suffix []int
	for i, e := range entries {
		if strings.HasSuffix(NormalizeEntryPath(e.Path), target) {
			suffix = append(suffix, i)
		}
	}
	switch len(suffix) {
	case 1:
		return suffix[0], nil
	case 0:
		return 0, EntryNotFoundError{Selector: selector}
	default:
		return 0, AmbiguousEntryError{Selector: selector, Matches: pathsAt(entries, suffix)}
	}
}

func entryPaths(entries []bundle.DirectoryEntry) []string {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}

func pathsAt(entries []bundle.DirectoryEntry, indices []int) []string {
	paths := make([]string, len(indices))
	for i, idx := range indices {
		paths[i] = entries[idx].Path
	}
	return paths
}
