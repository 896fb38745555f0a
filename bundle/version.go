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

package bundle

import "strconv"

// EngineVersion is the (major, minor, patch) triple parsed out of a bundle's
// version_engine string (e.g. "2021.3.16f1" -> {2021, 3, 16}).
type EngineVersion struct {
	Major, Minor, Patch int
	valid               bool
}

// ParseEngineVersion extracts the first three runs of ASCII digits from s,
// interpreting them as major.minor.patch. It tolerates arbitrary separators
// and a trailing non-numeric suffix (release type letters, build hash).
// It reports !ok when fewer than three numeric groups are present, matching
// the reference tool's behavior of treating unparsed strings as version-gate
// false rather than erroring.
func ParseEngineVersion(s string) (v EngineVersion, ok bool) {
	var nums []int
	var current []byte
	flush := func() {
		if len(current) == 0 {
			return
		}
		if n, err := strconv.Atoi(string(current)); err == nil {
			nums = append(nums, n)
		}
		current = current[:0]
	}
	for i := 0; i < len(s) && len(nums) < 3; i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			current = append(current, c)
		} else {
			flush()
		}
	}
	if len(nums) < 3 {
		flush()
	}
	if len(nums) < 3 {
		return EngineVersion{}, false
	}
	return EngineVersion{Major: nums[0], Minor: nums[1], Patch: nums[2], valid: true}, true
}

// AtLeast reports whether v is >= (major, minor, patch) under lexicographic
// ordering of the triple. An invalid (zero-value) EngineVersion is never
// AtLeast anything.
func (v EngineVersion) AtLeast(major, minor, patch int) bool {
	if !v.valid {
		return false
	}
	if v.Major != major {
		return v.Major > major
	}
	if v.Minor != minor {
		return v.Minor > minor
	}
	return v.Patch >= patch
}

// UsesNewArchiveFlags reports whether this engine version moved the
// encryption/padding bit meanings to their post-2020 positions. Unity
// versions 2020.3.34+, 2021.3.2+, 2022.1.1+, and any 2023+ build use the new
// flag layout; everything else uses the old one.
func (v EngineVersion) UsesNewArchiveFlags() bool {
	if !v.valid {
		return false
	}
	switch {
	case v.Major < 2020:
		return false
	case v.Major == 2020:
		return v.AtLeast(2020, 3, 34)
	case v.Major == 2021:
		return v.AtLeast(2021, 3, 2)
	case v.Major == 2022:
		return v.AtLeast(2022, 1, 1)
	default:
		return true
	}
}
