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

package archive

import (
	"fmt"
	"path/filepath"
	"strings"
)

// excludedExtensions are member extensions that are never UnityFS bundles,
// used to skip obvious non-candidates (patch files, metadata, readmes)
// when auto-detecting the one bundle-like member of an archive. UnityFS
// bundles are commonly shipped without any extension at all, so detection
// works by exclusion rather than by a positive extension allowlist.
var excludedExtensions = map[string]bool{
	".xdelta": true,
	".vcdiff": true,
	".txt":    true,
	".md":     true,
	".json":   true,
	".nfo":    true,
	".zip":    true,
	".7z":     true,
	".rar":    true,
}

// IsBundleCandidate reports whether filename could plausibly be a UnityFS
// bundle member: no excluded extension, and not a directory entry.
func IsBundleCandidate(filename string) bool {
	if strings.HasSuffix(filename, "/") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(filename))
	return !excludedExtensions[ext]
}

// DetectBundleMember finds the sole bundle-like candidate member in arc.
// It fails with SelectionError if there are zero or more than one
// candidates, since auto-detection only works when the archive is
// unambiguous.
func DetectBundleMember(arc Archive) (string, error) {
	files, err := arc.List()
	if err != nil {
		return "", fmt.Errorf("list archive files: %w", err)
	}

	var candidates []string
	for _, file := range files {
		if IsBundleCandidate(file.Name) {
			candidates = append(candidates, file.Name)
		}
	}

	switch len(candidates) {
	case 0:
		return "", NoBundleMemberError{}
	case 1:
		return candidates[0], nil
	default:
		return "", SelectionError{Candidates: candidates}
	}
}
