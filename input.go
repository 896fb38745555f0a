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
	"io"
	"os"

	"github.com/ZaparooProject/go-unitydelta/archive"
)

// resolveInput turns inputPath into a plain filesystem path to a bundle,
// extracting it from a zip/7z/rar archive into scr first if inputPath
// references one. For a bare archive path, the sole bundle-like member is
// auto-detected; for a combined path like "mod.zip/data/bundle", that exact
// member is used.
func resolveInput(inputPath string, scr *scratch) (string, error) {
	parsed, err := archive.ParsePath(inputPath)
	if err != nil {
		return "", fmt.Errorf("parse input path: %w", err)
	}
	if parsed == nil {
		return inputPath, nil
	}

	arc, err := archive.Open(parsed.ArchivePath)
	if err != nil {
		return "", fmt.Errorf("open archive %s: %w", parsed.ArchivePath, err)
	}
	defer func() { _ = arc.Close() }()

	internalPath := parsed.InternalPath
	if internalPath == "" {
		internalPath, err = archive.DetectBundleMember(arc)
		if err != nil {
			return "", fmt.Errorf("auto-detect bundle member in %s: %w", parsed.ArchivePath, err)
		}
	}

	reader, _, err := arc.Open(internalPath)
	if err != nil {
		return "", fmt.Errorf("open %s in archive: %w", internalPath, err)
	}
	defer func() { _ = reader.Close() }()

	extractedPath := scr.path("input.bundle")
	out, err := os.Create(extractedPath)
	if err != nil {
		return "", fmt.Errorf("create extracted bundle: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", fmt.Errorf("extract %s from archive: %w", internalPath, err)
	}
	return extractedPath, nil
}
