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
	"path/filepath"
)

// scratch is the scoped working directory an orchestrator run stages its
// intermediate files in: decompressed data, extracted/patched entries, and
// (in whole-bundle mode) the uncompressed-rewrite bundles. It is removed by
// close unless keep is set, matching the reference tool's --keep-work flag.
type scratch struct {
	dir  string
	keep bool
}

// newScratch creates a fresh temporary directory under root (the current
// directory if root is empty) to stage a single orchestrator run.
func newScratch(root string, keep bool) (*scratch, error) {
	if root == "" {
		var err error
		root, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create work root: %w", err)
	}
	dir, err := os.MkdirTemp(root, "unitydelta-work-")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &scratch{dir: dir, keep: keep}, nil
}

// path joins name onto the scratch directory.
func (s *scratch) path(name string) string {
	return filepath.Join(s.dir, name)
}

// close removes the scratch directory, unless the caller asked to keep it
// (e.g. for post-mortem inspection of a failed patch).
func (s *scratch) close() error {
	if s.keep {
		return nil
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("remove scratch dir: %w", err)
	}
	return nil
}
