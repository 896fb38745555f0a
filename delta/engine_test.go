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

package delta

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestResolve_Override(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("fake binary script is POSIX-shell only")
	}

	dir := t.TempDir()
	fake := filepath.Join(dir, "xdelta3")
	if err := os.WriteFile(fake, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}

	e, err := Resolve(fake)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if e.Path != fake {
		t.Errorf("Path = %q, want %q", e.Path, fake)
	}
}

func TestResolve_OverrideMissing(t *testing.T) {
	t.Parallel()

	_, err := Resolve(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Error("expected error for missing override path")
	}
}

func TestResolve_NotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := Resolve("")
	var notFound NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %T (%v)", err, err)
	}
	if len(notFound.Tried) == 0 {
		t.Error("NotFoundError should record what it tried")
	}
}

func TestEngine_Apply_Success(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("fake binary script is POSIX-shell only")
	}

	dir := t.TempDir()
	fake := filepath.Join(dir, "xdelta3")
	script := "#!/bin/sh\necho applied > \"$5\"\nexit 0\n"
	if err := os.WriteFile(fake, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}

	e := &Engine{Path: fake}
	source := filepath.Join(dir, "source.bin")
	patch := filepath.Join(dir, "patch.xdelta")
	output := filepath.Join(dir, "output.bin")
	for _, p := range []string{source, patch} {
		if err := os.WriteFile(p, []byte("data"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}

	if err := e.Apply(source, patch, output); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("output not created: %v", err)
	}
}

func TestEngine_Apply_Failure(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("fake binary script is POSIX-shell only")
	}

	dir := t.TempDir()
	fake := filepath.Join(dir, "xdelta3")
	if err := os.WriteFile(fake, []byte("#!/bin/sh\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}

	e := &Engine{Path: fake}
	err := e.Apply(filepath.Join(dir, "a"), filepath.Join(dir, "b"), filepath.Join(dir, "c"))
	if !errors.Is(err, ErrEngineFailed) {
		t.Errorf("expected ErrEngineFailed, got %v", err)
	}
}
