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

package main

import (
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func buildCLI(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "unitypatch")
	cmd := exec.Command("go", "build", "-o", binPath, "github.com/ZaparooProject/go-unitydelta/cmd/unitypatch")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build binary: %v\n%s", err, out)
	}
	return binPath
}

// TestCLIVersion tests the -version flag.
func TestCLIVersion(t *testing.T) {
	binPath := buildCLI(t)

	cmd := exec.Command(binPath, "-version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to run -version: %v\n%s", err, output)
	}

	outputStr := string(output)
	if !strings.Contains(outputStr, "unitypatch version") {
		t.Errorf("version output incorrect: %s", outputStr)
	}
}

// TestCLIHelp tests the -h output.
func TestCLIHelp(t *testing.T) {
	binPath := buildCLI(t)

	cmd := exec.Command(binPath, "-h")
	output, err := cmd.CombinedOutput()
	// The flag package exits with status 0 after printing help for -h; an
	// exit status of 2 is accepted as well.
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); !ok || exitErr.ExitCode() != 2 {
			t.Fatalf("failed to run -h: %v\n%s", err, output)
		}
	}

	outputStr := string(output)
	expectedFlags := []string{"-i", "-patch", "-o", "-entry", "-packer", "-list-entries"}
	for _, flag := range expectedFlags {
		if !strings.Contains(outputStr, flag) {
			t.Errorf("help output missing flag %s: %s", flag, outputStr)
		}
	}
}

// TestCLIMissingInput tests that omitting -i is an error.
func TestCLIMissingInput(t *testing.T) {
	binPath := buildCLI(t)

	cmd := exec.Command(binPath)
	if err := cmd.Run(); err == nil {
		t.Error("expected error for missing -i, got nil")
	}
}

// TestCLIMissingPatchAndOutput tests that -i alone, without -patch/-o, is an
// error (unless -list-entries is also given).
func TestCLIMissingPatchAndOutput(t *testing.T) {
	binPath := buildCLI(t)

	testFile := filepath.Join(t.TempDir(), "bundle")
	cmd := exec.Command(binPath, "-i", testFile)
	if err := cmd.Run(); err == nil {
		t.Error("expected error for missing -patch/-o, got nil")
	}
}

// TestCLIInputNotFound tests error handling for a non-existent input bundle.
func TestCLIInputNotFound(t *testing.T) {
	binPath := buildCLI(t)

	dir := t.TempDir()
	cmd := exec.Command(binPath,
		"-i", filepath.Join(dir, "missing.bundle"),
		"-patch", filepath.Join(dir, "missing.xdelta"),
		"-o", filepath.Join(dir, "out.bundle"),
	)
	output, err := cmd.CombinedOutput()
	if err == nil {
		t.Error("expected error for missing input bundle, got nil")
	}
	if !strings.Contains(string(output), "Error") {
		t.Errorf("expected error message on stderr, got: %s", output)
	}
}

// TestCLIInvalidPacker tests error handling for an unrecognized -packer
// value; packer validation happens before the input bundle is even touched,
// so neither the input nor the patch file needs to exist.
func TestCLIInvalidPacker(t *testing.T) {
	binPath := buildCLI(t)

	dir := t.TempDir()
	cmd := exec.Command(binPath,
		"-i", filepath.Join(dir, "bundle"),
		"-patch", filepath.Join(dir, "patch.xdelta"),
		"-o", filepath.Join(dir, "out.bundle"),
		"-packer", "zstd",
	)
	if err := cmd.Run(); err == nil {
		t.Error("expected error for invalid -packer value, got nil")
	}
}

// TestCLIListEntriesMissingInput tests that -list-entries still requires a
// readable input bundle.
func TestCLIListEntriesMissingInput(t *testing.T) {
	binPath := buildCLI(t)

	cmd := exec.Command(binPath, "-i", filepath.Join(t.TempDir(), "missing.bundle"), "-list-entries")
	if err := cmd.Run(); err == nil {
		t.Error("expected error for missing input bundle, got nil")
	}
}
