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
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// binaryName is the platform-appropriate xdelta3 executable name.
func binaryName() string {
	if runtime.GOOS == "windows" {
		return "xdelta3.exe"
	}
	return "xdelta3"
}

// Engine runs the external xdelta3 binary located at Path.
type Engine struct {
	Path string
}

// Resolve locates the xdelta3 binary to use. override, if non-empty, must
// point directly at an existing file. Otherwise resolution tries, in
// order: a "runtime/xdelta/<name>" directory next to the running
// executable, then the bare binary name on $PATH.
func Resolve(override string) (*Engine, error) {
	if override != "" {
		if _, err := os.Stat(override); err != nil {
			return nil, fmt.Errorf("xdelta path %q: %w", override, err)
		}
		return &Engine{Path: override}, nil
	}

	var tried []string
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), "runtime", "xdelta", binaryName())
		tried = append(tried, candidate)
		if _, err := os.Stat(candidate); err == nil {
			return &Engine{Path: candidate}, nil
		}
	}

	name := binaryName()
	tried = append(tried, name)
	if resolved, err := exec.LookPath(name); err == nil {
		return &Engine{Path: resolved}, nil
	}

	return nil, NotFoundError{Tried: tried}
}

// Apply runs `xdelta3 -d -s source patch output`, failing loudly (stdout
// and stderr inherited) if the process exits non-zero.
func (e *Engine) Apply(source, patch, output string) error {
	if err := os.RemoveAll(output); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing output: %w", err)
	}

	cmd := exec.Command(e.Path, "-d", "-s", source, patch, output)
	cmd.Stdin = nil
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %v", ErrEngineFailed, err)
	}
	return nil
}
