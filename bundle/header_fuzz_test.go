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

import (
	"os"
	"path/filepath"
	"testing"
)

// FuzzRead throws arbitrary bytes at the UnityFS header parser. Read must
// never panic and must never succeed on structurally invalid input; it
// either returns a populated Bundle or an error.
func FuzzRead(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("UnityFS"))
	f.Add([]byte("UnityFS\x00"))
	f.Add(append([]byte("UnityFS\x00"), make([]byte, 64)...))
	f.Add([]byte("NotUnity\x00\x00\x00\x00\x06"))

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 1<<20 {
			return
		}
		dir := t.TempDir()
		path := filepath.Join(dir, "fuzz.bundle")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write fuzz input: %v", err)
		}

		b, err := Read(path)
		if err != nil {
			return
		}
		if b.Signature != expectedSignature {
			t.Errorf("Read succeeded with wrong signature %q", b.Signature)
		}
	})
}
