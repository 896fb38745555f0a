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

package archive_test

import (
	"errors"
	"testing"

	"github.com/ZaparooProject/go-unitydelta/archive"
)

func TestIsBundleCandidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		want     bool
	}{
		{"bundle", true},
		{"data.unity3d", true},
		{"CAB-abcdef0123456789", true},
		{"patch.xdelta", false},
		{"patch.vcdiff", false},
		{"readme.txt", false},
		{"README.TXT", false},
		{"notes.md", false},
		{"manifest.json", false},
		{"info.nfo", false},
		{"nested.zip", false},
		{"archive.7z", false},
		{"archive.rar", false},
		{"folder/", false},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			t.Parallel()

			got := archive.IsBundleCandidate(tt.filename)
			if got != tt.want {
				t.Errorf("IsBundleCandidate(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestDetectBundleMember_FindsSoleCandidate(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	files := map[string][]byte{
		"readme.txt": []byte("readme"),
		"bundle":     make([]byte, 100),
		"notes.md":   []byte("notes"),
	}
	zipPath := createTestZIP(t, tmpDir, "bundles.zip", files)

	arc, err := archive.Open(zipPath)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer func() { _ = arc.Close() }()

	member, err := archive.DetectBundleMember(arc)
	if err != nil {
		t.Fatalf("detect bundle member: %v", err)
	}

	if member != "bundle" {
		t.Errorf("got %q, want %q", member, "bundle")
	}
}

func TestDetectBundleMember_NoCandidates(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	files := map[string][]byte{
		"readme.txt": []byte("readme"),
		"notes.md":   []byte("notes"),
	}
	zipPath := createTestZIP(t, tmpDir, "nocandidates.zip", files)

	arc, err := archive.Open(zipPath)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer func() { _ = arc.Close() }()

	_, err = archive.DetectBundleMember(arc)
	if err == nil {
		t.Error("expected error for archive with no bundle candidates")
	}

	var noMemberErr archive.NoBundleMemberError
	if !errors.As(err, &noMemberErr) {
		t.Errorf("expected NoBundleMemberError, got %T", err)
	}
}

func TestDetectBundleMember_Ambiguous(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	files := map[string][]byte{
		"bundle1": make([]byte, 100),
		"bundle2": make([]byte, 200),
	}
	zipPath := createTestZIP(t, tmpDir, "multibundle.zip", files)

	arc, err := archive.Open(zipPath)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer func() { _ = arc.Close() }()

	_, err = archive.DetectBundleMember(arc)
	if err == nil {
		t.Error("expected error for archive with multiple bundle candidates")
	}

	var selErr archive.SelectionError
	if !errors.As(err, &selErr) {
		t.Errorf("expected SelectionError, got %T", err)
	}
	if len(selErr.Candidates) != 2 {
		t.Errorf("got %d candidates, want 2", len(selErr.Candidates))
	}
}
