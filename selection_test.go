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

package unitydelta_test

import (
	"errors"
	"testing"

	unitydelta "github.com/ZaparooProject/go-unitydelta"
	"github.com/ZaparooProject/go-unitydelta/bundle"
)

func entries(paths ...string) []bundle.DirectoryEntry {
	out := make([]bundle.DirectoryEntry, len(paths))
	for i, p := range paths {
		out[i] = bundle.DirectoryEntry{Path: p, Offset: int64(i), Size: 1}
	}
	return out
}

func TestSelectEntry_ExactMatch(t *testing.T) {
	t.Parallel()

	es := entries("CAB-abc/asset", "CAB-abc/asset.resS")
	idx, err := unitydelta.SelectEntry(es, "CAB-abc/asset.resS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 1 {
		t.Errorf("got index %d, want 1", idx)
	}
}

func TestSelectEntry_SuffixMatch(t *testing.T) {
	t.Parallel()

	es := entries("CAB-abc/asset", "CAB-abc/asset.resS")
	idx, err := unitydelta.SelectEntry(es, "asset.resS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 1 {
		t.Errorf("got index %d, want 1", idx)
	}
}

func TestSelectEntry_NotFound(t *testing.T) {
	t.Parallel()

	es := entries("CAB-abc/asset")
	_, err := unitydelta.SelectEntry(es, "nonexistent")
	var notFound unitydelta.EntryNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected EntryNotFoundError, got %T (%v)", err, err)
	}
}

func TestSelectEntry_AmbiguousSuffix(t *testing.T) {
	t.Parallel()

	es := entries("a/asset", "b/asset")
	_, err := unitydelta.SelectEntry(es, "asset")
	var ambiguous unitydelta.AmbiguousEntryError
	if !errors.As(err, &ambiguous) {
		t.Errorf("expected AmbiguousEntryError, got %T (%v)", err, err)
	}
}

func TestSelectEntry_EmptySelectorSingleEntry(t *testing.T) {
	t.Parallel()

	es := entries("only")
	idx, err := unitydelta.SelectEntry(es, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 0 {
		t.Errorf("got index %d, want 0", idx)
	}
}

func TestSelectEntry_EmptySelectorMultipleEntries(t *testing.T) {
	t.Parallel()

	es := entries("a", "b")
	_, err := unitydelta.SelectEntry(es, "")
	var ambiguous unitydelta.AmbiguousEntryError
	if !errors.As(err, &ambiguous) {
		t.Errorf("expected AmbiguousEntryError, got %T (%v)", err, err)
	}
}

func TestSelectEntry_NoEntries(t *testing.T) {
	t.Parallel()

	_, err := unitydelta.SelectEntry(nil, "anything")
	if !errors.Is(err, unitydelta.ErrNoEntries) {
		t.Errorf("expected ErrNoEntries, got %v", err)
	}
}

func TestNormalizeEntryPath_BackslashConversion(t *testing.T) {
	t.Parallel()

	got := unitydelta.NormalizeEntryPath(`CAB-abc\asset.resS`)
	if got != "CAB-abc/asset.resS" {
		t.Errorf("got %q, want %q", got, "CAB-abc/asset.resS")
	}
}
