// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/edit_test.go
// Summary: Tests for line and character insert/delete sequences.

package vterm

import "testing"

// TestInsertLines verifies IL shifts rows down within the buffer,
// preserving the row count.
func TestInsertLines(t *testing.T) {
	h := newHarness(10, 4)
	h.feed("\x1b[1;1Haaa\r\nbbb\r\nccc\r\nddd")
	h.feed("\x1b[2;1H\x1b[L")

	want := []string{"aaa", "", "bbb", "ccc"}
	for y, w := range want {
		if got := h.rowText(y); got != w {
			t.Errorf("row %d = %q, want %q", y, got, w)
		}
	}
	if _, rows := h.v.Screen().Size(); rows != 4 {
		t.Errorf("row count = %d", rows)
	}
}

// TestDeleteLines verifies DL shifts rows up and blanks the bottom.
func TestDeleteLines(t *testing.T) {
	h := newHarness(10, 4)
	h.feed("\x1b[1;1Haaa\r\nbbb\r\nccc\r\nddd")
	h.feed("\x1b[2;1H\x1b[2M")

	want := []string{"aaa", "ddd", "", ""}
	for y, w := range want {
		if got := h.rowText(y); got != w {
			t.Errorf("row %d = %q, want %q", y, got, w)
		}
	}
}

// TestDeleteCharacters verifies DCH shifts the row left, preserving its
// length.
func TestDeleteCharacters(t *testing.T) {
	h := newHarness(10, 3)
	h.feed("\x1b[1;1Habcdefgh")
	h.feed("\x1b[1;3H\x1b[2P")
	if got := h.rowText(0); got != "abefgh" {
		t.Errorf("row = %q, want %q", got, "abefgh")
	}
	if got := len(h.v.Screen().LineAt(0).Cells); got != 10 {
		t.Errorf("row length = %d, want 10", got)
	}
}

// TestInsertCharacters verifies ICH shifts cells right and drops the
// overflow.
func TestInsertCharacters(t *testing.T) {
	h := newHarness(8, 3)
	h.feed("\x1b[1;1Habcdefg")
	h.feed("\x1b[1;3H\x1b[3@")
	if got := h.rowText(0); got != "ab   cde" {
		t.Errorf("row = %q, want %q", got, "ab   cde")
	}
	if got := len(h.v.Screen().LineAt(0).Cells); got != 8 {
		t.Errorf("row length = %d, want 8", got)
	}
}

// TestEditDefaultsToOne verifies the default count of 1 for L/M/P/@.
func TestEditDefaultsToOne(t *testing.T) {
	h := newHarness(10, 3)
	h.feed("\x1b[1;1Habc")
	h.feed("\x1b[1;1H\x1b[P")
	if got := h.rowText(0); got != "bc" {
		t.Errorf("after DCH: %q", got)
	}
	h.feed("\x1b[1;1H\x1b[@")
	if got := h.rowText(0); got != " bc" {
		t.Errorf("after ICH: %q", got)
	}
}
