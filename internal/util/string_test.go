// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"testing"
	"unicode/utf8"
)

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"truncated with ellipsis", "hello world", 8, "hello..."},
		{"tiny budget", "hello", 2, "he"},
		{"zero budget", "hello", 0, ""},
		{"unicode", "héllo wörld", 8, "héllo..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateRunes(tt.in, tt.max); got != tt.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestTruncateRunesNoEllipsis(t *testing.T) {
	got := TruncateRunesNoEllipsis("你好世界再见", 4)
	if got != "你好世界" {
		t.Errorf("got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Error("invalid UTF-8 after truncation")
	}
	if TruncateRunesNoEllipsis("short", 10) != "short" {
		t.Error("short string modified")
	}
}

func TestTruncateWidth(t *testing.T) {
	// CJK characters occupy two columns each.
	got := TruncateWidth("你好世界", 4)
	if StringWidth(got) > 4 {
		t.Errorf("width = %d after TruncateWidth(_, 4)", StringWidth(got))
	}
	if TruncateWidth("abc", 10) != "abc" {
		t.Error("short string modified")
	}
}

func TestRuneLen(t *testing.T) {
	if RuneLen("héllo") != 5 {
		t.Errorf("RuneLen(héllo) = %d", RuneLen("héllo"))
	}
	if RuneLen("你好") != 2 {
		t.Errorf("RuneLen(你好) = %d", RuneLen("你好"))
	}
}
