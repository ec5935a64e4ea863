// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountEqualBytes(t *testing.T) {
	cases := []struct {
		name   string
		a, b   []byte
		aLimit int
		want   int
	}{
		{"identical short", []byte("abc"), []byte("abc"), 3, 3},
		{"identical long word-aligned", []byte("abcdefgh"), []byte("abcdefgh"), 8, 8},
		{"mismatch mid word", []byte("abcdXfgh"), []byte("abcdYfgh"), 8, 4},
		{"mismatch at first byte", []byte("Xbcdefgh"), []byte("Ybcdefgh"), 8, 0},
		{"aLimit truncates", []byte("abcdefgh"), []byte("abcdefgh"), 3, 3},
		{"spans multiple words", []byte("0123456789abcdef"), []byte("0123456789abcdef"), 16, 16},
		{"diverges in second word", []byte("01234567Xabcdef"), []byte("01234567Yabcdef"), 15, 8},
		{"empty", []byte{}, []byte{}, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := count(c.a, c.b, c.aLimit)
			require.Equal(t, c.want, got)
		})
	}
}

func TestCount2Segments(t *testing.T) {
	// First segment exhausted without mismatch; continuation picks up.
	a := []byte("abcdefXYZ")
	seg1 := []byte("abcdef")
	cont := []byte("XYZ123")
	got := count2segments(a, seg1, len(a), cont)
	require.Equal(t, 9, got)

	// Mismatch inside the first segment never reaches the continuation.
	a2 := []byte("abXdef")
	seg1b := []byte("abYdef")
	got2 := count2segments(a2, seg1b, len(a2), cont)
	require.Equal(t, 2, got2)

	// Continuation itself mismatches partway.
	a3 := []byte("abcXYW")
	seg1c := []byte("abc")
	cont2 := []byte("XYZ")
	got3 := count2segments(a3, seg1c, len(a3), cont2)
	require.Equal(t, 5, got3)
}
