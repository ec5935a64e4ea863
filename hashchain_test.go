// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestParams() CParams {
	p := CParams{HashLog: 10, ChainLog: 10, SearchLog: 4, WindowLog: 16, MinMatch: 4, RowLog: 4}
	p.ApplyDefaults()
	return p
}

func TestHashChainFindsExactRepeat(t *testing.T) {
	// Leading 'X' keeps the first phrase off position 0, which is the
	// reserved emptyPos and never a candidate.
	src := []byte("Xthe quick brown fox jumps over the quick brown fox")
	w := &Window{Base: src, DictBase: src, NextSrc: uint32(len(src))}

	p := newTestParams()
	hc := NewHashChain(p)

	curr := uint32(32) // second "the quick brown fox"
	hc.update(w, curr)

	cmp := matchCmp{w: w, curr: curr, iend: uint32(len(src))}
	ml, off := hc.findBestMatch(w, curr, p.WindowLog, p.SearchLog, cmp)

	require.GreaterOrEqual(t, ml, uint32(4))
	require.Equal(t, uint32(31), off) // "the quick..." starts at index 1
}

func TestHashChainNoMatchOnNovelData(t *testing.T) {
	src := []byte("abcdefghijklmnopqrstuvwxyz0123456789")
	w := &Window{Base: src, DictBase: src, NextSrc: uint32(len(src))}

	p := newTestParams()
	hc := NewHashChain(p)
	hc.update(w, 10)

	cmp := matchCmp{w: w, curr: 10, iend: uint32(len(src))}
	ml, _ := hc.findBestMatch(w, 10, p.WindowLog, p.SearchLog, cmp)
	require.Zero(t, ml)
}

func TestHashChainResetClearsTables(t *testing.T) {
	p := newTestParams()
	hc := NewHashChain(p)
	src := []byte("aaaaaaaaaaaaaaaaaaaa")
	w := &Window{Base: src, DictBase: src, NextSrc: uint32(len(src))}
	hc.update(w, uint32(len(src)))

	nonEmpty := false
	for _, v := range hc.hashTable {
		if v != emptyPos {
			nonEmpty = true
			break
		}
	}
	require.True(t, nonEmpty)

	hc.reset(0)
	for _, v := range hc.hashTable {
		require.Equal(t, emptyPos, v)
	}
	require.Equal(t, uint32(0), hc.nextToUpdate)
}
