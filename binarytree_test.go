// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBinaryTreeFindsRepeat(t *testing.T) {
	// Leading 'X' keeps the first occurrence off position 0, which is the
	// reserved emptyPos and never a candidate.
	src := []byte("Xbanana bandana banana bandana")
	w := &Window{Base: src, DictBase: src, NextSrc: uint32(len(src))}

	p := newTestParams()
	bt := NewBinaryTree(p)

	// Index everything up to the second "banana bandana" occurrence.
	secondStart := uint32(16)
	bt.updateDUBT(w, secondStart)

	cmp := matchCmp{w: w, curr: secondStart, iend: uint32(len(src))}
	ml, off := bt.findBestMatch(w, secondStart, p.WindowLog, p.SearchLog, cmp)

	require.GreaterOrEqual(t, ml, uint32(4))
	require.Equal(t, secondStart-1, off) // first occurrence starts at index 1
}

func TestBinaryTreeFindInDictDoesNotMutate(t *testing.T) {
	// findInDict is used to query an already fully sorted dictionary tree on
	// behalf of a live session's query bytes (MatchState.mergeDictMatch):
	// unlike updateDUBT, which only chains new entries unsorted, a
	// dictionary MatchState's tree is fully sorted (via AttachDict ->
	// finalizeDict) by the time it is attached. Model that directly: splice
	// position 1 in as a sorted leaf (position 0 is the reserved emptyPos).
	src := []byte("XZZZZhello ZZZZworld")
	w := &Window{Base: src, DictBase: src, NextSrc: uint32(len(src))}

	p := newTestParams()
	bt := NewBinaryTree(p)

	key := hashPtr(w.byteAt(1), bt.hashLog, bt.mls)
	*bt.small(1) = emptyPos
	*bt.large(1) = emptyPos
	bt.hashTable[key] = 1
	bt.nextToUpdate = 2

	before := bt.nextToUpdate
	query := w.byteAt(11) // "ZZZZworld"
	ml, dictIndex := bt.findInDict(query, w, 0)

	require.GreaterOrEqual(t, ml, uint32(4))
	require.Equal(t, uint32(1), dictIndex)
	require.Equal(t, before, bt.nextToUpdate, "findInDict must not advance nextToUpdate")
}

func TestBinaryTreeNoMatchOnNovelData(t *testing.T) {
	src := []byte("abcdefghijklmnopqrstuvwxyz0123456789")
	w := &Window{Base: src, DictBase: src, NextSrc: uint32(len(src))}

	p := newTestParams()
	bt := NewBinaryTree(p)
	bt.updateDUBT(w, 10)

	cmp := matchCmp{w: w, curr: 10, iend: uint32(len(src))}
	ml, _ := bt.findBestMatch(w, 10, p.WindowLog, p.SearchLog, cmp)
	require.Zero(t, ml)
}
