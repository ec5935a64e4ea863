// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindSequencesOneShot(t *testing.T) {
	src := []byte("hello hello hello hello hello hello hello hello")
	opts := &Options{
		Params:   CParams{HashLog: 12, ChainLog: 12, SearchLog: 4, WindowLog: 18, MinMatch: 4, RowLog: 4},
		Strategy: StrategyLazy,
		Method:   SearchHashChain,
		DictMode: DictNone,
	}
	var rep [2]uint32
	store, litRemaining, err := FindSequences(opts, src, &rep)
	require.NoError(t, err)
	require.NotNil(t, store)
	require.NotEmpty(t, store.Sequences, "a highly repetitive block should emit at least one match sequence")
	require.GreaterOrEqual(t, litRemaining, 0)
}

func TestFindSequencesDefaultOptions(t *testing.T) {
	src := []byte("abababababababababababababababababab")
	var rep [2]uint32
	store, _, err := FindSequences(nil, src, &rep)
	require.NoError(t, err)
	require.NotNil(t, store)
}

func TestSequencerReuseAcrossBlocks(t *testing.T) {
	opts := &Options{
		Params:   CParams{HashLog: 12, ChainLog: 12, SearchLog: 4, WindowLog: 18, MinMatch: 4, RowLog: 4},
		Strategy: StrategyGreedy,
		Method:   SearchRowHash,
		DictMode: DictNone,
	}
	seq, err := NewSequencer(opts)
	require.NoError(t, err)

	blocks := [][]byte{
		[]byte("repeat repeat repeat repeat data"),
		[]byte("another another another another block"),
	}
	for _, b := range blocks {
		var rep [2]uint32
		store, _, err := seq.FindSequences(b, &rep)
		require.NoError(t, err)
		require.NotNil(t, store)
		seq.ReleaseSequences(store)
	}
}

func TestNewMatchStateRejectsBadParams(t *testing.T) {
	_, err := NewMatchState(CParams{MinMatch: 99}, StrategyLazy, SearchHashChain, DictNone)
	require.ErrorIs(t, err, ErrBadCParams)
}

func TestNewMatchStateRejectsUnsupportedDDSSBinaryTree(t *testing.T) {
	_, err := NewMatchState(CParams{}, StrategyLazy, SearchBinaryTree, DictDedicatedDictSearch)
	require.ErrorIs(t, err, ErrUnsupportedCombination)
}

func TestNewMatchStateRejectsExtDictBinaryTree(t *testing.T) {
	_, err := NewMatchState(CParams{}, StrategyLazy, SearchBinaryTree, DictExtDict)
	require.ErrorIs(t, err, ErrUnsupportedCombination)
}
