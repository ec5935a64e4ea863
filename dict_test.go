// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testDecodeWithDict is testDecode, but seeds the decode buffer with
// dictBytes first so that a back-reference whose offset reaches past the
// live prefix resolves into the dictionary content instead of panicking on
// a negative start index. usedDict reports whether any sequence's raw
// back-reference actually reached into the seeded dictionary region.
func testDecodeWithDict(dictBytes, src []byte, store *basicSeqStore, litRemaining int, rep [2]uint32) (decoded []byte, usedDict bool) {
	out := make([]byte, len(dictBytes), len(dictBytes)+len(src))
	copy(out, dictBytes)
	litPos := 0
	r := RepState{Rep0: rep[0], Rep1: rep[1]}

	for _, seq := range store.Sequences {
		out = append(out, store.Literals[litPos:litPos+int(seq.LitLen)]...)
		litPos += int(seq.LitLen)

		rawOffset := seq.RawOffset(r)
		matchLen := int(seq.MatchLen) + minMatch

		start := len(out) - int(rawOffset)
		if start < len(dictBytes) {
			usedDict = true
		}
		for i := 0; i < matchLen; i++ {
			out = append(out, out[start+i])
		}

		switch seq.OffsetCode {
		case 1:
			r = r.updateRep0()
		case 2:
			r = r.updateRep1()
		default:
			r = r.updateNormal(rawOffset)
		}
	}

	out = append(out, src[len(src)-litRemaining:]...)
	return out[len(dictBytes):], usedDict
}

// buildDictMatchState compresses dictBytes as a throwaway block against
// itself, populating its index tables the way a real session would prime a
// reusable dictionary MatchState once, ahead of attaching it to many live
// sessions via AttachDict.
func buildDictMatchState(t *testing.T, params CParams, method SearchMethod, dictBytes []byte) *MatchState {
	t.Helper()
	dict, err := NewMatchState(params, StrategyLazy, method, DictNone)
	require.NoError(t, err)
	dict.Window = Window{Base: dictBytes, DictBase: dictBytes, NextSrc: uint32(len(dictBytes))}
	dict.resetForSession()

	_, err = CompressBlock(dict, NewSeqStore(0), &[2]uint32{}, dictBytes)
	require.NoError(t, err)
	return dict
}

func TestCompressBlockWithAttachedDictMatchState(t *testing.T) {
	dictBytes := []byte("The quick brown fox jumps over the lazy dog")
	src := []byte("xyzzy plugh wibble wobble zzzzzz The quick brown fox jumps over the lazy dog")
	params := CParams{HashLog: 12, ChainLog: 12, SearchLog: 4, WindowLog: 18, MinMatch: 4, RowLog: 4}

	for _, method := range []SearchMethod{SearchHashChain, SearchBinaryTree, SearchRowHash} {
		t.Run(methodName(method), func(t *testing.T) {
			dict := buildDictMatchState(t, params, method, dictBytes)

			ms, err := NewMatchState(params, StrategyLazy, method, DictMatchState)
			require.NoError(t, err)
			ms.AttachDict(dict)

			dictSize := uint32(len(dictBytes))
			ms.Window = Window{
				Base: src, DictBase: dictBytes,
				DictLimit: dictSize, LowLimit: 0, NextSrc: dictSize,
				LoadedDictEnd: dictSize,
			}
			ms.resetForSession()

			store := NewSeqStore(0)
			var rep [2]uint32
			repIn := rep

			litRemaining, err := CompressBlock(ms, store, &rep, src)
			require.NoError(t, err)

			got, usedDict := testDecodeWithDict(dictBytes, src, store, litRemaining, repIn)
			require.Equal(t, string(src), string(got))
			require.True(t, usedDict, "expected at least one sequence to resolve into the attached dictionary")
		})
	}
}

func TestCompressBlockWithAttachedDDSS(t *testing.T) {
	dictBytes := []byte("The quick brown fox jumps over the lazy dog")
	src := []byte("xyzzy plugh wibble wobble zzzzzz The quick brown fox jumps over the lazy dog")
	params := CParams{HashLog: 12, ChainLog: 12, SearchLog: 4, WindowLog: 18, MinMatch: 4, RowLog: 4}

	for _, method := range []SearchMethod{SearchHashChain, SearchRowHash} {
		t.Run(methodName(method), func(t *testing.T) {
			dds := BuildDDSS(dictBytes, params)

			ms, err := NewMatchState(params, StrategyLazy, method, DictDedicatedDictSearch)
			require.NoError(t, err)
			ms.AttachDDSS(dds)

			dictSize := uint32(len(dictBytes))
			ms.Window = Window{
				Base: src, DictBase: dictBytes,
				DictLimit: dictSize, LowLimit: 0, NextSrc: dictSize,
				LoadedDictEnd: dictSize,
			}
			ms.resetForSession()

			store := NewSeqStore(0)
			var rep [2]uint32
			repIn := rep

			litRemaining, err := CompressBlock(ms, store, &rep, src)
			require.NoError(t, err)

			got, usedDict := testDecodeWithDict(dictBytes, src, store, litRemaining, repIn)
			require.Equal(t, string(src), string(got))
			require.True(t, usedDict, "expected at least one sequence to resolve into the attached DDSS dictionary")
		})
	}
}
