// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildDDSSAndFindMatch(t *testing.T) {
	dict := []byte("the quick brown fox jumps over the lazy dog")
	p := newTestParams()
	d := BuildDDSS(dict, p)

	live := []byte("the quick brown fox again")
	w := &Window{Base: live, DictBase: dict, DictLimit: uint32(len(dict)), LowLimit: 0, NextSrc: uint32(len(live)), LoadedDictEnd: uint32(len(dict))}

	curr := w.DictLimit // start of the live prefix
	cmp := matchCmp{w: w, curr: curr, iend: w.DictLimit + uint32(len(live))}

	ml, off := d.findBestMatch(w, curr, w.DictLimit, p.SearchLog, cmp)
	require.GreaterOrEqual(t, ml, uint32(4))
	require.Greater(t, off, uint32(0))
}

func TestDDSSNoMatchForNovelData(t *testing.T) {
	dict := []byte("completely unrelated dictionary contents here")
	p := newTestParams()
	d := BuildDDSS(dict, p)

	live := []byte("0123456789ZYXWVUTSRQPONMLK")
	w := &Window{Base: live, DictBase: dict, DictLimit: uint32(len(dict)), LowLimit: 0, NextSrc: uint32(len(live)), LoadedDictEnd: uint32(len(dict))}

	curr := w.DictLimit
	cmp := matchCmp{w: w, curr: curr, iend: w.DictLimit + uint32(len(live))}

	ml, _ := d.findBestMatch(w, curr, w.DictLimit, p.SearchLog, cmp)
	require.Zero(t, ml)
}

func TestPackUnpackChainPtr(t *testing.T) {
	v := packChainPtr(1234, 56)
	start, length := unpackChainPtr(v)
	require.Equal(t, uint32(1234), start)
	require.Equal(t, uint32(56), length)
}

func TestPackChainPtrClampsLength(t *testing.T) {
	v := packChainPtr(5, 1000)
	_, length := unpackChainPtr(v)
	require.Equal(t, uint32(ddssMaxChainLen), length)
}
