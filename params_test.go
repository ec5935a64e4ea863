// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCParamsVerifyAcceptsFullMinMatchRange(t *testing.T) {
	for _, mm := range []uint{3, 4, 5, 6, 7} {
		p := CParams{HashLog: 10, ChainLog: 10, SearchLog: 4, WindowLog: 16, MinMatch: mm, RowLog: 4}
		require.NoError(t, p.Verify(), "MinMatch=%d", mm)
	}
}

func TestCParamsVerifyRejectsOutOfRangeMinMatch(t *testing.T) {
	for _, mm := range []uint{0, 2, 8, 100} {
		p := CParams{HashLog: 10, ChainLog: 10, SearchLog: 4, WindowLog: 16, MinMatch: mm, RowLog: 4}
		require.ErrorIs(t, p.Verify(), ErrBadCParams, "MinMatch=%d", mm)
	}
}

func TestCParamsMLSClampsToHashDigestRange(t *testing.T) {
	cases := []struct {
		minMatch uint
		wantMLS  uint
	}{
		{minMatch: 3, wantMLS: 4},
		{minMatch: 4, wantMLS: 4},
		{minMatch: 5, wantMLS: 5},
		{minMatch: 6, wantMLS: 6},
		{minMatch: 7, wantMLS: 6},
	}
	for _, c := range cases {
		p := CParams{MinMatch: c.minMatch}
		require.Equal(t, c.wantMLS, p.mls(), "MinMatch=%d", c.minMatch)
	}
}

func TestNewMatchStateAcceptsSpecLegalMinMatchBounds(t *testing.T) {
	for _, mm := range []uint{3, 7} {
		p := CParams{HashLog: 10, ChainLog: 10, SearchLog: 4, WindowLog: 16, MinMatch: mm, RowLog: 4}
		ms, err := NewMatchState(p, StrategyLazy, SearchHashChain, DictNone)
		require.NoError(t, err, "MinMatch=%d", mm)
		require.NotNil(t, ms)
	}
}
