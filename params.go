// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

import "math/bits"

// Strategy selects the lazy parser's look-ahead depth.
type Strategy int

const (
	// StrategyGreedy takes the first match found at each position (depth 0).
	StrategyGreedy Strategy = iota
	// StrategyLazy looks one position ahead before committing (depth 1).
	StrategyLazy
	// StrategyLazy2 looks two positions ahead before committing (depth 2).
	StrategyLazy2
)

// depth returns the look-ahead depth associated with the strategy.
func (s Strategy) depth() int {
	switch s {
	case StrategyGreedy:
		return 0
	case StrategyLazy:
		return 1
	case StrategyLazy2:
		return 2
	default:
		return 0
	}
}

// SearchMethod selects which index family findBestMatch uses.
type SearchMethod int

const (
	SearchHashChain SearchMethod = iota
	SearchBinaryTree
	SearchRowHash
)

// DictMode selects how the window addresses bytes outside the current prefix.
type DictMode int

const (
	// DictNone: no dictionary attached, only the current prefix is searched.
	DictNone DictMode = iota
	// DictMatchState: an attached, fully initialized MatchState serves as a
	// dictionary index; its own tables are searched, not written, during
	// the live session.
	DictMatchState
	// DictDedicatedDictSearch: a read-only DDSS layout serves as the dictionary.
	DictDedicatedDictSearch
	// DictExtDict: a scrolled-off region of the same logical stream, addressed
	// via dictBase/dictLimit rather than a separate attached structure.
	DictExtDict
)

// Tunables governing table sizing and the parser's heuristics.
const (
	// minMatchFloor is the smallest legal cParams.MinMatch (3..7, though the
	// hash mls itself ranges 4..6).
	minMatchFloor = 3
	minMatchCeil  = 7

	mlsFloor = 4
	mlsCeil  = 6

	// kSearchStrength governs the incompressible-skip heuristic's aggressiveness.
	kSearchStrength = 8

	// kPrefetchNb is the hash-cache ring depth for RowHash prefetching.
	kPrefetchNb = 8

	// minMatch (MINMATCH) is the base length subtracted from every match
	// length on emission; no shorter match can be emitted.
	minMatch = 3

	// zstdRepMove biases a raw offset into offsetCode space, reserving
	// {1,2,3} for rep0/rep1/rep0-1.
	zstdRepMove = 3

	// kShortBits is unused directly here (no bit-packed opcode encoding
	// lives in this module — see DESIGN.md) but is retained as a named
	// tunable, part of the core's public tunable surface.
	kShortBits = 8

	// ddssBucketLog is the dedicated-dictionary-search bucket width's log2.
	ddssBucketLog = 4

	// unsortedMark is the DUBT sentinel for an as-yet-unsorted bucket entry.
	unsortedMark = ^uint32(0)

	// emptyPos is the "empty/end-of-chain" sentinel used by every index;
	// logical position 0 is reserved.
	emptyPos = uint32(0)
)

// CParams are the caller-supplied compression parameters.
type CParams struct {
	HashLog   uint // hash table size is 1<<HashLog
	ChainLog  uint // chain table size is 1<<ChainLog (HC); DUBT reuses ChainLog-1
	SearchLog uint // bounds probe attempts: 1<<SearchLog
	WindowLog uint // maximum back-reference window: 1<<WindowLog

	// MinMatch is the caller-facing minimum match length, in [3,7]; it gates
	// emission length directly. The index tables hash on a narrower digest
	// (mls, in [4,6]) — see the mls method, which clamps MinMatch into that
	// range for hashPtr/hashAndTag callers.
	MinMatch uint

	// RowLog selects the RowHash row width: 4 (16 entries) or 5 (32 entries).
	// Ignored unless SearchMethod is SearchRowHash.
	RowLog uint
}

// ApplyDefaults fills zero fields with defaults typical of hash-based
// sequencers (c.f. ulikunitz/lz's HSConfig).
func (p *CParams) ApplyDefaults() {
	if p.HashLog == 0 {
		p.HashLog = 17
	}
	if p.ChainLog == 0 {
		p.ChainLog = 17
	}
	if p.SearchLog == 0 {
		p.SearchLog = 4
	}
	if p.WindowLog == 0 {
		p.WindowLog = 20
	}
	if p.MinMatch == 0 {
		p.MinMatch = 4
	}
	if p.RowLog == 0 {
		p.RowLog = 4
	}
}

// Verify checks cParams for internal consistency, surfaced as a
// constructor-time error rather than a debug-only assertion, since Go has
// no caller-trusted debug-assert convention as strong as a C reference
// implementation's.
func (p CParams) Verify() error {
	if p.HashLog == 0 || p.HashLog > 30 {
		return ErrBadCParams
	}
	if p.ChainLog == 0 || p.ChainLog > 30 {
		return ErrBadCParams
	}
	if p.SearchLog == 0 || p.SearchLog > 30 {
		return ErrBadCParams
	}
	if p.WindowLog == 0 || p.WindowLog > 31 {
		return ErrBadCParams
	}
	if p.MinMatch < minMatchFloor || p.MinMatch > minMatchCeil {
		return ErrBadCParams
	}
	if p.RowLog != 4 && p.RowLog != 5 {
		return ErrBadCParams
	}
	return nil
}

// mls returns the hash digest length the index tables key on, clamping the
// caller's MinMatch (legal range [3,7]) into the [4,6] range hashPtr and
// hashAndTag actually support. MinMatch itself still gates emission length
// unclamped — only the hashing digest is narrowed.
func (p CParams) mls() uint {
	m := p.MinMatch
	if m < mlsFloor {
		m = mlsFloor
	}
	if m > mlsCeil {
		m = mlsCeil
	}
	return m
}

// highBit returns the position of the highest set bit (0 for 0), used by the
// offset/length cost heuristics in the tree descent and the lazy parser.
func highBit(v uint32) uint32 {
	if v == 0 {
		return 0
	}
	return uint32(31 - bits.LeadingZeros32(v))
}
