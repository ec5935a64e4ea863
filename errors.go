// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

import "errors"

// Sentinel errors for match-state construction and parsing.
var (
	// ErrBadCParams is returned when a CParams field (hashLog, chainLog,
	// searchLog, windowLog, minMatch) is out of its legal range.
	ErrBadCParams = errors.New("lazyseq: invalid compression parameters")

	// ErrUnsupportedCombination is returned when the (dictMode, searchMethod)
	// pair names a dispatch cell this module leaves unimplemented — currently
	// DedicatedDictSearch or ExtDict combined with the binary-tree method.
	ErrUnsupportedCombination = errors.New("lazyseq: unsupported (dictMode, searchMethod) combination")

	// ErrWindowTooSmall names a table or buffer smaller than cParams
	// requires. No function in this package returns it: every index table is
	// allocated here at the size cParams gives.
	ErrWindowTooSmall = errors.New("lazyseq: window/table backing store too small for cParams")

	// ErrInternal is returned by CompressBlock when it is given a nil
	// MatchState or SeqStore, or when the parser reaches emission with a
	// match shorter than minMatch. Callers can use
	// errors.Is(err, lazyseq.ErrInternal).
	ErrInternal = errors.New("lazyseq: internal match-finder invariant violated")
)
