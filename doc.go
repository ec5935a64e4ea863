// SPDX-License-Identifier: GPL-2.0-only

/*
Package lazyseq implements the lazy match-finding core of a dictionary-based
LZ77-family block compressor: the inner loop shared by "greedy", "lazy",
"lazy2", and "btlazy2" strategies.

Given a block of uncompressed bytes, CompressBlock walks a sliding window,
searches one of three interchangeable match indexes (hash chain, binary
tree, or row-hash), and emits a stream of (literalLength, matchOffset,
matchLength) sequences through a caller-supplied SeqStore. It does not do
entropy coding, block framing, or frame I/O — those are external
collaborators that consume the sequence stream.

# Indexes

Three index families address the same Window:

  - HashChain: a hash table pointing at a singly linked chain of prior
    positions per bucket (see hashchain.go).
  - BinaryTree (DUBT): a per-bucket binary search tree with deferred
    sorting (see binarytree.go).
  - RowHash: a tag-accelerated row table that narrows candidates with a
    cheap byte compare before full verification (see rowhash.go).

A read-only DedicatedDictSearch (DDSS) layout exists for pre-baked
dictionaries (see ddss.go).

# Usage

	ms, err := NewMatchState(CParams{HashLog: 17, ChainLog: 17, SearchLog: 4, WindowLog: 20, MinMatch: 4}, StrategyLazy, SearchHashChain, DictNone)
	ms.Window = Window{Base: src, DictBase: src}
	store := NewSeqStore(0)
	rep := [2]uint32{0, 0}
	litRemaining, err := CompressBlock(ms, store, &rep, src)

The caller owns repeat-offset history across blocks (rep), the literal/byte
buffers, and the framing around the sequence stream.
*/
package lazyseq
