// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

// Sequence is one (litLen, offsetCode, matchLen) record. offsetCode is
// either zstdRepMove+rawOffset (a normal match) or one of {1,2,3} denoting
// rep0/rep1/rep0-1.
type Sequence struct {
	LitLen     uint32
	OffsetCode uint32
	MatchLen   uint32 // already has MINMATCH subtracted
}

// RawOffset extracts the raw back-reference distance this sequence encodes,
// given the repeat-offset state active when it was emitted.
func (s Sequence) RawOffset(rep RepState) uint32 {
	switch s.OffsetCode {
	case 1:
		return rep.Rep0
	case 2:
		return rep.Rep1
	case 3:
		if rep.Rep0 > 1 {
			return rep.Rep0 - 1
		}
		return 1
	default:
		return s.OffsetCode - zstdRepMove
	}
}

// SeqStore is the append-only sink the parser emits sequences into.
// Implementations must retain literal bytes by reference or copy before
// the next call to StoreSeq.
type SeqStore interface {
	// StoreSeq appends one sequence. literals is the literal run inside
	// the source block that precedes the match;
	// matchLenMinusMinmatch is the match length with MINMATCH already
	// subtracted.
	StoreSeq(litLen uint32, literals []byte, offsetCode uint32, matchLenMinusMinmatch uint32)
}

// basicSeqStore is the default in-memory SeqStore: a plain []byte literal
// accumulator paired with a parallel Sequence slice.
type basicSeqStore struct {
	Sequences []Sequence
	Literals  []byte
}

// NewSeqStore returns a SeqStore that accumulates sequences and literal
// bytes in memory, pre-sized to reduce reallocation for a block of the
// given expected size (0 is a valid hint meaning "no preallocation").
func NewSeqStore(sizeHint int) *basicSeqStore {
	s := &basicSeqStore{}
	if sizeHint > 0 {
		s.Literals = make([]byte, 0, sizeHint)
		s.Sequences = make([]Sequence, 0, sizeHint/8+8)
	}
	return s
}

func (s *basicSeqStore) StoreSeq(litLen uint32, literals []byte, offsetCode uint32, matchLenMinusMinmatch uint32) {
	s.Literals = append(s.Literals, literals...)
	s.Sequences = append(s.Sequences, Sequence{
		LitLen:     litLen,
		OffsetCode: offsetCode,
		MatchLen:   matchLenMinusMinmatch,
	})
}

// Reset clears the store for reuse across blocks via sync.Pool.
func (s *basicSeqStore) Reset() {
	s.Sequences = s.Sequences[:0]
	s.Literals = s.Literals[:0]
}
