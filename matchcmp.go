// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

// matchCmp binds the match comparator to a particular window and current
// scan position, so every index family (HashChain, BinaryTree, RowHash,
// DDSS) can share one "which base" decision instead of re-deriving the
// prefix/extDict branch at each call site: the choice is purely on whether
// matchIndex + matchLength crosses dictLimit.
type matchCmp struct {
	w    *Window
	curr uint32 // logical position of ip
	iend uint32 // logical end of the block (one past the last byte)
}

// iLimitLen returns the logical end used for the "early exit" rule: if
// ip+matchLength reaches it, the best candidate found so far is recorded
// and the search loop breaks.
func (m matchCmp) iLimitLen() uint32 {
	return m.iend
}

// length returns the length of the common prefix between the candidate at
// matchIndex and the current position, switching to the two-segment
// comparator whenever the candidate starts in the external dictionary.
func (m matchCmp) length(matchIndex uint32) uint32 {
	curBytes := m.w.byteAt(m.curr)
	candBytes := m.w.byteAt(matchIndex)
	aLimit := int(m.iend - m.curr)
	if aLimit <= 0 {
		return 0
	}

	if matchIndex < m.w.DictLimit {
		return uint32(count2segments(curBytes, candBytes, aLimit, m.w.Base))
	}
	return uint32(count(curBytes, candBytes, aLimit))
}

// quickReject performs the cheap pre-checks a full byte-by-byte extension
// normally pays for up front: compare the probe bytes at bestLen-1 and
// bestLen. It never produces a false reject — a candidate that
// passes may still fail full comparison, a candidate that fails
// quickReject is guaranteed not to beat bestLen.
func (m matchCmp) quickReject(matchIndex uint32, bestLen uint32) bool {
	if bestLen == 0 {
		return false
	}
	curBytes := m.w.byteAt(m.curr)
	candBytes := m.w.byteAt(matchIndex)
	if uint32(len(curBytes)) <= bestLen || uint32(len(candBytes)) <= bestLen {
		// Near a segment boundary: let the full comparator (which itself
		// handles segment crossing) decide instead of risking an
		// out-of-bounds probe read.
		return false
	}
	return curBytes[bestLen-1] != candBytes[bestLen-1] || curBytes[bestLen] != candBytes[bestLen]
}
