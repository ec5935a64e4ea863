// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

// HashChain is a hash-table-to-singly-linked-chain index: a
// `head[hash] -> newest position` table plus a `chain[pos] -> previous
// position with the same hash` table, sized by cParams and operating over
// a Window instead of a single flat ring buffer.
type HashChain struct {
	hashTable  []uint32 // hashTable[h] -> most recent indexed position, or emptyPos
	chainTable []uint32 // chainTable[idx & chainMask] -> previous position in bucket

	hashLog    uint
	chainMask  uint32
	mls        uint
	nextToUpdate uint32
}

// NewHashChain allocates a HashChain sized per cParams.
func NewHashChain(p CParams) *HashChain {
	h := &HashChain{
		hashTable:  make([]uint32, 1<<p.HashLog),
		chainTable: make([]uint32, 1<<p.ChainLog),
		hashLog:    p.HashLog,
		chainMask:  uint32(1<<p.ChainLog) - 1,
		mls:        p.mls(),
	}
	return h
}

// reset clears the table contents and rewinds nextToUpdate, for pooled reuse.
func (h *HashChain) reset(nextToUpdate uint32) {
	for i := range h.hashTable {
		h.hashTable[i] = emptyPos
	}
	for i := range h.chainTable {
		h.chainTable[i] = emptyPos
	}
	h.nextToUpdate = nextToUpdate
}

// insert indexes a single position idx, whose mls-byte digest key is read
// from w at that logical position.
func (h *HashChain) insert(w *Window, idx uint32) {
	p := w.byteAt(idx)
	if len(p) < int(h.mls) {
		return
	}
	key := hashPtr(p, h.hashLog, h.mls)
	h.chainTable[idx&h.chainMask] = h.hashTable[key]
	h.hashTable[key] = idx
}

// update indexes every position in [nextToUpdate, target).
func (h *HashChain) update(w *Window, target uint32) {
	for idx := h.nextToUpdate; idx < target; idx++ {
		h.insert(w, idx)
	}
	if target > h.nextToUpdate {
		h.nextToUpdate = target
	}
}

// findBestMatch walks the hash chain from curr's bucket, returning the
// longest match found and its offset. cmp is the comparator closure bound
// to the current ip/window (see matchstate.go), letting this method stay
// index-family-agnostic about extDict segmenting.
func (h *HashChain) findBestMatch(w *Window, curr uint32, windowLog uint, searchLog uint, cmp matchCmp) (matchLength uint32, offset uint32) {
	p := w.byteAt(curr)
	if len(p) < int(h.mls) {
		return 0, 0
	}
	key := hashPtr(p, h.hashLog, h.mls)

	matchIndex := h.hashTable[key]
	chainSize := uint32(1) << windowLog
	lowLimit := w.lowestMatchIndex(curr, windowLog)

	maxAttempts := 1 << searchLog
	iLimitLen := cmp.iLimitLen()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if matchIndex == emptyPos || matchIndex < lowLimit {
			break
		}
		if curr >= chainSize && matchIndex < curr-chainSize {
			break
		}

		if !cmp.quickReject(matchIndex, matchLength) {
			ml := cmp.length(matchIndex)
			if ml > matchLength {
				matchLength = ml
				offset = curr - matchIndex
				if curr+matchLength >= iLimitLen {
					break // already as good as any match can get this far from ip
				}
			}
		}

		matchIndex = h.chainTable[matchIndex&h.chainMask]
	}

	return matchLength, offset
}

// findInDict walks this chain on behalf of a live session that attached it
// as a dictionary (MatchState.mergeDictMatch): unlike findBestMatch, the
// query bytes come from the caller directly rather than from this chain's
// own window, since the live position being searched for lives outside the
// dictionary's address space entirely. Candidates are still read through
// dictWindow (the window this chain was built over) and compared against
// query by plain byte comparison.
func (h *HashChain) findInDict(query []byte, dictWindow *Window, searchLog uint) (matchLength uint32, dictIndex uint32) {
	if len(query) < int(h.mls) {
		return 0, 0
	}
	key := hashPtr(query, h.hashLog, h.mls)
	matchIndex := h.hashTable[key]
	lowLimit := dictWindow.LowLimit

	maxAttempts := 1 << searchLog
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if matchIndex == emptyPos || matchIndex < lowLimit {
			break
		}
		candBytes := dictWindow.byteAt(matchIndex)
		if ml := uint32(count(query, candBytes, len(query))); ml > matchLength {
			matchLength = ml
			dictIndex = matchIndex
		}
		matchIndex = h.chainTable[matchIndex&h.chainMask]
	}

	return matchLength, dictIndex
}
