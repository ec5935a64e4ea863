// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

// candidate is an in-progress match candidate: (matchLen, offset, start).
// offset is a raw back-reference distance; isRep marks a repeat-offset
// candidate whose offsetCode should be 1/2/3 rather than zstdRepMove+offset.
type candidate struct {
	matchLen uint32
	offset   uint32
	start    uint32
	repCode  uint32 // 0 = not a rep candidate; else 1, 2, or 3
}

func (c candidate) valid() bool { return c.matchLen > 0 }

// gain is the cost heuristic used to compare candidates of different
// lengths and offsets: gain(x) = 4*matchLen(x) - highBit(offset(x)+1).
func (c candidate) gain() int64 {
	return 4*int64(c.matchLen) - int64(highBit(c.offset+1))
}

// CompressBlock is the core entry point: given a match state, a sequence
// sink, the in/out repeat-offset pair, and a source block, it runs the
// lazy parser and returns the count of trailing literal bytes
// (iend - anchor) — the caller is responsible for flushing them as the
// final literal run.
func CompressBlock(ms *MatchState, store SeqStore, rep *[2]uint32, src []byte) (litRemaining int, err error) {
	if ms == nil || store == nil {
		return 0, ErrInternal
	}

	w := &ms.Window
	base := w.DictLimit // ip starts at the first position of this block
	iend := base + uint32(len(src))

	// Capture whether this window already carried any history (a non-empty
	// prefix from a prior block, or an attached dictionary) before NextSrc
	// is overwritten below — w.NextSrc == w.DictLimit here means nothing has
	// been written into this prefix yet.
	hadHistory := w.NextSrc > w.DictLimit || w.LoadedDictEnd != 0

	// w.Base must already address this block's bytes at offset 0; the
	// caller sets Window.Base/DictLimit/NextSrc before calling. This call
	// only extends NextSrc to cover src.
	w.NextSrc = iend

	if ms.nextToUpdate < w.DictLimit {
		ms.nextToUpdate = w.DictLimit
	}

	repState := newRepState(rep)
	savedRep0 := repState.Rep0

	// A repeat offset that exceeds the current window is defensively
	// zeroed, with the original value remembered for block-end restoration
	// if no match in this block replaces it.
	windowSpan := uint32(1) << ms.Params.WindowLog
	repZeroed := false
	if repState.Rep0 > 0 && (base < windowSpan || repState.Rep0 > base-w.LowLimit) {
		if repState.Rep0 > base {
			repState.Rep0 = 0
			repZeroed = true
		}
	}

	ip := base
	if !hadHistory {
		// No history at all yet: advance by one before the first search.
		ip++
	}

	ilimit := iend
	if iend >= 16 {
		ilimit = iend - 16
	} else {
		ilimit = base
	}

	anchor := base
	depth := ms.Strategy.depth()

	for ip < ilimit {
		var cur candidate

		// Step 1: repeat-code probe. The probe conceptually targets "ip+1"
		// relative to the previous iteration's anchor; here ip already is
		// that position at loop entry.
		if repOff := repState.Rep0; repOff > 0 && ip+4 <= iend {
			if repeatMatches(w, ip, repOff) {
				repLen := repeatLength(w, ip, repOff, iend)
				if repLen >= minMatch {
					cur = candidate{matchLen: repLen, offset: repOff, start: ip, repCode: 1}
					if depth == 0 {
						goto emit
					}
				}
			}
		}

		// Step 2: primary search.
		{
			ml, off := ms.advanceAndFind(ip)
			if ml >= uint32(ms.Params.MinMatch) && (!cur.valid() || candidate{matchLen: ml, offset: off}.gain() > cur.gain()) {
				cur = candidate{matchLen: ml, offset: off, start: ip}
			}
		}

		if !cur.valid() {
			// Step 3: incompressible-skip heuristic.
			ip += uint32((ip-anchor)>>kSearchStrength) + 1
			continue
		}

		// Steps 4-5: depth-1 / depth-2 lookahead.
		for d := 1; d <= depth; d++ {
			if ip+1 >= ilimit {
				break
			}
			ip++

			var next candidate
			if repOff := repState.Rep0; repOff > 0 && ip+4 <= iend && repeatMatches(w, ip, repOff) {
				repLen := repeatLength(w, ip, repOff, iend)
				if repLen >= minMatch {
					next = candidate{matchLen: repLen, offset: repOff, start: ip, repCode: 1}
				}
			}
			ml, off := ms.advanceAndFind(ip)
			if ml >= uint32(ms.Params.MinMatch) && (!next.valid() || candidate{matchLen: ml, offset: off}.gain() > next.gain()) {
				next = candidate{matchLen: ml, offset: off, start: ip}
			}
			if !next.valid() {
				continue
			}

			margin := int64(4)
			if d == 2 {
				margin = int64(7)
			}
			if next.repCode != 0 {
				margin = 1
				if d == 2 {
					margin = 1
				}
			}
			if next.gain() > cur.gain()+margin {
				cur = next
			}
		}

	emit:
		// Step 6: catch-up — extend backwards while possible.
		for cur.start > anchor && cur.offset > 0 {
			candPos := cur.start - cur.offset
			if candPos == 0 && cur.start == 0 {
				break
			}
			curByte := w.byteAt(cur.start - 1)
			candByte := w.byteAt(candPos - 1)
			if len(curByte) == 0 || len(candByte) == 0 {
				break
			}
			if cur.start-1 < w.LowLimit+1 || candPos == 0 {
				break
			}
			if curByte[0] != candByte[0] {
				break
			}
			cur.start--
			cur.matchLen++
		}

		litLen := cur.start - anchor
		offsetCode := cur.repCode
		if offsetCode == 0 {
			offsetCode = cur.offset + zstdRepMove
		}

		lits := w.byteAt(anchor)
		if uint32(len(lits)) > litLen {
			lits = lits[:litLen]
		}
		if cur.matchLen < minMatch {
			return 0, ErrInternal
		}
		store.StoreSeq(litLen, lits, offsetCode, cur.matchLen-minMatch)

		switch offsetCode {
		case 1:
			repState = repState.updateRep0()
		case 2:
			repState = repState.updateRep1()
		default:
			repState = repState.updateNormal(cur.offset)
		}

		ip = cur.start + cur.matchLen
		anchor = ip

		// Step 8: immediate repeat chain.
		for repState.Rep1 > 0 && ip+4 <= iend && repeatMatches(w, ip, repState.Rep1) {
			repLen := repeatLength(w, ip, repState.Rep1, iend)
			if repLen < minMatch {
				break
			}
			store.StoreSeq(0, nil, 2, repLen-minMatch)
			repState.Rep0, repState.Rep1 = repState.Rep1, repState.Rep0
			ip += repLen
			anchor = ip
			if ip >= ilimit {
				break
			}
		}

		if ip >= ilimit {
			break
		}
	}

	if repZeroed && repState.Rep0 == 0 {
		repState.Rep0 = savedRep0
	}
	repState.store(rep)

	return int(iend - anchor), nil
}

// repeatMatches checks the cheap 4-byte equality test: do the 4 bytes at
// ip equal those at ip-repOffset.
func repeatMatches(w *Window, ip uint32, repOffset uint32) bool {
	if repOffset == 0 || repOffset > ip {
		return false
	}
	cur := w.byteAt(ip)
	cand := w.byteAt(ip - repOffset)
	if len(cur) < 4 || len(cand) < 4 {
		return false
	}
	return cur[0] == cand[0] && cur[1] == cand[1] && cur[2] == cand[2] && cur[3] == cand[3]
}

// repeatLength extends a confirmed repeat-offset match to its full length.
func repeatLength(w *Window, ip uint32, repOffset uint32, iend uint32) uint32 {
	cmp := matchCmp{w: w, curr: ip, iend: iend}
	return cmp.length(ip - repOffset)
}
