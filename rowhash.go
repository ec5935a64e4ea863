// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

import (
	"math/bits"

	"golang.org/x/sys/cpu"
)

// hasSWARTagCompare reports whether the runtime can use the 64-bit
// SIMD-within-a-register tag compare, detected once via
// golang.org/x/sys/cpu. This module has no hand-written assembly, so the
// "SIMD" path is a branchless SWAR trick gated on SSE2 availability as a
// proxy for "the CPU is a mainstream 64-bit target where word-at-a-time
// tricks pay off"; the scalar fallback always produces the identical
// bitmap regardless.
var hasSWARTagCompare = cpu.X86.HasSSE2 || cpu.ARM64.HasASIMD

// tagCompare returns a bitmap with bit k set iff row[k] == tag, for row
// widths of 16 or 32. Bit k corresponds to the row slot "k after head"
// only after the caller rotates the result — this function itself just
// reports raw positional matches.
func tagCompare(row []byte, tag byte) uint32 {
	if hasSWARTagCompare {
		return tagCompareSWAR(row, tag)
	}
	return tagCompareScalar(row, tag)
}

// tagCompareScalar is the portable, assembly-free reference: compare
// lane-by-lane into a bitmap.
func tagCompareScalar(row []byte, tag byte) uint32 {
	var bitmap uint32
	for i, b := range row {
		if b == tag {
			bitmap |= 1 << uint(i)
		}
	}
	return bitmap
}

// tagCompareSWAR broadcasts tag across 8-byte words and applies a
// carry-free per-lane zero-byte test to the tag-XORed word to find
// equal bytes 8 lanes at a time, equivalent to an unrolled 128/256-bit byte
// compare without requiring actual vector registers or assembly.
func tagCompareSWAR(row []byte, tag byte) uint32 {
	var bitmap uint32
	broadcast := uint64(tag) * 0x0101010101010101

	i := 0
	for ; i+8 <= len(row); i += 8 {
		word := leWord64(row[i : i+8])
		xored := word ^ broadcast
		// zeroMask has its high bit set in exactly the byte lanes that were
		// zero; no carry crosses a lane boundary.
		const lo7 = uint64(0x7f7f7f7f7f7f7f7f)
		zeroMask := ^(((xored & lo7) + lo7) | xored | lo7)
		for lane := 0; lane < 8; lane++ {
			if zeroMask&(0x80<<(8*lane)) != 0 {
				bitmap |= 1 << uint(i+lane)
			}
		}
	}
	for ; i < len(row); i++ {
		if row[i] == tag {
			bitmap |= 1 << uint(i)
		}
	}
	return bitmap
}

func leWord64(b []byte) uint64 {
	var w uint64
	for i := 0; i < 8 && i < len(b); i++ {
		w |= uint64(b[i]) << (8 * i)
	}
	return w
}

// RowHash is the tag-accelerated row-hash index: hashLog is partitioned so
// the high bits select a row of R=1<<rowLog position slots, and the low 8
// bits form a per-slot tag stored in a parallel tagTable.
type RowHash struct {
	positions []uint32 // positions[row*rowWidth + slot]
	tags      []byte   // tags[row*(rowWidth+1) + 1+slot]; slot 0 of each row's tag group is the head byte
	hashCache [kPrefetchNb]uint32

	rowLog    uint
	rowWidth  uint32
	numRows   uint32
	hashLog   uint
	mls       uint
	nextToUpdate uint32
}

// NewRowHash allocates a RowHash sized per cParams.
func NewRowHash(p CParams) *RowHash {
	rowLog := p.RowLog
	if rowLog != 4 && rowLog != 5 {
		rowLog = 4
	}
	rowWidth := uint32(1) << rowLog
	rowPartitionBits := p.HashLog
	if rowPartitionBits < rowLog {
		rowPartitionBits = rowLog
	}
	numRows := uint32(1) << (rowPartitionBits - rowLog)
	return &RowHash{
		positions: make([]uint32, uint64(numRows)*uint64(rowWidth)),
		tags:      make([]byte, uint64(numRows)*uint64(rowWidth+1)),
		rowLog:    rowLog,
		rowWidth:  rowWidth,
		numRows:   numRows,
		hashLog:   rowPartitionBits - rowLog, // row-selector bits: numRows == 1<<hashLog
		mls:       p.mls(),
	}
}

func (r *RowHash) reset(nextToUpdate uint32) {
	for i := range r.positions {
		r.positions[i] = emptyPos
	}
	for i := range r.tags {
		r.tags[i] = 0
	}
	r.nextToUpdate = nextToUpdate
	r.hashCache = [kPrefetchNb]uint32{}
}

// rowAndTag splits the digest into (row index, tag byte): the high
// r.hashLog bits (log2 of numRows) select a row, the low 8 bits form the tag.
func (r *RowHash) rowAndTag(idx uint32, w *Window) (row uint32, tag byte, ok bool) {
	p := w.byteAt(idx)
	if len(p) < int(r.mls) {
		return 0, 0, false
	}
	row, tag = hashAndTag(p, r.hashLog, r.mls)
	return row, tag, true
}

func (r *RowHash) rowSlice(row uint32) []uint32 {
	start := row * r.rowWidth
	return r.positions[start : start+r.rowWidth]
}

func (r *RowHash) tagGroup(row uint32) []byte {
	start := row * (r.rowWidth + 1)
	return r.tags[start : start+r.rowWidth+1]
}

// insert performs rowUpdate(ip) for a single position: advance the row's
// head backwards and write the new position/tag at the new head.
func (r *RowHash) insert(w *Window, idx uint32) {
	row, tag, ok := r.rowAndTag(idx, w)
	if !ok {
		return
	}
	group := r.tagGroup(row)
	head := group[0]
	head = (head - 1) & byte(r.rowWidth-1)
	group[0] = head
	group[1+head] = tag
	r.rowSlice(row)[head] = idx
}

// update inserts every position in [nextToUpdate, target).
func (r *RowHash) update(w *Window, target uint32) {
	for idx := r.nextToUpdate; idx < target; idx++ {
		r.insert(w, idx)
	}
	if target > r.nextToUpdate {
		r.nextToUpdate = target
	}
}

// findBestMatch runs the find path: bring the row into scope,
// broadcast-compare the tag, rotate the bitmap so bit k means "k after
// head" (newest first), then verify the set bits in order up to
// 2^searchLog attempts, inserting curr afterward (the "speed opt").
func (r *RowHash) findBestMatch(w *Window, curr uint32, windowLog uint, searchLog uint, cmp matchCmp) (matchLength uint32, offset uint32) {
	row, tag, ok := r.rowAndTag(curr, w)
	if !ok {
		return 0, 0
	}

	group := r.tagGroup(row)
	head := uint32(group[0])
	bitmap := tagCompare(group[1:], tag)
	bitmap = rotateRight(bitmap, head, r.rowWidth)

	lowLimit := w.lowestMatchIndex(curr, windowLog)
	maxAttempts := 1 << searchLog
	posRow := r.rowSlice(row)

	attempts := 0
	for bitmap != 0 && attempts < maxAttempts {
		k := bits.TrailingZeros32(bitmap)
		bitmap &^= 1 << uint(k)
		attempts++

		slot := (head + uint32(k)) & (r.rowWidth - 1)
		matchIndex := posRow[slot]
		if matchIndex == emptyPos || matchIndex < lowLimit {
			break
		}

		if !cmp.quickReject(matchIndex, matchLength) {
			ml := cmp.length(matchIndex)
			if ml > matchLength {
				matchLength = ml
				offset = curr - matchIndex
				if curr+matchLength >= cmp.iLimitLen() {
					break
				}
			}
		}
	}

	// "Speed opt": insert curr into the row now so the next call's update
	// does not have to re-insert it.
	r.insert(w, curr)
	if curr+1 > r.nextToUpdate {
		r.nextToUpdate = curr + 1
	}

	return matchLength, offset
}

// findInDict runs the row lookup on behalf of a live session that attached
// this RowHash as a dictionary (MatchState.mergeDictMatch): the tag and
// query bytes come from the caller directly instead of this row table's own
// window, and candidates are read through dictWindow and compared against
// query by plain byte comparison. Unlike findBestMatch, no insertion happens
// here: a dictionary's own table is read-only from the live session's side.
func (r *RowHash) findInDict(query []byte, dictWindow *Window, searchLog uint) (matchLength uint32, dictIndex uint32) {
	if len(query) < int(r.mls) {
		return 0, 0
	}
	row, tag := hashAndTag(query, r.hashLog, r.mls)

	group := r.tagGroup(row)
	head := uint32(group[0])
	bitmap := tagCompare(group[1:], tag)
	bitmap = rotateRight(bitmap, head, r.rowWidth)

	lowLimit := dictWindow.LowLimit
	maxAttempts := 1 << searchLog
	posRow := r.rowSlice(row)

	attempts := 0
	for bitmap != 0 && attempts < maxAttempts {
		k := bits.TrailingZeros32(bitmap)
		bitmap &^= 1 << uint(k)
		attempts++

		slot := (head + uint32(k)) & (r.rowWidth - 1)
		matchIndex := posRow[slot]
		if matchIndex == emptyPos || matchIndex < lowLimit {
			break
		}
		candBytes := dictWindow.byteAt(matchIndex)
		if ml := uint32(count(query, candBytes, len(query))); ml > matchLength {
			matchLength = ml
			dictIndex = matchIndex
		}
	}

	return matchLength, dictIndex
}

// rotateRight rotates a rowWidth-bit bitmap right by shift bits, so bit k
// refers to row slot "k after head" in insertion order.
func rotateRight(bitmap uint32, shift uint32, width uint32) uint32 {
	mask := width - 1
	shift &= mask
	if shift == 0 {
		return bitmap & mask32(width)
	}
	return ((bitmap >> shift) | (bitmap << (width - shift))) & mask32(width)
}

func mask32(width uint32) uint32 {
	if width >= 32 {
		return ^uint32(0)
	}
	return (uint32(1) << width) - 1
}
