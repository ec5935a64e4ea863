// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

// Window is the logical address space for indexed bytes. Logical positions
// are 32-bit indices into a virtual stream; the window maps an index to a
// byte address in either the current prefix or an attached external
// dictionary, with no duplicate indexing work between the two. Pointer
// arithmetic becomes index arithmetic, with a single branch on
// idx < dictLimit.
type Window struct {
	// Base is the byte slice corresponding to index 0 of the current prefix.
	// Base[i] is the byte at logical position i when i >= DictLimit.
	Base []byte

	// DictBase is the byte slice corresponding to index 0 of the external
	// dictionary view (may alias Base when no distinct dictionary is
	// attached). DictBase[i] is the byte at logical position i when
	// i < DictLimit.
	DictBase []byte

	// DictLimit: indices < DictLimit live in DictBase; indices >= DictLimit
	// live in Base.
	DictLimit uint32

	// LowLimit is the lowest index still valid for matching (<= DictLimit).
	LowLimit uint32

	// NextSrc is the index one past the last byte currently present in the
	// prefix (Base is readable up to NextSrc-1, relative to DictLimit).
	NextSrc uint32

	// LoadedDictEnd is non-zero if a dictionary is attached.
	LoadedDictEnd uint32
}

// inPrefix reports whether idx addresses the current prefix rather than the
// external dictionary.
func (w *Window) inPrefix(idx uint32) bool {
	return idx >= w.DictLimit
}

// byteAt returns the maximal contiguous readable byte span starting at the
// given logical index.
func (w *Window) byteAt(idx uint32) []byte {
	if w.inPrefix(idx) {
		off := idx - w.DictLimit
		if off > uint32(len(w.Base)) {
			return nil
		}
		return w.Base[off:]
	}
	off := idx
	if off > uint32(len(w.DictBase)) {
		return nil
	}
	end := w.DictLimit
	if end > uint32(len(w.DictBase)) {
		end = uint32(len(w.DictBase))
	}
	return w.DictBase[off:end]
}

// lowestMatchIndex returns max(lowLimit, curr - (1<<windowLog)) saturating
// at 0.
func (w *Window) lowestMatchIndex(curr uint32, windowLog uint) uint32 {
	var windowLow uint32
	span := uint32(1) << windowLog
	if curr > span {
		windowLow = curr - span
	}
	if w.LowLimit > windowLow {
		return w.LowLimit
	}
	return windowLow
}

// crossesBoundary reports whether a candidate match starting at matchIndex
// and running matchLength bytes would read across the dictLimit boundary —
// the trigger for switching to the two-segment comparator.
func (w *Window) crossesBoundary(matchIndex, matchLength uint32) bool {
	return matchIndex < w.DictLimit && matchIndex+matchLength > w.DictLimit
}
