// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

// RepState holds the two most-recent non-zero match offsets seen in a
// block. Zero is the sentinel for "disabled".
type RepState struct {
	Rep0 uint32
	Rep1 uint32
}

// newRepState loads a RepState from the caller's in/out array of two
// non-negative 32-bit offsets.
func newRepState(rep *[2]uint32) RepState {
	return RepState{Rep0: rep[0], Rep1: rep[1]}
}

// store writes the current pair back into the caller's rep array.
func (r RepState) store(rep *[2]uint32) {
	rep[0] = r.Rep0
	rep[1] = r.Rep1
}

// updateNormal replaces rep0 with a newly emitted raw offset, shifting the
// previous rep0 to rep1.
func (r RepState) updateNormal(rawOffset uint32) RepState {
	return RepState{Rep0: rawOffset, Rep1: r.Rep0}
}

// updateRep1 swaps the pair, for an emitted match whose offsetCode equals
// rep1.
func (r RepState) updateRep1() RepState {
	return RepState{Rep0: r.Rep1, Rep1: r.Rep0}
}

// updateRep0 leaves the pair unchanged, for an emitted match whose
// offsetCode equals rep0.
func (r RepState) updateRep0() RepState {
	return r
}
