// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

import "github.com/cespare/xxhash/v2"

// hashPtr digests the mls bytes at p[0:mls] into a hashLog-bit value. It
// must be pure and require mls readable bytes at p; downstream tables never
// depend on the specific mixer, only on its consistency across insertion
// and lookup, so this digests with xxhash's 64-bit mix and folds the
// result down to hashLog bits rather than hand-rolling a multiply-shift
// mixer.
//
// mls is clamped by the caller to [mlsFloor, mlsCeil]; p must have at least
// mls readable bytes.
func hashPtr(p []byte, hashLog uint, mls uint) uint32 {
	h := xxhash.Sum64(p[:mls])
	return uint32(h >> (64 - hashLog))
}

// hashAndTag extracts the low 8 bits used as a RowHash tag from the same
// digest hashPtr uses, so a single hash call can feed both the row
// selector and the tag.
func hashAndTag(p []byte, hashLog uint, mls uint) (row uint32, tag byte) {
	h := xxhash.Sum64(p[:mls])
	return uint32(h >> (64 - hashLog)), byte(h)
}
