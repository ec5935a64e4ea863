// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

import (
	"math/bits"
	"unsafe"
)

// count returns the largest n with a[0:n] == b[0:n] and a+n <= aLimit,
// comparing 8 bytes at a time with XOR + trailing-zero-count and falling
// back to a byte loop for the tail.
func count(a, b []byte, aLimit int) int {
	n := aLimit
	if len(a) < n {
		n = len(a)
	}
	if len(b) < n {
		n = len(b)
	}

	matched := 0
	for matched+8 <= n {
		av := *(*uint64)(unsafe.Pointer(&a[matched]))
		bv := *(*uint64)(unsafe.Pointer(&b[matched]))
		if av == bv {
			matched += 8
			continue
		}
		diff := av ^ bv
		matched += bits.TrailingZeros64(diff) >> 3
		return matched
	}

	for matched < n && a[matched] == b[matched] {
		matched++
	}
	return matched
}

// count2segments is like count, but when the b cursor reaches the end of b
// it continues at bContinuation. Used when a candidate starts in the
// external dictionary and would run into the prefix.
//
// b is the first segment (e.g. the dictionary tail) and its end is the
// segment boundary; bContinuation is the second segment (e.g. the prefix)
// that logically follows it.
func count2segments(a, b []byte, aLimit int, bContinuation []byte) int {
	firstLen := count(a, b, aLimit)
	if firstLen < len(b) {
		// Stopped inside the first segment: no need to cross over.
		return firstLen
	}

	// Exhausted the first segment without a mismatch; keep counting from the
	// continuation, bounded by what remains of aLimit.
	remaining := aLimit - firstLen
	if remaining <= 0 || len(bContinuation) == 0 {
		return firstLen
	}
	return firstLen + count(a[firstLen:], bContinuation, remaining)
}
