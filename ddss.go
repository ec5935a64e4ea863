// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

// DDSS is the Dedicated Dictionary Search layout: a read-only index built
// once from a pre-baked dictionary. Each hash bucket
// is oversized by a factor B=2^bucketLog; the first B-1 slots cache the most
// recent B-1 positions, and the B-th slot holds a packed pointer
// (chainStart<<8)|chainLen into a compacted chain region holding up to 255
// further positions.
type DDSS struct {
	buckets []uint32 // buckets[h*bucketSize : h*bucketSize+bucketSize-1] = cache; last slot = packed pointer
	chain   []uint32 // compacted spill chain, built once at construction

	hashLog   uint
	bucketLog uint
	bucketSize uint32 // 2^bucketLog
	mls       uint
	dictBase  []byte
	dictSize  uint32
}

const ddssMaxChainLen = 255

// packChainPtr / unpackChainPtr implement the "(chainStart<<8) | chainLen"
// packed pointer used to address the compacted spill chain.
func packChainPtr(start uint32, length uint32) uint32 {
	if length > ddssMaxChainLen {
		length = ddssMaxChainLen
	}
	return (start << 8) | length
}

func unpackChainPtr(v uint32) (start uint32, length uint32) {
	return v >> 8, v & 0xff
}

// BuildDDSS constructs a read-only DDSS index over dictBase using the
// natural hash chain (built transiently via a HashChain over the dictionary
// bytes): construction walks the natural hash chain, emits the top B-1 into
// the cache, and spills up to chainLen<=255 additional positions into the
// compacted region.
func BuildDDSS(dictBase []byte, p CParams) *DDSS {
	bucketLog := uint(ddssBucketLog)
	bucketSize := uint32(1) << bucketLog

	d := &DDSS{
		hashLog:    p.HashLog,
		bucketLog:  bucketLog,
		bucketSize: bucketSize,
		mls:        p.mls(),
		dictBase:   dictBase,
		dictSize:   uint32(len(dictBase)),
	}
	d.buckets = make([]uint32, uint64(1<<p.HashLog)*uint64(bucketSize))
	for i := range d.buckets {
		d.buckets[i] = emptyPos
	}

	// Build the natural hash chain over the dictionary first (a plain
	// HashChain addressed by a Window whose prefix IS the dictionary).
	w := &Window{Base: dictBase, DictBase: dictBase, DictLimit: 0, LowLimit: 0, NextSrc: uint32(len(dictBase))}
	natural := NewHashChain(p)
	natural.update(w, uint32(len(dictBase)))

	// For each bucket, emit the top bucketSize-1 cache entries newest-first
	// and spill up to ddssMaxChainLen further chain entries into the
	// compacted chain region, which grows as needed. No quota limits the
	// spill per bucket below ddssMaxChainLen or the region's total size.
	for h := 0; h < len(natural.hashTable); h++ {
		head := natural.hashTable[h]
		bucket := d.buckets[uint32(h)*bucketSize : uint32(h)*bucketSize+bucketSize]

		node := head
		cacheN := uint32(0)
		for node != emptyPos && cacheN < bucketSize-1 {
			bucket[cacheN] = node
			cacheN++
			node = natural.chainTable[node&natural.chainMask]
		}
		for i := cacheN; i < bucketSize-1; i++ {
			bucket[i] = emptyPos
		}

		chainStart := uint32(len(d.chain))
		chainLen := uint32(0)
		for node != emptyPos && chainLen < ddssMaxChainLen {
			d.chain = append(d.chain, node)
			chainLen++
			node = natural.chainTable[node&natural.chainMask]
		}
		if chainLen == 0 {
			bucket[bucketSize-1] = emptyPos
		} else {
			bucket[bucketSize-1] = packChainPtr(chainStart, chainLen)
		}
	}

	return d
}

// ddsIndexDelta rebases a dictionary-local index to the current window.
func ddsIndexDelta(currentDictLimit uint32, dictSize uint32) int64 {
	return int64(currentDictLimit) - int64(dictSize)
}

// findBestMatch looks up the dictionary index: the whole bucket first
// (cache), then the compacted chain prefix, verifying each candidate by
// full compare.
func (d *DDSS) findBestMatch(w *Window, curr uint32, currentDictLimit uint32, searchLog uint, cmp matchCmp) (matchLength uint32, offset uint32) {
	p := w.byteAt(curr)
	if len(p) < int(d.mls) {
		return 0, 0
	}
	key := hashPtr(p, d.hashLog, d.mls)
	bucket := d.buckets[key*d.bucketSize : key*d.bucketSize+d.bucketSize]
	delta := ddsIndexDelta(currentDictLimit, d.dictSize)

	maxAttempts := 1 << searchLog
	attempts := 0

	tryCandidate := func(dictPos uint32) bool {
		rebased := int64(dictPos) + delta
		if rebased < 0 {
			return false
		}
		candIdx := uint32(rebased)
		ml := ddssCandidateLength(w, d.dictBase, dictPos, curr, cmp)
		if ml > matchLength {
			matchLength = ml
			offset = curr - candIdx
		}
		attempts++
		return attempts < maxAttempts
	}

	for i := uint32(0); i < d.bucketSize-1; i++ {
		dictPos := bucket[i]
		if dictPos == emptyPos {
			break
		}
		if !tryCandidate(dictPos) {
			return matchLength, offset
		}
	}

	start, length := unpackChainPtr(bucket[d.bucketSize-1])
	for i := uint32(0); i < length; i++ {
		dictPos := d.chain[start+i]
		if !tryCandidate(dictPos) {
			break
		}
	}

	return matchLength, offset
}

// ddssCandidateLength compares a dictionary-local candidate (addressed
// within d.dictBase) against the live window's current position.
func ddssCandidateLength(w *Window, dictBase []byte, dictPos uint32, curr uint32, cmp matchCmp) uint32 {
	if dictPos >= uint32(len(dictBase)) {
		return 0
	}
	curBytes := w.byteAt(curr)
	candBytes := dictBase[dictPos:]
	aLimit := int(cmp.iend - curr)
	if aLimit <= 0 {
		return 0
	}
	// The dictionary candidate's tail is logically contiguous with the live
	// prefix at w.Base, mirroring the extDict two-segment rule.
	return uint32(count2segments(curBytes, candBytes, aLimit, w.Base))
}
