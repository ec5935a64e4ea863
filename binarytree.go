// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

// BinaryTree is the Double-Unsigned Binary Tree (DUBT) index: a hash table
// pointing at the root of a per-bucket binary search tree keyed by
// lexicographic order of the suffix, with deferred/batched sorting. Built
// following the flat-array idiom of indexing by ring/logical position
// rather than pointer-linked nodes (c.f. hcMatch3Table's
// chain/slotKey/bestLen parallel arrays in compress_1x_999.go).
type BinaryTree struct {
	hashTable []uint32 // hashTable[h] -> newest unsorted bucket entry, or emptyPos

	// bt holds two child slots per indexed position: bt[2k] = smaller child,
	// bt[2k+1] = larger child. An unsorted newly inserted position uses the
	// "small" slot bt[2k] as a temporary singly linked back-pointer to the
	// prior bucket head, and is marked with unsortedMark in the "large" slot
	// bt[2k+1].
	bt []uint32

	hashLog      uint
	btMask       uint32
	mls          uint
	nextToUpdate uint32
}

// NewBinaryTree allocates a BinaryTree sized per cParams. The BST index
// space is 1<<(ChainLog-1) positions, two 32-bit slots per indexed position
// (idx & ((1<<(chainLog-1))-1)) x 2.
func NewBinaryTree(p CParams) *BinaryTree {
	btLog := p.ChainLog - 1
	if p.ChainLog == 0 {
		btLog = 0
	}
	return &BinaryTree{
		hashTable: make([]uint32, 1<<p.HashLog),
		bt:        make([]uint32, 2<<btLog),
		hashLog:   p.HashLog,
		btMask:    uint32(1<<btLog) - 1,
		mls:       p.mls(),
	}
}

func (t *BinaryTree) reset(nextToUpdate uint32) {
	for i := range t.hashTable {
		t.hashTable[i] = emptyPos
	}
	for i := range t.bt {
		t.bt[i] = emptyPos
	}
	t.nextToUpdate = nextToUpdate
}

func (t *BinaryTree) small(idx uint32) *uint32 { return &t.bt[(idx&t.btMask)*2] }
func (t *BinaryTree) large(idx uint32) *uint32 { return &t.bt[(idx&t.btMask)*2+1] }

// updateDUBT chains each new position into its hash bucket without sorting
// it; insertion is deferred. The newly inserted position's large slot is
// marked unsortedMark and its small slot stores the prior bucket head, so
// the later sort-and-search walk can find and reverse the unsorted run.
func (t *BinaryTree) updateDUBT(w *Window, target uint32) {
	for idx := t.nextToUpdate; idx < target; idx++ {
		p := w.byteAt(idx)
		if len(p) < int(t.mls) {
			continue
		}
		key := hashPtr(p, t.hashLog, t.mls)
		*t.small(idx) = t.hashTable[key]
		*t.large(idx) = unsortedMark
		t.hashTable[key] = idx
	}
	if target > t.nextToUpdate {
		t.nextToUpdate = target
	}
}

// findBestMatch runs the sort-and-search procedure: it walks and reverses
// the bucket's unsorted prefix onto a local stack, inserts each into the
// tree via insertDUBT1, descends the tree for curr itself via
// descendAndInsert (tracking the best match along the way), then advances
// nextToUpdate past
// the matched region minus 8, skipping re-indexing of repetitive regions
// inside a long match.
func (t *BinaryTree) findBestMatch(w *Window, curr uint32, windowLog uint, searchLog uint, cmp matchCmp) (matchLength uint32, offset uint32) {
	t.updateDUBT(w, curr)

	p := w.byteAt(curr)
	if len(p) < int(t.mls) {
		return 0, 0
	}
	key := hashPtr(p, t.hashLog, t.mls)
	lowLimit := w.lowestMatchIndex(curr, windowLog)

	// Step 1-2: walk the unsorted prefix of the bucket onto a stack,
	// reversing insertion order, bounded by 2^searchLog candidates.
	maxCandidates := 1 << searchLog
	stack := make([]uint32, 0, maxCandidates)
	node := t.hashTable[key]
	for len(stack) < maxCandidates && node != emptyPos && node >= lowLimit {
		large := *t.large(node)
		if large != unsortedMark {
			// Reached an already-sorted node: the prior root of this
			// bucket's tree, not a candidate to push further.
			break
		}
		stack = append(stack, node)
		node = *t.small(node)
	}
	if len(stack) == maxCandidates && node != emptyPos && node >= lowLimit {
		// Stopped at the candidate limit with entries left in the bucket:
		// node is not visited in this call. Its tree slots are not cleared,
		// so an unsorted node stays in the bucket's unsorted run.
		node = emptyPos
	}

	var root uint32 = emptyPos
	if len(stack) > 0 {
		root = stack[len(stack)-1]
	}

	// Step 3: pop the stack, inserting each candidate into the tree by BST
	// descent.
	for i := len(stack) - 1; i >= 0; i-- {
		t.insertDUBT1(w, stack[i], lowLimit, cmp)
	}
	_ = root

	// Step 4: descend for curr itself, tracking bestLength/offset with the
	// short-offset cost heuristic; curr then joins the bucket unsorted.
	matchLength, offset = t.descendAndInsert(w, curr, lowLimit, cmp)

	// Step 5: nextToUpdate advances to matchEndIdx-8, skipping indexing of
	// repetitive regions inside a long match.
	matchEnd := curr + matchLength
	skip := uint32(8)
	if matchEnd > skip {
		if matchEnd-skip > t.nextToUpdate {
			t.nextToUpdate = matchEnd - skip
		}
	}
	if curr+1 > t.nextToUpdate {
		t.nextToUpdate = curr + 1
	}

	return matchLength, offset
}

// insertDUBT1 sorts node k into the tree by BST descent, using the
// candidate's own comparator (rooted at k rather than curr) so two
// previously-unsorted nodes can be ordered against each other. Ties
// (k+matchLength == iend) terminate insertion.
func (t *BinaryTree) insertDUBT1(w *Window, k uint32, lowLimit uint32, cmp matchCmp) {
	key := hashPtr(w.byteAt(k), t.hashLog, t.mls)
	root := t.hashTable[key]

	// The bucket might already have a sorted root distinct from k (the
	// deferred chain walk in findBestMatch stopped at it). Re-derive it by
	// walking past any remaining unsorted entries.
	node := root
	for node != emptyPos && node != k && *t.large(node) == unsortedMark {
		node = *t.small(node)
	}
	if node == emptyPos || node == k {
		*t.small(k) = emptyPos
		*t.large(k) = emptyPos
		return
	}

	var commonSmaller, commonLarger uint32
	for {
		if node < lowLimit {
			*t.small(k) = emptyPos
			*t.large(k) = emptyPos
			return
		}
		common := commonSmaller
		if commonLarger < common {
			common = commonLarger
		}
		ml := cmp.lengthFrom(node, k, common)
		if k+ml == cmp.iend {
			// Tie at end-of-input: insertion terminates.
			return
		}
		curBytes := w.byteAt(k)
		candBytes := w.byteAt(node)
		less := false
		if int(ml) < len(curBytes) && int(ml) < len(candBytes) {
			less = curBytes[ml] < candBytes[ml]
		} else {
			less = len(curBytes) < len(candBytes)
		}
		if less {
			commonLarger = ml
			if next := *t.small(node); next != emptyPos && next != node {
				node = next
				continue
			}
			*t.small(node) = k
			*t.small(k) = emptyPos
			*t.large(k) = emptyPos
			return
		}
		commonSmaller = ml
		if next := *t.large(node); next != emptyPos && next != unsortedMark && next != node {
			node = next
			continue
		}
		*t.large(node) = k
		*t.small(k) = emptyPos
		*t.large(k) = emptyPos
		return
	}
}

// descendAndInsert descends the bucket's sorted tree for curr, tracking the
// longest match observed during descent and preferring shorter offsets at
// comparable lengths via the gain-margin cost heuristic:
// 4*(newLen-bestLen) > highBit(curr-matchIndex+1) - highBit(offset+1).
// curr itself is not sorted into the tree here: it is added to the bucket
// as its newest unsorted entry, for a later findBestMatch to sort.
func (t *BinaryTree) descendAndInsert(w *Window, curr uint32, lowLimit uint32, cmp matchCmp) (bestLength uint32, offset uint32) {
	key := hashPtr(w.byteAt(curr), t.hashLog, t.mls)
	node := t.hashTable[key]
	for node != emptyPos && *t.large(node) == unsortedMark {
		// Any remaining unsorted entries at this point were already
		// handled by the stack walk in findBestMatch; treat as sorted-root
		// lookup failure rather than re-inserting them here.
		node = *t.small(node)
	}

	var commonSmaller, commonLarger uint32
	for node != emptyPos && node >= lowLimit {
		common := commonSmaller
		if commonLarger < common {
			common = commonLarger
		}
		ml := cmp.lengthFrom(node, curr, common)
		if ml > bestLength {
			cand := curr - node
			if offset == 0 || 4*(int64(ml)-int64(bestLength)) > int64(highBit(cand+1))-int64(highBit(offset+1)) {
				bestLength = ml
				offset = cand
			}
		}
		if curr+ml == cmp.iend {
			break
		}
		curBytes := w.byteAt(curr)
		candBytes := w.byteAt(node)
		less := false
		if int(ml) < len(curBytes) && int(ml) < len(candBytes) {
			less = curBytes[ml] < candBytes[ml]
		} else {
			less = len(curBytes) < len(candBytes)
		}
		if less {
			commonLarger = ml
			node = *t.small(node)
		} else {
			commonSmaller = ml
			next := *t.large(node)
			if next == unsortedMark {
				break
			}
			node = next
		}
	}

	// Finally, splice curr into the bucket as the newest unsorted entry so
	// future calls see it (mirrors updateDUBT's insertion shape).
	hkey := hashPtr(w.byteAt(curr), t.hashLog, t.mls)
	*t.small(curr) = t.hashTable[hkey]
	*t.large(curr) = unsortedMark
	t.hashTable[hkey] = curr

	return bestLength, offset
}

// findInDict performs a read-only BST descent from the bucket matching
// query's hash, without inserting anything — used to query an already fully
// sorted dictionary tree on behalf of a live session that attached this
// BinaryTree as a dictionary (MatchState.mergeDictMatch). Unlike
// findBestMatch/descendAndInsert, the query bytes come from the caller
// directly rather than from this tree's own window: the live position being
// searched for lives outside the dictionary's address space, so every
// comparison is against query rather than against dictWindow.byteAt(curr).
func (t *BinaryTree) findInDict(query []byte, dictWindow *Window, lowLimit uint32) (bestLength uint32, dictIndex uint32) {
	if len(query) < int(t.mls) {
		return 0, 0
	}
	key := hashPtr(query, t.hashLog, t.mls)
	node := t.hashTable[key]
	for node != emptyPos && *t.large(node) == unsortedMark {
		node = *t.small(node)
	}

	var commonSmaller, commonLarger uint32
	for node != emptyPos && node >= lowLimit {
		common := commonSmaller
		if commonLarger < common {
			common = commonLarger
		}
		candBytes := dictWindow.byteAt(node)
		ml := common
		if int(common) < len(query) && int(common) < len(candBytes) {
			ml = common + uint32(count(query[common:], candBytes[common:], len(query)-int(common)))
		}
		if ml > bestLength {
			bestLength = ml
			dictIndex = node
		}
		if int(ml) >= len(query) {
			break
		}
		less := false
		if int(ml) < len(query) && int(ml) < len(candBytes) {
			less = query[ml] < candBytes[ml]
		} else {
			less = len(query) < len(candBytes)
		}
		if less {
			commonLarger = ml
			node = *t.small(node)
		} else {
			commonSmaller = ml
			next := *t.large(node)
			if next == unsortedMark {
				break
			}
			node = next
		}
	}
	return bestLength, dictIndex
}

// finalizeDict fully sorts every bucket's deferred (unsorted) prefix. The
// live session's own tree relies on a later visit to the same bucket to
// trigger insertDUBT1 for entries left unsorted by updateDUBT's deferred
// insertion; a dictionary attached read-only via MatchState.AttachDict gets
// no further visits, so AttachDict calls this once up front to guarantee
// findInDict never has to skip past an unsorted node it could otherwise
// have matched.
func (t *BinaryTree) finalizeDict(w *Window, lowLimit uint32) {
	var stack []uint32
	for h := range t.hashTable {
		node := t.hashTable[h]
		stack = stack[:0]
		for node != emptyPos && node >= lowLimit {
			if *t.large(node) != unsortedMark {
				break
			}
			stack = append(stack, node)
			node = *t.small(node)
		}
		for i := len(stack) - 1; i >= 0; i-- {
			k := stack[i]
			cmp := matchCmp{w: w, curr: k, iend: w.NextSrc}
			t.insertDUBT1(w, k, lowLimit, cmp)
		}
	}
}

// lengthFrom returns the match length between node and curr, skipping the
// already-known-equal prefix of length knownCommon (commonLengthSmaller /
// commonLengthLarger in the descent loops, tracking known-equal prefixes so
// they need not be re-compared).
func (m matchCmp) lengthFrom(node, curr uint32, knownCommon uint32) uint32 {
	curBytes := m.w.byteAt(curr)
	candBytes := m.w.byteAt(node)
	aLimit := int(m.iend - curr)
	if aLimit <= int(knownCommon) {
		return knownCommon
	}
	if int(knownCommon) >= len(curBytes) || int(knownCommon) >= len(candBytes) {
		return knownCommon
	}

	var extra int
	if node < m.w.DictLimit {
		extra = count2segments(curBytes[knownCommon:], candBytes[knownCommon:], aLimit-int(knownCommon), m.w.Base)
	} else {
		extra = count(curBytes[knownCommon:], candBytes[knownCommon:], aLimit-int(knownCommon))
	}
	return knownCommon + uint32(extra)
}
