// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

// MatchState ("ms") is the caller's session handle: a window, the
// compression parameters, and whichever index table a given SearchMethod
// needs, plus an optional attached dictionary MatchState.
type MatchState struct {
	Window Window
	Params CParams

	Strategy Strategy
	Method   SearchMethod
	DictMode DictMode

	hc  *HashChain
	bt  *BinaryTree
	row *RowHash
	dds *DDSS

	// DictMatchState points at another fully initialized MatchState serving
	// as an attached dictionary.
	DictMatchState *MatchState

	nextToUpdate uint32
}

// NewMatchState allocates and initializes a MatchState for one compression
// session, sized per params. Table backing stores are allocated once here
// and never resized afterward.
func NewMatchState(params CParams, strategy Strategy, method SearchMethod, dictMode DictMode) (*MatchState, error) {
	params.ApplyDefaults()
	if err := params.Verify(); err != nil {
		return nil, err
	}
	if dictMode == DictDedicatedDictSearch && method == SearchBinaryTree {
		// Dedicated dictionary search has no binary-tree counterpart: the
		// read-only bucket+chain layout has no BST to descend.
		return nil, ErrUnsupportedCombination
	}
	if dictMode == DictExtDict && method == SearchBinaryTree {
		// extDict addressing is only exercised by HashChain and RowHash
		// here; DUBT's tree-splice bookkeeping does not generalize to a
		// scrolled-off region without a second tree, so the combination is
		// rejected rather than silently mis-descended.
		return nil, ErrUnsupportedCombination
	}

	ms := &MatchState{
		Params:   params,
		Strategy: strategy,
		Method:   method,
		DictMode: dictMode,
	}
	switch method {
	case SearchHashChain:
		ms.hc = NewHashChain(params)
	case SearchBinaryTree:
		ms.bt = NewBinaryTree(params)
	case SearchRowHash:
		ms.row = NewRowHash(params)
	}
	return ms, nil
}

// AttachDict binds an attached MatchState dictionary (DictMatchState mode).
// If dict was built with SearchBinaryTree, its tree may still hold deferred
// (unsorted) entries from positions no later visit ever resolved — a
// dictionary gets no further visits once attached, so this finalizes the
// sort once up front rather than leaving findInDict to skip past them.
func (ms *MatchState) AttachDict(dict *MatchState) {
	if dict.bt != nil {
		dict.bt.finalizeDict(&dict.Window, dict.Window.LowLimit)
	}
	ms.DictMatchState = dict
}

// AttachDDSS binds a read-only DDSS dictionary index (DictDedicatedDictSearch mode).
func (ms *MatchState) AttachDDSS(d *DDSS) {
	ms.dds = d
}

// resetForSession rewinds nextToUpdate and clears index tables for pooled
// reuse: indexes start empty at the beginning of each compression session.
func (ms *MatchState) resetForSession() {
	start := ms.Window.DictLimit
	ms.nextToUpdate = start
	if ms.hc != nil {
		ms.hc.reset(start)
	}
	if ms.bt != nil {
		ms.bt.reset(start)
	}
	if ms.row != nil {
		ms.row.reset(start)
	}
}

func (ms *MatchState) cmpFor(curr uint32) matchCmp {
	return matchCmp{w: &ms.Window, curr: curr, iend: ms.Window.NextSrc}
}

// advanceAndFind guarantees every index's nextToUpdate <= ip before the
// search call: HC and Row fold incremental insertion into the search
// itself (insert everything up to, but not including, curr; search; then
// insert curr), while BT performs a bulk catch-up (updateDUBT) internally
// before descent, as documented on BinaryTree.findBestMatch.
func (ms *MatchState) advanceAndFind(curr uint32) (matchLength uint32, offset uint32) {
	switch ms.Method {
	case SearchHashChain:
		ms.hc.update(&ms.Window, curr)
	case SearchRowHash:
		ms.row.update(&ms.Window, curr)
	}

	matchLength, offset = ms.findBestMatch(curr)

	switch ms.Method {
	case SearchHashChain:
		ms.hc.update(&ms.Window, curr+1)
		// RowHash inserts curr itself inside findBestMatch; BinaryTree
		// inserts curr inside descendAndInsert.
	}

	if curr+1 > ms.nextToUpdate {
		ms.nextToUpdate = curr + 1
	}
	return matchLength, offset
}

// findBestMatch dispatches to the selected index family, then (when a
// dictionary is attached) augments the result with a dictionary-side
// search, returning whichever candidate is best per the same short-offset
// cost heuristic DUBT uses internally, generalized to all three search
// methods.
func (ms *MatchState) findBestMatch(curr uint32) (matchLength uint32, offset uint32) {
	cmp := ms.cmpFor(curr)

	switch ms.Method {
	case SearchHashChain:
		matchLength, offset = ms.hc.findBestMatch(&ms.Window, curr, ms.Params.WindowLog, ms.Params.SearchLog, cmp)
	case SearchBinaryTree:
		matchLength, offset = ms.bt.findBestMatch(&ms.Window, curr, ms.Params.WindowLog, ms.Params.SearchLog, cmp)
	case SearchRowHash:
		matchLength, offset = ms.row.findBestMatch(&ms.Window, curr, ms.Params.WindowLog, ms.Params.SearchLog, cmp)
	}

	switch ms.DictMode {
	case DictMatchState:
		if ms.DictMatchState != nil {
			ms.mergeDictMatch(curr, cmp, &matchLength, &offset)
		}
	case DictDedicatedDictSearch:
		if ms.dds != nil {
			dLen, dOff := ms.dds.findBestMatch(&ms.Window, curr, ms.Window.DictLimit, ms.Params.SearchLog, cmp)
			if dLen > matchLength && (matchLength == 0 || preferCandidate(dLen, matchLength, dOff, offset)) {
				matchLength, offset = dLen, dOff
			}
		}
	}

	return matchLength, offset
}

// mergeDictMatch searches the attached dictionary MatchState's own index
// (read-only: it was fully built before this session started) for the live
// query at curr, then rebases any discovered dictionary-local index into
// this window's offset space via ms.Window.DictLimit - dict.Window.NextSrc
// (computed in signed arithmetic, mirroring ddsIndexDelta in ddss.go): the
// dictionary is treated as occupying the region immediately preceding
// ms.Window.DictLimit, so a caller attaching a dictionary sets
// ms.Window.DictLimit to the dictionary's size before the first
// CompressBlock call.
//
// The query bytes must come from the live window (ms.Window.byteAt(curr)):
// what we are asking is "does the content at the live position curr also
// appear in the dictionary", so the hash key and every comparison byte for
// the query side are read from ms.Window, never from dict.Window.
func (ms *MatchState) mergeDictMatch(curr uint32, cmp matchCmp, matchLength *uint32, offset *uint32) {
	dict := ms.DictMatchState
	if dict == nil || (dict.bt == nil && dict.hc == nil && dict.row == nil) {
		return
	}

	aLimit := int(cmp.iend - curr)
	if aLimit <= 0 {
		return
	}
	query := ms.Window.byteAt(curr)
	if len(query) == 0 {
		return
	}
	if len(query) > aLimit {
		query = query[:aLimit]
	}

	delta := int64(ms.Window.DictLimit) - int64(dict.Window.NextSrc)

	var dLen, dLocal uint32
	switch ms.Method {
	case SearchHashChain:
		if dict.hc != nil {
			dLen, dLocal = dict.hc.findInDict(query, &dict.Window, ms.Params.SearchLog)
		}
	case SearchBinaryTree:
		if dict.bt != nil {
			dLen, dLocal = dict.bt.findInDict(query, &dict.Window, dict.Window.LowLimit)
		}
	case SearchRowHash:
		if dict.row != nil {
			dLen, dLocal = dict.row.findInDict(query, &dict.Window, ms.Params.SearchLog)
		}
	}

	if dLen == 0 {
		return
	}
	rebased := int64(dLocal) + delta
	if rebased < 0 || rebased >= int64(curr) {
		return
	}
	dOff := curr - uint32(rebased)
	if dLen > *matchLength && (*matchLength == 0 || preferCandidate(dLen, *matchLength, dOff, *offset)) {
		*matchLength, *offset = dLen, dOff
	}
}

// preferCandidate applies the short-offset cost heuristic when deciding
// between two candidates of possibly different lengths/offsets.
func preferCandidate(newLen, curLen, newOff, curOff uint32) bool {
	if curOff == 0 {
		return true
	}
	return 4*(int64(newLen)-int64(curLen)) > int64(highBit(newOff+1))-int64(highBit(curOff+1))
}
