// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

import "sync"

// matchStatePool reuses MatchState table backing stores across compression
// sessions via an acquire/release pair. Table allocation
// (hashTable/chainTable/bt/positions/tags) is the expensive part of
// NewMatchState, so pooling avoids re-zeroing/re-allocating megabyte-sized
// slices per block when the caller compresses many blocks back-to-back
// with the same cParams/strategy/method/dictMode.
type matchStatePool struct {
	pool sync.Pool

	params   CParams
	strategy Strategy
	method   SearchMethod
	dictMode DictMode
}

// NewMatchStatePool builds a pool of MatchState values sharing one
// configuration. Acquire/Release are safe for concurrent use by multiple
// goroutines, though any single MatchState returned by Acquire is only safe
// for one compression session at a time.
func NewMatchStatePool(params CParams, strategy Strategy, method SearchMethod, dictMode DictMode) (*matchStatePool, error) {
	params.ApplyDefaults()
	// Validate once up front so a bad configuration fails at construction
	// time rather than inside the pool's lazily invoked New func.
	first, err := NewMatchState(params, strategy, method, dictMode)
	if err != nil {
		return nil, err
	}

	p := &matchStatePool{params: params, strategy: strategy, method: method, dictMode: dictMode}
	p.pool.New = func() any {
		ms, _ := NewMatchState(p.params, p.strategy, p.method, p.dictMode)
		return ms
	}
	p.pool.Put(first)
	return p, nil
}

// Acquire returns a MatchState ready for a fresh session over w: it is reset
// (cleared tables, nextToUpdate rewound to w.DictLimit) before being handed
// back.
func (p *matchStatePool) Acquire(w Window) *MatchState {
	ms := p.pool.Get().(*MatchState)
	ms.Window = w
	ms.DictMatchState = nil
	ms.dds = nil
	ms.resetForSession()
	return ms
}

// Release returns ms to the pool for reuse. Callers must not retain ms (or
// any alias of its Window.Base) afterward.
func (p *matchStatePool) Release(ms *MatchState) {
	if ms == nil {
		return
	}
	ms.Window = Window{}
	p.pool.Put(ms)
}

// seqStorePool reuses basicSeqStore sequence/literal buffers across blocks.
type seqStorePool struct {
	pool sync.Pool
}

// NewSeqStorePool builds a pool of basicSeqStore values pre-sized per sizeHint.
func NewSeqStorePool(sizeHint int) *seqStorePool {
	p := &seqStorePool{}
	p.pool.New = func() any {
		return NewSeqStore(sizeHint)
	}
	return p
}

// Acquire returns a cleared SeqStore.
func (p *seqStorePool) Acquire() *basicSeqStore {
	s := p.pool.Get().(*basicSeqStore)
	s.Reset()
	return s
}

// Release returns s to the pool for reuse.
func (p *seqStorePool) Release(s *basicSeqStore) {
	if s == nil {
		return
	}
	p.pool.Put(s)
}
