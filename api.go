// SPDX-License-Identifier: GPL-2.0-only

package lazyseq

// Options configures a compression session: cParams plus the
// strategy/method/dictMode selectors.
type Options struct {
	Params   CParams
	Strategy Strategy
	Method   SearchMethod
	DictMode DictMode
}

// DefaultOptions returns Options for a lazy-strategy hash-chain session with
// no attached dictionary, letting CParams.ApplyDefaults fill in table sizes.
func DefaultOptions() *Options {
	return &Options{
		Strategy: StrategyLazy,
		Method:   SearchHashChain,
		DictMode: DictNone,
	}
}

// Sequencer is the reusable, pooled entry point: one Sequencer wraps a
// matchStatePool and seqStorePool sized for repeated FindSequences calls
// over many independent blocks.
type Sequencer struct {
	opts   Options
	msPool *matchStatePool
	ssPool *seqStorePool
}

// NewSequencer builds a Sequencer. opts may be nil (uses DefaultOptions).
func NewSequencer(opts *Options) (*Sequencer, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	msPool, err := NewMatchStatePool(opts.Params, opts.Strategy, opts.Method, opts.DictMode)
	if err != nil {
		return nil, err
	}
	return &Sequencer{
		opts:   *opts,
		msPool: msPool,
		ssPool: NewSeqStorePool(0),
	}, nil
}

// FindSequences runs the lazy parser over src as a standalone prefix block
// (no attached dictionary, no carried window history) and returns the
// resulting sequence/literal stream plus the updated repeat-offset state.
// rep is read on entry and overwritten on return, letting a caller chain
// FindSequences calls across successive blocks of one logical stream by
// passing the same rep array through.
func (s *Sequencer) FindSequences(src []byte, rep *[2]uint32) (*basicSeqStore, int, error) {
	w := Window{
		Base:      src,
		DictBase:  src,
		DictLimit: 0,
		LowLimit:  0,
		NextSrc:   0, // empty prefix: CompressBlock extends it over src
	}
	ms := s.msPool.Acquire(w)
	defer s.msPool.Release(ms)

	store := s.ssPool.Acquire()

	litRemaining, err := CompressBlock(ms, store, rep, src)
	if err != nil {
		s.ssPool.Release(store)
		return nil, 0, err
	}
	return store, litRemaining, nil
}

// ReleaseSequences returns a SeqStore obtained from FindSequences to the
// Sequencer's internal pool once the caller is done reading its contents.
func (s *Sequencer) ReleaseSequences(store *basicSeqStore) {
	s.ssPool.Release(store)
}

// FindSequences is the one-shot, unpooled convenience wrapper around
// CompressBlock for callers that only need a single block and don't want to
// manage a Sequencer's lifetime.
func FindSequences(opts *Options, src []byte, rep *[2]uint32) (*basicSeqStore, int, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	ms, err := NewMatchState(opts.Params, opts.Strategy, opts.Method, opts.DictMode)
	if err != nil {
		return nil, 0, err
	}
	ms.Window = Window{
		Base:      src,
		DictBase:  src,
		DictLimit: 0,
		LowLimit:  0,
		NextSrc:   0, // empty prefix: CompressBlock extends it over src
	}
	ms.resetForSession()

	store := NewSeqStore(0)
	litRemaining, err := CompressBlock(ms, store, rep, src)
	if err != nil {
		return nil, 0, err
	}
	return store, litRemaining, nil
}
