// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

// Reorderer is the collaborator that decides when dynamic variable
// reordering should run and performs it. It is consulted from inside
// makenode: when Ready returns true and node production has crossed the
// current threshold, makenode returns errReorder instead of completing
// normally. The public primitive that was recursing bubbles errReorder up
// unchanged (it never inspects or swallows it along the way -- every
// recursive helper in this package simply returns any non-nil error it
// receives) until withReorder catches it, invokes Reorder and restarts the
// whole operation exactly once.
//
// This package implements no reordering heuristic itself (no sifting, no
// window permutation): they are out of scope. A caller that wants dynamic
// reordering supplies its own Reorderer via the Reorder configuration
// option; without one, the default noReorder never reports Ready and the
// interrupt path is never taken.
type Reorderer interface {
	// Ready reports whether the engine may be interrupted right now to run
	// a reordering pass. Implementations usually gate this on a minimum
	// number of operations since the last reorder.
	Ready() bool
	// Reorder performs the actual variable reordering. It is called with
	// the reference stack empty of transient roots (the harness pops them
	// before calling Reorder) so that the Reorderer can safely rebuild
	// levels for every live node.
	Reorder(b *BDD) error
}

type noReorder struct{}

func (noReorder) Ready() bool            { return false }
func (noReorder) Reorder(*BDD) error { return nil }

// SetReorderer installs r as the BDD's Reorderer, replacing whatever was
// passed to New via the Reorder option (or the no-op default).
func (b *BDD) SetReorderer(r Reorderer) {
	if r == nil {
		r = noReorder{}
	}
	b.reorderer = r
}

// Reordered reports how many nodes have been produced since the BDD was
// created (a reorder does not reset the count); a Reorderer typically uses
// this, together with
// its own notion of "enough churn has happened", to decide Ready.
func (b *BDD) Reordered() int {
	return b.produced
}

// withReorder wraps a call to a recursive operator kernel with the
// "interrupt, reorder, retry once" contract. run must return the sentinel
// errReorder, and only errReorder, when a reorder interrupt occurred; any
// other error is returned to the caller unchanged. Every public primitive
// that can allocate nodes (Not, Apply, Ite, Exist/Forall/Unique, AppEx/
// AppAll/AppUni, Replace/Compose/VecCompose, Restrict/Constrain/Simplify)
// is implemented as a thin wrapper around withReorder plus its _rec kernel.
func (b *BDD) withReorder(run func() (int, error)) (int, error) {
	b.firstReorder = true
	for {
		res, err := run()
		if err != errReorder {
			return res, err
		}
		if rerr := b.reorderer.Reorder(b); rerr != nil {
			return -1, rerr
		}
		b.usedNextReorder = b.produced + b.size()
		if !b.firstReorder {
			return -1, errMemory
		}
		b.firstReorder = false
	}
}
