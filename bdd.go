// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import "math/big"

// Node is a reference to an element of a BDD. It represents the atomic unit
// of interaction with a BDD: most operations take Nodes as arguments and
// return a Node. We use a pointer to int, rather than a plain int, so that an
// externally held Node can be finalized by the Go runtime and have its
// reference count decremented automatically; see BDD.retnode.
type Node *int

// bddzero and bddone are the shared Node values for the two constant nodes.
// They are never finalized (constants are pinned at _MAXREFCOUNT and never
// freed) so every caller can safely share these two pointers instead of
// minting a fresh one on every call to False/True.
var (
	bddzeroInt = 0
	bddoneInt  = 1
	bddzero    Node = &bddzeroInt
	bddone     Node = &bddoneInt
)

// BDD is a single, self-contained Boolean-function engine: a node arena and
// unique table, a reference stack, six operation caches, the variable order
// and a latched error condition. Every method that can allocate a node is
// defined on *BDD. A process may hold several independent BDD values, each
// with its own variable numbering and node arena; there is no implicit
// global/default instance.
type BDD struct {
	varnum int32     // number of declared variables
	varset [][2]int  // varset[v] == [NIthvar(v), Ithvar(v)]
	error  error      // the latched error, nil if none occurred yet
	errorHook    func(ErrorCode, string) // called every time seterror latches a new error
	errorCond    bool                    // sticky flag mirroring bdderrorcond
	strictDelref bool                    // if true, DelRef on a zero refcount is an error

	nodes         []bddnode // the node arena; constants always sit at index 0 and 1
	freenum       int       // number of free nodes
	freepos       int       // index of the first free node, 0 if none
	produced      int       // total number of new nodes ever produced
	nodefinalizer interface{}

	uniqueAccess int // accesses to the unique node table
	uniqueChain  int // iterations through the hash chains
	uniqueHit    int // entries found in the unique table
	uniqueMiss   int // entries not found in the unique table

	refstack []int // transient roots protected from GC during a recursive op

	gcstat  gcstat  // history of garbage collections
	configs         // configurable parameters (see config.go)

	applycache   applycache
	itecache     itecache
	quantcache   quantcache
	appexcache   appexcache
	replacecache replacecache
	misccache    misccache

	quantset   []int32 // quantset[level] == quantsetID iff level is quantified
	quantsetID int32
	quantlast  int32 // highest quantified level, used to prune recursion

	supportID  int32 // epoch counter for Support
	supportSet []int32

	replaceid int // counter used to mint fresh Replacer/VecCompose cache ids

	firstReorder    bool      // true until the harness has retried once
	usedNextReorder int       // node-production threshold for the next interrupt
	reorderer       Reorderer // collaborator invoked when the threshold is crossed
}

// Error returns the error status of the BDD, or the empty string if no error
// has been recorded since the last call to ClearError.
func (b *BDD) Error() string {
	if b.error == nil {
		return ""
	}
	return b.error.Error()
}

// Errored returns true if an error occurred during a computation.
func (b *BDD) Errored() bool {
	return b.error != nil
}

// ClearError resets the latched error condition, allowing the BDD to be used
// again after a recoverable error (such as ErrMemory from a bounded node
// table). It does not undo any partial computation.
func (b *BDD) ClearError() {
	b.error = nil
	b.errorCond = false
}

// Varnum returns the number of declared variables.
func (b *BDD) Varnum() int {
	return int(b.varnum)
}

// True returns the Node for the constant true.
func (b *BDD) True() Node {
	return bddone
}

// False returns the Node for the constant false.
func (b *BDD) False() Node {
	return bddzero
}

// From returns a (constant) Node from a boolean value.
func (b *BDD) From(v bool) Node {
	if v {
		return bddone
	}
	return bddzero
}

// Ithvar returns a Node representing the i'th variable, in its positive form.
// The requested variable must be in the range [0..Varnum).
func (b *BDD) Ithvar(i int) Node {
	if i < 0 || i >= int(b.varnum) {
		b.seterror(ErrRange, "variable index %d out of range [0..%d)", i, b.varnum)
		return bddzero
	}
	return b.retnode(b.varset[i][1])
}

// NIthvar returns a Node representing the negation of the i'th variable. See
// Ithvar for further details.
func (b *BDD) NIthvar(i int) Node {
	if i < 0 || i >= int(b.varnum) {
		b.seterror(ErrRange, "variable index %d out of range [0..%d)", i, b.varnum)
		return bddzero
	}
	return b.retnode(b.varset[i][0])
}

// Low returns the false branch of a Node, or nil if n is not a valid Node.
func (b *BDD) Low(n Node) Node {
	if b.checkptr(n) != nil {
		return nil
	}
	return b.retnode(b.low(*n))
}

// High returns the true branch of a Node, or nil if n is not a valid Node.
func (b *BDD) High(n Node) Node {
	if b.checkptr(n) != nil {
		return nil
	}
	return b.retnode(b.high(*n))
}

// Equal tests equivalence between two Nodes. Since the engine maintains a
// canonical (reduced, ordered) representation, two Nodes denote the same
// Boolean function if and only if they carry the same index.
func (b *BDD) Equal(n1, n2 Node) bool {
	if n1 == n2 {
		return true
	}
	if n1 == nil || n2 == nil {
		return false
	}
	return *n1 == *n2
}

// And returns the logical 'and' of a sequence of Nodes.
func (b *BDD) And(n ...Node) Node {
	if len(n) == 0 {
		return bddone
	}
	res := n[0]
	for _, m := range n[1:] {
		res = b.Apply(res, m, OPand)
	}
	return res
}

// Or returns the logical 'or' of a sequence of Nodes.
func (b *BDD) Or(n ...Node) Node {
	if len(n) == 0 {
		return bddzero
	}
	res := n[0]
	for _, m := range n[1:] {
		res = b.Apply(res, m, OPor)
	}
	return res
}

// Imp returns the logical implication between two Nodes.
func (b *BDD) Imp(n1, n2 Node) Node {
	return b.Apply(n1, n2, OPimp)
}

// Equiv returns the logical bi-implication between two Nodes.
func (b *BDD) Equiv(n1, n2 Node) Node {
	return b.Apply(n1, n2, OPbiimp)
}

// AndExist returns the relational composition of two Nodes with respect to
// varset: the result of (Exists varset . n1 & n2).
func (b *BDD) AndExist(varset, n1, n2 Node) Node {
	return b.AppEx(n1, n2, OPand, varset)
}

// pow2 computes 2^level as a big.Int. Satcount uses it to account for the
// variables that a path skips, above the root of n or between a node and its
// children.
func pow2(level int32) *big.Int {
	res := big.NewInt(0)
	res.SetBit(res, int(level), 1)
	return res
}
