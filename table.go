// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"fmt"
	"log"
	"math"
	"runtime"
	"sync/atomic"
)

// bddnode is one slot of the node arena. The array doubles as a chained hash
// table keyed by (level, low, high): hash is the head of the chain for the
// slot's hash bucket and next is the intra-chain link. A free slot reuses low
// (set to -1) and next to thread the free list, and reuses the high bits of
// level to carry the mark bit during a mark/sweep GC.
type bddnode struct {
	refcou int32 // external reference count, saturates at _MAXREFCOUNT
	level  int32 // variable order of this node, with the mark bit in bit 21
	low    int   // false branch, or -1 if this slot is free
	high   int   // true branch
	hash   int   // head of the hash chain this slot's bucket points to
	next   int   // next slot in the same hash chain, 0 if last
}

// New creates a BDD with varnum variables. The initial node table and cache
// sizes can be tuned with the options (see config.go); the table always grows
// on demand, so these are performance hints, not hard limits, unless
// Maxnodesize is set.
func New(varnum int, options ...func(*configs)) (*BDD, error) {
	b := &BDD{}
	if varnum < 1 || varnum > int(_MAXVAR) {
		b.seterror(ErrRange, "bad number of variables (%d)", varnum)
		return nil, b.error
	}
	config := makeconfigs(varnum)
	for _, f := range options {
		f(config)
	}
	b.configs = *config
	b.varnum = int32(varnum)
	if _LOGLEVEL > 0 {
		log.Printf("robdd: varnum set to %d\n", b.varnum)
	}
	b.varset = make([][2]int, varnum)
	b.refstack = make([]int, 0, 2*varnum+4)
	b.initref()
	b.strictDelref = config.strictDelref
	b.reorderer = config.reorderer
	if b.reorderer == nil {
		b.reorderer = noReorder{}
	}

	nodesize := primeGte(config.nodesize)
	b.nodes = make([]bddnode, nodesize)
	for k := range b.nodes {
		b.nodes[k] = bddnode{low: -1, next: k + 1}
	}
	b.nodes[nodesize-1].next = 0
	b.nodes[0].refcou = _MAXREFCOUNT
	b.nodes[1].refcou = _MAXREFCOUNT
	b.nodes[0].low, b.nodes[0].high = 0, 0
	b.nodes[1].low, b.nodes[1].high = 1, 1
	b.nodes[0].level = int32(varnum)
	b.nodes[1].level = int32(varnum)
	b.freepos = 2
	b.freenum = nodesize - 2
	b.gcstat.history = []gcpoint{}

	b.nodefinalizer = func(n *int) {
		if _DEBUG {
			atomic.AddUint64(&b.gcstat.calledfinalizers, 1)
			if _LOGLEVEL > 2 {
				log.Printf("robdd: dec refcou %d\n", *n)
			}
		}
		b.nodes[*n].refcou--
	}

	for k := 0; k < varnum; k++ {
		v0, _ := b.makenode(int32(k), 0, 1)
		if v0 < 0 {
			b.seterror(ErrMemory, "cannot allocate variable %d", k)
			return nil, b.error
		}
		b.nodes[v0].refcou = _MAXREFCOUNT
		b.pushref(v0)
		v1, _ := b.makenode(int32(k), 1, 0)
		if v1 < 0 {
			b.seterror(ErrMemory, "cannot allocate variable %d", k)
			return nil, b.error
		}
		b.nodes[v1].refcou = _MAXREFCOUNT
		b.popref(1)
		b.varset[k] = [2]int{v1, v0}
	}
	b.cacheinit(config)
	b.quantset = make([]int32, varnum)
	b.supportSet = make([]int32, varnum)
	b.usedNextReorder = len(b.nodes)
	return b, nil
}

func (b *BDD) ismarked(n int) bool {
	return (b.nodes[n].level & _MARKBIT) != 0
}

func (b *BDD) marknode(n int) {
	b.nodes[n].level |= _MARKBIT
}

func (b *BDD) unmarknode(n int) {
	b.nodes[n].level &= _LEVELMASK
}

func (b *BDD) size() int {
	return len(b.nodes)
}

func (b *BDD) level(n int) int32 {
	return b.nodes[n].level & _LEVELMASK
}

func (b *BDD) low(n int) int {
	return b.nodes[n].low
}

func (b *BDD) high(n int) int {
	return b.nodes[n].high
}

// checkptr reports whether n refers to a live slot of the arena: a nil Node,
// an out-of-range index or a free slot are all invalid.
func (b *BDD) checkptr(n Node) error {
	if n == nil {
		return b.seterrorAsError(ErrIllbdd, "nil node")
	}
	v := *n
	if v < 0 || v >= len(b.nodes) {
		return b.seterrorAsError(ErrRange, "node index %d out of range", v)
	}
	if v > 1 && b.nodes[v].low == -1 {
		return b.seterrorAsError(ErrIllbdd, "node %d refers to a free slot", v)
	}
	return nil
}

// The hash function for nodes is #(level, low, high).

func (b *BDD) ptrhash(n int) int {
	return _TRIPLE(int(b.level(n)), b.nodes[n].low, b.nodes[n].high, len(b.nodes))
}

func (b *BDD) nodehash(level int32, low, high int) int {
	return _TRIPLE(int(level), low, high, len(b.nodes))
}

// retnode wraps an internal node index into an externally held Node, setting
// a finalizer that decrements the reference count when the Go runtime
// reclaims the wrapper. This complements, rather than replaces, the explicit
// AddRef/DelRef pair: callers that want precise, synchronous control over a
// node's lifetime should use AddRef/DelRef directly.
func (b *BDD) retnode(n int) Node {
	if n < 0 || n >= len(b.nodes) {
		if _DEBUG {
			log.Panicf("robdd: retnode(%d) out of range\n", n)
		}
		return nil
	}
	if n == 0 {
		return bddzero
	}
	if n == 1 {
		return bddone
	}
	x := n
	if b.nodes[n].refcou < _MAXREFCOUNT {
		b.nodes[n].refcou++
		runtime.SetFinalizer(&x, b.nodefinalizer)
		if _DEBUG {
			atomic.AddUint64(&b.gcstat.setfinalizers, 1)
			if _LOGLEVEL > 2 {
				log.Printf("robdd: inc refcou %d\n", n)
			}
		}
	}
	return &x
}

// makenode returns the node (level, low, high), creating it if it is not
// already present in the unique table. A GC pass, and a resize of the table
// after it, happen transparently: the returned node is valid and the caller
// goes on. The returned error is non-nil only for a reorder interrupt
// (errReorder), which callers that recurse bubble up unchanged to the
// withReorder harness so the interrupted operation can be retried, or when
// no free slot could be found (errMemory).
func (b *BDD) makenode(level int32, low, high int) (int, error) {
	if _DEBUG {
		b.uniqueAccess++
	}
	if low == high {
		return low, nil
	}
	hash := b.nodehash(level, low, high)
	res := b.nodes[hash].hash
	for res != 0 {
		if b.level(res) == level && b.nodes[res].low == low && b.nodes[res].high == high {
			if _DEBUG {
				b.uniqueHit++
			}
			return res, nil
		}
		res = b.nodes[res].next
		if _DEBUG {
			b.uniqueChain++
		}
	}
	if _DEBUG {
		b.uniqueMiss++
	}

	if b.freepos == 0 {
		if b.errorCond {
			return -1, errMemory
		}
		b.gbc()
		if (b.freenum*100)/len(b.nodes) <= b.minfreenodes {
			rerr := b.noderesize()
			if rerr != errResize {
				return -1, errMemory
			}
			hash = b.nodehash(level, low, high)
		}
		if b.freepos == 0 {
			return -1, errMemory
		}
	}

	res = b.freepos
	b.freepos = b.nodes[b.freepos].next
	b.freenum--
	b.produced++
	b.nodes[res].level = level
	b.nodes[res].low = low
	b.nodes[res].high = high
	b.nodes[res].next = b.nodes[hash].hash
	b.nodes[hash].hash = res

	if b.reorderer.Ready() && b.produced >= b.usedNextReorder {
		return res, errReorder
	}
	return res, nil
}

func (b *BDD) noderesize() error {
	if _LOGLEVEL > 0 {
		log.Printf("robdd: start resize: %d\n", len(b.nodes))
	}
	oldsize := len(b.nodes)
	nodesize := oldsize
	if oldsize >= b.maxnodesize && b.maxnodesize > 0 {
		return errMemory
	}
	if oldsize > (math.MaxInt32 >> 1) {
		nodesize = math.MaxInt32 - 1
	} else {
		nodesize = nodesize << 1
	}
	if b.maxnodeincrease > 0 && nodesize > (oldsize+b.maxnodeincrease) {
		nodesize = oldsize + b.maxnodeincrease
	}
	if nodesize > b.maxnodesize && b.maxnodesize > 0 {
		nodesize = b.maxnodesize
	}
	nodesize = primeLte(nodesize)
	if nodesize <= oldsize {
		return errMemory
	}

	tmp := b.nodes
	b.nodes = make([]bddnode, nodesize)
	copy(b.nodes, tmp)

	for n := oldsize; n < nodesize; n++ {
		b.nodes[n] = bddnode{low: -1, next: n + 1}
	}
	b.nodes[nodesize-1].next = 0
	for n := 0; n < oldsize; n++ {
		b.nodes[n].hash = 0
	}

	b.freepos = 0
	b.freenum = 0
	for n := nodesize - 1; n > 1; n-- {
		if b.nodes[n].low != -1 {
			hash := b.ptrhash(n)
			b.nodes[n].next = b.nodes[hash].hash
			b.nodes[hash].hash = n
		} else {
			b.nodes[n].next = b.freepos
			b.freepos = n
			b.freenum++
		}
	}

	b.cacheresize(nodesize)
	if _LOGLEVEL > 0 {
		log.Printf("robdd: end resize: %d\n", len(b.nodes))
	}
	return errResize
}

// allnodesfrom visits every node reachable from n, marking as it descends and
// unmarking once it has reported each node to f.
func (b *BDD) allnodesfrom(f func(id, level, low, high int) error, n []Node) error {
	for _, v := range n {
		b.markrec(*v)
	}
	for k := range b.nodes {
		if b.ismarked(k) {
			b.unmarknode(k)
			if err := f(k, int(b.level(k)), b.nodes[k].low, b.nodes[k].high); err != nil {
				b.unmarkall()
				return err
			}
		}
	}
	return nil
}

// allnodes visits every live node in the arena, in storage order.
func (b *BDD) allnodes(f func(id, level, low, high int) error) error {
	for k, v := range b.nodes {
		if v.low != -1 {
			if err := f(k, int(b.level(k)), v.low, v.high); err != nil {
				return err
			}
		}
	}
	return nil
}

// humanSize renders a count of n elements of the given per-element size as a
// human-readable byte count (e.g. "128 KiB").
func humanSize(n int, elem uintptr) string {
	bytes := float64(n) * float64(elem)
	units := []string{"B", "KiB", "MiB", "GiB", "TiB"}
	i := 0
	for bytes >= 1024 && i < len(units)-1 {
		bytes /= 1024
		i++
	}
	return fmt.Sprintf("%.3g %s", bytes, units[i])
}
