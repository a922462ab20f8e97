// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import "log"

// gcstat stores status information about garbage collections. We keep a
// history of snapshots so that Stats can report how collections have
// progressed over the life of the BDD.
type gcstat struct {
	setfinalizers    uint64 // total number of external references created
	calledfinalizers uint64 // number of external references reclaimed so far
	history          []gcpoint
}

type gcpoint struct {
	nodes            int
	freenodes        int
	setfinalizers    int
	calledfinalizers int
}

// AddRef increases the reference count on node n and returns n so that calls
// can be chained. A call to AddRef never raises an error, even on an unused
// node or a value outside the range of the BDD: it is a no-op in that case.
//
// Reference counting through AddRef/DelRef is independent from, and
// complementary to, the automatic accounting performed by retnode's
// finalizers: use AddRef/DelRef when a node's lifetime must be controlled
// precisely and synchronously (e.g. to pin a node across a call that might
// otherwise let it be collected).
func (b *BDD) AddRef(n Node) Node {
	if n == nil || *n < 2 || *n >= len(b.nodes) || b.nodes[*n].low == -1 {
		return n
	}
	if b.nodes[*n].refcou < _MAXREFCOUNT {
		b.nodes[*n].refcou++
	}
	return n
}

// DelRef decreases the reference count on node n and returns n so that calls
// can be chained. Decrementing a node whose count is already zero reports
// ErrBreak unless the StrictDelref(false) option was passed to New.
func (b *BDD) DelRef(n Node) Node {
	if n == nil || *n >= len(b.nodes) || b.nodes[*n].low == -1 {
		return n
	}
	if *n < 2 {
		return n
	}
	if b.nodes[*n].refcou <= 0 {
		if b.strictDelref {
			b.seterror(ErrBreak, "DelRef on node %d with a zero reference count", *n)
		}
		return n
	}
	if b.nodes[*n].refcou < _MAXREFCOUNT {
		b.nodes[*n].refcou--
	}
	return n
}

// GC explicitly triggers a mark-sweep garbage collection pass.
func (b *BDD) GC() {
	b.gbc()
}

// gbc is the garbage collector invoked from makenode when no free slot is
// available. Live nodes (those on the reference stack or with a positive
// reference count) are marked and kept in place; everything else is voided
// and threaded back onto the free list. All six operation caches are reset
// since they may hold results that reference reclaimed nodes.
func (b *BDD) gbc() {
	if _LOGLEVEL > 0 {
		log.Println("robdd: starting GC")
	}
	if _DEBUG {
		b.gcstat.history = append(b.gcstat.history, gcpoint{
			nodes:            len(b.nodes),
			freenodes:        b.freenum,
			setfinalizers:    int(b.gcstat.setfinalizers),
			calledfinalizers: int(b.gcstat.calledfinalizers),
		})
		b.gcstat.setfinalizers = 0
		b.gcstat.calledfinalizers = 0
	} else {
		b.gcstat.history = append(b.gcstat.history, gcpoint{
			nodes:     len(b.nodes),
			freenodes: b.freenum,
		})
	}

	for _, r := range b.refstack {
		b.markrec(r)
	}
	for k := range b.nodes {
		if b.nodes[k].refcou > 0 {
			b.markrec(k)
		}
		b.nodes[k].hash = 0
	}
	b.freepos = 0
	b.freenum = 0
	for n := len(b.nodes) - 1; n > 1; n-- {
		if b.ismarked(n) && b.nodes[n].low != -1 {
			b.unmarknode(n)
			hash := b.ptrhash(n)
			b.nodes[n].next = b.nodes[hash].hash
			b.nodes[hash].hash = n
		} else {
			b.nodes[n].low = -1
			b.nodes[n].next = b.freepos
			b.freepos = n
			b.freenum++
		}
	}
	b.cachereset()
	if _LOGLEVEL > 0 {
		log.Printf("robdd: end GC; freenum: %d\n", b.freenum)
	}
}

func (b *BDD) markrec(n int) {
	if n < 2 || b.ismarked(n) || b.nodes[n].low == -1 {
		return
	}
	b.marknode(n)
	b.markrec(b.nodes[n].low)
	b.markrec(b.nodes[n].high)
}

func (b *BDD) unmarkall() {
	for k, v := range b.nodes {
		if k < 2 || !b.ismarked(k) || v.low == -1 {
			continue
		}
		b.unmarknode(k)
	}
}

// initref, pushref and popref manage the reference stack, the transient-root
// mechanism that protects nodes being built by a recursive operator from
// being reclaimed by a GC pass triggered by makenode deeper in the same
// recursion.
func (b *BDD) initref() {
	b.refstack = b.refstack[:0]
}

func (b *BDD) pushref(n int) int {
	b.refstack = append(b.refstack, n)
	return n
}

func (b *BDD) popref(a int) {
	b.refstack = b.refstack[:len(b.refstack)-a]
}
