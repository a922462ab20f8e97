// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"fmt"
	"math"
	"unsafe"
)

// Hash functions

func _TRIPLE(a, b, c, len int) int {
	return _PAIR(c, _PAIR(a, b, len), len)
}

// _PAIR is a mapping function that maps (bijectively) a pair of integers (a,
// b) into a unique integer then casts it into a value in the interval
// [0..len) using a modulo operation.
func _PAIR(a, b, len int) int {
	ua := uint64(a)
	ub := uint64(b)
	return int(((((ua + ub) * (ua + ub + 1)) / 2) + ua) % uint64(len))
}

// Hash value modifiers for quantification and replace/compose; each selects
// a disjoint slice of the shared cache id space so that quant/forall/unique
// and replace/compose/veccompose results never collide in the quant and
// replace caches, without needing six separate tables.
const (
	cacheidEXIST  int = 0x0
	cacheidFORALL int = 0x1
	cacheidUNIQUE int = 0x2
	cacheidAPPEX  int = 0x3
	cacheidAPPALL int = 0x4
	cacheidAPPUNI int = 0x5

	cacheidREPLACE    int = 0x0
	cacheidCOMPOSE    int = 0x1
	cacheidVECCOMPOSE int = 0x2

	cacheidCONSTRAIN int = 0x0
	cacheidRESTRICT  int = 0x1
	cacheidSATCOUN   int = 0x2
	cacheidSATCOULN  int = 0x3
	cacheidPATHCOU   int = 0x4
	cacheidSIMPLIFY  int = 0x5
)

type data4n struct {
	res int
	a   int
	b   int
	c   int
}

type data4ncache struct {
	ratio  int
	opHit  int // entries found in the caches
	opMiss int // entries not found in the caches
	table  []data4n
}

func (bc *data4ncache) init(size, ratio int) {
	size = primeGte(size)
	bc.table = make([]data4n, size)
	bc.ratio = ratio
	bc.reset()
}

func (bc *data4ncache) resize(size int) {
	if bc.ratio > 0 {
		size = primeGte((size * bc.ratio) / 100)
		bc.table = make([]data4n, size)
	}
	bc.reset()
}

func (bc *data4ncache) reset() {
	for k := range bc.table {
		bc.table[k].a = -1
	}
}

// data3ncache is used for caches keyed by one node, or a pair of nodes, plus
// a cache id (the replace and misc caches).
type data3ncache struct {
	ratio  int
	opHit  int
	opMiss int
	table  []data3n
}

type data3n struct {
	res int
	a   int
	b   int // unused by single-key lookups (matchreplace, matchmisc)
	c   int
}

func (bc *data3ncache) init(size, ratio int) {
	size = primeGte(size)
	bc.table = make([]data3n, size)
	bc.ratio = ratio
	bc.reset()
}

func (bc *data3ncache) resize(size int) {
	if bc.ratio > 0 {
		size = primeGte((size * bc.ratio) / 100)
		bc.table = make([]data3n, size)
	}
	bc.reset()
}

func (bc *data3ncache) reset() {
	for k := range bc.table {
		bc.table[k].a = -1
	}
}

// Setup and shutdown

func (b *BDD) cacheinit(c *configs) {
	size := 10000
	if c.cachesize != 0 {
		size = c.cachesize
	}
	size = primeGte(size)
	b.applycache.init(size, c.cacheratio)
	b.itecache.init(size, c.cacheratio)
	b.quantcache.init(size, c.cacheratio)
	b.appexcache.init(size, c.cacheratio)
	b.replacecache.init(size, c.cacheratio)
	b.misccache.init(size, c.cacheratio)
}

func (b *BDD) cachereset() {
	b.applycache.reset()
	b.itecache.reset()
	b.quantcache.reset()
	b.appexcache.reset()
	b.replacecache.reset()
	b.misccache.reset()
}

func (b *BDD) cacheresize(nodesize int) {
	b.applycache.resize(nodesize)
	b.itecache.resize(nodesize)
	b.quantcache.resize(nodesize)
	b.appexcache.resize(nodesize)
	b.replacecache.resize(nodesize)
	b.misccache.resize(nodesize)
}

// CacheStats returns a human-readable report on the hit/miss ratio of every
// operation cache.
func (b *BDD) CacheStats() string {
	res := b.applycache.String()
	res += b.itecache.String()
	res += b.quantcache.String()
	res += b.appexcache.String()
	res += b.replacecache.String()
	res += b.misccache.String()
	return res
}

//
// Quantification Cache
//

// quantset2cache takes a variable list, similar to the ones generated with
// Makeset, and sets the variables in the quantification cache.
func (b *BDD) quantset2cache(n int) error {
	if n < 2 {
		return b.seterrorAsError(ErrVarset, "illegal variable (%d) in varset to cache", n)
	}
	b.quantsetID++
	if b.quantsetID == math.MaxInt32 {
		b.quantset = make([]int32, b.varnum)
		b.quantsetID = 1
	}
	for i := n; i > 1; i = b.high(i) {
		b.quantset[b.level(i)] = b.quantsetID
		b.quantlast = b.level(i)
	}
	return nil
}

// svarset2cache is the signed counterpart of quantset2cache, used by
// Restrict: n is not a plain cube of positively-quantified variables but a
// conjunction of literals (built e.g. with Apply/Ithvar/NIthvar), and the
// sign recorded for each variable's level says which branch of it was
// fixed to true (positive) or false (negative).
func (b *BDD) svarset2cache(n int) error {
	if n < 2 {
		return b.seterrorAsError(ErrVarset, "illegal variable (%d) in varset to cache", n)
	}
	b.quantsetID++
	if b.quantsetID == math.MaxInt32 {
		b.quantset = make([]int32, b.varnum)
		b.quantsetID = 1
	}
	for i := n; i > 1; {
		b.quantlast = b.level(i)
		if b.low(i) == 0 {
			b.quantset[b.level(i)] = b.quantsetID
			i = b.high(i)
		} else {
			b.quantset[b.level(i)] = -b.quantsetID
			i = b.low(i)
		}
	}
	return nil
}

// The hash function for Apply is #(left, right, applycache.op).

type applycache struct {
	data4ncache
	op int // Current operation during an apply
}

func (bc *applycache) matchapply(left, right int) int {
	entry := bc.table[_TRIPLE(left, right, bc.op, len(bc.table))]
	if entry.a == left && entry.b == right && entry.c == bc.op {
		if _DEBUG {
			bc.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		bc.opMiss++
	}
	return -1
}

func (bc *applycache) setapply(left, right, res int) int {
	bc.table[_TRIPLE(left, right, bc.op, len(bc.table))] = data4n{a: left, b: right, c: bc.op, res: res}
	return res
}

// The hash function for operation Not(n) is simply n.

func (bc *applycache) matchnot(n int) int {
	entry := bc.table[n%len(bc.table)]
	if entry.a == n && entry.c == int(opnot) {
		if _DEBUG {
			bc.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		bc.opMiss++
	}
	return -1
}

func (bc *applycache) setnot(n, res int) int {
	bc.table[n%len(bc.table)] = data4n{a: n, c: int(opnot), res: res}
	return res
}

func (bc applycache) String() string {
	res := fmt.Sprintf("== Apply cache  %d (%s)\n", len(bc.table), humanSize(len(bc.table), unsafe.Sizeof(data4n{})))
	res += fmt.Sprintf(" Operator Hits: %d (%.1f%%)\n", bc.opHit, hitratio(bc.opHit, bc.opMiss))
	res += fmt.Sprintf(" Operator Miss: %d\n", bc.opMiss)
	return res
}

// The hash function for ITE is #(f,g,h).

type itecache struct {
	data4ncache
}

func (bc *itecache) matchite(f, g, h int) int {
	entry := bc.table[_TRIPLE(f, g, h, len(bc.table))]
	if entry.a == f && entry.b == g && entry.c == h {
		if _DEBUG {
			bc.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		bc.opMiss++
	}
	return -1
}

func (bc *itecache) setite(f, g, h, res int) int {
	bc.table[_TRIPLE(f, g, h, len(bc.table))] = data4n{a: f, b: g, c: h, res: res}
	return res
}

func (bc itecache) String() string {
	res := fmt.Sprintf("== ITE cache    %d (%s)\n", len(bc.table), humanSize(len(bc.table), unsafe.Sizeof(data4n{})))
	res += fmt.Sprintf(" Operator Hits: %d (%.1f%%)\n", bc.opHit, hitratio(bc.opHit, bc.opMiss))
	res += fmt.Sprintf(" Operator Miss: %d\n", bc.opMiss)
	return res
}

// The hash function for quantification is #(n, varset); the entry also
// records quantcache.id, which a lookup must match.

type quantcache struct {
	data4ncache
	id int // Current cache id for quantifications (exist/forall/unique)
}

func (bc *quantcache) matchquant(n, varset int) int {
	entry := bc.table[_PAIR(n, varset, len(bc.table))]
	if entry.a == n && entry.b == varset && entry.c == bc.id {
		if _DEBUG {
			bc.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		bc.opMiss++
	}
	return -1
}

func (bc *quantcache) setquant(n, varset, res int) int {
	bc.table[_PAIR(n, varset, len(bc.table))] = data4n{a: n, b: varset, c: bc.id, res: res}
	return res
}

func (bc quantcache) String() string {
	res := fmt.Sprintf("== Quant cache  %d (%s)\n", len(bc.table), humanSize(len(bc.table), unsafe.Sizeof(data4n{})))
	res += fmt.Sprintf(" Operator Hits: %d (%.1f%%)\n", bc.opHit, hitratio(bc.opHit, bc.opMiss))
	res += fmt.Sprintf(" Operator Miss: %d\n", bc.opMiss)
	return res
}

// The hash function for AppEx/AppAll/AppUni is #(left, right, id), where id
// encodes both the quantified varset and the applied operator, so the same
// cache can serve all three operations.

type appexcache struct {
	data4ncache
	op int // Current operator (and/or/xor/nand/nor)
	id int // Current cache id, combining varset, op and appex/appall/appuni
}

func (bc *appexcache) matchappex(left, right int) int {
	entry := bc.table[_TRIPLE(left, right, bc.id, len(bc.table))]
	if entry.a == left && entry.b == right && entry.c == bc.id {
		if _DEBUG {
			bc.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		bc.opMiss++
	}
	return -1
}

func (bc *appexcache) setappex(left, right, res int) int {
	bc.table[_TRIPLE(left, right, bc.id, len(bc.table))] = data4n{a: left, b: right, c: bc.id, res: res}
	return res
}

func (bc appexcache) String() string {
	res := fmt.Sprintf("== AppEx cache  %d (%s)\n", len(bc.table), humanSize(len(bc.table), unsafe.Sizeof(data4n{})))
	res += fmt.Sprintf(" Operator Hits: %d (%.1f%%)\n", bc.opHit, hitratio(bc.opHit, bc.opMiss))
	res += fmt.Sprintf(" Operator Miss: %d\n", bc.opMiss)
	return res
}

// The hash function for Replace/Compose/VecCompose is simply n, modified by
// a cache id that distinguishes the three operations and the particular
// Replacer/Composer in use.

type replacecache struct {
	data3ncache
	id int
}

func (bc *replacecache) matchreplace(n int) int {
	entry := bc.table[n%len(bc.table)]
	if entry.a == n && entry.c == bc.id {
		if _DEBUG {
			bc.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		bc.opMiss++
	}
	return -1
}

func (bc *replacecache) setreplace(n, res int) int {
	bc.table[n%len(bc.table)] = data3n{a: n, c: bc.id, res: res}
	return res
}

// matchreplace2/setreplace2 are the two-key variants used by Compose, which
// (unlike Replace and VecCompose) caches on a pair of nodes (f, g) since the
// substituted expression g is itself a full BDD and not fixed per id.
func (bc *replacecache) matchreplace2(n, g int) int {
	entry := bc.table[_PAIR(n, g, len(bc.table))]
	if entry.a == n && entry.b == g && entry.c == bc.id {
		if _DEBUG {
			bc.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		bc.opMiss++
	}
	return -1
}

func (bc *replacecache) setreplace2(n, g, res int) int {
	bc.table[_PAIR(n, g, len(bc.table))] = data3n{a: n, b: g, c: bc.id, res: res}
	return res
}

func (bc replacecache) String() string {
	res := fmt.Sprintf("== Replace      %d (%s)\n", len(bc.table), humanSize(len(bc.table), unsafe.Sizeof(data3n{})))
	res += fmt.Sprintf(" Operator Hits: %d (%.1f%%)\n", bc.opHit, hitratio(bc.opHit, bc.opMiss))
	res += fmt.Sprintf(" Operator Miss: %d\n", bc.opMiss)
	return res
}

// misccache is the catch-all cache for the operations that do not fit the
// apply/ite/quant/appex/replace shapes: restrict, constrain and simplify.
// Each uses a distinct id (cacheidCONSTRAIN, ...) so that a single table can
// serve all of them without collisions, mirroring BuDDy's single misccache.
// Satcount, Satcountln and Pathcount do not use it: they memoize in a map
// local to each call.
type misccache struct {
	data3ncache
	id int
}

func (bc *misccache) matchmisc(n int) int {
	entry := bc.table[n%len(bc.table)]
	if entry.a == n && entry.c == bc.id {
		if _DEBUG {
			bc.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		bc.opMiss++
	}
	return -1
}

func (bc *misccache) setmisc(n, res int) int {
	bc.table[n%len(bc.table)] = data3n{a: n, c: bc.id, res: res}
	return res
}

// matchmisc2/setmisc2 are the two-key variants used by Constrain and
// Simplify, which cache on a pair of nodes (f, c) rather than a single one.
func (bc *misccache) matchmisc2(a, c int) int {
	entry := bc.table[_PAIR(a, c, len(bc.table))]
	if entry.a == a && entry.b == c && entry.c == bc.id {
		if _DEBUG {
			bc.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		bc.opMiss++
	}
	return -1
}

func (bc *misccache) setmisc2(a, c, res int) int {
	bc.table[_PAIR(a, c, len(bc.table))] = data3n{a: a, b: c, c: bc.id, res: res}
	return res
}

func (bc misccache) String() string {
	res := fmt.Sprintf("== Misc cache   %d (%s)\n", len(bc.table), humanSize(len(bc.table), unsafe.Sizeof(data3n{})))
	res += fmt.Sprintf(" Operator Hits: %d (%.1f%%)\n", bc.opHit, hitratio(bc.opHit, bc.opMiss))
	res += fmt.Sprintf(" Operator Miss: %d\n", bc.opMiss)
	return res
}

func hitratio(hit, miss int) float64 {
	if hit+miss == 0 {
		return 0
	}
	return (float64(hit) * 100) / (float64(hit) + float64(miss))
}
