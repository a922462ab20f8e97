// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"fmt"
	"math"
	"math/big"
)

// Scanset returns the set of variables (levels) found when following the
// high branch of node n. This is the dual of Makeset. The result is nil if
// n is not a valid node or is a constant, and is sorted by ascending level.
// n is not checked to be a cube: for any other node, the levels along its
// chain of high branches are returned.
func (b *BDD) Scanset(n Node) []int {
	if b.checkptr(n) != nil {
		return nil
	}
	if *n < 2 {
		return nil
	}
	res := []int{}
	for i := *n; i > 1; i = b.high(i) {
		res = append(res, int(b.level(i)))
	}
	return res
}

// Makeset returns the node denoting the conjunction (the cube) of the
// variables in varset, in positive form. It is such that
// Scanset(Makeset(a)) == a, modulo order. It returns False and latches an
// error if a variable is outside the scope of the BDD.
func (b *BDD) Makeset(varset []int) Node {
	res := bddone
	for _, level := range varset {
		tmp := b.Apply(res, b.Ithvar(level), OPand)
		if b.error != nil {
			return bddzero
		}
		res = tmp
	}
	return res
}

// Satone finds a single satisfying assignment of n, returning a cube (a
// conjunction of literals, one per variable on a path to True) that implies
// n. It returns False only if n is False.
func (b *BDD) Satone(n Node) Node {
	if b.checkptr(n) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to Satone (%v)", n)
	}
	if *n < 2 {
		return n
	}
	res, err := b.withReorder(func() (int, error) {
		b.initref()
		b.pushref(*n)
		r, e := b.satone(*n)
		b.popref(1)
		return r, e
	})
	if err != nil {
		return b.seterror(ErrMemory, "satone: %s", err)
	}
	return b.retnode(res)
}

func (b *BDD) satone(n int) (int, error) {
	if n < 2 {
		return n, nil
	}
	var res int
	var err error
	if b.low(n) == 0 {
		high, herr := b.satone(b.high(n))
		if herr != nil {
			return -1, herr
		}
		b.pushref(high)
		res, err = b.makenode(b.level(n), 0, high)
		b.popref(1)
	} else {
		low, lerr := b.satone(b.low(n))
		if lerr != nil {
			return -1, lerr
		}
		b.pushref(low)
		res, err = b.makenode(b.level(n), low, 0)
		b.popref(1)
	}
	return res, err
}

// SatoneSet is Satone, but with the additional constraint that every
// variable in varset that n leaves unconstrained be mentioned in the
// result, with polarity taken from pol (pol must be True or False).
func (b *BDD) SatoneSet(n, varset, pol Node) Node {
	if b.checkptr(n) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to SatoneSet (n: %v)", n)
	}
	if *n == 0 {
		return n
	}
	if b.checkptr(varset) != nil {
		return b.seterror(ErrIllbdd, "wrong varset in call to SatoneSet (%v)", varset)
	}
	if b.checkptr(pol) != nil || *pol > 1 {
		return b.seterror(ErrIllbdd, "pol must be a constant in call to SatoneSet")
	}
	res, err := b.withReorder(func() (int, error) {
		b.initref()
		b.pushref(*n)
		r, e := b.satoneset(*n, *varset, *pol)
		b.popref(1)
		return r, e
	})
	if err != nil {
		return b.seterror(ErrMemory, "satoneset: %s", err)
	}
	return b.retnode(res)
}

func (b *BDD) satoneset(n, varset, pol int) (int, error) {
	if n < 2 && varset < 2 {
		return n, nil
	}
	switch {
	case b.level(n) < b.level(varset):
		var res int
		var err error
		if b.low(n) == 0 {
			high, herr := b.satoneset(b.high(n), varset, pol)
			if herr != nil {
				return -1, herr
			}
			b.pushref(high)
			res, err = b.makenode(b.level(n), 0, high)
		} else {
			low, lerr := b.satoneset(b.low(n), varset, pol)
			if lerr != nil {
				return -1, lerr
			}
			b.pushref(low)
			res, err = b.makenode(b.level(n), low, 0)
		}
		b.popref(1)
		return res, err
	case b.level(varset) < b.level(n):
		res0, err := b.satoneset(n, b.high(varset), pol)
		if err != nil {
			return -1, err
		}
		b.pushref(res0)
		var res int
		if pol == 1 {
			res, err = b.makenode(b.level(varset), 0, res0)
		} else {
			res, err = b.makenode(b.level(varset), res0, 0)
		}
		b.popref(1)
		return res, err
	default:
		var res int
		var err error
		if b.low(n) == 0 {
			high, herr := b.satoneset(b.high(n), b.high(varset), pol)
			if herr != nil {
				return -1, herr
			}
			b.pushref(high)
			res, err = b.makenode(b.level(n), 0, high)
		} else {
			low, lerr := b.satoneset(b.low(n), b.high(varset), pol)
			if lerr != nil {
				return -1, lerr
			}
			b.pushref(low)
			res, err = b.makenode(b.level(n), low, 0)
		}
		b.popref(1)
		return res, err
	}
}

// FullSatone is Satone, but it mentions every variable of the BDD (not just
// those on the path from n's root), taking the negative polarity for every
// variable n leaves unconstrained.
func (b *BDD) FullSatone(n Node) Node {
	if b.checkptr(n) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to FullSatone (%v)", n)
	}
	if *n == 0 {
		return n
	}
	res, err := b.withReorder(func() (int, error) {
		b.initref()
		b.pushref(*n)
		r, e := b.fullsatone(*n)
		b.popref(1)
		if e != nil {
			return -1, e
		}
		b.pushref(r)
		for v := b.level(*n) - 1; v >= 0; v-- {
			nr, nerr := b.makenode(v, r, 0)
			if nerr != nil {
				b.popref(1)
				return -1, nerr
			}
			b.popref(1)
			r = nr
			b.pushref(r)
		}
		b.popref(1)
		return r, nil
	})
	if err != nil {
		return b.seterror(ErrMemory, "fullsatone: %s", err)
	}
	return b.retnode(res)
}

func (b *BDD) fullsatone(n int) (int, error) {
	if n < 2 {
		return n, nil
	}
	var res int
	var err error
	if b.low(n) != 0 {
		low, lerr := b.fullsatone(b.low(n))
		if lerr != nil {
			return -1, lerr
		}
		b.pushref(low)
		for v := b.level(b.low(n)) - 1; v > b.level(n); v-- {
			nr, nerr := b.makenode(v, low, 0)
			if nerr != nil {
				b.popref(1)
				return -1, nerr
			}
			b.popref(1)
			low = nr
			b.pushref(low)
		}
		res, err = b.makenode(b.level(n), low, 0)
		b.popref(1)
	} else {
		high, herr := b.fullsatone(b.high(n))
		if herr != nil {
			return -1, herr
		}
		b.pushref(high)
		for v := b.level(b.high(n)) - 1; v > b.level(n); v-- {
			nr, nerr := b.makenode(v, high, 0)
			if nerr != nil {
				b.popref(1)
				return -1, nerr
			}
			b.popref(1)
			high = nr
			b.pushref(high)
		}
		res, err = b.makenode(b.level(n), 0, high)
		b.popref(1)
	}
	return res, err
}

// Allsat iterates through every legal variable assignment of n and calls f
// on each of them. The slice passed to f has length Varnum, with one entry
// per variable: 0 if false, 1 if true, -1 if a don't care. Iteration stops,
// and the error is returned, the first time f returns a non-nil error.
func (b *BDD) Allsat(f func([]int) error, n Node) error {
	if b.checkptr(n) != nil {
		return fmt.Errorf("wrong node in call to Allsat (%v)", n)
	}
	prof := make([]int, b.varnum)
	for k := range prof {
		prof[k] = -1
	}
	return b.allsat(*n, prof, f)
}

func (b *BDD) allsat(n int, prof []int, f func([]int) error) error {
	if n == 1 {
		return f(prof)
	}
	if n == 0 {
		return nil
	}
	if low := b.low(n); low != 0 {
		prof[b.level(n)] = 0
		for v := b.level(low) - 1; v > b.level(n); v-- {
			prof[v] = -1
		}
		if err := b.allsat(low, prof, f); err != nil {
			return err
		}
	}
	if high := b.high(n); high != 0 {
		prof[b.level(n)] = 1
		for v := b.level(high) - 1; v > b.level(n); v-- {
			prof[v] = -1
		}
		if err := b.allsat(high, prof, f); err != nil {
			return err
		}
	}
	return nil
}

// Satcount returns the number of satisfying variable assignments of n, over
// all Varnum variables, using arbitrary-precision arithmetic to avoid
// overflow on large BDDs.
func (b *BDD) Satcount(n Node) *big.Int {
	res := big.NewInt(0)
	if b.checkptr(n) != nil {
		b.seterror(ErrIllbdd, "wrong operand in call to Satcount (%v)", n)
		return res
	}
	res = pow2(b.level(*n))
	satc := make(map[int]*big.Int)
	return res.Mul(res, b.satcount(*n, satc))
}

func (b *BDD) satcount(n int, satc map[int]*big.Int) *big.Int {
	if n < 2 {
		return big.NewInt(int64(n))
	}
	if res, ok := satc[n]; ok {
		return res
	}
	level := b.level(n)
	low := b.low(n)
	high := b.high(n)
	res := big.NewInt(0)
	two := pow2(b.level(low) - level - 1)
	res.Add(res, two.Mul(two, b.satcount(low, satc)))
	two = pow2(b.level(high) - level - 1)
	res.Add(res, two.Mul(two, b.satcount(high, satc)))
	satc[n] = res
	return res
}

// Satcountln is Satcount in the log domain: it returns log2 of the number
// of satisfying assignments, which avoids the cost of big.Int arithmetic
// when only an order of magnitude is needed. It returns negative infinity
// for the False node.
func (b *BDD) Satcountln(n Node) float64 {
	if b.checkptr(n) != nil {
		b.seterror(ErrIllbdd, "wrong operand in call to Satcountln (%v)", n)
		return math.Inf(-1)
	}
	if *n == 0 {
		return math.Inf(-1)
	}
	satc := make(map[int]float64)
	return float64(b.level(*n)) + b.satcountln(*n, satc)
}

func (b *BDD) satcountln(n int, satc map[int]float64) float64 {
	if n == 0 {
		return math.Inf(-1)
	}
	if n == 1 {
		return 0
	}
	if res, ok := satc[n]; ok {
		return res
	}
	level := b.level(n)
	low := b.low(n)
	high := b.high(n)
	logLow := float64(b.level(low)-level-1) + b.satcountln(low, satc)
	logHigh := float64(b.level(high)-level-1) + b.satcountln(high, satc)
	res := logAddExp(logLow, logHigh)
	satc[n] = res
	return res
}

// logAddExp returns log2(2**a + 2**b) without the overflow that a naive
// implementation would suffer for large a or b. Both operands (and the
// result) live in the base-2 log domain, matching Satcountln.
func logAddExp(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	if a < b {
		a, b = b, a
	}
	return a + math.Log1p(math.Exp2(b-a))/math.Ln2
}

// Pathcount returns the number of distinct paths from n to the True
// terminal.
func (b *BDD) Pathcount(n Node) float64 {
	if b.checkptr(n) != nil {
		b.seterror(ErrIllbdd, "wrong operand in call to Pathcount (%v)", n)
		return 0
	}
	memo := make(map[int]float64)
	return b.pathcount(*n, memo)
}

func (b *BDD) pathcount(n int, memo map[int]float64) float64 {
	if n == 0 {
		return 0
	}
	if n == 1 {
		return 1
	}
	if res, ok := memo[n]; ok {
		return res
	}
	res := b.pathcount(b.low(n), memo) + b.pathcount(b.high(n), memo)
	memo[n] = res
	return res
}

// Nodecount returns the number of distinct nodes used to represent n.
func (b *BDD) Nodecount(n Node) int {
	if b.checkptr(n) != nil {
		b.seterror(ErrIllbdd, "wrong operand in call to Nodecount (%v)", n)
		return 0
	}
	count := 0
	b.markcount(*n, &count)
	b.unmarkall()
	return count
}

// Anodecount returns the number of distinct nodes shared across every Node
// in n: a node referenced from more than one of them is only counted once.
func (b *BDD) Anodecount(n ...Node) int {
	count := 0
	for _, v := range n {
		if b.checkptr(v) != nil {
			b.seterror(ErrIllbdd, "wrong operand in call to Anodecount")
			return 0
		}
		b.markcount(*v, &count)
	}
	b.unmarkall()
	return count
}

func (b *BDD) markcount(n int, count *int) {
	if n < 2 || b.ismarked(n) {
		return
	}
	b.marknode(n)
	*count++
	b.markcount(b.low(n), count)
	b.markcount(b.high(n), count)
}

// Varprofile counts, for node n, the number of times each variable occurs;
// the result has length Varnum, with the i'th entry the number of nodes at
// level i reachable from n.
func (b *BDD) Varprofile(n Node) []int {
	if b.checkptr(n) != nil {
		b.seterror(ErrIllbdd, "wrong operand in call to Varprofile (%v)", n)
		return nil
	}
	profile := make([]int, b.varnum)
	b.varprofile(*n, profile)
	b.unmarkall()
	return profile
}

func (b *BDD) varprofile(n int, profile []int) {
	if n < 2 || b.ismarked(n) {
		return
	}
	profile[b.level(n)]++
	b.marknode(n)
	b.varprofile(b.low(n), profile)
	b.varprofile(b.high(n), profile)
}

// Support returns the set of variables (as a Makeset-style cube) that node n
// depends on.
func (b *BDD) Support(n Node) Node {
	if b.checkptr(n) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to Support (%v)", n)
	}
	if *n < 2 {
		return bddone
	}
	b.supportID++
	if b.supportID == math.MaxInt32 {
		b.supportSet = make([]int32, b.varnum)
		b.supportID = 1
	}
	supportMin := b.level(*n)
	supportMax := supportMin
	b.supportrec(*n, &supportMax)
	b.unmarkall()

	b.initref()
	res := 1
	b.pushref(res)
	for lvl := supportMax; lvl >= supportMin; lvl-- {
		if b.supportSet[lvl] == b.supportID {
			tmp, err := b.makenode(lvl, 0, res)
			if err != nil {
				b.seterror(ErrMemory, "support: %s", err)
				return bddzero
			}
			b.popref(1)
			res = tmp
			b.pushref(res)
		}
	}
	b.popref(1)
	return b.retnode(res)
}

func (b *BDD) supportrec(n int, supportMax *int32) {
	if n < 2 || b.ismarked(n) {
		return
	}
	b.supportSet[b.level(n)] = b.supportID
	if b.level(n) > *supportMax {
		*supportMax = b.level(n)
	}
	b.marknode(n)
	b.supportrec(b.low(n), supportMax)
	b.supportrec(b.high(n), supportMax)
}

// Allnodes applies f to every node reachable from the Nodes in n, or to
// every live node in the arena when n is empty. f receives the id, level,
// and the ids of the low and high successors; the two constants always have
// id 1 (True) and 0 (False). Visiting order is unspecified. Iteration stops,
// and the error is returned, the first time f returns a non-nil error.
func (b *BDD) Allnodes(f func(id, level, low, high int) error, n ...Node) error {
	for _, v := range n {
		if err := b.checkptr(v); err != nil {
			return fmt.Errorf("wrong node in call to Allnodes: %s", err)
		}
	}
	if len(n) == 0 {
		return b.allnodes(f)
	}
	return b.allnodesfrom(f, n)
}
