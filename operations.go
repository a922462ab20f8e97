// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

// This file implements the three operators that do not involve
// quantification or variable substitution: Not, Apply and Ite. Every
// recursive kernel (not, apply, ite, and their counterparts in quant.go,
// replace.go, restrict.go and enumerate.go) returns (int, error): the error
// is nil, errReorder (a reorder interrupt: the computation must abandon
// immediately and bubble the error, unchanged, all the way up to the
// withReorder harness wrapping the public entry point), or errMemory or an
// operator error (the operation fails). A GC pass or a resize of the arena
// inside makenode is not an error: the recursion goes on with the node it
// returned, its transient roots being on the reference stack. Every _rec
// helper below simply returns as soon as it sees a non-nil error from a
// callee -- this is the
// direct Go counterpart of the longjmp unwind used by the C implementation
// this package is modeled after.

// Not returns the negation (!n) of expression n.
func (b *BDD) Not(n Node) Node {
	if b.checkptr(n) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to Not (%v)", n)
	}
	res, err := b.withReorder(func() (int, error) {
		b.initref()
		b.pushref(*n)
		r, e := b.not(*n)
		b.popref(1)
		return r, e
	})
	if err != nil {
		return b.seterror(ErrMemory, "not: %s", err)
	}
	return b.retnode(res)
}

func (b *BDD) not(n int) (int, error) {
	if n == 0 {
		return 1, nil
	}
	if n == 1 {
		return 0, nil
	}
	if res := b.applycache.matchnot(n); res >= 0 {
		return res, nil
	}
	low, err := b.not(b.low(n))
	if err != nil {
		return -1, err
	}
	b.pushref(low)
	high, err := b.not(b.high(n))
	b.popref(1)
	if err != nil {
		return -1, err
	}
	b.pushref(low)
	b.pushref(high)
	res, err := b.makenode(b.level(n), low, high)
	b.popref(2)
	if err != nil {
		return -1, err
	}
	return b.applycache.setnot(n, res), nil
}

// Apply performs all of the basic bdd operations with two operands, such as
// AND, OR etc. Operator op must be one of the following:
//
//    Identifier    Description             Truth table
//
//    OPand         logical and              [0,0,0,1]
//    OPxor         logical xor              [0,1,1,0]
//    OPor          logical or               [0,1,1,1]
//    OPnand        logical not-and          [1,1,1,0]
//    OPnor         logical not-or           [1,0,0,0]
//    OPimp         implication              [1,1,0,1]
//    OPbiimp       equivalence              [1,0,0,1]
//    OPdiff        set difference           [0,0,1,0]
//    OPless        less than                [0,1,0,0]
//    OPinvimp      reverse implication      [1,0,1,1]
func (b *BDD) Apply(n1, n2 Node, op Operator) Node {
	if b.checkptr(n1) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to Apply %s(n1: %v, n2: ...)", op, n1)
	}
	if b.checkptr(n2) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to Apply %s(n1: ..., n2: %v)", op, n2)
	}
	res, err := b.withReorder(func() (int, error) {
		b.applycache.op = int(op)
		b.initref()
		b.pushref(*n1)
		b.pushref(*n2)
		r, e := b.apply(*n1, *n2)
		b.popref(2)
		return r, e
	})
	if err != nil {
		return b.seterror(ErrMemory, "apply: %s", err)
	}
	return b.retnode(res)
}

func (b *BDD) apply(left, right int) (int, error) {
	switch Operator(b.applycache.op) {
	case OPand:
		if left == right {
			return left, nil
		}
		if left == 0 || right == 0 {
			return 0, nil
		}
		if left == 1 {
			return right, nil
		}
		if right == 1 {
			return left, nil
		}
	case OPor:
		if left == right {
			return left, nil
		}
		if left == 1 || right == 1 {
			return 1, nil
		}
		if left == 0 {
			return right, nil
		}
		if right == 0 {
			return left, nil
		}
	case OPxor:
		if left == right {
			return 0, nil
		}
		if left == 0 {
			return right, nil
		}
		if right == 0 {
			return left, nil
		}
	case OPnand:
		if left == 0 || right == 0 {
			return 1, nil
		}
	case OPnor:
		if left == 1 || right == 1 {
			return 0, nil
		}
	case OPimp:
		if left == 0 {
			return 1, nil
		}
		if left == 1 {
			return right, nil
		}
		if right == 1 {
			return 1, nil
		}
		if left == right {
			return 1, nil
		}
	case OPbiimp:
		if left == right {
			return 1, nil
		}
		if left == 1 {
			return right, nil
		}
		if right == 1 {
			return left, nil
		}
	case OPdiff:
		if left == right {
			return 0, nil
		}
		if right == 1 {
			return 0, nil
		}
		if left == 0 {
			return 0, nil
		}
	case OPless:
		if left == right || left == 1 {
			return 0, nil
		}
		if left == 0 {
			return right, nil
		}
	case OPinvimp:
		if right == 0 {
			return 1, nil
		}
		if right == 1 {
			return left, nil
		}
		if left == 1 {
			return 1, nil
		}
		if left == right {
			return 1, nil
		}
	default:
		return -1, b.seterrorAsError(ErrOp, "unauthorized operation (%s) in apply", Operator(b.applycache.op))
	}

	if left < 2 && right < 2 {
		return opres[b.applycache.op][left][right], nil
	}
	if res := b.applycache.matchapply(left, right); res >= 0 {
		return res, nil
	}
	leftlvl := b.level(left)
	rightlvl := b.level(right)
	var low, high, res int
	var err error
	switch {
	case leftlvl == rightlvl:
		low, err = b.apply(b.low(left), b.low(right))
		if err != nil {
			return -1, err
		}
		b.pushref(low)
		high, err = b.apply(b.high(left), b.high(right))
		b.popref(1)
		if err != nil {
			return -1, err
		}
		b.pushref(low)
		b.pushref(high)
		res, err = b.makenode(leftlvl, low, high)
	case leftlvl < rightlvl:
		low, err = b.apply(b.low(left), right)
		if err != nil {
			return -1, err
		}
		b.pushref(low)
		high, err = b.apply(b.high(left), right)
		b.popref(1)
		if err != nil {
			return -1, err
		}
		b.pushref(low)
		b.pushref(high)
		res, err = b.makenode(leftlvl, low, high)
	default:
		low, err = b.apply(left, b.low(right))
		if err != nil {
			return -1, err
		}
		b.pushref(low)
		high, err = b.apply(left, b.high(right))
		b.popref(1)
		if err != nil {
			return -1, err
		}
		b.pushref(low)
		b.pushref(high)
		res, err = b.makenode(rightlvl, low, high)
	}
	b.popref(2)
	if err != nil {
		return -1, err
	}
	return b.applycache.setapply(left, right, res), nil
}

// Ite (short for if-then-else operator) computes the BDD for the expression
// [(f & g) | (!f & h)] more efficiently than doing the three operations
// separately.
func (b *BDD) Ite(f, g, h Node) Node {
	if b.checkptr(f) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to Ite (f: %v)", f)
	}
	if b.checkptr(g) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to Ite (g: %v)", g)
	}
	if b.checkptr(h) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to Ite (h: %v)", h)
	}
	res, err := b.withReorder(func() (int, error) {
		b.initref()
		b.pushref(*f)
		b.pushref(*g)
		b.pushref(*h)
		r, e := b.ite(*f, *g, *h)
		b.popref(3)
		return r, e
	})
	if err != nil {
		return b.seterror(ErrMemory, "ite: %s", err)
	}
	return b.retnode(res)
}

// iteLow returns n.low unless p (the level of n) is not the smallest of p, q
// and r, in which case n itself is the correct cofactor (it does not depend
// on the smallest-level variable). iteHigh is its high-branch counterpart.
func (b *BDD) iteLow(p, q, r int32, n int) int {
	if p > q || p > r {
		return n
	}
	return b.low(n)
}

func (b *BDD) iteHigh(p, q, r int32, n int) int {
	if p > q || p > r {
		return n
	}
	return b.high(n)
}

func min3(p, q, r int32) int32 {
	if p <= q {
		if p <= r {
			return p
		}
		return r
	}
	if q <= r {
		return q
	}
	return r
}

func (b *BDD) ite(f, g, h int) (int, error) {
	switch {
	case f == 1:
		return g, nil
	case f == 0:
		return h, nil
	case g == h:
		return g, nil
	case g == 1 && h == 0:
		return f, nil
	case g == 0 && h == 1:
		return b.not(f)
	}
	if res := b.itecache.matchite(f, g, h); res >= 0 {
		return res, nil
	}
	p := b.level(f)
	q := b.level(g)
	r := b.level(h)
	low, err := b.ite(b.iteLow(p, q, r, f), b.iteLow(q, p, r, g), b.iteLow(r, p, q, h))
	if err != nil {
		return -1, err
	}
	b.pushref(low)
	high, err := b.ite(b.iteHigh(p, q, r, f), b.iteHigh(q, p, r, g), b.iteHigh(r, p, q, h))
	b.popref(1)
	if err != nil {
		return -1, err
	}
	b.pushref(low)
	b.pushref(high)
	res, err := b.makenode(min3(p, q, r), low, high)
	b.popref(2)
	if err != nil {
		return -1, err
	}
	return b.itecache.setite(f, g, h, res), nil
}
