// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

// Restrict restricts the variables in varset to constant values (as
// determined by a conjunction of literals, e.g. built with Apply from Ithvar
// and NIthvar: a negated variable restricts to false, a positive one to true)
// and returns the resulting simplification of n. A cube built with Makeset
// restricts every one of its variables to true. varset must be such a
// conjunction, or True for the empty set.
func (b *BDD) Restrict(n, varset Node) Node {
	if b.checkptr(n) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to Restrict (n: %v)", n)
	}
	if b.checkptr(varset) != nil {
		return b.seterror(ErrIllbdd, "wrong varset in call to Restrict (%v)", varset)
	}
	if *varset < 2 {
		return n
	}
	if err := b.svarset2cache(*varset); err != nil {
		return nil
	}
	res, err := b.withReorder(func() (int, error) {
		b.misccache.id = (*varset << 3) | cacheidRESTRICT
		b.initref()
		b.pushref(*n)
		r, e := b.restrict(*n)
		b.popref(1)
		return r, e
	})
	if err != nil {
		return b.seterror(ErrMemory, "restrict: %s", err)
	}
	return b.retnode(res)
}

func (b *BDD) restrict(n int) (int, error) {
	if n < 2 || b.level(n) > b.quantlast {
		return n, nil
	}
	if res := b.misccache.matchmisc(n); res >= 0 {
		return res, nil
	}
	var res int
	var err error
	if entry := b.quantset[b.level(n)]; entry == b.quantsetID || entry == -b.quantsetID {
		if entry > 0 {
			res, err = b.restrict(b.high(n))
		} else {
			res, err = b.restrict(b.low(n))
		}
	} else {
		low, lerr := b.restrict(b.low(n))
		if lerr != nil {
			return -1, lerr
		}
		b.pushref(low)
		high, herr := b.restrict(b.high(n))
		b.popref(1)
		if herr != nil {
			return -1, herr
		}
		b.pushref(low)
		b.pushref(high)
		res, err = b.makenode(b.level(n), low, high)
		b.popref(2)
	}
	if err != nil {
		return -1, err
	}
	return b.misccache.setmisc(n, res), nil
}

// Constrain computes the generalized cofactor of f with respect to c (also
// known as the Coudert/Madre/Fraisse constrain operator): it restricts f to
// the part of the domain where c holds, choosing for each variable the
// branch of c (or, failing that, of f) that is not identically false. Unlike
// Restrict, c need not be a cube.
func (b *BDD) Constrain(f, c Node) Node {
	if b.checkptr(f) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to Constrain (f: %v)", f)
	}
	if b.checkptr(c) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to Constrain (c: %v)", c)
	}
	res, err := b.withReorder(func() (int, error) {
		b.misccache.id = cacheidCONSTRAIN
		b.initref()
		b.pushref(*f)
		b.pushref(*c)
		r, e := b.constrain(*f, *c)
		b.popref(2)
		return r, e
	})
	if err != nil {
		return b.seterror(ErrMemory, "constrain: %s", err)
	}
	return b.retnode(res)
}

func (b *BDD) constrain(f, c int) (int, error) {
	switch {
	case c == 1:
		return f, nil
	case f < 2:
		return f, nil
	case c == f:
		return 1, nil
	case c == 0:
		return 0, nil
	}
	if res := b.misccache.matchmisc2(f, c); res >= 0 {
		return res, nil
	}
	var res int
	var err error
	switch {
	case b.level(f) == b.level(c):
		switch {
		case b.low(c) == 0:
			res, err = b.constrain(b.high(f), b.high(c))
		case b.high(c) == 0:
			res, err = b.constrain(b.low(f), b.low(c))
		default:
			low, lerr := b.constrain(b.low(f), b.low(c))
			if lerr != nil {
				return -1, lerr
			}
			b.pushref(low)
			high, herr := b.constrain(b.high(f), b.high(c))
			b.popref(1)
			if herr != nil {
				return -1, herr
			}
			b.pushref(low)
			b.pushref(high)
			res, err = b.makenode(b.level(f), low, high)
			b.popref(2)
		}
	case b.level(f) < b.level(c):
		low, lerr := b.constrain(b.low(f), c)
		if lerr != nil {
			return -1, lerr
		}
		b.pushref(low)
		high, herr := b.constrain(b.high(f), c)
		b.popref(1)
		if herr != nil {
			return -1, herr
		}
		b.pushref(low)
		b.pushref(high)
		res, err = b.makenode(b.level(f), low, high)
		b.popref(2)
	default:
		switch {
		case b.low(c) == 0:
			res, err = b.constrain(f, b.high(c))
		case b.high(c) == 0:
			res, err = b.constrain(f, b.low(c))
		default:
			low, lerr := b.constrain(f, b.low(c))
			if lerr != nil {
				return -1, lerr
			}
			b.pushref(low)
			high, herr := b.constrain(f, b.high(c))
			b.popref(1)
			if herr != nil {
				return -1, herr
			}
			b.pushref(low)
			b.pushref(high)
			res, err = b.makenode(b.level(c), low, high)
			b.popref(2)
		}
	}
	if err != nil {
		return -1, err
	}
	return b.misccache.setmisc2(f, c, res), nil
}

// Simplify implements Coudert and Madre's restrict operator: it tries to
// produce a smaller BDD equivalent to f over the domain where d holds,
// without the guarantee (that Constrain does not offer either) that the
// result is actually smaller. Callers that care can check with Nodecount.
func (b *BDD) Simplify(f, d Node) Node {
	if b.checkptr(f) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to Simplify (f: %v)", f)
	}
	if b.checkptr(d) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to Simplify (d: %v)", d)
	}
	res, err := b.withReorder(func() (int, error) {
		b.misccache.id = cacheidSIMPLIFY
		b.applycache.op = int(OPor)
		b.initref()
		b.pushref(*f)
		b.pushref(*d)
		r, e := b.simplify(*f, *d)
		b.popref(2)
		return r, e
	})
	if err != nil {
		return b.seterror(ErrMemory, "simplify: %s", err)
	}
	return b.retnode(res)
}

func (b *BDD) simplify(f, d int) (int, error) {
	switch {
	case d == 1 || f < 2:
		return f, nil
	case d == f:
		return 1, nil
	case d == 0:
		return 0, nil
	}
	if res := b.misccache.matchmisc2(f, d); res >= 0 {
		return res, nil
	}
	var res int
	var err error
	switch {
	case b.level(f) == b.level(d):
		switch {
		case b.low(d) == 0:
			res, err = b.simplify(b.high(f), b.high(d))
		case b.high(d) == 0:
			res, err = b.simplify(b.low(f), b.low(d))
		default:
			low, lerr := b.simplify(b.low(f), b.low(d))
			if lerr != nil {
				return -1, lerr
			}
			b.pushref(low)
			high, herr := b.simplify(b.high(f), b.high(d))
			b.popref(1)
			if herr != nil {
				return -1, herr
			}
			b.pushref(low)
			b.pushref(high)
			res, err = b.makenode(b.level(f), low, high)
			b.popref(2)
		}
	case b.level(f) < b.level(d):
		low, lerr := b.simplify(b.low(f), d)
		if lerr != nil {
			return -1, lerr
		}
		b.pushref(low)
		high, herr := b.simplify(b.high(f), d)
		b.popref(1)
		if herr != nil {
			return -1, herr
		}
		b.pushref(low)
		b.pushref(high)
		res, err = b.makenode(b.level(f), low, high)
		b.popref(2)
	default:
		dOr, oerr := b.apply(b.low(d), b.high(d))
		if oerr != nil {
			return -1, oerr
		}
		b.pushref(dOr)
		res, err = b.simplify(f, dOr)
		b.popref(1)
	}
	if err != nil {
		return -1, err
	}
	return b.misccache.setmisc2(f, d, res), nil
}
