// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

// This file implements the quantifier family (Exist, Forall, Unique) and the
// combined apply-then-quantify family (AppEx, AppAll, AppUni). All six share
// the same two recursive kernels, quant and appquant, and are distinguished
// only by which applycache.op/quantcache.id (respectively appexcache.op/id)
// is installed before the call -- mirroring how a single misc cache serves
// several operations elsewhere in this package.

// Exist returns the existential quantification of n over the variables in
// varset: the result of (∃ varset . n). varset must be a node built with
// Makeset (or equal to True, denoting the empty set).
func (b *BDD) Exist(n, varset Node) Node {
	return b.quantify(n, varset, cacheidEXIST, OPor)
}

// Forall returns the universal quantification of n over the variables in
// varset: the result of (∀ varset . n).
func (b *BDD) Forall(n, varset Node) Node {
	return b.quantify(n, varset, cacheidFORALL, OPand)
}

// Unique returns the unique quantification of n over the variables in
// varset: the result of (⊕ varset . n), the exclusive-or of the cofactors of
// n with respect to every assignment of the quantified variables.
func (b *BDD) Unique(n, varset Node) Node {
	return b.quantify(n, varset, cacheidUNIQUE, OPxor)
}

func (b *BDD) quantify(n, varset Node, id int, op Operator) Node {
	if b.checkptr(n) != nil {
		return b.seterror(ErrIllbdd, "wrong node in call to quantifier (n: %v)", n)
	}
	if b.checkptr(varset) != nil {
		return b.seterror(ErrIllbdd, "wrong varset in call to quantifier (%v)", varset)
	}
	if *varset < 2 { // empty set or constant: quantifying over nothing
		return n
	}
	if err := b.quantset2cache(*varset); err != nil {
		return nil
	}
	res, err := b.withReorder(func() (int, error) {
		b.quantcache.id = id
		b.applycache.op = int(op)
		b.initref()
		b.pushref(*n)
		b.pushref(*varset)
		r, e := b.quant(*n, *varset)
		b.popref(2)
		return r, e
	})
	if err != nil {
		return b.seterror(ErrMemory, "quantifier: %s", err)
	}
	return b.retnode(res)
}

func (b *BDD) quant(n, varset int) (int, error) {
	if n < 2 || b.level(n) > b.quantlast {
		return n, nil
	}
	if res := b.quantcache.matchquant(n, varset); res >= 0 {
		return res, nil
	}
	low, err := b.quant(b.low(n), varset)
	if err != nil {
		return -1, err
	}
	b.pushref(low)
	high, err := b.quant(b.high(n), varset)
	b.popref(1)
	if err != nil {
		return -1, err
	}
	b.pushref(low)
	b.pushref(high)
	var res int
	if b.quantset[b.level(n)] == b.quantsetID {
		res, err = b.apply(low, high)
	} else {
		res, err = b.makenode(b.level(n), low, high)
	}
	b.popref(2)
	if err != nil {
		return -1, err
	}
	return b.quantcache.setquant(n, varset, res), nil
}

// AppEx applies the binary operator op to n1 and n2, then existentially
// quantifies the result over varset: it computes (∃ varset . n1 op n2) in a
// single bottom-up pass, which is much more efficient than an Apply followed
// by an Exist. Only the first five operators (OPand, OPxor, OPor, OPnand,
// OPnor) are accepted; when op is OPand this is the relational product of
// n1 and n2. See also AndExist.
func (b *BDD) AppEx(n1, n2 Node, op Operator, varset Node) Node {
	return b.appex(n1, n2, op, varset, cacheidAPPEX, OPor)
}

// AppAll applies the binary operator op to n1 and n2, then universally
// quantifies the result over varset: it computes (∀ varset . n1 op n2).
func (b *BDD) AppAll(n1, n2 Node, op Operator, varset Node) Node {
	return b.appex(n1, n2, op, varset, cacheidAPPALL, OPand)
}

// AppUni applies the binary operator op to n1 and n2, then uniquely
// quantifies the result over varset: it computes (⊕ varset . n1 op n2).
func (b *BDD) AppUni(n1, n2 Node, op Operator, varset Node) Node {
	return b.appex(n1, n2, op, varset, cacheidAPPUNI, OPxor)
}

func (b *BDD) appex(n1, n2 Node, op Operator, varset Node, id int, quantOp Operator) Node {
	if int(op) > 4 {
		return b.seterror(ErrOp, "operator %s not supported as the inner operation of AppEx/AppAll/AppUni", op)
	}
	if b.checkptr(varset) != nil {
		return b.seterror(ErrIllbdd, "wrong varset in call to AppEx/AppAll/AppUni (%v)", varset)
	}
	if *varset < 2 { // no variables to quantify: a plain Apply
		return b.Apply(n1, n2, op)
	}
	if b.checkptr(n1) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to AppEx/AppAll/AppUni %s(left: %v)", op, n1)
	}
	if b.checkptr(n2) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to AppEx/AppAll/AppUni %s(right: %v)", op, n2)
	}
	if err := b.quantset2cache(*varset); err != nil {
		return nil
	}
	res, err := b.withReorder(func() (int, error) {
		b.applycache.op = int(quantOp)
		b.appexcache.op = int(op)
		b.appexcache.id = (*varset << 6) | (int(op) << 3) | id
		b.quantcache.id = (b.appexcache.id << 3) | id
		b.initref()
		b.pushref(*n1)
		b.pushref(*n2)
		b.pushref(*varset)
		r, e := b.appquant(*n1, *n2, *varset)
		b.popref(3)
		return r, e
	})
	if err != nil {
		return b.seterror(ErrMemory, "appquant: %s", err)
	}
	return b.retnode(res)
}

func (b *BDD) appquant(left, right, varset int) (int, error) {
	switch Operator(b.appexcache.op) {
	case OPand:
		if left == 0 || right == 0 {
			return 0, nil
		}
		if left == right {
			return b.quant(left, varset)
		}
		if left == 1 {
			return b.quant(right, varset)
		}
		if right == 1 {
			return b.quant(left, varset)
		}
	case OPor:
		if left == 1 || right == 1 {
			return 1, nil
		}
		if left == right {
			return b.quant(left, varset)
		}
		if left == 0 {
			return b.quant(right, varset)
		}
		if right == 0 {
			return b.quant(left, varset)
		}
	case OPxor:
		if left == right {
			return 0, nil
		}
		if left == 0 {
			return b.quant(right, varset)
		}
		if right == 0 {
			return b.quant(left, varset)
		}
	case OPnand:
		if left == 0 || right == 0 {
			return 1, nil
		}
	case OPnor:
		if left == 1 || right == 1 {
			return 0, nil
		}
	default:
		return -1, b.seterrorAsError(ErrOp, "unauthorized operation (%s) in AppEx/AppAll/AppUni", Operator(b.appexcache.op))
	}

	if left < 2 && right < 2 {
		return opres[b.appexcache.op][left][right], nil
	}

	if b.level(left) > b.quantlast && b.level(right) > b.quantlast {
		oldop := b.applycache.op
		b.applycache.op = b.appexcache.op
		res, err := b.apply(left, right)
		b.applycache.op = oldop
		return res, err
	}

	if res := b.appexcache.matchappex(left, right); res >= 0 {
		return res, nil
	}
	leftlvl := b.level(left)
	rightlvl := b.level(right)
	var low, high, res int
	var err error
	var pivot int32
	switch {
	case leftlvl == rightlvl:
		pivot = leftlvl
		low, err = b.appquant(b.low(left), b.low(right), varset)
		if err != nil {
			return -1, err
		}
		b.pushref(low)
		high, err = b.appquant(b.high(left), b.high(right), varset)
	case leftlvl < rightlvl:
		pivot = leftlvl
		low, err = b.appquant(b.low(left), right, varset)
		if err != nil {
			return -1, err
		}
		b.pushref(low)
		high, err = b.appquant(b.high(left), right, varset)
	default:
		pivot = rightlvl
		low, err = b.appquant(left, b.low(right), varset)
		if err != nil {
			return -1, err
		}
		b.pushref(low)
		high, err = b.appquant(left, b.high(right), varset)
	}
	b.popref(1)
	if err != nil {
		return -1, err
	}
	b.pushref(low)
	b.pushref(high)
	if b.quantset[pivot] == b.quantsetID {
		res, err = b.apply(low, high)
	} else {
		res, err = b.makenode(pivot, low, high)
	}
	b.popref(2)
	if err != nil {
		return -1, err
	}
	return b.appexcache.setappex(left, right, res), nil
}
