// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"fmt"
	"math"
)

// Replacer is the type of association lists used to substitute variables in
// a BDD node. See NewReplacer.
type Replacer interface {
	Replace(int32) (int32, bool)
	Id() int
}

type replacer struct {
	id    int     // cache id, unique per Replacer instance of a given BDD
	image []int32 // maps the level of old variables to the level of new variables
	last  int32    // highest level touched, used to prune recursion in replace
}

func (r *replacer) String() string {
	res := fmt.Sprintf("replacer(last: %d)[", r.last)
	first := true
	for k, v := range r.image {
		if k != int(v) {
			if !first {
				res += ", "
			}
			first = false
			res += fmt.Sprintf("%d<-%d", k, v)
		}
	}
	return res + "]"
}

func (r *replacer) Replace(level int32) (int32, bool) {
	if level > r.last {
		return level, false
	}
	return r.image[level], true
}

func (r *replacer) Id() int {
	return r.id
}

// NewReplacer returns a Replacer substituting variable oldvars[k] with
// newvars[k], for every k. It is an error if the two slices do not have the
// same length, if the same index occurs twice in oldvars, if a variable of
// newvars also occurs in oldvars with a different image, or if any value is
// outside [0..Varnum). Repeated indices in newvars are not rejected here.
func (b *BDD) NewReplacer(oldvars []int, newvars []int) (Replacer, error) {
	res := &replacer{}
	if len(oldvars) != len(newvars) {
		return nil, fmt.Errorf("unmatched length of slices")
	}
	if b.replaceid == (math.MaxInt32 >> 2) {
		return nil, fmt.Errorf("too many replacers created")
	}
	b.replaceid++
	res.id = (b.replaceid << 2) | cacheidREPLACE
	varnum := b.Varnum()
	support := make([]bool, varnum)
	res.image = make([]int32, varnum)
	for k := range res.image {
		res.image[k] = int32(k)
	}
	for k, v := range oldvars {
		if v < 0 || v >= varnum {
			return nil, fmt.Errorf("invalid variable in oldvars (%d)", v)
		}
		if support[v] {
			return nil, fmt.Errorf("duplicate variable (%d) in oldvars", v)
		}
		if newvars[k] < 0 || newvars[k] >= varnum {
			return nil, fmt.Errorf("invalid variable in newvars (%d)", newvars[k])
		}
		support[v] = true
		res.image[v] = int32(newvars[k])
		if int32(v) > res.last {
			res.last = int32(v)
		}
	}
	for _, v := range newvars {
		if int(res.image[v]) != v {
			return nil, fmt.Errorf("variable in newvars (%d) also occurs in oldvars", v)
		}
	}
	return res, nil
}

// Replace takes a Replacer and computes the result of substituting, in n,
// every variable the Replacer maps, by its image. See Replacer.
func (b *BDD) Replace(n Node, r Replacer) Node {
	if b.checkptr(n) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to Replace (%v)", n)
	}
	res, err := b.withReorder(func() (int, error) {
		b.replacecache.id = r.Id()
		b.initref()
		b.pushref(*n)
		r, e := b.replace(*n, r)
		b.popref(1)
		return r, e
	})
	if err != nil {
		return b.seterror(ErrMemory, "replace: %s", err)
	}
	return b.retnode(res)
}

func (b *BDD) replace(n int, r Replacer) (int, error) {
	image, ok := r.Replace(b.level(n))
	if !ok {
		return n, nil
	}
	if res := b.replacecache.matchreplace(n); res >= 0 {
		return res, nil
	}
	low, err := b.replace(b.low(n), r)
	if err != nil {
		return -1, err
	}
	b.pushref(low)
	high, err := b.replace(b.high(n), r)
	b.popref(1)
	if err != nil {
		return -1, err
	}
	b.pushref(low)
	b.pushref(high)
	res, err := b.correctify(image, low, high)
	b.popref(2)
	if err != nil {
		return -1, err
	}
	return b.replacecache.setreplace(n, res), nil
}

// correctify rebuilds the node (level, low, high) in the case where level
// does not already sit strictly above both low and high in the order (this
// happens when Replace maps a variable past one that was already below it),
// recursing level-by-level until the invariant is restored.
func (b *BDD) correctify(level int32, low, high int) (int, error) {
	if level < b.level(low) && level < b.level(high) {
		return b.makenode(level, low, high)
	}
	if level == b.level(low) || level == b.level(high) {
		return -1, b.seterrorAsError(ErrReplace, "replace level (%d) collides with low (%d:%d) or high (%d:%d)", level, low, b.level(low), high, b.level(high))
	}
	var left, right int
	var err error
	var pivot int32
	switch {
	case b.level(low) == b.level(high):
		pivot = b.level(low)
		left, err = b.correctify(level, b.low(low), b.low(high))
		if err != nil {
			return -1, err
		}
		b.pushref(left)
		right, err = b.correctify(level, b.high(low), b.high(high))
		b.popref(1)
	case b.level(low) < b.level(high):
		pivot = b.level(low)
		left, err = b.correctify(level, b.low(low), high)
		if err != nil {
			return -1, err
		}
		b.pushref(left)
		right, err = b.correctify(level, b.high(low), high)
		b.popref(1)
	default:
		pivot = b.level(high)
		left, err = b.correctify(level, low, b.low(high))
		if err != nil {
			return -1, err
		}
		b.pushref(left)
		right, err = b.correctify(level, low, b.high(high))
		b.popref(1)
	}
	if err != nil {
		return -1, err
	}
	b.pushref(left)
	b.pushref(right)
	res, err := b.makenode(pivot, left, right)
	b.popref(2)
	return res, err
}

// Compose substitutes variable replaced, at every occurrence in n, with the
// expression denoted by g; it computes the composition n[replaced := g].
// Unlike Replace, which renames variables to other variables, Compose
// substitutes a variable with an arbitrary BDD.
func (b *BDD) Compose(n Node, g Node, replaced int) Node {
	if b.checkptr(n) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to Compose (n: %v)", n)
	}
	if b.checkptr(g) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to Compose (g: %v)", g)
	}
	if replaced < 0 || replaced >= int(b.varnum) {
		return b.seterror(ErrRange, "variable index %d out of range [0..%d) in Compose", replaced, b.varnum)
	}
	res, err := b.withReorder(func() (int, error) {
		b.replacecache.id = (replaced << 2) | cacheidCOMPOSE
		b.initref()
		b.pushref(*n)
		b.pushref(*g)
		r, e := b.compose(*n, *g, int32(replaced))
		b.popref(2)
		return r, e
	})
	if err != nil {
		return b.seterror(ErrMemory, "compose: %s", err)
	}
	return b.retnode(res)
}

func (b *BDD) compose(n, g int, replaced int32) (int, error) {
	if b.level(n) > replaced {
		return n, nil
	}
	if res := b.replacecache.matchreplace2(n, g); res >= 0 {
		return res, nil
	}
	var res int
	var err error
	switch {
	case b.level(n) < replaced && b.level(n) == b.level(g):
		low, lerr := b.compose(b.low(n), b.low(g), replaced)
		if lerr != nil {
			return -1, lerr
		}
		b.pushref(low)
		high, herr := b.compose(b.high(n), b.high(g), replaced)
		b.popref(1)
		if herr != nil {
			return -1, herr
		}
		b.pushref(low)
		b.pushref(high)
		res, err = b.makenode(b.level(n), low, high)
		b.popref(2)
	case b.level(n) < replaced && b.level(n) < b.level(g):
		low, lerr := b.compose(b.low(n), g, replaced)
		if lerr != nil {
			return -1, lerr
		}
		b.pushref(low)
		high, herr := b.compose(b.high(n), g, replaced)
		b.popref(1)
		if herr != nil {
			return -1, herr
		}
		b.pushref(low)
		b.pushref(high)
		res, err = b.makenode(b.level(n), low, high)
		b.popref(2)
	case b.level(n) < replaced:
		low, lerr := b.compose(n, b.low(g), replaced)
		if lerr != nil {
			return -1, lerr
		}
		b.pushref(low)
		high, herr := b.compose(n, b.high(g), replaced)
		b.popref(1)
		if herr != nil {
			return -1, herr
		}
		b.pushref(low)
		b.pushref(high)
		res, err = b.makenode(b.level(g), low, high)
		b.popref(2)
	default:
		// b.level(n) == replaced: substitute, via ite(g, n.high, n.low).
		res, err = b.ite(g, b.high(n), b.low(n))
	}
	if err != nil {
		return -1, err
	}
	return b.replacecache.setreplace2(n, g, res), nil
}

// VecCompose simultaneously substitutes, in n, every variable v for which
// subst[v] is non-nil with the expression subst[v]. It is equivalent to, but
// more efficient than, applying Compose once per variable in subst.
func (b *BDD) VecCompose(n Node, subst []Node) Node {
	if b.checkptr(n) != nil {
		return b.seterror(ErrIllbdd, "wrong operand in call to VecCompose (%v)", n)
	}
	if len(subst) != int(b.varnum) {
		return b.seterror(ErrVarsetSize, "VecCompose substitution has %d entries, want %d", len(subst), b.varnum)
	}
	for _, g := range subst {
		if g != nil {
			if b.checkptr(g) != nil {
				return b.seterror(ErrIllbdd, "wrong operand in substitution passed to VecCompose")
			}
		}
	}
	if b.replaceid == (math.MaxInt32 >> 2) {
		return b.seterror(ErrRange, "too many substitutions created")
	}
	b.replaceid++
	vecid := (b.replaceid << 2) | cacheidVECCOMPOSE
	res, err := b.withReorder(func() (int, error) {
		b.replacecache.id = vecid
		b.initref()
		b.pushref(*n)
		for _, g := range subst {
			if g != nil {
				b.pushref(*g)
			}
		}
		r, e := b.veccompose(*n, subst)
		b.popref(1)
		for _, g := range subst {
			if g != nil {
				b.popref(1)
			}
		}
		return r, e
	})
	if err != nil {
		return b.seterror(ErrMemory, "veccompose: %s", err)
	}
	return b.retnode(res)
}

func (b *BDD) veccompose(n int, subst []Node) (int, error) {
	if n < 2 {
		return n, nil
	}
	if int(b.level(n)) >= len(subst) {
		return n, nil
	}
	if res := b.replacecache.matchreplace(n); res >= 0 {
		return res, nil
	}
	low, err := b.veccompose(b.low(n), subst)
	if err != nil {
		return -1, err
	}
	b.pushref(low)
	high, err := b.veccompose(b.high(n), subst)
	b.popref(1)
	if err != nil {
		return -1, err
	}
	b.pushref(low)
	b.pushref(high)
	var res int
	if g := subst[b.level(n)]; g != nil {
		res, err = b.ite(*g, high, low)
	} else {
		res, err = b.makenode(b.level(n), low, high)
	}
	b.popref(2)
	if err != nil {
		return -1, err
	}
	return b.replacecache.setreplace(n, res), nil
}
