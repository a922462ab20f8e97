// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import "log"

// SetVarnum changes the number of declared variables. It may only be used
// to increase Varnum: shrinking it would orphan nodes already built over
// the variables being removed.
func (b *BDD) SetVarnum(num int) error {
	oldvarnum := b.varnum
	inum := int32(num)
	if inum < 1 || inum > _MAXVAR {
		return b.seterrorAsError(ErrRange, "bad number of variables (%d) in SetVarnum", inum)
	}
	if inum < b.varnum {
		return b.seterrorAsError(ErrDecVnum, "trying to decrease the number of variables in SetVarnum (from %d to %d)", b.varnum, inum)
	}
	if inum == b.varnum {
		return nil
	}

	tmpvarset := b.varset
	b.varset = make([][2]int, inum)
	copy(b.varset, tmpvarset)

	// Constants always sit above every declared variable.
	b.nodes[0].level = inum
	b.nodes[1].level = inum

	b.refstack = make([]int, 0, 2*inum+4)
	b.initref()
	for ; b.varnum < inum; b.varnum++ {
		v0, err := b.makenode(b.varnum, 0, 1)
		if err != nil {
			b.varnum = oldvarnum
			return b.seterrorAsError(ErrMemory, "cannot allocate new variable %d in SetVarnum: %s", b.varnum, err)
		}
		b.pushref(v0)
		v1, err := b.makenode(b.varnum, 1, 0)
		if err != nil {
			b.varnum = oldvarnum
			return b.seterrorAsError(ErrMemory, "cannot allocate new variable %d in SetVarnum: %s", b.varnum, err)
		}
		b.popref(1)
		b.varset[b.varnum] = [2]int{v1, v0}
		b.nodes[v0].refcou = _MAXREFCOUNT
		b.nodes[v1].refcou = _MAXREFCOUNT
	}

	b.quantset = make([]int32, b.varnum)
	b.quantsetID = 0
	b.supportSet = make([]int32, b.varnum)
	b.supportID = 0

	if _LOGLEVEL > 0 {
		log.Printf("robdd: set varnum to %d\n", b.varnum)
	}
	return nil
}

// ExtVarnum extends the number of declared variables by num and returns the
// number of variables declared before the call.
func (b *BDD) ExtVarnum(num int) (int, error) {
	old := int(b.varnum)
	if num < 0 || num > 0x3FFFFFFF {
		return old, b.seterrorAsError(ErrRange, "bad value (%d) when extending varnum in ExtVarnum", num)
	}
	return old, b.SetVarnum(old + num)
}
