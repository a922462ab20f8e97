// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"fmt"
	"math/rand"
	"testing"
)

func TestMinus(t *testing.T) {
	var minusTests = []struct {
		p, q, r  int32
		expected int32
	}{
		{3, 2, 3, 2},
		{4, 4, 4, 4},
		{2, 3, 3, 2},
		{3, 2, 2, 2},
		{3, 3, 2, 2},
		{1, 2, 3, 1},
	}
	for _, tt := range minusTests {
		actual := min3(tt.p, tt.q, tt.r)
		if actual != tt.expected {
			t.Errorf("min3(%d, %d, %d): expected %d, actual %d", tt.p, tt.q, tt.r, tt.expected, actual)
		}
	}
}

func TestIte(t *testing.T) {
	bdd, err := New(4, Nodesize(5000), Cachesize(50))
	if err != nil {
		t.Fatal(err)
	}
	n1 := bdd.Makeset([]int{0, 2, 3})
	n2 := bdd.Makeset([]int{0, 3})
	actual := bdd.Equiv(bdd.Ite(n1, n2, bdd.Not(n2)), bdd.Or(bdd.And(n1, n2), bdd.And(bdd.Not(n1), bdd.Not(n2))))
	if !bdd.Equal(actual, bdd.True()) {
		t.Errorf("ite(f,g,h) <=> (f and g) or (!f and h): expected true, actual false")
	}
}

// TestOperations implements the same tests as the bddtest program in the
// BuDDy distribution: it uses Allsat to check that every assignment the
// callback reports is actually in the set, and that summing them back up
// reconstructs the original BDD exactly.
func TestOperations(t *testing.T) {
	bdd, err := New(4, Nodesize(1000), Cachesize(1000))
	if err != nil {
		t.Fatal(err)
	}
	varnum := 4

	check := func(x Node) error {
		allsatBDD := x
		allsatSumBDD := bdd.False()
		bdd.Allsat(func(varset []int) error {
			cube := bdd.True()
			for k, v := range varset {
				switch v {
				case 0:
					cube = bdd.And(cube, bdd.NIthvar(k))
				case 1:
					cube = bdd.And(cube, bdd.Ithvar(k))
				}
			}
			allsatSumBDD = bdd.Or(allsatSumBDD, cube)
			allsatBDD = bdd.Apply(allsatBDD, cube, OPdiff)
			return nil
		}, x)

		if !bdd.Equal(allsatSumBDD, x) {
			return fmt.Errorf("Allsat sum is not the initial BDD")
		}
		if !bdd.Equal(allsatBDD, bdd.False()) {
			return fmt.Errorf("Allsat did not exhaust the initial BDD")
		}
		return nil
	}

	a := bdd.Ithvar(0)
	b := bdd.Ithvar(1)
	c := bdd.Ithvar(2)
	d := bdd.Ithvar(3)
	na := bdd.NIthvar(0)
	nb := bdd.NIthvar(1)
	nc := bdd.NIthvar(2)
	nd := bdd.NIthvar(3)

	cases := []Node{
		bdd.True(),
		bdd.False(),
		bdd.Or(bdd.And(a, b), bdd.And(na, nb)),
		bdd.Or(bdd.And(a, b), bdd.And(c, d)),
		bdd.Or(bdd.And(a, nb), bdd.And(a, nd), bdd.And(a, b, nc)),
	}
	for _, n := range cases {
		if err := check(n); err != nil {
			t.Error(err)
		}
	}

	for i := 0; i < varnum; i++ {
		if err := check(bdd.Ithvar(i)); err != nil {
			t.Error(err)
		}
		if err := check(bdd.NIthvar(i)); err != nil {
			t.Error(err)
		}
	}

	set := bdd.True()
	for i := 0; i < 50; i++ {
		v := rand.Intn(varnum)
		if rand.Intn(2) == 0 {
			set = bdd.And(set, bdd.Ithvar(v))
		} else {
			set = bdd.And(set, bdd.NIthvar(v))
		}
		if err := check(set); err != nil {
			t.Error(err)
		}
	}
}

func TestRestrictConstrainSimplify(t *testing.T) {
	bdd, err := New(4, Nodesize(1000), Cachesize(1000))
	if err != nil {
		t.Fatal(err)
	}
	a, b, c := bdd.Ithvar(0), bdd.Ithvar(1), bdd.Ithvar(2)
	f := bdd.Or(bdd.And(a, b), bdd.And(bdd.Not(a), c))

	restricted := bdd.Restrict(f, bdd.Makeset([]int{0}))
	if !bdd.Equal(restricted, b) {
		t.Errorf("Restrict(f, {a=1}): expected b, got a different BDD")
	}

	restrictedNeg := bdd.Restrict(f, bdd.NIthvar(0))
	if !bdd.Equal(restrictedNeg, c) {
		t.Errorf("Restrict(f, {a=0}): expected c, got a different BDD")
	}

	mixed := bdd.Or(bdd.And(a, c), bdd.And(bdd.Not(a), b))
	restrictedMixed := bdd.Restrict(mixed, bdd.Apply(bdd.Ithvar(0), bdd.NIthvar(1), OPand))
	if !bdd.Equal(restrictedMixed, c) {
		t.Errorf("Restrict(mixed, {a=1,b=0}): expected c, got a different BDD")
	}

	constrained := bdd.Constrain(f, a)
	if !bdd.Equal(constrained, b) {
		t.Errorf("Constrain(f, a): expected b, got a different BDD")
	}

	simplified := bdd.Simplify(f, bdd.True())
	if !bdd.Equal(simplified, f) {
		t.Errorf("Simplify(f, true): expected f unchanged")
	}
}

func TestQuantifierFamily(t *testing.T) {
	bdd, err := New(3, Nodesize(1000), Cachesize(1000))
	if err != nil {
		t.Fatal(err)
	}
	a, b := bdd.Ithvar(0), bdd.Ithvar(1)
	f := bdd.And(a, b)
	varset := bdd.Makeset([]int{0})

	exist := bdd.Exist(f, varset)
	if !bdd.Equal(exist, b) {
		t.Errorf("Exist(a&b, {a}): expected b")
	}
	forall := bdd.Forall(bdd.Or(a, b), varset)
	if !bdd.Equal(forall, b) {
		t.Errorf("Forall(a|b, {a}): expected b")
	}
}

func TestAppExFamily(t *testing.T) {
	bdd, err := New(4, Nodesize(1000), Cachesize(1000))
	if err != nil {
		t.Fatal(err)
	}
	a, b := bdd.Ithvar(0), bdd.Ithvar(1)
	varset := bdd.Makeset([]int{0})

	appex := bdd.AppEx(a, b, OPand, varset)
	expected := bdd.Exist(bdd.And(a, b), varset)
	if !bdd.Equal(appex, expected) {
		t.Errorf("AppEx(a,b,and,{a}): expected Exist(a&b,{a})")
	}
}

func TestReplaceComposeVecCompose(t *testing.T) {
	bdd, err := New(4, Nodesize(1000), Cachesize(1000))
	if err != nil {
		t.Fatal(err)
	}
	a, b := bdd.Ithvar(0), bdd.Ithvar(1)

	rep, err := bdd.NewReplacer([]int{0}, []int{2})
	if err != nil {
		t.Fatal(err)
	}
	replaced := bdd.Replace(a, rep)
	if !bdd.Equal(replaced, bdd.Ithvar(2)) {
		t.Errorf("Replace(a, 0->2): expected Ithvar(2)")
	}

	composed := bdd.Compose(a, b, 0)
	if !bdd.Equal(composed, b) {
		t.Errorf("Compose(a, b, 0): expected b")
	}

	subst := make([]Node, 4)
	subst[0] = b
	vecresult := bdd.VecCompose(a, subst)
	if !bdd.Equal(vecresult, b) {
		t.Errorf("VecCompose(a, [0->b]): expected b")
	}
}

func TestSatcountFamily(t *testing.T) {
	bdd, err := New(3, Nodesize(1000), Cachesize(1000))
	if err != nil {
		t.Fatal(err)
	}
	n := bdd.Ithvar(0)
	if bdd.Satcount(n).Int64() != 4 {
		t.Errorf("Satcount(a): expected 4, got %s", bdd.Satcount(n))
	}
	if bdd.Pathcount(n) != 1 {
		t.Errorf("Pathcount(a): expected 1, got %g", bdd.Pathcount(n))
	}
	ln := bdd.Satcountln(n)
	if ln < 1.99 || ln > 2.01 {
		t.Errorf("Satcountln(a): expected ~2, got %g", ln)
	}
}

func TestNodeCounting(t *testing.T) {
	bdd, err := New(3, Nodesize(1000), Cachesize(1000))
	if err != nil {
		t.Fatal(err)
	}
	a, b := bdd.Ithvar(0), bdd.Ithvar(1)
	f := bdd.And(a, b)
	if bdd.Nodecount(f) != 2 {
		t.Errorf("Nodecount(a&b): expected 2, got %d", bdd.Nodecount(f))
	}
	if bdd.Anodecount(a, b) != 2 {
		t.Errorf("Anodecount(a, b): expected 2, got %d", bdd.Anodecount(a, b))
	}
	profile := bdd.Varprofile(f)
	if profile[0] != 1 || profile[1] != 1 {
		t.Errorf("Varprofile(a&b): expected [1 1 0], got %v", profile)
	}
}

func TestSupport(t *testing.T) {
	bdd, err := New(3, Nodesize(1000), Cachesize(1000))
	if err != nil {
		t.Fatal(err)
	}
	a, b := bdd.Ithvar(0), bdd.Ithvar(1)
	f := bdd.And(a, b)
	support := bdd.Support(f)
	if !bdd.Equal(support, bdd.Makeset([]int{0, 1})) {
		t.Errorf("Support(a&b): expected {a,b}")
	}
}

func TestSatoneFamily(t *testing.T) {
	bdd, err := New(3, Nodesize(1000), Cachesize(1000))
	if err != nil {
		t.Fatal(err)
	}
	a := bdd.Ithvar(0)
	one := bdd.Satone(a)
	if !bdd.Equal(bdd.Apply(one, a, OPimp), bdd.True()) {
		t.Errorf("Satone(a) should imply a")
	}
	full := bdd.FullSatone(a)
	if bdd.Nodecount(full) != 3 {
		t.Errorf("FullSatone(a) with varnum 3: expected a cube over every variable")
	}
}
