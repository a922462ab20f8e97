// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package robdd defines a concrete type for Reduced Ordered Binary Decision
Diagrams (ROBDD), a data structure used to efficiently represent Boolean
functions over a fixed set of variables or, equivalently, sets of Boolean
vectors with a fixed size.

Basics

Each BDD has a fixed number of variables, Varnum, declared when it is
initialized (using the method New) and each variable is represented by an
(integer) index in the interval [0..Varnum), called a level. This library
supports the creation of multiple BDD values, possibly with different
numbers of variables, and they share no state.

Most operations over BDD return a Node, a pointer to a "vertex" in the
diagram that stands for a variable level and the low and high branches taken
at that level. We use integers internally to represent the address of
nodes, with the convention that 1 (respectively 0) is the address of the
constant function True (respectively False). A Node is an externally held
reference to one of these addresses: it keeps the node alive (the garbage
collector never reclaims a node with a live external Node) and its backing
memory is released automatically, through a runtime finalizer, when the
Node becomes unreachable -- on top of that, AddRef and DelRef remain
available for code that wants to manage reference counts explicitly.

Architecture

Internally, a BDD is a single array-based arena that doubles as its own
hash table (the "unicity table"): nodes are chained by (level, low, high)
in the same slice that stores them, so there is no separate map allocation
per node. This is the one implementation this package provides; there is no
build-tag-selected alternative.

Six direct-mapped operation caches (for Apply/Not, Ite, the quantifier
family, the AppEx family, Replace/Compose/VecCompose, and a shared cache for
Constrain/Restrict/Simplify) memoize recursive calls.
Each cache entry records which operation produced it, so unrelated
operations sharing a cache cannot be read back as hits for each other.

Dynamic reordering

This package implements no reordering heuristic of its own. Instead, a
caller can supply a Reorderer, installed through the Reorder option to New
or through SetReorderer, and every node-allocating primitive (Not, Apply,
Ite, the quantifier and substitution families, Restrict/Constrain/Simplify)
will interrupt its recursion, invoke it, and retry the operation exactly
once when the Reorderer reports it is ready to run. Without a Reorderer,
this interrupt path is never taken.

Automatic memory management

The library is written in pure Go, without the need for CGo or any other
dependency. We take care of BDD resizing and memory management directly in
the library, and external references to BDD nodes made by user code are
automatically tracked by the Go runtime's garbage collector and finalizers,
on top of the explicit AddRef/DelRef reference counting; during recursion,
intermediate results are protected by an internal reference stack. As a
consequence, this package does not suffer from FFI
overhead when calling from Go into C, because there is no C underneath it.
*/
package robdd
