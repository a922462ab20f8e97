// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

// Version identifies the API revision implemented by this package. It
// changes whenever the wire-visible behavior of a primitive changes, so
// that callers persisting BDDs built by one version can detect a mismatch
// against a later one.
const Version = "1.0.0"
