// Package demo runs the two-part completion demo: one non-streaming call and
// one streaming call against the same provider, each printed under a fixed
// label. A failed call is reported on the output and never stops the other.
package demo
