// Package group provides generic algorithms for finite additive abelian
// groups.
//
// The algorithms are written against the small [Group] interface, which
// exposes the group law as functions on an element type E rather than as
// methods on the elements themselves, so it is usually implemented by a
// thin adapter over a concrete representation.
//
//   - [Multiple]: n*x by double-and-add, for any integer n
//   - [OrderFromMultiple]: the exact order of x, given a multiple of it
//   - [Factor]: factorization of positive integers
//   - [Structure]: invariant factors and a matching basis of a finite
//     abelian group given by the list of all its elements
//
// # Design Philosophy
//
// Elements are treated as immutable values: Add and Negate return new
// elements and never modify their arguments. Equality is decided by
// [Group.Equal], and [Group.Key] maps every element to a canonical string
// so that algorithms can index elements in ordinary Go maps.
//
// # Implementing a Group
//
// To run these algorithms on a new group:
//
//  1. Choose an immutable element type E with a canonical representation.
//  2. Implement [Group] for E, typically as an unexported adapter type.
//  3. Call the generic functions with the adapter.
//
// See the classgroup package for a complete implementation over classes of
// binary quadratic forms.
package group
