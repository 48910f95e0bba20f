// Package bqf implements integral binary quadratic forms
//
//	f(x, y) = a*x^2 + b*x*y + c*y^2
//
// and the classical arithmetic on them needed to work with form class
// groups of negative discriminant.
//
// A [Form] is an immutable coefficient triple (a, b, c) of arbitrary
// precision integers. Its discriminant is D = b^2 - 4ac. Every operation
// returns a fresh form and never mutates its inputs, so forms may be shared
// freely between goroutines.
//
// # Reduction
//
// For D < 0 every equivalence class of positive definite forms contains
// exactly one reduced form, i.e. one satisfying
//
//	|b| <= a <= c,  and  b >= 0 if |b| = a or a = c.
//
// [Form.Reduce] computes it with Gauss' reduction algorithm, and
// [ReducedForms] enumerates all primitive reduced forms of a discriminant,
// which is the classical way of counting the class number.
//
// # Composition
//
// [Compose] implements Dirichlet composition in the form given by Shanks
// (Cohen, "A Course in Computational Algebraic Number Theory", Alg. 5.4.7).
// The result lies in the product class but is usually not reduced;
// [Form.Mul] composes and reduces in one step.
//
// # Sampling
//
// [PrimeForm] builds the form (p, b, c) attached to an odd prime p that
// splits in the order of discriminant D, and [Random] uses prime forms to
// produce pseudo-random classes.
//
// # Encoding
//
// [Form.Bytes] and [FromBytes] use a fixed-width two's complement encoding
// of (a, b) whose width is derived from the discriminant; c is recovered
// from D on decoding. Forms also implement CBOR marshalling.
package bqf
