// Package classgroup implements form class groups of negative
// discriminant: the finite abelian group of equivalence classes of
// primitive positive definite binary quadratic forms of a fixed
// discriminant D < 0, with composition of forms as the group law.
//
// # Groups and Elements
//
// A [Group] is identified by its discriminant. [New] validates D and
// returns the unique process-wide instance for it, so two calls with the
// same discriminant yield the same *Group:
//
//	cl, err := classgroup.NewInt64(-431)
//	if err != nil {
//		return err
//	}
//	fmt.Println(cl) // Form Class Group of Discriminant -431
//
// Elements are created from forms with [Group.Element], which checks the
// discriminant, primitivity and positive definiteness of the form and
// stores the unique reduced form of its class:
//
//	c1, _ := cl.Element(bqf.NewInt64(22, 91, 99))
//	fmt.Println(c1) // Class of 5*x^2 - 3*x*y + 22*y^2
//
// [FormClass] does the same starting from a form alone, looking up the
// group of the form's discriminant.
//
// # Arithmetic
//
// [Element.Add] composes and reduces, [Element.Neg] maps (a, b, c) to
// (a, -b, c), and [Element.Mul] computes integer multiples by
// double-and-add. Binary operations on elements of different groups fail
// with [ErrParentMismatch]. Elements are immutable; every operation
// returns a new element.
//
// # Group Structure
//
// [Group.Order] returns the class number and [Group.Structure] the
// invariant factors together with generators realising them. Both are
// computed on first use and cached for the lifetime of the group.
// [Element.Order] uses the class number as a known multiple of the element
// order, and [Group.DiscreteLog] expresses an element in terms of the
// generators:
//
//	st, _ := cl.Structure()
//	fmt.Println(st) // Z/21
//	log, _ := cl.DiscreteLog(c1)
//
// # Hashing to the Class Group
//
// [Group.HashToElement] maps byte strings deterministically to classes
// through a pluggable [Hasher]. SHA-256, BLAKE2b and MiMC implementations
// are provided.
//
// # Limitations
//
// Positive discriminants are rejected with [ErrUnsupportedDiscriminant]:
// indefinite forms have several reduced forms per class, so equality,
// ordering and hashing of elements would need a different model.
package classgroup
