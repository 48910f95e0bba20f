package classgroup

import (
	"errors"

	"github.com/f3rmion/formclass/bqf"
)

var (
	// ErrInvalidDiscriminant is returned for D = 0 or D mod 4 not in {0, 1}.
	ErrInvalidDiscriminant = bqf.ErrInvalidDiscriminant
	// ErrUnsupportedDiscriminant is returned for D > 0.
	ErrUnsupportedDiscriminant = errors.New("positive discriminants are not yet supported")
	// ErrNotForm is returned when no quadratic form is supplied where one
	// is required.
	ErrNotForm = errors.New("not a binary quadratic form")
	// ErrWrongDiscriminant is returned for forms or elements whose
	// discriminant differs from the group's.
	ErrWrongDiscriminant = errors.New("quadratic form has wrong discriminant")
	// ErrNotPrimitive is returned for forms with gcd(a, b, c) != 1.
	ErrNotPrimitive = errors.New("quadratic form is not primitive")
	// ErrNotPositiveDefinite is returned for negative definite forms.
	ErrNotPositiveDefinite = errors.New("only positive definite forms are currently supported")
	// ErrParentMismatch is returned by binary operations on elements of
	// different class groups.
	ErrParentMismatch = errors.New("elements belong to different class groups")
)
