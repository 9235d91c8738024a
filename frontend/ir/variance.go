package ir

import (
	"fmt"
	"strings"
)

// Variance describes how subtyping of a generic parameter relates to subtyping
// of the type that contains it.
//
// The values form a lattice: Bivariant is the bottom, Invariant the top,
// and Covariant and Contravariant sit incomparably between them
type Variance uint8

const (
	// Covariant: T <: U implies C<T> <: C<U>
	Covariant Variance = iota
	// Invariant: C<T> <: C<U> only if T == U
	Invariant
	// Contravariant: T <: U implies C<U> <: C<T>
	Contravariant
	// Bivariant: the parameter is unused, so C<T> <: C<U> for any T, U
	Bivariant
)

var AllVariances = []Variance{Covariant, Invariant, Contravariant, Bivariant}

// Xform composes the variance of an outer position with the variance of
// a position nested in it:
//
//	        + - o *
//	  +  |  + - o *
//	  -  |  - + o *
//	  o  |  o o o o
//	  *  |  * * * *
func (v Variance) Xform(inner Variance) Variance {
	switch v {
	case Covariant:
		return inner
	case Invariant:
		return Invariant
	case Contravariant:
		return inner.Neg()
	default:
		return Bivariant
	}
}

// Neg swaps covariance and contravariance
func (v Variance) Neg() Variance {
	switch v {
	case Covariant:
		return Contravariant
	case Contravariant:
		return Covariant
	default:
		return v
	}
}

// Join is the least upper bound of v and other in the variance lattice
func (v Variance) Join(other Variance) Variance {
	switch {
	case v == other:
		return v
	case v == Bivariant:
		return other
	case other == Bivariant:
		return v
	default:
		return Invariant
	}
}

func (v Variance) String() string {
	switch v {
	case Covariant:
		return "+"
	case Invariant:
		return "o"
	case Contravariant:
		return "-"
	case Bivariant:
		return "*"
	default:
		return fmt.Sprintf("Variance(%d)", uint8(v))
	}
}

// Name is the long form of the variance, like "covariant"
func (v Variance) Name() string {
	switch v {
	case Covariant:
		return "covariant"
	case Invariant:
		return "invariant"
	case Contravariant:
		return "contravariant"
	case Bivariant:
		return "bivariant"
	default:
		return v.String()
	}
}

// ParseVariance accepts both the short (+, -, o, *) and long (covariant, ...) forms
func ParseVariance(s string) (Variance, error) {
	for _, v := range AllVariances {
		if s == v.String() || strings.EqualFold(s, v.Name()) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown variance '%s'", s)
}

func (v Variance) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Variance) UnmarshalText(text []byte) error {
	parsed, err := ParseVariance(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ShowVariances renders variances like [+, o, *]
func ShowVariances(vs []Variance) string {
	shown := make([]string, 0, len(vs))
	for _, v := range vs {
		shown = append(shown, v.String())
	}
	return "[" + strings.Join(shown, ", ") + "]"
}
