// Package model contains domain models passed between pipeline stages.
package model

import (
	"math"
	"strings"
)

// DefaultMinNineties is the eligibility floor in 90-minute equivalents.
const DefaultMinNineties = 20

// Value is an optional float. The zero Value is undefined.
type Value struct {
	V  float64
	Ok bool
}

// None is the undefined value.
var None = Value{}

// Some returns a defined value. NaN and infinities are treated as undefined.
func Some(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return None
	}
	return Value{V: v, Ok: true}
}

// Get returns the float and whether it is defined.
func (v Value) Get() (float64, bool) { return v.V, v.Ok }

// Or returns the float, or def when undefined.
func (v Value) Or(def float64) float64 {
	if !v.Ok {
		return def
	}
	return v.V
}

// Role is the playing role a player is ranked in.
type Role string

// Roles. Unclassified players take no part in scoring or ranking.
const (
	Goalkeeper   Role = "GK"
	Defender     Role = "DF"
	Midfielder   Role = "MF"
	Forward      Role = "FWD"
	Unclassified Role = ""
)

// Roles lists the rankable roles in output order.
var Roles = []Role{Forward, Midfielder, Defender, Goalkeeper}

// Prefix returns the lower-case column prefix of the role, e.g. "fwd".
func (r Role) Prefix() string { return strings.ToLower(string(r)) }

// Valid reports whether r is one of the four rankable roles.
func (r Role) Valid() bool {
	switch r {
	case Goalkeeper, Defender, Midfielder, Forward:
		return true
	}
	return false
}

// Label returns the role for metrics and logs; "none" when unclassified.
func (r Role) Label() string {
	if r == Unclassified {
		return "none"
	}
	return string(r)
}

// ParseRole accepts either the role code or its column prefix,
// case-insensitively ("FWD", "fwd", "gk").
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return Unclassified, false
	}
	return r, true
}

// Identity names a player within a snapshot. It is not globally unique.
type Identity struct {
	Name string
	Club string
}

// Key returns the normalized join key: lower case, single-spaced,
// name and club separated by a unit separator.
func (id Identity) Key() string {
	return NormalizeName(id.Name) + "\x1f" + NormalizeName(id.Club)
}

// NormalizeName lower-cases s and collapses runs of whitespace.
func NormalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
