package model

// Scope is the geographic radius at which a meta's claim holds.
type Scope string

const (
	ScopeCountrywide Scope = "Countrywide"
	ScopeRegion      Scope = "Region"
	ScopeLongitude   Scope = "Longitude"
	Scope1000km      Scope = "1000km"
	Scope100km       Scope = "100km"
	Scope10km        Scope = "10km"
	Scope1km         Scope = "1km"
	ScopeUnique      Scope = "Unique"
	ScopeNone        Scope = ""
)

var scopes = []Scope{
	ScopeCountrywide,
	ScopeRegion,
	ScopeLongitude,
	Scope1000km,
	Scope100km,
	Scope10km,
	Scope1km,
	ScopeUnique,
	ScopeNone,
}

// Scopes returns the full scope enumeration, empty scope last.
func Scopes() []Scope {
	out := make([]Scope, len(scopes))
	copy(out, scopes)
	return out
}

// Valid reports whether s is one of the enumerated scopes.
func (s Scope) Valid() bool {
	for _, v := range scopes {
		if s == v {
			return true
		}
	}
	return false
}

// Label returns the display name used in reports; the empty scope is "(empty)".
func (s Scope) Label() string {
	if s == ScopeNone {
		return "(empty)"
	}
	return string(s)
}
