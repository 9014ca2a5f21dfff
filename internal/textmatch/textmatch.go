// Package textmatch holds the matching primitives shared by the scope, tag
// and title cascades: compiled patterns with Unicode-aware word semantics
// and lookaround, plus a few string helpers.
package textmatch

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Pattern is a compiled expression. It is safe for concurrent use.
type Pattern struct {
	expr string
	re   *regexp2.Regexp
}

// MustCompile compiles a case-sensitive pattern and panics on syntax errors.
func MustCompile(expr string) *Pattern {
	return &Pattern{expr: expr, re: regexp2.MustCompile(expr, regexp2.None)}
}

// MustCompileFold compiles a case-insensitive pattern and panics on syntax errors.
func MustCompileFold(expr string) *Pattern {
	return &Pattern{expr: expr, re: regexp2.MustCompile(expr, regexp2.IgnoreCase)}
}

// Match reports whether the pattern occurs anywhere in s. Engine errors
// count as no match.
func (p *Pattern) Match(s string) bool {
	ok, err := p.re.MatchString(s)
	return err == nil && ok
}

// Find returns the text of capture group 1 of the first match.
func (p *Pattern) Find(s string) (string, bool) {
	m, err := p.re.FindStringMatch(s)
	if err != nil || m == nil {
		return "", false
	}
	g := m.GroupByNumber(1)
	if g == nil || len(g.Captures) == 0 {
		return "", false
	}
	return g.String(), true
}

// String returns the source expression.
func (p *Pattern) String() string {
	return p.expr
}

// AnyMatch reports whether any of the patterns matches s.
func AnyMatch(s string, patterns ...*Pattern) bool {
	for _, p := range patterns {
		if p.Match(s) {
			return true
		}
	}
	return false
}

// ContainsAny reports whether s contains at least one of subs.
func ContainsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Lower returns s with full Unicode lower-casing applied.
func Lower(s string) string {
	// Casers carry state, so one is built per call.
	return cases.Lower(language.Und).String(s)
}

// Capitalize upper-cases the first rune of w and lower-cases the rest.
func Capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToTitle(r)) + Lower(w[size:])
}

// RuneLen returns the number of code points in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
