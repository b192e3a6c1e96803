// Package ignore compiles and evaluates the --ignore patterns of a run.
package ignore

import (
	"regexp"
	"strings"

	"github.com/arthur-debert/pubmirror/pkg/errors"
)

// Matcher tests absolute source paths against an ordered list of patterns.
// The zero value matches nothing.
type Matcher struct {
	patterns []*regexp.Regexp
	sources  []string
}

// Compile builds a Matcher. Patterns are RE2 expressions; the delimited form
// `/expr/flags` is also accepted, with the flags i, m, s and U carried over.
func Compile(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		re, err := regexp.Compile(translate(p))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrIgnorePattern, "invalid ignore pattern %q", p).
				WithDetail("pattern", p)
		}
		m.patterns = append(m.patterns, re)
		m.sources = append(m.sources, p)
	}
	return m, nil
}

// Match returns the first pattern matching path.
func (m *Matcher) Match(path string) (string, bool) {
	if m == nil {
		return "", false
	}
	for i, re := range m.patterns {
		if re.MatchString(path) {
			return m.sources[i], true
		}
	}
	return "", false
}

// Empty reports whether no pattern was compiled.
func (m *Matcher) Empty() bool {
	return m == nil || len(m.patterns) == 0
}

// translate turns `/expr/flags` into `(?flags)expr`. Anything else is
// returned untouched.
func translate(p string) string {
	if len(p) < 2 || p[0] != '/' {
		return p
	}
	end := strings.LastIndexByte(p, '/')
	if end == 0 {
		return p
	}

	expr, flags := p[1:end], p[end+1:]
	for _, f := range flags {
		if !strings.ContainsRune("imsU", f) {
			return p
		}
	}
	if flags == "" {
		return expr
	}
	return "(?" + flags + ")" + expr
}
