// Package re provides the engine's builtin `re` module: match, search,
// findall, backed by the standard library's regexp package, raising an
// engine Exception (kind value) on a malformed pattern rather than a Go
// panic, per SPEC_FULL.md §5.3.
package re

import (
	"fmt"
	"regexp"

	"github.com/VikingMew/quickpython/quickpython"
)

func init() {
	quickpython.RegisterBuiltinModule("re", newModule)
}

func newModule() *quickpython.Module {
	m := quickpython.NewModule("re")
	m.Members["match"] = &quickpython.Native{Name: "match", Fn: reMatch}
	m.Members["search"] = &quickpython.Native{Name: "search", Fn: reSearch}
	m.Members["findall"] = &quickpython.Native{Name: "findall", Fn: reFindall}
	return m
}

func compile(args []quickpython.Value, fname string) (*regexp.Regexp, string, *quickpython.Exception) {
	if len(args) != 2 {
		return nil, "", quickpython.NewException(quickpython.ExceptionValue, fmt.Sprintf("%s() takes exactly two arguments", fname))
	}
	pattern, ok := args[0].(quickpython.String)
	if !ok {
		return nil, "", quickpython.NewException(quickpython.ExceptionType, fmt.Sprintf("%s() pattern must be a string", fname))
	}
	s, ok := args[1].(quickpython.String)
	if !ok {
		return nil, "", quickpython.NewException(quickpython.ExceptionType, fmt.Sprintf("%s() subject must be a string", fname))
	}
	re, err := regexp.Compile(string(pattern))
	if err != nil {
		return nil, "", quickpython.NewException(quickpython.ExceptionValue, fmt.Sprintf("invalid regular expression: %s", err))
	}
	return re, string(s), nil
}

// reMatch anchors the pattern at the start of the subject, Python's
// re.match semantics (unlike re.search, which scans).
func reMatch(t *quickpython.Thread, args []quickpython.Value) (quickpython.Value, *quickpython.Exception) {
	re, s, exc := compile(args, "match")
	if exc != nil {
		return nil, exc
	}
	loc := re.FindStringIndex(s)
	if loc == nil || loc[0] != 0 {
		return quickpython.NoneValue, nil
	}
	return quickpython.String(s[loc[0]:loc[1]]), nil
}

func reSearch(t *quickpython.Thread, args []quickpython.Value) (quickpython.Value, *quickpython.Exception) {
	re, s, exc := compile(args, "search")
	if exc != nil {
		return nil, exc
	}
	found := re.FindString(s)
	if found == "" && !re.MatchString(s) {
		return quickpython.NoneValue, nil
	}
	return quickpython.String(found), nil
}

func reFindall(t *quickpython.Thread, args []quickpython.Value) (quickpython.Value, *quickpython.Exception) {
	re, s, exc := compile(args, "findall")
	if exc != nil {
		return nil, exc
	}
	matches := re.FindAllString(s, -1)
	out := make([]quickpython.Value, len(matches))
	for i, m := range matches {
		out[i] = quickpython.String(m)
	}
	return quickpython.NewList(out), nil
}
