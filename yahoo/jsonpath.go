package yahoo

import (
	"github.com/PaesslerAG/jsonpath"
)

// lookup evaluates path on jobj. Missing keys and JSON nulls are reported as absent.
func lookup(path string, jobj any) (any, bool) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, false
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer,
	// or a single answer: keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) == 1 {
		jval = jlist[0]
	}
	return jval, jval != nil
}

// list evaluates path on jobj, expecting a JSON array.
func list(path string, jobj any) []any {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil
	}
	jlist, _ := jval.([]any)
	return jlist
}

// number returns the first path of paths that holds a number.
func number(jobj any, paths ...string) (float64, bool) {
	for _, path := range paths {
		if jval, ok := lookup(path, jobj); ok {
			if f, ok := jval.(float64); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// text returns the first path of paths that holds a non empty string.
func text(jobj any, paths ...string) (string, bool) {
	for _, path := range paths {
		if jval, ok := lookup(path, jobj); ok {
			if s, ok := jval.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}
