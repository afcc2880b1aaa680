package filter

import "slices"

// recognizedMethods is the set of HTTP method keys a path-item object may
// carry. Matching against it is case-insensitive on input; kept method keys
// are lower-cased on output. "query" is OAS 3.2's addition to the 3.0/3.1
// method set and is recognized alongside the eight documented methods so
// that newer documents filter the same way older ones do.
var recognizedMethods = []string{
	"get", "put", "post", "delete", "options", "head", "patch", "trace", "query",
}

// IsRecognizedMethod reports whether method (already lower-cased) is one of
// the HTTP method keys a path-item object carries operations under.
func IsRecognizedMethod(method string) bool {
	return slices.Contains(recognizedMethods, method)
}

// Spec is a filter specification: the set of selectors applied to each
// operation. An empty slice for any field means no restriction on that
// dimension.
type Spec struct {
	// PathPatterns are glob patterns (see [PathPatternMatch]) matched
	// against each path string. Empty matches every path.
	PathPatterns []string

	// Methods are lower-case HTTP method names. Empty matches every method.
	Methods []string

	// Tags are exact tag names. Empty means no tag restriction.
	Tags []string

	// Securities are exact security-scheme names. Empty means no security
	// restriction.
	Securities []string
}

// methodSet, tagSet and securitySet provide O(1) membership checks for
// their respective Spec fields during selection.

func (s Spec) methodSet() map[string]struct{} {
	return toSet(s.Methods)
}

func (s Spec) tagSet() map[string]struct{} {
	return toSet(s.Tags)
}

func (s Spec) securitySet() map[string]struct{} {
	return toSet(s.Securities)
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// intersects reports whether any element of candidates is a key of set. A
// nil or empty set (no restriction) is never consulted by callers directly;
// this helper is only called once the caller has established the set is
// non-empty.
func intersects(set map[string]struct{}, candidates []string) bool {
	for _, c := range candidates {
		if _, ok := set[c]; ok {
			return true
		}
	}
	return false
}
