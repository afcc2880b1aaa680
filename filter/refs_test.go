package filter

import (
	"testing"

	"go.yaml.in/yaml/v4"
)

func decodeTestYAML(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var n yaml.Node
	if err := yaml.Unmarshal([]byte(src), &n); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return resolveRoot(&n)
}

func TestParseComponentRef(t *testing.T) {
	cases := []struct {
		ref     string
		wantKey RefKey
		wantOK  bool
	}{
		{"#/components/schemas/User", RefKey{"schemas", "User"}, true},
		{"#/components/schemas/Foo~1Bar", RefKey{"schemas", "Foo/Bar"}, true},
		{"#/components/schemas/Foo~0Bar", RefKey{"schemas", "Foo~Bar"}, true},
		{"#/components/schemas/Foo~01", RefKey{"schemas", "Foo~1"}, true},
		{"#/components/widgets/Gadget", RefKey{}, false},
		{"https://example.com/schemas/User", RefKey{}, false},
		{"#/paths/~1users", RefKey{}, false},
		{"#/components/schemas", RefKey{}, false},
		{"#/components/schemas/User/extra", RefKey{}, false},
		{"", RefKey{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.ref, func(t *testing.T) {
			key, ok := parseComponentRef(tc.ref)
			if ok != tc.wantOK {
				t.Fatalf("parseComponentRef(%q) ok = %v, want %v", tc.ref, ok, tc.wantOK)
			}
			if ok && key != tc.wantKey {
				t.Fatalf("parseComponentRef(%q) = %+v, want %+v", tc.ref, key, tc.wantKey)
			}
		})
	}
}

func TestCollectRefs_Basic(t *testing.T) {
	doc := decodeTestYAML(t, `
schema:
  allOf:
    - $ref: '#/components/schemas/Base'
    - type: object
      properties:
        friend:
          $ref: '#/components/schemas/User'
`)
	refs := CollectRefs(doc)
	if !refs.Has(RefKey{"schemas", "Base"}) {
		t.Error("expected Base to be collected")
	}
	if !refs.Has(RefKey{"schemas", "User"}) {
		t.Error("expected User to be collected")
	}
	if len(refs) != 2 {
		t.Errorf("expected exactly 2 refs, got %d: %v", len(refs), refs)
	}
}

func TestCollectRefs_OpaqueRefSiblings(t *testing.T) {
	// A $ref object's siblings (here, an extra "description") must not be
	// descended into, even though the sibling itself contains a $ref.
	doc := decodeTestYAML(t, `
response:
  $ref: '#/components/responses/NotFound'
  description:
    $ref: '#/components/schemas/ShouldNotBeCollected'
`)
	refs := CollectRefs(doc)
	if !refs.Has(RefKey{"responses", "NotFound"}) {
		t.Error("expected NotFound to be collected")
	}
	if refs.Has(RefKey{"schemas", "ShouldNotBeCollected"}) {
		t.Error("sibling of $ref must not be descended into")
	}
	if len(refs) != 1 {
		t.Errorf("expected exactly 1 ref, got %d: %v", len(refs), refs)
	}
}

func TestCollectRefs_InsideExampleValue(t *testing.T) {
	// The collector is conservative: a $ref buried inside example data is
	// still tracked.
	doc := decodeTestYAML(t, `
examples:
  sample:
    value:
      nested:
        $ref: '#/components/schemas/Inner'
`)
	refs := CollectRefs(doc)
	if !refs.Has(RefKey{"schemas", "Inner"}) {
		t.Error("expected ref inside example value to be collected")
	}
}

func TestCollectRefs_MalformedRefLeft(t *testing.T) {
	doc := decodeTestYAML(t, `
thing:
  $ref: 12345
`)
	refs := CollectRefs(doc)
	if len(refs) != 0 {
		t.Errorf("expected malformed $ref to contribute nothing, got %v", refs)
	}
}

func TestCollectRefs_Array(t *testing.T) {
	doc := decodeTestYAML(t, `
items:
  - $ref: '#/components/schemas/A'
  - $ref: '#/components/schemas/B'
`)
	refs := CollectRefs(doc)
	if !refs.Has(RefKey{"schemas", "A"}) || !refs.Has(RefKey{"schemas", "B"}) {
		t.Errorf("expected both array elements collected, got %v", refs)
	}
}
