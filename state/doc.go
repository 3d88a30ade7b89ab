package state

import "encoding/json"

// Doc is a JSON-compatible document, the unit stored and queried within a
// Collection. Keys are field names; values are anything that survives a
// JSON marshal/unmarshal round trip (string, float64, bool, nil,
// []interface{}, map[string]interface{}).
type Doc map[string]interface{}

// Query is matched against a Doc with equality on every field named in it
// (spec's minimum query semantics: "predicate-based query ... at minimum
// equality on fields"). An empty Query matches every document.
type Query map[string]interface{}

// normalize round-trips v through JSON so that values crossing the
// sandbox/store boundary compare the way they would after passing through
// an actual JSON-based document store (ints become float64, structs become
// maps, etc.), and so that the result shares no memory with the input —
// the canonical deep-copy implementation spec.md's design notes call for.
func normalize(v interface{}) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeDoc(d Doc) (Doc, error) {
	v, err := normalize(map[string]interface{}(d))
	if err != nil {
		return nil, err
	}
	m, _ := v.(map[string]interface{})
	return Doc(m), nil
}

func matches(doc Doc, q Query) bool {
	for k, want := range q {
		got, ok := doc[k]
		if !ok {
			return false
		}
		wantN, err1 := normalize(want)
		gotN, err2 := normalize(got)
		if err1 != nil || err2 != nil {
			return false
		}
		if !deepEqual(wantN, gotN) {
			return false
		}
	}
	return true
}

// deepEqual compares two normalized (JSON round-tripped) values for
// equality field by field; avoids pulling in reflect.DeepEqual's stricter
// type requirements since normalize already canonicalizes numeric types.
func deepEqual(a, b interface{}) bool {
	switch av := a.(type) {
	case map[string]interface{}:
		bv, ok := b.(map[string]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, ok := bv[k]
			if !ok || !deepEqual(v, bvv) {
				return false
			}
		}
		return true
	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !deepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
