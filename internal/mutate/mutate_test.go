package mutate

import (
	"errors"
	"strings"
	"testing"

	"github.com/jacoelho/jsonops/internal/jsonpath"
	"github.com/jacoelho/jsonops/internal/query"
	"github.com/jacoelho/jsonops/internal/value"
)

func assign(path, raw string) Assignment {
	return Assignment{Path: path, Value: value.MustParse(raw)}
}

func assertJSON(t *testing.T, got value.Value, want string) {
	t.Helper()
	if !value.Equal(got, value.MustParse(want)) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		doc    string
		create bool
		pairs  []Assignment
		want   string
	}{
		{name: "replace_existing", doc: `{"a":1}`, pairs: []Assignment{assign("$.a", `2`)}, want: `{"a":2}`},
		{name: "missing_key_skipped", doc: `{"a":1}`, pairs: []Assignment{assign("$.b", `2`)}, want: `{"a":1}`},
		{name: "missing_key_created", doc: `{"a":1}`, create: true, pairs: []Assignment{assign("$.b", `2`)}, want: `{"a":1,"b":2}`},
		{name: "null_upgraded_to_array", doc: `{"a":null}`, create: true, pairs: []Assignment{assign("$.a[2]", `10`)}, want: `{"a":[null,null,10]}`},
		{name: "null_kept_without_create", doc: `{"a":null}`, pairs: []Assignment{assign("$.a[2]", `10`)}, want: `{"a":null}`},
		{name: "intermediates_created", doc: `{}`, create: true, pairs: []Assignment{assign("$.a.b[1].c", `true`)}, want: `{"a":{"b":[null,{"c":true}]}}`},
		{name: "wrong_type_intermediate", doc: `{"a":1}`, create: true, pairs: []Assignment{assign("$.a.b", `2`)}, want: `{"a":1}`},
		{name: "key_on_array", doc: `[1]`, create: true, pairs: []Assignment{assign("$.a", `2`)}, want: `[1]`},
		{name: "index_padding", doc: `[1]`, create: true, pairs: []Assignment{assign("$[3]", `4`)}, want: `[1,null,null,4]`},
		{name: "index_replace", doc: `[1,2]`, pairs: []Assignment{assign("$[1]", `"x"`)}, want: `[1,"x"]`},
		{name: "root_replaced", doc: `{"a":1}`, pairs: []Assignment{assign("$", `[1]`)}, want: `[1]`},
		{name: "lax_prefix_resolves_strictly", doc: `{"a":[{"b":1}]}`, create: true, pairs: []Assignment{assign("lax $.a.b", `2`)}, want: `{"a":[{"b":1}]}`},
		{
			name:   "sequential_pairs",
			doc:    `{}`,
			create: true,
			pairs:  []Assignment{assign("$.a", `{}`), assign("$.a.b", `1`), assign("$.a.b", `2`)},
			want:   `{"a":{"b":2}}`,
		},
		{name: "keeps_member_order", doc: `{"z":1,"a":2}`, pairs: []Assignment{assign("$.z", `3`)}, want: `{"z":3,"a":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := value.MustParse(tt.doc)
			got, err := Set(doc, tt.create, tt.pairs...)
			if err != nil {
				t.Fatalf("Set: %v", err)
			}
			assertJSON(t, got, tt.want)
			if string(value.Marshal(got)) != string(value.Marshal(value.MustParse(tt.want))) {
				t.Errorf("member order: got %s, want %s", got, tt.want)
			}
			if !value.Equal(doc, value.MustParse(tt.doc)) {
				t.Errorf("input modified: %s", doc)
			}
		})
	}
}

func TestSetThenExtract(t *testing.T) {
	t.Parallel()

	docs := []string{`{}`, `{"a":null}`, `{"a":{"b":[1,2,3]}}`, `[]`}
	paths := []string{"$.a", "$.a.b", "$.a.b[1]", "$.a.b[5].c"}
	x := value.MustParse(`{"k":[true,"v"]}`)

	for _, raw := range docs {
		for _, path := range paths {
			doc := value.MustParse(raw)
			updated, err := Set(doc, true, Assignment{Path: path, Value: x})
			if err != nil {
				t.Fatalf("Set(%s, %s): %v", raw, path, err)
			}
			got, ok, err := query.ExtractStructured(updated, path)
			if err != nil {
				t.Fatalf("ExtractStructured(%s): %v", path, err)
			}
			if raw == `[]` {
				// the root is an array, so no key step can be created
				if ok {
					t.Errorf("Set(%s, %s) created %s", raw, path, updated)
				}
				continue
			}
			if !ok || !value.Equal(got, x) {
				t.Errorf("extract(set(%s, %s)) = %s (ok=%v), want %s", raw, path, got, ok, x)
			}
		}
	}
}

func TestSetInvalidPath(t *testing.T) {
	t.Parallel()

	doc := value.MustParse(`{"a":1}`)
	for _, path := range []string{"$.a[*]", "$..a", "a", "$[-1]"} {
		_, err := Set(doc, true, assign("$.b", `1`), assign(path, `2`))
		if !errors.Is(err, jsonpath.ErrInvalidPath) {
			t.Errorf("Set(%q) error = %v, want %v", path, err, jsonpath.ErrInvalidPath)
		}
	}
}

func TestSetDepthExceeded(t *testing.T) {
	t.Parallel()

	path := "$" + strings.Repeat(".a", value.MaxDepth+1)
	_, err := Set(value.Object(), true, Assignment{Path: path, Value: value.Int(1)})
	if !errors.Is(err, value.ErrDepthExceeded) {
		t.Fatalf("Set error = %v, want %v", err, value.ErrDepthExceeded)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		doc   string
		paths []string
		want  string
	}{
		{name: "same_index_twice", doc: `["a",["b","c"],"d"]`, paths: []string{"$[1]", "$[1]"}, want: `["a"]`},
		{name: "key", doc: `{"a":1,"b":2}`, paths: []string{"$.a"}, want: `{"b":2}`},
		{name: "nested", doc: `{"a":{"b":[1,2,3]}}`, paths: []string{"$.a.b[0]"}, want: `{"a":{"b":[2,3]}}`},
		{name: "missing_ignored", doc: `{"a":1}`, paths: []string{"$.x", "$.a.b", "$[0]"}, want: `{"a":1}`},
		{name: "out_of_range", doc: `[1]`, paths: []string{"$[4]"}, want: `[1]`},
		{name: "none", doc: `{"a":1}`, want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := value.MustParse(tt.doc)
			got, err := Remove(doc, tt.paths...)
			if err != nil {
				t.Fatalf("Remove: %v", err)
			}
			assertJSON(t, got, tt.want)
			if !value.Equal(doc, value.MustParse(tt.doc)) {
				t.Errorf("input modified: %s", doc)
			}
		})
	}
}

func TestRemoveIdempotentOnKeys(t *testing.T) {
	t.Parallel()

	doc := value.MustParse(`{"a":{"b":1,"c":2},"d":3}`)
	once, err := Remove(doc, "$.a.b", "$.d")
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Remove(once, "$.a.b", "$.d")
	if err != nil {
		t.Fatal(err)
	}
	if !value.Equal(once, twice) {
		t.Errorf("second removal changed %s into %s", once, twice)
	}
}

func TestRemoveRoot(t *testing.T) {
	t.Parallel()

	_, err := Remove(value.MustParse(`{"a":1}`), "$.a", "$")
	if !errors.Is(err, ErrDisallowedOperation) {
		t.Fatalf("Remove($) error = %v, want %v", err, ErrDisallowedOperation)
	}
}
