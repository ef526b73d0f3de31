package value

import (
	"testing"
)

func TestObjectFirstKeyWins(t *testing.T) {
	t.Parallel()

	obj := Object(
		Member{Key: "a", Value: Int(1)},
		Member{Key: "b", Value: Int(2)},
		Member{Key: "a", Value: Int(3)},
	)

	if obj.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", obj.Len())
	}
	got, ok := obj.Get("a")
	if !ok || !Equal(got, Int(1)) {
		t.Errorf("Get(a) = %v, %v; want 1, true", got, ok)
	}
	if keys := obj.Keys(); keys[0] != "a" || keys[1] != "b" {
		t.Errorf("Keys() = %v, want [a b]", keys)
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{name: "object_member_order_ignored", a: `{"a":1,"b":2}`, b: `{"b":2,"a":1}`, want: true},
		{name: "array_order_significant", a: `[1,2]`, b: `[2,1]`, want: false},
		{name: "numbers_compare_numerically", a: `1.50`, b: `1.5`, want: true},
		{name: "null_is_not_false", a: `null`, b: `false`, want: false},
		{name: "missing_key_differs_from_null", a: `{"a":null}`, b: `{}`, want: false},
		{name: "nested_equal", a: `{"a":[{"b":"x"}]}`, b: `{"a":[{"b":"x"}]}`, want: true},
		{name: "different_lengths", a: `{"a":1}`, b: `{"a":1,"b":1}`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Equal(MustParse(tt.a), MustParse(tt.b)); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestPersistentUpdatesLeaveOriginalIntact(t *testing.T) {
	t.Parallel()

	original := MustParse(`{"a":[1,2,3],"b":{"c":true}}`)
	snapshot := original.String()

	arr, _ := original.Get("a")
	updated := original.
		WithKey("a", arr.WithIndex(5, String("x")).WithoutIndex(0)).
		WithoutKey("b").
		WithKey("d", Null())

	if got := original.String(); got != snapshot {
		t.Errorf("original changed: got %s, want %s", got, snapshot)
	}

	want := `{"a":[2,3,null,null,"x"],"d":null}`
	if got := updated.String(); got != want {
		t.Errorf("updated = %s, want %s", got, want)
	}
}

func TestInsertAtPadsWithNulls(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		doc   string
		index int
		items []Value
		want  string
	}{
		{name: "insert_middle", doc: `[1,2,3]`, index: 1, items: []Value{Int(9)}, want: `[1,9,2,3]`},
		{name: "insert_front", doc: `[1]`, index: 0, items: []Value{Int(7), Int(8)}, want: `[7,8,1]`},
		{name: "insert_at_end", doc: `[1]`, index: 1, items: []Value{Int(2)}, want: `[1,2]`},
		{name: "insert_past_end", doc: `["a"]`, index: 3, items: []Value{String("x")}, want: `["a",null,null,"x"]`},
		{name: "not_an_array", doc: `{"a":1}`, index: 0, items: []Value{Int(2)}, want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := MustParse(tt.doc).InsertAt(tt.index, tt.items...).String()
			if got != tt.want {
				t.Errorf("InsertAt() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		`{}`:    "object",
		`[]`:    "array",
		`"s"`:   "string",
		`1.5`:   "number",
		`false`: "boolean",
		`null`:  "null",
	}

	for doc, want := range tests {
		if got := MustParse(doc).Kind().String(); got != want {
			t.Errorf("Kind(%s) = %s, want %s", doc, got, want)
		}
	}
}
