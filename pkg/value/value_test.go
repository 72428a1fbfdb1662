package value

import (
	"encoding/json"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNull, "null"},
		{KindBool, "bool"},
		{KindNumber, "number"},
		{KindString, "string"},
		{KindSequence, "sequence"},
		{KindMapping, "mapping"},
		{Kind(42), "kind(42)"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	if v.Kind() != KindNull {
		t.Errorf("zero Value kind = %v, want null", v.Kind())
	}
	if !v.IsLeaf() {
		t.Error("zero Value should be a leaf")
	}
}

func TestMappingDuplicateKeys(t *testing.T) {
	m := Mapping(
		Member{Key: "a", Value: Int(1)},
		Member{Key: "b", Value: Int(2)},
		Member{Key: "a", Value: Int(3)},
	)

	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}
	first := m.Member(0)
	if first.Key != "a" || first.Value.Literal() != "3" {
		t.Errorf("Member(0) = %s:%s, want a:3", first.Key, first.Value.Literal())
	}
	if m.Member(1).Key != "b" {
		t.Errorf("Member(1).Key = %q, want b", m.Member(1).Key)
	}
}

func TestAccessorsOnWrongKind(t *testing.T) {
	s := String("x")
	if s.AsBool() {
		t.Error("AsBool() on string should be false")
	}
	if s.Literal() != "" {
		t.Error("Literal() on string should be empty")
	}
	if _, ok := s.Float(); ok {
		t.Error("Float() on string should not be ok")
	}
	if s.Items() != nil || s.Members() != nil {
		t.Error("Items()/Members() on string should be nil")
	}
	if Int(1).Str() != "" {
		t.Error("Str() on number should be empty")
	}
	if _, ok := s.Get("k"); ok {
		t.Error("Get() on string should not be ok")
	}
}

func TestItemPanicsOnLeaf(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Item() on a leaf should panic")
		}
	}()
	_ = Null().Item(0)
}

func TestItemsAreCopies(t *testing.T) {
	seq := Sequence(Int(1), Int(2))
	items := seq.Items()
	items[0] = String("changed")

	if seq.Item(0).Kind() != KindNumber {
		t.Error("mutating Items() result must not change the sequence")
	}
}

func TestFloat(t *testing.T) {
	v := Float(1.5)
	if v.Literal() != "1.5" {
		t.Errorf("Float(1.5).Literal() = %q", v.Literal())
	}
	f, ok := Number("1.50").Float()
	if !ok || f != 1.5 {
		t.Errorf("Number(1.50).Float() = %v, %v", f, ok)
	}
}

func TestEqual(t *testing.T) {
	a := Mapping(Member{Key: "x", Value: Sequence(Int(1), Bool(true), Null())})
	b := Mapping(Member{Key: "x", Value: Sequence(Int(1), Bool(true), Null())})
	c := Mapping(Member{Key: "x", Value: Sequence(Int(1), Bool(false), Null())})
	d := Mapping(Member{Key: "y", Value: Sequence(Int(1), Bool(true), Null())})

	if !Equal(a, b) {
		t.Error("Equal(a, b) = false, want true")
	}
	if Equal(a, c) {
		t.Error("Equal(a, c) = true, want false")
	}
	if Equal(a, d) {
		t.Error("Equal(a, d) = true, want false")
	}
	if Equal(Number("1.0"), Number("1")) {
		t.Error("numbers compare by literal")
	}
	if Equal(String("1"), Number("1")) {
		t.Error("different kinds must not be equal")
	}
}

func TestMarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null(), `null`},
		{"bool", Bool(true), `true`},
		{"number keeps literal", Number("1.50"), `1.50`},
		{"string escapes", String("a\"b<c>\n"), `"a\"b<c>\n"`},
		{"empty sequence", Sequence(), `[]`},
		{"empty mapping", Mapping(), `{}`},
		{
			"order preserved",
			Mapping(
				Member{Key: "z", Value: Int(1)},
				Member{Key: "a", Value: Sequence(String("x"), Null())},
			),
			`{"z":1,"a":["x",null]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.v)
			if err != nil {
				t.Fatalf("json.Marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("MarshalJSON = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestIndentJSON(t *testing.T) {
	v := Mapping(Member{Key: "a", Value: Int(1)})
	want := "{\n  \"a\": 1\n}"
	if got := string(v.IndentJSON()); got != want {
		t.Errorf("IndentJSON() = %q, want %q", got, want)
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		lit     string
		literal string
		json    string
	}{
		{"1.50", "1.50", `1.50`},
		{"-0.5e3", "-0.5e3", `-0.5e3`},
		{"0x1F", "31", `31`},
		{"0o17", "15", `15`},
		{"1_000", "1000", `1000`},
		{"0xFFFFFFFFFFFFFFFF", "18446744073709551615", `18446744073709551615`},
		{"+1.5", "1.5", `1.5`},
		{".5", "0.5", `0.5`},
		{"twelve", "twelve", `"twelve"`},
	}

	for _, tt := range tests {
		t.Run(tt.lit, func(t *testing.T) {
			v := Number(tt.lit)
			if got := v.Literal(); got != tt.literal {
				t.Errorf("Number(%q).Literal() = %q, want %q", tt.lit, got, tt.literal)
			}
			data, err := json.Marshal(v)
			if err != nil {
				t.Fatalf("json.Marshal: %v", err)
			}
			if string(data) != tt.json {
				t.Errorf("Number(%q) marshals to %s, want %s", tt.lit, data, tt.json)
			}
		})
	}
}

func TestIndentJSONAlwaysValid(t *testing.T) {
	v := Mapping(
		Member{Key: "hex", Value: Number("0x1F")},
		Member{Key: "word", Value: Number("NaN-ish")},
	)
	if out := v.IndentJSON(); !json.Valid(out) {
		t.Errorf("IndentJSON produced invalid JSON:\n%s", out)
	}
}
