package odoo

import (
	"encoding/xml"
	"reflect"
	"strings"
	"testing"
)

func TestFromGoRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"string", "hola", "hola"},
		{"empty string", "", ""},
		{"int", 42, int64(42)},
		{"negative int", int64(-7), int64(-7)},
		{"double", 3.14, 3.14},
		{"integral float becomes int", 10.0, int64(10)},
		{"bool true", true, true},
		{"bool false", false, false},
		{"nil", nil, nil},
		{"array", []any{"a", int64(1), true}, []any{"a", int64(1), true}},
		{"empty array", []any{}, []any{}},
		{"string slice", []string{"x", "y"}, []any{"x", "y"}},
		{"struct", map[string]any{"name": "Central", "qty": int64(3)}, map[string]any{"name": "Central", "qty": int64(3)}},
		{"nested", []any{map[string]any{"ids": []any{int64(1), int64(2)}}}, []any{map[string]any{"ids": []any{int64(1), int64(2)}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := xml.Marshal(FromGo(tt.in))
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var decoded Value
			if err := xml.Unmarshal(encoded, &decoded); err != nil {
				t.Fatalf("unmarshal %q: %v", encoded, err)
			}
			got := decoded.Interface()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("round trip = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestValueMarshalBooleanAsDigit(t *testing.T) {
	encoded, err := xml.Marshal(FromGo(true))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(encoded), "<boolean>1</boolean>") {
		t.Errorf("encoded = %s, want boolean written as 1", encoded)
	}
}

func TestValueMarshalStructSortsKeys(t *testing.T) {
	encoded, err := xml.Marshal(FromGo(map[string]any{"z": 1, "a": 2}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(encoded)
	if strings.Index(s, "<name>a</name>") > strings.Index(s, "<name>z</name>") {
		t.Errorf("encoded = %s, want members in sorted key order", s)
	}
}

func TestValueUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want any
	}{
		{"bare chardata is string", "<value>plain</value>", "plain"},
		{"empty value is nil", "<value></value>", nil},
		{"whitespace only is nil", "<value>\n  </value>", nil},
		{"i4 alias", "<value><i4>12</i4></value>", int64(12)},
		{"i8 alias", "<value><i8>9000000000</i8></value>", int64(9000000000)},
		{"boolean true word", "<value><boolean>true</boolean></value>", true},
		{"boolean zero", "<value><boolean>0</boolean></value>", false},
		{"explicit nil", "<value><nil/></value>", nil},
		{"unknown tag tolerated", "<value><dateTime.iso8601>20240101T00:00:00</dateTime.iso8601></value>", nil},
		{
			"struct with members",
			"<value><struct><member><name>amount</name><value><double>1.5</double></value></member></struct></value>",
			map[string]any{"amount": 1.5},
		},
		{
			"array with whitespace",
			"<value>\n  <array>\n    <data>\n      <value><int>1</int></value>\n    </data>\n  </array>\n</value>",
			[]any{int64(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			if err := xml.Unmarshal([]byte(tt.xml), &v); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			got := v.Interface()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decoded = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestValueMember(t *testing.T) {
	v := FromGo(map[string]any{"name": "Norte"})
	if got, ok := v.Member("name"); !ok || got.Str != "Norte" {
		t.Errorf("Member(name) = %#v, %v", got, ok)
	}
	if _, ok := v.Member("missing"); ok {
		t.Error("Member(missing) reported present")
	}
}
