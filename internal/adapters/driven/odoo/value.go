package odoo

import (
	"encoding/xml"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which arm of the XML-RPC value union a Value holds.
type Kind int

const (
	KindNil Kind = iota
	KindString
	KindInt
	KindDouble
	KindBool
	KindArray
	KindStruct
)

// Value is a tagged union over the XML-RPC value types.
// Exactly one arm is meaningful, selected by Kind.
type Value struct {
	Kind    Kind
	Str     string
	Int     int64
	Double  float64
	Bool    bool
	List    []Value
	Members []Member
}

// Member is one name/value pair of a struct value.
type Member struct {
	Name  string
	Value Value
}

// Nil is the nil value singleton.
var Nil = Value{Kind: KindNil}

// FromGo encodes a native Go value as an XML-RPC value. It is total:
// unrepresentable inputs encode as nil rather than failing, so passing a
// closure or channel is a caller bug that surfaces as <nil/> on the wire.
// Integral floats encode as int, matching how the ERP distinguishes the two.
func FromGo(v any) Value {
	switch t := v.(type) {
	case nil:
		return Nil
	case Value:
		return t
	case string:
		return Value{Kind: KindString, Str: t}
	case bool:
		return Value{Kind: KindBool, Bool: t}
	case int:
		return Value{Kind: KindInt, Int: int64(t)}
	case int32:
		return Value{Kind: KindInt, Int: int64(t)}
	case int64:
		return Value{Kind: KindInt, Int: t}
	case float32:
		return FromGo(float64(t))
	case float64:
		if t == float64(int64(t)) {
			return Value{Kind: KindInt, Int: int64(t)}
		}
		return Value{Kind: KindDouble, Double: t}
	case []any:
		list := make([]Value, 0, len(t))
		for _, elem := range t {
			list = append(list, FromGo(elem))
		}
		return Value{Kind: KindArray, List: list}
	case []string:
		list := make([]Value, 0, len(t))
		for _, elem := range t {
			list = append(list, FromGo(elem))
		}
		return Value{Kind: KindArray, List: list}
	case []int64:
		list := make([]Value, 0, len(t))
		for _, elem := range t {
			list = append(list, FromGo(elem))
		}
		return Value{Kind: KindArray, List: list}
	case map[string]any:
		// Go maps carry no insertion order; sort keys so envelopes are
		// deterministic. Member order is not significant on decode.
		names := make([]string, 0, len(t))
		for name := range t {
			names = append(names, name)
		}
		sort.Strings(names)
		members := make([]Member, 0, len(names))
		for _, name := range names {
			members = append(members, Member{Name: name, Value: FromGo(t[name])})
		}
		return Value{Kind: KindStruct, Members: members}
	default:
		return Nil
	}
}

// Interface decodes a Value back to its native Go representation:
// string, int64, float64, bool, []any, map[string]any or nil.
func (v Value) Interface() any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return v.Int
	case KindDouble:
		return v.Double
	case KindBool:
		return v.Bool
	case KindArray:
		list := make([]any, 0, len(v.List))
		for _, elem := range v.List {
			list = append(list, elem.Interface())
		}
		return list
	case KindStruct:
		m := make(map[string]any, len(v.Members))
		for _, member := range v.Members {
			m[member.Name] = member.Value.Interface()
		}
		return m
	default:
		return nil
	}
}

// Member returns the named struct member and whether it exists.
func (v Value) Member(name string) (Value, bool) {
	for _, m := range v.Members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return Nil, false
}

// MarshalXML writes the value as a <value> element with the tag matching
// its kind. Booleans are written as 0/1 per the XML-RPC spec.
func (v Value) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name.Local = "value"
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := v.encodeBody(e); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

func (v Value) encodeBody(e *xml.Encoder) error {
	switch v.Kind {
	case KindString:
		return encodeSimple(e, "string", v.Str)
	case KindInt:
		return encodeSimple(e, "int", strconv.FormatInt(v.Int, 10))
	case KindDouble:
		return encodeSimple(e, "double", strconv.FormatFloat(v.Double, 'f', -1, 64))
	case KindBool:
		body := "0"
		if v.Bool {
			body = "1"
		}
		return encodeSimple(e, "boolean", body)
	case KindArray:
		arr := xml.StartElement{Name: xml.Name{Local: "array"}}
		data := xml.StartElement{Name: xml.Name{Local: "data"}}
		if err := e.EncodeToken(arr); err != nil {
			return err
		}
		if err := e.EncodeToken(data); err != nil {
			return err
		}
		for _, elem := range v.List {
			if err := e.Encode(elem); err != nil {
				return err
			}
		}
		if err := e.EncodeToken(data.End()); err != nil {
			return err
		}
		return e.EncodeToken(arr.End())
	case KindStruct:
		st := xml.StartElement{Name: xml.Name{Local: "struct"}}
		if err := e.EncodeToken(st); err != nil {
			return err
		}
		for _, member := range v.Members {
			mem := xml.StartElement{Name: xml.Name{Local: "member"}}
			if err := e.EncodeToken(mem); err != nil {
				return err
			}
			if err := encodeSimple(e, "name", member.Name); err != nil {
				return err
			}
			if err := e.Encode(member.Value); err != nil {
				return err
			}
			if err := e.EncodeToken(mem.End()); err != nil {
				return err
			}
		}
		return e.EncodeToken(st.End())
	default:
		nilElem := xml.StartElement{Name: xml.Name{Local: "nil"}}
		if err := e.EncodeToken(nilElem); err != nil {
			return err
		}
		return e.EncodeToken(nilElem.End())
	}
}

func encodeSimple(e *xml.Encoder, tag, body string) error {
	start := xml.StartElement{Name: xml.Name{Local: tag}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := e.EncodeToken(xml.CharData(body)); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

// UnmarshalXML reads a <value> element. A value with none of the recognized
// type tags decodes to nil, and a value with bare character data and no child
// element decodes to a string, both per the XML-RPC convention. Unexpected
// tags never fail the decode; servers occasionally return surprises.
func (v *Value) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	*v = Nil
	var text strings.Builder
	sawChild := false

	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			sawChild = true
			if err := v.decodeTag(d, t); err != nil {
				return err
			}
		case xml.EndElement:
			if !sawChild {
				// Bare text inside <value> is an untagged string.
				if s := text.String(); strings.TrimSpace(s) != "" {
					*v = Value{Kind: KindString, Str: s}
				}
			}
			return nil
		}
	}
}

func (v *Value) decodeTag(d *xml.Decoder, start xml.StartElement) error {
	switch start.Name.Local {
	case "string":
		var s string
		if err := d.DecodeElement(&s, &start); err != nil {
			return err
		}
		*v = Value{Kind: KindString, Str: s}
	case "int", "i4", "i8":
		var s string
		if err := d.DecodeElement(&s, &start); err != nil {
			return err
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return err
		}
		*v = Value{Kind: KindInt, Int: n}
	case "double":
		var s string
		if err := d.DecodeElement(&s, &start); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return err
		}
		*v = Value{Kind: KindDouble, Double: f}
	case "boolean":
		var s string
		if err := d.DecodeElement(&s, &start); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		*v = Value{Kind: KindBool, Bool: s == "1" || s == "true"}
	case "nil":
		if err := d.Skip(); err != nil {
			return err
		}
		*v = Nil
	case "array":
		var arr struct {
			Values []Value `xml:"data>value"`
		}
		if err := d.DecodeElement(&arr, &start); err != nil {
			return err
		}
		list := arr.Values
		if list == nil {
			list = []Value{}
		}
		*v = Value{Kind: KindArray, List: list}
	case "struct":
		var st struct {
			Members []struct {
				Name  string `xml:"name"`
				Value Value  `xml:"value"`
			} `xml:"member"`
		}
		if err := d.DecodeElement(&st, &start); err != nil {
			return err
		}
		members := make([]Member, 0, len(st.Members))
		for _, m := range st.Members {
			members = append(members, Member{Name: m.Name, Value: m.Value})
		}
		*v = Value{Kind: KindStruct, Members: members}
	default:
		// Unknown tag: tolerate and decode as nil
		if err := d.Skip(); err != nil {
			return err
		}
		*v = Nil
	}
	return nil
}
