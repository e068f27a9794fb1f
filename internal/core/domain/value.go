package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"sort"
	"unicode/utf8"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindNull is the zero Value.
	KindNull Kind = iota
	// KindBool holds a boolean.
	KindBool
	// KindNumber holds a finite float64.
	KindNumber
	// KindString holds a string.
	KindString
	// KindArray holds an ordered list of Values.
	KindArray
	// KindMap holds string-keyed Values.
	KindMap
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is an immutable JSON-shaped tree. Generator configurations and the artifacts
// they produce are both carried as Values so that hashing and serialization do not
// depend on any concrete Go type.
//
// The zero Value is null.
type Value struct {
	kind   Kind
	b      bool
	n      float64
	s      string
	items  []Value
	fields map[string]Value
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric Value. NaN and infinities have no JSON form and become null;
// negative zero is stored as zero.
func Number(n float64) Value {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Null()
	}
	if n == 0 {
		n = 0
	}
	return Value{kind: KindNumber, n: n}
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns an array Value holding a copy of items.
func Array(items ...Value) Value {
	if len(items) == 0 {
		return Value{kind: KindArray}
	}
	return Value{kind: KindArray, items: slices.Clone(items)}
}

// Map returns a map Value holding a copy of fields.
func Map(fields map[string]Value) Value {
	copied := make(map[string]Value, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return Value{kind: KindMap, fields: copied}
}

// FromAny converts JSON-shaped Go data into a Value. Maps, slices, numbers, strings,
// booleans and nil are converted directly; any other type goes through encoding/json
// and becomes null if it cannot be represented.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int8:
		return Number(float64(t))
	case int16:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint8:
		return Number(float64(t))
	case uint16:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Null()
		}
		return Number(f)
	case []Value:
		return Array(t...)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromAny(item)
		}
		return Array(items...)
	case map[string]Value:
		return Map(t)
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, item := range t {
			fields[k] = FromAny(item)
		}
		return Value{kind: KindMap, fields: fields}
	}

	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return Null()
	}

	data, err := json.Marshal(v)
	if err != nil {
		return Null()
	}
	var out Value
	if err := json.Unmarshal(data, &out); err != nil {
		return Null()
	}
	return out
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number held by v.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// Len returns the number of items of an array or fields of a map, and zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindMap:
		return len(v.fields)
	default:
		return 0
	}
}

// Items returns a copy of the items of an array Value.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return slices.Clone(v.items)
}

// Get returns the field stored under key in a map Value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Null(), false
	}
	field, ok := v.fields[key]
	return field, ok
}

// Keys returns the sorted field names of a map Value.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(v.fields))
	for k := range v.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Without returns a copy of a map Value with the given top-level fields removed.
// Non-map Values are returned unchanged.
func (v Value) Without(keys ...string) Value {
	if v.kind != KindMap {
		return v
	}
	fields := make(map[string]Value, len(v.fields))
	for k, field := range v.fields {
		if !slices.Contains(keys, k) {
			fields[k] = field
		}
	}
	return Value{kind: KindMap, fields: fields}
}

// Equal reports whether v and other hold structurally identical trees.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	case KindArray:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.fields) != len(other.fields) {
			return false
		}
		for k, field := range v.fields {
			otherField, ok := other.fields[k]
			if !ok || !field.Equal(otherField) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ToAny converts v back into plain Go data (map[string]any, []any, float64, string, bool, nil).
func (v Value) ToAny() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.ToAny()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.fields))
		for k, field := range v.fields {
			out[k] = field.ToAny()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON writes the canonical JSON form of v: map keys in lexicographic order,
// array items in their original order, no insignificant whitespace.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		data, err := json.Marshal(v.n)
		if err != nil {
			return err
		}
		buf.Write(data)
	case KindString:
		if err := writeString(buf, v.s); err != nil {
			return err
		}
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := v.fields[k].writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// writeString quotes s as a JSON string. Bytes that are not valid UTF-8 are written as
// \u0080 to \u00ff escapes, which encoding/json never emits for valid text, so distinct
// strings always produce distinct output.
func writeString(buf *bytes.Buffer, s string) error {
	if utf8.ValidString(s) {
		data, err := json.Marshal(s)
		if err != nil {
			return err
		}
		buf.Write(data)
		return nil
	}

	buf.WriteByte('"')
	for len(s) > 0 {
		if r, size := utf8.DecodeRuneInString(s); r == utf8.RuneError && size == 1 {
			_, _ = fmt.Fprintf(buf, `\u%04x`, s[0])
			s = s[1:]
			continue
		}
		end := 0
		for end < len(s) {
			r, size := utf8.DecodeRuneInString(s[end:])
			if r == utf8.RuneError && size == 1 {
				break
			}
			end += size
		}
		data, err := json.Marshal(s[:end])
		if err != nil {
			return err
		}
		buf.Write(data[1 : len(data)-1])
		s = s[end:]
	}
	buf.WriteByte('"')
	return nil
}

// UnmarshalJSON parses any JSON document into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}
