package message

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind discriminates the variants of Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
	KindClass
)

// classKey and fieldsKey mark a hinted object on the wire. A hinted object
// is an Object value tagged with the name of the application-level class it
// represents, so a client that understands that class can reconstruct a
// richer type instead of a bare map.
const (
	classKey  = "__class"
	fieldsKey = "__fields"
)

// Value is a dynamically typed tree, the currency of Request parameters and
// Result payloads. It distinguishes a plain Object from a Class (a hinted
// object carrying its class name alongside its fields), which a plain
// encoding/json tree cannot.
type Value struct {
	kind      Kind
	boolVal   bool
	intVal    int64
	floatVal  float64
	strVal    string
	arrayVal  []Value
	objectVal map[string]Value
	className string
}

// Null is the Value representing JSON null.
var Null = Value{kind: KindNull}

func Bool(b bool) Value     { return Value{kind: KindBool, boolVal: b} }
func Int(i int64) Value     { return Value{kind: KindInt, intVal: i} }
func Float(f float64) Value { return Value{kind: KindFloat, floatVal: f} }
func String(s string) Value { return Value{kind: KindString, strVal: s} }

func Array(items ...Value) Value {
	return Value{kind: KindArray, arrayVal: items}
}

func Object(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: KindObject, objectVal: fields}
}

// Class builds a hinted object: an Object tagged with an application class
// name, the wire equivalent of a language-native object instance.
func Class(name string, fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: KindClass, className: name, objectVal: fields}
}

func (v Value) Kind() Kind           { return v.kind }
func (v Value) IsNull() bool         { return v.kind == KindNull }
func (v Value) Bool() bool           { return v.boolVal }
func (v Value) Int() int64           { return v.intVal }
func (v Value) Float() float64       { return v.floatVal }
func (v Value) String() string       { return v.strVal }
func (v Value) Array() []Value       { return v.arrayVal }
func (v Value) Object() map[string]Value { return v.objectVal }
func (v Value) ClassName() string    { return v.className }

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.boolVal)
	case KindInt:
		return json.Marshal(v.intVal)
	case KindFloat:
		return json.Marshal(v.floatVal)
	case KindString:
		return json.Marshal(v.strVal)
	case KindArray:
		return json.Marshal(v.arrayVal)
	case KindObject:
		return json.Marshal(v.objectVal)
	case KindClass:
		return json.Marshal(map[string]any{
			classKey:  v.className,
			fieldsKey: v.objectVal,
		})
	default:
		return nil, fmt.Errorf("%w: kind %d", ErrUnknownValueKind, v.kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	parsed, err := fromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func fromAny(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null, nil
	case bool:
		return Bool(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case string:
		return String(t), nil
	case []any:
		items := make([]Value, len(t))
		for i, elem := range t {
			parsed, err := fromAny(elem)
			if err != nil {
				return Value{}, err
			}
			items[i] = parsed
		}
		return Array(items...), nil
	case map[string]any:
		if name, ok := t[classKey].(string); ok {
			fieldsRaw, _ := t[fieldsKey].(map[string]any)
			fields := map[string]Value{}
			for k, fv := range fieldsRaw {
				parsed, err := fromAny(fv)
				if err != nil {
					return Value{}, err
				}
				fields[k] = parsed
			}
			return Class(name, fields), nil
		}

		fields := make(map[string]Value, len(t))
		for k, fv := range t {
			parsed, err := fromAny(fv)
			if err != nil {
				return Value{}, err
			}
			fields[k] = parsed
		}
		return Object(fields), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnknownValueKind, raw)
	}
}
