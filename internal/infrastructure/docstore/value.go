package docstore

// Value is the store's tagged wire representation of one field. Exactly one
// member is set. Integers and floats both travel as DoubleValue; the types
// the mappers produce need nothing wider.
type Value struct {
	NullValue    *struct{}   `json:"nullValue,omitempty"`
	StringValue  *string     `json:"stringValue,omitempty"`
	BooleanValue *bool       `json:"booleanValue,omitempty"`
	DoubleValue  *float64    `json:"doubleValue,omitempty"`
	ArrayValue   *ArrayValue `json:"arrayValue,omitempty"`
	MapValue     *MapValue   `json:"mapValue,omitempty"`
}

type ArrayValue struct {
	Values []Value `json:"values"`
}

type MapValue struct {
	Fields map[string]Value `json:"fields"`
}

// document is the request/response envelope for one stored document.
type document struct {
	Fields map[string]Value `json:"fields"`
}

// encodeValue converts a native value into the tagged wire form. It is total
// over everything the mappers emit: nil, string, bool, numbers, []any and
// map[string]any (recursively). Anything else degrades to null rather than
// failing a write.
func encodeValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Value{NullValue: &struct{}{}}
	case string:
		return Value{StringValue: &t}
	case bool:
		return Value{BooleanValue: &t}
	case float64:
		return Value{DoubleValue: &t}
	case float32:
		f := float64(t)
		return Value{DoubleValue: &f}
	case int:
		f := float64(t)
		return Value{DoubleValue: &f}
	case int64:
		f := float64(t)
		return Value{DoubleValue: &f}
	case []any:
		vals := make([]Value, 0, len(t))
		for _, el := range t {
			vals = append(vals, encodeValue(el))
		}
		return Value{ArrayValue: &ArrayValue{Values: vals}}
	case map[string]any:
		return Value{MapValue: &MapValue{Fields: encodeFields(t)}}
	default:
		return Value{NullValue: &struct{}{}}
	}
}

func encodeFields(fields map[string]any) map[string]Value {
	out := make(map[string]Value, len(fields))
	for name, v := range fields {
		out[name] = encodeValue(v)
	}
	return out
}

// decodeValue converts the tagged wire form back to a native value.
func decodeValue(v Value) any {
	switch {
	case v.StringValue != nil:
		return *v.StringValue
	case v.BooleanValue != nil:
		return *v.BooleanValue
	case v.DoubleValue != nil:
		return *v.DoubleValue
	case v.ArrayValue != nil:
		out := make([]any, 0, len(v.ArrayValue.Values))
		for _, el := range v.ArrayValue.Values {
			out = append(out, decodeValue(el))
		}
		return out
	case v.MapValue != nil:
		return decodeFields(v.MapValue.Fields)
	default:
		return nil
	}
}

func decodeFields(fields map[string]Value) map[string]any {
	out := make(map[string]any, len(fields))
	for name, v := range fields {
		out[name] = decodeValue(v)
	}
	return out
}
