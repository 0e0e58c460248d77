package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The interchange form used with the host interpreter:
//
//	node      {"_type": T, "fields": [[name, value]...], "attributes": [[name, value]...]}
//	int       {"_int": "123"}
//	tuple     {"_tuple": [...]}
//	opaque    {"_repr": "1.5", "_kind": "float"}
//	list      [...]
//	str, bool JSON string, JSON bool
//	None      null

// Encode returns the interchange form of v.
func Encode(v Value) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v Value) error {
	switch v := v.(type) {
	case *Node:
		buf.WriteString(`{"_type":`)
		writeJSON(buf, v.Type)
		buf.WriteString(`,"fields":`)
		if err := encodeFields(buf, v.Fields); err != nil {
			return err
		}
		if len(v.Attributes) > 0 {
			buf.WriteString(`,"attributes":`)
			if err := encodeFields(buf, v.Attributes); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case List:
		return encodeSeq(buf, v)
	case Tuple:
		buf.WriteString(`{"_tuple":`)
		if err := encodeSeq(buf, v); err != nil {
			return err
		}
		buf.WriteByte('}')
	case Str:
		writeJSON(buf, string(v))
	case Int:
		buf.WriteString(`{"_int":`)
		writeJSON(buf, string(v))
		buf.WriteByte('}')
	case Bool:
		writeJSON(buf, bool(v))
	case None, nil:
		buf.WriteString("null")
	case Opaque:
		buf.WriteString(`{"_repr":`)
		writeJSON(buf, v.Repr)
		buf.WriteString(`,"_kind":`)
		writeJSON(buf, v.Kind)
		buf.WriteByte('}')
	default:
		return fmt.Errorf("tree: cannot encode %T", v)
	}
	return nil
}

func encodeFields(buf *bytes.Buffer, fields []Field) error {
	buf.WriteByte('[')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('[')
		writeJSON(buf, f.Name)
		buf.WriteByte(',')
		if err := encode(buf, f.Value); err != nil {
			return err
		}
		buf.WriteByte(']')
	}
	buf.WriteByte(']')
	return nil
}

func encodeSeq(buf *bytes.Buffer, elems []Value) error {
	buf.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encode(buf, e); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeJSON(buf *bytes.Buffer, v any) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
	// Encoder terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
}

// Decode parses the interchange form produced by Encode or the host.
func Decode(data []byte) (Value, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("tree: decode: %w", err)
	}
	return decodeValue(raw)
}

func decodeValue(raw any) (Value, error) {
	switch r := raw.(type) {
	case nil:
		return None{}, nil
	case bool:
		return Bool(r), nil
	case string:
		return Str(r), nil
	case json.Number:
		return Int(r.String()), nil
	case []any:
		elems, err := decodeSeq(r)
		if err != nil {
			return nil, err
		}
		return List(elems), nil
	case map[string]any:
		return decodeObject(r)
	}
	return nil, fmt.Errorf("tree: decode: unexpected %T", raw)
}

func decodeObject(obj map[string]any) (Value, error) {
	if t, ok := obj["_type"].(string); ok {
		n := &Node{Type: t}
		var err error
		if n.Fields, err = decodeFields(obj["fields"]); err != nil {
			return nil, fmt.Errorf("%s: %w", t, err)
		}
		if n.Attributes, err = decodeFields(obj["attributes"]); err != nil {
			return nil, fmt.Errorf("%s: %w", t, err)
		}
		return n, nil
	}
	if s, ok := obj["_int"].(string); ok {
		return Int(s), nil
	}
	if elems, ok := obj["_tuple"].([]any); ok {
		vals, err := decodeSeq(elems)
		if err != nil {
			return nil, err
		}
		return Tuple(vals), nil
	}
	if r, ok := obj["_repr"].(string); ok {
		kind, _ := obj["_kind"].(string)
		return Opaque{Kind: kind, Repr: r}, nil
	}
	return nil, fmt.Errorf("tree: decode: unrecognised object with %d keys", len(obj))
}

func decodeSeq(raw []any) ([]Value, error) {
	out := make([]Value, 0, len(raw))
	for _, r := range raw {
		v, err := decodeValue(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeFields(raw any) ([]Field, error) {
	if raw == nil {
		return nil, nil
	}
	pairs, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("tree: decode: fields must be a list")
	}
	out := make([]Field, 0, len(pairs))
	for _, p := range pairs {
		pair, ok := p.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("tree: decode: field must be a [name, value] pair")
		}
		name, ok := pair[0].(string)
		if !ok {
			return nil, fmt.Errorf("tree: decode: field name must be a string")
		}
		v, err := decodeValue(pair[1])
		if err != nil {
			return nil, err
		}
		out = append(out, Field{Name: name, Value: v})
	}
	return out, nil
}
