package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeJSON reads a value from its JSON form. JSON maps directly onto
// the value universe, with two extensions: an object of the shape
// {"$tuple": [...]} decodes as a tuple, and {"$builtin": "name"} as a
// builtin function reference (with an optional "type" key for
// constructors). Object key order is preserved.
func DecodeJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return None{}, nil
	case bool:
		return Bool(t), nil
	case string:
		return Str(t), nil
	case json.Number:
		if !strings.ContainsAny(t.String(), ".eE") {
			i, err := t.Int64()
			if err != nil {
				return nil, err
			}
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return Float(f), nil
	case json.Delim:
		switch t {
		case '[':
			var xs List
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				xs = append(xs, v)
			}
			if _, err := dec.Token(); err != nil { // closing ]
				return nil, err
			}
			if xs == nil {
				xs = List{}
			}
			return xs, nil
		case '{':
			return decodeObject(dec)
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder) (Value, error) {
	var d Dict
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", keyTok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		d = append(d, DictEntry{Key: Str(key), Value: v})
	}
	if _, err := dec.Token(); err != nil { // closing }
		return nil, err
	}
	if special, ok, err := decodeSpecial(d); ok || err != nil {
		return special, err
	}
	if d == nil {
		d = Dict{}
	}
	return d, nil
}

func decodeSpecial(d Dict) (Value, bool, error) {
	if len(d) == 0 {
		return nil, false, nil
	}
	head, ok := d[0].Key.(Str)
	if !ok || !strings.HasPrefix(string(head), "$") {
		return nil, false, nil
	}
	switch string(head) {
	case "$tuple":
		if len(d) != 1 {
			return nil, false, fmt.Errorf("$tuple object must have exactly one key")
		}
		xs, ok := d[0].Value.(List)
		if !ok {
			return nil, false, fmt.Errorf("$tuple value must be an array")
		}
		return Tuple(xs), true, nil
	case "$builtin":
		name, ok := d[0].Value.(Str)
		if !ok {
			return nil, false, fmt.Errorf("$builtin value must be a string")
		}
		b := Builtin{Name: string(name)}
		for _, e := range d[1:] {
			if Equal(e.Key, Str("type")) {
				if s, ok := e.Value.(Str); ok {
					b.TypeAttr = string(s)
				}
			}
		}
		return b, true, nil
	default:
		return nil, false, fmt.Errorf("unknown special object key %q", head)
	}
}
