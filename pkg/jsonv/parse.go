package jsonv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"

	"github.com/tidwall/jsonc"
)

// Parse decodes a single JSON document into a Value, keeping object key
// order. Comments and trailing commas (JSONC) are accepted.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()
	v, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("jsonv: trailing data after top-level value")
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("jsonv: %w", err)
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			arr := Array{}
			for dec.More() {
				el, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, el)
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("jsonv: %w", err)
			}
			return arr, nil
		case '{':
			var b ObjectBuilder
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("jsonv: %w", err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("jsonv: object key is %T, not string", keyTok)
				}
				el, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				b.Set(key, el)
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("jsonv: %w", err)
			}
			return b.Object(), nil
		}
		return nil, fmt.Errorf("jsonv: unexpected delimiter %q", t)
	case json.Number:
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("jsonv: number %q: %w", t, err)
		}
		return Number(f), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	}
	return nil, fmt.Errorf("jsonv: unexpected token %v", tok)
}

// FromAny converts a tree of Go values (as produced by encoding/json,
// yaml.v3 or cbor decoding into any) into a Value. Map keys are sorted since
// Go maps carry no order. Unsupported types yield an error.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("jsonv: number %q: %w", t, err)
		}
		return Number(f), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case []any:
		arr := make(Array, 0, len(t))
		for _, el := range t {
			v, err := FromAny(el)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b ObjectBuilder
		for _, k := range keys {
			v, err := FromAny(t[k])
			if err != nil {
				return nil, err
			}
			b.Set(k, v)
		}
		return b.Object(), nil
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return Number(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return Number(float64(rv.Uint())), nil
	}
	return nil, fmt.Errorf("jsonv: unsupported type %T", x)
}

// ToAny converts v into plain Go values: nil, bool, float64 (or int64 for
// integral numbers), string, []any and map[string]any. Object key order is lost.
func ToAny(v Value) any {
	switch x := v.(type) {
	case Bool:
		return bool(x)
	case Number:
		f := float64(x)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}
		return f
	case String:
		return string(x)
	case Array:
		out := make([]any, len(x))
		for i, el := range x {
			out[i] = ToAny(el)
		}
		return out
	case Object:
		out := make(map[string]any, x.Len())
		for _, m := range x.members {
			out[m.Key] = ToAny(m.Value)
		}
		return out
	}
	return nil
}
