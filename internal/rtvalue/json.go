package rtvalue

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/jactl-lang/jactl/internal/jtype"
)

// ToJSON converts a Value to its encoding/json-compatible Go form, used
// both by the `toJson()` builtin and by internal/classgen's write-json
// method bodies (§4.E).
func ToJSON(v Value) (interface{}, error) {
	switch v.Kind {
	case KindNull:
		return nil, nil
	case KindBoolean:
		return v.Num != 0, nil
	case KindByte, KindInt, KindLong:
		return v.Num, nil
	case KindDouble:
		return v.F, nil
	case KindDecimal:
		d, _ := v.Ref.(*big.Float)
		if d == nil {
			return json.Number("0"), nil
		}
		return json.Number(d.Text('f', -1)), nil
	case KindString:
		return v.AsString(), nil
	case KindList:
		l, _ := v.Ref.(*List)
		out := make([]interface{}, len(l.Elems))
		for i, e := range l.Elems {
			jv, err := ToJSON(e)
			if err != nil {
				return nil, err
			}
			out[i] = jv
		}
		return out, nil
	case KindMap:
		m, _ := v.Ref.(*Map)
		out := map[string]interface{}{}
		for _, k := range m.Keys {
			val, _ := m.Get(k)
			jv, err := ToJSON(val)
			if err != nil {
				return nil, err
			}
			out[k.String()] = jv
		}
		return out, nil
	case KindInstance:
		inst, _ := v.Ref.(*Instance)
		if inst == nil {
			return nil, fmt.Errorf("rtvalue.ToJSON: nil instance")
		}
		out := map[string]interface{}{}
		for idx, name := range inst.Class.AllFieldNames() {
			jv, err := ToJSON(inst.Fields[idx])
			if err != nil {
				return nil, err
			}
			out[name] = jv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("rtvalue.ToJSON: %s is not JSON-representable", v.Kind)
	}
}

// MarshalJSON serialises v the way `def s = x.toJson()` should: a plain
// encoding/json.Marshal over the ToJSON tree.
func MarshalJSON(v Value) ([]byte, error) {
	tree, err := ToJSON(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(tree)
}

// UnmarshalInstance decodes data (a JSON object) into a fresh Instance
// of class, the read-json half of internal/classgen's write-json/
// read-json pair (§4.E). Unknown keys in data are ignored; fields
// absent from data keep their zero Value.
func UnmarshalInstance(class *jtype.ClassDescriptor, data []byte) (Value, error) {
	var tree map[string]interface{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return Value{}, fmt.Errorf("rtvalue.UnmarshalInstance: %w", err)
	}
	inst := NewInstance(class)
	for idx, name := range class.AllFieldNames() {
		if raw, ok := tree[name]; ok {
			inst.Fields[idx] = FromJSON(raw)
		}
	}
	return Value{Kind: KindInstance, Ref: inst}, nil
}

// FromJSON converts a decoded encoding/json tree (the result of
// json.Unmarshal into interface{}) back into a Value, the runtime half
// of the `fromJson()` builtin.
func FromJSON(tree interface{}) Value {
	switch t := tree.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case float64:
		if t == float64(int64(t)) {
			return Long(int64(t))
		}
		return Double(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Long(i)
		}
		f, _ := t.Float64()
		return Double(f)
	case string:
		return Str(t)
	case []interface{}:
		elems := make([]Value, len(t))
		for i, e := range t {
			elems[i] = FromJSON(e)
		}
		return Value{Kind: KindList, Ref: &List{Elems: elems}}
	case map[string]interface{}:
		m := NewMap()
		for k, val := range t {
			m.Set(Str(k), FromJSON(val))
		}
		return Value{Kind: KindMap, Ref: m}
	default:
		return Null()
	}
}
