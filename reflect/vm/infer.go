package vm

import (
	"math/big"
	"reflect"
	"regexp"
	"time"

	"github.com/mna/reflectype/reflect/helpers"
	"github.com/mna/reflectype/reflect/host"
	"github.com/mna/reflectype/reflect/infer"
	"github.com/mna/reflectype/reflect/types"
)

// inferValue synthesizes a Type graph for an arbitrary runtime value.
// A bare scalar at the root resolves to its literal type (preserving the
// exact value, the way a `typeof constVar` read does for a const binding),
// but a scalar read out of a container or field is widened to its base
// kind by inferContainer/inferFielder, mirroring the `typeof(value[key]);
// widen` sequence a plain-object/array typeof does. host.Value artefacts
// with an attached program are reflected recursively through the same
// session (sharing its step/call-depth/in-flight bookkeeping); everything
// else falls back to Go's reflect package, with infer.Container/Fielder
// giving a host type a say in how its own shape is read.
func (s *session) inferValue(v any) (*types.Type, error) {
	if v == nil {
		return types.New(types.KindUndefined), nil
	}

	switch val := v.(type) {
	case bool:
		return literalOf(val), nil
	case string:
		return literalOf(val), nil
	case float64:
		return literalOf(val), nil
	case float32:
		return literalOf(float64(val)), nil
	case int:
		return literalOf(float64(val)), nil
	case int64:
		return literalOf(float64(val)), nil
	case *big.Int:
		return literalOf(val), nil
	case *regexp.Regexp:
		return types.New(types.KindRegexp), nil
	case time.Time:
		return types.New(types.KindDate), nil
	}

	if hv, ok := v.(host.Value); ok {
		return s.inferHostValue(hv)
	}
	if c, ok := v.(infer.Container); ok {
		return s.inferContainer(c)
	}
	if f, ok := v.(infer.Fielder); ok {
		return s.inferFielder(f.Fields())
	}

	return s.inferReflect(reflect.ValueOf(v))
}

func literalOf(payload any) *types.Type {
	t := types.New(types.KindLiteral)
	t.Literal = payload
	return t
}

func (s *session) inferHostValue(hv host.Value) (*types.Type, error) {
	packed, ok := hv.Program()
	if !ok || packed == nil {
		fn := types.New(types.KindFunction)
		fn.Name = hv.Name()
		fn.Return = types.New(types.KindUnknown)
		return fn, nil
	}
	return s.reflectPacked(packed, nil, hv)
}

// inferContainer infers each element and unions their widened base kinds
// (e.g. [1, 2] infers as array(number), not array(literal 1 | literal 2)).
func (s *session) inferContainer(c infer.Container) (*types.Type, error) {
	n := c.Len()
	elems := make([]*types.Type, 0, n)
	for i := 0; i < n; i++ {
		et, err := s.inferValue(c.Index(i))
		if err != nil {
			return nil, err
		}
		elems = append(elems, helpers.WidenLiteral(et))
	}
	t := types.New(types.KindArray)
	if len(elems) == 0 {
		t.Elem = types.New(types.KindUnknown)
	} else {
		t.Elem = helpers.NormalizeUnion(elems)
	}
	types.Adopt(t, t.Elem)
	return t, nil
}

// inferFielder infers each field's widened base kind (e.g. {x: 1} infers
// as objectLiteral{x: number}, not objectLiteral{x: literal 1}).
func (s *session) inferFielder(fields []infer.Field) (*types.Type, error) {
	members := make([]*types.Type, 0, len(fields))
	for _, f := range fields {
		ft, err := s.inferValue(f.Value)
		if err != nil {
			return nil, err
		}
		ft = helpers.WidenLiteral(ft)
		m := types.New(types.KindPropertySignature)
		m.Name = f.Name
		m.Elem = ft
		types.Adopt(m, ft)
		members = append(members, m)
	}
	t := types.New(types.KindObjectLiteral)
	t.Members = members
	types.AdoptAll(t, members)
	return t, nil
}

// inferReflect is the Go-reflection fallback for values that implement
// none of the narrow inference interfaces: slices/arrays as containers,
// maps/structs as field-bearing objects, pointers by dereferencing.
func (s *session) inferReflect(rv reflect.Value) (*types.Type, error) {
	if !rv.IsValid() {
		return types.New(types.KindUndefined), nil
	}
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return types.New(types.KindNull), nil
		}
		return s.inferReflect(rv.Elem())

	case reflect.Slice, reflect.Array:
		n := rv.Len()
		elems := make([]*types.Type, 0, n)
		for i := 0; i < n; i++ {
			et, err := s.inferValue(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			elems = append(elems, helpers.WidenLiteral(et))
		}
		t := types.New(types.KindArray)
		if len(elems) == 0 {
			t.Elem = types.New(types.KindUnknown)
		} else {
			t.Elem = helpers.NormalizeUnion(elems)
		}
		types.Adopt(t, t.Elem)
		return t, nil

	case reflect.Map:
		var fields []infer.Field
		iter := rv.MapRange()
		for iter.Next() {
			fields = append(fields, infer.Field{
				Name:  reflectMapKeyName(iter.Key()),
				Value: iter.Value().Interface(),
			})
		}
		return s.inferFielder(fields)

	case reflect.Struct:
		rt := rv.Type()
		var fields []infer.Field
		for i := 0; i < rt.NumField(); i++ {
			sf := rt.Field(i)
			if sf.PkgPath != "" {
				continue // unexported
			}
			fields = append(fields, infer.Field{Name: sf.Name, Value: rv.Field(i).Interface()})
		}
		return s.inferFielder(fields)

	case reflect.Bool:
		return literalOf(rv.Bool()), nil
	case reflect.String:
		return literalOf(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return literalOf(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return literalOf(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return literalOf(rv.Float()), nil
	case reflect.Func:
		fn := types.New(types.KindFunction)
		fn.Return = types.New(types.KindUnknown)
		return fn, nil

	default:
		return types.New(types.KindUnknown), nil
	}
}

func reflectMapKeyName(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return ""
}
