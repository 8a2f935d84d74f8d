package handlers

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// DecodeArgs populates target, a pointer to a struct with `cty` field tags,
// from an object of arguments. Fields keep their current values when the
// corresponding argument is absent, so callers set defaults before decoding.
// Arguments with no matching field are rejected.
func DecodeArgs(args cty.Value, target any) error {
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Pointer || ptr.IsNil() || ptr.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode target must be a non-nil pointer to a struct, got %T", target)
	}

	impliedType, err := gocty.ImpliedType(ptr.Elem().Interface())
	if err != nil {
		return fmt.Errorf("unable to infer argument schema for %T: %w", target, err)
	}
	defaults, err := gocty.ToCtyValue(ptr.Elem().Interface(), impliedType)
	if err != nil {
		return fmt.Errorf("unable to read defaults from %T: %w", target, err)
	}

	attrs := defaults.AsValueMap()
	if attrs == nil {
		attrs = make(map[string]cty.Value)
	}

	if args.Type() != cty.NilType && !args.IsNull() && args.IsKnown() {
		if !args.Type().IsObjectType() && !args.Type().IsMapType() {
			return fmt.Errorf("arguments must be an object, got %s", args.Type().FriendlyName())
		}
		attrTypes := impliedType.AttributeTypes()
		for it := args.ElementIterator(); it.Next(); {
			k, v := it.Element()
			name := k.AsString()
			want, ok := attrTypes[name]
			if !ok {
				return fmt.Errorf("unsupported argument '%s'", name)
			}
			converted, err := convert.Convert(v, want)
			if err != nil {
				return fmt.Errorf("argument '%s': cannot convert %s to %s: %w",
					name, v.Type().FriendlyName(), want.FriendlyName(), err)
			}
			attrs[name] = converted
		}
	}

	if err := gocty.FromCtyValue(cty.ObjectVal(attrs), target); err != nil {
		return fmt.Errorf("failed to decode arguments: %w", err)
	}
	return nil
}

// ToGo converts a cty.Value into plain Go values: strings, bools, int64 or
// float64 numbers, []any and map[string]any. Null and unknown values become nil.
func ToGo(val cty.Value) (any, error) {
	if val.Type() == cty.NilType || !val.IsKnown() || val.IsNull() {
		return nil, nil
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			converted, err := ToGo(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = converted
		}
		return out, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			converted, err := ToGo(v)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported cty.Type for conversion: %s", ty.FriendlyName())
}
