package binder

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// target resolves v to the struct it must point to.
func target(v any, kind error) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: target must be a non-nil pointer", kind)
	}
	if rv = rv.Elem(); rv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: target must point to a struct", kind)
	}
	return rv, nil
}

// bindTagged fills the fields of rv from values. A field's key is its tag
// value, then its json name, then its lowercased Go name. Fields marked
// ",inline" and untagged embedded structs read from the same values.
func bindTagged(rv reflect.Value, tag string, values map[string][]string, kind error) error {
	rt := rv.Type()
	for i := range rt.NumField() {
		sf, dst := rt.Field(i), rv.Field(i)
		if !dst.CanSet() {
			continue
		}
		key, inline, ok := fieldKey(sf, tag)
		switch {
		case !ok:
			continue
		case inline && sf.Type.Kind() == reflect.Struct:
			if err := bindTagged(dst, tag, values, kind); err != nil {
				return err
			}
		case len(values[key]) > 0:
			if err := assign(dst, values[key]); err != nil {
				return fmt.Errorf("%w: field %s: %v", kind, sf.Name, err)
			}
		}
	}
	return nil
}

func fieldKey(sf reflect.StructField, tag string) (key string, inline, ok bool) {
	raw, found := sf.Tag.Lookup(tag)
	if !found {
		raw = sf.Tag.Get("json")
	}
	if raw == "-" {
		return "", false, false
	}
	key, opts, _ := strings.Cut(raw, ",")
	inline = strings.Contains(","+opts+",", ",inline,")
	if key == "" {
		key = strings.ToLower(sf.Name)
		inline = inline || sf.Anonymous
	}
	return key, inline, true
}

// assign stores values in dst. Pointers are allocated, slices take every
// value split on commas, scalars take the first value.
func assign(dst reflect.Value, values []string) error {
	switch dst.Kind() {
	case reflect.Pointer:
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return assign(dst.Elem(), values)
	case reflect.Slice:
		var items []string
		for _, v := range values {
			for _, item := range strings.Split(v, ",") {
				items = append(items, strings.TrimSpace(item))
			}
		}
		out := reflect.MakeSlice(dst.Type(), len(items), len(items))
		for i, item := range items {
			if err := assign(out.Index(i), []string{item}); err != nil {
				return err
			}
		}
		dst.Set(out)
		return nil
	}
	if len(values) == 0 {
		return nil
	}
	return parseScalar(dst, values[0])
}

func parseScalar(dst reflect.Value, raw string) error {
	k := dst.Kind()
	switch {
	case k == reflect.String:
		dst.SetString(raw)
	case k >= reflect.Int && k <= reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, dst.Type().Bits())
		if err != nil {
			return fmt.Errorf("%q is not a valid %s", raw, k)
		}
		dst.SetInt(n)
	case k >= reflect.Uint && k <= reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, dst.Type().Bits())
		if err != nil {
			return fmt.Errorf("%q is not a valid %s", raw, k)
		}
		dst.SetUint(n)
	case k == reflect.Float32 || k == reflect.Float64:
		n, err := strconv.ParseFloat(raw, dst.Type().Bits())
		if err != nil {
			return fmt.Errorf("%q is not a valid %s", raw, k)
		}
		dst.SetFloat(n)
	case k == reflect.Bool:
		b, err := parseBool(raw)
		if err != nil {
			return err
		}
		dst.SetBool(b)
	default:
		return fmt.Errorf("unsupported field kind %s", k)
	}
	return nil
}

// parseBool also accepts the on/off and yes/no values HTML forms send.
func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "on", "yes":
		return true, nil
	case "off", "no", "":
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%q is not a valid bool", raw)
	}
	return b, nil
}
