// Package envconf fills structs from environment variables.
//
// Fields tagged `env:"NAME"` read NAME; an `envDefault:"..."` tag supplies the
// raw value when NAME is unset, otherwise the variable is required. Untagged
// struct (and pointer-to-struct) fields are loaded recursively. Every missing
// or malformed variable is reported, not just the first.
package envconf

import (
	"encoding"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"
)

var (
	ErrMissingRequired = errors.New("missing required environment variable")
	ErrUnsupportedType = errors.New("unsupported field type")
)

var (
	durationType  = reflect.TypeFor[time.Duration]()
	unmarshalType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Load fills the struct dst points to.
func Load(dst any) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("envconf: destination must be a non-nil pointer to a struct, got %T", dst)
	}

	var errs []error

	walk(v.Elem(), "", &errs)

	return errors.Join(errs...)
}

// walk visits the exported fields of sv, prefixing field paths with path.
func walk(sv reflect.Value, path string, errs *[]error) {
	st := sv.Type()

	for i := range st.NumField() {
		sf := st.Field(i)
		if !sf.IsExported() {
			continue
		}

		fv := sv.Field(i)
		name := path + sf.Name

		tag := sf.Tag.Get("env")
		if tag != "" && tag != "-" {
			*errs = append(*errs, fill(fv, tag, name, sf.Tag))

			continue
		}

		if nested, ok := structOf(fv); ok {
			walk(nested, name+".", errs)
		}
	}
}

// structOf returns the struct behind fv, allocating a nil pointer-to-struct.
func structOf(fv reflect.Value) (reflect.Value, bool) {
	switch {
	case fv.Kind() == reflect.Struct:
		return fv, true
	case fv.Kind() == reflect.Pointer && fv.Type().Elem().Kind() == reflect.Struct:
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}

		return fv.Elem(), true
	default:
		return reflect.Value{}, false
	}
}

// fill resolves one tagged field. An empty variable counts as set.
func fill(fv reflect.Value, env, field string, tag reflect.StructTag) error {
	raw, ok := os.LookupEnv(env)
	if !ok {
		raw, ok = tag.Lookup("envDefault")
	}

	if !ok {
		return fmt.Errorf("%w: %s (field %s)", ErrMissingRequired, env, field)
	}

	err := assign(fv, raw)
	if err != nil {
		return fmt.Errorf("%s (field %s): %w", env, field, err)
	}

	return nil
}

// assign parses raw into fv, allocating through pointers.
func assign(fv reflect.Value, raw string) error {
	if fv.Kind() == reflect.Pointer && !reflect.PointerTo(fv.Type()).Implements(unmarshalType) {
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}

		return assign(fv.Elem(), raw)
	}

	if u, ok := fv.Addr().Interface().(encoding.TextUnmarshaler); ok {
		return u.UnmarshalText([]byte(raw))
	}

	if fv.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}

		fv.SetInt(int64(d))

		return nil
	}

	parse, ok := parsers[fv.Kind()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, fv.Type())
	}

	return parse(fv, raw)
}

// parsers set a value of the keyed kind from its text form.
var parsers = map[reflect.Kind]func(reflect.Value, string) error{
	reflect.String: func(fv reflect.Value, raw string) error {
		fv.SetString(raw)

		return nil
	},
	reflect.Bool: func(fv reflect.Value, raw string) error {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}

		fv.SetBool(b)

		return nil
	},
	reflect.Int:     parseInt,
	reflect.Int8:    parseInt,
	reflect.Int16:   parseInt,
	reflect.Int32:   parseInt,
	reflect.Int64:   parseInt,
	reflect.Uint:    parseUint,
	reflect.Uint8:   parseUint,
	reflect.Uint16:  parseUint,
	reflect.Uint32:  parseUint,
	reflect.Uint64:  parseUint,
	reflect.Float32: parseFloat,
	reflect.Float64: parseFloat,
}

func parseInt(fv reflect.Value, raw string) error {
	n, err := strconv.ParseInt(raw, 10, fv.Type().Bits())
	if err != nil {
		return err
	}

	fv.SetInt(n)

	return nil
}

func parseUint(fv reflect.Value, raw string) error {
	n, err := strconv.ParseUint(raw, 10, fv.Type().Bits())
	if err != nil {
		return err
	}

	fv.SetUint(n)

	return nil
}

func parseFloat(fv reflect.Value, raw string) error {
	f, err := strconv.ParseFloat(raw, fv.Type().Bits())
	if err != nil {
		return err
	}

	fv.SetFloat(f)

	return nil
}
