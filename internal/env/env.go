// Package env fills configuration structs from environment variables.
//
// Fields are bound with struct tags:
//
//	Addr    string        `env:"DOLIST_HTTP_ADDR" default:":8080"`
//	Timeout time.Duration `env:"DOLIST_TIMEOUT"`
//
// A variable that is unset takes the default tag, if any. A variable set to
// the empty string is applied as-is. Nested and embedded structs are walked
// recursively and validated bottom-up through Validator.
package env

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Validator is implemented by config structs that need validation.
type Validator interface {
	Validate() error
}

// LookupFunc resolves one variable. It matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ErrInvalidValue is returned when an environment variable value cannot be parsed.
type ErrInvalidValue struct {
	Field  string
	EnvVar string
	Value  string
	Err    error
}

func (e ErrInvalidValue) Error() string {
	return fmt.Sprintf("invalid value for %s=%q (field: %s): %v", e.EnvVar, e.Value, e.Field, e.Err)
}

func (e ErrInvalidValue) Unwrap() error {
	return e.Err
}

// ErrNotStructPointer is returned when Load is called with a non-pointer or non-struct argument.
type ErrNotStructPointer struct {
	Type string
}

func (e ErrNotStructPointer) Error() string {
	return fmt.Sprintf("env: argument must be a pointer to struct, got %s", e.Type)
}

// ErrUnsupportedType is returned when a tagged field has a type no parser handles.
type ErrUnsupportedType struct {
	Kind string
}

func (e ErrUnsupportedType) Error() string {
	return fmt.Sprintf("unsupported type: %s", e.Kind)
}

var (
	durationType = reflect.TypeFor[time.Duration]()
	timeType     = reflect.TypeFor[time.Time]()
)

// Load fills v from the process environment.
func Load(v any) error {
	return LoadFrom(v, os.LookupEnv)
}

// LoadFrom fills v using lookup, then validates v if it implements Validator.
func LoadFrom(v any, lookup LookupFunc) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer{Type: fmt.Sprintf("%T", v)}
	}

	l := loader{lookup: lookup}
	if err := l.fill(rv.Elem()); err != nil {
		return err
	}
	return validate(v)
}

type loader struct {
	lookup LookupFunc
}

func (l loader) fill(section reflect.Value) error {
	for i := range section.NumField() {
		field := section.Field(i)
		meta := section.Type().Field(i)
		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct && field.Type() != timeType {
			if err := l.fill(field); err != nil {
				return err
			}
			if err := validate(field.Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key, ok := meta.Tag.Lookup("env")
		if !ok || key == "" {
			continue
		}

		raw, ok := l.lookup(key)
		if !ok {
			if raw, ok = meta.Tag.Lookup("default"); !ok {
				continue
			}
		}

		if err := assign(field, raw); err != nil {
			return ErrInvalidValue{Field: meta.Name, EnvVar: key, Value: raw, Err: err}
		}
	}
	return nil
}

func validate(v any) error {
	if validator, ok := v.(Validator); ok {
		return validator.Validate()
	}
	return nil
}

// assign parses raw into field according to its type.
func assign(field reflect.Value, raw string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)

	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return ErrUnsupportedType{Kind: "[]" + field.Type().Elem().Kind().String()}
		}
		field.Set(reflect.ValueOf(splitList(raw)))

	default:
		return ErrUnsupportedType{Kind: field.Kind().String()}
	}
	return nil
}

// splitList splits a comma-separated list, dropping blank items.
func splitList(raw string) []string {
	var items []string
	for item := range strings.SplitSeq(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
