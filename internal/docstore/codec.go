package docstore

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"
)

// Stored timestamps use a fixed-width fraction so that lexicographic order
// on the raw string matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var timeType = reflect.TypeOf(time.Time{})

// Encode converts a struct into a snake_case field map. Fields tagged
// `doc:"-"` (document ids, which live outside the data) are skipped;
// a `doc:"name"` tag overrides the derived name. time.Time values are
// rendered as fixed-width RFC3339 UTC strings, nil pointers are omitted.
func Encode(v any) (map[string]any, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("cannot encode nil value")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot encode %s, expected struct", rv.Kind())
	}

	out := make(map[string]any, rv.NumField())
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := fieldName(field)
		if name == "" {
			continue
		}

		fv := rv.Field(i)
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}

		encoded, err := encodeValue(fv)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		out[name] = encoded
	}
	return out, nil
}

// Decode fills a struct pointer from a snake_case field map, undoing the
// conversions done by Encode. Missing fields are left at their zero value.
func Decode(data map[string]any, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer")
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("decode target must point to a struct")
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := fieldName(field)
		if name == "" {
			continue
		}
		raw, ok := data[name]
		if !ok || raw == nil {
			continue
		}

		target := rv.Field(i)
		if target.Kind() == reflect.Pointer {
			elem := reflect.New(target.Type().Elem())
			if err := decodeValue(raw, elem.Elem()); err != nil {
				return fmt.Errorf("field %s: %w", field.Name, err)
			}
			target.Set(elem)
			continue
		}
		if err := decodeValue(raw, target); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

func encodeValue(fv reflect.Value) (any, error) {
	if fv.Type() == timeType {
		t := fv.Interface().(time.Time)
		return t.UTC().Format(timeLayout), nil
	}
	switch fv.Kind() {
	case reflect.String:
		return fv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fv.Int(), nil
	case reflect.Float32, reflect.Float64:
		return fv.Float(), nil
	case reflect.Bool:
		return fv.Bool(), nil
	default:
		return nil, fmt.Errorf("unsupported kind %s", fv.Kind())
	}
}

func decodeValue(raw any, target reflect.Value) error {
	if target.Type() == timeType {
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("expected timestamp string, got %T", raw)
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("bad timestamp %q: %w", s, err)
		}
		target.Set(reflect.ValueOf(t.UTC()))
		return nil
	}

	switch target.Kind() {
	case reflect.String:
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", raw)
		}
		target.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt64(raw)
		if err != nil {
			return err
		}
		target.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := toFloat64(raw)
		if err != nil {
			return err
		}
		target.SetFloat(f)
	case reflect.Bool:
		b, ok := raw.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", raw)
		}
		target.SetBool(b)
	default:
		return fmt.Errorf("unsupported kind %s", target.Kind())
	}
	return nil
}

func toInt64(raw any) (int64, error) {
	switch n := raw.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", raw)
	}
}

func toFloat64(raw any) (float64, error) {
	switch n := raw.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", raw)
	}
}

func fieldName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("doc"); ok {
		if tag == "-" {
			return ""
		}
		return tag
	}
	return snakeCase(field.Name)
}

// snakeCase converts CamelCase field names to snake_case, keeping runs of
// capitals together (UserID -> user_id, TestDate -> test_date).
func snakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
