package navbar

import (
	"fmt"
	"reflect"
)

// NormalizePath turns the raw path metadata of a route into the ordered list
// of labels the builder works with. A string (or any other scalar, including a
// fmt.Stringer or a []byte) is a one segment path; any other slice or array
// contributes one segment per element, each converted to its string
// representation.
func NormalizePath(v any) ([]string, error) {
	if v == nil {
		return nil, ErrEmptyPath
	}

	var path []string

	switch p := v.(type) {
	case []string:
		path = append(path, p...)
	case string, []byte, fmt.Stringer:
		path = []string{label(p)}
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			path = make([]string, 0, rv.Len())
			for i := 0; i < rv.Len(); i++ {
				path = append(path, label(rv.Index(i).Interface()))
			}
		} else {
			path = []string{label(v)}
		}
	}

	if err := validatePath(path); err != nil {
		return nil, err
	}

	return path, nil
}

func label(v any) string {
	switch l := v.(type) {
	case string:
		return l
	case []byte:
		return string(l)
	default:
		return fmt.Sprint(v)
	}
}

func validatePath(path []string) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}

	for i, l := range path {
		if l == "" {
			return fmt.Errorf("%w: segment %d of %q", ErrEmptyLabel, i, path)
		}
	}

	return nil
}
