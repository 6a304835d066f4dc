package navbar

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
)

// Comparer can be implemented by custom sort keys. CompareOrder returns a
// negative number, zero or a positive number when the receiver sorts before,
// together with or after other, and an error when other is not comparable.
type Comparer interface {
	CompareOrder(other any) (int, error)
}

// compareOrder orders two sort keys. Strings compare with strings, any
// numeric kind compares with any other numeric kind and Comparer
// implementations decide for themselves. Everything else is an error.
func compareOrder(a, b any) (int, error) {
	if c, ok := a.(Comparer); ok {
		return c.CompareOrder(b)
	}

	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs), nil
		}
		return 0, incomparable(a, b)
	}

	an, aok := numeric(a)
	bn, bok := numeric(b)
	if aok && bok {
		return an.compare(bn), nil
	}

	return 0, incomparable(a, b)
}

func incomparable(a, b any) error {
	return fmt.Errorf("%w: %T(%v) and %T(%v)", ErrIncomparableOrder, a, a, b, b)
}

type number struct {
	kind reflect.Kind // Int64, Uint64 or Float64
	i    int64
	u    uint64
	f    float64
}

func numeric(v any) (number, bool) {
	if v == nil {
		return number{}, false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{kind: reflect.Int64, i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return number{kind: reflect.Uint64, u: rv.Uint()}, true
	case reflect.Float32, reflect.Float64:
		return number{kind: reflect.Float64, f: rv.Float()}, true
	default:
		return number{}, false
	}
}

func (n number) compare(o number) int {
	switch {
	case n.kind == reflect.Int64 && o.kind == reflect.Int64:
		return cmp.Compare(n.i, o.i)
	case n.kind == reflect.Uint64 && o.kind == reflect.Uint64:
		return cmp.Compare(n.u, o.u)
	case n.kind == reflect.Int64 && o.kind == reflect.Uint64:
		if n.i < 0 {
			return -1
		}
		return cmp.Compare(uint64(n.i), o.u)
	case n.kind == reflect.Uint64 && o.kind == reflect.Int64:
		return -o.compare(n)
	default:
		return cmp.Compare(n.float(), o.float())
	}
}

func (n number) float() float64 {
	switch n.kind {
	case reflect.Int64:
		return float64(n.i)
	case reflect.Uint64:
		return float64(n.u)
	default:
		return n.f
	}
}
