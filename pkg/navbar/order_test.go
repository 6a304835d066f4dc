package navbar

import (
	"errors"
	"testing"
)

type version struct{ major, minor int }

func (v version) CompareOrder(other any) (int, error) {
	o, ok := other.(version)
	if !ok {
		return 0, ErrIncomparableOrder
	}
	if v.major != o.major {
		return v.major - o.major, nil
	}
	return v.minor - o.minor, nil
}

func TestCompareOrder(t *testing.T) {
	tests := []struct {
		name    string
		a, b    any
		want    int
		wantErr bool
	}{
		{"strings", "a", "b", -1, false},
		{"equal strings", "a", "a", 0, false},
		{"empty string first", "", "Home", -1, false},
		{"ints", 3, 1, 1, false},
		{"int and float", 2, 2.5, -1, false},
		{"int and uint", int8(-1), uint(0), -1, false},
		{"uint and int", uint64(5), 5, 0, false},
		{"large ints", int64(1<<62 + 1), int64(1 << 62), 1, false},
		{"comparer", version{1, 2}, version{1, 10}, -1, false},
		{"string and int", "a", 1, 0, true},
		{"int and string", 1, "a", 0, true},
		{"bool", true, false, 0, true},
		{"nil", nil, 1, 0, true},
		{"comparer and string", version{1, 0}, "a", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compareOrder(tt.a, tt.b)
			if (err != nil) != tt.wantErr {
				t.Fatalf("compareOrder() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrIncomparableOrder) {
					t.Fatalf("compareOrder() error = %v, want %v", err, ErrIncomparableOrder)
				}
				return
			}
			if sign(got) != tt.want {
				t.Fatalf("compareOrder(%v, %v) = %d, want sign %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
