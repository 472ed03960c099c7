package conv

import (
	"math"
	"testing"
)

func TestIntToUint32(t *testing.T) {
	tests := []struct {
		in   int
		want uint32
	}{
		{0, 0},
		{4000, 4000},
		{math.MaxUint16 + 1, math.MaxUint16 + 1},
	}
	for _, tt := range tests {
		if got := IntToUint32(tt.in); got != tt.want {
			t.Errorf("IntToUint32(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIntToUint32_PanicsOnNegative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("IntToUint32(-1) did not panic")
		}
	}()
	IntToUint32(-1)
}

func TestUint32ToInt(t *testing.T) {
	for _, n := range []uint32{0, 7, math.MaxUint16 + 1} {
		if got := Uint32ToInt(n); got != int(n) {
			t.Errorf("Uint32ToInt(%d) = %d", n, got)
		}
	}
}
