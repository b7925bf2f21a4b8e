package shapeinference

import (
	"fmt"
	"testing"

	"github.com/gomlx/einsum/contraction"
	"github.com/gomlx/einsum/types/shapes"
	"github.com/gomlx/gopjrt/dtypes"
)

// Aliases
var (
	Bool = dtypes.Bool
	I32  = dtypes.Int32
	F16  = dtypes.Float16
	F32  = dtypes.Float32
	F64  = dtypes.Float64

	S = shapes.Make
)

// must1 panics if there is an error.
func must1[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}

func TestAdjustAxisToRank(t *testing.T) {
	if axis := must1(AdjustAxisToRank(-1, 3)); axis != 2 {
		t.Errorf("expected axis 2, got %d", axis)
	}
	if axis := must1(AdjustAxisToRank(1, 3)); axis != 1 {
		t.Errorf("expected axis 1, got %d", axis)
	}
	for _, axis := range []int{3, -4} {
		if _, err := AdjustAxisToRank(axis, 3); err == nil {
			t.Errorf("expected error for axis %d and rank 3", axis)
		}
	}
}

func TestTranspose(t *testing.T) {
	output := must1(Transpose(S(F32, 2, 3, 4), []int{2, 0, 1}))
	if err := output.Check(F32, 4, 2, 3); err != nil {
		t.Errorf("output check failed: %v", err)
	}
	if _, err := Transpose(S(F32, 2, 3), []int{0, 0}); err == nil {
		t.Error("expected error for repeated axes")
	}
	if _, err := Transpose(S(F32, 2, 3), []int{0}); err == nil {
		t.Error("expected error for incomplete permutation")
	}
	if _, err := Transpose(S(F32, 2, 3), []int{0, 2}); err == nil {
		t.Error("expected error for out-of-range axis")
	}
	if !must1(Transpose(S(F32), nil)).IsScalar() {
		t.Error("expected scalar shape")
	}
}

func TestTensordot(t *testing.T) {
	lhs, rhs := S(F32, 2, 3, 4, 5), S(F32, 5, 1, 3)
	lhsAxes, rhsAxes := []int{-1, 1}, []int{0, 2}
	output, err := Tensordot(lhs, lhsAxes, rhs, rhsAxes)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	fmt.Printf("\ttensordot.shape=%s\n", output)
	if err := output.Check(F32, 2, 4, 1); err != nil {
		t.Errorf("output check failed: %v", err)
	}
	if lhsAxes[0] != 3 {
		t.Errorf("expected negative axis to be adjusted to 3, got %d", lhsAxes[0])
	}

	// No contracting axes: outer product.
	output = must1(Tensordot(S(F64, 2), nil, S(F64, 3), nil))
	if err := output.Check(F64, 2, 3); err != nil {
		t.Errorf("output check failed: %v", err)
	}

	// Errors.
	testCases := []struct {
		name             string
		lhs, rhs         shapes.Shape
		lhsAxes, rhsAxes []int
	}{
		{"dtype mismatch", S(F32, 2), S(F64, 2), []int{0}, []int{0}},
		{"unsupported dtype", S(Bool, 2), S(Bool, 2), []int{0}, []int{0}},
		{"axes count mismatch", S(F32, 2, 3), S(F32, 2, 3), []int{0, 1}, []int{0}},
		{"axis out of range", S(F32, 2, 3), S(F32, 2, 3), []int{2}, []int{0}},
		{"repeated axis", S(F32, 2, 2), S(F32, 2, 2), []int{0, 0}, []int{0, 1}},
		{"dimension mismatch", S(F32, 2, 3), S(F32, 2, 3), []int{0}, []int{1}},
	}
	for _, tc := range testCases {
		if _, err := Tensordot(tc.lhs, tc.lhsAxes, tc.rhs, tc.rhsAxes); err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
	}
}

func TestContract(t *testing.T) {
	c := must1(contraction.New([]string{"bij", "bjk"}, "bki"))
	sc, output, err := Contract(c, S(F16, 5, 2, 3), S(F16, 5, 3, 4))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := output.Check(F16, 5, 4, 2); err != nil {
		t.Errorf("output check failed: %v", err)
	}
	if sc.Sizes['j'] != 3 {
		t.Errorf("expected size 3 for label j, got %d", sc.Sizes['j'])
	}

	if _, _, err := Contract(c, S(F32, 5, 2, 3), S(I32, 5, 3, 4)); err == nil {
		t.Error("expected error for mismatched dtypes")
	}
	if _, _, err := Contract(c, S(F32, 5, 2, 3), S(F32, 5, 2, 4)); err == nil {
		t.Error("expected error for mismatched dimensions")
	}
	if _, _, err := Contract(c, S(F32, 5, 2, 3)); err == nil {
		t.Error("expected error for missing operand")
	}
	if _, _, err := Contract(c); err == nil {
		t.Error("expected error for no operands")
	}
}
