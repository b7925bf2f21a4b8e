package utils

import (
	"slices"

	"github.com/gomlx/gopjrt/dtypes"
)

// SupportedDTypes lists the data types whose elements form a ring (addition and multiplication)
// that contractions can be computed on.
var SupportedDTypes = []dtypes.DType{
	dtypes.Int8, dtypes.Int16, dtypes.Int32, dtypes.Int64,
	dtypes.Uint8, dtypes.Uint16, dtypes.Uint32, dtypes.Uint64,
	dtypes.Float16, dtypes.BFloat16, dtypes.Float32, dtypes.Float64,
	dtypes.Complex64, dtypes.Complex128,
}

// IsSupportedDType returns whether contractions can be computed on the dtype.
func IsSupportedDType(dtype dtypes.DType) bool {
	return slices.Contains(SupportedDTypes, dtype)
}
