package ndarray

// Method conveniences over the dispatcher. Each one is a thin wrapper; the
// orchestration (broadcast, compact, kernel, wrap) lives in dispatch.go.

// Add returns v + other elementwise with broadcasting.
func (v *View) Add(other *View) (*View, error) {
	return EwiseBinop(OpAdd, v, other)
}

// Sub returns v - other elementwise with broadcasting.
func (v *View) Sub(other *View) (*View, error) {
	return EwiseBinop(OpSub, v, other)
}

// Mul returns v * other elementwise with broadcasting.
func (v *View) Mul(other *View) (*View, error) {
	return EwiseBinop(OpMul, v, other)
}

// Div returns v / other elementwise with broadcasting.
func (v *View) Div(other *View) (*View, error) {
	return EwiseBinop(OpDiv, v, other)
}

// Maximum returns max(v, other) elementwise with broadcasting.
func (v *View) Maximum(other *View) (*View, error) {
	return EwiseBinop(OpMaximum, v, other)
}

// Eq returns 1 where v == other and 0 elsewhere, in the operand dtype.
func (v *View) Eq(other *View) (*View, error) {
	return EwiseBinop(OpEq, v, other)
}

// Ge returns 1 where v >= other and 0 elsewhere, in the operand dtype.
func (v *View) Ge(other *View) (*View, error) {
	return EwiseBinop(OpGe, v, other)
}

// AddScalar returns v + c elementwise.
func (v *View) AddScalar(c float64) (*View, error) {
	return ScalarBinop(OpAdd, v, c)
}

// SubScalar returns v - c elementwise.
func (v *View) SubScalar(c float64) (*View, error) {
	return ScalarBinop(OpSub, v, c)
}

// MulScalar returns v * c elementwise.
func (v *View) MulScalar(c float64) (*View, error) {
	return ScalarBinop(OpMul, v, c)
}

// DivScalar returns v / c elementwise.
func (v *View) DivScalar(c float64) (*View, error) {
	return ScalarBinop(OpDiv, v, c)
}

// MaximumScalar returns max(v, c) elementwise.
func (v *View) MaximumScalar(c float64) (*View, error) {
	return ScalarBinop(OpMaximum, v, c)
}

// Sum reduces along axis. Negative axes index from the end.
func (v *View) Sum(axis int, keepDim bool) (*View, error) {
	return ReduceAxis(ReduceSum, v, axis, keepDim)
}

// Max reduces along axis taking the maximum. Negative axes index from the end.
func (v *View) Max(axis int, keepDim bool) (*View, error) {
	return ReduceAxis(ReduceMax, v, axis, keepDim)
}

// SumAll reduces every element to a rank-0 view.
func (v *View) SumAll() (*View, error) {
	return ReduceAll(ReduceSum, v)
}

// MaxAll reduces every element to a rank-0 view taking the maximum.
func (v *View) MaxAll() (*View, error) {
	return ReduceAll(ReduceMax, v)
}

// MatMul computes the matrix product v @ other for rank-2 views.
func (v *View) MatMul(other *View) (*View, error) {
	return MatMul(v, other)
}
