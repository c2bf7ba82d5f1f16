package ndarray

// Compact materializes the view into a new view over a freshly allocated
// contiguous buffer holding the same logical values in row-major order: the
// "view tax". Always allocates and copies, even when the input is already
// contiguous; the dispatcher is the caller that special-cases that. The
// source buffer is never mutated.
func (v *View) Compact() (*View, error) {
	out, err := Empty(v.shape, v.DType(), v.device)
	if err != nil {
		return nil, err
	}

	es := v.DType().Size()
	src := v.buf.Bytes()
	dst := out.buf.Bytes()
	v.walk(func(i, addr int) {
		copy(dst[i*es:(i+1)*es], src[addr*es:(addr+1)*es])
	})
	return out, nil
}
