package uncertain

// Transform applies a pure function to the realization of one upstream value.
type Transform[In, Out any] struct {
	upstream Uncertain[In]
	fn       func(In) (Out, error)
}

// Map derives a value by applying f to every realization of upstream.
func Map[In, Out any](upstream Uncertain[In], f func(In) Out) *Transform[In, Out] {
	return &Transform[In, Out]{
		upstream: upstream,
		fn: func(v In) (Out, error) {
			return f(v), nil
		},
	}
}

// MapErr is Map for functions that can fail. A failure aborts the sample.
func MapErr[In, Out any](upstream Uncertain[In], f func(In) (Out, error)) *Transform[In, Out] {
	return &Transform[In, Out]{upstream: upstream, fn: f}
}

func (t *Transform[In, Out]) Sample(src *Source, epoch uint64) (Out, error) {
	v, err := t.upstream.Sample(src, epoch)
	if err != nil {
		var zero Out
		return zero, err
	}
	return t.fn(v)
}

// Zip combines the realizations of two upstream values taken at the same
// epoch. When both sides share a node, they observe the same realization.
type Zip[A, B, Out any] struct {
	left  Uncertain[A]
	right Uncertain[B]
	fn    func(A, B) Out
}

// Map2 derives a value from two upstream values.
func Map2[A, B, Out any](left Uncertain[A], right Uncertain[B], f func(A, B) Out) *Zip[A, B, Out] {
	return &Zip[A, B, Out]{left: left, right: right, fn: f}
}

func (z *Zip[A, B, Out]) Sample(src *Source, epoch uint64) (Out, error) {
	var zero Out
	a, err := z.left.Sample(src, epoch)
	if err != nil {
		return zero, err
	}
	b, err := z.right.Sample(src, epoch)
	if err != nil {
		return zero, err
	}
	return z.fn(a, b), nil
}
