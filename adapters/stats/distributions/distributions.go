package distributions

import (
	"math"
	"math/rand/v2"

	"gouncertain/domain/core"
	"gouncertain/domain/uncertain"

	"gonum.org/v1/gonum/stat/distuv"
)

// Bernoulli returns a boolean value that is true with probability p.
func Bernoulli(p float64) (*uncertain.Leaf[bool], error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return nil, core.NewParameterError("bernoulli", "p", p)
	}
	dist := distuv.Bernoulli{P: p}
	return uncertain.FromFunc(func(r *rand.Rand) bool {
		d := dist
		d.Src = r
		return d.Rand() == 1
	}), nil
}

// Normal returns a Gaussian value with mean mu and standard deviation sigma.
func Normal(mu, sigma float64) (*uncertain.Leaf[float64], error) {
	if !isFinite(mu) {
		return nil, core.NewParameterError("normal", "mu", mu)
	}
	if !isFinite(sigma) || sigma <= 0 {
		return nil, core.NewParameterError("normal", "sigma", sigma)
	}
	return fromRander(distuv.Normal{Mu: mu, Sigma: sigma}, func(d distuv.Normal, r *rand.Rand) distuv.Rander {
		d.Src = r
		return d
	}), nil
}

// Uniform returns a value drawn uniformly from [min, max).
func Uniform(min, max float64) (*uncertain.Leaf[float64], error) {
	if !isFinite(min) {
		return nil, core.NewParameterError("uniform", "min", min)
	}
	if !isFinite(max) || max <= min {
		return nil, core.NewParameterError("uniform", "max", max)
	}
	return fromRander(distuv.Uniform{Min: min, Max: max}, func(d distuv.Uniform, r *rand.Rand) distuv.Rander {
		d.Src = r
		return d
	}), nil
}

// Exponential returns an exponentially distributed value with the given rate.
func Exponential(rate float64) (*uncertain.Leaf[float64], error) {
	if !isFinite(rate) || rate <= 0 {
		return nil, core.NewParameterError("exponential", "rate", rate)
	}
	return fromRander(distuv.Exponential{Rate: rate}, func(d distuv.Exponential, r *rand.Rand) distuv.Rander {
		d.Src = r
		return d
	}), nil
}

// Poisson returns a count with mean lambda.
func Poisson(lambda float64) (*uncertain.Leaf[float64], error) {
	if !isFinite(lambda) || lambda <= 0 {
		return nil, core.NewParameterError("poisson", "lambda", lambda)
	}
	return fromRander(distuv.Poisson{Lambda: lambda}, func(d distuv.Poisson, r *rand.Rand) distuv.Rander {
		d.Src = r
		return d
	}), nil
}

// fromRander binds a gonum distribution to the session stream on every draw.
// gonum distributions carry their source by value, so each draw works on a copy.
func fromRander[D any](dist D, bind func(D, *rand.Rand) distuv.Rander) *uncertain.Leaf[float64] {
	return uncertain.FromFunc(func(r *rand.Rand) float64 {
		return bind(dist, r).Rand()
	})
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
