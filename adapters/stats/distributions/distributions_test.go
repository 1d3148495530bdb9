package distributions

import (
	"math"
	"testing"

	"gouncertain/domain/core"
	"gouncertain/domain/uncertain"

	"github.com/montanaflynn/stats"
)

func TestConstructors_RejectInvalidParameters(t *testing.T) {
	tests := []struct {
		name  string
		build func() error
	}{
		{"bernoulli below zero", func() error { _, err := Bernoulli(-0.1); return err }},
		{"bernoulli above one", func() error { _, err := Bernoulli(1.5); return err }},
		{"bernoulli NaN", func() error { _, err := Bernoulli(math.NaN()); return err }},
		{"normal zero sigma", func() error { _, err := Normal(0, 0); return err }},
		{"normal infinite mu", func() error { _, err := Normal(math.Inf(1), 1); return err }},
		{"uniform empty range", func() error { _, err := Uniform(1, 1); return err }},
		{"exponential negative rate", func() error { _, err := Exponential(-2); return err }},
		{"poisson zero lambda", func() error { _, err := Poisson(0); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			if err == nil {
				t.Fatal("expected construction error")
			}
			if !core.IsConfigurationError(err) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestBernoulli_Frequency(t *testing.T) {
	coin, err := Bernoulli(0.3)
	if err != nil {
		t.Fatalf("Bernoulli: %v", err)
	}
	src := uncertain.NewSeededSource(42, 42)

	const n = 20000
	values, err := uncertain.Samples[bool](coin, src, 0, n)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	hits := 0
	for _, v := range values {
		if v {
			hits++
		}
	}

	freq := float64(hits) / n
	if math.Abs(freq-0.3) > 0.02 {
		t.Errorf("expected frequency near 0.3, got %.4f", freq)
	}
}

func TestBernoulli_Extremes(t *testing.T) {
	src := uncertain.NewSeededSource(1, 1)
	never, _ := Bernoulli(0)
	always, _ := Bernoulli(1)

	for epoch := uint64(0); epoch < 100; epoch++ {
		v, _ := never.Sample(src, epoch)
		if v {
			t.Fatalf("p=0 produced true at epoch %d", epoch)
		}
		v, _ = always.Sample(src, epoch)
		if !v {
			t.Fatalf("p=1 produced false at epoch %d", epoch)
		}
	}
}

func TestContinuous_Moments(t *testing.T) {
	normal, _ := Normal(5, 2)
	unif, _ := Uniform(-1, 3)
	expo, _ := Exponential(4)
	pois, _ := Poisson(3)

	tests := []struct {
		name      string
		leaf      uncertain.Uncertain[float64]
		mean      float64
		tolerance float64
	}{
		{"normal", normal, 5, 0.1},
		{"uniform", unif, 1, 0.05},
		{"exponential", expo, 0.25, 0.02},
		{"poisson", pois, 3, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := uncertain.Samples(tt.leaf, uncertain.NewSeededSource(99, 7), 0, 10000)
			if err != nil {
				t.Fatalf("sample: %v", err)
			}
			mean, err := stats.Mean(values)
			if err != nil {
				t.Fatalf("mean: %v", err)
			}
			if math.Abs(mean-tt.mean) > tt.tolerance {
				t.Errorf("expected mean %.3f ± %.3f, got %.4f", tt.mean, tt.tolerance, mean)
			}
		})
	}
}

func TestUniform_StaysInRange(t *testing.T) {
	unif, _ := Uniform(2, 4)
	values, err := uncertain.Samples[float64](unif, uncertain.NewSeededSource(3, 3), 0, 1000)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	for i, v := range values {
		if v < 2 || v >= 4 {
			t.Fatalf("sample %d out of range: %f", i, v)
		}
	}
}
