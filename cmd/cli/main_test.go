package main

import (
	"testing"

	"gouncertain/adapters/stats/distributions"
	"gouncertain/domain/core"
)

func TestQuestionFlags_HypothesisID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    core.HypothesisID
		wantErr bool
	}{
		{"generated when empty", "", "", false},
		{"kept as given", "coin", "coin", false},
		{"blank rejected", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := questionFlags{
				spec:         distributions.Spec{Kind: distributions.KindBernoulli, P: 0.5},
				target:       0.1,
				seed:         42,
				hypothesisID: tt.id,
			}
			req, err := q.request()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error for hypothesis %q", tt.id)
				}
				return
			}
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if req.HypothesisID != tt.want {
				t.Errorf("HypothesisID = %q, want %q", req.HypothesisID, tt.want)
			}
			if req.Seed != 42 {
				t.Errorf("Seed = %d, want 42", req.Seed)
			}
		})
	}
}
