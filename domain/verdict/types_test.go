package verdict

import (
	"encoding/json"
	"testing"
)

func TestForcedVerdictsAreRejected(t *testing.T) {
	cases := []struct {
		verdict  Verdict
		accepted bool
		forced   bool
	}{
		{Verdict{DecisionAccepted, ReasonCrossedLower}, true, false},
		{Verdict{DecisionRejected, ReasonCrossedUpper}, false, false},
		{Verdict{DecisionRejected, ReasonBudgetExhausted}, false, true},
	}

	for _, c := range cases {
		if got := c.verdict.Accepted(); got != c.accepted {
			t.Errorf("%+v: Accepted() = %v, want %v", c.verdict, got, c.accepted)
		}
		if got := c.verdict.Reason.Forced(); got != c.forced {
			t.Errorf("%+v: Forced() = %v, want %v", c.verdict, got, c.forced)
		}
	}
}

func TestOutcomeJSONFlattensVerdict(t *testing.T) {
	out := Outcome{Verdict: Verdict{DecisionAccepted, ReasonCrossedLower}, Samples: 10, Batches: 1}
	data, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if fields["decision"] != "accepted" || fields["reason"] != "crossed_lower" {
		t.Fatalf("verdict fields not at top level: %s", data)
	}
}
