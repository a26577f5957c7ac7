package event

import (
	"encoding/json"
	"testing"

	"judge/internal/judge/model"
)

// allFields lists every non-"type" key any variant can carry. A variant's
// own keys are listed under ownKeys; everything else in allFields must be
// absent from its marshaled JSON.
var allFields = []string{"total", "uuid", "exit_code", "stderr", "verdict", "estimated_count", "report", "reason"}

func TestMessageVariantsMarshal(t *testing.T) {
	cases := []struct {
		msg     Message
		ownKeys []string
	}{
		{Queued(3, "abc-123"), []string{"total", "uuid"}},
		{Compiling(), nil},
		{CompilerOutput(1, "syntax error"), []string{"exit_code", "stderr"}},
		{Judging(model.Accepted), []string{"verdict"}},
		{Skipping(8), []string{"estimated_count"}},
		{Done(model.Report{Task: model.Accepted}), []string{"report"}},
		{Error("boom"), []string{"reason"}},
	}
	for _, tc := range cases {
		m := tc.msg
		data, err := json.Marshal(m)
		if err != nil {
			t.Fatalf("marshal %v: %v", m.Type, err)
		}
		var decoded map[string]interface{}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if decoded["type"] != string(m.Type) {
			t.Fatalf("type = %v, want %v", decoded["type"], m.Type)
		}

		own := make(map[string]bool, len(tc.ownKeys))
		for _, k := range tc.ownKeys {
			own[k] = true
			if _, ok := decoded[k]; !ok {
				t.Fatalf("%s: expected own key %q present", m.Type, k)
			}
		}
		for _, k := range allFields {
			if own[k] {
				continue
			}
			if _, ok := decoded[k]; ok {
				t.Fatalf("%s: unexpected key %q present: %s", m.Type, k, data)
			}
		}
	}
}

func TestTerminal(t *testing.T) {
	if !Done(model.Report{}).Terminal() {
		t.Fatalf("Done should be terminal")
	}
	if !Error("x").Terminal() {
		t.Fatalf("Error should be terminal")
	}
	if Judging(model.Accepted).Terminal() {
		t.Fatalf("Judging should not be terminal")
	}
}

func TestNewChannelCapacity(t *testing.T) {
	ch := NewChannel()
	if cap(ch) != 64 {
		t.Fatalf("capacity = %d, want 64", cap(ch))
	}
}
