package log

import "testing"

func TestParseLogsFromPayload(t *testing.T) {
	payload := `{
		"params": {
			"result": {
				"context": {"slot": 42},
				"value": {
					"signature": "sig123",
					"err": null,
					"logs": [
						"Program ` + testPID + ` invoke [1]",
						"Program ` + testPID + ` success"
					]
				}
			}
		}
	}`

	p := NewParser()
	contexts, err := p.ParseLogsFromPayload([]byte(payload), NewAllowAllFilter())
	if err != nil {
		t.Fatalf("ParseLogsFromPayload: %v", err)
	}
	if len(contexts) != 1 {
		t.Fatalf("got %d contexts, want 1", len(contexts))
	}
	if contexts[0].Slot != 42 || contexts[0].Signature != "sig123" {
		t.Fatalf("unexpected context: %+v", contexts[0])
	}
	if contexts[0].TransactionError != "" {
		t.Fatalf("expected empty transaction error for null err, got %q", contexts[0].TransactionError)
	}
}

func TestParseLogsFromPayloadNonNullErr(t *testing.T) {
	payload := `{
		"params": {
			"result": {
				"context": {"slot": 7},
				"value": {
					"signature": "sig456",
					"err": {"InstructionError":[0,"Custom"]},
					"logs": [
						"Program ` + testPID + ` invoke [1]",
						"Program ` + testPID + ` failed: custom program error: 0x0"
					]
				}
			}
		}
	}`

	p := NewParser()
	contexts, err := p.ParseLogsFromPayload([]byte(payload), NewAllowAllFilter())
	if err != nil {
		t.Fatalf("ParseLogsFromPayload: %v", err)
	}
	if len(contexts) != 1 {
		t.Fatalf("got %d contexts, want 1", len(contexts))
	}
	if contexts[0].TransactionError == "" {
		t.Fatalf("expected non-empty transaction error")
	}
}

func TestParseLogsFromPayloadMalformedJSON(t *testing.T) {
	p := NewParser()
	if _, err := p.ParseLogsFromPayload([]byte("not json"), NewAllowAllFilter()); err == nil {
		t.Fatalf("expected an error for malformed JSON")
	}
}

func TestParseLogsFromPayloadMissingLogs(t *testing.T) {
	payload := `{"params": {"result": {"context": {"slot": 1}, "value": {"signature": "s", "err": null}}}}`

	p := NewParser()
	if _, err := p.ParseLogsFromPayload([]byte(payload), NewAllowAllFilter()); err == nil {
		t.Fatalf("expected an error for a missing logs field")
	}
}

func TestParseLogsFromPayloadString(t *testing.T) {
	payload := `{"params": {"result": {"context": {"slot": 1}, "value": {"signature": "s", "err": null, "logs": []}}}}`

	p := NewParser()
	contexts, err := p.ParseLogsFromPayloadString(payload, NewAllowAllFilter())
	if err != nil {
		t.Fatalf("ParseLogsFromPayloadString: %v", err)
	}
	if len(contexts) != 0 {
		t.Fatalf("got %d contexts, want 0 for empty logs", len(contexts))
	}
}
