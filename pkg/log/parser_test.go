package log

import "testing"

const (
	s1PID1 = "9RX7oz3WN5VRTqekBBHBvEJFVMNRnrCmVy7S6B6S5oU7"
	s1PID2 = "11111111111111111111111111111111"
	s1PID3 = "AbcdefGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
)

func s1Lines() []string {
	return []string{
		"Program " + s1PID1 + " invoke [1]",
		"Program log: Instruction: Initialize",
		"Program " + s1PID2 + " invoke [2]",
		"Program " + s1PID2 + " success",
		"Program log: Initialized new event. Current value",
		"Program " + s1PID1 + " consumed 59783 of 200000 compute units",
		"Program " + s1PID1 + " success",
		"Program " + s1PID3 + " invoke [1]",
		"Program log: Create",
		"Program " + s1PID3 + " consumed 5475 of 200000 compute units",
		"Program failed to complete: Invoked an instruction with data that is too large (12178014311288245306 > 10240)",
		"Program " + s1PID3 + " failed: Program failed to complete",
	}
}

func TestParseLogsS1SelectAll(t *testing.T) {
	p := NewParser()
	contexts := p.ParseLogs(s1Lines(), "", NewAllowAllFilter(), 1, "12345")

	if len(contexts) != 3 {
		t.Fatalf("got %d contexts, want 3", len(contexts))
	}

	c0, c1, c2 := contexts[0], contexts[1], contexts[2]

	if c0.ProgramID != s1PID1 || c0.ParentProgramID != "" || c0.Depth != 1 || c0.InstructionIndex != 0 {
		t.Fatalf("context 0 mismatch: %+v", c0)
	}
	wantLogs0 := []string{"Instruction: Initialize", "Initialized new event. Current value"}
	if !equalStrings(c0.LogMessages, wantLogs0) {
		t.Fatalf("context 0 log_messages = %v, want %v", c0.LogMessages, wantLogs0)
	}
	if len(c0.Errors) != 0 {
		t.Fatalf("context 0 errors = %v, want empty", c0.Errors)
	}
	if len(c0.RawLogs) != 5 {
		t.Fatalf("context 0 raw_logs len = %d, want 5", len(c0.RawLogs))
	}

	if c1.ProgramID != s1PID2 || c1.ParentProgramID != s1PID1 || c1.Depth != 2 || c1.InstructionIndex != 0 {
		t.Fatalf("context 1 mismatch: %+v", c1)
	}
	if len(c1.LogMessages) != 0 {
		t.Fatalf("context 1 log_messages = %v, want empty", c1.LogMessages)
	}
	if len(c1.RawLogs) != 2 {
		t.Fatalf("context 1 raw_logs len = %d, want 2", len(c1.RawLogs))
	}

	if c2.ProgramID != s1PID3 || c2.ParentProgramID != "" || c2.Depth != 1 || c2.InstructionIndex != 1 {
		t.Fatalf("context 2 mismatch: %+v", c2)
	}
	wantLogs2 := []string{"Create"}
	if !equalStrings(c2.LogMessages, wantLogs2) {
		t.Fatalf("context 2 log_messages = %v, want %v", c2.LogMessages, wantLogs2)
	}
	wantErrs2 := []string{
		"Invoked an instruction with data that is too large (12178014311288245306 > 10240)",
		"Program failed to complete",
	}
	if !equalStrings(c2.Errors, wantErrs2) {
		t.Fatalf("context 2 errors = %v, want %v", c2.Errors, wantErrs2)
	}
	if len(c2.RawLogs) != 5 {
		t.Fatalf("context 2 raw_logs len = %d, want 5", len(c2.RawLogs))
	}
}

func TestParseLogsS2RestrictiveOuter(t *testing.T) {
	p := NewParser()
	filter := NewProgramFilter([]string{s1PID1})
	contexts := p.ParseLogs(s1Lines(), "", filter, 1, "12345")

	if len(contexts) != 2 {
		t.Fatalf("got %d contexts, want 2", len(contexts))
	}
	if contexts[0].ProgramID != s1PID1 || contexts[1].ProgramID != s1PID2 {
		t.Fatalf("unexpected contexts: %+v", contexts)
	}
}

func TestParseLogsS3RestrictiveFailingRoot(t *testing.T) {
	p := NewParser()
	filter := NewProgramFilter([]string{s1PID3})
	contexts := p.ParseLogs(s1Lines(), "", filter, 1, "12345")

	if len(contexts) != 1 {
		t.Fatalf("got %d contexts, want 1", len(contexts))
	}
	if contexts[0].ProgramID != s1PID3 {
		t.Fatalf("unexpected context: %+v", contexts[0])
	}
}

func TestParseLogsS4Truncation(t *testing.T) {
	p := NewParser()
	lines := []string{
		"Program " + s1PID1 + " invoke [1]",
		"Program log: Instruction: Initialize",
		"Log truncated",
		"Program log: this line must never appear",
		"Program " + s1PID1 + " success",
	}
	contexts := p.ParseLogs(lines, "", NewAllowAllFilter(), 1, "sig")

	if len(contexts) != 1 {
		t.Fatalf("got %d contexts, want 1", len(contexts))
	}
	c := contexts[0]
	if c.InvokeResult != "Log truncated" {
		t.Fatalf("InvokeResult = %q, want %q", c.InvokeResult, "Log truncated")
	}
	for _, raw := range c.RawLogs {
		if raw == "Program log: this line must never appear" {
			t.Fatalf("line after truncation leaked into raw_logs: %v", c.RawLogs)
		}
	}
}

func TestParseLogsS5StrayUnclassifiedLine(t *testing.T) {
	p := NewParser()
	stray := "Transfer: insufficient lamports 5628503, need 6799920"
	lines := []string{
		"Program " + s1PID1 + " invoke [1]",
		stray,
		"Program " + s1PID1 + " success",
	}
	contexts := p.ParseLogs(lines, "", NewAllowAllFilter(), 1, "sig")

	if len(contexts) != 1 {
		t.Fatalf("got %d contexts, want 1", len(contexts))
	}
	count := 0
	for _, raw := range contexts[0].RawLogs {
		if raw == stray {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("stray line appeared %d times in raw_logs, want 1: %v", count, contexts[0].RawLogs)
	}
}

func TestGetProgramDataS6(t *testing.T) {
	if got := GetProgramData("Program data: X="); got != "X=" {
		t.Fatalf("GetProgramData = %q, want %q", got, "X=")
	}
	if got := GetProgramData("Program " + s1PID1 + " invoke [1]"); got != "" {
		t.Fatalf("GetProgramData on invoke line = %q, want empty", got)
	}
}

func TestParseLogsEmptyInput(t *testing.T) {
	p := NewParser()
	contexts := p.ParseLogs(nil, "", NewAllowAllFilter(), 0, "")
	if len(contexts) != 0 {
		t.Fatalf("got %d contexts for empty input, want 0", len(contexts))
	}
}

func TestParseLogsSingleOpenInvoke(t *testing.T) {
	p := NewParser()
	lines := []string{"Program " + s1PID1 + " invoke [1]"}
	contexts := p.ParseLogs(lines, "", NewAllowAllFilter(), 0, "")

	if len(contexts) != 1 {
		t.Fatalf("got %d contexts, want 1", len(contexts))
	}
	if contexts[0].Depth != 1 || contexts[0].InstructionIndex != 0 {
		t.Fatalf("unexpected context: %+v", contexts[0])
	}
}

func TestParseLogsRestrictiveFilterMatchesNothing(t *testing.T) {
	p := NewParser()
	filter := NewProgramFilter([]string{"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"})
	contexts := p.ParseLogs(s1Lines(), "", filter, 1, "sig")
	if len(contexts) != 0 {
		t.Fatalf("got %d contexts, want 0", len(contexts))
	}
}

func TestParseLogsBasicDefaults(t *testing.T) {
	p := NewParser()
	lines := []string{
		"Program " + s1PID1 + " invoke [1]",
		"Program " + s1PID1 + " success",
	}
	contexts := p.ParseLogsBasic(lines, NewAllowAllFilter())
	if len(contexts) != 1 {
		t.Fatalf("got %d contexts, want 1", len(contexts))
	}
	if contexts[0].Slot != 0 || contexts[0].Signature != "" {
		t.Fatalf("expected zero-value slot/signature, got %+v", contexts[0])
	}
}

func TestParseLogsInvokeLevelMismatchAborts(t *testing.T) {
	p := NewParser()
	lines := []string{
		"Program " + s1PID1 + " invoke [1]",
		"Program " + s1PID2 + " invoke [3]", // should be level 2, not 3
		"Program " + s1PID2 + " success",
		"Program " + s1PID1 + " success",
	}
	contexts, stats := p.ParseLogsWithStats(lines, "", NewAllowAllFilter(), 0, "")

	if !stats.Aborted {
		t.Fatalf("expected Aborted = true on invoke level mismatch")
	}
	if len(contexts) != 1 {
		t.Fatalf("got %d contexts, want 1 (the outer invoke only)", len(contexts))
	}
}

func TestParseLogsDistinctIDs(t *testing.T) {
	p := NewParser()
	contexts := p.ParseLogs(s1Lines(), "", NewAllowAllFilter(), 1, "12345")

	seen := make(map[string]bool)
	for _, c := range contexts {
		if seen[c.ID] {
			t.Fatalf("duplicate id %q across emitted contexts", c.ID)
		}
		seen[c.ID] = true
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
