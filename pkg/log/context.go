package log

import "encoding/json"

// LogContext is one record per program invocation observed in a batch.
//
// A LogContext is created when an Invoke event is accepted, mutated by
// subsequent events while it remains on the Parser's call stack, and sealed
// once its matching Success/Failed pops it (or a Truncated event seals
// whichever context is current). A popped context is no longer the target
// of events, except that an event arriving while the call stack is empty
// is attached to the last-emitted context.
type LogContext struct {
	// ProgramID is the program whose invocation this record describes.
	ProgramID string `json:"program_id"`

	// ParentProgramID is the program ID of the outermost ancestor of this
	// invocation; empty for depth-1 invocations.
	ParentProgramID string `json:"parent_program_id"`

	// Depth is the nesting level at invocation; 1 is top-level.
	Depth int `json:"depth"`

	// InstructionIndex is the index of the top-level instruction this
	// invocation belongs to.
	InstructionIndex int `json:"instruction_index"`

	// ID is "{program_id}-{slot}-{seq}", unique within the batch.
	ID string `json:"id"`

	// Slot is the ambient slot passed by the caller.
	Slot uint64 `json:"slot"`

	// Signature is the ambient transaction signature passed by the caller.
	Signature string `json:"signature"`

	// LogMessages are the payloads of classified "program log" lines.
	LogMessages []string `json:"log_messages"`

	// DataLogs are the payloads of classified "program data" lines.
	DataLogs []string `json:"data_logs"`

	// RawLogs is every raw line attributed to this invocation, verbatim
	// (except that an Unclassified line altered by the normalization pass
	// is recorded in its normalized form), in original batch order.
	RawLogs []string `json:"raw_logs"`

	// Errors are the error strings from classified failure lines.
	Errors []string `json:"errors"`

	// TransactionError is a copy of the batch's ambient transaction error,
	// recorded only once this context observes a failure event.
	TransactionError string `json:"transaction_error"`

	// InvokeResult is the payload of a "program return" line, or the
	// literal "Log truncated" when truncation terminates parsing inside
	// this context.
	InvokeResult string `json:"invoke_result"`
}

// NewLogContext constructs a LogContext with empty sequences and empty
// strings.
func NewLogContext(programID string, depth int, id string, instructionIndex int, slot uint64, signature string) *LogContext {
	return &LogContext{
		ProgramID:        programID,
		Depth:            depth,
		ID:               id,
		InstructionIndex: instructionIndex,
		Slot:             slot,
		Signature:        signature,
		LogMessages:      []string{},
		DataLogs:         []string{},
		RawLogs:          []string{},
		Errors:           []string{},
	}
}

// HasErrors reports whether this context observed a transaction-level error
// or recorded any program-level error string.
func (c *LogContext) HasErrors() bool {
	return c.TransactionError != "" || len(c.Errors) > 0
}

// ToJSON serializes the context to its canonical JSON form. Key order is not
// semantically significant but round-trips through ParseLogContextJSON.
func (c *LogContext) ToJSON() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseLogContextJSON is the inverse of ToJSON.
func ParseLogContextJSON(data string) (*LogContext, error) {
	var c LogContext
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, err
	}
	return &c, nil
}
