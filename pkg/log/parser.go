package log

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sologger/sologger-go/internal/common"
)

// ParseStats carries the non-fatal instrumentation that accompanies a single
// ParseLogs call: how many semantic anomalies were logged, and whether the
// batch ended via truncation or an early abort. It is additive to the three
// required entry points and never changes what they return.
type ParseStats struct {
	// AnomalyCount is the number of non-fatal semantic anomalies recorded
	// during this call (callstack mismatches, stray unclassified lines
	// before any invoke, etc).
	AnomalyCount int

	// Truncated is true if a Truncated event ended the batch early.
	Truncated bool

	// Aborted is true if an Invoke's level disagreed with the maintained
	// depth, ending the batch early.
	Aborted bool
}

// Parser drives the log-line state machine: it maintains the call stack,
// depth, instruction index, attaches lines to the active LogContext, and
// handles truncation and malformed sequences.
//
// A Parser is safe for concurrent use by multiple goroutines provided each
// call operates on its own input; it holds no mutable state between calls.
type Parser struct {
	common.LoggerMixin
	classifier *LineClassifier
}

// NewParser constructs a Parser with sensible defaults: slog.Default() for
// diagnostics and a fresh LineClassifier over the package's shared,
// lazily-compiled pattern set.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		LoggerMixin: common.NewLoggerMixin(),
		classifier:  NewLineClassifier(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseLogs parses one batch of log lines into an ordered list of
// LogContext, given the batch's ambient transaction error, program filter,
// slot, and signature.
func (p *Parser) ParseLogs(lines []string, txError string, filter *ProgramFilter, slot uint64, signature string) []*LogContext {
	contexts, _ := p.ParseLogsWithStats(lines, txError, filter, slot, signature)
	return contexts
}

// ParseLogsBasic parses a batch with no ambient transaction error, slot, or
// signature (txError="", slot=0, signature="").
func (p *Parser) ParseLogsBasic(lines []string, filter *ProgramFilter) []*LogContext {
	return p.ParseLogs(lines, "", filter, 0, "")
}

// ParseLogsWithStats is the instrumented form of ParseLogs, additionally
// reporting the anomaly count and whether the batch ended via truncation or
// abort.
func (p *Parser) ParseLogsWithStats(lines []string, txError string, filter *ProgramFilter, slot uint64, signature string) ([]*LogContext, ParseStats) {
	if filter == nil {
		filter = NewAllowAllFilter()
	}

	run := &parseRun{
		parser:    p,
		filter:    filter,
		slot:      slot,
		signature: signature,
		txError:   txError,
		traceID:   uuid.NewString(),
		results:   make([]*LogContext, 0, len(lines)),
	}

	run.execute(lines)
	return run.results, run.stats
}

// parseRun holds the mutable per-call state of the machine. It exists so
// Parser itself stays free of cross-call mutable state, the same separation
// drawn elsewhere between a stateless pipeline and the per-invocation
// builder that does the actual stack bookkeeping.
type parseRun struct {
	parser    *Parser
	filter    *ProgramFilter
	slot      uint64
	signature string
	txError   string
	traceID   string

	results []*LogContext

	callStack []string
	callIDs   []int

	depth            int
	seq              int
	firstInvokeSeen  bool
	instructionIndex int

	selectedRoot string

	stats ParseStats
}

func (r *parseRun) log() *slog.Logger {
	return r.parser.GetLogger().With("trace_id", r.traceID, "slot", r.slot, "signature", r.signature)
}

func (r *parseRun) anomaly(msg string, args ...any) {
	r.stats.AnomalyCount++
	r.log().Debug(msg, args...)
}

// stackTopContext returns the context at the top of the call stack, or nil
// if the stack is empty.
func (r *parseRun) stackTopContext() *LogContext {
	if len(r.callIDs) == 0 {
		return nil
	}
	return r.results[r.callIDs[len(r.callIDs)-1]]
}

// currentContext returns the top-of-stack context, falling back to the
// last-emitted context if the stack is empty.
func (r *parseRun) currentContext() *LogContext {
	if c := r.stackTopContext(); c != nil {
		return c
	}
	if len(r.results) > 0 {
		return r.results[len(r.results)-1]
	}
	return nil
}

// restrictive reports whether this run's filter can suppress emission.
func (r *parseRun) restrictive() bool {
	return !r.filter.SelectAll()
}

func (r *parseRun) execute(lines []string) {
	for _, line := range lines {
		ev := r.parser.classifier.Classify(line)

		if r.restrictive() {
			if ev.Kind == EventInvoke && r.selectedRoot == "" && r.filter.Contains(ev.ProgramID) {
				r.selectedRoot = ev.ProgramID
			}
			if r.selectedRoot == "" {
				continue
			}
		}

		if r.dispatch(ev) {
			return
		}

		if r.restrictive() && r.selectedRoot != "" && endPID(ev) == r.selectedRoot {
			r.selectedRoot = ""
		}
	}
}

// endPID mirrors GetEndProgramID, reusing the already-classified Event
// instead of reclassifying the line.
func endPID(ev Event) string {
	switch ev.Kind {
	case EventSuccess, EventFailed, EventReturn:
		return ev.ProgramID
	default:
		return ""
	}
}

// dispatch advances the state machine by one event. It returns true if the
// batch should terminate immediately (truncation or an abort condition).
func (r *parseRun) dispatch(ev Event) bool {
	switch ev.Kind {
	case EventInvoke:
		return r.handleInvoke(ev)
	case EventSuccess:
		r.handleSuccess(ev)
	case EventFailed:
		r.handleFailed(ev)
	case EventCompleteFailed:
		r.handleCompleteFailed(ev)
	case EventLog:
		r.handleLog(ev)
	case EventData:
		r.handleData(ev)
	case EventConsumed, EventConsumption:
		r.appendRawOnly(ev.Original)
	case EventReturn:
		r.handleReturn(ev)
	case EventTruncated:
		r.handleTruncated()
		return true
	case EventUnclassified:
		r.handleUnclassified(ev)
	}
	return false
}

func (r *parseRun) handleInvoke(ev Event) (abort bool) {
	r.callStack = append(r.callStack, ev.ProgramID)
	idx := len(r.results)
	r.callIDs = append(r.callIDs, idx)

	if r.firstInvokeSeen {
		r.seq++
	} else {
		r.firstInvokeSeen = true
	}
	r.depth++

	if ev.Level != r.depth {
		r.stats.Aborted = true
		r.anomaly("invoke level disagrees with depth, aborting batch",
			"program_id", ev.ProgramID, "level", ev.Level, "depth", r.depth)
		return true
	}

	parent := ""
	if len(r.callStack) > 1 {
		parent = r.callStack[0]
	}

	id := fmt.Sprintf("%s-%d-%d", ev.ProgramID, r.slot, r.seq)
	ctx := NewLogContext(ev.ProgramID, len(r.callStack), id, r.instructionIndex, r.slot, r.signature)
	ctx.ParentProgramID = parent
	ctx.RawLogs = append(ctx.RawLogs, ev.Original)

	r.results = append(r.results, ctx)
	return false
}

func (r *parseRun) handleSuccess(ev Event) {
	if cur := r.currentContext(); cur != nil {
		cur.RawLogs = append(cur.RawLogs, ev.Original)
	}

	if len(r.callStack) > 0 {
		popped := r.callStack[len(r.callStack)-1]
		r.callStack = r.callStack[:len(r.callStack)-1]
		r.callIDs = r.callIDs[:len(r.callIDs)-1]
		if popped != ev.ProgramID {
			r.anomaly("success program id does not match call stack top", "top", popped, "success", ev.ProgramID)
		}
	} else {
		r.anomaly("success with empty call stack", "program_id", ev.ProgramID)
	}

	r.depth--
	if r.depth == 0 {
		r.instructionIndex++
	}
}

// handleFailed does not decrement depth nor advance instructionIndex. This
// is the source of the depth/call-stack drift: depth only ever moves in
// step with a matching Success, never with a Failed.
func (r *parseRun) handleFailed(ev Event) {
	if cur := r.currentContext(); cur != nil {
		cur.RawLogs = append(cur.RawLogs, ev.Original)
		cur.Errors = append(cur.Errors, ev.Err)
		cur.TransactionError = r.txError
	}

	if len(r.callStack) > 0 {
		popped := r.callStack[len(r.callStack)-1]
		r.callStack = r.callStack[:len(r.callStack)-1]
		r.callIDs = r.callIDs[:len(r.callIDs)-1]
		if popped != ev.ProgramID {
			r.anomaly("failed program id does not match call stack top", "top", popped, "failed", ev.ProgramID)
		}
	} else {
		r.anomaly("failed with empty call stack", "program_id", ev.ProgramID)
	}
}

func (r *parseRun) handleCompleteFailed(ev Event) {
	if cur := r.currentContext(); cur != nil {
		cur.RawLogs = append(cur.RawLogs, ev.Original)
		cur.Errors = append(cur.Errors, ev.Err)
		cur.TransactionError = r.txError
	}
}

func (r *parseRun) handleLog(ev Event) {
	if cur := r.currentContext(); cur != nil {
		cur.RawLogs = append(cur.RawLogs, ev.Original)
		cur.LogMessages = append(cur.LogMessages, ev.Message)
	}
}

func (r *parseRun) handleData(ev Event) {
	if cur := r.currentContext(); cur != nil {
		cur.RawLogs = append(cur.RawLogs, ev.Original)
		cur.DataLogs = append(cur.DataLogs, ev.Payload)
	}
}

func (r *parseRun) appendRawOnly(original string) {
	if cur := r.currentContext(); cur != nil {
		cur.RawLogs = append(cur.RawLogs, original)
	}
}

func (r *parseRun) handleReturn(ev Event) {
	cur := r.currentContext()
	if cur == nil {
		return
	}
	cur.InvokeResult = ev.Message
	if len(r.callStack) == 0 || r.callStack[len(r.callStack)-1] != ev.ProgramID {
		r.anomaly("return program id does not match call stack top", "return", ev.ProgramID)
	}
}

func (r *parseRun) handleTruncated() {
	r.stats.Truncated = true
	if cur := r.currentContext(); cur != nil {
		cur.InvokeResult = "Log truncated"
	}
}

// handleUnclassified appends the normalized form of the line if
// normalization altered it, otherwise the original. Unlike every other
// event, an empty call stack (unclassified before any Invoke) discards the
// line outright rather than falling back to the last-emitted context.
func (r *parseRun) handleUnclassified(ev Event) {
	cur := r.stackTopContext()
	if cur == nil {
		r.anomaly("unclassified line with empty call stack, discarded", "line", ev.Original)
		return
	}

	attributed := ev.Original
	if ev.UsedNormalization {
		attributed = ev.NormalizedText
	}
	cur.RawLogs = append(cur.RawLogs, attributed)
}
