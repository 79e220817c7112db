package log

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/sologger/sologger-go/pkg/buffer"
)

// EventKind is the closed alphabet of log line classifications.
type EventKind int

const (
	// EventUnclassified is returned when a line (and its normalized form,
	// if normalization was attempted) matches no known pattern.
	EventUnclassified EventKind = iota
	// EventInvoke is "Program <PID> invoke [<N>]".
	EventInvoke
	// EventSuccess is "Program <PID> success".
	EventSuccess
	// EventFailed is "Program <PID> failed: <MSG>".
	EventFailed
	// EventCompleteFailed is "Program failed to complete: <MSG>".
	EventCompleteFailed
	// EventLog is "Program log: <MSG>".
	EventLog
	// EventData is "Program data: <PAYLOAD>".
	EventData
	// EventConsumed is "Program <PID> consumed <N> of <M> compute units".
	EventConsumed
	// EventConsumption is "Program consumption: <REST>".
	EventConsumption
	// EventTruncated is the exact line "Log truncated".
	EventTruncated
	// EventReturn is "Program return: <PID> <MSG>".
	EventReturn
)

func (k EventKind) String() string {
	switch k {
	case EventInvoke:
		return "Invoke"
	case EventSuccess:
		return "Success"
	case EventFailed:
		return "Failed"
	case EventCompleteFailed:
		return "CompleteFailed"
	case EventLog:
		return "Log"
	case EventData:
		return "Data"
	case EventConsumed:
		return "Consumed"
	case EventConsumption:
		return "Consumption"
	case EventTruncated:
		return "Truncated"
	case EventReturn:
		return "Return"
	default:
		return "Unclassified"
	}
}

// Event is the result of classifying a single raw log line.
type Event struct {
	// Kind is the classification of the line.
	Kind EventKind

	// ProgramID is populated for Invoke, Success, Failed, and Return.
	ProgramID string

	// Level is the stack-height token captured from an Invoke line.
	Level int

	// Err is the error text captured from Failed or CompleteFailed.
	Err string

	// Message holds the payload of Log and Return lines.
	Message string

	// Payload holds the payload of Data lines.
	Payload string

	// Original is the raw line exactly as received.
	Original string

	// UsedNormalization is true if the normalization pass altered the line
	// text while attempting to classify it, regardless of whether
	// classification ultimately succeeded.
	UsedNormalization bool

	// NormalizedText is the line after normalization; valid only when
	// UsedNormalization is true.
	NormalizedText string
}

// pidPattern is the base58 alphabet, length >= 32.
const pidPattern = `[1-9A-HJ-NP-Za-km-z]{32,}`

// classifierPatterns holds the compiled, anchored, whole-line patterns for
// the closed event alphabet. Patterns are immutable after construction and
// safe to share across goroutines.
type classifierPatterns struct {
	invoke         *regexp.Regexp
	success        *regexp.Regexp
	failed         *regexp.Regexp
	completeFailed *regexp.Regexp
	log            *regexp.Regexp
	data           *regexp.Regexp
	consumed       *regexp.Regexp
	consumption    *regexp.Regexp
	truncated      *regexp.Regexp
	ret            *regexp.Regexp
}

func compileClassifierPatterns() *classifierPatterns {
	return &classifierPatterns{
		invoke:         regexp.MustCompile(`^Program (` + pidPattern + `) invoke \[([0-9]+)\]$`),
		success:        regexp.MustCompile(`^Program (` + pidPattern + `) success$`),
		failed:         regexp.MustCompile(`^Program (` + pidPattern + `) failed: (.+)$`),
		completeFailed: regexp.MustCompile(`^Program failed to complete: (.+)$`),
		log:            regexp.MustCompile(`^Program log: (.*)$`),
		data:           regexp.MustCompile(`^Program data: (.*)$`),
		consumed:       regexp.MustCompile(`^Program (` + pidPattern + `) consumed ([0-9]+) of ([0-9]+) compute units$`),
		consumption:    regexp.MustCompile(`^Program consumption: (.*)$`),
		truncated:      regexp.MustCompile(`^Log truncated$`),
		ret:            regexp.MustCompile(`^Program return: (` + pidPattern + `) (.*)$`),
	}
}

// globalPatterns is the process-wide, lazily-initialized, race-safe compiled
// pattern set. Every LineClassifier built by NewLineClassifier uses it;
// WithClassifier installs a pre-built LineClassifier into a Parser.
var globalPatterns = sync.OnceValue(compileClassifierPatterns)

// LineClassifier maps one raw log line to exactly one Event.
type LineClassifier struct {
	patterns *classifierPatterns
	pool     *buffer.Pool
}

// NewLineClassifier returns a LineClassifier backed by the shared,
// lazily-compiled pattern set and the shared process-wide buffer pool.
func NewLineClassifier() *LineClassifier {
	return &LineClassifier{patterns: globalPatterns(), pool: buffer.Default()}
}

// Classify maps line to an Event. If line does not match any pattern, a
// normalization pass (strip leading/trailing whitespace, remove embedded
// newlines, collapse interior whitespace runs) is attempted before falling
// back to EventUnclassified.
func (c *LineClassifier) Classify(line string) Event {
	if ev, ok := c.match(line); ok {
		ev.Original = line
		return ev
	}

	normalized, changed := c.normalizeLine(line)
	if !changed {
		return Event{Kind: EventUnclassified, Original: line}
	}

	if ev, ok := c.match(normalized); ok {
		ev.Original = line
		ev.UsedNormalization = true
		ev.NormalizedText = normalized
		return ev
	}

	return Event{
		Kind:              EventUnclassified,
		Original:          line,
		UsedNormalization: true,
		NormalizedText:    normalized,
	}
}

// match tries every pattern in event-kind order and returns the first match
// with its fields extracted. Original is left unset; the caller fills it in.
func (c *LineClassifier) match(line string) (Event, bool) {
	p := c.patterns

	if m := p.invoke.FindStringSubmatch(line); m != nil {
		level, err := strconv.Atoi(m[2])
		if err != nil {
			return Event{}, false
		}
		return Event{Kind: EventInvoke, ProgramID: m[1], Level: level}, true
	}
	if m := p.success.FindStringSubmatch(line); m != nil {
		return Event{Kind: EventSuccess, ProgramID: m[1]}, true
	}
	if m := p.failed.FindStringSubmatch(line); m != nil {
		return Event{Kind: EventFailed, ProgramID: m[1], Err: m[2]}, true
	}
	if m := p.completeFailed.FindStringSubmatch(line); m != nil {
		return Event{Kind: EventCompleteFailed, Err: m[1]}, true
	}
	if m := p.log.FindStringSubmatch(line); m != nil {
		return Event{Kind: EventLog, Message: m[1]}, true
	}
	if m := p.data.FindStringSubmatch(line); m != nil {
		return Event{Kind: EventData, Payload: m[1]}, true
	}
	if m := p.consumed.FindStringSubmatch(line); m != nil {
		return Event{Kind: EventConsumed, ProgramID: m[1]}, true
	}
	if m := p.consumption.FindStringSubmatch(line); m != nil {
		return Event{Kind: EventConsumption}, true
	}
	if p.truncated.MatchString(line) {
		return Event{Kind: EventTruncated}, true
	}
	if m := p.ret.FindStringSubmatch(line); m != nil {
		return Event{Kind: EventReturn, ProgramID: m[1], Message: m[2]}, true
	}

	return Event{}, false
}

// normalizeLine strips leading/trailing whitespace, removes embedded
// newlines, and collapses runs of interior whitespace to single spaces. It
// reports whether the result differs from the input. Scratch space comes
// from c's buffer pool (the shared process-wide pool by default, or a
// caller-supplied one installed via WithBufferPool).
func (c *LineClassifier) normalizeLine(s string) (normalized string, changed bool) {
	trimmed := trimSpaceASCII(s)
	if trimmed == "" {
		return trimmed, trimmed != s
	}

	scratch := c.pool.Get(len(trimmed))
	defer c.pool.Put(scratch)

	n := 0
	pendingSpace := false
	for i := 0; i < len(trimmed); i++ {
		ch := trimmed[i]
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			if n > 0 {
				pendingSpace = true
			}
			continue
		}
		if pendingSpace {
			scratch[n] = ' '
			n++
			pendingSpace = false
		}
		scratch[n] = ch
		n++
	}

	normalized = string(scratch[:n])
	return normalized, normalized != s
}

func trimSpaceASCII(s string) string {
	start, end := 0, len(s)
	for start < end && isASCIISpace(s[start]) {
		start++
	}
	for end > start && isASCIISpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isASCIISpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
