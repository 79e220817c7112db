package log

// This file holds pure, single-line query functions, independent of any
// Parser state. They share the package's LineClassifier pattern set but
// carry none of the stack/depth bookkeeping the Parser does.

var extractorClassifier = NewLineClassifier()

// GetInvokeProgramID returns the program ID if line classifies as an
// Invoke, else the empty string.
func GetInvokeProgramID(line string) string {
	ev := extractorClassifier.Classify(line)
	if ev.Kind == EventInvoke {
		return ev.ProgramID
	}
	return ""
}

// GetProgramData returns the payload if line classifies as Data, else the
// empty string.
func GetProgramData(line string) string {
	ev := extractorClassifier.Classify(line)
	if ev.Kind == EventData {
		return ev.Payload
	}
	return ""
}

// GetEndProgramID returns the program ID if line classifies as Success,
// Failed, or Return, else the empty string.
func GetEndProgramID(line string) string {
	ev := extractorClassifier.Classify(line)
	switch ev.Kind {
	case EventSuccess, EventFailed, EventReturn:
		return ev.ProgramID
	default:
		return ""
	}
}
