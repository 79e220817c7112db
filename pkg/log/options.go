package log

import (
	"log/slog"

	"github.com/sologger/sologger-go/pkg/buffer"
)

// ParserOption configures a Parser at construction time. The core has no
// environment variables, no files, no network, and no CLI, so configuration
// is expressed as functional options on the in-process constructor.
type ParserOption func(*Parser)

// WithLogger sets the diagnostic logger used to record the non-fatal
// semantic anomalies (callstack mismatches, stray events).
// Anomalies are always logged, never returned as errors.
func WithLogger(logger *slog.Logger) ParserOption {
	return func(p *Parser) {
		p.SetLogger(logger)
	}
}

// WithClassifier injects a pre-built LineClassifier, for tests or for a
// hand-tuned alternative pattern set.
func WithClassifier(classifier *LineClassifier) ParserOption {
	return func(p *Parser) {
		if classifier != nil {
			p.classifier = classifier
		}
	}
}

// WithBufferPool overrides the buffer pool the Parser's classifier uses for
// line-normalization scratch space. By default the classifier draws from
// buffer.Default(), the package-wide pool; this lets a caller running many
// independently-tuned Parsers share a pool sized for its own workload
// instead.
func WithBufferPool(pool *buffer.Pool) ParserOption {
	return func(p *Parser) {
		if pool != nil {
			p.classifier.pool = pool
		}
	}
}
