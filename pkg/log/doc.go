// Package log reconstructs the call-stack structure implicit in a Solana
// transaction's log lines.
//
// A validator emits, per transaction or subscription frame, a flat ordered
// sequence of textual log lines recording program invocations and their
// cross-program invocations (CPI). This package turns that flat stream back
// into one LogContext per program invocation, preserving invocation order,
// parent/child relationships, and per-invocation classification of lines
// into message/data/error/raw buckets.
//
// The entry points are ParseLogs, ParseLogsBasic, and ParseLogsFromPayload.
// All three are pure functions of their inputs: no I/O, no goroutines, no
// package-level mutable state beyond a lazily-initialized, read-only regex
// cache and the shared scratch-buffer pool used for line normalization, both
// safe to share across goroutines.
//
// Example usage:
//
//	ctx := log.NewParser()
//	contexts := ctx.ParseLogsBasic(lines, log.NewAllowAllFilter())
//	for _, c := range contexts {
//	    fmt.Println(c.ProgramID, c.Depth, c.LogMessages)
//	}
package log
