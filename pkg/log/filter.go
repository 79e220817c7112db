package log

import (
	"github.com/gagliardetto/solana-go"
)

// selectAllSentinel is the caller-facing wildcard meaning "select all".
const selectAllSentinel = "*"

// ProgramFilter decides which program IDs the caller wishes to retain.
//
// Constructed from a caller-supplied set of program ID strings, or from the
// sentinel "*" meaning select all. Membership comparison happens on the
// decoded base58 representation (a solana.PublicKey, 32 bytes) rather than
// on the raw string. Non-base58 entries are stored as unmatchable:
// they decode to nothing and so never compare equal to anything.
type ProgramFilter struct {
	selectAll bool
	programs  []string
	allowed   map[solana.PublicKey]struct{}
}

// NewProgramFilter builds a ProgramFilter from a list of base58 program ID
// strings. An entry equal to "*" selects all; its presence makes every other
// entry irrelevant.
func NewProgramFilter(programIDs []string) *ProgramFilter {
	f := &ProgramFilter{
		programs: append([]string(nil), programIDs...),
		allowed:  make(map[solana.PublicKey]struct{}, len(programIDs)),
	}

	for _, pid := range programIDs {
		if pid == selectAllSentinel {
			f.selectAll = true
			continue
		}
		key, err := solana.PublicKeyFromBase58(pid)
		if err != nil {
			// Non-base58 entries are unmatchable by construction: they are
			// simply never added to the allowed set.
			continue
		}
		f.allowed[key] = struct{}{}
	}

	return f
}

// NewAllowAllFilter returns a ProgramFilter equivalent to NewProgramFilter
// with the "*" sentinel.
func NewAllowAllFilter() *ProgramFilter {
	return &ProgramFilter{selectAll: true, programs: []string{selectAllSentinel}}
}

// SelectAll reports whether this filter selects every program ID.
func (f *ProgramFilter) SelectAll() bool {
	return f.selectAll
}

// Contains reports whether pid is selected by this filter: true if the
// filter selects all, or if pid decodes to a base58 representation present
// in the configured set.
func (f *ProgramFilter) Contains(pid string) bool {
	if f.selectAll {
		return true
	}
	key, err := solana.PublicKeyFromBase58(pid)
	if err != nil {
		return false
	}
	_, ok := f.allowed[key]
	return ok
}

// Programs returns the caller-supplied program ID strings this filter was
// constructed from, for introspection/debugging.
func (f *ProgramFilter) Programs() []string {
	return append([]string(nil), f.programs...)
}
