// -----------------------------------------------------------------------
// Transcription work units and per-unit results
// -----------------------------------------------------------------------

package models

import "time"

// WorkItem is one independently transcribed piece of input: either the whole
// input file or a single page split out of a multi-page document. Index is
// the zero-based position in the original page order and is load-bearing:
// final transcript ordering is reconstructed from it.
type WorkItem struct {
	Index int
	Path  string
}

// TokenUsage carries the usage counters reported by the remote service for
// one generation call. Counts are cumulative for the call.
type TokenUsage struct {
	PromptTokens int32
	OutputTokens int32
	TotalTokens  int32
}

// UnitOutput is the provider-side outcome of transcribing one file: the
// visible transcript text, any hidden reasoning text, and usage counters.
// Err is descriptive only; when set, Text holds a bracketed placeholder so
// the aggregator still has something positional to place.
type UnitOutput struct {
	Text    string
	Thought string
	Usage   *TokenUsage
	Err     string
}

// Failed reports whether this output represents a per-unit failure.
func (o *UnitOutput) Failed() bool {
	return o != nil && o.Err != ""
}

// UnitResult pairs a UnitOutput with the index of its originating WorkItem.
// Every submitted WorkItem produces exactly one UnitResult, keyed by index,
// even when the remote call fails entirely. A nil slot in the dispatcher's
// result slice means the worker itself crashed (missing part).
type UnitResult struct {
	Index  int
	Output UnitOutput
}

// RunResult aggregates one transcription invocation.
type RunResult struct {
	RunID       string
	Text        string
	Parts       int
	TotalTokens int32
	HasUsage    bool
	Thoughts    []string
	Elapsed     time.Duration
	Partial     bool
}
