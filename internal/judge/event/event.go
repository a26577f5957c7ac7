// Package event defines the seven-variant Message tagged union streamed to
// the submitter over server-sent events, and the channel type it travels
// over.
package event

import "judge/internal/judge/model"

// Type discriminates a Message's variant on the wire.
type Type string

const (
	TypeQueued         Type = "Queued"
	TypeCompiling      Type = "Compiling"
	TypeCompilerOutput Type = "CompilerOutput"
	TypeJudging        Type = "Judging"
	TypeSkipping       Type = "Skipping"
	TypeDone           Type = "Done"
	TypeError          Type = "Error"
)

// Message is one of exactly seven variants. Only the fields relevant to
// Type are populated; this mirrors a tagged union with a flat JSON object
// plus a discriminator, the idiom used throughout this codebase's wire
// types.
type Message struct {
	Type Type `json:"type"`

	// Queued
	Total uint32 `json:"total,omitempty"`
	UUID  string `json:"uuid,omitempty"`

	// CompilerOutput
	ExitCode *int32 `json:"exit_code,omitempty"`
	Stderr   string `json:"stderr,omitempty"`

	// Judging
	Verdict *model.Verdict `json:"verdict,omitempty"`

	// Skipping
	EstimatedCount uint32 `json:"estimated_count,omitempty"`

	// Done
	Report *model.Report `json:"report,omitempty"`

	// Error
	Reason string `json:"reason,omitempty"`
}

// Queued builds the Queued variant.
func Queued(total uint32, uuid string) Message {
	return Message{Type: TypeQueued, Total: total, UUID: uuid}
}

// Compiling builds the Compiling variant.
func Compiling() Message {
	return Message{Type: TypeCompiling}
}

// CompilerOutput builds the CompilerOutput variant.
func CompilerOutput(exitCode int32, stderr string) Message {
	return Message{Type: TypeCompilerOutput, ExitCode: &exitCode, Stderr: stderr}
}

// Judging builds the Judging variant.
func Judging(verdict model.Verdict) Message {
	return Message{Type: TypeJudging, Verdict: &verdict}
}

// Skipping builds the Skipping variant.
func Skipping(estimatedCount uint32) Message {
	return Message{Type: TypeSkipping, EstimatedCount: estimatedCount}
}

// Done builds the terminal Done variant.
func Done(report model.Report) Message {
	return Message{Type: TypeDone, Report: &report}
}

// Error builds the terminal Error variant.
func Error(reason string) Message {
	return Message{Type: TypeError, Reason: reason}
}

// Terminal reports whether the message ends the stream.
func (m Message) Terminal() bool {
	return m.Type == TypeDone || m.Type == TypeError
}

// Channel is the outbound event stream a submission writes to. Its
// capacity is bounded (spec: 64) so a slow consumer applies backpressure
// rather than unbounded buffering.
type Channel chan Message

// NewChannel allocates a bounded event channel.
func NewChannel() Channel {
	return make(Channel, 64)
}
