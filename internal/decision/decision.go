// Package decision defines the policy enum and callback type used to route
// user-interactive choices (disk full, source unavailable) out of the
// core pipeline, per spec.md §1's "decision callback" collaborator.
package decision

import "fmt"

// Policy selects how a routed condition is resolved.
type Policy string

const (
	// Proceed continues despite the condition.
	Proceed Policy = "proceed"
	// Prompt delegates the choice to a Callback.
	Prompt Policy = "prompt"
	// Abort fails the job immediately.
	Abort Policy = "abort"
)

// UnmarshalYAML implements a strict enum decode so a typo in configuration
// (e.g. "procede") is rejected at load time rather than silently treated
// as some default.
func (p *Policy) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch Policy(raw) {
	case Proceed, Prompt, Abort:
		*p = Policy(raw)
		return nil
	default:
		return fmt.Errorf("invalid policy %q: must be one of proceed, prompt, abort", raw)
	}
}

// Kind identifies what condition is being routed through a Callback, so a
// single callback implementation can discriminate between a disk-full
// prompt and a source-unavailable prompt.
type Kind string

const (
	// TargetDriveFull indicates the pre-apply free-space check failed.
	TargetDriveFull Kind = "target-drive-full"
	// SourceUnavailable indicates a configured source could not be
	// reached before scanning.
	SourceUnavailable Kind = "source-unavailable"
)

// Request describes one condition routed to a Callback under Prompt
// policy.
type Request struct {
	Kind    Kind
	Detail  string
	Source  string
	Backlog int64 // bytes short, for TargetDriveFull; 0 otherwise
}

// Callback resolves a Request into a boolean: true to proceed, false to
// abort. It is invoked synchronously from the same thread as the rest of
// the pipeline, per spec.md §5.
type Callback func(Request) bool

// Resolve applies policy to a request, invoking callback only under
// Prompt. A nil callback under Prompt is treated as Abort, since there's
// nowhere to route the question.
func Resolve(policy Policy, request Request, callback Callback) bool {
	switch policy {
	case Proceed:
		return true
	case Abort:
		return false
	case Prompt:
		if callback == nil {
			return false
		}
		return callback(request)
	default:
		return false
	}
}
