package plan

import (
	"fmt"

	"github.com/frontdown/frontdown/internal/decision"
	"github.com/frontdown/frontdown/internal/fsview"
)

// CheckFreeSpace implements the pre-apply budget check of spec.md §4.4:
// compare the plan's expected bytes copied against the backup root's free
// space, routing an insufficiency through policy/callback. It returns nil
// if the apply should proceed and a non-nil error (wrapping
// ErrInsufficientSpace) if it should not.
func CheckFreeSpace(actions List, target fsview.View, policy decision.Policy, callback decision.Callback) error {
	expected := actions.ExpectedBytesCopied()

	free, err := target.FreeSpace()
	if err != nil {
		return fmt.Errorf("unable to query free space: %w", err)
	}

	if expected <= int64(free) {
		return nil
	}

	shortfall := expected - int64(free)
	request := decision.Request{
		Kind:    decision.TargetDriveFull,
		Detail:  fmt.Sprintf("need %d bytes, have %d free", expected, free),
		Backlog: shortfall,
	}
	if decision.Resolve(policy, request, callback) {
		return nil
	}
	return fmt.Errorf("%w: need %d bytes, have %d free", ErrInsufficientSpace, expected, free)
}
