package order

import (
	"fmt"
	"os"

	"github.com/sebkasanzew/comoi/internal/order/entity"
)

// TransitionPolicy decides which status changes UpdateStatus accepts.
type TransitionPolicy int

const (
	// PolicyPermissive accepts any status from any status.
	PolicyPermissive TransitionPolicy = iota
	// PolicyForward only walks the lifecycle forward; see forwardTransitions.
	PolicyForward
)

// forwardTransitions is the forward lifecycle. READY may complete directly
// (pickup) or go out for delivery. Terminal statuses have no successors.
var forwardTransitions = map[entity.Status][]entity.Status{
	entity.StatusPending:    {entity.StatusConfirmed, entity.StatusCancelled},
	entity.StatusConfirmed:  {entity.StatusPreparing, entity.StatusCancelled},
	entity.StatusPreparing:  {entity.StatusReady, entity.StatusCancelled},
	entity.StatusReady:      {entity.StatusDelivering, entity.StatusCompleted, entity.StatusCancelled},
	entity.StatusDelivering: {entity.StatusCompleted, entity.StatusCancelled},
	entity.StatusCompleted:  {},
	entity.StatusCancelled:  {},
}

// Allows reports whether from -> to is accepted. Re-applying the current
// status is always accepted so repeated updates stay idempotent.
func (p TransitionPolicy) Allows(from, to entity.Status) bool {
	if from == to {
		return true
	}
	switch p {
	case PolicyPermissive:
		return true
	case PolicyForward:
		for _, next := range forwardTransitions[from] {
			if next == to {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (p TransitionPolicy) String() string {
	switch p {
	case PolicyPermissive:
		return "permissive"
	case PolicyForward:
		return "forward"
	default:
		return fmt.Sprintf("TransitionPolicy(%d)", int(p))
	}
}

func ParseTransitionPolicy(s string) (TransitionPolicy, error) {
	switch s {
	case "", "permissive":
		return PolicyPermissive, nil
	case "forward":
		return PolicyForward, nil
	default:
		return 0, fmt.Errorf("unknown transition policy %q", s)
	}
}

// TransitionPolicyFromEnv reads ORDER_TRANSITION_POLICY.
func TransitionPolicyFromEnv() (TransitionPolicy, error) {
	return ParseTransitionPolicy(os.Getenv("ORDER_TRANSITION_POLICY"))
}
