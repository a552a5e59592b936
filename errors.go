package campusnav

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConstructionReason describes why network data has been rejected
type ConstructionReason uint16

const (
	REASON_DUPLICATE_NODE = ConstructionReason(iota + 1)
	REASON_UNKNOWN_NODE
	REASON_NEGATIVE_WEIGHT
	REASON_INVALID_WEIGHT
	REASON_INVALID_COORDINATE
	REASON_UNKNOWN_POLICY
	REASON_POLICY_MISMATCH
)

func (iotaIdx ConstructionReason) String() string {
	if iotaIdx < REASON_DUPLICATE_NODE || iotaIdx > REASON_POLICY_MISMATCH {
		return "undefined"
	}
	return [...]string{"duplicate_node", "unknown_node", "negative_weight", "invalid_weight", "invalid_coordinate", "unknown_policy", "policy_mismatch"}[iotaIdx-1]
}

// ConstructionError is returned when network data is malformed. Graph is never returned partially
type ConstructionError struct {
	Reason  ConstructionReason
	NodeID  NodeID
	Other   NodeID
	Weight  float64
	Message string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("Can't construct network (%s): %s", e.Reason, e.Message)
}

// EmptyNetworkError is returned when a node is requested from a network without nodes
type EmptyNetworkError struct{}

func (e *EmptyNetworkError) Error() string {
	return "Network has no nodes"
}

// ErrEmptyNetwork is the EmptyNetworkError instance returned by locators
var ErrEmptyNetwork error = &EmptyNetworkError{}

// NoPathError is returned when target can't be reached from source
type NoPathError struct {
	Source NodeID
	Target NodeID
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("No path between nodes '%d' and '%d'", e.Source, e.Target)
}

// UnknownNodeError is returned when solver is asked about node which is not in the network
type UnknownNodeError struct {
	ID NodeID
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("No such node '%d'", e.ID)
}

// IsConstructionError reports whether err (or any error it wraps) is ConstructionError
func IsConstructionError(err error) bool {
	var target *ConstructionError
	return errors.As(err, &target)
}

// IsEmptyNetwork reports whether err (or any error it wraps) is EmptyNetworkError
func IsEmptyNetwork(err error) bool {
	var target *EmptyNetworkError
	return errors.As(err, &target)
}

// IsNoPath reports whether err (or any error it wraps) is NoPathError
func IsNoPath(err error) bool {
	var target *NoPathError
	return errors.As(err, &target)
}

// IsUnknownNode reports whether err (or any error it wraps) is UnknownNodeError
func IsUnknownNode(err error) bool {
	var target *UnknownNodeError
	return errors.As(err, &target)
}
