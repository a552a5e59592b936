package campusnav

import (
	"fmt"
	"strings"
)

// ConnectivityPolicy defines how edges of the network are derived from survey data
type ConnectivityPolicy uint16

const (
	// POLICY_EXPLICIT_EDGES uses explicit edge list. Missing weights are evaluated via great circle distance
	POLICY_EXPLICIT_EDGES = ConnectivityPolicy(iota + 1)
	// POLICY_LINKAGE derives one edge per "next/series" link of every point
	POLICY_LINKAGE
	// POLICY_SURVEY_ORDER connects point i to point i+1. Assumes survey order encodes physical adjacency
	POLICY_SURVEY_ORDER
)

func (iotaIdx ConnectivityPolicy) String() string {
	if iotaIdx < POLICY_EXPLICIT_EDGES || iotaIdx > POLICY_SURVEY_ORDER {
		return "undefined"
	}
	return [...]string{"explicit", "linkage", "survey_order"}[iotaIdx-1]
}

// ParseConnectivityPolicy returns policy for given textual representation
func ParseConnectivityPolicy(s string) (ConnectivityPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "explicit", "edges", "explicit_edges":
		return POLICY_EXPLICIT_EDGES, nil
	case "linkage", "series", "next":
		return POLICY_LINKAGE, nil
	case "survey_order", "order", "sequential":
		return POLICY_SURVEY_ORDER, nil
	default:
		return 0, fmt.Errorf("Unknown connectivity policy '%s'", s)
	}
}

// deriveEdges produces edge records according to the policy.
// Supplied edges are only accepted by the explicit policy: other policies would drop them
func (policy ConnectivityPolicy) deriveEdges(data SurveyData) ([]EdgeRecord, error) {
	if (policy == POLICY_LINKAGE || policy == POLICY_SURVEY_ORDER) && len(data.Edges) > 0 {
		return nil, &ConstructionError{
			Reason:  REASON_POLICY_MISMATCH,
			Message: fmt.Sprintf("%d edges are supplied, but connectivity policy '%s' does not use them (choose '%s')", len(data.Edges), policy, POLICY_EXPLICIT_EDGES),
		}
	}
	switch policy {
	case POLICY_EXPLICIT_EDGES:
		return data.Edges, nil
	case POLICY_LINKAGE:
		edges := make([]EdgeRecord, 0, len(data.Points))
		for _, point := range data.Points {
			for _, next := range point.Next {
				edges = append(edges, EdgeRecord{Source: point.ID, Target: next})
			}
		}
		return edges, nil
	case POLICY_SURVEY_ORDER:
		if len(data.Points) < 2 {
			return nil, nil
		}
		edges := make([]EdgeRecord, 0, len(data.Points)-1)
		for i := 0; i < len(data.Points)-1; i++ {
			edges = append(edges, EdgeRecord{Source: data.Points[i].ID, Target: data.Points[i+1].ID})
		}
		return edges, nil
	default:
		return nil, &ConstructionError{
			Reason:  REASON_UNKNOWN_POLICY,
			Message: fmt.Sprintf("connectivity policy %d is not supported", policy),
		}
	}
}
