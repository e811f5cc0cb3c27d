package services

import "depot-route-service/internal/domain"

// A stop resolved to its graph node, waiting to be placed on the route.
type pendingStop struct {
	node     domain.NodeRef
	label    string
	priority domain.Priority
	location domain.Coordinates
}

// partitionPools splits pending stops into the pools that are consumed one
// after another. Insertion order is preserved inside every pool because it
// decides ties in the greedy step.
func partitionPools(pending []pendingStop, mode domain.Mode) [][]pendingStop {
	if mode != domain.ModeUrgencyFirst {
		all := make([]pendingStop, len(pending))
		copy(all, pending)
		return [][]pendingStop{all}
	}

	urgent := make([]pendingStop, 0, len(pending))
	standard := make([]pendingStop, 0, len(pending))
	for _, p := range pending {
		if p.priority == domain.PriorityUrgent {
			urgent = append(urgent, p)
		} else {
			standard = append(standard, p)
		}
	}
	return [][]pendingStop{urgent, standard}
}
