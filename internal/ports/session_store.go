package ports

import (
	"context"
	"depot-route-service/internal/domain"
)

// Port: owns one Stop Registry per dispatcher session.
//
// Each session's registry is independent; implementations serialize
// concurrent updates to the same session.
type SessionStore interface {
	// Create an empty session and return its id.
	Create(ctx context.Context) (string, error)
	// Return the session's stops in insertion order.
	Stops(ctx context.Context, sessionID string) ([]domain.Stop, error)
	// Apply fn to the session's registry and persist the outcome.
	// When fn fails nothing is persisted and the error is returned.
	Update(ctx context.Context, sessionID string, fn func(*domain.StopRegistry) error) ([]domain.Stop, error)
}
