// Package alert delivers rendered digests to their destinations.
package alert

import (
	"context"
	"errors"
	"fmt"

	"github.com/elonfeng/aidigest/pkg/digest"
)

// Notifier delivers a digest to a specific destination.
type Notifier interface {
	Name() string
	Send(ctx context.Context, d *digest.Digest) error
}

// Manager broadcasts digests to all registered notifiers.
type Manager struct {
	notifiers []Notifier
}

// NewManager creates a new alert manager.
func NewManager(notifiers []Notifier) *Manager {
	return &Manager{notifiers: notifiers}
}

// HasNotifiers returns true if at least one notifier is configured.
func (m *Manager) HasNotifiers() bool {
	return len(m.notifiers) > 0
}

// Names lists the registered notifiers.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.notifiers))
	for _, n := range m.notifiers {
		names = append(names, n.Name())
	}
	return names
}

// Broadcast sends a digest to every registered notifier. A failing notifier
// does not stop the others.
func (m *Manager) Broadcast(ctx context.Context, d *digest.Digest) error {
	var errs []error
	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, d); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", notifier.Name(), err))
		}
	}
	return errors.Join(errs...)
}
