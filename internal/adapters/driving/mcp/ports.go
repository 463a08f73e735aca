package mcp

import "github.com/custodia-labs/docqa/internal/core/ports/driving"

// Ports are the core services the server exposes.
type Ports struct {
	Session driving.QASession

	// Indexes backs the indexes resource; nil hides it.
	Indexes driving.IndexManager
}

// Validate reports a missing session.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSession
	}
	return nil
}
