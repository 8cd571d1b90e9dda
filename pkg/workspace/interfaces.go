package workspace

import "context"

// Reader defines the read side of workspace storage
type Reader interface {
	Load(ctx context.Context) (*Workspace, error)
}

// Store defines the interface for all workspace storage operations
type Store interface {
	Reader
	Save(ctx context.Context, ws *Workspace) error
}
