package storage

import (
	"context"
	"io"
)

// Provider abstracts where uploaded files live. Local disk is the only
// implementation today; the interface is the seam a blob-store provider
// would implement.
type Provider interface {
	// Save writes the file and returns an opaque reference usable with
	// Open, Remove, and the public /uploads path.
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	// Open streams a stored file back; a missing or malformed ref yields
	// an error matching fs.ErrNotExist.
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Remove(ctx context.Context, ref string) error
}
