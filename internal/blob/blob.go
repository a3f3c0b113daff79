// Package blob stores uploaded gift images behind a small interface so the
// rest of the app does not care whether files land on local disk or in an
// S3-compatible bucket. The implementation is chosen once at startup.
package blob

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists opaque binary objects and returns a reference that can be
// stored alongside the owning record and later served or deleted.
type Store interface {
	// Put writes data under a freshly generated key derived from filename's
	// extension and returns the reference.
	Put(ctx context.Context, filename string, data []byte) (string, error)
	// Delete removes the object for ref. Deleting a missing object is not
	// an error.
	Delete(ctx context.Context, ref string) error
}

// objectKey builds a collision-free key for an upload, keeping the original
// extension so content type can be inferred when serving.
func objectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return uuid.NewString() + ext
}
