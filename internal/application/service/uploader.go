package service

import (
	"context"
	"io"
)

// ObjectStore keeps uploaded files. Objects are addressed by "folder/name.ext" keys.
type ObjectStore interface {
	// Upload stores r under object and returns its public URL.
	Upload(ctx context.Context, r io.Reader, object string) (string, error)
	// PublicURL derives a URL for object with an optional provider transformation applied.
	PublicURL(object string, transformation string) (string, error)
	Delete(ctx context.Context, object string) error
}
