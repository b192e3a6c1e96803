package upload

import (
	"context"
	"io"
	"mime"
	"path"
	"strings"
)

// Object is a single upload request.
type Object struct {
	Bucket      string
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Uploader stores one object. Implementations must be safe for concurrent
// use: a single client serves a whole batch.
type Uploader interface {
	Upload(ctx context.Context, obj Object) error
}

// ClientFactory builds a fresh Uploader. It is called once at the start of
// a run and again at every client rotation.
type ClientFactory func(ctx context.Context) (Uploader, error)

// Key joins the destination prefix and a relative file key.
func Key(prefix, rel string) string {
	prefix = strings.Trim(strings.ReplaceAll(prefix, `\`, "/"), "/")
	prefix = strings.TrimPrefix(prefix, "./")
	if prefix == "" || prefix == "." {
		return rel
	}
	return prefix + "/" + rel
}

// ContentType guesses the MIME type from the key's extension.
func ContentType(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
