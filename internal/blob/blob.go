// Package blob is the attachment storage collaborator: it accepts raw file
// bytes and returns a stable reference string. The core never inspects file
// content or size; it only appends the returned reference to a task.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Store interface {
	Put(ctx context.Context, ownerID, filename string, r io.Reader) (string, error)
	Open(ref string) (io.ReadCloser, error)
}

// Dir stores blobs on the local filesystem under
// <root>/<owner>/<uuid>/<filename> and hands back a blob: reference.
type Dir struct {
	Root string
}

func (d Dir) Put(ctx context.Context, ownerID, filename string, r io.Reader) (string, error) {
	if ownerID == "" {
		return "", fmt.Errorf("owner required")
	}
	// The owner id becomes a single path segment under Root; anything that
	// could climb out of it is an invalid owner, not a storage error.
	if ownerID == "." || ownerID == ".." || strings.ContainsAny(ownerID, `/\`) {
		return "", fmt.Errorf("invalid owner id %q", ownerID)
	}
	filename = filepath.Base(filename)
	if filename == "" || filename == "." || filename == ".." || filename == string(filepath.Separator) {
		filename = "attachment"
	}
	id := uuid.New().String()
	dir := filepath.Join(d.Root, ownerID, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	return fmt.Sprintf("blob:%s/%s/%s", ownerID, id, filename), nil
}

// Open resolves a reference created by Put back to its file.
func (d Dir) Open(ref string) (io.ReadCloser, error) {
	const prefix = "blob:"
	if len(ref) <= len(prefix) || ref[:len(prefix)] != prefix {
		return nil, fmt.Errorf("invalid blob reference %q", ref)
	}
	rel := filepath.Clean(ref[len(prefix):])
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return nil, fmt.Errorf("invalid blob reference %q", ref)
	}
	return os.Open(filepath.Join(d.Root, rel))
}
