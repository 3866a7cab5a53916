package blob_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskdeck/internal/blob"
)

func TestPutOpenRoundtrip(t *testing.T) {
	d := blob.Dir{Root: t.TempDir()}
	ref, err := d.Put(context.Background(), "alice", "notes.txt", strings.NewReader("meeting notes"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if !strings.HasPrefix(ref, "blob:alice/") || !strings.HasSuffix(ref, "/notes.txt") {
		t.Fatalf("unexpected ref %q", ref)
	}
	rc, err := d.Open(ref)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "meeting notes" {
		t.Fatalf("got %q", data)
	}
}

func TestPutRejectsTraversalOwner(t *testing.T) {
	root := filepath.Join(t.TempDir(), "blobs")
	d := blob.Dir{Root: root}
	for _, owner := range []string{"..", ".", "../outside", `..\outside`, "a/b", "/abs"} {
		if _, err := d.Put(context.Background(), owner, "x.txt", strings.NewReader("x")); err == nil {
			t.Fatalf("owner %q: expected error", owner)
		}
	}
	// Nothing may exist outside the root, and the root itself stays untouched.
	entries, err := os.ReadDir(filepath.Dir(root))
	if err != nil {
		t.Fatalf("read parent: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty parent dir, found %d entries", len(entries))
	}
}

func TestPutDefaultsFilename(t *testing.T) {
	d := blob.Dir{Root: t.TempDir()}
	for _, name := range []string{"", "..", "a/../.."} {
		ref, err := d.Put(context.Background(), "alice", name, strings.NewReader("x"))
		if err != nil {
			t.Fatalf("filename %q: %v", name, err)
		}
		if !strings.HasSuffix(ref, "/attachment") {
			t.Fatalf("filename %q: unexpected ref %q", name, ref)
		}
	}
}

func TestOpenRejectsBadRefs(t *testing.T) {
	d := blob.Dir{Root: t.TempDir()}
	for _, ref := range []string{"", "blob:", "blob:../etc/passwd", "blob:/abs/path", "file:alice/x"} {
		if _, err := d.Open(ref); err == nil {
			t.Fatalf("ref %q: expected error", ref)
		}
	}
}
