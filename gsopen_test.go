package proteomisc

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGlobLocalSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"frontal_batch 2__Proteins.txt", "frontal_batch 1__Proteins.txt", "cingulate_batch 1__Proteins.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := Glob(context.Background(), filepath.Join(dir, "f*"), nil)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join(dir, "frontal_batch 1__Proteins.txt"),
		filepath.Join(dir, "frontal_batch 2__Proteins.txt"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("glob mismatch (-want +got):\n%s", diff)
	}
}

func TestGoogleStorageNeedsClient(t *testing.T) {
	if _, err := Glob(context.Background(), "gs://bucket/raw/f*", nil); err == nil {
		t.Error("expected an error listing gs:// without a client")
	}
	if _, err := OpenInput(context.Background(), "gs://bucket/raw/f1.txt", nil); err == nil {
		t.Error("expected an error opening gs:// without a client")
	}
}

func TestOpenInputLocal(t *testing.T) {
	p := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(p, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	rc, err := OpenInput(context.Background(), p, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "hello" {
		t.Errorf("got %q", b)
	}
}
