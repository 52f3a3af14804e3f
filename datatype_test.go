package proteomisc

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"testing"
)

const batchContents = "Accession\tMaster\nP1\tIsMasterProtein\nP2\tIsMasterProtein\n"

func TestDecompressGzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte("Accession\tMaster\nP1\tIsMasterProtein\n")); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	r, dt, err := Decompress(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if dt != DataTypeGzip {
		t.Errorf("detected %s, expected gzip", dt)
	}

	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "Accession\tMaster\nP1\tIsMasterProtein\n" {
		t.Errorf("unexpected contents %q", got)
	}
}

func TestDecompressPlain(t *testing.T) {
	for _, in := range []string{"a,b\n1,2\n", "ab", ""} {
		r, dt, err := Decompress([]byte(in))
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if dt != DataTypeNoCompression {
			t.Errorf("%q: detected %s", in, dt)
		}
		got, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != in {
			t.Errorf("got %q, expected %q", got, in)
		}
	}
}

func TestDecompressZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("batch.tsv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(w, batchContents); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	assertDecompresses(t, buf.Bytes(), DataTypeZip)
}

func TestDecompressFixtures(t *testing.T) {
	for _, v := range []struct {
		Path     string
		Expected DataType
	}{
		{"testdata/batch.tsv.bz2", DataTypeBZip2},
		{"testdata/batch.tsv.xz", DataTypeXZ},
	} {
		t.Run(v.Expected.String(), func(t *testing.T) {
			b, err := os.ReadFile(v.Path)
			if err != nil {
				t.Fatal(err)
			}
			assertDecompresses(t, b, v.Expected)
		})
	}
}

func TestDecompressUnixCompress(t *testing.T) {
	// "a" as written by compress(1)
	in := []byte{0x1f, 0x9d, 0x90, 0x61, 0x00}

	dt, err := DetectDataType(bytes.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if dt != DataTypeZ {
		t.Errorf("detected %s, expected Z", dt)
	}

	r, _, err := Decompress(in)
	if !errors.Is(err, ErrUnsupportedCompression) {
		t.Errorf("expected ErrUnsupportedCompression, got %v", err)
	}
	if r != nil {
		t.Errorf("expected no reader")
	}
}

func assertDecompresses(t *testing.T, in []byte, expected DataType) {
	t.Helper()

	r, dt, err := Decompress(in)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if dt != expected {
		t.Errorf("detected %s, expected %s", dt, expected)
	}

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != batchContents {
		t.Errorf("got %q, expected %q", got, batchContents)
	}
}
