package atpack

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// zipEntry is one file in a test archive. Order matters: declaration order
// must survive the round trip.
type zipEntry struct {
	name string
	data string
}

func makeZip(t *testing.T, entries []zipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		f, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("creating zip entry %s: %v", e.name, err)
		}
		if _, err := f.Write([]byte(e.data)); err != nil {
			t.Fatalf("writing zip entry %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

func TestLoadArchivePreservesOrder(t *testing.T) {
	data := makeZip(t, []zipEntry{
		{"Pack.pdsc", "<package/>"},
		{"atdf/B.atdf", "<b/>"},
		{"atdf/A.atdf", "<a/>"},
	})

	contents, err := LoadArchive(data, 0)
	if err != nil {
		t.Fatalf("LoadArchive: %v", err)
	}
	// Declaration order, not lexical order: device iteration depends on it.
	want := []string{"atdf/B.atdf", "atdf/A.atdf"}
	got := contents.WithExtension(".atdf")
	if len(got) != len(want) {
		t.Fatalf("got %d paths, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("path[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLoadArchiveRejectsGarbage(t *testing.T) {
	_, err := LoadArchive([]byte("this is not a zip file"), 0)
	if !errors.Is(err, ErrArchiveFormat) {
		t.Errorf("got %v, want ErrArchiveFormat", err)
	}
}

func TestLoadArchiveEntryTooLarge(t *testing.T) {
	data := makeZip(t, []zipEntry{{"big.atdf", "aaaaaaaaaaaaaaaa"}})
	_, err := LoadArchive(data, 8)
	if !errors.Is(err, ErrArchiveFormat) {
		t.Errorf("got %v, want ErrArchiveFormat wrapping the size failure", err)
	}
}

func TestWithExtensionCaseInsensitive(t *testing.T) {
	data := makeZip(t, []zipEntry{
		{"a.ATDF", "<a/>"},
		{"b.atdf", "<b/>"},
		{"c.pdsc", "<c/>"},
	})
	contents, err := LoadArchive(data, 0)
	if err != nil {
		t.Fatalf("LoadArchive: %v", err)
	}
	if got := contents.WithExtension(".atdf"); len(got) != 2 {
		t.Errorf("got %d .atdf entries, want 2", len(got))
	}
}

func TestIsZipArchive(t *testing.T) {
	if isZipArchive([]byte("<?xml")) {
		t.Error("xml misdetected as zip")
	}
	if !isZipArchive(makeZip(t, []zipEntry{{"x", "y"}})) {
		t.Error("real zip not detected")
	}
}

func TestShallowestFirst(t *testing.T) {
	got := shallowestFirst([]string{"deep/dir/z.pdsc", "b.pdsc", "a.pdsc", "dir/c.pdsc"})
	want := []string{"a.pdsc", "b.pdsc", "dir/c.pdsc", "deep/dir/z.pdsc"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestFetchArchive(t *testing.T) {
	payload := makeZip(t, []zipEntry{{"Pack.pdsc", "<package/>"}})

	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(payload)
		}))
		defer srv.Close()

		data, err := FetchArchive(context.Background(), srv.Client(), srv.URL, 0)
		if err != nil {
			t.Fatalf("FetchArchive: %v", err)
		}
		if !bytes.Equal(data, payload) {
			t.Error("fetched bytes differ from served payload")
		}
	})

	t.Run("http error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		_, err := FetchArchive(context.Background(), srv.Client(), srv.URL, 0)
		if !errors.Is(err, ErrFetch) {
			t.Errorf("got %v, want ErrFetch", err)
		}
	})

	t.Run("size limit", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(payload)
		}))
		defer srv.Close()

		_, err := FetchArchive(context.Background(), srv.Client(), srv.URL, 4)
		if !errors.Is(err, ErrFileTooLarge) {
			t.Errorf("got %v, want ErrFileTooLarge", err)
		}
	})
}
