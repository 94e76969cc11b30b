package atpack

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"sort"
	"strings"
)

// DefaultMaxArchiveSize is the default limit for one archive (and for any
// single file inside it).
const DefaultMaxArchiveSize = 64 * 1024 * 1024

// ArchiveContents holds the extracted files of one AtPack container,
// preserving the archive's declaration order.
type ArchiveContents struct {
	byPath map[string][]byte
	order  []string
}

// Bytes returns the raw content of one archive-relative path.
func (c *ArchiveContents) Bytes(p string) ([]byte, bool) {
	data, ok := c.byPath[p]
	return data, ok
}

// WithExtension returns the paths with the given extension (case
// insensitive), in archive declaration order.
func (c *ArchiveContents) WithExtension(ext string) []string {
	var out []string
	for _, p := range c.order {
		if strings.EqualFold(path.Ext(p), ext) {
			out = append(out, p)
		}
	}
	return out
}

// isZipArchive reports whether data starts with the ZIP magic.
func isZipArchive(data []byte) bool {
	return len(data) >= 4 && data[0] == 0x50 && data[1] == 0x4B
}

// LoadArchive decompresses an AtPack container into named byte buffers.
//
// The load is atomic: any unreadable entry fails the whole archive with
// ErrArchiveFormat, never a partial result. Directory entries are skipped.
func LoadArchive(data []byte, maxEntrySize int64) (*ArchiveContents, error) {
	if maxEntrySize <= 0 {
		maxEntrySize = DefaultMaxArchiveSize
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveFormat, err)
	}

	contents := &ArchiveContents{byPath: make(map[string][]byte, len(reader.File))}
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		data, err := readZipFile(file, maxEntrySize)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrArchiveFormat, file.Name, err)
		}
		name := path.Clean(file.Name)
		if _, seen := contents.byPath[name]; !seen {
			contents.order = append(contents.order, name)
		}
		contents.byPath[name] = data
	}

	return contents, nil
}

func readZipFile(f *zip.File, maxSize int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening archive entry: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading archive entry: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// FetchArchive retrieves an AtPack archive over HTTP. Any transport or
// non-2xx failure yields ErrFetch; the body is size-limited.
func FetchArchive(ctx context.Context, client *http.Client, url string, maxSize int64) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxArchiveSize
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: HTTP %d", ErrFetch, url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if int64(len(data)) > maxSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// shallowestFirst orders archive paths by directory depth, then
// lexicographically. Used to pick the top-level descriptor.
func shallowestFirst(paths []string) []string {
	out := make([]string, len(paths))
	copy(out, paths)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := strings.Count(out[i], "/"), strings.Count(out[j], "/")
		if di != dj {
			return di < dj
		}
		return out[i] < out[j]
	})
	return out
}
