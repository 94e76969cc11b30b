package atpack

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Parser loads AtPack archives into device models. The zero value is
// usable; NewParser applies the defaults explicitly.
type Parser struct {
	// Client is used by ParseURL. nil means http.DefaultClient.
	Client *http.Client

	// MaxArchiveSize bounds the archive and each entry in bytes.
	// Zero means DefaultMaxArchiveSize.
	MaxArchiveSize int64
}

// NewParser returns a Parser with default limits.
func NewParser() *Parser {
	return &Parser{MaxArchiveSize: DefaultMaxArchiveSize}
}

// ParseURL fetches an archive over HTTP and parses it. The context bounds
// the fetch; parsing itself is in-memory and not cancellable.
func (p *Parser) ParseURL(ctx context.Context, rawURL string) (*AtPack, error) {
	data, err := FetchArchive(ctx, p.Client, rawURL, p.MaxArchiveSize)
	if err != nil {
		return nil, err
	}

	name := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		name = path.Base(u.Path)
	}
	return p.ParseBytes(data, name)
}

// ParseBytes parses an in-memory AtPack archive.
//
// Failures are isolated per device: an unparsable fragment lands in
// Skipped with its reason, and every other device still loads. Only
// archive- and descriptor-level problems fail the whole load.
func (p *Parser) ParseBytes(data []byte, filename string) (*AtPack, error) {
	if !isZipArchive(data) {
		return nil, fmt.Errorf("%w: missing zip signature", ErrArchiveFormat)
	}

	contents, err := LoadArchive(data, p.MaxArchiveSize)
	if err != nil {
		return nil, err
	}

	descPath, descData, err := findDescriptor(contents)
	if err != nil {
		return nil, err
	}
	meta, version, err := extractMetadata(descData, descPath)
	if err != nil {
		return nil, err
	}
	declared := declaredDevices(descData)
	books := descriptorBooks(descData)

	pack := &AtPack{
		LoadID:     uuid.NewString(),
		SourceFile: filename,
		LoadedAt:   time.Now().UTC(),
		Metadata:   meta,
		Version:    version,
	}

	// Devices come out in archive declaration order. A later fragment
	// redefining a name replaces the earlier model in place.
	position := make(map[string]int)
	for _, fragPath := range contents.WithExtension(".atdf") {
		fragData, _ := contents.Bytes(fragPath)

		var doc xmlDeviceFile
		if err := decodeFragment(fragData, &doc, fragPath); err != nil {
			reason := fmt.Errorf("%w: %v", ErrDeviceParse, err).Error()
			pack.Skipped = append(pack.Skipped, SkippedDevice{
				Name:   strings.TrimSuffix(path.Base(fragPath), path.Ext(fragPath)),
				Reason: reason,
			})
			pack.Warnings = append(pack.Warnings, Warning{
				Code:    WarnDeviceSkipped,
				Message: reason,
			})
			continue
		}

		for _, rawDev := range doc.Devices {
			name := rawDev.Name
			warn := func(code, message string) {
				pack.Warnings = append(pack.Warnings, Warning{
					Code:    code,
					Message: message,
					Device:  name,
				})
			}
			dev := buildDevice(doc, rawDev, books, warn)

			if at, seen := position[name]; seen {
				pack.Warnings = append(pack.Warnings, Warning{
					Code:    WarnDuplicateDevice,
					Message: fmt.Sprintf("device %s redefined by %s, replacing earlier definition", name, fragPath),
					Device:  name,
				})
				pack.Devices[at] = dev
				continue
			}
			position[name] = len(pack.Devices)
			pack.Devices = append(pack.Devices, dev)
		}
	}

	// Descriptor declarations without a fragment are diagnostics, not
	// failures.
	for _, name := range declared {
		if _, ok := position[name]; ok {
			continue
		}
		if skippedContains(pack.Skipped, name) {
			continue
		}
		pack.Skipped = append(pack.Skipped, SkippedDevice{
			Name:   name,
			Reason: "declared in descriptor but no device fragment found",
		})
		pack.Warnings = append(pack.Warnings, Warning{
			Code:    WarnFragmentMissing,
			Message: "no device fragment for declared device " + name,
			Device:  name,
		})
	}

	return pack, nil
}

func skippedContains(skipped []SkippedDevice, name string) bool {
	for _, s := range skipped {
		if s.Name == name {
			return true
		}
	}
	return false
}
