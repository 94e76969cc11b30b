package atpack

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// Package descriptor (.pdsc) structures. Only the fields the model needs
// are mapped; everything else in the descriptor is ignored.

type xmlDescriptor struct {
	XMLName       xml.Name     `xml:"package"`
	SchemaVersion string       `xml:"schemaVersion,attr"`
	Name          string       `xml:"name"`
	Vendor        string       `xml:"vendor"`
	Description   string       `xml:"description"`
	URL           string       `xml:"url"`
	Releases      []xmlRelease `xml:"releases>release"`
}

type xmlRelease struct {
	Version string `xml:"version,attr"`
}

// findDescriptor locates the package descriptor in the archive: the
// shallowest *.pdsc entry wins. Vendors place it at the archive root, but
// some repackaged archives nest everything one directory down.
func findDescriptor(contents *ArchiveContents) (string, []byte, error) {
	candidates := contents.WithExtension(".pdsc")
	if len(candidates) == 0 {
		return "", nil, ErrNoDescriptor
	}
	p := shallowestFirst(candidates)[0]
	data, _ := contents.Bytes(p)
	return p, data, nil
}

// extractMetadata reads the descriptor into pack metadata and the pack
// version. Only a missing pack name is fatal; every other field is
// advisory and defaults to "".
func extractMetadata(data []byte, descPath string) (Metadata, string, error) {
	var doc xmlDescriptor
	if err := decodeFragment(data, &doc, descPath); err != nil {
		return Metadata{}, "", err
	}

	meta := Metadata{
		Name:        strings.TrimSpace(doc.Name),
		Vendor:      strings.TrimSpace(doc.Vendor),
		Description: strings.TrimSpace(doc.Description),
		URL:         strings.TrimSpace(doc.URL),
	}
	if meta.Name == "" {
		return Metadata{}, "", ErrMetadataMissing
	}

	// Version: newest release when declared, else the schema version.
	version := doc.SchemaVersion
	if len(doc.Releases) > 0 && doc.Releases[0].Version != "" {
		version = doc.Releases[0].Version
	}

	return meta, version, nil
}

// declaredDevices scans the descriptor for device declarations without
// assuming a fixed nesting: descriptors vary in how deeply the device list
// sits (family/subFamily levels are optional). Any <device> element with a
// Dname or name attribute counts, in document order.
func declaredDevices(data []byte) []string {
	dec := newDecoder(data)

	var names []string
	seen := make(map[string]bool)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) || err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "device" {
			continue
		}
		name := attrValue(se, "Dname")
		if name == "" {
			name = attrValue(se, "name")
		}
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// descriptorBooks extracts pack-level documentation links. They apply to
// every device in the pack; ATDF fragments carry no documentation of
// their own.
func descriptorBooks(data []byte) []DocumentationLink {
	dec := newDecoder(data)

	var links []DocumentationLink
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) || err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "book" {
			continue
		}
		title := attrValue(se, "title")
		name := attrValue(se, "name")
		if title == "" {
			title = name
		}
		if title != "" {
			links = append(links, DocumentationLink{Name: title, URL: name})
		}
	}
	return links
}

func attrValue(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
