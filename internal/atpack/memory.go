package atpack

import "strings"

// segmentClassRules classifies memory segments that lack an explicit type
// attribute by keywords in their name. First match wins, so more specific
// keywords sit above generic ones.
var segmentClassRules = []struct {
	Keyword string
	Class   string
}{
	{"lockbit", "lockbits"},
	{"lock", "lockbits"},
	{"fuse", "fuses"},
	{"eeprom", "eeprom"},
	{"flash", "flash"},
	{"prog", "flash"},
	{"sram", "sram"},
	{"iram", "sram"},
	{"ram", "sram"},
}

// classifySegment returns the segment class from the explicit type when
// present, else from the name heuristics. "" means unclassified; such
// segments still populate AllSegments, just not the named shortcuts.
func classifySegment(typ, name string) string {
	if typ != "" {
		return normalizeSegmentType(typ)
	}
	lower := strings.ToLower(name)
	for _, rule := range segmentClassRules {
		if strings.Contains(lower, rule.Keyword) {
			return rule.Class
		}
	}
	return ""
}

// normalizeSegmentType maps vendor type spellings onto the shortcut names.
func normalizeSegmentType(typ string) string {
	switch strings.ToLower(typ) {
	case "flash", "progmem", "program":
		return "flash"
	case "ram", "sram", "regs":
		return "sram"
	case "eeprom":
		return "eeprom"
	case "fuses", "fuse":
		return "fuses"
	case "lockbits", "lockbit", "lock":
		return "lockbits"
	default:
		return strings.ToLower(typ)
	}
}

// buildMemoryLayout converts address spaces and their segments into the
// memory model. Address spaces and segments both land in AllSegments,
// discriminated by IsAddressSpace; the named shortcuts point at the first
// segment of each class.
func buildMemoryLayout(spaces []xmlAddressSpace) MemoryLayout {
	var layout MemoryLayout

	for _, space := range spaces {
		start, _ := parseNum(space.Start)
		size, _ := parseNum(space.Size)
		name := space.Name
		if name == "" {
			name = space.ID
		}
		layout.AllSegments = append(layout.AllSegments, MemorySegment{
			Name:           name,
			Start:          uint32(start),
			Size:           uint32(size),
			IsAddressSpace: true,
		})

		for _, seg := range space.Segments {
			segStart, _ := parseNum(seg.Start)
			segSize, _ := parseNum(seg.Size)
			pageSize, _ := parseNum(seg.PageSize)
			layout.AllSegments = append(layout.AllSegments, MemorySegment{
				Name:               seg.Name,
				Start:              uint32(segStart),
				Size:               uint32(segSize),
				Type:               classifySegment(seg.Type, seg.Name),
				PageSize:           uint32(pageSize),
				RW:                 seg.RW,
				ParentAddressSpace: name,
			})
		}
	}

	// Shortcuts point into AllSegments, so every shortcut is by
	// construction also present in the full list.
	for i := range layout.AllSegments {
		seg := &layout.AllSegments[i]
		if seg.IsAddressSpace {
			continue
		}
		switch seg.Type {
		case "flash":
			if layout.Flash == nil {
				layout.Flash = seg
			}
		case "sram":
			if layout.SRAM == nil {
				layout.SRAM = seg
			}
		case "eeprom":
			if layout.EEPROM == nil {
				layout.EEPROM = seg
			}
		case "fuses":
			if layout.Fuses == nil {
				layout.Fuses = seg
			}
		case "lockbits":
			if layout.Lockbits == nil {
				layout.Lockbits = seg
			}
		}
	}

	return layout
}
