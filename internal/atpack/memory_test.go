package atpack

import "testing"

func TestClassifySegment(t *testing.T) {
	tests := []struct {
		name    string
		typ     string
		segName string
		want    string
	}{
		{"explicit type wins", "flash", "WEIRD_NAME", "flash"},
		{"progmem normalizes", "progmem", "x", "flash"},
		{"name fallback flash", "", "FLASH", "flash"},
		{"name fallback prog", "", "PROG_MEM", "flash"},
		{"lockbit before lock", "", "LOCKBITS", "lockbits"},
		{"eeprom", "", "EEPROM", "eeprom"},
		{"iram", "", "IRAM", "sram"},
		{"internal sram", "", "INTERNAL_SRAM", "sram"},
		{"fuse", "", "FUSES", "fuses"},
		{"unclassified", "", "SIGNATURES", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifySegment(tt.typ, tt.segName); got != tt.want {
				t.Errorf("classifySegment(%q, %q) = %q, want %q", tt.typ, tt.segName, got, tt.want)
			}
		})
	}
}

func TestBuildMemoryLayout(t *testing.T) {
	spaces := []xmlAddressSpace{
		{
			Name: "prog", Start: "0x0000", Size: "0x1000",
			Segments: []xmlMemorySegment{
				{Name: "FLASH", Start: "0x0000", Size: "0x1000", Type: "flash", PageSize: "0x40"},
			},
		},
		{
			Name: "data", Start: "0x0000", Size: "0x0900",
			Segments: []xmlMemorySegment{
				{Name: "IRAM", Start: "0x0100", Size: "0x0800"},
				{Name: "MAPPED_EEPROM", Start: "0x0900", Size: "0x0200", Type: "eeprom"},
			},
		},
	}
	layout := buildMemoryLayout(spaces)

	// 2 address spaces + 3 segments.
	if len(layout.AllSegments) != 5 {
		t.Fatalf("got %d entries, want 5", len(layout.AllSegments))
	}

	if layout.Flash == nil || layout.Flash.Name != "FLASH" {
		t.Error("flash shortcut missing or wrong")
	}
	if layout.Flash.PageSize != 0x40 {
		t.Errorf("flash page size = %#x, want 0x40", layout.Flash.PageSize)
	}
	if layout.SRAM == nil || layout.SRAM.Name != "IRAM" {
		t.Error("sram shortcut should pick up IRAM by name heuristic")
	}
	if layout.EEPROM == nil || layout.EEPROM.Name != "MAPPED_EEPROM" {
		t.Error("eeprom shortcut missing")
	}
	if layout.Fuses != nil || layout.Lockbits != nil {
		t.Error("absent classes must leave shortcuts nil")
	}

	// Shortcuts must point into AllSegments, never at copies.
	found := false
	for i := range layout.AllSegments {
		if &layout.AllSegments[i] == layout.Flash {
			found = true
		}
	}
	if !found {
		t.Error("flash shortcut does not point into AllSegments")
	}

	for _, seg := range layout.AllSegments {
		if seg.IsAddressSpace && seg.ParentAddressSpace != "" {
			t.Errorf("address space %s has a parent", seg.Name)
		}
		if !seg.IsAddressSpace && seg.ParentAddressSpace == "" {
			t.Errorf("segment %s lost its parent address space", seg.Name)
		}
	}
}
