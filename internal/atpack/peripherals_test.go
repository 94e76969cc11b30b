package atpack

import "testing"

func TestMaskToRange(t *testing.T) {
	tests := []struct {
		name       string
		mask       uint64
		wantOffset int
		wantWidth  int
	}{
		{"single low bit", 0x01, 0, 1},
		{"single high bit", 0x80, 7, 1},
		{"contiguous run", 0x70, 4, 3},
		{"full byte", 0xFF, 0, 8},
		{"split wgm mask", 0x43, 0, 3},
		{"zero", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, width := maskToRange(tt.mask)
			if offset != tt.wantOffset || width != tt.wantWidth {
				t.Errorf("maskToRange(%#x) = (%d, %d), want (%d, %d)",
					tt.mask, offset, width, tt.wantOffset, tt.wantWidth)
			}
		})
	}
}

func TestRangeToMaskRoundTrip(t *testing.T) {
	for offset := 0; offset < 8; offset++ {
		for width := 1; width <= 8-offset; width++ {
			mask := rangeToMask(offset, width)
			gotOffset, gotWidth := maskToRange(mask)
			if gotOffset != offset || gotWidth != width {
				t.Errorf("round trip (%d,%d) via %#x gave (%d,%d)",
					offset, width, mask, gotOffset, gotWidth)
			}
		}
	}
}

func TestBuildBitfieldShapes(t *testing.T) {
	idx := buildValueGroupIndex(nil)

	t.Run("mask only", func(t *testing.T) {
		bf := buildBitfield(xmlBitfield{Name: "CS0", Mask: "0x07"}, "TC0", idx)
		if bf.Mask != 0x07 || bf.BitOffset != 0 || bf.BitWidth != 3 {
			t.Errorf("got mask=%#x offset=%d width=%d", bf.Mask, bf.BitOffset, bf.BitWidth)
		}
	})

	t.Run("offset and width only", func(t *testing.T) {
		bf := buildBitfield(xmlBitfield{Name: "SEL", BitOffset: "2", BitWidth: "3"}, "TC0", idx)
		if bf.Mask != 0x1C {
			t.Errorf("mask = %#x, want 0x1c", bf.Mask)
		}
	})

	t.Run("offset without width defaults to one bit", func(t *testing.T) {
		bf := buildBitfield(xmlBitfield{Name: "EN", BitOffset: "5"}, "TC0", idx)
		if bf.Mask != 0x20 || bf.BitWidth != 1 {
			t.Errorf("got mask=%#x width=%d, want 0x20 width 1", bf.Mask, bf.BitWidth)
		}
	})

	t.Run("source wins when both present", func(t *testing.T) {
		bf := buildBitfield(xmlBitfield{Name: "X", Mask: "0x43", BitOffset: "0", BitWidth: "3"}, "TC0", idx)
		if bf.Mask != 0x43 || bf.BitOffset != 0 || bf.BitWidth != 3 {
			t.Errorf("got mask=%#x offset=%d width=%d", bf.Mask, bf.BitOffset, bf.BitWidth)
		}
	})

	t.Run("split mask kept verbatim", func(t *testing.T) {
		// A non-contiguous mask (WGM-style split field) is never replaced
		// by its contiguous re-derivation; only offset/width are inferred.
		bf := buildBitfield(xmlBitfield{Name: "WGM0", Mask: "0x43"}, "TC0", idx)
		if bf.Mask != 0x43 {
			t.Errorf("mask = %#x, want 0x43 preserved", bf.Mask)
		}
		if bf.BitOffset != 0 || bf.BitWidth != 3 {
			t.Errorf("got offset=%d width=%d, want 0 and 3 (set-bit count)", bf.BitOffset, bf.BitWidth)
		}
	})
}

func TestValueGroupResolution(t *testing.T) {
	modules := []xmlModule{
		{
			Name: "TC0",
			ValueGroups: []xmlValueGroup{
				{Name: "CLK_SEL", Values: []xmlValue{{Name: "DIV8", Value: "0x02"}}},
			},
		},
		{
			Name: "TC1",
			ValueGroups: []xmlValueGroup{
				{Name: "CLK_SEL", Values: []xmlValue{{Name: "DIV64", Value: "0x03"}}},
				{Name: "WGM_MODE", Values: []xmlValue{{Name: "CTC", Value: "0x02"}}},
			},
		},
	}
	idx := buildValueGroupIndex(modules)

	t.Run("module local wins", func(t *testing.T) {
		vg := idx.resolve("TC1", "CLK_SEL")
		if vg == nil || vg.Values[0].Name != "DIV64" {
			t.Fatalf("expected TC1's own CLK_SEL, got %+v", vg)
		}
	})

	t.Run("global fallback", func(t *testing.T) {
		vg := idx.resolve("TC0", "WGM_MODE")
		if vg == nil || vg.Values[0].Name != "CTC" {
			t.Fatalf("expected global WGM_MODE, got %+v", vg)
		}
	})

	t.Run("dangling reference resolves to nil", func(t *testing.T) {
		bf := buildBitfield(xmlBitfield{Name: "X", Mask: "0x01", Values: "DOES_NOT_EXIST"}, "TC0", idx)
		if bf.Values != nil {
			t.Errorf("dangling reference should yield nil, got %+v", bf.Values)
		}
		if bf.ValuesName != "DOES_NOT_EXIST" {
			t.Errorf("raw reference name lost: %q", bf.ValuesName)
		}
	})
}

func TestBuildRegisterDefaults(t *testing.T) {
	idx := buildValueGroupIndex(nil)
	reg := buildRegister(xmlRegister{Name: "TCNT0", Offset: "0x46"}, "TC0", idx)
	if reg.Size != 1 {
		t.Errorf("Size = %d, want default 1", reg.Size)
	}
	if reg.Offset != 0x46 {
		t.Errorf("Offset = %#x, want 0x46", reg.Offset)
	}
	if reg.Mask != nil || reg.InitVal != nil {
		t.Error("absent mask/initval should stay nil")
	}
}
