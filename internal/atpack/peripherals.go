package atpack

import "math/bits"

// valueGroupIndex resolves bitfield value references. Per §design, the
// index is built once per device before any bitfield is resolved: first
// the owning module's own value groups, then a device-global index over
// every module (first definition wins on global collisions).
type valueGroupIndex struct {
	byModule map[string]map[string]*ValueGroup
	global   map[string]*ValueGroup
}

func buildValueGroupIndex(modules []xmlModule) *valueGroupIndex {
	idx := &valueGroupIndex{
		byModule: make(map[string]map[string]*ValueGroup, len(modules)),
		global:   make(map[string]*ValueGroup),
	}
	for _, mod := range modules {
		local := make(map[string]*ValueGroup, len(mod.ValueGroups))
		for _, raw := range mod.ValueGroups {
			vg := buildValueGroup(raw)
			local[vg.Name] = vg
			if _, taken := idx.global[vg.Name]; !taken {
				idx.global[vg.Name] = vg
			}
		}
		idx.byModule[mod.Name] = local
	}
	return idx
}

// resolve looks a value-group name up in the given module first, then
// device-wide. A dangling name resolves to nil, an expected outcome rather
// than an error.
func (idx *valueGroupIndex) resolve(moduleName, ref string) *ValueGroup {
	if ref == "" {
		return nil
	}
	if local, ok := idx.byModule[moduleName]; ok {
		if vg, ok := local[ref]; ok {
			return vg
		}
	}
	return idx.global[ref]
}

func buildValueGroup(raw xmlValueGroup) *ValueGroup {
	vg := &ValueGroup{Name: raw.Name, Caption: raw.Caption}
	for _, v := range raw.Values {
		val, _ := parseNum(v.Value)
		vg.Values = append(vg.Values, ValueGroupEntry{
			Name:    v.Name,
			Caption: v.Caption,
			Value:   val,
		})
	}
	return vg
}

// buildPeripherals converts every module definition into the unified
// peripheral model, resolving bitfield value references through idx.
func buildPeripherals(modules []xmlModule, idx *valueGroupIndex) []PeripheralModule {
	var out []PeripheralModule
	for _, mod := range modules {
		p := PeripheralModule{Name: mod.Name, Caption: mod.Caption}
		for _, rg := range mod.RegisterGroups {
			group := RegisterGroup{Name: rg.Name, Caption: rg.Caption}
			for _, reg := range rg.Registers {
				group.Registers = append(group.Registers, buildRegister(reg, mod.Name, idx))
			}
			p.RegisterGroups = append(p.RegisterGroups, group)
		}
		for _, vg := range mod.ValueGroups {
			p.ValueGroups = append(p.ValueGroups, *buildValueGroup(vg))
		}
		out = append(out, p)
	}
	return out
}

func buildRegister(raw xmlRegister, moduleName string, idx *valueGroupIndex) Register {
	offset, _ := parseNum(raw.Offset)
	size := parseInt(raw.Size)
	if size == 0 {
		size = 1
	}

	reg := Register{
		Name:    raw.Name,
		Caption: raw.Caption,
		Offset:  uint32(offset),
		Size:    size,
		Mask:    parseNumPtr(raw.Mask),
		InitVal: parseNumPtr(raw.InitVal),
	}
	for _, bf := range raw.Bitfields {
		reg.Bitfields = append(reg.Bitfields, buildBitfield(bf, moduleName, idx))
	}
	return reg
}

// buildBitfield normalizes the two source shapes (mask-only and
// offset/width) into one consistent triple. Whichever representation the
// source omits is derived; when both are present the source values win.
func buildBitfield(raw xmlBitfield, moduleName string, idx *valueGroupIndex) Bitfield {
	bf := Bitfield{
		Name:       raw.Name,
		Caption:    raw.Caption,
		ValuesName: raw.Values,
		Values:     idx.resolve(moduleName, raw.Values),
	}

	mask, hasMask := parseNum(raw.Mask)
	offset, hasOffset := parseNum(raw.BitOffset)
	width, hasWidth := parseNum(raw.BitWidth)

	switch {
	case hasMask:
		bf.Mask = mask
		if hasOffset && hasWidth {
			bf.BitOffset = int(offset)
			bf.BitWidth = int(width)
		} else {
			bf.BitOffset, bf.BitWidth = maskToRange(mask)
		}
	case hasOffset || hasWidth:
		bf.BitOffset = int(offset)
		bf.BitWidth = int(width)
		if bf.BitWidth == 0 {
			bf.BitWidth = 1
		}
		bf.Mask = rangeToMask(bf.BitOffset, bf.BitWidth)
	}

	return bf
}

// maskToRange derives (bitOffset, bitWidth) from a mask. For the
// occasional non-contiguous mask (split bitfields like WGM on AVR timers)
// the width counts set bits and the offset is the lowest set bit, which
// round-trips through rangeToMask for all contiguous masks.
func maskToRange(mask uint64) (offset, width int) {
	if mask == 0 {
		return 0, 0
	}
	return bits.TrailingZeros64(mask), bits.OnesCount64(mask)
}

// rangeToMask derives a mask from (bitOffset, bitWidth).
func rangeToMask(offset, width int) uint64 {
	if width <= 0 {
		return 0
	}
	return ((uint64(1) << width) - 1) << offset
}
