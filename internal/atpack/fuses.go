package atpack

import (
	"fmt"
	"strings"
)

// Module names that carry fuse and lockbit definitions. Vendors are not
// consistent about pluralization.
var (
	fuseModuleNames    = map[string]bool{"FUSE": true, "FUSES": true, "NVM_FUSES": true}
	lockbitModuleNames = map[string]bool{"LOCKBIT": true, "LOCKBITS": true, "NVM_LOCKBITS": true}
)

// buildFuses extracts fuse byte configurations from the fuse module(s).
// Fuses, lockbits, and peripheral registers share one bitfield build and
// value-group resolution path (buildRegister).
func buildFuses(modules []xmlModule, idx *valueGroupIndex, warn warnFunc) []FuseConfig {
	return buildConfigRegions(modules, fuseModuleNames, idx, warn)
}

// buildLockbits extracts lockbit configurations the same way.
func buildLockbits(modules []xmlModule, idx *valueGroupIndex, warn warnFunc) []LockbitConfig {
	return buildConfigRegions(modules, lockbitModuleNames, idx, warn)
}

// warnFunc records a non-fatal issue during device construction.
type warnFunc func(code, message string)

func buildConfigRegions(modules []xmlModule, names map[string]bool, idx *valueGroupIndex, warn warnFunc) []FuseConfig {
	var out []FuseConfig
	for _, mod := range modules {
		if !names[strings.ToUpper(mod.Name)] {
			continue
		}
		for _, rg := range mod.RegisterGroups {
			for _, raw := range rg.Registers {
				reg := buildRegister(raw, mod.Name, idx)
				cfg := FuseConfig{
					Name:         reg.Name,
					Offset:       reg.Offset,
					Size:         reg.Size,
					Mask:         reg.Mask,
					DefaultValue: reg.InitVal,
					Bitfields:    dropOverlapping(reg.Name, reg.Bitfields, warn),
				}
				out = append(out, cfg)
			}
		}
	}
	return out
}

// dropOverlapping enforces the invariant that bit ranges within one
// fuse/lockbit byte never overlap. A bitfield whose mask collides with an
// already-accepted one is dropped and recorded; the source data is wrong,
// not the device.
func dropOverlapping(regName string, fields []Bitfield, warn warnFunc) []Bitfield {
	var kept []Bitfield
	var used uint64
	for _, bf := range fields {
		if bf.Mask&used != 0 {
			if warn != nil {
				warn(WarnBitfieldOverlap, fmt.Sprintf(
					"%s: bitfield %s overlaps an earlier bitfield, dropped", regName, bf.Name))
			}
			continue
		}
		used |= bf.Mask
		kept = append(kept, bf)
	}
	return kept
}
