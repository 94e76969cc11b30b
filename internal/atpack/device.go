package atpack

import (
	"sort"
	"strings"
)

// Property-group names that hold device signature bytes.
var signatureGroupNames = map[string]bool{"SIGNATURES": true, "SIGNATURE": true}

// buildDevice assembles one Device from a decoded fragment. Sub-extractions
// never fail the device: a malformed section yields an empty collection
// plus a warning, and the rest of the device still builds. Only a fragment
// that cannot be decoded at all skips the device (handled by the caller).
func buildDevice(doc xmlDeviceFile, dev xmlDevice, books []DocumentationLink, warn warnFunc) Device {
	idx := buildValueGroupIndex(doc.Modules)

	d := Device{
		Name:         dev.Name,
		Family:       dev.Family,
		Architecture: dev.Architecture,

		Signatures:  buildSignatures(dev.PropertyGroups),
		Memory:      buildMemoryLayout(dev.AddressSpaces),
		Fuses:       buildFuses(doc.Modules, idx, warn),
		Lockbits:    buildLockbits(doc.Modules, idx, warn),
		Programmer:  buildProgrammingInterfaces(dev.Interfaces),
		Modules:     buildDeviceModules(dev.Peripherals),
		Interrupts:  buildInterrupts(dev.Interrupts),
		Peripherals: buildPeripherals(doc.Modules, idx),
		Pinouts:     buildPinouts(doc.Pinouts),
	}
	d.Variants = buildVariants(doc.Variants, d.Pinouts)

	// Pack-level documentation applies to every device; fragments carry
	// none of their own.
	if len(books) > 0 {
		d.Documentation = append([]DocumentationLink(nil), books...)
	}

	warnUnclassified(d.Memory, d.Name, warn)

	// Derived views run last: timers need pinouts and module signals,
	// clock info needs fuses and peripherals.
	d.Timers = buildTimers(d.Peripherals, d.Modules, d.Pinouts)
	d.ClockInfo = buildClockInfo(d.Fuses, d.Peripherals)
	d.ElectricalParameters = buildElectricalParameters(dev)

	return d
}

// buildSignatures reads the signature property group. The address attribute
// is optional; when absent the byte position is implied by the name and
// Address stays nil.
func buildSignatures(groups []xmlPropertyGroup) []Signature {
	var out []Signature
	for _, pg := range groups {
		if !signatureGroupNames[strings.ToUpper(pg.Name)] {
			continue
		}
		for _, prop := range pg.Properties {
			val, ok := parseNum(prop.Value)
			if !ok {
				continue
			}
			sig := Signature{Name: prop.Name, Value: uint32(val)}
			if addr, ok := parseNum(prop.Address); ok {
				a := uint32(addr)
				sig.Address = &a
			}
			out = append(out, sig)
		}
	}
	return out
}

func buildProgrammingInterfaces(raw []xmlInterface) []ProgrammingInterface {
	var out []ProgrammingInterface
	for _, i := range raw {
		out = append(out, ProgrammingInterface{Name: i.Name, Type: i.Type})
	}
	return out
}

func buildDeviceModules(raw []xmlDeviceModule) []DeviceModule {
	var out []DeviceModule
	for _, mod := range raw {
		dm := DeviceModule{Name: mod.Name}
		for _, inst := range mod.Instances {
			mi := ModuleInstance{Name: inst.Name}
			for _, sig := range inst.Signals {
				s := Signal{Group: sig.Group, Function: sig.Function, Pad: sig.Pad}
				if idx, ok := parseNum(sig.Index); ok {
					n := int(idx)
					s.Index = &n
				}
				mi.Signals = append(mi.Signals, s)
			}
			dm.Instances = append(dm.Instances, mi)
		}
		out = append(out, dm)
	}
	return out
}

// buildInterrupts sorts by vector index, keeping source order among equal
// indices. Duplicate indices stay; vector tables may alias.
func buildInterrupts(raw []xmlInterrupt) []Interrupt {
	var out []Interrupt
	for _, i := range raw {
		out = append(out, Interrupt{
			Index:   parseInt(i.Index),
			Name:    i.Name,
			Caption: i.Caption,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func warnUnclassified(layout MemoryLayout, device string, warn warnFunc) {
	if warn == nil {
		return
	}
	for _, seg := range layout.AllSegments {
		if !seg.IsAddressSpace && seg.Type == "" {
			warn(WarnSegmentUnclassed, "memory segment "+seg.Name+" of "+device+" has no recognizable class")
		}
	}
}
