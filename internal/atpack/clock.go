package atpack

import "strings"

// Value-group name patterns that identify clock-related enumerations.
// These are substring matches against upper-cased group names; the AtPack
// ecosystem spells them several ways (CKSEL, SUT_CKSEL, CLKSEL, ...).
var (
	clockSourcePatterns    = []string{"CKSEL", "CLKSEL", "CLK_SEL", "OSCSEL"}
	clockPrescalerPatterns = []string{"CLKPS", "PRESC", "PDIV"}
	adcReferencePatterns   = []string{"REFS", "ADC_VREF", "VREF"}
	adcChannelPatterns     = []string{"MUX", "ADC_CH"}
)

// Module names treated as the ADC for reference/channel extraction.
var adcModuleNames = map[string]bool{"ADC": true, "ADC0": true}

// buildClockInfo assembles the derived clock view: sources come from
// clock-selection fuse value groups plus any dedicated clock module,
// prescaler ladders and ADC references/channels from their respective
// value groups, and PLL presence from the mere existence of a PLL-named
// module or register. Returns nil when the fragment exposes nothing
// clock-related at all.
func buildClockInfo(fuses []FuseConfig, peripherals []PeripheralModule) *ClockInfo {
	info := &ClockInfo{}
	seenSources := make(map[string]bool)
	seenPrescalers := make(map[string]bool)

	// Clock-selection fuses are the canonical source list on AVR parts.
	for _, fuse := range fuses {
		for _, bf := range fuse.Bitfields {
			if bf.Values == nil {
				continue
			}
			switch {
			case matchesAny(bf.Values.Name, clockSourcePatterns):
				addClockSources(info, seenSources, bf.Values)
			case matchesAny(bf.Values.Name, clockPrescalerPatterns):
				addLabels(&info.Prescalers, seenPrescalers, bf.Values)
			}
		}
	}

	var adc ADCInfo
	seenRefs := make(map[string]bool)
	seenChannels := make(map[string]bool)

	for _, p := range peripherals {
		upperName := strings.ToUpper(p.Name)
		if strings.Contains(upperName, "PLL") {
			info.HasPLL = true
		}
		isADC := adcModuleNames[upperName]
		for _, vg := range p.ValueGroups {
			vg := vg
			switch {
			case matchesAny(vg.Name, clockSourcePatterns):
				addClockSources(info, seenSources, &vg)
			case matchesAny(vg.Name, clockPrescalerPatterns):
				addLabels(&info.Prescalers, seenPrescalers, &vg)
			case isADC && matchesAny(vg.Name, adcReferencePatterns):
				addLabels(&adc.References, seenRefs, &vg)
			case isADC && matchesAny(vg.Name, adcChannelPatterns):
				addLabels(&adc.Channels, seenChannels, &vg)
			}
		}
		if !info.HasPLL && hasPLLRegister(p) {
			info.HasPLL = true
		}
	}

	if len(adc.References) > 0 || len(adc.Channels) > 0 {
		info.ADC = &adc
	}

	if len(info.Sources) == 0 && len(info.Prescalers) == 0 && info.ADC == nil && !info.HasPLL {
		return nil
	}
	return info
}

func hasPLLRegister(p PeripheralModule) bool {
	for _, rg := range p.RegisterGroups {
		for _, reg := range rg.Registers {
			if strings.Contains(strings.ToUpper(reg.Name), "PLL") {
				return true
			}
		}
	}
	return false
}

func matchesAny(name string, patterns []string) bool {
	upper := strings.ToUpper(name)
	for _, p := range patterns {
		if strings.Contains(upper, p) {
			return true
		}
	}
	return false
}

func addClockSources(info *ClockInfo, seen map[string]bool, vg *ValueGroup) {
	for _, v := range vg.Values {
		key := v.Name
		if key == "" {
			key = v.Caption
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		info.Sources = append(info.Sources, ClockSource{Name: v.Name, Caption: v.Caption})
	}
}

func addLabels(dst *[]string, seen map[string]bool, vg *ValueGroup) {
	appendValueLabels(dst, seen, vg)
}
