package atpack

import (
	"sort"
	"strings"
	"unicode"
)

// timerRole classifies what a register does within a timer instance.
type timerRole int

const (
	roleControl timerRole = iota
	roleCounter
	roleCompare
	roleCapture
	roleIrqMask
	roleIrqFlag
	roleAsync
)

// timerRegisterRules is the prioritized pattern table that recognizes
// timer registers by name prefix. First match wins, so longer prefixes sit
// above shorter ones. Timers are never a single XML element; they are
// reconstructed from these conventions.
var timerRegisterRules = []struct {
	Prefix string
	Role   timerRole
}{
	{"TCCR", roleControl},
	{"TCNT", roleCounter},
	{"TIMSK", roleIrqMask},
	{"TIFR", roleIrqFlag},
	{"OCR", roleCompare},
	{"ICR", roleCapture},
	{"ASSR", roleAsync},
}

// Bitfield name prefixes whose value groups describe timer modes and
// clock prescalers.
const (
	modeBitfieldPrefix      = "WGM"
	prescalerBitfieldPrefix = "CS"
)

// classifyTimerRegister matches a register name against the pattern table.
// The instance suffix is the first digit run after the prefix ("" when the
// register carries no instance digit, e.g. ASSR).
func classifyTimerRegister(name string) (role timerRole, instance string, ok bool) {
	upper := strings.ToUpper(name)
	for _, rule := range timerRegisterRules {
		if !strings.HasPrefix(upper, rule.Prefix) {
			continue
		}
		return rule.Role, leadingDigits(upper[len(rule.Prefix):]), true
	}
	return 0, "", false
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	return s[:end]
}

// timerCandidate accumulates the registers of one timer instance.
type timerCandidate struct {
	instance  string
	registers []Register
	roles     map[string]timerRole // register name → role
}

// buildTimers infers timer instances from the peripherals, using the
// device module signals and the already-built pinouts to resolve output
// pads. It must run after pinout assembly.
func buildTimers(peripherals []PeripheralModule, modules []DeviceModule, pinouts []Pinout) []TimerInfo {
	candidates := make(map[string]*timerCandidate)

	for _, p := range peripherals {
		for _, rg := range p.RegisterGroups {
			groupInstance := leadingDigits(strings.TrimPrefix(strings.ToUpper(rg.Name), "TC"))
			for _, reg := range rg.Registers {
				role, instance, ok := classifyTimerRegister(reg.Name)
				if !ok {
					continue
				}
				if instance == "" {
					// ASSR and friends carry no digit; they belong to
					// the instance of their register group.
					instance = groupInstance
				}
				if instance == "" {
					continue
				}
				c := candidates[instance]
				if c == nil {
					c = &timerCandidate{instance: instance, roles: make(map[string]timerRole)}
					candidates[instance] = c
				}
				c.registers = append(c.registers, reg)
				c.roles[reg.Name] = role
			}
		}
	}

	pads := padsInPinouts(pinouts)

	var timers []TimerInfo
	for _, c := range candidates {
		// A bare interrupt-mask or flag register is not a timer.
		if !c.hasRole(roleControl) && !c.hasRole(roleCounter) {
			continue
		}
		timers = append(timers, c.assemble(modules, pads))
	}
	sort.Slice(timers, func(i, j int) bool { return timers[i].Name < timers[j].Name })
	return timers
}

func (c *timerCandidate) hasRole(role timerRole) bool {
	for _, r := range c.roles {
		if r == role {
			return true
		}
	}
	return false
}

func (c *timerCandidate) assemble(modules []DeviceModule, pads map[string]bool) TimerInfo {
	info := TimerInfo{
		Name: "TC" + c.instance,
		Type: c.timerType(),
	}

	seenModes := make(map[string]bool)
	seenPrescalers := make(map[string]bool)
	for _, reg := range c.registers {
		info.Registers = append(info.Registers, reg.Name)
		if c.roles[reg.Name] != roleControl {
			continue
		}
		for _, bf := range reg.Bitfields {
			upper := strings.ToUpper(bf.Name)
			switch {
			case strings.HasPrefix(upper, modeBitfieldPrefix):
				appendValueLabels(&info.Modes, seenModes, bf.Values)
			case strings.HasPrefix(upper, prescalerBitfieldPrefix):
				appendValueLabels(&info.Prescalers, seenPrescalers, bf.Values)
			}
		}
	}
	sort.Strings(info.Registers)

	info.Outputs = c.outputs(modules, pads)
	return info
}

// timerType derives the classification: a 16-bit counter/compare/capture
// register means timer16; an asynchronous-clock control register means
// timer8async; everything else is a plain 8-bit timer.
func (c *timerCandidate) timerType() TimerType {
	for _, reg := range c.registers {
		switch c.roles[reg.Name] {
		case roleCounter, roleCompare, roleCapture:
			if reg.Size >= 2 {
				return Timer16
			}
		}
	}
	if c.hasRole(roleAsync) {
		return Timer8Async
	}
	return Timer8
}

// outputs derives compare/PWM outputs by turning each OCRnX register into
// an OCnX output and resolving its pad through the device module signals.
// The pad stays "" when no pinout exposes it.
func (c *timerCandidate) outputs(modules []DeviceModule, pads map[string]bool) []TimerOutput {
	var outputs []TimerOutput
	seen := make(map[string]bool)
	for _, reg := range c.registers {
		if c.roles[reg.Name] != roleCompare {
			continue
		}
		upper := strings.ToUpper(reg.Name)
		channel := strings.TrimPrefix(upper, "OCR")
		name := "OC" + channel
		if seen[name] {
			continue
		}
		seen[name] = true
		outputs = append(outputs, TimerOutput{
			Name: name,
			Pad:  signalPad(modules, name, pads),
		})
	}
	sort.Slice(outputs, func(i, j int) bool { return outputs[i].Name < outputs[j].Name })
	return outputs
}

// signalPad finds the pad of a signal group across all module instances,
// accepting it only when a pinout actually carries that pad.
func signalPad(modules []DeviceModule, group string, pads map[string]bool) string {
	for _, mod := range modules {
		for _, inst := range mod.Instances {
			for _, sig := range inst.Signals {
				if strings.EqualFold(sig.Group, group) && pads[sig.Pad] {
					return sig.Pad
				}
			}
		}
	}
	return ""
}

// appendValueLabels appends the labels of a value group, preferring the
// caption over the raw name, skipping duplicates.
func appendValueLabels(dst *[]string, seen map[string]bool, vg *ValueGroup) {
	if vg == nil {
		return
	}
	for _, v := range vg.Values {
		label := v.Caption
		if label == "" {
			label = v.Name
		}
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		*dst = append(*dst, label)
	}
}
