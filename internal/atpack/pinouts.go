package atpack

import "strings"

// buildPinouts converts the pinout definitions of a fragment.
func buildPinouts(raw []xmlPinout) []Pinout {
	var out []Pinout
	for _, p := range raw {
		pinout := Pinout{Name: p.Name}
		for _, pin := range p.Pins {
			pinout.Pins = append(pinout.Pins, Pin{
				Position: parseInt(pin.Position),
				Pad:      pin.Pad,
			})
		}
		out = append(out, pinout)
	}
	return out
}

// buildVariants cross-references each variant's package against the built
// pinouts to produce the pin number → pad mapping. A variant whose package
// has no matching pinout still parses; its Pinout stays nil.
func buildVariants(raw []xmlVariant, pinouts []Pinout) []Variant {
	var out []Variant
	for _, v := range raw {
		speed, _ := parseNum(v.SpeedMax)
		variant := Variant{
			OrderCode:  v.OrderCode,
			Package:    v.Package,
			PinoutName: v.Pinout,
			SpeedMaxHz: speed,
			TempMin:    parseInt(v.TempMin),
			TempMax:    parseInt(v.TempMax),
			VccMin:     parseFloat(v.VccMin),
			VccMax:     parseFloat(v.VccMax),
		}
		if p := matchPinout(v, pinouts); p != nil {
			variant.Pinout = pinoutMap(p)
		}
		out = append(out, variant)
	}
	return out
}

// matchPinout finds the pinout for a variant: the explicit pinout
// reference wins, else a pinout named after the package (exact, then
// substring either way, since vendors append pin counts or suffixes).
func matchPinout(v xmlVariant, pinouts []Pinout) *Pinout {
	find := func(match func(Pinout) bool) *Pinout {
		for i := range pinouts {
			if match(pinouts[i]) {
				return &pinouts[i]
			}
		}
		return nil
	}

	if v.Pinout != "" {
		if p := find(func(p Pinout) bool { return p.Name == v.Pinout }); p != nil {
			return p
		}
	}
	if v.Package == "" {
		return nil
	}
	pkg := strings.ToUpper(v.Package)
	if p := find(func(p Pinout) bool { return strings.ToUpper(p.Name) == pkg }); p != nil {
		return p
	}
	return find(func(p Pinout) bool {
		name := strings.ToUpper(p.Name)
		return strings.Contains(name, pkg) || strings.Contains(pkg, name)
	})
}

func pinoutMap(p *Pinout) map[int]string {
	m := make(map[int]string, len(p.Pins))
	for _, pin := range p.Pins {
		m[pin.Position] = pin.Pad
	}
	return m
}

// padsInPinouts collects every pad name that appears in at least one
// pinout, for cross-referencing derived views against physical pins.
func padsInPinouts(pinouts []Pinout) map[string]bool {
	pads := make(map[string]bool)
	for _, p := range pinouts {
		for _, pin := range p.Pins {
			if pin.Pad != "" {
				pads[pin.Pad] = true
			}
		}
	}
	return pads
}
