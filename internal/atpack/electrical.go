package atpack

import "strings"

// Electrical parameter groups.
const (
	GroupSupplyVoltage = "SUPPLY_VOLTAGE"
	GroupTiming        = "TIMING"
	GroupCurrent       = "CURRENT"
	GroupTemperature   = "TEMPERATURE"
	GroupAnalog        = "ANALOG"
	GroupOther         = "OTHER"
)

// ElectricalGroupRule maps name keywords to a parameter group.
type ElectricalGroupRule struct {
	Keywords []string
	Group    string
}

// ElectricalGroupRules is the prioritized keyword→group table used when a
// parameter carries no explicit group attribute. It is exported because
// any presentation layer rendering group icons/colors must agree with the
// builder: one shared table, not two.
var ElectricalGroupRules = []ElectricalGroupRule{
	{[]string{"vcc", "vdd", "voltage", "bod", "vpot", "vbat"}, GroupSupplyVoltage},
	{[]string{"icc", "current", "idd", "consumption", "leakage"}, GroupCurrent},
	{[]string{"freq", "mhz", "khz", "clock", "speed", "startup", "delay", "cycle", "time"}, GroupTiming},
	{[]string{"temp", "thermal"}, GroupTemperature},
	{[]string{"vref", "adc", "comparator", "capacitance", "resistance", "pull"}, GroupAnalog},
}

// ElectricalGroupFor classifies a parameter name. First matching rule
// wins; unmatched names fall into OTHER.
func ElectricalGroupFor(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range ElectricalGroupRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Group
			}
		}
	}
	return GroupOther
}

// Property-group names whose properties are electrical characteristics on
// fragments that lack a dedicated electrical-characteristics section.
var electricalPropertyGroups = []string{
	"ELECTRICAL", "ABSOLUTE_MAXIMUM", "OPERATING", "DC_CHARACTERISTICS", "AC_CHARACTERISTICS",
}

// buildElectricalParameters scans both source shapes (the dedicated
// electrical-characteristics section and electrically-named property
// groups) into one flat parameter list plus the distinct groups in
// first-seen order. Returns nil when the device declares none.
func buildElectricalParameters(dev xmlDevice) *ElectricalParameters {
	var params []ElectricalParameter

	for _, raw := range dev.Electrical {
		params = append(params, buildElectricalParam(
			raw.Name, raw.Caption, raw.Group, raw.Min, raw.Typ, raw.Max, raw.Unit))
	}

	for _, pg := range dev.PropertyGroups {
		if !matchesAny(pg.Name, electricalPropertyGroups) {
			continue
		}
		for _, prop := range pg.Properties {
			params = append(params, buildElectricalParam(
				prop.Name, prop.Caption, prop.Group, prop.Min, prop.Typ, prop.Max, prop.Unit))
		}
	}

	if len(params) == 0 {
		return nil
	}

	var groups []string
	seen := make(map[string]bool)
	for _, p := range params {
		if !seen[p.Group] {
			seen[p.Group] = true
			groups = append(groups, p.Group)
		}
	}

	return &ElectricalParameters{Parameters: params, Groups: groups}
}

// buildElectricalParam keeps an explicit group attribute verbatim, even a
// vendor-specific one; only group-less parameters are classified by name.
func buildElectricalParam(name, caption, group, min, typ, max, unit string) ElectricalParameter {
	if group == "" {
		group = ElectricalGroupFor(name)
	}
	return ElectricalParameter{
		Name:    name,
		Caption: caption,
		Group:   group,
		Min:     min,
		Typ:     typ,
		Max:     max,
		Unit:    unit,
	}
}
