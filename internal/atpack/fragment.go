package atpack

import "encoding/xml"

// Raw ATDF fragment structures. Attribute values stay strings here; the
// builders parse them tolerantly (absent or malformed numerics become
// defaults, not errors) because optional attributes vary per vendor and
// device family.

type xmlDeviceFile struct {
	XMLName  xml.Name     `xml:"avr-tools-device-file"`
	Variants []xmlVariant `xml:"variants>variant"`
	Devices  []xmlDevice  `xml:"devices>device"`
	Modules  []xmlModule  `xml:"modules>module"`
	Pinouts  []xmlPinout  `xml:"pinouts>pinout"`
}

type xmlVariant struct {
	OrderCode string `xml:"ordercode,attr"`
	Package   string `xml:"package,attr"`
	Pinout    string `xml:"pinout,attr"`
	SpeedMax  string `xml:"speedmax,attr"`
	TempMin   string `xml:"tempmin,attr"`
	TempMax   string `xml:"tempmax,attr"`
	VccMin    string `xml:"vccmin,attr"`
	VccMax    string `xml:"vccmax,attr"`
}

type xmlDevice struct {
	Name         string `xml:"name,attr"`
	Architecture string `xml:"architecture,attr"`
	Family       string `xml:"family,attr"`

	AddressSpaces  []xmlAddressSpace  `xml:"address-spaces>address-space"`
	Peripherals    []xmlDeviceModule  `xml:"peripherals>module"`
	Interrupts     []xmlInterrupt     `xml:"interrupts>interrupt"`
	Interfaces     []xmlInterface     `xml:"interfaces>interface"`
	PropertyGroups []xmlPropertyGroup `xml:"property-groups>property-group"`

	// Electrical characteristics, where the fragment carries them as a
	// dedicated section (ARM-based parts); AVR parts put them in
	// property groups instead.
	Electrical []xmlElectricalParam `xml:"electrical-characteristics>parameter"`
}

type xmlAddressSpace struct {
	Name       string              `xml:"name,attr"`
	ID         string              `xml:"id,attr"`
	Start      string              `xml:"start,attr"`
	Size       string              `xml:"size,attr"`
	Endianness string              `xml:"endianness,attr"`
	Segments   []xmlMemorySegment  `xml:"memory-segment"`
}

type xmlMemorySegment struct {
	Name     string `xml:"name,attr"`
	Start    string `xml:"start,attr"`
	Size     string `xml:"size,attr"`
	Type     string `xml:"type,attr"`
	PageSize string `xml:"pagesize,attr"`
	RW       string `xml:"rw,attr"`
}

type xmlDeviceModule struct {
	Name      string        `xml:"name,attr"`
	Instances []xmlInstance `xml:"instance"`
}

type xmlInstance struct {
	Name    string      `xml:"name,attr"`
	Signals []xmlSignal `xml:"signals>signal"`
}

type xmlSignal struct {
	Group    string `xml:"group,attr"`
	Function string `xml:"function,attr"`
	Pad      string `xml:"pad,attr"`
	Index    string `xml:"index,attr"`
}

type xmlInterrupt struct {
	Index   string `xml:"index,attr"`
	Name    string `xml:"name,attr"`
	Caption string `xml:"caption,attr"`
}

type xmlInterface struct {
	Name string `xml:"name,attr"`
	Type string `xml:"type,attr"`
}

type xmlPropertyGroup struct {
	Name       string        `xml:"name,attr"`
	Properties []xmlProperty `xml:"property"`
}

type xmlProperty struct {
	Name    string `xml:"name,attr"`
	Value   string `xml:"value,attr"`
	Address string `xml:"address,attr"`
	Caption string `xml:"caption,attr"`
	Group   string `xml:"group,attr"`
	Min     string `xml:"min,attr"`
	Typ     string `xml:"typ,attr"`
	Max     string `xml:"max,attr"`
	Unit    string `xml:"unit,attr"`
}

type xmlElectricalParam struct {
	Name    string `xml:"name,attr"`
	Caption string `xml:"caption,attr"`
	Group   string `xml:"group,attr"`
	Min     string `xml:"min,attr"`
	Typ     string `xml:"typ,attr"`
	Max     string `xml:"max,attr"`
	Unit    string `xml:"unit,attr"`
}

type xmlModule struct {
	Name    string `xml:"name,attr"`
	Caption string `xml:"caption,attr"`

	RegisterGroups []xmlRegisterGroup `xml:"register-group"`
	ValueGroups    []xmlValueGroup    `xml:"value-group"`
}

type xmlRegisterGroup struct {
	Name      string        `xml:"name,attr"`
	Caption   string        `xml:"caption,attr"`
	Registers []xmlRegister `xml:"register"`
}

type xmlRegister struct {
	Name    string `xml:"name,attr"`
	Caption string `xml:"caption,attr"`
	Offset  string `xml:"offset,attr"`
	Size    string `xml:"size,attr"`
	Mask    string `xml:"mask,attr"`
	InitVal string `xml:"initval,attr"`

	Bitfields []xmlBitfield `xml:"bitfield"`
}

type xmlBitfield struct {
	Name    string `xml:"name,attr"`
	Caption string `xml:"caption,attr"`
	Mask    string `xml:"mask,attr"`

	// Alternate shape used by some families: explicit offset/width
	// instead of (or in addition to) a mask.
	BitOffset string `xml:"bit-offset,attr"`
	BitWidth  string `xml:"bit-width,attr"`

	Values string `xml:"values,attr"`
}

type xmlValueGroup struct {
	Name    string     `xml:"name,attr"`
	Caption string     `xml:"caption,attr"`
	Values  []xmlValue `xml:"value"`
}

type xmlValue struct {
	Name    string `xml:"name,attr"`
	Caption string `xml:"caption,attr"`
	Value   string `xml:"value,attr"`
}

type xmlPinout struct {
	Name string   `xml:"name,attr"`
	Pins []xmlPin `xml:"pin"`
}

type xmlPin struct {
	Position string `xml:"position,attr"`
	Pad      string `xml:"pad,attr"`
}
