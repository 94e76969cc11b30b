package atpack

import "time"

// AtPack is the complete result of loading one AtPack archive.
//
// Everything inside an AtPack is immutable once the parser returns it.
// Consumers (the catalog, the HTTP API) treat it as a read-only value and
// derive filtered views instead of mutating.
type AtPack struct {
	// LoadID is a unique identifier for this load session.
	LoadID string `json:"load_id"`

	// SourceFile is the original archive filename (or URL path base).
	SourceFile string `json:"source_file"`

	// LoadedAt is when the archive was parsed.
	LoadedAt time.Time `json:"loaded_at"`

	// Metadata holds descriptive pack-level fields from the descriptor.
	Metadata Metadata `json:"metadata"`

	// Version is the pack format/release version, if detectable.
	Version string `json:"version,omitempty"`

	// Devices are the parsed device models, in archive declaration order.
	// A name appears at most once; a later fragment with the same device
	// name replaces the earlier one.
	Devices []Device `json:"devices"`

	// Skipped records devices that could not be parsed, with the reason.
	Skipped []SkippedDevice `json:"skipped,omitempty"`

	// Warnings contains non-fatal issues encountered during the load.
	Warnings []Warning `json:"warnings,omitempty"`
}

// Metadata holds the descriptive fields of a pack descriptor.
// Every field except Name is advisory and defaults to "".
type Metadata struct {
	Name        string `json:"name"`
	Vendor      string `json:"vendor,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// SkippedDevice records one device that failed to load.
type SkippedDevice struct {
	// Name is the device name, or the fragment path when no name is known.
	Name string `json:"name"`

	// Reason is a human-readable description of the failure.
	Reason string `json:"reason"`
}

// Warning is a non-fatal issue recorded during a load.
type Warning struct {
	// Code is a machine-readable warning code.
	Code string `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// Device is the affected device name, if any.
	Device string `json:"device,omitempty"`
}

// Device is the aggregate root for one parsed device.
type Device struct {
	Name         string `json:"name"`
	Family       string `json:"family,omitempty"`
	Architecture string `json:"architecture,omitempty"`

	Signatures    []Signature            `json:"signatures,omitempty"`
	Memory        MemoryLayout           `json:"memory"`
	Fuses         []FuseConfig           `json:"fuses,omitempty"`
	Lockbits      []LockbitConfig        `json:"lockbits,omitempty"`
	Variants      []Variant              `json:"variants,omitempty"`
	Documentation []DocumentationLink    `json:"documentation,omitempty"`
	Programmer    []ProgrammingInterface `json:"programmer,omitempty"`
	Modules       []DeviceModule         `json:"modules,omitempty"`
	Interrupts    []Interrupt            `json:"interrupts,omitempty"`
	Peripherals   []PeripheralModule     `json:"peripherals,omitempty"`
	Pinouts       []Pinout               `json:"pinouts,omitempty"`

	// Derived views, assembled from the raw collections above.
	Timers               []TimerInfo           `json:"timers,omitempty"`
	ClockInfo            *ClockInfo            `json:"clock_info,omitempty"`
	ElectricalParameters *ElectricalParameters `json:"electrical_parameters,omitempty"`
}

// Signature is one (name, address, value) signature triple.
// Address is nil when the byte position is implied rather than explicit.
type Signature struct {
	Name    string  `json:"name"`
	Address *uint32 `json:"address,omitempty"`
	Value   uint32  `json:"value"`
}

// MemoryLayout distinguishes address spaces from memory segments.
//
// AllSegments is the authoritative full list; the named shortcuts point at
// entries of AllSegments (a shortcut is never a segment missing from the
// full list).
type MemoryLayout struct {
	Flash    *MemorySegment `json:"flash,omitempty"`
	SRAM     *MemorySegment `json:"sram,omitempty"`
	EEPROM   *MemorySegment `json:"eeprom,omitempty"`
	Fuses    *MemorySegment `json:"fuses,omitempty"`
	Lockbits *MemorySegment `json:"lockbits,omitempty"`

	AllSegments []MemorySegment `json:"all_segments,omitempty"`
}

// MemorySegment is one address space or memory segment.
type MemorySegment struct {
	Name  string `json:"name"`
	Start uint32 `json:"start"`
	Size  uint32 `json:"size"`

	// Type is the source type discriminator when present, else the
	// heuristic classification from the segment name ("" if unclassified).
	Type string `json:"type,omitempty"`

	PageSize uint32 `json:"page_size,omitempty"`
	RW       string `json:"rw,omitempty"`

	// IsAddressSpace is true for address-space nodes; segments carry the
	// name of their owning address space in ParentAddressSpace.
	IsAddressSpace     bool   `json:"is_address_space,omitempty"`
	ParentAddressSpace string `json:"parent_address_space,omitempty"`
}

// PeripheralModule groups the register groups and value groups of one
// peripheral module definition.
type PeripheralModule struct {
	Name           string          `json:"name"`
	Caption        string          `json:"caption,omitempty"`
	RegisterGroups []RegisterGroup `json:"register_groups,omitempty"`
	ValueGroups    []ValueGroup    `json:"value_groups,omitempty"`
}

// RegisterGroup is a named set of registers.
type RegisterGroup struct {
	Name      string     `json:"name"`
	Caption   string     `json:"caption,omitempty"`
	Registers []Register `json:"registers,omitempty"`
}

// Register is one hardware register with an absolute byte offset.
type Register struct {
	Name    string  `json:"name"`
	Caption string  `json:"caption,omitempty"`
	Offset  uint32  `json:"offset"`
	Size    int     `json:"size"`
	Mask    *uint64 `json:"mask,omitempty"`
	InitVal *uint64 `json:"initval,omitempty"`

	Bitfields []Bitfield `json:"bitfields,omitempty"`
}

// Bitfield is a named, offset/width-addressed portion of a register.
//
// Mask, BitOffset, and BitWidth are always mutually consistent: whichever
// representation the source omits is derived from the other.
type Bitfield struct {
	Name      string `json:"name"`
	Caption   string `json:"caption,omitempty"`
	Mask      uint64 `json:"mask"`
	BitOffset int    `json:"bit_offset"`
	BitWidth  int    `json:"bit_width"`

	// ValuesName is the raw value-group reference from the source.
	ValuesName string `json:"values_name,omitempty"`

	// Values is the resolved value group, nil when the reference is
	// dangling or absent. A dangling reference is a normal outcome.
	Values *ValueGroup `json:"values,omitempty"`
}

// ValueGroup is a named enumeration of symbolic values referenced by
// bitfields.
type ValueGroup struct {
	Name    string            `json:"name"`
	Caption string            `json:"caption,omitempty"`
	Values  []ValueGroupEntry `json:"values,omitempty"`
}

// ValueGroupEntry is one symbolic value within a value group.
type ValueGroupEntry struct {
	Name    string `json:"name"`
	Caption string `json:"caption,omitempty"`
	Value   uint64 `json:"value"`
}

// FuseConfig is one byte-level configuration region (a fuse byte).
// Bit ranges of its bitfields never overlap.
type FuseConfig struct {
	Name         string  `json:"name"`
	Offset       uint32  `json:"offset"`
	Size         int     `json:"size"`
	Mask         *uint64 `json:"mask,omitempty"`
	DefaultValue *uint64 `json:"default_value,omitempty"`

	Bitfields []Bitfield `json:"bitfields,omitempty"`
}

// LockbitConfig has the same shape and construction path as FuseConfig;
// fuses and lockbits share one extraction and resolution algorithm.
type LockbitConfig = FuseConfig

// Variant is one physical/speed/temperature/voltage SKU of the device.
type Variant struct {
	OrderCode  string  `json:"order_code"`
	Package    string  `json:"package,omitempty"`
	PinoutName string  `json:"pinout_name,omitempty"`
	SpeedMaxHz uint64  `json:"speed_max_hz,omitempty"`
	TempMin    int     `json:"temp_min,omitempty"`
	TempMax    int     `json:"temp_max,omitempty"`
	VccMin     float64 `json:"vcc_min,omitempty"`
	VccMax     float64 `json:"vcc_max,omitempty"`

	// Pinout maps physical pin number to pad name. It is nil when the
	// variant's package has no matching pinout definition.
	Pinout map[int]string `json:"pinout,omitempty"`
}

// DocumentationLink is one pack- or device-level documentation reference.
type DocumentationLink struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// ProgrammingInterface describes one programming/debug interface.
type ProgrammingInterface struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// DeviceModule is one peripheral module instantiation on the device,
// carrying the instance names and pad signals used for cross-referencing.
type DeviceModule struct {
	Name      string           `json:"name"`
	Instances []ModuleInstance `json:"instances,omitempty"`
}

// ModuleInstance is one named instance of a device module.
type ModuleInstance struct {
	Name    string   `json:"name"`
	Signals []Signal `json:"signals,omitempty"`
}

// Signal maps a module function to a physical pad.
type Signal struct {
	Group    string `json:"group"`
	Function string `json:"function,omitempty"`
	Pad      string `json:"pad"`
	Index    *int   `json:"index,omitempty"`
}

// Interrupt is one vector table entry. Duplicate indices are preserved as
// separate entries; hardware vector tables may legitimately alias.
type Interrupt struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Caption string `json:"caption,omitempty"`
}

// Pinout maps physical pin positions to pad names for one package drawing.
type Pinout struct {
	Name string `json:"name"`
	Pins []Pin  `json:"pins,omitempty"`
}

// Pin is one physical pin within a pinout.
type Pin struct {
	Position int    `json:"position"`
	Pad      string `json:"pad"`
}

// TimerType classifies an inferred timer instance.
type TimerType string

// Timer classifications.
const (
	Timer8      TimerType = "timer8"
	Timer16     TimerType = "timer16"
	Timer8Async TimerType = "timer8async"
)

// TimerInfo is a derived view of one timer/counter instance, reconstructed
// from register naming conventions rather than read from a single element.
type TimerInfo struct {
	Name       string        `json:"name"`
	Type       TimerType     `json:"type"`
	Registers  []string      `json:"registers,omitempty"`
	Modes      []string      `json:"modes,omitempty"`
	Prescalers []string      `json:"prescalers,omitempty"`
	Outputs    []TimerOutput `json:"outputs,omitempty"`
}

// TimerOutput is one compare/PWM output channel of a timer.
// Pad is "" when the output exists but no pinout carries its pad.
type TimerOutput struct {
	Name string `json:"name"`
	Pad  string `json:"pad,omitempty"`
}

// ClockInfo is a derived view of the device clock system.
type ClockInfo struct {
	Sources    []ClockSource `json:"sources,omitempty"`
	Prescalers []string      `json:"prescalers,omitempty"`
	HasPLL     bool          `json:"has_pll"`
	ADC        *ADCInfo      `json:"adc,omitempty"`
}

// ClockSource is one selectable clock source option.
type ClockSource struct {
	Name    string `json:"name"`
	Caption string `json:"caption,omitempty"`
}

// ADCInfo lists the ADC reference and channel options of the device.
type ADCInfo struct {
	References []string `json:"references,omitempty"`
	Channels   []string `json:"channels,omitempty"`
}

// ElectricalParameters is the flat parameter list plus the distinct groups
// observed, in first-seen order.
type ElectricalParameters struct {
	Parameters []ElectricalParameter `json:"parameters"`
	Groups     []string              `json:"groups"`
}

// ElectricalParameter is one electrical characteristic row.
type ElectricalParameter struct {
	Name    string `json:"name"`
	Caption string `json:"caption,omitempty"`

	// Group is the explicit group attribute when present, else inferred
	// from the parameter name via ElectricalGroupRules.
	Group string `json:"group"`

	Min  string `json:"min,omitempty"`
	Typ  string `json:"typ,omitempty"`
	Max  string `json:"max,omitempty"`
	Unit string `json:"unit,omitempty"`
}
