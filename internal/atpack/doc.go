// Package atpack parses microcontroller AtPack archives into a structured
// device model.
//
// An AtPack is a vendor-distributed ZIP archive describing one or more
// microcontroller devices. It contains a package descriptor (.pdsc) with
// pack-level metadata and one ATDF XML fragment per device describing
// signatures, memory layout, fuses, lockbits, peripherals, pinouts,
// interrupts, and electrical limits.
//
// # Usage
//
//	parser := atpack.NewParser()
//	pack, err := parser.ParseBytes(data, "ATmega_DFP.atpack")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, dev := range pack.Devices {
//	    fmt.Printf("%s (%s, %s)\n", dev.Name, dev.Family, dev.Architecture)
//	}
//
// # Fault isolation
//
// Archive-level failures (fetch, container format, missing pack name) abort
// the whole load. Device-level failures do not: a device whose fragment is
// structurally unparsable is skipped and recorded in Pack.Skipped while every
// other device loads normally. Optional XML elements and attributes that are
// absent yield empty defaults, never errors; the AtPack ecosystem is not
// schema-strict across vendors and families.
//
// # Derived views
//
// Timers, clock info, and electrical parameter groups are not single XML
// elements; they are inferred from register naming conventions and
// value-group cross-references using prioritized rule tables (see timers.go,
// clock.go, electrical.go). The tables are data, exported where a
// presentation layer must stay consistent with them.
package atpack
