package atpack

import "testing"

func TestBuildClockInfo(t *testing.T) {
	cksel := &ValueGroup{Name: "ENUM_SUT_CKSEL", Values: []ValueGroupEntry{
		{Name: "INTRCOSC_8MHZ", Caption: "Int. RC Osc. 8 MHz", Value: 0x22},
		{Name: "EXTXOSC_8MHZ_XX", Caption: "Ext. Crystal Osc. 8+ MHz", Value: 0x3F},
	}}
	fuses := []FuseConfig{
		{Name: "LOW", Bitfields: []Bitfield{
			{Name: "SUT_CKSEL", Mask: 0x3F, Values: cksel},
			{Name: "CKOUT", Mask: 0x40},
		}},
	}

	peripherals := []PeripheralModule{
		{
			Name: "CPU",
			ValueGroups: []ValueGroup{
				{Name: "CPU_CLKPS", Values: []ValueGroupEntry{
					{Name: "DIV1", Caption: "1", Value: 0},
					{Name: "DIV2", Caption: "2", Value: 1},
				}},
			},
		},
		{
			Name: "ADC",
			ValueGroups: []ValueGroup{
				{Name: "ADC_REFS", Values: []ValueGroupEntry{
					{Name: "AREF", Caption: "AREF pin", Value: 0},
					{Name: "AVCC", Caption: "AVCC", Value: 1},
				}},
				{Name: "ADC_MUX_SINGLE", Values: []ValueGroupEntry{
					{Name: "ADC0", Caption: "ADC0", Value: 0},
					{Name: "ADC1", Caption: "ADC1", Value: 1},
				}},
			},
		},
		{
			Name: "USB",
			RegisterGroups: []RegisterGroup{
				{Name: "USB", Registers: []Register{{Name: "PLLCSR", Size: 1}}},
			},
		},
	}

	info := buildClockInfo(fuses, peripherals)
	if info == nil {
		t.Fatal("expected clock info")
	}

	if len(info.Sources) != 2 {
		t.Errorf("sources = %+v, want 2 from CKSEL fuse", info.Sources)
	}
	if len(info.Prescalers) != 2 {
		t.Errorf("prescalers = %v, want 2 from CLKPS", info.Prescalers)
	}
	if !info.HasPLL {
		t.Error("PLLCSR register should set HasPLL")
	}
	if info.ADC == nil {
		t.Fatal("expected ADC info")
	}
	if len(info.ADC.References) != 2 || len(info.ADC.Channels) != 2 {
		t.Errorf("ADC = %+v", info.ADC)
	}
}

func TestBuildClockInfoNilWhenNothingFound(t *testing.T) {
	peripherals := []PeripheralModule{
		{Name: "PORT", ValueGroups: []ValueGroup{{Name: "PORT_ISC"}}},
	}
	if info := buildClockInfo(nil, peripherals); info != nil {
		t.Errorf("expected nil, got %+v", info)
	}
}

func TestBuildClockInfoIgnoresMuxOutsideADC(t *testing.T) {
	peripherals := []PeripheralModule{
		{
			Name: "AC",
			ValueGroups: []ValueGroup{
				{Name: "AC_MUXPOS", Values: []ValueGroupEntry{{Name: "PIN0", Value: 0}}},
			},
		},
	}
	if info := buildClockInfo(nil, peripherals); info != nil {
		t.Errorf("MUX groups outside the ADC module must not count: %+v", info)
	}
}
