// SPDX-License-Identifier: GPL-2.0-or-later

package fdtnodes

import (
	"github.com/go-fdt/fdt/lib/fdt"
	"github.com/go-fdt/fdt/lib/fdtprop"
)

// Cpu wraps one "cpu" node under /cpus.
type Cpu struct {
	fdt.Node
	parent Cpus
}

// Reg returns the CPU IDs in the node's "reg" property (one or more,
// for CPUs that share a reg entry across hardware threads).
func (c Cpu) Reg() (*fdtprop.RegIDIter, error) {
	return fdtprop.RegIDs(c.Node)
}

// ClockFrequency reads "clock-frequency", falling back to the parent
// /cpus node's common value.
func (c Cpu) ClockFrequency() (uint64, bool, error) {
	if raw, ok, err := c.RawProperty("clock-frequency"); err != nil {
		return 0, false, err
	} else if ok {
		v, err := fdtprop.Usize("clock-frequency", raw)
		return v, true, err
	}
	return c.parent.ClockFrequency()
}

// TimebaseFrequency reads "timebase-frequency", falling back to the
// parent /cpus node's common value.
func (c Cpu) TimebaseFrequency() (uint64, bool, error) {
	if raw, ok, err := c.RawProperty("timebase-frequency"); err != nil {
		return 0, false, err
	} else if ok {
		v, err := fdtprop.Usize("timebase-frequency", raw)
		return v, true, err
	}
	return c.parent.TimebaseFrequency()
}

// Status is the DTSpec-defined "status" property value of a cpu node.
type Status string

const (
	StatusOkay     Status = "okay"
	StatusDisabled Status = "disabled"
	StatusFail     Status = "fail"
)

// Status reads the optional "status" property, defaulting to "okay"
// when absent per DTSpec.
func (c Cpu) Status() (Status, error) {
	raw, ok, err := c.RawProperty("status")
	if err != nil {
		return "", err
	}
	if !ok {
		return StatusOkay, nil
	}
	s, err := fdtprop.String("status", raw)
	if err != nil {
		return "", err
	}
	switch Status(s) {
	case StatusOkay, StatusDisabled, StatusFail:
		return Status(s), nil
	default:
		return "", &fdt.InvalidPropertyValue{Property: "status", Reason: "not one of okay/disabled/fail"}
	}
}

// EnableMethod reads the optional "enable-method" string-list property
// (e.g. "spin-table" or a "vendor,method" pair).
func (c Cpu) EnableMethod() ([]string, bool, error) {
	raw, ok, err := c.RawProperty("enable-method")
	if err != nil || !ok {
		return nil, ok, err
	}
	return fdtprop.StringList(raw), true, nil
}

// MMUType reads the optional "mmu-type" property.
func (c Cpu) MMUType() (string, bool, error) {
	raw, ok, err := c.RawProperty("mmu-type")
	if err != nil || !ok {
		return "", ok, err
	}
	s, err := fdtprop.String("mmu-type", raw)
	return s, true, err
}

// tlbU32Property reads one of the TLB descriptor properties, all of
// which are plain u32 counts.
func (c Cpu) tlbU32Property(name string) (uint32, bool, error) {
	raw, ok, err := c.RawProperty(name)
	if err != nil || !ok {
		return 0, ok, err
	}
	v, err := fdtprop.U32(name, raw)
	return v, true, err
}

func (c Cpu) TLBSplit() (bool, error) {
	_, ok, err := c.RawProperty("tlb-split")
	return ok, err
}
func (c Cpu) TLBSize() (uint32, bool, error)   { return c.tlbU32Property("tlb-size") }
func (c Cpu) TLBSets() (uint32, bool, error)   { return c.tlbU32Property("tlb-sets") }
func (c Cpu) DTLBSize() (uint32, bool, error)  { return c.tlbU32Property("d-tlb-size") }
func (c Cpu) DTLBSets() (uint32, bool, error)  { return c.tlbU32Property("d-tlb-sets") }
func (c Cpu) ITLBSize() (uint32, bool, error)  { return c.tlbU32Property("i-tlb-size") }
func (c Cpu) ITLBSets() (uint32, bool, error)  { return c.tlbU32Property("i-tlb-sets") }
