// SPDX-License-Identifier: GPL-2.0-or-later

package fdtnodes

import (
	"github.com/go-fdt/fdt/lib/fdt"
	"github.com/go-fdt/fdt/lib/fdtprop"
)

// Cpus wraps the required "/cpus" node.
type Cpus struct {
	fdt.Node
}

// OpenCpus looks up "/cpus".
func OpenCpus(t *fdt.Tree) (Cpus, bool, error) {
	n, ok, err := t.FindNode("/cpus")
	if err != nil || !ok {
		return Cpus{}, ok, err
	}
	return Cpus{Node: n}, true, nil
}

// TimebaseFrequency reads the common "timebase-frequency" property,
// which individual cpu nodes inherit when they lack their own.
func (c Cpus) TimebaseFrequency() (uint64, bool, error) {
	raw, ok, err := c.RawProperty("timebase-frequency")
	if err != nil || !ok {
		return 0, ok, err
	}
	v, err := fdtprop.Usize("timebase-frequency", raw)
	return v, true, err
}

// ClockFrequency reads the common "clock-frequency" property.
func (c Cpus) ClockFrequency() (uint64, bool, error) {
	raw, ok, err := c.RawProperty("clock-frequency")
	if err != nil || !ok {
		return 0, ok, err
	}
	v, err := fdtprop.Usize("clock-frequency", raw)
	return v, true, err
}

// CpuIter walks /cpus' "cpu" children.
type CpuIter struct {
	cpus     Cpus
	children *fdt.ChildIter
}

// Iter returns an iterator over c's "cpu" children (cpu-map and other
// non-cpu children are skipped).
func (c Cpus) Iter() *CpuIter {
	return &CpuIter{cpus: c, children: c.Children()}
}

// Next returns the next "cpu" child.
func (it *CpuIter) Next() (Cpu, bool, error) {
	for {
		n, ok := it.children.Next()
		if !ok {
			return Cpu{}, false, it.children.Err()
		}
		base, _, _, err := n.Name()
		if err != nil {
			return Cpu{}, false, err
		}
		if base != "cpu" {
			continue
		}
		return Cpu{Node: n, parent: it.cpus}, true, nil
	}
}

// CpuMap looks up the optional "cpu-map" child.
func (c Cpus) CpuMap() (CpuMap, bool, error) {
	n, ok, err := c.Child("cpu-map")
	if err != nil || !ok {
		return CpuMap{}, ok, err
	}
	return CpuMap{Node: n}, true, nil
}
