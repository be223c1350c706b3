// SPDX-License-Identifier: GPL-2.0-or-later

// Package fdtnodes implements the §4.H standard-node facades: thin
// typed wrappers enforcing DTSpec requirements on specific well-known
// node paths (/, /aliases, /chosen, /memory, /reserved-memory, /cpus).
package fdtnodes

import (
	"sort"
	"strconv"
	"strings"

	"github.com/go-fdt/fdt/lib/fdt"
	"github.com/go-fdt/fdt/lib/fdtprop"
)

// chassisTypes are the values DTSpec defines for the root node's
// "chassis-type" property.
var chassisTypes = map[string]bool{
	"desktop": true, "laptop": true, "convertible": true, "server": true,
	"tablet": true, "handset": true, "watch": true, "embedded": true,
}

// Root wraps the devicetree's root node.
type Root struct {
	fdt.Node
}

// Open fetches and wraps the root node.
func Open(t *fdt.Tree) Root {
	return Root{Node: t.Root()}
}

// CellSizes reads #address-cells/#size-cells from the root, required
// to decode any top-level "reg" property (e.g. /memory).
func (r Root) CellSizes() (fdtprop.CellSizes, error) {
	return fdtprop.ReadCellSizes(r.Node)
}

// Model reads the required "model" property.
func (r Root) Model() (string, error) {
	raw, ok, err := r.RawProperty("model")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &fdt.MissingRequiredProperty{Property: "model"}
	}
	return fdtprop.String("model", raw)
}

// Compatible reads the required "compatible" property.
func (r Root) Compatible() (fdtprop.Compatible, error) {
	c, ok, err := fdtprop.ReadCompatible(r.Node)
	if err != nil {
		return fdtprop.Compatible{}, err
	}
	if !ok {
		return fdtprop.Compatible{}, &fdt.MissingRequiredProperty{Property: "compatible"}
	}
	return c, nil
}

// SerialNumber reads the optional "serial-number" property.
func (r Root) SerialNumber() (string, bool, error) {
	raw, ok, err := r.RawProperty("serial-number")
	if err != nil || !ok {
		return "", ok, err
	}
	s, err := fdtprop.String("serial-number", raw)
	return s, true, err
}

// ChassisType reads the optional "chassis-type" property, one of
// DTSpec's fixed enum values.
func (r Root) ChassisType() (string, bool, error) {
	raw, ok, err := r.RawProperty("chassis-type")
	if err != nil || !ok {
		return "", ok, err
	}
	s, err := fdtprop.String("chassis-type", raw)
	if err != nil {
		return "", false, err
	}
	if !chassisTypes[s] {
		return "", false, &fdt.InvalidPropertyValue{Property: "chassis-type", Reason: "not one of the DTSpec chassis-type values: " + strings.Join(sortedKeys(chassisTypes), ", ")}
	}
	return s, true, nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// trimPrefixID trims a fixed prefix from a node's base name and parses
// the remainder as a decimal ID, the way cpu-map's socketN/clusterN/
// coreN/threadN nodes are identified.
func trimPrefixID(nodeName, prefix string) (int, error) {
	rest := strings.TrimPrefix(nodeName, prefix)
	if rest == nodeName {
		return 0, &fdt.InvalidNodeName{Name: nodeName, Reason: "missing expected prefix " + strconv.Quote(prefix)}
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, &fdt.InvalidNodeName{Name: nodeName, Reason: "non-numeric suffix"}
	}
	return n, nil
}
