// SPDX-License-Identifier: GPL-2.0-or-later

package fdtnodes

import (
	"github.com/go-fdt/fdt/lib/fdt"
	"github.com/go-fdt/fdt/lib/fdtprop"
)

// CpuMap wraps the optional "cpu-map" sub-tree of /cpus, describing the
// socket/cluster/core/thread topology (original_source/src/nodes/cpus.rs;
// see SPEC_FULL.md §13.1 for the per-kind ID() prefix fix).
type CpuMap struct {
	fdt.Node
}

func childrenNamed(n fdt.Node, base string) ([]fdt.Node, error) {
	var out []fdt.Node
	it := n.Children()
	for {
		child, ok := it.Next()
		if !ok {
			return out, it.Err()
		}
		b, _, _, err := child.Name()
		if err != nil {
			return out, err
		}
		if len(b) >= len(base) && b[:len(base)] == base {
			out = append(out, child)
		}
	}
}

// Sockets returns the cpu-map's socket children.
func (m CpuMap) Sockets() ([]CpuSocket, error) {
	nodes, err := childrenNamed(m.Node, "socket")
	if err != nil {
		return nil, err
	}
	out := make([]CpuSocket, len(nodes))
	for i, n := range nodes {
		out[i] = CpuSocket{Node: n}
	}
	return out, nil
}

// CpuSocket is one cpu-map "socketN" node.
type CpuSocket struct {
	fdt.Node
}

// ID parses the numeric suffix of the socket's node name.
func (s CpuSocket) ID() (int, error) {
	name, _, _, err := s.Name()
	if err != nil {
		return 0, err
	}
	return trimPrefixID(name, "socket")
}

// Clusters returns the socket's cluster children.
func (s CpuSocket) Clusters() ([]CpuCluster, error) {
	nodes, err := childrenNamed(s.Node, "cluster")
	if err != nil {
		return nil, err
	}
	out := make([]CpuCluster, len(nodes))
	for i, n := range nodes {
		out[i] = CpuCluster{Node: n}
	}
	return out, nil
}

// CpuCluster is one cpu-map "clusterN" node.
type CpuCluster struct {
	fdt.Node
}

// ID parses the numeric suffix of the cluster's node name.
func (c CpuCluster) ID() (int, error) {
	name, _, _, err := c.Name()
	if err != nil {
		return 0, err
	}
	return trimPrefixID(name, "cluster")
}

// Cores returns the cluster's core children.
func (c CpuCluster) Cores() ([]CpuCore, error) {
	nodes, err := childrenNamed(c.Node, "core")
	if err != nil {
		return nil, err
	}
	out := make([]CpuCore, len(nodes))
	for i, n := range nodes {
		out[i] = CpuCore{Node: n}
	}
	return out, nil
}

// CpuCore is one cpu-map "coreN" node.
type CpuCore struct {
	fdt.Node
}

// ID parses the numeric suffix of the core's node name.
func (c CpuCore) ID() (int, error) {
	name, _, _, err := c.Name()
	if err != nil {
		return 0, err
	}
	return trimPrefixID(name, "core")
}

// Threads returns the core's thread children. A single-threaded core
// has none; its "cpu" phandle lives directly on the core node instead.
func (c CpuCore) Threads() ([]CpuThread, error) {
	nodes, err := childrenNamed(c.Node, "thread")
	if err != nil {
		return nil, err
	}
	out := make([]CpuThread, len(nodes))
	for i, n := range nodes {
		out[i] = CpuThread{Node: n}
	}
	return out, nil
}

// CPU resolves the core's own "cpu" phandle (single-threaded cores).
func (c CpuCore) CPU(tree *fdt.Tree) (fdt.Node, error) {
	return resolveCPUPhandle(tree, c.Node)
}

// CpuThread is one cpu-map "threadN" node.
type CpuThread struct {
	fdt.Node
}

// ID parses the numeric suffix of the thread's node name. This is the
// call site SPEC_FULL.md §13.1 flags: the source trims "socket" here by
// copy-paste error, not "thread".
func (t CpuThread) ID() (int, error) {
	name, _, _, err := t.Name()
	if err != nil {
		return 0, err
	}
	return trimPrefixID(name, "thread")
}

// CPU resolves the thread's "cpu" phandle to the actual cpu node.
func (t CpuThread) CPU(tree *fdt.Tree) (fdt.Node, error) {
	return resolveCPUPhandle(tree, t.Node)
}

func resolveCPUPhandle(tree *fdt.Tree, n fdt.Node) (fdt.Node, error) {
	ph, ok, err := fdtprop.ReadPHandle(n, "cpu")
	if err != nil {
		return fdt.Node{}, err
	}
	if !ok {
		return fdt.Node{}, &fdt.MissingRequiredProperty{Property: "cpu"}
	}
	return tree.ResolvePHandle(uint32(ph))
}
