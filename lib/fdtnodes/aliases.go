// SPDX-License-Identifier: GPL-2.0-or-later

package fdtnodes

import (
	"github.com/go-fdt/fdt/lib/fdt"
	"github.com/go-fdt/fdt/lib/fdtprop"
)

// Aliases wraps the optional "/aliases" node, each of whose property
// values is itself a devicetree path.
type Aliases struct {
	fdt.Node
	tree *fdt.Tree
}

// OpenAliases looks up "/aliases". ok is false if the node is absent
// (a devicetree is not required to carry one).
func OpenAliases(t *fdt.Tree) (Aliases, bool, error) {
	n, ok, err := t.FindNode("/aliases")
	if err != nil || !ok {
		return Aliases{}, ok, err
	}
	return Aliases{Node: n, tree: t}, true, nil
}

// ResolveName returns the raw path string an alias names, without
// navigating to it.
func (a Aliases) ResolveName(alias string) (string, bool, error) {
	raw, ok, err := a.RawProperty(alias)
	if err != nil || !ok {
		return "", ok, err
	}
	path, err := fdtprop.String(alias, raw)
	return path, true, err
}

// Resolve returns the node an alias names.
func (a Aliases) Resolve(alias string) (fdt.Node, bool, error) {
	path, ok, err := a.ResolveName(alias)
	if err != nil || !ok {
		return fdt.Node{}, ok, err
	}
	return a.tree.FindNode(path)
}

// AliasEntry is one (alias, path) pair.
type AliasEntry struct {
	Alias string
	Path  string
}

// All returns every (alias, path) pair, in property declaration order.
func (a Aliases) All() ([]AliasEntry, error) {
	var out []AliasEntry
	it := a.Properties()
	for {
		p, ok := it.Next()
		if !ok {
			return out, it.Err()
		}
		path, err := fdtprop.String(p.Name, p.Value)
		if err != nil {
			return out, err
		}
		out = append(out, AliasEntry{Alias: p.Name, Path: path})
	}
}
