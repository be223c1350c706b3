// SPDX-License-Identifier: GPL-2.0-or-later

package fdtnodes

import (
	"strings"

	"github.com/go-fdt/fdt/lib/fdt"
	"github.com/go-fdt/fdt/lib/fdtprop"
)

// Chosen wraps the optional "/chosen" node, which carries
// boot-time-decided parameters rather than hardware description.
type Chosen struct {
	fdt.Node
	tree *fdt.Tree
}

// OpenChosen looks up "/chosen".
func OpenChosen(t *fdt.Tree) (Chosen, bool, error) {
	n, ok, err := t.FindNode("/chosen")
	if err != nil || !ok {
		return Chosen{}, ok, err
	}
	return Chosen{Node: n, tree: t}, true, nil
}

// Bootargs reads "bootargs" with its trailing NUL stripped.
func (c Chosen) Bootargs() (string, bool, error) {
	raw, ok, err := c.RawProperty("bootargs")
	if err != nil || !ok {
		return "", ok, err
	}
	s, err := fdtprop.String("bootargs", raw)
	return s, true, err
}

// splitPathParams splits a "path[:params]" property value.
func splitPathParams(raw string) (path string, params string, hasParams bool) {
	if idx := strings.IndexByte(raw, ':'); idx >= 0 {
		return raw[:idx], raw[idx+1:], true
	}
	return raw, "", false
}

func (c Chosen) readPathProp(name string) (path, params string, hasParams, ok bool, err error) {
	raw, ok, err := c.RawProperty(name)
	if err != nil || !ok {
		return "", "", false, ok, err
	}
	s, err := fdtprop.String(name, raw)
	if err != nil {
		return "", "", false, false, err
	}
	path, params, hasParams = splitPathParams(s)
	return path, params, hasParams, true, nil
}

// StdoutPath reads "stdout-path" as (path, optional params).
func (c Chosen) StdoutPath() (path, params string, hasParams, ok bool, err error) {
	return c.readPathProp("stdout-path")
}

// StdinPath reads "stdin-path" as (path, optional params).
func (c Chosen) StdinPath() (path, params string, hasParams, ok bool, err error) {
	return c.readPathProp("stdin-path")
}

// resolve navigates a chosen path, falling back through /aliases when
// the path has no leading '/' (i.e. is itself an alias name).
func (c Chosen) resolve(path string) (fdt.Node, bool, error) {
	if strings.HasPrefix(path, "/") {
		return c.tree.FindNode(path)
	}
	aliases, ok, err := OpenAliases(c.tree)
	if err != nil || !ok {
		return fdt.Node{}, false, err
	}
	return aliases.Resolve(path)
}

// Stdout resolves "stdout-path" to a node, returning its params too.
func (c Chosen) Stdout() (node fdt.Node, params string, hasParams, ok bool, err error) {
	path, params, hasParams, ok, err := c.StdoutPath()
	if err != nil || !ok {
		return fdt.Node{}, "", false, ok, err
	}
	node, ok, err = c.resolve(path)
	return node, params, hasParams, ok, err
}

// Stdin resolves "stdin-path" to a node, returning its params too.
func (c Chosen) Stdin() (node fdt.Node, params string, hasParams, ok bool, err error) {
	path, params, hasParams, ok, err := c.StdinPath()
	if err != nil || !ok {
		return fdt.Node{}, "", false, ok, err
	}
	node, ok, err = c.resolve(path)
	return node, params, hasParams, ok, err
}
