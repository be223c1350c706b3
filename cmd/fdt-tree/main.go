// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Command fdt-tree dumps the full node/property tree of a flattened
// devicetree blob, depth-first, in the style of `dtc -O dts`.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/datawire/dlib/dlog"
	"github.com/spf13/cobra"

	"github.com/go-fdt/fdt/lib/fdt"
	"github.com/go-fdt/fdt/lib/textui"
)

func main() {
	logLevel := textui.LogLevelFlag{Level: dlog.LogLevelInfo}
	var dumpRaw bool

	argparser := &cobra.Command{
		Use:   "fdt-tree FILE.dtb",
		Short: "Dump every node and property of a flattened devicetree blob",

		Args: cobra.ExactArgs(1),

		SilenceErrors: true,
		SilenceUsage:  true,
	}
	argparser.PersistentFlags().Var(&logLevel, "verbosity", "set the log verbosity (error|warn|info|debug|trace)")
	argparser.Flags().BoolVar(&dumpRaw, "dump-raw", false, "dump the raw bytes of each property value instead of a best-effort string/int decoding")

	argparser.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := dlog.WithLogger(context.Background(), textui.NewLogger(os.Stderr, logLevel.Level))
		return run(ctx, args[0], os.Stdout, dumpRaw)
	}

	if err := argparser.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v: error: %v\n", argparser.CommandPath(), err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string, out *os.File, dumpRaw bool) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tree, err := fdt.Open(buf)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return printNode(ctx, out, tree.Root(), 0, dumpRaw)
}

func printNode(ctx context.Context, out *os.File, node fdt.Node, depth int, dumpRaw bool) error {
	indent := strings.Repeat(" ", depth*4)

	name, unitAddr, hasUnitAddr, err := node.Name()
	if err != nil {
		return err
	}
	if hasUnitAddr {
		fmt.Fprintf(out, "%s%s@%s {\n", indent, name, unitAddr)
	} else if depth == 0 {
		fmt.Fprintf(out, "/ {\n")
	} else {
		fmt.Fprintf(out, "%s%s {\n", indent, name)
	}

	props := node.Properties()
	for {
		prop, ok := props.Next()
		if !ok {
			break
		}
		printProperty(out, indent+"    ", prop, dumpRaw)
	}
	if err := props.Err(); err != nil {
		return err
	}

	children := node.Children()
	for {
		child, ok := children.Next()
		if !ok {
			break
		}
		if err := printNode(ctx, out, child, depth+1, dumpRaw); err != nil {
			return err
		}
	}
	if err := children.Err(); err != nil {
		dlog.Debugf(ctx, "%s: %v", name, err)
		return err
	}

	fmt.Fprintf(out, "%s};\n", indent)
	return nil
}

func printProperty(out *os.File, indent string, prop fdt.Property, dumpRaw bool) {
	if dumpRaw {
		fmt.Fprintf(out, "%s%s = %s", indent, prop.Name, spew.Sdump(prop.Value))
		return
	}
	if len(prop.Value) == 0 {
		fmt.Fprintf(out, "%s%s;\n", indent, prop.Name)
		return
	}
	fmt.Fprintf(out, "%s%s = %s;\n", indent, prop.Name, formatValue(prop.Value))
}

// formatValue makes a best-effort guess at how to render a property's raw
// bytes: as a devicetree-style string if it looks like a NUL-terminated
// printable string, otherwise as a list of big-endian 32-bit cells.
func formatValue(raw []byte) string {
	if looksLikeString(raw) {
		parts := strings.Split(strings.TrimSuffix(string(raw), "\x00"), "\x00")
		quoted := make([]string, len(parts))
		for i, p := range parts {
			quoted[i] = fmt.Sprintf("%q", p)
		}
		return strings.Join(quoted, ", ")
	}
	if len(raw)%4 == 0 {
		cellsStr := make([]string, 0, len(raw)/4)
		for i := 0; i+4 <= len(raw); i += 4 {
			v := uint32(raw[i])<<24 | uint32(raw[i+1])<<16 | uint32(raw[i+2])<<8 | uint32(raw[i+3])
			cellsStr = append(cellsStr, fmt.Sprintf("0x%x", v))
		}
		return "<" + strings.Join(cellsStr, " ") + ">"
	}
	return fmt.Sprintf("[%x]", raw)
}

func looksLikeString(raw []byte) bool {
	if len(raw) < 2 || raw[len(raw)-1] != 0 {
		return false
	}
	for i, b := range raw[:len(raw)-1] {
		if b == 0 {
			// embedded NUL is fine mid-stream (string lists), but not
			// right before the final terminator or as the sole byte.
			if i == len(raw)-2 {
				return false
			}
			continue
		}
		if b < 0x20 || b > 0x7e {
			return false
		}
	}
	return true
}
