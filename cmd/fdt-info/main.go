// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Command fdt-info prints a short human-readable summary of a flattened
// devicetree blob: the root model/compatible strings, the memory regions,
// /chosen, and the CPU list.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/datawire/dlib/dlog"
	"github.com/spf13/cobra"

	"github.com/go-fdt/fdt/lib/fdt"
	"github.com/go-fdt/fdt/lib/fdtnodes"
	"github.com/go-fdt/fdt/lib/fdtprop"
	"github.com/go-fdt/fdt/lib/textui"
)

func main() {
	logLevel := textui.LogLevelFlag{Level: dlog.LogLevelInfo}

	argparser := &cobra.Command{
		Use:   "fdt-info FILE.dtb",
		Short: "Print a summary of a flattened devicetree blob",

		Args: cobra.ExactArgs(1),

		SilenceErrors: true,
		SilenceUsage:  true,
	}
	argparser.PersistentFlags().Var(&logLevel, "verbosity", "set the log verbosity (error|warn|info|debug|trace)")

	argparser.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := dlog.WithLogger(context.Background(), textui.NewLogger(os.Stderr, logLevel.Level))
		return run(ctx, args[0], os.Stdout)
	}

	if err := argparser.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v: error: %v\n", argparser.CommandPath(), err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string, out *os.File) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tree, err := fdt.Open(buf)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	dlog.Debugf(ctx, "parsed %s: %d bytes of structure, %d bytes of strings", path, len(tree.RawData()), len(tree.Strings()))

	root := fdtnodes.Open(tree)
	model, err := root.Model()
	if err != nil {
		return err
	}
	compat, err := root.Compatible()
	if err != nil {
		return err
	}
	first, _ := compat.First()
	fmt.Fprintf(out, "This is a devicetree representation of a %s\n", model)
	fmt.Fprintf(out, "...which is compatible with at least: %s\n", first)

	if mem, ok, err := fdtnodes.OpenMemory(tree); err != nil {
		return err
	} else if ok {
		it, err := mem.Reg()
		if err != nil {
			return err
		}
		addr, _, ok, err := it.Next()
		if err != nil {
			return err
		}
		if ok {
			a, err := fdtprop.DecodeUint64(addr)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "...and has at least one memory location at: %#x\n", a)
		}
	}
	fmt.Fprintln(out)

	if chosen, ok, err := fdtnodes.OpenChosen(tree); err != nil {
		return err
	} else if ok {
		if bootargs, ok, err := chosen.Bootargs(); err != nil {
			return err
		} else if ok {
			fmt.Fprintf(out, "The bootargs are: %q\n", bootargs)
		}
		if node, _, _, ok, err := chosen.Stdout(); err != nil {
			return err
		} else if ok {
			fmt.Fprintf(out, "It would write to: %s\n", node.DisplayName())
		}
	}

	if cpus, ok, err := fdtnodes.OpenCpus(tree); err != nil {
		return err
	} else if ok {
		it := cpus.Iter()
		n := 0
		for {
			_, ok, err := it.Next()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			n++
		}
		fmt.Fprintf(out, "It has %d CPU(s)\n", n)
	}

	return nil
}
