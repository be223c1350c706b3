// SPDX-License-Identifier: GPL-2.0-or-later

package fdttest

// Reference builds the small riscv-virtio-shaped devicetree used by
// §8's concrete test scenarios: a root with model/compatible, /chosen
// with an aliased stdout/stdin, /cpus with one cpu, /memory, and a
// /soc bus with a flash, a PCI host bridge, a PLIC, and a UART wired
// to the PLIC via interrupt-parent/phandle.
func Reference() []byte {
	b := New()

	b.BeginNode("")
	b.PropU32("#address-cells", 2)
	b.PropU32("#size-cells", 2)
	b.PropStringList("compatible", []string{"riscv-virtio"})
	b.PropString("model", "riscv-virtio,qemu")

	b.BeginNode("chosen")
	b.PropString("bootargs", "console=ttyS0")
	b.PropString("stdout-path", "uart0:115200")
	b.PropString("stdin-path", "uart0")
	b.EndNode()

	b.BeginNode("aliases")
	b.PropString("uart0", "/soc/uart@10000000")
	b.EndNode()

	b.BeginNode("cpus")
	b.PropU32("#address-cells", 1)
	b.PropU32("#size-cells", 0)
	b.PropU32("timebase-frequency", 10000000)

	b.BeginNode("cpu@0")
	b.PropString("device_type", "cpu")
	b.PropU32("reg", 0)
	b.PropString("status", "okay")
	b.EndNode() // cpu@0

	b.EndNode() // cpus

	b.BeginNode("memory@80000000")
	b.PropString("device_type", "memory")
	b.PropU32Array("reg", []uint32{0, 0x80000000, 0, 0x8000000})
	b.EndNode() // memory

	b.BeginNode("soc")
	b.PropU32("#address-cells", 1)
	b.PropU32("#size-cells", 1)
	b.PropStringList("compatible", []string{"simple-bus"})
	b.PropEmpty("ranges")

	b.BeginNode("flash@20000000")
	b.PropStringList("compatible", []string{"cfi-flash"})
	b.PropU32Array("reg", []uint32{0x20000000, 0x2000000, 0x22000000, 0x2000000})
	b.EndNode() // flash

	b.BeginNode("pci@30000000")
	b.PropStringList("compatible", []string{"pci-host-ecam-generic"})
	b.PropU32("#address-cells", 3)
	b.PropU32("#size-cells", 2)
	b.PropU32Array("ranges", []uint32{
		0x02000000, 0, 0, 0x3000000, 0, 0x10000,
		0x01000000, 0, 0, 0x10000000, 0, 0x8000,
	})
	b.EndNode() // pci

	b.BeginNode("plic@c000000")
	b.PropStringList("compatible", []string{"sifive,plic-1.0.0"})
	b.PropU32("#interrupt-cells", 1)
	b.PropEmpty("interrupt-controller")
	b.PropU32Array("reg", []uint32{0xc000000, 0x4000000})
	b.PropU32("phandle", 2)
	b.EndNode() // plic

	b.BeginNode("uart@10000000")
	b.PropStringList("compatible", []string{"ns16550a"})
	b.PropU32Array("reg", []uint32{0x10000000, 0x100})
	b.PropU32Array("interrupts", []uint32{0xA})
	b.PropU32("interrupt-parent", 2)
	b.EndNode() // uart

	b.EndNode() // soc

	b.EndNode() // root

	return b.Build()
}
