//go:build !(amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm)

package main

// The ULA plots pixels with unsafe.Pointer uint32 stores into RGBA frame
// buffers, which assumes little-endian byte order.
var _ = "IntuitionZX81 requires a little-endian architecture" + 1
