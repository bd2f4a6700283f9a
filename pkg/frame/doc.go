// Package frame implements the fixed-length frame codec shared with the
// MCU firmware.
package frame

// A frame is a fixed-length array of ASCII bytes: a command header of
// HeaderLength bytes followed by a body padded with NUL bytes up to the
// total frame length. The geometry is a bilateral contract with the
// firmware; both sides are compiled with the same sizes.
//
// The codec performs no bit verification. Parity on the serial line is
// the only transfer error detection available, and the handshake above
// this layer rejects frames that do not assemble to the exact length.
//
// Producer/Consumer: desktop host and MCU firmware, symmetrically.
