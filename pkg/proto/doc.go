// Package proto implements the handshake and command layer of the MCU
// link.
package proto

// The protocol is a strict master/slave exchange of fixed-length frames
// (see package frame). A connection is established with a three-way
// SYNC/ACKN/SYNA handshake and torn down by sending DISC once the MCU
// signals readiness with a CTS pacing token. While connected, the host
// may send any command frame; the MCU replies and emits events as
// frames of the same shape.
//
// The engine is agnostic to command meaning except for the handshake
// and pacing codes. Flow control lives one layer up, in package session.
//
// Producer: MCU firmware
// Consumer: desktop host
