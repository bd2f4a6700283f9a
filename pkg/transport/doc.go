// Package transport provides the raw byte channel to the MCU.
package transport

// The protocol engine owns exactly one Conn and is the only caller.
// The production implementation binds a serial device with the line
// parameters programmed into the firmware; tests substitute scripted
// implementations.
