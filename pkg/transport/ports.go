package transport

import (
	"fmt"
	"regexp"
	"runtime"
	"sort"

	"go.bug.st/serial"
)

// DefaultPortPattern returns the device name pattern for ports the MCU
// is likely to enumerate as on this OS.
func DefaultPortPattern() string {
	if runtime.GOOS == "darwin" {
		return `tty\.usb`
	}
	// USB CDC devices on Linux.
	return `ttyACM`
}

// Candidates enumerates serial device paths matching pattern, in stable
// order. An empty pattern selects the OS default.
func Candidates(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPortPattern()
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("port pattern: %w", err)
	}
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list ports: %w", err)
	}
	return filterPorts(ports, re), nil
}

func filterPorts(ports []string, re *regexp.Regexp) []string {
	matched := make([]string, 0, len(ports))
	for _, port := range ports {
		if re.MatchString(port) {
			matched = append(matched, port)
		}
	}
	sort.Strings(matched)
	return matched
}
