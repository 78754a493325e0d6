package serial

import (
	"fmt"
	"slices"

	bugserial "go.bug.st/serial"
)

// portLister is swapped out in tests
var portLister = bugserial.GetPortsList

// ListPorts returns the serial devices present on this machine
func ListPorts() ([]string, error) {
	ports, err := portLister()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}
	slices.Sort(ports)
	return ports, nil
}

// Available reports whether device is among the enumerated ports
func Available(device string) (bool, error) {
	ports, err := ListPorts()
	if err != nil {
		return false, err
	}
	return slices.Contains(ports, device), nil
}
