package monitor

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// BatteryStatus is a raw battery reading before the plugged-in override.
type BatteryStatus struct {
	Percent float64
	Plugged bool
}

// readSysfsBattery scans a Linux power_supply directory. The boolean is false
// when no battery is listed.
func readSysfsBattery(dir string) (BatteryStatus, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return BatteryStatus{}, false
	}

	var (
		status     BatteryStatus
		found      bool
		mainsKnown bool
		mainsOn    bool
	)
	for _, e := range entries {
		supply := filepath.Join(dir, e.Name())
		switch readTrimmed(filepath.Join(supply, "type")) {
		case "Mains":
			mainsKnown = true
			if readTrimmed(filepath.Join(supply, "online")) == "1" {
				mainsOn = true
			}
		case "Battery":
			if found {
				continue
			}
			pct, err := strconv.ParseFloat(readTrimmed(filepath.Join(supply, "capacity")), 64)
			if err != nil {
				continue
			}
			found = true
			status.Percent = clamp(pct)
			switch strings.ToLower(readTrimmed(filepath.Join(supply, "status"))) {
			case "charging", "full":
				status.Plugged = true
			}
		}
	}
	if !found {
		return BatteryStatus{}, false
	}
	if mainsKnown {
		status.Plugged = mainsOn
	}
	return status, true
}

func readTrimmed(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// readUpower asks the upower CLI for the first battery device.
func readUpower(ctx context.Context) (BatteryStatus, bool) {
	devicesOut, err := exec.CommandContext(ctx, "upower", "-e").Output()
	if err != nil {
		return BatteryStatus{}, false
	}
	for _, dev := range strings.Split(strings.TrimSpace(string(devicesOut)), "\n") {
		if !strings.Contains(dev, "battery") {
			continue
		}
		infoOut, err := exec.CommandContext(ctx, "upower", "-i", dev).Output()
		if err != nil {
			continue
		}
		return parseUpower(string(infoOut))
	}
	return BatteryStatus{}, false
}

func parseUpower(info string) (BatteryStatus, bool) {
	var (
		status BatteryStatus
		found  bool
	)
	for _, line := range strings.Split(info, "\n") {
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch strings.TrimSpace(key) {
		case "percentage":
			if f, err := strconv.ParseFloat(strings.TrimSuffix(val, "%"), 64); err == nil {
				status.Percent = clamp(f)
				found = true
			}
		case "state":
			state := strings.ToLower(val)
			status.Plugged = state == "charging" || state == "fully-charged"
		}
	}
	return status, found
}
