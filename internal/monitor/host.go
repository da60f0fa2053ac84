package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// Source is the set of operating system queries the sampler depends on.
type Source interface {
	// CPUPercent blocks for window and returns the average load over it.
	CPUPercent(ctx context.Context, window time.Duration) (float64, error)
	MemPercent(ctx context.Context) (float64, error)
	DiskPercent(ctx context.Context, path string) (float64, error)
	NetCounters(ctx context.Context) (NetCounters, error)
	// Battery reports false when the host has no battery.
	Battery(ctx context.Context) (BatteryStatus, bool)
}

const defaultPowerSupplyDir = "/sys/class/power_supply"

type hostSource struct {
	powerSupplyDir string
}

// HostSource returns a Source backed by gopsutil.
func HostSource() Source {
	return hostSource{powerSupplyDir: defaultPowerSupplyDir}
}

func (hostSource) CPUPercent(ctx context.Context, window time.Duration) (float64, error) {
	percents, err := cpu.PercentWithContext(ctx, window, false)
	if err != nil {
		return 0, fmt.Errorf("getting cpu percent: %w", err)
	}
	if len(percents) == 0 {
		return 0, errors.New("getting cpu percent: no readings")
	}
	return percents[0], nil
}

func (hostSource) MemPercent(ctx context.Context) (float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("getting virtual memory: %w", err)
	}
	return vm.UsedPercent, nil
}

func (hostSource) DiskPercent(ctx context.Context, path string) (float64, error) {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("getting disk usage for %s: %w", path, err)
	}
	return usage.UsedPercent, nil
}

func (hostSource) NetCounters(ctx context.Context) (NetCounters, error) {
	counters, err := psnet.IOCountersWithContext(ctx, false)
	if err != nil {
		return NetCounters{}, fmt.Errorf("getting network counters: %w", err)
	}
	if len(counters) == 0 {
		return NetCounters{}, errors.New("getting network counters: no interfaces")
	}
	return NetCounters{Sent: counters[0].BytesSent, Recv: counters[0].BytesRecv}, nil
}

// sysfs first, then upower
func (h hostSource) Battery(ctx context.Context) (BatteryStatus, bool) {
	if st, ok := readSysfsBattery(h.powerSupplyDir); ok {
		return st, true
	}
	return readUpower(ctx)
}

// HostInfo identifies the machine being watched.
type HostInfo struct {
	Hostname string
	Platform string
	Uptime   time.Duration
}

func (h HostInfo) String() string {
	return fmt.Sprintf("%s (%s), up %s", h.Hostname, h.Platform, h.Uptime.Truncate(time.Minute))
}

// DescribeHost reads the host name, platform and uptime.
func DescribeHost(ctx context.Context) (HostInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return HostInfo{}, fmt.Errorf("getting host info: %w", err)
	}
	platform := info.Platform
	if info.PlatformVersion != "" {
		platform += " " + info.PlatformVersion
	}
	return HostInfo{
		Hostname: info.Hostname,
		Platform: platform,
		Uptime:   time.Duration(info.Uptime) * time.Second,
	}, nil
}
