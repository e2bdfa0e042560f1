//go:build linux

package sysinfo

import "golang.org/x/sys/unix"

func collectPlatform(snap *Snapshot) {
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err != nil {
		return
	}
	unit := uint64(si.Unit)
	if unit == 0 {
		unit = 1
	}
	snap.TotalRAM = uint64(si.Totalram) * unit
	snap.AvailableRAM = uint64(si.Freeram) * unit
	// Loads are fixed-point with a 16-bit fractional part.
	snap.Load1 = float64(si.Loads[0]) / 65536.0
	snap.UptimeSeconds = int64(si.Uptime)
}
