// Package sysinfo reports host resource usage for the health endpoint and
// periodic resource logging.
package sysinfo

import "runtime"

// Snapshot is a point-in-time view of host resources. Memory fields are
// zero on platforms without a collector.
type Snapshot struct {
	NumCPU        int     `json:"num_cpu"`
	TotalRAM      uint64  `json:"total_ram_bytes,omitempty"`
	AvailableRAM  uint64  `json:"available_ram_bytes,omitempty"`
	UsedRAMPct    float64 `json:"used_ram_percent,omitempty"`
	Load1         float64 `json:"load_1m,omitempty"`
	UptimeSeconds int64   `json:"uptime_seconds,omitempty"`
}

// Collect gathers a snapshot. It never fails: platform collectors that
// error leave their fields zero.
func Collect() Snapshot {
	snap := Snapshot{NumCPU: runtime.NumCPU()}
	collectPlatform(&snap)
	if snap.TotalRAM > 0 {
		snap.UsedRAMPct = 100 * float64(snap.TotalRAM-snap.AvailableRAM) / float64(snap.TotalRAM)
	}
	return snap
}
