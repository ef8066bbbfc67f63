package supervisor

import "github.com/shirou/gopsutil/v3/process"

// pidAlive reports whether pid still names a live process. Lookup errors count as alive.
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	ok, err := process.PidExists(int32(pid))
	if err != nil {
		return true
	}
	return ok
}

// residentBytes returns the RSS of pid, or 0 when it cannot be read.
func residentBytes(pid int) uint64 {
	if pid <= 0 {
		return 0
	}
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return 0
	}
	mi, err := p.MemoryInfo()
	if err != nil || mi == nil {
		return 0
	}
	return mi.RSS
}
