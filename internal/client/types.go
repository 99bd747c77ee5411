package client

// HealthInfo represents the response from /api/health.
type HealthInfo struct {
	OK   bool   `json:"ok"`
	Host string `json:"host"`
	OS   string `json:"os"`
}

// ProcessDetail represents the response from /api/process/:pid.
type ProcessDetail struct {
	PID        int         `json:"pid"`
	PPID       int         `json:"ppid"`
	Name       string      `json:"name"`
	Exe        string      `json:"exe"`
	Cmdline    []string    `json:"cmdline"`
	Username   string      `json:"username"`
	CPUPercent *float64    `json:"cpu_percent"`
	MemoryInfo *MemoryInfo `json:"memory_info"`
	CWD        string      `json:"cwd"`
	CreateTime float64     `json:"create_time"`
}

// MemoryInfo holds the memory counters of a process.
type MemoryInfo struct {
	RSS int64 `json:"rss"`
	VMS int64 `json:"vms"`
}
