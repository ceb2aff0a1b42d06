package system

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

type Stats struct {
	Build    string
	Elapsed  time.Duration
	Videos   int
	Skipped  int
	Frames   int
	Workers  int
	CPUs     int
	RSSBytes uint64
	// Host memory, zero when unavailable.
	HostTotal       uint64
	HostUsedPercent float64
}

// CollectStats fills the resource fields of s from the running process.
func CollectStats(s Stats) Stats {
	s.CPUs = CPUCount()
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfo(); err == nil {
			s.RSSBytes = mi.RSS
		}
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.HostTotal = vm.Total
		s.HostUsedPercent = vm.UsedPercent
	}
	return s
}

func (s Stats) FramesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Elapsed.Seconds()
}

func (s Stats) Report() string {
	var b strings.Builder
	b.WriteString("\n" + strings.Repeat("=", 40) + "\n")
	b.WriteString("       EXTRACTION REPORT\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")
	if s.Build != "" {
		fmt.Fprintf(&b, "Build:            %s\n", s.Build)
	}
	fmt.Fprintf(&b, "Total time:       %v\n", s.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "Videos:           %d (%d skipped)\n", s.Videos, s.Skipped)
	fmt.Fprintf(&b, "Frames saved:     %d\n", s.Frames)
	fmt.Fprintf(&b, "Throughput:       %.2f frames/s\n", s.FramesPerSecond())
	fmt.Fprintf(&b, "Workers:          %d of %d CPUs\n", s.Workers, s.CPUs)
	fmt.Fprintf(&b, "Process RSS:      %.1f MB\n", float64(s.RSSBytes)/1e6)
	if s.HostTotal > 0 {
		fmt.Fprintf(&b, "Host memory:      %.1f%% of %.1f GB\n", s.HostUsedPercent, float64(s.HostTotal)/1e9)
	}
	b.WriteString(strings.Repeat("=", 40) + "\n")
	return b.String()
}

// AppendLog appends a one-line summary to a benchmark log file.
func (s Stats) AppendLog(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Build: %s | Videos: %d | Frames: %d | Time: %v | %.2f frames/s\n",
		time.Now().Format("2006-01-02 15:04:05"), s.Build, s.Videos, s.Frames,
		s.Elapsed.Round(time.Millisecond), s.FramesPerSecond())
	_, err = f.WriteString(line)
	return err
}
