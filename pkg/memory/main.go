package memory

import (
	"bufio"
	"context"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

const (
	// Memory thresholds as percentages
	WarningThreshold   = 70.0
	CriticalThreshold  = 85.0
	EmergencyThreshold = 95.0

	CheckInterval = 10 * time.Second
)

// Pressure levels
const (
	LevelNormal    = "normal"
	LevelWarning   = "warning"
	LevelCritical  = "critical"
	LevelEmergency = "emergency"
)

// Monitor watches process memory against a limit. The alert group cache never evicts,
// so the monitor reports its size whenever pressure is detected.
type Monitor struct {
	ctx           context.Context
	cancel        context.CancelFunc
	memoryLimitMB uint64
	cacheSize     func() int
	lastGC        time.Time
	mu            sync.RWMutex
	pressureLevel string
}

// NewMonitor creates a monitor, cacheSize may be nil
func NewMonitor(memoryLimitMB uint64, cacheSize func() int) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Monitor{
		ctx:           ctx,
		cancel:        cancel,
		memoryLimitMB: memoryLimitMB,
		cacheSize:     cacheSize,
		lastGC:        time.Now(),
		pressureLevel: LevelNormal,
	}
}

// Start starts the check loop
func (m *Monitor) Start() {
	log.Info().
		Uint64("memory_limit_mb", m.memoryLimitMB).
		Msg("Starting memory monitor")

	SafeGo("memory-monitor", m.monitorLoop)
}

// Stop stops the check loop
func (m *Monitor) Stop() {
	m.cancel()
	log.Info().Msg("Memory monitor stopped")
}

// GetPressureLevel definition
func (m *Monitor) GetPressureLevel() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pressureLevel
}

func (m *Monitor) monitorLoop() {
	ticker := time.NewTicker(CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			var mstats runtime.MemStats
			runtime.ReadMemStats(&mstats)
			m.check(mstats.Sys)
		}
	}
}

func levelFor(usagePercent float64) string {
	switch {
	case usagePercent >= EmergencyThreshold:
		return LevelEmergency
	case usagePercent >= CriticalThreshold:
		return LevelCritical
	case usagePercent >= WarningThreshold:
		return LevelWarning
	default:
		return LevelNormal
	}
}

func (m *Monitor) check(sysBytes uint64) {
	if m.memoryLimitMB == 0 {
		return
	}
	usagePercent := float64(sysBytes/1024/1024) / float64(m.memoryLimitMB) * 100
	level := levelFor(usagePercent)

	m.mu.Lock()
	oldLevel := m.pressureLevel
	m.pressureLevel = level
	m.mu.Unlock()

	if level == LevelNormal {
		return
	}

	cached := 0
	if m.cacheSize != nil {
		cached = m.cacheSize()
	}
	event := log.Debug()
	if level != oldLevel {
		event = log.Warn()
	}
	event.
		Str("sys", humanize.IBytes(sysBytes)).
		Uint64("limit_mb", m.memoryLimitMB).
		Float64("usage_percent", usagePercent).
		Int("alert_groups_cached", cached).
		Str("pressure_level", level).
		Msg("Memory pressure detected")

	if level == LevelEmergency && time.Since(m.lastGC) > 30*time.Second {
		log.Debug().Msg("Forcing garbage collection")
		runtime.GC()
		m.lastGC = time.Now()
	}
}

// GetMemoryLimitMB reads memory limit from cgroup or environment
// Returns 0 if limit cannot be determined
func GetMemoryLimitMB() uint64 {
	if envLimit := os.Getenv("MEMORY_LIMIT_MB"); envLimit != "" {
		if limit, err := strconv.ParseUint(envLimit, 10, 64); err == nil {
			log.Info().Uint64("limit_mb", limit).Msg("Using memory limit from MEMORY_LIMIT_MB environment variable")
			return limit
		}
	}

	// cgroup v2 first, "max" means no limit
	if limit := readLimitFile("/sys/fs/cgroup/memory.max"); limit > 0 {
		log.Info().Uint64("limit_mb", limit).Msg("Using memory limit from cgroup v2")
		return limit
	}

	if limit := readLimitFile("/sys/fs/cgroup/memory/memory.limit_in_bytes"); limit > 0 {
		log.Info().Uint64("limit_mb", limit).Msg("Using memory limit from cgroup v1")
		return limit
	}

	log.Info().Msg("No memory limit found, memory monitor disabled")
	return 0
}

func readLimitFile(path string) uint64 {
	file, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return 0
	}
	return parseLimit(scanner.Text())
}

func parseLimit(line string) uint64 {
	line = strings.TrimSpace(line)
	// cgroup v1 reports "no limit" as a huge page aligned number
	if line == "max" || strings.HasPrefix(line, "922337203685477") {
		return 0
	}

	limit, err := strconv.ParseUint(line, 10, 64)
	if err != nil {
		return 0
	}
	return limit / 1024 / 1024
}

// RecoverPanic recovers from a panic and logs it
func RecoverPanic(component string) {
	if r := recover(); r != nil {
		buf := make([]byte, 4096)
		n := runtime.Stack(buf, false)
		log.Error().
			Str("component", component).
			Interface("panic", r).
			Str("stack", string(buf[:n])).
			Msg("Recovered from panic - application continues running")
	}
}

// SafeGo runs a function in a goroutine with panic recovery
func SafeGo(component string, fn func()) {
	go func() {
		defer RecoverPanic(component)
		fn()
	}()
}
