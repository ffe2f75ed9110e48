package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	assert.Equal(t, LevelNormal, levelFor(10))
	assert.Equal(t, LevelWarning, levelFor(70))
	assert.Equal(t, LevelCritical, levelFor(90))
	assert.Equal(t, LevelEmergency, levelFor(99))
}

func TestCheckTracksPressure(t *testing.T) {
	calls := 0
	m := NewMonitor(100, func() int { calls++; return 42 })
	defer m.Stop()

	m.check(90 * 1024 * 1024)
	assert.Equal(t, LevelCritical, m.GetPressureLevel())
	assert.Equal(t, 1, calls)

	m.check(10 * 1024 * 1024)
	assert.Equal(t, LevelNormal, m.GetPressureLevel())
	assert.Equal(t, 1, calls)
}

func TestCheckWithoutLimit(t *testing.T) {
	m := NewMonitor(0, nil)
	defer m.Stop()

	m.check(1 << 40)
	assert.Equal(t, LevelNormal, m.GetPressureLevel())
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, uint64(0), parseLimit("max"))
	assert.Equal(t, uint64(0), parseLimit("9223372036854771712"))
	assert.Equal(t, uint64(512), parseLimit("536870912\n"))
	assert.Equal(t, uint64(0), parseLimit("garbage"))
}

func TestSafeGoRecovers(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	SafeGo("test", func() {
		defer wg.Done()
		panic("boom")
	})
	wg.Wait()
}
