package relay

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/loglift/loglift/internal/config"
	"github.com/loglift/loglift/internal/metrics"
)

func testScalerConfig() *config.ScalerConfig {
	return &config.ScalerConfig{
		DepthThreshold:  100,
		BaseDelayMS:     1000,
		DelayStepMS:     100,
		MinDelayMS:      100,
		MinWorkers:      1,
		MaxWorkers:      64,
		IdleWaitMS:      1,
		RetireAfterIdle: 3,
		NoMatchYieldMS:  0,
	}
}

// runSequence feeds a synthetic depth sequence through the controller
// and records at which samples a spawn happened.
func runSequence(cfg *config.ScalerConfig, depths []int, spawnOK bool) []bool {
	spawned := make([]bool, len(depths))
	i := 0
	c := newController(cfg,
		func() int { return 0 },
		func() bool {
			if spawnOK {
				spawned[i] = true
			}
			return spawnOK
		},
		func() int { return 1 },
		metrics.New(),
		zerolog.Nop(),
	)
	for i = 0; i < len(depths); i++ {
		c.step(depths[i])
	}
	return spawned
}

func TestControllerSpawnsOnGrowthPastThreshold(t *testing.T) {
	// Spawns must land on 150, 325 and 600: each over threshold and
	// strictly above the previous sample. The falling 325 and the
	// trailing 0 must not spawn.
	depths := []int{0, 50, 150, 325, 600, 325, 0}
	spawned := runSequence(testScalerConfig(), depths, true)

	want := []bool{false, false, true, true, true, false, false}
	for i := range want {
		if spawned[i] != want[i] {
			t.Errorf("sample %d (depth %d): spawned=%v, want %v", i, depths[i], spawned[i], want[i])
		}
	}
}

func TestControllerMonotonicScaleUp(t *testing.T) {
	// K consecutive strictly-growing over-threshold samples spawn
	// exactly K workers, one per sample.
	depths := []int{150, 200, 300, 450, 700}
	spawned := runSequence(testScalerConfig(), depths, true)

	count := 0
	for i, s := range spawned {
		if !s {
			t.Errorf("sample %d (depth %d): expected spawn", i, depths[i])
		} else {
			count++
		}
	}
	if count != len(depths) {
		t.Errorf("spawned %d workers, want %d", count, len(depths))
	}
}

func TestControllerIgnoresFlatAndFallingDepth(t *testing.T) {
	// Above threshold throughout, but never growing: no spawns.
	depths := []int{500, 500, 400, 400, 300}
	spawned := runSequence(testScalerConfig(), depths, true)
	for i, s := range spawned {
		if s {
			t.Errorf("sample %d (depth %d): unexpected spawn", i, depths[i])
		}
	}
}

func TestControllerZeroDepthNeverSpawns(t *testing.T) {
	spawned := runSequence(testScalerConfig(), []int{0, 0, 0}, true)
	for i, s := range spawned {
		if s {
			t.Errorf("sample %d: unexpected spawn at zero depth", i)
		}
	}
}

func TestControllerDelayShrinksDuringBurstAndResets(t *testing.T) {
	cfg := testScalerConfig()
	c := newController(cfg, func() int { return 0 }, func() bool { return true }, func() int { return 1 }, metrics.New(), zerolog.Nop())

	// Three consecutive burst ticks: delay steps down each time.
	if d := c.step(150); d != 900*time.Millisecond {
		t.Errorf("first burst tick: delay %v", d)
	}
	if d := c.step(300); d != 800*time.Millisecond {
		t.Errorf("second burst tick: delay %v", d)
	}
	if d := c.step(450); d != 700*time.Millisecond {
		t.Errorf("third burst tick: delay %v", d)
	}
	// Burst over: back to base.
	if d := c.step(450); d != time.Second {
		t.Errorf("non-burst tick: delay %v", d)
	}
}

func TestControllerDelayFloorsAtMinimum(t *testing.T) {
	cfg := testScalerConfig()
	c := newController(cfg, func() int { return 0 }, func() bool { return true }, func() int { return 1 }, metrics.New(), zerolog.Nop())

	depth := 101
	var d time.Duration
	for i := 0; i < 20; i++ {
		d = c.step(depth)
		depth += 50
	}
	if d != cfg.MinDelay() {
		t.Errorf("delay after long burst: got %v, want %v", d, cfg.MinDelay())
	}
}

func TestControllerHonorsWorkerCap(t *testing.T) {
	// spawn reports the cap by returning false; the controller keeps
	// ticking without error and keeps asking once growth resumes.
	depths := []int{150, 300, 450}
	asked := 0
	c := newController(testScalerConfig(),
		func() int { return 0 },
		func() bool { asked++; return false },
		func() int { return 64 },
		metrics.New(),
		zerolog.Nop(),
	)
	for _, d := range depths {
		c.step(d)
	}
	if asked != len(depths) {
		t.Errorf("spawn asked %d times, want %d", asked, len(depths))
	}
}
