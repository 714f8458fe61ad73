package main

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/zoobzio/deepclone"
	"github.com/zoobzio/deepclone/msgpack"
	clonetest "github.com/zoobzio/deepclone/testing"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

const (
	modeSync  = "sync"
	modeClone = "clone"
)

var errDigestMismatch = errors.New("snapshot digest does not match live state")

type benchConfig struct {
	Steps  int
	Size   int
	Mode   string
	Verify bool
}

func (c benchConfig) validate() error {
	if c.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", c.Steps)
	}
	if c.Size < 0 {
		return fmt.Errorf("size must be non-negative, got %d", c.Size)
	}
	switch c.Mode {
	case modeSync, modeClone:
		return nil
	default:
		return fmt.Errorf("unknown mode %q (want %s or %s)", c.Mode, modeSync, modeClone)
	}
}

type report struct {
	Steps    int
	Allocs   uint64
	Bytes    uint64
	Elapsed  time.Duration
	Verified bool
}

// AllocsPerStep returns the mean number of heap allocations per step.
func (r report) AllocsPerStep() float64 {
	if r.Steps == 0 {
		return 0
	}
	return float64(r.Allocs) / float64(r.Steps)
}

// run steps a world cfg.Steps times, keeping a snapshot equal to it after
// every step. Only the snapshot updates are measured.
func run(cfg benchConfig, log *zap.Logger) (report, error) {
	if err := cfg.validate(); err != nil {
		return report{}, err
	}

	live := clonetest.NewWorld(cfg.Size)
	snapshot := deepclone.Clone(live)
	cloner := deepclone.Of[clonetest.World]()

	rep := report{Steps: cfg.Steps}
	var before, after runtime.MemStats
	for i := 0; i < cfg.Steps; i++ {
		live.Step()

		runtime.ReadMemStats(&before)
		start := time.Now()
		if cfg.Mode == modeSync {
			cloner.CloneFrom(&snapshot, live)
		} else {
			snapshot = cloner.Clone(live)
		}
		rep.Elapsed += time.Since(start)
		runtime.ReadMemStats(&after)

		rep.Allocs += after.Mallocs - before.Mallocs
		rep.Bytes += after.TotalAlloc - before.TotalAlloc

		if cfg.Verify {
			if err := verifySnapshot(live, snapshot); err != nil {
				log.Error("verification failed", zap.Int("step", i), zap.Error(err))
				return rep, err
			}
		}
		log.Debug("step", zap.Int("step", i), zap.Int("tick", live.Tick))
	}
	rep.Verified = cfg.Verify
	return rep, nil
}

// verifySnapshot compares BLAKE2b digests of the msgpack encodings of live
// and snapshot.
func verifySnapshot(live, snapshot clonetest.World) error {
	want, err := digest(live)
	if err != nil {
		return err
	}
	got, err := digest(snapshot)
	if err != nil {
		return err
	}
	if want != got {
		return fmt.Errorf("%w at tick %d", errDigestMismatch, live.Tick)
	}
	return nil
}

func digest(w clonetest.World) ([blake2b.Size256]byte, error) {
	// The codec sorts map keys, so equal worlds encode identically.
	data, err := msgpack.New().Marshal(w)
	if err != nil {
		return [blake2b.Size256]byte{}, fmt.Errorf("encode world: %w", err)
	}
	return blake2b.Sum256(data), nil
}
