// Package config holds the options of a simulation run.
package config

import (
	"fmt"

	"github.com/sarchlab/hbsim/energy"
	"github.com/sarchlab/hbsim/mem/cache"
)

// CacheConfig describes the geometry of one cache.
type CacheConfig struct {
	// SizeKB is the capacity in KiB.
	SizeKB   uint64
	LineSize uint64
	Assoc    int
}

// Config holds every option of a run.
type Config struct {
	Output string

	Reference CacheConfig
	Target    CacheConfig

	// Unbounded lets the sets of the target cache grow without limit.
	Unbounded       bool
	ReplaceStrategy string
	NoWriteAllocate bool
	ColdMissOnly    bool

	TrackLoads    bool
	TrackStores   bool
	HitThreshold  uint64
	MissThreshold uint64

	// EpochMarker is the routine that starts a new epoch. Empty disables
	// epochs.
	EpochMarker string

	EnergyModel string
	TablesFile  string

	DBPath string

	Monitor     bool
	MonitorPort int
	OpenBrowser bool

	// Verbose logs every epoch reset to stderr.
	Verbose bool
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Output: "hbsim.out",
		Reference: CacheConfig{
			SizeKB:   64 * 1024 / 16,
			LineSize: 64,
			Assoc:    8,
		},
		Target: CacheConfig{
			SizeKB:   32,
			LineSize: 32,
			Assoc:    4,
		},
		Unbounded:       true,
		ReplaceStrategy: "roundRobin",
		HitThreshold:    100,
		MissThreshold:   100,
		EnergyModel:     "instruction",
	}
}

// ReferenceBuilder returns a builder of the reference cache. The reference
// cache is always bounded.
func (c Config) ReferenceBuilder() cache.Builder {
	return c.builder(c.Reference).WithUnbounded(false)
}

// TargetBuilder returns a builder of the target cache.
func (c Config) TargetBuilder() cache.Builder {
	return c.builder(c.Target).WithUnbounded(c.Unbounded)
}

func (c Config) builder(cc CacheConfig) cache.Builder {
	storeAllocation := cache.StoreAllocate
	if c.NoWriteAllocate {
		storeAllocation = cache.StoreNoAllocate
	}

	return cache.MakeBuilder().
		WithByteSize(cc.SizeKB * cache.KB).
		WithLineSize(cc.LineSize).
		WithWayAssociativity(cc.Assoc).
		WithReplaceStrategy(c.ReplaceStrategy).
		WithStoreAllocation(storeAllocation).
		WithColdMissOnly(c.ColdMissOnly)
}

// Validate checks if the configuration can be used for a run.
func (c Config) Validate() error {
	err := c.ReferenceBuilder().Validate()
	if err != nil {
		return fmt.Errorf("reference cache: %w", err)
	}

	err = c.TargetBuilder().Validate()
	if err != nil {
		return fmt.Errorf("target cache: %w", err)
	}

	_, err = energy.NewModel(c.EnergyModel)
	if err != nil {
		return err
	}

	if c.Monitor && (c.MonitorPort < 0 || c.MonitorPort > 65535) {
		return fmt.Errorf("invalid monitor port %d", c.MonitorPort)
	}

	return nil
}

// Tables loads the power and latency tables. The tables compiled into the
// binary are used if no file is configured.
func (c Config) Tables() (energy.Tables, error) {
	if c.TablesFile == "" {
		return energy.DefaultTables(), nil
	}

	return energy.LoadTablesFile(c.TablesFile)
}
