// Package epoch restarts the target cache with a cold instance every time the
// program reaches a marker routine.
package epoch

import (
	"fmt"

	"github.com/sarchlab/hbsim/hooking"
	"github.com/sarchlab/hbsim/mem/cache"
	"github.com/sarchlab/hbsim/stats"
)

// HookPosReset marks that a cache instance is retired. The hook item is the
// retired instance and the detail is the new live instance.
var HookPosReset = &hooking.HookPos{Name: "EpochReset"}

// A Controller owns the pool of target cache instances. Exactly one instance
// is live at any time; the others are retired and only keep their counters.
type Controller struct {
	hooking.HookableBase

	name    string
	marker  string
	builder cache.Builder
	pool    []*cache.Cache
}

// NewController creates a controller and its first live instance. An empty
// marker disables resets.
func NewController(
	name string,
	builder cache.Builder,
	marker string,
) (*Controller, error) {
	err := builder.Validate()
	if err != nil {
		return nil, err
	}

	c := &Controller{
		name:    name,
		marker:  marker,
		builder: builder,
	}

	c.allocate()

	return c, nil
}

// Name returns the name shared by the instances.
func (c *Controller) Name() string {
	return c.name
}

// Marker returns the name of the routine that starts a new epoch.
func (c *Controller) Marker() string {
	return c.marker
}

// Live returns the instance that receives accesses.
func (c *Controller) Live() *cache.Cache {
	return c.pool[len(c.pool)-1]
}

// Retained returns the retired instances, oldest first.
func (c *Controller) Retained() []*cache.Cache {
	return c.pool[:len(c.pool)-1]
}

// Instances returns the retired instances followed by the live one.
func (c *Controller) Instances() []*cache.Cache {
	return c.pool
}

// NumEpochs returns the number of instances created so far.
func (c *Controller) NumEpochs() int {
	return len(c.pool)
}

// OnEnter reacts to the program entering a routine. It returns true if the
// routine is the marker and a new epoch has started.
func (c *Controller) OnEnter(routine string) bool {
	if c.marker == "" || routine != c.marker {
		return false
	}

	c.Reset()

	return true
}

// Reset retires the live instance and allocates a cold one with the same
// configuration.
func (c *Controller) Reset() {
	retired := c.Live()
	live := c.allocate()

	if c.NumHooks() > 0 {
		c.InvokeHook(hooking.HookCtx{
			Domain: c,
			Pos:    HookPosReset,
			Item:   retired,
			Detail: live,
		})
	}
}

func (c *Controller) allocate() *cache.Cache {
	name := fmt.Sprintf("%s[%d]", c.name, len(c.pool))
	instance := c.builder.MustBuild(name)
	c.pool = append(c.pool, instance)

	return instance
}

// Counters sums the counters of every instance, retired and live, for an
// access kind.
func (c *Controller) Counters(kind cache.AccessKind) stats.HitMiss {
	total := stats.HitMiss{}
	for _, instance := range c.pool {
		total = total.Add(instance.Counters(kind))
	}

	return total
}

// Total sums the load and store counters of every instance.
func (c *Controller) Total() stats.HitMiss {
	return c.Counters(cache.AccessLoad).Add(c.Counters(cache.AccessStore))
}

// Evictions sums the evictions of every instance.
func (c *Controller) Evictions() uint64 {
	var total uint64
	for _, instance := range c.pool {
		total += instance.Evictions()
	}

	return total
}
