package report

import (
	"log"

	"github.com/sarchlab/hbsim/epoch"
	"github.com/sarchlab/hbsim/hooking"
	"github.com/sarchlab/hbsim/mem/cache"
	"github.com/sarchlab/hbsim/tracker"
)

// LogHook writes epoch resets, and optionally every access, into a logger.
type LogHook struct {
	*log.Logger

	logAccesses bool
}

// NewLogHook returns a new LogHook which will write into the logger.
func NewLogHook(logger *log.Logger, logAccesses bool) *LogHook {
	return &LogHook{
		Logger:      logger,
		logAccesses: logAccesses,
	}
}

// Func writes the information of the hook position into the logger.
func (h *LogHook) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case epoch.HookPosReset:
		retired := ctx.Item.(*cache.Cache)
		live := ctx.Detail.(*cache.Cache)
		s := retired.Stats()

		h.Printf("epoch reset: %s retired after %d accesses (%d misses), %s is live",
			s.Name, s.Accesses(), s.Misses(), live.Name())
	case tracker.HookPosAccess:
		if !h.logAccesses {
			return
		}

		a := ctx.Item.(tracker.Access)
		r := ctx.Detail.(tracker.AccessResult)

		h.Printf("0x%016x %-10s 0x%016x %4d reference:%s target:%s",
			a.IP, a.Kind, a.Addr, a.Size,
			hitOrMiss(r.Hit[tracker.Reference]),
			hitOrMiss(r.Hit[tracker.Target]))
	}
}

func hitOrMiss(hit bool) string {
	if hit {
		return "hit"
	}

	return "miss"
}
