package service

import "github.com/alexanderramin/flowplan/internal/contract"

// ScheduleCache is an injectable seam for caching ParseAndSchedule
// results by request key. The per-request cache spec.md §9 calls
// out of scope is represented only as this interface with a no-op
// default — a real backing store can be wired in by implementing it,
// without touching scheduleService itself.
type ScheduleCache interface {
	Get(key string) (*contract.ScheduleResponse, bool)
	Set(key string, resp *contract.ScheduleResponse)
}

// NoopScheduleCache never stores anything; every Get misses.
type NoopScheduleCache struct{}

func (NoopScheduleCache) Get(string) (*contract.ScheduleResponse, bool) { return nil, false }

func (NoopScheduleCache) Set(string, *contract.ScheduleResponse) {}

func scheduleCacheOrNoop(caches []ScheduleCache) ScheduleCache {
	for _, c := range caches {
		if c != nil {
			return c
		}
	}
	return NoopScheduleCache{}
}
