package clients

import (
	"sync"

	"github.com/msto63/schedclients/api/scheduling"
	"github.com/msto63/schedclients/pkg/core/logging"
	"google.golang.org/grpc"
)

// IsNewerTick reports whether the 8-bit cycle tick cur follows prev. Ticks
// wrap around, so a tick up to 127 steps ahead counts as newer.
func IsNewerTick(cur, prev uint8) bool {
	return int8(cur-prev) > 0
}

// SchedulingClient follows the scheduler cycle
type SchedulingClient struct {
	base
	*feed[scheduling.SchedulerStateDto]

	mu    sync.RWMutex
	state *scheduling.SchedulerStateDto
}

// NewSchedulingClient creates a SchedulingClient on an existing connection
func NewSchedulingClient(cc grpc.ClientConnInterface, settings Settings, logger *logging.Logger) *SchedulingClient {
	c := &SchedulingClient{
		base: newBase("scheduling", settings, logger),
	}
	api := scheduling.NewSchedulingServiceClient(cc)
	c.feed = newFeed[scheduling.SchedulerStateDto]("scheduling", &c.base, api.Subscribe, c.update)
	return c
}

// update keeps the state only when its tick is newer than the cached one
func (c *SchedulingClient) update(state *scheduling.SchedulerStateDto) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == nil || IsNewerTick(state.Cycle, c.state.Cycle) {
		c.state = state
		return
	}
	c.logger.Debug("Stale scheduler state ignored", "cycle", state.Cycle, "current", c.state.Cycle)
}

// SchedulerState returns the newest scheduler state seen
func (c *SchedulingClient) SchedulerState() (*scheduling.SchedulerStateDto, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state, c.state != nil
}

// OnSchedulerStateUpdated registers fn for every pushed scheduler state
func (c *SchedulingClient) OnSchedulerStateUpdated(fn func(*scheduling.SchedulerStateDto)) (remove func()) {
	return c.observe(fn)
}

// OnSpotManagerChanged registers fn for scheduler states that report a
// change in spot reservations
func (c *SchedulingClient) OnSpotManagerChanged(fn func(*scheduling.SchedulerStateDto)) (remove func()) {
	return c.observe(func(state *scheduling.SchedulerStateDto) {
		if state.SpotManager != nil && state.SpotManager.IsChanged {
			fn(state)
		}
	})
}

// Close stops the update stream and releases an owned connection
func (c *SchedulingClient) Close() error {
	c.dispose()
	return c.closeConn()
}
