package plugin

import (
	"context"
	"log"
	"sync"

	"github.com/ayusman/fingersign/internal/gesture"
)

// jobBuffer is the number of pending plugin runs. Further runs are dropped
// until the worker catches up.
const jobBuffer = 8

type job struct {
	plugin  *Plugin
	request Request
}

// Dispatcher starts the plugins subscribed to a label when a hand first
// shows it. A sign held over consecutive frames triggers once.
// Plugins run one at a time on the goroutine started by Run.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	jobs     chan job

	mu      sync.Mutex
	last    map[string]string // hand ID -> label
	dropped int
}

// NewDispatcher creates a Dispatcher for the plugins known to manager.
func NewDispatcher(manager *Manager, executor *Executor) *Dispatcher {
	return &Dispatcher{
		manager:  manager,
		executor: executor,
		jobs:     make(chan job, jobBuffer),
		last:     make(map[string]string),
	}
}

// OnResult queues the plugins of every newly shown label without blocking.
func (d *Dispatcher) OnResult(result gesture.FrameResult) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ids := result.HandIDs()
	seen := make(map[string]string, len(result.Recognitions))
	for i, rec := range result.Recognitions {
		seen[ids[i]] = rec.Label
		if prev, ok := d.last[ids[i]]; ok && prev == rec.Label {
			continue
		}

		for _, p := range d.manager.ForLabel(rec.Label) {
			j := job{
				plugin: p,
				request: Request{
					Label:      rec.Label,
					Key:        rec.Key,
					Handedness: rec.Handedness,
					Seq:        result.Seq,
					Config:     p.Manifest.Config,
				},
			}
			select {
			case d.jobs <- j:
			default:
				d.dropped++
			}
		}
	}
	d.last = seen
}

// Run executes queued plugins until ctx is cancelled. Failures are logged.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-d.jobs:
			d.execute(ctx, j)
		}
	}
}

// Dropped returns how many plugin runs were discarded because the queue
// was full.
func (d *Dispatcher) Dropped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

func (d *Dispatcher) execute(ctx context.Context, j job) {
	resp, err := d.executor.Execute(ctx, j.plugin, &j.request)
	if err != nil {
		log.Printf("Plugin %s failed on %s: %v", j.plugin.Manifest.Name, j.request.Label, err)
		return
	}
	if !resp.Success {
		log.Printf("Plugin %s reported an error on %s: %s", j.plugin.Manifest.Name, j.request.Label, resp.Error)
	}
}
