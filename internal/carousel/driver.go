package carousel

import (
	"context"
	"sync"
	"time"
)

const (
	// FrameInterval approximates one display frame.
	FrameInterval = 16 * time.Millisecond

	// DefaultBatchInterval and DefaultBatchStep drive the coarse mode:
	// one jump of DefaultBatchStep pixels every DefaultBatchInterval.
	DefaultBatchInterval = 3 * time.Second
	DefaultBatchStep     = 300.0
)

// TickerFunc returns a channel of ticks and a function that stops it.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func timeTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Driver calls Engine.Tick at a fixed cadence until stopped. At most one
// loop runs per Driver.
type Driver struct {
	engine    *Engine
	interval  time.Duration
	step      float64
	geometry  Geometry
	newTicker TickerFunc
	onTick    func(Snapshot)

	// startMu serialises Start so that concurrent callers cannot each
	// install a loop.
	startMu sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithInterval sets the tick cadence.
func WithInterval(d time.Duration) DriverOption {
	return func(dr *Driver) {
		if d > 0 {
			dr.interval = d
		}
	}
}

// WithStep sets the step passed to Engine.Tick on every tick.
func WithStep(step float64) DriverOption {
	return func(dr *Driver) {
		if step > 0 {
			dr.step = step
		}
	}
}

// WithGeometry attaches a render target. For the track policy the driver
// syncs from it before each tick and writes the position to it afterwards.
func WithGeometry(g Geometry) DriverOption {
	return func(dr *Driver) { dr.geometry = g }
}

// WithTicker replaces the wall-clock ticker, mainly for tests.
func WithTicker(f TickerFunc) DriverOption {
	return func(dr *Driver) {
		if f != nil {
			dr.newTicker = f
		}
	}
}

// OnTick registers a callback run after every tick with the new snapshot.
// It runs on the driver goroutine and must not block.
func OnTick(f func(Snapshot)) DriverOption {
	return func(dr *Driver) { dr.onTick = f }
}

// NewDriver returns a frame-mode driver for e unless options say otherwise.
func NewDriver(e *Engine, opts ...DriverOption) *Driver {
	d := &Driver{
		engine:    e,
		interval:  FrameInterval,
		step:      1,
		newTicker: timeTicker,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FrameDriver advances the engine by BaseSpeed every frame.
func FrameDriver(e *Engine, opts ...DriverOption) *Driver {
	return NewDriver(e, append([]DriverOption{WithInterval(FrameInterval), WithStep(1)}, opts...)...)
}

// BatchDriver advances the engine by stepPixels every interval. The step is
// expressed in ticks of BaseSpeed, so hover slowdown and boost still scale it.
func BatchDriver(e *Engine, interval time.Duration, stepPixels float64, opts ...DriverOption) *Driver {
	if interval <= 0 {
		interval = DefaultBatchInterval
	}
	if stepPixels <= 0 {
		stepPixels = DefaultBatchStep
	}
	step := stepPixels / e.Config().BaseSpeed
	return NewDriver(e, append([]DriverOption{WithInterval(interval), WithStep(step)}, opts...)...)
}

// Start launches the tick loop, first stopping any loop already running.
// The loop ends when ctx is done or Stop is called.
func (d *Driver) Start(ctx context.Context) {
	d.startMu.Lock()
	defer d.startMu.Unlock()

	d.Stop()
	d.layout()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	ticks, stopTicker := d.newTicker(d.interval)

	d.mu.Lock()
	d.cancel, d.done = cancel, done
	d.mu.Unlock()

	go func() {
		defer close(done)
		defer stopTicker()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticks:
				// Stop may have raced with the tick.
				if ctx.Err() != nil {
					return
				}
				d.tick()
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit. No tick is applied after
// Stop returns. Stopping an idle driver is a no-op.
func (d *Driver) Stop() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel, d.done = nil, nil
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether a loop is active.
func (d *Driver) Running() bool {
	d.mu.Lock()
	done := d.done
	d.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// layout measures a track geometry and grows its content when the engine
// needs more copies than are laid out.
func (d *Driver) layout() {
	if d.geometry == nil || d.engine.Config().Policy != PolicyTrack {
		return
	}
	d.engine.Measure(d.geometry)
	d.resize()
}

func (d *Driver) resize() {
	if cs, ok := d.geometry.(ContentSizer); ok {
		if w := d.engine.ContentWidth(); w != d.geometry.ContentWidth() {
			cs.SetContentWidth(w)
		}
	}
}

func (d *Driver) tick() {
	track := d.geometry != nil && d.engine.Config().Policy == PolicyTrack
	if track {
		d.engine.Sync(d.geometry)
	}
	d.engine.Tick(d.step)
	if track {
		d.resize()
		d.geometry.SetScrollOffset(d.engine.Position())
	}
	if d.onTick != nil {
		d.onTick(d.engine.Snapshot())
	}
}
