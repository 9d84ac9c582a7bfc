package glint

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DeviceCountEnv overrides the default device count when set to a positive
// integer. WithDeviceCount takes precedence over the environment.
const DeviceCountEnv = "GLINT_DEVICE_COUNT"

// Device is a logical compute device with an in-order task executor.
// Work dispatched to a device runs on a single goroutine in FIFO order.
type Device struct {
	id     int
	tasks  chan func()
	closed chan struct{}
}

// ID returns the device's ordinal within its client, starting at 0.
func (d *Device) ID() int { return d.id }

func (d *Device) run() {
	defer close(d.closed)
	for task := range d.tasks {
		task()
	}
}

// enqueue schedules task on the device executor. It blocks only when the
// device queue is full.
func (d *Device) enqueue(task func()) {
	d.tasks <- task
}

// Client owns a set of logical devices and dispatches array operations
// onto them. Create one with [New] and always call [Client.Close] when done.
type Client struct {
	devices   []*Device
	closeOnce sync.Once
}

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	deviceCount int
	queueDepth  int
}

// WithDeviceCount sets the number of logical devices. Values below 1 are
// ignored.
func WithDeviceCount(n int) Option {
	return func(cfg *clientConfig) {
		if n >= 1 {
			cfg.deviceCount = n
		}
	}
}

// WithQueueDepth sets the per-device dispatch queue depth.
func WithQueueDepth(n int) Option {
	return func(cfg *clientConfig) {
		if n >= 1 {
			cfg.queueDepth = n
		}
	}
}

func defaultDeviceCount() int {
	if s := os.Getenv(DeviceCountEnv); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			return n
		}
	}
	return 1
}

// New creates a client. The device count defaults to 1, overridable via the
// GLINT_DEVICE_COUNT environment variable or [WithDeviceCount].
func New(opts ...Option) *Client {
	cfg := clientConfig{
		deviceCount: defaultDeviceCount(),
		queueDepth:  1024,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Client{devices: make([]*Device, cfg.deviceCount)}
	for i := range c.devices {
		d := &Device{
			id:     i,
			tasks:  make(chan func(), cfg.queueDepth),
			closed: make(chan struct{}),
		}
		c.devices[i] = d
		go d.run()
	}
	return c
}

// Close shuts down the device executors after draining pending work.
// The client must not be used afterwards.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		for _, d := range c.devices {
			close(d.tasks)
		}
		for _, d := range c.devices {
			<-d.closed
		}
	})
}

// DeviceCount returns the number of logical devices.
func (c *Client) DeviceCount() int { return len(c.devices) }

// Devices returns the client's devices in ordinal order. The returned slice
// must not be modified.
func (c *Client) Devices() []*Device { return c.devices }

// Barrier blocks until every device has drained all work dispatched before
// the call. It is used at benchmark case boundaries so pending work from one
// case cannot leak into the next.
func (c *Client) Barrier() error {
	var g errgroup.Group
	for _, d := range c.devices {
		done := make(chan struct{})
		d.enqueue(func() { close(done) })
		g.Go(func() error {
			<-done
			return nil
		})
	}
	return g.Wait()
}

// Put transfers host data to device 0 and returns the pending device array.
func (c *Client) Put(data []float64, shape ...int) *Array {
	return c.PutOn(c.devices[0], data, shape...)
}

// PutOn transfers host data to the given device.
func (c *Client) PutOn(d *Device, data []float64, shape ...int) *Array {
	if len(shape) == 0 {
		shape = []int{len(data)}
	}
	out := newPending(d, shape)
	dispatch(d, func() {
		if out.size() != len(data) {
			out.fulfill(nil, fmt.Errorf("glint: put: %d values for shape %v", len(data), shape))
			return
		}
		buf := make([]float64, len(data))
		copy(buf, data)
		out.fulfill(buf, nil)
	})
	return out
}

// Scalar places a single value on device 0.
func (c *Client) Scalar(v float64) *Array {
	return c.Put([]float64{v})
}

// Arange places the sequence 0..n-1 on device 0.
func (c *Client) Arange(n int) *Array {
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i)
	}
	return c.Put(data)
}

// Uniform places uniformly distributed values in [0, 1) on device 0.
func (c *Client) Uniform(rng *rand.Rand, shape ...int) *Array {
	n := 1
	for _, d := range shape {
		n *= d
	}
	data := make([]float64, n)
	for i := range data {
		data[i] = rng.Float64()
	}
	return c.Put(data, shape...)
}

// Get blocks until a is materialized and copies its data back to the host.
func (c *Client) Get(a *Array) ([]float64, error) {
	a.BlockUntilReady()
	if err := a.Err(); err != nil {
		return nil, err
	}
	out := make([]float64, len(a.data))
	copy(out, a.data)
	return out, nil
}

// dispatch runs task on d, or inline when the async-dispatch flag is off.
func dispatch(d *Device, task func()) {
	if !Flags.AsyncDispatch.Get() {
		task()
		return
	}
	d.enqueue(task)
}
