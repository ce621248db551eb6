package hub

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"go-notification-relay/internal/domain"
	"go-notification-relay/internal/infrastructure/logger"
	"go-notification-relay/internal/infrastructure/metrics"
)

const (
	defaultDeliveryTimeout = 10 * time.Second
	defaultQueueSize       = 1000
)

// Options tunes the broadcast dispatcher. Zero values select defaults.
type Options struct {
	// DeliveryTimeout bounds a single Send so one dead peer cannot stall the
	// rest of a broadcast pass.
	DeliveryTimeout time.Duration
	// DeliveryConcurrency > 1 delivers to that many connections at once.
	DeliveryConcurrency int
	QueueSize           int
	Metrics             *metrics.HubMetrics
}

type broadcastJob struct {
	payload string
	done    chan domain.BroadcastReport
}

// Hub owns the connection registry and delivers broadcasts to it. Broadcasts
// are executed one at a time by a single run goroutine started with Start.
type Hub struct {
	registry *Registry

	running   bool
	runningMu sync.RWMutex

	logger  logger.Logger
	metrics *metrics.HubMetrics

	deliveryTimeout time.Duration
	concurrency     int

	broadcast chan *broadcastJob

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a new Hub. It does not deliver anything until Start is called.
func New(logger logger.Logger, opts Options) *Hub {
	if opts.DeliveryTimeout <= 0 {
		opts.DeliveryTimeout = defaultDeliveryTimeout
	}
	if opts.DeliveryConcurrency < 1 {
		opts.DeliveryConcurrency = 1
	}
	if opts.QueueSize < 1 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewHubMetrics(prometheus.NewRegistry())
	}

	return &Hub{
		registry:        NewRegistry(),
		logger:          logger.WithField("component", "hub"),
		metrics:         opts.Metrics,
		deliveryTimeout: opts.DeliveryTimeout,
		concurrency:     opts.DeliveryConcurrency,
		broadcast:       make(chan *broadcastJob, opts.QueueSize),
	}
}

// Start primes the hub by launching its run loop. It must be called before
// the first Broadcast.
func (h *Hub) Start(ctx context.Context) error {
	h.runningMu.Lock()
	defer h.runningMu.Unlock()

	if h.running {
		return ErrAlreadyRunning
	}

	h.ctx, h.cancel = context.WithCancel(ctx)
	h.done = make(chan struct{})
	h.running = true

	go h.run(h.ctx, h.done)

	h.logger.Info("Hub started successfully")
	return nil
}

// Stop halts the run loop and closes every registered connection. Broadcasts
// still queued fail with ErrNotRunning.
func (h *Hub) Stop(ctx context.Context) error {
	h.runningMu.Lock()
	defer h.runningMu.Unlock()

	if !h.running {
		return nil
	}

	h.cancel()
	h.running = false

	select {
	case <-h.done:
	case <-ctx.Done():
		return fmt.Errorf("waiting for hub run loop: %w", ctx.Err())
	}

	for _, conn := range h.registry.takeAll() {
		if err := conn.Close(); err != nil {
			h.logger.Errorf("Failed to close connection %s: %v", conn.ID(), err)
		}
	}
	h.metrics.ActiveConnections.Set(0)

	h.logger.Info("Hub stopped successfully")
	return nil
}

// IsRunning returns true if the hub is currently running
func (h *Hub) IsRunning() bool {
	h.runningMu.RLock()
	defer h.runningMu.RUnlock()
	return h.running
}

// Connect registers a connection whose handshake has completed.
func (h *Hub) Connect(conn Connection) {
	h.registry.Connect(conn)
	h.metrics.ActiveConnections.Set(float64(h.registry.Len()))
	h.logger.Infof("Connection %s registered (type: %s)", conn.ID(), conn.Type())
}

// Remove deregisters a connection. It is safe to call for connections that
// were never registered or were already dropped by a broadcast.
func (h *Hub) Remove(conn Connection) bool {
	removed := h.registry.Remove(conn)
	if removed {
		h.metrics.ActiveConnections.Set(float64(h.registry.Len()))
		h.logger.Infof("Connection %s unregistered", conn.ID())
	}
	return removed
}

// Connections returns the connections currently eligible for broadcast.
func (h *Hub) Connections() []Connection {
	return h.registry.Connections()
}

// ConnectionCount returns the number of connections eligible for broadcast.
func (h *Hub) ConnectionCount() int {
	return h.registry.Len()
}

// Broadcast delivers payload to every connection registered at the time the
// run loop picks it up, and waits for the pass to finish. Connections whose
// delivery fails are closed and dropped; the report says how many.
func (h *Hub) Broadcast(ctx context.Context, payload string) (domain.BroadcastReport, error) {
	h.runningMu.RLock()
	running, hubCtx := h.running, h.ctx
	h.runningMu.RUnlock()

	if !running {
		return domain.BroadcastReport{}, ErrNotRunning
	}

	job := &broadcastJob{
		payload: payload,
		done:    make(chan domain.BroadcastReport, 1),
	}

	select {
	case h.broadcast <- job:
	case <-ctx.Done():
		return domain.BroadcastReport{}, ctx.Err()
	case <-hubCtx.Done():
		return domain.BroadcastReport{}, ErrNotRunning
	}

	select {
	case report := <-job.done:
		return report, nil
	case <-ctx.Done():
		return domain.BroadcastReport{}, ctx.Err()
	case <-hubCtx.Done():
		return domain.BroadcastReport{}, ErrNotRunning
	}
}

func (h *Hub) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		select {
		case job := <-h.broadcast:
			job.done <- h.deliver(ctx, job.payload)

		case <-ctx.Done():
			h.logger.Info("Hub run loop stopped")
			return
		}
	}
}

// deliver drains the registry, sends payload to each drained connection and
// restores the ones that accepted it.
func (h *Hub) deliver(ctx context.Context, payload string) domain.BroadcastReport {
	start := time.Now()
	conns := h.registry.drain()
	ok := make([]bool, len(conns))

	if h.concurrency == 1 {
		for i, conn := range conns {
			ok[i] = h.deliverOne(ctx, conn, payload)
		}
	} else {
		var eg errgroup.Group
		eg.SetLimit(h.concurrency)
		for i, conn := range conns {
			i, conn := i, conn
			eg.Go(func() error {
				ok[i] = h.deliverOne(ctx, conn, payload)
				return nil
			})
		}
		_ = eg.Wait()
	}

	report := domain.BroadcastReport{Recipients: len(conns)}
	survivors := make([]Connection, 0, len(conns))
	for i, conn := range conns {
		if ok[i] {
			survivors = append(survivors, conn)
			report.Delivered++
		} else {
			report.Dropped++
		}
	}
	h.registry.restore(survivors)

	h.metrics.ActiveConnections.Set(float64(h.registry.Len()))
	h.metrics.Broadcasts.Inc()
	h.metrics.Deliveries.WithLabelValues(metrics.ResultDelivered).Add(float64(report.Delivered))
	h.metrics.Deliveries.WithLabelValues(metrics.ResultDropped).Add(float64(report.Dropped))
	h.metrics.BroadcastDuration.Observe(time.Since(start).Seconds())

	h.logger.Infof("Broadcasted message to %d connections (%d dropped)", report.Delivered, report.Dropped)
	return report
}

func (h *Hub) deliverOne(ctx context.Context, conn Connection, payload string) bool {
	sendCtx, cancel := context.WithTimeout(ctx, h.deliveryTimeout)
	defer cancel()

	if err := conn.Send(sendCtx, payload); err != nil {
		h.logger.Warnf("Failed to send broadcast to connection %s, dropping it: %v", conn.ID(), err)
		if cerr := conn.Close(); cerr != nil {
			h.logger.Errorf("Failed to close connection %s: %v", conn.ID(), cerr)
		}
		return false
	}
	return true
}
