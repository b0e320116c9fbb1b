package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/messagely/messaging-system/internal/api/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// LoginUpdater applies a single last-login update.
type LoginUpdater interface {
	UpdateLoginTimestamp(ctx context.Context, username string) error
}

// LoginRecorder applies last-login updates on a fixed set of workers, sharded
// by username so updates for one user are applied in order. Record never
// blocks: when a worker's buffer is full the update is dropped.
type LoginRecorder struct {
	workers []chan string
	updater LoginUpdater
	log     zerolog.Logger
}

// NewLoginRecorder creates a LoginRecorder with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewLoginRecorder(numWorkers int, updater LoginUpdater, log zerolog.Logger) *LoginRecorder {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	r := &LoginRecorder{
		workers: make([]chan string, numWorkers),
		updater: updater,
		log:     log,
	}
	for i := range r.workers {
		r.workers[i] = make(chan string, channelBuffer)
	}
	return r
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (r *LoginRecorder) Start(ctx context.Context) {
	for i, ch := range r.workers {
		go r.runWorker(ctx, i, ch)
	}
}

// Record queues a last-login update for username.
func (r *LoginRecorder) Record(username string) {
	idx := r.shardIndex(username)
	// Counted before the send so a fast worker cannot drive the gauge negative.
	depth := metrics.LoginQueueDepth.WithLabelValues(strconv.Itoa(idx))
	depth.Inc()
	select {
	case r.workers[idx] <- username:
	default:
		depth.Dec()
		metrics.LoginUpdatesTotal.WithLabelValues("dropped").Inc()
		r.log.Warn().Str("username", username).Int("worker_id", idx).Msg("login queue full, update dropped")
	}
}

// shardIndex maps a username deterministically to a worker index.
func (r *LoginRecorder) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32() % uint32(len(r.workers)))
}

func (r *LoginRecorder) runWorker(ctx context.Context, id int, ch <-chan string) {
	depth := metrics.LoginQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case username, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			if err := r.updater.UpdateLoginTimestamp(ctx, username); err != nil {
				metrics.LoginUpdatesTotal.WithLabelValues("failed").Inc()
				r.log.Error().Err(err).
					Str("username", username).
					Int("worker_id", id).
					Msg("login timestamp update failed")
				continue
			}
			metrics.LoginUpdatesTotal.WithLabelValues("applied").Inc()
		}
	}
}
