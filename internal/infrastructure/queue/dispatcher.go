package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/msk-clinic/clinic-portal/internal/api/metrics"
	"github.com/msk-clinic/clinic-portal/internal/core/notification"
	"github.com/msk-clinic/clinic-portal/internal/infrastructure/mail"
)

const (
	defaultWorkers = 4
	defaultBuffer  = 256
	sendTimeout    = 30 * time.Second
)

// MailDispatcher routes outgoing messages to a fixed set of workers using
// consistent hashing on the recipient, so mails to one address leave in the
// order they were queued.
type MailDispatcher struct {
	workers []chan notification.Message
	mailer  mail.Mailer
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewMailDispatcher creates a dispatcher with numWorkers sharded workers, each
// buffering up to buffer messages. Non-positive values fall back to defaults.
func NewMailDispatcher(numWorkers, buffer int, mailer mail.Mailer, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	d := &MailDispatcher{
		workers: make([]chan notification.Message, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan notification.Message, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *MailDispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands msg to the worker responsible for its recipient. It never
// blocks: when that worker's buffer is full the message is dropped and false
// is returned.
func (d *MailDispatcher) Enqueue(msg notification.Message) bool {
	id := d.shardIndex(msg.To)
	select {
	case d.workers[id] <- msg:
		metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(id)).Inc()
		return true
	default:
		metrics.MailSentTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("to", msg.To).
			Int("worker_id", id).
			Msg("mail queue full, message dropped")
		return false
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *MailDispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(recipient)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan notification.Message) {
	defer d.wg.Done()
	depth := metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.deliver(ctx, id, msg)
		}
	}
}

func (d *MailDispatcher) deliver(ctx context.Context, id int, msg notification.Message) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	start := time.Now()
	err := d.mailer.Send(sendCtx, msg)
	metrics.MailDeliveryDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.MailSentTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Str("to", msg.To).
			Int("worker_id", id).
			Msg("mail delivery failed")
		return
	}
	metrics.MailSentTotal.WithLabelValues("ok").Inc()
	d.log.Debug().Str("to", msg.To).Int("worker_id", id).Msg("mail delivered")
}
