package mailer

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/agrocoop/quotation-service/internal/telemetry"
)

// Notifier is the asynchronous dispatch side: Enqueue never blocks and never
// returns an error to the caller. When the queue is full the message is
// dropped and logged; delivery failures are logged and otherwise swallowed.
type Notifier struct {
	sender Sender
	logger *zerolog.Logger
	queue  chan Message
	wg     sync.WaitGroup
	once   sync.Once
}

// NewNotifier creates a notifier with a bounded queue of the given size
func NewNotifier(sender Sender, logger *zerolog.Logger, queueSize int) *Notifier {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Notifier{
		sender: sender,
		logger: logger,
		queue:  make(chan Message, queueSize),
	}
}

// Start launches the worker goroutine that drains the queue
func (n *Notifier) Start() {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for msg := range n.queue {
			if err := n.sender.Send(msg); err != nil {
				n.logger.Error().
					Err(err).
					Strs("recipients", msg.Recipients).
					Str("subject", msg.Subject).
					Msg("Failed to send notification")
				continue
			}
			n.logger.Info().
				Strs("recipients", msg.Recipients).
				Str("subject", msg.Subject).
				Msg("Notification sent")
		}
	}()
}

// Enqueue schedules a message for delivery. It returns immediately; a full
// queue drops the message.
func (n *Notifier) Enqueue(msg Message) {
	select {
	case n.queue <- msg:
	default:
		telemetry.NotificationDropped()
		n.logger.Warn().
			Str("subject", msg.Subject).
			Msg("Notification queue full, dropping message")
	}
}

// Stop closes the queue and waits for in-flight sends to finish
func (n *Notifier) Stop() {
	n.once.Do(func() {
		close(n.queue)
	})
	n.wg.Wait()
}
