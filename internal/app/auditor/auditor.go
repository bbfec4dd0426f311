package auditor

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/kotche/notekeeper/infrastructure/metrics"
	"github.com/kotche/notekeeper/internal/model"
	"github.com/kotche/notekeeper/internal/service/kafka"
)

// Auditor tails the note event topic, logging every mutation and keeping
// per-type counters. Malformed events are skipped, not fatal.
type Auditor struct {
	broker kafka.MessageBroker
	log    zerolog.Logger
}

func New(broker kafka.MessageBroker, log zerolog.Logger) *Auditor {
	return &Auditor{broker: broker, log: log}
}

func (a *Auditor) Run(ctx context.Context) error {
	a.log.Info().Msg("auditor started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		key, value, err := a.broker.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.log.Error().Err(err).Msg("error reading message from broker")
			continue
		}

		var event model.NoteEvent
		if err = json.Unmarshal(value, &event); err != nil {
			a.log.Error().Err(err).Str("key", string(key)).Msg("skipping malformed event")
			continue
		}

		metrics.EventsConsumedTotal.WithLabelValues(event.Type).Inc()
		a.log.Info().
			Str("type", event.Type).
			Str("note_id", event.NoteID.String()).
			Str("user_id", event.UserID.String()).
			Time("at", event.At).
			Msg("note event")
	}
}
