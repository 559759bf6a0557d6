package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/lesdavils/MedimexResolv/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail. Used for technician
// assignment notifications and low-stock alerts; AttachmentPath optionally
// carries a generated intervention report.
type EmailJobPayload struct {
	ToEmail        string `json:"to_email"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	AttachmentPath string `json:"attachment_path,omitempty"`
}

// EmailWorker sends notification emails via SMTP. Sends go through a circuit
// breaker so a dead mail server fast-fails instead of tying up the pool.
type EmailWorker struct {
	mailer  *infra.Mailer
	breaker *infra.CircuitBreaker
}

func NewEmailWorker(mailer *infra.Mailer, breaker *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, breaker: breaker}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil // malformed payloads are not retryable
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}

	err := w.breaker.Execute(func() error {
		return w.mailer.Send(payload.ToEmail, payload.Subject, payload.Body, payload.AttachmentPath)
	})
	if err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			log.Warn().Str("to", payload.ToEmail).Msg("email_worker: circuit open, deferring send")
		} else {
			log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: failed to send email")
		}
		return err
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: notification sent")
	return nil
}
