package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/novelnest/novelnest-server/internal/logger"
	"github.com/novelnest/novelnest-server/internal/model"
)

var _ model.SMSDispatcher = (*SimulatedDispatcher)(nil)

// SimulatedDispatcher records messages instead of sending them.
type SimulatedDispatcher struct {
	logger *logger.Logger
	outbox *Outbox
}

// NewSimulatedDispatcher creates a dispatcher that only logs. A non-nil
// outbox also receives a copy of every message.
func NewSimulatedDispatcher(logger *logger.Logger, outbox *Outbox) *SimulatedDispatcher {
	return &SimulatedDispatcher{logger: logger, outbox: outbox}
}

func (d *SimulatedDispatcher) Send(ctx context.Context, mobileNumber, text string) error {
	d.logger.Info("SMS simulator: message not sent, simulation enabled", logger.Phone(mobileNumber))

	if d.outbox == nil {
		return nil
	}
	if err := d.outbox.Record(ctx, mobileNumber, text); err != nil {
		d.logger.Warn("SMS simulator: failed to write outbox", logger.Phone(mobileNumber), "error", err)
	}
	return nil
}

// OutboxMessage is one simulated message as stored in the outbox.
type OutboxMessage struct {
	MobileNumber string    `json:"mobileNumber"`
	Text         string    `json:"text"`
	SentAt       time.Time `json:"sentAt"`
}

// Outbox mirrors simulated messages into object storage so testers can read
// the codes.
type Outbox struct {
	storage model.Storage
	now     func() time.Time
}

func NewOutbox(storage model.Storage) *Outbox {
	return &Outbox{storage: storage, now: time.Now}
}

const jsonContentType = "application/json"

// Record stores text under <number>/<unix-nanos>.json and <number>/latest.json.
func (o *Outbox) Record(ctx context.Context, mobileNumber, text string) error {
	msg := OutboxMessage{MobileNumber: mobileNumber, Text: text, SentAt: o.now().UTC()}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode outbox message: %w", err)
	}

	key := fmt.Sprintf("%s/%d.json", mobileNumber, msg.SentAt.UnixNano())
	if err := o.storage.Put(ctx, key, data, jsonContentType); err != nil {
		return err
	}
	return o.storage.Put(ctx, latestKey(mobileNumber), data, jsonContentType)
}

func latestKey(mobileNumber string) string {
	return mobileNumber + "/latest.json"
}
