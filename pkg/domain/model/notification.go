package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

// NotificationPayload is a channel-agnostic message handed to the delivery
// layer. Recipient addressing is per channel, not part of the payload.
type NotificationPayload struct {
	Priority types.Priority    `json:"priority"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (x *NotificationPayload) Validate() error {
	if x.Title == "" {
		return goerr.Wrap(types.ErrValidationFailed, "notification title is empty")
	}
	if x.Priority == "" {
		return goerr.Wrap(types.ErrValidationFailed, "notification priority is empty")
	}
	return nil
}

// DeliveryResult is the per-channel outcome of one send attempt. Failure is
// always returned as data, never raised.
type DeliveryResult struct {
	Channel    types.ChannelKind `json:"channel"`
	Success    bool              `json:"success"`
	MessageID  string            `json:"message_id,omitempty"`
	Error      string            `json:"error,omitempty"`
	RetryAfter *time.Duration    `json:"retry_after,omitempty"`
	Elapsed    time.Duration     `json:"elapsed"`
}

// FeedEntry is one item on the in-process notification feed consumed by the
// dashboard API.
type FeedEntry struct {
	Tag     string               `json:"tag"`
	Payload *NotificationPayload `json:"payload"`
	At      time.Time            `json:"at"`
}

// ChannelFeatures describes what a delivery channel supports.
type ChannelFeatures struct {
	RichText         bool `json:"rich_text"`
	Buttons          bool `json:"buttons"`
	Images           bool `json:"images"`
	MaxMessageLength int  `json:"max_message_length"`
	Batching         bool `json:"batching"`
}
