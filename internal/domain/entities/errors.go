package entities

import "errors"

// Domain errors
var (
	// Webhook / tenant errors
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrTenantNotConfigured = errors.New("tenant has no active credentials")
	ErrUnknownEventType    = errors.New("unknown event type")
	ErrMalformedEvent      = errors.New("malformed event")

	// Job errors
	ErrJobNotFound     = errors.New("job not found")
	ErrJobNotClaimable = errors.New("job not claimable")
	ErrJobNotTerminal  = errors.New("job has not reached a terminal state")
	ErrDuplicateJob    = errors.New("equivalent job already pending or processing")

	// Transcription errors
	ErrNoMediaAvailable  = errors.New("no usable caption or audio media")
	ErrCaptionUnusable   = errors.New("caption parsing unusable")
	ErrMediaNotReachable = errors.New("media URL not reachable")

	// Minutes errors
	ErrMinutesNotFound = errors.New("minutes not found")
)
