package exception

import "errors"

// Transport errors
var (
	ErrIngestSubscriptionClosed = errors.New("ingest: subscription closed")
)
