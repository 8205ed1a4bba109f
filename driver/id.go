package driver

import "github.com/segmentio/ksuid"

// NewID generates a stable, sortable, globally-unique connection identifier,
// mirroring the approach device/sessionid takes to naming device sessions
// but backed by ksuid instead of a timestamp-plus-math/rand scheme.
func NewID() string {
	return ksuid.New().String()
}
