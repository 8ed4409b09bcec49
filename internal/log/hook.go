// Package log contains the logrus hooks srcmapaudit can send its logs to,
// besides the plain stderr/stdout outputs.
package log

import (
	"context"

	"github.com/sirupsen/logrus"
)

// AsyncHook is a logrus hook that ships entries in the background. Listen
// blocks until ctx is done and the pending entries are flushed.
type AsyncHook interface {
	logrus.Hook
	Listen(ctx context.Context)
}
