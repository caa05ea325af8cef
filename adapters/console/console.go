// Package console provides a Reporter that writes one line per message.
package console

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/artpar/handlerkit/ports"
	"github.com/rs/zerolog"
)

// Reporter writes status lines to an io.Writer, typically os.Stdout.
type Reporter struct {
	mu     sync.Mutex
	out    io.Writer
	logger zerolog.Logger
}

// New creates a console reporter. Write failures are logged, never returned,
// so a broken console cannot change handler outcomes.
func New(out io.Writer, logger zerolog.Logger) *Reporter {
	return &Reporter{
		out:    out,
		logger: logger.With().Str("adapter", "console").Logger(),
	}
}

// Report writes msg followed by a newline.
func (r *Reporter) Report(ctx context.Context, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := fmt.Fprintln(r.out, msg); err != nil {
		r.logger.Warn().Err(err).Msg("failed to write report line")
	}
}

// Ensure interface compliance.
var _ ports.Reporter = (*Reporter)(nil)
