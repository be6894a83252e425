package fingerprint

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/trackkit/pkg/logger"
)

// Provider produces a best-effort stable visitor fingerprint.
type Provider interface {
	Fingerprint(ctx context.Context) (string, error)
}

// Func adapts a plain function to Provider.
type Func func(ctx context.Context) (string, error)

func (f Func) Fingerprint(ctx context.Context) (string, error) { return f(ctx) }

// Static always returns the same fingerprint.
type Static string

func (s Static) Fingerprint(context.Context) (string, error) { return string(s), nil }

// Resolve runs a single attempt of p and never fails: errors, panics, a
// nil provider and empty results all yield "". Failures are logged at
// WARN.
func Resolve(ctx context.Context, p Provider, log *slog.Logger) (fp string) {
	if log == nil {
		log = logger.Discard()
	}
	if p == nil {
		logger.Trace(ctx, log, "no fingerprint provider configured")
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			log.WarnContext(ctx, "fingerprint provider panicked",
				logger.Error(fmt.Errorf("%w: %v", ErrProviderPanic, r)))
			fp = ""
		}
	}()

	fp, err := p.Fingerprint(ctx)
	if err != nil {
		log.WarnContext(ctx, "fingerprint resolution failed", logger.Error(err))
		return ""
	}
	return strings.TrimSpace(fp)
}

// hash joins the non-empty components and returns the first 16 bytes of
// their SHA-256 as 32 hex characters.
func hash(components ...string) string {
	filtered := make([]string, 0, len(components))
	for _, c := range components {
		if c != "" {
			filtered = append(filtered, c)
		}
	}
	sum := sha256.Sum256([]byte(strings.Join(filtered, "|")))
	return hex.EncodeToString(sum[:16])
}
