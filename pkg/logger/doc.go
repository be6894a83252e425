// Package logger provides the leveled structured logging façade used by the
// tracking SDK. It wraps log/slog with the SDK's numeric level scale
// (NONE, CRITICAL, ERROR, WARN, INFO, DEBUG, TRACE), a per-instance prefix
// and helper attribute constructors.
//
// # Levels
//
// Level N enables every level at or below N, so LevelInfo prints INFO, WARN,
// ERROR and CRITICAL records. LevelNone, the default, discards everything.
// TRACE and CRITICAL have no slog equivalent and are mapped to custom slog
// levels below Debug and above Error; the handler renders them by name.
//
// # Usage
//
//	import "github.com/dmitrymomot/trackkit/pkg/logger"
//
//	log := logger.New(
//	    logger.WithLevel(logger.LevelDebug),
//	    logger.WithPrefix("trackkit__v1.0.0"),
//	    logger.WithTextFormatter(),
//	)
//	log.Debug("heartbeat sent", logger.Component("session"))
//	logger.Critical(ctx, log, "app initiation unsuccessful", logger.Error(err))
//
// # Configuration
//
//   - WithLevel / ParseLevel – SDK level, from a name ("debug") or number ("5").
//   - WithFormat / WithTextFormatter / WithJSONFormatter – output format.
//   - WithOutput – destination writer, stderr by default.
//   - WithPrefix – value of the "sdk" attribute attached to every record.
//   - WithAttr – extra static attributes.
//   - WithContextExtractors / WithContextValue – inject attributes from context.
//
// # Error Handling
//
// Error and Errors produce attributes only for non-nil errors, so
//
//	log.Info("persisted", logger.Error(err))
//
// needs no nil check.
package logger
