// Package logger provides structured logging utilities built on Go's standard slog package.
// It offers environment-specific logger construction and a set of pre-built,
// nil-safe attributes for common logging scenarios.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/messenger/core/logger"
//
//	// Development: text format, debug level, stdout
//	log := logger.New(logger.WithDevelopment("myapp"))
//
//	// Production: JSON format, info level, stdout
//	log := logger.New(
//		logger.WithProduction("myapp"),
//		logger.WithOutput(os.Stderr),
//	)
//
//	log.Info("Sweeper started",
//		logger.Component("messenger.sweeper"),
//		logger.Event("startup"),
//	)
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for empty input, which slog drops, so
// they can be passed without nil checks:
//
//	log.Error("Operation failed",
//		logger.Error(err), // no-op when err == nil
//		logger.Component("user_service"),
//	)
//
// Messaging helpers keep registry logs consistent:
//
//	log.Debug("receiver registered",
//		logger.MessageType("main.StatusChanged"),
//		logger.Receiver("*main.StatusView"),
//		logger.EntryID(id),
//	)
//
// # Testing with Custom Output
//
//	var buf bytes.Buffer
//	log := logger.New(
//		logger.WithJSONFormatter(),
//		logger.WithOutput(&buf),
//	)
//	log.Info("Test message", logger.Component("test"))
//	assert.Contains(t, buf.String(), `"component":"test"`)
package logger
