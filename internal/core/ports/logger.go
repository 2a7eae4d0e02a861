package ports

// Logger defines the interface for logging.
//
//go:generate go run go.uber.org/mock/mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Info(msg string)
	Warn(msg string)
	// Debug logs a message with key-value attributes. It is only shown in verbose mode.
	Debug(msg string, args ...any)
	Error(err error)
}
