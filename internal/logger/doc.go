// Package logger wraps zap to provide:
//   - a global sugared logger with a console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing for the --log-level flag,
//   - shorthand functions (Infof, WarnKV, ErrorKV, etc.).
//
// Builders never write to stdout directly. They take a context and log through
// the logger stored in it, so tests can swap in an observer core.
package logger
