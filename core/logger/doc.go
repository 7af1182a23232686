// Package logger is a standardized event logging framework for the shell.
//
// Events are written one per line as protobuf JSON so the log can be
// summarized later with `shmy events report`.
package logger
