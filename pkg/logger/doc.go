// Package logger builds the structured log/slog logger of the daemon: text
// records in dev and staging, JSON in prod, tagged with the environment.
package logger
