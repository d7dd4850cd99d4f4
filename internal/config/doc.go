// Package config loads the service configuration from environment variables.
//
// A .env file in the working directory is read first when present; variables
// already set in the process take precedence. Every setting has a default,
// so an empty environment yields a runnable in-memory server.
//
// Validate reports every problem at once using errors.Join.
package config
