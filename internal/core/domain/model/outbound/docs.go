// Package outbound models externally-sent notifications and their
// retry/backoff state machine. Messages are created when an order state
// transition requires a customer or courier notification; after creation
// only the reliability worker mutates them.
package outbound
