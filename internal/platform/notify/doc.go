// Package notify delivers invitation links to invitees.
//
// LogSender writes the link to the structured log and suits local
// development. WebhookSender POSTs a JSON payload to a configured endpoint
// behind a circuit breaker so a failing endpoint does not slow every
// invitation down.
package notify
