// Package messaging provides a broker-agnostic publishing abstraction.
//
// Business code publishes domain events through the Messaging interface; the
// concrete broker (NATS, Kafka) is selected by configuration.
package messaging
