// Package resilience contains fault-tolerance building blocks for the
// application, currently circuit breaker protection for database access.
package resilience
