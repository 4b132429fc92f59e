// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as News and User, along with
// their validation rules and domain-specific errors.
package entity

import "time"

// News represents a single news item in the system.
// IsPublished defaults to false at creation and is set to true only by a
// publish operation; DatePublished records the instant the publish mutation
// actually executed, not the instant a scheduled request asked for.
type News struct {
	ID            int64
	Title         string
	Content       string
	Author        string
	IsPublished   bool
	DatePublished *time.Time
}

// User represents a registered account. Password holds the bcrypt hash,
// never the plaintext.
type User struct {
	ID       int64
	Username string
	Password string
}
