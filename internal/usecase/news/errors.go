// Package news provides use cases for managing news entries.
// It implements business logic for creating, publishing, updating and
// deleting news, including deferred publication at a future instant, and
// emits a change event on the notification bus after every successful
// mutation.
package news

import "errors"

// Sentinel errors for news use case operations.
var (
	// ErrNewsNotFound indicates that the requested news entry was not found.
	// This error is typically returned when attempting to publish, update or
	// delete a news entry that does not exist in the repository.
	ErrNewsNotFound = errors.New("news not found")

	// ErrInvalidNewsID indicates that the provided news ID is invalid.
	// News IDs must be positive integers.
	ErrInvalidNewsID = errors.New("invalid news ID")

	// ErrPublishDatePassed indicates that the requested publication instant
	// is not in the future. Deferred publication requires a future instant.
	ErrPublishDatePassed = errors.New("publication date already passed")
)
