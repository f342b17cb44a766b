package domain

import "errors"

var (
	// ErrNotFound means the username has no GitHub account.
	ErrNotFound = errors.New("not found")
	// ErrFetchFailed covers transport errors, rate limiting and unexpected API responses.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrCanceled marks a request that was superseded or aborted. It is never shown to the user.
	ErrCanceled = errors.New("canceled")
	// ErrInvalidUsername is returned for blank usernames before any request is made.
	ErrInvalidUsername = errors.New("username is required")
)

// IsCanceled reports whether err is the result of a superseded or aborted request.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// UserMessage maps err to the single human-readable message shown for a failed query.
// It returns an empty string for nil and canceled errors.
func UserMessage(err error) string {
	switch {
	case err == nil, errors.Is(err, ErrCanceled):
		return ""
	case errors.Is(err, ErrInvalidUsername):
		return "Please enter a GitHub username"
	case errors.Is(err, ErrNotFound):
		return "User not found"
	default:
		return "Failed to fetch data from GitHub, please try again"
	}
}
