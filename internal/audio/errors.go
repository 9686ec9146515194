package audio

import "errors"

// Error kinds surfaced by the package. I/O failures are returned as wrapped
// filesystem errors and carry no sentinel of their own; callers can inspect
// them with errors.Is against fs.ErrNotExist and friends.
var (
	// ErrMalformedStatus reports that the status snapshot existed but did
	// not parse as a valid document.
	ErrMalformedStatus = errors.New("malformed status snapshot")

	// ErrNotFound reports that no source record matched the requested
	// identity or name.
	ErrNotFound = errors.New("no matching audio source")

	// ErrConfirmTimeout reports that the daemon did not publish a status
	// entry for a freshly issued create command within the confirm budget.
	// The command may still be processed later; the client stops waiting.
	ErrConfirmTimeout = errors.New("timed out waiting for audio daemon confirmation")

	// ErrBadTimestamp reports a status timestamp that did not parse under
	// the daemon's fixed time format.
	ErrBadTimestamp = errors.New("unparseable status timestamp")
)
