package pipeline

import "errors"

// Sentinel errors reported in Result.Err. Test with errors.Is.
var (
	// ErrInvalidSettings: the merged job settings failed validation.
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrSourceUnreadable: the source could not be probed.
	ErrSourceUnreadable = errors.New("source unreadable")

	// ErrOutputDirUnwritable: the output directory could not be created or
	// is not writable.
	ErrOutputDirUnwritable = errors.New("output directory unwritable")

	// ErrEncodeFailed: the encoder exited nonzero or the job hit an
	// unexpected error.
	ErrEncodeFailed = errors.New("encode failed")

	// ErrAborted: the job was aborted. Reported at warning level, not as a
	// failure.
	ErrAborted = errors.New("aborted")

	// ErrOutputLocked: another job is writing the same output.
	ErrOutputLocked = errors.New("output locked by another job")

	// errAlreadyRun: Run was called on a job that has already run.
	errAlreadyRun = errors.New("job already run")
)
