package ingestion

import "errors"

var (
	// ErrEntryRepositoryRequired is returned when an entry repository is not provided.
	ErrEntryRepositoryRequired = errors.New("entry repository required")

	// ErrFrequencyRepositoryRequired is returned when a frequency repository is not provided.
	ErrFrequencyRepositoryRequired = errors.New("frequency repository required")

	// ErrSourceRequired is returned when Import is called without a source.
	ErrSourceRequired = errors.New("source required")

	// ErrSourceNotFound is returned when a source's file or directory doesn't exist.
	ErrSourceNotFound = errors.New("source not found")

	// ErrInvalidFilename is returned when an entry file name doesn't carry a date.
	ErrInvalidFilename = errors.New("invalid entry file name")

	// ErrPipelineReleased is returned when the pipeline's worker pool has been released.
	ErrPipelineReleased = errors.New("pipeline released")
)
