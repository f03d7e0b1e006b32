package models

import "errors"

var (
	// ErrNotRoutedPage marks a docs file that does not match the routed
	// page pattern. Reported to ingestion callers as "skipped", never as
	// a failure.
	ErrNotRoutedPage = errors.New("file is not a routed documentation page")

	// ErrEmptyRelativePath marks identity derivation called without a path.
	ErrEmptyRelativePath = errors.New("relative path is empty")

	// ErrIdentityCollision marks two source files resolving to the same
	// canonical identity. A caller/config error, surfaced instead of
	// silently overwriting.
	ErrIdentityCollision = errors.New("canonical identity collision")

	// ErrInvalidCorpus marks a corpus value outside {docs, kb}.
	ErrInvalidCorpus = errors.New("invalid corpus")
)
