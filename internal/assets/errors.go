package assets

import "errors"

// Sentinel errors for asset operations.
var (
	ErrStyleNotFound         = errors.New("style not found")
	ErrTemplateSetNotFound   = errors.New("template set not found")
	ErrIncompleteTemplateSet = errors.New("template set missing required template")

	// ErrInvalidAssetName rejects names that are not plain identifiers.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath is returned when a custom asset directory cannot
	// be opened.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetRead covers every other read failure, including symlinks
	// that leave the asset directory.
	ErrAssetRead = errors.New("failed to read asset")
)
