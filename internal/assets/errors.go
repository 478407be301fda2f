package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrTemplateNotFound indicates the requested template does not exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidAssetName indicates the name contains path separators,
	// dots, or is otherwise unusable as a file name.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath indicates the configured base path is not a valid directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetRead indicates an I/O error occurred while reading a template.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal indicates an attempt to access files outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")
)
