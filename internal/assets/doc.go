// Package assets provides the LaTeX templates used to typeset item cards.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - templates compiled into the binary
//	    ├── FilesystemLoader  - templates from a directory on disk
//	    └── AssetResolver     - custom-first lookup with embedded fallback
//
// A template may also be given as a path to a .tex file; the resolver reads
// it directly without name validation.
//
// # Directory Structure
//
//	{basePath}/
//	└── templates/
//	    └── {name}.tex
//
// # Security
//
// Template names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
