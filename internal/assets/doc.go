// Package assets provides the stylesheet and HTML page templates used to
// assemble course, quiz and teacher guide documents.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── Loader         - reads an fs.FS: Embedded() or OpenDir(dir)
//	    └── AssetResolver  - custom directory first, embedded assets second
//
// A deployment can override a single stylesheet or template set and keep
// the rest of the built-in assets.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	└── templates/
//	    └── {name}/
//	        ├── cover.html
//	        ├── toc.html
//	        ├── body.html
//	        ├── final.html
//	        ├── quiz.html
//	        ├── answers.html
//	        ├── footer.html
//	        └── document.html
//
// Templates are html/template sources. This package only loads them; the
// templates package parses and executes them.
//
// # Security
//
// Asset names are plain identifiers (see ValidateAssetName). Custom
// directories are opened with os.OpenRoot, so symlinks cannot reach files
// outside of them.
package assets
