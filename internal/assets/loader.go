package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

//go:embed styles templates
var builtin embed.FS

// AssetLoader loads stylesheets and template sets by name.
type AssetLoader interface {
	// LoadStyle returns styles/<name>.css.
	LoadStyle(name string) (string, error)

	// LoadTemplateSet loads every page template of templates/<name>/.
	// Returns ErrTemplateSetNotFound if no file of the set exists and
	// ErrIncompleteTemplateSet if only some do.
	LoadTemplateSet(name string) (*TemplateSet, error)
}

// Loader reads assets from a file system laid out as styles/<name>.css and
// templates/<name>/<page>.html.
type Loader struct {
	fsys fs.FS
	root *os.Root // nil for the embedded assets
}

var _ AssetLoader = (*Loader)(nil)

// Embedded returns a loader over the assets compiled into the binary.
func Embedded() *Loader {
	return &Loader{fsys: builtin}
}

// OpenDir opens dir as a loader. Reads are confined to dir: paths and
// symlinks resolving outside of it fail.
func OpenDir(dir string) (*Loader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, dir)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	return &Loader{fsys: root.FS(), root: root}, nil
}

// Close releases the directory handle of a loader from OpenDir.
func (l *Loader) Close() error {
	if l.root == nil {
		return nil
	}
	return l.root.Close()
}

func (l *Loader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := fs.ReadFile(l.fsys, "styles/"+name+".css")
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	case err != nil:
		return "", fmt.Errorf("%w: style %q: %v", ErrAssetRead, name, err)
	}
	return string(content), nil
}

func (l *Loader) LoadTemplateSet(name string) (*TemplateSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	return readTemplateSet(name, func(file string) ([]byte, error) {
		return fs.ReadFile(l.fsys, "templates/"+name+"/"+file)
	})
}
