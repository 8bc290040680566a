package assets

import "errors"

// AssetResolver looks assets up in a custom directory first and falls back
// to the embedded assets when the custom directory does not have them.
// Only not-found errors fall back; an invalid name, a partial template set
// or a read failure in the custom directory is returned as is.
type AssetResolver struct {
	custom   *Loader // nil without a custom directory
	embedded *Loader
}

var _ AssetLoader = (*AssetResolver)(nil)

// NewAssetResolver creates a resolver. An empty customBasePath uses the
// embedded assets only.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: Embedded()}
	if customBasePath != "" {
		custom, err := OpenDir(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = custom
	}
	return r, nil
}

// HasCustomLoader reports whether a custom directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Close releases the custom directory.
func (r *AssetResolver) Close() error {
	if r.custom == nil {
		return nil
	}
	return r.custom.Close()
}

func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return resolve(r, func(l *Loader) (string, error) { return l.LoadStyle(name) })
}

func (r *AssetResolver) LoadTemplateSet(name string) (*TemplateSet, error) {
	return resolve(r, func(l *Loader) (*TemplateSet, error) { return l.LoadTemplateSet(name) })
}

func resolve[T any](r *AssetResolver, load func(*Loader) (T, error)) (T, error) {
	if r.custom != nil {
		v, err := load(r.custom)
		if !isNotFoundError(err) {
			return v, err
		}
	}
	return load(r.embedded)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateSetNotFound)
}
