package pipeline

import (
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
)

// Transform minifies a single source file's content.
type Transform func(content []byte) ([]byte, error)

// Registry maps content keys (lowercase file extensions) to minification
// transforms. The zero value is ready to use.
type Registry struct {
	transforms map[string]Transform
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{transforms: map[string]Transform{}}
}

// Register stores the transform for the given key, replacing any previous
// registration. The key is lower-cased.
func (r *Registry) Register(key string, transform Transform) {
	if r.transforms == nil {
		r.transforms = map[string]Transform{}
	}

	r.transforms[strings.ToLower(key)] = transform
}

// Minify runs the transform registered for key over content. A missing key
// yields an UnsupportedTypeError.
func (r *Registry) Minify(key string, content []byte) ([]byte, error) {
	transform, ok := r.transforms[strings.ToLower(key)]
	if !ok {
		return nil, &UnsupportedTypeError{Ext: key}
	}

	return transform(content)
}

// DefaultRegistry returns a registry with the css and js transforms used by
// the assets task.
func DefaultRegistry() *Registry {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)

	reg := NewRegistry()
	reg.Register("css", func(content []byte) ([]byte, error) {
		return m.Bytes("text/css", content)
	})
	reg.Register("js", func(content []byte) ([]byte, error) {
		return m.Bytes("application/javascript", content)
	})

	return reg
}
