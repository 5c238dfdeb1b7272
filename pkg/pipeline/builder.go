package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// Build writes every bundle in spec. Paths are resolved against baseDir.
//
// Each target is created (or truncated) before its sources are checked, so
// a failed build leaves the current target empty or partially written. That
// matches the truncate-then-append streaming the builder uses: sources are
// minified and appended one at a time, in declared order, without separators.
// The first error aborts the whole build, including targets not yet touched.
func Build(ctx context.Context, reg *Registry, spec BundleSpec, baseDir string) error {
	for target, sources := range spec {
		targetPath := Resolve(target, baseDir)

		err := os.MkdirAll(filepath.Dir(targetPath), os.FileMode(0770))
		if err != nil {
			return eris.Wrapf(err, "failed to create directory for %s", targetPath)
		}

		hdl, err := os.Create(targetPath)
		if err != nil {
			return eris.Wrapf(err, "failed to create bundle target %s", targetPath)
		}
		hdl.Close()

		for _, source := range sources {
			sourcePath := Resolve(source, baseDir)

			info, err := os.Stat(sourcePath)
			if err != nil || !info.Mode().IsRegular() {
				return &MissingSourceError{Path: sourcePath}
			}

			content, err := os.ReadFile(sourcePath)
			if err != nil {
				return eris.Wrapf(err, "failed to read bundle source %s", sourcePath)
			}

			minified, err := reg.Minify(ContentKey(sourcePath), content)
			if err != nil {
				var unsupported *UnsupportedTypeError
				if eris.As(err, &unsupported) {
					return err
				}

				return &TransformError{Path: sourcePath, Cause: err}
			}

			err = appendToFile(targetPath, minified)
			if err != nil {
				return err
			}

			log(ctx).Debug().
				Str("target", target).
				Str("path", sourcePath).
				Msgf("bundled %s (%d -> %d bytes)", Simplify(sourcePath, baseDir), len(content), len(minified))
		}

		log(ctx).Info().
			Str("target", target).
			Msgf("wrote bundle %s from %d sources", target, len(sources))
	}

	return nil
}

// appendToFile opens the target for appending, writes chunk and closes it
// again. Keeping the handle scoped to one write simplifies the failure
// paths; a crash mid-build never leaves a bundle handle dangling.
func appendToFile(path string, chunk []byte) error {
	hdl, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, os.FileMode(0660))
	if err != nil {
		return eris.Wrapf(err, "failed to open bundle target %s", path)
	}
	defer hdl.Close()

	_, err = hdl.Write(chunk)
	if err != nil {
		return eris.Wrapf(err, "failed to append to bundle target %s", path)
	}

	return nil
}
