package pipeline

import (
	"compress/gzip"
	"context"
	"io"
	"os"

	"github.com/andybalholm/brotli"
	"github.com/rotisserie/eris"
)

// CompressTargets writes precompressed .br and .gz siblings next to every
// bundle target in spec so the web server can serve them directly. Targets
// must already have been built.
func CompressTargets(ctx context.Context, spec BundleSpec, baseDir string) error {
	for target := range spec {
		targetPath := Resolve(target, baseDir)

		err := compressFile(targetPath, targetPath+".br", func(w io.Writer) io.WriteCloser {
			return brotli.NewWriterLevel(w, brotli.BestCompression)
		})
		if err != nil {
			return err
		}

		err = compressFile(targetPath, targetPath+".gz", func(w io.Writer) io.WriteCloser {
			return gzip.NewWriter(w)
		})
		if err != nil {
			return err
		}

		log(ctx).Info().
			Str("target", target).
			Msgf("compressed %s", target)
	}

	return nil
}

func compressFile(srcPath, destPath string, wrap func(io.Writer) io.WriteCloser) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return eris.Wrapf(err, "failed to open bundle %s", srcPath)
	}
	defer src.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return eris.Wrapf(err, "failed to create %s", destPath)
	}
	defer dest.Close()

	writer := wrap(dest)
	_, err = io.Copy(writer, src)
	if err != nil {
		return eris.Wrapf(err, "failed to compress %s", srcPath)
	}

	err = writer.Close()
	if err != nil {
		return eris.Wrapf(err, "failed to finish %s", destPath)
	}

	return dest.Close()
}
