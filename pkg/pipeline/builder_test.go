package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

func testCtx() context.Context {
	logger := zerolog.Nop()
	return WithLogger(context.Background(), &logger)
}

func identityRegistry(keys ...string) *Registry {
	reg := NewRegistry()
	for _, key := range keys {
		reg.Register(key, func(content []byte) ([]byte, error) {
			return content, nil
		})
	}

	return reg
}

func writeSource(t *testing.T, baseDir, name, content string) {
	t.Helper()

	path := filepath.Join(baseDir, name)
	err := os.MkdirAll(filepath.Dir(path), os.FileMode(0770))
	if err != nil {
		t.Fatalf("failed to create source dir: %v", err)
	}

	err = os.WriteFile(path, []byte(content), os.FileMode(0660))
	if err != nil {
		t.Fatalf("failed to write source %s: %v", name, err)
	}
}

func readTarget(t *testing.T, baseDir, name string) string {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(baseDir, name))
	if err != nil {
		t.Fatalf("failed to read target %s: %v", name, err)
	}

	return string(content)
}

func TestBuildConcatenatesInDeclaredOrder(t *testing.T) {
	baseDir := t.TempDir()
	writeSource(t, baseDir, "a.css", ".x{color:red}")
	writeSource(t, baseDir, "b.css", ".y{color:blue}")

	spec := BundleSpec{"dist/app.css": {"a.css", "b.css"}}
	err := Build(testCtx(), identityRegistry("css"), spec, baseDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := readTarget(t, baseDir, "dist/app.css")
	if got != ".x{color:red}.y{color:blue}" {
		t.Errorf("expected concatenation without separators, got %q", got)
	}
}

func TestBuildUsesRegistryTransform(t *testing.T) {
	baseDir := t.TempDir()
	writeSource(t, baseDir, "main.js", "var a = 1;")

	reg := NewRegistry()
	reg.Register("js", func(content []byte) ([]byte, error) {
		return append([]byte("min:"), content...), nil
	})

	err := Build(testCtx(), reg, BundleSpec{"out.js": {"main.js"}}, baseDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := readTarget(t, baseDir, "out.js"); got != "min:var a = 1;" {
		t.Errorf("transform output not written, got %q", got)
	}
}

func TestBuildUppercaseExtension(t *testing.T) {
	baseDir := t.TempDir()
	writeSource(t, baseDir, "shout.CSS", "body{}")

	err := Build(testCtx(), identityRegistry("css"), BundleSpec{"out.css": {"shout.CSS"}}, baseDir)
	if err != nil {
		t.Fatalf("expected the key to be lower-cased, got %v", err)
	}
}

func TestBuildMissingSource(t *testing.T) {
	baseDir := t.TempDir()
	writeSource(t, baseDir, "a.css", "a")

	spec := BundleSpec{"out.css": {"a.css", "gone.css"}}
	err := Build(testCtx(), identityRegistry("css"), spec, baseDir)
	if err == nil {
		t.Fatal("expected an error for the missing source")
	}

	var missing *MissingSourceError
	if !eris.As(err, &missing) {
		t.Fatalf("expected MissingSourceError, got %T: %v", err, err)
	}
	if missing.Path != filepath.Join(baseDir, "gone.css") {
		t.Errorf("expected the resolved source path, got %q", missing.Path)
	}
}

func TestBuildDirectoryAsSource(t *testing.T) {
	baseDir := t.TempDir()
	err := os.Mkdir(filepath.Join(baseDir, "dir.css"), os.FileMode(0770))
	if err != nil {
		t.Fatal(err)
	}

	err = Build(testCtx(), identityRegistry("css"), BundleSpec{"out.css": {"dir.css"}}, baseDir)

	var missing *MissingSourceError
	if !eris.As(err, &missing) {
		t.Fatalf("expected MissingSourceError for a directory, got %v", err)
	}
}

func TestBuildUnsupportedExtension(t *testing.T) {
	baseDir := t.TempDir()
	writeSource(t, baseDir, "style.scss", "$x: 1;")

	err := Build(testCtx(), identityRegistry("css"), BundleSpec{"out.css": {"style.scss"}}, baseDir)

	var unsupported *UnsupportedTypeError
	if !eris.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedTypeError, got %v", err)
	}
	if unsupported.Ext != "scss" {
		t.Errorf("expected the extension scss in the error, got %q", unsupported.Ext)
	}
}

func TestBuildTransformFailure(t *testing.T) {
	baseDir := t.TempDir()
	writeSource(t, baseDir, "bad.js", "][")

	cause := eris.New("unexpected token")
	reg := NewRegistry()
	reg.Register("js", func(content []byte) ([]byte, error) {
		return nil, cause
	})

	err := Build(testCtx(), reg, BundleSpec{"out.js": {"bad.js"}}, baseDir)

	var transform *TransformError
	if !eris.As(err, &transform) {
		t.Fatalf("expected TransformError, got %v", err)
	}
	if transform.Path != filepath.Join(baseDir, "bad.js") {
		t.Errorf("expected the source path in the error, got %q", transform.Path)
	}
	if !eris.Is(err, cause) {
		t.Error("expected the underlying cause to be preserved")
	}
}

func TestBuildTruncatesTargetBeforeValidation(t *testing.T) {
	baseDir := t.TempDir()
	writeSource(t, baseDir, "out.css", "previous contents")

	err := Build(testCtx(), identityRegistry("css"), BundleSpec{"out.css": {"gone.css"}}, baseDir)
	if err == nil {
		t.Fatal("expected the build to fail")
	}

	// the failed build leaves the target truncated
	if got := readTarget(t, baseDir, "out.css"); got != "" {
		t.Errorf("expected an empty target after the failed build, got %q", got)
	}
}

func TestBuildIdempotent(t *testing.T) {
	baseDir := t.TempDir()
	writeSource(t, baseDir, "a.css", ".a{}")
	writeSource(t, baseDir, "b.css", ".b{}")

	spec := BundleSpec{"out.css": {"a.css", "b.css"}}
	reg := identityRegistry("css")

	err := Build(testCtx(), reg, spec, baseDir)
	if err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	first := readTarget(t, baseDir, "out.css")

	err = Build(testCtx(), reg, spec, baseDir)
	if err != nil {
		t.Fatalf("second build failed: %v", err)
	}
	second := readTarget(t, baseDir, "out.css")

	if first != second {
		t.Errorf("rebuild produced different output: %q vs %q", first, second)
	}
	if first != ".a{}.b{}" {
		t.Errorf("unexpected bundle content %q", first)
	}
}

func TestBuildMultipleTargets(t *testing.T) {
	baseDir := t.TempDir()
	writeSource(t, baseDir, "a.css", "a")
	writeSource(t, baseDir, "b.js", "b")

	spec := BundleSpec{
		"dist/app.css": {"a.css"},
		"dist/app.js":  {"b.js"},
	}

	err := Build(testCtx(), identityRegistry("css", "js"), spec, baseDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := readTarget(t, baseDir, "dist/app.css"); got != "a" {
		t.Errorf("unexpected css bundle %q", got)
	}
	if got := readTarget(t, baseDir, "dist/app.js"); got != "b" {
		t.Errorf("unexpected js bundle %q", got)
	}
}
