package pipeline

import (
	"strings"
	"testing"

	"github.com/rotisserie/eris"
)

func TestErrorMessagesNameTheOffender(t *testing.T) {
	if msg := (&MissingSourceError{Path: "/srv/a.css"}).Error(); !strings.Contains(msg, "/srv/a.css") {
		t.Errorf("missing source message doesn't name the path: %q", msg)
	}

	if msg := (&UnsupportedTypeError{Ext: "scss"}).Error(); !strings.Contains(msg, "scss") {
		t.Errorf("unsupported type message doesn't name the extension: %q", msg)
	}

	cause := eris.New("bad token")
	transform := &TransformError{Path: "a.js", Cause: cause}
	if msg := transform.Error(); !strings.Contains(msg, "a.js") || !strings.Contains(msg, "bad token") {
		t.Errorf("transform message incomplete: %q", msg)
	}
	if !eris.Is(transform, cause) {
		t.Error("TransformError must unwrap to its cause")
	}

	spawn := &SpawnError{Command: "npm", Cause: cause}
	if msg := spawn.Error(); !strings.Contains(msg, "npm") {
		t.Errorf("spawn message doesn't name the command: %q", msg)
	}
	if !eris.Is(spawn, cause) {
		t.Error("SpawnError must unwrap to its cause")
	}
}
