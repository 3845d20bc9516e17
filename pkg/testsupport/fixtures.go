package testsupport

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uirenderer/pkg/session"
)

//go:embed fixtures/*.json
var fixtures embed.FS

// Payload returns the named configuration fixture decoded as a generic map.
// Callers may edit the result freely.
func Payload(t *testing.T, name string) map[string]any {
	t.Helper()

	payload, err := LoadPayload(name)
	if err != nil {
		t.Fatalf("load payload: %v", err)
	}
	return payload
}

// LoadPayload is Payload without *testing.T.
func LoadPayload(name string) (map[string]any, error) {
	data, err := fixtures.ReadFile("fixtures/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("testsupport: read fixture %q: %w", name, err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("testsupport: decode fixture %q: %w", name, err)
	}
	return out, nil
}

// Session builds a ready session from the named fixture with mode applied
// (empty keeps the fixture's mode). The session id is fixed to "sess-<name>".
func Session(t *testing.T, name, mode string, options ...session.Option) *session.Session {
	t.Helper()

	payload := Payload(t, name)
	if mode != "" {
		payload["mode"] = mode
	}
	options = append([]session.Option{session.WithIDGenerator(func() string { return "sess-" + name })}, options...)
	sess, err := session.NewBuilder(options...).BuildRaw(Context(), payload)
	if err != nil {
		t.Fatalf("build session: %v", err)
	}
	return sess
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set and
// reports whether it did, in which case the test should return early.
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}
