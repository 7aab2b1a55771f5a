package build

import (
	"context"
	"os"
	"strings"
)

// mockTool implements mepo.Tool for testing, recording each call and the
// working directory it ran in.
type mockTool struct {
	calls []string
	dirs  []string
	fail  map[string]error
}

func (m *mockTool) record(verb string, args ...string) error {
	wd, _ := os.Getwd()
	m.dirs = append(m.dirs, wd)
	m.calls = append(m.calls, strings.TrimSpace(verb+" "+strings.Join(args, " ")))
	return m.fail[verb]
}

func (m *mockTool) Clone(ctx context.Context, dir, partial string) error {
	return m.record("clone", "--partial="+partial)
}

func (m *mockTool) Develop(ctx context.Context, dir string, repos ...string) error {
	return m.record("develop", repos...)
}

func (m *mockTool) CheckoutIfExists(ctx context.Context, dir, branch string) error {
	return m.record("checkout-if-exists", branch)
}
