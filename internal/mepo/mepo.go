// Package mepo runs the mepo multi-repository tool.
package mepo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Tool defines the mepo operations the pre-configure hook needs.
type Tool interface {
	// Clone fetches every sub-repository listed in components.yaml.
	// partial is passed as --partial=<partial> when not empty.
	Clone(ctx context.Context, dir, partial string) error

	// Develop switches repos to their development branches.
	Develop(ctx context.Context, dir string, repos ...string) error

	// CheckoutIfExists checks out branch in every repository that has it.
	// Repositories without the branch are left alone.
	CheckoutIfExists(ctx context.Context, dir, branch string) error
}

type cmdTool struct {
	mepo string
	l    hclog.Logger
}

// Option configures a Tool.
type Option func(*cmdTool)

// WithPath sets a custom mepo executable path.
func WithPath(path string) Option {
	return func(t *cmdTool) {
		if path != "" {
			t.mepo = path
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(t *cmdTool) {
		t.l = l.Named("mepo")
	}
}

// New returns a Tool that runs the mepo executable.
func New(opts ...Option) Tool {
	t := &cmdTool{mepo: "mepo", l: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *cmdTool) Clone(ctx context.Context, dir, partial string) error {
	args := []string{"clone"}
	if partial != "" {
		args = append(args, "--partial="+partial)
	}
	if err := t.run(ctx, dir, args...); err != nil {
		return fmt.Errorf("clone: %w", err)
	}
	return nil
}

func (t *cmdTool) Develop(ctx context.Context, dir string, repos ...string) error {
	if len(repos) == 0 {
		return nil
	}
	if err := t.run(ctx, dir, append([]string{"develop"}, repos...)...); err != nil {
		return fmt.Errorf("develop %s: %w", strings.Join(repos, " "), err)
	}
	return nil
}

func (t *cmdTool) CheckoutIfExists(ctx context.Context, dir, branch string) error {
	if err := t.run(ctx, dir, "checkout-if-exists", branch); err != nil {
		return fmt.Errorf("checkout-if-exists %s: %w", branch, err)
	}
	return nil
}

func (t *cmdTool) run(ctx context.Context, dir string, args ...string) error {
	t.l.Debug("running", "dir", dir, "args", args)

	cmd := exec.CommandContext(ctx, t.mepo, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s: %w", msg, err)
		}
		return err
	}
	if out := strings.TrimSpace(stdout.String()); out != "" {
		t.l.Trace("output", "args", args, "stdout", out)
	}
	return nil
}
