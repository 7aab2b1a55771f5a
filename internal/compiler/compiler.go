// Package compiler queries compilers for their self-reported versions.
package compiler

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// DumpVersion runs "<bin> -dumpversion" and returns the trimmed output.
func DumpVersion(ctx context.Context, bin string) (string, error) {
	if bin == "" {
		return "", fmt.Errorf("dumpversion: no compiler executable")
	}
	cmd := exec.CommandContext(ctx, bin, "-dumpversion")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s -dumpversion: %s: %w", bin, msg, err)
		}
		return "", fmt.Errorf("%s -dumpversion: %w", bin, err)
	}
	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return "", fmt.Errorf("%s -dumpversion: empty output", bin)
	}
	return out, nil
}
