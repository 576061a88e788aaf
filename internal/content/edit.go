package content

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/x/editor"
)

// RunInTerminal runs cmd attached to the current terminal.
func RunInTerminal(cmd *exec.Cmd) error {
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Edit opens the body of draft id in $EDITOR through run and saves the
// result. It reports whether the body changed.
func Edit(ctx context.Context, s *Store, id string, run func(*exec.Cmd) error) (Draft, bool, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return Draft{}, false, err
	}

	tmp, err := os.CreateTemp("", "bizdesk-draft-*.md")
	if err != nil {
		return Draft{}, false, fmt.Errorf("creating temp file: %w", err)
	}
	path := tmp.Name()
	defer func() { _ = os.Remove(path) }()

	if _, err := tmp.WriteString(d.Body); err != nil {
		_ = tmp.Close()
		return Draft{}, false, fmt.Errorf("writing temp file: %w", err)
	}
	_ = tmp.Close()

	cmd, err := editor.Command("bizdesk", path)
	if err != nil {
		return Draft{}, false, fmt.Errorf("resolving editor: %w", err)
	}
	if err := run(cmd); err != nil {
		return Draft{}, false, fmt.Errorf("running editor: %w", err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return Draft{}, false, fmt.Errorf("reading edited draft: %w", err)
	}
	if string(edited) == d.Body {
		return d, false, nil
	}
	updated, err := s.UpdateBody(ctx, id, string(edited))
	if err != nil {
		return Draft{}, false, err
	}
	return updated, true, nil
}
