package aal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// FileLoader returns the full text of a program file.
type FileLoader interface {
	Load(path string) (string, error)
}

// CommandRunner runs a host command and returns its standard output.
type CommandRunner interface {
	Run(ctx context.Context, command string) (string, error)
}

// OSFileLoader reads programs from the local filesystem. Relative paths are
// resolved against BaseDir when it is set.
type OSFileLoader struct {
	BaseDir string
}

func (l OSFileLoader) Load(path string) (string, error) {
	if l.BaseDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(l.BaseDir, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("path does not exist: %s", path)
		}
		return "", fmt.Errorf("unable to open file: %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("path is not a file: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to open file: %s: %w", path, err)
	}
	return string(data), nil
}

// ShellRunner executes commands through the host shell.
type ShellRunner struct {
	Shell string
}

func (r ShellRunner) Run(ctx context.Context, command string) (string, error) {
	shell := r.Shell
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := exec.CommandContext(ctx, shell, "-c", command)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return string(out), fmt.Errorf("command %q failed: %w: %s", command, err, msg)
		}
		return string(out), fmt.Errorf("command %q failed: %w", command, err)
	}
	return string(out), nil
}
