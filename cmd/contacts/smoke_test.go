//go:build smoke

package main

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestSmoke_CommandLine exercises the built binary end-to-end.
//
// Subtests run sequentially and depend on the first subtest building the binary.
func TestSmoke_CommandLine(t *testing.T) {
	projectRoot := findProjectRoot(t)
	binary := filepath.Join(t.TempDir(), "contacts")
	work := t.TempDir()

	t.Run("go build produces a contacts binary", func(t *testing.T) {
		// Given: the project
		// When: go build runs
		cmd := exec.Command("go", "build",
			"-ldflags", "-X main.version=smoke-test -X main.commit=abc1234 -X main.date=2026-01-01",
			"-o", binary, "./cmd/contacts")
		cmd.Dir = projectRoot
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("go build failed: %v\n%s", err, out)
		}

		// Then: a binary is produced
		if _, err := os.Stat(binary); err != nil {
			t.Fatalf("binary not found: %v", err)
		}
	})

	// contactsCmd runs the binary in the scratch project directory.
	contactsCmd := func(args ...string) *exec.Cmd {
		cmd := exec.Command(binary, args...)
		cmd.Dir = work
		cmd.Env = append(os.Environ(), "HOME="+work, "CONTACTS_LOG_LEVEL=error")
		return cmd
	}

	t.Run("version prints version commit and date", func(t *testing.T) {
		// When: contacts --version runs
		out, _ := contactsCmd("--version").CombinedOutput()

		// Then: version, commit, and date are printed
		for _, want := range []string{"smoke-test", "abc1234", "2026-01-01"} {
			if !strings.Contains(string(out), want) {
				t.Errorf("version output = %q, want to contain %q", out, want)
			}
		}
	})

	t.Run("add then list round-trips through the JSON store", func(t *testing.T) {
		// Given: a contact added through the binary
		if out, err := contactsCmd("add", "--first", "John", "--last", "Doe", "--phone", "0123456789").CombinedOutput(); err != nil {
			t.Fatalf("add failed: %v\n%s", err, out)
		}

		// When: list runs in a separate process
		out, err := contactsCmd("list", "--plain").CombinedOutput()
		if err != nil {
			t.Fatalf("list failed: %v\n%s", err, out)
		}

		// Then: the contact is printed
		if !strings.Contains(string(out), "John\tDoe\t0123456789") {
			t.Errorf("list output = %q, want John Doe", out)
		}
	})

	t.Run("add without phone exits 1", func(t *testing.T) {
		// When: add omits --phone
		out, err := contactsCmd("add", "--first", "John", "--last", "Doe").CombinedOutput()

		// Then: the process exits with code 1 and names the field
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != exitInvalid {
			t.Fatalf("err = %v, want exit code %d\n%s", err, exitInvalid, out)
		}
		if !strings.Contains(string(out), "phone number is required") {
			t.Errorf("output = %q, want missing phone message", out)
		}
	})
}

func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}
