package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestRunExtension(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("extensions are shell scripts in this test")
	}
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	script := "#!/bin/sh\n" +
		"echo \"$" + EnvConfigFile + " $" + EnvDBPath + " $" + EnvLogLevel + " $@\" > " + out + "\n" +
		"exit 3\n"
	if err := os.WriteFile(filepath.Join(dir, "sg-hello"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	setFlag(t, configFile, "/etc/sg.yaml")
	setFlag(t, dbFile, "/tmp/book.db")
	setFlag(t, logLevel, "debug")

	found, code := RunExtension("hello", []string{"a", "b"})
	if !found || code != 3 {
		t.Fatalf("RunExtension() = %v, %d, want true, 3", found, code)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if want := "/etc/sg.yaml /tmp/book.db debug a b"; strings.TrimSpace(string(got)) != want {
		t.Errorf("extension received %q, want %q", got, want)
	}

	if found, _ := RunExtension("missing-extension", nil); found {
		t.Error("RunExtension() found a missing extension")
	}
}

// setFlag sets a global flag value for the duration of the test.
func setFlag[T any](t *testing.T, flag *T, value T) {
	t.Helper()
	old := *flag
	*flag = value
	t.Cleanup(func() { *flag = old })
}
