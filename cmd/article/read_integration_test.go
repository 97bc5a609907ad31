//go:build integration

package main

import (
	"context"
	"path/filepath"
	"testing"
)

func TestRead_Browser(t *testing.T) {
	srv := newDocServer(t)
	dir := t.TempDir()
	env, _, stderr := testEnv(t, nil)

	code := runMain(context.Background(), []string{
		"read", "--browser", "-w", "1", "-b", srv.URL + "/docs/", "-d", dir,
		"--location", "https://example.com/guide.html#guide",
		"guide.md", "missing.md",
	}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}

	assertContains(t, "guide.html", readOutput(t, filepath.Join(dir, "guide.html")),
		`id="guide"`, `class="chroma"`, srv.URL+"/docs/img/logo.png")
	assertContains(t, "missing.html", readOutput(t, filepath.Join(dir, "missing.html")),
		"Oops, cannot load content for the moment...")
}
