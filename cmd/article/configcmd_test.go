package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestRunConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	data := "source:\n  baseURL: https://example.com/docs/\npage:\n  contentID: article\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		vars     map[string]string
		wantCode int
		wants    []string
	}{
		{
			name:     "file",
			args:     []string{"-c", path},
			wantCode: ExitSuccess,
			wants:    []string{"baseURL:", "example.com/docs/", "contentID: article"},
		},
		{
			name:     "environment fills what the file leaves empty",
			args:     []string{"-c", path},
			vars:     map[string]string{"ARTICLE_STYLE": "monokai", "ARTICLE_CONTENT_ID": "main"},
			wantCode: ExitSuccess,
			wants:    []string{"style: monokai", "contentID: article"},
		},
		{
			name:     "config from environment",
			vars:     map[string]string{"ARTICLE_CONFIG": path},
			wantCode: ExitSuccess,
			wants:    []string{"contentID: article"},
		},
		{
			name:     "invalid environment value",
			vars:     map[string]string{"ARTICLE_TIMEOUT": "later"},
			wantCode: ExitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(t, tt.vars)
			code := runMain(context.Background(), append([]string{"config"}, tt.args...), env)
			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d, stderr: %s", code, tt.wantCode, stderr)
			}
			assertContains(t, "stdout", stdout.String(), tt.wants...)
		})
	}
}
