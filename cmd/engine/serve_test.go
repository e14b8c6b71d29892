package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const serveTestConfig = `app:
  port: 0
subject:
  id: u1
  role: seeker
  skills:
    - name: go
sources:
  collections:
    base_url: "http://127.0.0.1:9"
`

func TestServeStopsOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(serveTestConfig), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	oldDir := dataDir
	dataDir = dir
	defer func() { dataDir = oldDir }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx) }()

	// Give the listener a moment to come up, then signal shutdown.
	time.Sleep(300 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("serve did not shut down after context cancel")
	}
}
