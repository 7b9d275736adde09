package common

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadWithIncludesMergesInOrder(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yaml", "auth:\n  secret: base\nport: 8888\n")
	over := writeFile(t, dir, "local.yaml", "auth:\n  secret: local\n")

	v, err := LoadWithIncludes(base, []string{over})
	if err != nil {
		t.Fatal(err)
	}
	if got := v.GetString("auth.secret"); got != "local" {
		t.Fatalf("include did not win: %q", got)
	}
	if got := v.GetInt("port"); got != 8888 {
		t.Fatalf("base key lost: %d", got)
	}
}

func TestApplyProfileOverlay(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "server.yaml",
		"cache:\n  driver: memory\nprofiles:\n  prod:\n    cache:\n      driver: redis\n")

	v, err := LoadWithIncludes(base, nil)
	if err != nil {
		t.Fatal(err)
	}
	pv, err := ApplyProfile(v, "prod")
	if err != nil {
		t.Fatal(err)
	}
	if got := pv.GetString("cache.driver"); got != "redis" {
		t.Fatalf("profile not applied: %q", got)
	}
	if _, err := ApplyProfile(v, "staging"); err == nil {
		t.Fatal("unknown profile accepted")
	}
}
