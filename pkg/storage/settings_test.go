package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSettingsStore_APIKeySurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	first := NewSettingsStore(NewFilesystemRepository(dir))
	if _, ok, err := first.LoadAPIKey(); err != nil || ok {
		t.Fatalf("expected no key on first launch, ok=%v err=%v", ok, err)
	}
	if err := first.SaveAPIKey("sk-live-123"); err != nil {
		t.Fatalf("SaveAPIKey: %v", err)
	}

	// Simulated restart: a brand new store over the same directory.
	second := NewSettingsStore(NewFilesystemRepository(dir))
	key, ok, err := second.LoadAPIKey()
	if err != nil {
		t.Fatalf("LoadAPIKey: %v", err)
	}
	if !ok || key != "sk-live-123" {
		t.Fatalf("expected saved key, got %q (ok=%v)", key, ok)
	}
}

func TestSettingsStore_EveryChangePersists(t *testing.T) {
	dir := t.TempDir()
	store := NewSettingsStore(NewFilesystemRepository(dir))

	for _, v := range []string{"s", "sk", "sk-", "sk-9"} {
		if err := store.SaveAPIKey(v); err != nil {
			t.Fatalf("SaveAPIKey(%q): %v", v, err)
		}
		reloaded := NewSettingsStore(NewFilesystemRepository(dir))
		got, _, err := reloaded.LoadAPIKey()
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Fatalf("after saving %q reload returned %q", v, got)
		}
	}
}

func TestSettingsStore_EmptyKeyIsAbsent(t *testing.T) {
	store := NewSettingsStore(NewFilesystemRepository(t.TempDir()))
	if err := store.SaveAPIKey(""); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.LoadAPIKey(); ok {
		t.Fatal("empty key must load as absent")
	}
}

func TestSettingsStore_GetSetDelete(t *testing.T) {
	store := NewSettingsStore(NewFilesystemRepository(t.TempDir()))
	if err := store.Set("theme", "dark"); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := store.Get("theme"); !ok || v != "dark" {
		t.Fatalf("unexpected value %q ok=%v", v, ok)
	}
	if err := store.Delete("theme"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Get("theme"); ok {
		t.Fatal("expected key deleted")
	}
	if err := store.Delete("missing"); err != nil {
		t.Fatalf("deleting a missing key should be a no-op: %v", err)
	}
}

func TestSettingsStore_FailedSaveKeepsPreviousValue(t *testing.T) {
	dir := t.TempDir()
	repo := NewFilesystemRepository(dir)
	store := NewSettingsStore(repo)
	if err := store.SaveAPIKey("sk-old"); err != nil {
		t.Fatalf("SaveAPIKey: %v", err)
	}

	// A non-empty directory in place of the settings file makes the rename fail.
	path := filepath.Join(repo.Dir(), SettingsFile)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(path, "blocker"), 0700); err != nil {
		t.Fatal(err)
	}

	if err := store.SaveAPIKey("sk-new"); err == nil {
		t.Fatal("expected save to fail")
	}
	key, ok, err := store.LoadAPIKey()
	if err != nil || !ok || key != "sk-old" {
		t.Fatalf("expected previous key after failed save, got %q ok=%v err=%v", key, ok, err)
	}

	if err := store.Delete(APIKeySetting); err == nil {
		t.Fatal("expected delete to fail")
	}
	if key, ok, _ := store.LoadAPIKey(); !ok || key != "sk-old" {
		t.Fatalf("expected key to survive failed delete, got %q ok=%v", key, ok)
	}
}
