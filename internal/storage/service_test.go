package storage

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func _newStore(t *testing.T) *StateStore {
	store, err := NewStateStore("", logrus.New())
	if err != nil {
		t.Fatalf("Failed to open state store: %s", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Failed to close state store: %s", err)
		}
	})
	return store
}

func TestTokenRoundTrip(t *testing.T) {
	store := _newStore(t)
	if _, ok := store.LoadToken(); ok {
		t.Fatalf("Expected no token in a fresh store")
	}
	if err := store.SaveToken("signed-credential"); err != nil {
		t.Fatalf("Failed to save token: %s", err)
	}
	loaded, ok := store.LoadToken()
	if !ok || loaded != "signed-credential" {
		t.Fatalf("Unexpected loaded token: %s, %v", loaded, ok)
	}
	if err := store.ClearToken(); err != nil {
		t.Fatalf("Failed to clear token: %s", err)
	}
	if _, ok := store.LoadToken(); ok {
		t.Fatalf("Expected the token gone after clear")
	}
}

func TestNotificationsReadFlag(t *testing.T) {
	store := _newStore(t)
	if store.NotificationsRead() {
		t.Fatalf("Expected the flag unset in a fresh store")
	}
	if err := store.SetNotificationsRead(true); err != nil {
		t.Fatalf("Failed to set flag: %s", err)
	}
	if !store.NotificationsRead() {
		t.Fatalf("Expected the flag set")
	}
}

func TestClearTokenDropsReadFlag(t *testing.T) {
	store := _newStore(t)
	if err := store.SaveToken("signed-credential"); err != nil {
		t.Fatalf("Failed to save token: %s", err)
	}
	if err := store.SetNotificationsRead(true); err != nil {
		t.Fatalf("Failed to set flag: %s", err)
	}
	if err := store.ClearToken(); err != nil {
		t.Fatalf("Failed to clear token: %s", err)
	}
	if store.NotificationsRead() {
		t.Fatalf("Expected the flag cleared along with the token")
	}
}

func TestDurableStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStateStore(dir, logrus.New())
	if err != nil {
		t.Fatalf("Failed to open state store: %s", err)
	}
	if err := store.SaveToken("signed-credential"); err != nil {
		t.Fatalf("Failed to save token: %s", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Failed to close state store: %s", err)
	}

	reopened, err := NewStateStore(dir, logrus.New())
	if err != nil {
		t.Fatalf("Failed to reopen state store: %s", err)
	}
	defer reopened.Close()
	loaded, ok := reopened.LoadToken()
	if !ok || loaded != "signed-credential" {
		t.Fatalf("Expected the token to survive reopen, found %s, %v", loaded, ok)
	}
}
