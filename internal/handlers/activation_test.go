package handlers

import (
	"errors"
	"testing"

	"attendance-bot/internal/models"
)

type keyStore struct {
	keys   map[string]*models.ActivationKey
	binds  map[int64]string
	groups map[int64]string
	admins map[int64][]int64
}

func newKeyStore() *keyStore {
	return &keyStore{
		keys:   make(map[string]*models.ActivationKey),
		binds:  make(map[int64]string),
		groups: make(map[int64]string),
		admins: make(map[int64][]int64),
	}
}

func (s *keyStore) GetActivationKey(key string) (*models.ActivationKey, error) {
	k, ok := s.keys[key]
	if !ok {
		return nil, nil
	}
	cp := *k
	return &cp, nil
}

func (s *keyStore) RedeemActivationKey(key string) (bool, error) {
	k, ok := s.keys[key]
	if !ok || k.Used {
		return false, nil
	}
	k.Used = true
	return true, nil
}

func (s *keyStore) GetLatestBindName(chatID int64) (string, error) {
	return s.binds[chatID], nil
}

func (s *keyStore) UpsertGroup(chatID int64, name string, verified bool) error {
	s.groups[chatID] = name
	return nil
}

func (s *keyStore) AddGroupAdmin(chatID, adminID int64) error {
	for _, id := range s.admins[chatID] {
		if id == adminID {
			return nil
		}
	}
	s.admins[chatID] = append(s.admins[chatID], adminID)
	return nil
}

const testChat = int64(-100200)

func TestActivateKeySingleUse(t *testing.T) {
	store := newKeyStore()
	store.keys["k1"] = &models.ActivationKey{Key: "k1", ChatID: testChat, TargetAdminID: 7}
	store.binds[testChat] = "Группа 101"

	name, chatID, err := activateKey(store, 7, "k1")
	if err != nil {
		t.Fatalf("first redeem: %v", err)
	}
	if name != "Группа 101" || chatID != testChat {
		t.Errorf("got (%q, %d), want (%q, %d)", name, chatID, "Группа 101", testChat)
	}
	if store.groups[testChat] != "Группа 101" {
		t.Errorf("group not verified with bind name: %q", store.groups[testChat])
	}
	if got := store.admins[testChat]; len(got) != 1 || got[0] != 7 {
		t.Fatalf("admin roster after first redeem: %v", got)
	}

	_, _, err = activateKey(store, 7, "k1")
	if !errors.Is(err, errKeyUsed) {
		t.Fatalf("second redeem: got %v, want errKeyUsed", err)
	}
	if got := store.admins[testChat]; len(got) != 1 {
		t.Errorf("second redeem must not duplicate the admin row: %v", got)
	}
}

func TestActivateKeyWrongTarget(t *testing.T) {
	store := newKeyStore()
	store.keys["k1"] = &models.ActivationKey{Key: "k1", ChatID: testChat, TargetAdminID: 7}

	_, _, err := activateKey(store, 8, "k1")
	if !errors.Is(err, errKeyWrongUser) {
		t.Fatalf("got %v, want errKeyWrongUser", err)
	}
	if store.keys["k1"].Used {
		t.Error("a rejected attempt must not consume the key")
	}
	if len(store.admins[testChat]) != 0 {
		t.Errorf("no admin row expected: %v", store.admins[testChat])
	}
}

func TestActivateKeyUnknown(t *testing.T) {
	store := newKeyStore()

	_, _, err := activateKey(store, 7, "nope")
	if !errors.Is(err, errKeyInvalid) {
		t.Fatalf("got %v, want errKeyInvalid", err)
	}
}

func TestActivateKeyFallbackGroupName(t *testing.T) {
	store := newKeyStore()
	store.keys["k1"] = &models.ActivationKey{Key: "k1", ChatID: testChat, TargetAdminID: 7}

	name, _, err := activateKey(store, 7, "k1")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if name != "название группы не указано" {
		t.Errorf("got %q, want the placeholder name", name)
	}
}
