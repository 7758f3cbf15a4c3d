package absence

import (
	"errors"

	"attendance-bot/internal/models"
)

// memStore is an in-memory Store for engine tests.
type memStore struct {
	absences []models.Absence
	standing map[int64]models.StandingAbsence
	pending  map[int64]models.PendingAbsence
	nextID   int64
	admins   map[int64][]int64
	states   map[int64]string
	names    map[int64]string
}

func newMemStore() *memStore {
	return &memStore{
		standing: make(map[int64]models.StandingAbsence),
		pending:  make(map[int64]models.PendingAbsence),
		admins:   make(map[int64][]int64),
		states:   make(map[int64]string),
		names:    make(map[int64]string),
	}
}

func (s *memStore) ReplaceAbsence(a models.Absence) error {
	kept := s.absences[:0]
	for _, old := range s.absences {
		if old.UserID == a.UserID && old.Day == a.Day && old.GroupChatID == a.GroupChatID {
			continue
		}
		kept = append(kept, old)
	}
	s.absences = append(kept, a)
	return nil
}

func (s *memStore) DeleteDayAbsence(userID int64, day string, groupChatID int64) error {
	kept := s.absences[:0]
	for _, a := range s.absences {
		if a.UserID == userID && a.Day == day && a.GroupChatID == groupChatID {
			continue
		}
		kept = append(kept, a)
	}
	s.absences = kept
	return nil
}

func (s *memStore) GetStandingAbsence(userID int64) (*models.StandingAbsence, error) {
	sa, ok := s.standing[userID]
	if !ok {
		return nil, nil
	}
	return &sa, nil
}

func (s *memStore) SaveStandingAbsence(sa models.StandingAbsence) error {
	s.standing[sa.UserID] = sa
	return nil
}

func (s *memStore) DeleteStandingAbsence(userID int64) error {
	delete(s.standing, userID)
	return nil
}

func (s *memStore) AddPendingAbsence(userID int64, reason, day string, groupChatID int64) (int64, error) {
	s.nextID++
	s.pending[s.nextID] = models.PendingAbsence{
		ID:          s.nextID,
		UserID:      userID,
		Reason:      reason,
		Day:         day,
		GroupChatID: groupChatID,
	}
	return s.nextID, nil
}

func (s *memStore) GetPendingAbsence(id int64) (*models.PendingAbsence, error) {
	pa, ok := s.pending[id]
	if !ok {
		return nil, nil
	}
	pa.FullName = s.names[pa.UserID]
	return &pa, nil
}

func (s *memStore) DeletePendingAbsence(id int64) error {
	delete(s.pending, id)
	return nil
}

func (s *memStore) GetGroupAdminIDs(chatID int64) ([]int64, error) {
	return s.admins[chatID], nil
}

func (s *memStore) ClearUserState(userID int64) error {
	delete(s.states, userID)
	return nil
}

// fakeNotifier records exit prompts; fails every send when broken.
type fakeNotifier struct {
	broken bool
	sent   []int64
	nextID int
}

func (n *fakeNotifier) SendExitPrompt(userID int64, label models.ReasonCode) (int, error) {
	if n.broken {
		return 0, errors.New("user never opened a private chat")
	}
	n.sent = append(n.sent, userID)
	n.nextID++
	return n.nextID, nil
}

func newTestEngine() (*Engine, *memStore, *fakeNotifier) {
	store := newMemStore()
	notifier := &fakeNotifier{}
	return NewEngine(store, notifier), store, notifier
}
