package store

import (
	"sync"

	"github.com/awashimakentaro/diet/models"
)

// DietState is the whole in-memory state for one user. Mutation always
// replaces the state as a unit, never patches it in place.
type DietState struct {
	Meals        []models.Meal
	FoodLibrary  []models.FoodLibraryEntry
	Goal         *models.Goal
	Profile      *models.Profile
	Notification models.NotificationSetting
	DraftInbox   []models.AnalyzeDraft
}

func (s DietState) clone() DietState {
	out := s
	out.Meals = make([]models.Meal, 0, len(s.Meals))
	for _, m := range s.Meals {
		out.Meals = append(out.Meals, m.Clone())
	}
	out.FoodLibrary = make([]models.FoodLibraryEntry, 0, len(s.FoodLibrary))
	for _, e := range s.FoodLibrary {
		out.FoodLibrary = append(out.FoodLibrary, e.Clone())
	}
	if s.Goal != nil {
		g := *s.Goal
		out.Goal = &g
	}
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	out.Notification = s.Notification.Clone()
	out.DraftInbox = make([]models.AnalyzeDraft, 0, len(s.DraftInbox))
	for _, d := range s.DraftInbox {
		out.DraftInbox = append(out.DraftInbox, d.Clone())
	}
	return out
}

type Listener func(DietState)

// Store holds one user's DietState behind a mutex and fans every replacement
// out to subscribed listeners, synchronously and in subscription order.
type Store struct {
	mu        sync.RWMutex
	state     DietState
	listeners map[int]Listener
	order     []int
	nextID    int
}

func New() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// Get returns a by-value copy; callers can never alias internal slices.
func (s *Store) Get() DietState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Set replaces the state with update's result and notifies every listener.
// No batching, no deduplication. Listeners run outside the lock so they may
// call Get without deadlocking.
func (s *Store) Set(update func(DietState) DietState) {
	s.mu.Lock()
	s.state = update(s.state.clone())
	snapshot := s.state.clone()
	ls := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		ls = append(ls, s.listeners[id])
	}
	s.mu.Unlock()

	for _, l := range ls {
		l(snapshot)
	}
}

// Subscribe registers a listener and returns its unsubscribe function.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.listeners[id]; !ok {
			return
		}
		delete(s.listeners, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// Reset restores the initial empty state and notifies. Used on sign-out.
func (s *Store) Reset() {
	s.Set(func(DietState) DietState {
		return DietState{}
	})
}

// EnqueueDraft appends a draft to the one-shot hand-off inbox (FIFO).
func (s *Store) EnqueueDraft(d models.AnalyzeDraft) {
	s.Set(func(st DietState) DietState {
		st.DraftInbox = append(st.DraftInbox, d.Clone())
		return st
	})
}

// ConsumeDraftInbox drains the whole inbox atomically: the read and the clear
// happen in one Set so a draft can never be delivered twice.
func (s *Store) ConsumeDraftInbox() []models.AnalyzeDraft {
	var drained []models.AnalyzeDraft
	s.Set(func(st DietState) DietState {
		drained = st.DraftInbox
		st.DraftInbox = nil
		return st
	})
	return drained
}

// Manager keys stores by user so each signed-in user gets an isolated state.
type Manager struct {
	mu     sync.Mutex
	stores map[uint]*Store
}

func NewManager() *Manager {
	return &Manager{stores: make(map[uint]*Store)}
}

func (m *Manager) For(userID uint) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.stores[userID]
	if !ok {
		st = New()
		m.stores[userID] = st
	}
	return st
}
