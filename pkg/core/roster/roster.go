package roster

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/mergington/activities-api/pkg/core/model"
)

// Activity is one extracurricular activity and its participant roster.
// MaxParticipants is informational only; signup does not enforce capacity.
type Activity struct {
	Description     string   `json:"description" yaml:"description"`
	Schedule        string   `json:"schedule" yaml:"schedule"`
	MaxParticipants int      `json:"max_participants" yaml:"maxParticipants"`
	Participants    []string `json:"participants" yaml:"participants"`
}

// Store owns the activity -> participant mapping. It is the roster
// collaborator consumed by the calendar and attendance cores.
type Store struct {
	mu         sync.RWMutex
	activities map[string]*Activity
}

// New creates a roster store from the given seed. The seed is copied.
func New(seed map[string]Activity) *Store {
	s := &Store{activities: make(map[string]*Activity, len(seed))}
	for name, act := range seed {
		a := act
		a.Participants = append([]string(nil), act.Participants...)
		if a.Participants == nil {
			a.Participants = []string{}
		}
		s.activities[name] = &a
	}
	return s
}

// LoadSeed reads an activity seed map from a YAML file.
func LoadSeed(path string) (map[string]Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var seed map[string]Activity
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse roster file: %w", err)
	}
	return seed, nil
}

// Activities returns a copy of the full activity map.
func (s *Store) Activities() map[string]Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Activity, len(s.activities))
	for name, act := range s.activities {
		a := *act
		a.Participants = append([]string{}, act.Participants...)
		out[name] = a
	}
	return out
}

// Get returns a copy of one activity.
func (s *Store) Get(name string) (Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	act, ok := s.activities[name]
	if !ok {
		return Activity{}, fmt.Errorf("%w: activity %q", model.ErrNotFound, name)
	}
	out := *act
	out.Participants = append([]string{}, act.Participants...)
	return out, nil
}

// SignUp registers a student for an activity.
func (s *Store) SignUp(name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	act, ok := s.activities[name]
	if !ok {
		return fmt.Errorf("%w: activity %q", model.ErrNotFound, name)
	}
	for _, p := range act.Participants {
		if p == email {
			return fmt.Errorf("%w: %s is already signed up for %s", model.ErrAlreadySignedUp, email, name)
		}
	}
	act.Participants = append(act.Participants, email)
	return nil
}

// Unregister removes a student from an activity.
func (s *Store) Unregister(name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	act, ok := s.activities[name]
	if !ok {
		return fmt.Errorf("%w: activity %q", model.ErrNotFound, name)
	}
	for i, p := range act.Participants {
		if p == email {
			act.Participants = append(act.Participants[:i], act.Participants[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s is not signed up for %s", model.ErrNotSignedUp, email, name)
}

// ActivityExists reports whether an activity with the given name exists.
func (s *Store) ActivityExists(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.activities[name]
	return ok
}

// ParticipantsOf returns the participant emails of an activity. The result
// is empty for unknown activities.
func (s *Store) ParticipantsOf(name string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	act, ok := s.activities[name]
	if !ok {
		return nil
	}
	return append([]string{}, act.Participants...)
}

// ActivitiesFor returns the sorted names of the activities a student is
// signed up for.
func (s *Store) ActivitiesFor(email string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	for name, act := range s.activities {
		for _, p := range act.Participants {
			if p == email {
				names = append(names, name)
				break
			}
		}
	}
	sort.Strings(names)
	return names
}
