package calendar

import (
	"sort"
	"time"

	"github.com/rdleal/intervalst/interval"

	"github.com/mergington/activities-api/pkg/core/model"
)

// reindex rebuilds the conflict index from the template map. Must be called
// with s.mu held. The store is small enough that a full rebuild on every
// mutation is cheaper than tracking which intervals moved.
func (s *Store) reindex() {
	idx := interval.NewMultiValueSearchTree[int](func(x, y time.Time) int {
		return x.Compare(y)
	})
	for id, tmpl := range s.templates {
		// End is always after Start per the store invariants, so Insert
		// cannot fail on an inverted interval.
		_ = idx.Insert(tmpl.Start, tmpl.End, id)
	}
	s.conflictIdx = idx
}

// FindConflicts reports templates whose nominal start/end overlaps the
// candidate range. Overlap is half-open: touching endpoints do not count.
// When room is non-empty only same-room overlaps are reported; otherwise
// any time overlap is a conflict regardless of room. Templates cancelled at
// the template level are skipped, as is excludeID (pass 0 to exclude none).
//
// Recurring templates are checked on their nominal range only, never on
// expanded occurrences, so a later occurrence overlapping another event is
// not detected unless the first one does.
func (s *Store) FindConflicts(start, end time.Time, room string, excludeID int) []model.Conflict {
	s.mu.Lock()
	defer s.mu.Unlock()

	conflicts := []model.Conflict{}
	ids, ok := s.conflictIdx.AllIntersections(start, end)
	if !ok {
		return conflicts
	}
	sort.Ints(ids)

	for _, id := range ids {
		tmpl, ok := s.templates[id]
		if !ok || id == excludeID || tmpl.IsCancelled {
			continue
		}
		// The index treats intervals as closed, so touching endpoints come
		// back as intersections; re-check with the strict half-open test.
		if !start.Before(tmpl.End) || !end.After(tmpl.Start) {
			continue
		}
		if room != "" && tmpl.Room != room {
			continue
		}
		conflicts = append(conflicts, model.Conflict{
			EventID: tmpl.ID,
			Title:   tmpl.Title,
			Room:    tmpl.Room,
			Start:   tmpl.Start,
			End:     tmpl.End,
		})
	}
	return conflicts
}
