package client

import (
	"context"
	"sync"
	"sync/atomic"
)

// CourseLister serialises catalogue searches so that only the most
// recently issued search can commit its result.
//
// Search-as-you-type fires a fetch per keystroke, and responses complete
// in no particular order: without a guard, a slow response for "al" can
// land after the response for "algebra" and overwrite it. Each Search
// call takes a generation number; a response commits to Latest() only if
// no newer Search started while it was in flight and nothing newer has
// already committed.
type CourseLister struct {
	client *Client
	gen    atomic.Uint64

	mu        sync.Mutex
	committed uint64 // generation of the search that owns latest
	latest    []Course
}

func NewCourseLister(client *Client) *CourseLister {
	return &CourseLister{client: client}
}

// Search fetches the catalogue with the given query. The returned bool
// reports whether the result was committed: false means a newer Search
// superseded this one and Latest() was left alone. The fetched slice is
// returned either way.
func (l *CourseLister) Search(ctx context.Context, q CourseQuery) ([]Course, bool, error) {
	gen := l.gen.Add(1)

	courses, err := l.client.Courses(ctx, q)
	if err != nil {
		return nil, false, err
	}

	return courses, l.commit(gen, courses), nil
}

// commit installs courses as the latest view and reports whether it took
// effect. Both staleness checks happen under the mutex: checking the
// generation first and locking after would leave a window where an older
// response slips past the check, loses the CPU, and then overwrites a
// newer result that committed in between.
func (l *CourseLister) commit(gen uint64, courses []Course) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen <= l.committed || l.gen.Load() != gen {
		return false // stale: a newer search owns the view
	}
	l.latest = courses
	l.committed = gen
	return true
}

// Latest returns the most recently committed search result.
func (l *CourseLister) Latest() []Course {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.latest
}
