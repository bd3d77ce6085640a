package users

import (
	"context"
	"math"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// RequestStatus describes the fetch state of a ListClient.
type RequestStatus int

const (
	StatusIdle RequestStatus = iota
	StatusInFlight
	StatusSucceeded
	StatusFailed
)

func (s RequestStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusInFlight:
		return "in-flight"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StatusInfo is a point-in-time view of the client's request state.
type StatusInfo struct {
	Status RequestStatus
	// Pending counts fetches that have been issued but not completed.
	Pending int
	// LastErr is the error of the most recently completed fetch, if it failed.
	LastErr error
}

// ListClient holds the current user collection. Fetches replace the
// collection wholesale; Add, Edit, and Delete mutate it locally and are
// never sent to the server.
//
// All methods are safe for concurrent use. When fetches overlap, the one
// that completes last determines the collection.
type ListClient struct {
	source Source
	logger *zap.Logger
	events *Broadcaster

	mu      sync.Mutex
	users   []User
	status  RequestStatus
	pending int
	lastErr error
}

// ListOption configures a ListClient.
type ListOption func(*ListClient)

// WithLogger sets the logger used to report fetch failures.
func WithLogger(l *zap.Logger) ListOption {
	return func(c *ListClient) {
		c.logger = l
	}
}

// WithBroadcaster shares an existing Broadcaster instead of creating one.
func WithBroadcaster(b *Broadcaster) ListOption {
	return func(c *ListClient) {
		c.events = b
	}
}

// NewListClient returns an empty ListClient backed by source.
func NewListClient(source Source, opts ...ListOption) *ListClient {
	c := &ListClient{
		source: source,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.events == nil {
		c.events = NewBroadcaster()
	}
	return c
}

// Users returns a copy of the current collection.
func (c *ListClient) Users() []User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.users)
}

// Status returns the current request status.
func (c *ListClient) Status() StatusInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

// Subscribe registers for change events. Call the returned func to stop.
func (c *ListClient) Subscribe() (<-chan Event, func()) {
	return c.events.Subscribe()
}

// Close closes every subscription.
func (c *ListClient) Close() {
	c.events.Close()
}

// FetchAll replaces the collection with every user the source lists. On
// failure the collection is left untouched and the error is returned.
func (c *ListClient) FetchAll(ctx context.Context) error {
	return c.fetch(ctx, "", func(ctx context.Context) ([]User, error) {
		return c.source.FetchAll(ctx)
	})
}

// Search replaces the collection with the users matching query. On failure
// the collection is left untouched and the error is returned.
func (c *ListClient) Search(ctx context.Context, query string) error {
	return c.fetch(ctx, query, func(ctx context.Context) ([]User, error) {
		return c.source.Search(ctx, query)
	})
}

func (c *ListClient) fetch(ctx context.Context, query string, do func(context.Context) ([]User, error)) error {
	c.mu.Lock()
	c.pending++
	c.status = StatusInFlight
	c.events.Emit(Event{Kind: EventStatus, Status: StatusInFlight, Query: query})
	c.mu.Unlock()

	fetched, err := do(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending--

	if err != nil {
		c.status = StatusFailed
		c.lastErr = err
		c.logger.Warn("user fetch failed",
			zap.String("query", query),
			zap.Error(err))
		c.events.Emit(Event{Kind: EventFetchFailed, Query: query, Status: c.statusLocked().Status, Err: err})
		return err
	}

	c.users = slices.Clone(fetched)
	c.status = StatusSucceeded
	c.lastErr = nil
	c.logger.Debug("user collection replaced",
		zap.String("query", query),
		zap.Int("count", len(fetched)))
	c.events.Emit(Event{Kind: EventReplaced, Query: query, Users: slices.Clone(fetched), Status: c.statusLocked().Status})
	return nil
}

// Add appends u to the collection. Ids are not checked for duplicates.
func (c *ListClient) Add(u User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.users = append(c.users, u)
	c.emitMutation(EventAdded, u)
}

// Edit replaces the first record whose id equals u.ID, keeping its
// position. It reports whether a record was replaced.
func (c *ListClient) Edit(u User) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(u.ID)
	if i < 0 {
		return false
	}
	c.users[i] = u
	c.emitMutation(EventEdited, u)
	return true
}

// Delete removes the first record whose id equals u.ID. It reports whether
// a record was removed.
func (c *ListClient) Delete(u User) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(u.ID)
	if i < 0 {
		return false
	}
	removed := c.users[i]
	c.users = slices.Delete(c.users, i, i+1)
	c.emitMutation(EventDeleted, removed)
	return true
}

// Save applies a draft: a NewUser is appended with the next free id, an
// ExistingUser edits the record with its id. The returned bool is false
// only when an ExistingUser matched nothing.
func (c *ListClient) Save(d Draft) (User, bool) {
	switch d := d.(type) {
	case NewUser:
		c.mu.Lock()
		u := d.withID(c.nextIDLocked())
		c.users = append(c.users, u)
		c.emitMutation(EventAdded, u)
		c.mu.Unlock()
		return u, true
	case ExistingUser:
		u := d.withID(d.ID)
		return u, c.Edit(u)
	default:
		return User{}, false
	}
}

func (c *ListClient) indexLocked(id int) int {
	return slices.IndexFunc(c.users, func(u User) bool { return u.ID == id })
}

// nextIDLocked returns max(id)+1, or 1 for an empty collection. When the
// largest id is math.MaxInt it falls back to the lowest unused positive id.
func (c *ListClient) nextIDLocked() int {
	highest := 0
	for _, u := range c.users {
		if u.ID > highest {
			highest = u.ID
		}
	}
	if highest < math.MaxInt {
		return highest + 1
	}

	used := make(map[int]struct{}, len(c.users))
	for _, u := range c.users {
		used[u.ID] = struct{}{}
	}
	for id := 1; ; id++ {
		if _, ok := used[id]; !ok {
			return id
		}
	}
}

func (c *ListClient) statusLocked() StatusInfo {
	st := c.status
	if c.pending > 0 {
		st = StatusInFlight
	}
	return StatusInfo{Status: st, Pending: c.pending, LastErr: c.lastErr}
}

func (c *ListClient) emitMutation(kind EventKind, u User) {
	c.events.Emit(Event{
		Kind:   kind,
		User:   &u,
		Users:  slices.Clone(c.users),
		Status: c.statusLocked().Status,
	})
}
