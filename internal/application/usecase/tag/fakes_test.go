package tag

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/weihsuanlee/guidemap/adapters/event"
	"github.com/weihsuanlee/guidemap/internal/domain/activity"
	"github.com/weihsuanlee/guidemap/internal/domain/tag"
	"github.com/weihsuanlee/guidemap/pkg/apperror"
)

// memStore is an in-memory stand-in for the Postgres repositories. It keeps
// the same invariants the real store enforces: statuses are append-only,
// "latest" is the most recently appended entry per tag, and ApplyVote
// mutates the counter and the voter set together.
type memStore struct {
	mu       sync.Mutex
	tags     map[uuid.UUID]*tag.Tag
	statuses []*tag.Status
	voters   map[uuid.UUID]map[string]bool

	createErr error
	appendErr error
}

func newMemStore() *memStore {
	return &memStore{
		tags:   make(map[uuid.UUID]*tag.Tag),
		voters: make(map[uuid.UUID]map[string]bool),
	}
}

func (m *memStore) Create(ctx context.Context, t *tag.Tag, initial *tag.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	copied := *t
	m.tags[t.ID] = &copied
	statusCopy := *initial
	m.statuses = append(m.statuses, &statusCopy)
	return nil
}

func (m *memStore) Update(ctx context.Context, t *tag.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tags[t.ID]; !ok {
		return apperror.NewNotFound("tag", t.ID.String())
	}
	copied := *t
	m.tags[t.ID] = &copied
	return nil
}

func (m *memStore) Delete(ctx context.Context, id uuid.UUID, requesterID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.tags[id]
	if !ok {
		return apperror.NewNotFound("tag", id.String())
	}
	if existing.CreatorID != requesterID {
		return apperror.NewPermissionDenied("only the creator may delete")
	}
	delete(m.tags, id)
	return nil
}

func (m *memStore) FindByID(ctx context.Context, id uuid.UUID) (*tag.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tags[id]
	if !ok {
		return nil, apperror.NewNotFound("tag", id.String())
	}
	copied := *t
	return &copied, nil
}

func (m *memStore) List(ctx context.Context, filter tag.ListFilter) ([]*tag.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*tag.Tag, 0)
	for _, t := range m.tags {
		if filter.CreatorID != "" && t.CreatorID != filter.CreatorID {
			continue
		}
		if filter.Category != nil && t.Category != *filter.Category {
			continue
		}
		copied := *t
		result = append(result, &copied)
	}
	return result, nil
}

func (m *memStore) Append(ctx context.Context, s *tag.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	if _, ok := m.tags[s.TagID]; !ok {
		return apperror.NewNotFound("tag", s.TagID.String())
	}
	copied := *s
	m.statuses = append(m.statuses, &copied)
	return nil
}

func (m *memStore) latestLocked(tagID uuid.UUID) *tag.Status {
	for i := len(m.statuses) - 1; i >= 0; i-- {
		if m.statuses[i].TagID == tagID {
			return m.statuses[i]
		}
	}
	return nil
}

func (m *memStore) Latest(ctx context.Context, tagID uuid.UUID) (*tag.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.latestLocked(tagID)
	if s == nil {
		return nil, apperror.NewNotFound("status", tagID.String())
	}
	copied := *s
	return &copied, nil
}

func (m *memStore) History(ctx context.Context, tagID uuid.UUID) ([]*tag.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*tag.Status, 0)
	for i := len(m.statuses) - 1; i >= 0; i-- {
		if m.statuses[i].TagID == tagID {
			copied := *m.statuses[i]
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *memStore) ApplyVote(ctx context.Context, tagID uuid.UUID, voterID string, action tag.VoteAction) (*tag.VoteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.latestLocked(tagID)
	if s == nil {
		return nil, apperror.NewNotFound("status", tagID.String())
	}
	if s.UpvoteCount == nil {
		return nil, apperror.NewVotingNotSupported(tagID.String())
	}

	voters := m.voters[s.ID]
	if voters == nil {
		voters = make(map[string]bool)
		m.voters[s.ID] = voters
	}

	delta, err := tag.ResolveVote(voters[voterID], action)
	if err != nil {
		switch err {
		case tag.ErrAlreadyVoted:
			return nil, apperror.NewAlreadyVoted(s.ID.String())
		case tag.ErrNotVotedYet:
			return nil, apperror.NewNotVotedYet(s.ID.String())
		default:
			return nil, apperror.NewInvalidInput("vote could not be resolved", err)
		}
	}

	*s.UpvoteCount += delta
	if delta > 0 {
		voters[voterID] = true
	} else {
		delete(voters, voterID)
	}

	return &tag.VoteResult{
		TagID:       tagID,
		StatusID:    s.ID,
		UpvoteCount: *s.UpvoteCount,
		HasUpvoted:  delta > 0,
	}, nil
}

func (m *memStore) HasVoted(ctx context.Context, statusID uuid.UUID, voterID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.voters[statusID][voterID], nil
}

func (m *memStore) voterCount(statusID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voters[statusID])
}

type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []*activity.Entry
	err     error
}

func (f *fakeActivityRepo) Record(ctx context.Context, e *activity.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeActivityRepo) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	actions := make([]string, len(f.entries))
	for i, e := range f.entries {
		actions[i] = e.Action
	}
	return actions
}

type fakeStatusCache struct {
	mu            sync.Mutex
	entries       map[uuid.UUID]*tag.Status
	invalidations int
	getErr        error
}

func newFakeStatusCache() *fakeStatusCache {
	return &fakeStatusCache{entries: make(map[uuid.UUID]*tag.Status)}
}

func (f *fakeStatusCache) GetLatest(ctx context.Context, tagID uuid.UUID) (*tag.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entries[tagID], nil
}

func (f *fakeStatusCache) SetLatest(ctx context.Context, s *tag.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[s.TagID] = s
	return nil
}

func (f *fakeStatusCache) Invalidate(ctx context.Context, tagID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, tagID)
	f.invalidations++
	return nil
}

type fakeAllocator struct {
	err error
}

func (f *fakeAllocator) AllocateUploadURLs(ctx context.Context, tagID string, count int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	urls := make([]string, count)
	for i := range urls {
		urls[i] = "https://upload.example.com/" + tagID
	}
	return urls, nil
}

// testKafkaClient points at a dead address: publishes fail and are logged,
// which is exactly the best-effort path under test.
func testKafkaClient() *event.KafkaProducerClient {
	return &event.KafkaProducerClient{
		TagEventsWriter: &kafka.Writer{
			Addr:         kafka.TCP("127.0.0.1:1"),
			Topic:        event.TopicTagEvents,
			MaxAttempts:  1,
			RequiredAcks: kafka.RequireNone,
		},
	}
}
