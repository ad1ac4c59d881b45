package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/edu_platform/internal/llm"
	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/repository/base"
)

type pair struct{ student, subject int64 }

type fakeGrants struct {
	grants  map[pair][]*model.AccessGrant
	byID    map[int64]*model.AccessGrant
	nextID  int64
	err     error
	lookups int
}

func newFakeGrants() *fakeGrants {
	return &fakeGrants{grants: map[pair][]*model.AccessGrant{}, byID: map[int64]*model.AccessGrant{}}
}

func (f *fakeGrants) add(g *model.AccessGrant) *model.AccessGrant {
	f.nextID++
	g.ID = f.nextID
	k := pair{g.StudentID, g.SubjectID}
	f.grants[k] = append(f.grants[k], g)
	f.byID[g.ID] = g
	return g
}

// GetGrant mirrors the repository ordering: enabled grants first, newest first
func (f *fakeGrants) GetGrant(_ context.Context, studentID, subjectID int64) (*model.AccessGrant, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	var best *model.AccessGrant
	for _, g := range f.grants[pair{studentID, subjectID}] {
		if best == nil || (g.HasAccess && !best.HasAccess) || (g.HasAccess == best.HasAccess && g.ID > best.ID) {
			best = g
		}
	}
	return best, nil
}

func (f *fakeGrants) ListGrants(_ context.Context, studentID, subjectID int64) ([]*model.AccessGrant, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	return append([]*model.AccessGrant(nil), f.grants[pair{studentID, subjectID}]...), nil
}

func (f *fakeGrants) Create(_ context.Context, g *model.AccessGrant) error {
	if f.err != nil {
		return f.err
	}
	f.add(g)
	return nil
}

func (f *fakeGrants) GetByID(_ context.Context, id int64) (*model.AccessGrant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

func (f *fakeGrants) Update(_ context.Context, id int64, patch *model.AccessGrantPatch) error {
	g, ok := f.byID[id]
	if !ok {
		return base.ErrNotFound
	}
	if patch.HasAccess.Set {
		g.HasAccess = patch.HasAccess.Value
	}
	if patch.StartDate.Set {
		g.StartDate = patch.StartDate.Value
	}
	if patch.EndDate.Set {
		g.EndDate = patch.EndDate.Value
	}
	return nil
}

type fakeSubjects struct {
	byID      map[int64]*model.Subject
	byStudent map[int64][]*model.Subject
	nextID    int64
	err       error
}

func newFakeSubjects(subjects ...*model.Subject) *fakeSubjects {
	f := &fakeSubjects{byID: map[int64]*model.Subject{}, byStudent: map[int64][]*model.Subject{}, nextID: 100}
	for _, s := range subjects {
		f.byID[s.ID] = s
	}
	return f
}

func (f *fakeSubjects) Create(_ context.Context, s *model.Subject) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	s.ID = f.nextID
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSubjects) GetByID(_ context.Context, id int64) (*model.Subject, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

func (f *fakeSubjects) List(_ context.Context) ([]*model.Subject, error) {
	out := make([]*model.Subject, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, f.err
}

func (f *fakeSubjects) GetByStudent(_ context.Context, studentID int64) ([]*model.Subject, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byStudent[studentID], nil
}

func (f *fakeSubjects) Update(_ context.Context, id int64, patch *model.SubjectPatch) error {
	s, ok := f.byID[id]
	if !ok {
		return base.ErrNotFound
	}
	if patch.Name.Set {
		s.Name = patch.Name.Value
	}
	if patch.Description.Set {
		s.Description = patch.Description.Value
	}
	if patch.NumberOfDays.Set {
		s.NumberOfDays = patch.NumberOfDays.Value
	}
	return nil
}

func (f *fakeSubjects) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return base.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeLessons struct {
	byID   map[int64]*model.Lesson
	nextID int64
	err    error
}

func newFakeLessons(lessons ...*model.Lesson) *fakeLessons {
	f := &fakeLessons{byID: map[int64]*model.Lesson{}, nextID: 1000}
	for _, l := range lessons {
		f.byID[l.ID] = l
	}
	return f
}

func (f *fakeLessons) Create(_ context.Context, l *model.Lesson) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	l.ID = f.nextID
	f.byID[l.ID] = l
	return nil
}

func (f *fakeLessons) GetByID(_ context.Context, id int64) (*model.Lesson, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

// GetBySubject orders like the repository: day, order, id
func (f *fakeLessons) GetBySubject(_ context.Context, subjectID int64) ([]*model.Lesson, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.Lesson
	for _, l := range f.byID {
		if l.SubjectID == subjectID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.DayNumber != b.DayNumber {
			return a.DayNumber < b.DayNumber
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (f *fakeLessons) Update(_ context.Context, id int64, patch *model.LessonPatch) error {
	l, ok := f.byID[id]
	if !ok {
		return base.ErrNotFound
	}
	if patch.Title.Set {
		l.Title = patch.Title.Value
	}
	if patch.Content.Set {
		l.Content = patch.Content.Value
	}
	if patch.DayNumber.Set {
		l.DayNumber = patch.DayNumber.Value
	}
	if patch.Order.Set {
		l.Order = patch.Order.Value
	}
	return nil
}

func (f *fakeLessons) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return base.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// memHistory is an append-only history with request id dedupe
type memHistory struct {
	mu        sync.Mutex
	turns     []*model.ChatTurn
	nextID    int64
	appendErr error
	listErr   error
}

func (h *memHistory) Append(_ context.Context, turn *model.ChatTurn) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.appendErr != nil {
		return h.appendErr
	}
	for _, t := range h.turns {
		if t.RequestID == turn.RequestID {
			turn.ID, turn.CreatedAt = t.ID, t.CreatedAt
			return nil
		}
	}
	h.nextID++
	stored := *turn
	stored.ID = h.nextID
	stored.CreatedAt = time.Date(2026, 1, 1, 0, 0, int(h.nextID), 0, time.UTC)
	h.turns = append(h.turns, &stored)
	turn.ID, turn.CreatedAt = stored.ID, stored.CreatedAt
	return nil
}

func (h *memHistory) List(_ context.Context, studentID, subjectID int64) ([]*model.ChatTurn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.listErr != nil {
		return nil, h.listErr
	}
	out := []*model.ChatTurn{}
	for _, t := range h.turns {
		if t.StudentID == studentID && t.SubjectID == subjectID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (h *memHistory) ListRecent(ctx context.Context, studentID, subjectID int64, limit int) ([]*model.ChatTurn, error) {
	all, err := h.List(ctx, studentID, subjectID)
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

type fakeCompleter struct {
	answer string
	err    error
	block  bool
	calls  int
	seen   []*llm.Conversation
}

func (f *fakeCompleter) Complete(ctx context.Context, conv *llm.Conversation) (string, error) {
	f.calls++
	f.seen = append(f.seen, conv)
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}
