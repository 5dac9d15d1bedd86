package service

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Eursukkul/regdesk/internal/models"
	"github.com/Eursukkul/regdesk/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// --- In-memory store backing the repository fakes ---

type fakeStore struct {
	mu       sync.Mutex
	events   map[string]*models.Event
	regs     []*models.Registration
	fields   map[string][]models.CustomFormField
	profiles map[string]*models.Profile
	activity []models.ActivityLog

	createRegErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:   map[string]*models.Event{},
		fields:   map[string][]models.CustomFormField{},
		profiles: map[string]*models.Profile{},
	}
}

func (s *fakeStore) addEvent(e *models.Event) *models.Event {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.ID] = e
	return e
}

func (s *fakeStore) event(id string) *models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := *s.events[id]
	return &ev
}

func (s *fakeStore) registrations() []models.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Registration, 0, len(s.regs))
	for _, r := range s.regs {
		out = append(out, *r)
	}
	return out
}

// backdate shifts every registration's created_at by d into the past.
func (s *fakeStore) backdate(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.regs {
		r.CreatedAt = r.CreatedAt.Add(-d)
	}
}

func (s *fakeStore) eventRepo() repository.EventRepository       { return &fakeEvents{s} }
func (s *fakeStore) regRepo() repository.RegistrationRepository  { return &fakeRegs{s} }
func (s *fakeStore) fieldRepo() repository.CustomFieldRepository { return &fakeFields{s} }
func (s *fakeStore) profileRepo() repository.ProfileRepository   { return &fakeProfiles{s} }
func (s *fakeStore) activityRepo() repository.ActivityRepository { return &fakeActivity{s} }

// --- EventRepository ---

type fakeEvents struct{ s *fakeStore }

func (f *fakeEvents) Create(_ context.Context, e *models.Event) error {
	f.s.addEvent(e)
	return nil
}

func (f *fakeEvents) Update(_ context.Context, e *models.Event) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.events[e.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *e
	f.s.events[e.ID] = &cp
	return nil
}

func (f *fakeEvents) FindByID(_ context.Context, id string) (*models.Event, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	e, ok := f.s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEvents) FindBySlug(_ context.Context, slug string) (*models.Event, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, e := range f.s.events {
		if e.Slug != nil && *e.Slug == slug {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeEvents) ListByOrganizer(_ context.Context, organizerID string) ([]models.Event, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []models.Event
	for _, e := range f.s.events {
		if e.OrganizerID == organizerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEvents) ListAll(_ context.Context) ([]models.Event, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []models.Event
	for _, e := range f.s.events {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeEvents) UpdateStatus(_ context.Context, id string, status models.EventStatus) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	e, ok := f.s.events[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.Status = status
	return nil
}

func (f *fakeEvents) Delete(_ context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.s.events, id)
	delete(f.s.fields, id)
	f.s.regs = slices.DeleteFunc(f.s.regs, func(r *models.Registration) bool { return r.EventID == id })
	return nil
}

// --- RegistrationRepository ---

type fakeRegs struct{ s *fakeStore }

func (f *fakeRegs) Create(_ context.Context, reg *models.Registration) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.createRegErr != nil {
		return f.s.createRegErr
	}
	for _, r := range f.s.regs {
		if r.RegistrationNumber == reg.RegistrationNumber {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	cp := *reg
	f.s.regs = append(f.s.regs, &cp)
	return nil
}

func (f *fakeRegs) find(pred func(r *models.Registration) bool) []models.Registration {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []models.Registration
	for _, r := range f.s.regs {
		if pred(r) {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (f *fakeRegs) first(pred func(r *models.Registration) bool) (*models.Registration, error) {
	found := f.find(pred)
	if len(found) == 0 {
		return nil, repository.ErrNotFound
	}
	return &found[0], nil
}

func (f *fakeRegs) FindByID(_ context.Context, id string) (*models.Registration, error) {
	return f.first(func(r *models.Registration) bool { return r.ID == id })
}

func (f *fakeRegs) FindByNumber(_ context.Context, number string) (*models.Registration, error) {
	return f.first(func(r *models.Registration) bool { return r.RegistrationNumber == number })
}

func (f *fakeRegs) FindFirstByTransactionID(_ context.Context, trxID string) (*models.Registration, error) {
	return f.first(func(r *models.Registration) bool { return deref(r.TransactionID) == trxID })
}

func (f *fakeRegs) FindByTransactionID(_ context.Context, trxID string) ([]models.Registration, error) {
	return f.find(func(r *models.Registration) bool { return deref(r.TransactionID) == trxID }), nil
}

func (f *fakeRegs) FindByContact(_ context.Context, field repository.ContactField, value string) ([]models.Registration, error) {
	return f.find(func(r *models.Registration) bool {
		if field == repository.ContactPhone {
			return deref(r.Phone) == value
		}
		return deref(r.Email) == value
	}), nil
}

func (f *fakeRegs) ExistsByTransactionID(_ context.Context, trxID string) (bool, error) {
	return len(f.find(func(r *models.Registration) bool { return deref(r.TransactionID) == trxID })) > 0, nil
}

func (f *fakeRegs) CountOccupied(_ context.Context, eventID string) (int64, error) {
	return int64(len(f.find(func(r *models.Registration) bool {
		return r.EventID == eventID && slices.Contains(models.OccupyingStatuses, r.Status)
	}))), nil
}

func (f *fakeRegs) CountByIPSince(_ context.Context, ip string, since time.Time) (int64, error) {
	return int64(len(f.find(func(r *models.Registration) bool {
		return deref(r.IPAddress) == ip && !r.CreatedAt.Before(since)
	}))), nil
}

func (f *fakeRegs) ListPublic(_ context.Context, eventID string) ([]models.Registration, error) {
	return f.find(func(r *models.Registration) bool {
		return r.EventID == eventID && slices.Contains(models.OccupyingStatuses, r.Status)
	}), nil
}

func (f *fakeRegs) ListByEvent(_ context.Context, eventID string, filter repository.RegistrationFilter) ([]models.Registration, error) {
	q := strings.ToLower(strings.TrimSpace(filter.Search))
	return f.find(func(r *models.Registration) bool {
		if r.EventID != eventID {
			return false
		}
		if filter.Status != nil && r.Status != *filter.Status {
			return false
		}
		if q == "" {
			return true
		}
		for _, v := range []string{r.Name, deref(r.Email), deref(r.Phone), r.RegistrationNumber, deref(r.TransactionID)} {
			if strings.Contains(strings.ToLower(v), q) {
				return true
			}
		}
		return false
	}), nil
}

func (f *fakeRegs) CountByStatus(_ context.Context, eventID string) (repository.StatusCounts, error) {
	var c repository.StatusCounts
	for _, r := range f.find(func(r *models.Registration) bool { return r.EventID == eventID }) {
		c.Total++
		switch r.Status {
		case models.RegistrationPending:
			c.Pending++
		case models.RegistrationApproved:
			c.Approved++
		case models.RegistrationRejected:
			c.Rejected++
		}
	}
	return c, nil
}

func (f *fakeRegs) DuplicateTransactionIDs(_ context.Context, eventID string) ([]string, error) {
	regs := f.find(func(r *models.Registration) bool {
		return r.EventID == eventID && strings.TrimSpace(deref(r.TransactionID)) != ""
	})
	seen := map[string]int{}
	for _, r := range regs {
		seen[strings.ToLower(strings.TrimSpace(*r.TransactionID))]++
	}
	var ids []string
	for _, r := range regs {
		if seen[strings.ToLower(strings.TrimSpace(*r.TransactionID))] > 1 {
			ids = append(ids, r.ID)
		}
	}
	return ids, nil
}

func (f *fakeRegs) UpdateStatus(_ context.Context, eventID string, ids []string, status models.RegistrationStatus, reason *string) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for _, r := range f.s.regs {
		if r.EventID == eventID && slices.Contains(ids, r.ID) {
			r.Status = status
			r.RejectionReason = nil
			if status == models.RegistrationRejected && reason != nil {
				v := *reason
				r.RejectionReason = &v
			}
			n++
		}
	}
	return n, nil
}

func (f *fakeRegs) UpdateTag(_ context.Context, eventID, id string, tag *string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, r := range f.s.regs {
		if r.EventID == eventID && r.ID == id {
			r.Tag = tag
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- CustomFieldRepository ---

type fakeFields struct{ s *fakeStore }

func (f *fakeFields) ListByEvent(_ context.Context, eventID string) ([]models.CustomFormField, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return slices.Clone(f.s.fields[eventID]), nil
}

func (f *fakeFields) ReplaceForEvent(_ context.Context, eventID string, fields []models.CustomFormField) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.fields[eventID] = slices.Clone(fields)
	return nil
}

// --- ProfileRepository ---

type fakeProfiles struct{ s *fakeStore }

func (f *fakeProfiles) FindByID(_ context.Context, id string) (*models.Profile, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// --- ActivityRepository ---

type fakeActivity struct{ s *fakeStore }

func (f *fakeActivity) Create(_ context.Context, entry *models.ActivityLog) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.activity = append(f.s.activity, *entry)
	return nil
}

func (f *fakeActivity) ListByEvent(_ context.Context, eventID string, limit int) ([]models.ActivityLog, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []models.ActivityLog
	for _, a := range f.s.activity {
		if a.EventID == eventID {
			out = append(out, a)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- Publisher ---

type fakePublisher struct {
	mu     sync.Mutex
	topics []string
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, routingKey string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, routingKey)
	return p.err
}

func (p *fakePublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.topics)
}

// --- Clock ---

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

var nopLog = zerolog.Nop()

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
