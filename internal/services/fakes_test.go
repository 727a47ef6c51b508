package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/storage"
	"github.com/google/uuid"
)

type memUsers struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.User
}

func newMemUsers() *memUsers { return &memUsers{rows: map[uuid.UUID]models.User{}} }

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) find(match func(models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Email == email })
}

func (m *memUsers) FindByIdentifier(_ context.Context, id string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Username == id || u.Email == strings.ToLower(id) })
}

func (m *memUsers) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	_, err := m.find(func(u models.User) bool { return u.Username == username || u.Email == email })
	return err == nil, nil
}

func (m *memUsers) Update(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.LastLogin = &at
	m.rows[id] = u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memUsers) List(_ context.Context, f repository.UserFilter) ([]models.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.rows {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (m *memUsers) Stats(context.Context) (*repository.UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &repository.UserStats{Total: int64(len(m.rows))}, nil
}

type memProducts struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.Product
}

func newMemProducts(ps ...models.Product) *memProducts {
	m := &memProducts{rows: map[uuid.UUID]models.Product{}}
	for _, p := range ps {
		m.rows[p.ID] = p
	}
	return m
}

func (m *memProducts) Create(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[p.ID] = *p
	return nil
}

func (m *memProducts) CreateMany(_ context.Context, ps []models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range ps {
		m.rows[p.ID] = p
	}
	return nil
}

func (m *memProducts) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memProducts) List(context.Context, repository.ProductFilter) ([]models.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, p := range m.rows {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (m *memProducts) Mutate(_ context.Context, id uuid.UUID, fn func(p *models.Product) error) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Image = append([]string(nil), p.Image...)
	if err := fn(&p); err != nil {
		return nil, err
	}
	m.rows[id] = p
	return &p, nil
}

func (m *memProducts) Delete(_ context.Context, id uuid.UUID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(m.rows, id)
	return &p, nil
}

func (m *memProducts) IncrementViews(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.rows[id]
	p.Views++
	m.rows[id] = p
	return nil
}

func (m *memProducts) stock(id uuid.UUID) (int, int, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.rows[id]
	return p.Stock, p.Sales, p.Status
}

// memOrders shares the product store so reservations behave like the
// transactional repository: all adjustments apply or none do.
type memOrders struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]models.Order
	products *memProducts
}

func newMemOrders(products *memProducts) *memOrders {
	return &memOrders{rows: map[uuid.UUID]models.Order{}, products: products}
}

func (m *memOrders) Place(_ context.Context, o *models.Order, reserve []models.StockAdjustment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products.mu.Lock()
	defer m.products.mu.Unlock()

	staged := map[uuid.UUID]models.Product{}
	for _, adj := range reserve {
		p, ok := m.products.rows[adj.ProductID]
		if !ok {
			return fmt.Errorf("product %s: %w", adj.ProductID, repository.ErrNotFound)
		}
		available := p.Stock
		if err := p.Reserve(adj.Units); err != nil {
			if !errors.Is(err, models.ErrStockExhausted) {
				return err
			}
			return &repository.StockShortageError{ProductID: p.ID, Name: p.Name, Available: available, Requested: adj.Units}
		}
		staged[p.ID] = p
	}
	for id, p := range staged {
		m.products.rows[id] = p
	}
	m.rows[o.ID] = *o
	return nil
}

func (m *memOrders) GetByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (m *memOrders) List(_ context.Context, f repository.OrderFilter) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.rows {
		if f.UserID != nil && !o.OwnedBy(*f.UserID) {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (m *memOrders) release(adjs []models.StockAdjustment) {
	m.products.mu.Lock()
	defer m.products.mu.Unlock()
	for _, adj := range adjs {
		p, ok := m.products.rows[adj.ProductID]
		if !ok {
			continue
		}
		if err := p.Release(adj.Units); err != nil {
			continue
		}
		m.products.rows[adj.ProductID] = p
	}
}

func (m *memOrders) Transition(_ context.Context, o *models.Order, from string, release []models.StockAdjustment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[o.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if cur.Status != from {
		return repository.ErrStale
	}
	m.release(release)
	m.rows[o.ID] = *o
	return nil
}

func (m *memOrders) Update(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[o.ID] = *o
	return nil
}

func (m *memOrders) Delete(_ context.Context, id uuid.UUID, from string, release []models.StockAdjustment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if cur.Status != from {
		return repository.ErrStale
	}
	m.release(release)
	delete(m.rows, id)
	return nil
}

func (m *memOrders) Stats(context.Context, repository.OrderFilter) (*repository.OrderStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &repository.OrderStats{TotalOrders: int64(len(m.rows))}, nil
}

type memContacts struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.Contact
}

func newMemContacts() *memContacts { return &memContacts{rows: map[uuid.UUID]models.Contact{}} }

func (m *memContacts) Create(_ context.Context, c *models.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[c.ID] = *c
	return nil
}

func (m *memContacts) GetByID(_ context.Context, id uuid.UUID) (*models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (m *memContacts) List(context.Context, repository.ContactFilter) ([]models.Contact, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Contact
	for _, c := range m.rows {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (m *memContacts) Update(_ context.Context, c *models.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[c.ID] = *c
	return nil
}

func (m *memContacts) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memContacts) Stats(context.Context) (*repository.ContactStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &repository.ContactStats{Total: int64(len(m.rows))}, nil
}

type memSliders struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.Slider
}

func newMemSliders() *memSliders { return &memSliders{rows: map[uuid.UUID]models.Slider{}} }

func (m *memSliders) Create(_ context.Context, s *models.Slider) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.ID] = *s
	return nil
}

func (m *memSliders) GetByID(_ context.Context, id uuid.UUID) (*models.Slider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (m *memSliders) List(context.Context) ([]models.Slider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Slider
	for _, s := range m.rows {
		out = append(out, s)
	}
	return out, nil
}

func (m *memSliders) Update(_ context.Context, s *models.Slider) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.ID] = *s
	return nil
}

func (m *memSliders) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// memStore keeps uploaded bytes keyed by a fake locator.
type memStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
	failOn  string
	n       int
}

func newMemStore() *memStore { return &memStore{files: map[string][]byte{}} }

func (s *memStore) Save(_ context.Context, folder string, u storage.Upload) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.Filename == s.failOn {
		return "", fmt.Errorf("disk full")
	}
	body, err := io.ReadAll(u.Body)
	if err != nil {
		return "", err
	}
	if len(body) == 0 {
		return "", storage.ErrEmptyUpload
	}
	s.n++
	loc := fmt.Sprintf("/%s/%d-%s", folder, s.n, u.Filename)
	s.files[loc] = body
	return loc, nil
}

func (s *memStore) Delete(_ context.Context, loc string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, loc)
	s.deleted = append(s.deleted, loc)
	return nil
}

func (s *memStore) has(loc string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[loc]
	return ok
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

func pngUpload(name string) storage.Upload {
	return storage.Upload{Filename: name, ContentType: "image/png", Body: bytes.NewReader([]byte("\x89PNG fake"))}
}

// captureQueue records notifications instead of sending them.
type captureQueue struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (q *captureQueue) Enqueue(n notify.Notification) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent = append(q.sent, n)
	return true
}

func (q *captureQueue) last() notify.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.sent) == 0 {
		return notify.Notification{}
	}
	return q.sent[len(q.sent)-1]
}

func (q *captureQueue) kinds() []notify.Kind {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]notify.Kind, len(q.sent))
	for i, n := range q.sent {
		out[i] = n.Kind
	}
	return out
}

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }
