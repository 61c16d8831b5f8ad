package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"tarsier/internal/entities"
	"tarsier/internal/repositories"
	apperrors "tarsier/pkg/errors"
	"tarsier/pkg/eventbus"
	"tarsier/pkg/types"
	"tarsier/pkg/utils"
)

func ctxWithUser(id uint64) context.Context {
	return utils.WithUserID(context.Background(), id)
}

type fakeTxManager struct {
	mu    sync.Mutex
	calls int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return fn(nil)
}

// fakeBookingStore намеренно не атомарен между поиском и вставкой.
type fakeBookingStore struct {
	mu        sync.Mutex
	bookings  []entities.Booking
	nextID    uint64
	findDelay time.Duration
	findErr   error
	createErr error
}

func (s *fakeBookingStore) LockEquipment(ctx context.Context, tx pgx.Tx, equipmentID uint64) error {
	return nil
}

func (s *fakeBookingStore) FindOverlapping(ctx context.Context, tx pgx.Tx, equipmentID uint64, r entities.TimeRange) ([]entities.Booking, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	s.mu.Lock()
	snapshot := append([]entities.Booking(nil), s.bookings...)
	s.mu.Unlock()

	if s.findDelay > 0 {
		time.Sleep(s.findDelay)
	}

	var out []entities.Booking
	for _, b := range snapshot {
		if b.EquipmentID == equipmentID && b.Range().Overlaps(r) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeBookingStore) CreateInTx(ctx context.Context, tx pgx.Tx, b entities.Booking) (*entities.Booking, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	b.CreatedAt = time.Now()
	s.bookings = append(s.bookings, b)
	return &b, nil
}

func (s *fakeBookingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

// fakeBookingRepo - полный репозиторий поверх fakeBookingStore.
type fakeBookingRepo struct {
	*fakeBookingStore
	deleted []uint64
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{fakeBookingStore: &fakeBookingStore{}}
}

func (r *fakeBookingRepo) FindBooking(ctx context.Context, id uint64) (*entities.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == id {
			b := b
			return &b, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeBookingRepo) GetBookings(ctx context.Context, filter types.Filter) ([]entities.BookingView, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.BookingView, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, entities.BookingView{Booking: b})
	}
	return out, uint64(len(out)), nil
}

func (r *fakeBookingRepo) GetBookingsInRange(ctx context.Context, tr entities.TimeRange) ([]entities.BookingView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.BookingView
	for _, b := range r.bookings {
		if b.Range().Overlaps(tr) {
			out = append(out, entities.BookingView{Booking: b})
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bookings {
		if r.bookings[i].ID == id {
			r.bookings[i].Status = status
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeBookingRepo) DeleteBooking(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bookings {
		if r.bookings[i].ID == id {
			r.bookings = append(r.bookings[:i], r.bookings[i+1:]...)
			r.deleted = append(r.deleted, id)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

var _ repositories.BookingRepositoryInterface = (*fakeBookingRepo)(nil)

type fakeChangeRepo struct {
	mu        sync.Mutex
	changes   []entities.EquipmentFactorChange
	nextID    uint64
	listCalls int
	listErr   error
	// afterList вызывается после снимка журнала, без удержания блокировки
	afterList func()
}

func (r *fakeChangeRepo) CreateInTx(ctx context.Context, tx pgx.Tx, equipmentID uint64, factor float64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.changes = append(r.changes, entities.EquipmentFactorChange{
		ID: r.nextID, EquipmentID: equipmentID, Factor: factor, ChangeDate: at,
	})
	return nil
}

func (r *fakeChangeRepo) ListByEquipment(ctx context.Context, equipmentID uint64) ([]entities.EquipmentFactorChange, error) {
	r.mu.Lock()
	r.listCalls++
	if r.listErr != nil {
		r.mu.Unlock()
		return nil, r.listErr
	}
	var out []entities.EquipmentFactorChange
	for _, c := range r.changes {
		if c.EquipmentID == equipmentID {
			out = append(out, c)
		}
	}
	hook := r.afterList
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ChangeDate.Equal(out[j].ChangeDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].ChangeDate.After(out[j].ChangeDate)
	})
	return out, nil
}

func (r *fakeChangeRepo) forEquipment(equipmentID uint64) []entities.EquipmentFactorChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.EquipmentFactorChange
	for _, c := range r.changes {
		if c.EquipmentID == equipmentID {
			out = append(out, c)
		}
	}
	return out
}

// fakeEquipmentRepo хранит оборудование в памяти.
type fakeEquipmentRepo struct {
	mu     sync.Mutex
	items  map[uint64]entities.Equipment
	nextID uint64
}

func newFakeEquipmentRepo(items ...entities.Equipment) *fakeEquipmentRepo {
	r := &fakeEquipmentRepo{items: make(map[uint64]entities.Equipment)}
	for _, e := range items {
		r.items[e.ID] = e
		if e.ID > r.nextID {
			r.nextID = e.ID
		}
	}
	return r
}

func (r *fakeEquipmentRepo) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (r *fakeEquipmentRepo) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Equipment, 0, len(r.items))
	for _, e := range r.items {
		out = append(out, e)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeEquipmentRepo) GetActiveEquipments(ctx context.Context) ([]entities.Equipment, error) {
	all, _, _ := r.GetEquipments(ctx, types.Filter{})
	var out []entities.Equipment
	for _, e := range all {
		if e.Active {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEquipmentRepo) FindByCode(ctx context.Context, code string) (*entities.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.items {
		if e.Code == code {
			e := e
			return &e, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeEquipmentRepo) FindForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	return r.FindEquipment(ctx, id)
}

func (r *fakeEquipmentRepo) CreateEquipment(ctx context.Context, tx pgx.Tx, e entities.Equipment) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	e.ID = r.nextID
	r.items[e.ID] = e
	return e.ID, nil
}

func (r *fakeEquipmentRepo) UpdateEquipment(ctx context.Context, tx pgx.Tx, e entities.Equipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[e.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.items[e.ID] = e
	return nil
}

func (r *fakeEquipmentRepo) DeleteEquipment(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	delete(r.items, id)
	return &e, nil
}

var _ repositories.EquipmentRepositoryInterface = (*fakeEquipmentRepo)(nil)

type fakeCache struct {
	mu     sync.Mutex
	data   map[string]string
	gens   map[string]int64
	getErr error
	setErr error
	gets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string), gens: make(map[string]int64)}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.put(key, value)
}

func (c *fakeCache) Generation(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return 0, c.getErr
	}
	return c.gens[key], nil
}

func (c *fakeCache) BumpGeneration(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[key]++
	return nil
}

func (c *fakeCache) SetIfGeneration(ctx context.Context, genKey string, generation int64, key string, value interface{}, expiration time.Duration) (bool, error) {
	if c.setErr != nil {
		return false, c.setErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[genKey] != generation {
		return false, nil
	}
	if err := c.put(key, value); err != nil {
		return false, err
	}
	return true, nil
}

func (c *fakeCache) put(key string, value interface{}) error {
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	case string:
		c.data[key] = v
	default:
		return errors.New("unsupported cache value")
	}
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.data[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint64]*entities.User
	nextID uint64
}

func newFakeUserRepo(users ...*entities.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint64]*entities.User)}
	for _, u := range users {
		cp := *u
		r.users[u.ID] = &cp
		if u.ID > r.nextID {
			r.nextID = u.ID
		}
	}
	return r
}

func (r *fakeUserRepo) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeUserRepo) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) FindAdmins(ctx context.Context) ([]entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.User
	for _, u := range r.users {
		if u.IsAdmin {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, u entities.User) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return 0, apperrors.ErrEmailExists
		}
	}
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = &u
	return u.ID, nil
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, u entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.users[u.ID] = &u
	return nil
}

func (r *fakeUserRepo) DeleteUser(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) SetPassword(ctx context.Context, id uint64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.Password = &hash
	return nil
}

func (r *fakeUserRepo) TouchLastSignIn(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	now := time.Now()
	u.LastSignIn = &now
	return nil
}

var _ repositories.UserRepositoryInterface = (*fakeUserRepo)(nil)

type recordingPublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event eventbus.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}
