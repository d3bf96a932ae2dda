package application

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/lendhive/service-rental/internal/domain/booking"
	"github.com/lendhive/service-rental/internal/domain/item"
	"github.com/lendhive/service-rental/internal/domain/ledger"
	"github.com/lendhive/service-rental/internal/domain/uow"
	"github.com/lendhive/service-rental/internal/domain/user"
	"github.com/lendhive/service-rental/pkg/domain"
)

// memStore is an in-memory stand-in for the persistence layer. A single mutex
// doubles as the transaction boundary: the unit-of-work manager holds it for
// the whole callback, so concurrent confirms serialize the same way they do
// against the locked item row in Postgres.
type memStore struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*booking.Booking
	items    map[uuid.UUID]*item.Item
	users    map[uuid.UUID]*user.User
	entries  map[uuid.UUID]*ledger.Entry
}

func newMemStore() *memStore {
	return &memStore{
		bookings: make(map[uuid.UUID]*booking.Booking),
		items:    make(map[uuid.UUID]*item.Item),
		users:    make(map[uuid.UUID]*user.User),
		entries:  make(map[uuid.UUID]*ledger.Entry),
	}
}

// --- booking repository ---

type memBookingRepo struct{ s *memStore }

func (r *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	bk, ok := r.s.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking", id.String())
	}
	return cloneBooking(bk), nil
}

func (r *memBookingRepo) FindBlocking(_ context.Context, itemID uuid.UUID) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for _, bk := range r.s.bookings {
		if bk.ItemID() == itemID && bk.Status().Blocks() {
			out = append(out, cloneBooking(bk))
		}
	}
	return out, nil
}

func (r *memBookingRepo) Search(_ context.Context, q booking.Query) ([]*booking.Booking, int64, error) {
	var matched []*booking.Booking
	for _, bk := range r.s.bookings {
		if !matchesParty(bk, q.UserID, q.Party) {
			continue
		}
		if len(q.Statuses) > 0 && !containsStatus(q.Statuses, bk.Status()) {
			continue
		}
		if q.Overlapping != nil && !bk.Period().Overlaps(*q.Overlapping) {
			continue
		}
		matched = append(matched, cloneBooking(bk))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt().After(matched[j].CreatedAt())
	})

	total := int64(len(matched))
	start := (q.Page - 1) * q.Limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *memBookingRepo) StatsByUser(_ context.Context, userID uuid.UUID) (*booking.UserStats, error) {
	stats := &booking.UserStats{}
	var lenderRatings, borrowerRatings []int
	for _, bk := range r.s.bookings {
		if bk.LenderID() == userID {
			fold(&stats.AsLender, bk)
			if bk.RatingByBorrower() != nil {
				lenderRatings = append(lenderRatings, *bk.RatingByBorrower())
			}
		}
		if bk.BorrowerID() == userID {
			fold(&stats.AsBorrower, bk)
			if bk.RatingByLender() != nil {
				borrowerRatings = append(borrowerRatings, *bk.RatingByLender())
			}
		}
	}
	stats.AsLender.AvgRating = avg(lenderRatings)
	stats.AsBorrower.AvgRating = avg(borrowerRatings)
	return stats, nil
}

func (r *memBookingRepo) ListAll(_ context.Context, page, limit int) ([]*booking.Booking, int64, error) {
	var all []*booking.Booking
	for _, bk := range r.s.bookings {
		all = append(all, cloneBooking(bk))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt().After(all[j].CreatedAt()) })

	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memBookingRepo) CountByStatus(context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, bk := range r.s.bookings {
		out[bk.Status().String()]++
	}
	return out, nil
}

func (r *memBookingRepo) Save(_ context.Context, bk *booking.Booking) error {
	r.s.bookings[bk.ID()] = cloneBooking(bk)
	return nil
}

func (r *memBookingRepo) Update(_ context.Context, bk *booking.Booking) error {
	current, ok := r.s.bookings[bk.ID()]
	if !ok {
		return domain.NewNotFoundError("booking", bk.ID().String())
	}
	if current.Version() != bk.Version()-1 {
		return domain.NewConflictError("booking was modified concurrently")
	}
	r.s.bookings[bk.ID()] = cloneBooking(bk)
	return nil
}

// --- item repository ---

type memItemRepo struct{ s *memStore }

func (r *memItemRepo) FindByID(_ context.Context, id uuid.UUID) (*item.Item, error) {
	it, ok := r.s.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("item", id.String())
	}
	return cloneItem(it), nil
}

func (r *memItemRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	return r.FindByID(ctx, id)
}

func (r *memItemRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID, page, limit int) ([]*item.Item, int64, error) {
	var out []*item.Item
	for _, it := range r.s.items {
		if it.OwnerID() == ownerID {
			out = append(out, cloneItem(it))
		}
	}
	return out, int64(len(out)), nil
}

func (r *memItemRepo) Save(_ context.Context, it *item.Item) error {
	r.s.items[it.ID()] = cloneItem(it)
	return nil
}

func (r *memItemRepo) Update(_ context.Context, it *item.Item) error {
	if _, ok := r.s.items[it.ID()]; !ok {
		return domain.NewNotFoundError("item", it.ID().String())
	}
	r.s.items[it.ID()] = cloneItem(it)
	return nil
}

func (r *memItemRepo) SetStatus(_ context.Context, id uuid.UUID, status item.AvailabilityStatus) error {
	it, ok := r.s.items[id]
	if !ok {
		return domain.NewNotFoundError("item", id.String())
	}
	it.SetStatus(status)
	return nil
}

// --- user repository ---

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("user", id.String())
	}
	return cloneUser(u), nil
}

func (r *memUserRepo) EnsureExists(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.users[id]; !ok {
		r.s.users[id] = user.New(id, "")
	}
	return nil
}

func (r *memUserRepo) Update(_ context.Context, u *user.User) error {
	if _, ok := r.s.users[u.ID()]; !ok {
		return domain.NewNotFoundError("user", u.ID().String())
	}
	r.s.users[u.ID()] = cloneUser(u)
	return nil
}

// --- ledger repository ---

type memLedgerRepo struct{ s *memStore }

func (r *memLedgerRepo) Save(_ context.Context, e *ledger.Entry) error {
	for _, existing := range r.s.entries {
		if existing.BookingID() == e.BookingID() {
			return domain.NewConflictError("ledger entry already exists for booking")
		}
	}
	r.s.entries[e.ID()] = e
	return nil
}

func (r *memLedgerRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*ledger.Entry, error) {
	for _, e := range r.s.entries {
		if e.BookingID() == bookingID {
			return e, nil
		}
	}
	return nil, domain.NewNotFoundError("ledger entry", bookingID.String())
}

// --- unit of work ---

type memUnitOfWork struct{ s *memStore }

func (u *memUnitOfWork) Bookings() booking.Repository { return &memBookingRepo{s: u.s} }
func (u *memUnitOfWork) Items() item.Repository       { return &memItemRepo{s: u.s} }
func (u *memUnitOfWork) Users() user.Repository       { return &memUserRepo{s: u.s} }
func (u *memUnitOfWork) Ledger() ledger.Repository    { return &memLedgerRepo{s: u.s} }

type memTxManager struct{ s *memStore }

func (m *memTxManager) Do(_ context.Context, fn func(tx uow.UnitOfWork) error) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return fn(&memUnitOfWork{s: m.s})
}

// --- publisher ---

type recordedEvent struct {
	Type string
	Key  string
	Data any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, eventType, key string, data any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Type: eventType, Key: key, Data: data})
}

func (p *recordingPublisher) typesSeen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// --- helpers ---

func cloneBooking(bk *booking.Booking) *booking.Booking {
	return booking.Reconstruct(
		bk.ID(), bk.ItemID(), bk.LenderID(), bk.BorrowerID(),
		bk.Period(),
		bk.TotalDays(),
		bk.DailyRateCents(), bk.TotalRentCents(), bk.SecurityAmountCents(), bk.PlatformFeeCents(),
		bk.Currency(),
		bk.Status(),
		bk.DeliveryDetails(),
		bk.ConfirmedAt(), bk.CompletedAt(), bk.CancelledAt(),
		bk.CancelReason(),
		bk.RatingByLender(), bk.RatingByBorrower(),
		bk.FeedbackByLender(), bk.FeedbackByBorrower(),
		bk.Version(),
		bk.CreatedAt(), bk.UpdatedAt(),
	)
}

func cloneItem(it *item.Item) *item.Item {
	return item.Reconstruct(
		it.ID(), it.OwnerID(),
		it.Name(), it.Description(),
		it.IsActive(),
		it.Status(),
		it.DailyRateCents(), it.SecurityAmountCents(),
		it.MinRentalDays(), it.MaxRentalDays(),
		it.Version(),
		it.CreatedAt(), it.UpdatedAt(),
	)
}

func cloneUser(u *user.User) *user.User {
	return user.Reconstruct(u.ID(), u.DisplayName(), u.TrustScore(), u.RatingCount(), u.Version(), u.CreatedAt(), u.UpdatedAt())
}

func matchesParty(bk *booking.Booking, userID uuid.UUID, party booking.PartyFilter) bool {
	switch party {
	case booking.PartyLender:
		return bk.LenderID() == userID
	case booking.PartyBorrower:
		return bk.BorrowerID() == userID
	default:
		return bk.LenderID() == userID || bk.BorrowerID() == userID
	}
}

func containsStatus(set []booking.Status, st booking.Status) bool {
	for _, s := range set {
		if s == st {
			return true
		}
	}
	return false
}

func fold(rs *booking.RoleStats, bk *booking.Booking) {
	rs.Total++
	switch bk.Status() {
	case booking.StatusCompleted:
		rs.Completed++
		rs.RentCents += bk.TotalRentCents()
	case booking.StatusPending:
		rs.Pending++
	}
}

func avg(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}
