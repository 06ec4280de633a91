package tests

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"driveus/internal/domain"
	"driveus/internal/mail"
	"driveus/internal/payment"
	"driveus/internal/repository"
	"driveus/internal/routing"
)

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is an in-memory BookingRepository that mirrors
// the conditional-update semantics of the real store: every guarded
// mutation is atomic under the mutex and reports whether it applied.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters, written and read atomically via the accessors.
	createCalls            int32
	updateStatusCalls      int32
	markDepositPaidCalls   int32
	markDepositFailedCalls int32
	setPaymentSessionCalls int32

	// Error injection
	CreateError            error
	GetError               error
	UpdateStatusError      error
	MarkDepositPaidError   error
	MarkDepositFailedError error
	SetPaymentSessionError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking seeds a booking into the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := *booking
	m.bookings[b.ID] = &b
}

// GetBooking returns the stored booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil
	}
	copy := *b
	return &copy
}

// CreateCalls returns how many times Create was invoked.
func (m *MockBookingRepository) CreateCalls() int32 { return atomic.LoadInt32(&m.createCalls) }

// UpdateStatusCalls returns how many times UpdateStatus was invoked.
func (m *MockBookingRepository) UpdateStatusCalls() int32 {
	return atomic.LoadInt32(&m.updateStatusCalls)
}

// MarkDepositPaidCalls returns how many times MarkDepositPaid was invoked.
func (m *MockBookingRepository) MarkDepositPaidCalls() int32 {
	return atomic.LoadInt32(&m.markDepositPaidCalls)
}

// MarkDepositFailedCalls returns how many times MarkDepositFailed was invoked.
func (m *MockBookingRepository) MarkDepositFailedCalls() int32 {
	return atomic.LoadInt32(&m.markDepositFailedCalls)
}

// SetPaymentSessionCalls returns how many times SetPaymentSession was invoked.
func (m *MockBookingRepository) SetPaymentSessionCalls() int32 {
	return atomic.LoadInt32(&m.setPaymentSessionCalls)
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.createCalls, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b := *booking
	m.bookings[b.ID] = &b
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *b
	return &copy, nil
}

func (m *MockBookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		copy := *b
		result = append(result, &copy)
	}
	sortNewestFirst(result)
	return result, nil
}

func (m *MockBookingRepository) GetByStatus(ctx context.Context, status domain.BookingStatus) ([]*domain.Booking, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0)
	for _, b := range m.bookings {
		if b.Status == status {
			copy := *b
			result = append(result, &copy)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

// sortNewestFirst matches the store contract: listings come back most
// recent first.
func sortNewestFirst(bookings []*domain.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error) {
	atomic.AddInt32(&m.updateStatusCalls, 1)
	if m.UpdateStatusError != nil {
		return false, m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (m *MockBookingRepository) SetPaymentSession(ctx context.Context, id, sessionRef string) (bool, error) {
	atomic.AddInt32(&m.setPaymentSessionCalls, 1)
	if m.SetPaymentSessionError != nil {
		return false, m.SetPaymentSessionError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.PaymentStatus == domain.PaymentDepositPaid {
		return false, nil
	}
	b.PaymentSessionRef = sessionRef
	b.PaymentStatus = domain.PaymentDepositPending
	return true, nil
}

func (m *MockBookingRepository) MarkDepositPaid(ctx context.Context, id, confirmationRef string) (bool, error) {
	atomic.AddInt32(&m.markDepositPaidCalls, 1)
	if m.MarkDepositPaidError != nil {
		return false, m.MarkDepositPaidError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.PaymentStatus == domain.PaymentDepositPaid {
		return false, nil
	}
	b.DepositPaid = true
	b.PaymentStatus = domain.PaymentDepositPaid
	if !b.Status.Terminal() {
		b.Status = domain.BookingStatusConfirmed
	}
	if b.PaymentConfirmationRef == "" {
		b.PaymentConfirmationRef = confirmationRef
	}
	return true, nil
}

func (m *MockBookingRepository) MarkDepositFailed(ctx context.Context, id string) (bool, error) {
	atomic.AddInt32(&m.markDepositFailedCalls, 1)
	if m.MarkDepositFailedError != nil {
		return false, m.MarkDepositFailedError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.PaymentStatus == domain.PaymentDepositPaid {
		return false, nil
	}
	b.PaymentStatus = domain.PaymentDepositFailed
	return true, nil
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is an in-memory UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	createCalls int32
	CreateError error
}

// CreateCalls returns how many times Create was invoked.
func (m *MockUserRepository) CreateCalls() int32 { return atomic.LoadInt32(&m.createCalls) }

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.createCalls, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	u := *user
	m.users[u.ID] = &u
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *u
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ──────────────────────────────────────────────
// MOCK RESOLVER
// ──────────────────────────────────────────────

// MockResolver is a canned-response routing.Resolver.
type MockResolver struct {
	mu     sync.RWMutex
	places map[string]*routing.Place

	// Distance returned by DrivingDistanceKm.
	Distance float64

	locateCalls   int32
	distanceCalls int32

	LocateError   error
	DistanceError error
}

// LocateCalls returns how many times Locate was invoked.
func (m *MockResolver) LocateCalls() int32 { return atomic.LoadInt32(&m.locateCalls) }

// DistanceCalls returns how many times DrivingDistanceKm was invoked.
func (m *MockResolver) DistanceCalls() int32 { return atomic.LoadInt32(&m.distanceCalls) }

// NewMockResolver creates a new mock resolver.
func NewMockResolver() *MockResolver {
	return &MockResolver{
		places:   make(map[string]*routing.Place),
		Distance: 10,
	}
}

// AddPlace registers the place returned for the given text.
func (m *MockResolver) AddPlace(text string, place *routing.Place) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.places[text] = place
}

func (m *MockResolver) Locate(ctx context.Context, text string) (*routing.Place, error) {
	atomic.AddInt32(&m.locateCalls, 1)
	if m.LocateError != nil {
		return nil, m.LocateError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.places[text]; ok {
		copy := *p
		return &copy, nil
	}
	// Unregistered addresses still geocode in most tests.
	return &routing.Place{
		Coordinate: routing.Coordinate{Lon: 2.35, Lat: 48.85},
		Label:      text,
	}, nil
}

func (m *MockResolver) DrivingDistanceKm(ctx context.Context, from, to routing.Coordinate) (float64, error) {
	atomic.AddInt32(&m.distanceCalls, 1)
	if m.DistanceError != nil {
		return 0, m.DistanceError
	}
	return m.Distance, nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT PROVIDER
// ──────────────────────────────────────────────

// MockProvider is a payment.Provider that fabricates checkout sessions.
type MockProvider struct {
	createSessionCalls int32
	CreateSessionError error

	// LastAmount records the deposit amount of the last session.
	LastAmount float64
}

// NewMockProvider creates a new mock payment provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// CreateSessionCalls returns how many times CreateDepositSession was invoked.
func (m *MockProvider) CreateSessionCalls() int32 { return atomic.LoadInt32(&m.createSessionCalls) }

func (m *MockProvider) CreateDepositSession(ctx context.Context, booking *domain.Booking, amount float64) (*payment.CheckoutSession, error) {
	n := atomic.AddInt32(&m.createSessionCalls, 1)
	if m.CreateSessionError != nil {
		return nil, m.CreateSessionError
	}
	m.LastAmount = amount
	return &payment.CheckoutSession{
		URL:        fmt.Sprintf("https://checkout.example/session-%d", n),
		SessionRef: fmt.Sprintf("cs_test_%s_%d", booking.ID, n),
	}, nil
}

// ──────────────────────────────────────────────
// MOCK MAILER
// ──────────────────────────────────────────────

// SentMail records one delivery made through the mock mailer.
type SentMail struct {
	To      string
	Subject string
	Text    string
}

// MockMailer is a mail.Mailer that records deliveries.
type MockMailer struct {
	mu   sync.Mutex
	sent []SentMail

	SendError error
}

var _ mail.Mailer = (*MockMailer)(nil)

// NewMockMailer creates a new mock mailer.
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(ctx context.Context, to, subject, text string) error {
	if m.SendError != nil {
		return m.SendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMail{To: to, Subject: subject, Text: text})
	return nil
}

// Sent returns a snapshot of recorded deliveries.
func (m *MockMailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMail, len(m.sent))
	copy(out, m.sent)
	return out
}
