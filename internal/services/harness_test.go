package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/OwaisIslam/living-real/internal/data/repos"
	"github.com/OwaisIslam/living-real/internal/data/repos/testutil"
	types "github.com/OwaisIslam/living-real/internal/domain"
	"github.com/OwaisIslam/living-real/internal/observability"
	"github.com/OwaisIslam/living-real/internal/platform/ctxutil"
	"github.com/OwaisIslam/living-real/internal/platform/dbctx"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
)

const testSecret = "test-secret"

type harness struct {
	t            *testing.T
	metrics      *observability.Metrics
	userRepo     repos.UserRepo
	propertyRepo repos.PropertyRepo
	gate         AuthorizationGate
	auth         AuthService
	users        UserService
	properties   PropertyService
	occupancy    OccupancyService
	checkout     CheckoutService
	consistency  ConsistencyService
	processor    *fakeProcessor
	events       *fakePublisher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.SQLite(t)
	log := logger.NewNop()
	h := &harness{
		t:         t,
		metrics:   observability.NewMetrics(false),
		processor: &fakeProcessor{},
		events:    &fakePublisher{},
	}
	h.userRepo = repos.NewUserRepo(db, log)
	h.propertyRepo = repos.NewPropertyRepo(db, log)
	h.gate = NewAuthorizationGate(log, h.metrics)
	h.auth = NewAuthService(log, h.userRepo, h.gate, testSecret, time.Hour)
	h.users = NewUserService(log, h.userRepo, h.gate, true)
	h.properties = NewPropertyService(log, h.propertyRepo, h.gate)
	h.wireOccupancy(h.propertyRepo)
	h.checkout = NewCheckoutService(log, h.propertyRepo, h.processor, h.gate, h.metrics, "", "")
	h.consistency = NewConsistencyService(log, h.userRepo, h.propertyRepo, h.gate, h.metrics)
	return h
}

// wireOccupancy rebuilds the occupancy service over propertyRepo, which lets
// tests inject a failing property store.
func (h *harness) wireOccupancy(propertyRepo repos.PropertyRepo) {
	h.occupancy = NewOccupancyService(logger.NewNop(), h.userRepo, propertyRepo, h.gate, h.events, h.metrics)
}

func (h *harness) register(email string, role types.Role) *types.User {
	h.t.Helper()
	u, err := h.users.Register(context.Background(), RegisterInput{
		Email:     email,
		Password:  "password123",
		FirstName: "First",
		LastName:  "Last",
		Role:      role,
	})
	require.NoError(h.t, err)
	return u
}

func (h *harness) createProperty(owner context.Context, name, rent string) *types.Property {
	h.t.Helper()
	p, err := h.properties.Create(owner, PropertyInput{
		Name:          name,
		StreetAddress: "1 Main St",
		Rent:          rent,
	})
	require.NoError(h.t, err)
	return p
}

// reload reads the user straight from the store.
func (h *harness) reload(userID uuid.UUID) *types.User {
	h.t.Helper()
	found, err := h.userRepo.GetByIDs(dbctx.Of(context.Background()), []uuid.UUID{userID})
	require.NoError(h.t, err)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

func (h *harness) occupantsOf(propertyID uuid.UUID) []uuid.UUID {
	h.t.Helper()
	rows, err := h.propertyRepo.ListOccupants(dbctx.Of(context.Background()))
	require.NoError(h.t, err)
	out := []uuid.UUID{}
	for _, r := range rows {
		if r.PropertyID == propertyID {
			out = append(out, r.UserID)
		}
	}
	return out
}

func asUser(u *types.User) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		UserID: u.ID,
		Role:   u.Role,
	})
}

func asCaller(id uuid.UUID, role types.Role) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		UserID: id,
		Role:   role,
	})
}

type fakeProcessor struct {
	mu         sync.Mutex
	calls      []string
	amount     int64
	currency   string
	successURL string
	cancelURL  string
	failAt     string
}

var errProcessor = errors.New("processor unavailable")

func (f *fakeProcessor) CreateProduct(ctx context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "product:"+name)
	if f.failAt == "product" {
		return "", errProcessor
	}
	return "prod_1", nil
}

func (f *fakeProcessor) CreatePrice(ctx context.Context, productID string, unitAmount int64, currency string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "price:"+productID)
	f.amount = unitAmount
	f.currency = currency
	if f.failAt == "price" {
		return "", errProcessor
	}
	return "price_1", nil
}

func (f *fakeProcessor) CreateCheckoutSession(ctx context.Context, priceID, successURL, cancelURL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "session:"+priceID)
	f.successURL = successURL
	f.cancelURL = cancelURL
	if f.failAt == "session" {
		return "", errProcessor
	}
	return "cs_test_1", nil
}

func (f *fakeProcessor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []types.OccupancyEvent
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, evt types.OccupancyEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return f.err
}

func (f *fakePublisher) published() []types.OccupancyEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.OccupancyEvent(nil), f.events...)
}

// failingPropertyRepo fails the occupant-set writes named in failOn.
type failingPropertyRepo struct {
	repos.PropertyRepo
	failOn map[string]bool
}

var errInjected = errors.New("injected property store failure")

func (r *failingPropertyRepo) AddOccupant(dbc dbctx.Context, propertyID, userID uuid.UUID) error {
	if r.failOn["add"] {
		return errInjected
	}
	return r.PropertyRepo.AddOccupant(dbc, propertyID, userID)
}

func (r *failingPropertyRepo) RemoveOccupant(dbc dbctx.Context, propertyID, userID uuid.UUID) error {
	if r.failOn["remove"] {
		return errInjected
	}
	return r.PropertyRepo.RemoveOccupant(dbc, propertyID, userID)
}
