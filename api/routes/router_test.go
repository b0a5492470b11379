package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/3est3est/motorcycle-service/internal/customers"
	"github.com/3est3est/motorcycle-service/internal/dashboard"
	"github.com/3est3est/motorcycle-service/internal/users"
	pkgauth "github.com/3est3est/motorcycle-service/pkg/auth"
	"github.com/3est3est/motorcycle-service/pkg/auth/session"
	"github.com/3est3est/motorcycle-service/pkg/config"
	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	"github.com/3est3est/motorcycle-service/pkg/logger"
	"github.com/3est3est/motorcycle-service/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubCustomersService struct {
	profileID   uuid.UUID
	resolvedFor []uuid.UUID
}

func (s *stubCustomersService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	s.resolvedFor = append(s.resolvedFor, userID)
	return &models.Customer{ID: s.profileID, UserID: userID, FullName: "Test Rider"}, nil
}

func (s *stubCustomersService) UpdateProfile(ctx context.Context, input customers.UpdateProfileInput) (*models.Customer, error) {
	return &models.Customer{ID: s.profileID}, nil
}

func (s *stubCustomersService) Get(ctx context.Context, id uuid.UUID, actorRole enums.UserRole) (*models.Customer, error) {
	return &models.Customer{ID: id}, nil
}

func (s *stubCustomersService) List(ctx context.Context, input customers.ListInput) ([]models.Customer, error) {
	return nil, nil
}

type stubDashboardService struct{}

func (stubDashboardService) Get(ctx context.Context, input dashboard.GetInput) (*dashboard.Dashboard, error) {
	if input.ActorRole.IsStaff() {
		return &dashboard.Dashboard{Kind: dashboard.KindStaff, Staff: &dashboard.StaffDashboard{}}, nil
	}
	return &dashboard.Dashboard{Kind: dashboard.KindCustomer, Customer: &dashboard.CustomerDashboard{}}, nil
}

type stubUsersService struct{}

func (stubUsersService) List(ctx context.Context, input users.ListInput) ([]users.UserDTO, error) {
	return []users.UserDTO{}, nil
}

func (stubUsersService) ChangeRole(ctx context.Context, input users.ChangeRoleInput) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

func (stubUsersService) SetActive(ctx context.Context, input users.SetActiveInput) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "motoshop",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config, customersSvc *stubCustomersService) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		stubSessionChecker{},
		nil,
		nil,
		Services{
			Users:     stubUsersService{},
			Customers: customersSvc,
			Dashboard: stubDashboardService{},
		},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveAlwaysUp(t *testing.T) {
	router := newTestRouter(testConfig(), &stubCustomersService{profileID: uuid.New()})
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter(testConfig(), &stubCustomersService{profileID: uuid.New()})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestDashboardResolvesCustomerProfile(t *testing.T) {
	cfg := testConfig()
	customersSvc := &stubCustomersService{profileID: uuid.New()}
	router := newTestRouter(cfg, customersSvc)

	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer, userID))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for customer dashboard got %d: %s", resp.Code, resp.Body.String())
	}
	if len(customersSvc.resolvedFor) != 1 || customersSvc.resolvedFor[0] != userID {
		t.Fatalf("expected profile resolved for %s got %v", userID, customersSvc.resolvedFor)
	}
}

func TestStaffGateBlocksCustomers(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, &stubCustomersService{profileID: uuid.New()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parts", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer, uuid.New()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer on staff route got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, &stubCustomersService{profileID: uuid.New()})

	staff := httptest.NewRequest(http.MethodGet, "/api/admin/v1/users", nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff, uuid.New()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff on admin route got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/users", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin, uuid.New()))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d: %s", resp.Code, resp.Body.String())
	}
}
