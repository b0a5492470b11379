package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/internal/customers"
	"github.com/3est3est/motorcycle-service/internal/users"
	"github.com/3est3est/motorcycle-service/pkg/config"
	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
	"github.com/3est3est/motorcycle-service/pkg/security"
)

type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubFullUserRepo struct {
	byEmail map[string]*models.User
}

func newStubFullUserRepo() *stubFullUserRepo {
	return &stubFullUserRepo{byEmail: make(map[string]*models.User)}
}

func (s *stubFullUserRepo) WithTx(tx *gorm.DB) users.Repository { return s }

func (s *stubFullUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	s.byEmail[user.Email] = user
	return user, nil
}

func (s *stubFullUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubFullUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range s.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubFullUserRepo) List(ctx context.Context, filters users.UserFilters) ([]models.User, error) {
	return nil, nil
}

func (s *stubFullUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

func (s *stubFullUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) error {
	return nil
}

func (s *stubFullUserRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return nil
}

type stubCustomerRepo struct {
	created []*models.Customer
}

func (s *stubCustomerRepo) WithTx(tx *gorm.DB) customers.Repository { return s }

func (s *stubCustomerRepo) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	s.created = append(s.created, customer)
	return customer, nil
}

func (s *stubCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCustomerRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCustomerRepo) List(ctx context.Context, filters customers.CustomerFilters) ([]models.Customer, error) {
	return nil, nil
}

func (s *stubCustomerRepo) Update(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	return customer, nil
}

func newRegisterFixture(t *testing.T) (*stubFullUserRepo, *stubCustomerRepo, RegisterService) {
	t.Helper()
	userRepo := newStubFullUserRepo()
	customerRepo := &stubCustomerRepo{}
	svc, err := NewRegisterService(RegisterServiceParams{
		Tx:             passthroughTx{},
		UserRepo:       userRepo,
		CustomerRepo:   customerRepo,
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return userRepo, customerRepo, svc
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	userRepo, customerRepo, svc := newRegisterFixture(t)

	dto, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "New.Rider@Example.com",
		Password: "long-enough",
		FullName: "New Rider",
		Phone:    "555-0100",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if dto.Email != "new.rider@example.com" {
		t.Fatalf("expected lowercased email, got %q", dto.Email)
	}
	if dto.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role, got %s", dto.Role)
	}

	user := userRepo.byEmail["new.rider@example.com"]
	if user == nil {
		t.Fatal("user not persisted")
	}
	valid, err := security.VerifyPassword("long-enough", user.PasswordHash)
	if err != nil || !valid {
		t.Fatalf("stored hash must verify, valid=%v err=%v", valid, err)
	}

	if len(customerRepo.created) != 1 {
		t.Fatalf("expected one profile, got %d", len(customerRepo.created))
	}
	profile := customerRepo.created[0]
	if profile.UserID != user.ID || profile.FullName != "New Rider" || profile.Phone != "555-0100" {
		t.Fatalf("unexpected profile %+v", profile)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	userRepo, _, svc := newRegisterFixture(t)
	userRepo.byEmail["taken@example.com"] = &models.User{ID: uuid.New(), Email: "taken@example.com"}

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "taken@example.com",
		Password: "long-enough",
		FullName: "Dup",
		Phone:    "555-0101",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterShortPassword(t *testing.T) {
	_, _, svc := newRegisterFixture(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "short@example.com",
		Password: "tiny",
		FullName: "Short",
		Phone:    "555-0102",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
