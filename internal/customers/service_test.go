package customers

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
)

type stubCustomersRepo struct {
	customers map[uuid.UUID]*models.Customer
}

func newStubCustomersRepo() *stubCustomersRepo {
	return &stubCustomersRepo{customers: make(map[uuid.UUID]*models.Customer)}
}

func (s *stubCustomersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCustomersRepo) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	s.customers[customer.ID] = customer
	return customer, nil
}

func (s *stubCustomersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, ok := s.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return customer, nil
}

func (s *stubCustomersRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	for _, customer := range s.customers {
		if customer.UserID == userID {
			return customer, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCustomersRepo) List(ctx context.Context, filters CustomerFilters) ([]models.Customer, error) {
	var out []models.Customer
	for _, customer := range s.customers {
		if filters.Search != nil && !strings.Contains(customer.FullName, *filters.Search) {
			continue
		}
		out = append(out, *customer)
	}
	return out, nil
}

func (s *stubCustomersRepo) Update(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	s.customers[customer.ID] = customer
	return customer, nil
}

func newCustomersFixture(t *testing.T) (*stubCustomersRepo, Service) {
	t.Helper()
	repo := newStubCustomersRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return repo, svc
}

func TestGetProfileByUserID(t *testing.T) {
	repo, svc := newCustomersFixture(t)
	userID := uuid.New()
	profile := &models.Customer{ID: uuid.New(), UserID: userID, FullName: "Dani Pedrosa", Phone: "555-0101"}
	repo.customers[profile.ID] = profile

	got, err := svc.GetProfile(context.Background(), userID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if got.ID != profile.ID {
		t.Fatalf("unexpected profile %+v", got)
	}

	_, err = svc.GetProfile(context.Background(), uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateProfileChangesNameAndPhone(t *testing.T) {
	repo, svc := newCustomersFixture(t)
	userID := uuid.New()
	profile := &models.Customer{ID: uuid.New(), UserID: userID, FullName: "Old Name", Phone: "555-0101"}
	repo.customers[profile.ID] = profile

	name := "New Name"
	phone := "555-0202"
	updated, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:   userID,
		FullName: &name,
		Phone:    &phone,
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.FullName != "New Name" || updated.Phone != "555-0202" {
		t.Fatalf("unexpected profile %+v", updated)
	}
}

func TestUpdateProfileRejectsBlankName(t *testing.T) {
	repo, svc := newCustomersFixture(t)
	userID := uuid.New()
	profile := &models.Customer{ID: uuid.New(), UserID: userID, FullName: "Keep Me", Phone: "555-0101"}
	repo.customers[profile.ID] = profile

	blank := "   "
	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: userID, FullName: &blank})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListRequiresStaff(t *testing.T) {
	repo, svc := newCustomersFixture(t)
	repo.customers[uuid.New()] = &models.Customer{ID: uuid.New(), UserID: uuid.New(), FullName: "A"}

	_, err := svc.List(context.Background(), ListInput{ActorRole: enums.UserRoleCustomer})
	if !pkgerrors.HasCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	customers, err := svc.List(context.Background(), ListInput{ActorRole: enums.UserRoleStaff})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(customers) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(customers))
	}
}

func TestGetRequiresStaff(t *testing.T) {
	repo, svc := newCustomersFixture(t)
	profile := &models.Customer{ID: uuid.New(), UserID: uuid.New(), FullName: "B"}
	repo.customers[profile.ID] = profile

	_, err := svc.Get(context.Background(), profile.ID, enums.UserRoleCustomer)
	if !pkgerrors.HasCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	got, err := svc.Get(context.Background(), profile.ID, enums.UserRoleAdmin)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != profile.ID {
		t.Fatalf("unexpected customer %+v", got)
	}
}
