package motorcycles

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
)

type stubMotoRepo struct {
	byID     map[uuid.UUID]*models.Motorcycle
	byPlate  map[string]*models.Motorcycle
	bookings map[uuid.UUID]int64
	deleted  []uuid.UUID
}

func newStubMotoRepo() *stubMotoRepo {
	return &stubMotoRepo{
		byID:     make(map[uuid.UUID]*models.Motorcycle),
		byPlate:  make(map[string]*models.Motorcycle),
		bookings: make(map[uuid.UUID]int64),
	}
}

func (s *stubMotoRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubMotoRepo) Create(ctx context.Context, m *models.Motorcycle) (*models.Motorcycle, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	s.byID[m.ID] = m
	s.byPlate[m.LicensePlate] = m
	return m, nil
}

func (s *stubMotoRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Motorcycle, error) {
	m, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (s *stubMotoRepo) FindByPlate(ctx context.Context, plate string) (*models.Motorcycle, error) {
	m, ok := s.byPlate[plate]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (s *stubMotoRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Motorcycle, error) {
	var out []models.Motorcycle
	for _, m := range s.byID {
		if m.CustomerID == customerID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *stubMotoRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	m, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if brand, ok := updates["brand"].(string); ok {
		m.Brand = brand
	}
	if model, ok := updates["model"].(string); ok {
		m.Model = model
	}
	if year, ok := updates["year"].(int); ok {
		m.Year = &year
	}
	return nil
}

func (s *stubMotoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubMotoRepo) CountBookings(ctx context.Context, motorcycleID uuid.UUID) (int64, error) {
	return s.bookings[motorcycleID], nil
}

func TestRegisterNormalizesAndRejectsDuplicatePlate(t *testing.T) {
	repo := newStubMotoRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()
	customerID := uuid.New()

	m, err := svc.Register(ctx, RegisterInput{
		CustomerID:   customerID,
		Brand:        "Honda",
		Model:        "CB500X",
		LicensePlate: "  abc 1234 ",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if m.LicensePlate != "ABC 1234" {
		t.Fatalf("expected normalized plate, got %q", m.LicensePlate)
	}

	_, err = svc.Register(ctx, RegisterInput{
		CustomerID:   uuid.New(),
		Brand:        "Yamaha",
		Model:        "MT-07",
		LicensePlate: "ABC 1234",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected plate conflict, got %v", err)
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	repo := newStubMotoRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()
	ownerID := uuid.New()

	m, err := svc.Register(ctx, RegisterInput{
		CustomerID:   ownerID,
		Brand:        "Kawasaki",
		Model:        "Ninja 400",
		LicensePlate: "KN-400",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Get(ctx, m.ID, uuid.New(), enums.UserRoleCustomer); !pkgerrors.HasCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden for other customer, got %v", err)
	}
	if _, err := svc.Get(ctx, m.ID, uuid.New(), enums.UserRoleStaff); err != nil {
		t.Fatalf("staff should read any motorcycle: %v", err)
	}
	if _, err := svc.Get(ctx, m.ID, ownerID, enums.UserRoleCustomer); err != nil {
		t.Fatalf("owner should read own motorcycle: %v", err)
	}
}

func TestRemoveBlockedByBookingHistory(t *testing.T) {
	repo := newStubMotoRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()
	ownerID := uuid.New()

	m, err := svc.Register(ctx, RegisterInput{
		CustomerID:   ownerID,
		Brand:        "Ducati",
		Model:        "Monster",
		LicensePlate: "DM-821",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	repo.bookings[m.ID] = 3

	err = svc.Remove(ctx, m.ID, ownerID, enums.UserRoleCustomer)
	if !pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict for booked motorcycle, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatal("motorcycle should not be deleted")
	}
}
