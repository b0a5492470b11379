package repairs

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
)

type stubRepairsRepo struct {
	jobs            map[uuid.UUID]*models.RepairJob
	bookings        map[uuid.UUID]*models.Booking
	lines           map[uuid.UUID]*models.RepairPart
	bookingStatuses map[uuid.UUID]enums.BookingStatus
	estimated       map[uuid.UUID]bool
}

func newStubRepairsRepo() *stubRepairsRepo {
	return &stubRepairsRepo{
		jobs:            make(map[uuid.UUID]*models.RepairJob),
		bookings:        make(map[uuid.UUID]*models.Booking),
		lines:           make(map[uuid.UUID]*models.RepairPart),
		bookingStatuses: make(map[uuid.UUID]enums.BookingStatus),
		estimated:       make(map[uuid.UUID]bool),
	}
}

func (s *stubRepairsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepairsRepo) CreateJob(ctx context.Context, job *models.RepairJob) (*models.RepairJob, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	s.jobs[job.ID] = job
	return job, nil
}

func (s *stubRepairsRepo) FindJobByID(ctx context.Context, id uuid.UUID) (*models.RepairJob, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return job, nil
}

func (s *stubRepairsRepo) FindJobByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.RepairJob, error) {
	for _, job := range s.jobs {
		if job.BookingID == bookingID {
			return job, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepairsRepo) ListJobs(ctx context.Context, filters JobFilters) ([]models.RepairJob, error) {
	var out []models.RepairJob
	for _, job := range s.jobs {
		if filters.Status != nil && job.Status != *filters.Status {
			continue
		}
		out = append(out, *job)
	}
	return out, nil
}

func (s *stubRepairsRepo) UpdateJob(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	job, ok := s.jobs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"].(enums.RepairStatus); ok {
		job.Status = status
	}
	if progress, ok := updates["progress"].(int); ok {
		job.Progress = progress
	}
	if confirmed, ok := updates["customer_confirmed"].(bool); ok {
		job.CustomerConfirmed = confirmed
	}
	if labor, ok := updates["labor_cost"].(decimal.Decimal); ok {
		job.LaborCost = labor
	}
	if raw, ok := updates["quotation_id"]; ok {
		if quotationID, ok := raw.(uuid.UUID); ok {
			job.QuotationID = &quotationID
		} else {
			job.QuotationID = nil
		}
	}
	return nil
}

func (s *stubRepairsRepo) CreateRepairPart(ctx context.Context, part *models.RepairPart) (*models.RepairPart, error) {
	if part.ID == uuid.Nil {
		part.ID = uuid.New()
	}
	s.lines[part.ID] = part
	if job, ok := s.jobs[part.RepairJobID]; ok {
		job.Parts = append(job.Parts, *part)
	}
	return part, nil
}

func (s *stubRepairsRepo) FindRepairPart(ctx context.Context, id uuid.UUID) (*models.RepairPart, error) {
	line, ok := s.lines[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return line, nil
}

func (s *stubRepairsRepo) DeleteRepairPart(ctx context.Context, id uuid.UUID) error {
	delete(s.lines, id)
	return nil
}

func (s *stubRepairsRepo) UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, status enums.BookingStatus) error {
	s.bookingStatuses[bookingID] = status
	return nil
}

func (s *stubRepairsRepo) HasEstimateForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	return s.estimated[bookingID], nil
}

func (s *stubRepairsRepo) FindBookingByID(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	booking, ok := s.bookings[bookingID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return booking, nil
}

type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubRebuilder struct {
	calls     int
	quotation *models.Quotation
}

func (s *stubRebuilder) Rebuild(ctx context.Context, tx *gorm.DB, job *models.RepairJob) (*models.Quotation, error) {
	s.calls++
	if s.quotation == nil {
		s.quotation = &models.Quotation{ID: uuid.New(), BookingID: job.BookingID, TotalAmount: decimal.NewFromInt(1000)}
	}
	return s.quotation, nil
}

type stubUpserter struct {
	calls   int
	lastAmt decimal.Decimal
}

func (s *stubUpserter) UpsertForJob(ctx context.Context, tx *gorm.DB, job *models.RepairJob, quotation *models.Quotation) (*models.Payment, error) {
	s.calls++
	s.lastAmt = quotation.TotalAmount
	return &models.Payment{ID: uuid.New(), RepairJobID: job.ID, Amount: quotation.TotalAmount}, nil
}

type stubInventory struct {
	parts    map[uuid.UUID]*models.Part
	restored map[uuid.UUID]int
}

func newStubInventory() *stubInventory {
	return &stubInventory{
		parts:    make(map[uuid.UUID]*models.Part),
		restored: make(map[uuid.UUID]int),
	}
}

func (s *stubInventory) FindPart(ctx context.Context, tx *gorm.DB, partID uuid.UUID) (*models.Part, error) {
	part, ok := s.parts[partID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return part, nil
}

func (s *stubInventory) Consume(ctx context.Context, tx *gorm.DB, partID uuid.UUID, qty int) (bool, error) {
	part, ok := s.parts[partID]
	if !ok || part.StockQty < qty {
		return false, nil
	}
	part.StockQty -= qty
	return true, nil
}

func (s *stubInventory) Restore(ctx context.Context, tx *gorm.DB, partID uuid.UUID, qty int) error {
	s.restored[partID] += qty
	if part, ok := s.parts[partID]; ok {
		part.StockQty += qty
	}
	return nil
}

type fixture struct {
	repo      *stubRepairsRepo
	rebuilder *stubRebuilder
	upserter  *stubUpserter
	inventory *stubInventory
	svc       Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newStubRepairsRepo()
	rebuilder := &stubRebuilder{}
	upserter := &stubUpserter{}
	inv := newStubInventory()
	svc, err := NewService(repo, passthroughTx{}, rebuilder, upserter, inv)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{repo: repo, rebuilder: rebuilder, upserter: upserter, inventory: inv, svc: svc}
}

func (f *fixture) seedJob(status enums.RepairStatus, confirmed bool) (*models.RepairJob, *models.Booking) {
	booking := &models.Booking{ID: uuid.New(), CustomerID: uuid.New(), Status: enums.BookingStatusConfirmed}
	f.repo.bookings[booking.ID] = booking
	f.repo.estimated[booking.ID] = true
	job := &models.RepairJob{
		ID:                uuid.New(),
		BookingID:         booking.ID,
		Status:            status,
		CustomerConfirmed: confirmed,
		LaborCost:         decimal.NewFromInt(500),
	}
	f.repo.jobs[job.ID] = job
	return job, booking
}

func TestAdvanceStatusToCompletedRebuildsQuotation(t *testing.T) {
	f := newFixture(t)
	job, booking := f.seedJob(enums.RepairStatusInProgress, true)

	updated, err := f.svc.AdvanceStatus(context.Background(), AdvanceStatusInput{
		JobID:       job.ID,
		Target:      enums.RepairStatusCompleted,
		ActorUserID: uuid.New(),
		ActorRole:   enums.UserRoleStaff,
	})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if updated.Status != enums.RepairStatusCompleted {
		t.Fatalf("expected completed, got %s", updated.Status)
	}
	if updated.Progress != 100 || updated.EndDate == nil {
		t.Fatalf("expected progress 100 and end date, got %+v", updated)
	}
	if f.rebuilder.calls != 1 {
		t.Fatalf("expected one quotation rebuild, got %d", f.rebuilder.calls)
	}
	if f.repo.bookingStatuses[booking.ID] != enums.BookingStatusCompleted {
		t.Fatal("expected booking completed")
	}
	if updated.QuotationID == nil {
		t.Fatal("expected job linked to quotation")
	}
}

func TestAdvanceStatusToDeliveredUpsertsPayment(t *testing.T) {
	f := newFixture(t)
	job, _ := f.seedJob(enums.RepairStatusCompleted, true)

	_, err := f.svc.AdvanceStatus(context.Background(), AdvanceStatusInput{
		JobID:     job.ID,
		Target:    enums.RepairStatusDelivered,
		ActorRole: enums.UserRoleStaff,
	})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if f.upserter.calls != 1 {
		t.Fatalf("expected payment upsert, got %d", f.upserter.calls)
	}
	if !f.upserter.lastAmt.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("payment should carry quotation total, got %s", f.upserter.lastAmt)
	}
}

func TestAdvanceStatusCancelRestoresStockAndBooking(t *testing.T) {
	f := newFixture(t)
	job, booking := f.seedJob(enums.RepairStatusCreated, false)
	partID := uuid.New()
	job.Parts = []models.RepairPart{{PartID: partID, Quantity: 2}}

	_, err := f.svc.AdvanceStatus(context.Background(), AdvanceStatusInput{
		JobID:     job.ID,
		Target:    enums.RepairStatusCancelled,
		ActorRole: enums.UserRoleStaff,
	})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if f.repo.bookingStatuses[booking.ID] != enums.BookingStatusCancelled {
		t.Fatal("expected booking cancelled")
	}
	if f.inventory.restored[partID] != 2 {
		t.Fatalf("expected stock restored, got %d", f.inventory.restored[partID])
	}
}

func TestAdvanceStatusRequiresStaff(t *testing.T) {
	f := newFixture(t)
	job, _ := f.seedJob(enums.RepairStatusCreated, true)

	_, err := f.svc.AdvanceStatus(context.Background(), AdvanceStatusInput{
		JobID:     job.ID,
		Target:    enums.RepairStatusInProgress,
		ActorRole: enums.UserRoleCustomer,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAddPartFreezesPriceAndConsumesStock(t *testing.T) {
	f := newFixture(t)
	job, _ := f.seedJob(enums.RepairStatusInProgress, true)
	part := &models.Part{ID: uuid.New(), Name: "Chain", Price: decimal.NewFromInt(900), StockQty: 3}
	f.inventory.parts[part.ID] = part

	line, err := f.svc.AddPart(context.Background(), AddPartInput{
		JobID:     job.ID,
		PartID:    part.ID,
		Quantity:  2,
		ActorRole: enums.UserRoleStaff,
	})
	if err != nil {
		t.Fatalf("add part: %v", err)
	}
	if !line.UnitPrice.Equal(decimal.NewFromInt(900)) || !line.PriceTotal.Equal(decimal.NewFromInt(1800)) {
		t.Fatalf("unexpected snapshot %s / %s", line.UnitPrice, line.PriceTotal)
	}
	if part.StockQty != 1 {
		t.Fatalf("expected stock 1 after consume, got %d", part.StockQty)
	}

	// later catalog edits must not change the recorded line
	part.Price = decimal.NewFromInt(9999)
	if !line.UnitPrice.Equal(decimal.NewFromInt(900)) {
		t.Fatal("line price should be frozen")
	}
}

func TestAddPartInsufficientStock(t *testing.T) {
	f := newFixture(t)
	job, _ := f.seedJob(enums.RepairStatusCreated, false)
	part := &models.Part{ID: uuid.New(), Name: "Tire", Price: decimal.NewFromInt(2000), StockQty: 1}
	f.inventory.parts[part.ID] = part

	_, err := f.svc.AddPart(context.Background(), AddPartInput{
		JobID:     job.ID,
		PartID:    part.ID,
		Quantity:  2,
		ActorRole: enums.UserRoleStaff,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if part.StockQty != 1 {
		t.Fatalf("stock should be untouched, got %d", part.StockQty)
	}
}

func TestAddPartBlockedOnceCompleted(t *testing.T) {
	f := newFixture(t)
	job, _ := f.seedJob(enums.RepairStatusCompleted, true)
	part := &models.Part{ID: uuid.New(), Name: "Bolt", Price: decimal.NewFromInt(10), StockQty: 50}
	f.inventory.parts[part.ID] = part

	_, err := f.svc.AddPart(context.Background(), AddPartInput{
		JobID:     job.ID,
		PartID:    part.ID,
		Quantity:  1,
		ActorRole: enums.UserRoleStaff,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestRemovePartRestocksInventory(t *testing.T) {
	f := newFixture(t)
	job, _ := f.seedJob(enums.RepairStatusInProgress, true)
	part := &models.Part{ID: uuid.New(), Name: "Filter", Price: decimal.NewFromInt(150), StockQty: 5}
	f.inventory.parts[part.ID] = part

	line, err := f.svc.AddPart(context.Background(), AddPartInput{
		JobID:     job.ID,
		PartID:    part.ID,
		Quantity:  2,
		ActorRole: enums.UserRoleStaff,
	})
	if err != nil {
		t.Fatalf("add part: %v", err)
	}

	if err := f.svc.RemovePart(context.Background(), RemovePartInput{
		JobID:        job.ID,
		RepairPartID: line.ID,
		ActorRole:    enums.UserRoleStaff,
	}); err != nil {
		t.Fatalf("remove part: %v", err)
	}
	if part.StockQty != 5 {
		t.Fatalf("expected stock restored to 5, got %d", part.StockQty)
	}
}

func TestConfirmOnlyByBookingCustomer(t *testing.T) {
	f := newFixture(t)
	job, booking := f.seedJob(enums.RepairStatusCreated, false)

	if _, err := f.svc.Confirm(context.Background(), job.ID, uuid.New()); !pkgerrors.HasCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	confirmed, err := f.svc.Confirm(context.Background(), job.ID, booking.CustomerID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !confirmed.CustomerConfirmed {
		t.Fatal("expected customer_confirmed set")
	}

	// idempotent
	if _, err := f.svc.Confirm(context.Background(), job.ID, booking.CustomerID); err != nil {
		t.Fatalf("second confirm should be a no-op: %v", err)
	}
}

func TestCancelByOwnerCascadesBookingAndStock(t *testing.T) {
	f := newFixture(t)
	job, booking := f.seedJob(enums.RepairStatusCreated, false)
	partID := uuid.New()
	job.Parts = []models.RepairPart{{PartID: partID, Quantity: 3}}

	cancelled, err := f.svc.Cancel(context.Background(), job.ID, booking.CustomerID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != enums.RepairStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if f.repo.bookingStatuses[booking.ID] != enums.BookingStatusCancelled {
		t.Fatal("expected booking cancelled")
	}
	if f.inventory.restored[partID] != 3 {
		t.Fatalf("expected stock restored, got %d", f.inventory.restored[partID])
	}
}

func TestCancelByNonOwnerForbidden(t *testing.T) {
	f := newFixture(t)
	job, booking := f.seedJob(enums.RepairStatusCreated, false)

	_, err := f.svc.Cancel(context.Background(), job.ID, uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if f.repo.bookingStatuses[booking.ID] == enums.BookingStatusCancelled {
		t.Fatal("booking must stay untouched")
	}
	if job.Status != enums.RepairStatusCreated {
		t.Fatalf("job must stay created, got %s", job.Status)
	}
}

func TestCancelBlockedOnceStarted(t *testing.T) {
	f := newFixture(t)
	job, booking := f.seedJob(enums.RepairStatusInProgress, true)

	_, err := f.svc.Cancel(context.Background(), job.ID, booking.CustomerID)
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestConfirmRequiresEstimate(t *testing.T) {
	f := newFixture(t)
	job, booking := f.seedJob(enums.RepairStatusCreated, false)
	f.repo.estimated[booking.ID] = false

	if _, err := f.svc.Confirm(context.Background(), job.ID, booking.CustomerID); !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict without estimate, got %v", err)
	}
}

func TestUpdateDetailsProgressRules(t *testing.T) {
	f := newFixture(t)
	job, _ := f.seedJob(enums.RepairStatusCreated, false)

	progress := 40
	_, err := f.svc.UpdateDetails(context.Background(), UpdateDetailsInput{
		JobID:     job.ID,
		Progress:  &progress,
		ActorRole: enums.UserRoleStaff,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected progress blocked outside in_progress, got %v", err)
	}

	job.Status = enums.RepairStatusInProgress
	updated, err := f.svc.UpdateDetails(context.Background(), UpdateDetailsInput{
		JobID:     job.ID,
		Progress:  &progress,
		ActorRole: enums.UserRoleStaff,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Progress != 40 {
		t.Fatalf("expected progress 40, got %d", updated.Progress)
	}

	bad := 120
	_, err = f.svc.UpdateDetails(context.Background(), UpdateDetailsInput{
		JobID:     job.ID,
		Progress:  &bad,
		ActorRole: enums.UserRoleStaff,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
