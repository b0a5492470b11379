// Package dbtest opens throwaway sqlite databases for transaction tests.
// The schema is declared as DDL mirroring the production migrations, with
// foreign keys and CHECK constraints intact, so a write that Postgres would
// reject fails here too.
package dbtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
)

var schema = []string{
	`CREATE TABLE users (
		id text PRIMARY KEY,
		email text NOT NULL UNIQUE,
		password_hash text NOT NULL,
		role text NOT NULL DEFAULT 'customer',
		is_active boolean NOT NULL DEFAULT true,
		last_login_at datetime,
		created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE customers (
		id text PRIMARY KEY,
		user_id text NOT NULL UNIQUE REFERENCES users (id) ON DELETE CASCADE,
		full_name text NOT NULL,
		phone text NOT NULL,
		created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE motorcycles (
		id text PRIMARY KEY,
		customer_id text NOT NULL REFERENCES customers (id) ON DELETE CASCADE,
		brand text NOT NULL,
		model text NOT NULL,
		license_plate text NOT NULL UNIQUE,
		year integer,
		created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE bookings (
		id text PRIMARY KEY,
		customer_id text NOT NULL REFERENCES customers (id),
		motorcycle_id text NOT NULL REFERENCES motorcycles (id),
		booking_time datetime NOT NULL,
		symptom_note text,
		status text NOT NULL DEFAULT 'pending',
		created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE estimates (
		id text PRIMARY KEY,
		booking_id text NOT NULL UNIQUE REFERENCES bookings (id) ON DELETE CASCADE,
		description text NOT NULL,
		estimated_cost numeric(12,2) NOT NULL,
		created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE parts (
		id text PRIMARY KEY,
		name text NOT NULL,
		description text,
		price numeric(12,2) NOT NULL,
		stock_qty integer NOT NULL DEFAULT 0 CHECK (stock_qty >= 0),
		created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE quotations (
		id text PRIMARY KEY,
		booking_id text NOT NULL UNIQUE REFERENCES bookings (id) ON DELETE CASCADE,
		total_amount numeric(12,2) NOT NULL,
		status text NOT NULL DEFAULT 'pending_customer_approval',
		created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE quotation_items (
		id text PRIMARY KEY,
		quotation_id text NOT NULL REFERENCES quotations (id) ON DELETE CASCADE,
		description text NOT NULL,
		part_id text REFERENCES parts (id),
		quantity integer NOT NULL DEFAULT 0,
		amount numeric(12,2) NOT NULL,
		created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE repair_jobs (
		id text PRIMARY KEY,
		booking_id text NOT NULL UNIQUE REFERENCES bookings (id),
		quotation_id text REFERENCES quotations (id),
		assigned_staff_id text REFERENCES users (id),
		status text NOT NULL DEFAULT 'created',
		progress integer NOT NULL DEFAULT 0 CHECK (progress BETWEEN 0 AND 100),
		labor_cost numeric(12,2) NOT NULL DEFAULT 0,
		customer_confirmed boolean NOT NULL DEFAULT false,
		note text,
		start_date datetime,
		end_date datetime,
		created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE repair_parts (
		id text PRIMARY KEY,
		repair_job_id text NOT NULL REFERENCES repair_jobs (id) ON DELETE CASCADE,
		part_id text NOT NULL REFERENCES parts (id),
		quantity integer NOT NULL CHECK (quantity > 0),
		unit_price numeric(12,2) NOT NULL,
		price_total numeric(12,2) NOT NULL,
		created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE payments (
		id text PRIMARY KEY,
		repair_job_id text NOT NULL UNIQUE REFERENCES repair_jobs (id),
		amount numeric(12,2) NOT NULL,
		method text NOT NULL DEFAULT 'cash',
		status text NOT NULL DEFAULT 'pending',
		paid_at datetime,
		created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE loyalty_points (
		id text PRIMARY KEY,
		customer_id text NOT NULL UNIQUE REFERENCES customers (id) ON DELETE CASCADE,
		total_points integer NOT NULL DEFAULT 0 CHECK (total_points >= 0),
		created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE point_transactions (
		id text PRIMARY KEY,
		loyalty_points_id text NOT NULL REFERENCES loyalty_points (id) ON DELETE CASCADE,
		payment_id text REFERENCES payments (id),
		event_type text NOT NULL,
		points integer NOT NULL,
		description text,
		created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Open returns an isolated in-memory database with foreign keys enforced on
// every pooled connection.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("create test schema: %v", err)
		}
	}
	return conn
}

// SeedCustomer inserts a user and its customer profile.
func SeedCustomer(t *testing.T, conn *gorm.DB) *models.Customer {
	t.Helper()

	user := &models.User{
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()),
		PasswordHash: "x",
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	customer := &models.Customer{
		UserID:   user.ID,
		FullName: "Test Rider",
		Phone:    "0800000000",
	}
	if err := conn.Create(customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return customer
}

// SeedBooking inserts the full user, customer and motorcycle chain behind a
// pending booking.
func SeedBooking(t *testing.T, conn *gorm.DB) *models.Booking {
	t.Helper()

	customer := SeedCustomer(t, conn)
	motorcycle := &models.Motorcycle{
		CustomerID:   customer.ID,
		Brand:        "Honda",
		Model:        "CB500X",
		LicensePlate: uuid.NewString(),
	}
	if err := conn.Create(motorcycle).Error; err != nil {
		t.Fatalf("seed motorcycle: %v", err)
	}
	booking := &models.Booking{
		CustomerID:   customer.ID,
		MotorcycleID: motorcycle.ID,
		BookingTime:  time.Now().Add(24 * time.Hour),
		Status:       enums.BookingStatusConfirmed,
	}
	if err := conn.Create(booking).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	booking.Customer = customer
	return booking
}

// SeedPart inserts a catalog part.
func SeedPart(t *testing.T, conn *gorm.DB, name string, price int64, stock int) *models.Part {
	t.Helper()

	part := &models.Part{
		Name:     name,
		Price:    decimal.NewFromInt(price),
		StockQty: stock,
	}
	if err := conn.Create(part).Error; err != nil {
		t.Fatalf("seed part: %v", err)
	}
	return part
}

// SeedPayment inserts a pending payment together with the booking and repair
// job it hangs off.
func SeedPayment(t *testing.T, conn *gorm.DB, amount int64) *models.Payment {
	t.Helper()

	booking := SeedBooking(t, conn)
	job := &models.RepairJob{
		BookingID: booking.ID,
		Status:    enums.RepairStatusDelivered,
	}
	if err := conn.Create(job).Error; err != nil {
		t.Fatalf("seed repair job: %v", err)
	}
	payment := &models.Payment{
		RepairJobID: job.ID,
		Amount:      decimal.NewFromInt(amount),
		Method:      enums.PaymentMethodCash,
		Status:      enums.PaymentStatusPending,
	}
	if err := conn.Create(payment).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	payment.RepairJob = job
	return payment
}
