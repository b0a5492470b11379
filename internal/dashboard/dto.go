package dashboard

import (
	"github.com/shopspring/decimal"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
)

// Kind discriminates the role-shaped dashboard payloads.
type Kind string

const (
	KindStaff    Kind = "staff"
	KindCustomer Kind = "customer"
)

// StaffDashboard summarizes shop-wide workload and revenue.
type StaffDashboard struct {
	PendingBookings  int64            `json:"pending_bookings"`
	ActiveRepairs    int64            `json:"active_repairs"`
	LowStockParts    []models.Part    `json:"low_stock_parts"`
	CollectedRevenue decimal.Decimal  `json:"collected_revenue"`
	NextBookings     []models.Booking `json:"next_bookings"`
}

// CustomerDashboard summarizes a single customer's activity.
type CustomerDashboard struct {
	TotalBookings  int64              `json:"total_bookings"`
	RecentBookings []models.Booking   `json:"recent_bookings"`
	ActiveRepairs  []models.RepairJob `json:"active_repairs"`
	PointsBalance  int                `json:"points_balance"`
}

// Dashboard is a tagged union: exactly one of Staff or Customer is set,
// named by Kind.
type Dashboard struct {
	Kind     Kind               `json:"kind"`
	Staff    *StaffDashboard    `json:"staff,omitempty"`
	Customer *CustomerDashboard `json:"customer,omitempty"`
}
