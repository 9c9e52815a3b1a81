package model

import "time"

// DashboardStats are the headline numbers of the home screen.
type DashboardStats struct {
	RevenueToday      Cents
	AppointmentsToday int
	NewPatientsMonth  int
	ExpiringProducts  []Product
	LowStockProducts  []Product
	UpcomingToday     []Appointment
	GeneratedAt       time.Time
}

// AlertCount is the number of stock alerts shown on the dashboard.
func (s DashboardStats) AlertCount() int { return len(s.ExpiringProducts) + len(s.LowStockProducts) }

// StockAlertPolicy holds the thresholds used for stock alerts.
type StockAlertPolicy struct {
	LowStockThreshold int
	ExpiryWindow      time.Duration
}

// ExpiringProducts filters products in stock expiring within the policy window.
func (p StockAlertPolicy) ExpiringProducts(products []Product, now time.Time) []Product {
	var out []Product
	for _, prod := range products {
		if prod.ExpiringWithin(now, p.ExpiryWindow) {
			out = append(out, prod)
		}
	}
	return out
}

// LowStockProducts filters products below the threshold.
func (p StockAlertPolicy) LowStockProducts(products []Product) []Product {
	var out []Product
	for _, prod := range products {
		if prod.LowStock(p.LowStockThreshold) {
			out = append(out, prod)
		}
	}
	return out
}

// Setting keys stored in clinic_settings.
const (
	SettingCalendarID = "calendar_id"
)
