package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStockAlertPolicy(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time { v := now.Add(d); return &v }
	policy := StockAlertPolicy{LowStockThreshold: 5, ExpiryWindow: 30 * 24 * time.Hour}

	products := []Product{
		{ID: "in-window", Quantity: 10, ExpiryDate: at(10 * 24 * time.Hour)},
		{ID: "window-edge", Quantity: 10, ExpiryDate: at(30 * 24 * time.Hour)},
		{ID: "past-window", Quantity: 10, ExpiryDate: at(31 * 24 * time.Hour)},
		{ID: "already-expired", Quantity: 10, ExpiryDate: at(-time.Hour)},
		{ID: "out-of-stock", Quantity: 0, ExpiryDate: at(time.Hour)},
		{ID: "no-expiry", Quantity: 4},
	}

	expiring := policy.ExpiringProducts(products, now)
	assert.Equal(t, []string{"in-window", "window-edge"}, productIDs(expiring))

	low := policy.LowStockProducts(products)
	assert.Equal(t, []string{"out-of-stock", "no-expiry"}, productIDs(low))

	assert.True(t, products[3].Expired(now))
	assert.False(t, products[0].Expired(now))
}

func TestProductInput_Validate(t *testing.T) {
	in := ProductInput{Name: " Ácido ", Quantity: 3}
	assert.NoError(t, in.Validate())
	assert.Equal(t, "Ácido", in.Name)

	assert.Error(t, (&ProductInput{}).Validate())
	assert.Error(t, (&ProductInput{Name: "x", Quantity: -1}).Validate())
	assert.Error(t, (&ProductInput{Name: "x", SalePrice: -1}).Validate())
}

func TestTimeRanges(t *testing.T) {
	// Thursday
	ts := time.Date(2025, 5, 15, 18, 30, 0, 0, time.UTC)
	week := WeekOf(ts)
	assert.Equal(t, time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC), week.From)
	assert.Equal(t, time.Date(2025, 5, 19, 0, 0, 0, 0, time.UTC), week.To)

	sunday := time.Date(2025, 5, 18, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, week, WeekOf(sunday))

	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), MonthOf(ts).From)
	assert.Equal(t, time.Date(2025, 5, 16, 0, 0, 0, 0, time.UTC), DayOf(ts).To)
}

func TestPatientInput_Validate(t *testing.T) {
	age := 200
	assert.Error(t, (&PatientInput{Name: "Ana", Age: &age}).Validate())
	assert.Error(t, (&PatientInput{Name: ""}).Validate())
	assert.Error(t, (&PatientInput{Name: "Ana", PhotoURL: "ftp://x"}).Validate())
	assert.NoError(t, (&PatientInput{Name: "Ana", PhotoURL: "https://cdn/x.jpg"}).Validate())
}

func productIDs(ps []Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}
