package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

func serviceInput() PaymentInput {
	return PaymentInput{
		Kind:      PaymentService,
		Date:      time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
		Procedure: "Botox",
		Amount:    50000,
		Method:    MethodPix,
	}
}

func TestPaymentInput_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*PaymentInput)
		wantField string
		wantErr   bool
	}{
		{name: "valid service", mutate: func(*PaymentInput) {}},
		{name: "missing amount", mutate: func(in *PaymentInput) { in.Amount = 0 }, wantErr: true, wantField: "amount"},
		{name: "negative discount", mutate: func(in *PaymentInput) { in.Discount = -1 }, wantErr: true, wantField: "discount"},
		{name: "discount above amount", mutate: func(in *PaymentInput) { in.Discount = 60000 }, wantErr: true, wantField: "discount"},
		{name: "service without procedure", mutate: func(in *PaymentInput) { in.Procedure = "  " }, wantErr: true, wantField: "procedure"},
		{
			name: "product without product id",
			mutate: func(in *PaymentInput) {
				in.Kind = PaymentProduct
			},
			wantErr: true, wantField: "product_id",
		},
		{
			name: "split mismatch",
			mutate: func(in *PaymentInput) {
				in.Discount = 5000
				in.Split, in.Method2 = true, MethodCash
				in.Amount1, in.Amount2 = 20000, 20000
			},
			wantErr: true,
		},
		{
			name: "split matches final",
			mutate: func(in *PaymentInput) {
				in.Discount = 5000
				in.Split, in.Method2 = true, MethodCash
				in.Amount1, in.Amount2 = 25000, 20000
			},
		},
		{
			name: "split same method",
			mutate: func(in *PaymentInput) {
				in.Split, in.Method2 = true, MethodPix
				in.Amount1, in.Amount2 = 25000, 25000
			},
			wantErr: true, wantField: "payment_method_2",
		},
		{name: "unknown method", mutate: func(in *PaymentInput) { in.Method = "boleto" }, wantErr: true, wantField: "payment_method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := serviceInput()
			tt.mutate(&in)
			err := in.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, apperrors.GetField(err))
			}
		})
	}
}

func TestSplitMismatchMessage(t *testing.T) {
	in := serviceInput()
	in.Split, in.Method2 = true, MethodCredit
	in.Amount1, in.Amount2 = 10000, 10000
	err := in.Validate()
	require.Error(t, err)
	assert.Equal(t,
		"A soma dos pagamentos (R$ 200,00) deve ser igual ao valor final (R$ 500,00).",
		apperrors.UserMessage(err))
}

func TestBuildPayment_NonSplit(t *testing.T) {
	in := serviceInput()
	in.Discount = 10000
	require.NoError(t, in.Validate())

	p, err := in.BuildPayment("pat-1", nil)
	require.NoError(t, err)
	assert.Equal(t, Cents(40000), p.Amount)
	assert.Equal(t, Cents(40000), p.AmountMethod1)
	assert.Nil(t, p.AmountMethod2)
	assert.Nil(t, p.Method2)
	assert.False(t, p.Split())
	assert.Equal(t, "Botox", p.Procedure)
	assert.Equal(t, Cents(10000), p.Discount)
}

func TestBuildPayment_Split(t *testing.T) {
	in := serviceInput()
	in.Split, in.Method2 = true, MethodCash
	in.Amount1, in.Amount2 = 30000, 20000
	require.NoError(t, in.Validate())

	p, err := in.BuildPayment("pat-1", nil)
	require.NoError(t, err)
	require.NotNil(t, p.AmountMethod2)
	assert.Equal(t, Cents(20000), *p.AmountMethod2)
	assert.Equal(t, MethodCash, *p.Method2)
	assert.Equal(t, Cents(30000), p.AmountMethod1)
}

func TestBuildPayment_ProductSale(t *testing.T) {
	in := PaymentInput{Kind: PaymentProduct, ProductID: "prod-1", Quantity: 2, Amount: 12000}
	require.NoError(t, in.Validate())

	p, err := in.BuildPayment("pat-1", &Product{ID: "prod-1", Name: "Sérum C", Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, "Venda: Sérum C (2un)", p.Procedure)

	_, err = in.BuildPayment("pat-1", &Product{ID: "prod-1", Name: "Sérum C", Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, "quantity", apperrors.GetField(err))

	_, err = in.BuildPayment("pat-1", nil)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProductSaleDefaultsQuantity(t *testing.T) {
	in := PaymentInput{Kind: PaymentProduct, ProductID: "p", Amount: 100}
	require.NoError(t, in.Validate())
	assert.Equal(t, 1, in.Quantity)
}
