package model

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

// PaymentMethod is how a payment (or one half of a split payment) was made.
type PaymentMethod string

const (
	MethodPix    PaymentMethod = "pix"
	MethodCredit PaymentMethod = "credit"
	MethodDebit  PaymentMethod = "debit"
	MethodCash   PaymentMethod = "cash"
)

// PaymentMethods lists the accepted methods in form order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{MethodPix, MethodCredit, MethodDebit, MethodCash}
}

// Valid reports whether the method is supported.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodPix, MethodCredit, MethodDebit, MethodCash:
		return true
	default:
		return false
	}
}

// Label returns the Portuguese label.
func (m PaymentMethod) Label() string {
	switch m {
	case MethodPix:
		return "Pix"
	case MethodCredit:
		return "Cartão de Crédito"
	case MethodDebit:
		return "Cartão de Débito"
	case MethodCash:
		return "Dinheiro"
	default:
		return string(m)
	}
}

// PaymentKind distinguishes service payments from product sales.
type PaymentKind string

const (
	PaymentService PaymentKind = "service"
	PaymentProduct PaymentKind = "product"
)

// Payment is a recorded patient payment. Amount is the final amount after discount.
type Payment struct {
	ID            string         `json:"id"                         db:"id"`
	PatientID     string         `json:"patient_id"                 db:"patient_id"`
	PatientName   string         `json:"patient_name,omitempty"     db:"patient_name"`
	Date          time.Time      `json:"date"                       db:"date"`
	Procedure     string         `json:"procedure"                  db:"procedure"`
	Amount        Cents          `json:"amount"                     db:"amount"`
	Method        PaymentMethod  `json:"payment_method"             db:"payment_method"`
	Method2       *PaymentMethod `json:"payment_method_2,omitempty" db:"payment_method_2"`
	AmountMethod1 Cents          `json:"amount_method_1"            db:"amount_method_1"`
	AmountMethod2 *Cents         `json:"amount_method_2,omitempty"  db:"amount_method_2"`
	Discount      Cents          `json:"discount"                   db:"discount"`
	Observation   string         `json:"observation,omitempty"      db:"observation"`
	ReceiptURL    string         `json:"receipt_url,omitempty"      db:"receipt_url"`
	CreatedAt     time.Time      `json:"created_at"                 db:"created_at"`
}

// Split reports whether the payment was divided between two methods.
func (p Payment) Split() bool { return p.Method2 != nil }

// PaymentInput is the payment form as submitted.
type PaymentInput struct {
	Kind        PaymentKind
	Date        time.Time
	Procedure   string // service payments
	ProductID   string // product sales
	Quantity    int    // product sales, defaults to 1
	Amount      Cents  // original amount, before discount
	Discount    Cents
	Method      PaymentMethod
	Split       bool
	Method2     PaymentMethod
	Amount1     Cents
	Amount2     Cents
	Observation string
	ReceiptURL  string
}

// FinalAmount is the amount due after discount. It may be negative for invalid input;
// use FinalAmount().NonNegative() for display.
func (in PaymentInput) FinalAmount() Cents { return in.Amount - in.Discount }

// Validate checks everything that does not depend on the product catalog.
func (in *PaymentInput) Validate() error {
	in.Procedure = strings.TrimSpace(in.Procedure)
	in.Observation = strings.TrimSpace(in.Observation)
	in.ReceiptURL = strings.TrimSpace(in.ReceiptURL)
	if in.Kind == "" {
		in.Kind = PaymentService
	}
	if in.Method == "" {
		in.Method = MethodPix
	}

	if in.Amount <= 0 {
		return apperrors.ValidationField("amount", "Informe o valor do pagamento.")
	}
	if in.Discount < 0 {
		return apperrors.ValidationField("discount", "O desconto não pode ser negativo.")
	}
	if in.Discount > in.Amount {
		return apperrors.ValidationField("discount", "O desconto não pode ser maior que o valor.")
	}
	if !in.Method.Valid() {
		return apperrors.ValidationField("payment_method", "Forma de pagamento inválida.")
	}

	switch in.Kind {
	case PaymentService:
		if in.Procedure == "" {
			return apperrors.ValidationField("procedure", "Informe o nome do procedimento.")
		}
	case PaymentProduct:
		if strings.TrimSpace(in.ProductID) == "" {
			return apperrors.ValidationField("product_id", "Selecione um produto.")
		}
		if in.Quantity == 0 {
			in.Quantity = 1
		}
		if in.Quantity < 0 {
			return apperrors.ValidationField("quantity", "Quantidade inválida.")
		}
	default:
		return apperrors.Validation("Tipo de pagamento inválido.")
	}

	if in.Split {
		if !in.Method2.Valid() {
			return apperrors.ValidationField("payment_method_2", "Selecione a segunda forma de pagamento.")
		}
		if in.Method2 == in.Method {
			return apperrors.ValidationField("payment_method_2", "As formas de pagamento devem ser diferentes.")
		}
		if in.Amount1 < 0 || in.Amount2 < 0 {
			return apperrors.Validation("Os valores divididos não podem ser negativos.")
		}
		if sum, final := in.Amount1+in.Amount2, in.FinalAmount(); sum != final {
			return apperrors.Validationf(
				"A soma dos pagamentos (%s) deve ser igual ao valor final (%s).", sum, final)
		}
	}
	return nil
}

// SaleProcedure names a product sale as it appears in the ledger.
func SaleProcedure(productName string, qty int) string {
	return fmt.Sprintf("Venda: %s (%dun)", productName, qty)
}

// BuildPayment turns a validated input into the payment row to insert.
// product must be set for product sales.
func (in PaymentInput) BuildPayment(patientID string, product *Product) (Payment, error) {
	p := Payment{
		PatientID:   patientID,
		Date:        in.Date,
		Procedure:   in.Procedure,
		Amount:      in.FinalAmount(),
		Method:      in.Method,
		Discount:    in.Discount,
		Observation: in.Observation,
		ReceiptURL:  in.ReceiptURL,
	}
	if in.Kind == PaymentProduct {
		if product == nil {
			return Payment{}, apperrors.NotFound("Produto não encontrado.")
		}
		if product.Quantity < in.Quantity {
			return Payment{}, apperrors.ValidationField("quantity",
				fmt.Sprintf("Estoque insuficiente: %d unidade(s) disponível(is).", product.Quantity))
		}
		p.Procedure = SaleProcedure(product.Name, in.Quantity)
	}
	if in.Split {
		m2, a2 := in.Method2, in.Amount2
		p.Method2 = &m2
		p.AmountMethod1 = in.Amount1
		p.AmountMethod2 = &a2
	} else {
		p.AmountMethod1 = p.Amount
	}
	return p, nil
}
