package models

import "time"

// PaymentMethod и PaymentStatus соответствуют ENUM'ам в БД.
type PaymentMethod string

const (
	MethodCard     PaymentMethod = "card"
	MethodCash     PaymentMethod = "cash"
	MethodTransfer PaymentMethod = "transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCard, MethodCash, MethodTransfer:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Payment принадлежит ровно одной записи Enrollment и живет столько же.
// Amount фиксируется по взносу инстанса в момент записи.
type Payment struct {
	ID        int           `json:"id"`
	Reference string        `json:"reference"`
	Method    PaymentMethod `json:"method"`
	Status    PaymentStatus `json:"status"`
	Amount    float64       `json:"amount"`
	CreatedAt time.Time     `json:"created_at"`
}

// Sentinels used where a roster or listing row has no payment to show.
// Клиенты рендерят их как есть, null не отдаем.
const (
	NoPaymentStatus = "no payment"
	NoPaymentMethod = "n/a"
)
