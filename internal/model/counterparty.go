package model

type CounterpartyKind string

const (
	CounterpartyCustomer CounterpartyKind = "customer"
	CounterpartySupplier CounterpartyKind = "supplier"
)

func (k CounterpartyKind) Valid() bool {
	return k == CounterpartyCustomer || k == CounterpartySupplier
}

// Counterparty is the customer or supplier an invoice is issued against.
type Counterparty struct {
	BaseModel
	Kind  CounterpartyKind `gorm:"type:varchar(10);not null;index" json:"kind" validate:"required,oneof=customer supplier"`
	Name  string           `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone string           `gorm:"type:varchar(30)" json:"phone"`
}
