package model

// InvoiceSequence holds the last issued number per series. Numbers may be
// burned when a creating transaction aborts after the counter row was
// already bumped elsewhere; gapless numbering is not a goal.
type InvoiceSequence struct {
	Series     string `gorm:"type:varchar(10);primaryKey" json:"series"`
	LastNumber int64  `gorm:"not null;default:0" json:"last_number"`
}
