package models

import "time"

// CustomerDim is the party master, enriched opportunistically from voucher
// party fields as vouchers are ingested.
type CustomerDim struct {
	CustomerID       string `gorm:"primary_key;column:customer_id"`
	Name             string `gorm:"not null"`
	GSTIN            *string
	Pincode          *string
	City             *string
	LedgerGroupName  *string
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

func (CustomerDim) TableName() string {
	return "customer_dim"
}
