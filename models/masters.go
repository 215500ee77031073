package models

import "time"

// LedgerGroupDim is Tally's hierarchical chart-of-accounts group.
type LedgerGroupDim struct {
	GroupID    uint    `gorm:"primary_key;column:group_id"`
	GUID       *string `gorm:"uniqueIndex"`
	Name       string  `gorm:"uniqueIndex;not null"`
	ParentName *string `gorm:"column:parent_name"`
	AlterID    *string `gorm:"column:alter_id"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (LedgerGroupDim) TableName() string {
	return "ledger_group_dim"
}

// StockGroupDim is Tally's hierarchical stock-item grouping.
type StockGroupDim struct {
	GroupID    uint    `gorm:"primary_key;column:group_id"`
	GUID       *string `gorm:"uniqueIndex"`
	Name       string  `gorm:"uniqueIndex;not null"`
	ParentName *string `gorm:"column:parent_name"`
	AlterID    *string `gorm:"column:alter_id"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (StockGroupDim) TableName() string {
	return "stock_group_dim"
}

// ItemDim is a Tally stock item master row.
type ItemDim struct {
	ItemID     uint    `gorm:"primary_key;column:item_id"`
	GUID       *string `gorm:"uniqueIndex"`
	Name       string  `gorm:"uniqueIndex;not null"`
	ParentName *string `gorm:"column:parent_name"`
	BaseUnits  *string `gorm:"column:base_units"`
	HSNCode    *string `gorm:"column:hsn_code"`
	Brand      *string
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (ItemDim) TableName() string {
	return "item_dim"
}

// UomDim is a Tally unit-of-measure master row, keyed by name.
type UomDim struct {
	Name       string  `gorm:"primary_key"`
	GSTRepUOM  *string `gorm:"column:gst_rep_uom"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (UomDim) TableName() string {
	return "uom_dim"
}
