package models

import (
	"log"

	"gorm.io/gorm"
)

// MigrateTable reconciles the warehouse schema against the models declared
// in this package. The core does not hand-design SQL DDL; it declares Go
// structs and lets GORM's AutoMigrate own the reconciliation.
func MigrateTable(db *gorm.DB) {
	err := db.AutoMigrate(
		&CustomerDim{},
		&InvoiceHeader{},
		&InvoiceLine{},
		&Receipt{},
		&LedgerGroupDim{},
		&StockGroupDim{},
		&ItemDim{},
		&UomDim{},
		&OpeningBill{},
		&BillMovement{},
		&BillReceivableFact{},
		&Checkpoint{},
		&RunLog{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
