package warehouse

import (
	"context"

	"gorm.io/gorm"

	"github.com/mmdatafocus/tally-warehouse-sync/models"
	"github.com/mmdatafocus/tally-warehouse-sync/utils"
)

// UpsertCustomer inserts or updates the party master. Optional fields
// follow spec.md §4.4's "new non-empty overrides else keep existing"
// policy rather than a blind overwrite, so a later voucher with thinner
// party data can't erase enrichment from an earlier one.
func UpsertCustomer(ctx context.Context, tx *gorm.DB, customerID, name string, gstin, pincode, city *string) error {
	var existing models.CustomerDim
	err := tx.WithContext(ctx).Where("customer_id = ?", customerID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		row := models.CustomerDim{
			CustomerID: customerID,
			Name:       name,
			GSTIN:      nonEmpty(gstin),
			Pincode:    nonEmpty(pincode),
			City:       nonEmpty(city),
		}
		if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
			return utils.NewError(utils.WarehouseError, "create customer", err)
		}
		return nil
	}
	if err != nil {
		return utils.NewError(utils.WarehouseError, "fetch customer", err)
	}

	if name != "" {
		existing.Name = name
	}
	if v := nonEmpty(gstin); v != nil {
		existing.GSTIN = v
	}
	if v := nonEmpty(pincode); v != nil {
		existing.Pincode = v
	}
	if v := nonEmpty(city); v != nil {
		existing.City = v
	}
	if err := tx.WithContext(ctx).Save(&existing).Error; err != nil {
		return utils.NewError(utils.WarehouseError, "update customer", err)
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
