// Package customerrepo provides data transfer objects and mapping functions
// for customer persistence.
package customerrepo

import (
	"orderflow/internal/core/domain/model/customer"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CustomerDTO represents the database structure for customers.
type CustomerDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name              string
	Email             string `gorm:"uniqueIndex"`
	Phone             string
	Tier              int
	SkinProfile       string
	CompletedSkinQuiz bool
}

// TableName specifies the database table name for customer entities.
func (CustomerDTO) TableName() string {
	return "customers"
}

// toDomain converts a database DTO to a customer domain entity.
func toDomain(dto CustomerDTO) (*customer.Customer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return customer.RestoreCustomer(
		id,
		dto.Name,
		dto.Email,
		dto.Phone,
		customer.Tier(dto.Tier),
		customer.SkinProfile(dto.SkinProfile),
		dto.CompletedSkinQuiz,
	)
}
