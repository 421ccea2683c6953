package entity

import (
	"github.com/google/uuid"
)

type ServiceCategory string

const (
	CategoryTutor    ServiceCategory = "Tutor"
	CategoryRepair   ServiceCategory = "Repair"
	CategoryBusiness ServiceCategory = "Business"
)

// ServiceCategories is the one enumeration shared by validation, storage
// and the categories endpoint consumed by clients.
var ServiceCategories = []ServiceCategory{
	CategoryTutor,
	CategoryRepair,
	CategoryBusiness,
}

func (c ServiceCategory) IsValid() bool {
	for _, known := range ServiceCategories {
		if c == known {
			return true
		}
	}
	return false
}

type Service struct {
	Base
	Title       string          `db:"title"`
	Category    ServiceCategory `db:"category"`
	Description string          `db:"description"`
	Contact     string          `db:"contact"`
	Price       float64         `db:"price"`
	ImageURL    string          `db:"image_url"`
	OwnerID     *uuid.UUID      `db:"owner_id"`
	Status      ApprovalStatus  `db:"status"`
}

type ServiceWithOwner struct {
	Service
	Owner *User
}
