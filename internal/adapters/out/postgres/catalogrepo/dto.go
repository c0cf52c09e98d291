// Package catalogrepo persists the service catalog.
package catalogrepo

import (
	"orderdesk/internal/core/domain/model/catalog"
	"orderdesk/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ServiceDTO is the stored form of a catalog service.
type ServiceDTO struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                   string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Type                   int       `gorm:"type:smallint;not null"`
	TeamID                 uuid.UUID `gorm:"type:uuid;not null;index"`
	IsMandatory            bool      `gorm:"not null;default:false"`
	RequiresCompletionNote bool      `gorm:"not null;default:false"`
}

func (ServiceDTO) TableName() string {
	return "services"
}

func fromDomain(s *catalog.Service) ServiceDTO {
	return ServiceDTO{
		ID:                     s.ID().Bytes(),
		Name:                   s.Name(),
		Type:                   int(s.Type()),
		TeamID:                 s.TeamID().Bytes(),
		IsMandatory:            s.IsMandatory(),
		RequiresCompletionNote: s.RequiresCompletionNote(),
	}
}

// ToDomain rebuilds a catalog service. orderrepo uses it for the services its
// instances reference.
func ToDomain(dto ServiceDTO) (*catalog.Service, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	teamID, err := kernel.UUIDFromBytes(dto.TeamID[:])
	if err != nil {
		return nil, err
	}

	return catalog.NewService(id, dto.Name, catalog.Type(dto.Type), teamID, catalog.Options{
		Mandatory:              dto.IsMandatory,
		RequiresCompletionNote: dto.RequiresCompletionNote,
	})
}
