// Package teamrepo persists team memberships, the source of an actor's teams
// and leadership.
package teamrepo

import (
	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type MembershipDTO struct {
	TeamID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	IsLeader bool      `gorm:"not null;default:false"`
	IsActive bool      `gorm:"not null;default:true"`
}

func (MembershipDTO) TableName() string {
	return "team_memberships"
}

func fromDomain(m access.Membership) MembershipDTO {
	return MembershipDTO{
		TeamID:   m.TeamID().Bytes(),
		UserID:   m.UserID().Bytes(),
		IsLeader: m.IsLeader(),
		IsActive: m.IsActive(),
	}
}

func toDomain(dto MembershipDTO) (access.Membership, error) {
	teamID, err := kernel.UUIDFromBytes(dto.TeamID[:])
	if err != nil {
		return access.Membership{}, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return access.Membership{}, err
	}
	return access.NewMembership(teamID, userID, dto.IsLeader, dto.IsActive)
}
