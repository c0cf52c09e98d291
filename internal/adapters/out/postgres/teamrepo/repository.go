package teamrepo

import (
	"context"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTeamRepository implements TeamRepository using GORM.
type GormTeamRepository struct {
	db *gorm.DB
}

func NewGormTeamRepository(db *gorm.DB) *GormTeamRepository {
	return &GormTeamRepository{db: db}
}

// SaveMembership upserts on (team_id, user_id).
func (r *GormTeamRepository) SaveMembership(ctx context.Context, membership access.Membership) error {
	if err := membership.Validate(); err != nil {
		return err
	}

	dto := fromDomain(membership)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "team_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_leader", "is_active"}),
		}).
		Create(&dto).Error
}

func (r *GormTeamRepository) MembershipsOfUser(ctx context.Context, userID kernel.UUID) ([]access.Membership, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}

	var dtos []MembershipDTO
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID.Bytes()).Find(&dtos).Error; err != nil {
		return nil, err
	}

	memberships := make([]access.Membership, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, nil
}
