package models

import (
	"time"

	"github.com/roms-agency/roms-backend/pkg/enums"
)

// User is the identity boundary: core services receive an already-authorized
// actor id and role from token claims and do not enforce roles themselves.
type User struct {
	ID        int64            `gorm:"column:id;primaryKey;autoIncrement"`
	Email     string           `gorm:"column:email;not null;uniqueIndex"`
	FullName  string           `gorm:"column:full_name;not null"`
	Role      enums.MemberRole `gorm:"column:role;type:text;not null;default:'applicant'"`
	IsActive  bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
