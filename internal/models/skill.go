package models

import (
	"strings"
	"time"
)

// Domain groups related skills and carries the blueprint priority weight
// used when breaking daily-skill ties.
type Domain struct {
	ID     string  `json:"id" gorm:"primaryKey;size:32"`
	Name   string  `json:"name" gorm:"not null;size:100"`
	Weight float64 `json:"weight" gorm:"not null" validate:"min=0,max=1"`

	Skills []Skill `json:"skills,omitempty" gorm:"foreignKey:DomainID"`
}

// Skill is static reference data; skills are never created or destroyed
// at runtime.
type Skill struct {
	ID       string `json:"id" gorm:"primaryKey;size:32"`
	Name     string `json:"name" gorm:"not null;size:150"`
	DomainID string `json:"domain_id" gorm:"not null;size:32;index"`

	CreatedAt time.Time `json:"created_at"`

	Domain *Domain `json:"domain,omitempty" gorm:"foreignKey:DomainID"`
}

// IsMath reports whether the skill belongs to a math domain. The skill
// identifier naming convention (M_ prefix) is the authority; it drives
// the fluency target time in practice updates.
func (s Skill) IsMath() bool {
	return strings.HasPrefix(s.ID, "M_")
}

// IsMathSkillID is the identifier-only form of Skill.IsMath for callers
// that never load the full record.
func IsMathSkillID(skillID string) bool {
	return strings.HasPrefix(skillID, "M_")
}

func (Domain) TableName() string {
	return "domains"
}

func (Skill) TableName() string {
	return "skills"
}
