package postgres

import (
	"github.com/SAP-F-2025/diagnostic-service/internal/repositories"
	"gorm.io/gorm"
)

type Manager struct {
	session  repositories.SessionRepository
	profile  repositories.ProfileRepository
	question repositories.QuestionRepository
	skill    repositories.SkillRepository
}

func NewManager(db *gorm.DB) repositories.Repository {
	return &Manager{
		session:  NewSessionPostgreSQL(db),
		profile:  NewProfilePostgreSQL(db),
		question: NewQuestionPostgreSQL(db),
		skill:    NewSkillPostgreSQL(db),
	}
}

func (m *Manager) Session() repositories.SessionRepository   { return m.session }
func (m *Manager) Profile() repositories.ProfileRepository   { return m.profile }
func (m *Manager) Question() repositories.QuestionRepository { return m.question }
func (m *Manager) Skill() repositories.SkillRepository       { return m.skill }
