package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/SAP-F-2025/diagnostic-service/internal/repositories"
)

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportDiagnosticReport renders a completed diagnostic as an Excel
// workbook: one sheet of per-skill accuracy stats, one of the stored
// mastery map. Requires a completed session.
func (s *reportService) ExportDiagnosticReport(ctx context.Context, studentID string) ([]byte, error) {
	session, err := s.repo.Session().GetByStudentID(ctx, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session.Status != models.StatusCompleted {
		return nil, ErrNoDiagnostic
	}

	skills, err := s.repo.Skill().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	skillNames := make(map[string]string, len(skills))
	for _, sk := range skills {
		skillNames[sk.ID] = sk.Name
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := s.writeSkillStatsSheet(f, session, skillNames); err != nil {
		return nil, err
	}
	if err := s.writeMasterySheet(f, session, skillNames); err != nil {
		return nil, err
	}

	// Drop excelize's default sheet so the report opens on skill stats.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *reportService) writeSkillStatsSheet(f *excelize.File, session *models.DiagnosticSession, skillNames map[string]string) error {
	sheetName := "Skill Stats"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"Skill ID", "Skill Name", "Correct", "Total", "Accuracy", "Points Accuracy", "Level",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	summary := session.Summary.Data()
	for rowIndex, stat := range summary.SkillStats {
		row := []interface{}{
			stat.SkillID,
			skillNames[stat.SkillID],
			stat.Correct,
			stat.Total,
			fmt.Sprintf("%.1f%%", stat.Accuracy*100),
			fmt.Sprintf("%.1f%%", stat.PointsAccuracy*100),
			string(stat.Level),
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}
	return nil
}

func (s *reportService) writeMasterySheet(f *excelize.File, session *models.DiagnosticSession, skillNames map[string]string) error {
	sheetName := "Mastery"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	headers := []string{"Skill ID", "Skill Name", "Mastery %", "Recommended", "Daily Skill"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	recommended := make(map[string]bool)
	for _, id := range session.RecommendedSkills.Data() {
		recommended[id] = true
	}

	mastery := jsonMapToMastery(session.MasteryBySkill)
	skillIDs := make([]string, 0, len(mastery))
	for id := range mastery {
		skillIDs = append(skillIDs, id)
	}
	sort.Strings(skillIDs)

	row := 2
	for _, skillID := range skillIDs {
		values := []interface{}{
			skillID,
			skillNames[skillID],
			mastery[skillID],
			recommended[skillID],
			session.DailySkillID != nil && *session.DailySkillID == skillID,
		}
		for colIndex, value := range values {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, row)
			f.SetCellValue(sheetName, cell, value)
		}
		row++
	}
	return nil
}
