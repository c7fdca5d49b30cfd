package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/joban727/medstintapp-sub005/config"
	"github.com/joban727/medstintapp-sub005/internal/dto"
	"github.com/joban727/medstintapp-sub005/internal/model"
	"github.com/joban727/medstintapp-sub005/internal/repository"
)

// ── report errors ──

var (
	ErrReportForbidden    = errors.New("insufficient permissions to view competency reports")
	ErrExportGenerateFail = errors.New("failed to generate the spreadsheet")
)

// ReportService competency progress reporting.
//
// The export is returned as a buffer; the handler sets the download headers.
type ReportService interface {
	ProgressReport(ctx context.Context, caller dto.Caller, req *dto.ProgressReportRequest) (*dto.ProgressReportResponse, error)
	// ExportProgressReport renders ProgressReport as an .xlsx workbook and
	// returns it with a suggested file name.
	ExportProgressReport(ctx context.Context, caller dto.Caller, req *dto.ProgressReportRequest) (*bytes.Buffer, string, error)
}

type reportService struct {
	repo   *repository.Repository
	audit  AuditService
	cfg    config.DashboardConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewReportService creates a ReportService.
func NewReportService(cfg config.DashboardConfig, repo *repository.Repository, audit AuditService, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, audit: audit, cfg: cfg, logger: logger, now: time.Now}
}

// reportScope resolves the school a caller may report on. Super admins may
// pick any school or none; other staff are pinned to their own.
func reportScope(caller dto.Caller, requested string) (string, error) {
	switch caller.Role {
	case model.RoleSuperAdmin:
		return requested, nil
	case model.RoleSchoolAdmin, model.RoleClinicalSupervisor:
		if !caller.HasSchool() {
			return "", ErrReportForbidden
		}
		return caller.SchoolID, nil
	}
	return "", ErrReportForbidden
}

func (s *reportService) ProgressReport(ctx context.Context, caller dto.Caller, req *dto.ProgressReportRequest) (*dto.ProgressReportResponse, error) {
	schoolID, err := reportScope(caller, req.SchoolID)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "ReportService.ProgressReport")
	defer span.End()
	span.SetAttributes(
		attribute.String("school.id", schoolID),
		attribute.String("deployment.id", req.DeploymentID),
	)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	rows, err := s.repo.Assignment.ProgressReport(ctx, repository.ProgressReportFilter{
		SchoolID:     schoolID,
		DeploymentID: req.DeploymentID,
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrQueryTimeout
		}
		s.logger.Error("competency progress report failed", zap.String("school_id", schoolID), zap.Error(err))
		return nil, err
	}

	resp := &dto.ProgressReportResponse{
		SchoolID:     schoolID,
		DeploymentID: req.DeploymentID,
		Rows:         make([]dto.StudentProgressRow, 0, len(rows)),
		GeneratedAt:  s.now().UTC().Format(time.RFC3339),
	}
	for _, r := range rows {
		resp.Rows = append(resp.Rows, dto.StudentProgressRow{
			StudentID:       r.StudentID,
			StudentName:     r.StudentName,
			StudentEmail:    r.StudentEmail,
			Assignments:     r.Total,
			Completed:       r.Completed,
			InProgress:      r.InProgress,
			Overdue:         r.Overdue,
			AverageProgress: r.AverageProgress,
		})
	}
	return resp, nil
}

// ═══════════════════════════════════════════════════════════
// ExportProgressReport
// ═══════════════════════════════════════════════════════════
//
// Layout:
//   - one sheet "Competency Progress"
//   - row 1: title, merged across all columns
//   - row 2: headers
//   - one row per student, sorted by name

var progressHeaders = []string{
	"Student", "Email", "Assignments", "Completed", "In Progress", "Overdue", "Average Progress (%)",
}

func (s *reportService) ExportProgressReport(ctx context.Context, caller dto.Caller, req *dto.ProgressReportRequest) (*bytes.Buffer, string, error) {
	report, err := s.ProgressReport(ctx, caller, req)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Competency Progress"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	_ = f.SetColWidth(sheet, "A", "B", 28)
	_ = f.SetColWidth(sheet, "C", "G", 16)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	percentStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 2})

	title := fmt.Sprintf("Competency progress, generated %s", report.GeneratedAt)
	_ = f.SetCellValue(sheet, "A1", title)
	_ = f.MergeCell(sheet, "A1", cell(colName(len(progressHeaders)-1), 1))

	for i, h := range progressHeaders {
		_ = f.SetCellValue(sheet, cell(colName(i), 2), h)
	}
	_ = f.SetCellStyle(sheet, "A2", cell(colName(len(progressHeaders)-1), 2), headerStyle)

	row := 3
	for _, r := range report.Rows {
		values := []interface{}{
			r.StudentName, r.StudentEmail, r.Assignments, r.Completed, r.InProgress, r.Overdue, r.AverageProgress,
		}
		for i, v := range values {
			_ = f.SetCellValue(sheet, cell(colName(i), row), v)
		}
		_ = f.SetCellStyle(sheet, cell("G", row), cell("G", row), percentStyle)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write xlsx failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	if err := s.audit.Log(ctx, AuditEntry{
		UserID:   caller.UserID,
		Action:   ActionProgressReportExported,
		Resource: "competency_progress_report",
		Details: map[string]interface{}{
			"schoolId":     report.SchoolID,
			"deploymentId": report.DeploymentID,
			"rows":         len(report.Rows),
		},
		IPAddress: caller.ClientIP,
		UserAgent: caller.UserAgent,
	}); err != nil {
		s.logger.Warn("audit report export failed", zap.Error(err))
	}

	filename := fmt.Sprintf("competency-progress-%s.xlsx", s.now().UTC().Format("20060102"))
	return buf, filename, nil
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
