package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/joban727/medstintapp-sub005/internal/dto"
	"github.com/joban727/medstintapp-sub005/internal/model"
)

func TestReportScope(t *testing.T) {
	tests := []struct {
		name      string
		caller    dto.Caller
		requested string
		want      string
		err       error
	}{
		{"super admin picks school", dto.Caller{Role: model.RoleSuperAdmin}, otherSchool, otherSchool, nil},
		{"super admin all schools", dto.Caller{Role: model.RoleSuperAdmin}, "", "", nil},
		{"school admin pinned", dto.Caller{Role: model.RoleSchoolAdmin, SchoolID: testSchool}, otherSchool, testSchool, nil},
		{"supervisor without school", dto.Caller{Role: model.RoleClinicalSupervisor}, "", "", ErrReportForbidden},
		{"preceptor", dto.Caller{Role: model.RoleClinicalPreceptor, SchoolID: testSchool}, "", "", ErrReportForbidden},
		{"student", dto.Caller{Role: model.RoleStudent, SchoolID: testSchool}, "", "", ErrReportForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reportScope(tt.caller, tt.requested)
			if !errors.Is(err, tt.err) || got != tt.want {
				t.Errorf("got %q, %v; want %q, %v", got, err, tt.want, tt.err)
			}
		})
	}
}

func TestReportService_ProgressReport(t *testing.T) {
	f := newFixture(t, 2)
	f.setAssignment("assign-1", model.AssignmentCompleted, 100)
	admin := dto.Caller{UserID: testSchoolAdmin, Role: model.RoleSchoolAdmin, SchoolID: testSchool}

	resp, err := f.svc.Report.ProgressReport(context.Background(), admin, &dto.ProgressReportRequest{DeploymentID: testDeployment})
	if err != nil {
		t.Fatalf("ProgressReport: %v", err)
	}
	if len(resp.Rows) != 1 {
		t.Fatalf("rows = %+v", resp.Rows)
	}
	row := resp.Rows[0]
	if row.StudentID != testStudent || row.Assignments != 2 || row.Completed != 1 || row.AverageProgress != 50 {
		t.Errorf("row = %+v", row)
	}
	if resp.SchoolID != testSchool {
		t.Errorf("school = %q", resp.SchoolID)
	}
}

func TestReportService_ExportProgressReport(t *testing.T) {
	f := newFixture(t, 2)
	admin := dto.Caller{UserID: testSuperAdmin, Role: model.RoleSuperAdmin}

	buf, filename, err := f.svc.Report.ExportProgressReport(context.Background(), admin, &dto.ProgressReportRequest{})
	if err != nil {
		t.Fatalf("ExportProgressReport: %v", err)
	}
	if !strings.HasPrefix(filename, "competency-progress-") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("filename = %q", filename)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer wb.Close()

	header, _ := wb.GetCellValue("Competency Progress", "A2")
	if header != "Student" {
		t.Errorf("A2 = %q, want Student", header)
	}
	name, _ := wb.GetCellValue("Competency Progress", "A3")
	if name != "Avery Student" {
		t.Errorf("A3 = %q, want Avery Student", name)
	}
	count, _ := wb.GetCellValue("Competency Progress", "C3")
	if count != "2" {
		t.Errorf("C3 = %q, want 2", count)
	}

	if actions := f.auditActions(); len(actions) != 1 || actions[0] != ActionProgressReportExported {
		t.Errorf("audit actions = %v", actions)
	}
}

func TestReportService_Forbidden(t *testing.T) {
	f := newFixture(t, 1)
	student := dto.Caller{UserID: testStudent, Role: model.RoleStudent, SchoolID: testSchool}

	if _, _, err := f.svc.Report.ExportProgressReport(context.Background(), student, &dto.ProgressReportRequest{}); !errors.Is(err, ErrReportForbidden) {
		t.Errorf("err = %v, want ErrReportForbidden", err)
	}
}
