package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/joban727/medstintapp-sub005/config"
	"github.com/joban727/medstintapp-sub005/internal/dto"
	"github.com/joban727/medstintapp-sub005/internal/model"
)

// ── test fixture ──

const (
	testSchool      = "school-1"
	otherSchool     = "school-2"
	testDeployment  = "deploy-1"
	testStudent     = "student-1"
	testPreceptor   = "prec-1"
	testSuperAdmin  = "admin-1"
	testSchoolAdmin = "sadmin-1"
)

var fixedNow = time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)

type fixture struct {
	store       *mockStore
	competency  []*model.Competency
	assignments []*model.CompetencyAssignment
	rotation    *model.Rotation
	svc         *Service
}

// newFixture seeds one school with a student, a preceptor and two
// administrators, a deployment of deployed competencies and one assignment
// per competency. The student has one active rotation.
func newFixture(t *testing.T, competencies int) *fixture {
	t.Helper()
	ctx := context.Background()
	store := newMockStore()
	repo := store.repository()
	school, other := testSchool, otherSchool

	users := []*model.User{
		{ID: testStudent, Name: "Avery Student", Email: "avery@example.edu", Role: model.RoleStudent, SchoolID: &school},
		{ID: testPreceptor, Name: "Jordan Preceptor", Email: "jordan@example.edu", Role: model.RoleClinicalPreceptor, SchoolID: &school},
		{ID: testSuperAdmin, Name: "Sam Admin", Email: "sam@example.edu", Role: model.RoleSuperAdmin},
		{ID: testSchoolAdmin, Name: "Riley Admin", Email: "riley@example.edu", Role: model.RoleSchoolAdmin, SchoolID: &school},
		{ID: "student-2", Name: "Blake Outsider", Email: "blake@example.edu", Role: model.RoleStudent, SchoolID: &other},
	}
	for _, u := range users {
		if err := repo.User.Create(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	f := &fixture{store: store}
	deployment := testDeployment
	for i := 0; i < competencies; i++ {
		c := &model.Competency{
			ID:           fmt.Sprintf("comp-%d", i+1),
			Name:         fmt.Sprintf("Skill %d", i+1),
			Category:     "Clinical",
			Level:        model.LevelFundamental,
			IsDeployed:   true,
			DeploymentID: &deployment,
		}
		if err := repo.Competency.Create(ctx, c); err != nil {
			t.Fatalf("seed competency: %v", err)
		}
		a := &model.CompetencyAssignment{
			ID:           fmt.Sprintf("assign-%d", i+1),
			UserID:       testStudent,
			CompetencyID: c.ID,
			DeploymentID: &deployment,
			Status:       model.AssignmentAssigned,
		}
		if err := repo.Assignment.Create(ctx, a); err != nil {
			t.Fatalf("seed assignment: %v", err)
		}
		f.competency = append(f.competency, c)
		f.assignments = append(f.assignments, a)
	}

	f.rotation = &model.Rotation{
		ID:        "rot-1",
		StudentID: testStudent,
		Specialty: "Emergency",
		SiteName:  "County General",
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC),
		Status:    model.RotationActive,
	}
	if err := repo.Rotation.Create(ctx, f.rotation); err != nil {
		t.Fatalf("seed rotation: %v", err)
	}

	cfg := &config.Config{
		Server:    config.ServerConfig{BaseURL: "https://medstint.test"},
		Dashboard: config.DashboardConfig{QueryTimeout: time.Second, RecentItems: 10, MaxConcurrency: 4},
	}
	f.svc = NewService(cfg, repo, zap.NewNop())
	return f
}

func (f *fixture) assignment(id string) *model.CompetencyAssignment {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	cp := *f.store.assignments[id]
	return &cp
}

func (f *fixture) setAssignment(id string, status model.AssignmentStatus, pct float64) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.assignments[id].Status = status
	f.store.assignments[id].ProgressPercentage = pct
}

// addSubmissions stores n SUBMITTED rows for the first n competencies.
func (f *fixture) addSubmissions(n int) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for i := 0; i < n; i++ {
		f.store.submissions = append(f.store.submissions, &model.CompetencySubmission{
			ID:           fmt.Sprintf("seed-sub-%d", i+1),
			StudentID:    testStudent,
			CompetencyID: f.competency[i].ID,
			SubmittedBy:  testPreceptor,
			Status:       model.SubmissionSubmitted,
			SubmittedAt:  fixedNow,
		})
	}
}

func (f *fixture) countEvaluations() int {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return len(f.store.evaluations)
}

func (f *fixture) auditActions() []string {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]string, 0, len(f.store.audits))
	for _, a := range f.store.audits {
		out = append(out, a.Action)
	}
	return out
}

func preceptorCaller() dto.Caller {
	return dto.Caller{UserID: testPreceptor, Role: model.RoleClinicalPreceptor, SchoolID: testSchool, ClientIP: "10.0.0.1"}
}

func item(f *fixture, i, rating int) dto.SubmissionItem {
	return dto.SubmissionItem{
		StudentID:    testStudent,
		CompetencyID: f.competency[i].ID,
		AssignmentID: f.assignments[i].ID,
		Rating:       rating,
	}
}
