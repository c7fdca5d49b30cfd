package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/joban727/medstintapp-sub005/internal/model"
	"github.com/joban727/medstintapp-sub005/internal/repository"
	pkgerrors "github.com/joban727/medstintapp-sub005/pkg/errors"
)

// mockStore in-memory tables shared by the mock repositories so that
// cross-table counts behave like the SQL versions. Every access holds mu.
type mockStore struct {
	mu sync.Mutex
	// seq per-prefix id counters
	seq map[string]int

	users        map[string]*model.User
	competencies map[string]*model.Competency
	assignments  map[string]*model.CompetencyAssignment
	rotations    map[string]*model.Rotation
	evaluations  []*model.Evaluation
	submissions  []*model.CompetencySubmission
	audits       []*model.AuditLog

	progressWrites int
	// failOn forces an error from the named mock method.
	failOn map[string]error
	// block makes the named methods wait for context cancellation.
	block map[string]bool
}

func newMockStore() *mockStore {
	return &mockStore{
		seq:          make(map[string]int),
		users:        make(map[string]*model.User),
		competencies: make(map[string]*model.Competency),
		assignments:  make(map[string]*model.CompetencyAssignment),
		rotations:    make(map[string]*model.Rotation),
		failOn:       make(map[string]error),
		block:        make(map[string]bool),
	}
}

func (s *mockStore) nextID(prefix string) string {
	s.seq[prefix]++
	return fmt.Sprintf("%s-%d", prefix, s.seq[prefix])
}

// fail returns the error forced for method, if any.
func (s *mockStore) fail(method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failOn[method]
}

func (s *mockStore) wait(ctx context.Context, method string) error {
	s.mu.Lock()
	blocked := s.block[method]
	s.mu.Unlock()
	if !blocked {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *mockStore) repository() *repository.Repository {
	return &repository.Repository{
		User:       &mockUserRepo{s},
		Competency: &mockCompetencyRepo{s},
		Assignment: &mockAssignmentRepo{s},
		Submission: &mockSubmissionRepo{s},
		Evaluation: &mockEvaluationRepo{s},
		Rotation:   &mockRotationRepo{s},
		AuditLog:   &mockAuditLogRepo{s},
	}
}

// ── Mock UserRepository ──

type mockUserRepo struct{ s *mockStore }

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if err := m.s.fail("User.Create"); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if user.ID == "" {
		user.ID = m.s.nextID("user")
	}
	m.s.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if err := m.s.fail("User.GetByID"); err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if u, ok := m.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock CompetencyRepository ──

type mockCompetencyRepo struct{ s *mockStore }

func (m *mockCompetencyRepo) Create(_ context.Context, c *model.Competency) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if c.ID == "" {
		c.ID = m.s.nextID("comp")
	}
	m.s.competencies[c.ID] = c
	return nil
}

func (m *mockCompetencyRepo) GetByID(_ context.Context, id string) (*model.Competency, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if c, ok := m.s.competencies[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCompetencyRepo) CreateDeployment(_ context.Context, d *model.CompetencyDeployment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if d.ID == "" {
		d.ID = m.s.nextID("deploy")
	}
	return nil
}

func (m *mockCompetencyRepo) GetDeployment(_ context.Context, id string) (*model.CompetencyDeployment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCompetencyRepo) CountDeployedInDeployment(_ context.Context, deploymentID string) (int64, error) {
	if err := m.s.fail("Competency.CountDeployedInDeployment"); err != nil {
		return 0, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for _, c := range m.s.competencies {
		if c.IsDeployed && c.DeploymentID != nil && *c.DeploymentID == deploymentID {
			n++
		}
	}
	return n, nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct{ s *mockStore }

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.CompetencyAssignment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if a.ID == "" {
		a.ID = m.s.nextID("assign")
	}
	if a.Status == "" {
		a.Status = model.AssignmentAssigned
	}
	m.s.assignments[a.ID] = a
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.CompetencyAssignment, error) {
	if err := m.s.fail("Assignment.GetByID"); err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if a, ok := m.s.assignments[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) FindByStudentAndCompetency(_ context.Context, studentID, competencyID string) (*model.CompetencyAssignment, error) {
	if err := m.s.fail("Assignment.FindByStudentAndCompetency"); err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, a := range m.s.assignments {
		if a.UserID == studentID && a.CompetencyID == competencyID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) UpdateProgress(_ context.Context, id string, update repository.ProgressUpdate) error {
	if err := m.s.fail("Assignment.UpdateProgress"); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	a, ok := m.s.assignments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.ProgressPercentage = update.ProgressPercentage
	a.Status = update.Status
	if update.CompletionDate != nil {
		d := *update.CompletionDate
		a.CompletionDate = &d
	}
	m.s.progressWrites++
	return nil
}

func (m *mockAssignmentRepo) CountByStatus(ctx context.Context, studentID string) ([]repository.StatusCount, error) {
	if err := m.s.wait(ctx, "Assignment.CountByStatus"); err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	byStatus := make(map[model.AssignmentStatus]int64)
	for _, a := range m.s.assignments {
		if a.UserID == studentID {
			byStatus[a.Status]++
		}
	}
	out := make([]repository.StatusCount, 0, len(byStatus))
	for st, n := range byStatus {
		out = append(out, repository.StatusCount{Status: st, Count: n})
	}
	return out, nil
}

func (m *mockAssignmentRepo) AverageProgress(_ context.Context, studentID string) (float64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var sum float64
	var n int
	for _, a := range m.s.assignments {
		if a.UserID == studentID {
			sum += a.ProgressPercentage
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

func (m *mockAssignmentRepo) ProgressReport(ctx context.Context, filter repository.ProgressReportFilter) ([]repository.StudentProgressRow, error) {
	if err := m.s.wait(ctx, "Assignment.ProgressReport"); err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	rows := make(map[string]*repository.StudentProgressRow)
	for _, a := range m.s.assignments {
		u, ok := m.s.users[a.UserID]
		if !ok {
			continue
		}
		if filter.SchoolID != "" && !u.InSchool(filter.SchoolID) {
			continue
		}
		if filter.DeploymentID != "" && (a.DeploymentID == nil || *a.DeploymentID != filter.DeploymentID) {
			continue
		}
		r, ok := rows[u.ID]
		if !ok {
			r = &repository.StudentProgressRow{StudentID: u.ID, StudentName: u.Name, StudentEmail: u.Email}
			rows[u.ID] = r
		}
		r.Total++
		switch a.Status {
		case model.AssignmentCompleted:
			r.Completed++
		case model.AssignmentInProgress:
			r.InProgress++
		case model.AssignmentOverdue:
			r.Overdue++
		}
		r.AverageProgress += a.ProgressPercentage
	}
	out := make([]repository.StudentProgressRow, 0, len(rows))
	for _, r := range rows {
		r.AverageProgress /= float64(r.Total)
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentName < out[j].StudentName })
	return out, nil
}

// ── Mock SubmissionRepository ──

type mockSubmissionRepo struct{ s *mockStore }

func (m *mockSubmissionRepo) Create(_ context.Context, sub *model.CompetencySubmission) error {
	if err := m.s.fail("Submission.Create"); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if sub.ID == "" {
		sub.ID = m.s.nextID("sub")
	}
	m.s.submissions = append(m.s.submissions, sub)
	return nil
}

func (m *mockSubmissionRepo) CountSubmittedInDeployment(_ context.Context, studentID, deploymentID string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for _, sub := range m.s.submissions {
		if sub.StudentID != studentID || sub.Status != model.SubmissionSubmitted {
			continue
		}
		c, ok := m.s.competencies[sub.CompetencyID]
		if ok && c.DeploymentID != nil && *c.DeploymentID == deploymentID {
			n++
		}
	}
	return n, nil
}

func (m *mockSubmissionRepo) List(_ context.Context, filter repository.SubmissionFilter) ([]model.CompetencySubmission, int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var matched []model.CompetencySubmission
	for _, sub := range m.s.submissions {
		if filter.StudentID != "" && sub.StudentID != filter.StudentID {
			continue
		}
		if filter.SubmittedBy != "" && sub.SubmittedBy != filter.SubmittedBy {
			continue
		}
		if filter.Status != "" && string(sub.Status) != filter.Status {
			continue
		}
		if filter.SchoolID != "" {
			u, ok := m.s.users[sub.StudentID]
			if !ok || !u.InSchool(filter.SchoolID) {
				continue
			}
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(sub.Notes), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, *sub)
	}
	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (m *mockSubmissionRepo) ListRecentByStudent(_ context.Context, studentID string, limit int) ([]model.CompetencySubmission, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.CompetencySubmission
	for i := len(m.s.submissions) - 1; i >= 0 && len(out) < limit; i-- {
		if m.s.submissions[i].StudentID == studentID {
			out = append(out, *m.s.submissions[i])
		}
	}
	return out, nil
}

// ── Mock EvaluationRepository ──
// Create enforces the (assignment, evaluator) unique index under the store
// lock, like the database does.

type mockEvaluationRepo struct{ s *mockStore }

func (m *mockEvaluationRepo) Create(_ context.Context, e *model.Evaluation) error {
	if err := m.s.fail("Evaluation.Create"); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.evaluations {
		if existing.AssignmentID == e.AssignmentID && existing.EvaluatorID == e.EvaluatorID {
			return pkgerrors.ErrDuplicateKey
		}
	}
	if e.ID == "" {
		e.ID = m.s.nextID("eval")
	}
	m.s.evaluations = append(m.s.evaluations, e)
	return nil
}

func (m *mockEvaluationRepo) ExistsForAssignmentAndEvaluator(_ context.Context, assignmentID, evaluatorID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, e := range m.s.evaluations {
		if e.AssignmentID == assignmentID && e.EvaluatorID == evaluatorID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEvaluationRepo) PassRateStats(_ context.Context, assignmentID string, passing float64) (repository.PassRate, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var stats repository.PassRate
	for _, e := range m.s.evaluations {
		if e.AssignmentID != assignmentID {
			continue
		}
		stats.Total++
		if e.OverallRating >= passing {
			stats.Passed++
		}
	}
	return stats, nil
}

func (m *mockEvaluationRepo) ListRecentByStudent(_ context.Context, studentID string, limit int) ([]model.Evaluation, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Evaluation
	for i := len(m.s.evaluations) - 1; i >= 0 && len(out) < limit; i-- {
		if m.s.evaluations[i].StudentID == studentID {
			out = append(out, *m.s.evaluations[i])
		}
	}
	return out, nil
}

// ── Mock RotationRepository ──

type mockRotationRepo struct{ s *mockStore }

func (m *mockRotationRepo) Create(_ context.Context, r *model.Rotation) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if r.ID == "" {
		r.ID = m.s.nextID("rot")
	}
	m.s.rotations[r.ID] = r
	return nil
}

func (m *mockRotationRepo) GetByID(_ context.Context, id string) (*model.Rotation, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if r, ok := m.s.rotations[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRotationRepo) LatestByStudent(_ context.Context, studentID string) (*model.Rotation, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var latest *model.Rotation
	for _, r := range m.s.rotations {
		if r.StudentID != studentID {
			continue
		}
		if latest == nil || r.StartDate.After(latest.StartDate) {
			latest = r
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (m *mockRotationRepo) ListByStudent(_ context.Context, studentID string) ([]model.Rotation, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Rotation
	for _, r := range m.s.rotations {
		if r.StudentID == studentID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

// ── Mock AuditLogRepository ──

type mockAuditLogRepo struct{ s *mockStore }

func (m *mockAuditLogRepo) Create(_ context.Context, entry *model.AuditLog) error {
	if err := m.s.fail("AuditLog.Create"); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = m.s.nextID("audit")
	}
	m.s.audits = append(m.s.audits, entry)
	return nil
}

func (m *mockAuditLogRepo) ListByUser(_ context.Context, userID string, limit int) ([]model.AuditLog, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.AuditLog
	for i := len(m.s.audits) - 1; i >= 0 && len(out) < limit; i-- {
		if a := m.s.audits[i]; a.UserID != nil && *a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}
