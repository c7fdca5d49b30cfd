package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/joban727/medstintapp-sub005/internal/model"
)

func newTestProgressService(f *fixture) *progressService {
	return &progressService{
		repo:   f.store.repository(),
		logger: zap.NewNop(),
		now:    func() time.Time { return fixedNow },
	}
}

func TestDeploymentCoverage(t *testing.T) {
	tests := []struct {
		submitted, total int64
		want             float64
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 4, 0},
		{1, 3, 33},
		{2, 3, 67},
		{4, 4, 100},
		{5, 4, 100},
	}
	for _, tt := range tests {
		if got := DeploymentCoverage(tt.submitted, tt.total); got != tt.want {
			t.Errorf("DeploymentCoverage(%d, %d) = %v, want %v", tt.submitted, tt.total, got, tt.want)
		}
	}
}

func TestNextAssignmentStatus(t *testing.T) {
	tests := []struct {
		current model.AssignmentStatus
		pct     float64
		want    model.AssignmentStatus
	}{
		{model.AssignmentAssigned, 0, model.AssignmentAssigned},
		{model.AssignmentAssigned, 50, model.AssignmentInProgress},
		// ASSIGNED jumping straight to 100 is left alone.
		{model.AssignmentAssigned, 100, model.AssignmentAssigned},
		{model.AssignmentInProgress, 50, model.AssignmentInProgress},
		{model.AssignmentInProgress, 100, model.AssignmentCompleted},
		{model.AssignmentCompleted, 0, model.AssignmentCompleted},
		{model.AssignmentCompleted, 40, model.AssignmentCompleted},
		{model.AssignmentOverdue, 50, model.AssignmentOverdue},
	}
	for _, tt := range tests {
		if got := NextAssignmentStatus(tt.current, tt.pct); got != tt.want {
			t.Errorf("NextAssignmentStatus(%s, %v) = %s, want %s", tt.current, tt.pct, got, tt.want)
		}
	}
}

func TestUpdateAssignmentProgress_NoAssignment(t *testing.T) {
	f := newFixture(t, 2)
	svc := newTestProgressService(f)

	res := svc.UpdateAssignmentProgress(context.Background(), testStudent, "comp-unknown", "SUBMITTED")
	if res.Outcome != OutcomeNoAssignment {
		t.Fatalf("outcome = %s, want %s", res.Outcome, OutcomeNoAssignment)
	}
	if f.store.progressWrites != 0 {
		t.Errorf("expected no writes, got %d", f.store.progressWrites)
	}
}

func TestUpdateAssignmentProgress_NoDeployment(t *testing.T) {
	f := newFixture(t, 1)
	f.store.assignments["assign-1"].DeploymentID = nil
	svc := newTestProgressService(f)

	res := svc.UpdateAssignmentProgress(context.Background(), testStudent, "comp-1", "SUBMITTED")
	if res.Outcome != OutcomeNoDeployment {
		t.Fatalf("outcome = %s, want %s", res.Outcome, OutcomeNoDeployment)
	}
	if f.store.progressWrites != 0 {
		t.Errorf("expected no writes, got %d", f.store.progressWrites)
	}
}

func TestUpdateAssignmentProgress_EmptyDeploymentIsZero(t *testing.T) {
	f := newFixture(t, 1)
	// No competency of the deployment is marked deployed any more.
	f.store.competencies["comp-1"].IsDeployed = false
	f.addSubmissions(1)
	svc := newTestProgressService(f)

	res := svc.UpdateAssignmentProgress(context.Background(), testStudent, "comp-1", "SUBMITTED")
	if res.Percentage != 0 {
		t.Errorf("percentage = %v, want 0", res.Percentage)
	}
	if res.Status != model.AssignmentAssigned {
		t.Errorf("status = %s, want ASSIGNED", res.Status)
	}
	if res.Outcome != OutcomeUnchanged {
		t.Errorf("outcome = %s, want %s", res.Outcome, OutcomeUnchanged)
	}
}

func TestUpdateAssignmentProgress_AssignedToInProgress(t *testing.T) {
	f := newFixture(t, 4)
	f.addSubmissions(1)
	svc := newTestProgressService(f)

	res := svc.UpdateAssignmentProgress(context.Background(), testStudent, "comp-1", "SUBMITTED")
	if res.Outcome != OutcomeUpdated {
		t.Fatalf("outcome = %s, want %s", res.Outcome, OutcomeUpdated)
	}
	got := f.assignment("assign-1")
	if got.Status != model.AssignmentInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", got.Status)
	}
	if got.ProgressPercentage != 25 {
		t.Errorf("percentage = %v, want 25", got.ProgressPercentage)
	}
	if got.CompletionDate != nil {
		t.Error("completion date should not be set")
	}
}

func TestUpdateAssignmentProgress_ZeroStaysAssigned(t *testing.T) {
	f := newFixture(t, 4)
	svc := newTestProgressService(f)

	res := svc.UpdateAssignmentProgress(context.Background(), testStudent, "comp-1", "SUBMITTED")
	if res.Status != model.AssignmentAssigned {
		t.Errorf("status = %s, want ASSIGNED", res.Status)
	}
	if res.Outcome != OutcomeUnchanged || f.store.progressWrites != 0 {
		t.Errorf("expected no write, outcome=%s writes=%d", res.Outcome, f.store.progressWrites)
	}
}

func TestUpdateAssignmentProgress_InProgressToCompleted(t *testing.T) {
	f := newFixture(t, 2)
	f.setAssignment("assign-1", model.AssignmentInProgress, 50)
	f.addSubmissions(2)
	svc := newTestProgressService(f)

	res := svc.UpdateAssignmentProgress(context.Background(), testStudent, "comp-1", "SUBMITTED")
	if res.Outcome != OutcomeUpdated {
		t.Fatalf("outcome = %s, want %s", res.Outcome, OutcomeUpdated)
	}
	got := f.assignment("assign-1")
	if got.Status != model.AssignmentCompleted || got.ProgressPercentage != 100 {
		t.Errorf("got %s at %v, want COMPLETED at 100", got.Status, got.ProgressPercentage)
	}
	if got.CompletionDate == nil || !got.CompletionDate.Equal(fixedNow) {
		t.Errorf("completion date = %v, want %v", got.CompletionDate, fixedNow)
	}
}

func TestUpdateAssignmentProgress_CompletedIsSticky(t *testing.T) {
	f := newFixture(t, 4)
	f.setAssignment("assign-1", model.AssignmentCompleted, 100)
	f.addSubmissions(1)
	svc := newTestProgressService(f)

	res := svc.UpdateAssignmentProgress(context.Background(), testStudent, "comp-1", "SUBMITTED")
	got := f.assignment("assign-1")
	if got.Status != model.AssignmentCompleted {
		t.Errorf("status = %s, want COMPLETED", got.Status)
	}
	if res.Percentage != 25 {
		t.Errorf("percentage = %v, want 25", res.Percentage)
	}
}

func TestUpdateAssignmentProgress_SecondRunDoesNotWrite(t *testing.T) {
	f := newFixture(t, 4)
	f.addSubmissions(2)
	svc := newTestProgressService(f)
	ctx := context.Background()

	first := svc.UpdateAssignmentProgress(ctx, testStudent, "comp-1", "SUBMITTED")
	second := svc.UpdateAssignmentProgress(ctx, testStudent, "comp-1", "SUBMITTED")

	if first.Outcome != OutcomeUpdated {
		t.Errorf("first outcome = %s, want %s", first.Outcome, OutcomeUpdated)
	}
	if second.Outcome != OutcomeUnchanged {
		t.Errorf("second outcome = %s, want %s", second.Outcome, OutcomeUnchanged)
	}
	if f.store.progressWrites != 1 {
		t.Errorf("writes = %d, want 1", f.store.progressWrites)
	}
}

// The status hint is recorded for context only. Whatever is passed, the
// result is computed from the stored SUBMITTED rows.
func TestUpdateAssignmentProgress_StatusHintHasNoEffect(t *testing.T) {
	hints := []string{"SUBMITTED", "completed", "submitted", "REJECTED", ""}

	var want *ProgressResult
	for _, hint := range hints {
		f := newFixture(t, 3)
		f.addSubmissions(1)
		svc := newTestProgressService(f)

		res := svc.UpdateAssignmentProgress(context.Background(), testStudent, "comp-1", hint)
		res.Err = nil
		if want == nil {
			want = &res
			continue
		}
		if res != *want {
			t.Errorf("hint %q: got %+v, want %+v", hint, res, *want)
		}
	}
}

func TestUpdateAssignmentProgress_FailureIsReturnedNotRaised(t *testing.T) {
	f := newFixture(t, 2)
	f.addSubmissions(1)
	boom := errors.New("connection reset")
	f.store.failOn["Assignment.UpdateProgress"] = boom
	svc := newTestProgressService(f)

	res := svc.UpdateAssignmentProgress(context.Background(), testStudent, "comp-1", "SUBMITTED")
	if res.Outcome != OutcomeFailed {
		t.Fatalf("outcome = %s, want %s", res.Outcome, OutcomeFailed)
	}
	if !errors.Is(res.Err, boom) {
		t.Errorf("err = %v, want %v", res.Err, boom)
	}
}
