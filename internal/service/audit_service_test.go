package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/joban727/medstintapp-sub005/internal/model"
)

func newTestAuditService(store *mockStore) *auditService {
	return &auditService{
		repo:   store.repository(),
		logger: zap.NewNop(),
		now:    func() time.Time { return fixedNow.Add(123456789) },
	}
}

func TestAuditService_LogAndVerify(t *testing.T) {
	store := newMockStore()
	svc := newTestAuditService(store)

	err := svc.Log(context.Background(), AuditEntry{
		UserID:       testPreceptor,
		Action:       ActionCompetencySubmitted,
		Resource:     "competency_submission",
		ResourceID:   "sub-1",
		TargetUserID: testStudent,
		Details:      map[string]interface{}{"rating": 4, "competencyId": "comp-1"},
	})
	if err != nil {
		t.Fatalf("Log: %v", err)
	}

	entry := store.audits[0]
	if entry.IntegrityHash == "" || len(entry.IntegrityHash) != 64 {
		t.Fatalf("hash = %q", entry.IntegrityHash)
	}
	if entry.Status != model.AuditSuccess || entry.Severity != model.SeverityLow {
		t.Errorf("defaults = %s/%s", entry.Status, entry.Severity)
	}
	if entry.CreatedAt.Nanosecond()%int(time.Millisecond) != 0 {
		t.Errorf("timestamp not truncated to milliseconds: %v", entry.CreatedAt)
	}
	if !svc.VerifyIntegrity(entry) {
		t.Error("fresh entry should verify")
	}

	// JSONB storage reorders keys and drops whitespace.
	stored := *entry
	stored.Details = datatypes.JSON(`{ "rating": 4,   "competencyId": "comp-1" }`)
	if !svc.VerifyIntegrity(&stored) {
		t.Error("re-encoded details should still verify")
	}

	tampered := *entry
	tampered.Details = datatypes.JSON(`{"competencyId":"comp-1","rating":5}`)
	if svc.VerifyIntegrity(&tampered) {
		t.Error("tampered details should not verify")
	}

	moved := *entry
	moved.CreatedAt = entry.CreatedAt.Add(time.Second)
	if svc.VerifyIntegrity(&moved) {
		t.Error("changed timestamp should not verify")
	}

	if svc.VerifyIntegrity(nil) {
		t.Error("nil entry should not verify")
	}
}

func TestAuditService_NilDetails(t *testing.T) {
	store := newMockStore()
	svc := newTestAuditService(store)

	if err := svc.Log(context.Background(), AuditEntry{Action: ActionEvaluationDenied, Status: model.AuditFailure}); err != nil {
		t.Fatalf("Log: %v", err)
	}
	entry := store.audits[0]
	if string(entry.Details) != "{}" {
		t.Errorf("details = %s, want {}", entry.Details)
	}
	if entry.UserID != nil {
		t.Error("empty user id should be stored as NULL")
	}
	if !svc.VerifyIntegrity(entry) {
		t.Error("entry should verify")
	}
}
