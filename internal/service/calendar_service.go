package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/joban727/medstintapp-sub005/internal/dto"
	"github.com/joban727/medstintapp-sub005/internal/model"
	"github.com/joban727/medstintapp-sub005/internal/repository"
)

// ── rotation calendar ──────────────────────────────────────
//
// Rotations are published as all-day VEVENTs (RFC 5545). DTEND is
// exclusive, so the event ends the day after the rotation's last day.
// Cancelled rotations stay in the feed with STATUS:CANCELLED so
// subscribed clients drop them.
// ─────────────────────────────────────────────────────────────

const calendarProductID = "-//MedStint//Clinical Rotations//EN"

// CalendarService iCalendar feeds.
type CalendarService interface {
	// RotationCalendar serialises studentID's rotations. An empty studentID
	// means the caller.
	RotationCalendar(ctx context.Context, caller dto.Caller, studentID string) ([]byte, error)
}

type calendarService struct {
	repo    *repository.Repository
	baseURL string
	logger  *zap.Logger
	now     func() time.Time
}

// NewCalendarService creates a CalendarService. baseURL prefixes event
// links.
func NewCalendarService(repo *repository.Repository, baseURL string, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, baseURL: baseURL, logger: logger, now: time.Now}
}

func (s *calendarService) RotationCalendar(ctx context.Context, caller dto.Caller, studentID string) ([]byte, error) {
	if studentID == "" {
		studentID = caller.UserID
	}
	if err := authorizeStudentView(ctx, s.repo, caller, studentID); err != nil {
		return nil, err
	}

	rotations, err := s.repo.Rotation.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("list rotations failed", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	return []byte(buildRotationCalendar(rotations, s.baseURL, s.now().UTC())), nil
}

func buildRotationCalendar(rotations []model.Rotation, baseURL string, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName("Clinical rotations")

	for i := range rotations {
		r := &rotations[i]
		event := cal.AddEvent(r.ID + "@medstint")
		event.SetDtStampTime(stamp)
		event.SetCreatedTime(r.CreatedAt)
		event.SetModifiedAt(r.UpdatedAt)
		event.SetAllDayStartAt(r.StartDate)
		event.SetAllDayEndAt(r.EndDate.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("%s rotation", r.Specialty))
		if r.SiteName != "" {
			event.SetLocation(r.SiteName)
		}
		event.SetDescription(fmt.Sprintf("Status: %s", r.Status))
		event.SetStatus(eventStatus(r.Status))
		if baseURL != "" {
			event.SetURL(fmt.Sprintf("%s/rotations/%s", baseURL, r.ID))
		}
	}
	return cal.Serialize()
}

func eventStatus(rotationStatus string) ics.ObjectStatus {
	switch rotationStatus {
	case model.RotationCancelled:
		return ics.ObjectStatusCancelled
	case model.RotationScheduled:
		return ics.ObjectStatusTentative
	}
	return ics.ObjectStatusConfirmed
}
