package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/joban727/medstintapp-sub005/internal/dto"
	"github.com/joban727/medstintapp-sub005/internal/model"
)

func TestCalendarService_RotationCalendar(t *testing.T) {
	f := newFixture(t, 1)
	f.store.rotations["rot-2"] = &model.Rotation{
		ID:        "rot-2",
		StudentID: testStudent,
		Specialty: "Pediatrics",
		StartDate: time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 11, 27, 0, 0, 0, 0, time.UTC),
		Status:    model.RotationCancelled,
	}

	student := dto.Caller{UserID: testStudent, Role: model.RoleStudent, SchoolID: testSchool}
	out, err := f.svc.Calendar.RotationCalendar(context.Background(), student, "")
	if err != nil {
		t.Fatalf("RotationCalendar: %v", err)
	}

	cal, err := ics.ParseCalendar(strings.NewReader(string(out)))
	if err != nil {
		t.Fatalf("parse feed: %v", err)
	}
	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}

	first := events[0]
	if got := first.GetProperty(ics.ComponentPropertySummary).Value; got != "Emergency rotation" {
		t.Errorf("summary = %q", got)
	}
	if got := first.GetProperty(ics.ComponentPropertyLocation).Value; got != "County General" {
		t.Errorf("location = %q", got)
	}
	// DTEND is exclusive: the day after the last rotation day.
	if got := first.GetProperty(ics.ComponentPropertyDtEnd).Value; got != "20261101" {
		t.Errorf("dtend = %q, want 20261101", got)
	}
	if got := events[1].GetProperty(ics.ComponentPropertyStatus).Value; got != string(ics.ObjectStatusCancelled) {
		t.Errorf("status = %q, want CANCELLED", got)
	}
	if !strings.Contains(string(out), "https://medstint.test/rotations/rot-1") {
		t.Error("event URL missing")
	}
}

func TestCalendarService_Forbidden(t *testing.T) {
	f := newFixture(t, 1)
	student := dto.Caller{UserID: "student-2", Role: model.RoleStudent, SchoolID: otherSchool}

	if _, err := f.svc.Calendar.RotationCalendar(context.Background(), student, testStudent); !errors.Is(err, ErrViewForbidden) {
		t.Errorf("err = %v, want ErrViewForbidden", err)
	}
}
