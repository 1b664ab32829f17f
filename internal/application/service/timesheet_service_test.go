package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Jackela/catams/internal/domain/entity"
	"github.com/Jackela/catams/internal/domain/workflow"
)

type timesheetFixture struct {
	timesheetRepo *mockTimesheetRepo
	service       TimesheetService
}

func newTimesheetFixture(ts *entity.Timesheet) *timesheetFixture {
	timesheetRepo := &mockTimesheetRepo{timesheet: ts}
	service := NewTimesheetService(
		timesheetRepo,
		&mockUserRepo{users: testUsers()},
		&mockCourseRepo{courses: map[int64]*entity.Course{
			courseID: {ID: courseID, Code: "COMP1001", Name: "Intro to Programming", LecturerID: lecturerID},
		}},
		workflow.NewService(workflow.NewRules()),
		&mockLogger{},
	)
	return &timesheetFixture{timesheetRepo: timesheetRepo, service: service}
}

func createRequest(requesterID int64) CreateTimesheetRequest {
	return CreateTimesheetRequest{
		TutorID:     tutorID,
		CourseID:    courseID,
		WeekStart:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Hours:       8,
		HourlyRate:  45.50,
		Description: "Week 1 tutorials",
		RequesterID: requesterID,
	}
}

func TestTimesheetService_Create(t *testing.T) {
	tests := []struct {
		name        string
		requesterID int64
		wantErr     error
	}{
		{"tutor creates their own", tutorID, nil},
		{"course lecturer creates for their tutor", lecturerID, nil},
		{"admin creates for anyone", adminID, nil},
		{"another tutor is forbidden", strangerID, workflow.ErrForbidden},
		{"hr cannot create", hrID, workflow.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTimesheetFixture(nil)

			ts, err := f.service.Create(context.Background(), createRequest(tt.requesterID))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Create() error = %v, want kind %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if ts.Status != workflow.StatusDraft {
				t.Errorf("new timesheet status = %s, want DRAFT", ts.Status)
			}
			if ts.Version != 1 {
				t.Errorf("new timesheet version = %d, want 1", ts.Version)
			}
		})
	}
}

func TestTimesheetService_Create_Validation(t *testing.T) {
	f := newTimesheetFixture(nil)

	tests := []struct {
		name    string
		mutate  func(req *CreateTimesheetRequest)
		wantErr error
	}{
		{"zero hours", func(r *CreateTimesheetRequest) { r.Hours = 0 }, workflow.ErrInvalidArgument},
		{"negative rate", func(r *CreateTimesheetRequest) { r.HourlyRate = -1 }, workflow.ErrInvalidArgument},
		{"zero tutor id", func(r *CreateTimesheetRequest) { r.TutorID = 0 }, workflow.ErrInvalidArgument},
		{"unknown course", func(r *CreateTimesheetRequest) { r.CourseID = 99 }, workflow.ErrNotFound},
		{"unknown tutor", func(r *CreateTimesheetRequest) { r.TutorID = 888 }, workflow.ErrNotFound},
		{"claimed tutor is not a tutor", func(r *CreateTimesheetRequest) { r.TutorID = lecturerID }, workflow.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createRequest(adminID)
			tt.mutate(&req)
			if _, err := f.service.Create(context.Background(), req); !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want kind %v", err, tt.wantErr)
			}
		})
	}
}

func TestTimesheetService_Get(t *testing.T) {
	ts := testTimesheet(workflow.StatusPendingTutorConfirmation)

	tests := []struct {
		name        string
		requesterID int64
		wantErr     error
	}{
		{"owner tutor", tutorID, nil},
		{"course lecturer", lecturerID, nil},
		{"admin", adminID, nil},
		{"unrelated tutor", strangerID, workflow.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTimesheetFixture(ts)

			got, err := f.service.Get(context.Background(), ts.ID, tt.requesterID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Get() error = %v, want kind %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.ID != ts.ID {
				t.Errorf("Get() id = %d, want %d", got.ID, ts.ID)
			}
		})
	}
}

func TestTimesheetService_Update_OnlyEditableStatuses(t *testing.T) {
	for _, status := range workflow.AllStatuses() {
		t.Run(string(status), func(t *testing.T) {
			ts := testTimesheet(status)
			f := newTimesheetFixture(ts)

			_, err := f.service.Update(context.Background(), UpdateTimesheetRequest{
				TimesheetID: ts.ID,
				Hours:       12,
				HourlyRate:  50,
				Description: "corrected",
				RequesterID: tutorID,
			})

			if status.IsEditable() {
				if err != nil {
					t.Fatalf("Update() in editable status %s error = %v", status, err)
				}
				if ts.Hours != 12 {
					t.Errorf("hours = %v, want 12", ts.Hours)
				}
				if ts.Status != status {
					t.Errorf("Update() changed status to %s; content edits must not move the workflow", ts.Status)
				}
			} else {
				if !errors.Is(err, workflow.ErrInvalidTransition) {
					t.Errorf("Update() in status %s error = %v, want ErrInvalidTransition", status, err)
				}
			}
		})
	}
}

func TestTimesheetService_Update_Authorization(t *testing.T) {
	tests := []struct {
		name        string
		requesterID int64
		wantErr     error
	}{
		{"owner tutor", tutorID, nil},
		{"course lecturer", lecturerID, nil},
		{"admin", adminID, nil},
		{"unrelated tutor", strangerID, workflow.ErrForbidden},
		{"hr", hrID, workflow.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := testTimesheet(workflow.StatusDraft)
			f := newTimesheetFixture(ts)

			_, err := f.service.Update(context.Background(), UpdateTimesheetRequest{
				TimesheetID: ts.ID,
				Hours:       9,
				HourlyRate:  45.50,
				RequesterID: tt.requesterID,
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Update() error = %v, want kind %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("Update() error = %v", err)
			}
		})
	}
}

func TestTimesheetService_Update_VersionConflictPropagates(t *testing.T) {
	ts := testTimesheet(workflow.StatusDraft)
	f := newTimesheetFixture(ts)
	f.timesheetRepo.updateFunc = func(ctx context.Context, ts *entity.Timesheet) error {
		return workflow.ErrVersionConflict
	}

	_, err := f.service.Update(context.Background(), UpdateTimesheetRequest{
		TimesheetID: ts.ID,
		Hours:       9,
		HourlyRate:  45.50,
		RequesterID: tutorID,
	})
	if !errors.Is(err, workflow.ErrVersionConflict) {
		t.Errorf("Update() error = %v, want ErrVersionConflict", err)
	}
}
