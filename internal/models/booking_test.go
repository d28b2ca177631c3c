package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCreateBookingInputValidation(t *testing.T) {
	start := time.Now().Add(time.Hour)
	valid := CreateBookingInput{
		TutorID:        uuid.New(),
		StudentID:      uuid.New(),
		ScheduledStart: start,
		ScheduledEnd:   start.Add(time.Hour),
		Mode:           ModeOnline,
		Price:          1000,
	}

	if err := Validate.Struct(&valid); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	missingTutor := valid
	missingTutor.TutorID = uuid.Nil
	if err := Validate.Struct(&missingTutor); err == nil {
		t.Error("expected error for missing tutor ID")
	}

	badMode := valid
	badMode.Mode = SessionMode("hybrid")
	if err := Validate.Struct(&badMode); err == nil {
		t.Error("expected error for unknown session mode")
	}

	negativePrice := valid
	negativePrice.Price = -1
	if err := Validate.Struct(&negativePrice); err == nil {
		t.Error("expected error for negative price")
	}
}
