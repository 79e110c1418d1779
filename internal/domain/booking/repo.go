package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrSlotTaken is returned when an insert loses the race for a slot: another
// Booked appointment already holds (doctor, date, time).
var ErrSlotTaken = errors.New("slot already booked")

// ErrNotFound is returned when an appointment does not exist.
var ErrNotFound = errors.New("appointment not found")

type Repository interface {
	// Create inserts the appointment, returning ErrSlotTaken if a Booked
	// appointment already exists for the same doctor, date and time.
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// BookedTimes returns the appointment_time labels with status Booked for
	// the doctor on the given date.
	BookedTimes(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}
