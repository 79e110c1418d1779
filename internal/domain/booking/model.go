package booking

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusBooked    = "Booked"
	StatusCancelled = "Cancelled"
)

// DateLayout is the wire and storage format for appointment dates.
const DateLayout = "2006-01-02"

// Appointment maps to the appointments table. The patient contact fields are
// copied from the profile at booking time, so later profile edits do not
// rewrite booking history.
type Appointment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	DoctorID        uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientID       uuid.UUID `db:"patient_id" json:"patient_id"`
	PatientName     string    `db:"patient_name" json:"patient_name"`
	PatientEmail    string    `db:"patient_email" json:"patient_email"`
	PatientMobile   string    `db:"patient_mobile" json:"patient_mobile"`
	AppointmentDate string    `db:"appointment_date" json:"appointment_date"`
	AppointmentTime string    `db:"appointment_time" json:"appointment_time"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// SlotState is one slot label with its availability for a given date.
type SlotState struct {
	Time   string `json:"time"`
	Booked bool   `json:"booked"`
}

// Availability is the per doctor-and-date view the booking page renders:
// the doctor's slot lists split by period, each label flagged if already
// booked, plus the raw booked-label set.
type Availability struct {
	DoctorID  uuid.UUID   `json:"doctor_id"`
	Date      string      `json:"date"`
	Morning   []SlotState `json:"morning"`
	Afternoon []SlotState `json:"afternoon"`
	Evening   []SlotState `json:"evening"`
	Booked    []string    `json:"booked"`
}
