package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/docease/docease/internal/domain/account"
	"github.com/docease/docease/internal/domain/doctor"
	"github.com/docease/docease/internal/platform/cache"
)

var (
	// ErrUnknownSlot is returned when the requested label is not in any of
	// the doctor's period lists.
	ErrUnknownSlot = errors.New("doctor does not offer this slot")
	// ErrProfileNotFound is returned when the caller has no profile to copy
	// patient details from.
	ErrProfileNotFound = errors.New("profile not found")
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrInvalidDate     = errors.New("invalid appointment date")
	// ErrForbidden is returned when an appointment belongs to another patient.
	ErrForbidden = errors.New("appointment belongs to another patient")
)

// DoctorSource provides doctor lookups for slot validation.
type DoctorSource interface {
	Get(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error)
}

// ProfileSource provides the profile whose fields are copied onto a new
// appointment.
type ProfileSource interface {
	GetProfile(ctx context.Context, accountID uuid.UUID) (*account.Profile, error)
}

type Service struct {
	appointments Repository
	doctors      DoctorSource
	profiles     ProfileSource
	slots        cache.SlotCache
}

func NewService(appointments Repository, doctors DoctorSource, profiles ProfileSource, slots cache.SlotCache) *Service {
	return &Service{
		appointments: appointments,
		doctors:      doctors,
		profiles:     profiles,
		slots:        slots,
	}
}

// BookRequest carries everything needed to place a booking. AccountID and
// Email come from the session, never from the request body.
type BookRequest struct {
	AccountID uuid.UUID
	Email     string
	DoctorID  uuid.UUID
	Date      string
	Time      string
}

// Book places an appointment. The insert itself decides slot contention: no
// pre-check is trusted, a lost race surfaces as ErrSlotTaken from the unique
// index.
func (s *Service) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	if err := validateDate(req.Date); err != nil {
		return nil, err
	}

	doc, err := s.doctors.Get(ctx, req.DoctorID)
	if errors.Is(err, doctor.ErrNotFound) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, err
	}
	if !doc.HasSlot(req.Time) {
		return nil, ErrUnknownSlot
	}

	profile, err := s.profiles.GetProfile(ctx, req.AccountID)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	// Optimistic pre-check against the cached booked set. A hit saves the
	// round trip; a stale miss is caught by the insert below.
	if cached, err := s.slots.GetBookedSlots(ctx, req.DoctorID.String(), req.Date); err == nil {
		for _, t := range cached {
			if t == req.Time {
				return nil, ErrSlotTaken
			}
		}
	}

	appt := &Appointment{
		DoctorID:        req.DoctorID,
		PatientID:       req.AccountID,
		PatientName:     profile.Username,
		PatientEmail:    req.Email,
		PatientMobile:   profile.Mobile,
		AppointmentDate: req.Date,
		AppointmentTime: req.Time,
		Status:          StatusBooked,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, err
	}

	// Cache invalidation is best effort; the TTL still bounds staleness.
	_ = s.slots.Invalidate(ctx, req.DoctorID.String(), req.Date)

	return appt, nil
}

// Availability returns the doctor's slots for a date, split by period, each
// flagged against the booked set.
func (s *Service) Availability(ctx context.Context, doctorID uuid.UUID, date string) (*Availability, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	doc, err := s.doctors.Get(ctx, doctorID)
	if errors.Is(err, doctor.ErrNotFound) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, err
	}

	booked, err := s.bookedTimes(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	bookedSet := make(map[string]bool, len(booked))
	for _, t := range booked {
		bookedSet[t] = true
	}

	return &Availability{
		DoctorID:  doctorID,
		Date:      date,
		Morning:   slotStates(doc.MorningSlots, bookedSet),
		Afternoon: slotStates(doc.AfternoonSlots, bookedSet),
		Evening:   slotStates(doc.EveningSlots, bookedSet),
		Booked:    booked,
	}, nil
}

// bookedTimes reads the booked-label set through the cache.
func (s *Service) bookedTimes(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	key := doctorID.String()
	if cached, err := s.slots.GetBookedSlots(ctx, key, date); err == nil {
		return cached, nil
	}

	booked, err := s.appointments.BookedTimes(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	if booked == nil {
		booked = []string{}
	}
	_ = s.slots.SetBookedSlots(ctx, key, date, booked)
	return booked, nil
}

func slotStates(labels []string, booked map[string]bool) []SlotState {
	states := make([]SlotState, 0, len(labels))
	for _, l := range labels {
		states = append(states, SlotState{Time: l, Booked: booked[l]})
	}
	return states
}

// Cancel marks the caller's appointment cancelled, freeing its slot.
// Cancelling an already cancelled appointment is a no-op.
func (s *Service) Cancel(ctx context.Context, accountID, appointmentID uuid.UUID) error {
	appt, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appt.PatientID != accountID {
		return ErrForbidden
	}
	if appt.Status == StatusCancelled {
		return nil
	}

	if err := s.appointments.UpdateStatus(ctx, appointmentID, StatusCancelled); err != nil {
		return err
	}

	_ = s.slots.Invalidate(ctx, appt.DoctorID.String(), appt.AppointmentDate)
	return nil
}

// ListForPatient returns the caller's appointments, newest first.
func (s *Service) ListForPatient(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByPatient(ctx, accountID, limit, offset)
}

func validateDate(date string) error {
	parsed, err := time.Parse(DateLayout, date)
	if err != nil {
		return ErrInvalidDate
	}
	// Reject non-canonical spellings like 2026-9-1
	if parsed.Format(DateLayout) != date {
		return ErrInvalidDate
	}
	return nil
}
