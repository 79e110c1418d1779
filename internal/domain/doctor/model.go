package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Doctor maps to the doctors table.
type Doctor struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Specialization  string    `db:"specialization" json:"specialization"`
	Qualification   string    `db:"qualification" json:"qualification"`
	Age             int       `db:"age" json:"age"`
	Experience      int       `db:"experience" json:"experience"`
	LanguagesSpoken []string  `db:"languages_spoken" json:"languages_spoken"`
	Hospital        string    `db:"hospital" json:"hospital"`
	City            string    `db:"city" json:"city"`
	MorningSlots    []string  `db:"morning_slots" json:"morning_slots"`
	AfternoonSlots  []string  `db:"afternoon_slots" json:"afternoon_slots"`
	EveningSlots    []string  `db:"evening_slots" json:"evening_slots"`
	ProfileImage    string    `db:"profile_image" json:"profile_image"`
	Bio             string    `db:"bio" json:"bio"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// DoctorSummary is the directory listing projection. Slot lists, bio and the
// remaining detail fields are only served from the detail endpoint.
type DoctorSummary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
	Hospital       string    `json:"hospital"`
	City           string    `json:"city"`
	ProfileImage   string    `json:"profile_image"`
}

// Summary projects the fields shown on a directory card.
func (d *Doctor) Summary() *DoctorSummary {
	return &DoctorSummary{
		ID:             d.ID,
		Name:           d.Name,
		Specialization: d.Specialization,
		Hospital:       d.Hospital,
		City:           d.City,
		ProfileImage:   d.ProfileImage,
	}
}

// HasSlot reports whether the label appears in any of the doctor's slot
// periods. Labels are matched exactly, e.g. "9:00 AM".
func (d *Doctor) HasSlot(label string) bool {
	for _, period := range [][]string{d.MorningSlots, d.AfternoonSlots, d.EveningSlots} {
		for _, s := range period {
			if s == label {
				return true
			}
		}
	}
	return false
}

// AllSlots returns the doctor's full slot list in display order, morning
// through evening.
func (d *Doctor) AllSlots() []string {
	out := make([]string, 0, len(d.MorningSlots)+len(d.AfternoonSlots)+len(d.EveningSlots))
	out = append(out, d.MorningSlots...)
	out = append(out, d.AfternoonSlots...)
	out = append(out, d.EveningSlots...)
	return out
}

// Filter narrows a directory listing. Query is matched case-insensitively as
// a substring of name, specialization, or city. Each facet list is a
// multi-select: values within a list are OR'd, the lists and the query are
// AND'd together. Empty lists match everything.
type Filter struct {
	Query           string
	Specializations []string
	Cities          []string
	Hospitals       []string
}

// Facets holds the distinct values offered as directory filter options.
type Facets struct {
	Specializations []string `json:"specializations"`
	Cities          []string `json:"cities"`
	Hospitals       []string `json:"hospitals"`
}
