package directory

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Doctor is a clinician patients book visits with.
type Doctor struct {
	ID         uuid.UUID `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Patronymic string    `json:"patronymic,omitempty"`
	Specialty  string    `json:"specialty,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FullName renders "last first patronymic" with the patronymic omitted
// when absent.
func (d *Doctor) FullName() string {
	return joinName(d.LastName, d.FirstName, d.Patronymic)
}

// Patient is a person receiving care.
type Patient struct {
	ID         uuid.UUID  `json:"id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Patronymic string     `json:"patronymic,omitempty"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (p *Patient) FullName() string {
	return joinName(p.LastName, p.FirstName, p.Patronymic)
}

func joinName(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}
