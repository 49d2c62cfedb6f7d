package application

import (
	"regexp"
	"strings"

	"github.com/reliefworks/reliefdesk/internal/domain"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// Request structs are the typed form payloads. Each is validated at the
// boundary before the operation runs.

type RegisterRequest struct {
	FullName string
	Email    string
	Password string
	Role     string
}

func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.FullName) == "" {
		return domain.NewValidationError("fullName", "full name is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return domain.NewValidationError("email", "email is required")
	}
	if !emailPattern.MatchString(strings.TrimSpace(r.Email)) {
		return domain.NewValidationError("email", "invalid email format")
	}
	if r.Password == "" {
		return domain.NewValidationError("password", "password is required")
	}
	return nil
}

type LoginRequest struct {
	Email    string
	Password string
}

func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return domain.NewValidationError("email", "email is required")
	}
	if r.Password == "" {
		return domain.NewValidationError("password", "password is required")
	}
	return nil
}

type IncidentRequest struct {
	Title       string
	Description string
	Location    string
}

func (r *IncidentRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return domain.NewValidationError("title", "title is required")
	}
	return nil
}

type DonationRequest struct {
	DonorName     string
	Email         string
	ResourceType  string
	Quantity      int
	Description   string
	ContactNumber string
	PickupAddress string
}

func (r *DonationRequest) Validate() error {
	if strings.TrimSpace(r.ResourceType) == "" {
		return domain.NewValidationError("resourceType", "resource type is required")
	}
	if r.Quantity <= 0 {
		return domain.NewValidationError("quantity", "quantity must be a positive number")
	}
	if e := strings.TrimSpace(r.Email); e != "" && !emailPattern.MatchString(e) {
		return domain.NewValidationError("email", "invalid email format")
	}
	return nil
}

type VolunteerRequest struct {
	Skills       string
	Availability string
}

type TaskRequest struct {
	TaskName string
	Status   string
}

func (r *TaskRequest) Validate() error {
	if strings.TrimSpace(r.TaskName) == "" {
		return domain.NewValidationError("taskName", "task name is required")
	}
	return nil
}
