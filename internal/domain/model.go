package domain

import "time"

const (
	RoleUser      = "User"
	RoleVolunteer = "Volunteer"
	RoleAdmin     = "Admin"
)

type User struct {
	ID           uint
	FullName     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Incident struct {
	ID           uint
	Title        string
	Description  string
	Location     string
	ReportedBy   uint
	DateReported time.Time
	CreatedAt    time.Time
}

type Donation struct {
	ID            uint
	DonorName     string
	Email         string
	ResourceType  string
	Quantity      int
	Description   string
	ContactNumber string
	PickupAddress string
	Status        string
	DonationDate  time.Time
	CreatedAt     time.Time
}

type Volunteer struct {
	ID           uint
	UserID       uint
	Skills       string
	Availability string
	JoinedAt     time.Time
}

type VolunteerTask struct {
	ID        uint
	TaskName  string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AuditLog struct {
	ID          uint
	ActorUserID *uint
	Action      string
	TargetType  string
	TargetID    *uint
	Metadata    string
	CreatedAt   time.Time
}

type AuditRecord struct {
	ID             uint
	ActorUserID    *uint
	ActorUserEmail string
	Action         string
	TargetType     string
	TargetID       *uint
	Metadata       string
	CreatedAt      time.Time
}

// ResourceTotal is one row of the donation summary report.
type ResourceTotal struct {
	ResourceType  string
	DonationCount int
	TotalQuantity int
	PendingCount  int
}
