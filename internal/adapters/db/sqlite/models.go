package sqlite

import "time"

type UserModel struct {
	ID           uint   `gorm:"primaryKey"`
	FullName     string `gorm:"not null"`
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:'User'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserModel) TableName() string { return "users" }

type IncidentModel struct {
	ID           uint   `gorm:"primaryKey"`
	Title        string `gorm:"not null"`
	Description  string
	Location     string
	ReportedBy   uint `gorm:"not null;index"`
	DateReported time.Time
	CreatedAt    time.Time
}

func (IncidentModel) TableName() string { return "incidents" }

type DonationModel struct {
	ID            uint   `gorm:"primaryKey"`
	DonorName     string `gorm:"not null"`
	Email         string `gorm:"not null"`
	ResourceType  string `gorm:"not null;index"`
	Quantity      int    `gorm:"not null"`
	Description   string
	ContactNumber string
	PickupAddress string
	Status        string `gorm:"not null;default:'Pending'"`
	DonationDate  time.Time
	CreatedAt     time.Time
}

func (DonationModel) TableName() string { return "donations" }

type VolunteerModel struct {
	ID           uint `gorm:"primaryKey"`
	UserID       uint `gorm:"not null;uniqueIndex"`
	Skills       string
	Availability string
	JoinedAt     time.Time
	CreatedAt    time.Time
}

func (VolunteerModel) TableName() string { return "volunteers" }

type VolunteerTaskModel struct {
	ID        uint   `gorm:"primaryKey"`
	TaskName  string `gorm:"not null"`
	Status    string `gorm:"not null;default:'Open';index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (VolunteerTaskModel) TableName() string { return "volunteer_tasks" }

type SessionModel struct {
	ID        uint   `gorm:"primaryKey"`
	Token     string `gorm:"not null;uniqueIndex"`
	Data      string `gorm:"not null;default:'{}'"`
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SessionModel) TableName() string { return "sessions" }

type AuditLogModel struct {
	ID          uint `gorm:"primaryKey"`
	ActorUserID *uint
	Action      string `gorm:"not null;index"`
	TargetType  string `gorm:"not null;index"`
	TargetID    *uint
	Metadata    string
	CreatedAt   time.Time
}

func (AuditLogModel) TableName() string { return "audit_logs" }
