package domain

import "context"

type ReliefRepository interface {
	CreateUser(ctx context.Context, value User) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id uint) (User, error)
	UpdateUserRole(ctx context.Context, userID uint, role string) error
	CountUsers(ctx context.Context) (int64, error)
	ListUsers(ctx context.Context, query string, limit int) ([]User, error)

	CreateIncident(ctx context.Context, value Incident) (Incident, error)
	ListIncidents(ctx context.Context, reportedBy *uint, limit int) ([]Incident, error)

	CreateDonation(ctx context.Context, value Donation) (Donation, error)
	ListDonations(ctx context.Context, limit int) ([]Donation, error)
	DonationSummary(ctx context.Context) ([]ResourceTotal, error)

	// EnrollVolunteer inserts the Volunteer record and flips the owning
	// User's role to Volunteer in a single transaction.
	EnrollVolunteer(ctx context.Context, value Volunteer) (Volunteer, error)
	GetVolunteerByUserID(ctx context.Context, userID uint) (Volunteer, error)
	ListVolunteers(ctx context.Context, limit int) ([]Volunteer, error)

	CreateVolunteerTask(ctx context.Context, value VolunteerTask) (VolunteerTask, error)
	ListVolunteerTasks(ctx context.Context, status string, limit int) ([]VolunteerTask, error)
	UpdateVolunteerTaskStatus(ctx context.Context, taskID uint, status string) (VolunteerTask, error)

	CreateAuditLog(ctx context.Context, value AuditLog) error
	ListAuditLogs(ctx context.Context, limit int) ([]AuditRecord, error)
}
