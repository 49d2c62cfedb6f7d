package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/reliefworks/reliefdesk/internal/domain"
)

func newTestRepo(t *testing.T) *ReliefRepository {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "reliefdesk_test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return NewReliefRepository(db)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.CreateUser(ctx, domain.User{FullName: "Jane Doe", Email: "jane@example.com", PasswordHash: "h", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err = repo.CreateUser(ctx, domain.User{FullName: "Jane Clone", Email: "jane@example.com", PasswordHash: "h2", Role: domain.RoleUser})
	if err == nil {
		t.Fatalf("expected unique violation for duplicate email")
	}
}

func TestEnrollVolunteerFlipsRoleAtomically(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	u, err := repo.CreateUser(ctx, domain.User{FullName: "Vol Unteer", Email: "vol@example.com", PasswordHash: "h", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	v, err := repo.EnrollVolunteer(ctx, domain.Volunteer{UserID: u.ID, Skills: "first aid", Availability: "weekends"})
	if err != nil {
		t.Fatalf("enroll volunteer: %v", err)
	}
	if v.UserID != u.ID {
		t.Fatalf("volunteer bound to wrong user: %d", v.UserID)
	}

	reloaded, err := repo.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if reloaded.Role != domain.RoleVolunteer {
		t.Fatalf("expected role %q after enrollment, got %q", domain.RoleVolunteer, reloaded.Role)
	}

	// A second enrollment for the same user must fail and leave the role intact.
	_, err = repo.EnrollVolunteer(ctx, domain.Volunteer{UserID: u.ID, Skills: "logistics"})
	if err == nil {
		t.Fatalf("expected unique violation for second enrollment")
	}
	reloaded, err = repo.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if reloaded.Role != domain.RoleVolunteer {
		t.Fatalf("role changed by failed enrollment: %q", reloaded.Role)
	}
}

func TestEnrollVolunteerUnknownUserLeavesNoRow(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.EnrollVolunteer(ctx, domain.Volunteer{UserID: 9999, Skills: "none"})
	if err == nil {
		t.Fatalf("expected error for unknown user")
	}
	vols, err := repo.ListVolunteers(ctx, 10)
	if err != nil {
		t.Fatalf("list volunteers: %v", err)
	}
	if len(vols) != 0 {
		t.Fatalf("rolled-back enrollment left %d rows", len(vols))
	}
}

func TestUpdateVolunteerTaskStatus(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	task, err := repo.CreateVolunteerTask(ctx, domain.VolunteerTask{TaskName: "Distribute water", Status: "Open"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	updated, err := repo.UpdateVolunteerTaskStatus(ctx, task.ID, "Completed")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != "Completed" {
		t.Fatalf("expected Completed, got %q", updated.Status)
	}

	if _, err := repo.UpdateVolunteerTaskStatus(ctx, 4242, "Completed"); err == nil {
		t.Fatalf("expected error for missing task")
	}

	open, err := repo.ListVolunteerTasks(ctx, "Open", 10)
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(open) != 0 {
		t.Fatalf("expected no open tasks, got %d", len(open))
	}
	completed, err := repo.ListVolunteerTasks(ctx, "Completed", 10)
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(completed) != 1 {
		t.Fatalf("expected one completed task, got %d", len(completed))
	}
}

func TestDonationSummaryGroupsByResourceType(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	seed := []domain.Donation{
		{DonorName: "A", Email: "a@example.com", ResourceType: "Water", Quantity: 10, Status: "Pending"},
		{DonorName: "B", Email: "b@example.com", ResourceType: "Water", Quantity: 5, Status: "Collected"},
		{DonorName: "C", Email: "c@example.com", ResourceType: "Food", Quantity: 3, Status: "Pending"},
	}
	for _, d := range seed {
		if _, err := repo.CreateDonation(ctx, d); err != nil {
			t.Fatalf("create donation: %v", err)
		}
	}

	totals, err := repo.DonationSummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	byType := make(map[string]domain.ResourceTotal, len(totals))
	for _, row := range totals {
		byType[row.ResourceType] = row
	}

	water := byType["Water"]
	if water.DonationCount != 2 || water.TotalQuantity != 15 || water.PendingCount != 1 {
		t.Fatalf("unexpected water totals: %+v", water)
	}
	food := byType["Food"]
	if food.DonationCount != 1 || food.TotalQuantity != 3 || food.PendingCount != 1 {
		t.Fatalf("unexpected food totals: %+v", food)
	}
}

func TestIncidentListFiltersByReporter(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	u1, err := repo.CreateUser(ctx, domain.User{FullName: "R One", Email: "r1@example.com", PasswordHash: "h", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	u2, err := repo.CreateUser(ctx, domain.User{FullName: "R Two", Email: "r2@example.com", PasswordHash: "h", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := repo.CreateIncident(ctx, domain.Incident{Title: "Flooded road", ReportedBy: u1.ID}); err != nil {
		t.Fatalf("create incident: %v", err)
	}
	if _, err := repo.CreateIncident(ctx, domain.Incident{Title: "Collapsed bridge", ReportedBy: u2.ID}); err != nil {
		t.Fatalf("create incident: %v", err)
	}

	all, err := repo.ListIncidents(ctx, nil, 10)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 incidents, got %d", len(all))
	}

	mine, err := repo.ListIncidents(ctx, &u1.ID, 10)
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(mine) != 1 || mine[0].Title != "Flooded road" {
		t.Fatalf("unexpected filtered incidents: %+v", mine)
	}
}

func TestAuditLogJoinsActorEmail(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	u, err := repo.CreateUser(ctx, domain.User{FullName: "Admin", Email: "admin@example.com", PasswordHash: "h", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := repo.CreateAuditLog(ctx, domain.AuditLog{ActorUserID: &u.ID, Action: "relief.incident.create", TargetType: "incident"}); err != nil {
		t.Fatalf("create audit log: %v", err)
	}

	records, err := repo.ListAuditLogs(ctx, 10)
	if err != nil {
		t.Fatalf("list audit logs: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	if records[0].ActorUserEmail != "admin@example.com" {
		t.Fatalf("expected joined actor email, got %q", records[0].ActorUserEmail)
	}
}
