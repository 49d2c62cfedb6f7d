package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/reliefworks/reliefdesk/internal/auth"
	"github.com/reliefworks/reliefdesk/internal/domain"
	"github.com/reliefworks/reliefdesk/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeRepo is an in-memory ReliefRepository for unit tests.
type fakeRepo struct {
	users     []domain.User
	incidents []domain.Incident
	donations []domain.Donation
	vols      []domain.Volunteer
	tasks     []domain.VolunteerTask
	audits    []domain.AuditLog
	nextID    uint
}

func newFakeRepo() *fakeRepo { return &fakeRepo{nextID: 1} }

func (f *fakeRepo) id() uint {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeRepo) CreateUser(ctx context.Context, value domain.User) (domain.User, error) {
	for _, u := range f.users {
		if u.Email == value.Email {
			return domain.User{}, gorm.ErrDuplicatedKey
		}
	}
	value.ID = f.id()
	value.CreatedAt = time.Now()
	f.users = append(f.users, value)
	return value, nil
}

func (f *fakeRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, gorm.ErrRecordNotFound
}

func (f *fakeRepo) UpdateUserRole(ctx context.Context, userID uint, role string) error {
	for i := range f.users {
		if f.users[i].ID == userID {
			f.users[i].Role = role
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepo) CountUsers(ctx context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeRepo) ListUsers(ctx context.Context, query string, limit int) ([]domain.User, error) {
	return f.users, nil
}

func (f *fakeRepo) CreateIncident(ctx context.Context, value domain.Incident) (domain.Incident, error) {
	value.ID = f.id()
	f.incidents = append(f.incidents, value)
	return value, nil
}

func (f *fakeRepo) ListIncidents(ctx context.Context, reportedBy *uint, limit int) ([]domain.Incident, error) {
	if reportedBy == nil {
		return f.incidents, nil
	}
	var out []domain.Incident
	for _, inc := range f.incidents {
		if inc.ReportedBy == *reportedBy {
			out = append(out, inc)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateDonation(ctx context.Context, value domain.Donation) (domain.Donation, error) {
	value.ID = f.id()
	f.donations = append(f.donations, value)
	return value, nil
}

func (f *fakeRepo) ListDonations(ctx context.Context, limit int) ([]domain.Donation, error) {
	return f.donations, nil
}

func (f *fakeRepo) DonationSummary(ctx context.Context) ([]domain.ResourceTotal, error) {
	byType := map[string]*domain.ResourceTotal{}
	var order []string
	for _, d := range f.donations {
		row, ok := byType[d.ResourceType]
		if !ok {
			row = &domain.ResourceTotal{ResourceType: d.ResourceType}
			byType[d.ResourceType] = row
			order = append(order, d.ResourceType)
		}
		row.DonationCount++
		row.TotalQuantity += d.Quantity
		if d.Status == "Pending" {
			row.PendingCount++
		}
	}
	out := make([]domain.ResourceTotal, 0, len(order))
	for _, key := range order {
		out = append(out, *byType[key])
	}
	return out, nil
}

func (f *fakeRepo) EnrollVolunteer(ctx context.Context, value domain.Volunteer) (domain.Volunteer, error) {
	for _, v := range f.vols {
		if v.UserID == value.UserID {
			return domain.Volunteer{}, gorm.ErrDuplicatedKey
		}
	}
	if err := f.UpdateUserRole(ctx, value.UserID, domain.RoleVolunteer); err != nil {
		return domain.Volunteer{}, err
	}
	value.ID = f.id()
	f.vols = append(f.vols, value)
	return value, nil
}

func (f *fakeRepo) GetVolunteerByUserID(ctx context.Context, userID uint) (domain.Volunteer, error) {
	for _, v := range f.vols {
		if v.UserID == userID {
			return v, nil
		}
	}
	return domain.Volunteer{}, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListVolunteers(ctx context.Context, limit int) ([]domain.Volunteer, error) {
	return f.vols, nil
}

func (f *fakeRepo) CreateVolunteerTask(ctx context.Context, value domain.VolunteerTask) (domain.VolunteerTask, error) {
	value.ID = f.id()
	f.tasks = append(f.tasks, value)
	return value, nil
}

func (f *fakeRepo) ListVolunteerTasks(ctx context.Context, status string, limit int) ([]domain.VolunteerTask, error) {
	if status == "" {
		return f.tasks, nil
	}
	var out []domain.VolunteerTask
	for _, t := range f.tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateVolunteerTaskStatus(ctx context.Context, taskID uint, status string) (domain.VolunteerTask, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == taskID {
			f.tasks[i].Status = status
			return f.tasks[i], nil
		}
	}
	return domain.VolunteerTask{}, gorm.ErrRecordNotFound
}

func (f *fakeRepo) CreateAuditLog(ctx context.Context, value domain.AuditLog) error {
	value.ID = f.id()
	f.audits = append(f.audits, value)
	return nil
}

func (f *fakeRepo) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditRecord, error) {
	out := make([]domain.AuditRecord, 0, len(f.audits))
	for _, a := range f.audits {
		out = append(out, domain.AuditRecord{
			ID: a.ID, ActorUserID: a.ActorUserID, Action: a.Action,
			TargetType: a.TargetType, TargetID: a.TargetID, Metadata: a.Metadata,
		})
	}
	return out, nil
}

func newTestService(repo domain.ReliefRepository) *ReliefService {
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewReliefService(repo, tokens, nil)
}

func TestHashPasswordIsDeterministic(t *testing.T) {
	h1 := HashPassword("Secret1!")
	h2 := HashPassword("Secret1!")
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, HashPassword("secret1!"))
	assert.NotEmpty(t, h1)
	assert.NotContains(t, h1, "Secret1!")
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)

	decision, err := svc.Register(ctx, RegisterRequest{
		FullName: "Jane Doe",
		Email:    "Jane@Example.com",
		Password: "Secret1!",
	})
	require.NoError(t, err)
	assert.Equal(t, DestLogin, decision.Redirect)

	stored, err := repo.GetUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, stored.Role)
	assert.NotEqual(t, "Secret1!", stored.PasswordHash)

	sess := session.New("t1")
	decision, err = svc.Login(ctx, sess, LoginRequest{Email: "jane@example.com", Password: "Secret1!"})
	require.NoError(t, err)
	assert.Equal(t, DestUserHome, decision.Redirect)

	id, ok := sess.GetInt(session.KeyUserID)
	require.True(t, ok)
	assert.Equal(t, int(stored.ID), id)
	email, _ := sess.GetString(session.KeyUserEmail)
	assert.Equal(t, "jane@example.com", email)
	name, _ := sess.GetString(session.KeyUserName)
	assert.Equal(t, "Jane Doe", name)
	role, _ := sess.GetString(session.KeyUserRole)
	assert.Equal(t, domain.RoleUser, role)
}

func TestLoginWrongPasswordWritesNoSessionState(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.Register(ctx, RegisterRequest{FullName: "Jane", Email: "jane@example.com", Password: "Secret1!"})
	require.NoError(t, err)

	sess := session.New("t1")
	_, err = svc.Login(ctx, sess, LoginRequest{Email: "jane@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, domain.IsAuthenticationError(err))
	assert.Empty(t, sess.Values())
}

func TestLoginUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeRepo())

	sess := session.New("t1")
	_, err := svc.Login(ctx, sess, LoginRequest{Email: "ghost@example.com", Password: "anything"})
	require.Error(t, err)
	assert.True(t, domain.IsAuthenticationError(err))
	assert.Empty(t, sess.Values())
}

func TestLoginRedirectsByRole(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)

	cases := []struct {
		role string
		dest string
	}{
		{domain.RoleUser, DestUserHome},
		{domain.RoleVolunteer, DestVolunteerHome},
		{domain.RoleAdmin, DestAdminHome},
	}
	for _, tc := range cases {
		email := strings.ToLower(tc.role) + "@example.com"
		_, err := repo.CreateUser(ctx, domain.User{
			FullName: tc.role, Email: email, PasswordHash: HashPassword("pw"), Role: tc.role,
		})
		require.NoError(t, err)

		decision, err := svc.Login(ctx, session.New(tc.role), LoginRequest{Email: email, Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, tc.dest, decision.Redirect, "role %s", tc.role)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeRepo())

	_, err := svc.Register(ctx, RegisterRequest{FullName: "Jane", Email: "jane@example.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{FullName: "Other", Email: "JANE@example.com", Password: "pw2"})
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeRepo())

	_, err := svc.Register(ctx, RegisterRequest{FullName: "", Email: "a@b.co", Password: "pw"})
	assert.True(t, domain.IsValidationError(err))

	_, err = svc.Register(ctx, RegisterRequest{FullName: "A", Email: "not-an-email", Password: "pw"})
	assert.True(t, domain.IsValidationError(err))

	_, err = svc.Register(ctx, RegisterRequest{FullName: "A", Email: "a@b.co", Password: ""})
	assert.True(t, domain.IsValidationError(err))
}

func TestLogIncidentRequiresSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeRepo())

	_, err := svc.LogIncident(ctx, nil, IncidentRequest{Title: "Fire"})
	assert.True(t, domain.IsAuthenticationError(err))

	_, err = svc.LogIncident(ctx, session.New("anon"), IncidentRequest{Title: "Fire"})
	assert.True(t, domain.IsAuthenticationError(err))
}

func TestLogIncidentValidatesAndStampsReporter(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)

	sess := loggedInSession(t, svc, repo, "jane@example.com", domain.RoleUser)

	_, err := svc.LogIncident(ctx, sess, IncidentRequest{Title: "   "})
	assert.True(t, domain.IsValidationError(err))
	assert.Empty(t, repo.incidents)

	decision, err := svc.LogIncident(ctx, sess, IncidentRequest{Title: "Flooded road", Location: "Riverside"})
	require.NoError(t, err)
	assert.Equal(t, DestUserHome, decision.Redirect)

	require.Len(t, repo.incidents, 1)
	userID, _ := sess.GetInt(session.KeyUserID)
	assert.Equal(t, uint(userID), repo.incidents[0].ReportedBy)
	assert.False(t, repo.incidents[0].DateReported.IsZero())
}

func TestLogDonationFillsDonorFromSession(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)

	sess := loggedInSession(t, svc, repo, "jane@example.com", domain.RoleUser)

	decision, err := svc.LogDonation(ctx, sess, DonationRequest{ResourceType: "Water", Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, DestUserHome, decision.Redirect)

	require.Len(t, repo.donations, 1)
	d := repo.donations[0]
	assert.Equal(t, "Jane Doe", d.DonorName)
	assert.Equal(t, "jane@example.com", d.Email)
	assert.Equal(t, "Pending", d.Status)
	assert.False(t, d.DonationDate.IsZero())
}

func TestLogDonationValidation(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)

	sess := loggedInSession(t, svc, repo, "jane@example.com", domain.RoleUser)

	_, err := svc.LogDonation(ctx, sess, DonationRequest{ResourceType: "", Quantity: 5})
	assert.True(t, domain.IsValidationError(err))

	_, err = svc.LogDonation(ctx, sess, DonationRequest{ResourceType: "Water", Quantity: 0})
	assert.True(t, domain.IsValidationError(err))
	assert.Empty(t, repo.donations)
}

func TestEnrollVolunteerPromotesRole(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)

	sess := loggedInSession(t, svc, repo, "jane@example.com", domain.RoleUser)

	decision, err := svc.EnrollVolunteer(ctx, sess, VolunteerRequest{Skills: "first aid", Availability: "weekends"})
	require.NoError(t, err)
	assert.Equal(t, DestUserHome, decision.Redirect)

	role, _ := sess.GetString(session.KeyUserRole)
	assert.Equal(t, domain.RoleVolunteer, role)

	userID, _ := sess.GetInt(session.KeyUserID)
	stored, err := repo.GetUserByID(ctx, uint(userID))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleVolunteer, stored.Role)

	// After re-login the user lands on the volunteer home.
	relogin := session.New("t2")
	decision, err = svc.Login(ctx, relogin, LoginRequest{Email: "jane@example.com", Password: "Secret1!"})
	require.NoError(t, err)
	assert.Equal(t, DestVolunteerHome, decision.Redirect)
}

func TestCreateVolunteerTaskDefaultsToOpen(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)

	sess := loggedInSession(t, svc, repo, "vol@example.com", domain.RoleVolunteer)

	_, err := svc.CreateVolunteerTask(ctx, sess, TaskRequest{TaskName: ""})
	assert.True(t, domain.IsValidationError(err))

	decision, err := svc.CreateVolunteerTask(ctx, sess, TaskRequest{TaskName: "Distribute water"})
	require.NoError(t, err)
	assert.Equal(t, DestVolunteerHome, decision.Redirect)
	require.Len(t, repo.tasks, 1)
	assert.Equal(t, "Open", repo.tasks[0].Status)
}

func TestUpdateTaskStatus(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)

	task, err := repo.CreateVolunteerTask(ctx, domain.VolunteerTask{TaskName: "Shelter setup", Status: "Open"})
	require.NoError(t, err)

	_, err = svc.UpdateTaskStatus(ctx, 0, "Completed")
	assert.True(t, domain.IsValidationError(err))

	_, err = svc.UpdateTaskStatus(ctx, task.ID, "  ")
	assert.True(t, domain.IsValidationError(err))

	updated, err := svc.UpdateTaskStatus(ctx, task.ID, "Completed")
	require.NoError(t, err)
	assert.Equal(t, "Completed", updated.Status)

	_, err = svc.UpdateTaskStatus(ctx, 999, "Completed")
	assert.True(t, domain.IsValidationError(err))
}

func TestAdminHomeRequiresAdminRole(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	sess := loggedInSession(t, svc, repo, "user@example.com", domain.RoleUser)
	_, err := svc.AdminHome(sess)
	assert.True(t, domain.IsAuthenticationError(err))

	admin := loggedInSession(t, svc, repo, "admin@example.com", domain.RoleAdmin)
	decision, err := svc.AdminHome(admin)
	require.NoError(t, err)
	assert.Equal(t, "AdminHome", decision.View)
}

func TestBootstrapAdminRunsOnce(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)

	require.NoError(t, svc.BootstrapAdmin(ctx, "admin@example.com", "admin"))
	u, err := repo.GetUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	// Users exist now; a second bootstrap must not add anything.
	require.NoError(t, svc.BootstrapAdmin(ctx, "other@example.com", "pw"))
	_, err = repo.GetUserByEmail(ctx, "other@example.com")
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.Register(ctx, RegisterRequest{FullName: "Jane", Email: "jane@example.com", Password: "pw"})
	require.NoError(t, err)

	_, _, err = svc.IssueAccessToken(ctx, "jane@example.com", "wrong")
	assert.True(t, domain.IsAuthenticationError(err))

	u, token, err := svc.IssueAccessToken(ctx, "jane@example.com", "pw")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	authed, err := svc.AuthenticateAccessToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, authed.ID)

	_, err = svc.AuthenticateAccessToken(ctx, "garbage")
	assert.True(t, domain.IsAuthenticationError(err))
}

func TestLogoutClearsSession(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)

	sess := loggedInSession(t, svc, repo, "jane@example.com", domain.RoleUser)
	decision := svc.Logout(ctx, sess)
	assert.Equal(t, DestLogin, decision.Redirect)
	assert.Empty(t, sess.Values())
}

// loggedInSession registers (if needed) and logs in a user with the given
// role, returning the populated session.
func loggedInSession(t *testing.T, svc *ReliefService, repo *fakeRepo, email, role string) *session.Session {
	t.Helper()
	ctx := context.Background()
	if _, err := repo.GetUserByEmail(ctx, email); err != nil {
		_, err := repo.CreateUser(ctx, domain.User{
			FullName:     "Jane Doe",
			Email:        email,
			PasswordHash: HashPassword("Secret1!"),
			Role:         role,
		})
		require.NoError(t, err)
	}
	sess := session.New(email)
	_, err := svc.Login(ctx, sess, LoginRequest{Email: email, Password: "Secret1!"})
	require.NoError(t, err)
	return sess
}
