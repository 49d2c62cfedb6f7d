package application

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/reliefworks/reliefdesk/internal/auth"
	"github.com/reliefworks/reliefdesk/internal/domain"
	"github.com/reliefworks/reliefdesk/internal/session"
	"go.uber.org/zap"
	"golang.org/x/crypto/pbkdf2"
	"gorm.io/gorm"
)

// Navigation targets returned to the submission surface.
const (
	DestLogin         = "Login"
	DestUserHome      = "UserHome"
	DestVolunteerHome = "VolunteerHome"
	DestAdminHome     = "AdminHome"
)

// Decision is the outcome of a workflow operation: either a redirect to a
// named destination or a view to render with a model.
type Decision struct {
	Redirect string
	View     string
	Model    any
}

func redirectTo(dest string) Decision { return Decision{Redirect: dest} }

func renderView(view string, model any) Decision { return Decision{View: view, Model: model} }

// Password hashing must be deterministic so a login can re-hash and compare.
// The salt is fixed per application, not per user.
var passwordSalt = []byte("reliefdesk/pw/v1")

const (
	pbkdf2Iterations = 4096
	pbkdf2KeyLen     = 32
)

func HashPassword(password string) string {
	key := pbkdf2.Key([]byte(password), passwordSalt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return base64.StdEncoding.EncodeToString(key)
}

func passwordMatches(password, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashPassword(password)), []byte(storedHash)) == 1
}

type ReliefService struct {
	repo   domain.ReliefRepository
	tokens *auth.TokenIssuer
	log    *zap.Logger
}

func NewReliefService(repo domain.ReliefRepository, tokens *auth.TokenIssuer, log *zap.Logger) *ReliefService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReliefService{repo: repo, tokens: tokens, log: log}
}

// Register hashes the password, persists the user and sends the caller to
// the login entry point. A duplicate email is reported as a field error on
// top of the store's unique constraint.
func (s *ReliefService) Register(ctx context.Context, req RegisterRequest) (Decision, error) {
	if err := req.Validate(); err != nil {
		return Decision{}, err
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = domain.RoleUser
	}

	u, err := s.repo.CreateUser(ctx, domain.User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        normalizeEmail(req.Email),
		PasswordHash: HashPassword(req.Password),
		Role:         role,
	})
	if err != nil {
		if isDuplicateKey(err) {
			return Decision{}, domain.NewValidationError("email", "email is already registered")
		}
		return Decision{}, domain.NewStorageError("create user", err)
	}

	s.log.Info("user registered", zap.Uint("user_id", u.ID), zap.String("role", u.Role))
	s.writeAudit(ctx, &u.ID, "auth.register", "user", &u.ID, "")
	return redirectTo(DestLogin), nil
}

// Login verifies credentials, populates the session and redirects to the
// role-appropriate landing page. No session state is written on failure.
func (s *ReliefService) Login(ctx context.Context, sess *session.Session, req LoginRequest) (Decision, error) {
	if err := req.Validate(); err != nil {
		return Decision{}, err
	}

	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Decision{}, domain.NewAuthenticationError("invalid credentials")
		}
		return Decision{}, domain.NewStorageError("find user", err)
	}
	if !passwordMatches(req.Password, u.PasswordHash) {
		return Decision{}, domain.NewAuthenticationError("invalid credentials")
	}

	sess.SetInt(session.KeyUserID, int(u.ID))
	sess.SetString(session.KeyUserEmail, u.Email)
	sess.SetString(session.KeyUserName, u.FullName)
	sess.SetString(session.KeyUserRole, u.Role)

	s.log.Info("login", zap.Uint("user_id", u.ID), zap.String("role", u.Role))
	s.writeAudit(ctx, &u.ID, "auth.login", "user", &u.ID, "")

	switch u.Role {
	case domain.RoleVolunteer:
		return redirectTo(DestVolunteerHome), nil
	case domain.RoleAdmin:
		return redirectTo(DestAdminHome), nil
	default:
		return redirectTo(DestUserHome), nil
	}
}

func (s *ReliefService) Logout(ctx context.Context, sess *session.Session) Decision {
	if id, ok := sess.GetInt(session.KeyUserID); ok {
		uid := uint(id)
		s.writeAudit(ctx, &uid, "auth.logout", "user", &uid, "")
	}
	sess.Clear()
	return redirectTo(DestLogin)
}

// LogIncident records an incident for the session user and redirects home.
func (s *ReliefService) LogIncident(ctx context.Context, sess *session.Session, req IncidentRequest) (Decision, error) {
	userID, err := requireSessionUser(sess)
	if err != nil {
		return Decision{}, err
	}
	if err := req.Validate(); err != nil {
		return Decision{}, err
	}

	inc, err := s.repo.CreateIncident(ctx, domain.Incident{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Location:     req.Location,
		ReportedBy:   userID,
		DateReported: time.Now(),
	})
	if err != nil {
		return Decision{}, domain.NewStorageError("create incident", err)
	}

	s.log.Info("incident logged", zap.Uint("incident_id", inc.ID), zap.Uint("reported_by", userID))
	s.writeAudit(ctx, &userID, "incident.log", "incident", &inc.ID, inc.Title)
	return redirectTo(DestUserHome), nil
}

// LogDonation records a donation. Blank donor name/email are filled from the
// session profile; status defaults to Pending.
func (s *ReliefService) LogDonation(ctx context.Context, sess *session.Session, req DonationRequest) (Decision, error) {
	userID, err := requireSessionUser(sess)
	if err != nil {
		return Decision{}, err
	}

	if strings.TrimSpace(req.DonorName) == "" {
		if name, ok := sess.GetString(session.KeyUserName); ok {
			req.DonorName = name
		}
	}
	if strings.TrimSpace(req.Email) == "" {
		if email, ok := sess.GetString(session.KeyUserEmail); ok {
			req.Email = email
		}
	}
	if err := req.Validate(); err != nil {
		return Decision{}, err
	}

	d, err := s.repo.CreateDonation(ctx, domain.Donation{
		DonorName:     strings.TrimSpace(req.DonorName),
		Email:         normalizeEmail(req.Email),
		ResourceType:  strings.TrimSpace(req.ResourceType),
		Quantity:      req.Quantity,
		Description:   req.Description,
		ContactNumber: req.ContactNumber,
		PickupAddress: req.PickupAddress,
		Status:        "Pending",
		DonationDate:  time.Now(),
	})
	if err != nil {
		return Decision{}, domain.NewStorageError("create donation", err)
	}

	s.log.Info("donation logged", zap.Uint("donation_id", d.ID), zap.String("resource", d.ResourceType), zap.Int("quantity", d.Quantity))
	s.writeAudit(ctx, &userID, "donation.log", "donation", &d.ID, d.ResourceType)
	return redirectTo(DestUserHome), nil
}

// EnrollVolunteer persists the Volunteer record and promotes the session
// user's role to Volunteer. Both writes happen in one transaction.
func (s *ReliefService) EnrollVolunteer(ctx context.Context, sess *session.Session, req VolunteerRequest) (Decision, error) {
	userID, err := requireSessionUser(sess)
	if err != nil {
		return Decision{}, err
	}

	v, err := s.repo.EnrollVolunteer(ctx, domain.Volunteer{
		UserID:       userID,
		Skills:       req.Skills,
		Availability: req.Availability,
		JoinedAt:     time.Now(),
	})
	if err != nil {
		return Decision{}, domain.NewStorageError("enroll volunteer", err)
	}

	sess.SetString(session.KeyUserRole, domain.RoleVolunteer)
	s.log.Info("volunteer enrolled", zap.Uint("volunteer_id", v.ID), zap.Uint("user_id", userID))
	s.writeAudit(ctx, &userID, "volunteer.enroll", "volunteer", &v.ID, v.Skills)
	return redirectTo(DestUserHome), nil
}

func (s *ReliefService) CreateVolunteerTask(ctx context.Context, sess *session.Session, req TaskRequest) (Decision, error) {
	userID, err := requireSessionUser(sess)
	if err != nil {
		return Decision{}, err
	}
	if err := req.Validate(); err != nil {
		return Decision{}, err
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = "Open"
	}

	t, err := s.repo.CreateVolunteerTask(ctx, domain.VolunteerTask{
		TaskName: strings.TrimSpace(req.TaskName),
		Status:   status,
	})
	if err != nil {
		return Decision{}, domain.NewStorageError("create volunteer task", err)
	}

	s.writeAudit(ctx, &userID, "task.create", "volunteer_task", &t.ID, t.TaskName)
	return redirectTo(DestVolunteerHome), nil
}

func (s *ReliefService) UpdateTaskStatus(ctx context.Context, taskID uint, status string) (domain.VolunteerTask, error) {
	if taskID == 0 {
		return domain.VolunteerTask{}, domain.NewValidationError("taskId", "task id is required")
	}
	if strings.TrimSpace(status) == "" {
		return domain.VolunteerTask{}, domain.NewValidationError("status", "status is required")
	}
	t, err := s.repo.UpdateVolunteerTaskStatus(ctx, taskID, strings.TrimSpace(status))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.VolunteerTask{}, domain.NewValidationError("taskId", "task not found")
		}
		return domain.VolunteerTask{}, domain.NewStorageError("update task status", err)
	}
	return t, nil
}

// Page views. Rendering is left to the adapter; these return the view name
// and its model.

type homeModel struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (s *ReliefService) Index() Decision {
	return renderView("Index", nil)
}

func (s *ReliefService) UserHome(sess *session.Session) (Decision, error) {
	if _, err := requireSessionUser(sess); err != nil {
		return Decision{}, err
	}
	return renderView("UserHome", sessionProfile(sess)), nil
}

type volunteerHomeModel struct {
	Profile   homeModel              `json:"profile"`
	Volunteer domain.Volunteer       `json:"volunteer"`
	Tasks     []domain.VolunteerTask `json:"tasks"`
}

func (s *ReliefService) VolunteerHome(ctx context.Context, sess *session.Session) (Decision, error) {
	userID, err := requireSessionUser(sess)
	if err != nil {
		return Decision{}, err
	}
	v, err := s.repo.GetVolunteerByUserID(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return Decision{}, domain.NewStorageError("find volunteer", err)
	}
	tasks, err := s.repo.ListVolunteerTasks(ctx, "", 200)
	if err != nil {
		return Decision{}, domain.NewStorageError("list tasks", err)
	}
	return renderView("VolunteerHome", volunteerHomeModel{
		Profile:   sessionProfile(sess),
		Volunteer: v,
		Tasks:     tasks,
	}), nil
}

func (s *ReliefService) AdminHome(sess *session.Session) (Decision, error) {
	if _, err := requireSessionUser(sess); err != nil {
		return Decision{}, err
	}
	if role, _ := sess.GetString(session.KeyUserRole); role != domain.RoleAdmin {
		return Decision{}, domain.NewAuthenticationError("admin role required")
	}
	return renderView("AdminHome", sessionProfile(sess)), nil
}

func (s *ReliefService) ViewIncidents(ctx context.Context, sess *session.Session) (Decision, error) {
	if _, err := requireSessionUser(sess); err != nil {
		return Decision{}, err
	}
	items, err := s.repo.ListIncidents(ctx, nil, 200)
	if err != nil {
		return Decision{}, domain.NewStorageError("list incidents", err)
	}
	return renderView("Incidents", items), nil
}

func (s *ReliefService) ViewDonations(ctx context.Context, sess *session.Session) (Decision, error) {
	if _, err := requireSessionUser(sess); err != nil {
		return Decision{}, err
	}
	items, err := s.repo.ListDonations(ctx, 200)
	if err != nil {
		return Decision{}, domain.NewStorageError("list donations", err)
	}
	return renderView("Donations", items), nil
}

func (s *ReliefService) ViewVolunteers(ctx context.Context, sess *session.Session) (Decision, error) {
	if _, err := requireSessionUser(sess); err != nil {
		return Decision{}, err
	}
	items, err := s.repo.ListVolunteers(ctx, 200)
	if err != nil {
		return Decision{}, domain.NewStorageError("list volunteers", err)
	}
	return renderView("Volunteers", items), nil
}

func (s *ReliefService) ViewVolunteerTasks(ctx context.Context, sess *session.Session) (Decision, error) {
	if _, err := requireSessionUser(sess); err != nil {
		return Decision{}, err
	}
	items, err := s.repo.ListVolunteerTasks(ctx, "", 200)
	if err != nil {
		return Decision{}, domain.NewStorageError("list volunteer tasks", err)
	}
	return renderView("VolunteerTasks", items), nil
}

// API authentication.

func (s *ReliefService) IssueAccessToken(ctx context.Context, email, password string) (domain.User, string, error) {
	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return domain.User{}, "", domain.NewAuthenticationError("invalid credentials")
	}
	if !passwordMatches(password, u.PasswordHash) {
		return domain.User{}, "", domain.NewAuthenticationError("invalid credentials")
	}
	token, err := s.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return domain.User{}, "", err
	}
	s.writeAudit(ctx, &u.ID, "auth.token.issue", "user", &u.ID, "")
	return u, token, nil
}

func (s *ReliefService) AuthenticateAccessToken(ctx context.Context, token string) (domain.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return domain.User{}, domain.NewAuthenticationError("invalid token")
	}
	u, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return domain.User{}, domain.NewAuthenticationError("unknown user")
	}
	return u, nil
}

// Admin and reporting surface.

func (s *ReliefService) BootstrapAdmin(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return errors.New("bootstrap admin email and password are required")
	}

	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	u, err := s.repo.CreateUser(ctx, domain.User{
		FullName:     "Administrator",
		Email:        normalizeEmail(email),
		PasswordHash: HashPassword(password),
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		return err
	}

	s.log.Info("bootstrap admin created", zap.Uint("user_id", u.ID))
	s.writeAudit(ctx, &u.ID, "auth.bootstrap_admin", "user", &u.ID, "initial admin created")
	return nil
}

func (s *ReliefService) ListUsers(ctx context.Context, query string, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 200
	}
	if limit > 2000 {
		limit = 2000
	}
	return s.repo.ListUsers(ctx, query, limit)
}

func (s *ReliefService) ListIncidents(ctx context.Context, reportedBy *uint, limit int) ([]domain.Incident, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	return s.repo.ListIncidents(ctx, reportedBy, limit)
}

func (s *ReliefService) ListDonations(ctx context.Context, limit int) ([]domain.Donation, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	return s.repo.ListDonations(ctx, limit)
}

func (s *ReliefService) ListVolunteers(ctx context.Context, limit int) ([]domain.Volunteer, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.repo.ListVolunteers(ctx, limit)
}

func (s *ReliefService) ListVolunteerTasks(ctx context.Context, status string, limit int) ([]domain.VolunteerTask, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.repo.ListVolunteerTasks(ctx, status, limit)
}

func (s *ReliefService) DonationSummary(ctx context.Context) ([]domain.ResourceTotal, error) {
	return s.repo.DonationSummary(ctx)
}

func (s *ReliefService) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditRecord, error) {
	if limit <= 0 {
		limit = 200
	}
	if limit > 2000 {
		limit = 2000
	}
	return s.repo.ListAuditLogs(ctx, limit)
}

func (s *ReliefService) writeAudit(ctx context.Context, actorUserID *uint, action, targetType string, targetID *uint, metadata string) {
	_ = s.repo.CreateAuditLog(ctx, domain.AuditLog{
		ActorUserID: actorUserID,
		Action:      action,
		TargetType:  targetType,
		TargetID:    targetID,
		Metadata:    metadata,
	})
}

func requireSessionUser(sess *session.Session) (uint, error) {
	if sess == nil {
		return 0, domain.NewAuthenticationError("no active session")
	}
	id, ok := sess.GetInt(session.KeyUserID)
	if !ok || id <= 0 {
		return 0, domain.NewAuthenticationError("no active session")
	}
	return uint(id), nil
}

func sessionProfile(sess *session.Session) homeModel {
	email, _ := sess.GetString(session.KeyUserEmail)
	name, _ := sess.GetString(session.KeyUserName)
	role, _ := sess.GetString(session.KeyUserRole)
	return homeModel{Email: email, Name: name, Role: role}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
