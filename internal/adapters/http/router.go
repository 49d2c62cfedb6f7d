package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/reliefworks/reliefdesk/internal/application"
	"github.com/reliefworks/reliefdesk/internal/domain"
	"github.com/reliefworks/reliefdesk/internal/session"
	"go.uber.org/zap"
)

const sessionCookieName = "rd_session"

type contextKey string

const apiUserKey contextKey = "api_user"

// destinationPaths maps the controller's named navigation targets onto URLs.
var destinationPaths = map[string]string{
	application.DestLogin:         "/login",
	application.DestUserHome:      "/home",
	application.DestVolunteerHome: "/volunteer-home",
	application.DestAdminHome:     "/admin-home",
}

type Handler struct {
	service  *application.ReliefService
	sessions session.Store
	log      *zap.Logger
}

func NewRouter(service *application.ReliefService, sessions session.Store, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{service: service, sessions: sessions, log: log}
	r := chi.NewRouter()

	r.Get("/", h.handleIndex)
	r.Get("/register", h.handleRegisterPage)
	r.Post("/register", h.handleRegister)
	r.Get("/login", h.handleLoginPage)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)

	r.Get("/home", h.handleUserHome)
	r.Get("/volunteer-home", h.handleVolunteerHome)
	r.Get("/admin-home", h.handleAdminHome)

	r.Get("/incidents", h.handleViewIncidents)
	r.Post("/incidents", h.handleLogIncident)
	r.Get("/donations", h.handleViewDonations)
	r.Post("/donations", h.handleLogDonation)
	r.Get("/volunteers", h.handleViewVolunteers)
	r.Post("/volunteers", h.handleEnrollVolunteer)
	r.Get("/volunteer-tasks", h.handleViewVolunteerTasks)
	r.Post("/volunteer-tasks", h.handleCreateVolunteerTask)

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/login", h.handleAPILogin)
		api.With(h.requireAuthAPI).Get("/auth/whoami", h.handleAPIWhoAmI)
		api.With(h.requireAuthAPI).Get("/incidents", h.handleAPIListIncidents)
		api.With(h.requireAuthAPI).Post("/incidents", h.handleAPILogIncident)
		api.With(h.requireAuthAPI).Get("/donations", h.handleAPIListDonations)
		api.With(h.requireAuthAPI).Post("/donations", h.handleAPILogDonation)
		api.With(h.requireAuthAPI).Get("/donations/summary", h.handleAPIDonationSummary)
		api.With(h.requireAuthAPI).Get("/volunteers", h.handleAPIListVolunteers)
		api.With(h.requireAuthAPI).Post("/volunteers", h.handleAPIEnrollVolunteer)
		api.With(h.requireAuthAPI).Get("/volunteer-tasks", h.handleAPIListTasks)
		api.With(h.requireAuthAPI).Post("/volunteer-tasks", h.handleAPICreateTask)
		api.With(h.requireAuthAPI, h.requireAdminAPI).Post("/volunteer-tasks/status", h.handleAPIUpdateTaskStatus)
		api.With(h.requireAuthAPI, h.requireAdminAPI).Get("/users", h.handleAPIListUsers)
		api.With(h.requireAuthAPI, h.requireAdminAPI).Get("/audit/logs", h.handleAPIListAuditLogs)
	})

	return r
}

// Page handlers. View rendering lives outside this service; pages answer
// with the view name and its model.

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.writeDecision(w, r, h.service.Index())
}

func (h *Handler) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	writeView(w, "Register", nil)
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	writeView(w, "Login", nil)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	req := application.RegisterRequest{
		FullName: r.Form.Get("fullName"),
		Email:    r.Form.Get("email"),
		Password: r.Form.Get("password"),
		Role:     r.Form.Get("role"),
	}
	decision, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.writeWorkflowError(w, r, err)
		return
	}
	h.writeDecision(w, r, decision)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sess, err := h.sessions.Create(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	req := application.LoginRequest{
		Email:    r.Form.Get("email"),
		Password: r.Form.Get("password"),
	}
	decision, err := h.service.Login(r.Context(), sess, req)
	if err != nil {
		_ = h.sessions.Delete(r.Context(), sess.ID)
		h.writeWorkflowError(w, r, err)
		return
	}
	if err := h.sessions.Commit(r.Context(), sess); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.setSessionCookie(w, sess.ID)
	h.writeDecision(w, r, decision)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(r)
	if ok {
		decision := h.service.Logout(r.Context(), sess)
		_ = h.sessions.Delete(r.Context(), sess.ID)
		h.clearSessionCookie(w)
		h.writeDecision(w, r, decision)
		return
	}
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) handleUserHome(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	decision, err := h.service.UserHome(sess)
	if err != nil {
		h.writeWorkflowError(w, r, err)
		return
	}
	h.writeDecision(w, r, decision)
}

func (h *Handler) handleVolunteerHome(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	decision, err := h.service.VolunteerHome(r.Context(), sess)
	if err != nil {
		h.writeWorkflowError(w, r, err)
		return
	}
	h.writeDecision(w, r, decision)
}

func (h *Handler) handleAdminHome(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	decision, err := h.service.AdminHome(sess)
	if err != nil {
		h.writeWorkflowError(w, r, err)
		return
	}
	h.writeDecision(w, r, decision)
}

func (h *Handler) handleViewIncidents(w http.ResponseWriter, r *http.Request) {
	h.handleSessionView(w, r, h.service.ViewIncidents)
}

func (h *Handler) handleViewDonations(w http.ResponseWriter, r *http.Request) {
	h.handleSessionView(w, r, h.service.ViewDonations)
}

func (h *Handler) handleViewVolunteers(w http.ResponseWriter, r *http.Request) {
	h.handleSessionView(w, r, h.service.ViewVolunteers)
}

func (h *Handler) handleViewVolunteerTasks(w http.ResponseWriter, r *http.Request) {
	h.handleSessionView(w, r, h.service.ViewVolunteerTasks)
}

func (h *Handler) handleSessionView(w http.ResponseWriter, r *http.Request, view func(context.Context, *session.Session) (application.Decision, error)) {
	sess, ok := h.loadSession(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	decision, err := view(r.Context(), sess)
	if err != nil {
		h.writeWorkflowError(w, r, err)
		return
	}
	h.writeDecision(w, r, decision)
}

func (h *Handler) handleLogIncident(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess, _ := h.loadSession(r)
	req := application.IncidentRequest{
		Title:       r.Form.Get("title"),
		Description: r.Form.Get("description"),
		Location:    r.Form.Get("location"),
	}
	decision, err := h.service.LogIncident(r.Context(), sess, req)
	if err != nil {
		h.writeWorkflowError(w, r, err)
		return
	}
	h.writeDecision(w, r, decision)
}

func (h *Handler) handleLogDonation(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess, _ := h.loadSession(r)
	quantity, err := parseFormInt(r.Form.Get("quantity"))
	if err != nil {
		h.writeWorkflowError(w, r, domain.NewValidationError("quantity", "quantity must be a number"))
		return
	}
	req := application.DonationRequest{
		DonorName:     r.Form.Get("donorName"),
		Email:         r.Form.Get("email"),
		ResourceType:  r.Form.Get("resourceType"),
		Quantity:      quantity,
		Description:   r.Form.Get("description"),
		ContactNumber: r.Form.Get("contactNumber"),
		PickupAddress: r.Form.Get("pickupAddress"),
	}
	decision, err := h.service.LogDonation(r.Context(), sess, req)
	if err != nil {
		h.writeWorkflowError(w, r, err)
		return
	}
	h.writeDecision(w, r, decision)
}

func (h *Handler) handleEnrollVolunteer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess, ok := h.loadSession(r)
	req := application.VolunteerRequest{
		Skills:       r.Form.Get("skills"),
		Availability: r.Form.Get("availability"),
	}
	decision, err := h.service.EnrollVolunteer(r.Context(), sess, req)
	if err != nil {
		h.writeWorkflowError(w, r, err)
		return
	}
	// Role changed; persist the updated session bag.
	if ok {
		if err := h.sessions.Commit(r.Context(), sess); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	h.writeDecision(w, r, decision)
}

func (h *Handler) handleCreateVolunteerTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess, _ := h.loadSession(r)
	req := application.TaskRequest{
		TaskName: r.Form.Get("taskName"),
		Status:   r.Form.Get("status"),
	}
	decision, err := h.service.CreateVolunteerTask(r.Context(), sess, req)
	if err != nil {
		h.writeWorkflowError(w, r, err)
		return
	}
	h.writeDecision(w, r, decision)
}

// JSON API handlers.

type apiLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleAPILogin(w http.ResponseWriter, r *http.Request) {
	var req apiLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	u, token, err := h.service.IssueAccessToken(r.Context(), req.Email, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user_id": u.ID, "email": u.Email, "role": u.Role, "token": token})
}

func (h *Handler) handleAPIWhoAmI(w http.ResponseWriter, r *http.Request) {
	u, ok := apiUserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "email": u.Email, "full_name": u.FullName, "role": u.Role})
}

func (h *Handler) handleAPIListIncidents(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListIncidents(r.Context(), nil, queryLimit(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type apiIncidentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

func (h *Handler) handleAPILogIncident(w http.ResponseWriter, r *http.Request) {
	var req apiIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	sess, ok := h.apiSession(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		return
	}
	decision, err := h.service.LogIncident(r.Context(), sess, application.IncidentRequest{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
	})
	if err != nil {
		h.writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"redirect": decision.Redirect})
}

func (h *Handler) handleAPIListDonations(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListDonations(r.Context(), queryLimit(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type apiDonationRequest struct {
	DonorName     string `json:"donor_name"`
	Email         string `json:"email"`
	ResourceType  string `json:"resource_type"`
	Quantity      int    `json:"quantity"`
	Description   string `json:"description"`
	ContactNumber string `json:"contact_number"`
	PickupAddress string `json:"pickup_address"`
}

func (h *Handler) handleAPILogDonation(w http.ResponseWriter, r *http.Request) {
	var req apiDonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	sess, ok := h.apiSession(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		return
	}
	decision, err := h.service.LogDonation(r.Context(), sess, application.DonationRequest{
		DonorName:     req.DonorName,
		Email:         req.Email,
		ResourceType:  req.ResourceType,
		Quantity:      req.Quantity,
		Description:   req.Description,
		ContactNumber: req.ContactNumber,
		PickupAddress: req.PickupAddress,
	})
	if err != nil {
		h.writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"redirect": decision.Redirect})
}

func (h *Handler) handleAPIDonationSummary(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.DonationSummary(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleAPIListVolunteers(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListVolunteers(r.Context(), queryLimit(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type apiVolunteerRequest struct {
	Skills       string `json:"skills"`
	Availability string `json:"availability"`
}

func (h *Handler) handleAPIEnrollVolunteer(w http.ResponseWriter, r *http.Request) {
	var req apiVolunteerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	sess, ok := h.apiSession(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		return
	}
	decision, err := h.service.EnrollVolunteer(r.Context(), sess, application.VolunteerRequest{
		Skills:       req.Skills,
		Availability: req.Availability,
	})
	if err != nil {
		h.writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"redirect": decision.Redirect})
}

func (h *Handler) handleAPIListTasks(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListVolunteerTasks(r.Context(), r.URL.Query().Get("status"), queryLimit(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type apiTaskRequest struct {
	TaskName string `json:"task_name"`
	Status   string `json:"status"`
}

func (h *Handler) handleAPICreateTask(w http.ResponseWriter, r *http.Request) {
	var req apiTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	sess, ok := h.apiSession(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		return
	}
	decision, err := h.service.CreateVolunteerTask(r.Context(), sess, application.TaskRequest{
		TaskName: req.TaskName,
		Status:   req.Status,
	})
	if err != nil {
		h.writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"redirect": decision.Redirect})
}

type apiTaskStatusRequest struct {
	TaskID uint   `json:"task_id"`
	Status string `json:"status"`
}

func (h *Handler) handleAPIUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	var req apiTaskStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	t, err := h.service.UpdateTaskStatus(r.Context(), req.TaskID, req.Status)
	if err != nil {
		h.writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) handleAPIListUsers(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListUsers(r.Context(), r.URL.Query().Get("q"), queryLimit(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleAPIListAuditLogs(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListAuditLogs(r.Context(), queryLimit(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Middleware and plumbing.

func (h *Handler) requireAuthAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
			return
		}
		token := strings.TrimSpace(authHeader[7:])
		u, err := h.service.AuthenticateAccessToken(r.Context(), token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), apiUserKey, u)))
	})
}

func (h *Handler) requireAdminAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := apiUserFromContext(r.Context())
		if !ok || u.Role != domain.RoleAdmin {
			writeJSON(w, http.StatusForbidden, map[string]any{"error": "forbidden"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func apiUserFromContext(ctx context.Context) (domain.User, bool) {
	value := ctx.Value(apiUserKey)
	if value == nil {
		return domain.User{}, false
	}
	u, ok := value.(domain.User)
	return u, ok
}

// apiSession builds a transient session bag for the bearer-authenticated
// user so API calls share the workflow operations with the form surface.
func (h *Handler) apiSession(r *http.Request) (*session.Session, bool) {
	u, ok := apiUserFromContext(r.Context())
	if !ok {
		return nil, false
	}
	sess := session.New("api:" + strconv.FormatUint(uint64(u.ID), 10))
	sess.SetInt(session.KeyUserID, int(u.ID))
	sess.SetString(session.KeyUserEmail, u.Email)
	sess.SetString(session.KeyUserName, u.FullName)
	sess.SetString(session.KeyUserRole, u.Role)
	return sess, true
}

func (h *Handler) loadSession(r *http.Request) (*session.Session, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return nil, false
	}
	sess, err := h.sessions.Load(r.Context(), c.Value)
	if err != nil {
		return nil, false
	}
	return sess, true
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

func (h *Handler) writeDecision(w http.ResponseWriter, r *http.Request, d application.Decision) {
	if d.Redirect != "" {
		path, ok := destinationPaths[d.Redirect]
		if !ok {
			path = "/"
		}
		http.Redirect(w, r, path, http.StatusSeeOther)
		return
	}
	writeView(w, d.View, d.Model)
}

// writeWorkflowError maps the domain error kinds onto the form surface:
// validation errors re-display with a field message, authentication errors
// bounce to the login entry point, storage errors fail the request.
func (h *Handler) writeWorkflowError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": ve.Message, "field": ve.Field})
		return
	}
	if domain.IsAuthenticationError(err) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	h.log.Error("workflow failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "operation failed"})
}

func (h *Handler) writeAPIError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": ve.Message, "field": ve.Field})
		return
	}
	if domain.IsAuthenticationError(err) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		return
	}
	h.log.Error("api workflow failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "operation failed"})
}

func writeView(w http.ResponseWriter, view string, model any) {
	writeJSON(w, http.StatusOK, map[string]any{"view": view, "model": model})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func queryLimit(r *http.Request) int {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

func parseFormInt(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}
