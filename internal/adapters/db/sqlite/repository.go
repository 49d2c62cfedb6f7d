package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/reliefworks/reliefdesk/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

type ReliefRepository struct {
	db *gorm.DB
}

func Open(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{})
}

func NewReliefRepository(db *gorm.DB) *ReliefRepository {
	return &ReliefRepository{db: db}
}

func (r *ReliefRepository) CreateUser(ctx context.Context, value domain.User) (domain.User, error) {
	m := UserModel{
		FullName:     value.FullName,
		Email:        strings.ToLower(strings.TrimSpace(value.Email)),
		PasswordHash: value.PasswordHash,
		Role:         defaultString(value.Role, domain.RoleUser),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.User{}, err
	}
	return userFromModel(m), nil
}

func (r *ReliefRepository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&m).Error; err != nil {
		return domain.User{}, err
	}
	return userFromModel(m), nil
}

func (r *ReliefRepository) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.User{}, err
	}
	return userFromModel(m), nil
}

func (r *ReliefRepository) UpdateUserRole(ctx context.Context, userID uint, role string) error {
	res := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", userID).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ReliefRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&UserModel{}).Count(&count).Error
	return count, err
}

func (r *ReliefRepository) ListUsers(ctx context.Context, query string, limit int) ([]domain.User, error) {
	q := r.db.WithContext(ctx).Model(&UserModel{})
	if strings.TrimSpace(query) != "" {
		like := "%" + strings.TrimSpace(query) + "%"
		q = q.Where("email LIKE ? OR full_name LIKE ?", like, like)
	}
	rows := make([]UserModel, 0)
	if err := q.Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.User, 0, len(rows))
	for _, m := range rows {
		result = append(result, userFromModel(m))
	}
	return result, nil
}

func (r *ReliefRepository) CreateIncident(ctx context.Context, value domain.Incident) (domain.Incident, error) {
	m := IncidentModel{
		Title:        value.Title,
		Description:  value.Description,
		Location:     value.Location,
		ReportedBy:   value.ReportedBy,
		DateReported: defaultTime(value.DateReported),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Incident{}, err
	}
	return incidentFromModel(m), nil
}

func (r *ReliefRepository) ListIncidents(ctx context.Context, reportedBy *uint, limit int) ([]domain.Incident, error) {
	q := r.db.WithContext(ctx).Model(&IncidentModel{})
	if reportedBy != nil {
		q = q.Where("reported_by = ?", *reportedBy)
	}
	rows := make([]IncidentModel, 0)
	if err := q.Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Incident, 0, len(rows))
	for _, m := range rows {
		result = append(result, incidentFromModel(m))
	}
	return result, nil
}

func (r *ReliefRepository) CreateDonation(ctx context.Context, value domain.Donation) (domain.Donation, error) {
	m := DonationModel{
		DonorName:     value.DonorName,
		Email:         value.Email,
		ResourceType:  value.ResourceType,
		Quantity:      value.Quantity,
		Description:   value.Description,
		ContactNumber: value.ContactNumber,
		PickupAddress: value.PickupAddress,
		Status:        defaultString(value.Status, "Pending"),
		DonationDate:  defaultTime(value.DonationDate),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Donation{}, err
	}
	return donationFromModel(m), nil
}

func (r *ReliefRepository) ListDonations(ctx context.Context, limit int) ([]domain.Donation, error) {
	rows := make([]DonationModel, 0)
	if err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Donation, 0, len(rows))
	for _, m := range rows {
		result = append(result, donationFromModel(m))
	}
	return result, nil
}

func (r *ReliefRepository) DonationSummary(ctx context.Context) ([]domain.ResourceTotal, error) {
	type row struct {
		ResourceType  string
		DonationCount int
		TotalQuantity int
		PendingCount  int
	}
	rows := make([]row, 0)
	err := r.db.WithContext(ctx).Raw(`
SELECT d.resource_type,
       COUNT(*) AS donation_count,
       COALESCE(SUM(d.quantity), 0) AS total_quantity,
       SUM(CASE WHEN d.status = 'Pending' THEN 1 ELSE 0 END) AS pending_count
FROM donations d
GROUP BY d.resource_type
ORDER BY total_quantity DESC
`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make([]domain.ResourceTotal, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.ResourceTotal{
			ResourceType:  m.ResourceType,
			DonationCount: m.DonationCount,
			TotalQuantity: m.TotalQuantity,
			PendingCount:  m.PendingCount,
		})
	}
	return result, nil
}

// EnrollVolunteer inserts the Volunteer row and updates the owning User's
// role inside one transaction so neither write is visible without the other.
func (r *ReliefRepository) EnrollVolunteer(ctx context.Context, value domain.Volunteer) (domain.Volunteer, error) {
	m := VolunteerModel{
		UserID:       value.UserID,
		Skills:       value.Skills,
		Availability: value.Availability,
		JoinedAt:     defaultTime(value.JoinedAt),
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u UserModel
		if err := tx.First(&u, value.UserID).Error; err != nil {
			return err
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		return tx.Model(&UserModel{}).Where("id = ?", value.UserID).Update("role", domain.RoleVolunteer).Error
	})
	if err != nil {
		return domain.Volunteer{}, err
	}
	return volunteerFromModel(m), nil
}

func (r *ReliefRepository) GetVolunteerByUserID(ctx context.Context, userID uint) (domain.Volunteer, error) {
	var m VolunteerModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return domain.Volunteer{}, err
	}
	return volunteerFromModel(m), nil
}

func (r *ReliefRepository) ListVolunteers(ctx context.Context, limit int) ([]domain.Volunteer, error) {
	rows := make([]VolunteerModel, 0)
	if err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Volunteer, 0, len(rows))
	for _, m := range rows {
		result = append(result, volunteerFromModel(m))
	}
	return result, nil
}

func (r *ReliefRepository) CreateVolunteerTask(ctx context.Context, value domain.VolunteerTask) (domain.VolunteerTask, error) {
	m := VolunteerTaskModel{
		TaskName: value.TaskName,
		Status:   defaultString(value.Status, "Open"),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.VolunteerTask{}, err
	}
	return taskFromModel(m), nil
}

func (r *ReliefRepository) ListVolunteerTasks(ctx context.Context, status string, limit int) ([]domain.VolunteerTask, error) {
	q := r.db.WithContext(ctx).Model(&VolunteerTaskModel{})
	if strings.TrimSpace(status) != "" {
		q = q.Where("status = ?", strings.TrimSpace(status))
	}
	rows := make([]VolunteerTaskModel, 0)
	if err := q.Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.VolunteerTask, 0, len(rows))
	for _, m := range rows {
		result = append(result, taskFromModel(m))
	}
	return result, nil
}

func (r *ReliefRepository) UpdateVolunteerTaskStatus(ctx context.Context, taskID uint, status string) (domain.VolunteerTask, error) {
	res := r.db.WithContext(ctx).Model(&VolunteerTaskModel{}).Where("id = ?", taskID).Update("status", status)
	if res.Error != nil {
		return domain.VolunteerTask{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.VolunteerTask{}, gorm.ErrRecordNotFound
	}
	var m VolunteerTaskModel
	if err := r.db.WithContext(ctx).First(&m, taskID).Error; err != nil {
		return domain.VolunteerTask{}, err
	}
	return taskFromModel(m), nil
}

func (r *ReliefRepository) CreateAuditLog(ctx context.Context, value domain.AuditLog) error {
	m := AuditLogModel{
		ActorUserID: value.ActorUserID,
		Action:      value.Action,
		TargetType:  value.TargetType,
		TargetID:    value.TargetID,
		Metadata:    value.Metadata,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *ReliefRepository) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditRecord, error) {
	type row struct {
		ID             uint
		ActorUserID    *uint
		ActorUserEmail string
		Action         string
		TargetType     string
		TargetID       *uint
		Metadata       string
		CreatedAt      time.Time
	}
	rows := make([]row, 0)
	err := r.db.WithContext(ctx).Raw(`
SELECT a.id,
       a.actor_user_id,
       COALESCE(u.email, '') AS actor_user_email,
       a.action,
       a.target_type,
       a.target_id,
       a.metadata,
       a.created_at
FROM audit_logs a
LEFT JOIN users u ON u.id = a.actor_user_id
ORDER BY a.id DESC
LIMIT ?
`, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make([]domain.AuditRecord, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.AuditRecord{
			ID:             m.ID,
			ActorUserID:    m.ActorUserID,
			ActorUserEmail: m.ActorUserEmail,
			Action:         m.Action,
			TargetType:     m.TargetType,
			TargetID:       m.TargetID,
			Metadata:       m.Metadata,
			CreatedAt:      m.CreatedAt,
		})
	}
	return result, nil
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		FullName:     m.FullName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func incidentFromModel(m IncidentModel) domain.Incident {
	return domain.Incident{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		Location:     m.Location,
		ReportedBy:   m.ReportedBy,
		DateReported: m.DateReported,
		CreatedAt:    m.CreatedAt,
	}
}

func donationFromModel(m DonationModel) domain.Donation {
	return domain.Donation{
		ID:            m.ID,
		DonorName:     m.DonorName,
		Email:         m.Email,
		ResourceType:  m.ResourceType,
		Quantity:      m.Quantity,
		Description:   m.Description,
		ContactNumber: m.ContactNumber,
		PickupAddress: m.PickupAddress,
		Status:        m.Status,
		DonationDate:  m.DonationDate,
		CreatedAt:     m.CreatedAt,
	}
}

func volunteerFromModel(m VolunteerModel) domain.Volunteer {
	return domain.Volunteer{
		ID:           m.ID,
		UserID:       m.UserID,
		Skills:       m.Skills,
		Availability: m.Availability,
		JoinedAt:     m.JoinedAt,
	}
}

func taskFromModel(m VolunteerTaskModel) domain.VolunteerTask {
	return domain.VolunteerTask{
		ID:        m.ID,
		TaskName:  m.TaskName,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func defaultString(input, fallback string) string {
	if strings.TrimSpace(input) == "" {
		return fallback
	}
	return input
}

func defaultTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
