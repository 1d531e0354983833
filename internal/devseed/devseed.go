// Package devseed populates a development database with sample portal
// content so the UI has something to show on first boot. It is safe to
// run repeatedly: rows that already exist are skipped.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/corpintra/portal-ui-api/internal/data"
	"github.com/corpintra/portal-ui-api/internal/domain/model"
	apperrors "github.com/corpintra/portal-ui-api/internal/errors"
)

// Services bundles the repositories needed for development seeding.
type Services struct {
	DB            *sql.DB
	accounts      *data.AccountRepo
	employees     *data.EmployeeRepo
	announcements *data.AnnouncementRepo
	news          *data.NewsRepo
	galleries     *data.GalleryRepo
	roles         *data.RoleRepo
	documents     *data.DocumentRepo
	schedules     *data.ScheduleRepo
	violations    *data.ViolationRepo
}

// NewServices constructs all required repositories for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	return Services{
		DB:            db,
		accounts:      data.NewAccountRepo(db),
		employees:     data.NewEmployeeRepo(db),
		announcements: data.NewAnnouncementRepo(db),
		news:          data.NewNewsRepo(db),
		galleries:     data.NewGalleryRepo(db),
		roles:         data.NewRoleRepo(db),
		documents:     data.NewDocumentRepo(db),
		schedules:     data.NewScheduleRepo(db),
		violations:    data.NewViolationRepo(db),
	}
}

// Run executes the full development seeding workflow against the provided DB.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	failures := 0

	emps, fails := seedEmployees(ctx, svcs.employees, logger)
	failures += fails

	adminID, fails := seedAccounts(ctx, svcs.accounts, emps, logger)
	failures += fails

	failures += seedRoles(ctx, svcs.roles, logger)
	failures += seedAnnouncements(ctx, svcs.announcements, adminID, logger)
	failures += seedNews(ctx, svcs.news, adminID, logger)
	failures += seedGalleries(ctx, svcs.galleries, adminID, logger)
	failures += seedDocuments(ctx, svcs.documents, adminID, logger)
	failures += seedSchedules(ctx, svcs.schedules, emps, logger)
	failures += seedViolations(ctx, svcs.violations, emps, adminID, logger)

	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func logSkip(ctx context.Context, logger *slog.Logger, kind, name string) {
	if logger != nil {
		logger.InfoContext(ctx, kind+" already exists", "name", name)
	}
}

func logCreated(ctx context.Context, logger *slog.Logger, kind, name string) {
	if logger != nil {
		logger.InfoContext(ctx, "created "+kind, "name", name)
	}
}

func logFailure(ctx context.Context, logger *slog.Logger, kind, name string, err error) {
	if logger != nil {
		logger.ErrorContext(ctx, "failed to create "+kind, "name", name, "error", err)
	}
}

func strPtr(s string) *string { return &s }

// seedEmployees creates the sample directory and returns code -> id for
// rows that exist after the pass, created or not.
func seedEmployees(ctx context.Context, repo *data.EmployeeRepo, logger *slog.Logger) (map[string]string, int) {
	employees := []model.CreateEmployeeRequest{
		{Code: "E-1001", FullName: "An Nguyen", Email: "an.nguyen@portal.example.com", Position: strPtr("Engineering Manager"), Status: string(model.EmployeeStatusActive)},
		{Code: "E-1002", FullName: "Binh Tran", Email: "binh.tran@portal.example.com", Position: strPtr("Software Engineer"), Status: string(model.EmployeeStatusActive)},
		{Code: "E-1003", FullName: "Chi Le", Email: "chi.le@portal.example.com", Position: strPtr("HR Specialist"), Status: string(model.EmployeeStatusActive)},
		{Code: "E-1004", FullName: "Dung Pham", Email: "dung.pham@portal.example.com", Position: strPtr("Accountant"), Status: string(model.EmployeeStatusOnLeave)},
	}

	ids := make(map[string]string, len(employees))
	failures := 0
	for i := range employees {
		req := employees[i]
		created, err := repo.Create(ctx, &req)
		switch {
		case err == nil:
			ids[req.Code] = created.ID
			logCreated(ctx, logger, "employee", req.Code)
		case apperrors.IsConflict(err):
			logSkip(ctx, logger, "employee", req.Code)
			existing, gerr := repo.GetByCode(ctx, req.Code)
			if gerr != nil {
				logFailure(ctx, logger, "employee lookup", req.Code, gerr)
				failures++
				continue
			}
			ids[req.Code] = existing.ID
		default:
			logFailure(ctx, logger, "employee", req.Code, err)
			failures++
		}
	}
	return ids, failures
}

// seedAccounts creates the sign-in accounts and returns the admin
// account id for use as the author of seeded content.
func seedAccounts(ctx context.Context, repo *data.AccountRepo, emps map[string]string, logger *slog.Logger) (string, int) {
	type seedAccount struct {
		userName string
		email    string
		password string
		roles    []string
		empCode  string
	}

	accounts := []seedAccount{
		{userName: "admin", email: "admin@portal.example.com", password: "admin123!", roles: []string{"admin", "user"}},
		{userName: "hr", email: "hr@portal.example.com", password: "hr123456!", roles: []string{"hr", "user"}, empCode: "E-1003"},
		{userName: "user", email: "user@portal.example.com", password: "user123!", roles: []string{"user"}, empCode: "E-1002"},
	}

	adminID := ""
	failures := 0
	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			logFailure(ctx, logger, "account", a.userName, err)
			failures++
			continue
		}

		acc := model.Account{
			UserName:     a.userName,
			Email:        a.email,
			PasswordHash: string(hash),
			Roles:        a.roles,
		}
		if a.empCode != "" {
			if id, ok := emps[a.empCode]; ok {
				acc.EmployeeID = &id
			}
		}

		created, err := repo.Create(ctx, acc)
		switch {
		case err == nil:
			logCreated(ctx, logger, "account", a.userName)
			if a.userName == "admin" {
				adminID = created.ID
			}
		case apperrors.IsConflict(err):
			logSkip(ctx, logger, "account", a.userName)
			if a.userName == "admin" {
				existing, gerr := repo.FindByUserName(ctx, a.userName)
				if gerr != nil {
					logFailure(ctx, logger, "account lookup", a.userName, gerr)
					failures++
					continue
				}
				adminID = existing.ID
			}
		default:
			logFailure(ctx, logger, "account", a.userName, err)
			failures++
		}
	}
	return adminID, failures
}

func seedRoles(ctx context.Context, repo *data.RoleRepo, logger *slog.Logger) int {
	roles := []model.CreateRoleRequest{
		{Name: "admin", Description: strPtr("Full portal administration"), Permissions: []string{"*"}},
		{Name: "hr", Description: strPtr("Employee and violation management"), Permissions: []string{"employees:write", "violations:write"}},
		{Name: "user", Description: strPtr("Read-only portal access"), Permissions: []string{"portal:read"}},
	}

	failures := 0
	for i := range roles {
		req := roles[i]
		if _, err := repo.Create(ctx, &req); err != nil {
			if apperrors.IsConflict(err) {
				logSkip(ctx, logger, "role", req.Name)
				continue
			}
			logFailure(ctx, logger, "role", req.Name, err)
			failures++
			continue
		}
		logCreated(ctx, logger, "role", req.Name)
	}
	return failures
}

func seedAnnouncements(ctx context.Context, repo *data.AnnouncementRepo, authorID string, logger *slog.Logger) int {
	announcements := []model.CreateAnnouncementRequest{
		{Title: "Welcome to the new intranet portal", Body: "The portal is now live. Report issues to the IT helpdesk.", Audience: model.AudienceAll, Pinned: true, AuthorID: authorID},
		{Title: "Quarterly all-hands on Friday", Body: "The Q3 all-hands starts at 15:00 in the main auditorium.", Audience: model.AudienceEmployees, AuthorID: authorID},
		{Title: "Benefits enrollment window open", Body: "HR enrollment closes at the end of the month.", Audience: model.AudienceManagement, AuthorID: authorID},
	}

	failures := 0
	for i := range announcements {
		req := announcements[i]
		if _, err := repo.Create(ctx, &req); err != nil {
			if apperrors.IsConflict(err) {
				logSkip(ctx, logger, "announcement", req.Title)
				continue
			}
			logFailure(ctx, logger, "announcement", req.Title, err)
			failures++
			continue
		}
		logCreated(ctx, logger, "announcement", req.Title)
	}
	return failures
}

func seedNews(ctx context.Context, repo *data.NewsRepo, authorID string, logger *slog.Logger) int {
	articles := []model.CreateNewsRequest{
		{Title: "Engineering wins internal hackathon", Slug: "engineering-wins-hackathon", Summary: strPtr("Team Falcon took first place."), Body: "Team Falcon built a self-serve analytics dashboard in 24 hours.", Published: true, AuthorID: authorID},
		{Title: "New cafeteria menu", Slug: "new-cafeteria-menu", Body: "The cafeteria rotates to the autumn menu next Monday.", Published: true, AuthorID: authorID},
		{Title: "Draft: office relocation update", Slug: "office-relocation-update", Body: "Details to follow once the lease is signed.", Published: false, AuthorID: authorID},
	}

	failures := 0
	for i := range articles {
		req := articles[i]
		if _, err := repo.Create(ctx, &req); err != nil {
			if apperrors.IsConflict(err) {
				logSkip(ctx, logger, "news article", req.Slug)
				continue
			}
			logFailure(ctx, logger, "news article", req.Slug, err)
			failures++
			continue
		}
		logCreated(ctx, logger, "news article", req.Slug)
	}
	return failures
}

func seedGalleries(ctx context.Context, repo *data.GalleryRepo, authorID string, logger *slog.Logger) int {
	galleries := []model.CreateGalleryRequest{
		{Title: "Summer team outing", Description: strPtr("Photos from the beach trip."), CreatedBy: authorID},
		{Title: "Office opening day", CreatedBy: authorID},
	}

	failures := 0
	for i := range galleries {
		req := galleries[i]
		created, err := repo.Create(ctx, &req)
		if err != nil {
			if apperrors.IsConflict(err) {
				logSkip(ctx, logger, "gallery", req.Title)
				continue
			}
			logFailure(ctx, logger, "gallery", req.Title, err)
			failures++
			continue
		}
		logCreated(ctx, logger, "gallery", req.Title)

		for n := 1; n <= 3; n++ {
			path := fmt.Sprintf("/media/galleries/%s/photo-%d.jpg", created.ID, n)
			if aerr := repo.AddImage(ctx, created.ID, path, fmt.Sprintf("Photo %d", n)); aerr != nil && !apperrors.IsConflict(aerr) {
				logFailure(ctx, logger, "gallery image", path, aerr)
				failures++
			}
		}
	}
	return failures
}

func seedDocuments(ctx context.Context, repo *data.DocumentRepo, uploaderID string, logger *slog.Logger) int {
	documents := []model.CreateDocumentRequest{
		{Title: "Employee handbook", FileName: "employee-handbook.pdf", ContentType: "application/pdf", SizeBytes: 482133, StoragePath: "/docs/employee-handbook.pdf", UploadedBy: uploaderID},
		{Title: "Expense policy", FileName: "expense-policy.pdf", ContentType: "application/pdf", SizeBytes: 90214, StoragePath: "/docs/expense-policy.pdf", UploadedBy: uploaderID},
	}

	failures := 0
	for i := range documents {
		req := documents[i]
		if _, err := repo.Create(ctx, &req); err != nil {
			if apperrors.IsConflict(err) {
				logSkip(ctx, logger, "document", req.FileName)
				continue
			}
			logFailure(ctx, logger, "document", req.FileName, err)
			failures++
			continue
		}
		logCreated(ctx, logger, "document", req.FileName)
	}
	return failures
}

func seedSchedules(ctx context.Context, repo *data.ScheduleRepo, emps map[string]string, logger *slog.Logger) int {
	empID, ok := emps["E-1002"]
	if !ok {
		return 0
	}

	monday := startOfWeek(time.Now().UTC())
	schedules := []model.CreateScheduleRequest{
		{EmployeeID: empID, Title: "Sprint planning", Location: strPtr("Room 3A"), StartsAt: monday.Add(9 * time.Hour), EndsAt: monday.Add(10 * time.Hour)},
		{EmployeeID: empID, Title: "On-call handover", StartsAt: monday.Add(4*24*time.Hour + 16*time.Hour), EndsAt: monday.Add(4*24*time.Hour + 17*time.Hour)},
	}

	failures := 0
	for i := range schedules {
		req := schedules[i]
		if _, err := repo.Create(ctx, &req); err != nil {
			if apperrors.IsConflict(err) {
				logSkip(ctx, logger, "schedule", req.Title)
				continue
			}
			logFailure(ctx, logger, "schedule", req.Title, err)
			failures++
			continue
		}
		logCreated(ctx, logger, "schedule", req.Title)
	}
	return failures
}

func seedViolations(ctx context.Context, repo *data.ViolationRepo, emps map[string]string, reporterID string, logger *slog.Logger) int {
	empID, ok := emps["E-1004"]
	if !ok {
		return 0
	}

	violations := []model.CreateViolationRequest{
		{EmployeeID: empID, Severity: string(model.SeverityMinor), Reason: "Late timesheet submission", Points: 1, OccurredAt: time.Now().UTC().AddDate(0, 0, -14), ReportedBy: reporterID},
		{EmployeeID: empID, Severity: string(model.SeverityMajor), Reason: "Unauthorized absence", Points: 3, OccurredAt: time.Now().UTC().AddDate(0, 0, -3), ReportedBy: reporterID},
	}

	failures := 0
	for i := range violations {
		req := violations[i]
		if _, err := repo.Create(ctx, &req); err != nil {
			if apperrors.IsConflict(err) {
				logSkip(ctx, logger, "violation", req.Reason)
				continue
			}
			logFailure(ctx, logger, "violation", req.Reason, err)
			failures++
			continue
		}
		logCreated(ctx, logger, "violation", req.Reason)
	}
	return failures
}

func startOfWeek(t time.Time) time.Time {
	day := t.Truncate(24 * time.Hour)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
