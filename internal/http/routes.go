package httpx

import (
	"net/http"

	domainauth "github.com/corpintra/portal-ui-api/internal/domain/auth"
)

// RouterServices holds the dependencies for building the HTTP routes.
type RouterServices struct {
	Auth          *AuthHandlers
	Sessions      SessionResolver
	Employees     *EmployeeResource
	Violations    *ViolationHandlers
	Documents     *DocumentResource
	Announcements *AnnouncementResource
	Schedules     *ScheduleResource
	News          *NewsHandlers
	Galleries     *GalleryHandlers
	Roles         *RoleResource
}

// NewRouter builds the portal API route table. Reads require a signed-in
// session; mutations require the admin role, with hr additionally
// allowed on employees and violations. Cross-cutting middleware
// (logging, recover, compression) is applied by the caller.
func NewRouter(svc RouterServices) http.Handler {
	mux := http.NewServeMux()

	requireUser := RequireAuth(svc.Sessions)
	adminOnly := RequireRole(svc.Sessions, domainauth.RoleAdmin)
	adminOrHR := RequireRole(svc.Sessions, domainauth.RoleAdmin, domainauth.RoleHR)

	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("HEAD /healthz", handleHealthz)

	mux.HandleFunc("POST /api/auth/sign-in", svc.Auth.SignIn)
	mux.HandleFunc("POST /api/auth/sign-out", svc.Auth.SignOut)
	mux.Handle("POST /api/auth/change-password", requireUser(http.HandlerFunc(svc.Auth.ChangePassword)))
	mux.HandleFunc("GET /api/auth/me", svc.Auth.Me)
	mux.HandleFunc("GET /auth/oauth/login", svc.Auth.OAuthLogin)
	mux.HandleFunc("GET /auth/oauth/callback", svc.Auth.OAuthCallback)

	registerCRUD(mux, crudRoutes{Path: "employees", H: svc.Employees, Read: requireUser, Write: adminOrHR})
	registerCRUD(mux, crudRoutes{Path: "violations", H: svc.Violations, Read: requireUser, Write: adminOrHR})
	registerCRUD(mux, crudRoutes{Path: "documents", H: svc.Documents, Read: requireUser, Write: adminOnly})
	registerCRUD(mux, crudRoutes{Path: "announcements", H: svc.Announcements, Read: requireUser, Write: adminOnly})
	registerCRUD(mux, crudRoutes{Path: "schedules", H: svc.Schedules, Read: requireUser, Write: adminOnly})
	registerCRUD(mux, crudRoutes{Path: "news", H: svc.News, Read: requireUser, Write: adminOnly})
	registerCRUD(mux, crudRoutes{Path: "galleries", H: svc.Galleries, Read: requireUser, Write: adminOnly})
	registerCRUD(mux, crudRoutes{Path: "roles", H: svc.Roles, Read: requireUser, Write: adminOnly})

	mux.Handle("GET /api/employees/{id}/violation-points",
		adminOrHR(http.HandlerFunc(svc.Violations.OutstandingPoints)))
	mux.Handle("GET /api/news/slug/{slug}",
		requireUser(http.HandlerFunc(svc.News.GetBySlug)))
	mux.Handle("POST /api/galleries/{id}/images",
		adminOnly(http.HandlerFunc(svc.Galleries.AddImage)))
	mux.Handle("DELETE /api/galleries/{id}/images",
		adminOnly(http.HandlerFunc(svc.Galleries.RemoveImage)))

	return mux
}

// crudHandlers is satisfied by every resource handler set.
type crudHandlers interface {
	List(http.ResponseWriter, *http.Request)
	Get(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

// crudRoutes groups one resource's route registration.
type crudRoutes struct {
	Path  string
	H     crudHandlers
	Read  func(http.Handler) http.Handler
	Write func(http.Handler) http.Handler
}

func registerCRUD(mux *http.ServeMux, rt crudRoutes) {
	handle := func(pattern string, mw func(http.Handler) http.Handler, fn http.HandlerFunc) {
		var h http.Handler = fn
		if mw != nil {
			h = mw(h)
		}
		mux.Handle(pattern, h)
	}

	base := "/api/" + rt.Path
	handle("GET "+base, rt.Read, rt.H.List)
	handle("GET "+base+"/{id}", rt.Read, rt.H.Get)
	handle("POST "+base, rt.Write, rt.H.Create)
	handle("PUT "+base+"/{id}", rt.Write, rt.H.Update)
	handle("DELETE "+base+"/{id}", rt.Write, rt.H.Delete)
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
