package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	SignUp(w http.ResponseWriter, r *http.Request)
	SignIn(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	LogoutAll(w http.ResponseWriter, r *http.Request)
	RevokeAll(w http.ResponseWriter, r *http.Request)
	VerifyEmail(w http.ResponseWriter, r *http.Request)
	ResendVerification(w http.ResponseWriter, r *http.Request)
	Google(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type TerminalHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Assign(w http.ResponseWriter, r *http.Request)
	Unassign(w http.ResponseWriter, r *http.Request)
	Assignment(w http.ResponseWriter, r *http.Request)
	ListAssignments(w http.ResponseWriter, r *http.Request)
}

type LockerHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	CreateBatch(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListByTerminal(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Purchase(w http.ResponseWriter, r *http.Request)
	KeyByCode(w http.ResponseWriter, r *http.Request)
	DeactivateKey(w http.ResponseWriter, r *http.Request)
}

type UserHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health   HealthHandler
	Auth     AuthHandler
	Terminal TerminalHandler
	Locker   LockerHandler
	User     UserHandler

	AuthMW     func(http.Handler) http.Handler
	PupAdminMW func(http.Handler) http.Handler
	AdminMW    func(http.Handler) http.Handler

	// Per-route rate limits for the credential endpoints; nil disables.
	SignInLimitMW func(http.Handler) http.Handler
	SignUpLimitMW func(http.Handler) http.Handler

	// Global middlewares applied to every route, outermost first.
	Global []func(http.Handler) http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.Terminal == nil {
		return nil, fmt.Errorf("nil Terminal handler")
	}
	if deps.Locker == nil {
		return nil, fmt.Errorf("nil Locker handler")
	}
	if deps.User == nil {
		return nil, fmt.Errorf("nil User handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.PupAdminMW == nil {
		return nil, fmt.Errorf("nil PupAdmin middleware")
	}
	if deps.AdminMW == nil {
		return nil, fmt.Errorf("nil Admin middleware")
	}

	noop := func(next http.Handler) http.Handler { return next }
	if deps.SignInLimitMW == nil {
		deps.SignInLimitMW = noop
	}
	if deps.SignUpLimitMW == nil {
		deps.SignUpLimitMW = noop
	}

	r := chi.NewRouter()
	for _, mw := range deps.Global {
		r.Use(mw)
	}

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/auth/v1", func(r chi.Router) {
		r.With(deps.SignUpLimitMW).Post("/signup", deps.Auth.SignUp)
		r.With(deps.SignInLimitMW).Post("/signin", deps.Auth.SignIn)
		r.Post("/refresh", deps.Auth.Refresh)
		r.Post("/logout", deps.Auth.Logout)
		r.With(deps.AuthMW).Post("/logout-all", deps.Auth.LogoutAll)
		r.With(deps.AuthMW).Post("/revoke-all", deps.Auth.RevokeAll)

		r.Post("/verify-email", deps.Auth.VerifyEmail)
		r.With(deps.SignUpLimitMW).Post("/resend-verification", deps.Auth.ResendVerification)

		r.Post("/google", deps.Auth.Google)

		r.With(deps.AuthMW).Get("/me", deps.Auth.Me)
	})

	r.Route("/terminals", func(r chi.Router) {
		r.Use(deps.AuthMW)

		// Terminal management is admin-only; assignment lookups allow
		// shop owners to see their own kiosk.
		r.With(deps.AdminMW).Post("/", deps.Terminal.Create)
		r.With(deps.AdminMW).Get("/", deps.Terminal.List)
		r.With(deps.AdminMW).Patch("/{id}", deps.Terminal.Update)
		r.With(deps.AdminMW).Delete("/{id}", deps.Terminal.Delete)
		r.With(deps.AdminMW).Post("/{id}/assign", deps.Terminal.Assign)
		r.With(deps.AdminMW).Post("/{id}/unassign", deps.Terminal.Unassign)
		r.With(deps.AdminMW).Get("/assignments", deps.Terminal.ListAssignments)

		r.With(deps.PupAdminMW).Get("/{id}", deps.Terminal.Get)
		r.With(deps.PupAdminMW).Get("/{id}/assignment", deps.Terminal.Assignment)

		// Locker management under a terminal.
		r.With(deps.PupAdminMW).Post("/{terminalID}/lockers", deps.Locker.Create)
		r.With(deps.PupAdminMW).Post("/{terminalID}/lockers/batch", deps.Locker.CreateBatch)
		r.Get("/{terminalID}/lockers", deps.Locker.ListByTerminal)
	})

	r.Route("/lockers", func(r chi.Router) {
		r.Use(deps.AuthMW)

		r.Get("/mine", deps.Locker.ListMine)
		r.Get("/{id}", deps.Locker.Get)
		r.With(deps.PupAdminMW).Patch("/{id}", deps.Locker.Update)
		r.With(deps.PupAdminMW).Delete("/{id}", deps.Locker.Delete)
		r.Post("/{id}/purchase", deps.Locker.Purchase)

		r.Get("/keys/{code}", deps.Locker.KeyByCode)
		r.With(deps.PupAdminMW).Post("/keys/{code}/deactivate", deps.Locker.DeactivateKey)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(deps.AuthMW)

		r.With(deps.AdminMW).Get("/", deps.User.List)
		r.Get("/{id}", deps.User.Get)
		r.Delete("/{id}", deps.User.Delete)
	})

	return r, nil
}
