package httpdelivery

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	evaluationapp "github.com/mutugading/marketplace-backend/internal/application/evaluation"
	favoriteapp "github.com/mutugading/marketplace-backend/internal/application/favorite"
	identityapp "github.com/mutugading/marketplace-backend/internal/application/identity"
	providerapp "github.com/mutugading/marketplace-backend/internal/application/provider"
	scheduleapp "github.com/mutugading/marketplace-backend/internal/application/schedule"
	"github.com/mutugading/marketplace-backend/internal/domain/actor"
	"github.com/mutugading/marketplace-backend/internal/domain/shared"
	"github.com/mutugading/marketplace-backend/internal/domain/user"
	"github.com/mutugading/marketplace-backend/pkg/logger"
)

// Handlers groups the application handlers served over HTTP.
type Handlers struct {
	Register *identityapp.RegisterHandler
	Login    *identityapp.LoginHandler
	Logout   *identityapp.LogoutHandler

	CreateProvider     *providerapp.CreateHandler
	GetProvider        *providerapp.GetHandler
	UpdateProvider     *providerapp.UpdateHandler
	DeactivateProvider *providerapp.DeactivateHandler
	UploadDocument     *providerapp.UploadDocumentHandler
	VerifyProvider     *providerapp.VerifyHandler
	ListPending        *providerapp.ListPendingHandler

	CreateSchedule *scheduleapp.CreateHandler
	ListSchedules  *scheduleapp.ListHandler

	CreateFavorite *favoriteapp.CreateHandler
	RemoveFavorite *favoriteapp.RemoveHandler
	ListFavorites  *favoriteapp.ListHandler

	CreateEvaluation  *evaluationapp.CreateHandler
	ListEvaluations   *evaluationapp.ListHandler
	ExportEvaluations *evaluationapp.ExportHandler
}

// access is the authentication level a route requires.
type access int

const (
	public access = iota
	authenticated
	adminOnly
)

// route describes one API endpoint.
type route struct {
	method    string
	pattern   string
	operation string
	access    access
	serve     endpoint
}

// request is an HTTP request with its path parameters and session.
type request struct {
	*http.Request
	params  map[string]string
	session *session
}

func (r *request) actor() *actor.Actor {
	if r.session == nil {
		return nil
	}
	return r.session.actor
}

type endpoint func(w http.ResponseWriter, r *request) error

// API dispatches HTTP routes to the application handlers.
type API struct {
	handlers    Handlers
	auth        *Authenticator
	tokenTTLSec int64
}

// NewAPI creates a new API. tokenTTL is reported to clients on login.
func NewAPI(handlers Handlers, auth *Authenticator, tokenTTL time.Duration) *API {
	return &API{handlers: handlers, auth: auth, tokenTTLSec: int64(tokenTTL.Seconds())}
}

func (a *API) routes() []route {
	return []route{
		// Accounts
		{http.MethodPost, "/api/v1/auth/register", "register_user", public, a.register},
		{http.MethodPost, "/api/v1/auth/login", "login", public, a.login},
		{http.MethodPost, "/api/v1/auth/logout", "logout", authenticated, a.logout},

		// Providers
		{http.MethodPost, "/api/v1/providers", "register_provider", authenticated, a.createProvider},
		{http.MethodGet, "/api/v1/providers/{provider_id}", "get_provider", public, a.getProvider},
		{http.MethodPut, "/api/v1/providers/{provider_id}", "update_provider", authenticated, a.updateProvider},
		{http.MethodPost, "/api/v1/providers/{provider_id}/deactivate", "deactivate_provider", authenticated, a.deactivateProvider},
		{http.MethodPost, "/api/v1/providers/{provider_id}/documents", "upload_document", authenticated, a.uploadDocument},
		{http.MethodGet, "/api/v1/me/provider", "get_my_provider", authenticated, a.getMyProvider},

		// Schedules
		{http.MethodPost, "/api/v1/providers/{provider_id}/schedules", "create_schedule", authenticated, a.createSchedule},
		{http.MethodGet, "/api/v1/providers/{provider_id}/schedules", "list_schedules", public, a.listSchedules},

		// Evaluations
		{http.MethodPost, "/api/v1/providers/{provider_id}/evaluations", "create_evaluation", authenticated, a.createEvaluation},
		{http.MethodGet, "/api/v1/providers/{provider_id}/evaluations", "list_evaluations", public, a.listEvaluations},

		// Favorites
		{http.MethodPost, "/api/v1/favorites", "create_favorite", authenticated, a.createFavorite},
		{http.MethodGet, "/api/v1/favorites", "list_favorites", authenticated, a.listFavorites},
		{http.MethodDelete, "/api/v1/favorites/{provider_id}", "remove_favorite", authenticated, a.removeFavorite},

		// Administration
		{http.MethodGet, "/api/v1/admin/providers/pending", "list_pending_providers", adminOnly, a.listPending},
		{http.MethodPost, "/api/v1/admin/providers/{provider_id}/verify", "verify_provider", adminOnly, a.verifyProvider},
		{http.MethodGet, "/api/v1/admin/providers/{provider_id}/evaluations/export", "export_evaluations", adminOnly, a.exportEvaluations},
	}
}

// Register adds every API route to mux.
func (a *API) Register(mux *runtime.ServeMux) error {
	for _, rt := range a.routes() {
		if err := mux.HandlePath(rt.method, rt.pattern, a.wrap(rt)); err != nil {
			return fmt.Errorf("failed to register route %s %s: %w", rt.method, rt.pattern, err)
		}
	}
	return nil
}

func (a *API) wrap(rt route) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		start := time.Now()
		rec := newStatusRecorder(w)

		trace.SpanFromContext(r.Context()).SetAttributes(
			attribute.String("http.route", rt.pattern),
			attribute.String("marketplace.operation", rt.operation),
		)

		req := &request{Request: r, params: params}
		err := a.authorize(req, rt.access)
		if err == nil {
			err = rt.serve(rec, req)
			recordOperation(rt.operation, err)
		}
		if err != nil {
			writeError(rec, r, err)
		}

		httpRequestsTotal.WithLabelValues(rt.method, rt.pattern, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(rt.method, rt.pattern).Observe(time.Since(start).Seconds())
	}
}

func (a *API) authorize(req *request, level access) error {
	if level == public {
		return nil
	}
	s, err := a.auth.authenticate(req.Request)
	if err != nil {
		return err
	}
	req.session = s
	if level == adminOnly {
		return actor.RequireRole(s.actor, user.RoleAdmin)
	}
	return nil
}

// Accounts

func (a *API) register(w http.ResponseWriter, r *request) error {
	var cmd identityapp.RegisterCommand
	if err := decodeJSON(r.Request, &cmd); err != nil {
		return err
	}
	u, err := a.handlers.Register.Handle(r.Context(), cmd)
	if err != nil {
		return err
	}
	writeCreated(w, "User registered successfully", toUserView(u))
	return nil
}

func (a *API) login(w http.ResponseWriter, r *request) error {
	var cmd identityapp.LoginCommand
	if err := decodeJSON(r.Request, &cmd); err != nil {
		return err
	}
	res, err := a.handlers.Login.Handle(r.Context(), cmd)
	if err != nil {
		return err
	}
	writeOK(w, "Login successful", loginView{
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   a.tokenTTLSec,
		User:        toUserView(res.User),
		Roles:       res.Roles,
	})
	return nil
}

func (a *API) logout(w http.ResponseWriter, r *request) error {
	err := a.handlers.Logout.Handle(r.Context(), r.actor(), identityapp.LogoutCommand{
		TokenID:   r.session.tokenID,
		ExpiresAt: r.session.expiresAt,
	})
	if err != nil {
		return err
	}
	writeOK(w, "Logout successful", nil)
	return nil
}

// Providers

func (a *API) createProvider(w http.ResponseWriter, r *request) error {
	var cmd providerapp.CreateCommand
	if err := decodeJSON(r.Request, &cmd); err != nil {
		return err
	}
	p, err := a.handlers.CreateProvider.Handle(r.Context(), r.actor(), cmd)
	if err != nil {
		return err
	}
	writeCreated(w, "Provider registered successfully", toProviderView(p))
	return nil
}

func (a *API) getProvider(w http.ResponseWriter, r *request) error {
	p, err := a.handlers.GetProvider.Handle(r.Context(), providerapp.GetQuery{ProviderID: r.params["provider_id"]})
	if err != nil {
		return err
	}
	writeOK(w, "Provider retrieved successfully", toProviderView(p))
	return nil
}

func (a *API) getMyProvider(w http.ResponseWriter, r *request) error {
	p, err := a.handlers.GetProvider.HandleMine(r.Context(), r.actor())
	if err != nil {
		return err
	}
	writeOK(w, "Provider retrieved successfully", toProviderView(p))
	return nil
}

func (a *API) updateProvider(w http.ResponseWriter, r *request) error {
	var cmd providerapp.UpdateCommand
	if err := decodeJSON(r.Request, &cmd); err != nil {
		return err
	}
	cmd.ProviderID = r.params["provider_id"]
	id, err := a.handlers.UpdateProvider.Handle(r.Context(), r.actor(), cmd)
	if err != nil {
		return err
	}
	writeOK(w, "Provider updated successfully", idView{ID: id.String()})
	return nil
}

func (a *API) deactivateProvider(w http.ResponseWriter, r *request) error {
	cmd := providerapp.DeactivateCommand{ProviderID: r.params["provider_id"]}
	if err := a.handlers.DeactivateProvider.Handle(r.Context(), r.actor(), cmd); err != nil {
		return err
	}
	writeOK(w, "Provider deactivated successfully", nil)
	return nil
}

func (a *API) uploadDocument(w http.ResponseWriter, r *request) error {
	r.Body = http.MaxBytesReader(w, r.Body, providerapp.MaxDocumentPhotoSize+maxBodyBytes)
	if err := r.ParseMultipartForm(providerapp.MaxDocumentPhotoSize); err != nil {
		return shared.NewValidationErrors(shared.ValidationError{Field: "photo", Message: "photo must be sent as multipart form data"})
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		return shared.NewValidationErrors(shared.ValidationError{Field: "photo", Message: "photo is required"})
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(io.LimitReader(file, providerapp.MaxDocumentPhotoSize+1))
	if err != nil {
		return fmt.Errorf("failed to read uploaded photo: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(content)
	}

	url, err := a.handlers.UploadDocument.Handle(r.Context(), r.actor(), providerapp.UploadDocumentCommand{
		ProviderID:  r.params["provider_id"],
		FileName:    header.Filename,
		ContentType: contentType,
		Content:     content,
	})
	if err != nil {
		return err
	}
	writeCreated(w, "Document photo uploaded successfully", documentView{URL: url})
	return nil
}

// Schedules

func (a *API) createSchedule(w http.ResponseWriter, r *request) error {
	var cmd scheduleapp.CreateCommand
	if err := decodeJSON(r.Request, &cmd); err != nil {
		return err
	}
	cmd.ProviderID = r.params["provider_id"]
	s, err := a.handlers.CreateSchedule.Handle(r.Context(), r.actor(), cmd)
	if err != nil {
		return err
	}
	writeCreated(w, "Schedule created successfully", toScheduleView(s))
	return nil
}

func (a *API) listSchedules(w http.ResponseWriter, r *request) error {
	schedules, err := a.handlers.ListSchedules.Handle(r.Context(), scheduleapp.ListQuery{ProviderID: r.params["provider_id"]})
	if err != nil {
		return err
	}
	writeOK(w, "Schedules retrieved successfully", toScheduleViews(schedules))
	return nil
}

// Evaluations

func (a *API) createEvaluation(w http.ResponseWriter, r *request) error {
	var cmd evaluationapp.CreateCommand
	if err := decodeJSON(r.Request, &cmd); err != nil {
		return err
	}
	cmd.ProviderID = r.params["provider_id"]
	e, err := a.handlers.CreateEvaluation.Handle(r.Context(), r.actor(), cmd)
	if err != nil {
		return err
	}
	writeCreated(w, "Evaluation created successfully", toEvaluationView(e))
	return nil
}

func (a *API) listEvaluations(w http.ResponseWriter, r *request) error {
	res, err := a.handlers.ListEvaluations.Handle(r.Context(), evaluationapp.ListQuery{ProviderID: r.params["provider_id"]})
	if err != nil {
		return err
	}
	writeOK(w, "Evaluations retrieved successfully", toEvaluationListView(res))
	return nil
}

func (a *API) exportEvaluations(w http.ResponseWriter, r *request) error {
	res, err := a.handlers.ExportEvaluations.Handle(r.Context(), evaluationapp.ExportQuery{ProviderID: r.params["provider_id"]})
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.FileContent)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.FileContent); err != nil {
		logger.FromContext(r.Context()).Warn().Err(err).Msg("Failed to write export response")
	}
	return nil
}

// Favorites

func (a *API) createFavorite(w http.ResponseWriter, r *request) error {
	var cmd favoriteapp.CreateCommand
	if err := decodeJSON(r.Request, &cmd); err != nil {
		return err
	}
	f, err := a.handlers.CreateFavorite.Handle(r.Context(), r.actor(), cmd)
	if err != nil {
		return err
	}
	writeCreated(w, "Favorite created successfully", toFavoriteView(f))
	return nil
}

func (a *API) listFavorites(w http.ResponseWriter, r *request) error {
	items, err := a.handlers.ListFavorites.Handle(r.Context(), r.actor())
	if err != nil {
		return err
	}
	writeOK(w, "Favorites retrieved successfully", toFavoriteItemViews(items))
	return nil
}

func (a *API) removeFavorite(w http.ResponseWriter, r *request) error {
	cmd := favoriteapp.RemoveCommand{ProviderID: r.params["provider_id"]}
	if err := a.handlers.RemoveFavorite.Handle(r.Context(), r.actor(), cmd); err != nil {
		return err
	}
	writeOK(w, "Favorite removed successfully", nil)
	return nil
}

// Administration

func (a *API) listPending(w http.ResponseWriter, r *request) error {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))

	res, err := a.handlers.ListPending.Handle(r.Context(), providerapp.ListPendingQuery{Page: page, PageSize: pageSize})
	if err != nil {
		return err
	}
	writeOK(w, "Pending providers retrieved successfully", toPendingProvidersView(res))
	return nil
}

func (a *API) verifyProvider(w http.ResponseWriter, r *request) error {
	p, err := a.handlers.VerifyProvider.Handle(r.Context(), providerapp.VerifyCommand{ProviderID: r.params["provider_id"]})
	if err != nil {
		return err
	}
	writeOK(w, "Provider verified successfully", toProviderView(p))
	return nil
}
