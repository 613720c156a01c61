package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/api"
	"github.com/linesmerrill/case-tracker-api/api/hub"
	"github.com/linesmerrill/case-tracker-api/api/scheduler"
	"github.com/linesmerrill/case-tracker-api/config"
	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/models"
	"github.com/linesmerrill/case-tracker-api/storage"
)

// RequestTimeout bounds every non-websocket request
const RequestTimeout = 30 * time.Second

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Store     storage.FileStore
	Hub       *hub.Hub
	Metrics   *api.MetricsCollector
	Scheduler *scheduler.Scheduler
	Auth      *api.Auth
	dbHelper  databases.DatabaseHelper
	client    databases.ClientHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	if a.Hub == nil {
		a.Hub = hub.New()
	}
	if a.Metrics == nil {
		a.Metrics = api.NewMetrics()
	}
	if a.Store == nil {
		a.Store = storage.NewMemory()
	}
	if a.Auth == nil {
		a.Auth = api.NewAuth(databases.NewUserDatabase(a.dbHelper), a.Config.JWTSecret)
	}

	clock := Clock{Location: a.Config.Location()}
	cases := Case{DB: databases.NewCaseDatabase(a.dbHelper), NDB: databases.NewNoteDatabase(a.dbHelper), Clock: clock}
	notes := Note{DB: databases.NewNoteDatabase(a.dbHelper), CDB: databases.NewCaseDatabase(a.dbHelper)}
	crimeHeads := Taxonomy{DB: databases.NewCrimeHeadDatabase(a.dbHelper), Kind: "crime head"}
	reasons := Taxonomy{DB: databases.NewReasonDatabase(a.dbHelper), Kind: "reason"}
	u := User{DB: databases.NewUserDatabase(a.dbHelper)}
	up := Upload{Store: a.Store, UploadPreset: a.Config.CloudinaryUploadPreset, APISecret: a.Config.CloudinaryAPISecret}
	alerts := Alerts{Hub: a.Hub}
	m := MetricsHandler{Metrics: a.Metrics}

	// any signed in user
	authed := func(h http.HandlerFunc) http.Handler {
		return a.Auth.Middleware(h)
	}
	// SuperAdmin only
	admin := func(h http.HandlerFunc) http.Handler {
		return a.Auth.Middleware(api.RequireRole(h, models.RoleSuperAdmin))
	}

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware(a.Metrics))

	// healthchex
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")
	r.Handle("/ws/alerts", tokenFromQuery(authed(alerts.AlertsSocketHandler))).Methods("GET")

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(RequestTimeout))

	apiCreate.Handle("/auth/token", authed(a.Auth.CreateToken)).Methods("POST")
	apiCreate.Handle("/auth/logout", authed(a.Auth.RevokeToken)).Methods("DELETE")
	apiCreate.Handle("/me", authed(u.MeHandler)).Methods("GET")

	apiCreate.Handle("/cases", authed(cases.CasesHandler)).Methods("GET")
	apiCreate.Handle("/cases", admin(cases.CreateCaseHandler)).Methods("POST")
	apiCreate.Handle("/cases/alerts", authed(cases.CaseAlertsHandler)).Methods("GET")
	apiCreate.Handle("/cases/export", authed(cases.ExportCasesHandler)).Methods("GET")
	apiCreate.Handle("/case/{case_id}", authed(cases.CaseByIDHandler)).Methods("GET")
	apiCreate.Handle("/case/{case_id}", admin(cases.UpdateCaseHandler)).Methods("PUT")
	apiCreate.Handle("/case/{case_id}", admin(cases.DeleteCaseHandler)).Methods("DELETE")
	apiCreate.Handle("/case/{case_id}/view", authed(cases.CaseViewHandler)).Methods("GET")
	apiCreate.Handle("/case/{case_id}/report", authed(cases.CaseReportHandler)).Methods("GET")
	apiCreate.Handle("/case/{case_id}/notes", authed(notes.NotesByCaseHandler)).Methods("GET")
	apiCreate.Handle("/case/{case_id}/notes", authed(notes.CreateNoteHandler)).Methods("POST")

	apiCreate.Handle("/crime-heads", authed(crimeHeads.ListHandler)).Methods("GET")
	apiCreate.Handle("/crime-heads", admin(crimeHeads.CreateHandler)).Methods("POST")
	apiCreate.Handle("/crime-head/{id}", admin(crimeHeads.UpdateHandler)).Methods("PUT")
	apiCreate.Handle("/crime-head/{id}", admin(crimeHeads.DeleteHandler)).Methods("DELETE")
	apiCreate.Handle("/reasons", authed(reasons.ListHandler)).Methods("GET")
	apiCreate.Handle("/reasons", admin(reasons.CreateHandler)).Methods("POST")
	apiCreate.Handle("/reason/{id}", admin(reasons.UpdateHandler)).Methods("PUT")
	apiCreate.Handle("/reason/{id}", admin(reasons.DeleteHandler)).Methods("DELETE")

	apiCreate.Handle("/users", admin(u.UsersHandler)).Methods("GET")
	apiCreate.Handle("/users", admin(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/user/{user_id}", admin(u.UpdateUserByIDHandler)).Methods("PUT")
	apiCreate.Handle("/user/{user_id}", admin(u.DeleteUserByIDHandler)).Methods("DELETE")

	apiCreate.Handle("/uploads", admin(up.UploadHandler)).Methods("POST")
	apiCreate.Handle("/uploads", admin(up.DeleteUploadHandler)).Methods("DELETE")
	apiCreate.Handle("/generate-signature", admin(up.GenerateSignature)).Methods("POST")

	apiCreate.Handle("/metrics", admin(m.GetMetricsDashboard)).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With("error", err).Error("failed to create new client")
		return err
	}

	a.client = client
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With("error", err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("case-tracker-api has connected to the database")

	ctx, cancel := api.WithQueryTimeout(context.Background())
	defer cancel()
	indexed := []struct {
		name string
		db   interface{ EnsureIndexes(context.Context) error }
	}{
		{"case", databases.NewCaseDatabase(a.dbHelper)},
		{"note", databases.NewNoteDatabase(a.dbHelper)},
		{"user", databases.NewUserDatabase(a.dbHelper)},
	}
	for _, c := range indexed {
		if err := c.db.EnsureIndexes(ctx); err != nil {
			zap.S().With("error", err).Errorf("failed to create %s indexes", c.name)
			return err
		}
	}

	a.initializeStorage()
	a.initializeRoutes()
	return a.initializeScheduler()
}

func (a *App) initializeStorage() {
	cld, err := storage.NewCloudinary(a.Config.CloudinaryURL, a.Config.CloudinaryFolder)
	if err != nil {
		zap.S().Warnw("cloudinary is not available, keeping uploads in memory", "error", err)
		a.Store = storage.NewMemory()
		return
	}
	a.Store = cld
}

func (a *App) initializeScheduler() error {
	var mailer scheduler.Mailer
	if a.Config.SendgridAPIKey != "" {
		mailer = scheduler.NewSendgridMailer(a.Config.SendgridAPIKey, a.Config.AlertFromEmail)
	} else {
		zap.S().Warn("SENDGRID_API_KEY is not set, deadline digests will not be emailed")
	}
	a.Scheduler = scheduler.NewScheduler(
		databases.NewCaseDatabase(a.dbHelper),
		databases.NewUserDatabase(a.dbHelper),
		mailer,
		a.Hub,
		a.Config.AlertCron,
		a.Config.Location(),
	)
	a.Scheduler.BaseURL = a.Config.BaseURL
	return a.Scheduler.Start()
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// Close stops the scheduler and disconnects from the database
func (a *App) Close(ctx context.Context) {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.client != nil {
		if err := a.client.Disconnect(ctx); err != nil {
			zap.S().With("error", err).Warn("failed to disconnect from database")
		}
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	config.WriteData(w, http.StatusOK, models.HealthCheckResponse{
		Alive: true,
	})
}
