package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/cybermitra/guardian-api/api"
	"github.com/cybermitra/guardian-api/config"
	"github.com/cybermitra/guardian-api/databases"
	"github.com/cybermitra/guardian-api/events"
	"github.com/cybermitra/guardian-api/mailer"
	"github.com/cybermitra/guardian-api/models"
	"github.com/cybermitra/guardian-api/services"
	"github.com/cybermitra/guardian-api/storage"
)

const defaultRequestTimeout = 30 * time.Second

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	Services *Services
	Hub      *events.Hub
	Metrics  *api.Metrics

	client   databases.ClientHelper
	dbHelper databases.DatabaseHelper
	amqp     *events.AMQPPublisher
}

// Services is the set of domain services behind the routes
type Services struct {
	Cases          *services.CaseStore
	Workflow       *services.Workflow
	Subcollections *services.Subcollections
	Users          *services.Users
	Resets         *services.ResetTokens
	Identity       *services.Identity
	Alerts         *services.Alerts
	Contacts       *services.Contacts
	Dashboard      *services.Dashboard
	Mailer         mailer.Mailer
}

// NewServices builds every domain service on top of db
func NewServices(conf config.Config, db databases.DatabaseHelper, store storage.ObjectStore, m mailer.Mailer, pub events.Publisher) *Services {
	cases := services.NewCaseStore(databases.NewCaseDatabase(db), pub, conf.CaseNumberPrefix)
	resets := &services.ResetTokens{
		DB:         databases.NewTokenDatabase(db),
		Mailer:     m,
		WebBaseURL: conf.PublicWebBaseURL,
	}
	users := &services.Users{DB: databases.NewUserDatabase(db), Resets: resets}
	alerts := &services.Alerts{DB: databases.NewAlertDatabase(db), Events: pub}

	return &Services{
		Cases:    cases,
		Workflow: &services.Workflow{Cases: cases, Users: users, Events: pub},
		Subcollections: &services.Subcollections{
			Cases:     cases,
			Timeline:  databases.NewTimelineDatabase(db),
			Notes:     databases.NewNoteDatabase(db),
			Evidence:  databases.NewEvidenceDatabase(db),
			AgentChat: databases.NewAgentChatDatabase(db),
			Store:     store,
			Events:    pub,
		},
		Users:     users,
		Resets:    resets,
		Identity:  services.NewIdentity(users, resets, m, conf.JWTSecret, conf.PublicWebBaseURL),
		Alerts:    alerts,
		Contacts:  &services.Contacts{DB: databases.NewContactDatabase(db)},
		Dashboard: &services.Dashboard{Cases: cases, Alerts: alerts, Users: users},
		Mailer:    m,
	}
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	if a.Hub == nil {
		a.Hub = events.NewHub()
	}
	if a.Metrics == nil {
		a.Metrics = api.NewMetrics(services.Collectors()...)
	}
	s := a.Services

	// setup go-guardian for middleware
	authn := api.NewAuthenticator(context.Background(), s.Identity)
	superAdmin := authn.RequireRole(models.RoleSuperAdmin)
	admins := authn.RequireRole(models.RoleSuperAdmin, models.RoleAdmin)
	protect := func(h http.HandlerFunc) http.Handler {
		return authn.Middleware(h)
	}

	au := Auth{Identity: s.Identity, Authenticator: authn}
	c := Case{Store: s.Cases, Workflow: s.Workflow}
	sub := Subcollection{Service: s.Subcollections}
	u := User{Users: s.Users}
	al := Alert{Alerts: s.Alerts}
	ct := Contact{Contacts: s.Contacts}
	d := Dashboard{Dashboard: s.Dashboard}
	ws := Socket{Hub: a.Hub}

	r := mux.NewRouter()
	r.Use(a.Metrics.Middleware)

	// healthchex
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")
	r.Handle("/metrics", a.Metrics.Handler()).Methods("GET")

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	timeout := a.Config.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	apiCreate.Use(api.TimeoutMiddleware(timeout))

	apiCreate.HandleFunc("/auth/token", au.TokenHandler).Methods("POST")
	apiCreate.HandleFunc("/auth/email-link", au.SendEmailLinkHandler).Methods("POST")
	apiCreate.HandleFunc("/auth/email-link/complete", au.CompleteEmailLinkHandler).Methods("POST")
	apiCreate.HandleFunc("/auth/password-reset", au.SendPasswordResetHandler).Methods("POST")
	apiCreate.HandleFunc("/auth/password-reset/confirm", au.ConfirmPasswordResetHandler).Methods("POST")
	apiCreate.Handle("/auth/password", protect(au.ChangePasswordHandler)).Methods("PUT")
	apiCreate.Handle("/auth/logout", protect(au.LogoutHandler)).Methods("DELETE")

	apiCreate.Handle("/cases", protect(c.CasesHandler)).Methods("GET")
	apiCreate.Handle("/cases", protect(c.CreateCaseHandler)).Methods("POST")
	apiCreate.Handle("/cases/{caseId}", protect(c.CaseByIDHandler)).Methods("GET")
	apiCreate.Handle("/cases/{caseId}", protect(c.UpdateCaseHandler)).Methods("PATCH")
	apiCreate.Handle("/cases/{caseId}", authn.Middleware(superAdmin(http.HandlerFunc(c.DeleteCaseHandler)))).Methods("DELETE")
	apiCreate.Handle("/cases/{caseId}/assign", protect(c.AssignCaseHandler)).Methods("POST")
	apiCreate.Handle("/cases/{caseId}/close", protect(c.CloseCaseHandler)).Methods("POST")
	apiCreate.Handle("/cases/{caseId}/archive", protect(c.ArchiveCaseHandler)).Methods("POST")
	apiCreate.Handle("/cases/{caseId}/timeline", protect(sub.TimelineHandler)).Methods("GET")
	apiCreate.Handle("/cases/{caseId}/timeline", protect(sub.AddTimelineEventHandler)).Methods("POST")
	apiCreate.Handle("/cases/{caseId}/notes", protect(sub.NotesHandler)).Methods("GET")
	apiCreate.Handle("/cases/{caseId}/notes", protect(sub.AddNoteHandler)).Methods("POST")
	apiCreate.Handle("/cases/{caseId}/evidence", protect(sub.EvidenceHandler)).Methods("GET")
	apiCreate.Handle("/cases/{caseId}/evidence", protect(sub.AddEvidenceHandler)).Methods("POST")
	apiCreate.Handle("/cases/{caseId}/evidence/{evidenceId}", protect(sub.DeleteEvidenceHandler)).Methods("DELETE")
	apiCreate.Handle("/cases/{caseId}/agent-chat", protect(sub.AgentChatHandler)).Methods("GET")
	apiCreate.Handle("/cases/{caseId}/agent-chat", protect(sub.AddAgentMessageHandler)).Methods("POST")

	apiCreate.Handle("/users/me", protect(u.MeHandler)).Methods("GET")
	apiCreate.Handle("/users/me", protect(u.UpdateMeHandler)).Methods("PATCH")
	apiCreate.Handle("/users/assignable", protect(u.AssignableUsersHandler)).Methods("GET")
	apiCreate.Handle("/users", authn.Middleware(admins(http.HandlerFunc(u.UsersHandler)))).Methods("GET")
	apiCreate.Handle("/users", authn.Middleware(superAdmin(http.HandlerFunc(u.CreateUserHandler)))).Methods("POST")
	apiCreate.Handle("/users/{userId}", protect(u.UserByIDHandler)).Methods("GET")

	apiCreate.Handle("/alerts", protect(al.AlertsHandler)).Methods("GET")
	apiCreate.Handle("/alerts", protect(al.CreateAlertHandler)).Methods("POST")
	apiCreate.Handle("/alerts/stats", protect(al.AlertStatsHandler)).Methods("GET")
	apiCreate.Handle("/alerts/{alertId}", protect(al.AlertByIDHandler)).Methods("GET")
	apiCreate.Handle("/alerts/{alertId}", protect(al.UpdateAlertHandler)).Methods("PATCH")
	apiCreate.Handle("/alerts/{alertId}", authn.Middleware(admins(http.HandlerFunc(al.DeleteAlertHandler)))).Methods("DELETE")

	apiCreate.Handle("/contacts", protect(ct.ContactsHandler)).Methods("GET")
	apiCreate.Handle("/contacts", authn.Middleware(admins(http.HandlerFunc(ct.CreateContactHandler)))).Methods("POST")
	apiCreate.Handle("/contacts/{contactId}", authn.Middleware(admins(http.HandlerFunc(ct.DeleteContactHandler)))).Methods("DELETE")

	apiCreate.Handle("/dashboard", protect(d.DashboardHandler)).Methods("GET")
	apiCreate.Handle("/ws", protect(ws.SocketHandler)).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize(ctx context.Context) error {
	if err := a.Config.Validate(); err != nil {
		zap.S().With(err).Error("invalid configuration")
		return err
	}
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}
	if err = client.Connect(ctx); err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	a.client = client
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	zap.S().Info("guardian-api has connected to the database")

	store, err := storage.New(&a.Config)
	if err != nil {
		zap.S().With(err).Error("failed to configure evidence storage")
		return err
	}

	var m mailer.Mailer = mailer.Noop{}
	if a.Config.SendGridAPIKey != "" {
		m = mailer.NewSendGrid(a.Config.SendGridAPIKey, a.Config.MailFrom)
	} else {
		zap.S().Warn("SENDGRID_API_KEY is not set, outgoing mail is disabled")
	}

	a.Hub = events.NewHub()
	pub := events.Multi{a.Hub}
	if a.Config.AMQPURL != "" {
		a.amqp, err = events.DialAMQP(a.Config.AMQPURL, a.Config.AMQPQueue)
		if err != nil {
			zap.S().With(err).Error("failed to connect to message broker")
			return err
		}
		pub = append(pub, a.amqp)
	}

	a.Services = NewServices(a.Config, a.dbHelper, store, m, pub)

	// initialize api router
	a.initializeRoutes()
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// Database returns the connected database, nil before Initialize
func (a *App) Database() databases.DatabaseHelper {
	return a.dbHelper
}

// Close releases the broker channel and the database connection
func (a *App) Close(ctx context.Context) error {
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			zap.S().Warnw("failed to close message broker", "error", err)
		}
	}
	if a.client == nil {
		return nil
	}
	return a.client.Disconnect(ctx)
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
