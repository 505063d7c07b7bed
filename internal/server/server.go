package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Rohit-1301/Health/internal/calendar"
	"github.com/Rohit-1301/Health/internal/config"
	"github.com/Rohit-1301/Health/internal/handler"
	"github.com/Rohit-1301/Health/internal/middleware"
	"github.com/Rohit-1301/Health/internal/push"
	"github.com/Rohit-1301/Health/internal/store"
	ws "github.com/Rohit-1301/Health/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	calendar     *calendar.Service
	userH        *handler.UserHandler
	appointmentH *handler.AppointmentHandler
	medicationH  *handler.MedicationHandler
	calendarH    *handler.CalendarHandler
	recordH      *handler.HealthRecordHandler
	conditionH   *handler.ConditionHandler
	pushH        *handler.PushHandler
	userStore    *store.UserStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

// New wires stores, the calendar service and handlers over db. pushSvc may
// be nil when web push is not configured.
func New(db *sql.DB, cfg *config.Config, pushSvc *push.Service, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	loc, err := cfg.Reminder.Location()
	if err != nil {
		logger.Warn("falling back to local timezone", "error", err)
		loc = time.Local
	}

	userStore := store.NewUserStore(db)
	appointmentStore := store.NewAppointmentStore(db)
	medicationStore := store.NewMedicationStore(db)
	historyStore := store.NewHistoryStore(db)
	recordStore := store.NewHealthRecordStore(db)
	conditionStore := store.NewConditionStore(db)
	pushStore := store.NewPushStore(db)

	cal := calendar.NewService(medicationStore, historyStore, appointmentStore,
		cfg.Calendar.CacheSize, cfg.Calendar.CacheTTL, logger, calendar.WithLocation(loc))

	return &Server{
		db:           db,
		hub:          hub,
		calendar:     cal,
		userH:        handler.NewUserHandler(userStore, logger.With("component", "user")),
		appointmentH: handler.NewAppointmentHandler(appointmentStore, hub, cal, logger.With("component", "appointment")),
		medicationH:  handler.NewMedicationHandler(medicationStore, historyStore, hub, cal, loc, logger.With("component", "medication")),
		calendarH:    handler.NewCalendarHandler(cal, logger.With("component", "calendar_handler")),
		recordH:      handler.NewHealthRecordHandler(recordStore, hub, logger.With("component", "health_record")),
		conditionH:   handler.NewConditionHandler(conditionStore, hub, logger.With("component", "condition")),
		pushH:        handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push_handler")),
		userStore:    userStore,
		rateLimiter:  middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		logger:       logger,
	}
}

func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Calendar() *calendar.Service {
	return s.calendar
}

func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))

	apiMux := http.NewServeMux()
	s.registerAPIRoutes(apiMux)

	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP)
	outerMux.Handle("/api/", rl(apiMux))

	// Apply request logging middleware
	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.db.PingContext(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) registerAPIRoutes(mux *http.ServeMux) {
	// Each route under /api/users/{user_id} runs with the resolved user in
	// its context.
	requireUser := middleware.RequireUser(s.userStore, s.logger.With("component", "http"))
	user := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, requireUser(h))
	}

	// Users
	mux.HandleFunc("POST /api/users", s.userH.Create)
	user("GET /api/users/{user_id}", s.userH.Get)
	user("PUT /api/users/{user_id}", s.userH.Update)
	user("DELETE /api/users/{user_id}", s.userH.Delete)

	// Appointments
	user("GET /api/users/{user_id}/appointments", s.appointmentH.List)
	user("POST /api/users/{user_id}/appointments", s.appointmentH.Create)
	user("GET /api/users/{user_id}/appointments/{id}", s.appointmentH.Get)
	user("PUT /api/users/{user_id}/appointments/{id}", s.appointmentH.Update)
	user("POST /api/users/{user_id}/appointments/{id}/cancel", s.appointmentH.Cancel)
	user("POST /api/users/{user_id}/appointments/{id}/complete", s.appointmentH.Complete)
	user("DELETE /api/users/{user_id}/appointments/{id}", s.appointmentH.Delete)

	// Medications
	user("GET /api/users/{user_id}/medications", s.medicationH.List)
	user("POST /api/users/{user_id}/medications", s.medicationH.Create)
	user("GET /api/users/{user_id}/medications/history", s.medicationH.History)
	user("GET /api/users/{user_id}/medications/{id}", s.medicationH.Get)
	user("PUT /api/users/{user_id}/medications/{id}", s.medicationH.Update)
	user("DELETE /api/users/{user_id}/medications/{id}", s.medicationH.Delete)
	user("POST /api/users/{user_id}/medications/{id}/taken", s.medicationH.MarkTaken)

	// Calendar and insights
	user("GET /api/users/{user_id}/calendar", s.calendarH.Events)
	user("GET /api/users/{user_id}/reminders/upcoming", s.calendarH.Upcoming)
	user("GET /api/users/{user_id}/insights/adherence", s.calendarH.Adherence)

	// Health records
	user("GET /api/users/{user_id}/health-records", s.recordH.List)
	user("POST /api/users/{user_id}/health-records", s.recordH.Create)
	user("GET /api/users/{user_id}/health-records/{id}", s.recordH.Get)
	user("PUT /api/users/{user_id}/health-records/{id}", s.recordH.Update)
	user("DELETE /api/users/{user_id}/health-records/{id}", s.recordH.Delete)

	// Conditions
	user("GET /api/users/{user_id}/conditions", s.conditionH.List)
	user("POST /api/users/{user_id}/conditions", s.conditionH.Create)
	user("GET /api/users/{user_id}/conditions/{id}", s.conditionH.Get)
	user("PUT /api/users/{user_id}/conditions/{id}", s.conditionH.Update)
	user("DELETE /api/users/{user_id}/conditions/{id}", s.conditionH.Delete)

	// Push subscriptions
	user("GET /api/users/{user_id}/push/subscriptions", s.pushH.ListSubscriptions)
	user("POST /api/users/{user_id}/push/subscriptions", s.pushH.Subscribe)
	user("DELETE /api/users/{user_id}/push/subscriptions/{id}", s.pushH.Unsubscribe)
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)
}
