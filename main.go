package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kmcgarry1/workout-planner/handlers"
	"github.com/kmcgarry1/workout-planner/internal/storage"
	chtypes "github.com/kmcgarry1/workout-planner/internal/types/challenge"
	"github.com/kmcgarry1/workout-planner/middleware"
	"github.com/kmcgarry1/workout-planner/services"

	_ "net/http/pprof"
)

var (
	store               storage.Store
	hub                 *services.Hub
	notificationService *services.NotificationService
	workoutService      *services.WorkoutService
	challengeService    *services.ChallengeService
	analyticsService    *services.AnalyticsService
	sharingService      *services.SharingService
	profileService      *services.ProfileService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		store, err = storage.NewPostgresStore(ctx, dbURL)
		if err != nil {
			log.Fatal("Failed to connect to Postgres:", err)
		}
		log.Println("Successfully connected to Postgres")
	} else {
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "./workout-planner.db"
		}
		store, err = storage.NewSQLiteStore(path)
		if err != nil {
			log.Fatal("Failed to open SQLite store:", err)
		}
		log.Printf("Using SQLite store at %s", path)
	}

	var templates []*chtypes.Template
	if path := os.Getenv("TEMPLATES_PATH"); path != "" {
		templates, err = services.LoadTemplates(path)
		if err != nil {
			log.Fatal("Failed to load challenge templates:", err)
		}
		log.Printf("Loaded %d challenge templates from %s", len(templates), path)
	} else {
		templates = services.DefaultTemplates()
	}

	userID := os.Getenv("USER_ID")
	if userID == "" {
		userID = "local-user"
	}
	userName := os.Getenv("USER_NAME")
	if userName == "" {
		userName = "You"
	}

	notificationService = services.NewNotificationService(store)

	hub = services.NewHub()
	notificationService.SetPushProvider(hub)

	workoutService, err = services.NewWorkoutService(store)
	if err != nil {
		log.Fatal("Failed to load workout data:", err)
	}

	challengeService, err = services.NewChallengeService(store, notificationService, templates, userID, userName)
	if err != nil {
		log.Fatal("Failed to load challenge data:", err)
	}

	analyticsService = services.NewAnalyticsService(workoutService)

	sharingService, err = services.NewSharingService(store, workoutService)
	if err != nil {
		log.Fatal("Failed to load sharing data:", err)
	}

	profileService, err = services.NewProfileService(store, notificationService)
	if err != nil {
		log.Fatal("Failed to load profile data:", err)
	}

	middleware.InitPrometheus()
	services.InitMetrics()
}

func main() {
	defer func() {
		log.Println("Stopping notification dispatcher...")
		notificationService.Stop()
		log.Println("Closing store...")
		if err := store.Close(); err != nil {
			log.Printf("Store close error: %v", err)
		}
	}()

	// Initialize handlers
	workoutHandler := handlers.NewWorkoutHandler(workoutService, challengeService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	shareHandler := handlers.NewShareHandler(sharingService, workoutService)
	profileHandler := handlers.NewProfileHandler(profileService)

	r := mux.NewRouter()

	// The websocket endpoint skips the rate limiter; connections are
	// long-lived and would starve the per-IP budget.
	r.HandleFunc("/api/v1/notifications/ws", hub.ServeWS)

	standardRouter := r.PathPrefix("/").Subrouter()

	go middleware.CleanupVisitors()

	standardRouter.Use(middleware.RateLimitMiddleware)
	standardRouter.Use(middleware.MonitorMiddleware)

	standardRouter.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	standardRouter.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	assetsDir := "./assets"
	fs := http.FileServer(http.Dir(assetsDir))
	standardRouter.PathPrefix("/assets/").Handler(http.StripPrefix("/assets/", fs))
	log.Printf("Serving static files from %s at /assets/", assetsDir)

	standardRouter.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "workout-planner-api"}`))
	}).Methods("GET")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := standardRouter.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/workouts", workoutHandler.GetWorkouts).Methods("GET")
	api.HandleFunc("/workouts", workoutHandler.SaveWorkout).Methods("POST")
	api.HandleFunc("/workouts/{id}", workoutHandler.GetWorkout).Methods("GET")
	api.HandleFunc("/workouts/{id}", workoutHandler.DeleteWorkout).Methods("DELETE")
	api.HandleFunc("/workouts/{id}/duplicate", workoutHandler.DuplicateWorkout).Methods("POST")
	api.HandleFunc("/workouts/{id}/complete", workoutHandler.CompleteWorkout).Methods("POST")

	api.HandleFunc("/exercises/custom", workoutHandler.GetCustomExercises).Methods("GET")
	api.HandleFunc("/exercises/custom", workoutHandler.SaveCustomExercise).Methods("POST")
	api.HandleFunc("/exercises/custom/{id}", workoutHandler.DeleteCustomExercise).Methods("DELETE")
	api.HandleFunc("/exercises/favorites", workoutHandler.GetFavorites).Methods("GET")
	api.HandleFunc("/exercises/{id}/favorite", workoutHandler.ToggleFavorite).Methods("POST")

	api.HandleFunc("/challenges", challengeHandler.GetChallenges).Methods("GET")
	api.HandleFunc("/challenges", challengeHandler.CreateChallenge).Methods("POST")
	api.HandleFunc("/challenges/templates", challengeHandler.GetTemplates).Methods("GET")
	api.HandleFunc("/challenges/templates/{id}", challengeHandler.GetTemplate).Methods("GET")
	api.HandleFunc("/challenges/stats", challengeHandler.GetStats).Methods("GET")
	api.HandleFunc("/challenges/deadlines", challengeHandler.GetUpcomingDeadlines).Methods("GET")
	api.HandleFunc("/challenges/{id}", challengeHandler.GetChallenge).Methods("GET")
	api.HandleFunc("/challenges/{id}/join", challengeHandler.JoinChallenge).Methods("POST")
	api.HandleFunc("/challenges/{id}/leaderboard", challengeHandler.GetLeaderboard).Methods("GET")
	api.HandleFunc("/challenges/{id}/progress", challengeHandler.GetProgress).Methods("GET")

	api.HandleFunc("/analytics/summary", analyticsHandler.GetSummary).Methods("GET")
	api.HandleFunc("/analytics/streaks", analyticsHandler.GetStreaks).Methods("GET")
	api.HandleFunc("/analytics/exercises", analyticsHandler.GetExerciseAnalytics).Methods("GET")
	api.HandleFunc("/analytics/records", analyticsHandler.GetPersonalRecords).Methods("GET")
	api.HandleFunc("/analytics/progress/weekly", analyticsHandler.GetWeeklyProgress).Methods("GET")
	api.HandleFunc("/analytics/progress/monthly", analyticsHandler.GetMonthlyProgress).Methods("GET")
	api.HandleFunc("/analytics/goals", analyticsHandler.GetGoalProgress).Methods("GET")

	api.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods("GET")
	api.HandleFunc("/notifications/unread-count", notificationHandler.GetUnreadCount).Methods("GET")
	api.HandleFunc("/notifications/read-all", notificationHandler.MarkAllAsRead).Methods("PUT")
	api.HandleFunc("/notifications/preferences", notificationHandler.GetPreferences).Methods("GET")
	api.HandleFunc("/notifications/preferences", notificationHandler.UpdatePreferences).Methods("PUT")
	api.HandleFunc("/notifications/{id}/read", notificationHandler.MarkAsRead).Methods("PUT")
	api.HandleFunc("/notifications/{id}", notificationHandler.DeleteNotification).Methods("DELETE")

	api.HandleFunc("/shares", shareHandler.GetSharedWorkouts).Methods("GET")
	api.HandleFunc("/shares", shareHandler.ShareWorkout).Methods("POST")
	api.HandleFunc("/shares/popular", shareHandler.GetPopular).Methods("GET")
	api.HandleFunc("/shares/recent", shareHandler.GetRecent).Methods("GET")
	api.HandleFunc("/shares/stats", shareHandler.GetStats).Methods("GET")
	api.HandleFunc("/shares/received", shareHandler.GetReceived).Methods("GET")
	api.HandleFunc("/shares/history", shareHandler.GetHistory).Methods("GET")
	api.HandleFunc("/shares/{id}", shareHandler.GetSharedWorkout).Methods("GET")
	api.HandleFunc("/shares/{id}", shareHandler.DeleteSharedWorkout).Methods("DELETE")
	api.HandleFunc("/shares/{id}/import", shareHandler.ImportSharedWorkout).Methods("POST")
	api.HandleFunc("/shares/{id}/rate", shareHandler.RateSharedWorkout).Methods("POST")
	api.HandleFunc("/shares/{id}/like", shareHandler.LikeSharedWorkout).Methods("POST")

	api.HandleFunc("/profile", profileHandler.GetProfile).Methods("GET")
	api.HandleFunc("/profile", profileHandler.CreateProfile).Methods("POST")
	api.HandleFunc("/profile", profileHandler.UpdateProfile).Methods("PUT")
	api.HandleFunc("/profile/achievements", profileHandler.GetAchievements).Methods("GET")
	api.HandleFunc("/profile/achievements", profileHandler.UnlockAchievement).Methods("POST")
	api.HandleFunc("/profile/stats", profileHandler.GetStats).Methods("GET")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
