package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/recruitops/interview-booking/internal/config"
	"github.com/recruitops/interview-booking/internal/database"
	"github.com/recruitops/interview-booking/internal/handler"
	"github.com/recruitops/interview-booking/internal/queue"
	"github.com/recruitops/interview-booking/internal/repository"
	"github.com/recruitops/interview-booking/internal/router"
)

func main() {
	// Load .env when present; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the public rate limiter; nil means limiting is skipped.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, public rate limiting disabled")
	}
	rlCfg := config.LoadRateLimitConfig()

	users := repository.NewUserRepo(db)
	requests := repository.NewBookingRequestRepo(db)
	submissions := repository.NewSubmissionRepo(db)
	links := repository.NewBookingLinkRepo(db)
	invitations := repository.NewInvitationRepo(db)
	bookings := repository.NewStudentBookingRepo(db)

	auth := handler.NewAuthHandler(&cfg, users)
	adminReq := handler.NewAdminRequestHandler(requests, submissions, users)
	adminPool := handler.NewAdminPoolHandler(&cfg, submissions, links, invitations, bookings, users)
	interviewer := handler.NewInterviewerHandler(requests, submissions)
	public := handler.NewPublicHandler(links, invitations, bookings, users)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterAdmin(e, adminReq, adminPool, cfg.JWTSecret)
	router.RegisterInterviewer(e, interviewer, cfg.JWTSecret)
	router.RegisterPublic(e, public, rlCfg, rdb)

	// The mail consumer reconnects on its own; run it for the lifetime of
	// the process.
	go func() {
		if err := queue.StartMailConsumer(); err != nil {
			log.Printf("mail consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
