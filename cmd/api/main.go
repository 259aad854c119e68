package main

import (
	"context"
	"log"
	"time"

	config "github.com/clubsplusplus/club_recruitment/configs"
	"github.com/clubsplusplus/club_recruitment/database"
	"github.com/clubsplusplus/club_recruitment/handlers"
	"github.com/clubsplusplus/club_recruitment/jobs"
	"github.com/clubsplusplus/club_recruitment/notifications"
	"github.com/clubsplusplus/club_recruitment/routes"
	"github.com/clubsplusplus/club_recruitment/services"
	"github.com/clubsplusplus/club_recruitment/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("🔥 Failed to load configuration: %v", err)
	}
	if settings.JWTSecret == "" {
		log.Fatal("🔥 JWT_SECRET is not set")
	}

	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		log.Printf("⚠️ Unknown timezone %q, falling back to UTC", settings.Timezone)
		loc = time.UTC
	}

	db, err := database.ConnectDB(settings)
	if err != nil {
		log.Fatalf("🔥 %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("🔥 %v", err)
	}
	if err := database.SeedClub(db, settings); err != nil {
		log.Printf("⚠️ %v", err)
	}

	var mailer notifications.Sender
	if svc := notifications.NewEmailService(settings.Mail); svc != nil {
		mailer = svc
	}

	scheduler := services.NewScheduler(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := websocket.NewHub(scheduler.Directory)
	go hub.Run(ctx)

	reminders := jobs.NewReminderJob(db, mailer, loc, time.Duration(settings.Scheduling.ReminderLeadMinutes)*time.Minute)
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(jobs.ReminderSpec, reminders.SendInterviewReminders); err != nil {
		log.Fatalf("🔥 Failed to schedule reminder job: %v", err)
	}
	c.Start()
	defer c.Stop()
	log.Println("✅ Cron job for interview reminders scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:       false,
		AppName:       "Clubs Plus Plus Recruitment",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler:  handlers.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Disposition",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   settings.Timezone,
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.PublicRoutes(app)
	routes.InterviewRoutes(app, &handlers.InterviewHandler{
		Scheduler: scheduler,
		Store:     scheduler.Store,
		Mailer:    mailer,
		Events:    hub,
		Location:  loc,
		Limits:    settings.Scheduling,
	}, settings)
	routes.CalendarRoutes(app,
		&handlers.CalendarHandler{DB: db, Directory: scheduler.Directory, Location: loc},
		&handlers.CalendarStreamHandler{Hub: hub},
		settings,
	)

	log.Printf("✅ Server is running on port %s", settings.Port)
	if err := app.Listen(":" + settings.Port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
