package router

import (
	"github.com/peerpicks/peerpicks-api/internal/application"
	"github.com/peerpicks/peerpicks-api/internal/container"
	pginfra "github.com/peerpicks/peerpicks-api/internal/infrastructure/postgres"
	handlers "github.com/peerpicks/peerpicks-api/internal/interface/http"
	"github.com/peerpicks/peerpicks-api/internal/router/modules"
)

// InitModules builds the application services from the container singletons
// and registers every feature module with the router registry. Called once
// during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	repo := pginfra.NewUserRepository(container.GetPGPool())
	index := application.NewUserIndex(container.GetES(), cfg.ESUsersIndex, container.GetLogger())
	// A nil *RabbitPublisher must not end up as a non-nil interface value.
	var pub application.QueuePublisher
	if rp := container.GetRabbitPub(); rp != nil {
		pub = rp
	}
	mail := application.NewMailNotifier(
		pub,
		cfg.MailSendEnabled,
		cfg.ResetPasswordURL,
		cfg.CompanyName,
		cfg.AppName,
		cfg.SupportURL,
	)

	svc := application.NewService(
		repo,
		container.GetJWT(),
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetRedis(),
		container.GetLogger(),
		index,
		mail,
	)
	adminSvc := application.NewAdminService(svc)

	blogRepo := pginfra.NewBlogRepository(container.GetPGPool())
	blogSvc := application.NewBlogService(blogRepo, container.GetLogger())

	authHandler := handlers.NewAuthHandler(svc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	adminHandler := handlers.NewAdminHandler(adminSvc, container.GetLogger())
	blogHandler := handlers.NewBlogHandler(blogSvc, container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler, repo, container.GetJWT()))
	r.Add(modules.NewAdminModule(adminHandler, repo, container.GetJWT()))
	r.Add(modules.NewBlogModule(blogHandler, repo, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
