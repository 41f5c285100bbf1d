package main

import (
	"context"
	"fmt"
	"log"
	"os"

	echoweb "github.com/trezcool/findtutor/apps/web/echo"
	"github.com/trezcool/findtutor/core"
	"github.com/trezcool/findtutor/core/classes"
	"github.com/trezcool/findtutor/core/post"
	"github.com/trezcool/findtutor/core/profile"
	"github.com/trezcool/findtutor/core/request"
	"github.com/trezcool/findtutor/core/search"
	"github.com/trezcool/findtutor/core/user"
	emailsvc "github.com/trezcool/findtutor/services/email"
	logsvc "github.com/trezcool/findtutor/services/logger"
	"github.com/trezcool/findtutor/storage/apiclient"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.Conf

	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewZapLogger(conf)
	} else {
		logger = logsvc.NewRollbarLogger(
			log.New(os.Stdout, "WEB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
			conf,
		)
	}

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	// all durable state lives behind the remote API
	client := apiclient.NewClient(conf)
	profileRepo := apiclient.NewProfileRepository(client)

	usrSvc := user.NewService(apiclient.NewUserRepository(client))
	profileSvc := profile.NewService(profileRepo)
	searchSvc := search.NewService(profileRepo, conf.Search.RefreshInterval)
	requestSvc := request.NewService(apiclient.NewRequestRepository(client), profileSvc, mailSvc, logger)
	classSvc := classes.NewService(apiclient.NewClassRepository(client))
	postSvc := post.NewService(apiclient.NewPostRepository(client), requestSvc)

	// a profile mutation makes the teacher snapshot stale too
	profileSvc.OnInvalidate(searchSvc.Invalidate)

	// =========================================================================
	// Start Web Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoweb.NewServer(
		echoweb.ServerDeps{
			Conf:         conf,
			Logger:       logger,
			SessionStore: echoweb.NewSessionStore(conf),
			UserSvc:      usrSvc,
			ProfileSvc:   profileSvc,
			RequestSvc:   requestSvc,
			ClassSvc:     classSvc,
			PostSvc:      postSvc,
			SearchSvc:    searchSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
