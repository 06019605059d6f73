package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/eduverse/lms/apps/api/echo"
	"github.com/eduverse/lms/core"
	"github.com/eduverse/lms/core/analytics"
	"github.com/eduverse/lms/core/assignment"
	"github.com/eduverse/lms/core/course"
	"github.com/eduverse/lms/core/live"
	"github.com/eduverse/lms/core/school"
	"github.com/eduverse/lms/core/user"
	emailsvc "github.com/eduverse/lms/services/email"
	logsvc "github.com/eduverse/lms/services/logger"
	"github.com/eduverse/lms/storage/blob"
	"github.com/eduverse/lms/storage/database"
	dummydb "github.com/eduverse/lms/storage/database/dummy"
	sqlxrepos "github.com/eduverse/lms/storage/database/sqlx"
	"github.com/eduverse/lms/storage/roster"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	ctx := context.Background()

	// set up repos; DEV mode runs entirely off the seeded in-memory store
	var (
		usrRepo  user.Repository
		schRepo  school.Repository
		crsRepo  course.Repository
		asgRepo  assignment.Repository
		liveRepo live.Repository
	)
	if conf.Debug {
		db, err := dummydb.Open()
		if err != nil {
			logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
		}
		if err = dummydb.Seed(ctx, db); err != nil {
			logger.Fatal(fmt.Sprintf("seeding database: %v", err), err)
		}
		usrRepo = dummydb.NewUserRepository(db)
		schRepo = dummydb.NewSchoolRepository(db)
		crsRepo = dummydb.NewCourseRepository(db)
		asgRepo = dummydb.NewAssignmentRepository(db)
		liveRepo = dummydb.NewLiveRepository(db)
	} else {
		db, err := setUpDB(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err = db.Close(); err != nil {
				logger.Error("closing database", err)
			}
		}()
		usrRepo = sqlxrepos.NewUserRepository(db)
		schRepo = sqlxrepos.NewSchoolRepository(db)

		// course, assignment and live data stay in memory until their schemas land
		mem, err := dummydb.Open()
		if err != nil {
			logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
		}
		crsRepo = dummydb.NewCourseRepository(mem)
		asgRepo = dummydb.NewAssignmentRepository(mem)
		liveRepo = dummydb.NewLiveRepository(mem)
	}

	// set up blob store
	var blobStore core.BlobStore
	if conf.Debug || conf.Minio.Endpoint == "" {
		blobStore = blob.NewLocalStore("var/blobs")
	} else {
		var err error
		if blobStore, err = blob.NewMinioStore(ctx, conf); err != nil {
			logger.Fatal(fmt.Sprintf("setting up object storage: %v", err), err)
		}
	}

	// set up roster store
	var rosterStore live.RosterStore
	if conf.Debug || conf.Redis.Addr == "" {
		rosterStore = roster.NewMemoryStore()
	} else {
		var err error
		if rosterStore, err = roster.NewRedisStore(ctx, conf); err != nil {
			logger.Fatal(fmt.Sprintf("setting up roster store: %v", err), err)
		}
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	usrSvc := user.NewService(conf, usrRepo, mailSvc)
	schSvc := school.NewService(schRepo)
	crsSvc := course.NewService(crsRepo)
	asgSvc := assignment.NewService(conf, asgRepo, blobStore, logger)
	liveSvc := live.NewService(liveRepo, rosterStore, logger)
	statsSvc := analytics.NewService(usrSvc, schSvc, crsSvc, asgSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			Validate:      validate,
			Translator:    translator,
			UserSvc:       usrSvc,
			SchoolSvc:     schSvc,
			CourseSvc:     crsSvc,
			AssignmentSvc: asgSvc,
			LiveSvc:       liveSvc,
			AnalyticsSvc:  statsSvc,
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

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
