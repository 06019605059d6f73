package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/eduverse/lms/core"
	"github.com/eduverse/lms/core/session"
	"github.com/eduverse/lms/core/user"
	emailsvc "github.com/eduverse/lms/services/email"
	logsvc "github.com/eduverse/lms/services/logger"
	"github.com/eduverse/lms/storage/database"
	dummydb "github.com/eduverse/lms/storage/database/dummy"
	sqlxrepos "github.com/eduverse/lms/storage/database/sqlx"
)

var logger *logsvc.RollbarLogger

func main() {
	defer os.Exit(0)

	conf := core.NewConfig()
	logger = logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up repos; DEV mode runs off the seeded in-memory store
	var (
		db      *sql.DB
		usrRepo user.Repository
	)
	if conf.Debug {
		mem, err := dummydb.Open()
		errAndDie(err)
		errAndDie(dummydb.Seed(context.Background(), mem))
		usrRepo = dummydb.NewUserRepository(mem)
	} else {
		var err error
		db, err = database.Open(conf)
		errAndDie(err)
		defer func() { _ = db.Close() }()
		errAndDie(db.Ping())
		usrRepo = sqlxrepos.NewUserRepository(db)
	}

	usrSvc := user.NewService(conf, usrRepo, emailsvc.NewConsoleService(conf))
	sessionStore := session.NewStore(
		session.NewFileStorage(conf.SessionFile),
		session.NavigatorFunc(func(path string) { fmt.Printf("-> %s\n", path) }),
		usrSvc,
		logger,
	)

	// start CLI
	cli := commandLine{
		db:      db,
		usrRepo: usrRepo,
		usrSvc:  usrSvc,
		session: sessionStore,
		out:     os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %s", err), err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
