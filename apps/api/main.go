package main

import (
	"log"
	"os"

	"github.com/escoladigital/secretaria/apps/api/echo"
	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/academics"
	"github.com/escoladigital/secretaria/core/calendar"
	"github.com/escoladigital/secretaria/core/conduct"
	"github.com/escoladigital/secretaria/core/facility"
	"github.com/escoladigital/secretaria/core/library"
	"github.com/escoladigital/secretaria/core/planner"
	"github.com/escoladigital/secretaria/core/roster"
	"github.com/escoladigital/secretaria/core/staff"
	"github.com/escoladigital/secretaria/core/user"
	emailsvc "github.com/escoladigital/secretaria/services/email"
	logsvc "github.com/escoladigital/secretaria/services/logger"
	"github.com/escoladigital/secretaria/storage/database"
	sqlxrepos "github.com/escoladigital/secretaria/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std, conf)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer db.Close()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrSvc := user.NewService(conf, sqlxrepos.NewUserRepository(db), mailSvc)
	rosterSvc := roster.NewService(sqlxrepos.NewRosterRepository(db), usrSvc)
	staffSvc := staff.NewService(sqlxrepos.NewStaffRepository(db), usrSvc)
	plannerSvc := planner.NewService(sqlxrepos.NewPlannerRepository(db), staffSvc)

	deps := &echoapi.Deps{
		UserSvc:      usrSvc,
		RosterSvc:    rosterSvc,
		StaffSvc:     staffSvc,
		FacilitySvc:  facility.NewService(sqlxrepos.NewFacilityRepository(db), staffSvc),
		LibrarySvc:   library.NewService(sqlxrepos.NewLibraryRepository(db), rosterSvc),
		ConductSvc:   conduct.NewService(sqlxrepos.NewConductRepository(db), rosterSvc),
		AcademicsSvc: academics.NewService(conf, sqlxrepos.NewAcademicsRepository(db), rosterSvc),
		PlannerSvc:   plannerSvc,
		CalendarSvc:  calendar.NewService(sqlxrepos.NewCalendarRepository(db)),
	}

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Conf:   conf,
			Logger: logger,
		},
		deps,
	)
	if err := app.Start(); err != nil {
		logger.Fatal("server stopped", err)
	}
}
