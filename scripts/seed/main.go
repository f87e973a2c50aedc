// Command seed imports fixture documents into the engagement database. Used
// for local development and demo environments.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	migratep "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jessevdk/go-flags"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/Jascfer/allonetoplulugu-sub000/internal/entities"
	"github.com/Jascfer/allonetoplulugu-sub000/internal/storage/postgres"
)

var opts = struct {
	Fixtures           string `long:"fixtures" env:"FIXTURES" default:"fixtures.json" description:"path to fixtures file"`
	Postgres           string `long:"postgres" env:"POSTGRES" default:"host=localhost port=5432 user=postgres password=root sslmode=disable" description:"postgres dsn"`
	PostgresMigrations string `long:"postgres.migrations" env:"POSTGRES_MIGRATIONS" default:"scripts/migrations/postgres" description:"postgres migrations directory"`
}{}

type fixtures struct {
	Posts    []*entities.Post    `json:"posts"`
	Profiles []*entities.Profile `json:"profiles"`
}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "seed"
	parser.LongDescription = "Fixtures to database importer"

	_, err := parser.Parse()

	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		logrus.WithError(err).Fatal("error occurred while parsing flags")
	}

	logrus.Info("seed started")
	logrus.Infof("%+v", opts)

	b, err := os.ReadFile(opts.Fixtures)
	if err != nil {
		logrus.WithError(err).Fatal("failed to read fixtures")
	}

	var f fixtures
	if err := json.Unmarshal(b, &f); err != nil {
		logrus.WithError(err).Fatal("failed to parse fixtures")
	}

	db, err := sql.Open("postgres", opts.Postgres)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create postgres connection")
	}

	driver, err := migratep.WithInstance(db, &migratep.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("failed to create database migrate driver")
	}

	migrator, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", opts.PostgresMigrations), "postgres", driver)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create migrator")
	}

	if err := migrator.Up(); err != nil && err != migrate.ErrNoChange {
		logrus.WithError(err).Fatal("failed to migrate db")
	}

	ctx := context.Background()
	s := postgres.New(db)

	for _, p := range f.Profiles {
		if err := s.SetProfile(ctx, p); err != nil {
			logrus.WithError(err).WithField("profile", p.ID).Fatal("failed to set profile")
		}
	}

	for _, p := range f.Posts {
		if err := s.CreatePost(ctx, p); err != nil {
			logrus.WithError(err).WithField("post", p.ID).Fatal("failed to create post")
		}
	}

	logrus.Infof("seeded %d profiles and %d posts", len(f.Profiles), len(f.Posts))
}
