package test

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	_ "github.com/jackc/pgx/v4/stdlib" //nolint:revive

	"github.com/code-payments/decense/pkg/retry"
	"github.com/code-payments/decense/pkg/retry/backoff"
)

const (
	containerName     = "postgres"
	containerVersion  = "16-alpine"
	containerAutoKill = 120 * time.Second

	port     = 5432
	user     = "localtest"
	password = "localpassword"
	dbname   = "testdb"

	maxConnectAttempts = 60
	connectInterval    = 500 * time.Millisecond
)

// StartPostgresDB starts a disposable postgres container and returns a client
// connected to it. The setup statements, typically table definitions, are run
// once the database accepts connections. closeFunc removes the container.
func StartPostgresDB(pool *dockertest.Pool, setup ...string) (db *sql.DB, closeFunc func(), err error) {
	closeFunc = func() {}

	log := logrus.StandardLogger().WithField("type", "database/postgres/test")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: containerName,
		Tag:        containerVersion,
		Env: []string{
			"POSTGRES_USER=" + user,
			"POSTGRES_PASSWORD=" + password,
			"POSTGRES_DB=" + dbname,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, closeFunc, errors.Wrap(err, "failed to start postgres container")
	}

	closeFunc = func() {
		if db != nil {
			db.Close()
		}
		if err := pool.Purge(resource); err != nil {
			log.WithError(err).Warn("failure purging postgres container")
		}
	}

	// Expire never returns an error. It guards against containers leaking when
	// a test binary is killed before closeFunc runs.
	_ = resource.Expire(uint(containerAutoKill.Seconds()))

	databaseUrl := fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=disable",
		user,
		password,
		resource.GetHostPort(fmt.Sprintf("%d/tcp", port)),
		dbname,
	)

	_, err = retry.Retry(
		func() error {
			if db == nil {
				db, err = sql.Open("pgx", databaseUrl)
				if err != nil {
					return err
				}
			}
			return db.Ping()
		},
		retry.Limit(maxConnectAttempts),
		retry.Backoff(backoff.Constant(connectInterval), connectInterval),
	)
	if err != nil {
		closeFunc()
		return nil, func() {}, errors.Wrap(err, "timed out waiting for postgres container to become available")
	}

	for _, statement := range setup {
		if _, err := db.Exec(statement); err != nil {
			closeFunc()
			return nil, func() {}, errors.Wrap(err, "failed to run setup statement")
		}
	}

	return db, closeFunc, nil
}
