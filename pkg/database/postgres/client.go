package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/external"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/rds/rdsutils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	_ "github.com/newrelic/go-agent/v3/integrations/nrpgx"
)

const (
	driverName = "nrpgx"

	defaultPingTimeout = 10 * time.Second
)

type Config struct {
	User     string
	Host     string
	Password string
	Port     int
	DbName   string

	// UseAwsIam generates a short-lived RDS auth token instead of using
	// Password. Only provisioned Aurora clusters support it.
	UseAwsIam bool

	MaxOpenConnections int
	MaxIdleConnections int
}

func (c *Config) Validate() error {
	if len(c.User) == 0 {
		return errors.New("user is required")
	}
	if len(c.Host) == 0 {
		return errors.New("host is required")
	}
	if c.Port <= 0 {
		return errors.New("port must be positive")
	}
	if len(c.DbName) == 0 {
		return errors.New("database name is required")
	}
	if !c.UseAwsIam && len(c.Password) == 0 {
		return errors.New("password is required")
	}
	return nil
}

// Open returns a connection pool configured with the pool limits in c.
func Open(ctx context.Context, c *Config) (*sql.DB, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	log := logrus.StandardLogger().WithFields(logrus.Fields{
		"type": "database/postgres",
		"host": c.Host,
		"db":   c.DbName,
		"iam":  c.UseAwsIam,
	})

	var db *sql.DB
	var err error
	port := fmt.Sprintf("%d", c.Port)
	if c.UseAwsIam {
		var awsConfig aws.Config
		awsConfig, err = external.LoadDefaultAWSConfig()
		if err != nil {
			return nil, errors.Wrap(err, "error loading aws config")
		}
		db, err = NewWithAwsIam(ctx, c.User, c.Host, port, c.DbName, awsConfig)
	} else {
		db, err = NewWithUsernameAndPassword(ctx, c.User, c.Password, c.Host, port, c.DbName)
	}
	if err != nil {
		log.WithError(err).Warn("failure connecting to database")
		return nil, err
	}

	if c.MaxOpenConnections > 0 {
		db.SetMaxOpenConns(c.MaxOpenConnections)
	}
	if c.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(c.MaxIdleConnections)
	}

	log.Debug("connected to database")
	return db, nil
}

// NewWithAwsIam gets a DB connection pool using AWS IAM credentials.
//
// https://docs.aws.amazon.com/AmazonRDS/latest/AuroraUserGuide/UsingWithRDS.IAMDBAuth.Connecting.Go.html
func NewWithAwsIam(ctx context.Context, username, hostname, port, dbname string, config aws.Config) (*sql.DB, error) {
	rdsClient := rds.New(config)

	endpoint := fmt.Sprintf("%s:%s", hostname, port)
	authToken, err := rdsutils.BuildAuthToken(endpoint, rdsClient.Region, username, rdsClient.Credentials)
	if err != nil {
		return nil, errors.Wrap(err, "error building rds auth token")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
		hostname, port, username, authToken, dbname,
	)
	return openAndPing(ctx, dsn)
}

// NewWithUsernameAndPassword gets a DB connection pool using username/password
// credentials.
func NewWithUsernameAndPassword(ctx context.Context, username, password, hostname, port, dbname string) (*sql.DB, error) {
	// TODO: enable SSL once the ledger database cert is distributed with deployments
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		username, password, hostname, port, dbname,
	)
	return openAndPing(ctx, dsn)
}

func openAndPing(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "error pinging database")
	}
	return db, nil
}
