package ledger

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/code-payments/decense/pkg/app"
	pg "github.com/code-payments/decense/pkg/database/postgres"
)

const (
	// StdinTransactions reads transactions from standard input.
	StdinTransactions = "-"

	defaultWorkers   = 16
	defaultQueueSize = 1024
)

// Config is the ledger section of the app config.
type Config struct {
	// Genesis is an optional file URL of the genesis account balances.
	Genesis string `mapstructure:"genesis"`

	// Transactions is the file URL of base58 encoded transactions, one per
	// line.
	Transactions string `mapstructure:"transactions"`

	Workers   uint `mapstructure:"workers"`
	QueueSize uint `mapstructure:"queue_size"`

	Postgres *PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	User               string `mapstructure:"user"`
	Host               string `mapstructure:"host"`
	Password           string `mapstructure:"password"`
	Port               int    `mapstructure:"port"`
	DbName             string `mapstructure:"db_name"`
	UseAwsIam          bool   `mapstructure:"use_aws_iam"`
	MaxOpenConnections int    `mapstructure:"max_open_connections"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections"`
}

func (c *PostgresConfig) toClientConfig() *pg.Config {
	if c == nil {
		return nil
	}

	return &pg.Config{
		User:               c.User,
		Host:               c.Host,
		Password:           c.Password,
		Port:               c.Port,
		DbName:             c.DbName,
		UseAwsIam:          c.UseAwsIam,
		MaxOpenConnections: c.MaxOpenConnections,
		MaxIdleConnections: c.MaxIdleConnections,
	}
}

func decodeConfig(raw app.Config) (*Config, error) {
	config := Config{
		Transactions: StdinTransactions,
		Workers:      defaultWorkers,
		QueueSize:    defaultQueueSize,
	}

	if err := mapstructure.Decode(map[string]interface{}(raw), &config); err != nil {
		return nil, errors.Wrap(err, "invalid ledger config")
	}

	if config.Workers == 0 {
		return nil, errors.New("workers must be positive")
	}
	if config.QueueSize == 0 {
		return nil, errors.New("queue size must be positive")
	}
	if len(config.Transactions) == 0 {
		return nil, errors.New("transactions source is required")
	}
	return &config, nil
}
