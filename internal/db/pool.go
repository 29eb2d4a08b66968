package db

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NewPoolParams struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	TracingEnabled bool
}

// NewPool builds the pgx pool backing the progression store. The
// password comes from the environment and may be empty for local
// trust-auth setups; the user defaults to postgres.
func NewPool(ctx context.Context, params NewPoolParams) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connString(params))
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	if params.TracingEnabled {
		poolConfig.ConnConfig.Tracer = otelpgx.NewTracer()
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	return pool, nil
}

func connString(params NewPoolParams) string {
	user := params.User
	if user == "" {
		user = "postgres"
	}

	connURL := url.URL{
		Scheme: "postgres",
		User:   url.User(user),
		Host:   net.JoinHostPort(params.Host, params.Port),
		Path:   "/" + params.DBName,
	}
	if params.Password != "" {
		connURL.User = url.UserPassword(user, params.Password)
	}
	return connURL.String()
}
