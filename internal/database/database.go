package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
)

// Schema is the minimal table layout the repos expect. Applied by the
// simulator and the integration tests; production deployments manage it
// through their own migration tooling.
const Schema = `
CREATE TABLE IF NOT EXISTS orders (
	id         UUID PRIMARY KEY,
	number     TEXT NOT NULL UNIQUE,
	reference  TEXT NOT NULL DEFAULT '',
	amount     DOUBLE PRECISION NOT NULL,
	status     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS payments (
	id                   UUID PRIMARY KEY,
	order_id             UUID NOT NULL REFERENCES orders (id),
	amount               DOUBLE PRECISION NOT NULL,
	method_code          TEXT NOT NULL,
	state                TEXT NOT NULL,
	external_transaction TEXT NOT NULL DEFAULT '',
	correlation_token    TEXT NOT NULL DEFAULT '',
	audit_log            TEXT NOT NULL DEFAULT '',
	created_at           TIMESTAMPTZ NOT NULL,
	updated_at           TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS payments_external_transaction_idx
	ON payments (external_transaction) WHERE external_transaction <> '';
`

func NewPostgres() *sql.DB {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("SOFORT_DB_USERNAME"),
		os.Getenv("SOFORT_DB_PASSWORD"),
		os.Getenv("SOFORT_DB_HOST"),
		os.Getenv("SOFORT_DB_PORT"),
		os.Getenv("SOFORT_DB_DATABASE"),
	)

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		log.Fatal(err)
	}

	return db
}
