// Command seed creates the WFH portal schema and loads a small demo
// directory so the API can be exercised locally. Safe to re-run: the schema
// uses IF NOT EXISTS and employees are upserted by email.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/wfh-portal-api/pkg/config"
	"github.com/noah-isme/wfh-portal-api/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS employees (
    staff_id      BIGSERIAL PRIMARY KEY,
    first_name    TEXT        NOT NULL,
    last_name     TEXT        NOT NULL,
    email         TEXT        NOT NULL UNIQUE,
    department    TEXT        NOT NULL,
    position      TEXT        NOT NULL,
    role          SMALLINT    NOT NULL,
    manager_id    BIGINT      REFERENCES employees(staff_id),
    password_hash TEXT        NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS requests (
    request_id           BIGSERIAL PRIMARY KEY,
    staff_id             BIGINT      NOT NULL REFERENCES employees(staff_id),
    staff_name           TEXT        NOT NULL,
    manager_id           BIGINT      NOT NULL,
    manager_name         TEXT        NOT NULL,
    department           TEXT        NOT NULL,
    position             TEXT        NOT NULL,
    requested_date       DATE        NOT NULL,
    request_type         TEXT        NOT NULL,
    reason               TEXT        NOT NULL,
    decision_reason      TEXT,
    decided_by           BIGINT,
    initiated_withdrawal BOOLEAN     NOT NULL DEFAULT FALSE,
    status               TEXT        NOT NULL,
    created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_requests_staff ON requests (staff_id, requested_date);
CREATE INDEX IF NOT EXISTS idx_requests_manager_status ON requests (manager_id, status);

CREATE TABLE IF NOT EXISTS withdrawals (
    withdrawal_id   BIGSERIAL PRIMARY KEY,
    request_id      BIGINT      NOT NULL REFERENCES requests(request_id),
    staff_id        BIGINT      NOT NULL REFERENCES employees(staff_id),
    staff_name      TEXT        NOT NULL,
    manager_id      BIGINT      NOT NULL,
    manager_name    TEXT        NOT NULL,
    department      TEXT        NOT NULL,
    position        TEXT        NOT NULL,
    requested_date  DATE        NOT NULL,
    request_type    TEXT        NOT NULL,
    reason          TEXT        NOT NULL,
    decision_reason TEXT,
    status          TEXT        NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_withdrawals_request ON withdrawals (request_id, status);

CREATE TABLE IF NOT EXISTS reassignments (
    reassignment_id   BIGSERIAL PRIMARY KEY,
    staff_id          BIGINT      NOT NULL REFERENCES employees(staff_id),
    staff_name        TEXT        NOT NULL,
    department        TEXT        NOT NULL,
    temp_manager_id   BIGINT      NOT NULL REFERENCES employees(staff_id),
    temp_manager_name TEXT        NOT NULL,
    start_date        DATE        NOT NULL,
    end_date          DATE        NOT NULL,
    status            TEXT        NOT NULL,
    active            BOOLEAN,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_reassignments_window ON reassignments (status, start_date, end_date);

CREATE TABLE IF NOT EXISTS action_logs (
    log_id       BIGSERIAL PRIMARY KEY,
    performed_by BIGINT      NOT NULL,
    kind         TEXT        NOT NULL,
    action       TEXT        NOT NULL,
    request_id   BIGINT,
    staff_name   TEXT        NOT NULL,
    manager_id   BIGINT,
    manager_name TEXT,
    department   TEXT        NOT NULL,
    position     TEXT        NOT NULL,
    reason       TEXT,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_action_logs_created ON action_logs (created_at DESC);
`

type seedEmployee struct {
	firstName  string
	lastName   string
	email      string
	department string
	position   string
	role       int
	managerRef string
}

var seedEmployees = []seedEmployee{
	{"Rachel", "Tan", "rachel.tan@example.com", "HR", "HR Director", 1, ""},
	{"Jack", "Sim", "jack.sim@example.com", "Sales", "Sales Director", 3, ""},
	{"Mary", "Teo", "mary.teo@example.com", "Sales", "Sales Manager", 3, "jack.sim@example.com"},
	{"Jaclyn", "Lee", "jaclyn.lee@example.com", "Sales", "Account Manager", 2, "jack.sim@example.com"},
	{"Devan", "Koh", "devan.koh@example.com", "Sales", "Account Manager", 2, "jack.sim@example.com"},
	{"Priya", "Nair", "priya.nair@example.com", "Engineering", "Engineering Manager", 3, ""},
	{"Wei Ming", "Ong", "weiming.ong@example.com", "Engineering", "Software Engineer", 2, "priya.nair@example.com"},
}

func main() {
	var password string
	flag.StringVar(&password, "password", "changeme", "password assigned to every seeded account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		log.Fatalf("failed to create schema: %v", err)
	}
	log.Println("schema ready")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	if err := upsertEmployees(ctx, db, string(hash)); err != nil {
		log.Fatalf("failed to seed employees: %v", err)
	}
	log.Printf("seeded %d employees", len(seedEmployees))
}

func upsertEmployees(ctx context.Context, db *sqlx.DB, hash string) error {
	const upsert = `INSERT INTO employees (first_name, last_name, email, department, position, role, password_hash)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (email) DO UPDATE SET
            first_name = EXCLUDED.first_name,
            last_name = EXCLUDED.last_name,
            department = EXCLUDED.department,
            position = EXCLUDED.position,
            role = EXCLUDED.role,
            updated_at = now()
        RETURNING staff_id`

	ids := make(map[string]int64, len(seedEmployees))
	for _, e := range seedEmployees {
		var id int64
		if err := db.GetContext(ctx, &id, upsert,
			e.firstName, e.lastName, e.email, e.department, e.position, e.role, hash); err != nil {
			return err
		}
		ids[e.email] = id
	}

	// Managers are linked in a second pass so ordering never matters.
	const link = `UPDATE employees SET manager_id = $1 WHERE email = $2`
	for _, e := range seedEmployees {
		if e.managerRef == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, link, ids[e.managerRef], e.email); err != nil {
			return err
		}
	}
	return nil
}
