// Command migrate applies the database schema. It is idempotent and safe to
// run before every deploy.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/edi2410/algebra-radegast/pkg/config"
	"github.com/edi2410/algebra-radegast/pkg/database"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		full_name TEXT,
		role TEXT NOT NULL DEFAULT 'guest',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT users_email_key UNIQUE (email),
		CONSTRAINT users_role_check CHECK (role IN ('admin', 'teacher', 'guest'))
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL DEFAULT 'draft',
		start_date TIMESTAMPTZ,
		end_date TIMESTAMPTZ,
		owner_id BIGINT REFERENCES users (id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT courses_status_check CHECK (status IN ('draft', 'active', 'archived'))
	)`,
	`CREATE TABLE IF NOT EXISTS course_teachers (
		id BIGSERIAL PRIMARY KEY,
		course_id BIGINT NOT NULL REFERENCES courses (id) ON DELETE CASCADE,
		teacher_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		role TEXT NOT NULL DEFAULT 'ASSISTANT',
		assigned_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT course_teachers_course_id_teacher_id_key UNIQUE (course_id, teacher_id),
		CONSTRAINT course_teachers_role_check CHECK (role IN ('PRIMARY', 'ASSISTANT', 'GUEST'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_courses_owner_id ON courses (owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_course_teachers_teacher_id ON course_teachers (teacher_id)`,
}

func main() {
	timeout := flag.Duration("timeout", 30*time.Second, "overall migration timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}

	log.Printf("schema up to date (%d statements)", len(statements))
}
