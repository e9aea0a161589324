package repo

// The full idempotent DDL, one statement per entry so a failure names the
// statement that broke. Lookup tables key on a folded natural text (or code
// for compound lookups); fact tables cascade-delete from movement downward.

var ddlStatements = []string{
	`CREATE SCHEMA IF NOT EXISTS lookup`,
	`CREATE SCHEMA IF NOT EXISTS fact`,

	// simple lookups: surrogate id + unique (case-insensitive) text
	`CREATE TABLE IF NOT EXISTS lookup.movement_type (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS movement_type_value_key ON lookup.movement_type (lower(value))`,
	`CREATE TABLE IF NOT EXISTS lookup.status (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS status_value_key ON lookup.status (lower(value))`,
	`CREATE TABLE IF NOT EXISTS lookup.banner (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS banner_value_key ON lookup.banner (lower(value))`,
	`CREATE TABLE IF NOT EXISTS lookup.role (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS role_value_key ON lookup.role (lower(value))`,
	`CREATE TABLE IF NOT EXISTS lookup.employee_group (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS employee_group_value_key ON lookup.employee_group (lower(value))`,
	`CREATE TABLE IF NOT EXISTS lookup.employee_subgroup (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS employee_subgroup_value_key ON lookup.employee_subgroup (lower(value))`,
	`CREATE TABLE IF NOT EXISTS lookup.business_group (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS business_group_value_key ON lookup.business_group (lower(value))`,
	`CREATE TABLE IF NOT EXISTS lookup.mutual_flag (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS mutual_flag_value_key ON lookup.mutual_flag (lower(value))`,
	`CREATE TABLE IF NOT EXISTS lookup.break_type (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS break_type_value_key ON lookup.break_type (lower(value))`,
	`CREATE TABLE IF NOT EXISTS lookup.event_type (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS event_type_value_key ON lookup.event_type (lower(value))`,

	// compound lookups: natural code + display name
	`CREATE TABLE IF NOT EXISTS lookup.brand (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		code TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS brand_code_key ON lookup.brand (lower(code))`,
	`CREATE TABLE IF NOT EXISTS lookup.department (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		code TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS department_code_key ON lookup.department (lower(code))`,
	`CREATE TABLE IF NOT EXISTS lookup.cost_centre (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		code TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		formatted_address TEXT,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS cost_centre_code_key ON lookup.cost_centre (lower(code))`,

	// fact tables
	`CREATE TABLE IF NOT EXISTS fact.movement (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		movement_id TEXT NOT NULL UNIQUE,
		employee_id TEXT NOT NULL DEFAULT '',
		movement_type_id BIGINT NOT NULL REFERENCES lookup.movement_type(id),
		status_id BIGINT NOT NULL REFERENCES lookup.status(id),
		start_date TIMESTAMPTZ,
		end_date TIMESTAMPTZ,
		workflow_step TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL DEFAULT '',
		created_date TIMESTAMPTZ,
		last_modified_date TIMESTAMPTZ,
		approved_by TEXT NOT NULL DEFAULT '',
		approved_date TIMESTAMPTZ,
		imported_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS fact.participant (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		movement_fk BIGINT NOT NULL REFERENCES fact.movement(id) ON DELETE CASCADE,
		role_id BIGINT NOT NULL REFERENCES lookup.role(id),
		name TEXT NOT NULL DEFAULT '',
		employee_id TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		banner_id BIGINT REFERENCES lookup.banner(id),
		department_id BIGINT REFERENCES lookup.department(id),
		cost_centre_id BIGINT REFERENCES lookup.cost_centre(id)
	)`,
	`CREATE TABLE IF NOT EXISTS fact.job_info (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		movement_fk BIGINT NOT NULL REFERENCES fact.movement(id) ON DELETE CASCADE,
		is_current BOOLEAN NOT NULL,
		employee_group_id BIGINT REFERENCES lookup.employee_group(id),
		employee_subgroup_id BIGINT REFERENCES lookup.employee_subgroup(id),
		banner_id BIGINT REFERENCES lookup.banner(id),
		brand_id BIGINT REFERENCES lookup.brand(id),
		business_group_id BIGINT REFERENCES lookup.business_group(id),
		department_id BIGINT REFERENCES lookup.department(id),
		cost_centre_id BIGINT REFERENCES lookup.cost_centre(id),
		position_title TEXT NOT NULL DEFAULT '',
		position_grade TEXT NOT NULL DEFAULT '',
		manager_name TEXT NOT NULL DEFAULT '',
		manager_employee_id TEXT NOT NULL DEFAULT '',
		manager_cost_centre_id BIGINT REFERENCES lookup.cost_centre(id),
		working_days_per_week NUMERIC,
		hours_per_week NUMERIC,
		base_salary NUMERIC,
		hourly_rate NUMERIC,
		effective_date TIMESTAMPTZ,
		UNIQUE (movement_fk, is_current)
	)`,
	`CREATE TABLE IF NOT EXISTS fact.contract (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		movement_fk BIGINT NOT NULL REFERENCES fact.movement(id) ON DELETE CASCADE,
		is_current BOOLEAN NOT NULL,
		working_days_per_week NUMERIC,
		hours_per_week NUMERIC,
		UNIQUE (movement_fk, is_current)
	)`,
	`CREATE TABLE IF NOT EXISTS fact.contract_week (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		contract_fk BIGINT NOT NULL REFERENCES fact.contract(id) ON DELETE CASCADE,
		week_index INT NOT NULL,
		week_number INT,
		UNIQUE (contract_fk, week_index)
	)`,
	`CREATE TABLE IF NOT EXISTS fact.daily_schedule (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		week_fk BIGINT NOT NULL REFERENCES fact.contract_week(id) ON DELETE CASCADE,
		day_code TEXT NOT NULL,
		start_seconds INT,
		end_seconds INT,
		UNIQUE (week_fk, day_code)
	)`,
	`CREATE TABLE IF NOT EXISTS fact.schedule_break (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		schedule_fk BIGINT NOT NULL REFERENCES fact.daily_schedule(id) ON DELETE CASCADE,
		break_type_id BIGINT NOT NULL REFERENCES lookup.break_type(id),
		duration_minutes NUMERIC,
		start_seconds INT
	)`,
	`CREATE TABLE IF NOT EXISTS fact.contract_mutual_flag (
		contract_fk BIGINT NOT NULL REFERENCES fact.contract(id) ON DELETE CASCADE,
		mutual_flag_id BIGINT NOT NULL REFERENCES lookup.mutual_flag(id),
		PRIMARY KEY (contract_fk, mutual_flag_id)
	)`,
	`CREATE TABLE IF NOT EXISTS fact.history_event (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		movement_fk BIGINT NOT NULL REFERENCES fact.movement(id) ON DELETE CASCADE,
		event_index INT NOT NULL,
		event_type_id BIGINT NOT NULL REFERENCES lookup.event_type(id),
		actor TEXT NOT NULL DEFAULT '',
		event_time TIMESTAMPTZ,
		notes TEXT NOT NULL DEFAULT '',
		payload JSONB NOT NULL DEFAULT '{}'::jsonb,
		UNIQUE (movement_fk, event_index)
	)`,
	`CREATE TABLE IF NOT EXISTS fact.tag (
		movement_fk BIGINT NOT NULL REFERENCES fact.movement(id) ON DELETE CASCADE,
		value TEXT NOT NULL,
		PRIMARY KEY (movement_fk, value)
	)`,

	// join and filter predicates
	`CREATE INDEX IF NOT EXISTS movement_employee_idx ON fact.movement (employee_id)`,
	`CREATE INDEX IF NOT EXISTS movement_status_idx ON fact.movement (status_id)`,
	`CREATE INDEX IF NOT EXISTS movement_type_idx ON fact.movement (movement_type_id)`,
	`CREATE INDEX IF NOT EXISTS movement_start_idx ON fact.movement (start_date)`,
	`CREATE INDEX IF NOT EXISTS participant_movement_idx ON fact.participant (movement_fk)`,
	`CREATE INDEX IF NOT EXISTS history_event_movement_idx ON fact.history_event (movement_fk)`,
}
