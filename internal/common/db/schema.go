package db

import "context"

const schema = `
CREATE TABLE IF NOT EXISTS dishes (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	price       DOUBLE PRECISION NOT NULL,
	currency    TEXT NOT NULL DEFAULT 'UAH',
	description TEXT NOT NULL,
	category    TEXT NOT NULL,
	image_url   TEXT NOT NULL DEFAULT '',
	weight      TEXT NOT NULL DEFAULT '',
	is_new      BOOLEAN NOT NULL DEFAULT false,
	available   BOOLEAN NOT NULL DEFAULT true
);

CREATE TABLE IF NOT EXISTS menu_offers (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	price       DOUBLE PRECISION NOT NULL,
	currency    TEXT NOT NULL DEFAULT 'UAH',
	description TEXT NOT NULL,
	category    TEXT NOT NULL,
	image_url   TEXT NOT NULL DEFAULT '',
	weight      TEXT NOT NULL DEFAULT '',
	is_new      BOOLEAN NOT NULL DEFAULT false,
	available   BOOLEAN NOT NULL DEFAULT true,
	author      TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'pending',
	dish_id     TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS staff (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	role     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tables (
	id     TEXT PRIMARY KEY,
	number INTEGER NOT NULL UNIQUE,
	seats  INTEGER NOT NULL,
	status TEXT NOT NULL DEFAULT 'free'
);

CREATE TABLE IF NOT EXISTS orders (
	id           TEXT PRIMARY KEY,
	table_number INTEGER NOT NULL,
	waiter_id    TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'ordered',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS order_items (
	id       BIGSERIAL PRIMARY KEY,
	order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	name     TEXT NOT NULL,
	price    DOUBLE PRECISION NOT NULL,
	quantity INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS orders_table_status_idx ON orders (table_number, status, created_at DESC);
CREATE INDEX IF NOT EXISTS menu_offers_status_idx ON menu_offers (status);
CREATE INDEX IF NOT EXISTS menu_offers_author_idx ON menu_offers (author);
`

// EnsureSchema creates the tables on first start. Statements are
// idempotent, so running it on every boot is safe.
func (c *Conn) EnsureSchema(ctx context.Context) error {
	_, err := c.Exec(ctx, schema)
	return err
}
