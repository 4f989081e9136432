package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS orders (
	id          UUID PRIMARY KEY,
	user_id     UUID NOT NULL REFERENCES users (id),
	amount_paid NUMERIC(12, 2) NOT NULL,
	quantity    INTEGER NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS order_items (
	id         UUID PRIMARY KEY,
	order_id   UUID NOT NULL REFERENCES orders (id),
	position   INTEGER NOT NULL,
	product_id BIGINT NOT NULL,
	quantity   INTEGER NOT NULL CHECK (quantity >= 1),
	price      NUMERIC(12, 2) NOT NULL
);

CREATE TABLE IF NOT EXISTS receipts (
	id          UUID PRIMARY KEY,
	order_id    UUID NOT NULL UNIQUE REFERENCES orders (id),
	user_id     UUID NOT NULL REFERENCES users (id),
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders (user_id);
CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items (order_id);
`

// Migrate applies the schema. Statements are idempotent, so it is safe to run
// on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
