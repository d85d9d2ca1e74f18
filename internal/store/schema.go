/**
 * @description
 * Idempotent schema bootstrap for the remittance-service tables. Executed once at
 * startup so local and freshly provisioned environments come up without a
 * separate migration step.
 */

package store

import "context"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		date_of_birth TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		zipcode TEXT NOT NULL DEFAULT '',
		phone_number TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id UUID PRIMARY KEY REFERENCES users(id),
		gender TEXT NOT NULL DEFAULT '',
		occupation TEXT NOT NULL DEFAULT '',
		doc_type TEXT NOT NULL DEFAULT '',
		doc_number TEXT NOT NULL DEFAULT '',
		issuing_country TEXT NOT NULL DEFAULT '',
		expiration_date TEXT NOT NULL DEFAULT '',
		external_id TEXT NOT NULL DEFAULT '',
		data JSONB
	)`,
	`CREATE TABLE IF NOT EXISTS beneficiaries (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		nickname TEXT NOT NULL DEFAULT '',
		external_id TEXT NOT NULL DEFAULT '',
		data JSONB
	)`,
	`CREATE TABLE IF NOT EXISTS beneficiary_accounts (
		id UUID PRIMARY KEY,
		beneficiary_id UUID NOT NULL REFERENCES beneficiaries(id),
		external_id TEXT NOT NULL DEFAULT '',
		data JSONB
	)`,
	`CREATE TABLE IF NOT EXISTS payment_methods (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		token JSONB,
		data JSONB,
		type TEXT NOT NULL DEFAULT '',
		external_id TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS quotes (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		quote_id TEXT NOT NULL DEFAULT '',
		from_currency TEXT NOT NULL DEFAULT '',
		to_currency TEXT NOT NULL DEFAULT '',
		amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		data JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		external_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		currency TEXT NOT NULL DEFAULT '',
		recipient_name TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		data JSONB
	)`,
	`CREATE INDEX IF NOT EXISTS idx_beneficiaries_user_id ON beneficiaries(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_beneficiary_accounts_beneficiary_id ON beneficiary_accounts(beneficiary_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payment_methods_user_id ON payment_methods(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_quotes_user_id ON quotes(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_user_created ON transactions(user_id, created_at DESC)`,
}

// EnsureSchema creates the service tables when they do not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
