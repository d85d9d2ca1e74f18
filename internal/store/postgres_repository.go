/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository` interface.
 * It contains all the SQL queries for the users, profiles, beneficiaries,
 * beneficiary_accounts, payment_methods, quotes, and transactions tables.
 *
 * @dependencies
 * - context, errors: Standard Go libraries.
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/inyo-global/remittance-sample/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound               = errors.New("user not found")
	ErrEmailTaken                 = errors.New("email already registered")
	ErrProfileNotFound            = errors.New("profile not found")
	ErrBeneficiaryNotFound        = errors.New("beneficiary not found")
	ErrBeneficiaryAccountNotFound = errors.New("beneficiary account not found")
	ErrPaymentMethodNotFound      = errors.New("payment method not found")
	ErrQuoteNotFound              = errors.New("quote not found")
	ErrTransactionNotFound        = errors.New("transaction not found")
)

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateUser inserts a new account row. A duplicate email is reported as ErrEmailTaken.
func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, email, password, first_name, last_name, date_of_birth, address, city, state, zipcode, phone_number)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.Password, user.FirstName, user.LastName,
		user.DateOfBirth, user.Address, user.City, user.State, user.Zipcode, user.PhoneNumber)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

const userColumns = `id, email, password, first_name, last_name, date_of_birth, address, city, state, zipcode, phone_number, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName,
		&user.DateOfBirth, &user.Address, &user.City, &user.State, &user.Zipcode,
		&user.PhoneNumber, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByEmail retrieves a user by their login email.
func (r *PostgresRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(btrim(email)) = lower(btrim($1))`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// FindUserByID retrieves a user by their id.
func (r *PostgresRepository) FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, userID))
}

// UpdateUserPassword replaces the stored credential, used by the one-time
// plaintext-to-hash upgrade on login.
func (r *PostgresRepository) UpdateUserPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password = $1 WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateUserPhoneNumber stores the phone number collected during profile completion.
func (r *PostgresRepository) UpdateUserPhoneNumber(ctx context.Context, userID uuid.UUID, phoneNumber string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET phone_number = $1 WHERE id = $2`, phoneNumber, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// FindProfileByUserID retrieves the identity profile for a user.
func (r *PostgresRepository) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `SELECT user_id, gender, occupation, doc_type, doc_number, issuing_country, expiration_date, COALESCE(external_id, ''), data
	          FROM profiles WHERE user_id = $1`
	var profile domain.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(&profile.UserID, &profile.Gender, &profile.Occupation,
		&profile.DocType, &profile.DocNumber, &profile.IssuingCountry, &profile.ExpirationDate,
		&profile.ExternalID, &profile.Data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// UpsertProfile inserts or replaces the profile attributes for a user. The
// remote participant id is written once: an existing non-empty external_id wins
// over whatever the new row carries, so re-syncs can never relink a profile.
func (r *PostgresRepository) UpsertProfile(ctx context.Context, profile *domain.Profile) error {
	query := `INSERT INTO profiles (user_id, gender, occupation, doc_type, doc_number, issuing_country, expiration_date, external_id, data)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          ON CONFLICT (user_id) DO UPDATE SET
	            gender = EXCLUDED.gender,
	            occupation = EXCLUDED.occupation,
	            doc_type = EXCLUDED.doc_type,
	            doc_number = EXCLUDED.doc_number,
	            issuing_country = EXCLUDED.issuing_country,
	            expiration_date = EXCLUDED.expiration_date,
	            external_id = COALESCE(NULLIF(profiles.external_id, ''), EXCLUDED.external_id),
	            data = EXCLUDED.data`
	_, err := r.db.Exec(ctx, query, profile.UserID, profile.Gender, profile.Occupation,
		profile.DocType, profile.DocNumber, profile.IssuingCountry, profile.ExpirationDate,
		profile.ExternalID, profile.Data)
	return err
}

// CreateBeneficiary inserts a new beneficiary row.
func (r *PostgresRepository) CreateBeneficiary(ctx context.Context, beneficiary *domain.Beneficiary) error {
	query := `INSERT INTO beneficiaries (id, user_id, nickname, external_id, data) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Exec(ctx, query, beneficiary.ID, beneficiary.UserID, beneficiary.Nickname,
		beneficiary.ExternalID, beneficiary.Data)
	return err
}

// FindBeneficiariesByUserID lists a user's beneficiaries.
func (r *PostgresRepository) FindBeneficiariesByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Beneficiary, error) {
	query := `SELECT id, user_id, nickname, external_id, data FROM beneficiaries WHERE user_id = $1 ORDER BY nickname`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var beneficiaries []domain.Beneficiary
	for rows.Next() {
		var b domain.Beneficiary
		if err := rows.Scan(&b.ID, &b.UserID, &b.Nickname, &b.ExternalID, &b.Data); err != nil {
			return nil, err
		}
		beneficiaries = append(beneficiaries, b)
	}
	return beneficiaries, rows.Err()
}

// FindBeneficiaryByID retrieves a beneficiary, enforcing ownership in the query.
func (r *PostgresRepository) FindBeneficiaryByID(ctx context.Context, beneficiaryID, userID uuid.UUID) (*domain.Beneficiary, error) {
	query := `SELECT id, user_id, nickname, external_id, data FROM beneficiaries WHERE id = $1 AND user_id = $2`
	var b domain.Beneficiary
	err := r.db.QueryRow(ctx, query, beneficiaryID, userID).Scan(&b.ID, &b.UserID, &b.Nickname, &b.ExternalID, &b.Data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBeneficiaryNotFound
		}
		return nil, err
	}
	return &b, nil
}

// CreateBeneficiaryAccount inserts a new payout account row.
func (r *PostgresRepository) CreateBeneficiaryAccount(ctx context.Context, account *domain.BeneficiaryAccount) error {
	query := `INSERT INTO beneficiary_accounts (id, beneficiary_id, external_id, data) VALUES ($1, $2, $3, $4)`
	_, err := r.db.Exec(ctx, query, account.ID, account.BeneficiaryID, account.ExternalID, account.Data)
	return err
}

// FindBeneficiaryAccountsByBeneficiaryID lists the payout accounts of a beneficiary.
func (r *PostgresRepository) FindBeneficiaryAccountsByBeneficiaryID(ctx context.Context, beneficiaryID uuid.UUID) ([]domain.BeneficiaryAccount, error) {
	query := `SELECT id, beneficiary_id, external_id, data FROM beneficiary_accounts WHERE beneficiary_id = $1`
	rows, err := r.db.Query(ctx, query, beneficiaryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.BeneficiaryAccount
	for rows.Next() {
		var a domain.BeneficiaryAccount
		if err := rows.Scan(&a.ID, &a.BeneficiaryID, &a.ExternalID, &a.Data); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// FindBeneficiaryAccountByID retrieves a payout account, enforcing that it hangs
// off the given beneficiary.
func (r *PostgresRepository) FindBeneficiaryAccountByID(ctx context.Context, accountID, beneficiaryID uuid.UUID) (*domain.BeneficiaryAccount, error) {
	query := `SELECT id, beneficiary_id, external_id, data FROM beneficiary_accounts WHERE id = $1 AND beneficiary_id = $2`
	var a domain.BeneficiaryAccount
	err := r.db.QueryRow(ctx, query, accountID, beneficiaryID).Scan(&a.ID, &a.BeneficiaryID, &a.ExternalID, &a.Data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBeneficiaryAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// CreatePaymentMethod inserts a new funding instrument row.
func (r *PostgresRepository) CreatePaymentMethod(ctx context.Context, method *domain.PaymentMethod) error {
	query := `INSERT INTO payment_methods (id, user_id, token, data, type, external_id) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query, method.ID, method.UserID, method.Token, method.Data, method.Type, method.ExternalID)
	return err
}

// FindPaymentMethodsByUserID lists a user's funding instruments, including rows
// in pending-challenge states; visibility filtering happens in the service.
func (r *PostgresRepository) FindPaymentMethodsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.PaymentMethod, error) {
	query := `SELECT id, user_id, token, data, type, external_id FROM payment_methods WHERE user_id = $1`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []domain.PaymentMethod
	for rows.Next() {
		var m domain.PaymentMethod
		if err := rows.Scan(&m.ID, &m.UserID, &m.Token, &m.Data, &m.Type, &m.ExternalID); err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

// FindPaymentMethodByID retrieves a funding instrument, enforcing ownership.
func (r *PostgresRepository) FindPaymentMethodByID(ctx context.Context, methodID, userID uuid.UUID) (*domain.PaymentMethod, error) {
	query := `SELECT id, user_id, token, data, type, external_id FROM payment_methods WHERE id = $1 AND user_id = $2`
	var m domain.PaymentMethod
	err := r.db.QueryRow(ctx, query, methodID, userID).Scan(&m.ID, &m.UserID, &m.Token, &m.Data, &m.Type, &m.ExternalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, err
	}
	return &m, nil
}

// UpdatePaymentMethodData replaces the stored raw payload after a status resync.
func (r *PostgresRepository) UpdatePaymentMethodData(ctx context.Context, methodID uuid.UUID, data []byte) error {
	tag, err := r.db.Exec(ctx, `UPDATE payment_methods SET data = $1 WHERE id = $2`, data, methodID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPaymentMethodNotFound
	}
	return nil
}

// CreateQuote inserts a new quote row. Quotes are immutable; there is no update path.
func (r *PostgresRepository) CreateQuote(ctx context.Context, quote *domain.Quote) error {
	query := `INSERT INTO quotes (id, user_id, quote_id, from_currency, to_currency, amount, data, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query, quote.ID, quote.UserID, quote.QuoteID, quote.FromCurrency,
		quote.ToCurrency, quote.Amount, quote.Data, quote.CreatedAt)
	return err
}

// FindQuoteByReference resolves a quote by provider quote id or local row id,
// enforcing ownership.
func (r *PostgresRepository) FindQuoteByReference(ctx context.Context, reference string, userID uuid.UUID) (*domain.Quote, error) {
	query := `SELECT id, user_id, quote_id, from_currency, to_currency, amount, data, created_at
	          FROM quotes WHERE (quote_id = $1 OR id::text = $1) AND user_id = $2
	          ORDER BY created_at DESC LIMIT 1`
	var q domain.Quote
	err := r.db.QueryRow(ctx, query, reference, userID).Scan(&q.ID, &q.UserID, &q.QuoteID,
		&q.FromCurrency, &q.ToCurrency, &q.Amount, &q.Data, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, err
	}
	return &q, nil
}

// CreateTransaction inserts a new transaction row.
func (r *PostgresRepository) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	query := `INSERT INTO transactions (id, user_id, external_id, status, amount, currency, recipient_name, created_at, data)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query, tx.ID, tx.UserID, tx.ExternalID, tx.Status, tx.Amount,
		tx.Currency, tx.RecipientName, tx.CreatedAt, tx.Data)
	return err
}

// FindTransactionsByUserID lists a user's transactions, newest first.
func (r *PostgresRepository) FindTransactionsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	query := `SELECT id, user_id, external_id, status, amount, currency, recipient_name, created_at, data
	          FROM transactions WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.ExternalID, &t.Status, &t.Amount, &t.Currency,
			&t.RecipientName, &t.CreatedAt, &t.Data); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// FindTransactionByID retrieves a transaction, enforcing ownership.
func (r *PostgresRepository) FindTransactionByID(ctx context.Context, transactionID, userID uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT id, user_id, external_id, status, amount, currency, recipient_name, created_at, data
	          FROM transactions WHERE id = $1 AND user_id = $2`
	var t domain.Transaction
	err := r.db.QueryRow(ctx, query, transactionID, userID).Scan(&t.ID, &t.UserID, &t.ExternalID,
		&t.Status, &t.Amount, &t.Currency, &t.RecipientName, &t.CreatedAt, &t.Data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}

// UpdateTransactionStatus refreshes the status and raw payload after a provider
// status sync. Transactions are otherwise immutable.
func (r *PostgresRepository) UpdateTransactionStatus(ctx context.Context, transactionID uuid.UUID, status string, data []byte) error {
	tag, err := r.db.Exec(ctx, `UPDATE transactions SET status = $1, data = $2 WHERE id = $3`, status, data, transactionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}
	return nil
}
