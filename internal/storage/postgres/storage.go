package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/baabuu/storefront/internal/domain/errors"
	"github.com/baabuu/storefront/internal/domain/model"
	"github.com/baabuu/storefront/internal/domain/repository"
)

// dbPool is the subset of pgxpool.Pool the storage layer uses.
type dbPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   dbPool
	logger *slog.Logger
}

type stockRepository struct {
	storage *Storage
}

type cartRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type paymentRepository struct {
	storage *Storage
}

type catalogRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Stock() repository.StockRepository {
	return &stockRepository{storage: s}
}

func (s *Storage) Carts() repository.CartRepository {
	return &cartRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Payments() repository.PaymentRepository {
	return &paymentRepository{storage: s}
}

func (s *Storage) Catalog() repository.CatalogRepository {
	return &catalogRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            price BIGINT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS addresses (
            user_id BIGINT PRIMARY KEY,
            first_name TEXT NOT NULL DEFAULT '',
            last_name TEXT NOT NULL DEFAULT '',
            street_address TEXT NOT NULL DEFAULT '',
            city TEXT NOT NULL DEFAULT '',
            state TEXT NOT NULL DEFAULT '',
            country TEXT NOT NULL DEFAULT '',
            pincode TEXT NOT NULL DEFAULT '',
            phone_number TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS stock (
            product_id BIGINT NOT NULL REFERENCES products(id),
            size TEXT NOT NULL,
            color TEXT NOT NULL,
            quantity BIGINT NOT NULL CHECK (quantity >= 0),
            PRIMARY KEY (product_id, size, color)
        )`,
		`CREATE TABLE IF NOT EXISTS cart_items (
            id SERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL,
            product_id BIGINT NOT NULL,
            size TEXT NOT NULL,
            color TEXT NOT NULL,
            quantity BIGINT NOT NULL,
            unit_price BIGINT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (user_id, product_id, size, color)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            external_id TEXT UNIQUE NOT NULL,
            user_id BIGINT NOT NULL,
            status TEXT NOT NULL,
            total_amount BIGINT NOT NULL,
            shipping_charge BIGINT NOT NULL,
            item_count BIGINT NOT NULL,
            payment_method TEXT NOT NULL,
            order_date TIMESTAMPTZ NOT NULL,
            delivery_estimate TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_lines (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            product_id BIGINT NOT NULL,
            size TEXT NOT NULL,
            color TEXT NOT NULL,
            quantity BIGINT NOT NULL,
            unit_price BIGINT NOT NULL,
            line_total BIGINT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            transaction_id TEXT UNIQUE NOT NULL,
            external_ref TEXT NOT NULL DEFAULT '',
            method TEXT NOT NULL,
            amount BIGINT NOT NULL,
            currency TEXT NOT NULL,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            completed_at TIMESTAMPTZ
        )`,
		`CREATE INDEX IF NOT EXISTS idx_cart_items_user ON cart_items(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, order_date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_lines_order ON order_lines(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_order ON payments(order_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- StockRepository implementation ---

// reserveStockTx conditionally decrements quantity on hand. The quantity
// guard in the WHERE clause is what keeps concurrent reservations from
// driving stock negative.
func (s *Storage) reserveStockTx(ctx context.Context, tx pgx.Tx, variant model.VariantKey, qty int64) error {
	const reserve = `UPDATE stock SET quantity = quantity - $4
                     WHERE product_id=$1 AND size=$2 AND color=$3 AND quantity >= $4`
	tag, err := tx.Exec(ctx, reserve, variant.ProductID, variant.Size, variant.Color, qty)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	const available = `SELECT quantity FROM stock WHERE product_id=$1 AND size=$2 AND color=$3`
	var onHand int64
	if err := tx.QueryRow(ctx, available, variant.ProductID, variant.Size, variant.Color).Scan(&onHand); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrUnknownVariant
		}
		return err
	}
	return domainErrors.InsufficientStockError{Variant: variant, Requested: qty, Available: onHand}
}

func (s *Storage) releaseStockTx(ctx context.Context, tx pgx.Tx, variant model.VariantKey, qty int64) error {
	const release = `UPDATE stock SET quantity = quantity + $4
                     WHERE product_id=$1 AND size=$2 AND color=$3`
	_, err := tx.Exec(ctx, release, variant.ProductID, variant.Size, variant.Color, qty)
	return err
}

// restockOrderTx releases the reservation of every line of an order.
func (s *Storage) restockOrderTx(ctx context.Context, tx pgx.Tx, orderID int64) error {
	const lines = `SELECT product_id, size, color, quantity FROM order_lines WHERE order_id=$1`
	rows, err := tx.Query(ctx, lines, orderID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var reserved []model.StockItem
	for rows.Next() {
		var item model.StockItem
		if err := rows.Scan(&item.Variant.ProductID, &item.Variant.Size, &item.Variant.Color, &item.Quantity); err != nil {
			return err
		}
		reserved = append(reserved, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	for _, item := range reserved {
		if err := s.releaseStockTx(ctx, tx, item.Variant, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (r *stockRepository) TryReserve(ctx context.Context, variant model.VariantKey, qty int64) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		return r.storage.reserveStockTx(ctx, tx, variant, qty)
	})
}

func (r *stockRepository) Release(ctx context.Context, variant model.VariantKey, qty int64) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		return r.storage.releaseStockTx(ctx, tx, variant, qty)
	})
}

func (r *stockRepository) Quantity(ctx context.Context, variant model.VariantKey) (int64, error) {
	const query = `SELECT quantity FROM stock WHERE product_id=$1 AND size=$2 AND color=$3`
	var onHand int64
	err := r.storage.pool.QueryRow(ctx, query, variant.ProductID, variant.Size, variant.Color).Scan(&onHand)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domainErrors.ErrUnknownVariant
		}
		return 0, err
	}
	return onHand, nil
}

// --- CartRepository implementation ---

func (r *cartRepository) Add(ctx context.Context, item model.CartItem) (*model.CartItem, error) {
	const query = `INSERT INTO cart_items (user_id, product_id, size, color, quantity, unit_price)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   ON CONFLICT (user_id, product_id, size, color)
                   DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
                   RETURNING id, quantity, unit_price, created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		item.UserID, item.Variant.ProductID, item.Variant.Size, item.Variant.Color,
		item.Quantity, item.UnitPrice.Amount,
	).Scan(&item.ID, &item.Quantity, &item.UnitPrice.Amount, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	item.UnitPrice.Currency = model.CurrencyINR
	return &item, nil
}

func (r *cartRepository) Update(ctx context.Context, userID, itemID, qty int64, size, color string) error {
	const query = `UPDATE cart_items SET quantity=$3, size=$4, color=$5 WHERE id=$2 AND user_id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, userID, itemID, qty, size, color)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *cartRepository) Remove(ctx context.Context, userID, itemID int64) error {
	const query = `DELETE FROM cart_items WHERE id=$2 AND user_id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, userID, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *cartRepository) ListByUser(ctx context.Context, userID int64) ([]model.CartItem, error) {
	const query = `SELECT id, user_id, product_id, size, color, quantity, unit_price, created_at
                   FROM cart_items WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.CartItem
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.Variant.ProductID, &item.Variant.Size,
			&item.Variant.Color, &item.Quantity, &item.UnitPrice.Amount, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.UnitPrice.Currency = model.CurrencyINR
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Place(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	order := &model.Order{
		ExternalID:       draft.ExternalID,
		UserID:           draft.UserID,
		Status:           model.OrderStatusPending,
		TotalAmount:      draft.TotalAmount,
		ShippingCharge:   draft.ShippingCharge,
		PaymentMethod:    draft.PaymentMethod,
		OrderDate:        draft.OrderDate,
		DeliveryEstimate: draft.DeliveryEstimate,
	}
	for _, line := range draft.Lines {
		order.ItemCount += line.Quantity
	}

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		for _, line := range draft.Lines {
			if err := r.storage.reserveStockTx(ctx, tx, line.Variant, line.Quantity); err != nil {
				return err
			}
		}

		const insertOrder = `INSERT INTO orders
            (external_id, user_id, status, total_amount, shipping_charge, item_count, payment_method, order_date, delivery_estimate)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
            RETURNING id, created_at, updated_at`
		err := tx.QueryRow(ctx, insertOrder,
			order.ExternalID, order.UserID, order.Status, order.TotalAmount.Amount,
			order.ShippingCharge.Amount, order.ItemCount, order.PaymentMethod,
			order.OrderDate, order.DeliveryEstimate,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return err
		}

		const insertLine = `INSERT INTO order_lines
            (order_id, product_id, size, color, quantity, unit_price, line_total)
            VALUES ($1, $2, $3, $4, $5, $6, $7)`
		for _, line := range draft.Lines {
			if _, err := tx.Exec(ctx, insertLine,
				order.ID, line.Variant.ProductID, line.Variant.Size, line.Variant.Color,
				line.Quantity, line.UnitPrice.Amount, line.LineTotal.Amount,
			); err != nil {
				return err
			}
		}

		const clearCart = `DELETE FROM cart_items WHERE user_id=$1`
		if _, err := tx.Exec(ctx, clearCart, order.UserID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func scanOrder(row pgx.Row, o *model.Order) error {
	err := row.Scan(&o.ID, &o.ExternalID, &o.UserID, &o.Status, &o.TotalAmount.Amount,
		&o.ShippingCharge.Amount, &o.ItemCount, &o.PaymentMethod,
		&o.OrderDate, &o.DeliveryEstimate, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return err
	}
	o.TotalAmount.Currency = model.CurrencyINR
	o.ShippingCharge.Currency = model.CurrencyINR
	return nil
}

const orderColumns = `id, external_id, user_id, status, total_amount, shipping_charge,
                      item_count, payment_method, order_date, delivery_estimate, created_at, updated_at`

func (r *orderRepository) GetByExternalID(ctx context.Context, externalID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE external_id=$1`
	var order model.Order
	if err := scanOrder(r.storage.pool.QueryRow(ctx, query, externalID), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY order_date DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var order model.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) Lines(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	const query = `SELECT id, order_id, product_id, size, color, quantity, unit_price, line_total
                   FROM order_lines WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderLine
	for rows.Next() {
		var line model.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.Variant.ProductID, &line.Variant.Size,
			&line.Variant.Color, &line.Quantity, &line.UnitPrice.Amount, &line.LineTotal.Amount); err != nil {
			return nil, err
		}
		line.UnitPrice.Currency = model.CurrencyINR
		line.LineTotal.Currency = model.CurrencyINR
		result = append(result, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) TransitionWithRestock(ctx context.Context, orderID int64, from []model.OrderStatus, to model.OrderStatus) (bool, error) {
	statuses := make([]string, len(from))
	for i, status := range from {
		statuses[i] = string(status)
	}

	var applied bool
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const update = `UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1 AND status = ANY($3)`
		tag, err := tx.Exec(ctx, update, orderID, to, statuses)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		applied = true
		return r.storage.restockOrderTx(ctx, tx, orderID)
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (r *orderRepository) MarkDeliveredDue(ctx context.Context, now time.Time) (int64, error) {
	const query = `UPDATE orders SET status=$1, updated_at=NOW()
                   WHERE status=$2 AND delivery_estimate <= $3`
	tag, err := r.storage.pool.Exec(ctx, query, model.OrderStatusDelivered, model.OrderStatusPending, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// --- PaymentRepository implementation ---

func (r *paymentRepository) Create(ctx context.Context, payment model.Payment) (*model.Payment, error) {
	const query = `INSERT INTO payments (order_id, transaction_id, external_ref, method, amount, currency, status)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   RETURNING id, created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		payment.OrderID, payment.TransactionID, payment.ExternalRef,
		payment.Method, payment.Amount.Amount, payment.Amount.Currency, payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error) {
	const query = `SELECT id, order_id, transaction_id, external_ref, method, amount, currency, status, created_at, completed_at
                   FROM payments WHERE transaction_id=$1`
	var p model.Payment
	err := r.storage.pool.QueryRow(ctx, query, transactionID).Scan(
		&p.ID, &p.OrderID, &p.TransactionID, &p.ExternalRef, &p.Method,
		&p.Amount.Amount, &p.Amount.Currency, &p.Status, &p.CreatedAt, &p.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Complete(ctx context.Context, transactionID, externalRef string) (*model.Order, bool, error) {
	var (
		order   model.Order
		applied bool
	)
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockPayment = `SELECT id, order_id, status FROM payments WHERE transaction_id=$1 FOR UPDATE`
		var (
			paymentID int64
			orderID   int64
			status    model.PaymentStatus
		)
		if err := tx.QueryRow(ctx, lockPayment, transactionID).Scan(&paymentID, &orderID, &status); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		orderQuery := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`

		// Replay of an already settled transaction: report the same
		// order without touching anything.
		if status == model.PaymentStatusCompleted {
			return scanOrder(tx.QueryRow(ctx, orderQuery, orderID), &order)
		}
		if status != model.PaymentStatusInitiated {
			return domainErrors.ErrNotEligible
		}

		const lockOrder = `SELECT status FROM orders WHERE id=$1 FOR UPDATE`
		var orderStatus model.OrderStatus
		if err := tx.QueryRow(ctx, lockOrder, orderID).Scan(&orderStatus); err != nil {
			return err
		}
		if orderStatus != model.OrderStatusPending {
			return domainErrors.ErrNotEligible
		}

		const completePayment = `UPDATE payments SET status=$2, external_ref=$3, completed_at=NOW() WHERE id=$1`
		if _, err := tx.Exec(ctx, completePayment, paymentID, model.PaymentStatusCompleted, externalRef); err != nil {
			return err
		}

		const payOrder = `UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1`
		if _, err := tx.Exec(ctx, payOrder, orderID, model.OrderStatusPaid); err != nil {
			return err
		}

		applied = true
		return scanOrder(tx.QueryRow(ctx, orderQuery, orderID), &order)
	})
	if err != nil {
		return nil, false, err
	}
	return &order, applied, nil
}

func (r *paymentRepository) Fail(ctx context.Context, transactionID string) (bool, error) {
	var applied bool
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockPayment = `SELECT id, order_id, status FROM payments WHERE transaction_id=$1 FOR UPDATE`
		var (
			paymentID int64
			orderID   int64
			status    model.PaymentStatus
		)
		if err := tx.QueryRow(ctx, lockPayment, transactionID).Scan(&paymentID, &orderID, &status); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if status != model.PaymentStatusInitiated {
			return nil
		}

		const failPayment = `UPDATE payments SET status=$2 WHERE id=$1`
		if _, err := tx.Exec(ctx, failPayment, paymentID, model.PaymentStatusFailed); err != nil {
			return err
		}

		// The order is cancelled and restocked only while it is still
		// pending; an order paid through another attempt stays paid.
		const cancelOrder = `UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1 AND status=$3`
		tag, err := tx.Exec(ctx, cancelOrder, orderID, model.OrderStatusCancelled, model.OrderStatusPending)
		if err != nil {
			return err
		}
		applied = true
		if tag.RowsAffected() == 0 {
			return nil
		}
		return r.storage.restockOrderTx(ctx, tx, orderID)
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// --- CatalogRepository implementation ---

func (r *catalogRepository) VariantPrice(ctx context.Context, variant model.VariantKey) (model.Money, error) {
	const query = `SELECT p.price FROM products p
                   JOIN stock s ON s.product_id = p.id AND s.size=$2 AND s.color=$3
                   WHERE p.id=$1`
	var price int64
	err := r.storage.pool.QueryRow(ctx, query, variant.ProductID, variant.Size, variant.Color).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Money{}, domainErrors.ErrUnknownVariant
		}
		return model.Money{}, err
	}
	return model.NewMoney(price, model.CurrencyINR), nil
}

func (r *catalogRepository) DeliveryAddress(ctx context.Context, userID int64) (*model.Address, error) {
	const query = `SELECT user_id, first_name, last_name, street_address, city, state, country, pincode, phone_number, email
                   FROM addresses WHERE user_id=$1`
	var a model.Address
	err := r.storage.pool.QueryRow(ctx, query, userID).Scan(
		&a.UserID, &a.FirstName, &a.LastName, &a.StreetAddress, &a.City,
		&a.State, &a.Country, &a.Pincode, &a.PhoneNumber, &a.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
