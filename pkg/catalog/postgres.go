package catalog

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/pressly/goose/v3"

	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/core/types"
)

//go:embed migrations/*.sql
var migrations embed.FS

const searchLimit = 10

const productColumns = `p.id, p.name, pbe.unit_price, p.description, p.color, p.size,
       p.product_code, p.category, p.image_url, pbe.id`

const productBase = `
SELECT ` + productColumns + `
FROM products p
JOIN LATERAL (
    SELECT id, unit_price FROM pricebook_entries
    WHERE product_id = p.id AND is_active
    LIMIT 1
) pbe ON TRUE
WHERE p.is_active`

// Store is the Postgres-backed Gateway. Payments and Mailer are optional
// hooks invoked after a successful placement; their failures never fail the
// order.
type Store struct {
	pool     *pgxpool.Pool
	logger   *slog.Logger
	payments PaymentProcessor
	mailer   Mailer
}

type StoreOption func(*Store)

func WithPayments(p PaymentProcessor) StoreOption {
	return func(s *Store) { s.payments = p }
}

func WithMailer(m Mailer) StoreOption {
	return func(s *Store) { s.mailer = m }
}

// Open connects to Postgres, runs pending migrations, and returns the store.
func Open(ctx context.Context, dsn string, logger *slog.Logger, opts ...StoreOption) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := migrate(dsn); err != nil {
		return nil, fmt.Errorf("migrate catalog schema: %w", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect catalog store: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping catalog store: %w", err)
	}

	s := &Store{pool: pool, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func migrate(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// buildSearchQuery translates filters into SQL. Kept separate from execution
// so the condition logic is testable without a database.
func buildSearchQuery(filters types.SearchFilters) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if c := strings.TrimSpace(filters.Category); c != "" {
		conditions = append(conditions, "p.category = "+arg(c))
	}
	if c := strings.TrimSpace(filters.Color); c != "" {
		conditions = append(conditions, "p.color ILIKE "+arg("%"+c+"%"))
	}
	if sz := strings.TrimSpace(filters.Size); sz != "" {
		conditions = append(conditions, "p.size ILIKE "+arg("%"+sz+"%"))
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		ph := arg("%" + q + "%")
		conditions = append(conditions, fmt.Sprintf("(p.name ILIKE %s OR p.description ILIKE %s)", ph, ph))
	}
	if filters.PriceMax > 0 {
		conditions = append(conditions, "pbe.unit_price <= "+arg(filters.PriceMax))
	}
	if filters.PriceMin > 0 {
		conditions = append(conditions, "pbe.unit_price >= "+arg(filters.PriceMin))
	}

	query := productBase
	for _, cond := range conditions {
		query += " AND " + cond
	}
	query += fmt.Sprintf(" ORDER BY p.name LIMIT %d", searchLimit)
	return query, args
}

func scanProduct(row pgx.Row) (types.Product, error) {
	var p types.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Color, &p.Size,
		&p.ProductCode, &p.Category, &p.ImageURL, &p.PricebookEntryID)
	return p, err
}

func (s *Store) SearchProducts(ctx context.Context, filters types.SearchFilters) ([]types.Product, error) {
	query, args := buildSearchQuery(filters)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	var products []types.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) ProductByID(ctx context.Context, id string) (types.Product, error) {
	row := s.pool.QueryRow(ctx, productBase+" AND p.id = $1", id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Product{}, ErrNotFound
	}
	if err != nil {
		return types.Product{}, fmt.Errorf("product by id: %w", err)
	}
	return p, nil
}

func (s *Store) ProductByName(ctx context.Context, name string) (types.Product, error) {
	row := s.pool.QueryRow(ctx, productBase+" AND p.name = $1", name)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Product{}, ErrNotFound
	}
	if err != nil {
		return types.Product{}, fmt.Errorf("product by name: %w", err)
	}
	return p, nil
}

func (s *Store) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT category FROM products WHERE is_active AND category <> '' ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) PlaceOrder(ctx context.Context, customer types.Customer, items []types.OrderItem, checkoutSource string) (types.OrderReceipt, error) {
	if strings.TrimSpace(customer.Email) == "" || strings.TrimSpace(customer.Name) == "" {
		return types.OrderReceipt{}, errors.New("customer name and email are required")
	}
	if len(items) == 0 {
		return types.OrderReceipt{}, errors.New("order has no items")
	}
	if checkoutSource == "" {
		checkoutSource = "Voice"
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return types.OrderReceipt{}, fmt.Errorf("begin order: %w", err)
	}
	defer tx.Rollback(ctx)

	var accountID string
	err = tx.QueryRow(ctx, `
		INSERT INTO accounts (name, email, phone) VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, phone = EXCLUDED.phone
		RETURNING id`,
		customer.Name, customer.Email, customer.Phone).Scan(&accountID)
	if err != nil {
		return types.OrderReceipt{}, fmt.Errorf("upsert account: %w", err)
	}

	var receipt types.OrderReceipt
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (order_number, account_id, checkout_source)
		VALUES (lpad(nextval('order_number_seq')::text, 8, '0'), $1, $2)
		RETURNING id, order_number`,
		accountID, checkoutSource).Scan(&receipt.OrderID, &receipt.OrderNumber)
	if err != nil {
		return types.OrderReceipt{}, fmt.Errorf("create order: %w", err)
	}

	for _, item := range items {
		var lineTotal float64
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, pricebook_entry_id, quantity, unit_price)
			SELECT $1, id, $3, unit_price FROM pricebook_entries WHERE id = $2
			RETURNING unit_price * quantity`,
			receipt.OrderID, item.PricebookEntryID, item.Quantity).Scan(&lineTotal)
		if errors.Is(err, pgx.ErrNoRows) {
			return types.OrderReceipt{}, fmt.Errorf("unknown pricebook entry %s", item.PricebookEntryID)
		}
		if err != nil {
			return types.OrderReceipt{}, fmt.Errorf("add order item: %w", err)
		}
		receipt.TotalAmount += lineTotal
		receipt.ItemsCount++
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET total_amount = $2 WHERE id = $1`,
		receipt.OrderID, receipt.TotalAmount); err != nil {
		return types.OrderReceipt{}, fmt.Errorf("finalize order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return types.OrderReceipt{}, fmt.Errorf("commit order: %w", err)
	}

	s.afterOrder(ctx, customer, receipt)
	return receipt, nil
}

// afterOrder runs the best-effort payment and mail hooks. The order already
// committed; hook failures only log.
func (s *Store) afterOrder(ctx context.Context, customer types.Customer, receipt types.OrderReceipt) {
	if s.payments != nil {
		reference, err := s.payments.Authorize(ctx, receipt.TotalAmount, "usd", receipt.OrderNumber, customer.Email)
		if err != nil {
			s.logger.Warn("payment authorization failed, order left as draft",
				"order_number", receipt.OrderNumber, "error", err)
		} else if _, err := s.pool.Exec(ctx,
			`UPDATE orders SET payment_reference = $2, status = 'Activated' WHERE id = $1`,
			receipt.OrderID, reference); err != nil {
			s.logger.Warn("record payment reference failed", "order_number", receipt.OrderNumber, "error", err)
		}
	}

	if s.mailer != nil {
		if err := s.mailer.SendOrderConfirmation(ctx, customer.Email, receipt); err != nil {
			s.logger.Warn("order confirmation mail failed",
				"order_number", receipt.OrderNumber, "error", err)
		}
	}
}

// UpsertProduct creates or refreshes a product and its pricebook entry,
// keyed by product code. Used by the ingest command.
func (s *Store) UpsertProduct(ctx context.Context, p types.Product) (types.Product, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return types.Product{}, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO products (name, product_code, description, color, size, category, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_code) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			color = EXCLUDED.color,
			size = EXCLUDED.size,
			category = EXCLUDED.category,
			image_url = EXCLUDED.image_url,
			is_active = TRUE
		RETURNING id`,
		p.Name, p.ProductCode, p.Description, p.Color, p.Size, p.Category, p.ImageURL).Scan(&p.ID)
	if err != nil {
		return types.Product{}, fmt.Errorf("upsert product %s: %w", p.ProductCode, err)
	}

	err = tx.QueryRow(ctx,
		`SELECT id FROM pricebook_entries WHERE product_id = $1 AND is_active LIMIT 1`,
		p.ID).Scan(&p.PricebookEntryID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		err = tx.QueryRow(ctx,
			`INSERT INTO pricebook_entries (product_id, unit_price) VALUES ($1, $2) RETURNING id`,
			p.ID, p.Price).Scan(&p.PricebookEntryID)
		if err != nil {
			return types.Product{}, fmt.Errorf("create pricebook entry for %s: %w", p.ProductCode, err)
		}
	case err != nil:
		return types.Product{}, fmt.Errorf("lookup pricebook entry for %s: %w", p.ProductCode, err)
	default:
		if _, err := tx.Exec(ctx,
			`UPDATE pricebook_entries SET unit_price = $2 WHERE id = $1`,
			p.PricebookEntryID, p.Price); err != nil {
			return types.Product{}, fmt.Errorf("update pricebook entry for %s: %w", p.ProductCode, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return types.Product{}, fmt.Errorf("commit upsert: %w", err)
	}
	return p, nil
}

func (s *Store) OrderStatus(ctx context.Context, orderNumber string) (types.OrderStatus, error) {
	var st types.OrderStatus
	err := s.pool.QueryRow(ctx, `
		SELECT order_number, status, to_char(effective_date, 'YYYY-MM-DD'), total_amount
		FROM orders WHERE order_number = $1`,
		orderNumber).Scan(&st.OrderNumber, &st.Status, &st.EffectiveDate, &st.TotalAmount)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.OrderStatus{}, ErrNotFound
	}
	if err != nil {
		return types.OrderStatus{}, fmt.Errorf("order status: %w", err)
	}
	return st, nil
}

func (s *Store) OrdersByEmail(ctx context.Context, email string) ([]types.OrderStatus, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT o.order_number, o.status, to_char(o.effective_date, 'YYYY-MM-DD'), o.total_amount
		FROM orders o
		JOIN accounts a ON a.id = o.account_id
		WHERE a.email = $1
		ORDER BY o.created_at DESC
		LIMIT 5`,
		email)
	if err != nil {
		return nil, fmt.Errorf("orders by email: %w", err)
	}
	defer rows.Close()

	var orders []types.OrderStatus
	for rows.Next() {
		var st types.OrderStatus
		if err := rows.Scan(&st.OrderNumber, &st.Status, &st.EffectiveDate, &st.TotalAmount); err != nil {
			return nil, err
		}
		orders = append(orders, st)
	}
	return orders, rows.Err()
}

var _ Gateway = (*Store)(nil)
