package ingest

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"sales-agent/internal/core"
)

// NewPool connects to the ledger database named by DATABASE_URL.
func NewPool(ctx context.Context) (*pgxpool.Pool, error) {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse DATABASE_URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}

var validTableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// LoadPostgres reads a sales ledger snapshot from a Postgres table.
// Optional columns are detected once from information_schema and the select
// list is built accordingly. The loader is read-only.
func LoadPostgres(ctx context.Context, pool *pgxpool.Pool, table string) (*core.Dataset, error) {
	if table == "" {
		table = "sales_ledger"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	cols, err := tableColumns(ctx, pool, table)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, name := range requiredColumns {
		if !cols[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s in table %s", ErrMissingSchema, strings.Join(missing, ", "), table)
	}

	caps := core.Capabilities{
		HasCategory: cols["category"],
		HasSubBrand: cols["sub_brand"],
		HasArea:     cols["area"],
		HasCity:     cols["city"],
		HasStoreID:  cols["store_id"],
	}

	selected := []string{"brand", "month", "year", "sales"}
	for _, opt := range []string{"category", "sub_brand", "area", "city", "store_id"} {
		if cols[opt] {
			selected = append(selected, opt)
		}
	}

	q := fmt.Sprintf("SELECT %s FROM %s", strings.Join(selected, ", "), table)
	rows, err := pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	ds := &core.Dataset{Caps: caps}
	for rows.Next() {
		var (
			brand, month                        string
			year                                *int
			sales                               decimal.NullDecimal
			category, subBrand, area, city, sid *string
		)

		dest := []any{&brand, &month, &year, &sales}
		for _, opt := range selected[4:] {
			switch opt {
			case "category":
				dest = append(dest, &category)
			case "sub_brand":
				dest = append(dest, &subBrand)
			case "area":
				dest = append(dest, &area)
			case "city":
				dest = append(dest, &city)
			case "store_id":
				dest = append(dest, &sid)
			}
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}

		ds.Rows = append(ds.Rows, core.Record{
			Brand:    brand,
			Category: deref(category),
			SubBrand: deref(subBrand),
			Month:    core.NormalizeMonth(month),
			Year:     year,
			Area:     deref(area),
			City:     deref(city),
			StoreID:  deref(sid),
			Sales:    sales,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger row iteration error: %w", err)
	}
	return ds, nil
}

// tableColumns returns the set of column names present on the table.
func tableColumns(ctx context.Context, pool *pgxpool.Pool, table string) (map[string]bool, error) {
	rows, err := pool.Query(ctx,
		"SELECT column_name FROM information_schema.columns WHERE table_name = $1", table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column name: %w", err)
		}
		cols[cleanColumn(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("column iteration error: %w", err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return cols, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
