package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekruzvatanshoev/carlot/pkg/carlot/config"
	"github.com/nekruzvatanshoev/carlot/pkg/carlot/dal"
)

const createCarsTable = `CREATE TABLE IF NOT EXISTS cars (
	seq BIGSERIAL,
	id UUID PRIMARY KEY,
	make TEXT NOT NULL DEFAULT '',
	model TEXT NOT NULL DEFAULT '',
	price DOUBLE PRECISION NOT NULL DEFAULT 0,
	release_date TEXT NOT NULL DEFAULT '',
	size TEXT NOT NULL DEFAULT '',
	style TEXT NOT NULL DEFAULT '',
	transmission_type TEXT NOT NULL DEFAULT '',
	is_deleted BOOLEAN NOT NULL DEFAULT FALSE
)`

const carColumns = "id, make, model, price, release_date, size, style, transmission_type, is_deleted"

// PostgresRepository stores cars in a single cars table.
type PostgresRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
	logger  *slog.Logger
}

// NewPostgresRepository opens a connection pool and creates the cars table
// when it does not exist yet.
func NewPostgresRepository(ctx context.Context, cfg config.PostgresConfig, timeout time.Duration, logger *slog.Logger) (*PostgresRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("postgres dsn required")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.ConnConfig.ConnectTimeout = timeout
	if poolCfg.ConnConfig.RuntimeParams == nil {
		poolCfg.ConnConfig.RuntimeParams = make(map[string]string)
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "carlot"

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	repo := &PostgresRepository{
		pool:    pool,
		timeout: timeout,
		logger:  logger.With("component", "postgres"),
	}

	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()
	if _, err := pool.Exec(ctx, createCarsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create cars table: %w", err)
	}
	repo.logger.Info("connected to postgres")
	return repo, nil
}

func (r *PostgresRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func scanCar(row pgx.Row) (dal.Car, error) {
	var (
		car         dal.Car
		id          uuid.UUID
		releaseDate string
	)
	err := row.Scan(&id, &car.Make, &car.Model, &car.Price, &releaseDate,
		&car.Size, &car.Style, &car.TransmissionType, &car.IsDeleted)
	if err != nil {
		return dal.Car{}, err
	}
	car.ID = id.String()
	car.ReleaseDate = dal.ReleaseDate(releaseDate)
	return car, nil
}

func (r *PostgresRepository) Create(ctx context.Context, car dal.Car) (dal.Car, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.pool.QueryRow(ctx,
		`INSERT INTO cars (`+carColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING `+carColumns,
		uuid.New(), car.Make, car.Model, car.Price, string(car.ReleaseDate),
		car.Size, car.Style, car.TransmissionType, car.IsDeleted)
	stored, err := scanCar(row)
	if err != nil {
		return dal.Car{}, fmt.Errorf("insert car: %w", err)
	}
	return stored, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context, filter Filter) ([]dal.Car, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + carColumns + ` FROM cars`
	var args []any
	if !filter.IsEmpty() {
		var where string
		where, args = whereClause(filter)
		query += ` WHERE ` + where
	}
	query += ` ORDER BY seq`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find cars: %w", err)
	}
	defer rows.Close()

	cars := make([]dal.Car, 0)
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan car: %w", err)
		}
		cars = append(cars, car)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find cars: %w", err)
	}
	return cars, nil
}

// whereClause turns filter into equality conditions with bound values.
// Column names come from the fixed filter whitelist.
func whereClause(filter Filter) (string, []any) {
	pairs := filter.pairs()
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(keys))
	conds := make([]string, 0, len(keys))
	for _, k := range keys {
		args = append(args, pairs[k])
		conds = append(conds, fmt.Sprintf("%s = $%d", k, len(args)))
	}
	return strings.Join(conds, " AND "), args
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*dal.Car, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	car, err := scanCar(r.pool.QueryRow(ctx, `SELECT `+carColumns+` FROM cars WHERE id = $1`, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find car %s: %w", id, err)
	}
	return &car, nil
}

func (r *PostgresRepository) UpdateByID(ctx context.Context, id string, update Update) (*dal.Car, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	args := []any{uid}
	var sets []string
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if c := update.Car; c != nil {
		add("make", c.Make)
		add("model", c.Model)
		add("price", c.Price)
		add("release_date", string(c.ReleaseDate))
		add("size", c.Size)
		add("style", c.Style)
		add("transmission_type", c.TransmissionType)
	}
	if update.IsDeleted != nil {
		add("is_deleted", *update.IsDeleted)
	}
	if len(sets) == 0 {
		// Touch nothing but still honour ActiveOnly.
		sets = append(sets, "id = id")
	}

	query := `UPDATE cars SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	if update.ActiveOnly {
		query += ` AND NOT is_deleted`
	}
	query += ` RETURNING ` + carColumns

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	car, err := scanCar(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update car %s: %w", id, err)
	}
	return &car, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// Close waits for the pool to close or for ctx to end.
func (r *PostgresRepository) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.pool.Close()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

var _ Repository = (*PostgresRepository)(nil)
