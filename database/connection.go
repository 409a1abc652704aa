package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/lizet96/hms-backend/logging"
)

var (
	// ErrNotConnected se devuelve mientras el supervisor no haya establecido la conexión
	ErrNotConnected = errors.New("database not connected")

	// ErrNotFound se devuelve cuando una consulta no encuentra el registro
	ErrNotFound = errors.New("record not found")

	// ErrInvalidDSN se devuelve cuando pgx no puede interpretar DATABASE_URL.
	// No lleva el detalle del parser porque este repite la cadena con la contraseña.
	ErrInvalidDSN = errors.New("invalid DATABASE_URL")
)

// DB es el manejador del pool de conexiones. El pool solo existe después
// de un Connect exitoso; antes de eso Pool devuelve ErrNotConnected.
type DB struct {
	url     string
	migrate Migrator
	log     zerolog.Logger

	mu   sync.RWMutex
	pool *pgxpool.Pool
}

// Option personaliza el manejador
type Option func(*DB)

// WithoutMigrations desactiva la ejecución de migraciones al conectar
func WithoutMigrations() Option {
	return func(d *DB) { d.migrate = nil }
}

// WithMigrator reemplaza el paso de migraciones que corre tras la consulta de prueba
func WithMigrator(m Migrator) Option {
	return func(d *DB) { d.migrate = m }
}

// New crea el manejador sin abrir conexiones
func New(databaseURL string, opts ...Option) *DB {
	d := &DB{
		url:     databaseURL,
		migrate: migrateUp,
		log:     logging.With("database"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Connect establece el pool de conexiones, comprueba que la base de datos
// responde y aplica las migraciones pendientes. Cualquier fallo deja el
// manejador desconectado para que el llamador pueda reintentar.
func (d *DB) Connect(ctx context.Context) error {
	if d.Connected() {
		return nil
	}

	config, err := pgxpool.ParseConfig(d.url)
	if err != nil {
		return ErrInvalidDSN
	}
	config.MaxConns = 30
	config.MinConns = 5
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var version string
	if err := pool.QueryRow(pingCtx, "SELECT version()").Scan(&version); err != nil {
		pool.Close()
		return fmt.Errorf("probe connection: %w", err)
	}

	if d.migrate != nil {
		if err := d.migrate(pool); err != nil {
			pool.Close()
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	d.mu.Lock()
	d.pool = pool
	d.mu.Unlock()

	d.log.Info().Str("version", version).Msg("pool de conexiones listo")
	return nil
}

// Connected indica si el pool ya fue creado
func (d *DB) Connected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pool != nil
}

// Pool devuelve el pool o ErrNotConnected
func (d *DB) Pool() (*pgxpool.Pool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.pool == nil {
		return nil, ErrNotConnected
	}
	return d.pool, nil
}

// Close cierra el pool de conexiones
func (d *DB) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pool != nil {
		d.pool.Close()
		d.pool = nil
		d.log.Info().Msg("pool de conexiones cerrado")
	}
}

// notFound traduce pgx.ErrNoRows al error del paquete
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
