// Package migration imports the previous bot's MongoDB data into the
// PostgreSQL schema. It is meant to run once against a fresh database:
// keyed tables upsert with DO NOTHING and append-only tables are
// skipped entirely when they already hold rows, so a rerun cannot
// duplicate history.
package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/midasbot/midas/midas/database/models"
)

type Migrator struct {
	db        *bun.DB
	pool      *pgxpool.Pool
	client    *mongo.Client
	source    *mongo.Database
	batchSize int
	stats     MigrationStats

	now func() time.Time
}

// New builds a Migrator writing through the given bun handle. The pgx
// pool is optional; when present the transaction log imports via COPY.
func New(db *bun.DB, pool *pgxpool.Pool) *Migrator {
	return &Migrator{
		db:        db,
		pool:      pool,
		batchSize: 1000,
		now:       time.Now,
	}
}

// SetBatchSize overrides the default insert batch size.
func (m *Migrator) SetBatchSize(size int) {
	if size > 0 {
		m.batchSize = size
	}
}

// Connect dials the legacy MongoDB. Call before Run.
func (m *Migrator) Connect(ctx context.Context, uri, dbName string) error {
	if uri == "" || dbName == "" {
		return fmt.Errorf("legacy mongo uri and database name are required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("failed to connect to legacy mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("failed to reach legacy mongo: %w", err)
	}
	m.client = client
	m.source = client.Database(dbName)
	return nil
}

// Close releases the legacy connection.
func (m *Migrator) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}

// Stats reports the outcome of the last Run.
func (m *Migrator) Stats() MigrationStats {
	return m.stats
}

// Run imports every legacy collection in referential order.
func (m *Migrator) Run(ctx context.Context) error {
	if m.source == nil {
		return fmt.Errorf("legacy mongo not connected")
	}
	m.stats = MigrationStats{
		Tables:    make(map[string]*TableStats),
		StartTime: m.now(),
	}

	steps := []struct {
		table string
		run   func(context.Context) error
	}{
		{"guild_economies", m.migrateServers},
		{"players", m.migrateUsers},
		{"loans", m.migrateLoans},
		{"investments", m.migrateInvestments},
		{"transactions", m.migrateTransactions},
		{"crime_records", m.migrateCrimes},
		{"elections", m.migrateElections},
		{"market_snapshots", m.migrateSnapshots},
	}
	for _, step := range steps {
		slog.Info("Migration step starting",
			slog.String("type", "migration"),
			slog.String("table", step.table))
		if err := step.run(ctx); err != nil {
			return fmt.Errorf("migration failed at %s: %w", step.table, err)
		}
	}

	m.stats.EndTime = m.now()
	m.logSummary()
	return nil
}

func (m *Migrator) migrateServers(ctx context.Context) error {
	now := m.now()
	return migrateCollection(ctx, m, "guild_economies", "servers",
		func(doc legacyServer) *models.GuildEconomy { return convertEconomy(doc, now) },
		func(ctx context.Context, rows []*models.GuildEconomy) (int, error) {
			return insertRows(ctx, m, "guild_economies", "CONFLICT (guild_id) DO NOTHING", rows)
		})
}

func (m *Migrator) migrateUsers(ctx context.Context) error {
	now := m.now()
	return migrateCollection(ctx, m, "players", "users",
		func(doc legacyUser) *models.Player { return convertPlayer(doc, now) },
		func(ctx context.Context, rows []*models.Player) (int, error) {
			return insertRows(ctx, m, "players", "CONFLICT (guild_id, user_id) DO NOTHING", rows)
		})
}

func (m *Migrator) migrateLoans(ctx context.Context) error {
	empty, err := m.targetEmpty(ctx, (*models.Loan)(nil), "loans")
	if err != nil || !empty {
		return err
	}
	now := m.now()
	return migrateCollection(ctx, m, "loans", "loans",
		func(doc legacyLoan) *models.Loan { return convertLoan(doc, now) },
		func(ctx context.Context, rows []*models.Loan) (int, error) {
			return insertRows(ctx, m, "loans", "", rows)
		})
}

func (m *Migrator) migrateInvestments(ctx context.Context) error {
	empty, err := m.targetEmpty(ctx, (*models.Investment)(nil), "investments")
	if err != nil || !empty {
		return err
	}
	now := m.now()
	return migrateCollection(ctx, m, "investments", "investments",
		func(doc legacyInvestment) *models.Investment { return convertInvestment(doc, now) },
		func(ctx context.Context, rows []*models.Investment) (int, error) {
			return insertRows(ctx, m, "investments", "", rows)
		})
}

func (m *Migrator) migrateTransactions(ctx context.Context) error {
	empty, err := m.targetEmpty(ctx, (*models.Transaction)(nil), "transactions")
	if err != nil || !empty {
		return err
	}
	now := m.now()
	return migrateCollection(ctx, m, "transactions", "transactions",
		func(doc legacyTransaction) *models.Transaction { return convertTransaction(doc, now) },
		m.insertTransactions)
}

func (m *Migrator) migrateCrimes(ctx context.Context) error {
	empty, err := m.targetEmpty(ctx, (*models.CrimeRecord)(nil), "crime_records")
	if err != nil || !empty {
		return err
	}
	now := m.now()
	return migrateCollection(ctx, m, "crime_records", "crimes",
		func(doc legacyCrime) *models.CrimeRecord { return convertCrime(doc, now) },
		func(ctx context.Context, rows []*models.CrimeRecord) (int, error) {
			return insertRows(ctx, m, "crime_records", "", rows)
		})
}

func (m *Migrator) migrateElections(ctx context.Context) error {
	empty, err := m.targetEmpty(ctx, (*models.Election)(nil), "elections")
	if err != nil || !empty {
		return err
	}
	now := m.now()
	return migrateCollection(ctx, m, "elections", "elections",
		func(doc legacyElection) *models.Election { return convertElection(doc, now) },
		func(ctx context.Context, rows []*models.Election) (int, error) {
			return insertRows(ctx, m, "elections", "", rows)
		})
}

func (m *Migrator) migrateSnapshots(ctx context.Context) error {
	empty, err := m.targetEmpty(ctx, (*models.MarketSnapshot)(nil), "market_snapshots")
	if err != nil || !empty {
		return err
	}
	now := m.now()
	return migrateCollection(ctx, m, "market_snapshots", "market_history",
		func(doc legacySnapshot) *models.MarketSnapshot { return convertSnapshot(doc, now) },
		func(ctx context.Context, rows []*models.MarketSnapshot) (int, error) {
			return insertRows(ctx, m, "market_snapshots", "", rows)
		})
}

// insertTransactions prefers COPY for the ledger, which dwarfs every
// other collection, falling back to a standard batch insert.
func (m *Migrator) insertTransactions(ctx context.Context, rows []*models.Transaction) (int, error) {
	if m.pool != nil {
		err := m.copyTransactions(ctx, rows)
		if err == nil {
			return len(rows), nil
		}
		slog.Warn("COPY path failed, falling back to batch insert",
			slog.String("type", "migration"),
			slog.String("error", err.Error()))
	}
	return insertRows(ctx, m, "transactions", "", rows)
}

func (m *Migrator) copyTransactions(ctx context.Context, rows []*models.Transaction) error {
	data := make([][]any, 0, len(rows))
	for _, t := range rows {
		data = append(data, []any{t.GuildID, t.FromID, t.ToID, t.Amount, t.Kind, t.Note, t.Timestamp})
	}

	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	columns := []string{"guild_id", "from_id", "to_id", "amount", "kind", "note", "timestamp"}
	_, err = conn.Conn().CopyFrom(ctx, pgx.Identifier{"transactions"}, columns, pgx.CopyFromRows(data))
	return err
}

// targetEmpty guards append-only tables: importing into a table that
// already holds rows would duplicate history.
func (m *Migrator) targetEmpty(ctx context.Context, model any, table string) (bool, error) {
	n, err := m.db.NewSelect().Model(model).Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count %s: %w", table, err)
	}
	if n > 0 {
		slog.Warn("Skipping already-populated table",
			slog.String("type", "migration"),
			slog.String("table", table),
			slog.Int("rows", n))
	}
	return n == 0, nil
}

func (m *Migrator) tableStats(table string) *TableStats {
	ts, ok := m.stats.Tables[table]
	if !ok {
		ts = &TableStats{Table: table}
		m.stats.Tables[table] = ts
	}
	return ts
}

func (m *Migrator) logSummary() {
	for _, ts := range m.stats.Tables {
		slog.Info("Migration table finished",
			slog.String("type", "migration"),
			slog.String("table", ts.Table),
			slog.Int("processed", ts.Processed),
			slog.Int("inserted", ts.Inserted),
			slog.Int("skipped", ts.Skipped),
			slog.Int("errors", ts.Errors))
	}
	slog.Info("Migration finished",
		slog.String("type", "migration"),
		slog.Duration("took", m.stats.EndTime.Sub(m.stats.StartTime)))
}

// migrateCollection streams one legacy collection, converting and
// batch-inserting as it goes. Converters return nil to drop a record.
func migrateCollection[L any, R any](
	ctx context.Context,
	m *Migrator,
	table, collection string,
	convert func(L) *R,
	flush func(context.Context, []*R) (int, error),
) error {
	ts := m.tableStats(table)
	cur, err := m.source.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	push := func(batch []*R) error {
		inserted, err := flush(ctx, batch)
		ts.Inserted += inserted
		ts.Errors += len(batch) - inserted
		return err
	}

	batch := make([]*R, 0, m.batchSize)
	for cur.Next(ctx) {
		var doc L
		if err := cur.Decode(&doc); err != nil {
			ts.Errors++
			slog.Warn("Skipping undecodable document",
				slog.String("type", "migration"),
				slog.String("collection", collection),
				slog.String("error", err.Error()))
			continue
		}
		ts.Processed++

		row := convert(doc)
		if row == nil {
			ts.Skipped++
			continue
		}
		batch = append(batch, row)
		if len(batch) >= m.batchSize {
			if err := push(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("cursor failed on %s: %w", collection, err)
	}
	if len(batch) > 0 {
		if err := push(batch); err != nil {
			return err
		}
	}
	return nil
}

// insertRows batch-inserts, salvaging row by row when the whole batch
// fails so one bad record does not sink the import. Returns the number
// of rows that made it in.
func insertRows[T any](ctx context.Context, m *Migrator, table, conflict string, rows []*T) (int, error) {
	q := m.db.NewInsert().Model(&rows)
	if conflict != "" {
		q = q.On(conflict)
	}
	_, err := q.Exec(ctx)
	if err == nil {
		return len(rows), nil
	}
	slog.Warn("Batch insert failed, retrying row by row",
		slog.String("type", "migration"),
		slog.String("table", table),
		slog.String("error", err.Error()))

	inserted := 0
	for _, row := range rows {
		q := m.db.NewInsert().Model(row)
		if conflict != "" {
			q = q.On(conflict)
		}
		if _, err := q.Exec(ctx); err != nil {
			slog.Error("Failed to import row",
				slog.String("type", "migration"),
				slog.String("table", table),
				slog.String("error", err.Error()))
			continue
		}
		inserted++
	}
	return inserted, nil
}
