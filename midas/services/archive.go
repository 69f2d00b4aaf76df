package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/midasbot/midas/midas/config"
	"github.com/midasbot/midas/midas/database/models"
	"github.com/midasbot/midas/midas/metrics"
)

// TransactionArchiveSource is the slice of the transaction store the
// archiver reads and prunes.
type TransactionArchiveSource interface {
	GetOlderThan(ctx context.Context, cutoff time.Time) ([]*models.Transaction, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SnapshotArchiveSource is the slice of the snapshot store the
// archiver reads and prunes.
type SnapshotArchiveSource interface {
	GetOlderThan(ctx context.Context, cutoff time.Time) ([]*models.MarketSnapshot, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ArchiveService exports aged ledger and snapshot rows to object
// storage as JSON lines, one object per tenant per run, then prunes
// the exported rows. A table's rows are only deleted after every one
// of its objects landed.
type ArchiveService struct {
	transactions TransactionArchiveSource
	snapshots    SnapshotArchiveSource
	client       objectPutter
	bucket       string
	retention    time.Duration
	met          *metrics.Metrics

	now func() time.Time
}

func NewArchiveService(
	transactions TransactionArchiveSource,
	snapshots SnapshotArchiveSource,
	client objectPutter,
	bucket string,
	met *metrics.Metrics,
) *ArchiveService {
	return &ArchiveService{
		transactions: transactions,
		snapshots:    snapshots,
		client:       client,
		bucket:       bucket,
		retention:    config.ArchiveRetention,
		met:          met,
		now:          time.Now,
	}
}

// NewArchiveClient builds the S3 client for the archive bucket from
// static credentials and a custom endpoint, for S3-compatible object
// stores.
func NewArchiveClient(key, secret, region, endpoint string) (*s3.Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{URL: endpoint}, nil
	})

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load archive storage config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Run exports every history row older than the retention window and
// deletes what was exported. One table failing does not stop the
// other; the error summarizes how many failed.
func (s *ArchiveService) Run(ctx context.Context) error {
	cutoff := s.now().Add(-s.retention)
	day := s.now().Format("2006-01-02")

	failed := 0

	txns, err := s.transactions.GetOlderThan(ctx, cutoff)
	if err == nil {
		err = archiveRows(ctx, s, "transactions", day, cutoff, txns,
			func(t *models.Transaction) string { return t.GuildID },
			s.transactions.DeleteOlderThan)
	}
	if err != nil {
		failed++
		slog.Error("Archive export failed",
			slog.String("type", "services"),
			slog.String("table", "transactions"),
			slog.String("error", err.Error()))
	}

	snapshots, err := s.snapshots.GetOlderThan(ctx, cutoff)
	if err == nil {
		err = archiveRows(ctx, s, "market_snapshots", day, cutoff, snapshots,
			func(m *models.MarketSnapshot) string { return m.GuildID },
			s.snapshots.DeleteOlderThan)
	}
	if err != nil {
		failed++
		slog.Error("Archive export failed",
			slog.String("type", "services"),
			slog.String("table", "market_snapshots"),
			slog.String("error", err.Error()))
	}

	if failed > 0 {
		return fmt.Errorf("%d of 2 archive exports failed", failed)
	}
	return nil
}

// archiveRows uploads one table's aged rows grouped by tenant, then
// prunes with the same cutoff the rows were read with, so the deleted
// set is exactly the exported set.
func archiveRows[T any](
	ctx context.Context,
	s *ArchiveService,
	table, day string,
	cutoff time.Time,
	rows []T,
	guildOf func(T) string,
	prune func(ctx context.Context, cutoff time.Time) (int64, error),
) error {
	if len(rows) == 0 {
		return nil
	}

	groups := make(map[string][]T)
	for _, row := range rows {
		groups[guildOf(row)] = append(groups[guildOf(row)], row)
	}

	for guildID, group := range groups {
		body, err := jsonLines(group)
		if err != nil {
			return fmt.Errorf("failed to encode %s for guild %s: %w", table, guildID, err)
		}
		key := fmt.Sprintf("archives/%s/%s/%s.jsonl", table, guildID, day)
		if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(body),
			ContentType: aws.String("application/x-ndjson"),
		}); err != nil {
			return fmt.Errorf("failed to upload %s: %w", key, err)
		}
	}

	deleted, err := prune(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune exported %s: %w", table, err)
	}
	s.met.AddArchivedRecords(table, deleted)

	slog.Info("Archived history rows",
		slog.String("type", "services"),
		slog.String("table", table),
		slog.Int("guilds", len(groups)),
		slog.Int64("rows", deleted))
	return nil
}

func jsonLines[T any](rows []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
