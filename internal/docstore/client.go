package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Collection names backed by the store. Collections map directly to tables,
// so anything outside this set is rejected up front.
const (
	CollectionUsers       = "users"
	CollectionExperiences = "experiences"
	CollectionBookings    = "bookings"
)

var validCollections = map[string]struct{}{
	CollectionUsers:       {},
	CollectionExperiences: {},
	CollectionBookings:    {},
}

// Document is a single stored record with its loosely-typed field map.
type Document struct {
	ID        string
	Fields    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot is the full result set of a collection, newest-created first.
type Snapshot []Document

// Client is an explicitly constructed document store handle. All reads,
// writes and watch subscriptions go through it; Close releases the watch
// machinery.
type Client struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	subs   *subscriptionSet
}

// NewClient builds a store over the given pool and starts the watch
// dispatcher. The pool is required; a store without a database has nothing
// to serve, and failing here beats a dereference inside the dispatcher.
func NewClient(pool *pgxpool.Pool, logger *zap.Logger) (*Client, error) {
	if pool == nil {
		return nil, errors.New("docstore: connection pool required")
	}
	c := &Client{pool: pool, logger: logger}
	c.subs = newSubscriptionSet(c.List, logger)
	return c, nil
}

// Close cancels all active subscriptions and stops the dispatcher.
func (c *Client) Close() {
	c.subs.close()
}

// Get fetches a single document by id.
func (c *Client) Get(ctx context.Context, collection, id string) (*Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, data, created_at, updated_at FROM %s WHERE id=$1`, collection)

	var (
		doc Document
		raw []byte
	)
	if err := c.pool.QueryRow(ctx, query, id).Scan(&doc.ID, &raw, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &doc.Fields); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Set writes a full document, replacing any existing fields.
func (c *Client) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
        INSERT INTO %s (id, data) VALUES ($1, $2)
        ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`, collection)
	if _, err := c.pool.Exec(ctx, query, id, raw); err != nil {
		return err
	}
	c.subs.notify(collection)
	return nil
}

// Update merges partial fields into an existing document.
func (c *Client) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	raw, err := json.Marshal(partial)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET data = data || $2, updated_at = NOW() WHERE id=$1`, collection)
	cmd, err := c.pool.Exec(ctx, query, id, raw)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	c.subs.notify(collection)
	return nil
}

// Add inserts a new document with a generated id. Returns the id and the
// database-assigned creation time, which is the one snapshots will carry.
func (c *Client) Add(ctx context.Context, collection string, fields map[string]any) (string, time.Time, error) {
	if err := checkCollection(collection); err != nil {
		return "", time.Time{}, err
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", time.Time{}, err
	}
	id := uuid.NewString()
	query := fmt.Sprintf(`INSERT INTO %s (id, data) VALUES ($1, $2) RETURNING created_at`, collection)
	var createdAt time.Time
	if err := c.pool.QueryRow(ctx, query, id, raw).Scan(&createdAt); err != nil {
		return "", time.Time{}, err
	}
	c.subs.notify(collection)
	return id, createdAt, nil
}

// List returns the full collection ordered by creation time descending.
func (c *Client) List(ctx context.Context, collection string) (Snapshot, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, data, created_at, updated_at FROM %s ORDER BY created_at DESC`, collection)
	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshot Snapshot
	for rows.Next() {
		var (
			doc Document
			raw []byte
		)
		if err := rows.Scan(&doc.ID, &raw, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &doc.Fields); err != nil {
			return nil, err
		}
		snapshot = append(snapshot, doc)
	}
	return snapshot, rows.Err()
}

// Watch registers a full-snapshot callback for a collection. The callback
// fires once with the current snapshot and again after every mutation of the
// collection made through this client. Deliveries for one collection arrive
// in mutation order; no ordering is guaranteed across collections.
func (c *Client) Watch(collection string, fn SnapshotFunc) (*Subscription, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	return c.subs.add(collection, fn), nil
}

func checkCollection(collection string) error {
	if _, ok := validCollections[collection]; !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}
	return nil
}
