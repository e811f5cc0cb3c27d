package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the road graph cache tables.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createGraphsQuery := `
	CREATE TABLE IF NOT EXISTS road_graphs (
		graph_key TEXT PRIMARY KEY,
		node_count INTEGER NOT NULL,
		edge_count INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createNodesQuery := `
	CREATE TABLE IF NOT EXISTS road_graph_nodes (
		graph_key TEXT NOT NULL REFERENCES road_graphs(graph_key) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		node_id BIGINT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (graph_key, seq),
		UNIQUE (graph_key, node_id)
	);
	`

	createEdgesQuery := `
	CREATE TABLE IF NOT EXISTS road_graph_edges (
		graph_key TEXT NOT NULL REFERENCES road_graphs(graph_key) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		from_node BIGINT NOT NULL,
		to_node BIGINT NOT NULL,
		length_meters DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (graph_key, seq)
	);
	`

	statements := []string{
		createGraphsQuery,
		createNodesQuery,
		createEdgesQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
