package cache

import (
	"context"
	"database/sql"
	"depot-route-service/internal/domain"
	"depot-route-service/internal/platform/obs"
	"depot-route-service/internal/roadgraph"
	"errors"
	"fmt"
	"strings"
)

// Rows sent per INSERT ... SELECT FROM unnest(...) batch.
const batchSize = 5000

// SQLGraphCache is a Postgres-backed cache for built road graphs, keyed by
// normalized region set.
type SQLGraphCache struct {
	DB *sql.DB
}

func NewSQLGraphCache(db *sql.DB) *SQLGraphCache {
	return &SQLGraphCache{DB: db}
}

// GetGraph rebuilds a cached graph in its original node and edge order. A missing key is (nil, false, nil).
func (s *SQLGraphCache) GetGraph(ctx context.Context, key string) (_ *roadgraph.RoadGraph, _ bool, err error) {
	defer obs.Time(ctx, "graph.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("graph cache: db is nil")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, errors.New("get graph cache: key must not be empty")
	}

	var nodeCount, edgeCount int
	err = s.DB.QueryRowContext(ctx,
		`SELECT node_count, edge_count FROM road_graphs WHERE graph_key = $1;`,
		key,
	).Scan(&nodeCount, &edgeCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get graph cache: query road_graphs: %w", err)
	}

	b := roadgraph.NewBuilder()

	nodeRows, err := s.DB.QueryContext(ctx,
		`SELECT node_id, lat, lon FROM road_graph_nodes WHERE graph_key = $1 ORDER BY seq;`,
		key,
	)
	if err != nil {
		return nil, false, fmt.Errorf("get graph cache: query road_graph_nodes: %w", err)
	}
	defer nodeRows.Close()

	for nodeRows.Next() {
		var id int64
		var lat, lon float64
		if err := nodeRows.Scan(&id, &lat, &lon); err != nil {
			return nil, false, fmt.Errorf("get graph cache: scan node: %w", err)
		}
		b.AddNode(domain.NodeRef(id), lat, lon)
	}
	if err := nodeRows.Err(); err != nil {
		return nil, false, fmt.Errorf("get graph cache: node iteration: %w", err)
	}

	edgeRows, err := s.DB.QueryContext(ctx,
		`SELECT from_node, to_node, length_meters FROM road_graph_edges WHERE graph_key = $1 ORDER BY seq;`,
		key,
	)
	if err != nil {
		return nil, false, fmt.Errorf("get graph cache: query road_graph_edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var from, to int64
		var length float64
		if err := edgeRows.Scan(&from, &to, &length); err != nil {
			return nil, false, fmt.Errorf("get graph cache: scan edge: %w", err)
		}
		b.AddEdge(domain.NodeRef(from), domain.NodeRef(to), length)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, false, fmt.Errorf("get graph cache: edge iteration: %w", err)
	}

	if b.NodeCount() != nodeCount || b.EdgeCount() != edgeCount {
		return nil, false, fmt.Errorf(
			"get graph cache: %q is incomplete: nodes %d/%d edges %d/%d",
			key, b.NodeCount(), nodeCount, b.EdgeCount(), edgeCount,
		)
	}

	g, err := b.Build()
	if err != nil {
		return nil, false, fmt.Errorf("get graph cache: %w", err)
	}
	return g, true, nil
}

// PutGraph replaces the cached graph for key in a single transaction.
func (s *SQLGraphCache) PutGraph(ctx context.Context, key string, g *roadgraph.RoadGraph) (err error) {
	defer obs.Time(ctx, "graph.cache.Put")(&err)

	if s.DB == nil {
		return errors.New("graph cache: db is nil")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("insert graph cache: key must not be empty")
	}
	if g == nil {
		return errors.New("insert graph cache: graph is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert graph cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM road_graphs WHERE graph_key = $1;`, key); err != nil {
		return fmt.Errorf("insert graph cache: delete previous: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO road_graphs (graph_key, node_count, edge_count) VALUES ($1, $2, $3);`,
		key, g.NodeCount(), g.EdgeCount(),
	); err != nil {
		return fmt.Errorf("insert graph cache: insert road_graphs: %w", err)
	}

	nodes := g.Nodes()
	for start := 0; start < len(nodes); start += batchSize {
		end := min(start+batchSize, len(nodes))
		seqs := make([]int64, 0, end-start)
		ids := make([]int64, 0, end-start)
		lats := make([]float64, 0, end-start)
		lons := make([]float64, 0, end-start)
		for i, n := range nodes[start:end] {
			seqs = append(seqs, int64(start+i))
			ids = append(ids, int64(n.ID))
			lats = append(lats, n.Lat)
			lons = append(lons, n.Lon)
		}
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO road_graph_nodes (graph_key, seq, node_id, lat, lon)
		SELECT $1, * FROM unnest($2::int[], $3::bigint[], $4::float8[], $5::float8[]);
		`, key, seqs, ids, lats, lons); err != nil {
			return fmt.Errorf("insert graph cache: insert nodes [%d,%d): %w", start, end, err)
		}
	}

	edges := g.Edges()
	for start := 0; start < len(edges); start += batchSize {
		end := min(start+batchSize, len(edges))
		seqs := make([]int64, 0, end-start)
		froms := make([]int64, 0, end-start)
		tos := make([]int64, 0, end-start)
		lengths := make([]float64, 0, end-start)
		for i, e := range edges[start:end] {
			seqs = append(seqs, int64(start+i))
			froms = append(froms, int64(e.From))
			tos = append(tos, int64(e.To))
			lengths = append(lengths, e.LengthMeters)
		}
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO road_graph_edges (graph_key, seq, from_node, to_node, length_meters)
		SELECT $1, * FROM unnest($2::int[], $3::bigint[], $4::bigint[], $5::float8[]);
		`, key, seqs, froms, tos, lengths); err != nil {
			return fmt.Errorf("insert graph cache: insert edges [%d,%d): %w", start, end, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert graph cache: db commit: %w", err)
	}
	return nil
}

// Has reports whether a graph is stored for key without loading it.
func (s *SQLGraphCache) Has(ctx context.Context, key string) (bool, error) {
	if s.DB == nil {
		return false, errors.New("graph cache: db is nil")
	}
	var ok bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM road_graphs WHERE graph_key = $1);`,
		strings.TrimSpace(key),
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check graph cache: %w", err)
	}
	return ok, nil
}

// Delete drops the cached graph for key, if any.
func (s *SQLGraphCache) Delete(ctx context.Context, key string) error {
	if s.DB == nil {
		return errors.New("graph cache: db is nil")
	}
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM road_graphs WHERE graph_key = $1;`, key); err != nil {
		return fmt.Errorf("delete graph cache: %w", err)
	}
	return nil
}
