// Package graph wraps the Neo4j driver behind the narrow query interface the
// recommendation pipeline depends on.
package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rotisserie/eris"

	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/resilience"
)

// Service executes parametrized Cypher queries and returns the result rows as
// field-name keyed maps.
type Service interface {
	Run(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error)
}

// Client is the Neo4j-backed Service implementation.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
	retry    resilience.RetryConfig
}

// NewClient connects to Neo4j with basic auth and verifies connectivity.
func NewClient(ctx context.Context, uri, user, password, database string) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, eris.Wrap(err, "graph: create driver")
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, eris.Wrap(err, "graph: verify connectivity")
	}

	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("neo4j", "run")

	return &Client{driver: driver, database: database, retry: retry}, nil
}

// Run executes one Cypher query and eagerly collects the result rows.
// Transient driver failures are retried with backoff.
func (c *Client) Run(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error) {
	result, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*neo4j.EagerResult, error) {
		return neo4j.ExecuteQuery(ctx, c.driver, cypher, params,
			neo4j.EagerResultTransformer,
			neo4j.ExecuteQueryWithDatabase(c.database),
		)
	})
	if err != nil {
		return nil, eris.Wrap(err, "graph: run query")
	}

	rows := make([]map[string]any, 0, len(result.Records))
	for _, rec := range result.Records {
		rows = append(rows, rec.AsMap())
	}
	return rows, nil
}

// Close releases the underlying driver.
func (c *Client) Close(ctx context.Context) error {
	return eris.Wrap(c.driver.Close(ctx), "graph: close driver")
}
