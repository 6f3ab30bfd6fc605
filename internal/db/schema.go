package db

import "strings"

// nodeColumns lists the nodes table columns in scan order
var nodeColumns = []string{
	"id",
	"parent_id",
	"name",
	"path",
	"type",
	"depth_level",
	"size",
	"last_updated",
	"checksum",
}

// BuildNodesTableSQL returns the statement creating the nodes table.
// Path uniqueness is enforced by the DB methods under the store mutex rather than
// by a UNIQUE constraint, since DuckDB rewrites updated index keys as delete+insert.
func BuildNodesTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS nodes (
		id VARCHAR NOT NULL,
		parent_id VARCHAR NOT NULL,
		name VARCHAR NOT NULL,
		path VARCHAR NOT NULL,
		type VARCHAR NOT NULL,
		depth_level INTEGER NOT NULL,
		size BIGINT NOT NULL DEFAULT 0,
		last_updated TIMESTAMP NOT NULL,
		checksum VARCHAR
	)`
}

// BuildIndexesSQL returns the statements creating lookup indexes
func BuildIndexesSQL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_nodes_parent_id ON nodes(parent_id)",
	}
}

func selectColumns() string {
	return strings.Join(nodeColumns, ", ")
}

func placeholders() string {
	return strings.TrimSuffix(strings.Repeat("?, ", len(nodeColumns)), ", ")
}
