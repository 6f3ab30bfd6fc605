package db

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Project-Sylos/Mend/internal/types"
	"github.com/Project-Sylos/Mend/internal/utils"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
)

var (
	// ErrNodeNotFound is returned when no node matches the lookup
	ErrNodeNotFound = errors.New("node not found")
	// ErrNodeExists is returned when a node already occupies the target path
	ErrNodeExists = errors.New("node already exists")
	// ErrNotFolder is returned when a parent path resolves to a file
	ErrNotFolder = errors.New("parent is not a folder")
	// ErrInvalidMove is returned for moves of the root or into the moved subtree
	ErrInvalidMove = errors.New("invalid move")
)

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// DB wraps the DuckDB connection and provides node CRUD operations keyed by path
type DB struct {
	conn *sql.DB
	mu   sync.Mutex // Protects all database operations from concurrent access
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	// ":memory:" and "" both open an in-memory database
	if dbPath == ":memory:" {
		dbPath = ""
	}

	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB connection: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}

	if err := db.InitializeSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// InitializeSchema creates the nodes table and indexes, then ensures the root node exists
func (db *DB) InitializeSchema() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.conn.Exec(BuildNodesTableSQL()); err != nil {
		return fmt.Errorf("failed to create nodes table: %w", err)
	}

	for _, stmt := range BuildIndexesSQL() {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return db.ensureRootLocked()
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// ensureRootLocked inserts the root folder if missing. Caller holds mu.
func (db *DB) ensureRootLocked() error {
	var exists bool
	if err := db.conn.QueryRow("SELECT EXISTS(SELECT 1 FROM nodes WHERE id = ?)", types.RootID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check root existence: %w", err)
	}
	if exists {
		return nil
	}

	root := &types.Node{
		ID:          types.RootID,
		ParentID:    "",
		Name:        "",
		Path:        "/",
		Type:        types.NodeTypeFolder,
		DepthLevel:  0,
		LastUpdated: time.Now().UTC(),
	}
	if err := insertNode(db.conn, root); err != nil {
		return fmt.Errorf("failed to create root node: %w", err)
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertNode(ex execer, node *types.Node) error {
	var checksum any
	if node.Checksum != "" {
		checksum = node.Checksum
	}

	query := fmt.Sprintf("INSERT INTO nodes (%s) VALUES (%s)", selectColumns(), placeholders())
	_, err := ex.Exec(query,
		node.ID,
		node.ParentID,
		node.Name,
		node.Path,
		node.Type,
		node.DepthLevel,
		node.Size,
		node.LastUpdated,
		checksum,
	)
	if err != nil {
		return fmt.Errorf("failed to insert node %s: %w", node.ID, err)
	}
	return nil
}

func scanNode(row rowScanner) (*types.Node, error) {
	node := &types.Node{}
	var checksum sql.NullString
	if err := row.Scan(
		&node.ID,
		&node.ParentID,
		&node.Name,
		&node.Path,
		&node.Type,
		&node.DepthLevel,
		&node.Size,
		&node.LastUpdated,
		&checksum,
	); err != nil {
		return nil, err
	}
	node.Checksum = checksum.String
	return node, nil
}

func (db *DB) queryOneLocked(where string, args ...any) (*types.Node, error) {
	query := fmt.Sprintf("SELECT %s FROM nodes WHERE %s", selectColumns(), where)
	node, err := scanNode(db.conn.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query node: %w", err)
	}
	return node, nil
}

// GetNodeByID retrieves a node by its ID
func (db *DB) GetNodeByID(id string) (*types.Node, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	node, err := db.queryOneLocked("id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get node %s: %w", id, err)
	}
	return node, nil
}

// GetNodeByPath retrieves a node by its absolute path. The path is cleaned first.
func (db *DB) GetNodeByPath(path string) (*types.Node, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	path = utils.CleanPath(path)
	node, err := db.queryOneLocked("path = ?", path)
	if err != nil {
		return nil, fmt.Errorf("get node %s: %w", path, err)
	}
	return node, nil
}

// Exists reports whether a node exists at the given path
func (db *DB) Exists(path string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.existsLocked(db.conn, utils.CleanPath(path))
}

// querier is satisfied by *sql.DB and *sql.Tx
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func (db *DB) existsLocked(q querier, path string) (bool, error) {
	var exists bool
	if err := q.QueryRow("SELECT EXISTS(SELECT 1 FROM nodes WHERE path = ?)", path).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existence of %s: %w", path, err)
	}
	return exists, nil
}

// GetChildrenByParentID returns the direct children of a node ordered by name
func (db *DB) GetChildrenByParentID(parentID string) ([]*types.Node, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	query := fmt.Sprintf("SELECT %s FROM nodes WHERE parent_id = ? ORDER BY type, name", selectColumns())
	rows, err := db.conn.Query(query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	children := make([]*types.Node, 0)
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan child node: %w", err)
		}
		children = append(children, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate children: %w", err)
	}
	return children, nil
}

// CreateNode inserts a new folder or file under the folder at parentPath.
// It fails with ErrNodeExists when the target path is taken.
func (db *DB) CreateNode(parentPath, name, nodeType string, size int64, checksum string) (*types.Node, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	parentPath = utils.CleanPath(parentPath)
	parent, err := db.queryOneLocked("path = ?", parentPath)
	if err != nil {
		return nil, fmt.Errorf("get parent %s: %w", parentPath, err)
	}
	if !parent.IsFolder() {
		return nil, fmt.Errorf("%s: %w", parentPath, ErrNotFolder)
	}

	path := utils.CleanPath(parentPath, name)
	exists, err := db.existsLocked(db.conn, path)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%s: %w", path, ErrNodeExists)
	}

	node := &types.Node{
		ID:          types.NodePrefix + uuid.New().String(),
		ParentID:    parent.ID,
		Name:        name,
		Path:        path,
		Type:        nodeType,
		DepthLevel:  parent.DepthLevel + 1,
		Size:        size,
		LastUpdated: time.Now().UTC(),
		Checksum:    checksum,
	}
	if err := insertNode(db.conn, node); err != nil {
		return nil, err
	}
	return node, nil
}

// MoveNode atomically moves the node at source to destination, rewriting the
// paths of every descendant in the same transaction. The destination's parent
// must be an existing folder and the destination itself must be free.
func (db *DB) MoveNode(source, destination string) (*types.Node, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	source = utils.CleanPath(source)
	destination = utils.CleanPath(destination)

	if source == "/" || destination == "/" {
		return nil, fmt.Errorf("cannot move root: %w", ErrInvalidMove)
	}
	if utils.IsWithin(destination, source) {
		return nil, fmt.Errorf("cannot move %s into itself: %w", source, ErrInvalidMove)
	}

	node, err := db.queryOneLocked("path = ?", source)
	if err != nil {
		return nil, fmt.Errorf("get source %s: %w", source, err)
	}

	parentPath, name := utils.SplitPath(destination)
	parent, err := db.queryOneLocked("path = ?", parentPath)
	if err != nil {
		return nil, fmt.Errorf("get destination parent %s: %w", parentPath, err)
	}
	if !parent.IsFolder() {
		return nil, fmt.Errorf("%s: %w", parentPath, ErrNotFolder)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := db.existsLocked(tx, destination)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%s: %w", destination, ErrNodeExists)
	}

	depthDelta := parent.DepthLevel + 1 - node.DepthLevel
	now := time.Now().UTC()

	if _, err := tx.Exec(
		"UPDATE nodes SET parent_id = ?, name = ?, path = ?, depth_level = ?, last_updated = ? WHERE id = ?",
		parent.ID, name, destination, parent.DepthLevel+1, now, node.ID,
	); err != nil {
		return nil, fmt.Errorf("failed to move node %s: %w", node.ID, err)
	}

	if node.IsFolder() {
		// substr is 1-based and counts characters, not bytes: keep everything
		// from the "/" after the old prefix
		if _, err := tx.Exec(
			"UPDATE nodes SET path = ? || substr(path, ?), depth_level = depth_level + ? WHERE starts_with(path, ?)",
			destination, utf8.RuneCountInString(source)+1, depthDelta, source+"/",
		); err != nil {
			return nil, fmt.Errorf("failed to move descendants of %s: %w", source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit move: %w", err)
	}

	node.ParentID = parent.ID
	node.Name = name
	node.Path = destination
	node.DepthLevel = parent.DepthLevel + 1
	node.LastUpdated = now
	return node, nil
}

// DeleteNode deletes the node at path and, for folders, everything beneath it
func (db *DB) DeleteNode(path string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	path = utils.CleanPath(path)
	if path == "/" {
		return fmt.Errorf("cannot delete root: %w", ErrInvalidMove)
	}

	result, err := db.conn.Exec("DELETE FROM nodes WHERE path = ? OR starts_with(path, ?)", path, path+"/")
	if err != nil {
		return fmt.Errorf("failed to delete node %s: %w", path, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete %s: %w", path, ErrNodeNotFound)
	}
	return nil
}

// Reset removes every node and recreates the root
func (db *DB) Reset() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.conn.Exec("DELETE FROM nodes"); err != nil {
		return fmt.Errorf("failed to delete all nodes: %w", err)
	}
	return db.ensureRootLocked()
}

// GetNodeCount returns the number of nodes, root included
func (db *DB) GetNodeCount() (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var count int
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count nodes: %w", err)
	}
	return count, nil
}

// ListPaths returns every node path in lexical order
func (db *DB) ListPaths() ([]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rows, err := db.conn.Query("SELECT path FROM nodes ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("failed to list paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
