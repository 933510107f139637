package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"

	sent "github.com/revelaction/learnspacy/sentence"
	"github.com/revelaction/learnspacy/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// CacheStore stores annotated docs keyed by (model, text) and similarity
// scores keyed by (model, a, b).
type CacheStore struct {
	pool *sqlitex.Pool
}

var _ storage.DocRepository = (*CacheStore)(nil)
var _ storage.ScoreRepository = (*CacheStore)(nil)

func NewCacheStore(pool *sqlitex.Pool) *CacheStore {
	return &CacheStore{pool: pool}
}

func (h *CacheStore) List() ([]sent.Doc, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var docs []sent.Doc
	err = sqlitex.Execute(conn, "SELECT id, title, model, text FROM docs ORDER BY id", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			docs = append(docs, sent.Doc{
				Id:    stmt.ColumnInt(0),
				Title: stmt.ColumnText(1),
				Model: stmt.ColumnText(2),
				Text:  stmt.ColumnText(3),
			})
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (h *CacheStore) Find(model, text string) (sent.Doc, bool, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return sent.Doc{}, false, err
	}
	defer h.pool.Put(conn)

	var doc sent.Doc
	found := false

	err = sqlitex.Execute(conn, "SELECT id, data FROM docs WHERE model = ? AND text = ?", &sqlitex.ExecOptions{
		Args: []interface{}{model, text},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			if err := json.Unmarshal([]byte(stmt.ColumnText(1)), &doc); err != nil {
				return fmt.Errorf("JSON decoding error: %w", err)
			}
			doc.Id = stmt.ColumnInt(0)
			return nil
		},
	})
	if err != nil {
		return sent.Doc{}, false, err
	}

	return doc, found, nil
}

// Write inserts doc, replacing the tokens and entities of a previous doc for
// the same model and text.
func (h *CacheStore) Write(doc sent.Doc) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	err = sqlitex.Execute(conn, `INSERT INTO docs (title, model, text, data) VALUES (?, ?, ?, ?)
		ON CONFLICT (model, text) DO UPDATE SET title = excluded.title, data = excluded.data`, &sqlitex.ExecOptions{
		Args: []interface{}{doc.Title, doc.Model, doc.Text, string(data)},
	})
	if err != nil {
		return fmt.Errorf("failed to insert doc: %w", err)
	}

	return nil
}

func (h *CacheStore) Score(model, within, a, b string) (float64, bool, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return 0, false, err
	}
	defer h.pool.Put(conn)

	var score float64
	found := false

	err = sqlitex.Execute(conn, "SELECT score FROM scores WHERE model = ? AND context = ? AND a = ? AND b = ?", &sqlitex.ExecOptions{
		Args: []interface{}{model, within, a, b},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			score = stmt.ColumnFloat(0)
			return nil
		},
	})
	if err != nil {
		return 0, false, err
	}

	return score, found, nil
}

func (h *CacheStore) WriteScore(model, within, a, b string, score float64) error {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	err = sqlitex.Execute(conn, "INSERT OR REPLACE INTO scores (model, context, a, b, score) VALUES (?, ?, ?, ?, ?)", &sqlitex.ExecOptions{
		Args: []interface{}{model, within, a, b, score},
	})
	if err != nil {
		return fmt.Errorf("failed to insert score: %w", err)
	}

	return nil
}
