package brushbot

import (
	"database/sql"
	"fmt"

	"github.com/bodgit/brushbot/compile"
	_ "github.com/mattn/go-sqlite3"
)

// PlanDB caches compiled color maps by image checksum and the fingerprint
// of the settings they were compiled with.
type PlanDB struct {
	db *sql.DB
}

func NewPlanDB(file string) (*PlanDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS plan (image_id INTEGER NOT NULL, fingerprint TEXT NOT NULL, colormap BLOB NOT NULL, UNIQUE(image_id, fingerprint), FOREIGN KEY(image_id) REFERENCES image(id))"); err != nil {
		return nil, err
	}

	return &PlanDB{
		db: db,
	}, nil
}

func (db *PlanDB) Close() error {
	return db.db.Close()
}

func (db *PlanDB) addImage(sha string) (int64, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM image WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT OR IGNORE INTO image (sha1) VALUES (?)", sha)
		if err != nil {
			return 0, err
		}
		if n, _ := result.RowsAffected(); n == 0 {
			// Lost a race with another worker
			return db.addImage(sha)
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// StorePlan stores cm for the image with the given SHA-1, replacing any
// plan with the same fingerprint.
func (db *PlanDB) StorePlan(sha, fingerprint string, cm *compile.ColorMap) error {
	b, err := cm.MarshalBinary()
	if err != nil {
		return err
	}

	id, err := db.addImage(sha)
	if err != nil {
		return err
	}

	if _, err := db.db.Exec("INSERT OR REPLACE INTO plan (image_id, fingerprint, colormap) VALUES (?, ?, ?)", id, fingerprint, b); err != nil {
		return err
	}
	return nil
}

// FindPlan returns the stored plan for the image with the given SHA-1 and
// fingerprint, or nil if there isn't one.
func (db *PlanDB) FindPlan(sha, fingerprint string) (*compile.ColorMap, error) {
	var b []byte
	switch err := db.db.QueryRow("SELECT p.colormap FROM plan AS p JOIN image AS i ON p.image_id = i.id WHERE i.sha1 = ? AND p.fingerprint = ?", sha, fingerprint).Scan(&b); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		cm := compile.NewColorMap()
		if err := cm.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		return cm, nil
	default:
		return nil, err
	}
}

// Plans returns how many plans are stored for the image with the given
// SHA-1.
func (db *PlanDB) Plans(sha string) (int, error) {
	var n int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM plan AS p JOIN image AS i ON p.image_id = i.id WHERE i.sha1 = ?", sha).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
