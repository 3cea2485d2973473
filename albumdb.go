package photoframe

import (
	"crypto/sha1"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultAlbum is created on first use so the frame always has
// somewhere to look for photos.
const DefaultAlbum = "default"

var (
	// ErrNoAlbum is returned when an operation names an album that
	// does not exist.
	ErrNoAlbum = errors.New("photoframe: no such album")

	errBadAlbumName = errors.New("photoframe: invalid album name")
)

// Album is one named group of photos on the frame.
type Album struct {
	Name    string
	Enabled bool
}

// AlbumDB tracks albums and their converted photos. Each album owns a
// directory under the library root holding its bitmap and thumbnail
// files.
type AlbumDB struct {
	db   *sql.DB
	root string
}

// OpenAlbumDB opens or creates the album database in file, with album
// directories rooted at root.
func OpenAlbumDB(file, root string) (*AlbumDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS album (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, enabled INTEGER NOT NULL DEFAULT 1)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS photo (id INTEGER PRIMARY KEY NOT NULL, album_id INTEGER NOT NULL, name TEXT NOT NULL, sha1 TEXT NOT NULL, UNIQUE(album_id, name), FOREIGN KEY(album_id) REFERENCES album(id) ON DELETE CASCADE)"); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}

	return &AlbumDB{
		db:   db,
		root: root,
	}, nil
}

func (db *AlbumDB) Close() error {
	return db.db.Close()
}

func validAlbumName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\") || name[0] == '.' {
		return fmt.Errorf("%w: %q", errBadAlbumName, name)
	}
	return nil
}

func (db *AlbumDB) albumID(name string) (int64, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM album WHERE name = ?", name).Scan(&id); err {
	case sql.ErrNoRows:
		return 0, fmt.Errorf("%w: %q", ErrNoAlbum, name)
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// CreateAlbum creates a new album and its directory. Creating an album
// that already exists is not an error.
func (db *AlbumDB) CreateAlbum(name string) error {
	if err := validAlbumName(name); err != nil {
		return err
	}
	if _, err := db.db.Exec("INSERT OR IGNORE INTO album (name) VALUES (?)", name); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(db.root, name), 0o755)
}

// EnsureDefaultAlbum creates the default album if it is missing.
func (db *AlbumDB) EnsureDefaultAlbum() error {
	return db.CreateAlbum(DefaultAlbum)
}

// DeleteAlbum removes an album, its photo records and its directory.
func (db *AlbumDB) DeleteAlbum(name string) error {
	id, err := db.albumID(name)
	if err != nil {
		return err
	}
	if _, err := db.db.Exec("DELETE FROM album WHERE id = ?", id); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(db.root, name))
}

// SetEnabled flips whether the frame shows photos from an album.
func (db *AlbumDB) SetEnabled(name string, enabled bool) error {
	id, err := db.albumID(name)
	if err != nil {
		return err
	}
	_, err = db.db.Exec("UPDATE album SET enabled = ? WHERE id = ?", enabled, id)
	return err
}

// Enabled reports whether an album is enabled.
func (db *AlbumDB) Enabled(name string) (bool, error) {
	var enabled bool
	switch err := db.db.QueryRow("SELECT enabled FROM album WHERE name = ?", name).Scan(&enabled); err {
	case sql.ErrNoRows:
		return false, fmt.Errorf("%w: %q", ErrNoAlbum, name)
	case nil:
		return enabled, nil
	default:
		return false, err
	}
}

// Albums lists every album in name order.
func (db *AlbumDB) Albums() ([]Album, error) {
	rows, err := db.db.Query("SELECT name, enabled FROM album ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		var a Album
		if err := rows.Scan(&a.Name, &a.Enabled); err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

// EnabledAlbums lists the names of the albums the frame should show.
func (db *AlbumDB) EnabledAlbums() ([]string, error) {
	albums, err := db.Albums()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, a := range albums {
		if a.Enabled {
			names = append(names, a.Name)
		}
	}
	return names, nil
}

// AlbumPath returns the directory holding an album's converted files.
func (db *AlbumDB) AlbumPath(name string) (string, error) {
	if _, err := db.albumID(name); err != nil {
		return "", err
	}
	return filepath.Join(db.root, name), nil
}

// AddPhoto records a converted photo in an album. Photos are
// deduplicated by content hash within the album.
func (db *AlbumDB) AddPhoto(album, name, sha string) error {
	id, err := db.albumID(album)
	if err != nil {
		return err
	}

	switch err := db.db.QueryRow("SELECT id FROM photo WHERE album_id = ? AND sha1 = ?", id, sha).Scan(new(int64)); err {
	case sql.ErrNoRows:
		_, err := db.db.Exec("INSERT OR REPLACE INTO photo (album_id, name, sha1) VALUES (?, ?, ?)", id, name, sha)
		return err
	default:
		return err
	}
}

// Photos lists the photo names recorded in an album.
func (db *AlbumDB) Photos(album string) ([]string, error) {
	id, err := db.albumID(album)
	if err != nil {
		return nil, err
	}

	rows, err := db.db.Query("SELECT name FROM photo WHERE album_id = ? ORDER BY name", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func shaFile(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%X", h.Sum(nil)), nil
}

// Import converts photos into an album's directory and records them in
// the album store. The album is created if it does not exist yet.
func (pf *PhotoFrame) Import(album string, p Params, inputs ...string) error {
	if pf.albums == nil {
		return errors.New("photoframe: no album store configured")
	}

	if err := pf.albums.CreateAlbum(album); err != nil {
		return err
	}
	dir, err := pf.albums.AlbumPath(album)
	if err != nil {
		return err
	}
	p.OutputDir = dir

	for _, input := range inputs {
		sha, err := shaFile(input)
		if err != nil {
			return err
		}

		res, err := pf.Convert(input, p)
		if err != nil {
			return err
		}

		name := filepath.Base(res.Bitmap)
		if err := pf.albums.AddPhoto(album, name, sha); err != nil {
			return err
		}
		pf.logger.Info("imported", "album", album, "photo", name)
	}

	return nil
}
