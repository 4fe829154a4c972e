// Package backup produces and rotates zipped database backups. Each archive
// holds a pg_dump of the database, a copy of the uploads directory, and a
// metadata.json describing the snapshot.
package backup

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hasanq/muhasaba/pkg/config"
)

// Metadata describes one backup archive.
type Metadata struct {
	CreatedAt time.Time `json:"created_at"`
	Database  string    `json:"database"`
	AppName   string    `json:"app_name"`
	DumpBytes int64     `json:"dump_bytes"`
	Files     int       `json:"files"`
}

// Info is one entry of the backup listing.
type Info struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// Service creates, lists, and prunes backups.
type Service struct {
	db      config.DBConfig
	cfg     config.BackupConfig
	appName string
	log     zerolog.Logger
}

// NewService builds the backup service.
func NewService(db config.DBConfig, cfg config.BackupConfig, appName string, log zerolog.Logger) *Service {
	return &Service{db: db, cfg: cfg, appName: appName, log: log}
}

// Create runs pg_dump, bundles the dump, the uploads directory, and
// metadata.json into a timestamped zip under the backup directory, and prunes
// old archives past the retention count. Returns the archive path.
func (s *Service) Create(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("backup: create dir: %w", err)
	}

	dump, err := s.dump(ctx)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("backup-%s.zip", time.Now().Format("20060102-150405"))
	path := filepath.Join(s.cfg.Dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("backup: create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	w, err := zw.Create("database.sql")
	if err != nil {
		return "", fmt.Errorf("backup: zip entry: %w", err)
	}
	if _, err := w.Write(dump); err != nil {
		return "", fmt.Errorf("backup: write dump: %w", err)
	}

	files, err := s.addUploads(zw)
	if err != nil {
		return "", err
	}

	meta := Metadata{
		CreatedAt: time.Now(),
		Database:  s.db.DBName,
		AppName:   s.appName,
		DumpBytes: int64(len(dump)),
		Files:     files,
	}
	mw, err := zw.Create("metadata.json")
	if err != nil {
		return "", fmt.Errorf("backup: zip entry: %w", err)
	}
	if err := json.NewEncoder(mw).Encode(meta); err != nil {
		return "", fmt.Errorf("backup: write metadata: %w", err)
	}

	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("backup: close archive: %w", err)
	}

	s.log.Info().Str("archive", path).Int64("dump_bytes", meta.DumpBytes).Int("files", files).Msg("backup created")

	if err := s.prune(); err != nil {
		s.log.Warn().Err(err).Msg("backup prune failed")
	}
	return path, nil
}

// List returns the existing archives, newest first.
func (s *Service) List() ([]Info, error) {
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("backup: read dir: %w", err)
	}
	var infos []Info
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".zip") {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			Name:      e.Name(),
			SizeBytes: fi.Size(),
			CreatedAt: fi.ModTime(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].CreatedAt.After(infos[j].CreatedAt) })
	return infos, nil
}

// Path returns the absolute path of a named archive, rejecting names that
// escape the backup directory.
func (s *Service) Path(name string) (string, error) {
	if name != filepath.Base(name) || !strings.HasSuffix(name, ".zip") {
		return "", fmt.Errorf("backup: invalid archive name %q", name)
	}
	path := filepath.Join(s.cfg.Dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("backup: stat archive: %w", err)
	}
	return path, nil
}

func (s *Service) dump(ctx context.Context) ([]byte, error) {
	args := []string{
		"--no-owner",
		"--no-privileges",
		"--host", s.db.Host,
		"--port", fmt.Sprintf("%d", s.db.Port),
		"--username", s.db.User,
		"--dbname", s.db.DBName,
	}
	cmd := exec.CommandContext(ctx, "pg_dump", args...)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+s.db.Password)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("backup: pg_dump: %w: %s", err, stderr.String())
	}
	return out.Bytes(), nil
}

func (s *Service) addUploads(zw *zip.Writer) (int, error) {
	if s.cfg.UploadsDir == "" {
		return 0, nil
	}
	count := 0
	err := filepath.WalkDir(s.cfg.UploadsDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.cfg.UploadsDir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(filepath.Join("uploads", rel)))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := io.Copy(w, f); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("backup: add uploads: %w", err)
	}
	return count, nil
}

// prune deletes the oldest archives beyond the retention count.
func (s *Service) prune() error {
	if s.cfg.Keep <= 0 {
		return nil
	}
	infos, err := s.List()
	if err != nil {
		return err
	}
	for _, old := range infos[min(s.cfg.Keep, len(infos)):] {
		path := filepath.Join(s.cfg.Dir, old.Name)
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", old.Name, err)
		}
		s.log.Info().Str("archive", old.Name).Msg("old backup removed")
	}
	return nil
}
