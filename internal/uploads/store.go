package uploads

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store menyimpan lampiran (PDF DO) sebagai file lokal. Ledger hanya
// menyimpan dan meneruskan nama filenya, tidak pernah membaca isinya.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("folder upload tidak bisa dibuat: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save menulis data dan mengembalikan referensi (nama file).
func (s *Store) Save(user string, data []byte, now time.Time) (string, error) {
	name := fmt.Sprintf("%s_%s.pdf", sanitize(user), now.Format("20060102150405"))
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("lampiran gagal disimpan: %w", err)
	}
	return name, nil
}

func (s *Store) Exists(ref string) bool {
	if ref == "" {
		return false
	}
	_, err := os.Stat(s.Path(ref))
	return err == nil
}

func (s *Store) Read(ref string) ([]byte, error) {
	return os.ReadFile(s.Path(ref))
}

// Path: selalu lewat filepath.Base supaya referensi tidak bisa keluar
// dari folder upload.
func (s *Store) Path(ref string) string {
	return filepath.Join(s.dir, filepath.Base(ref))
}

func sanitize(s string) string {
	return filepath.Base(s)
}
