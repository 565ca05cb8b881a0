package secret

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/meferspb/erpnext-debian13-install/internal/ports"
)

// ErrPersistence indicates a secret file could not be written or its
// permissions could not be restricted. Always fatal for the run: an
// unprotected secret is worse than no secret.
var ErrPersistence = errors.New("cannot protect secret file")

const (
	dirMode  = os.FileMode(0o700)
	fileMode = os.FileMode(0o600)
)

// Store persists one file per secret purpose under an owner-only
// credentials directory.
type Store struct {
	fs  ports.FileSystem
	dir string
	log ports.Logger
}

// NewStore creates a store rooted at dir.
func NewStore(fs ports.FileSystem, dir string, log ports.Logger) *Store {
	return &Store{fs: fs, dir: dir, log: log}
}

// Dir returns the credentials directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file backing a purpose.
func (s *Store) Path(purpose string) string {
	return filepath.Join(s.dir, purpose)
}

// Persist writes the value for a purpose and guarantees owner-only
// permission bits on every exit path, including a failed write that
// left a partial file behind.
func (s *Store) Persist(purpose, value string) (err error) {
	if mkErr := s.fs.MkdirAll(s.dir, dirMode); mkErr != nil {
		return fmt.Errorf("%w: create %s: %v", ErrPersistence, s.dir, mkErr)
	}

	path := s.Path(purpose)

	// Scoped restrict: runs after the write on success and failure
	// alike, so an interrupted write never leaves a readable file.
	defer func() {
		if !s.fs.Exists(path) {
			return
		}
		if chErr := s.fs.Chmod(path, fileMode); chErr != nil {
			err = fmt.Errorf("%w: restrict %s: %v", ErrPersistence, path, chErr)
			return
		}
		info, stErr := s.fs.Stat(path)
		if stErr != nil {
			err = fmt.Errorf("%w: verify %s: %v", ErrPersistence, path, stErr)
			return
		}
		if info.Mode().Perm() != fileMode {
			err = fmt.Errorf("%w: %s has mode %o, want %o", ErrPersistence, path, info.Mode().Perm(), fileMode)
		}
	}()

	if wrErr := s.fs.WriteFile(path, []byte(value+"\n"), fileMode); wrErr != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, path, wrErr)
	}
	return nil
}

// Load returns the previously persisted value for a purpose. A missing
// file is ErrNotFound; a malformed file is recoverable and reported as
// ErrNotFound after a warning.
func (s *Store) Load(purpose string) (Secret, error) {
	path := s.Path(purpose)
	if !s.fs.Exists(path) {
		return Secret{}, ErrNotFound
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return Secret{}, fmt.Errorf("read %s: %w", path, err)
	}

	value := strings.TrimSpace(string(data))
	if !wellFormed(value) {
		s.log.Warn("malformed credential file, ignoring", ports.F("purpose", purpose), ports.F("path", path))
		return Secret{}, ErrNotFound
	}

	return Secret{Purpose: purpose, Value: value}, nil
}

// GenerateOrReuse returns the persisted value for a purpose when one
// exists, otherwise generates and persists a fresh one. A value is
// never regenerated silently: reuse is logged so already-configured
// consumers keep working.
func (s *Store) GenerateOrReuse(purpose string, length int, charset string) (Secret, error) {
	if existing, err := s.Load(purpose); err == nil {
		s.log.Warn("reusing existing credential", ports.F("purpose", purpose))
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return Secret{}, err
	}

	sec, err := Generate(purpose, length, charset)
	if err != nil {
		return Secret{}, err
	}
	if err := s.Persist(purpose, sec.Value); err != nil {
		return Secret{}, err
	}
	return sec, nil
}

// Supply stores an externally supplied value (environment variable or
// operator input) for a purpose, reusing a persisted copy if present.
func (s *Store) Supply(purpose, value string) (Secret, error) {
	if existing, err := s.Load(purpose); err == nil {
		s.log.Warn("reusing existing credential", ports.F("purpose", purpose))
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return Secret{}, err
	}

	sec := Secret{Purpose: purpose, Value: value}
	if err := s.Persist(purpose, value); err != nil {
		return Secret{}, err
	}
	return sec, nil
}

// Ask prompts the operator for a value without echoing it. Used only in
// interactive mode when generation is declined; an empty answer means
// "generate one for me".
func (s *Store) Ask(purpose, title string, prompter ports.Prompter) (Secret, error) {
	value, err := prompter.Password(title)
	if err != nil {
		return Secret{}, err
	}
	if value == "" {
		return s.GenerateOrReuse(purpose, DefaultLength, CharsetAlnum)
	}
	return s.Supply(purpose, value)
}

// RemoveAll deletes the credentials directory. Only the explicit
// uninstall path calls this.
func (s *Store) RemoveAll() error {
	return s.fs.RemoveAll(s.dir)
}

// wellFormed rejects empty values and control characters, which a
// credential file never legitimately contains.
func wellFormed(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
