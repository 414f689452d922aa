package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// The pepper is a server-wide secret appended to every password before
// hashing. It lives in a file beside the database; losing the file makes
// every stored argon2id hash unverifiable.
var (
	pepperMu   sync.Mutex
	pepper     string
	pepperFile string
)

// minPepperLen rejects truncated or placeholder pepper files.
const minPepperLen = 16

var ErrPepperTooShort = errors.New("cryptox: pepper file is too short")

// SetPepperPath selects the pepper file and forgets any pepper already
// loaded from a previous path.
func SetPepperPath(file string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepperFile = file
	pepper = ""
}

// LoadPepper reads the pepper file, creating it with fresh random bytes on
// first start. Call it during startup so a bad file stops the process
// before it serves requests.
func LoadPepper() error {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	return loadPepperLocked()
}

// GetPepper returns the pepper, loading it on first use. A pepper that
// cannot be loaded is fatal: hashing without it would produce hashes that
// never verify once it comes back.
func GetPepper() string {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	if pepper == "" {
		if err := loadPepperLocked(); err != nil {
			slog.Error("failed to load or generate pepper", slog.Any("err", err))
			os.Exit(1)
		}
	}
	return pepper
}

func loadPepperLocked() error {
	if pepperFile == "" {
		return errors.New("cryptox: pepper path not set")
	}

	path := filepath.Clean(pepperFile)
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		p := strings.TrimSpace(string(raw))
		if len(p) < minPepperLen {
			return fmt.Errorf("%w: %s", ErrPepperTooShort, path)
		}
		pepper = p
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("cryptox: read pepper: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("cryptox: create pepper dir: %w", err)
	}

	b := make([]byte, keyLength)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	p := base64.RawURLEncoding.EncodeToString(b)

	// O_EXCL so two processes starting together cannot each write their own.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, os.ErrExist) {
		return loadExistingLocked(path)
	}
	if err != nil {
		return fmt.Errorf("cryptox: create pepper: %w", err)
	}
	if _, err := f.WriteString(p); err != nil {
		_ = f.Close()
		return fmt.Errorf("cryptox: write pepper: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	slog.Info("generated new password pepper", slog.String("path", path))
	pepper = p
	return nil
}

func loadExistingLocked(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cryptox: read pepper: %w", err)
	}
	p := strings.TrimSpace(string(raw))
	if len(p) < minPepperLen {
		return fmt.Errorf("%w: %s", ErrPepperTooShort, path)
	}
	pepper = p
	return nil
}
