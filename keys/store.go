package keys

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store is a simple local-first keystore: one file per key under a
// directory, mode 0600, holding "<scheme>:<hex seed>".
type Store struct {
	Directory string
}

// Entry describes one stored key without exposing its seed.
type Entry struct {
	Name        string
	SchemeName  string
	Fingerprint string
}

// DefaultDirectory is ~/.geocam/keys.
func DefaultDirectory() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".geocam", "keys"), nil
}

// NewStore opens (and creates if needed) a keystore directory. An empty
// directory argument selects the default.
func NewStore(directory string) (*Store, error) {
	if directory == "" {
		var err error
		directory, err = DefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(directory, 0o700); err != nil {
		return nil, err
	}
	return &Store{Directory: directory}, nil
}

// CheckKeyName restricts key names to filesystem-safe characters.
func CheckKeyName(name string) error {
	if name == "" {
		return errors.New("keys: name cannot be empty")
	}
	for _, char := range name {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("keys: invalid character %q in name", char)
	}
	return nil
}

func (s *Store) pathFor(name string) string {
	return filepath.Join(s.Directory, name+".key")
}

// Save writes the keypair's seed file. Refuses to overwrite an existing key
// unless overwrite is set.
func (s *Store) Save(name string, kp *KeyPair, overwrite bool) error {
	if err := CheckKeyName(name); err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(s.pathFor(name), flags, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "%s:%s\n", kp.SchemeName, hex.EncodeToString(kp.seed)); err != nil {
		return err
	}
	return f.Sync()
}

// Load reads a stored key back into a usable keypair.
func (s *Store) Load(name string) (*KeyPair, error) {
	if err := CheckKeyName(name); err != nil {
		return nil, err
	}
	return LoadFile(s.pathFor(name))
}

// LoadFile parses a "<scheme>:<hex seed>" key file.
func LoadFile(path string) (*KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	schemeName, seedHex, ok := strings.Cut(strings.TrimSpace(string(data)), ":")
	if !ok {
		return nil, fmt.Errorf("keys: malformed key file %s", path)
	}
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("keys: malformed seed in %s: %w", path, err)
	}
	return FromSeed(schemeName, seed)
}

// Delete removes a stored key.
func (s *Store) Delete(name string) error {
	if err := CheckKeyName(name); err != nil {
		return err
	}
	return os.Remove(s.pathFor(name))
}

// List returns the stored keys sorted by name.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.Directory)
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".key") {
			continue
		}
		name := strings.TrimSuffix(de.Name(), ".key")
		kp, err := s.Load(name)
		if err != nil {
			continue // unreadable entries are skipped, not fatal
		}
		out = append(out, Entry{Name: name, SchemeName: kp.SchemeName, Fingerprint: kp.Fingerprint()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
