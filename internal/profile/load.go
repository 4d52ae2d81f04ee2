package profile

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"strings"
)

// Source holds profile text read from a file or stdin, with its content hash.
type Source struct {
	FilePath string
	Raw      string
	Lines    []string
	Hash     string
}

// Load reads profile text from path, or from stdin when path is "-", and
// computes its SHA-256 hash.
func Load(path string) (*Source, error) {
	if path == "-" {
		return Read(os.Stdin, "-")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile.Load: %w", err)
	}
	return newSource(path, data), nil
}

// Read reads profile text from r. name is recorded as the source path.
func Read(r io.Reader, name string) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("profile.Read: %w", err)
	}
	return newSource(name, data), nil
}

func newSource(path string, data []byte) *Source {
	raw := string(data)
	h := sha256.Sum256(data)
	return &Source{
		FilePath: path,
		Raw:      raw,
		Lines:    strings.Split(raw, "\n"),
		Hash:     fmt.Sprintf("sha256:%x", h),
	}
}

// Record parses the source text.
func (s *Source) Record() Record {
	return Parse(s.Raw)
}
