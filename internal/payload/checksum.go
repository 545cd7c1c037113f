package payload

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// ChecksumFile is the name of the manifest stored next to the payloads.
const ChecksumFile = "checksums.txt"

// Sum returns the hex SHA-256 of b.
func Sum(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// SumReader returns the hex SHA-256 of everything read from r.
func SumReader(r io.Reader) (string, error) {
	hasher := sha256.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Checksums maps a file name to its hex SHA-256.
// Comments carries the "# key: value" header lines written by Format.
type Checksums struct {
	Sums     map[string]string
	Comments []string
}

// NewChecksums returns an empty manifest.
func NewChecksums() *Checksums {
	return &Checksums{Sums: make(map[string]string)}
}

// ParseChecksums reads a sha256sum-style manifest:
//
//	# source-revision: 3f2a...
//	abc123def456  nircmd.exe
//
// Blank lines are skipped and lines starting with '#' are kept as comments.
func ParseChecksums(r io.Reader) (*Checksums, error) {
	c := NewChecksums()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			c.Comments = append(c.Comments, strings.TrimSpace(strings.TrimPrefix(line, "#")))
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}

		// sha256sum marks binary mode with a leading '*'
		name := strings.TrimPrefix(parts[1], "*")
		c.Sums[filepath.Base(name)] = strings.ToLower(parts[0])
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan checksum file: %w", err)
	}

	return c, nil
}

// Lookup returns the checksum recorded for filename.
func (c *Checksums) Lookup(filename string) (string, bool) {
	if c == nil {
		return "", false
	}
	sum, ok := c.Sums[filepath.Base(filename)]
	return sum, ok
}

// Set records sum for filename.
func (c *Checksums) Set(filename, sum string) {
	c.Sums[filepath.Base(filename)] = strings.ToLower(sum)
}

// Verify compares the SHA-256 of b against the entry for filename.
func (c *Checksums) Verify(filename string, b []byte) error {
	expected, ok := c.Lookup(filename)
	if !ok {
		return fmt.Errorf("checksum not found for %s", filename)
	}

	actual := Sum(b)
	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("checksum mismatch for %s:\nactual:   %s\nexpected: %s",
			filename, actual, expected)
	}
	return nil
}

// Format renders the manifest with entries sorted by file name.
func (c *Checksums) Format() string {
	var sb strings.Builder
	for _, comment := range c.Comments {
		fmt.Fprintf(&sb, "# %s\n", comment)
	}

	names := make([]string, 0, len(c.Sums))
	for name := range c.Sums {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(&sb, "%s  %s\n", c.Sums[name], name)
	}
	return sb.String()
}
