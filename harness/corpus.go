package harness

import (
	"bufio"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// SourceBuiltin is the Corpus.Source value when no corpus file was usable.
const SourceBuiltin = "builtin"

// BuiltinSample is the single-line fallback corpus used when neither the
// primary nor the fallback file yields any evaluation text.
var BuiltinSample = []string{"नमस्कार मेरु नाम सुमितेश च"}

// Corpus is the ordered, immutable set of evaluation lines for one run.
// Order only matters for deterministic "first N samples" display.
type Corpus struct {
	Lines  []string
	Source string // path the lines came from, or SourceBuiltin
}

// LoadCorpus reads the primary corpus file, falling back to fallbackPath and
// finally to the built-in sample. Lines that are empty after trimming, or
// begin with '#', are excluded. The fallback file is consulted only when the
// primary cannot be opened; a primary that opens but retains no lines yields
// the built-in sample directly.
func LoadCorpus(path, fallbackPath string) *Corpus {
	for _, p := range []string{path, fallbackPath} {
		if p == "" {
			continue
		}
		lines, err := readLines(p)
		if err != nil {
			continue
		}
		if len(lines) == 0 {
			break
		}
		return &Corpus{Lines: lines, Source: p}
	}
	return &Corpus{
		Lines:  append([]string(nil), BuiltinSample...),
		Source: SourceBuiltin,
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// Len returns the number of evaluation lines.
func (c *Corpus) Len() int { return len(c.Lines) }

// Fingerprint hashes the retained lines for run provenance. Two runs over
// the same effective corpus report the same fingerprint regardless of which
// source file provided it.
func (c *Corpus) Fingerprint() uint64 {
	h := xxhash.New()
	for _, line := range c.Lines {
		h.WriteString(line)
		h.Write([]byte{'\n'})
	}
	return h.Sum64()
}
