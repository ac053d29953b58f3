// Package journal keeps a zstd-compressed JSONL record of every deploy turn,
// one file per game.
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Record is one deploy turn as the agent played it.
type Record struct {
	Turn        int       `json:"turn"`
	At          time.Time `json:"at"`
	ElapsedMs   float64   `json:"elapsed_ms"`
	Health      float64   `json:"health"`
	EnemyHealth float64   `json:"enemy_health"`
	SPBefore    float64   `json:"sp_before"`
	MPBefore    float64   `json:"mp_before"`
	SPAfter     float64   `json:"sp_after"`
	MPAfter     float64   `json:"mp_after"`
	Fired       []string  `json:"fired,omitempty"`
	Threat      *Lane     `json:"threat,omitempty"`
	Attack      *Lane     `json:"attack,omitempty"`
	Decision    string    `json:"decision,omitempty"`
	Plan        []string  `json:"plan"`
	Events      []string  `json:"events,omitempty"`
}

// Lane is a spawn cell with the damage predicted along its path.
type Lane struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Damage float64 `json:"damage"`
	Breach bool    `json:"breach"`
	Length int     `json:"length"`
}

type Writer struct {
	path string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// maxSuffix bounds the -N suffixes tried when games start in the same second.
const maxSuffix = 1000

// Create opens a new dir/turns-<start>.jsonl.zst. Each writer gets its own
// file: when the name is taken, a -1, -2, ... suffix is added.
func Create(dir string, start time.Time) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("journal dir: %w", err)
	}
	f, p, err := createUnique(dir, "turns-"+start.UTC().Format("20060102-150405"))
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("journal encoder: %w", err)
	}
	return &Writer{path: p, f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

func createUnique(dir, stem string) (*os.File, string, error) {
	for i := 0; i < maxSuffix; i++ {
		name := stem + ".jsonl.zst"
		if i > 0 {
			name = fmt.Sprintf("%s-%d.jsonl.zst", stem, i)
		}
		p := filepath.Join(dir, name)
		f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return f, p, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("open journal: %w", err)
		}
	}
	return nil, "", fmt.Errorf("open journal: %s: no free name after %d tries", stem, maxSuffix)
}

func (w *Writer) Path() string { return w.path }

// Write appends one record and flushes it through the encoder.
func (w *Writer) Write(r Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return errors.New("journal closed")
	}

	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.enc.Flush()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	return err1
}

// Read decodes every record from a journal stream.
func Read(r io.Reader) ([]Record, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("journal decoder: %w", err)
	}
	defer dec.Close()

	var out []Record
	jd := json.NewDecoder(dec)
	for {
		var rec Record
		err := jd.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("decode record %d: %w", len(out)+1, err)
		}
		out = append(out, rec)
	}
}

// ReadFile decodes the journal at path.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
