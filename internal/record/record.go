// Package record stores one annotated wound photo as a JSON sidecar: the
// image reference, its annotations, the canvas transform and filters, and
// the path of the last rendered snapshot.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/example/woundmark/internal/annotation"
	"github.com/example/woundmark/internal/filter"
)

// ErrNoImage is returned when a record has no image reference.
var ErrNoImage = errors.New("record has no image reference")

// Record is the stored form of an annotated photo.
type Record struct {
	ID          string                  `json:"id"`
	Label       string                  `json:"title"`
	ImageRef    string                  `json:"image_url"`
	Snapshot    string                  `json:"thumbnail_url,omitempty"`
	Annotations []annotation.Annotation `json:"annotations"`
	Transform   annotation.Transform    `json:"transformations"`
	Crop        annotation.Crop         `json:"crop,omitzero"`
	Filters     filter.Settings         `json:"filters"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// New starts a record for imageRef.
func New(imageRef string) *Record {
	now := time.Now().UTC()
	return &Record{
		ID:        uuid.NewString(),
		ImageRef:  imageRef,
		Filters:   filter.Identity(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Load reads a record. Annotations whose content cannot be decoded are kept
// as malformed entries rather than failing the whole load.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := &Record{Filters: filter.Identity()}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parse record %s: %w", path, err)
	}
	if r.ImageRef == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrNoImage)
	}
	r.ImageRef = r.resolve(path, r.ImageRef)
	return r, nil
}

// resolve makes a relative image path relative to the record's directory.
func (r *Record) resolve(recordPath, ref string) string {
	if filepath.IsAbs(ref) || hasScheme(ref) {
		return ref
	}
	return filepath.Join(filepath.Dir(recordPath), ref)
}

func hasScheme(ref string) bool {
	for i, c := range ref {
		switch {
		case c == ':':
			return i > 1
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return false
}

// Save writes the record to path atomically.
func (r *Record) Save(path string) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if r.Annotations == nil {
		r.Annotations = []annotation.Annotation{}
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return writeAtomic(path, append(data, '\n'))
}

// writeAtomic writes data next to path and renames it into place so a
// reader never sees a partial file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// SnapshotPath returns where the PNG for a record at path is written.
func SnapshotPath(path string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + ".annotated.png"
}

// Apply folds a save from the editor into the record, writing the
// snapshot PNG beside the record file.
func (r *Record) Apply(path, label string, list []annotation.Annotation, t annotation.Transform, f filter.Settings, snapshot []byte) error {
	if len(snapshot) > 0 {
		snap := SnapshotPath(path)
		if err := writeAtomic(snap, snapshot); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		r.Snapshot = snap
	}
	r.Label = label
	r.Annotations = list
	r.Transform = t
	r.Filters = f
	r.UpdatedAt = time.Now().UTC()
	return r.Save(path)
}
