package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/woundmark/internal/annotation"
	"github.com/example/woundmark/internal/appstate"
	"github.com/example/woundmark/internal/clipboard"
	"github.com/example/woundmark/internal/editor"
	"github.com/example/woundmark/internal/record"
)

// clipboardRef selects the clipboard image as the photo to annotate.
const clipboardRef = "clipboard"

// readClipboardFn is replaced in tests.
var readClipboardFn = clipboard.ReadImage

// annotateCmd represents the annotate subcommand.
type annotateCmd struct {
	*root
	fs     *flag.FlagSet
	image  string
	record string
	label  string
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func (a *annotateCmd) Template() string {
	return "annotate.txt"
}

func (a *annotateCmd) Program() string {
	return a.root.program + " annotate"
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r, fs: fs}
	fs.StringVar(&a.image, "image", "", "photo to annotate")
	fs.StringVar(&a.record, "record", "", "record file to load and save (default: next to the photo)")
	fs.StringVar(&a.label, "label", "", "initial record label")
	fs.Usage = usageFunc(a)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if a.image == "" && a.record == "" {
		return nil, usageError(a, "annotate needs -image or -record")
	}
	return a, nil
}

func (a *annotateCmd) Run() error {
	ref := a.image
	if p, ok := strings.CutPrefix(ref, "file://"); ok {
		ref = p
	}
	if localRef(ref) {
		if abs, err := filepath.Abs(ref); err == nil {
			ref = abs
		}
	}
	path := a.record
	if path == "" {
		if !localRef(ref) {
			return fmt.Errorf("-record is required for %s images", describeRef(ref))
		}
		path = recordPathFor(ref, a.saveDir())
	}
	rec, err := openRecord(path, ref)
	if err != nil {
		return err
	}
	if a.image == clipboardRef {
		ref, err := stashClipboard(path)
		if err != nil {
			return err
		}
		rec.ImageRef = ref
		rec.Crop = annotation.Crop{}
	}
	if a.label != "" {
		rec.Label = a.label
	}

	filters := rec.Filters
	session := editor.Session{
		ImageRef:    rec.ImageRef,
		Annotations: rec.Annotations,
		Transform:   rec.Transform,
		Filters:     &filters,
		Label:       rec.Label,
		Crop:        rec.Crop,
	}
	st := appstate.New(
		appstate.WithConfig(a.root.config.EditorConfig(a.activeTheme)),
		appstate.WithSession(session),
		appstate.WithTheme(a.activeTheme),
		appstate.WithNotifier(a.notifier),
		appstate.WithOnSave(func(c editor.Commit) error { return a.commit(path, rec, c) }),
		appstate.WithOnClose(func() { log.Printf("closed %s", path) }),
	)
	st.Run()
	return nil
}

func (a *annotateCmd) saveDir() string {
	if a.root == nil || a.root.config == nil {
		return ""
	}
	return a.root.config.SaveDir
}

// commit writes a save from the editor to the record and announces it.
func (a *annotateCmd) commit(path string, rec *record.Record, c editor.Commit) error {
	rec.ImageRef = c.ImageRef
	rec.Crop = c.Crop
	if err := rec.Apply(path, c.Label, c.Annotations, c.Transform, c.Filters, c.Snapshot); err != nil {
		return err
	}
	log.Printf("saved %s", path)
	var snap image.Image
	if len(c.Snapshot) > 0 {
		if img, err := png.Decode(bytes.NewReader(c.Snapshot)); err == nil {
			snap = img
		}
	}
	if a.root != nil && a.notifier != nil {
		a.notifier.Save(path, snap)
	}
	return nil
}

// recordPathFor names the record kept for a local photo. Records go into
// saveDir when it is set, otherwise next to the photo.
func recordPathFor(imagePath, saveDir string) string {
	imagePath = strings.TrimPrefix(imagePath, "file://")
	base := filepath.Base(imagePath)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".woundmark.json"
	if saveDir != "" {
		return filepath.Join(saveDir, name)
	}
	return filepath.Join(filepath.Dir(imagePath), name)
}

// openRecord loads the record at path, or starts a new one for imageRef
// when there is none yet. An explicit imageRef replaces the stored one.
func openRecord(path, imageRef string) (*record.Record, error) {
	rec, err := record.Load(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if imageRef == "" {
			return nil, fmt.Errorf("%s: %w", path, record.ErrNoImage)
		}
		return record.New(imageRef), nil
	case err != nil:
		return nil, err
	}
	if imageRef != "" && imageRef != clipboardRef && imageRef != rec.ImageRef {
		rec.ImageRef = imageRef
		rec.Crop = annotation.Crop{}
	}
	return rec, nil
}

// stashClipboard copies the clipboard image next to the record so the
// record can refer to it later.
func stashClipboard(recordPath string) (string, error) {
	img, err := readClipboardFn()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	ext := filepath.Ext(recordPath)
	out := recordPath[:len(recordPath)-len(ext)] + ".source.png"
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(out)
	if err != nil {
		return "", err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return out, nil
}

// localRef reports whether ref is a plain file path.
func localRef(ref string) bool {
	return ref != "" && ref != clipboardRef && !strings.Contains(ref, "://") && !strings.HasPrefix(ref, "data:")
}

func describeRef(ref string) string {
	switch {
	case ref == clipboardRef:
		return "clipboard"
	case strings.HasPrefix(ref, "data:"):
		return "data URL"
	}
	return "remote"
}
