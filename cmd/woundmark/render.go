package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/signal"

	"github.com/example/woundmark/internal/editor"
	"github.com/example/woundmark/internal/imageio"
	"github.com/example/woundmark/internal/record"
)

// renderCmd writes a record's snapshot without opening a window.
type renderCmd struct {
	*root
	fs     *flag.FlagSet
	record string
	output string
	stdout io.Writer
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *renderCmd) Template() string {
	return "render.txt"
}

func (c *renderCmd) Program() string {
	return c.root.program + " render"
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	c := &renderCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.StringVar(&c.record, "record", "", "record file to render")
	fs.StringVar(&c.output, "output", "", "PNG to write (default: the record's snapshot path)")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.record == "" {
		return nil, usageError(c, "render needs -record")
	}
	return c, nil
}

func (c *renderCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	img, err := renderRecord(ctx, c.record, c.editorConfig())
	if err != nil {
		return err
	}
	out := c.output
	if out == "" {
		out = record.SnapshotPath(c.record)
	}
	if out == "-" {
		return png.Encode(c.stdout, img)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", out)
	return nil
}

func (c *renderCmd) editorConfig() editor.Config {
	if c.root == nil || c.root.config == nil {
		return editor.DefaultConfig()
	}
	return c.root.config.EditorConfig(c.activeTheme)
}

// renderRecord decodes the record's photo and composites its annotations,
// transform and filters the way the editor's save does, stored crop included.
func renderRecord(ctx context.Context, path string, cfg editor.Config) (image.Image, error) {
	rec, err := record.Load(path)
	if err != nil {
		return nil, err
	}
	filters := rec.Filters
	ed := editor.New(cfg, editor.Session{
		ImageRef:    rec.ImageRef,
		Annotations: rec.Annotations,
		Transform:   rec.Transform,
		Filters:     &filters,
		Label:       rec.Label,
		Crop:        rec.Crop,
	})
	req := ed.RequestImage(rec.ImageRef)
	src, err := imageio.Decode(ctx, rec.ImageRef)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}
	ed.ImageDecoded(req, src, nil)
	img, err := ed.Snapshot()
	if err != nil {
		return nil, err
	}
	return img, nil
}
