package protoreg

import (
	"context"
	"io"
	"os"
	"path"
	"time"

	eventbus "github.com/hanpama/shapegen/internal/eventbus"
	events "github.com/hanpama/shapegen/internal/events"
	"github.com/jhump/protoreflect/v2/protoprint"
)

const target = "proto"

// Render prints the file of r as proto source.
func Render(ctx context.Context, w io.Writer, r *Registry) (err error) {
	start := time.Now()
	eventbus.Publish(ctx, events.RenderStart{Target: target})
	cw := &countingWriter{w: w}
	defer func() {
		eventbus.Publish(ctx, events.RenderFinish{
			Target:   target,
			Bytes:    cw.n,
			Err:      err,
			Duration: time.Since(start),
		})
	}()

	pp := protoprint.Printer{}
	return pp.PrintProtoFile(r.File(), cw)
}

// RenderDir writes the file of r under outDir at its descriptor path.
func RenderDir(ctx context.Context, r *Registry, outDir string) error {
	fp := path.Join(outDir, r.File().Path())
	if err := os.MkdirAll(path.Dir(fp), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(fp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	return Render(ctx, f, r)
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
