package convert

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/LeonarddeR/ReaDaisy/internal/book"
	"github.com/LeonarddeR/ReaDaisy/internal/fileutil"
	"github.com/LeonarddeR/ReaDaisy/internal/logging"
	"github.com/LeonarddeR/ReaDaisy/internal/plan"
	"github.com/LeonarddeR/ReaDaisy/internal/project"
	"github.com/LeonarddeR/ReaDaisy/internal/reaper"
	"github.com/LeonarddeR/ReaDaisy/internal/staging"
)

// Converter writes book units to an output root.
type Converter struct {
	outputRoot string
	overwrite  bool
	logger     *slog.Logger
}

// New constructs a Converter. A nil logger disables logging.
func New(outputRoot string, overwrite bool, logger *slog.Logger) *Converter {
	return &Converter{
		outputRoot: outputRoot,
		overwrite:  overwrite,
		logger:     logging.WithComponent(logger, "converter"),
	}
}

// Result summarizes one successfully converted book.
type Result struct {
	Dir      string // final output directory
	Segments int
	Length   float64 // total track length in seconds
}

// Book converts one unit whose source audio lives in sourceDir. All
// outputs are staged and committed atomically: on error no partial book
// directory remains in the output root.
func (c *Converter) Book(ctx context.Context, sourceDir string, unit *book.Unit, widths plan.Widths) (Result, error) {
	segments := plan.Build(unit, widths)
	model, err := project.Build(unit, segments)
	if err != nil {
		return Result{}, fmt.Errorf("book %q: %w", unit.Title(), err)
	}

	stage, err := staging.Begin(c.outputRoot, unit.DirName)
	if err != nil {
		return Result{}, fmt.Errorf("book %q: %w", unit.Title(), err)
	}

	if err := c.writeSegments(ctx, stage.Path, sourceDir, segments); err != nil {
		stage.Abort()
		return Result{}, fmt.Errorf("book %q: %w", unit.Title(), err)
	}
	if err := c.writeProject(stage.Path, unit.DirName, model); err != nil {
		stage.Abort()
		return Result{}, fmt.Errorf("book %q: %w", unit.Title(), err)
	}
	if err := stage.Commit(c.overwrite); err != nil {
		stage.Abort()
		return Result{}, fmt.Errorf("book %q: %w", unit.Title(), err)
	}

	result := Result{
		Dir:      filepath.Join(c.outputRoot, unit.DirName),
		Segments: len(segments),
		Length:   model.Length,
	}
	c.logger.Info("converted book",
		logging.String("book", unit.Title()),
		logging.String("dir", result.Dir),
		logging.Int("segments", result.Segments),
		logging.Float64("seconds", result.Length),
	)
	return result, nil
}

func (c *Converter) writeSegments(ctx context.Context, stageDir, sourceDir string, segments []plan.Segment) error {
	for _, seg := range segments {
		if err := ctx.Err(); err != nil {
			return err
		}
		src := filepath.Join(sourceDir, filepath.FromSlash(seg.Source))
		dst := filepath.Join(stageDir, seg.OutputName)
		if err := fileutil.CopyVerified(src, dst); err != nil {
			return fmt.Errorf("segment %d (%s): %w", seg.Ordinal, seg.Source, err)
		}
		c.logger.Debug("copied segment",
			logging.String("source", seg.Source),
			logging.String("output", seg.OutputName),
		)
	}
	return nil
}

func (c *Converter) writeProject(stageDir, bookName string, model *project.Model) error {
	var b strings.Builder
	if err := reaper.Write(&b, model); err != nil {
		return fmt.Errorf("render project: %w", err)
	}
	path := filepath.Join(stageDir, reaper.FileName(bookName))
	if err := fileutil.WriteFileAtomic(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write project file: %w", err)
	}
	return nil
}
