package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"floor-backend/internal/importer"
	"floor-backend/internal/repositories"
	"floor-backend/internal/services"
)

type ImportCmd struct {
	Target string `arg:"" enum:"machines,lines" help:"What the file holds (machines|lines)."`
	File   string `arg:"" type:"existingfile" help:"CSV or XLSX file with a header row."`
}

func (c *ImportCmd) Run(ctx *Context) error {
	st, err := ctx.Store()
	if err != nil {
		return err
	}

	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	svc := services.NewImportService(repositories.NewMachineRepository(st), repositories.NewLineRepository(st), ctx.Log)

	var result *services.ImportResult
	switch c.Target {
	case "machines":
		result, err = svc.ImportMachines(ctx.Ctx, filepath.Base(c.File), f)
	case "lines":
		result, err = svc.ImportLines(ctx.Ctx, filepath.Base(c.File), f)
	}
	if err != nil {
		return describeImportError(os.Stderr, err)
	}
	fmt.Printf("Imported %d %s from %s\n", result.Imported, result.Target, c.File)
	return nil
}

// describeImportError prints every rejected row before returning err
func describeImportError(w io.Writer, err error) error {
	var ierr *importer.Error
	if errors.As(err, &ierr) {
		for _, r := range ierr.Rows {
			fmt.Fprintf(w, "  line %d: %s %s\n", r.Line, r.Field, r.Message)
		}
	}
	return err
}
