package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"floor-backend/internal/importer"
	"floor-backend/internal/metrics"
	"floor-backend/internal/models"
	"floor-backend/internal/repositories"

	"go.uber.org/zap"
)

// ImportResult reports a successful import
type ImportResult struct {
	Target   string `json:"target"`
	Imported int    `json:"imported"`
}

// ImportService loads machines and production lines from uploads. Every
// row is checked before anything is written; one bad row rejects the file.
type ImportService struct {
	Machines *repositories.MachineRepository
	Lines    *repositories.LineRepository
	log      *zap.Logger
}

func NewImportService(machines *repositories.MachineRepository, lines *repositories.LineRepository, log *zap.Logger) *ImportService {
	return &ImportService{Machines: machines, Lines: lines, log: log.Named("import")}
}

func (s *ImportService) ImportMachines(ctx context.Context, filename string, r io.Reader) (*ImportResult, error) {
	rows, err := importer.Read(filename, r)
	if err != nil {
		return nil, invalid("file", err.Error())
	}
	reqs := importer.Machines(rows)

	existing, err := s.Machines.AssetNumbers(ctx)
	if err != nil {
		return nil, err
	}

	errs := &importer.Error{}
	seen := make(map[string]int)
	machines := make([]*models.Machine, 0, len(reqs))
	for i := range reqs {
		req := &reqs[i]
		line := rows[i].Line
		if !addRowErrors(errs, line, validateStruct(req)) {
			continue
		}
		if existing[req.AssetNumber] {
			errs.Add(line, "assetNumber", "already registered")
			continue
		}
		if first, dup := seen[req.AssetNumber]; dup {
			errs.Add(line, "assetNumber", fmt.Sprintf("duplicates line %d", first))
			continue
		}
		seen[req.AssetNumber] = line
		machines = append(machines, newMachine(req))
	}
	if !errs.Empty() {
		return nil, errs
	}

	if err := s.Machines.CreateMany(ctx, machines); err != nil {
		return nil, fmt.Errorf("import machines: %w", err)
	}
	metrics.ImportedRows.WithLabelValues("machines").Add(float64(len(machines)))
	s.log.Info("machines imported", zap.String("file", filename), zap.Int("rows", len(machines)))
	return &ImportResult{Target: "machines", Imported: len(machines)}, nil
}

func (s *ImportService) ImportLines(ctx context.Context, filename string, r io.Reader) (*ImportResult, error) {
	rows, err := importer.Read(filename, r)
	if err != nil {
		return nil, invalid("file", err.Error())
	}
	reqs, errs := importer.Lines(rows)

	bad := make(map[int]bool, len(errs.Rows))
	for _, re := range errs.Rows {
		bad[re.Line] = true
	}

	now := time.Now().UTC()
	seen := make(map[string]int)
	lines := make([]*models.ProductionLine, 0, len(reqs))
	for i := range reqs {
		req := &reqs[i]
		line := rows[i].Line
		if bad[line] || !addRowErrors(errs, line, validateStruct(req)) {
			continue
		}
		code := strings.TrimSpace(req.Code)
		exists, err := s.Lines.CodeExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			errs.Add(line, "code", "already registered")
			continue
		}
		if first, dup := seen[code]; dup {
			errs.Add(line, "code", fmt.Sprintf("duplicates line %d", first))
			continue
		}
		seen[code] = line
		lines = append(lines, &models.ProductionLine{
			Name:               req.Name,
			Code:               code,
			Location:           req.Location,
			Active:             true,
			TargetUnitsPerHour: req.TargetUnitsPerHour,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
	}
	if !errs.Empty() {
		return nil, errs
	}

	if err := s.Lines.CreateMany(ctx, lines); err != nil {
		return nil, fmt.Errorf("import lines: %w", err)
	}
	metrics.ImportedRows.WithLabelValues("lines").Add(float64(len(lines)))
	s.log.Info("lines imported", zap.String("file", filename), zap.Int("rows", len(lines)))
	return &ImportResult{Target: "lines", Imported: len(lines)}, nil
}

// addRowErrors copies validation failures onto the import error and
// reports whether the row was valid.
func addRowErrors(errs *importer.Error, line int, err error) bool {
	if err == nil {
		return true
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		fields := make([]string, 0, len(verr.Fields))
		for field := range verr.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			errs.Add(line, field, verr.Fields[field])
		}
		return false
	}
	errs.Add(line, "", err.Error())
	return false
}
