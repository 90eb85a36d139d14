package cli

import (
	"fmt"
	"os"
	"time"

	"floor-backend/internal/archive"
	"floor-backend/internal/repositories"
	"floor-backend/internal/services"
	"floor-backend/internal/timeutil"
)

type ReportCmd struct {
	Period  string `short:"p" help:"Period (today|day|week|month|quarter|year)." default:"today"`
	Line    string `short:"l" help:"Production line id; all lines when empty."`
	Out     string `short:"o" help:"Output PDF path." default:"floor_report.pdf" type:"path"`
	Archive bool   `help:"Also upload the PDF to the configured reports bucket."`
}

func (c *ReportCmd) Run(ctx *Context) error {
	st, err := ctx.Store()
	if err != nil {
		return err
	}
	timeutil.SetLocation(ctx.Config.Dashboard.Timezone)

	dashboards := services.NewDashboardService(
		repositories.NewDowntimeRepository(st),
		repositories.NewQualityRepository(st),
		repositories.NewSessionRepository(st),
		0, time.Duration(ctx.Config.Dashboard.MaxSessionHours)*time.Hour, ctx.Log)

	var archiver services.Archiver
	if c.Archive {
		r := ctx.Config.Reports
		a, err := archive.New(ctx.Ctx, archive.Options{
			Bucket:    r.Bucket,
			Endpoint:  r.Endpoint,
			Region:    r.Region,
			AccessKey: r.AccessKey,
			SecretKey: r.SecretKey,
		}, ctx.Log)
		if err != nil {
			return err
		}
		archiver = a
	}

	data, d, err := services.NewReportService(dashboards, archiver, ctx.Log).
		DashboardPDF(ctx.Ctx, services.DashboardRequest{Period: c.Period, LineID: c.Line})
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.Out, data, 0644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%s, availability %.1f%%, downtime %s h)\n",
		c.Out, d.Period, d.Overview.Availability, d.Overview.TotalDowntimeHours)
	return nil
}
