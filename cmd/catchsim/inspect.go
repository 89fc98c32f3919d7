package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/catchsim/internal/dataset"
	"github.com/san-kum/catchsim/internal/export"
	"github.com/san-kum/catchsim/internal/storage"
	"github.com/san-kum/catchsim/internal/viz"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tSTATUS\tTIME\tSCHEMA\tRECORDS\tGAINS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%g/%g/%g\n",
			run.Key,
			run.Outcome.Status,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Schema,
			run.Records,
			run.Scenario.Kp, run.Scenario.Ki, run.Scenario.Kd,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	sc := meta.Scenario

	fmt.Println(viz.RenderSummary(meta.Key, meta.Outcome, meta.Metrics))
	fmt.Println(viz.Separator(60))
	fmt.Printf("id:        %s\n", meta.ID)
	fmt.Printf("scenario:  angle=%g ball=(%g, %g) train_x0=%g\n", sc.AngleDeg, sc.BallX, sc.BallY0, sc.TrainX0)
	fmt.Printf("physics:   m=%g g=%g mu=%g dt=%g duration=%g\n", sc.Mass, sc.Gravity, sc.Friction, sc.Dt, sc.Duration)
	fmt.Printf("gains:     kp=%g ki=%g kd=%g\n", sc.Kp, sc.Ki, sc.Kd)
	if meta.LandingTime > 0 {
		fmt.Printf("landing:   y=%.3f at %.3fs\n", meta.LandingY, meta.LandingTime)
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	table, err := st.LoadDataset(args[0])
	if err != nil {
		return err
	}

	width, height, err := sizeFlags(cmd)
	if err != nil {
		return err
	}
	charts, err := viz.PlotColumns(table, columns, width, height)
	if err != nil {
		return err
	}
	fmt.Print(charts)
	fmt.Println(viz.PlotTracking(table, meta.Scenario.BallX, width, height))
	return nil
}

func importRuns(cmd *cobra.Command, args []string) error {
	base, _, err := resolveScenario(cmd)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}

	for _, path := range args {
		meta, err := st.Import(path, base)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Printf("imported %s (%s, %d records)\n", meta.Key, meta.Schema, meta.Records)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	table, err := storage.New(dataDir).LoadDataset(args[0])
	if err != nil {
		return err
	}

	kind := table.Kind
	if legacy {
		kind = dataset.Legacy
	}
	outFile, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if outFile != "" {
		if err := dataset.WriteFile(outFile, kind, table.Records); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", outFile)
		return nil
	}
	sink := dataset.NewCSVSink(os.Stdout)
	if kind == dataset.Legacy {
		sink = dataset.NewLegacySink(os.Stdout)
	}
	return sink.Write(table.Records)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	outFile, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if outFile == "" {
		return st.Export(os.Stdout, args[0])
	}

	if err := st.ExportFile(outFile, args[0]); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	table, err := st.LoadDataset(args[0])
	if err != nil {
		return err
	}

	width, height, err := sizeFlags(cmd)
	if err != nil {
		return err
	}
	svg := export.RunToSVG(meta.Key, table, meta.Scenario, meta.Outcome, width, height)
	if svg == "" {
		return fmt.Errorf("%s: not enough records to render", meta.Key)
	}

	path, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if path == "" {
		path = meta.Key + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func replayRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	table, err := st.LoadDataset(args[0])
	if err != nil {
		return err
	}

	width, height, err := sizeFlags(cmd)
	if err != nil {
		return err
	}
	model := viz.NewReplay(meta.Key, meta.Scenario, table, width, height)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
