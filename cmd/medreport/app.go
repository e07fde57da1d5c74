package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"medreport/internal/bootstrap"
	"medreport/internal/dashboard"
	"medreport/internal/session"
	"medreport/internal/shared/config"
	"medreport/internal/shared/storage/db"
	"medreport/internal/upload"
)

var errNoAnalysis = errors.New("no analysis stored for this session; run analyze first")

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := newCommand(stdout, stderr).Run(ctx, args); err != nil {
		fmt.Fprintf(stderr, "medreport: %v\n", err)
		return 1
	}
	return 0
}

func newCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "medreport",
		Usage:     "Analyze a medical report and browse the dashboard",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "session",
				Sources: cli.EnvVars("SESSION_ID"),
				Usage:   "session id the result is stored under (generated when empty)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "Upload a PDF or image report for analysis",
				ArgsUsage: "<file>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return analyze(ctx, cmd, stdout, stderr)
				},
			},
			{
				Name:  "show",
				Usage: "Print the dashboard for the stored result",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "tab",
						Value: string(dashboard.TabOverview),
						Usage: "tab to render (overview, biomarkers, organs, risks, lifestyle, medication)",
					},
					&cli.StringFlag{Name: "organ", Usage: "organ shown on the organs tab"},
					&cli.StringFlag{Name: "risk", Usage: "risk id expanded on the risks tab"},
					&cli.StringFlag{Name: "category", Usage: "biomarker category"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return show(ctx, cmd, stdout, stderr)
				},
			},
			{
				Name:  "clear",
				Usage: "Remove the stored result",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return clearSession(ctx, cmd, stderr)
				},
			},
		},
	}
}

type spinner struct {
	w io.Writer
}

func (s spinner) Busy(busy bool) {
	if busy {
		fmt.Fprintln(s.w, "Analyzing report...")
	}
}

func openSession(ctx context.Context, cmd *cli.Command, stderr io.Writer) (*bootstrap.App, *session.Session, error) {
	id := strings.TrimSpace(cmd.String("session"))
	if id == "" {
		id = uuid.NewString()
		fmt.Fprintf(stderr, "session: %s\n", id)
	}

	cfg := config.Load()
	// Each invocation is its own process, so an in-memory slot would lose the
	// analysis before the next command reads it.
	if strings.TrimSpace(os.Getenv("SESSION_STORE")) == "" {
		cfg.SessionStoreType = config.StoreLocal
	}
	app, err := bootstrap.Build(cfg,
		bootstrap.WithDBOptions(db.CLIOptions()),
		bootstrap.WithIndicator(spinner{w: stderr}),
	)
	if err != nil {
		return nil, nil, err
	}
	return app, app.Sessions.Get(ctx, id), nil
}

func analyze(ctx context.Context, cmd *cli.Command, stdout, stderr io.Writer) error {
	path := cmd.Args().First()
	if path == "" {
		return errors.New(upload.MsgNoFile)
	}
	file, err := upload.ReadFile(path)
	if err != nil {
		return err
	}

	app, sess, err := openSession(ctx, cmd, stderr)
	if err != nil {
		return err
	}
	defer app.Close()

	out, err := sess.Controller.Submit(ctx, file)
	if err != nil {
		if out.Notice != "" {
			return errors.New(out.Notice)
		}
		return err
	}
	return writeJSON(stdout, map[string]any{
		"sessionId": sess.ID,
		"outcome":   out,
		"sidebar":   dashboard.BuildSidebar(out.Result),
	})
}

func show(ctx context.Context, cmd *cli.Command, stdout, stderr io.Writer) error {
	app, sess, err := openSession(ctx, cmd, stderr)
	if err != nil {
		return err
	}
	defer app.Close()

	result, ok := sess.Store.Get()
	if !ok {
		return errNoAnalysis
	}

	// Unknown tabs render nothing, as on the dashboard.
	tab := cmd.String("tab")
	update := dashboard.SelectionUpdate{}
	for name, dst := range map[string]**string{"organ": &update.Organ, "risk": &update.Risk, "category": &update.Category} {
		if v := cmd.String(name); v != "" {
			v := v
			*dst = &v
		}
	}
	if _, err := sess.Dashboard.Update(update); err != nil {
		return err
	}

	view, _ := sess.Dashboard.Render(result, dashboard.TabID(tab))
	header := map[string]any{
		"sessionId": sess.ID,
		"user":      result.User,
		"report":    result.Report,
		"tab":       tab,
		"view":      view,
		"sidebar":   dashboard.BuildSidebar(result),
	}
	if result.Rejected() {
		header["notice"] = result.RejectionMessage()
	}
	return writeJSON(stdout, header)
}

func clearSession(ctx context.Context, cmd *cli.Command, stderr io.Writer) error {
	app, sess, err := openSession(ctx, cmd, stderr)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := sess.Store.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(stderr, "session cleared")
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
