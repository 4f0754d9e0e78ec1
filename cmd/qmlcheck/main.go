package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/fadingrose/qmlcheck/classify"
	"github.com/fadingrose/qmlcheck/config"
	"github.com/fadingrose/qmlcheck/internal/logging"
	"github.com/fadingrose/qmlcheck/loader"
	"github.com/fadingrose/qmlcheck/pathcheck"
	"github.com/fadingrose/qmlcheck/pipeline"
	"github.com/fadingrose/qmlcheck/report"
)

func main() {
	var configPath string
	var questionnairePath string

	app := &cli.App{
		Name:  "qmlcheck",
		Usage: "static analysis for predicate-gated questionnaires",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to qmlcheck.toml",
				Destination: &configPath,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "run the full verification pipeline and print a JSON report",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "file",
						Aliases:     []string{"f"},
						Usage:       "path to the questionnaire YAML document",
						Required:    true,
						Destination: &questionnairePath,
					},
				},
				Action: func(c *cli.Context) error {
					code, err := runValidate(configPath, questionnairePath)
					if err != nil {
						return err
					}
					os.Exit(code)
					return nil
				},
			},
			{
				Name:  "topology",
				Usage: "print canonical order, layers, and weakly-connected components",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "file",
						Aliases:     []string{"f"},
						Required:    true,
						Destination: &questionnairePath,
					},
				},
				Action: func(c *cli.Context) error {
					return runTopology(configPath, questionnairePath)
				},
			},
			{
				Name:  "debug",
				Usage: "dump every pipeline stage's internal state",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "file",
						Aliases:     []string{"f"},
						Required:    true,
						Destination: &questionnairePath,
					},
				},
				Action: func(c *cli.Context) error {
					return runDebug(configPath, questionnairePath)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "qmlcheck:", err)
		os.Exit(1)
	}
}

func runValidate(configPath, questionnairePath string) (int, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return 1, err
	}
	log := logging.New(cfg.Logging.Level)

	f, err := os.Open(questionnairePath)
	if err != nil {
		return 1, err
	}
	defer f.Close()

	q, err := loader.Load(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "qmlcheck:", err)
		return exitForLoadError(err), nil
	}

	run := pipeline.Execute(q, cfg.SolverTimeout(), log)
	if err := report.Write(os.Stdout, run.Report); err != nil {
		return 1, err
	}
	return report.ExitCode(run.Report, len(run.Structural) > 0), nil
}

func runTopology(configPath, questionnairePath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logging.New(cfg.Logging.Level)

	f, err := os.Open(questionnairePath)
	if err != nil {
		return err
	}
	defer f.Close()

	q, err := loader.Load(f)
	if err != nil {
		return err
	}

	run := pipeline.Execute(q, cfg.SolverTimeout(), log)
	if run.Topology == nil {
		fmt.Println("no topology: structural error or cycle")
		return nil
	}
	fmt.Print(run.Topology.DebugDump())
	return nil
}

func runDebug(configPath, questionnairePath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logging.New(cfg.Logging.Level)

	f, err := os.Open(questionnairePath)
	if err != nil {
		return err
	}
	defer f.Close()

	q, err := loader.Load(f)
	if err != nil {
		return err
	}

	run := pipeline.Execute(q, cfg.SolverTimeout(), log)
	if run.Topology != nil {
		fmt.Println("== topology ==")
		fmt.Print(run.Topology.DebugDump())
	}
	if run.Build != nil {
		fmt.Println("== terms ==")
		fmt.Print(run.Build.DebugDump())
	}
	if run.Classified != nil {
		fmt.Println("== classification ==")
		fmt.Print(classify.DebugDump(run.Classified))
	}
	if run.Global != nil {
		fmt.Println("== global formula ==")
		fmt.Print(run.Global.DebugDump())
	}
	if run.Paths != nil {
		fmt.Println("== paths ==")
		fmt.Print(pathcheck.DebugDump(run.Paths))
	}
	return nil
}

func exitForLoadError(err error) int {
	return 1
}
