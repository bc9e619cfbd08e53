package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	opservice "github.com/ethereum-optimism/optimism/op-service"

	"github.com/KueenLau/presto/flags"
	"github.com/KueenLau/presto/registry"
	"github.com/KueenLau/presto/ui"
)

// ListCommand defines the "list" command for inspecting the registry.
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List suites and environment configs defined in the registry",
		Subcommands: []*cli.Command{
			{
				Name:  "suites",
				Usage: "list available suites",
				Flags: []cli.Flag{
					listRegistryFlag(),
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "show each suite's test runs and resolved filters",
					},
					&cli.StringFlag{
						Name:  "config",
						Value: registry.DefaultConfigName,
						Usage: "environment config to resolve filters against (verbose mode)",
					},
				},
				Action: listSuitesAction,
			},
			{
				Name:   "configs",
				Usage:  "list available environment configs",
				Flags:  []cli.Flag{listRegistryFlag()},
				Action: listConfigsAction,
			},
		},
	}
}

func listRegistryFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "registry",
		Value:   "suites.yaml",
		Usage:   "path to the suite definitions file",
		EnvVars: opservice.PrefixEnvVar(flags.EnvVarPrefix, "REGISTRY"),
	}
}

func listSuitesAction(c *cli.Context) error {
	reg, err := openRegistry(c)
	if err != nil {
		return err
	}

	if !c.Bool("verbose") {
		printNames("suites", reg.SuiteNames())
		return nil
	}

	cfg, err := reg.GetEnvironmentConfig(c.String("config"))
	if err != nil {
		return err
	}

	fmt.Printf("Available suites:\n")
	for _, name := range reg.SuiteNames() {
		suite, err := reg.GetSuite(name)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Print(ui.RenderSuite(suite, cfg))
	}
	return nil
}

func listConfigsAction(c *cli.Context) error {
	reg, err := openRegistry(c)
	if err != nil {
		return err
	}
	printNames("configs", reg.ConfigNames())
	return nil
}

func openRegistry(c *cli.Context) (*registry.Registry, error) {
	return registry.NewRegistry(registry.Config{
		Log:          log.Root(),
		RegistryFile: c.String("registry"),
	})
}

func printNames(kind string, names []string) {
	fmt.Printf("Available %s:\n", kind)
	for _, name := range names {
		fmt.Printf("  - %s\n", name)
	}
}
