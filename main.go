package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"stilt/pkg/syntax"
	"stilt/pkg/typing"
	"stilt/pkg/value"
)

var version = "0.0.1"

func main() {
	cmd := &cli.Command{
		Name:    "stilt",
		Usage:   "static typing for Starlark modules",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:    "check",
				Aliases: []string{"c"},
				Usage:   "typecheck a resolved module (JSON syntax tree)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "approximations", Aliases: []string{"a"}, Usage: "also print approximations"},
					&cli.BoolFlag{Name: "interface", Aliases: []string{"i"}, Usage: "print the module interface"},
				},
				Action: checkAction,
			},
			{
				Name:    "match",
				Aliases: []string{"m"},
				Usage:   "match a value against a type annotation (both JSON)",
				Action:  matchAction,
			},
			{
				Name:   "version",
				Usage:  "print stilt version",
				Action: versionAction,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		fmt.Println("You must specify a module file to check")
		return nil
	}
	fileName := cmd.Args().Get(0)
	by, err := os.ReadFile(fileName)
	if err != nil {
		return err
	}
	stmts, err := syntax.DecodeModule(by)
	if err != nil {
		return fmt.Errorf("%s: %w", fileName, err)
	}
	res := typing.CheckModule(stmts, typing.NewOracleStandard(), typing.StandardBuiltins(), nil)
	for _, e := range res.Errors {
		fmt.Printf("%s:%s\n", fileName, e.Error())
	}
	if cmd.Bool("approximations") {
		for _, a := range res.Approximations {
			fmt.Println(a.String())
		}
	}
	if cmd.Bool("interface") {
		for _, name := range res.Interface.Names() {
			ty, _ := res.Interface.Export(name)
			fmt.Printf("%s: %s\n", name, ty)
		}
	}
	if len(res.Errors) > 0 {
		os.Exit(1)
	}
	return nil
}

func matchAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 2 {
		fmt.Println("Usage: stilt match <annotation.json> <value.json>")
		return nil
	}
	annotBy, err := os.ReadFile(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	valueBy, err := os.ReadFile(cmd.Args().Get(1))
	if err != nil {
		return err
	}
	annot, err := value.DecodeJSON(annotBy)
	if err != nil {
		return fmt.Errorf("annotation: %w", err)
	}
	v, err := value.DecodeJSON(valueBy)
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}
	ok, err := value.IsType(v, annot)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
	if !ok {
		fmt.Println(value.CheckType(v, annot, "").Error())
		os.Exit(1)
	}
	fmt.Println("ok")
	return nil
}

func versionAction(ctx context.Context, cmd *cli.Command) error {
	fmt.Println(version)
	return nil
}
