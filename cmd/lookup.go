package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"github.com/ellavondegurechaff/pricevault/internal/domain/pricetree"
	"github.com/ellavondegurechaff/pricevault/pricevault/prices"
	"github.com/google/subcommands"
)

type resolveCmd struct{}

func (*resolveCmd) Name() string     { return "resolve" }
func (*resolveCmd) Synopsis() string { return "print the uuid of a printing" }
func (*resolveCmd) Usage() string {
	return `pricevault resolve <set> <number>
`
}

func (*resolveCmd) SetFlags(*flag.FlagSet) {}

func (*resolveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) error {
		uuid, err := a.runner.Resolver().Resolve(ctx, f.Arg(0), f.Arg(1))
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, uuid)
		return nil
	})
}

type pricesCmd struct {
	path   string
	series string
	card   bool
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "show the price history of a printing" }
func (*pricesCmd) Usage() string {
	return `pricevault prices [-card] [-path <jsonpath>] [-series <medium/vendor/type/finish>] <uuid> | <set> <number>

  Prints the stored price tree, the part of it selected by -path, or one
  dated series. -card first prints the printing's name, set and number.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "path", "", "JSONPath expression to evaluate against the tree, e.g. $.paper.tcgplayer")
	f.StringVar(&c.series, "series", "", "Print the series at this slash-separated branch, e.g. paper/tcgplayer/retail/normal")
	f.BoolVar(&c.card, "card", false, "Print the catalog name of the printing first.")
}

func (c *pricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 || f.NArg() > 2 || (c.path != "" && c.series != "") {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) error {
		uuid := f.Arg(0)
		var (
			tree pricetree.Tree
			err  error
		)
		if f.NArg() == 2 {
			uuid, tree, err = a.runner.Prices().ByPrinting(ctx, f.Arg(0), f.Arg(1))
		} else {
			tree, err = a.runner.Prices().History(ctx, uuid)
		}
		if err != nil {
			return err
		}
		if c.card {
			card, err := a.runner.Prices().Card(ctx, uuid)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s (%s %s)\n", card.Name, card.SetCode, card.Number)
		}

		switch {
		case c.series != "":
			points, err := prices.Series(tree, splitBranch(c.series)...)
			if err != nil {
				return err
			}
			for _, p := range points {
				fmt.Fprintln(stdout, p)
			}
		case c.path != "":
			v, err := prices.Select(tree, c.path)
			if err != nil {
				return err
			}
			b, err := json.Marshal(v)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, string(b))
		default:
			fmt.Fprintln(stdout, tree)
		}
		return nil
	})
}

func splitBranch(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "/") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type namesCmd struct {
	limit int
}

func (*namesCmd) Name() string     { return "names" }
func (*namesCmd) Synopsis() string { return "search card names" }
func (*namesCmd) Usage() string {
	return `pricevault names [-n <limit>] <query>
`
}

func (c *namesCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 10, "Maximum number of names to print.")
}

func (c *namesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) error {
		names, err := a.runner.Names().Search(ctx, strings.Join(f.Args(), " "), c.limit)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(stdout, n)
		}
		return nil
	})
}
