package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/bus-eta-service/internal/domain"
	"github.com/bus-eta-service/internal/usecase"
	"github.com/bus-eta-service/internal/viewmodel"
)

func routeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "direction", Aliases: []string{"d"}, Value: "outbound", Usage: "inbound or outbound"},
		&cli.StringFlag{Name: "service-type", Aliases: []string{"s"}, Value: "1"},
	}
}

func routesCommand(b *board) *cli.Command {
	return &cli.Command{
		Name:  "routes",
		Usage: "list routes",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "favorites", Aliases: []string{"f"}, Usage: "only favorite routes"},
		},
		Action: func(c *cli.Context) error {
			return b.run(c, func(ctx context.Context, async *usecase.AsyncGateway, done func(error)) {
				async.FetchAllRoutes(ctx, func(routes []domain.Route, source usecase.Source) {
					vm := viewmodel.NewRouteListViewModel(b.store, b.log)
					defer vm.Close()

					vm.ApplyDataset(ctx, routes)
					if c.Bool("favorites") {
						vm.EnterFavoritesOnlyMode(ctx)
					}
					printRoutes(c.App.Writer, vm, source, b.lang)
					done(nil)
				})
			})
		},
	}
}

func stopsCommand(b *board) *cli.Command {
	return &cli.Command{
		Name:      "stops",
		Usage:     "list the stops of a route with arrivals",
		ArgsUsage: "ROUTE",
		Flags:     routeFlags(),
		Action: func(c *cli.Context) error {
			routeID := c.Args().First()
			direction, serviceType := c.String("direction"), c.String("service-type")

			return b.run(c, func(ctx context.Context, async *usecase.AsyncGateway, done func(error)) {
				vm, err := viewmodel.NewStopListViewModel(ctx, b.store, routeID, direction, serviceType, b.log)
				if err != nil {
					done(err)
					return
				}

				async.FetchStopsForRoute(ctx, routeID, direction, serviceType, func(stops []domain.Stop, source usecase.Source, err error) {
					if err != nil {
						vm.Close()
						done(err)
						return
					}
					vm.SetStops(stops)
					if source == usecase.SourceFallback {
						printStops(c.App.Writer, vm, source, b.lang)
						vm.Close()
						done(nil)
						return
					}

					async.FetchEtaForStops(ctx, stops, routeID, serviceType, func(results []usecase.StopEta) {
						defer vm.Close()
						vm.ApplyStopEtas(results)
						printStops(c.App.Writer, vm, source, b.lang)
						done(nil)
					})
				})
			})
		},
	}
}

func etaCommand(b *board) *cli.Command {
	return &cli.Command{
		Name:      "eta",
		Usage:     "arrivals at a stop",
		ArgsUsage: "STOP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "route", Aliases: []string{"r"}, Usage: "limit to one route"},
			&cli.StringFlag{Name: "service-type", Aliases: []string{"s"}, Value: "1"},
		},
		Action: func(c *cli.Context) error {
			stopID := c.Args().First()

			return b.run(c, func(ctx context.Context, async *usecase.AsyncGateway, done func(error)) {
				callback := func(entries []domain.EtaEntry, err error) {
					if err != nil {
						done(err)
						return
					}
					printEtas(c.App.Writer, entries, b.lang)
					done(nil)
				}
				if route := c.String("route"); route != "" {
					async.FetchEtaForStop(ctx, stopID, route, c.String("service-type"), callback)
					return
				}
				async.FetchEtaForStopAllRoutes(ctx, stopID, callback)
			})
		},
	}
}

func favoriteCommand(b *board) *cli.Command {
	return &cli.Command{
		Name:      "favorite",
		Usage:     "toggle a route in favorites",
		ArgsUsage: "ROUTE",
		Flags:     routeFlags(),
		Action: func(c *cli.Context) error {
			key, err := b.store.Key(c.Args().First(), c.String("direction"), c.String("service-type"))
			if err != nil {
				return err
			}
			state, err := b.store.Toggle(c.Context, key)
			if err != nil {
				return err
			}
			if state {
				fmt.Fprintf(c.App.Writer, "★ %s\n", key)
			} else {
				fmt.Fprintf(c.App.Writer, "☆ %s\n", key)
			}
			return nil
		},
	}
}

func printRoutes(out io.Writer, vm *viewmodel.RouteListViewModel, source usecase.Source, lang domain.Language) {
	if empty := vm.EmptyState(lang); empty != "" {
		fmt.Fprintln(out, empty)
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, r := range vm.Items() {
		mark := " "
		if r.IsFavorite {
			mark = "★"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s → %s\n", mark, r.RouteID, r.Direction, r.Origin(lang), r.Destination(lang))
	}
	w.Flush()
	printSource(out, source)
}

func printStops(out io.Writer, vm *viewmodel.StopListViewModel, source usecase.Source, lang domain.Language) {
	mark := "☆"
	if vm.IsFavorite() {
		mark = "★"
	}
	fmt.Fprintf(out, "%s %s\n", mark, vm.Key())

	if empty := vm.EmptyState(lang); empty != "" {
		fmt.Fprintln(out, empty)
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, row := range vm.Rows(lang) {
		fmt.Fprintf(w, "%d\t%s\t%s\n", row.Stop.Sequence, row.Stop.Name(lang), row.EtaText)
	}
	w.Flush()
	printSource(out, source)
}

func printEtas(out io.Writer, entries []domain.EtaEntry, lang domain.Language) {
	if len(entries) == 0 {
		fmt.Fprintln(out, viewmodel.FormatMinutes(domain.MinutesUnknown, lang))
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.RouteID, e.Destination(lang), viewmodel.FormatMinutes(e.MinutesRemaining, lang), e.Remark(lang))
	}
	w.Flush()
}

func printSource(out io.Writer, source usecase.Source) {
	if source == usecase.SourceFallback {
		fmt.Fprintln(out, "(offline data)")
	}
}
