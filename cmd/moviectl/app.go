package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"cinedex/internal/movie/client"
	"cinedex/internal/movie/models"
	"cinedex/internal/movie/validation"
	"cinedex/internal/platform/config"
	id "cinedex/pkg/domain"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// API is the subset of the movie client the commands use.
type API interface {
	List(ctx context.Context) ([]*models.Movie, error)
	Get(ctx context.Context, movieID id.MovieID) (*models.Movie, error)
	Create(ctx context.Context, fields models.Fields) (*models.Movie, error)
	Update(ctx context.Context, movieID id.MovieID, fields models.Fields) (*models.Movie, error)
	Delete(ctx context.Context, movieID id.MovieID) error
}

type app struct {
	api    API
	stdout io.Writer
	stderr io.Writer
	admin  bool
}

func httpClient(cfg config.Client) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

const usage = `usage: moviectl [--admin] <command> [flags]

commands:
  list                      list all movies, newest first
  show <id>                 show one movie
  add -title -year -actors  add a movie
  edit <id> [flags]         edit a movie (admin)
  delete <id>               delete a movie (admin)
`

func (a *app) run(ctx context.Context, args []string) int {
	global := flag.NewFlagSet("moviectl", flag.ContinueOnError)
	global.SetOutput(a.stderr)
	global.BoolVar(&a.admin, "admin", false, "enable edit and delete")
	global.Usage = func() { fmt.Fprint(a.stderr, usage) }
	if err := global.Parse(args); err != nil {
		return exitUsage
	}

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return exitUsage
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "list":
		return a.list(ctx)
	case "show":
		return a.show(ctx, cmdArgs)
	case "add":
		return a.add(ctx, cmdArgs)
	case "edit", "delete":
		if !a.admin {
			a.fail("%s is only available in the admin view (pass --admin)", cmd)
			return exitUsage
		}
		if cmd == "edit" {
			return a.edit(ctx, cmdArgs)
		}
		return a.remove(ctx, cmdArgs)
	default:
		a.fail("unknown command %q", cmd)
		global.Usage()
		return exitUsage
	}
}

func (a *app) list(ctx context.Context) int {
	movies, err := a.api.List(ctx)
	if err != nil {
		return a.apiFailure(err)
	}
	if len(movies) == 0 {
		fmt.Fprintln(a.stdout, "No movies yet.")
		return exitOK
	}

	table := tablewriter.NewWriter(a.stdout)
	table.SetHeader([]string{"ID", "Title", "Year", "Actors"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.AppendBulk(lo.Map(movies, func(m *models.Movie, _ int) []string {
		return []string{m.ID.String(), m.Title, strconv.Itoa(m.ReleaseYear), validation.JoinActors(m.Actors)}
	}))
	table.Render()
	return exitOK
}

func (a *app) show(ctx context.Context, args []string) int {
	movieID, ok := a.movieIDArg("show", args)
	if !ok {
		return exitUsage
	}
	movie, err := a.api.Get(ctx, movieID)
	if err != nil {
		return a.apiFailure(err)
	}
	a.printMovie(movie)
	return exitOK
}

func (a *app) add(ctx context.Context, args []string) int {
	fs, in := a.formFlags("add", validation.Input{})
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	fields, ok := a.validate(*in)
	if !ok {
		return exitFailure
	}
	movie, err := a.api.Create(ctx, fields)
	if err != nil {
		return a.apiFailure(err)
	}
	fmt.Fprintln(a.stdout, color.Green.Sprint("Movie added."))
	a.printMovie(movie)
	return exitOK
}

// edit prefills the form with the stored values so only the flags given
// change.
func (a *app) edit(ctx context.Context, args []string) int {
	movieID, ok := a.movieIDArg("edit", args)
	if !ok {
		return exitUsage
	}
	current, err := a.api.Get(ctx, movieID)
	if err != nil {
		return a.apiFailure(err)
	}

	fs, in := a.formFlags("edit", validation.Input{
		Title:       current.Title,
		ReleaseYear: strconv.Itoa(current.ReleaseYear),
		Actors:      validation.JoinActors(current.Actors),
	})
	if err := fs.Parse(args[1:]); err != nil {
		return exitUsage
	}

	fields, ok := a.validate(*in)
	if !ok {
		return exitFailure
	}
	movie, err := a.api.Update(ctx, movieID, fields)
	if err != nil {
		return a.apiFailure(err)
	}
	fmt.Fprintln(a.stdout, color.Green.Sprint("Movie updated."))
	a.printMovie(movie)
	return exitOK
}

func (a *app) remove(ctx context.Context, args []string) int {
	movieID, ok := a.movieIDArg("delete", args)
	if !ok {
		return exitUsage
	}
	if err := a.api.Delete(ctx, movieID); err != nil {
		return a.apiFailure(err)
	}
	fmt.Fprintln(a.stdout, color.Green.Sprint("Movie deleted."))
	return exitOK
}

func (a *app) formFlags(name string, defaults validation.Input) (*flag.FlagSet, *validation.Input) {
	in := defaults
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.StringVar(&in.Title, "title", defaults.Title, "movie title")
	fs.StringVar(&in.ReleaseYear, "year", defaults.ReleaseYear, "release year (4 digits)")
	fs.StringVar(&in.Actors, "actors", defaults.Actors, "comma-separated actors")
	return fs, &in
}

// validate runs the form rules and prints each failing field in red.
func (a *app) validate(in validation.Input) (models.Fields, bool) {
	fields, errs := validation.Validate(in)
	if len(errs) == 0 {
		return fields, true
	}
	a.printFieldErrors(errs)
	return models.Fields{}, false
}

// printFieldErrors prints field messages in form order.
func (a *app) printFieldErrors(errs map[string]string) {
	for _, field := range []string{validation.FieldTitle, validation.FieldReleaseYear, validation.FieldActors} {
		if msg, ok := errs[field]; ok {
			fmt.Fprintln(a.stderr, color.Red.Sprintf("%s: %s", field, msg))
		}
	}
}

func (a *app) movieIDArg(cmd string, args []string) (id.MovieID, bool) {
	if len(args) == 0 {
		a.fail("%s needs a movie id", cmd)
		return id.MovieID{}, false
	}
	movieID, err := id.ParseMovieID(args[0])
	if err != nil {
		a.fail("invalid movie id %q", args[0])
		return id.MovieID{}, false
	}
	return movieID, true
}

func (a *app) printMovie(m *models.Movie) {
	fmt.Fprintf(a.stdout, "ID:      %s\n", m.ID)
	fmt.Fprintf(a.stdout, "Title:   %s\n", m.Title)
	fmt.Fprintf(a.stdout, "Year:    %d\n", m.ReleaseYear)
	fmt.Fprintf(a.stdout, "Actors:  %s\n", validation.JoinActors(m.Actors))
	fmt.Fprintf(a.stdout, "Created: %s\n", m.CreatedAt.Format(time.RFC3339))
}

func (a *app) apiFailure(err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		a.fail("%s", apiErr.Message)
		a.printFieldErrors(apiErr.Fields)
		return exitFailure
	}
	a.fail("request failed: %v", err)
	return exitFailure
}

func (a *app) fail(format string, args ...any) {
	fmt.Fprintln(a.stderr, color.Red.Sprintf(format, args...))
}
