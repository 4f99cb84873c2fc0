package movies

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string) error
	POST(path, body string) error
	StatusCode() int
	GetResponseField(field string) (any, error)
	ResponseArray() ([]map[string]any, error)
	Remember(alias, id string)
	Expand(path string) string
}

// RegisterSteps registers movie catalog step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &movieSteps{tc: tc}

	ctx.Step(`^a movie "([^"]*)" released in (\d{4}) starring "([^"]*)" as "([^"]*)"$`, steps.createMovie)
	ctx.Step(`^I remember the response id as "([^"]*)"$`, steps.rememberID)
	ctx.Step(`^the response actors should be "([^"]*)"$`, steps.actorsShouldBe)
	ctx.Step(`^the movie list should start with "([^"]*)"$`, steps.listShouldStartWith)
	ctx.Step(`^the movie list should contain "([^"]*)"$`, steps.listShouldContain)
	ctx.Step(`^the movie list should not contain "([^"]*)"$`, steps.listShouldNotContain)
}

type movieSteps struct {
	tc TestContext
}

func (s *movieSteps) createMovie(ctx context.Context, title string, year int, actors, alias string) error {
	body := fmt.Sprintf(`{"title":%q,"releaseYear":%d,"actors":%q}`, title, year, actors)
	if err := s.tc.POST("/movies", body); err != nil {
		return err
	}
	if s.tc.StatusCode() != 201 {
		return fmt.Errorf("creating %q returned status %d", title, s.tc.StatusCode())
	}
	return s.rememberID(ctx, alias)
}

func (s *movieSteps) rememberID(ctx context.Context, alias string) error {
	value, err := s.tc.GetResponseField("id")
	if err != nil {
		return err
	}
	movieID, ok := value.(string)
	if !ok || movieID == "" {
		return fmt.Errorf("response id is not a string: %v", value)
	}
	s.tc.Remember(alias, movieID)
	return nil
}

func (s *movieSteps) actorsShouldBe(ctx context.Context, expected string) error {
	value, err := s.tc.GetResponseField("actors")
	if err != nil {
		return err
	}
	items, ok := value.([]any)
	if !ok {
		return fmt.Errorf("actors is not a list: %v", value)
	}
	got := make([]string, 0, len(items))
	for _, item := range items {
		got = append(got, fmt.Sprint(item))
	}
	if strings.Join(got, "|") != expected {
		return fmt.Errorf("expected actors %q, got %q", expected, strings.Join(got, "|"))
	}
	return nil
}

func (s *movieSteps) listShouldStartWith(ctx context.Context, alias string) error {
	movies, err := s.list()
	if err != nil {
		return err
	}
	want := s.tc.Expand("{" + alias + "}")
	if len(movies) == 0 || movies[0]["id"] != want {
		return fmt.Errorf("expected %s (%s) first in the list", alias, want)
	}
	return nil
}

func (s *movieSteps) listShouldContain(ctx context.Context, alias string) error {
	found, err := s.listHas(alias)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("expected %s in the movie list", alias)
	}
	return nil
}

func (s *movieSteps) listShouldNotContain(ctx context.Context, alias string) error {
	found, err := s.listHas(alias)
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("did not expect %s in the movie list", alias)
	}
	return nil
}

func (s *movieSteps) listHas(alias string) (bool, error) {
	movies, err := s.list()
	if err != nil {
		return false, err
	}
	want := s.tc.Expand("{" + alias + "}")
	for _, m := range movies {
		if m["id"] == want {
			return true, nil
		}
	}
	return false, nil
}

func (s *movieSteps) list() ([]map[string]any, error) {
	if err := s.tc.GET("/movies"); err != nil {
		return nil, err
	}
	return s.tc.ResponseArray()
}
