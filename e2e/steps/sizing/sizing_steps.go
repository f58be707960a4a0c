package sizing

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string) error
	ScopedChart(name string) string
	StatusCode() int
	FieldString(path string) (string, error)
	Save(key, value string)
	Saved(key string) (string, error)
}

// RegisterSteps registers recommendation step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &sizingSteps{tc: tc}

	// Recommendation requests
	ctx.Step(`^I request a recommendation for the measurement$`, steps.requestRecommendation)
	ctx.Step(`^I request a recommendation for the measurement on chart "([^"]*)"$`, steps.requestRecommendationOnChart)

	// Recommendation assertions
	ctx.Step(`^the size profile should be "([^"]*)"$`, steps.sizeProfileShouldBe)
	ctx.Step(`^the (thumb|index|middle|ring|pinky) finger size should be (\d+)$`, steps.fingerSizeShouldBe)
	ctx.Step(`^every finger fit should be "([^"]*)"$`, steps.everyFingerFitShouldBe)
	ctx.Step(`^the best matching set should be "([^"]*)" with diff (\d+)$`, steps.bestSetShouldBe)

	// History
	ctx.Step(`^I look up the recommendation history for the measurement$`, steps.lookupHistory)
	ctx.Step(`^I save the first recommendation from the history$`, steps.saveFirstFromHistory)
	ctx.Step(`^I fetch the saved recommendation$`, steps.fetchSavedRecommendation)
}

type sizingSteps struct {
	tc TestContext
}

func (s *sizingSteps) requestRecommendation(ctx context.Context) error {
	measurementID, err := s.tc.Saved("measurement")
	if err != nil {
		return err
	}
	return s.tc.POST("/recommendations", map[string]any{"measurement_id": measurementID})
}

func (s *sizingSteps) requestRecommendationOnChart(ctx context.Context, chartID string) error {
	measurementID, err := s.tc.Saved("measurement")
	if err != nil {
		return err
	}
	body := map[string]any{
		"measurement_id": measurementID,
		"chart_id":       s.tc.ScopedChart(chartID),
	}
	return s.tc.POST("/recommendations", body)
}

func (s *sizingSteps) sizeProfileShouldBe(ctx context.Context, expected string) error {
	got, err := s.tc.FieldString("size_profile")
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected size profile %q, got %q", expected, got)
	}
	return nil
}

func (s *sizingSteps) fingerSizeShouldBe(ctx context.Context, finger string, expected int) error {
	got, err := s.tc.FieldString("per_finger." + finger + ".size")
	if err != nil {
		return err
	}
	if got != strconv.Itoa(expected) {
		return fmt.Errorf("expected %s size %d, got %s", finger, expected, got)
	}
	return nil
}

func (s *sizingSteps) everyFingerFitShouldBe(ctx context.Context, expected string) error {
	for _, finger := range []string{"thumb", "index", "middle", "ring", "pinky"} {
		got, err := s.tc.FieldString("per_finger." + finger + ".fit")
		if err != nil {
			return err
		}
		if got != expected {
			return fmt.Errorf("expected %s fit %q, got %q", finger, expected, got)
		}
	}
	return nil
}

// bestSetShouldBe checks the first entry of matching_sets; the service
// returns them best first.
func (s *sizingSteps) bestSetShouldBe(ctx context.Context, name string, diff int) error {
	gotName, err := s.tc.FieldString("matching_sets.0.set_name")
	if err != nil {
		return err
	}
	if gotName != name {
		return fmt.Errorf("expected best set %q, got %q", name, gotName)
	}

	gotDiff, err := s.tc.FieldString("matching_sets.0.diff")
	if err != nil {
		return err
	}
	if gotDiff != strconv.Itoa(diff) {
		return fmt.Errorf("expected best set diff %d, got %s", diff, gotDiff)
	}
	return nil
}

func (s *sizingSteps) lookupHistory(ctx context.Context) error {
	measurementID, err := s.tc.Saved("measurement")
	if err != nil {
		return err
	}
	return s.tc.GET("/measurements/" + measurementID + "/recommendations")
}

func (s *sizingSteps) saveFirstFromHistory(ctx context.Context) error {
	id, err := s.tc.FieldString("0.id")
	if err != nil {
		return err
	}
	s.tc.Save("recommendation", id)
	return nil
}

func (s *sizingSteps) fetchSavedRecommendation(ctx context.Context) error {
	id, err := s.tc.Saved("recommendation")
	if err != nil {
		return err
	}
	return s.tc.GET("/recommendations/" + id)
}
