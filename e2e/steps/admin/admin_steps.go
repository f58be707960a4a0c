package admin

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Do(method, path string, body any, headers map[string]string) error
	POST(path string, body any) error
	AdminHeaders() map[string]string
	ScopedChart(name string) string
	StatusCode() int
	FieldString(path string) (string, error)
}

// RegisterSteps registers chart administration step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &adminSteps{tc: tc}

	// Rules
	ctx.Step(`^I create an? "([^"]*)" rule on chart "([^"]*)" mapping ([0-9.]+)mm to ([0-9.]+)mm to size (\d+)$`, steps.createRule)
	ctx.Step(`^I try to create a rule on chart "([^"]*)" without the admin token$`, steps.createRuleWithoutToken)

	// Catalog and sets
	ctx.Step(`^I add catalog size (\d+) labelled "([^"]*)" to chart "([^"]*)"$`, steps.addCatalogSize)
	ctx.Step(`^I create set "([^"]*)" on chart "([^"]*)" with sizes (\d+),(\d+),(\d+),(\d+),(\d+)$`, steps.createSet)

	// Config
	ctx.Step(`^I set chart "([^"]*)" to round (up|down) between sizes with tolerance ([0-9.]+)$`, steps.setPolicy)
	ctx.Step(`^I fetch the config of chart "([^"]*)"$`, steps.fetchConfig)

	// Preview
	ctx.Step(`^I preview a (thumb|index|middle|ring|pinky) width of ([0-9.]+) on chart "([^"]*)"$`, steps.previewWidth)
	ctx.Step(`^the preview should map to size (\d+) with fit "([^"]*)"$`, steps.previewShouldMap)
	ctx.Step(`^the preview branch should be "([^"]*)"$`, steps.previewBranchShouldBe)
}

type adminSteps struct {
	tc TestContext
}

func ruleBody(finger string, minWidth, maxWidth float64, size int) map[string]any {
	return map[string]any{
		"finger":       finger,
		"min_width_mm": minWidth,
		"max_width_mm": maxWidth,
		"mapped_size":  size,
		"priority":     0,
	}
}

func (s *adminSteps) chartPath(name, resource string) string {
	return "/admin/charts/" + s.tc.ScopedChart(name) + "/" + resource
}

func (s *adminSteps) createRule(ctx context.Context, finger, chartID string, minWidth, maxWidth float64, size int) error {
	path := s.chartPath(chartID, "rules")
	return s.tc.Do(http.MethodPost, path, ruleBody(finger, minWidth, maxWidth, size), s.tc.AdminHeaders())
}

func (s *adminSteps) createRuleWithoutToken(ctx context.Context, chartID string) error {
	path := s.chartPath(chartID, "rules")
	return s.tc.POST(path, ruleBody("ALL", 11.1, 12.0, 6))
}

func (s *adminSteps) addCatalogSize(ctx context.Context, size int, label, chartID string) error {
	body := map[string]any{
		"size_number": size,
		"label":       label,
	}
	return s.tc.Do(http.MethodPost, s.chartPath(chartID, "catalog"), body, s.tc.AdminHeaders())
}

func (s *adminSteps) createSet(ctx context.Context, name, chartID string, thumb, index, middle, ring, pinky int) error {
	body := map[string]any{
		"name": name,
		"sizes": map[string]any{
			"thumb":  thumb,
			"index":  index,
			"middle": middle,
			"ring":   ring,
			"pinky":  pinky,
		},
	}
	return s.tc.Do(http.MethodPost, s.chartPath(chartID, "sets"), body, s.tc.AdminHeaders())
}

func (s *adminSteps) setPolicy(ctx context.Context, chartID, direction string, toleranceMm float64) error {
	policy := "size_down"
	if direction == "up" {
		policy = "size_up"
	}
	body := map[string]any{
		"between_sizes_policy": policy,
		"tolerance_mm":         toleranceMm,
	}
	return s.tc.Do(http.MethodPut, s.chartPath(chartID, "config"), body, s.tc.AdminHeaders())
}

func (s *adminSteps) fetchConfig(ctx context.Context, chartID string) error {
	return s.tc.Do(http.MethodGet, s.chartPath(chartID, "config"), nil, s.tc.AdminHeaders())
}

func (s *adminSteps) previewWidth(ctx context.Context, finger string, widthMm float64, chartID string) error {
	body := map[string]any{
		"finger":   finger,
		"width_mm": widthMm,
	}
	return s.tc.Do(http.MethodPost, s.chartPath(chartID, "preview"), body, s.tc.AdminHeaders())
}

func (s *adminSteps) previewShouldMap(ctx context.Context, size int, fit string) error {
	gotSize, err := s.tc.FieldString("size")
	if err != nil {
		return err
	}
	if gotSize != strconv.Itoa(size) {
		return fmt.Errorf("expected preview size %d, got %s", size, gotSize)
	}

	gotFit, err := s.tc.FieldString("fit")
	if err != nil {
		return err
	}
	if gotFit != fit {
		return fmt.Errorf("expected preview fit %q, got %q", fit, gotFit)
	}
	return nil
}

func (s *adminSteps) previewBranchShouldBe(ctx context.Context, branch string) error {
	got, err := s.tc.FieldString("branch")
	if err != nil {
		return err
	}
	if got != branch {
		return fmt.Errorf("expected preview branch %q, got %q", branch, got)
	}
	return nil
}
