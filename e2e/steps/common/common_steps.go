package common

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string) error
	StatusCode() int
	FieldString(path string) (string, error)
	FieldLen(path string) (int, error)
}

// RegisterSteps registers health and generic request/assertion steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	// Background
	ctx.Step(`^the service is healthy$`, steps.serviceIsHealthy)

	// Generic requests
	ctx.Step(`^I GET "([^"]*)"$`, steps.get)

	// Generic assertions
	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should have (\d+) (?:entries|entry|items|item)$`, steps.fieldShouldHaveLen)
	ctx.Step(`^the response should have (\d+) (?:entries|entry|items|item)$`, steps.responseShouldHaveLen)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) serviceIsHealthy(ctx context.Context) error {
	if err := s.tc.GET("/health"); err != nil {
		return err
	}
	if s.tc.StatusCode() != 200 {
		return fmt.Errorf("health endpoint returned %d", s.tc.StatusCode())
	}
	status, err := s.tc.FieldString("status")
	if err != nil {
		return err
	}
	if status != "ok" {
		return fmt.Errorf("service reports status %q", status)
	}
	return nil
}

func (s *commonSteps) get(ctx context.Context, path string) error {
	return s.tc.GET(path)
}

func (s *commonSteps) statusShouldBe(ctx context.Context, expected int) error {
	if s.tc.StatusCode() != expected {
		return fmt.Errorf("expected status %d, got %d", expected, s.tc.StatusCode())
	}
	return nil
}

func (s *commonSteps) fieldShouldBe(ctx context.Context, path, expected string) error {
	got, err := s.tc.FieldString(path)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected field %q to be %q, got %q", path, expected, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldHaveLen(ctx context.Context, path string, expected int) error {
	got, err := s.tc.FieldLen(path)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected field %q to have %d entries, got %d", path, expected, got)
	}
	return nil
}

func (s *commonSteps) responseShouldHaveLen(ctx context.Context, expected int) error {
	got, err := s.tc.FieldLen("")
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected response to have %d entries, got %d", expected, got)
	}
	return nil
}
