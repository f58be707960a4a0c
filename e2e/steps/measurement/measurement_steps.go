package measurement

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string) error
	StatusCode() int
	FieldString(path string) (string, error)
	Save(key, value string)
	Saved(key string) (string, error)
}

// RegisterSteps registers capture ingest and merge step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &measurementSteps{tc: tc}

	// Ingest steps
	ctx.Step(`^I ingest a (left|right) hand thumb capture with curve-adjusted width ([0-9.]+)$`, steps.ingestThumbCapture)
	ctx.Step(`^I ingest a (left|right) hand four-finger capture with all curve-adjusted widths ([0-9.]+)$`, steps.ingestFourFingerCapture)
	ctx.Step(`^I ingest a full-hand capture with all curve-adjusted widths ([0-9.]+)$`, steps.ingestFullCapture)
	ctx.Step(`^I ingest a full-hand capture with curve-adjusted widths ([0-9.]+), ([0-9.]+), ([0-9.]+), ([0-9.]+) and ([0-9.]+)$`, steps.ingestFullCaptureWidths)

	// Merge steps
	ctx.Step(`^I merge the thumb and four-finger captures$`, steps.mergeCaptures)
	ctx.Step(`^I merge the thumb capture with itself$`, steps.mergeThumbWithItself)

	// Lookup and assertion steps
	ctx.Step(`^I fetch the merged measurement$`, steps.fetchMergedMeasurement)
	ctx.Step(`^the merged measurement keeps its source capture IDs$`, steps.mergedKeepsSourceIDs)
}

type measurementSteps struct {
	tc TestContext
}

// fingerPayload builds one finger entry. Lengths do not influence sizing,
// so a fixed plausible value keeps payloads readable.
func fingerPayload(widthMm float64) map[string]any {
	return map[string]any{
		"width_mm":                widthMm,
		"length_mm":               widthMm * 1.4,
		"curve_adjusted_width_mm": widthMm,
		"confidence":              0.97,
	}
}

func (s *measurementSteps) ingest(hand, photoType string, fingers map[string]any, saveAs string) error {
	body := map[string]any{
		"hand":               hand,
		"photo_type":         photoType,
		"px_per_mm":          8.0,
		"fingers":            fingers,
		"overall_confidence": 0.95,
	}
	if err := s.tc.POST("/measurements", body); err != nil {
		return err
	}
	if s.tc.StatusCode() != 201 {
		return fmt.Errorf("ingest of %s capture returned %d", photoType, s.tc.StatusCode())
	}
	id, err := s.tc.FieldString("id")
	if err != nil {
		return err
	}
	s.tc.Save(saveAs, id)
	return nil
}

func (s *measurementSteps) ingestThumbCapture(ctx context.Context, hand string, widthMm float64) error {
	fingers := map[string]any{"thumb": fingerPayload(widthMm)}
	return s.ingest(hand, "thumb", fingers, "thumb")
}

func (s *measurementSteps) ingestFourFingerCapture(ctx context.Context, hand string, widthMm float64) error {
	fingers := map[string]any{}
	for _, name := range []string{"index", "middle", "ring", "pinky"} {
		fingers[name] = fingerPayload(widthMm)
	}
	return s.ingest(hand, "four_finger", fingers, "four_finger")
}

func (s *measurementSteps) ingestFullCapture(ctx context.Context, widthMm float64) error {
	fingers := map[string]any{}
	for _, name := range []string{"thumb", "index", "middle", "ring", "pinky"} {
		fingers[name] = fingerPayload(widthMm)
	}
	return s.ingest("right", "full", fingers, "measurement")
}

// ingestFullCaptureWidths takes widths in thumb, index, middle, ring,
// pinky order, matching the size-profile order.
func (s *measurementSteps) ingestFullCaptureWidths(ctx context.Context, thumb, index, middle, ring, pinky float64) error {
	fingers := map[string]any{
		"thumb":  fingerPayload(thumb),
		"index":  fingerPayload(index),
		"middle": fingerPayload(middle),
		"ring":   fingerPayload(ring),
		"pinky":  fingerPayload(pinky),
	}
	return s.ingest("right", "full", fingers, "measurement")
}

func (s *measurementSteps) mergeCaptures(ctx context.Context) error {
	thumbID, err := s.tc.Saved("thumb")
	if err != nil {
		return err
	}
	fourFingerID, err := s.tc.Saved("four_finger")
	if err != nil {
		return err
	}

	body := map[string]any{
		"thumb_measurement_id":       thumbID,
		"four_finger_measurement_id": fourFingerID,
	}
	if err := s.tc.POST("/measurements/merge", body); err != nil {
		return err
	}
	if s.tc.StatusCode() == 201 {
		id, err := s.tc.FieldString("id")
		if err != nil {
			return err
		}
		s.tc.Save("measurement", id)
	}
	return nil
}

func (s *measurementSteps) mergeThumbWithItself(ctx context.Context) error {
	thumbID, err := s.tc.Saved("thumb")
	if err != nil {
		return err
	}

	body := map[string]any{
		"thumb_measurement_id":       thumbID,
		"four_finger_measurement_id": thumbID,
	}
	return s.tc.POST("/measurements/merge", body)
}

func (s *measurementSteps) fetchMergedMeasurement(ctx context.Context) error {
	id, err := s.tc.Saved("measurement")
	if err != nil {
		return err
	}
	return s.tc.GET("/measurements/" + id)
}

func (s *measurementSteps) mergedKeepsSourceIDs(ctx context.Context) error {
	thumbID, err := s.tc.Saved("thumb")
	if err != nil {
		return err
	}
	fourFingerID, err := s.tc.Saved("four_finger")
	if err != nil {
		return err
	}

	gotThumb, err := s.tc.FieldString("thumb_source_id")
	if err != nil {
		return err
	}
	if gotThumb != thumbID {
		return fmt.Errorf("expected thumb_source_id %q, got %q", thumbID, gotThumb)
	}

	gotFour, err := s.tc.FieldString("four_finger_source_id")
	if err != nil {
		return err
	}
	if gotFour != fourFingerID {
		return fmt.Errorf("expected four_finger_source_id %q, got %q", fourFingerID, gotFour)
	}
	return nil
}
