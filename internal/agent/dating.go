package agent

import (
	"context"
	"fmt"
	"math"
)

// libbyMeanLife is the mean life of C-14 under the conventional Libby
// half-life of 5568 years, used for conventional radiocarbon ages.
const libbyMeanLife = 8033.0

// calibrationOffset approximates the IntCal20 shift from conventional
// radiocarbon years to calendar years for the Holocene range this service
// deals with.
const calibrationOffset = 200.0

// RadiocarbonAge converts percent modern carbon to a conventional
// radiocarbon age in years BP.
func RadiocarbonAge(pmc float64) (float64, error) {
	if pmc <= 0 || pmc > 100 {
		return 0, fmt.Errorf("percent modern carbon %v outside (0, 100]", pmc)
	}
	return -libbyMeanLife * math.Log(pmc/100), nil
}

// Calibrate applies the approximate calibration offset and returns the
// calibrated age with its 1-sigma and 2-sigma ranges.
func Calibrate(radiocarbonAge, measurementError float64) (calibrated float64, oneSigma, twoSigma [2]float64) {
	calibrated = radiocarbonAge + calibrationOffset
	oneSigma = [2]float64{calibrated - measurementError, calibrated + measurementError}
	twoSigma = [2]float64{calibrated - 2*measurementError, calibrated + 2*measurementError}
	return calibrated, oneSigma, twoSigma
}

// DatingAgent interprets radiocarbon measurements for organic samples. The
// numeric conversion happens locally; the reasoning call interprets the
// result against the sample's context.
type DatingAgent struct {
	reasoner *Reasoner
	prompts  *PromptManager
}

func NewDatingAgent(reasoner *Reasoner, prompts *PromptManager) *DatingAgent {
	return &DatingAgent{reasoner: reasoner, prompts: prompts}
}

func (a *DatingAgent) Key() string {
	return "carbon_dating"
}

func (a *DatingAgent) Describe() string {
	return "Interpret radiocarbon measurements for an organic sample."
}

func (a *DatingAgent) Execute(ctx context.Context, input map[string]any) (*Finding, error) {
	userPrompt := fmt.Sprintf("DATING SAMPLE:\n%s", formatInput(input))

	if block := a.computeBlock(input); block != "" {
		userPrompt += "\n\nCOMPUTED VALUES:\n" + block
	}

	completion, err := a.reasoner.Complete(ctx, a.Key(), a.prompts.Get(a.Key()), userPrompt)
	if err != nil {
		return nil, err
	}

	return &Finding{
		Payload:    completion.Payload,
		Confidence: completion.Confidence,
	}, nil
}

// computeBlock derives conventional and calibrated ages when the sample
// carries a percent-modern-carbon measurement.
func (a *DatingAgent) computeBlock(input map[string]any) string {
	pmc, ok := input["percent_modern_carbon"].(float64)
	if !ok {
		return ""
	}

	age, err := RadiocarbonAge(pmc)
	if err != nil {
		return fmt.Sprintf("percent_modern_carbon rejected: %v", err)
	}

	measurementError := 50.0
	if e, ok := input["measurement_error"].(float64); ok && e > 0 {
		measurementError = e
	}

	calibrated, oneSigma, twoSigma := Calibrate(age, measurementError)
	return fmt.Sprintf(
		"conventional radiocarbon age: %.0f BP\ncalibrated age (intcal20 approximation): %.0f BP\n1-sigma range: %.0f-%.0f BP\n2-sigma range: %.0f-%.0f BP",
		age, calibrated, oneSigma[0], oneSigma[1], twoSigma[0], twoSigma[1],
	)
}
