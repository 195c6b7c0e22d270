package style

import (
	"encoding/json"
	"fmt"

	"github.com/arthur-debert/deskup/pkg/errors"
	"github.com/arthur-debert/deskup/pkg/provision"
)

// JSONRenderer renders machine-readable output
type JSONRenderer struct{}

// NewJSONRenderer creates a renderer for JSON output
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

type jsonStep struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

type jsonReport struct {
	RunID      string     `json:"run_id"`
	User       string     `json:"user"`
	Init       string     `json:"init"`
	Success    bool       `json:"success"`
	Completed  int        `json:"completed"`
	Skipped    int        `json:"skipped"`
	Pending    int        `json:"pending"`
	FailedStep string     `json:"failed_step,omitempty"`
	Error      string     `json:"error,omitempty"`
	ExitCode   int        `json:"exit_code"`
	DurationMs int64      `json:"duration_ms"`
	Steps      []jsonStep `json:"steps"`
}

type jsonPlanStatus struct {
	User  string     `json:"user"`
	Init  string     `json:"init"`
	Done  int        `json:"done"`
	Total int        `json:"total"`
	Steps []jsonStep `json:"steps"`
}

type jsonError struct {
	Error    string `json:"error"`
	ExitCode int    `json:"exit_code"`
	Command  string `json:"command,omitempty"`
}

func (r *JSONRenderer) RenderReport(report *provision.Report) string {
	out := jsonReport{
		RunID:      report.RunID,
		User:       report.User,
		Init:       report.Init.String(),
		Success:    report.Success(),
		Completed:  report.CompletedSteps,
		Skipped:    report.SkippedSteps,
		Pending:    pendingSteps(report),
		FailedStep: report.FailedStep,
		DurationMs: report.Duration().Milliseconds(),
		Steps:      jsonSteps(report.Steps),
	}
	if report.Err != nil {
		out.Error = report.Err.Error()
		out.ExitCode = errors.ExitCode(report.Err)
	}
	return marshal(out)
}

func (r *JSONRenderer) RenderPlanStatus(plan *provision.Plan, results []provision.StepResult) string {
	out := jsonPlanStatus{
		User:  plan.User,
		Init:  plan.Init.String(),
		Total: len(results),
		Steps: jsonSteps(results),
	}
	for _, result := range results {
		if result.Status == provision.StatusSkipped {
			out.Done++
		}
	}
	return marshal(out)
}

func (r *JSONRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	out := jsonError{
		Error:    err.Error(),
		ExitCode: errors.ExitCode(err),
	}
	if command, ok := errors.DetailString(err, errors.DetailCommand); ok {
		out.Command = command
	}
	return marshal(out)
}

func jsonSteps(results []provision.StepResult) []jsonStep {
	steps := make([]jsonStep, 0, len(results))
	for _, result := range results {
		step := jsonStep{
			Name:       result.Name,
			Status:     string(result.Status),
			DurationMs: result.Duration().Milliseconds(),
		}
		if result.Error != nil {
			step.Error = result.Error.Error()
		}
		steps = append(steps, step)
	}
	return steps
}

func marshal(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data) + "\n"
}
