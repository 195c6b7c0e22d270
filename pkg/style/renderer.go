package style

import (
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/deskup/pkg/errors"
	"github.com/arthur-debert/deskup/pkg/provision"
)

// Renderer turns provisioning results into display output
type Renderer interface {
	// RenderReport renders the outcome of a plan run.
	RenderReport(report *provision.Report) string

	// RenderPlanStatus renders the probed state of a plan: which steps
	// are already done and which still have work.
	RenderPlanStatus(plan *provision.Plan, results []provision.StepResult) string

	// RenderError renders a failure that happened outside a plan run.
	RenderError(err error) string
}

// TerminalRenderer renders styled terminal output
type TerminalRenderer struct{}

// NewTerminalRenderer creates a renderer for styled terminal output
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{}
}

func (r *TerminalRenderer) RenderReport(report *provision.Report) string {
	var out strings.Builder

	header := fmt.Sprintf("Provisioning %s (%s)", report.User, report.Init)
	out.WriteString(TitleStyle.Render(header) + "\n\n")

	for _, step := range report.Steps {
		out.WriteString(fmt.Sprintf("  %s %s", indicatorFor(step.Status), step.Name))
		switch step.Status {
		case provision.StatusCompleted:
			out.WriteString(MutedStyle.Render(" (" + formatDuration(step.Duration()) + ")"))
		case provision.StatusSkipped:
			out.WriteString(MutedStyle.Render(" (already done)"))
		}
		out.WriteString("\n")
	}

	out.WriteString("\n")
	switch {
	case !report.Success():
		out.WriteString(r.renderFailure(report.FailedStep, report.Err))
	case pendingSteps(report) > 0:
		// Pending steps on a successful report mean a preview: nothing
		// ran, the counts describe what a real run would do.
		out.WriteString(MutedStyle.Render(fmt.Sprintf(
			"%d of %d steps already done, %d to run",
			report.SkippedSteps, len(report.Steps), pendingSteps(report))) + "\n")
	default:
		out.WriteString(SuccessStyle.Render(fmt.Sprintf(
			"%d completed, %d skipped in %s",
			report.CompletedSteps, report.SkippedSteps, formatDuration(report.Duration()))) + "\n")
	}

	return out.String()
}

func (r *TerminalRenderer) RenderPlanStatus(plan *provision.Plan, results []provision.StepResult) string {
	var out strings.Builder

	header := fmt.Sprintf("Plan for %s (%s)", plan.User, plan.Init)
	out.WriteString(TitleStyle.Render(header) + "\n\n")

	done := 0
	for _, result := range results {
		switch result.Status {
		case provision.StatusSkipped:
			done++
			out.WriteString(fmt.Sprintf("  %s %s %s\n",
				CompletedIndicator, result.Name, MutedStyle.Render("done")))
		case provision.StatusFailed:
			out.WriteString(fmt.Sprintf("  %s %s %s\n",
				FailedIndicator, result.Name,
				ErrorStyle.Render(fmt.Sprintf("check failed: %v", result.Error))))
		default:
			out.WriteString(fmt.Sprintf("  %s %s\n", PendingIndicator, result.Name))
		}
	}

	out.WriteString("\n")
	out.WriteString(MutedStyle.Render(fmt.Sprintf(
		"%d of %d steps already done", done, len(results))) + "\n")
	return out.String()
}

func (r *TerminalRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}

	var out strings.Builder
	out.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", err)) + "\n")
	if command, ok := errors.DetailString(err, errors.DetailCommand); ok {
		out.WriteString("  last command: " + CommandStyle.Render(command) + "\n")
	}
	return out.String()
}

// renderFailure builds the fatal block shown after a failed run: the
// step that stopped everything, the exit status and the command behind
// it.
func (r *TerminalRenderer) renderFailure(step string, err error) string {
	var out strings.Builder

	out.WriteString(ErrorStyle.Render(fmt.Sprintf(
		"FAILED at %s (exit status %d)", step, errors.ExitCode(err))) + "\n")
	if command, ok := errors.DetailString(err, errors.DetailCommand); ok {
		out.WriteString("  last command: " + CommandStyle.Render(command) + "\n")
	}
	out.WriteString("  " + MutedStyle.Render(fmt.Sprintf("%v", err)) + "\n")
	return out.String()
}

// PlainRenderer renders unstyled text for pipes and logs
type PlainRenderer struct{}

// NewPlainRenderer creates a renderer for plain text output
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

func (r *PlainRenderer) RenderReport(report *provision.Report) string {
	var out strings.Builder

	fmt.Fprintf(&out, "Provisioning %s (%s)\n", report.User, report.Init)
	for _, step := range report.Steps {
		fmt.Fprintf(&out, "  %-9s %s\n", step.Status, step.Name)
	}

	switch {
	case !report.Success():
		fmt.Fprintf(&out, "FAILED at %s (exit status %d)\n",
			report.FailedStep, errors.ExitCode(report.Err))
		if command, ok := errors.DetailString(report.Err, errors.DetailCommand); ok {
			fmt.Fprintf(&out, "  last command: %s\n", command)
		}
		fmt.Fprintf(&out, "  %v\n", report.Err)
	case pendingSteps(report) > 0:
		fmt.Fprintf(&out, "%d of %d steps already done, %d to run\n",
			report.SkippedSteps, len(report.Steps), pendingSteps(report))
	default:
		fmt.Fprintf(&out, "%d completed, %d skipped in %s\n",
			report.CompletedSteps, report.SkippedSteps, formatDuration(report.Duration()))
	}

	return out.String()
}

func (r *PlainRenderer) RenderPlanStatus(plan *provision.Plan, results []provision.StepResult) string {
	var out strings.Builder

	fmt.Fprintf(&out, "Plan for %s (%s)\n", plan.User, plan.Init)
	done := 0
	for _, result := range results {
		switch result.Status {
		case provision.StatusSkipped:
			done++
			fmt.Fprintf(&out, "  done     %s\n", result.Name)
		case provision.StatusFailed:
			fmt.Fprintf(&out, "  error    %s (%v)\n", result.Name, result.Error)
		default:
			fmt.Fprintf(&out, "  pending  %s\n", result.Name)
		}
	}
	fmt.Fprintf(&out, "%d of %d steps already done\n", done, len(results))
	return out.String()
}

func (r *PlainRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v\n", err)
}

// pendingSteps counts steps a run never reached. On a successful
// report a nonzero count means nothing ran at all (a dry-run preview).
func pendingSteps(report *provision.Report) int {
	n := 0
	for _, step := range report.Steps {
		if step.Status == provision.StatusPending {
			n++
		}
	}
	return n
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return d.Round(time.Second).String()
	case d >= time.Second:
		return d.Round(100 * time.Millisecond).String()
	default:
		return d.Round(time.Millisecond).String()
	}
}
