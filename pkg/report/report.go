package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	v1 "github.com/openshift/runtime-summary/pkg/apis/runtimesummary/v1"
	"github.com/openshift/runtime-summary/pkg/github"
	"github.com/openshift/runtime-summary/pkg/runtimecomparison"
)

// Header starts every summary comment; it is how an earlier comment is found
// and replaced.
const Header = "## Performance Summary for commit"

const noMatchesNote = "No matching jobs found between the base and PR runs."

const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

// Document is a rendered run: the pull request it describes, the comparison
// and its statistics.
type Document struct {
	Owner      string                    `json:"owner" yaml:"owner"`
	Repo       string                    `json:"repo" yaml:"repo"`
	Number     int                       `json:"number,omitempty" yaml:"number,omitempty"`
	BaseBranch string                    `json:"base_branch" yaml:"baseBranch"`
	HeadBranch string                    `json:"head_branch" yaml:"headBranch"`
	HeadSHA    string                    `json:"head_sha,omitempty" yaml:"headSHA,omitempty"`
	Summary    runtimecomparison.Summary `json:"summary" yaml:"summary"`
	Result     *v1.ComparisonResult      `json:"result" yaml:"result"`
	prc        github.PRContext
}

func NewDocument(prc github.PRContext, result *v1.ComparisonResult, summary runtimecomparison.Summary) Document {
	return Document{
		Owner:      prc.Owner,
		Repo:       prc.Repo,
		Number:     prc.Number,
		BaseBranch: prc.BaseBranch,
		HeadBranch: prc.HeadBranch,
		HeadSHA:    prc.HeadSHA,
		Summary:    summary,
		Result:     result,
		prc:        prc,
	}
}

// Markdown renders the document as a pull request comment.
func (d Document) Markdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s](%s)\n\n", Header, d.prc.ShortSHA(), d.prc.CommitURL())
	sb.WriteString("### CI Runtime Comparison\n\n")

	if d.Result.Empty() {
		sb.WriteString(noMatchesNote + "\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "Compared %d jobs against `%s`: %d slower, %d faster, median change %s.\n\n",
		d.Summary.Compared, d.BaseBranch, d.Summary.Regressions, d.Summary.Improvements, FormatPct(d.Summary.MedianPct))
	if d.Summary.WorstJob != "" {
		fmt.Fprintf(&sb, "Largest regression: `%s` / `%s` (%s).\n\n",
			d.Summary.WorstWorkflow, d.Summary.WorstJob, FormatPct(d.Summary.WorstPct))
	}

	for _, wc := range d.Result.Workflows {
		fmt.Fprintf(&sb, "#### Workflow: %s\n\n", wc.WorkflowName)
		sb.WriteString("| Job Name | Base Runtime | PR Runtime | Runtime Difference (%) |\n")
		sb.WriteString("|---|---|---|---|\n")
		for _, c := range wc.Comparisons {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
				escapeCell(c.JobName),
				FormatDuration(c.BaseRuntimeSeconds),
				FormatDuration(c.CandidateRuntimeSeconds),
				FormatPct(c.RuntimeDifferencePct))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Write renders the document to w in the given format.
func (d Document) Write(w io.Writer, format string) error {
	switch format {
	case "", FormatMarkdown:
		_, err := io.WriteString(w, d.Markdown())
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(&d)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&d); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.Errorf("invalid output format: %s", format)
	}
}

// FormatDuration renders whole seconds as e.g. "1h 2m 3s", leaving out zero
// units.
func FormatDuration(seconds uint64) string {
	if seconds == 0 {
		return "0s"
	}
	h, m, s := seconds/3600, seconds%3600/60, seconds%60

	var parts []string
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	if s > 0 {
		parts = append(parts, fmt.Sprintf("%ds", s))
	}
	return strings.Join(parts, " ")
}

func FormatPct(pct float64) string {
	return fmt.Sprintf("%.2f%%", pct)
}

// job names are free text and may contain the table separator
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
