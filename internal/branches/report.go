package branches

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

const (
	evidenceTitleTemplateConstant         = "title: %s"
	evidenceURLTemplateConstant           = "url: %s"
	repositoryHeaderTemplateConstant      = "%s (identity: %s, mode: %s)\n"
	sectionHeaderTemplateConstant         = "  %s:\n"
	candidateLineTemplateConstant         = "    %s\n"
	candidateEvidenceLineTemplateConstant = "      %s\n"
	retainedLineTemplateConstant          = "    %s (%s)\n"
	errorLineTemplateConstant             = "    %s: %v\n"
	countsLineTemplateConstant            = "  deleted: %s  skipped: %s  failed: %s\n"
	preconditionHeaderConstant            = "Skipped repositories:\n"
	preconditionLineTemplateConstant      = "  %s: %v\n"
	totalsLineTemplateConstant            = "Total: deleted %s, skipped %s, failed %s\n"
	candidatesSectionNameConstant         = "candidates"
	unactedSectionNameConstant            = "not acted upon"
	retainedSectionNameConstant           = "retained"
	resolutionErrorsSectionNameConstant   = "resolution errors"
	failedDeletionsSectionNameConstant    = "failed deletions"
	yamlIndentConstant                    = 2
)

// FormatEvidence renders evidence as key/value lines for prompts and reports.
func FormatEvidence(evidence MergeEvidence) []string {
	return []string{
		fmt.Sprintf(evidenceTitleTemplateConstant, evidence.Title),
		fmt.Sprintf(evidenceURLTemplateConstant, evidence.URL),
	}
}

// ReportRenderer writes a run summary.
type ReportRenderer interface {
	Render(writer io.Writer, summary Summary) error
}

// ConsoleReportRenderer writes a human-readable summary, colored when enabled.
type ConsoleReportRenderer struct {
	header  *color.Color
	deleted *color.Color
	skipped *color.Color
	failed  *color.Color
}

// NewConsoleReportRenderer constructs a ConsoleReportRenderer.
func NewConsoleReportRenderer(colorEnabled bool) *ConsoleReportRenderer {
	renderer := &ConsoleReportRenderer{
		header:  color.New(color.Bold),
		deleted: color.New(color.FgGreen),
		skipped: color.New(color.FgYellow),
		failed:  color.New(color.FgRed),
	}
	for _, palette := range []*color.Color{renderer.header, renderer.deleted, renderer.skipped, renderer.failed} {
		if colorEnabled {
			palette.EnableColor()
		} else {
			palette.DisableColor()
		}
	}
	return renderer
}

// Render implements ReportRenderer.
func (renderer *ConsoleReportRenderer) Render(writer io.Writer, summary Summary) error {
	output := &errorTrackingWriter{writer: writer}

	for _, report := range summary.Repositories {
		renderer.renderRepository(output, report)
	}

	if len(summary.PreconditionFailures) > 0 {
		renderer.header.Fprint(output, preconditionHeaderConstant)
		for _, failure := range summary.PreconditionFailures {
			fmt.Fprintf(output, preconditionLineTemplateConstant, failure.RepositoryPath, failure.Cause)
		}
	}

	deleted, skipped, failed := summary.Totals()
	fmt.Fprintf(output, totalsLineTemplateConstant,
		renderer.deleted.Sprint(deleted),
		renderer.skipped.Sprint(skipped),
		renderer.failed.Sprint(failed),
	)

	return output.err
}

func (renderer *ConsoleReportRenderer) renderRepository(output io.Writer, report RepositoryReport) {
	outcome := report.Outcome
	renderer.header.Fprintf(output, repositoryHeaderTemplateConstant, outcome.RepositoryPath, outcome.Identity, outcome.Mode)

	candidatesSection := candidatesSectionNameConstant
	if len(outcome.Unacted) > 0 {
		candidatesSection = unactedSectionNameConstant
	}
	if len(report.Classification.Candidates) > 0 {
		fmt.Fprintf(output, sectionHeaderTemplateConstant, candidatesSection)
		for _, candidate := range report.Classification.Candidates {
			fmt.Fprintf(output, candidateLineTemplateConstant, candidate.Branch)
			for _, line := range FormatEvidence(candidate.Evidence) {
				fmt.Fprintf(output, candidateEvidenceLineTemplateConstant, line)
			}
		}
	}

	if len(report.Classification.Retained) > 0 {
		fmt.Fprintf(output, sectionHeaderTemplateConstant, retainedSectionNameConstant)
		for _, retained := range report.Classification.Retained {
			fmt.Fprintf(output, retainedLineTemplateConstant, retained.Branch, retained.Reason)
		}
	}

	if len(report.Classification.Errors) > 0 {
		fmt.Fprintf(output, sectionHeaderTemplateConstant, resolutionErrorsSectionNameConstant)
		for _, resolutionError := range report.Classification.Errors {
			fmt.Fprintf(output, errorLineTemplateConstant, resolutionError.Branch, resolutionError.Cause)
		}
	}

	if len(outcome.FailedDeletions) > 0 {
		fmt.Fprintf(output, sectionHeaderTemplateConstant, failedDeletionsSectionNameConstant)
		for _, failedDeletion := range outcome.FailedDeletions {
			fmt.Fprintf(output, errorLineTemplateConstant, failedDeletion.Branch, failedDeletion.Cause)
		}
	}

	fmt.Fprintf(output, countsLineTemplateConstant,
		renderer.deleted.Sprint(outcome.Deleted),
		renderer.skipped.Sprint(outcome.Skipped),
		renderer.failed.Sprint(outcome.Failed),
	)
}

type errorTrackingWriter struct {
	writer io.Writer
	err    error
}

func (tracking *errorTrackingWriter) Write(payload []byte) (int, error) {
	if tracking.err != nil {
		return 0, tracking.err
	}
	written, writeError := tracking.writer.Write(payload)
	if writeError != nil {
		tracking.err = writeError
	}
	return written, writeError
}

// YAMLReportRenderer writes the summary as a YAML document.
type YAMLReportRenderer struct{}

// Render implements ReportRenderer.
func (YAMLReportRenderer) Render(writer io.Writer, summary Summary) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(yamlIndentConstant)
	if encodeError := encoder.Encode(buildSummaryDocument(summary)); encodeError != nil {
		return encodeError
	}
	return encoder.Close()
}

type summaryDocument struct {
	Repositories         []repositoryDocument   `yaml:"repositories"`
	PreconditionFailures []preconditionDocument `yaml:"precondition_failures,omitempty"`
	Totals               countsDocument         `yaml:"totals"`
}

type repositoryDocument struct {
	Path             string                `yaml:"path"`
	Identity         string                `yaml:"identity"`
	Mode             string                `yaml:"mode"`
	Candidates       []candidateDocument   `yaml:"candidates"`
	Retained         []retainedDocument    `yaml:"retained,omitempty"`
	ResolutionErrors []branchErrorDocument `yaml:"resolution_errors,omitempty"`
	DeletedBranches  []string              `yaml:"deleted_branches,omitempty"`
	FailedDeletions  []branchErrorDocument `yaml:"failed_deletions,omitempty"`
	Unacted          []string              `yaml:"unacted,omitempty"`
	Counts           countsDocument        `yaml:"counts"`
}

type candidateDocument struct {
	Branch   string        `yaml:"branch"`
	Evidence MergeEvidence `yaml:"evidence"`
}

type retainedDocument struct {
	Branch string `yaml:"branch"`
	Reason string `yaml:"reason"`
}

type branchErrorDocument struct {
	Branch string `yaml:"branch"`
	Error  string `yaml:"error"`
}

type preconditionDocument struct {
	Path  string `yaml:"path"`
	Error string `yaml:"error"`
}

type countsDocument struct {
	Deleted int `yaml:"deleted"`
	Skipped int `yaml:"skipped"`
	Failed  int `yaml:"failed"`
}

func buildSummaryDocument(summary Summary) summaryDocument {
	document := summaryDocument{Repositories: make([]repositoryDocument, 0, len(summary.Repositories))}

	for _, report := range summary.Repositories {
		outcome := report.Outcome
		repository := repositoryDocument{
			Path:            outcome.RepositoryPath,
			Identity:        outcome.Identity,
			Mode:            string(outcome.Mode),
			Candidates:      make([]candidateDocument, 0, len(report.Classification.Candidates)),
			DeletedBranches: outcome.DeletedBranches,
			Counts:          countsDocument{Deleted: outcome.Deleted, Skipped: outcome.Skipped, Failed: outcome.Failed},
		}
		for _, candidate := range report.Classification.Candidates {
			repository.Candidates = append(repository.Candidates, candidateDocument{Branch: candidate.Branch, Evidence: candidate.Evidence})
		}
		for _, retained := range report.Classification.Retained {
			repository.Retained = append(repository.Retained, retainedDocument{Branch: retained.Branch, Reason: string(retained.Reason)})
		}
		for _, resolutionError := range report.Classification.Errors {
			repository.ResolutionErrors = append(repository.ResolutionErrors, branchErrorDocument{Branch: resolutionError.Branch, Error: resolutionError.Cause.Error()})
		}
		for _, failedDeletion := range outcome.FailedDeletions {
			repository.FailedDeletions = append(repository.FailedDeletions, branchErrorDocument{Branch: failedDeletion.Branch, Error: failedDeletion.Cause.Error()})
		}
		for _, unacted := range outcome.Unacted {
			repository.Unacted = append(repository.Unacted, unacted.Branch)
		}
		document.Repositories = append(document.Repositories, repository)
	}

	for _, failure := range summary.PreconditionFailures {
		document.PreconditionFailures = append(document.PreconditionFailures, preconditionDocument{Path: failure.RepositoryPath, Error: failure.Cause.Error()})
	}

	deleted, skipped, failed := summary.Totals()
	document.Totals = countsDocument{Deleted: deleted, Skipped: skipped, Failed: failed}
	return document
}
