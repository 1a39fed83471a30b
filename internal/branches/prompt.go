package branches

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
)

const (
	linePromptTemplateConstant       = "Delete branch %s? [y]es / [n]o / [s]kip remaining: "
	invalidAnswerMessageConstant     = "Please answer y, n, or s.\n"
	candidateHeaderTemplateConstant  = "%s\n"
	evidenceLineTemplateConstant     = "  %s\n"
	selectTitleTemplateConstant      = "Delete branch %s?"
	selectOptionDeleteLabelConstant  = "Delete"
	selectOptionKeepLabelConstant    = "Keep"
	selectOptionSkipAllLabelConstant = "Skip remaining branches"
	answerSeparatorConstant          = "\n"
)

var (
	confirmAnswers = map[string]struct{}{"y": {}, "yes": {}}
	declineAnswers = map[string]struct{}{"n": {}, "no": {}}
	skipAllAnswers = map[string]struct{}{"s": {}, "skip": {}, "q": {}, "quit": {}}
)

// LineAsker prompts on a line-oriented stream and re-prompts until the answer
// is recognized. Closed input skips the remaining candidates.
type LineAsker struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewLineAsker constructs a LineAsker.
func NewLineAsker(input io.Reader, output io.Writer) *LineAsker {
	if output == nil {
		output = io.Discard
	}
	return &LineAsker{reader: bufio.NewReader(input), writer: output}
}

// Ask implements Asker.
func (asker *LineAsker) Ask(executionContext context.Context, candidate Candidate) (Response, error) {
	if _, writeError := io.WriteString(asker.writer, describeCandidate(candidate)); writeError != nil {
		return ResponseDecline, writeError
	}

	for {
		if contextError := executionContext.Err(); contextError != nil {
			return ResponseSkipAll, contextError
		}
		if _, writeError := fmt.Fprintf(asker.writer, linePromptTemplateConstant, candidate.Branch); writeError != nil {
			return ResponseDecline, writeError
		}

		line, readError := asker.reader.ReadString('\n')
		if readError != nil && !errors.Is(readError, io.EOF) {
			return ResponseSkipAll, readError
		}

		answer := strings.ToLower(strings.TrimSpace(line))
		if response, recognized := interpretAnswer(answer); recognized {
			return response, nil
		}
		if errors.Is(readError, io.EOF) {
			_, _ = io.WriteString(asker.writer, answerSeparatorConstant)
			return ResponseSkipAll, nil
		}
		if _, writeError := io.WriteString(asker.writer, invalidAnswerMessageConstant); writeError != nil {
			return ResponseDecline, writeError
		}
	}
}

func interpretAnswer(answer string) (Response, bool) {
	if _, matched := confirmAnswers[answer]; matched {
		return ResponseConfirm, true
	}
	if _, matched := declineAnswers[answer]; matched {
		return ResponseDecline, true
	}
	if _, matched := skipAllAnswers[answer]; matched {
		return ResponseSkipAll, true
	}
	return ResponseDecline, false
}

func describeCandidate(candidate Candidate) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, candidateHeaderTemplateConstant, candidate.Branch)
	for _, line := range FormatEvidence(candidate.Evidence) {
		fmt.Fprintf(&builder, evidenceLineTemplateConstant, line)
	}
	return builder.String()
}

// SelectionRunner presents a single-choice prompt and returns the chosen response.
type SelectionRunner func(executionContext context.Context, title string, description string, options []huh.Option[Response]) (Response, error)

// SelectAsker prompts with a huh select field on a terminal.
type SelectAsker struct {
	run SelectionRunner
}

// NewSelectAsker constructs a SelectAsker. A nil runner renders a huh form.
func NewSelectAsker(runner SelectionRunner) *SelectAsker {
	if runner == nil {
		runner = runSelectionForm
	}
	return &SelectAsker{run: runner}
}

// Ask implements Asker. Aborting the form skips the remaining candidates.
func (asker *SelectAsker) Ask(executionContext context.Context, candidate Candidate) (Response, error) {
	options := []huh.Option[Response]{
		huh.NewOption(selectOptionDeleteLabelConstant, ResponseConfirm),
		huh.NewOption(selectOptionKeepLabelConstant, ResponseDecline),
		huh.NewOption(selectOptionSkipAllLabelConstant, ResponseSkipAll),
	}
	title := fmt.Sprintf(selectTitleTemplateConstant, candidate.Branch)
	description := strings.Join(FormatEvidence(candidate.Evidence), answerSeparatorConstant)

	response, runError := asker.run(executionContext, title, description, options)
	if runError != nil {
		if errors.Is(runError, huh.ErrUserAborted) || errors.Is(runError, context.Canceled) || errors.Is(runError, io.EOF) {
			return ResponseSkipAll, nil
		}
		return ResponseSkipAll, runError
	}
	return response, nil
}

func runSelectionForm(executionContext context.Context, title string, description string, options []huh.Option[Response]) (Response, error) {
	selected := ResponseDecline
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Response]().
				Title(title).
				Description(description).
				Options(options...).
				Value(&selected),
		),
	).WithTheme(huh.ThemeCatppuccin())

	if runError := form.RunWithContext(executionContext); runError != nil {
		return ResponseDecline, runError
	}
	return selected, nil
}
