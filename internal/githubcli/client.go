package githubcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/temirov/branchsweep/internal/execshell"
)

const (
	pullRequestSubcommandConstant           = "pr"
	listSubcommandConstant                  = "list"
	apiSubcommandConstant                   = "api"
	jsonFlagConstant                        = "--json"
	jqFlagConstant                          = "--jq"
	repoFlagConstant                        = "--repo"
	stateFlagConstant                       = "--state"
	headFlagConstant                        = "--head"
	authorFlagConstant                      = "--author"
	limitFlagConstant                       = "--limit"
	authenticatedUserEndpointConstant       = "user"
	loginExpressionConstant                 = ".login"
	pullRequestJSONFieldsConstant           = "number,title,url,headRefName"
	mergedPullRequestLimitConstant          = 1
	repositoryFieldNameConstant             = "repository"
	headBranchFieldNameConstant             = "head_branch"
	authorFieldNameConstant                 = "author"
	requiredValueMessageConstant            = "value required"
	executorNotConfiguredMessageConstant    = "github cli executor not configured"
	emptyLoginMessageConstant               = "github cli returned an empty login"
	operationErrorMessageTemplateConstant   = "%s operation failed"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	responseDecodingErrorTemplateConstant   = "%s response decoding failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
	findMergedPullRequestOperationConstant  = OperationName("FindMergedPullRequest")
	resolveLoginOperationConstant           = OperationName("ResolveAuthenticatedLogin")
	gitHubExecutableNameConstant            = "gh"
)

// OperationName describes a GitHub CLI workflow supported by the client.
type OperationName string

// PullRequestState describes GitHub pull request states accepted by gh pr list.
type PullRequestState string

// Pull request states.
const (
	PullRequestStateOpen   PullRequestState = PullRequestState("open")
	PullRequestStateClosed PullRequestState = PullRequestState("closed")
	PullRequestStateMerged PullRequestState = PullRequestState("merged")
)

// PullRequest carries the pull request fields branchsweep reports.
type PullRequest struct {
	Number      int
	Title       string
	URL         string
	HeadRefName string
}

// GitHubCommandExecutor is the subset of execshell.ShellExecutor the client needs.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ExecutableLocator resolves an executable on PATH, matching exec.LookPath.
type ExecutableLocator func(file string) (string, error)

// Client coordinates GitHub CLI invocations through execshell.
type Client struct {
	executor GitHubCommandExecutor
}

var (
	// ErrExecutorNotConfigured indicates the client was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrEmptyLogin indicates gh reported no login for the authenticated user.
	ErrEmptyLogin = errors.New(emptyLoginMessageConstant)
)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for GitHub CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ResponseDecodingError indicates gh produced output that is not the expected JSON.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// NewClient constructs a GitHub CLI client.
func NewClient(executor GitHubCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// Available reports whether the gh executable can be located.
func Available(locator ExecutableLocator) bool {
	if locator == nil {
		locator = exec.LookPath
	}
	_, lookupError := locator(gitHubExecutableNameConstant)
	return lookupError == nil
}

// FindMergedPullRequest returns the newest merged pull request whose head is
// headBranch and whose author is author, or nil when none exists.
func (client *Client) FindMergedPullRequest(executionContext context.Context, repository string, headBranch string, author string) (*PullRequest, error) {
	inputs := []struct {
		fieldName string
		value     string
	}{
		{fieldName: repositoryFieldNameConstant, value: repository},
		{fieldName: headBranchFieldNameConstant, value: headBranch},
		{fieldName: authorFieldNameConstant, value: author},
	}
	for _, input := range inputs {
		if len(strings.TrimSpace(input.value)) == 0 {
			return nil, InvalidInputError{FieldName: input.fieldName, Message: requiredValueMessageConstant}
		}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			pullRequestSubcommandConstant,
			listSubcommandConstant,
			repoFlagConstant,
			strings.TrimSpace(repository),
			headFlagConstant,
			headBranch,
			stateFlagConstant,
			string(PullRequestStateMerged),
			authorFlagConstant,
			strings.TrimSpace(author),
			jsonFlagConstant,
			pullRequestJSONFieldsConstant,
			limitFlagConstant,
			strconv.Itoa(mergedPullRequestLimitConstant),
		},
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return nil, OperationError{Operation: findMergedPullRequestOperationConstant, Cause: executionError}
	}

	var response []struct {
		Number      int    `json:"number"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		HeadRefName string `json:"headRefName"`
	}
	if decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response); decodingError != nil {
		return nil, ResponseDecodingError{Operation: findMergedPullRequestOperationConstant, Cause: decodingError}
	}

	for _, entry := range response {
		if entry.HeadRefName != headBranch {
			continue
		}
		return &PullRequest{Number: entry.Number, Title: entry.Title, URL: entry.URL, HeadRefName: entry.HeadRefName}, nil
	}
	return nil, nil
}

// ResolveAuthenticatedLogin returns the login of the user gh is authenticated as.
func (client *Client) ResolveAuthenticatedLogin(executionContext context.Context) (string, error) {
	commandDetails := execshell.CommandDetails{
		Arguments: []string{apiSubcommandConstant, authenticatedUserEndpointConstant, jqFlagConstant, loginExpressionConstant},
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return "", OperationError{Operation: resolveLoginOperationConstant, Cause: executionError}
	}

	login := strings.TrimSpace(executionResult.StandardOutput)
	if len(login) == 0 {
		return "", OperationError{Operation: resolveLoginOperationConstant, Cause: ErrEmptyLogin}
	}
	return login, nil
}
