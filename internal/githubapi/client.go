package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v81/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	mergedPullRequestQueryTemplateConstant = "is:pr is:merged repo:%s head:%s author:%s"
	mergedPullRequestPageSizeConstant      = 10
	repositorySeparatorConstant            = "/"
	trailingSlashConstant                  = "/"
	tokenRequiredMessageConstant           = "github api token required"
	requiredValueMessageConstant           = "value required"
	ownerAndNameRequiredMessageConstant    = "expected owner/name"
	invalidInputErrorTemplateConstant      = "%s: %s"
	operationErrorTemplateConstant         = "%s operation failed: %v"
	invalidBaseURLTemplateConstant         = "invalid github api base url %q: %w"
	repositoryFieldNameConstant            = "repository"
	headBranchFieldNameConstant            = "head_branch"
	authorFieldNameConstant                = "author"
	findMergedPullRequestOperationConstant = OperationName("SearchMergedPullRequest")
	getPullRequestOperationConstant        = OperationName("GetPullRequest")
	resolveLoginOperationConstant          = OperationName("ResolveAuthenticatedLogin")
	requestLogMessageConstant              = "GitHub API request"
	requestFailedLogMessageConstant        = "GitHub API request failed"
	logFieldMethodConstant                 = "method"
	logFieldURLConstant                    = "url"
	logFieldStatusConstant                 = "status"
	logFieldDurationConstant               = "duration"
)

// OperationName names a GitHub API workflow supported by the client.
type OperationName string

// PullRequest carries the pull request fields branchsweep reports.
type PullRequest struct {
	Number int
	Title  string
	URL    string
}

var (
	// ErrTokenRequired indicates the client was constructed without a token.
	ErrTokenRequired = errors.New(tokenRequiredMessageConstant)
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

// OperationError wraps failed API calls.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// Option customizes client construction.
type Option func(*clientOptions)

type clientOptions struct {
	baseURL       string
	logger        *zap.Logger
	baseTransport http.RoundTripper
}

// WithBaseURL points the client at a GitHub Enterprise or test server.
func WithBaseURL(baseURL string) Option {
	return func(options *clientOptions) {
		options.baseURL = baseURL
	}
}

// WithLogger logs every request at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(options *clientOptions) {
		options.logger = logger
	}
}

// WithTransport replaces the underlying HTTP transport.
func WithTransport(transport http.RoundTripper) Option {
	return func(options *clientOptions) {
		options.baseTransport = transport
	}
}

// Client searches GitHub through go-github with a static oauth2 token.
type Client struct {
	api *github.Client
}

// NewClient constructs a token-authenticated client.
func NewClient(token string, options ...Option) (*Client, error) {
	trimmedToken := strings.TrimSpace(token)
	if len(trimmedToken) == 0 {
		return nil, ErrTokenRequired
	}

	resolvedOptions := clientOptions{logger: zap.NewNop(), baseTransport: http.DefaultTransport}
	for _, apply := range options {
		if apply != nil {
			apply(&resolvedOptions)
		}
	}
	if resolvedOptions.logger == nil {
		resolvedOptions.logger = zap.NewNop()
	}

	var transport http.RoundTripper = &loggingRoundTripper{base: resolvedOptions.baseTransport, logger: resolvedOptions.logger}
	transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: trimmedToken}),
		Base:   transport,
	}

	apiClient := github.NewClient(&http.Client{Transport: transport})
	if len(resolvedOptions.baseURL) > 0 {
		baseURL := resolvedOptions.baseURL
		if !strings.HasSuffix(baseURL, trailingSlashConstant) {
			baseURL += trailingSlashConstant
		}
		parsedURL, parseError := url.Parse(baseURL)
		if parseError != nil {
			return nil, fmt.Errorf(invalidBaseURLTemplateConstant, resolvedOptions.baseURL, parseError)
		}
		apiClient.BaseURL = parsedURL
	}

	return &Client{api: apiClient}, nil
}

// FindMergedPullRequest searches for a merged pull request with the given head
// branch and author. Search matches head names loosely, so every hit is
// confirmed against the pull request itself: the head ref must equal
// headBranch exactly and the pull request must be merged. A nil result without
// error means no match.
func (client *Client) FindMergedPullRequest(executionContext context.Context, repository string, headBranch string, author string) (*PullRequest, error) {
	inputs := map[string]string{
		repositoryFieldNameConstant: repository,
		headBranchFieldNameConstant: headBranch,
		authorFieldNameConstant:     author,
	}
	for _, fieldName := range []string{repositoryFieldNameConstant, headBranchFieldNameConstant, authorFieldNameConstant} {
		if len(strings.TrimSpace(inputs[fieldName])) == 0 {
			return nil, InvalidInputError{FieldName: fieldName, Message: requiredValueMessageConstant}
		}
	}

	trimmedRepository := strings.TrimSpace(repository)
	owner, name, separatorFound := strings.Cut(trimmedRepository, repositorySeparatorConstant)
	if !separatorFound || len(owner) == 0 || len(name) == 0 || strings.Contains(name, repositorySeparatorConstant) {
		return nil, InvalidInputError{FieldName: repositoryFieldNameConstant, Message: ownerAndNameRequiredMessageConstant}
	}

	query := fmt.Sprintf(mergedPullRequestQueryTemplateConstant, trimmedRepository, headBranch, strings.TrimSpace(author))
	searchResult, _, searchError := client.api.Search.Issues(executionContext, query, &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: mergedPullRequestPageSizeConstant},
	})
	if searchError != nil {
		return nil, OperationError{Operation: findMergedPullRequestOperationConstant, Cause: searchError}
	}
	if searchResult == nil {
		return nil, nil
	}

	for _, issue := range searchResult.Issues {
		pullRequest, _, getError := client.api.PullRequests.Get(executionContext, owner, name, issue.GetNumber())
		if getError != nil {
			return nil, OperationError{Operation: getPullRequestOperationConstant, Cause: getError}
		}
		if pullRequest.GetHead().GetRef() != headBranch || !pullRequest.GetMerged() {
			continue
		}
		return &PullRequest{Number: pullRequest.GetNumber(), Title: pullRequest.GetTitle(), URL: pullRequest.GetHTMLURL()}, nil
	}
	return nil, nil
}

// ResolveAuthenticatedLogin returns the login that owns the token.
func (client *Client) ResolveAuthenticatedLogin(executionContext context.Context) (string, error) {
	user, _, userError := client.api.Users.Get(executionContext, "")
	if userError != nil {
		return "", OperationError{Operation: resolveLoginOperationConstant, Cause: userError}
	}
	return strings.TrimSpace(user.GetLogin()), nil
}

type loggingRoundTripper struct {
	base   http.RoundTripper
	logger *zap.Logger
}

func (roundTripper *loggingRoundTripper) RoundTrip(request *http.Request) (*http.Response, error) {
	startedAt := time.Now()
	response, roundTripError := roundTripper.base.RoundTrip(request)
	elapsed := time.Since(startedAt).Truncate(time.Millisecond)
	if roundTripError != nil {
		roundTripper.logger.Debug(requestFailedLogMessageConstant,
			zap.String(logFieldMethodConstant, request.Method),
			zap.String(logFieldURLConstant, request.URL.String()),
			zap.Duration(logFieldDurationConstant, elapsed),
			zap.Error(roundTripError),
		)
		return response, roundTripError
	}
	roundTripper.logger.Debug(requestLogMessageConstant,
		zap.String(logFieldMethodConstant, request.Method),
		zap.String(logFieldURLConstant, request.URL.String()),
		zap.Int(logFieldStatusConstant, response.StatusCode),
		zap.Duration(logFieldDurationConstant, elapsed),
	)
	return response, nil
}
