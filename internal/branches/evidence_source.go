package branches

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/branchsweep/internal/githubapi"
	"github.com/temirov/branchsweep/internal/githubcli"
)

const (
	unsupportedEvidenceSourceTemplateConstant = "unsupported evidence source %q (expected one of auto, gh, api, none)"
	gitHubCLIMissingMessageConstant           = "evidence source gh requested but the gh executable was not found"
	gitHubTokenMissingMessageConstant         = "evidence source api requested but none of GH_TOKEN, GITHUB_TOKEN, GITHUB_API_TOKEN is set"
	evidenceUnavailableMessageConstant        = "Merge evidence lookups unavailable; no branch will be selected for deletion"
	evidenceDisabledMessageConstant           = "Merge evidence lookups disabled"
	evidenceSourceSelectedMessageConstant     = "Merge evidence source selected"
	logFieldEvidenceSourceConstant            = "evidence_source"
)

// EvidenceSource names a merge evidence backend.
type EvidenceSource string

// Evidence sources.
const (
	EvidenceSourceAuto      EvidenceSource = EvidenceSource("auto")
	EvidenceSourceGitHubCLI EvidenceSource = EvidenceSource("gh")
	EvidenceSourceGitHubAPI EvidenceSource = EvidenceSource("api")
	EvidenceSourceNone      EvidenceSource = EvidenceSource("none")
)

var (
	errGitHubCLIMissing   = errors.New(gitHubCLIMissingMessageConstant)
	errGitHubTokenMissing = errors.New(gitHubTokenMissingMessageConstant)
)

// ParseEvidenceSource converts text into an EvidenceSource. Empty input means auto.
func ParseEvidenceSource(value string) (EvidenceSource, error) {
	normalized := EvidenceSource(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case "":
		return EvidenceSourceAuto, nil
	case EvidenceSourceAuto, EvidenceSourceGitHubCLI, EvidenceSourceGitHubAPI, EvidenceSourceNone:
		return normalized, nil
	default:
		return "", fmt.Errorf(unsupportedEvidenceSourceTemplateConstant, value)
	}
}

// EvidenceSourceDependencies supplies what each backend needs.
type EvidenceSourceDependencies struct {
	GitHubExecutor    githubcli.GitHubCommandExecutor
	ExecutableLocator githubcli.ExecutableLocator
	EnvironmentLookup githubapi.EnvironmentLookup
	APIBaseURL        string
	Logger            *zap.Logger
}

// SelectEvidenceQuery builds the query and login resolver for a source. The
// capability check happens here so an unavailable backend is reported once.
func SelectEvidenceQuery(source EvidenceSource, dependencies EvidenceSourceDependencies) (MergeEvidenceQuery, LoginResolver, error) {
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	resolvedSource := source
	if resolvedSource == EvidenceSourceAuto {
		_, tokenFound := githubapi.ResolveToken(dependencies.EnvironmentLookup)
		switch {
		case githubcli.Available(dependencies.ExecutableLocator):
			resolvedSource = EvidenceSourceGitHubCLI
		case tokenFound:
			resolvedSource = EvidenceSourceGitHubAPI
		default:
			logger.Warn(evidenceUnavailableMessageConstant)
			return UnavailableEvidenceQuery{}, nil, nil
		}
	}

	switch resolvedSource {
	case EvidenceSourceGitHubCLI:
		if !githubcli.Available(dependencies.ExecutableLocator) {
			return nil, nil, errGitHubCLIMissing
		}
		client, clientError := githubcli.NewClient(dependencies.GitHubExecutor)
		if clientError != nil {
			return nil, nil, clientError
		}
		logger.Debug(evidenceSourceSelectedMessageConstant, zap.String(logFieldEvidenceSourceConstant, string(resolvedSource)))
		return NewGitHubCLIEvidenceQuery(client), client, nil
	case EvidenceSourceGitHubAPI:
		token, tokenFound := githubapi.ResolveToken(dependencies.EnvironmentLookup)
		if !tokenFound {
			return nil, nil, errGitHubTokenMissing
		}
		options := []githubapi.Option{githubapi.WithLogger(logger)}
		if len(strings.TrimSpace(dependencies.APIBaseURL)) > 0 {
			options = append(options, githubapi.WithBaseURL(strings.TrimSpace(dependencies.APIBaseURL)))
		}
		client, clientError := githubapi.NewClient(token, options...)
		if clientError != nil {
			return nil, nil, clientError
		}
		logger.Debug(evidenceSourceSelectedMessageConstant, zap.String(logFieldEvidenceSourceConstant, string(resolvedSource)))
		return NewGitHubAPIEvidenceQuery(client), client, nil
	case EvidenceSourceNone:
		logger.Info(evidenceDisabledMessageConstant)
		return UnavailableEvidenceQuery{}, nil, nil
	default:
		return nil, nil, fmt.Errorf(unsupportedEvidenceSourceTemplateConstant, source)
	}
}

// UnavailableEvidenceQuery answers every lookup with no evidence.
type UnavailableEvidenceQuery struct{}

// Available implements MergeEvidenceQuery.
func (UnavailableEvidenceQuery) Available() bool { return false }

// FindMergedPullRequest implements MergeEvidenceQuery.
func (UnavailableEvidenceQuery) FindMergedPullRequest(context.Context, string, string, string) (*MergeEvidence, error) {
	return nil, nil
}

type gitHubCLIPullRequestFinder interface {
	FindMergedPullRequest(executionContext context.Context, repository string, headBranch string, author string) (*githubcli.PullRequest, error)
}

// GitHubCLIEvidenceQuery adapts githubcli.Client to MergeEvidenceQuery.
type GitHubCLIEvidenceQuery struct {
	finder gitHubCLIPullRequestFinder
}

// NewGitHubCLIEvidenceQuery wraps a gh-backed pull request finder.
func NewGitHubCLIEvidenceQuery(finder gitHubCLIPullRequestFinder) GitHubCLIEvidenceQuery {
	return GitHubCLIEvidenceQuery{finder: finder}
}

// Available implements MergeEvidenceQuery.
func (query GitHubCLIEvidenceQuery) Available() bool { return query.finder != nil }

// FindMergedPullRequest implements MergeEvidenceQuery.
func (query GitHubCLIEvidenceQuery) FindMergedPullRequest(executionContext context.Context, repositoryIdentifier string, branch string, author string) (*MergeEvidence, error) {
	pullRequest, findError := query.finder.FindMergedPullRequest(executionContext, repositoryIdentifier, branch, author)
	if findError != nil || pullRequest == nil {
		return nil, findError
	}
	return &MergeEvidence{Title: pullRequest.Title, URL: pullRequest.URL, Number: pullRequest.Number}, nil
}

type gitHubAPIPullRequestFinder interface {
	FindMergedPullRequest(executionContext context.Context, repository string, headBranch string, author string) (*githubapi.PullRequest, error)
}

// GitHubAPIEvidenceQuery adapts githubapi.Client to MergeEvidenceQuery.
type GitHubAPIEvidenceQuery struct {
	finder gitHubAPIPullRequestFinder
}

// NewGitHubAPIEvidenceQuery wraps an API-backed pull request finder.
func NewGitHubAPIEvidenceQuery(finder gitHubAPIPullRequestFinder) GitHubAPIEvidenceQuery {
	return GitHubAPIEvidenceQuery{finder: finder}
}

// Available implements MergeEvidenceQuery.
func (query GitHubAPIEvidenceQuery) Available() bool { return query.finder != nil }

// FindMergedPullRequest implements MergeEvidenceQuery.
func (query GitHubAPIEvidenceQuery) FindMergedPullRequest(executionContext context.Context, repositoryIdentifier string, branch string, author string) (*MergeEvidence, error) {
	pullRequest, findError := query.finder.FindMergedPullRequest(executionContext, repositoryIdentifier, branch, author)
	if findError != nil || pullRequest == nil {
		return nil, findError
	}
	return &MergeEvidence{Title: pullRequest.Title, URL: pullRequest.URL, Number: pullRequest.Number}, nil
}
