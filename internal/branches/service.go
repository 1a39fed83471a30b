package branches

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

const (
	missingRepositoryInspectorMessageConstant = "repository inspector not configured"
	missingEnumeratorMessageConstant          = "branch enumerator not configured"
	missingIdentitySourceMessageConstant      = "identity source not configured"
	missingOracleMessageConstant              = "remote existence oracle not configured"
	missingResolverMessageConstant            = "evidence resolver not configured"
	missingDeleterMessageConstant             = "branch deleter not configured"
	repositorySkippedMessageConstant          = "Skipping repository"
	repositoryClassifiedMessageConstant       = "Classified branches"
	runCancelledMessageConstant               = "Run cancelled; remaining repositories not processed"
	logFieldIdentityConstant                  = "identity"
	logFieldCandidateCountConstant            = "candidates"
	logFieldRetainedCountConstant             = "retained"
	logFieldErrorCountConstant                = "errors"
)

var (
	errMissingRepositoryInspector = errors.New(missingRepositoryInspectorMessageConstant)
	errMissingEnumerator          = errors.New(missingEnumeratorMessageConstant)
	errMissingIdentitySource      = errors.New(missingIdentitySourceMessageConstant)
	errMissingOracle              = errors.New(missingOracleMessageConstant)
	errMissingResolver            = errors.New(missingResolverMessageConstant)
	errMissingDeleter             = errors.New(missingDeleterMessageConstant)
)

// RepositoryInspector validates repository preconditions.
type RepositoryInspector interface {
	IsRepository(executionContext context.Context, repositoryPath string) bool
	GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error)
}

// Dependencies wires the collaborators used by Service.
type Dependencies struct {
	Repositories   RepositoryInspector
	Enumerator     BranchEnumerator
	IdentitySource IdentitySource
	Oracle         RemoteExistenceOracle
	Resolver       EvidenceResolver
	Deleter        BranchDeleter
	Asker          Asker
	Logger         *zap.Logger
}

// Options configures a prune run.
type Options struct {
	Mode       Mode
	RemoteName string
}

// Service runs the reconciliation pipeline for one repository at a time.
type Service struct {
	repositories   RepositoryInspector
	enumerator     BranchEnumerator
	identitySource IdentitySource
	classifier     *Classifier
	disposition    *DispositionEngine
	logger         *zap.Logger
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	switch {
	case dependencies.Repositories == nil:
		return nil, errMissingRepositoryInspector
	case dependencies.Enumerator == nil:
		return nil, errMissingEnumerator
	case dependencies.IdentitySource == nil:
		return nil, errMissingIdentitySource
	case dependencies.Oracle == nil:
		return nil, errMissingOracle
	case dependencies.Resolver == nil:
		return nil, errMissingResolver
	case dependencies.Deleter == nil:
		return nil, errMissingDeleter
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		repositories:   dependencies.Repositories,
		enumerator:     dependencies.Enumerator,
		identitySource: dependencies.IdentitySource,
		classifier:     NewClassifier(dependencies.Oracle, dependencies.Resolver, logger),
		disposition:    NewDispositionEngine(dependencies.Deleter, dependencies.Asker, logger),
		logger:         logger,
	}, nil
}

// Run processes repositories sequentially. Precondition failures exclude only
// the failing repository. Cancellation stops before the next repository.
func (service *Service) Run(executionContext context.Context, repositoryPaths []string, options Options) Summary {
	summary := Summary{
		Repositories:         make([]RepositoryReport, 0, len(repositoryPaths)),
		PreconditionFailures: make([]PreconditionError, 0),
	}

	for _, repositoryPath := range repositoryPaths {
		if executionContext.Err() != nil {
			service.logger.Warn(runCancelledMessageConstant, zap.Error(executionContext.Err()))
			break
		}

		report, pruneError := service.PruneRepository(executionContext, repositoryPath, options)
		if pruneError != nil {
			var preconditionError PreconditionError
			if !errors.As(pruneError, &preconditionError) {
				preconditionError = PreconditionError{RepositoryPath: repositoryPath, Cause: pruneError}
			}
			service.logger.Warn(repositorySkippedMessageConstant,
				zap.String(logFieldRepositoryConstant, repositoryPath),
				zap.Error(preconditionError.Cause),
			)
			summary.PreconditionFailures = append(summary.PreconditionFailures, preconditionError)
			continue
		}
		summary.Repositories = append(summary.Repositories, report)
	}

	return summary
}

// PruneRepository checks preconditions, classifies the repository's branches,
// and disposes of the candidates. Only PreconditionError is returned.
func (service *Service) PruneRepository(executionContext context.Context, repositoryPath string, options Options) (RepositoryReport, error) {
	identity, preconditionError := service.checkPreconditions(executionContext, repositoryPath, options)
	if preconditionError != nil {
		return RepositoryReport{}, preconditionError
	}

	branches, enumerationError := service.enumerator.ListBranches(executionContext, repositoryPath)
	if enumerationError != nil {
		return RepositoryReport{}, PreconditionError{RepositoryPath: repositoryPath, Cause: enumerationError}
	}

	classification := service.classifier.Classify(executionContext, branches, repositoryPath, identity)
	service.logger.Debug(repositoryClassifiedMessageConstant,
		zap.String(logFieldRepositoryConstant, repositoryPath),
		zap.String(logFieldIdentityConstant, identity),
		zap.Int(logFieldCandidateCountConstant, len(classification.Candidates)),
		zap.Int(logFieldRetainedCountConstant, len(classification.Retained)),
		zap.Int(logFieldErrorCountConstant, len(classification.Errors)),
	)

	outcome := service.disposition.Dispose(executionContext, classification.Candidates, options.Mode, repositoryPath)
	outcome.Identity = identity

	return RepositoryReport{Classification: classification, Outcome: outcome}, nil
}

func (service *Service) checkPreconditions(executionContext context.Context, repositoryPath string, options Options) (string, error) {
	if len(strings.TrimSpace(repositoryPath)) == 0 || !service.repositories.IsRepository(executionContext, repositoryPath) {
		return "", PreconditionError{RepositoryPath: repositoryPath, Cause: ErrRepositoryPathInvalid}
	}

	remoteURL, remoteError := service.repositories.GetRemoteURL(executionContext, repositoryPath, options.RemoteName)
	if remoteError != nil || len(strings.TrimSpace(remoteURL)) == 0 {
		return "", PreconditionError{RepositoryPath: repositoryPath, Cause: ErrRemoteNotConfigured}
	}

	identity, identityError := service.identitySource.ResolveIdentity(executionContext, repositoryPath)
	if identityError != nil {
		return "", PreconditionError{RepositoryPath: repositoryPath, Cause: identityError}
	}
	if len(strings.TrimSpace(identity)) == 0 {
		return "", PreconditionError{RepositoryPath: repositoryPath, Cause: ErrIdentityNotConfigured}
	}

	return strings.TrimSpace(identity), nil
}
