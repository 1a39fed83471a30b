package branches_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/branchsweep/internal/branches"
)

type stubConfigurationReader struct {
	values  map[string]string
	failure error
	keys    []string
}

func (reader *stubConfigurationReader) GetConfigurationValue(_ context.Context, _ string, key string) (string, error) {
	reader.keys = append(reader.keys, key)
	return reader.values[key], reader.failure
}

type stubLoginResolver struct {
	login   string
	failure error
	calls   int
}

func (resolver *stubLoginResolver) ResolveAuthenticatedLogin(context.Context) (string, error) {
	resolver.calls++
	return resolver.login, resolver.failure
}

func TestConfiguredIdentitySourceResolutionOrder(testInstance *testing.T) {
	testCases := []struct {
		name               string
		configuredAuthor   string
		configurationKey   string
		configuration      *stubConfigurationReader
		loginResolver      *stubLoginResolver
		expectedIdentity   string
		expectedLoginCalls int
		expectError        bool
	}{
		{
			name:             "configured_author_wins",
			configuredAuthor: " octocat ",
			configuration:    &stubConfigurationReader{values: map[string]string{"github.user": "from-config"}},
			loginResolver:    &stubLoginResolver{login: "from-login"},
			expectedIdentity: "octocat",
		},
		{
			name:             "git_configuration_before_login",
			configuration:    &stubConfigurationReader{values: map[string]string{"github.user": "from-config\n"}},
			loginResolver:    &stubLoginResolver{login: "from-login"},
			expectedIdentity: "from-config",
		},
		{
			name:             "custom_configuration_key",
			configurationKey: "user.login",
			configuration:    &stubConfigurationReader{values: map[string]string{"user.login": "custom"}},
			expectedIdentity: "custom",
		},
		{
			name:               "login_when_configuration_missing",
			configuration:      &stubConfigurationReader{failure: errors.New("git config failed")},
			loginResolver:      &stubLoginResolver{login: "from-login"},
			expectedIdentity:   "from-login",
			expectedLoginCalls: 1,
		},
		{
			name:               "nothing_resolves",
			configuration:      &stubConfigurationReader{},
			loginResolver:      &stubLoginResolver{failure: errors.New("gh: not logged in")},
			expectedLoginCalls: 1,
			expectError:        true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			var loginResolver branches.LoginResolver
			if testCase.loginResolver != nil {
				loginResolver = testCase.loginResolver
			}
			source := branches.NewConfiguredIdentitySource(testCase.configuredAuthor, testCase.configurationKey, testCase.configuration, loginResolver, zap.NewNop())

			identity, resolveError := source.ResolveIdentity(context.Background(), "/tmp/repository")
			if testCase.expectError {
				require.ErrorIs(testInstance, resolveError, branches.ErrIdentityNotConfigured)
			} else {
				require.NoError(testInstance, resolveError)
				require.Equal(testInstance, testCase.expectedIdentity, identity)
			}
			if testCase.loginResolver != nil {
				require.Equal(testInstance, testCase.expectedLoginCalls, testCase.loginResolver.calls)
			}
		})
	}
}

func TestConfiguredIdentitySourceWithoutCollaborators(testInstance *testing.T) {
	source := branches.NewConfiguredIdentitySource("", "", nil, nil, nil)
	_, resolveError := source.ResolveIdentity(context.Background(), "/tmp/repository")
	require.ErrorIs(testInstance, resolveError, branches.ErrIdentityNotConfigured)
}
