package gitrepo

import (
	"fmt"
	"strings"
)

const (
	sshProtocolPrefixConstant             = "ssh://"
	httpsProtocolPrefixConstant           = "https://"
	sshUserDelimiterConstant              = "@"
	sshPathDelimiterConstant              = ":"
	pathSeparatorConstant                 = "/"
	gitSuffixConstant                     = ".git"
	repositoryIdentifierTemplateConstant  = "%s/%s"
	remoteURLParseErrorTemplateConstant   = "cannot parse remote url %q: %s"
	emptyRemoteURLMessageConstant         = "remote url is empty"
	unsupportedRemoteShapeMessageConstant = "unsupported remote url shape"
	missingHostMessageConstant            = "host is missing"
	missingOwnerMessageConstant           = "owner is missing"
	missingRepositoryMessageConstant      = "repository name is missing"
	missingGitSuffixMessageConstant       = "repository name lacks the .git suffix"
	unexpectedPathMessageConstant         = "path must contain exactly owner/name"
)

// RemoteProtocol enumerates supported git remote protocols.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
)

// RemoteURL is a parsed hosted-repository remote.
type RemoteURL struct {
	Protocol   RemoteProtocol
	Host       string
	Owner      string
	Repository string
}

// Identifier returns the owner/name form used by code-review queries.
func (remote RemoteURL) Identifier() string {
	return fmt.Sprintf(repositoryIdentifierTemplateConstant, remote.Owner, remote.Repository)
}

// RemoteURLParseError reports a remote URL that does not identify a hosted repository.
type RemoteURLParseError struct {
	Input  string
	Reason string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Reason)
}

// ParseRemoteURL accepts git@host:owner/name.git, ssh://git@host/owner/name.git
// and https://host/owner/name.git. Anything else, including URLs without the
// .git suffix, is rejected with RemoteURLParseError.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Reason: emptyRemoteURLMessageConstant}
	}

	var (
		protocol RemoteProtocol
		host     string
		path     string
	)

	switch {
	case strings.HasPrefix(trimmedRemote, httpsProtocolPrefixConstant):
		protocol = RemoteProtocolHTTPS
		host, path, _ = strings.Cut(strings.TrimPrefix(trimmedRemote, httpsProtocolPrefixConstant), pathSeparatorConstant)
		if at := strings.LastIndex(host, sshUserDelimiterConstant); at >= 0 {
			host = host[at+1:]
		}
	case strings.HasPrefix(trimmedRemote, sshProtocolPrefixConstant):
		protocol = RemoteProtocolSSH
		authority, remainder, _ := strings.Cut(strings.TrimPrefix(trimmedRemote, sshProtocolPrefixConstant), pathSeparatorConstant)
		host = authority[strings.LastIndex(authority, sshUserDelimiterConstant)+1:]
		if colon := strings.Index(host, sshPathDelimiterConstant); colon >= 0 {
			host = host[:colon]
		}
		path = remainder
	case strings.Contains(trimmedRemote, sshUserDelimiterConstant) && strings.Contains(trimmedRemote, sshPathDelimiterConstant):
		protocol = RemoteProtocolSSH
		authority, remainder, _ := strings.Cut(trimmedRemote, sshPathDelimiterConstant)
		host = authority[strings.LastIndex(authority, sshUserDelimiterConstant)+1:]
		path = remainder
	default:
		return RemoteURL{}, RemoteURLParseError{Input: remote, Reason: unsupportedRemoteShapeMessageConstant}
	}

	if len(strings.TrimSpace(host)) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Reason: missingHostMessageConstant}
	}

	owner, repository, reason := splitOwnerAndRepository(path)
	if len(reason) > 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Reason: reason}
	}

	return RemoteURL{Protocol: protocol, Host: host, Owner: owner, Repository: repository}, nil
}

func splitOwnerAndRepository(path string) (string, string, string) {
	segments := strings.Split(strings.Trim(path, pathSeparatorConstant), pathSeparatorConstant)
	if len(segments) == 1 {
		return "", "", missingOwnerMessageConstant
	}
	if len(segments) != 2 {
		return "", "", unexpectedPathMessageConstant
	}
	owner := strings.TrimSpace(segments[0])
	if len(owner) == 0 {
		return "", "", missingOwnerMessageConstant
	}
	if !strings.HasSuffix(segments[1], gitSuffixConstant) {
		return "", "", missingGitSuffixMessageConstant
	}
	repository := strings.TrimSuffix(segments[1], gitSuffixConstant)
	if len(strings.TrimSpace(repository)) == 0 {
		return "", "", missingRepositoryMessageConstant
	}
	return owner, repository, ""
}
