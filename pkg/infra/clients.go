package infra

import (
	"net/http"

	"github.com/secmon-lab/argus/pkg/domain/interfaces"
)

// Clients bundles the external collaborators the use case layer depends on.
type Clients struct {
	githubClient interfaces.GitHubClient
	httpClient   interfaces.HTTPClient
}

type Option func(*Clients)

func New(options ...Option) *Clients {
	client := &Clients{
		httpClient: http.DefaultClient,
	}

	for _, opt := range options {
		opt(client)
	}

	return client
}

func (x *Clients) GitHub() interfaces.GitHubClient {
	return x.githubClient
}
func (x *Clients) HTTPClient() interfaces.HTTPClient {
	return x.httpClient
}

func WithGitHubClient(client interfaces.GitHubClient) Option {
	return func(x *Clients) {
		x.githubClient = client
	}
}

func WithHTTPClient(client interfaces.HTTPClient) Option {
	return func(x *Clients) {
		x.httpClient = client
	}
}
