package types

import "log/slog"

type (
	GitHubToken         string
	GitHubAppID         int64
	GitHubAppPrivateKey string
	GitHubAppInstallID  int64
	WebhookSecret       string
	OrgName             string
	RepoID              int64
	RepoFullName        string
	BranchName          string
)

func (x GitHubToken) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x GitHubToken) String() string {
	return "***********"
}

func (x WebhookSecret) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x WebhookSecret) String() string {
	return "***********"
}

func (x GitHubAppPrivateKey) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x GitHubAppPrivateKey) String() string {
	return "***********"
}

func (x RepoFullName) String() string {
	return string(x)
}
