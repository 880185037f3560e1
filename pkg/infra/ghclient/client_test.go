package ghclient_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/infra/ghclient"
	"github.com/secmon-lab/argus/pkg/utils/testutil"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("create client with token", func(t *testing.T) {
		_, err := ghclient.New(ctx, types.GitHubToken("ghp_dummy"))
		gt.NoError(t, err)
	})

	t.Run("empty token fails", func(t *testing.T) {
		client, err := ghclient.New(ctx, types.GitHubToken(""))
		gt.Error(t, err)
		gt.V(t, client).Equal(nil)
	})

	t.Run("app auth with zero app ID fails", func(t *testing.T) {
		client, err := ghclient.NewWithApp(0, 67890, types.GitHubAppPrivateKey("test-key"))
		gt.Error(t, err)
		gt.V(t, client).Equal(nil)
	})

	t.Run("app auth with empty private key fails", func(t *testing.T) {
		client, err := ghclient.NewWithApp(12345, 67890, types.GitHubAppPrivateKey(""))
		gt.Error(t, err)
		gt.V(t, client).Equal(nil)
	})

	t.Run("app auth with malformed private key fails", func(t *testing.T) {
		client, err := ghclient.NewWithApp(12345, 67890, types.GitHubAppPrivateKey("not-a-pem"))
		gt.Error(t, err)
		gt.V(t, client).Equal(nil)
	})
}

func TestListOrgRepos_Integration(t *testing.T) {
	token := testutil.GetEnvOrSkip(t, "TEST_GITHUB_TOKEN")
	org := testutil.GetEnvOrSkip(t, "TEST_GITHUB_ORG")

	ctx := context.Background()
	client := gt.R1(ghclient.New(ctx, types.GitHubToken(token))).NoError(t)

	repos := gt.R1(client.ListOrgRepos(ctx, org)).NoError(t)
	gt.A(t, repos).Longer(0)
	for _, repo := range repos {
		gt.V(t, repo.GetFullName() == "").Equal(false)
	}
}
