package provider

import "github.com/me/wfsynth/pkg/model"

// DefaultGitHub returns the placeholder GitHub Actions account used when no
// compute server is configured.
func DefaultGitHub() model.ComputeProvider {
	return model.ComputeProvider{
		Name: "My_GitHub_Account",
		Kind: model.ProviderGitHubActions,
		GitHub: &model.GitHubSpec{
			UserName:       "YOUR_GITHUB_USERNAME",
			ActionRepoName: "faasr-synthetic-example",
			Branch:         "main",
		},
	}
}

// DefaultOpenWhisk returns a placeholder OpenWhisk account.
func DefaultOpenWhisk() model.ComputeProvider {
	return model.ComputeProvider{
		Name: "My_OW_Account",
		Kind: model.ProviderOpenWhisk,
		OpenWhisk: &model.OpenWhiskSpec{
			Namespace: "YOUR_OW_USERNAME",
			Endpoint:  "YOUR_OW_ENDPOINT",
		},
	}
}

// DefaultLambda returns a placeholder AWS Lambda account.
func DefaultLambda() model.ComputeProvider {
	return model.ComputeProvider{
		Name:   "My_Lambda_Account",
		Kind:   model.ProviderLambda,
		Lambda: &model.LambdaSpec{Region: "us-east-1"},
	}
}

// DefaultMulti returns one provider of every kind, in ring order.
func DefaultMulti() []model.ComputeProvider {
	return []model.ComputeProvider{
		{
			Name: "GH",
			Kind: model.ProviderGitHubActions,
			GitHub: &model.GitHubSpec{
				UserName:       "YOUR_GITHUB_USERNAME",
				ActionRepoName: "faasr-synthetic-example",
				Branch:         "main",
			},
		},
		{
			Name:   "AWS",
			Kind:   model.ProviderLambda,
			Lambda: &model.LambdaSpec{Region: "us-east-1", MemoryMB: 1024, TimeLimitSeconds: 900},
		},
		{
			Name: "OW",
			Kind: model.ProviderOpenWhisk,
			OpenWhisk: &model.OpenWhiskSpec{
				Namespace: "YOUR_OW_USERNAME",
				Endpoint:  "YOUR_OW_ENDPOINT",
				SSL:       true,
			},
		},
		{
			Name: "GCP",
			Kind: model.ProviderGoogleCloud,
			GoogleCloud: &model.GoogleCloudSpec{
				Namespace:   "YOUR_GCP_PROJECT",
				Region:      "us-central1",
				Endpoint:    "https://run.googleapis.com/v2/projects/",
				ClientEmail: "YOUR_SERVICE_ACCOUNT_EMAIL",
				TokenURI:    "https://oauth2.googleapis.com/token",
			},
		},
		{
			Name: "SLURM",
			Kind: model.ProviderSLURM,
			SLURM: &model.SLURMSpec{
				Endpoint:         "YOUR_SLURM_ENDPOINT",
				APIVersion:       "v0.0.37",
				Partition:        "faasr",
				Nodes:            1,
				Tasks:            1,
				CPUsPerTask:      1,
				MemoryMB:         1024,
				TimeLimitMinutes: 60,
				WorkingDirectory: "/tmp",
			},
		},
	}
}
