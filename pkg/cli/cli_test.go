package cli_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/brief/pkg/cli"
	"github.com/m-mizutani/gt"
)

const testCredentials = `{"type": "service_account", "project_id": "brief-test"}`

// clearEnv makes sure values from the developer environment do not leak into flags
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"GOOGLE_APPLICATION_CREDENTIALS_JSON",
		"GOOGLE_CLOUD_PROJECT",
		"BRIEF_LLM_API_KEY",
		"BRIEF_LLM_PROVIDER",
		"BRIEF_AM_SCHEDULE",
		"BRIEF_PM_SCHEDULE",
	} {
		t.Setenv(key, "")
		gt.NoError(t, os.Unsetenv(key))
	}
}

func TestRunCommandArguments(t *testing.T) {
	testCases := []struct {
		name string
		argv []string
		msg  string
	}{
		{
			name: "missing period",
			argv: []string{"brief", "run"},
			msg:  "AM or PM",
		},
		{
			name: "invalid period",
			argv: []string{"brief", "run", "noon"},
			msg:  "period must be AM or PM",
		},
		{
			name: "too many arguments",
			argv: []string{"brief", "run", "AM", "PM"},
			msg:  "exactly one argument",
		},
		{
			name: "daily with argument",
			argv: []string{"brief", "daily", "AM"},
			msg:  "daily takes no arguments",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			err := cli.Run(context.Background(), tc.argv)
			gt.V(t, err).NotNil()
			gt.Equal(t, err.Code, 1)
			gt.S(t, err.Message).Contains(tc.msg)
		})
	}
}

func TestRunCommandConfiguration(t *testing.T) {
	testCases := []struct {
		name string
		argv []string
		msg  string
	}{
		{
			name: "missing credentials",
			argv: []string{"brief", "run", "--llm-api-key", "k", "AM"},
			msg:  "credentials-json is required",
		},
		{
			name: "malformed credentials",
			argv: []string{"brief", "run", "--credentials-json", "{not json", "--llm-api-key", "k", "am"},
			msg:  "failed to parse credentials JSON",
		},
		{
			name: "null credentials",
			argv: []string{"brief", "daily", "--credentials-json", "null", "--llm-api-key", "k"},
			msg:  "credentials JSON must be an object",
		},
		{
			name: "credentials without project",
			argv: []string{"brief", "daily", "--credentials-json", `{"type": "service_account"}`, "--llm-api-key", "k"},
			msg:  "project is required",
		},
		{
			name: "missing API key",
			argv: []string{"brief", "run", "--credentials-json", testCredentials, "PM"},
			msg:  "llm-api-key is required",
		},
		{
			name: "unknown provider",
			argv: []string{"brief", "daily", "--credentials-json", testCredentials, "--llm-api-key", "k", "--llm-provider", "mistral"},
			msg:  "invalid llm-provider",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			err := cli.Run(context.Background(), tc.argv)
			gt.V(t, err).NotNil()
			gt.Equal(t, err.Code, 1)
			gt.S(t, err.Message).Contains(tc.msg)
		})
	}
}

func TestScheduleCommandInvalidCron(t *testing.T) {
	clearEnv(t)
	err := cli.Run(context.Background(), []string{
		"brief", "schedule",
		"--credentials-json", testCredentials,
		"--llm-api-key", "k",
		"--am-schedule", "every morning",
	})
	gt.V(t, err).NotNil()
	gt.S(t, err.Message).Contains("invalid cron expression")
}
