package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate/internal/auth"
	"estate/internal/model"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"propsearch"}, args...))
	return out.String(), err
}

func TestMaskCommand(t *testing.T) {
	out, err := run(t, "mask", "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "98XXXXXX10\n", out)

	_, err = run(t, "mask")
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PG_DRIVER", "")

	out, err := run(t, "token", "--role", "customer", "--user", "12", "--agent", "2", "--secret", "cli-secret")
	require.NoError(t, err)

	caller, err := auth.NewIssuer("cli-secret", time.Hour).ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, caller.Role)
	assert.Equal(t, int64(12), caller.UserID)
	assert.Equal(t, int64(2), caller.AgentID)

	_, err = run(t, "token", "--role", "customer")
	assert.Error(t, err)

	_, err = run(t, "token", "--role", "landlord", "--secret", "x")
	assert.Error(t, err)
}

func TestQueryCommandOverSeedCorpus(t *testing.T) {
	t.Setenv("PG_DRIVER", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("AUDIT_AMQP_URL", "")

	out, err := run(t, "query", "--memory", "--no-interpreter", "--sort", "price_asc", "1", "BHK", "under", "20000")
	require.NoError(t, err)
	assert.Contains(t, out, `"total": 1`)
	assert.Contains(t, out, `"contact_number": "97XXXXXX44"`)

	_, err = run(t, "query", "--memory")
	assert.Error(t, err)

	_, err = run(t, "query", "--memory", "--sort", "random", "flat")
	assert.Error(t, err)
}
