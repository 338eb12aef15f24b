package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/entities"
)

func TestActivityLogs_Endpoint(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", "secret123", entities.UserRoleAdmin)
	lender := env.seedUser(t, "lender", "secret123", entities.UserRoleLender)

	// Creating a borrower writes an audit entry
	w := env.do(t, http.MethodPost, "/api/v1/borrowers", env.tokenFor(t, lender), map[string]string{
		"name": "Ravi Kumar", "username": "ravi", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/activity-logs", env.tokenFor(t, admin), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	logs := decodeBody(t, w)["logs"].([]interface{})
	require.NotEmpty(t, logs)
	first := logs[0].(map[string]interface{})
	assert.Equal(t, entities.ActionBorrowerCreated, first["action"])
	assert.Equal(t, lender.ID.String(), first["userId"])
}

func TestActivityLogs_LimitQuery(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", "secret123", entities.UserRoleAdmin)
	lender := env.seedUser(t, "lender", "secret123", entities.UserRoleLender)

	for _, username := range []string{"ravi", "anita", "vijay"} {
		w := env.do(t, http.MethodPost, "/api/v1/borrowers", env.tokenFor(t, lender), map[string]string{
			"name": username, "username": username, "password": "secret123",
		}, nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/v1/activity-logs?limit=2", env.tokenFor(t, admin), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["logs"].([]interface{}), 2)
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, float64(3), meta["totalCount"])
	assert.Equal(t, float64(2), meta["totalPages"])
}

func TestActivityLogs_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	lender := env.seedUser(t, "lender", "secret123", entities.UserRoleLender)

	w := env.do(t, http.MethodGet, "/api/v1/activity-logs", env.tokenFor(t, lender), nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/activity-logs", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
