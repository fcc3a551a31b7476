// Package tests holds the shared postgres-backed integration test fixture.
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uksimracing/website/internal/webhook"
)

var ErrContainer = errors.New("failed to bring up test container")

type postgresContainer struct {
	testcontainers.Container
	dbName   string
	user     string
	password string
	dsn      string
}

func newDB(ctx context.Context) (*postgresContainer, error) {
	const testInfo = "uksr-test"
	username, password, dbName := testInfo, testInfo, testInfo

	cont, errContainer := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: "postgres:16-alpine",
			HostConfigModifier: func(config *container.HostConfig) {
				config.AutoRemove = false
			},
			Env: map[string]string{
				"POSTGRES_DB":       dbName,
				"POSTGRES_USER":     username,
				"POSTGRES_PASSWORD": password,
			},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor: wait.
				ForLog("database system is ready to accept connections").
				WithOccurrence(2),
		},
		Started: true,
	})
	if errContainer != nil {
		return nil, errors.Join(errContainer, ErrContainer)
	}

	port, _ := cont.MappedPort(ctx, "5432")
	dsn := fmt.Sprintf("postgresql://%s:%s@localhost:%s/%s", username, password, port.Port(), dbName)

	pgContainer := postgresContainer{
		Container: cont,
		dbName:    dbName,
		user:      username,
		password:  password,
		dsn:       dsn,
	}

	return &pgContainer, nil
}

// Tokens holds the credentials sent with a request.
type Tokens struct {
	Bearer        string
	WebhookSecret string
}

// MasterTokens returns the legacy master credential accepted by the
// authorization middleware.
func MasterTokens() *Tokens {
	return &Tokens{Bearer: "master-authenticated"}
}

// ModeratorTokens returns a username/password style moderator credential.
func ModeratorTokens(adminID int) *Tokens {
	return &Tokens{Bearer: fmt.Sprintf("moderator-authenticated-%d", adminID)}
}

func Endpoint(t *testing.T, router http.Handler, method string, path string, body any, expectedStatus int, tokens *Tokens) *httptest.ResponseRecorder {
	t.Helper()

	reqCtx, cancel := context.WithTimeout(t.Context(), time.Second*10)
	defer cancel()

	recorder := httptest.NewRecorder()

	var bodyReader io.Reader

	if body != nil {
		bodyJSON, errJSON := json.Marshal(body)
		if errJSON != nil {
			t.Fatalf("Failed to encode request: %v", errJSON)
		}

		bodyReader = bytes.NewReader(bodyJSON)
	}

	request, errRequest := http.NewRequestWithContext(reqCtx, method, path, bodyReader)
	if errRequest != nil {
		t.Fatalf("Failed to make request: %v", errRequest)
	}

	if tokens != nil {
		if tokens.Bearer != "" {
			request.Header.Add("Authorization", "Bearer "+tokens.Bearer)
		}

		if tokens.WebhookSecret != "" {
			request.Header.Add(webhook.SecretHeader, tokens.WebhookSecret)
		}
	}

	router.ServeHTTP(recorder, request)

	require.Equal(t, expectedStatus, recorder.Code,
		"Received invalid response code. method: %s path: %s body: %s", method, path, recorder.Body.String())

	return recorder
}

func EndpointReceiver(t *testing.T, router http.Handler, method string,
	path string, body any, expectedStatus int, tokens *Tokens, receiver any,
) {
	t.Helper()

	resp := Endpoint(t, router, method, path, body, expectedStatus, tokens)
	if receiver != nil {
		if err := json.NewDecoder(resp.Body).Decode(&receiver); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
}
