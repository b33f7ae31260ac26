//go:build integration

package integration

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
)

// testContext holds state shared across step definitions within a scenario.
type testContext struct {
	baseURL      string
	remote       *fakeRemote
	client       *http.Client
	response     *http.Response
	responseBody []byte
}

// reset starts a fresh browser session and clears response state.
func (tc *testContext) reset() {
	jar, _ := cookiejar.New(nil)
	tc.client = &http.Client{Timeout: 10 * time.Second, Jar: jar}
	tc.response = nil
	tc.responseBody = nil
}

// initializer registers step definitions. Each scenario gets its own
// cookie jar, so it acts as a new browser session.
func initializer(baseURL string, remote *fakeRemote) func(*godog.ScenarioContext) {
	return func(ctx *godog.ScenarioContext) {
		tc := &testContext{baseURL: baseURL, remote: remote}

		ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
			tc.reset()
			return ctx, nil
		})

		ctx.Step(`^the service is running$`, tc.theServiceIsRunning)
		ctx.Step(`^the remote source serves:$`, tc.theRemoteSourceServes)
		ctx.Step(`^the remote source is down$`, tc.theRemoteSourceIsDown)
		ctx.Step(`^I request GET "([^"]*)"$`, tc.iRequestGET)
		ctx.Step(`^I send (POST|PUT) "([^"]*)" with JSON:$`, tc.iSendJSON)
		ctx.Step(`^I send POST "([^"]*)"$`, tc.iSendPOST)
		ctx.Step(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
		ctx.Step(`^the response should contain "([^"]*)"$`, tc.theResponseShouldContain)
		ctx.Step(`^the response should contain '([^']*)'$`, tc.theResponseShouldContain)
		ctx.Step(`^the response should not contain "([^"]*)"$`, tc.theResponseShouldNotContain)
		ctx.Step(`^the response should not contain '([^']*)'$`, tc.theResponseShouldNotContain)
	}
}

// theServiceIsRunning verifies the service is reachable.
func (tc *testContext) theServiceIsRunning() error {
	if err := tc.do(http.MethodGet, "/-/live", "", nil); err != nil {
		return fmt.Errorf("service is not running at %s: %w", tc.baseURL, err)
	}

	if tc.response.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status %d", tc.response.StatusCode)
	}

	return nil
}

func (tc *testContext) theRemoteSourceServes(doc *godog.DocString) error {
	if tc.remote == nil {
		return godog.ErrPending
	}

	tc.remote.serve(http.StatusOK, doc.Content)

	return nil
}

func (tc *testContext) theRemoteSourceIsDown() error {
	if tc.remote == nil {
		return godog.ErrPending
	}

	tc.remote.serve(http.StatusServiceUnavailable, `{"message":"maintenance"}`)

	return nil
}

func (tc *testContext) iRequestGET(path string) error {
	return tc.do(http.MethodGet, path, "", nil)
}

func (tc *testContext) iSendJSON(method, path string, doc *godog.DocString) error {
	return tc.do(method, path, "application/json", strings.NewReader(doc.Content))
}

func (tc *testContext) iSendPOST(path string) error {
	return tc.do(http.MethodPost, path, "", nil)
}

func (tc *testContext) do(method, path, contentType string, body io.Reader) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if body == nil {
		body = http.NoBody
	}

	req, err := http.NewRequestWithContext(ctx, method, tc.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	tc.response = resp

	tc.responseBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	return nil
}

// theResponseStatusShouldBe asserts the response status code.
func (tc *testContext) theResponseStatusShouldBe(expectedCode int) error {
	if tc.response == nil {
		return fmt.Errorf("no response received")
	}

	if tc.response.StatusCode != expectedCode {
		return fmt.Errorf("expected status %d, got %d. Body: %s",
			expectedCode, tc.response.StatusCode, string(tc.responseBody))
	}

	return nil
}

// theResponseShouldContain asserts the response body contains the given text.
func (tc *testContext) theResponseShouldContain(text string) error {
	if !bytes.Contains(tc.responseBody, []byte(text)) {
		return fmt.Errorf("response body does not contain %q.\nBody: %s", text, tc.responseBody)
	}

	return nil
}

func (tc *testContext) theResponseShouldNotContain(text string) error {
	if bytes.Contains(tc.responseBody, []byte(text)) {
		return fmt.Errorf("response body unexpectedly contains %q.\nBody: %s", text, tc.responseBody)
	}

	return nil
}

// TestFeatures runs the GoDog BDD suite. With BASE_URL set it targets a
// running service and skips the scenarios that drive the remote source;
// otherwise it starts the service in-process.
func TestFeatures(t *testing.T) {
	baseURL := os.Getenv("BASE_URL")

	var remote *fakeRemote

	if baseURL == "" {
		s := startStack(t)
		baseURL, remote = s.URL, s.remote
	}

	suite := godog.TestSuite{
		ScenarioInitializer: initializer(baseURL, remote),
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
